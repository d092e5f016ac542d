// Package programs holds the concrete shader programs of the viewer: a normal-colored basic
// program, a textured program, the Phong lighting program with and without a diffuse texture,
// the light marker cube and the skybox. Each wrapper embeds a *shader.Program, so binding,
// camera and projection tracking and the model matrix contract come from the shader package.
package programs

import (
	"context"
	"embed"
	"fmt"
	"path"

	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/wgsl"
)

// Shaders holds the default shader sources under "assets/shaders", with the WGSL fragments
// the sources include under "assets/shaders/include". Asset managers fall back to it when a
// shader is not found on disk.
//
//go:embed assets/shaders/*.wgsl assets/shaders/include/*.wgsl
var Shaders embed.FS

// ShaderDir is the directory of Shaders that contains the sources.
const ShaderDir = "assets/shaders"

// IncludeDir is the directory, relative to the shader sources, that holds the included fragments.
const IncludeDir = "include"

// includeNames are the fragments read from IncludeDir, one "<name>.wgsl" file each.
var includeNames = []string{"transform_uniforms", "lit_uniforms", "cube_uniforms", "phong"}

// LightsSlot is the storage slot the light collection is bound to for lit programs.
const LightsSlot = 0

// DiffuseUnit is the texture unit sampled by the textured programs and the skybox.
const DiffuseUnit = 0

// NewPreProcessor returns a pre-processor that knows every include the programs use: the
// uniform blocks, the vertex input, the Phong helpers, the Light record and the Material. The
// uniform blocks and the Phong helpers are read from sources under IncludeDir, so an edited
// include on disk takes effect on the next load or reload.
//
// Parameters:
//   - ctx: cancellation for the include reads
//   - sources: where the include files are read from
//
// Returns:
//   - wgsl.PreProcessor: the pre-processor
//   - error: error if an include cannot be read
func NewPreProcessor(ctx context.Context, sources shader.SourceReader) (wgsl.PreProcessor, error) {
	opts := []wgsl.PreProcessorOption{
		wgsl.WithInclude("light", wgsl.Include{Source: light.RecordSource, Type: light.RecordTypeName}),
		wgsl.WithInclude("material", wgsl.Include{Source: material.Source, Type: material.TypeName}),
		wgsl.WithInclude("vertex_input", wgsl.Include{Source: model.VertexSource}),
	}
	for _, name := range includeNames {
		src, err := sources.ReadShader(ctx, path.Join(IncludeDir, name+".wgsl"))
		if err != nil {
			return nil, fmt.Errorf("failed to read include %q: %w", name, err)
		}
		opts = append(opts, wgsl.WithInclude(name, wgsl.Include{Source: src}))
	}
	return wgsl.NewPreProcessor(opts...), nil
}

// load compiles a program from "<name>.vert.wgsl" and "<fragment>.frag.wgsl" with the shared
// pre-processor. Caller options are applied after the defaults.
func load(ctx context.Context, binder *shader.Binder, sources shader.SourceReader, name, fragment string, options ...shader.ProgramBuilderOption) (*shader.Program, error) {
	opts := append([]shader.ProgramBuilderOption{
		shader.WithLabel(name),
		shader.WithPreProcessorFactory(NewPreProcessor),
	}, options...)
	return shader.LoadProgram(ctx, binder, sources, name+".vert.wgsl", fragment+".frag.wgsl", opts...)
}
