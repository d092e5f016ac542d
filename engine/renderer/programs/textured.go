package programs

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
)

// Textured draws meshes with a diffuse texture sampled at DiffuseUnit and no lighting.
type Textured struct {
	*shader.Program
	backend renderer.Backend
	texture renderer.TextureID
}

// LoadTextured loads the textured program from "textured.vert.wgsl" and "textured.frag.wgsl".
//
// Parameters:
//   - ctx: cancellation for the source reads
//   - binder: the GPU context
//   - sources: where shader sources are read from
//   - options: extra program options
//
// Returns:
//   - *Textured: the unbound program with no texture selected
//   - error: error if loading fails
func LoadTextured(ctx context.Context, binder *shader.Binder, sources shader.SourceReader, options ...shader.ProgramBuilderOption) (*Textured, error) {
	p, err := load(ctx, binder, sources, "textured", "textured", options...)
	if err != nil {
		return nil, err
	}
	t := &Textured{Program: p, backend: binder.Backend()}
	p.OnBind(t.bindTexture)
	return t, nil
}

// SetTexture selects the texture drawn by the following draws. While bound the texture is
// attached to DiffuseUnit immediately; otherwise it is attached on the next Bind.
//
// Parameters:
//   - tex: the texture
func (t *Textured) SetTexture(tex renderer.TextureID) {
	t.texture = tex
	if t.IsBound() {
		t.backend.BindTexture(tex, DiffuseUnit)
	}
}

// Texture returns the selected texture, or 0.
func (t *Textured) Texture() renderer.TextureID {
	return t.texture
}

func (t *Textured) bindTexture() {
	if t.texture != 0 {
		t.backend.BindTexture(t.texture, DiffuseUnit)
	}
}

// Draw panics if no texture was selected.
func (t *Textured) Draw(mesh renderer.MeshID) {
	if t.texture == 0 {
		panic(fmt.Sprintf("programs: draw with %s before a texture was selected", t.Label()))
	}
	t.Program.Draw(mesh)
}
