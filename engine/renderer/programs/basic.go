package programs

import (
	"context"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
)

// Basic colors surfaces by their object-space normal. It has no state beyond the transform
// uniforms.
type Basic struct {
	*shader.Program
}

// LoadBasic loads the basic program from "basic.vert.wgsl" and "basic.frag.wgsl".
//
// Parameters:
//   - ctx: cancellation for the source reads
//   - binder: the GPU context
//   - sources: where shader sources are read from
//   - options: extra program options
//
// Returns:
//   - *Basic: the unbound program
//   - error: error if loading fails
func LoadBasic(ctx context.Context, binder *shader.Binder, sources shader.SourceReader, options ...shader.ProgramBuilderOption) (*Basic, error) {
	p, err := load(ctx, binder, sources, "basic", "basic", options...)
	if err != nil {
		return nil, err
	}
	return &Basic{Program: p}, nil
}
