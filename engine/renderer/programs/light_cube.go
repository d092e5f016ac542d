package programs

import (
	"context"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
)

// LightCube draws a flat-colored cube at a light's position. It is the marker renderer of
// light.Light.
type LightCube struct {
	*shader.Program
	cube  renderer.MeshID
	color common.Vec4
}

var _ light.Marker = &LightCube{}

// LoadLightCube loads the marker program from "light_cube.vert.wgsl" and
// "light_cube.frag.wgsl". The color starts white.
//
// Parameters:
//   - ctx: cancellation for the source reads
//   - binder: the GPU context
//   - sources: where shader sources are read from
//   - cube: the cube mesh every marker is drawn with
//   - options: extra program options
//
// Returns:
//   - *LightCube: the unbound program
//   - error: error if loading fails
func LoadLightCube(ctx context.Context, binder *shader.Binder, sources shader.SourceReader, cube renderer.MeshID, options ...shader.ProgramBuilderOption) (*LightCube, error) {
	p, err := load(ctx, binder, sources, "light_cube", "light_cube", options...)
	if err != nil {
		return nil, err
	}
	c := &LightCube{Program: p, cube: cube}
	c.SetLightColor(common.Vec4{1, 1, 1, 1})
	return c, nil
}

// SetLightColor uploads the cube color, binding the program for the upload if it is unbound.
//
// Parameters:
//   - color: the RGBA color
func (c *LightCube) SetLightColor(color common.Vec4) {
	c.color = color
	c.WithBound(func() {
		c.BindParam("lightColor", shader.Vec4(color))
	})
}

// LightColor returns the color last set.
func (c *LightCube) LightColor() common.Vec4 {
	return c.color
}

// DrawMarker draws the cube with model and color. The program must be bound.
func (c *LightCube) DrawMarker(model common.Mat4, color common.Vec4) {
	c.SetLightColor(color)
	c.ModelMatrix(model)
	c.Draw(c.cube)
}

// ReloadSources recompiles the program and re-uploads the color.
func (c *LightCube) ReloadSources(ctx context.Context) error {
	if err := c.Program.ReloadSources(ctx); err != nil {
		return err
	}
	c.SetLightColor(c.color)
	return nil
}
