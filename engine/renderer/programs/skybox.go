package programs

import (
	"context"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
)

// Skybox draws a cubemap on a unit cube centered on the camera. The program is compiled
// read-only depth and the vertex stage pins the cube to the far plane, so the skybox may be
// drawn before or after the scene.
type Skybox struct {
	*shader.Program
	backend renderer.Backend
	cube    renderer.MeshID
	cubemap renderer.TextureID
	eye     common.Vec3
	follow  bool
}

// LoadSkybox loads the skybox program from "skybox.vert.wgsl" and "skybox.frag.wgsl". Camera
// events move the cube to the camera position while following is enabled.
//
// Parameters:
//   - ctx: cancellation for the source reads
//   - binder: the GPU context
//   - sources: where shader sources are read from
//   - cube: the cube mesh
//   - cubemap: the cube texture
//   - options: extra program options
//
// Returns:
//   - *Skybox: the unbound program
//   - error: error if loading fails
func LoadSkybox(ctx context.Context, binder *shader.Binder, sources shader.SourceReader, cube renderer.MeshID, cubemap renderer.TextureID, options ...shader.ProgramBuilderOption) (*Skybox, error) {
	s := &Skybox{backend: binder.Backend(), cube: cube, cubemap: cubemap, follow: true}
	opts := append([]shader.ProgramBuilderOption{
		shader.WithDepthMode(renderer.DepthReadOnly),
		shader.WithCameraHook(s.onCamera),
	}, options...)
	p, err := load(ctx, binder, sources, "skybox", "skybox", opts...)
	if err != nil {
		return nil, err
	}
	s.Program = p
	return s, nil
}

func (s *Skybox) onCamera(p *shader.Program, props camera.Properties) {
	shader.DefaultCameraHook(p, props)
	if s.follow {
		s.eye = props.Position
	}
}

// SetFollow enables or disables moving the cube with the camera.
//
// Parameters:
//   - follow: whether camera events move the cube
func (s *Skybox) SetFollow(follow bool) {
	s.follow = follow
}

// Center returns the position the cube is drawn at.
func (s *Skybox) Center() common.Vec3 {
	return s.eye
}

// Render binds the program, draws the cube around the camera and unbinds.
func (s *Skybox) Render() {
	s.Bind()
	s.ModelMatrix(common.TranslationMatrix(s.eye))
	s.backend.BindTexture(s.cubemap, DiffuseUnit)
	s.Draw(s.cube)
	s.Unbind()
}
