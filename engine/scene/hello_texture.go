package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/programs"
	"github.com/Carmen-Shannon/oxy-viewer/engine/transform"
	"github.com/chewxy/math32"
)

const (
	HelloTextureID = "hello-texture"

	fenceTexture = "wooden_fence.png"
	grassTexture = "grass.png"
)

// helloTexture draws two upright textured quads spinning about Y in front of a daylight
// skybox.
type helloTexture struct {
	*Basic
	textured *programs.Textured
	skybox   *programs.Skybox
	plane    renderer.MeshID
	fence    renderer.TextureID
	grass    renderer.TextureID

	// trans is a translation followed by the shared spin.
	trans *transform.Builder
}

// NewHelloTexture creates the textured plane scene.
//
// Parameters:
//   - env: the application environment
//
// Returns:
//   - Scene: the scene
//   - error: error if a texture, program or mesh cannot be created
func NewHelloTexture(env Env) (Scene, error) {
	s := &helloTexture{trans: transform.NewBuilder().MoveX(0).RotateY(0)}
	s.Basic = NewBasic(env, HelloTextureID, s)
	if err := s.init(); err != nil {
		s.Close()
		return nil, fmt.Errorf("scene %s: %w", HelloTextureID, err)
	}
	return s, nil
}

func (s *helloTexture) init() error {
	env := s.Env()
	ctx := env.context()
	if err := env.Assets.Prefetch(ctx, append([]string{fenceTexture, grassTexture}, brightSkybox[:]...)...); err != nil {
		return err
	}

	upright := model.Plane(1, 1).Transformed(common.RotationMatrix(common.Vec3{1, 0, 0}, math32.Pi/2))
	var err error
	if s.plane, err = s.UploadMesh(upright); err != nil {
		return err
	}
	if s.fence, err = s.UploadTexture(fenceTexture); err != nil {
		return err
	}
	if s.grass, err = s.UploadTexture(grassTexture); err != nil {
		return err
	}
	if s.skybox, err = s.LoadSkybox(brightSkybox); err != nil {
		return err
	}
	if s.textured, err = programs.LoadTextured(ctx, env.Binder, env.Assets); err != nil {
		return err
	}
	s.Observe(s.textured)
	return nil
}

func (s *helloTexture) RenderScene(frame Frame) {
	s.skybox.Render()

	s.trans.MustAddRotation(1, frame.Delta)
	s.textured.Bind()
	for _, quad := range []struct {
		x       float32
		texture renderer.TextureID
	}{{0.5, s.fence}, {-0.5, s.grass}} {
		s.trans.MustSetTranslation(0, common.Vec3{quad.x, 0, 0})
		s.textured.SetTexture(quad.texture)
		s.textured.ModelMatrix(s.trans.Build())
		s.textured.Draw(s.plane)
	}
	s.textured.Unbind()
}
