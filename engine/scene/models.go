package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/programs"
)

const (
	ModelsID = "models"

	// modelRadius is the bounding radius the shown model is scaled to.
	modelRadius = 5
)

// models shows an imported model in front of the configured skybox. Parts without a diffuse
// texture are drawn with a white texture.
type models struct {
	*Basic
	textured *programs.Textured
	skybox   *programs.Skybox
	model    model.Model
	white    renderer.TextureID
	matrix   common.Mat4
}

// NewModels creates the model viewer scene for the model named in the settings.
//
// Parameters:
//   - env: the application environment
//
// Returns:
//   - Scene: the scene
//   - error: error if the model, skybox or program cannot be loaded
func NewModels(env Env) (Scene, error) {
	s := &models{matrix: common.Ident4()}
	s.Basic = NewBasic(env, ModelsID, s)
	if err := s.init(); err != nil {
		s.Close()
		return nil, fmt.Errorf("scene %s: %w", ModelsID, err)
	}
	return s, nil
}

func (s *models) init() error {
	env := s.Env()
	ctx := env.context()
	settings := env.Settings
	if settings.Model == "" {
		return fmt.Errorf("no model configured")
	}
	if err := env.Assets.Prefetch(ctx, append([]string{settings.Model}, settings.Skybox[:]...)...); err != nil {
		return err
	}

	var err error
	if s.model, err = env.Assets.Model(ctx, settings.Model); err != nil {
		return err
	}
	if err := s.model.Upload(env.Backend()); err != nil {
		return err
	}
	s.OnClose(s.model.Release)
	if r := s.model.BoundingRadius(); r > 0 {
		s.matrix = common.ScaleMatrix(common.Vec3{1, 1, 1}.Scale(modelRadius / r))
	}

	backend := env.Backend()
	if s.white, err = backend.CreateTexture("white", common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
	}); err != nil {
		return err
	}
	s.OnClose(func() { backend.ReleaseTexture(s.white) })

	if s.skybox, err = s.LoadSkybox(settings.Skybox); err != nil {
		return err
	}
	if s.textured, err = programs.LoadTextured(ctx, env.Binder, env.Assets); err != nil {
		return err
	}
	s.Observe(s.textured)
	return nil
}

func (s *models) Status() string {
	return fmt.Sprintf("%s (%d parts)", s.model.Name(), len(s.model.Parts()))
}

func (s *models) RenderScene(Frame) {
	s.skybox.Render()

	s.textured.Bind()
	s.textured.ModelMatrix(s.matrix)
	for _, part := range s.model.Parts() {
		s.textured.SetTexture(common.Coalesce(part.Texture, s.white))
		s.textured.Draw(part.Mesh)
	}
	s.textured.Unbind()
}
