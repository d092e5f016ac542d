package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/programs"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

const LightningBallsID = "lightning-balls"

var (
	ballsCameraPosition = common.Vec3{0, 10, 0}
	ballPositions       = []common.Vec3{{3, 0, 3}, {-3, 0, 3}, {3, 0, -3}, {-3, 0, -3}}
	ballFlagKeys        = []struct {
		key  common.Key
		flag material.LightingFlags
	}{
		{common.Key1, material.FlagAmbient},
		{common.Key2, material.FlagDiffuse},
		{common.Key3, material.FlagSpecular},
		{common.Key4, material.FlagHalfway},
	}
)

// lightningBalls shows four spheres around a point light at the origin, seen from above. The
// terms of the lighting model are toggled individually from the menu.
type lightningBalls struct {
	*Basic
	lights     *programs.Lights
	collection light.Collection
	sphere     renderer.MeshID
}

// NewLightningBalls creates the lighting-model demo scene.
//
// Parameters:
//   - env: the application environment
//
// Returns:
//   - Scene: the scene
//   - error: error if a program or mesh cannot be created
func NewLightningBalls(env Env) (Scene, error) {
	s := &lightningBalls{}
	s.Basic = NewBasic(env, LightningBallsID, s, WithCameraOptions(
		camera.WithPosition(ballsCameraPosition),
		camera.WithAngles(0, -90),
	))
	if err := s.init(); err != nil {
		s.Close()
		return nil, fmt.Errorf("scene %s: %w", LightningBallsID, err)
	}
	return s, nil
}

func (s *lightningBalls) init() error {
	env := s.Env()
	var err error
	if s.sphere, err = s.UploadMesh(model.Sphere(1, 32, 32)); err != nil {
		return err
	}
	if s.collection, err = light.NewCollection(env.Backend(), LightningBallsID); err != nil {
		return err
	}
	s.OnClose(s.collection.Release)

	rec := light.NewRecord()
	rec.Position = common.Vec3{}
	s.collection.AddLight(rec)

	if s.lights, err = programs.LoadLights(env.context(), env.Binder, env.Assets, s.collection); err != nil {
		return err
	}
	s.Observe(s.lights)
	s.lights.SetFlags(material.FlagsBlinnPhong)
	s.lights.SetMaterial(material.NewMaterial(
		material.WithName("ball"),
		material.WithAmbient(common.Vec4{0.1, 0.1, 0.1, 0.1}),
		material.WithDiffuse(common.Vec4{0.5, 0.5, 0.5, 0.5}),
		material.WithSpecular(common.Vec4{0.7, 0.7, 0.7, 0.7}),
		material.WithShininess(32),
	))
	return nil
}

// resetCamera looks straight down on the balls from above with the default field of view.
func (s *lightningBalls) resetCamera() {
	cam := s.Camera()
	cam.SetPosition(ballsCameraPosition)
	cam.SetYaw(0)
	cam.SetPitch(-90)
	cam.Projection().SetFov(common.Coalesce(s.Env().Settings.Fov, 60))
}

func (s *lightningBalls) HandleMenuKeys(input window.Input) bool {
	changed := false
	for _, fk := range ballFlagKeys {
		if input.WasPressed(fk.key) {
			s.lights.SetFlag(fk.flag, !s.lights.Flags().Has(fk.flag))
			changed = true
		}
	}
	if input.WasPressed(common.KeyR) {
		s.resetCamera()
		changed = true
	}
	return changed
}

func (s *lightningBalls) Status() string {
	return fmt.Sprintf("lighting %s (1-4) | R reset camera", s.lights.Flags())
}

func (s *lightningBalls) RenderScene(Frame) {
	s.lights.Bind()
	for _, pos := range ballPositions {
		s.lights.ModelMatrix(common.TranslationMatrix(pos))
		s.lights.Draw(s.sphere)
	}
	s.lights.Unbind()
}
