package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/programs"
	"github.com/Carmen-Shannon/oxy-viewer/engine/transform"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/chewxy/math32"
)

const (
	FirefliesID = "fireflies"

	defaultFireflies = 12
	maxFireflies     = 64
	groundSize       = 30
	groundRepeat     = 10
	ringTrees        = 8
	ringRadius       = 6
)

// fireflies lights a grassy clearing with wandering fireflies and a dim moon. The ground and
// the ring of trees share one light collection through two lit programs.
type fireflies struct {
	*Basic
	ground     *programs.Lights
	foliage    *programs.Lights
	lightCube  *programs.LightCube
	collection light.Collection
	moon       light.Light
	flies      []light.Firefly

	plane, tree renderer.MeshID
	trees       []game_object.GameObject
}

// NewFireflies creates the fireflies scene.
//
// Parameters:
//   - env: the application environment
//
// Returns:
//   - Scene: the scene
//   - error: error if a texture, program or mesh cannot be created
func NewFireflies(env Env) (Scene, error) {
	s := &fireflies{}
	s.Basic = NewBasic(env, FirefliesID, s)
	if err := s.init(); err != nil {
		s.Close()
		return nil, fmt.Errorf("scene %s: %w", FirefliesID, err)
	}
	return s, nil
}

func (s *fireflies) init() error {
	env := s.Env()
	ctx := env.context()

	var err error
	if s.plane, err = s.UploadMesh(model.Plane(groundSize, groundRepeat)); err != nil {
		return err
	}
	if s.tree, err = s.UploadMesh(model.Tree()); err != nil {
		return err
	}
	cube, err := s.UploadMesh(model.Cube())
	if err != nil {
		return err
	}
	grass, err := s.UploadTexture(grassTexture)
	if err != nil {
		return err
	}

	if s.collection, err = light.NewCollection(env.Backend(), FirefliesID); err != nil {
		return err
	}
	s.OnClose(s.collection.Release)

	if s.ground, err = programs.LoadLightsTextured(ctx, env.Binder, env.Assets, s.collection); err != nil {
		return err
	}
	s.Observe(s.ground)
	s.ground.SetTexture(grass)
	s.ground.SetMaterial(material.NewMaterial(
		material.WithName("grass"),
		material.WithAmbient(common.Vec4{0.05, 0.05, 0.05, 1}),
		material.WithDiffuse(common.Vec4{1, 1, 1, 1}),
		material.WithSpecular(common.Vec4{0.1, 0.1, 0.1, 1}),
		material.WithShininess(4),
	))

	if s.foliage, err = programs.LoadLights(ctx, env.Binder, env.Assets, s.collection); err != nil {
		return err
	}
	s.Observe(s.foliage)
	s.foliage.ApplyBlinnPhong()
	s.foliage.SetMaterial(material.NewMaterial(
		material.WithName("foliage"),
		material.WithAmbient(common.Vec4{0.05, 0.05, 0.05, 1}),
		material.WithDiffuse(common.Vec4{0.419, 0.678, 0.274, 1}),
		material.WithSpecular(common.Vec4{0.047, 1, 0, 1}),
		material.WithShininess(32),
	))

	if s.lightCube, err = programs.LoadLightCube(ctx, env.Binder, env.Assets, cube); err != nil {
		return err
	}
	s.Observe(s.lightCube)

	s.moon = light.NewLight(s.collection,
		light.WithType(light.LightTypeDirectional),
		light.WithDirection(common.Vec3{-0.3, -1, -0.2}),
		light.WithColor(common.Vec3{0.15, 0.15, 0.25}),
		light.WithMarkerHidden(),
	)
	s.OnClose(s.moon.Close)
	s.OnClose(s.closeFlies)

	for range defaultFireflies {
		s.addFirefly()
	}
	for i := range ringTrees {
		angle := float32(i) * 2 * math32.Pi / ringTrees
		s.trees = append(s.trees, game_object.NewGameObject(
			game_object.WithMesh(s.tree),
			game_object.WithTransform(transform.NewBuilder().Translate(common.Vec3{
				ringRadius * math32.Cos(angle), 0, ringRadius * math32.Sin(angle),
			})),
		))
	}
	return nil
}

func (s *fireflies) addFirefly() {
	if len(s.flies) >= maxFireflies {
		return
	}
	s.flies = append(s.flies, light.NewFirefly(s.collection, s.Env().rand(), light.WithMarker(s.lightCube)))
}

func (s *fireflies) removeFirefly() {
	if len(s.flies) == 0 {
		return
	}
	last := len(s.flies) - 1
	s.flies[last].Close()
	s.flies = s.flies[:last]
}

func (s *fireflies) closeFlies() {
	for _, f := range s.flies {
		f.Close()
	}
	s.flies = nil
}

func (s *fireflies) HandleMenuKeys(input window.Input) bool {
	switch {
	case input.WasPressed(common.KeyF):
		s.addFirefly()
	case input.WasPressed(common.KeyG):
		s.removeFirefly()
	default:
		return false
	}
	return true
}

func (s *fireflies) Status() string {
	return fmt.Sprintf("fireflies %d (F/G)", len(s.flies))
}

func (s *fireflies) RenderScene(frame Frame) {
	s.lightCube.Bind()
	for _, f := range s.flies {
		f.Update(frame.Delta)
		f.Render()
	}
	s.lightCube.Unbind()

	s.ground.Bind()
	s.ground.ModelMatrix(common.Ident4())
	s.ground.Draw(s.plane)
	s.ground.Unbind()

	s.foliage.Bind()
	for _, t := range s.trees {
		s.foliage.ModelMatrix(t.ModelMatrix())
		s.foliage.Draw(t.Mesh())
	}
	s.foliage.Unbind()
}
