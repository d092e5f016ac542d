package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/programs"
	"github.com/Carmen-Shannon/oxy-viewer/engine/transform"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

const (
	ForestLightsID = "forest-lights"

	treeRotationSpeed  = 1
	lightMovementSpeed = 6
	lightTravel        = 15
	lightRange         = 20
)

// forestLights shows a single rotating tree under a point light that sweeps along X.
type forestLights struct {
	*Basic
	lights     *programs.Lights
	lightCube  *programs.LightCube
	collection light.Collection
	point      light.Light
	tree       game_object.GameObject

	lightPos  common.Vec3
	autoMove  bool
	direction float32
}

// NewForestLights creates the rotating tree scene.
//
// Parameters:
//   - env: the application environment
//
// Returns:
//   - Scene: the scene
//   - error: error if a program or mesh cannot be created
func NewForestLights(env Env) (Scene, error) {
	s := &forestLights{
		lightPos:  common.Vec3{0, 10, 0},
		autoMove:  true,
		direction: 1,
	}
	s.Basic = NewBasic(env, ForestLightsID, s)
	if err := s.init(); err != nil {
		s.Close()
		return nil, fmt.Errorf("scene %s: %w", ForestLightsID, err)
	}
	return s, nil
}

func (s *forestLights) init() error {
	env := s.Env()
	ctx := env.context()

	tree, err := s.UploadMesh(model.Tree())
	if err != nil {
		return err
	}
	s.tree = game_object.NewGameObject(
		game_object.WithMesh(tree),
		game_object.WithTransform(transform.NewBuilder().RotateY(0)),
		game_object.WithSpin(0, treeRotationSpeed),
	)
	cube, err := s.UploadMesh(model.Cube())
	if err != nil {
		return err
	}
	if s.collection, err = light.NewCollection(env.Backend(), ForestLightsID); err != nil {
		return err
	}
	s.OnClose(s.collection.Release)

	if s.lights, err = programs.LoadLights(ctx, env.Binder, env.Assets, s.collection); err != nil {
		return err
	}
	s.Observe(s.lights)
	if s.lightCube, err = programs.LoadLightCube(ctx, env.Binder, env.Assets, cube); err != nil {
		return err
	}
	s.Observe(s.lightCube)

	s.lights.SetMaterial(material.NewMaterial(
		material.WithName("tree"),
		material.WithAmbient(common.Vec4{0.1, 0.1, 0.1, 1}),
		material.WithDiffuse(common.Vec4{0.2, 0.2, 0.2, 1}),
		material.WithSpecular(common.Vec4{0.3, 0.3, 0.3, 1}),
		material.WithShininess(8),
	))
	s.lights.ApplyBlinnPhong()

	s.point = light.NewLight(s.collection,
		light.WithPosition(s.lightPos),
		light.WithMarker(s.lightCube),
	)
	s.OnClose(s.point.Close)
	return nil
}

// moveLight sweeps the light between -15 and 15 on X, turning around at either end.
func (s *forestLights) moveLight(dt float32) {
	s.lightPos[0] += s.direction * dt * lightMovementSpeed
	switch {
	case s.lightPos[0] > lightTravel:
		s.direction = -1
	case s.lightPos[0] < -lightTravel:
		s.direction = 1
	}
	s.point.SetPosition(s.lightPos)
}

func (s *forestLights) HandleMenuKeys(input window.Input) bool {
	switch {
	case input.WasPressed(common.KeyM):
		s.autoMove = !s.autoMove
	case input.WasPressed(common.KeyL):
		s.lightPos[0] = common.Clamp(s.lightPos[0]+1, -lightRange, lightRange)
		s.point.SetPosition(s.lightPos)
	case input.WasPressed(common.KeyH):
		s.lightPos[0] = common.Clamp(s.lightPos[0]-1, -lightRange, lightRange)
		s.point.SetPosition(s.lightPos)
	default:
		return false
	}
	return true
}

func (s *forestLights) Status() string {
	return fmt.Sprintf("light x %.0f (H/L) auto-move %t (M)", s.lightPos[0], s.autoMove)
}

func (s *forestLights) RenderScene(frame Frame) {
	if s.autoMove {
		s.moveLight(frame.Delta)
	}

	s.lightCube.Bind()
	s.point.Render()
	s.lightCube.Unbind()

	s.tree.Update(frame.Delta)
	s.lights.Bind()
	s.lights.ModelMatrix(s.tree.ModelMatrix())
	s.lights.Draw(s.tree.Mesh())
	s.lights.Unbind()
}
