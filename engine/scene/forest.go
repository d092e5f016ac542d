package scene

import (
	"fmt"
	"math/rand/v2"

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
	ForestID = "forest"

	defaultTrees         = 50
	defaultBushes        = 300
	defaultScatterRadius = 10

	minTrees, maxTrees, treeStep       = 10, 200, 10
	minBushes, maxBushes, bushStep     = 50, 2000, 50
	minScatterRadius, maxScatterRadius = 3, 50
)

// Bounding spheres of the procedural meshes in model space, used for frustum culling.
var (
	treeBounds = game_object.Sphere{Center: common.Vec3{0, 1.4, 0}, Radius: 1.6}
	bushBounds = game_object.Sphere{Center: common.Vec3{0, 0.25, 0}, Radius: 0.5}
)

// forest scatters trees and bushes on a disc, lit by a sun above the origin and a flashlight
// held by the camera. Instances outside the view frustum are skipped.
type forest struct {
	*Basic
	rng *rand.Rand

	lights     *programs.Lights
	lightCube  *programs.LightCube
	collection light.Collection
	sun        light.Light
	flashlight light.Light

	tree, bush renderer.MeshID

	numTrees, numBushes int
	radius              float32
	trees, bushes       []game_object.GameObject
	culling             bool
	drawn               int
}

// NewForest creates the forest scene.
//
// Parameters:
//   - env: the application environment
//
// Returns:
//   - Scene: the scene
//   - error: error if a program or mesh cannot be created
func NewForest(env Env) (Scene, error) {
	f := &forest{
		rng:       env.rand(),
		numTrees:  defaultTrees,
		numBushes: defaultBushes,
		radius:    defaultScatterRadius,
		culling:   true,
	}
	f.Basic = NewBasic(env, ForestID, f)
	if err := f.init(); err != nil {
		f.Close()
		return nil, fmt.Errorf("scene %s: %w", ForestID, err)
	}
	return f, nil
}

func (f *forest) init() error {
	env := f.Env()
	ctx := env.context()

	var err error
	if f.tree, err = f.UploadMesh(model.Tree()); err != nil {
		return err
	}
	if f.bush, err = f.UploadMesh(model.Bush()); err != nil {
		return err
	}
	cube, err := f.UploadMesh(model.Cube())
	if err != nil {
		return err
	}

	f.collection, err = light.NewCollection(env.Backend(), ForestID)
	if err != nil {
		return err
	}
	f.OnClose(f.collection.Release)

	if f.lights, err = programs.LoadLights(ctx, env.Binder, env.Assets, f.collection); err != nil {
		return err
	}
	f.Observe(f.lights)
	if f.lightCube, err = programs.LoadLightCube(ctx, env.Binder, env.Assets, cube); err != nil {
		return err
	}
	f.Observe(f.lightCube)

	f.lights.ApplyBlinnPhong()
	f.lights.SetMaterial(material.NewMaterial(
		material.WithName("foliage"),
		material.WithAmbient(common.Vec4{0.1, 0.1, 0.1, 0.1}),
		material.WithDiffuse(common.Vec4{0.419, 0.678, 0.274, 1}),
		material.WithSpecular(common.Vec4{0.047, 1, 0, 1}),
		material.WithShininess(64),
	))

	f.sun = light.NewLight(f.collection,
		light.WithPosition(common.Vec3{0, 10, 0}),
		light.WithColor(common.Vec3{1, 1, 1}),
		light.WithMarker(f.lightCube),
	)
	f.OnClose(f.sun.Close)
	f.flashlight = light.NewFlashlight(f.collection, f.Camera())
	f.OnClose(f.flashlight.Close)

	f.scatterAll()
	return nil
}

// scatter places num instances uniformly on a disc of the scene radius. Each instance is
// turned by the cosine of its polar angle; the rotation is applied after the translation.
func (f *forest) scatter(num int, mesh renderer.MeshID, bounds game_object.Sphere) []game_object.GameObject {
	out := make([]game_object.GameObject, 0, num)
	for range num {
		theta := f.rng.Float32() * 2 * math32.Pi
		r := f.radius * math32.Sqrt(f.rng.Float32())
		out = append(out, game_object.NewGameObject(
			game_object.WithMesh(mesh),
			game_object.WithBounds(bounds),
			game_object.WithTransform(transform.NewBuilder().
				RotateY(math32.Cos(theta)).
				MoveX(r * math32.Cos(theta)).
				MoveZ(r * math32.Sin(theta))),
		))
	}
	return out
}

func (f *forest) scatterTrees() {
	f.trees = f.scatter(f.numTrees, f.tree, treeBounds)
}

func (f *forest) scatterBushes() {
	f.bushes = f.scatter(f.numBushes, f.bush, bushBounds)
}

func (f *forest) scatterAll() {
	f.scatterTrees()
	f.scatterBushes()
}

func (f *forest) HandleMenuKeys(input window.Input) bool {
	changed := true
	switch {
	case input.WasPressed(common.KeyT):
		f.numTrees = min(f.numTrees+treeStep, maxTrees)
		f.scatterTrees()
	case input.WasPressed(common.KeyG):
		f.numTrees = max(f.numTrees-treeStep, minTrees)
		f.scatterTrees()
	case input.WasPressed(common.KeyB):
		f.numBushes = min(f.numBushes+bushStep, maxBushes)
		f.scatterBushes()
	case input.WasPressed(common.KeyN):
		f.numBushes = max(f.numBushes-bushStep, minBushes)
		f.scatterBushes()
	case input.WasPressed(common.KeyL):
		f.radius = min(f.radius+1, maxScatterRadius)
		f.scatterAll()
	case input.WasPressed(common.KeyH):
		f.radius = max(f.radius-1, minScatterRadius)
		f.scatterAll()
	case input.WasPressed(common.KeyR):
		f.scatterAll()
	case input.WasPressed(common.KeyC):
		f.culling = !f.culling
	default:
		changed = false
	}
	return changed
}

func (f *forest) Status() string {
	return fmt.Sprintf("trees %d (T/G) bushes %d (B/N) radius %.0f (H/L) culling %t (C)", f.numTrees, f.numBushes, f.radius, f.culling)
}

func (f *forest) frustum() (common.Frustum, bool) {
	projection := f.Camera().Projection()
	if !f.culling || projection.Size().Width == 0 || projection.Size().Height == 0 {
		return common.Frustum{}, false
	}
	return common.ExtractFrustum(projection.Matrix().Mul(f.Camera().View())), true
}

func (f *forest) RenderScene(Frame) {
	f.lightCube.Bind()
	f.sun.Render()
	f.flashlight.Render()
	f.lightCube.Unbind()

	frustum, cull := f.frustum()
	f.drawn = 0
	draw := func(objects []game_object.GameObject) {
		for _, obj := range objects {
			if !obj.Enabled() {
				continue
			}
			if cull {
				if bounds := obj.BoundingSphere(); !frustum.ContainsSphere(bounds.Center, bounds.Radius) {
					continue
				}
			}
			f.lights.ModelMatrix(obj.ModelMatrix())
			f.lights.Draw(obj.Mesh())
			f.drawn++
		}
	}

	f.lights.Bind()
	draw(f.trees)
	draw(f.bushes)
	f.lights.Unbind()
}
