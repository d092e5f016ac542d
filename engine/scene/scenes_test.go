package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogScenesRenderAndRelease(t *testing.T) {
	for _, entry := range Catalog() {
		t.Run(entry.ID, func(t *testing.T) {
			e := newTestEnv(t)
			s, err := entry.Open(e.env)
			require.NoError(t, err)
			assert.Equal(t, entry.ID, s.ID())

			e.frame(t, s)
			menuDraws := len(e.rec.Draws)
			assert.Positive(t, menuDraws)

			e.frame(t, s, common.KeyEsc)
			e.frame(t, s)
			assert.Greater(t, len(e.rec.Draws), menuDraws)

			s.Close()
			for id, p := range e.rec.Programs {
				assert.True(t, p.Released, "program %d (%s) leaked", id, p.Desc.Label)
			}
			for id, m := range e.rec.Meshes {
				assert.True(t, m.Released, "mesh %d (%s) leaked", id, m.Label)
			}
			for id, tex := range e.rec.Textures {
				assert.True(t, tex.Released, "texture %d (%s) leaked", id, tex.Label)
			}
			for id, b := range e.rec.Buffers {
				assert.True(t, b.Released, "buffer %d (%s) leaked", id, b.Label)
			}
		})
	}
}

func TestCatalogOrder(t *testing.T) {
	var ids []string
	for _, e := range Catalog() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"forest", "lightning-balls", "forest-lights", "hello-texture", "models", "fireflies", "basic-triangle"}, ids)
}

func TestSceneMissingAssetFails(t *testing.T) {
	e := newTestEnv(t)
	e.env.Settings.Skybox = SkyboxFaces("nowhere", "jpg")
	_, err := NewModels(e.env)
	assert.ErrorContains(t, err, "models")
}

func openForest(t *testing.T, e *testEnv) *forest {
	t.Helper()
	s, err := NewForest(e.env)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s.(*forest)
}

func TestForestScatterWithinRadius(t *testing.T) {
	e := newTestEnv(t)
	f := openForest(t, e)

	require.Len(t, f.trees, defaultTrees)
	require.Len(t, f.bushes, defaultBushes)
	for _, obj := range append(append([]game_object.GameObject(nil), f.trees...), f.bushes...) {
		pos := obj.ModelMatrix().MulVec4(common.Vec4{0, 0, 0, 1}).Vec3()
		assert.LessOrEqual(t, pos.Len(), float32(defaultScatterRadius)+1e-3)
		assert.InDelta(t, 0, pos[1], 1e-5)
	}
}

func TestForestMenuKeys(t *testing.T) {
	e := newTestEnv(t)
	f := openForest(t, e)

	e.frame(t, f, common.KeyT)
	e.frame(t, f, common.KeyN)
	assert.Len(t, f.trees, defaultTrees+treeStep)
	assert.Len(t, f.bushes, defaultBushes-bushStep)
	assert.Contains(t, e.host.title(), "trees 60")

	for range 30 {
		e.frame(t, f, common.KeyG)
	}
	assert.Equal(t, minTrees, f.numTrees)

	before := f.trees[0].ModelMatrix()
	e.frame(t, f, common.KeyR)
	assert.NotEqual(t, before, f.trees[0].ModelMatrix())

	e.frame(t, f, common.KeyL)
	assert.Equal(t, float32(defaultScatterRadius+1), f.radius)
}

func TestForestFrustumCulling(t *testing.T) {
	e := newTestEnv(t)
	f := openForest(t, e)
	total := defaultTrees + defaultBushes

	e.frame(t, f)
	assert.Less(t, f.drawn, total)

	e.frame(t, f, common.KeyC)
	assert.False(t, f.culling)
	e.frame(t, f)
	assert.Equal(t, total, f.drawn)
}

func TestForestLightsBindCollection(t *testing.T) {
	e := newTestEnv(t)
	f := openForest(t, e)

	e.frame(t, f)
	assert.Equal(t, 2, f.collection.Len(), "sun and flashlight")
	lit := 0
	for _, d := range e.rec.Draws {
		if d.Program == f.lights.ProgramID() {
			lit++
			assert.Equal(t, f.collection.Buffer(), d.Storage[0])
		}
	}
	assert.Equal(t, f.drawn, lit)
}

func TestLightningBallsToggleFlagsAndReset(t *testing.T) {
	e := newTestEnv(t)
	s, err := NewLightningBalls(e.env)
	require.NoError(t, err)
	defer s.Close()
	b := s.(*lightningBalls)

	assert.Equal(t, common.Vec3{0, 10, 0}, b.Camera().Position())
	assert.Equal(t, float32(-89), b.Camera().Pitch())

	e.frame(t, b, common.Key1)
	e.frame(t, b, common.Key4)
	assert.Equal(t, material.FlagDiffuse|material.FlagSpecular, b.lights.Flags())

	e.frame(t, b, common.Key1)
	assert.True(t, b.lights.Flags().Has(material.FlagAmbient))

	b.Camera().SetPosition(common.Vec3{5, 5, 5})
	e.frame(t, b, common.KeyPageUp)
	e.frame(t, b, common.KeyR)
	assert.Equal(t, common.Vec3{0, 10, 0}, b.Camera().Position())
	assert.Equal(t, float32(60), b.Camera().Projection().Fov())

	ballDraws := 0
	for _, d := range e.rec.Draws {
		if d.Mesh == b.sphere {
			ballDraws++
		}
	}
	assert.Equal(t, 5*len(ballPositions), ballDraws)
}

func TestForestLightsMovesLight(t *testing.T) {
	e := newTestEnv(t)
	s, err := NewForestLights(e.env)
	require.NoError(t, err)
	defer s.Close()
	fl := s.(*forestLights)

	e.frame(t, fl)
	assert.InDelta(t, lightMovementSpeed/60.0, fl.point.Position()[0], 1e-5)
	angle, err := fl.tree.Transform().At(0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/60, angle.Angle, 1e-6)

	for range 200 {
		fl.moveLight(1.0 / 60)
	}
	assert.LessOrEqual(t, fl.point.Position()[0], float32(lightTravel+1))
	assert.GreaterOrEqual(t, fl.point.Position()[0], float32(-lightTravel-1))

	e.frame(t, fl, common.KeyM)
	x := fl.point.Position()[0]
	e.frame(t, fl)
	assert.Equal(t, x, fl.point.Position()[0])

	e.frame(t, fl, common.KeyL)
	assert.Equal(t, x+1, fl.point.Position()[0])
}

func TestHelloTextureDrawsBothTextures(t *testing.T) {
	e := newTestEnv(t)
	s, err := NewHelloTexture(e.env)
	require.NoError(t, err)
	defer s.Close()
	h := s.(*helloTexture)

	e.frame(t, h)
	var textures []uint32
	for _, d := range e.rec.Draws {
		if d.Program == h.textured.ProgramID() {
			textures = append(textures, uint32(d.Textures[0]))
		}
	}
	assert.Equal(t, []uint32{uint32(h.fence), uint32(h.grass)}, textures)
}

func TestModelsUsesWhiteFallback(t *testing.T) {
	e := newTestEnv(t)
	s, err := NewModels(e.env)
	require.NoError(t, err)
	defer s.Close()
	m := s.(*models)

	e.frame(t, m)
	last := e.rec.Draws[len(e.rec.Draws)-1]
	assert.Equal(t, m.textured.ProgramID(), last.Program)
	assert.Equal(t, m.white, last.Textures[0])
	assert.Contains(t, e.host.title(), "house (1 parts)")
	// The unit cube has a bounding radius of sqrt(3).
	assert.InDelta(t, modelRadius/1.7320508, m.matrix[0], 1e-4)
}

func TestFirefliesAddAndRemove(t *testing.T) {
	e := newTestEnv(t)
	s, err := NewFireflies(e.env)
	require.NoError(t, err)
	defer s.Close()
	f := s.(*fireflies)

	assert.Equal(t, defaultFireflies+1, f.collection.Len())
	e.frame(t, f, common.KeyF)
	assert.Len(t, f.flies, defaultFireflies+1)
	assert.Equal(t, defaultFireflies+2, f.collection.Len())

	for range defaultFireflies + 5 {
		e.frame(t, f, common.KeyG)
	}
	assert.Empty(t, f.flies)
	assert.Equal(t, 1, f.collection.Len(), "only the moon is left")

	for range maxFireflies + 3 {
		f.addFirefly()
	}
	assert.Len(t, f.flies, maxFireflies)
}
