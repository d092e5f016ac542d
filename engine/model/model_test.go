package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertOutwardWinding checks that every triangle's counter-clockwise face normal points the
// same way as its vertex normals.
func assertOutwardWinding(t *testing.T, m Mesh) {
	t.Helper()
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Vertices[m.Indices[i]], m.Vertices[m.Indices[i+1]], m.Vertices[m.Indices[i+2]]
		face := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		if face.Len() < 1e-6 {
			continue
		}
		avg := a.Normal.Add(b.Normal).Add(c.Normal)
		require.Greater(t, face.Dot(avg), float32(0), "%s triangle %d winds inward", m.Name, i/3)
	}
}

func TestVertexMarshal(t *testing.T) {
	v := Vertex{Position: common.Vec3{1, 2, 3}, Normal: common.Vec3{0, 1, 0}, TexCoord: [2]float32{0.5, 0.25}}

	buf := v.Marshal()

	require.Len(t, buf, renderer.VertexStride)
	assert.Equal(t, renderer.VertexStride, v.Size())
	assert.Equal(t, []float32{1, 2, 3, 0, 1, 0, 0.5, 0.25}, renderertest.DecodeFloats(buf))
	assert.Len(t, MarshalVertices([]Vertex{v, v}), 2*renderer.VertexStride)
}

func TestCube(t *testing.T) {
	m := Cube()

	assert.Len(t, m.Vertices, 24)
	assert.Len(t, m.Indices, 36)
	assert.Equal(t, common.Vec3{-1, -1, -1}, m.BoundingMin)
	assert.Equal(t, common.Vec3{1, 1, 1}, m.BoundingMax)
	assertOutwardWinding(t, m)
}

func TestPlane(t *testing.T) {
	m := Plane(10, 4)

	assert.Equal(t, common.Vec3{-5, 0, -5}, m.BoundingMin)
	assert.Equal(t, common.Vec3{5, 0, 5}, m.BoundingMax)
	assert.Equal(t, [2]float32{4, 4}, m.Vertices[2].TexCoord)
	assertOutwardWinding(t, m)
}

func TestTriangle(t *testing.T) {
	m := Triangle()

	assert.Len(t, m.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	assert.Equal(t, common.Vec3{-0.5, -0.5, 0}, m.BoundingMin)
	assert.Equal(t, common.Vec3{0.5, 0.5, 0}, m.BoundingMax)
	assertOutwardWinding(t, m)
}

func TestSphere(t *testing.T) {
	m := Sphere(2, 8, 16)

	assert.Len(t, m.Vertices, 9*17)
	assert.Len(t, m.Indices, 8*16*6)
	for _, v := range m.Vertices {
		assert.InDelta(t, 2, v.Position.Len(), 1e-4)
		assert.InDelta(t, 1, v.Normal.Len(), 1e-4)
	}
	assertOutwardWinding(t, m)
}

func TestTreeAndBush(t *testing.T) {
	tree := Tree()
	assertOutwardWinding(t, tree)
	assert.Equal(t, float32(0), tree.BoundingMin[1])
	assert.InDelta(t, 2.8, tree.BoundingMax[1], 1e-4)
	assert.Equal(t, -1, tree.MaterialIndex)

	bush := Bush()
	assertOutwardWinding(t, bush)
	assert.InDelta(t, -0.05, bush.BoundingMin[1], 1e-4)
	assert.InDelta(t, 0.55, bush.BoundingMax[1], 1e-4)
}

func TestMergeOffsetsIndices(t *testing.T) {
	a, b := Plane(1, 1), Plane(1, 1)

	m := Merge("two", a, b)

	assert.Len(t, m.Vertices, 8)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}, m.Indices)
}

func TestGenerateNormals(t *testing.T) {
	vertices := []Vertex{
		{Position: common.Vec3{0, 0, 0}},
		{Position: common.Vec3{0, 0, 1}},
		{Position: common.Vec3{1, 0, 0}},
		{Position: common.Vec3{5, 5, 5}},
	}

	GenerateNormals(vertices, []uint32{0, 1, 2})

	for _, v := range vertices[:3] {
		assert.Equal(t, common.Vec3{0, 1, 0}, v.Normal)
	}
	assert.Equal(t, common.Vec3{0, 1, 0}, vertices[3].Normal)
}

type drawRecorder struct {
	textures []renderer.TextureID
	meshes   []renderer.MeshID
}

func (d *drawRecorder) Draw(mesh renderer.MeshID)          { d.meshes = append(d.meshes, mesh) }
func (d *drawRecorder) SetTexture(tex renderer.TextureID) { d.textures = append(d.textures, tex) }

func TestUploadDrawRelease(t *testing.T) {
	rec := renderertest.New()
	pixels := &common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}
	plain := material.NewMaterial(material.WithName("plain"))
	textured := material.NewMaterial(material.WithName("wood"), material.WithDiffuseTexture(pixels))
	roof, walls := Plane(1, 1), Cube()
	roof.MaterialIndex, walls.MaterialIndex = 1, 0
	m := NewModel(WithName("house"), WithMeshes(roof, walls), WithMaterials(plain, textured))

	assert.Panics(t, func() { m.Parts() })
	require.NoError(t, m.Upload(rec))
	assert.True(t, m.Uploaded())
	assert.Panics(t, func() { _ = m.Upload(rec) })

	parts := m.Parts()
	require.Len(t, parts, 2)
	assert.Equal(t, textured, parts[0].Material)
	assert.NotZero(t, parts[0].Texture)
	assert.Zero(t, parts[1].Texture)
	assert.Equal(t, 36, len(rec.Meshes[parts[1].Mesh].Indices))

	d := &drawRecorder{}
	m.Draw(d)
	assert.Equal(t, []renderer.MeshID{parts[0].Mesh, parts[1].Mesh}, d.meshes)
	assert.Equal(t, []renderer.TextureID{parts[0].Texture}, d.textures)

	m.Release()
	assert.False(t, m.Uploaded())
	assert.True(t, rec.Meshes[parts[0].Mesh].Released)
	assert.True(t, rec.Textures[parts[0].Texture].Released)
	m.Release()
}

func TestUploadFailureReleasesCreated(t *testing.T) {
	rec := renderertest.New()
	empty := Mesh{Name: "empty", MaterialIndex: -1}
	m := NewModel(WithName("broken"), WithMeshes(Cube(), empty))

	err := m.Upload(rec)

	require.Error(t, err)
	assert.False(t, m.Uploaded())
	for _, mesh := range rec.Meshes {
		assert.True(t, mesh.Released)
	}
}

func TestBoundingRadius(t *testing.T) {
	m := NewModel(WithMeshes(Sphere(3, 4, 4)))
	assert.InDelta(t, 3, m.BoundingRadius(), 1e-4)
}
