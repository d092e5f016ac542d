package model

import (
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// Mesh is CPU-side triangle data. Generators and importers produce Meshes; a Model uploads
// them.
type Mesh struct {
	// Name is the mesh identifier, used as the GPU debug label.
	Name string

	// Vertices are the mesh vertices.
	Vertices []Vertex

	// Indices are the triangle list indices.
	Indices []uint32

	// MaterialIndex references the owning model's materials, or -1 for none.
	MaterialIndex int

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin common.Vec3

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax common.Vec3
}

// Part is one uploaded mesh of a Model together with its material and texture.
type Part struct {
	// Mesh is the GPU mesh.
	Mesh renderer.MeshID

	// Material is the material of the part, or nil.
	Material material.Material

	// Texture is the uploaded diffuse texture of the material, or 0.
	Texture renderer.TextureID
}

// --- Import Types ---

// ImportedModel represents a 3D model loaded from an external format.
// This is the universal format that importers produce.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes contains all mesh data, one entry per glTF primitive.
	Meshes []Mesh

	// Materials are the materials the meshes reference by index.
	Materials []material.Material
}

// ComputeBounds sets BoundingMin and BoundingMax from the vertex positions.
func (m *Mesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.BoundingMin, m.BoundingMax = common.Vec3{}, common.Vec3{}
		return
	}
	bmin := common.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	bmax := common.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, v := range m.Vertices {
		for j := range 3 {
			bmin[j] = min(bmin[j], v.Position[j])
			bmax[j] = max(bmax[j], v.Position[j])
		}
	}
	m.BoundingMin, m.BoundingMax = bmin, bmax
}

// Transformed returns a copy of m with positions multiplied by t and normals by the normal
// matrix of t.
//
// Parameters:
//   - t: the transform
//
// Returns:
//   - Mesh: the transformed copy
func (m Mesh) Transformed(t common.Mat4) Mesh {
	nm := common.NormalMatrix(t)
	out := m
	out.Vertices = make([]Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		v.Position = t.MulVec4(v.Position.Vec4(1)).Vec3()
		v.Normal = nm.MulVec4(v.Normal.Vec4(0)).Vec3().Normalize()
		out.Vertices[i] = v
	}
	out.Indices = append([]uint32(nil), m.Indices...)
	out.ComputeBounds()
	return out
}

// Merge concatenates meshes into one, offsetting indices. The result has no material.
//
// Parameters:
//   - name: the merged mesh name
//   - meshes: the meshes to join
//
// Returns:
//   - Mesh: the merged mesh
func Merge(name string, meshes ...Mesh) Mesh {
	out := Mesh{Name: name, MaterialIndex: -1}
	for _, m := range meshes {
		base := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	out.ComputeBounds()
	return out
}

// GenerateNormals computes smooth vertex normals from the triangle geometry. For each
// triangle the face normal is the cross product of its two edges, accumulated
// (area-weighted) onto every vertex of that triangle; the sums are normalized at the end.
// Vertices touched by no valid triangle get the up vector.
//
// Parameters:
//   - vertices: the vertex slice to write normal data into
//   - indices: the triangle index buffer (a multiple of 3)
func GenerateNormals(vertices []Vertex, indices []uint32) {
	n := len(vertices)
	accum := make([]common.Vec3, n)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}
		p0 := vertices[i0].Position
		face := vertices[i1].Position.Sub(p0).Cross(vertices[i2].Position.Sub(p0))
		for _, idx := range []uint32{i0, i1, i2} {
			accum[idx] = accum[idx].Add(face)
		}
	}

	for i := range n {
		if accum[i].Len() < 1e-6 {
			vertices[i].Normal = common.Vec3{0, 1, 0}
			continue
		}
		vertices[i].Normal = accum[i].Normalize()
	}
}
