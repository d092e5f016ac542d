package model

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/chewxy/math32"
)

// Cube returns a cube spanning -1..1 on every axis with flat face normals and a full UV square
// on each face. Faces wind counter-clockwise seen from outside.
func Cube() Mesh {
	faces := []struct{ n, u, v common.Vec3 }{
		{common.Vec3{1, 0, 0}, common.Vec3{0, 0, -1}, common.Vec3{0, 1, 0}},
		{common.Vec3{-1, 0, 0}, common.Vec3{0, 0, 1}, common.Vec3{0, 1, 0}},
		{common.Vec3{0, 1, 0}, common.Vec3{1, 0, 0}, common.Vec3{0, 0, -1}},
		{common.Vec3{0, -1, 0}, common.Vec3{1, 0, 0}, common.Vec3{0, 0, 1}},
		{common.Vec3{0, 0, 1}, common.Vec3{1, 0, 0}, common.Vec3{0, 1, 0}},
		{common.Vec3{0, 0, -1}, common.Vec3{-1, 0, 0}, common.Vec3{0, 1, 0}},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	m := Mesh{Name: "cube", MaterialIndex: -1}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for _, c := range corners {
			m.Vertices = append(m.Vertices, Vertex{
				Position: f.n.Add(f.u.Scale(c[0])).Add(f.v.Scale(c[1])),
				Normal:   f.n,
				TexCoord: [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2},
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	m.ComputeBounds()
	return m
}

// Triangle returns a single triangle with unit edges in the XY plane, centered on the origin
// and facing +Z.
func Triangle() Mesh {
	front := common.Vec3{0, 0, 1}
	m := Mesh{
		Name: "triangle",
		Vertices: []Vertex{
			{Position: common.Vec3{-0.5, -0.5, 0}, Normal: front, TexCoord: [2]float32{0, 1}},
			{Position: common.Vec3{0.5, -0.5, 0}, Normal: front, TexCoord: [2]float32{1, 1}},
			{Position: common.Vec3{0, 0.5, 0}, Normal: front, TexCoord: [2]float32{0.5, 0}},
		},
		Indices:       []uint32{0, 1, 2},
		MaterialIndex: -1,
	}
	m.ComputeBounds()
	return m
}

// Plane returns a square on the XZ plane centered at the origin, facing +Y. The texture
// repeats repeat times along each edge.
//
// Parameters:
//   - size: the edge length
//   - repeat: the UV scale
//
// Returns:
//   - Mesh: the plane
func Plane(size, repeat float32) Mesh {
	h := size / 2
	up := common.Vec3{0, 1, 0}
	m := Mesh{
		Name: "plane",
		Vertices: []Vertex{
			{Position: common.Vec3{-h, 0, -h}, Normal: up, TexCoord: [2]float32{0, 0}},
			{Position: common.Vec3{-h, 0, h}, Normal: up, TexCoord: [2]float32{0, repeat}},
			{Position: common.Vec3{h, 0, h}, Normal: up, TexCoord: [2]float32{repeat, repeat}},
			{Position: common.Vec3{h, 0, -h}, Normal: up, TexCoord: [2]float32{repeat, 0}},
		},
		Indices:       []uint32{0, 1, 2, 0, 2, 3},
		MaterialIndex: -1,
	}
	m.ComputeBounds()
	return m
}

// Sphere returns a UV sphere centered at the origin.
//
// Parameters:
//   - radius: the sphere radius
//   - stacks: the number of latitude bands, at least 2
//   - slices: the number of longitude bands, at least 3
//
// Returns:
//   - Mesh: the sphere
func Sphere(radius float32, stacks, slices int) Mesh {
	stacks, slices = max(stacks, 2), max(slices, 3)
	m := Mesh{Name: "sphere", MaterialIndex: -1}
	for i := 0; i <= stacks; i++ {
		phi := math32.Pi * float32(i) / float32(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * math32.Pi * float32(j) / float32(slices)
			n := common.Vec3{
				math32.Sin(phi) * math32.Cos(theta),
				math32.Cos(phi),
				math32.Sin(phi) * math32.Sin(theta),
			}
			m.Vertices = append(m.Vertices, Vertex{
				Position: n.Scale(radius),
				Normal:   n,
				TexCoord: [2]float32{float32(j) / float32(slices), float32(i) / float32(stacks)},
			})
		}
	}
	row := uint32(slices + 1)
	for i := range uint32(stacks) {
		for j := range uint32(slices) {
			a := i*row + j
			b := a + row
			m.Indices = append(m.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	m.ComputeBounds()
	return m
}

// Frustum returns the open side of a truncated cone around the Y axis, from y0 to y0+height.
// A top radius of zero yields a cone. Normals are smoothed across the side.
//
// Parameters:
//   - bottom: the radius at y0
//   - top: the radius at y0+height
//   - height: the height
//   - y0: the base height
//   - slices: the number of side segments, at least 3
//
// Returns:
//   - Mesh: the side surface
func Frustum(bottom, top, height, y0 float32, slices int) Mesh {
	slices = max(slices, 3)
	m := Mesh{Name: "frustum", MaterialIndex: -1}
	for j := 0; j <= slices; j++ {
		theta := 2 * math32.Pi * float32(j) / float32(slices)
		c, s := math32.Cos(theta), math32.Sin(theta)
		u := float32(j) / float32(slices)
		m.Vertices = append(m.Vertices,
			Vertex{Position: common.Vec3{bottom * c, y0, bottom * s}, TexCoord: [2]float32{u, 1}},
			Vertex{Position: common.Vec3{top * c, y0 + height, top * s}, TexCoord: [2]float32{u, 0}},
		)
	}
	for j := range uint32(slices) {
		b0, t0, b1, t1 := 2*j, 2*j+1, 2*j+2, 2*j+3
		m.Indices = append(m.Indices, b0, t0, b1, b1, t0, t1)
	}
	GenerateNormals(m.Vertices, m.Indices)
	m.ComputeBounds()
	return m
}

// Tree returns a stylized conifer about 2.8 units tall: a trunk and two stacked cones.
func Tree() Mesh {
	return Merge("tree",
		Frustum(0.15, 0.1, 1, 0, 8),
		Frustum(0.9, 0, 1.4, 0.8, 12),
		Frustum(0.65, 0, 1.1, 1.7, 12),
	)
}

// Bush returns a flattened low-poly sphere resting on the ground.
func Bush() Mesh {
	t := common.TranslationMatrix(common.Vec3{0, 0.25, 0}).Mul(common.ScaleMatrix(common.Vec3{0.45, 0.3, 0.45}))
	m := Sphere(1, 6, 8).Transformed(t)
	m.Name = "bush"
	return m
}
