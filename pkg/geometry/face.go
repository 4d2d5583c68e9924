package geometry

import "github.com/df07/portal-gi/pkg/core"

// Face is a quad made of four ordered vertices. The constituent triangles
// are (v0,v1,v2) and (v0,v2,v3); the four vertices need not be coplanar, so
// the face normal is the average of the two triangle normals and its area
// is the sum of the two triangle areas (spec.md section 3).
type Face struct {
	V            [4]Vertex
	Material     *core.Material
	RadiosityIdx int // index into the radiosity solver's per-patch arrays
	normal       core.Vec3
	area         float64
}

// NewFace builds a face and precomputes its normal and area.
func NewFace(v0, v1, v2, v3 Vertex, mat *core.Material, radiosityIdx int) *Face {
	f := &Face{V: [4]Vertex{v0, v1, v2, v3}, Material: mat, RadiosityIdx: radiosityIdx}
	f.recompute()
	return f
}

func (f *Face) recompute() {
	p := [4]core.Vec3{f.V[0].Position, f.V[1].Position, f.V[2].Position, f.V[3].Position}
	n1 := p[1].Subtract(p[0]).Cross(p[2].Subtract(p[0]))
	n2 := p[2].Subtract(p[0]).Cross(p[3].Subtract(p[0]))
	f.normal = n1.Add(n2).Normalize()
	f.area = AreaOfTriangle(p[0], p[1], p[2]) + AreaOfTriangle(p[0], p[2], p[3])
}

// Normal returns the (average-of-two-triangles) face normal.
func (f *Face) Normal() core.Vec3 { return f.normal }

// Hit intersects a ray against the face as two triangles. backfaceCull
// disables hits on triangles facing away from the ray (spec.md 4.1); it is
// normally the negation of the scene-wide intersect_backfacing option.
func (f *Face) Hit(ray core.Ray, tMin, tMax float64, backfaceCull bool) (core.Hit, bool) {
	best := core.NewHit()
	best.T = tMax
	found := false

	type tri struct {
		a, b, c Vertex
	}
	tris := [2]tri{
		{f.V[0], f.V[1], f.V[2]},
		{f.V[0], f.V[2], f.V[3]},
	}

	for _, t := range tris {
		th, ok := intersectTriangle(ray, t.a.Position, t.b.Position, t.c.Position, backfaceCull, f.normal)
		if !ok {
			continue
		}
		if th.T <= core.Epsilon || th.T < tMin || th.T >= best.T {
			continue
		}
		alpha := 1 - th.Beta - th.Gamma
		uv := core.Vec2{
			X: alpha*t.a.UV.X + th.Beta*t.b.UV.X + th.Gamma*t.c.UV.X,
			Y: alpha*t.a.UV.Y + th.Beta*t.b.UV.Y + th.Gamma*t.c.UV.Y,
		}
		best.T = th.T
		best.Point = ray.PointAt(th.T)
		best.UV = uv
		best.Material = f.Material
		best.SetFaceNormal(ray, f.normal)
		found = true
	}

	return best, found
}

// BoundingBox returns the AABB of the face's four corners.
func (f *Face) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(f.V[0].Position, f.V[1].Position, f.V[2].Position, f.V[3].Position)
}

// AreaSum returns the face's surface area (sum of its two triangles).
func (f *Face) AreaSum() float64 { return f.area }

// RandomPoint returns a uniformly sampled point on the face, used for area
// light sampling and form-factor/photon-emission sampling. It samples
// uniformly over the quad's (u,v) parallelogram approximation: corner +
// s*(v1-v0) + t*(v3-v0), which is exact when the face is planar and a good
// approximation otherwise (consistent with the rest of the renderer
// treating faces as bilinear quads for sampling purposes).
func (f *Face) RandomPoint(s core.Sampler) core.Vec3 {
	u := s.Vec2()
	e1 := f.V[1].Position.Subtract(f.V[0].Position)
	e2 := f.V[3].Position.Subtract(f.V[0].Position)
	return f.V[0].Position.Add(e1.Multiply(u.X)).Add(e2.Multiply(u.Y))
}

// Centroid returns the average of the four corner positions.
func (f *Face) Centroid() core.Vec3 {
	return f.V[0].Position.Add(f.V[1].Position).Add(f.V[2].Position).Add(f.V[3].Position).Multiply(0.25)
}
