package geometry

import (
	"math"

	"github.com/df07/portal-gi/pkg/core"
)

// Sphere is an analytically-intersectable primitive that can also be
// tessellated into quad patches of h x v for radiosity (spec.md section 3;
// h is forced even).
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material *core.Material

	// Rasterized tells whether RasterFace has been built.
	Rasterized bool
	RasterFace []*Face // valid once Rasterized
}

// NewSphere creates a sphere primitive.
func NewSphere(center core.Vec3, radius float64, mat *core.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: mat}
}

// Hit analytically intersects a ray with the sphere.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (core.Hit, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return core.Hit{}, false
	}
	sq := math.Sqrt(disc)

	root := (-halfB - sq) / a
	if root < tMin || root > tMax || root <= core.Epsilon {
		root = (-halfB + sq) / a
		if root < tMin || root > tMax || root <= core.Epsilon {
			return core.Hit{}, false
		}
	}

	point := ray.PointAt(root)
	outward := point.Subtract(s.Center).Multiply(1.0 / s.Radius)

	theta := math.Acos(-outward.Y)
	phi := math.Atan2(-outward.Z, outward.X) + math.Pi
	uv := core.NewVec2(phi/(2*math.Pi), theta/math.Pi)

	hit := core.Hit{T: root, Point: point, Material: s.Material, UV: uv, Portal: -1}
	hit.SetFaceNormal(ray, outward)
	return hit, true
}

// BoundingBox returns the sphere's axis-aligned bounding box.
func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// pointOnSphere returns the sphere surface point at the given spherical
// angles (theta from the pole in [0,pi], phi around the equator in [0,2pi]).
func (s *Sphere) pointOnSphere(theta, phi float64) (core.Vec3, core.Vec3) {
	sinT, cosT := math.Sin(theta), math.Cos(theta)
	sinP, cosP := math.Sin(phi), math.Cos(phi)
	local := core.Vec3{X: sinT * cosP, Y: -cosT, Z: -sinT * sinP}
	return s.Center.Add(local.Multiply(s.Radius)), local
}

// Tessellate builds h*v quad patches (h forced even) covering the sphere,
// for use by radiosity. Re-tessellating replaces any previous RasterFace
// list.
func (s *Sphere) Tessellate(h, v int) []*Face {
	if h%2 != 0 {
		h++ // non-even horiz counts are a configuration error the loader
		// should have rejected already; self-heal defensively here.
	}
	if h < 4 {
		h = 4
	}
	if v < 2 {
		v = 2
	}

	faces := make([]*Face, 0, h*v)
	for j := 0; j < v; j++ {
		theta0 := math.Pi * float64(j) / float64(v)
		theta1 := math.Pi * float64(j+1) / float64(v)
		for i := 0; i < h; i++ {
			phi0 := 2 * math.Pi * float64(i) / float64(h)
			phi1 := 2 * math.Pi * float64(i+1) / float64(h)

			p00, _ := s.pointOnSphere(theta0, phi0)
			p01, _ := s.pointOnSphere(theta0, phi1)
			p10, _ := s.pointOnSphere(theta1, phi0)
			p11, _ := s.pointOnSphere(theta1, phi1)

			v0 := Vertex{Position: p00, UV: core.NewVec2(float64(i)/float64(h), float64(j)/float64(v))}
			v1 := Vertex{Position: p01, UV: core.NewVec2(float64(i+1)/float64(h), float64(j)/float64(v))}
			v2 := Vertex{Position: p11, UV: core.NewVec2(float64(i+1)/float64(h), float64(j+1)/float64(v))}
			v3 := Vertex{Position: p10, UV: core.NewVec2(float64(i)/float64(h), float64(j+1)/float64(v))}

			faces = append(faces, NewFace(v0, v1, v2, v3, s.Material, -1))
		}
	}

	s.RasterFace = faces
	s.Rasterized = true
	return faces
}
