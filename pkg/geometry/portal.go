package geometry

import (
	"math"

	"github.com/df07/portal-gi/pkg/core"
)

// PortalSide is one of a Portal's two planar unit rectangles (local extent
// [-0.5, 0.5] on X and Y, lying in the local Z=0 plane before Transform is
// applied). Crossing it teleports a ray to the matching point/direction on
// the other side via ThroughTransform (spec.md section 3).
type PortalSide struct {
	Transform        core.Mat4
	InverseTransform core.Mat4
	ThroughTransform core.Mat4 // Other.Transform * Inverse(Transform)
	Centroid         core.Vec3
	Normal           core.Vec3 // outward normal, T * (-z), normalized
	Other            *PortalSide
	Index            int // 0..2P-1 within the scene's portal side list
}

// Portal is a pair of sides whose interiors are identified by a rigid
// transform; a ray crossing one side emerges from the other.
type Portal struct {
	Sides [2]*PortalSide
}

// NewPortal builds a portal from the placement transforms of its two
// sides and resolves their cross-references.
func NewPortal(t1, t2 core.Mat4) *Portal {
	s1 := &PortalSide{Transform: t1}
	s2 := &PortalSide{Transform: t2}
	s1.Other, s2.Other = s2, s1

	p := &Portal{Sides: [2]*PortalSide{s1, s2}}
	p.finalize()
	return p
}

func (p *Portal) finalize() {
	for _, s := range p.Sides {
		s.Centroid = s.Transform.TransformPoint(core.Vec3{})
		s.Normal = s.Transform.TransformDirection(core.NewVec3(0, 0, -1)).Normalize()
		inv, ok := s.Transform.Inverse()
		if !ok {
			inv = core.Identity4()
		}
		s.InverseTransform = inv
	}
	for _, s := range p.Sides {
		s.ThroughTransform = s.Other.Transform.Mul(s.InverseTransform)
	}
}

// Corners returns the world-space corners of the side's unit rectangle.
func (s *PortalSide) Corners() [4]core.Vec3 {
	local := [4]core.Vec3{
		{X: -0.5, Y: -0.5}, {X: -0.5, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: -0.5},
	}
	var out [4]core.Vec3
	for i, l := range local {
		out[i] = s.Transform.TransformPoint(l)
	}
	return out
}

// Hit intersects a ray against this side's plane and unit rectangle,
// recording the portal side index on a successful hit.
func (s *PortalSide) Hit(ray core.Ray, tMin, tMax float64) (core.Hit, bool) {
	ndr := s.Normal.Dot(ray.Direction)
	if math.Abs(ndr) < 1e-8 {
		return core.Hit{}, false
	}
	t := s.Normal.Dot(s.Centroid.Subtract(ray.Origin)) / ndr
	if t <= core.Epsilon || t < tMin || t > tMax {
		return core.Hit{}, false
	}

	world := ray.PointAt(t)
	local := s.InverseTransform.TransformPoint(world)
	if local.X < -0.5 || local.X > 0.5 || local.Y < -0.5 || local.Y > 0.5 {
		return core.Hit{}, false
	}

	hit := core.Hit{T: t, Point: world, Portal: s.Index}
	hit.SetFaceNormal(ray, s.Normal)
	return hit, true
}

// TransferPoint maps a world-space point on this side to the matching
// point on the other side.
func (s *PortalSide) TransferPoint(p core.Vec3) core.Vec3 {
	return s.ThroughTransform.TransformPoint(p)
}

// TransferDirection maps a world-space direction through the portal.
func (s *PortalSide) TransferDirection(d core.Vec3) core.Vec3 {
	return s.ThroughTransform.TransformDirection(d).Normalize()
}
