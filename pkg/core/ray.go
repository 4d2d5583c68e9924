package core

import "math"

// Ray is a half-line with an origin and a normalized direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3 // kept normalized by every constructor below
}

// NewRay creates a ray, normalizing the direction.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// NewRayTo creates a ray from origin pointing at target.
func NewRayTo(origin, target Vec3) Ray {
	return NewRay(origin, target.Subtract(origin))
}

// PointAt returns origin + t*direction.
func (r Ray) PointAt(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Epsilon is the minimum accepted hit distance, guarding against a ray
// re-intersecting the surface it was just cast from.
const Epsilon = 1e-4

// Hit is the nearest-so-far intersection record threaded through the ray
// caster. NewHit returns one with T == +Inf, representing "no hit yet"; the
// zero value has T == 0.
type Hit struct {
	T        float64
	Point    Vec3
	Normal   Vec3 // unit length, oriented against the incoming ray
	UV       Vec2
	Material *Material
	// Portal, when >= 0, is the index (0..2P-1) of the portal side hit;
	// side = Portal % 2. -1 means the hit was an ordinary surface.
	Portal int
}

// NewHit returns a Hit initialized to "nothing found yet".
func NewHit() Hit {
	return Hit{T: math.Inf(1), Portal: -1}
}

// SetFaceNormal orients outwardNormal against the ray direction and
// records it on the hit.
func (h *Hit) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	if ray.Direction.Dot(outwardNormal) < 0 {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
