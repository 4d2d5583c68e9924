// Package geometry implements the scene's intersectable primitives: quad
// faces, spheres, and portal sides, plus the vertex/bounding-box support
// types they share.
package geometry

import (
	"math"

	"github.com/df07/portal-gi/pkg/core"
)

// triDetEpsilon is the minimum |det A| accepted before a triangle solve is
// declared degenerate (spec.md 4.1).
const triDetEpsilon = 1e-6

// baryEpsilon is the slack applied to barycentric bounds (spec.md 4.1).
const baryEpsilon = 1e-5

// triangleHit is the result of solving the ray/triangle system.
type triangleHit struct {
	T, Beta, Gamma float64
}

// intersectTriangle solves, via Cramer's rule, the 3x3 system
//
//	O - v0 = -t*D + beta*(v1-v0) + gamma*(v2-v0)
//
// simultaneously for t, beta and gamma. It returns ok=false for a
// degenerate (near-parallel) system without ever propagating an error —
// per spec.md section 7, numerical degeneracies are just "no intersection".
func intersectTriangle(ray core.Ray, v0, v1, v2 core.Vec3, backfaceCull bool, normal core.Vec3) (triangleHit, bool) {
	e1 := v1.Subtract(v0)
	e2 := v2.Subtract(v0)
	d := ray.Direction

	if backfaceCull && normal.Dot(d) >= 0 {
		return triangleHit{}, false
	}

	// Columns of A are (-d, e1, e2); solve A x = (O - v0) via Cramer's rule.
	neg := d.Negate()
	detA := det3cols(neg, e1, e2)
	if math.Abs(detA) < triDetEpsilon {
		return triangleHit{}, false
	}

	rhs := ray.Origin.Subtract(v0)
	t := det3cols(rhs, e1, e2) / detA
	beta := det3cols(neg, rhs, e2) / detA
	gamma := det3cols(neg, e1, rhs) / detA

	if beta < -baryEpsilon || beta > 1+baryEpsilon {
		return triangleHit{}, false
	}
	if gamma < -baryEpsilon || gamma > 1+baryEpsilon {
		return triangleHit{}, false
	}
	if beta+gamma > 1+baryEpsilon {
		return triangleHit{}, false
	}

	return triangleHit{T: t, Beta: beta, Gamma: gamma}, true
}

// det3cols returns the determinant of the 3x3 matrix whose columns are
// a, b, c.
func det3cols(a, b, c core.Vec3) float64 {
	return a.X*(b.Y*c.Z-b.Z*c.Y) - b.X*(a.Y*c.Z-a.Z*c.Y) + c.X*(a.Y*b.Z-a.Z*b.Y)
}

// AreaOfTriangle returns the area of the triangle (a, b, c).
func AreaOfTriangle(a, b, c core.Vec3) float64 {
	return 0.5 * b.Subtract(a).Cross(c.Subtract(a)).Length()
}
