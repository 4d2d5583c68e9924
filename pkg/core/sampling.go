package core

import (
	"math"
	"math/rand"
)

// Sampler wraps a per-worker random source so tiles/workers can run with
// independent, deterministic streams (spec.md section 5: embarrassingly
// parallel per-pixel/per-photon work with no shared RNG state).
type Sampler struct {
	Rand *rand.Rand
}

// NewSampler creates a sampler seeded deterministically from seed.
func NewSampler(seed int64) *Sampler {
	return &Sampler{Rand: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform sample in [0, 1).
func (s *Sampler) Float64() float64 { return s.Rand.Float64() }

// Vec2 returns a uniform sample in [0,1) x [0,1).
func (s *Sampler) Vec2() Vec2 { return NewVec2(s.Float64(), s.Float64()) }

// UnitDisk returns a uniform point inside the unit disk via rejection
// sampling.
func (s *Sampler) UnitDisk() Vec2 {
	for {
		x := 2*s.Float64() - 1
		y := 2*s.Float64() - 1
		if x*x+y*y < 1 {
			return Vec2{x, y}
		}
	}
}

// UnitBall returns a uniform point inside the unit ball via rejection
// sampling.
func (s *Sampler) UnitBall() Vec3 {
	for {
		v := Vec3{2*s.Float64() - 1, 2*s.Float64() - 1, 2*s.Float64() - 1}
		if v.LengthSquared() < 1 {
			return v
		}
	}
}

// CosineHemisphere returns a cosine-weighted random direction in the
// hemisphere around normal (a random diffuse direction).
func (s *Sampler) CosineHemisphere(normal Vec3) Vec3 {
	d := s.UnitBall().Add(normal.Normalize())
	if d.IsZero() {
		return normal.Normalize()
	}
	return d.Normalize()
}

// RejectedHemisphereDirection rejection-samples a uniform unit vector and
// flips it into the hemisphere of normal if necessary. Used by the photon
// mapper's diffuse-bounce fallback (spec.md 4.5), which wants a unit
// direction rather than the cosine-weighted one used for emission.
func (s *Sampler) RejectedHemisphereDirection(normal Vec3) Vec3 {
	dir := s.UnitBall().Normalize()
	if dir.IsZero() {
		dir = normal.Normalize()
	}
	if dir.Dot(normal) < 0 {
		dir = dir.Negate()
	}
	return dir
}

// StratifiedGrid2D returns n*n jittered samples covering [0,1)^2, one per
// cell of an n x n grid, for area-light and antialiasing sampling.
func (s *Sampler) StratifiedGrid2D(n int) []Vec2 {
	samples := make([]Vec2, 0, n*n)
	inv := 1.0 / float64(n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			samples = append(samples, Vec2{
				X: (float64(i) + s.Float64()) * inv,
				Y: (float64(j) + s.Float64()) * inv,
			})
		}
	}
	return samples
}

// StratifiedGridSize picks the grid dimension n (n*n >= samples) closest
// to square, matching the original raytracer's "ceil(sqrt(samples))" rule.
func StratifiedGridSize(samples int) int {
	if samples <= 1 {
		return 1
	}
	return int(math.Ceil(math.Sqrt(float64(samples))))
}
