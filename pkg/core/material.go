package core

import "math"

// ColorSource evaluates a color at a surface's texture coordinates, letting
// a material's diffuse channel be either a constant or an image texture.
type ColorSource interface {
	ColorAt(uv Vec2) Vec3
}

// SolidColor is the trivial ColorSource: the same color everywhere.
type SolidColor Vec3

// ColorAt implements ColorSource.
func (c SolidColor) ColorAt(uv Vec2) Vec3 { return Vec3(c) }

// Material is immutable after scene load and is referenced (never copied)
// by every face and primitive that uses it.
type Material struct {
	Name       string
	Diffuse    ColorSource // nil is treated as black
	Reflective Vec3
	Emitted    Vec3
	Roughness  float64 // in [0, 1]
}

// DiffuseAt returns the diffuse color at the given texture coordinates.
func (m *Material) DiffuseAt(uv Vec2) Vec3 {
	if m.Diffuse == nil {
		return Vec3{}
	}
	return m.Diffuse.ColorAt(uv)
}

// emissiveThreshold is the minimum emitted-color length treated as "this
// material is a light" (spec.md 4.2 step 3).
const emissiveThreshold = 1e-3

// IsEmissive reports whether the material emits a perceptible amount of light.
func (m *Material) IsEmissive() bool {
	return m.Emitted.Length() > emissiveThreshold
}

// IsReflective reports whether the material has a non-zero reflective channel.
func (m *Material) IsReflective() bool {
	return !m.Reflective.IsZero()
}

// Shade evaluates the direct-lighting contribution of one light sample at a
// hit point: a Lambertian diffuse response to incoming radiance arriving
// from dirToLight (already normalized), per spec.md 4.2 step 5. incoming is
// the radiance arriving from the light sample; the evaluator passes the
// emitted color scaled by light area / (pi * distance^2).
func (m *Material) Shade(hit Hit, dirToLight Vec3, incoming Vec3) Vec3 {
	cosTheta := math.Max(0, hit.Normal.Dot(dirToLight))
	if cosTheta <= 0 {
		return Vec3{}
	}
	return m.DiffuseAt(hit.UV).MultiplyVec(incoming).Multiply(cosTheta)
}
