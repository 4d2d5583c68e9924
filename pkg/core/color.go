package core

import "math"

// LinearToSRGB applies the sRGB transfer function to a single linear
// channel value in [0, 1].
func LinearToSRGB(c float64) float64 {
	c = math.Max(0, math.Min(1, c))
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}

// SRGBToLinear inverts LinearToSRGB.
func SRGBToLinear(c float64) float64 {
	c = math.Max(0, math.Min(1, c))
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// LinearToSRGBColor converts a linear-light RGB color to sRGB.
func LinearToSRGBColor(c Vec3) Vec3 {
	return Vec3{LinearToSRGB(c.X), LinearToSRGB(c.Y), LinearToSRGB(c.Z)}
}

// SRGBToLinearColor converts an sRGB color to linear light.
func SRGBToLinearColor(c Vec3) Vec3 {
	return Vec3{SRGBToLinear(c.X), SRGBToLinear(c.Y), SRGBToLinear(c.Z)}
}
