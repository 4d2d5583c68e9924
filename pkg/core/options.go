package core

import "fmt"

// RenderMode selects which quantity DrawPixel / VisualizeTraceRay shades
// with (spec.md section 6).
type RenderMode string

const (
	RenderModeMaterials     RenderMode = "materials"
	RenderModeRadiance      RenderMode = "radiance"
	RenderModeFormFactors   RenderMode = "form-factors"
	RenderModeLights        RenderMode = "lights"
	RenderModeUndistributed RenderMode = "undistributed"
	RenderModeAbsorbed      RenderMode = "absorbed"
)

// validRenderModes backs Options.Validate's unknown-render_mode check.
var validRenderModes = map[RenderMode]bool{
	RenderModeMaterials: true, RenderModeRadiance: true, RenderModeFormFactors: true,
	RenderModeLights: true, RenderModeUndistributed: true, RenderModeAbsorbed: true,
}

// Options holds every recognized renderer input of spec.md section 6. It is
// a plain value threaded through the renderer explicitly (spec.md section 9
// design note: no package-level mutable globals).
type Options struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`

	NumBounces           int `yaml:"num_bounces,omitempty"`
	NumShadowSamples     int `yaml:"num_shadow_samples,omitempty"`
	NumAntialiasSamples  int `yaml:"num_antialias_samples,omitempty"`
	NumGlossySamples     int `yaml:"num_glossy_samples,omitempty"`

	AmbientLight Vec3 `yaml:"ambient_light,omitempty"`
	Background   Vec3 `yaml:"background,omitempty"`

	IntersectBackfacing bool `yaml:"intersect_backfacing,omitempty"`

	NumFormFactorSamples int `yaml:"num_form_factor_samples,omitempty"`

	SphereHoriz int `yaml:"sphere_horiz,omitempty"`
	SphereVert  int `yaml:"sphere_vert,omitempty"`

	NumPhotonsToShoot   int `yaml:"num_photons_to_shoot,omitempty"`
	NumPhotonsToCollect int `yaml:"num_photons_to_collect,omitempty"`
	GatherIndirect      bool `yaml:"gather_indirect,omitempty"`

	RenderMode RenderMode `yaml:"render_mode,omitempty"`

	Interpolate            bool `yaml:"interpolate,omitempty"`
	Wireframe              bool `yaml:"wireframe,omitempty"`
	RenderPhotons          bool `yaml:"render_photons,omitempty"`
	RenderPhotonDirections bool `yaml:"render_photon_directions,omitempty"`
	RenderKDTree           bool `yaml:"render_kdtree,omitempty"`

	PortalRecursionDepth int  `yaml:"portal_recursion_depth,omitempty"`
	PortalTint           Vec3 `yaml:"portal_tint,omitempty"`

	Gloss bool `yaml:"gloss,omitempty"`
}

// DefaultOptions returns the reference renderer's default configuration.
func DefaultOptions() Options {
	return Options{
		Width: 300, Height: 300,

		NumBounces:          5,
		NumShadowSamples:    1,
		NumAntialiasSamples: 4,
		NumGlossySamples:    8,

		AmbientLight: NewVec3(0.1, 0.1, 0.1),

		NumFormFactorSamples: 256,

		SphereHoriz: 16,
		SphereVert:  8,

		NumPhotonsToShoot:   50000,
		NumPhotonsToCollect: 50,

		RenderMode: RenderModeMaterials,

		PortalRecursionDepth: 2,
		PortalTint:           NewVec3(1, 1, 1),
	}
}

// Validate reports configuration errors per spec.md section 7: a non-even
// sphere_horiz, or an unrecognized render_mode.
func (o Options) Validate() error {
	if o.SphereHoriz%2 != 0 {
		return fmt.Errorf("sphere_horiz must be even, got %d", o.SphereHoriz)
	}
	if o.RenderMode != "" && !validRenderModes[o.RenderMode] {
		return fmt.Errorf("unknown render_mode %q", o.RenderMode)
	}
	return nil
}
