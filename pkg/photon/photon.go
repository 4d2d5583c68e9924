// Package photon implements the photon-mapping pipeline: a kd-tree spatial
// index over deposited photons, emission from area lights, portal-aware
// bounce transport, and adaptive-radius indirect-radiance gathering.
package photon

import "github.com/df07/portal-gi/pkg/core"

// Photon is a light-carrying sample deposited on a surface during the
// forward-from-light pass (spec.md section 3).
type Photon struct {
	Position      core.Vec3
	DirectionFrom core.Vec3 // incoming direction, i.e. "came from"
	Energy        core.Vec3 // spectral (RGB) power carried
	Bounce        int
}
