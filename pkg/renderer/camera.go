package renderer

import (
	"math"

	"github.com/df07/portal-gi/pkg/core"
)

// CameraKind distinguishes the two camera models the scene loader can
// construct; dispatch is a closed switch rather than an interface because
// the set is fixed (spec.md REDESIGN FLAGS: tagged sum type over dynamic
// dispatch for camera/primitive).
type CameraKind int

const (
	Perspective CameraKind = iota
	Orthographic
)

// Camera generates primary rays for screen coordinates (s, t) in [0, 1]^2,
// s left-to-right and t bottom-to-top. Only the ray-generation geometry is
// modeled; view/projection matrices and camera placement animation are out
// of scope.
type Camera struct {
	Kind CameraKind

	// Perspective fields: a classic lower-left-corner + basis camera.
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3

	// Orthographic fields: an image-plane origin plus in-plane basis
	// vectors scaled to the view width/height.
	orthoOrigin core.Vec3
	orthoU      core.Vec3
	orthoV      core.Vec3
	orthoW      core.Vec3 // forward (ray direction for every pixel)
}

// NewPerspectiveCamera builds a perspective camera looking from lookFrom to
// lookAt with the given vertical field of view (degrees) and aspect ratio.
func NewPerspectiveCamera(lookFrom, lookAt, up core.Vec3, vfovDegrees, aspectRatio float64) Camera {
	theta := vfovDegrees * (math.Pi / 180.0)
	halfHeight := math.Tan(theta / 2)
	halfWidth := aspectRatio * halfHeight

	w := lookFrom.Subtract(lookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := lookFrom
	horizontal := u.Multiply(2 * halfWidth)
	vertical := v.Multiply(2 * halfHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return Camera{
		Kind:            Perspective,
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// NewOrthographicCamera builds an orthographic camera with the image plane
// centered at origin, facing forward, with the given in-world view width
// and height.
func NewOrthographicCamera(origin, forward, up core.Vec3, width, height float64) Camera {
	w := forward.Normalize()
	u := w.Cross(up).Normalize()
	v := u.Cross(w)

	return Camera{
		Kind:        Orthographic,
		orthoOrigin: origin,
		orthoU:      u.Multiply(width),
		orthoV:      v.Multiply(height),
		orthoW:      w,
	}
}

// GenerateRay dispatches on Kind to produce the primary ray for (s, t).
func (c Camera) GenerateRay(s, t float64) core.Ray {
	switch c.Kind {
	case Orthographic:
		origin := c.orthoOrigin.
			Add(c.orthoU.Multiply(s - 0.5)).
			Add(c.orthoV.Multiply(t - 0.5))
		return core.NewRay(origin, c.orthoW)
	default:
		direction := c.lowerLeftCorner.
			Add(c.horizontal.Multiply(s)).
			Add(c.vertical.Multiply(t)).
			Subtract(c.origin)
		return core.NewRay(c.origin, direction)
	}
}
