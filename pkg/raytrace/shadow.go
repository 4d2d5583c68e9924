package raytrace

import "github.com/df07/portal-gi/pkg/core"
import "github.com/df07/portal-gi/pkg/scene"

// occlusionSlack is the slack subtracted from a light distance when
// deciding whether a shadow ray's first hit actually reached the light
// (spec.md 4.7).
const occlusionSlack = 0.01

// ShadowRay is one candidate light-visibility ray plus the total distance
// it must travel unoccluded to be considered a hit on the light.
type ShadowRay struct {
	Ray           core.Ray
	TotalDistance float64
}

// EnumerateShadowRays produces the rays to evaluate for one light and one
// shading point (spec.md 4.7): the direct centroid ray, plus one
// portal-routed ray per portal side. num_shadow_samples is not consulted,
// and the stratified grid argument is accepted but unused — see
// spec.md's flagged "shadow sampling" open question; this implementation
// preserves centroid-only behavior, decision (b).
func EnumerateShadowRays(sc *scene.Scene, lightFaceIdx int, p core.Vec3, opts core.Options, grid []core.Vec2) []ShadowRay {
	_ = grid // accepted but intentionally unused, per spec.md's decision (b)

	light := sc.LightFace(lightFaceIdx)
	centroid := light.Centroid()

	var rays []ShadowRay

	toLight := centroid.Subtract(p)
	dist := toLight.Length()
	if dist > core.Epsilon {
		direct := core.NewRayTo(p, centroid)
		hit, ok := Cast(sc, direct, opts, false, true)
		blockedByPortal := ok && hit.Portal >= 0
		unoccluded := !ok || hit.T >= dist-occlusionSlack
		if unoccluded && !blockedByPortal {
			rays = append(rays, ShadowRay{Ray: direct, TotalDistance: dist})
		}
	}

	for _, side := range sc.PortalSides {
		transferredCentroid := side.TransferPoint(centroid)
		toPortalLight := transferredCentroid.Subtract(p)
		if toPortalLight.Length() <= core.Epsilon {
			continue
		}
		viewerRay := core.NewRayTo(p, transferredCentroid)
		hit1, ok1 := Cast(sc, viewerRay, opts, false, true)
		if !ok1 || hit1.Portal != side.Index {
			continue
		}

		farPoint := side.TransferPoint(hit1.Point)
		toTrueLight := centroid.Subtract(farPoint)
		dist2 := toTrueLight.Length()
		if dist2 <= core.Epsilon {
			rays = append(rays, ShadowRay{Ray: viewerRay, TotalDistance: hit1.T})
			continue
		}
		farRay := core.NewRayTo(farPoint, centroid)
		hit2, ok2 := Cast(sc, farRay, opts, false, false)
		if ok2 && hit2.T < dist2-occlusionSlack {
			continue
		}

		rays = append(rays, ShadowRay{Ray: viewerRay, TotalDistance: hit1.T + dist2})
	}

	return rays
}
