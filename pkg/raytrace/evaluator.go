package raytrace

import (
	"math"

	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/scene"
)

// Gatherer supplies the indirect-light estimate at a surface point, letting
// the evaluator fold in photon-mapped indirect illumination without
// importing the photon package directly (spec.md 4.2 step 6, 4.9). The
// photon mapper's Mapper type satisfies this interface.
type Gatherer interface {
	GatherIndirect(point, normal, incoming core.Vec3) core.Vec3
}

// directWhite is returned for a primary or secondary ray that lands
// directly on an emissive face: the light itself reads as flat white
// regardless of its emitted color, matching the reference renderer's
// look-at-the-light convention (spec.md 4.2 step 3).
var directWhite = core.NewVec3(1, 1, 1)

// TraceRay recursively evaluates the radiance arriving back along ray
// (spec.md 4.2). bounce counts reflection recursion against
// opts.NumBounces; portalDepth counts portal crossings against
// opts.PortalRecursionDepth independently, so a scene with mirrored portals
// doesn't spend a viewer's reflection budget just walking through them.
// gatherer may be nil, in which case indirect gathering is skipped even if
// opts.GatherIndirect is set.
func TraceRay(sc *scene.Scene, ray core.Ray, opts core.Options, sampler *core.Sampler, gatherer Gatherer, bounce, portalDepth int, tree *RayTree) core.Vec3 {
	if bounce > opts.NumBounces {
		return core.Vec3{}
	}

	hit, ok := Cast(sc, ray, opts, false, portalDepth < opts.PortalRecursionDepth)
	if !ok {
		return opts.Background
	}
	tree.Record(SegmentMain, ray.Origin, hit.Point)

	if hit.Portal >= 0 {
		side := sc.PortalSides[hit.Portal]
		newOrigin := side.TransferPoint(hit.Point)
		newDir := side.TransferDirection(ray.Direction)
		newRay := core.NewRay(newOrigin, newDir)
		color := TraceRay(sc, newRay, opts, sampler, gatherer, bounce, portalDepth+1, tree)
		tree.Record(SegmentTransmitted, hit.Point, newOrigin)
		return color.MultiplyVec(opts.PortalTint)
	}

	mat := hit.Material
	if mat == nil {
		return core.Vec3{}
	}
	if mat.IsEmissive() {
		return directWhite
	}

	diffuse := mat.DiffuseAt(hit.UV)
	result := opts.AmbientLight.MultiplyVec(diffuse)

	for _, lightIdx := range sc.Lights {
		light := sc.LightFace(lightIdx)
		area := light.AreaSum()
		for _, sr := range EnumerateShadowRays(sc, lightIdx, hit.Point, opts, nil) {
			dist := sr.TotalDistance
			if dist <= core.Epsilon {
				continue
			}
			attenuation := area / (math.Pi * dist * dist)
			incoming := light.Material.Emitted.Multiply(attenuation)
			result = result.Add(mat.Shade(hit, sr.Ray.Direction, incoming))
			tree.Record(SegmentShadow, hit.Point, sr.Ray.PointAt(dist))
		}
	}

	if opts.GatherIndirect && gatherer != nil {
		indirect := gatherer.GatherIndirect(hit.Point, hit.Normal, ray.Direction)
		result = result.Add(indirect.MultiplyVec(diffuse))
	}

	if mat.IsReflective() && bounce < opts.NumBounces {
		result = result.Add(traceReflection(sc, ray, hit, mat, opts, sampler, gatherer, bounce, portalDepth, tree))
	}

	return result
}

// traceReflection evaluates the reflected contribution, averaging over
// opts.NumGlossySamples perturbed directions when the material is rough and
// glossy sampling is enabled (spec.md 4.2 step 7, 4.10).
func traceReflection(sc *scene.Scene, ray core.Ray, hit core.Hit, mat *core.Material, opts core.Options, sampler *core.Sampler, gatherer Gatherer, bounce, portalDepth int, tree *RayTree) core.Vec3 {
	mirror := ray.Direction.Reflect(hit.Normal)

	samples := 1
	if opts.Gloss && mat.Roughness > 0 && opts.NumGlossySamples > 1 {
		samples = opts.NumGlossySamples
	}

	var sum core.Vec3
	for i := 0; i < samples; i++ {
		dir := mirror
		if opts.Gloss && mat.Roughness > 0 {
			perturbed := mirror.Add(sampler.UnitBall().Multiply(mat.Roughness)).Normalize()
			if !perturbed.IsZero() && perturbed.Dot(hit.Normal) > 0 {
				dir = perturbed
			}
		}
		reflRay := core.NewRay(hit.Point, dir)
		sum = sum.Add(TraceRay(sc, reflRay, opts, sampler, gatherer, bounce+1, portalDepth, tree))
		tree.Record(SegmentReflected, hit.Point, reflRay.PointAt(1))
	}

	return sum.Multiply(1.0 / float64(samples)).MultiplyVec(mat.Reflective)
}
