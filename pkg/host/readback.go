package host

import (
	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/geometry"
)

// castPatch intersects ray against the scene's quad faces and rasterized
// sphere patches only (no analytic spheres, no portals), returning the
// struck face and its radiosity patch index. The non-"materials" render
// modes read a patch's per-patch radiosity arrays directly rather than
// running the recursive evaluator (spec.md 4.8's render_mode alternatives
// over 4.1's ray caster).
func (r *Renderer) castPatch(ray core.Ray) (*geometry.Face, int, bool) {
	backfaceCull := !r.Opts.IntersectBackfacing
	best := core.NewHit()
	found := false
	var bestFace *geometry.Face

	for _, f := range r.Scene.Faces {
		if h, ok := f.Hit(ray, core.Epsilon, best.T, backfaceCull); ok {
			best, found, bestFace = h, true, f
		}
	}
	for _, f := range r.Scene.RasterizedFaces() {
		if h, ok := f.Hit(ray, core.Epsilon, best.T, backfaceCull); ok {
			best, found, bestFace = h, true, f
		}
	}

	if !found {
		return nil, 0, false
	}
	return bestFace, bestFace.RadiosityIdx, true
}

// traceReadback implements the render_mode values that bypass TraceRay and
// read the radiosity solver's per-patch state at the primary ray's hit
// face (spec.md section 6).
func (r *Renderer) traceReadback(ray core.Ray) core.Vec3 {
	face, idx, ok := r.castPatch(ray)
	if !ok {
		return core.Vec3{}
	}
	if idx < 0 || idx >= r.Solver.NumPatches() {
		return core.Vec3{}
	}

	switch r.Opts.RenderMode {
	case core.RenderModeRadiance:
		return r.Solver.Radiance[idx]
	case core.RenderModeUndistributed:
		return r.Solver.Undistributed[idx]
	case core.RenderModeAbsorbed:
		return r.Solver.Absorbed[idx]
	case core.RenderModeLights:
		if face.Material != nil && face.Material.IsEmissive() {
			return core.NewVec3(1, 1, 1)
		}
		return core.Vec3{}
	case core.RenderModeFormFactors:
		sum := r.Solver.FormFactorSum(idx)
		return core.NewVec3(sum, sum, sum).Clamp(0, 1)
	default:
		return core.Vec3{}
	}
}
