// Package host wires the scene, ray caster, photon mapper, radiosity
// solver and progressive scheduler into the command handlers a host
// application drives (spec.md 4.8): Load, TracePhotons, RadiosityIterate,
// RadiositySubdivide, the Clear family, DrawPixel, VisualizeTraceRay and
// PackMesh.
package host

import (
	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/photon"
	"github.com/df07/portal-gi/pkg/radiosity"
	"github.com/df07/portal-gi/pkg/raytrace"
	"github.com/df07/portal-gi/pkg/renderer"
	"github.com/df07/portal-gi/pkg/scene"
)

// Renderer is the process-wide mutable state described in spec.md section
// 5: one scene, one option block, one photon map, one radiosity solver,
// one progressive scheduler. No two handler calls may run concurrently.
type Renderer struct {
	Scene   *scene.Scene
	Opts    core.Options
	Camera  renderer.Camera
	Logger  core.Logger
	Sampler *core.Sampler

	Mapper    *photon.Mapper
	Solver    *radiosity.Solver
	Scheduler *renderer.Scheduler
	Mesh      *renderer.PackedMesh
	RayTree   *raytrace.RayTree
}

// New builds a Renderer over sc/cam/opts, equivalent to a first Load.
func New(sc *scene.Scene, cam renderer.Camera, opts core.Options, logger core.Logger) *Renderer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	r := &Renderer{Logger: logger}
	r.Load(sc, cam, opts)
	return r
}

// Load rebuilds the scene-dependent state: ray tracer caster is stateless
// (pkg/raytrace functions take the scene explicitly), so "recreate" here
// means rebuilding the photon mapper, radiosity solver and scheduler
// against the new scene and wiring their cross-references (spec.md 4.8).
func (r *Renderer) Load(sc *scene.Scene, cam renderer.Camera, opts core.Options) {
	r.Scene = sc
	r.Camera = cam
	r.Opts = opts
	r.Sampler = core.NewSampler(1)
	r.Mapper = photon.NewMapper(sc, r.Sampler, opts)
	r.Solver = radiosity.NewSolver(sc, opts, r.Sampler)
	r.Scheduler = renderer.NewScheduler(opts.Width, opts.Height)
	r.Mesh = renderer.NewPackedMesh()
	r.RayTree = raytrace.NewRayTree()
	r.Logger.Printf("loaded scene: %d faces, %d spheres, %d lights\n",
		len(sc.Faces), len(sc.Spheres), len(sc.Lights))
}

// TracePhotons clears existing photons and re-emits and traces a fresh
// batch (spec.md 4.8).
func (r *Renderer) TracePhotons() {
	r.Mapper.Clear()
	r.Mapper.Emit(r.Opts)
}

// RadiosityIterate computes form factors if they haven't been built yet,
// then performs one Southwell shooting step, returning the scene-total
// remaining undistributed energy.
func (r *Renderer) RadiosityIterate() float64 {
	return r.Solver.Iterate()
}

// RadiositySubdivide tessellates every sphere into h x v patches and
// resets the solver's arrays (spec.md 4.8).
func (r *Renderer) RadiositySubdivide(h, v int) {
	r.Solver.Subdivide(h, v)
}

// RadiosityClear rebuilds the solver over the current scene, zeroing every
// per-patch array and the form-factor matrix.
func (r *Renderer) RadiosityClear() {
	r.Solver = radiosity.NewSolver(r.Scene, r.Opts, r.Sampler)
}

// RaytracerClear restarts progressive refinement from divs_x = divs_y = 1.
func (r *Renderer) RaytracerClear() {
	r.Scheduler.Reset()
}

// PhotonMappingClear discards every stored photon.
func (r *Renderer) PhotonMappingClear() {
	r.Mapper.Clear()
}

// DrawPixel advances the progressive scheduler by one block, returning
// false once native resolution has been fully refined (spec.md 4.8).
func (r *Renderer) DrawPixel() bool {
	return r.Scheduler.DrawPixel(r.Opts, r.trace, r.Sampler)
}

// DrawPixelsParallel calls the scheduler's DrawPixelParallel up to n times,
// tracing each block's antialiasing samples concurrently, one goroutine per
// sample (spec.md 4.12, section 5's worker-pool escape hatch). workers is
// not consulted and does not bound the goroutine count. It stops early
// (returning the count actually drawn) once the scheduler reports completion.
func (r *Renderer) DrawPixelsParallel(n, workers int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		if !r.Scheduler.DrawPixelParallel(r.Opts, r.trace, func() *core.Sampler {
			return core.NewSampler(int64(i) + 1)
		}) {
			break
		}
		drawn++
	}
	return drawn
}

// trace is the renderer.TraceFunc the scheduler drives: it dispatches on
// render mode, running the full recursive evaluator for "materials" and
// reading the radiosity per-patch arrays directly for the alternative
// shading modes (spec.md section 6's render_mode table).
func (r *Renderer) trace(s, t float64, sampler *core.Sampler) core.Vec3 {
	ray := r.Camera.GenerateRay(s, t)
	return r.traceRay(ray, sampler, nil)
}

func (r *Renderer) traceRay(ray core.Ray, sampler *core.Sampler, tree *raytrace.RayTree) core.Vec3 {
	switch r.Opts.RenderMode {
	case core.RenderModeRadiance, core.RenderModeFormFactors, core.RenderModeLights, core.RenderModeUndistributed, core.RenderModeAbsorbed:
		return r.traceReadback(ray)
	default:
		var gatherer raytrace.Gatherer
		if r.Opts.GatherIndirect {
			gatherer = r.Mapper
		}
		return raytrace.TraceRay(r.Scene, ray, r.Opts, sampler, gatherer, 0, 0, tree)
	}
}

// VisualizeTraceRay runs the anti-aliased evaluator for the pixel at (x,
// y), recording every segment of the ray tree for visualization, and
// returns its color (spec.md 4.8).
func (r *Renderer) VisualizeTraceRay(x, y int) core.Vec3 {
	r.RayTree.Reset()
	r.RayTree.Enable()
	defer r.RayTree.Disable()

	s := (float64(x) + 0.5) / float64(r.Opts.Width)
	t := 1 - (float64(y)+0.5)/float64(r.Opts.Height)

	samples := r.Opts.NumAntialiasSamples
	if samples < 1 {
		samples = 1
	}
	var sum core.Vec3
	for k := 0; k < samples; k++ {
		ds, dt := 0.0, 0.0
		if k > 0 { // first sample at the pixel center, the rest jittered within it
			ds = (r.Sampler.Float64() - 0.5) / float64(r.Opts.Width)
			dt = (r.Sampler.Float64() - 0.5) / float64(r.Opts.Height)
		}
		ray := r.Camera.GenerateRay(s+ds, t+dt)
		sum = sum.Add(r.traceRay(ray, r.Sampler, r.RayTree))
	}
	return sum.Multiply(1.0 / float64(samples))
}
