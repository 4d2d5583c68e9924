// Package radiosity implements the progressive (Southwell shooting)
// radiosity solver: a lazily computed dense form-factor matrix over the
// scene's patches, iterated by repeatedly distributing the patch with the
// largest pending undistributed energy (spec.md 4.6).
package radiosity

import (
	"math"

	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/geometry"
	"github.com/df07/portal-gi/pkg/raytrace"
	"github.com/df07/portal-gi/pkg/scene"
)

// grazingCosine is the minimum ω·n_i accepted before a form-factor sample
// pair is treated as grazing/back-facing and discarded (spec.md 4.6).
const grazingCosine = 0.01

// visibilitySlack is the slack subtracted from the sample distance when
// testing whether a form-factor shadow ray actually reached its target.
const visibilitySlack = 0.01

// Solver holds the per-patch radiosity arrays and the form-factor matrix.
// It is rebuilt (arrays resized, matrix cleared) whenever Subdivide
// changes the patch count.
type Solver struct {
	Scene   *scene.Scene
	Opts    core.Options
	Sampler *core.Sampler

	patches []*geometry.Face

	Area          []float64
	Undistributed []core.Vec3
	Absorbed      []core.Vec3
	Radiance      []core.Vec3

	factors  [][]float64
	computed bool
}

// NewSolver builds a solver over the scene's current patches (its Faces
// followed by any rasterized sphere patches) and seeds light patches'
// radiance/undistributed energy from their emitted color.
func NewSolver(sc *scene.Scene, opts core.Options, sampler *core.Sampler) *Solver {
	s := &Solver{Scene: sc, Opts: opts, Sampler: sampler}
	s.reset()
	return s
}

func (s *Solver) reset() {
	s.patches = append(append([]*geometry.Face(nil), s.Scene.Faces...), s.Scene.RasterizedFaces()...)
	n := len(s.patches)

	s.Area = make([]float64, n)
	s.Undistributed = make([]core.Vec3, n)
	s.Absorbed = make([]core.Vec3, n)
	s.Radiance = make([]core.Vec3, n)
	s.factors = nil
	s.computed = false

	for i, p := range s.patches {
		s.Area[i] = p.AreaSum()
		if p.Material != nil && p.Material.IsEmissive() {
			s.Radiance[i] = p.Material.Emitted
			s.Undistributed[i] = p.Material.Emitted
		}
	}
}

// NumPatches returns the current patch count.
func (s *Solver) NumPatches() int { return len(s.patches) }

// Patch returns the face backing patch i.
func (s *Solver) Patch(i int) *geometry.Face { return s.patches[i] }

// Subdivide tessellates every sphere into h x v patches and resets the
// solver's arrays and form-factor matrix (spec.md 4.6, "subdivision...
// resets radiosity").
func (s *Solver) Subdivide(h, v int) {
	s.Scene.RasterizeSpheres(h, v)
	s.reset()
}

// ComputeFormFactors builds the dense F[i,j] matrix by stratified
// Monte-Carlo sampling with visibility, if it hasn't been built already
// (spec.md 4.6).
func (s *Solver) ComputeFormFactors() {
	if s.computed {
		return
	}
	n := len(s.patches)
	s.factors = make([][]float64, n)
	for i := range s.factors {
		s.factors[i] = make([]float64, n)
	}

	samples := s.Opts.NumFormFactorSamples
	if samples < 1 {
		samples = 1
	}

	for i := 0; i < n; i++ {
		pi := s.patches[i]
		ni := pi.Normal()
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			s.factors[i][j] = s.estimateFormFactor(pi, ni, s.patches[j], samples)
		}
	}
	s.computed = true
}

func (s *Solver) estimateFormFactor(pi *geometry.Face, ni core.Vec3, pj *geometry.Face, samples int) float64 {
	nj := pj.Normal()
	aj := pj.AreaSum()

	sum := 0.0
	for k := 0; k < samples; k++ {
		var a, b core.Vec3
		if k == 0 {
			a, b = pi.Centroid(), pj.Centroid()
		} else {
			a, b = pi.RandomPoint(*s.Sampler), pj.RandomPoint(*s.Sampler)
		}

		d := b.Subtract(a).Length()
		if d <= core.Epsilon {
			continue
		}
		omega := b.Subtract(a).Multiply(1 / d)
		if omega.Dot(ni) < grazingCosine {
			continue
		}

		ray := core.NewRay(a, omega)
		hit, ok := raytrace.Cast(s.Scene, ray, s.Opts, true, false)
		if ok && hit.T < d-visibilitySlack {
			continue
		}

		cosI := omega.Dot(ni)
		cosJ := -omega.Dot(nj)
		contribution := math.Max(0, cosI*cosJ/(float64(samples)*math.Pi*d*d+aj/float64(samples)))
		sum += contribution
	}

	return sum * aj
}

// Iterate performs one Southwell shooting step: it finds the patch with
// the greatest |undistributed|*area, distributes its undistributed energy
// to every other patch weighted by the form factor and that patch's
// diffuse reflectance, and returns the scene-total remaining undistributed
// magnitude (spec.md 4.6). A zero-patch scene returns 0 without error.
func (s *Solver) Iterate() float64 {
	s.ComputeFormFactors()
	n := len(s.patches)
	if n == 0 {
		return 0
	}

	shooter := -1
	best := 0.0
	for i := 0; i < n; i++ {
		mag := s.Undistributed[i].Length() * s.Area[i]
		if mag > best {
			best, shooter = mag, i
		}
	}
	if shooter < 0 {
		return 0
	}

	energy := s.Undistributed[shooter]
	for j := 0; j < n; j++ {
		if j == shooter {
			continue
		}
		f := s.factors[j][shooter]
		if f <= 0 {
			continue
		}
		rho := s.patches[j].Material.DiffuseAt(core.Vec2{})
		delta := energy.MultiplyVec(rho).Multiply(f)
		s.Radiance[j] = s.Radiance[j].Add(delta)
		s.Undistributed[j] = s.Undistributed[j].Add(delta)

		absorbRho := core.NewVec3(1-rho.X, 1-rho.Y, 1-rho.Z)
		s.Absorbed[j] = s.Absorbed[j].Add(energy.MultiplyVec(absorbRho).Multiply(f))
	}
	s.Undistributed[shooter] = core.Vec3{}

	total := 0.0
	for j := 0; j < n; j++ {
		total += s.Undistributed[j].Length() * s.Area[j]
	}
	return total
}

// FormFactorSum returns Σ_j F[i,j], used by the form-factors render mode
// and by the Monte-Carlo invariant check that it stays near or below 1.
func (s *Solver) FormFactorSum(i int) float64 {
	s.ComputeFormFactors()
	sum := 0.0
	for _, f := range s.factors[i] {
		sum += f
	}
	return sum
}
