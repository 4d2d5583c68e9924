package photon

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/geometry"
	"github.com/df07/portal-gi/pkg/raytrace"
	"github.com/df07/portal-gi/pkg/scene"
)

// energyCutoff is the fraction of a photon's initial energy below which it
// is considered absorbed rather than bounced again (spec.md 4.5,
// ENERGY_CUTOFF in the original implementation).
const energyCutoff = 0.01

// maxBounces caps photon transport recursion regardless of remaining energy
// (spec.md 4.5 / REDESIGN FLAGS: "unbounded photon recursion... capped at
// 32 bounces; preserve this cap").
const maxBounces = 32

// maxGatherDoublings bounds GatherIndirect's adaptive radius search
// (spec.md 4.5).
const maxGatherDoublings = 32

// Mapper owns the photon kd-tree and the scene it was built against, and
// implements raytrace.Gatherer for the evaluator's indirect-light term.
type Mapper struct {
	Scene   *scene.Scene
	Tree    *Tree
	Sampler *core.Sampler
	Opts    core.Options

	stored int
}

// NewMapper constructs an empty mapper with a tree sized to the scene's
// bounding box.
func NewMapper(sc *scene.Scene, sampler *core.Sampler, opts core.Options) *Mapper {
	return &Mapper{Scene: sc, Tree: NewTree(sc.BoundingBox()), Sampler: sampler, Opts: opts}
}

// Clear discards all stored photons, rebuilding an empty tree.
func (m *Mapper) Clear() {
	m.Tree = NewTree(m.Scene.BoundingBox())
	m.stored = 0
}

// Emit shoots opts.NumPhotonsToShoot photons from the scene's lights,
// allocating each light a share of the total proportional to its area
// (spec.md 4.5).
func (m *Mapper) Emit(opts core.Options) {
	if len(m.Scene.Lights) == 0 || opts.NumPhotonsToShoot <= 0 {
		return
	}

	totalArea := 0.0
	for _, li := range m.Scene.Lights {
		totalArea += m.Scene.LightFace(li).AreaSum()
	}
	if totalArea <= 0 {
		return
	}

	for _, li := range m.Scene.Lights {
		light := m.Scene.LightFace(li)
		share := light.AreaSum() / totalArea
		count := int(share*float64(opts.NumPhotonsToShoot) + 0.5)
		if count <= 0 {
			continue
		}
		areaPerPhoton := light.AreaSum() / float64(count)

		for i := 0; i < count; i++ {
			origin := light.RandomPoint(*m.Sampler)
			dir := m.Sampler.CosineHemisphere(light.Normal())
			energy := light.Material.Emitted.Multiply(areaPerPhoton)
			for _, p := range traceSeed(m.Scene, m.Sampler, origin, dir, energy, energy.Length(), opts) {
				m.Tree.Add(p)
				m.stored++
			}
		}
	}
}

// EmitParallel is Emit's worker-pool escape hatch (spec.md section
// 5: photon emission is embarrassingly parallel). It samples every
// photon's emission point and direction sequentially on m.Sampler (cheap,
// and keeps the emission pattern independent of worker count), then traces
// the bounces concurrently across workers goroutines, each on its own
// sampler, merging the resulting photons into the kd-tree back on the
// calling goroutine.
func (m *Mapper) EmitParallel(opts core.Options, workers int) error {
	if len(m.Scene.Lights) == 0 || opts.NumPhotonsToShoot <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	totalArea := 0.0
	for _, li := range m.Scene.Lights {
		totalArea += m.Scene.LightFace(li).AreaSum()
	}
	if totalArea <= 0 {
		return nil
	}

	type seed struct {
		origin, dir, energy core.Vec3
	}
	var seeds []seed
	for _, li := range m.Scene.Lights {
		light := m.Scene.LightFace(li)
		share := light.AreaSum() / totalArea
		count := int(share*float64(opts.NumPhotonsToShoot) + 0.5)
		if count <= 0 {
			continue
		}
		areaPerPhoton := light.AreaSum() / float64(count)
		for i := 0; i < count; i++ {
			seeds = append(seeds, seed{
				origin: light.RandomPoint(*m.Sampler),
				dir:    m.Sampler.CosineHemisphere(light.Normal()),
				energy: light.Material.Emitted.Multiply(areaPerPhoton),
			})
		}
	}

	results := make([][]Photon, len(seeds))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for i, sd := range seeds {
		i, sd := i, sd
		g.Go(func() error {
			sampler := core.NewSampler(int64(i) + 1)
			results[i] = traceSeed(m.Scene, sampler, sd.origin, sd.dir, sd.energy, sd.energy.Length(), opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, photons := range results {
		for _, p := range photons {
			m.Tree.Add(p)
			m.stored++
		}
	}
	return nil
}

// traceSeed follows one photon through the scene, returning the photons it
// deposits at every non-emissive hit past the first bounce. It transports
// through portals and terminates on a Russian-roulette-style energy
// cutoff, a missed ray, or the bounce cap (spec.md 4.5). It takes its own
// sampler so concurrent callers (EmitParallel) don't share RNG state.
func traceSeed(sc *scene.Scene, sampler *core.Sampler, origin, dir, energy core.Vec3, initialEnergy float64, opts core.Options) []Photon {
	var stored []Photon
	portalDepth := 0
	bounce := 0

	for iter := 0; iter < maxBounces; iter++ {
		ray := core.NewRay(origin, dir)
		hit, ok := raytrace.Cast(sc, ray, opts, false, portalDepth < opts.PortalRecursionDepth)
		if !ok {
			return stored
		}

		if hit.Portal >= 0 {
			side := sc.PortalSides[hit.Portal]
			origin = side.TransferPoint(hit.Point)
			dir = side.TransferDirection(dir)
			portalDepth++
			continue
		}

		mat := hit.Material
		if mat == nil || mat.IsEmissive() {
			return stored
		}

		if bounce > 0 {
			stored = append(stored, Photon{
				Position:      hit.Point,
				DirectionFrom: dir.Negate(),
				Energy:        energy,
				Bounce:        bounce,
			})
		}

		if energy.Length() < energyCutoff*initialEnergy {
			return stored
		}

		if reflected := energy.MultiplyVec(mat.Reflective); reflected.Length() > energyCutoff*initialEnergy {
			energy = reflected
			dir = dir.Reflect(hit.Normal)
		} else {
			energy = energy.MultiplyVec(mat.DiffuseAt(hit.UV))
			dir = sampler.RejectedHemisphereDirection(hit.Normal)
		}
		origin = hit.Point
		bounce++
	}

	return stored
}

// NumStored returns the number of photons actually stored (post-emission
// bounces only; direct-hit-on-light photons and unbounced photons don't
// count, matching the tree's own photon count).
func (m *Mapper) NumStored() int { return m.stored }

// GatherIndirect estimates indirect radiance at point by adaptively growing
// a search radius until it contains m.Opts.NumPhotonsToCollect photons,
// then averaging the energy of nearby photons travelling toward normal's
// hemisphere (spec.md 4.5, 4.9). It satisfies raytrace.Gatherer. incoming is
// accepted to match the interface but unused: the estimate depends only on
// position and normal.
func (m *Mapper) GatherIndirect(point, normal, incoming core.Vec3) core.Vec3 {
	target := m.Opts.NumPhotonsToCollect
	if m.Tree.NumPhotons() == 0 || target <= 0 {
		return core.Vec3{}
	}

	extent := m.Scene.BoundingBox().Size().Length()
	if extent <= 0 {
		return core.Vec3{}
	}

	guess := float64(target) / float64(m.Tree.NumPhotons())
	if guess <= 0 {
		guess = 1
	}

	var radius float64
	for d := 0; d < maxGatherDoublings; d++ {
		radius = guess * extent / 2
		box := core.NewAABB(
			point.Subtract(core.NewVec3(radius, radius, radius)),
			point.Add(core.NewVec3(radius, radius, radius)),
		)
		if m.Tree.Count(box) >= target {
			break
		}
		guess *= 2
	}

	box := core.NewAABB(
		point.Subtract(core.NewVec3(radius, radius, radius)),
		point.Add(core.NewVec3(radius, radius, radius)),
	)
	candidates := m.Tree.Collect(box, nil)

	var energy core.Vec3
	maxDistSq := 0.0
	n := normal.Normalize()
	radiusSq := radius * radius
	for _, ph := range candidates {
		if ph.DirectionFrom.Dot(n) >= 0 {
			continue
		}
		distSq := ph.Position.Subtract(point).LengthSquared()
		if distSq > radiusSq {
			continue
		}
		energy = energy.Add(ph.Energy)
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}

	for _, side := range m.Scene.PortalSides {
		transferredPoint := side.TransferPoint(point)
		transferredNormal := side.TransferDirection(n)
		pbox := core.NewAABB(
			transferredPoint.Subtract(core.NewVec3(radius, radius, radius)),
			transferredPoint.Add(core.NewVec3(radius, radius, radius)),
		)
		portalPhotons := m.Tree.Collect(pbox, nil)
		for i := range portalPhotons {
			ph := portalPhotons[i]
			if ph.DirectionFrom.Dot(transferredNormal) >= 0 {
				continue
			}
			distSq := ph.Position.Subtract(transferredPoint).LengthSquared()
			if distSq > radiusSq {
				continue
			}
			if !crossesPortalRectangle(side, ph.Position, transferredPoint) {
				continue
			}
			energy = energy.Add(ph.Energy)
			if distSq > maxDistSq {
				maxDistSq = distSq
			}
		}
	}

	if maxDistSq <= 0 {
		return core.Vec3{}
	}
	return energy.Multiply(1.0 / (math.Pi * maxDistSq))
}

// crossesPortalRectangle reports whether the segment from photonPos back to
// transferredPoint actually passes through the rectangle of side's twin
// (side.Other, the side transferredPoint lies beside), rather than merely
// landing near it in space (spec.md 4.5: gathering through a
// portal must filter to photons whose back-travel ray crosses the portal).
func crossesPortalRectangle(side *geometry.PortalSide, photonPos, transferredPoint core.Vec3) bool {
	dist := transferredPoint.Subtract(photonPos).Length()
	if dist <= core.Epsilon {
		return false
	}
	ray := core.NewRayTo(photonPos, transferredPoint)
	_, ok := side.Other.Hit(ray, core.Epsilon, dist-core.Epsilon)
	return ok
}
