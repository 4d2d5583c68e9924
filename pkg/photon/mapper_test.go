package photon

import (
	"testing"

	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/geometry"
	"github.com/df07/portal-gi/pkg/scene"
)

// a closed box (four walls, floor, ceiling emitter) so photon bounces stay
// inside it rather than escaping to infinity on the first hit.
func closedRoom(albedo core.Vec3) *scene.Scene {
	sc := scene.New()
	wallMat := &core.Material{Diffuse: core.SolidColor(albedo)}
	lightMat := &core.Material{Emitted: core.NewVec3(1, 1, 1)}

	quad := func(v0, v1, v2, v3 core.Vec3, mat *core.Material) {
		sc.AddFace(geometry.NewFace(
			geometry.Vertex{Position: v0}, geometry.Vertex{Position: v1},
			geometry.Vertex{Position: v2}, geometry.Vertex{Position: v3},
			mat, -1,
		))
	}

	// floor / ceiling (ceiling is the emitter)
	quad(core.NewVec3(-5, 0, -5), core.NewVec3(5, 0, -5), core.NewVec3(5, 0, 5), core.NewVec3(-5, 0, 5), wallMat)
	quad(core.NewVec3(-5, 10, -5), core.NewVec3(5, 10, -5), core.NewVec3(5, 10, 5), core.NewVec3(-5, 10, 5), lightMat)
	// four walls
	quad(core.NewVec3(-5, 0, -5), core.NewVec3(-5, 10, -5), core.NewVec3(-5, 10, 5), core.NewVec3(-5, 0, 5), wallMat)
	quad(core.NewVec3(5, 0, -5), core.NewVec3(5, 10, -5), core.NewVec3(5, 10, 5), core.NewVec3(5, 0, 5), wallMat)
	quad(core.NewVec3(-5, 0, -5), core.NewVec3(5, 0, -5), core.NewVec3(5, 10, -5), core.NewVec3(-5, 10, -5), wallMat)
	quad(core.NewVec3(-5, 0, 5), core.NewVec3(5, 0, 5), core.NewVec3(5, 10, 5), core.NewVec3(-5, 10, 5), wallMat)

	return sc
}

func testOptions() core.Options {
	opts := core.DefaultOptions()
	opts.IntersectBackfacing = true
	opts.NumPhotonsToShoot = 2000
	opts.NumPhotonsToCollect = 20
	return opts
}

func TestMapperEmitStoresPhotonsInsideTheScene(t *testing.T) {
	sc := closedRoom(core.NewVec3(0.6, 0.6, 0.6))
	opts := testOptions()
	m := NewMapper(sc, core.NewSampler(1), opts)
	m.Emit(opts)

	if m.NumStored() == 0 {
		t.Fatal("expected at least one stored photon in a closed, diffuse room")
	}

	box := sc.BoundingBox()
	collected := m.Tree.Collect(box.ExpandFraction(0.01), nil)
	if len(collected) != m.NumStored() {
		t.Errorf("collected %d photons over the scene bounds, want %d (NumStored)", len(collected), m.NumStored())
	}
	for _, p := range collected {
		if !box.ExpandFraction(0.01).Contains(p.Position) {
			t.Errorf("stored photon %v lies outside the scene bounds", p.Position)
		}
		// energy must never exceed the emitter's own radiance component-wise
		if p.Energy.X > 1+1e-6 || p.Energy.Y > 1+1e-6 || p.Energy.Z > 1+1e-6 {
			t.Errorf("stored photon energy %v exceeds the emitter's radiance", p.Energy)
		}
	}
}

func TestMapperEmitNoOpWithoutLights(t *testing.T) {
	sc := scene.New()
	sc.AddFace(geometry.NewFace(
		geometry.Vertex{Position: core.NewVec3(-1, 0, -1)}, geometry.Vertex{Position: core.NewVec3(1, 0, -1)},
		geometry.Vertex{Position: core.NewVec3(1, 0, 1)}, geometry.Vertex{Position: core.NewVec3(-1, 0, 1)},
		&core.Material{Diffuse: core.SolidColor(core.NewVec3(1, 1, 1))}, -1,
	))
	opts := testOptions()
	m := NewMapper(sc, core.NewSampler(1), opts)
	m.Emit(opts)
	if m.NumStored() != 0 {
		t.Errorf("expected no photons stored with no lights, got %d", m.NumStored())
	}
}

func TestMapperClearResetsStorage(t *testing.T) {
	sc := closedRoom(core.NewVec3(0.6, 0.6, 0.6))
	opts := testOptions()
	m := NewMapper(sc, core.NewSampler(1), opts)
	m.Emit(opts)
	if m.NumStored() == 0 {
		t.Fatal("expected photons before Clear")
	}
	m.Clear()
	if m.NumStored() != 0 || m.Tree.NumPhotons() != 0 {
		t.Error("Clear should reset both the stored count and the tree")
	}
}

// A photon landing on a strongly reflective surface must mirror-reflect
// and carry reflective-scaled energy forward, rather than always bouncing
// diffusely. A mirror floor directly below a catching ceiling makes the
// resulting path fully deterministic: any diffuse (cosine-weighted random)
// bounce off the floor would almost never land exactly above it.
func TestTraceSeedMirrorReflectsOffReflectiveSurface(t *testing.T) {
	sc := scene.New()
	mirrorFloor := &core.Material{Reflective: core.NewVec3(0.9, 0.9, 0.9)}
	catcher := &core.Material{Diffuse: core.SolidColor(core.NewVec3(0.5, 0.5, 0.5))}

	sc.AddFace(geometry.NewFace(
		geometry.Vertex{Position: core.NewVec3(-5, 0, -5)}, geometry.Vertex{Position: core.NewVec3(5, 0, -5)},
		geometry.Vertex{Position: core.NewVec3(5, 0, 5)}, geometry.Vertex{Position: core.NewVec3(-5, 0, 5)},
		mirrorFloor, -1,
	))
	sc.AddFace(geometry.NewFace(
		geometry.Vertex{Position: core.NewVec3(-5, 10, -5)}, geometry.Vertex{Position: core.NewVec3(5, 10, -5)},
		geometry.Vertex{Position: core.NewVec3(5, 10, 5)}, geometry.Vertex{Position: core.NewVec3(-5, 10, 5)},
		catcher, -1,
	))

	opts := core.DefaultOptions()
	opts.IntersectBackfacing = true

	sampler := core.NewSampler(1)
	origin := core.NewVec3(0, 5, 0)
	dir := core.NewVec3(0, -1, 0)
	energy := core.NewVec3(1, 1, 1)
	photons := traceSeed(sc, sampler, origin, dir, energy, energy.Length(), opts)

	if len(photons) == 0 {
		t.Fatal("expected at least one stored photon (the ceiling catch after the mirror bounce)")
	}
	ceilingHit := photons[0]
	if ceilingHit.Position.Subtract(core.NewVec3(0, 10, 0)).Length() > 1e-6 {
		t.Errorf("ceiling hit position = %v, want directly above the mirror bounce point (0,10,0)", ceilingHit.Position)
	}
	if ceilingHit.DirectionFrom.Subtract(core.NewVec3(0, -1, 0)).Length() > 1e-6 {
		t.Errorf("ceiling hit DirectionFrom = %v, want (0,-1,0) (arrived travelling straight up)", ceilingHit.DirectionFrom)
	}
	want := core.NewVec3(0.9, 0.9, 0.9)
	if ceilingHit.Energy.Subtract(want).Length() > 1e-6 {
		t.Errorf("ceiling hit energy = %v, want %v (reflective-scaled, not diffuse-scaled)", ceilingHit.Energy, want)
	}
}

// crossesPortalRectangle must accept a photon whose back-travel ray toward
// the transferred query point actually threads the portal rectangle, and
// reject one that merely lies in a nearby box without passing through it.
func TestCrossesPortalRectangleFiltersByActualAlignment(t *testing.T) {
	portal := geometry.NewPortal(core.Identity4(), core.Translate4(core.NewVec3(0, 0, -3)))
	side := portal.Sides[0]

	point := core.NewVec3(0.2, 0.1, 2)
	transferredPoint := side.TransferPoint(point)

	aligned := core.NewVec3(0.2, 0.1, -4)
	if !crossesPortalRectangle(side, aligned, transferredPoint) {
		t.Error("a photon aligned with the query point through the portal should cross the rectangle")
	}

	offAxis := core.NewVec3(2, 0.1, -4)
	if crossesPortalRectangle(side, offAxis, transferredPoint) {
		t.Error("a photon whose line to the transferred point misses the rectangle bounds should not cross it")
	}
}

func TestMapperGatherIndirectZeroWithNoPhotons(t *testing.T) {
	sc := closedRoom(core.NewVec3(0.6, 0.6, 0.6))
	opts := testOptions()
	m := NewMapper(sc, core.NewSampler(1), opts)
	got := m.GatherIndirect(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	if !got.IsZero() {
		t.Errorf("GatherIndirect with an empty photon map = %v, want zero", got)
	}
}
