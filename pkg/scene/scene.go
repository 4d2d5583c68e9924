// Package scene holds the in-memory scene graph: the flat arrays of quad
// faces, sphere primitives, portals, and the light list, built once at load
// and otherwise immutable except for subdivision (spec.md section 3).
package scene

import (
	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/geometry"
)

// Scene is the renderer's arena-style scene graph: every cross-reference
// (light list, portal side list, per-face radiosity index) is a plain
// index into a flat slice rather than a pointer cycle (spec.md section 9
// design note).
type Scene struct {
	Materials []*core.Material

	Faces       []*geometry.Face
	Spheres     []*geometry.Sphere
	Portals     []*geometry.Portal
	PortalSides []*geometry.PortalSide // flat list; hit.Portal indexes here

	// Lights holds the indices into Faces that are emissive, i.e. the
	// scene's area light list.
	Lights []int

	// NumRadiosityPatches is the number of entries radiosity per-patch
	// arrays must be sized to: every original Face plus every rasterized
	// sphere patch, once rasterization has been performed.
	NumRadiosityPatches int
}

// New returns an empty scene.
func New() *Scene { return &Scene{} }

// AddFace appends a face and returns its index, auto-registering it as a
// light if its material is emissive.
func (s *Scene) AddFace(f *geometry.Face) int {
	idx := len(s.Faces)
	f.RadiosityIdx = idx
	s.Faces = append(s.Faces, f)
	if f.Material != nil && f.Material.IsEmissive() {
		s.Lights = append(s.Lights, idx)
	}
	s.NumRadiosityPatches = len(s.Faces)
	return idx
}

// AddSphere appends a sphere.
func (s *Scene) AddSphere(sp *geometry.Sphere) {
	s.Spheres = append(s.Spheres, sp)
}

// AddPortal appends a portal and assigns its two sides sequential global
// indices (0..2P-1, side = index % 2), matching spec.md 4.1's portal_out
// contract.
func (s *Scene) AddPortal(p *geometry.Portal) {
	for _, side := range p.Sides {
		side.Index = len(s.PortalSides)
		s.PortalSides = append(s.PortalSides, side)
	}
	s.Portals = append(s.Portals, p)
}

// RasterizeSpheres tessellates every sphere into h x v quad patches for
// radiosity and extends NumRadiosityPatches accordingly (spec.md 4.1: use
// rasterized faces when use_rasterized is requested).
func (s *Scene) RasterizeSpheres(h, v int) {
	total := len(s.Faces)
	for _, sp := range s.Spheres {
		faces := sp.Tessellate(h, v)
		for _, f := range faces {
			f.RadiosityIdx = total
			total++
		}
	}
	s.NumRadiosityPatches = total
}

// RasterizedFaces returns every rasterized sphere patch face, in the order
// their RadiosityIdx assigns them.
func (s *Scene) RasterizedFaces() []*geometry.Face {
	var out []*geometry.Face
	for _, sp := range s.Spheres {
		out = append(out, sp.RasterFace...)
	}
	return out
}

// BoundingBox returns the AABB enclosing every face, sphere and portal
// side in the scene.
func (s *Scene) BoundingBox() core.AABB {
	var box core.AABB
	first := true
	union := func(b core.AABB) {
		if first {
			box, first = b, false
			return
		}
		box = box.Union(b)
	}
	for _, f := range s.Faces {
		union(f.BoundingBox())
	}
	for _, sp := range s.Spheres {
		union(sp.BoundingBox())
	}
	for _, ps := range s.PortalSides {
		corners := ps.Corners()
		union(core.NewAABBFromPoints(corners[0], corners[1], corners[2], corners[3]))
	}
	return box
}

// LightFace returns the Face at the given index into Faces; every call
// site passes one of the face indices stored in Lights.
func (s *Scene) LightFace(faceIdx int) *geometry.Face { return s.Faces[faceIdx] }
