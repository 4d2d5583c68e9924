package host

import (
	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/geometry"
	"github.com/df07/portal-gi/pkg/renderer"
)

// photonPointBoxFraction expands the scene bounding box by this fraction
// when querying the photon kd-tree for "every stored photon" (there being
// no dedicated enumeration API, spec.md 4.4's Collect is reused with a box
// covering the whole scene).
const photonPointBoxFraction = 0.01

// PackMesh projects the current simulation state into the packed
// triangle/point buffers a host would upload to its renderer (spec.md 4.8,
// 4.12). Faces shade from the radiosity solver's per-patch radiance when
// render_mode selects a radiosity readback, falling back to the flat
// material diffuse otherwise; photon positions are packed as points when
// render_photons is set.
func (r *Renderer) PackMesh() {
	r.Mesh.Reset()

	for _, f := range r.Scene.Faces {
		r.packFaceTriangles(f)
	}
	for _, f := range r.Scene.RasterizedFaces() {
		r.packFaceTriangles(f)
	}

	if r.Opts.RenderPhotons {
		r.packPhotonPoints()
	}
	if r.Opts.RenderKDTree {
		r.packKDTreeBoxes()
	}
}

func (r *Renderer) packFaceTriangles(f *geometry.Face) {
	color := r.faceColor(f)
	normal := f.Normal()

	v0 := renderer.Vertex{Position: f.V[0].Position, Normal: normal, Color: color}
	v1 := renderer.Vertex{Position: f.V[1].Position, Normal: normal, Color: color}
	v2 := renderer.Vertex{Position: f.V[2].Position, Normal: normal, Color: color}
	v3 := renderer.Vertex{Position: f.V[3].Position, Normal: normal, Color: color}

	r.Mesh.AppendTriangle(v0, v1, v2)
	r.Mesh.AppendTriangle(v0, v2, v3)
}

func (r *Renderer) faceColor(f *geometry.Face) core.Vec3 {
	switch r.Opts.RenderMode {
	case core.RenderModeRadiance, core.RenderModeUndistributed, core.RenderModeAbsorbed, core.RenderModeFormFactors, core.RenderModeLights:
		idx := f.RadiosityIdx
		if idx < 0 || idx >= r.Solver.NumPatches() {
			return core.Vec3{}
		}
		switch r.Opts.RenderMode {
		case core.RenderModeUndistributed:
			return r.Solver.Undistributed[idx]
		case core.RenderModeAbsorbed:
			return r.Solver.Absorbed[idx]
		case core.RenderModeFormFactors:
			sum := r.Solver.FormFactorSum(idx)
			return core.NewVec3(sum, sum, sum).Clamp(0, 1)
		case core.RenderModeLights:
			if f.Material != nil && f.Material.IsEmissive() {
				return core.NewVec3(1, 1, 1)
			}
			return core.Vec3{}
		default:
			return r.Solver.Radiance[idx]
		}
	default:
		if f.Material == nil {
			return core.Vec3{}
		}
		return f.Material.DiffuseAt(f.V[0].UV)
	}
}

// kdTreeLineColor tints every packed kd-tree wireframe segment (spec.md
// 4.8's render_kdtree option, section 4.4's leaf box visualization).
var kdTreeLineColor = core.NewVec3(0.2, 0.8, 0.2)

// boxEdges lists an AABB's 12 edges as pairs of corner indices into the
// 8-corner enumeration (bit 0 = X, bit 1 = Y, bit 2 = Z of Min/Max choice).
var boxEdges = [12][2]int{
	{0, 1}, {0, 2}, {0, 4}, {1, 3}, {1, 5}, {2, 3},
	{2, 6}, {3, 7}, {4, 5}, {4, 6}, {5, 7}, {6, 7},
}

func (r *Renderer) packKDTreeBoxes() {
	for _, box := range r.Mapper.Tree.LeafBoxes() {
		var corners [8]core.Vec3
		for i := range corners {
			corners[i] = core.NewVec3(
				pick(i&1 != 0, box.Min.X, box.Max.X),
				pick(i&2 != 0, box.Min.Y, box.Max.Y),
				pick(i&4 != 0, box.Min.Z, box.Max.Z),
			)
		}
		for _, e := range boxEdges {
			a := renderer.Vertex{Position: corners[e[0]], Color: kdTreeLineColor}
			b := renderer.Vertex{Position: corners[e[1]], Color: kdTreeLineColor}
			r.Mesh.AppendLine(a, b)
		}
	}
}

func pick(hi bool, lo, hiVal float64) float64 {
	if hi {
		return hiVal
	}
	return lo
}

func (r *Renderer) packPhotonPoints() {
	box := r.Scene.BoundingBox()
	expanded := box.ExpandFraction(photonPointBoxFraction)
	for _, p := range r.Mapper.Tree.Collect(expanded, nil) {
		color := p.Energy.Clamp(0, 1)
		normal := p.DirectionFrom
		if r.Opts.RenderPhotonDirections {
			normal = p.DirectionFrom.Negate()
		}
		r.Mesh.AppendPoint(renderer.Vertex{Position: p.Position, Normal: normal, Color: color})
	}
}
