package host

import (
	"testing"

	"github.com/df07/portal-gi/pkg/core"
)

func defaultTestOptions() core.Options {
	o := core.DefaultOptions()
	o.Width, o.Height = 4, 4
	return o
}

func TestRendererPackMeshFillsTriangleBuffer(t *testing.T) {
	sc := testScene()
	r := New(sc, testCamera(), defaultTestOptions(), core.NopLogger{})
	r.PackMesh()

	wantVertices := len(sc.Faces) * 6 // 2 triangles per quad face, 3 vertices each
	if r.Mesh.NumTriangleVertices() != wantVertices {
		t.Errorf("NumTriangleVertices() = %d, want %d", r.Mesh.NumTriangleVertices(), wantVertices)
	}
}

func TestRendererPackMeshIncludesPhotonPointsWhenRequested(t *testing.T) {
	sc := testScene()
	o := defaultTestOptions()
	o.RenderPhotons = true
	o.NumPhotonsToShoot = 500
	o.IntersectBackfacing = true

	r := New(sc, testCamera(), o, core.NopLogger{})
	r.TracePhotons()
	r.PackMesh()

	if r.Mapper.NumStored() > 0 && r.Mesh.NumPoints() == 0 {
		t.Error("expected PackMesh to pack at least one photon point when RenderPhotons is set and photons exist")
	}
}
