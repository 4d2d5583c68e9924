package raytrace

import (
	"testing"

	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/geometry"
	"github.com/df07/portal-gi/pkg/scene"
)

func lightQuad(z float64) *geometry.Face {
	mat := &core.Material{Emitted: core.NewVec3(10, 10, 10)}
	v0 := geometry.Vertex{Position: core.NewVec3(-1, -1, z)}
	v1 := geometry.Vertex{Position: core.NewVec3(1, -1, z)}
	v2 := geometry.Vertex{Position: core.NewVec3(1, 1, z)}
	v3 := geometry.Vertex{Position: core.NewVec3(-1, 1, z)}
	return geometry.NewFace(v0, v1, v2, v3, mat, -1)
}

func TestEnumerateShadowRaysDirectVisible(t *testing.T) {
	sc := scene.New()
	idx := sc.AddFace(lightQuad(-5))
	opts := core.DefaultOptions()

	rays := EnumerateShadowRays(sc, idx, core.NewVec3(0, 0, 0), opts, nil)
	if len(rays) != 1 {
		t.Fatalf("expected 1 direct shadow ray with nothing blocking, got %d", len(rays))
	}
}

func TestEnumerateShadowRaysOccluded(t *testing.T) {
	sc := scene.New()
	idx := sc.AddFace(lightQuad(-5))
	sc.AddFace(testQuad(-2, &core.Material{})) // opaque blocker between shading point and light
	opts := core.DefaultOptions()

	rays := EnumerateShadowRays(sc, idx, core.NewVec3(0, 0, 0), opts, nil)
	if len(rays) != 0 {
		t.Fatalf("expected the blocker to occlude the light, got %d rays", len(rays))
	}
}

func TestEnumerateShadowRaysIgnoresCoincidentPoint(t *testing.T) {
	sc := scene.New()
	light := lightQuad(0)
	idx := sc.AddFace(light)
	opts := core.DefaultOptions()

	rays := EnumerateShadowRays(sc, idx, light.Centroid(), opts, nil)
	for _, r := range rays {
		if r.TotalDistance <= core.Epsilon {
			t.Error("shadow ray at the light's own centroid should be skipped, not zero-distance")
		}
	}
}
