package renderer

import (
	"testing"

	"github.com/df07/portal-gi/pkg/core"
)

func TestPerspectiveCameraCentersOnLookAt(t *testing.T) {
	cam := NewPerspectiveCamera(
		core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0),
		90, 1,
	)
	ray := cam.GenerateRay(0.5, 0.5)
	want := core.NewVec3(0, 0, -1)
	if got := ray.Direction.Normalize(); got.Subtract(want).Length() > 1e-6 {
		t.Errorf("center ray direction = %v, want %v", got, want)
	}
	if !ray.Origin.Equals(core.NewVec3(0, 0, 5)) {
		t.Errorf("ray origin = %v, want camera position", ray.Origin)
	}
}

func TestOrthographicCameraParallelRays(t *testing.T) {
	cam := NewOrthographicCamera(
		core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0),
		2, 2,
	)
	a := cam.GenerateRay(0.2, 0.2)
	b := cam.GenerateRay(0.8, 0.8)
	if !a.Direction.Equals(b.Direction) {
		t.Errorf("orthographic rays should share one direction: %v vs %v", a.Direction, b.Direction)
	}
	if a.Origin.Equals(b.Origin) {
		t.Error("orthographic rays at different screen coordinates should have different origins")
	}
}
