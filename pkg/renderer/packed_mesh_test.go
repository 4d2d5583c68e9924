package renderer

import (
	"testing"

	"github.com/df07/portal-gi/pkg/core"
)

func vert(x float64) Vertex {
	return Vertex{
		Position: core.NewVec3(x, 0, 0),
		Normal:   core.NewVec3(0, 1, 0),
		Color:    core.NewVec3(1, 1, 1),
	}
}

func TestPackedMeshAppendTriangle(t *testing.T) {
	m := NewPackedMesh()
	m.AppendTriangle(vert(1), vert(2), vert(3))
	if m.NumTriangleVertices() != 3 {
		t.Fatalf("NumTriangleVertices = %d, want 3", m.NumTriangleVertices())
	}
	if len(m.Triangles) != 3*vertexFloats {
		t.Fatalf("Triangles buffer length = %d, want %d", len(m.Triangles), 3*vertexFloats)
	}
	if m.Triangles[0] != 1 {
		t.Errorf("first packed vertex x = %v, want 1", m.Triangles[0])
	}
	// homogeneous position w and normal w markers (spec.md 4.12's record layout)
	if m.Triangles[3] != 1 || m.Triangles[7] != 0 {
		t.Errorf("position.w/normal.w = %v/%v, want 1/0", m.Triangles[3], m.Triangles[7])
	}
}

func TestPackedMeshAppendPointAndLine(t *testing.T) {
	m := NewPackedMesh()
	m.AppendPoint(vert(1))
	m.AppendLine(vert(1), vert(2))
	if m.NumPoints() != 1 {
		t.Errorf("NumPoints = %d, want 1", m.NumPoints())
	}
	if m.NumLineVertices() != 2 {
		t.Errorf("NumLineVertices = %d, want 2", m.NumLineVertices())
	}
}

// The packed-mesh buffers must never drop data on overflow; they grow
// (doubling) instead (spec.md section 7's capacity-violation rule).
func TestPackedMeshGrowsWithoutDroppingData(t *testing.T) {
	m := NewPackedMesh()
	const n = 500
	for i := 0; i < n; i++ {
		m.AppendTriangle(vert(float64(i)), vert(float64(i)+0.1), vert(float64(i)+0.2))
	}
	if m.NumTriangleVertices() != 3*n {
		t.Fatalf("NumTriangleVertices = %d, want %d", m.NumTriangleVertices(), 3*n)
	}
	for i := 0; i < n; i++ {
		got := m.Triangles[i*3*vertexFloats]
		if got != float32(i) {
			t.Fatalf("triangle %d's first vertex x = %v, want %v (data lost on growth)", i, got, i)
		}
	}
}

func TestPackedMeshReset(t *testing.T) {
	m := NewPackedMesh()
	m.AppendTriangle(vert(1), vert(2), vert(3))
	m.AppendPoint(vert(4))
	m.AppendLine(vert(5), vert(6))
	m.Reset()
	if m.NumTriangleVertices() != 0 || m.NumPoints() != 0 || m.NumLineVertices() != 0 {
		t.Error("Reset should zero all counts")
	}
}
