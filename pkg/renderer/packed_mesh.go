package renderer

import "github.com/df07/portal-gi/pkg/core"

// vertexFloats is the record size of a packed host-visible vertex: pos.xyz,
// 1, normal.xyz, 0, color.rgb, 1 (spec.md 4.12).
const vertexFloats = 12

// PackedMesh holds the triangle and point buffers a host reads back after
// PackMesh, doubling capacity on overflow rather than ever dropping data
// (spec.md 4.8 PackMesh, section 7 capacity-violation rule).
type PackedMesh struct {
	Triangles []float32 // tightly packed, vertexFloats per vertex, 3 per triangle
	Points    []float32 // vertexFloats per point
	Lines     []float32 // vertexFloats per endpoint, 2 per segment

	triCount  int
	ptCount   int
	lineCount int
}

// NewPackedMesh returns an empty packed mesh.
func NewPackedMesh() *PackedMesh { return &PackedMesh{} }

// Reset clears every buffer without releasing their backing capacity.
func (m *PackedMesh) Reset() {
	m.triCount = 0
	m.ptCount = 0
	m.lineCount = 0
}

// AppendTriangle packs one triangle's three vertices, growing Triangles
// (doubled) if it would overflow.
func (m *PackedMesh) AppendTriangle(a, b, c Vertex) {
	needed := (m.triCount + 3) * vertexFloats
	m.Triangles = growFloat32(m.Triangles, needed)
	off := m.triCount * vertexFloats
	packVertex(m.Triangles[off:], a)
	packVertex(m.Triangles[off+vertexFloats:], b)
	packVertex(m.Triangles[off+2*vertexFloats:], c)
	m.triCount += 3
}

// AppendPoint packs one point record, growing Points (doubled) if it would
// overflow.
func (m *PackedMesh) AppendPoint(p Vertex) {
	needed := (m.ptCount + 1) * vertexFloats
	m.Points = growFloat32(m.Points, needed)
	packVertex(m.Points[m.ptCount*vertexFloats:], p)
	m.ptCount++
}

// AppendLine packs one line segment's two endpoints, growing Lines
// (doubled) if it would overflow.
func (m *PackedMesh) AppendLine(a, b Vertex) {
	needed := (m.lineCount + 2) * vertexFloats
	m.Lines = growFloat32(m.Lines, needed)
	off := m.lineCount * vertexFloats
	packVertex(m.Lines[off:], a)
	packVertex(m.Lines[off+vertexFloats:], b)
	m.lineCount += 2
}

// NumTriangleVertices, NumPoints and NumLineVertices report how much of
// each buffer is populated (the buffers themselves may have spare doubled
// capacity).
func (m *PackedMesh) NumTriangleVertices() int { return m.triCount }
func (m *PackedMesh) NumPoints() int           { return m.ptCount }
func (m *PackedMesh) NumLineVertices() int     { return m.lineCount }

// Vertex is one packed-mesh vertex source: position, normal, and a flat
// (already-shaded) color.
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
	Color    core.Vec3
}

func packVertex(dst []float32, v Vertex) {
	dst[0] = float32(v.Position.X)
	dst[1] = float32(v.Position.Y)
	dst[2] = float32(v.Position.Z)
	dst[3] = 1
	dst[4] = float32(v.Normal.X)
	dst[5] = float32(v.Normal.Y)
	dst[6] = float32(v.Normal.Z)
	dst[7] = 0
	dst[8] = float32(v.Color.X)
	dst[9] = float32(v.Color.Y)
	dst[10] = float32(v.Color.Z)
	dst[11] = 1
}

// growFloat32 doubles cap(buf) until it can hold at least needed floats,
// preserving existing contents and extending len to needed.
func growFloat32(buf []float32, needed int) []float32 {
	if cap(buf) >= needed {
		return buf[:needed]
	}
	newCap := cap(buf)
	if newCap == 0 {
		newCap = vertexFloats * 4
	}
	for newCap < needed {
		newCap *= 2
	}
	grown := make([]float32, needed, newCap)
	copy(grown, buf)
	return grown
}
