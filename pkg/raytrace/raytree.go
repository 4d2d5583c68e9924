package raytrace

import "github.com/df07/portal-gi/pkg/core"

// SegmentKind labels a recorded ray-tree segment for visualization.
type SegmentKind string

const (
	SegmentMain        SegmentKind = "main"
	SegmentShadow      SegmentKind = "shadow"
	SegmentReflected   SegmentKind = "reflected"
	SegmentTransmitted SegmentKind = "transmitted"
)

// Segment is one recorded leg of a VisualizeTraceRay call.
type Segment struct {
	Kind  SegmentKind
	Start core.Vec3
	End   core.Vec3
}

// RayTree accumulates the main/shadow/reflected/transmitted segments
// produced while tracing a single visualized pixel (spec.md 4.8,
// VisualizeTraceRay).
type RayTree struct {
	Segments []Segment
	active   bool
}

// NewRayTree returns a recorder that starts disabled; call Enable before a
// visualized trace and Reset before starting the next one.
func NewRayTree() *RayTree { return &RayTree{} }

// Enable turns recording on.
func (rt *RayTree) Enable() { rt.active = true }

// Disable turns recording off without clearing the accumulated segments.
func (rt *RayTree) Disable() { rt.active = false }

// Reset clears the accumulated segments.
func (rt *RayTree) Reset() { rt.Segments = nil }

// Record appends a segment if the recorder is active.
func (rt *RayTree) Record(kind SegmentKind, start, end core.Vec3) {
	if rt == nil || !rt.active {
		return
	}
	rt.Segments = append(rt.Segments, Segment{Kind: kind, Start: start, End: end})
}
