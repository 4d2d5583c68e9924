// Package renderer holds the camera model, the progressive coarse-to-fine
// pixel scheduler, and the packed mesh buffers the host reads back after
// each simulation step (spec.md 4.8, 4.12).
package renderer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/df07/portal-gi/pkg/core"
)

// TraceFunc evaluates the final linear-radiance color for a primary ray at
// normalized screen coordinates (s, t) in [0, 1]^2. The scheduler is
// agnostic to which render mode produced it (materials / radiance /
// photon-gathered / radiosity readback); the host supplies the closure.
type TraceFunc func(s, t float64, sampler *core.Sampler) core.Vec3

// Scheduler implements the progressive coarse-to-fine pixel scheduler
// (spec.md 4.8): start at divs_x = divs_y = 1, draw one block per
// DrawPixel call, and once a full pass completes triple both divisions
// (clamped to the image size), clearing the inactive buffer and flipping
// to it. Stops once a pass completes with both divisions already at the
// image size.
type Scheduler struct {
	Width, Height int
	DivsX, DivsY  int

	bufA, bufB []core.Vec3 // sRGB, native-resolution pixel buffers
	renderToA  bool
	tileIndex  int
	done       bool
}

// NewScheduler returns a scheduler ready to render width x height at
// divs_x = divs_y = 1.
func NewScheduler(width, height int) *Scheduler {
	return &Scheduler{
		Width: width, Height: height,
		DivsX: 1, DivsY: 1,
		bufA: make([]core.Vec3, width*height),
		bufB: make([]core.Vec3, width*height),
		renderToA: true,
	}
}

// Image returns the currently active pixel buffer (sRGB, row-major,
// y=0 at the top), the one a host should display.
func (s *Scheduler) Image() []core.Vec3 {
	if s.renderToA {
		return s.bufA
	}
	return s.bufB
}

func (s *Scheduler) inactive() []core.Vec3 {
	if s.renderToA {
		return s.bufB
	}
	return s.bufA
}

// tileRect describes one block's pixel extent and its footprint/center in
// normalized screen space.
type tileRect struct {
	xStart, xEnd, yStart, yEnd int
	footprintW, footprintH     float64
	centerS, centerT           float64
}

func (s *Scheduler) currentTile() tileRect {
	tx := s.tileIndex % s.DivsX
	ty := s.tileIndex / s.DivsX

	xStart := tx * s.Width / s.DivsX
	xEnd := (tx + 1) * s.Width / s.DivsX
	yStart := ty * s.Height / s.DivsY
	yEnd := (ty + 1) * s.Height / s.DivsY
	if xEnd > s.Width {
		xEnd = s.Width
	}
	if yEnd > s.Height {
		yEnd = s.Height
	}

	return tileRect{
		xStart: xStart, xEnd: xEnd, yStart: yStart, yEnd: yEnd,
		footprintW: float64(xEnd-xStart) / float64(s.Width),
		footprintH: float64(yEnd-yStart) / float64(s.Height),
		centerS:    (float64(xStart+xEnd) / 2) / float64(s.Width),
		centerT:    1 - (float64(yStart+yEnd)/2)/float64(s.Height),
	}
}

// fillAndAdvance writes color into the given tile's block and moves the
// scheduler to the next tile, tripling divisions and flipping buffers on
// pass rollover (spec.md 4.8).
func (s *Scheduler) fillAndAdvance(t tileRect, color core.Vec3) {
	active := s.Image()
	for y := t.yStart; y < t.yEnd; y++ {
		row := y * s.Width
		for x := t.xStart; x < t.xEnd; x++ {
			active[row+x] = color
		}
	}

	s.tileIndex++
	if s.tileIndex >= s.DivsX*s.DivsY {
		s.tileIndex = 0
		if s.DivsX >= s.Width && s.DivsY >= s.Height {
			s.done = true
		} else {
			inactive := s.inactive()
			for i := range inactive {
				inactive[i] = core.Vec3{}
			}
			s.renderToA = !s.renderToA
			s.DivsX = min(s.DivsX*3, s.Width)
			s.DivsY = min(s.DivsY*3, s.Height)
		}
	}
}

// DrawPixel advances the scheduler by one block: it traces
// opts.NumAntialiasSamples jittered samples within the block's footprint
// (the first sample at the block's center), averages the linear radiance,
// converts to sRGB, and fills the block in the active buffer. It returns
// false once the image has been fully refined at native resolution
// (spec.md 4.8's scenario 6).
func (s *Scheduler) DrawPixel(opts core.Options, trace TraceFunc, sampler *core.Sampler) bool {
	if s.done {
		return false
	}
	t := s.currentTile()

	samples := opts.NumAntialiasSamples
	if samples < 1 {
		samples = 1
	}

	jitter := stratifiedJitter(sampler, samples)

	var accum core.Vec3
	for k := 0; k < samples; k++ {
		ds, dt := jitterOffset(jitter, k, t.footprintW, t.footprintH)
		accum = accum.Add(trace(clamp01(t.centerS+ds), clamp01(t.centerT+dt), sampler))
	}
	color := core.LinearToSRGBColor(accum.Multiply(1.0 / float64(samples)).Clamp(0, 1))

	s.fillAndAdvance(t, color)
	return true
}

// stratifiedJitter returns an n x n stratified grid of offsets in [0,1)^2,
// n = StratifiedGridSize(samples-1), for the non-center antialiasing
// samples (the first sample is always the block center); jitterOffset uses
// the first samples-1 of them. See spec.md 4.10's stratified-grid sampling
// axis.
func stratifiedJitter(sampler *core.Sampler, samples int) []core.Vec2 {
	if samples <= 1 {
		return nil
	}
	return sampler.StratifiedGrid2D(core.StratifiedGridSize(samples - 1))
}

// jitterOffset maps jitter sample k-1 (k==0 stays at the block center) into
// a (ds, dt) offset scaled by the block's footprint.
func jitterOffset(jitter []core.Vec2, k int, footprintW, footprintH float64) (float64, float64) {
	if k == 0 || len(jitter) == 0 {
		return 0, 0
	}
	u := jitter[(k-1)%len(jitter)]
	return (u.X - 0.5) * footprintW, (u.Y - 0.5) * footprintH
}

// DrawPixelParallel is the worker-pool escape hatch for DrawPixel (spec.md
// section 5's note that per-pixel tracing is embarrassingly parallel): it
// evaluates the block's antialiasing samples concurrently, each on its own
// sampler from newSampler, and merges them into the single resulting
// color. The scheduler's own state (tile index, buffers) is still advanced
// on the calling goroutine only, preserving the single-threaded contract
// between DrawPixel calls.
func (s *Scheduler) DrawPixelParallel(opts core.Options, trace TraceFunc, newSampler func() *core.Sampler) bool {
	if s.done {
		return false
	}
	t := s.currentTile()

	samples := opts.NumAntialiasSamples
	if samples < 1 {
		samples = 1
	}

	jitter := stratifiedJitter(newSampler(), samples)

	results := make([]core.Vec3, samples)
	g, _ := errgroup.WithContext(context.Background())
	for k := 0; k < samples; k++ {
		k := k
		g.Go(func() error {
			sampler := newSampler()
			ds, dt := jitterOffset(jitter, k, t.footprintW, t.footprintH)
			results[k] = trace(clamp01(t.centerS+ds), clamp01(t.centerT+dt), sampler)
			return nil
		})
	}
	_ = g.Wait() // trace never returns an error; present for the errgroup idiom

	var accum core.Vec3
	for _, r := range results {
		accum = accum.Add(r)
	}
	color := core.LinearToSRGBColor(accum.Multiply(1.0 / float64(samples)).Clamp(0, 1))

	s.fillAndAdvance(t, color)
	return true
}

// Reset restarts progressive refinement at divs_x = divs_y = 1, clearing
// both buffers (spec.md "RaytracerClear").
func (s *Scheduler) Reset() {
	s.DivsX, s.DivsY = 1, 1
	s.tileIndex = 0
	s.done = false
	s.renderToA = true
	for i := range s.bufA {
		s.bufA[i] = core.Vec3{}
	}
	for i := range s.bufB {
		s.bufB[i] = core.Vec3{}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
