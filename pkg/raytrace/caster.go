// Package raytrace implements the brute-force ray caster and the
// recursive distribution ray-trace evaluator built on top of it (spec.md
// sections 4.1, 4.2 and 4.7).
package raytrace

import (
	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/scene"
)

// Cast intersects ray against every quad face, every analytic or
// rasterized primitive (depending on useRasterized), and — when wantPortal
// is set — every portal side, returning the nearest hit (spec.md 4.1).
// Ties are broken by iteration order; that order is documented here, not
// guaranteed stable across scene mutations: faces, then spheres (or
// rasterized sphere patches), then portal sides.
func Cast(sc *scene.Scene, ray core.Ray, opts core.Options, useRasterized, wantPortal bool) (core.Hit, bool) {
	best := core.NewHit()
	found := false
	backfaceCull := !opts.IntersectBackfacing

	for _, f := range sc.Faces {
		if h, ok := f.Hit(ray, core.Epsilon, best.T, backfaceCull); ok {
			best, found = h, true
		}
	}

	if useRasterized {
		for _, f := range sc.RasterizedFaces() {
			if h, ok := f.Hit(ray, core.Epsilon, best.T, backfaceCull); ok {
				best, found = h, true
			}
		}
	} else {
		for _, sp := range sc.Spheres {
			if h, ok := sp.Hit(ray, core.Epsilon, best.T); ok {
				best, found = h, true
			}
		}
	}

	if wantPortal {
		for _, side := range sc.PortalSides {
			if h, ok := side.Hit(ray, core.Epsilon, best.T); ok {
				best, found = h, true
			}
		}
	}

	return best, found
}
