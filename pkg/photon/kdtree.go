package photon

import "github.com/df07/portal-gi/pkg/core"

// leafCapacity is the photon count a leaf tolerates before it is split
// (spec.md section 4.4).
const leafCapacity = 32

// rootExpansion is the fractional padding applied to the scene bounding box
// when the tree is constructed (1 per mille on each axis).
const rootExpansion = 0.001

// node is a kd-tree node: either a leaf holding photons, or an internal
// node with a split axis/value and two children. Every photon stored in a
// node lies inside that node's Box (spec.md section 3 invariant).
type node struct {
	Box      core.AABB
	Leaf     bool
	Photons  []Photon
	Axis     int
	SplitVal float64
	Children [2]*node
}

// Tree is the photon kd-tree. It is rebuilt from scratch on every
// TracePhotons call; there is no rebalancing, only incremental leaf splits
// as photons are added (spec.md section 4.4).
type Tree struct {
	root  *node
	count int
}

// NewTree builds an empty tree around a scene bounding box, expanded by
// 1 per mille on each axis.
func NewTree(sceneBounds core.AABB) *Tree {
	return &Tree{root: &node{Box: sceneBounds.ExpandFraction(rootExpansion), Leaf: true}}
}

// Add inserts a photon, descending to the leaf whose box contains it and
// splitting that leaf if it now exceeds capacity.
func (t *Tree) Add(p Photon) {
	t.count++
	addTo(t.root, p)
}

func addTo(n *node, p Photon) {
	if !n.Leaf {
		side := 0
		if core.Axis(p.Position, n.Axis) >= n.SplitVal {
			side = 1
		}
		addTo(n.Children[side], p)
		return
	}

	n.Photons = append(n.Photons, p)
	if len(n.Photons) > leafCapacity {
		split(n)
	}
}

// split divides a leaf on its box's longest axis at the median coordinate
// of its current photons, redistributing them to two new leaf children.
func split(n *node) {
	axis := n.Box.LongestAxis()
	vals := make([]float64, len(n.Photons))
	for i, p := range n.Photons {
		vals[i] = core.Axis(p.Position, axis)
	}
	median := medianOf(vals)

	loBox, hiBox := n.Box, n.Box
	switch axis {
	case 0:
		loBox.Max.X, hiBox.Min.X = median, median
	case 1:
		loBox.Max.Y, hiBox.Min.Y = median, median
	default:
		loBox.Max.Z, hiBox.Min.Z = median, median
	}

	lo := &node{Box: loBox, Leaf: true}
	hi := &node{Box: hiBox, Leaf: true}

	for _, p := range n.Photons {
		if core.Axis(p.Position, axis) >= median {
			hi.Photons = append(hi.Photons, p)
		} else {
			lo.Photons = append(lo.Photons, p)
		}
	}

	// A degenerate median (all photons on one side, e.g. duplicate
	// positions) would recurse forever; stop subdividing in that case.
	if len(lo.Photons) == 0 || len(hi.Photons) == 0 {
		return
	}

	n.Leaf = false
	n.Photons = nil
	n.Axis = axis
	n.SplitVal = median
	n.Children = [2]*node{lo, hi}
}

func medianOf(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	// simple insertion sort; leaf capacity is small (33 elements at most)
	for i := 1; i < len(sorted); i++ {
		v := sorted[i]
		j := i - 1
		for j >= 0 && sorted[j] > v {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = v
	}
	return sorted[len(sorted)/2]
}

// Collect appends every photon within box to out and returns it.
func (t *Tree) Collect(box core.AABB, out []Photon) []Photon {
	return collectFrom(t.root, box, out)
}

func collectFrom(n *node, box core.AABB, out []Photon) []Photon {
	if !n.Box.Overlaps(box) {
		return out
	}
	if n.Leaf {
		for _, p := range n.Photons {
			if box.Contains(p.Position) {
				out = append(out, p)
			}
		}
		return out
	}
	out = collectFrom(n.Children[0], box, out)
	out = collectFrom(n.Children[1], box, out)
	return out
}

// Count returns the number of photons within box, without materializing
// their positions.
func (t *Tree) Count(box core.AABB) int {
	return countFrom(t.root, box)
}

func countFrom(n *node, box core.AABB) int {
	if !n.Box.Overlaps(box) {
		return 0
	}
	if n.Leaf {
		c := 0
		for _, p := range n.Photons {
			if box.Contains(p.Position) {
				c++
			}
		}
		return c
	}
	return countFrom(n.Children[0], box) + countFrom(n.Children[1], box)
}

// NumPhotons returns the total number of photons stored in the tree.
func (t *Tree) NumPhotons() int { return t.count }

// NumLeafBoxes returns the number of leaf nodes, for visualization.
func (t *Tree) NumLeafBoxes() int {
	return len(t.LeafBoxes())
}

// LeafBoxes enumerates every leaf's bounding box, for visualization.
func (t *Tree) LeafBoxes() []core.AABB {
	var boxes []core.AABB
	var walk func(n *node)
	walk = func(n *node) {
		if n.Leaf {
			boxes = append(boxes, n.Box)
			return
		}
		walk(n.Children[0])
		walk(n.Children[1])
	}
	walk(t.root)
	return boxes
}
