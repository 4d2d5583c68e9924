package photon

import (
	"testing"

	"github.com/df07/portal-gi/pkg/core"
)

func wholeBox() core.AABB {
	return core.NewAABB(core.NewVec3(-1000, -1000, -1000), core.NewVec3(1000, 1000, 1000))
}

// Count(box) >= |Collect(box)| with equality up to duplicates (spec.md
// section 8's kd-tree invariant).
func TestTreeCountMatchesCollectLength(t *testing.T) {
	tree := NewTree(core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)))
	for i := 0; i < 100; i++ {
		x := float64(i%10) - 5
		y := float64((i/10)%10) - 5
		tree.Add(Photon{Position: core.NewVec3(x, y, 0), Energy: core.NewVec3(1, 1, 1)})
	}

	box := core.NewAABB(core.NewVec3(-2, -2, -2), core.NewVec3(2, 2, 2))
	collected := tree.Collect(box, nil)
	count := tree.Count(box)
	if count != len(collected) {
		t.Errorf("Count(box) = %d, len(Collect(box)) = %d, want equal (no duplicates stored)", count, len(collected))
	}

	total := tree.Count(wholeBox())
	if total != tree.NumPhotons() {
		t.Errorf("Count(whole box) = %d, want NumPhotons() = %d", total, tree.NumPhotons())
	}
}

// Splitting a leaf must never lose photons, and every stored photon must
// still lie within the queried box that contains all of them.
func TestTreeSplitPreservesAllPhotons(t *testing.T) {
	tree := NewTree(core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)))
	const n = 200
	for i := 0; i < n; i++ {
		x := float64(i)*0.01 - 1
		tree.Add(Photon{Position: core.NewVec3(x, 0, 0), Energy: core.NewVec3(1, 1, 1)})
	}
	if tree.NumPhotons() != n {
		t.Fatalf("NumPhotons = %d, want %d", tree.NumPhotons(), n)
	}

	collected := tree.Collect(wholeBox(), nil)
	if len(collected) != n {
		t.Errorf("Collect(whole box) returned %d photons, want %d (split lost photons)", len(collected), n)
	}

	box := wholeBox()
	for _, p := range collected {
		if !box.Contains(p.Position) {
			t.Errorf("collected photon %v lies outside the query box", p.Position)
		}
	}
}

func TestTreeCollectRespectsBoxBoundary(t *testing.T) {
	tree := NewTree(core.NewAABB(core.NewVec3(-10, -10, -10), core.NewVec3(10, 10, 10)))
	tree.Add(Photon{Position: core.NewVec3(0, 0, 0), Energy: core.NewVec3(1, 1, 1)})
	tree.Add(Photon{Position: core.NewVec3(5, 5, 5), Energy: core.NewVec3(1, 1, 1)})

	near := core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	collected := tree.Collect(near, nil)
	if len(collected) != 1 {
		t.Fatalf("expected exactly 1 photon within the near box, got %d", len(collected))
	}
	if collected[0].Position.Subtract(core.NewVec3(0, 0, 0)).Length() > 1e-9 {
		t.Errorf("collected the wrong photon: %v", collected[0].Position)
	}
}

func TestTreeNumLeafBoxesAtLeastOne(t *testing.T) {
	tree := NewTree(core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)))
	if got := tree.NumLeafBoxes(); got != 1 {
		t.Errorf("an empty tree should have exactly 1 leaf, got %d", got)
	}

	for i := 0; i < leafCapacity+10; i++ {
		x := float64(i)*0.01 - 1
		tree.Add(Photon{Position: core.NewVec3(x, 0, 0)})
	}
	if got := tree.NumLeafBoxes(); got <= 1 {
		t.Errorf("exceeding leaf capacity should split into more than 1 leaf, got %d", got)
	}
}
