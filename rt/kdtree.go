package rt

import (
	"fmt"
	"math"

	"pathtracer/core"
	remath "pathtracer/math"
)

// kdNodeType is the 2-bit discriminant packed into the top of a KDNode's
// first word: three internal-axis variants plus a leaf variant.
type kdNodeType uint32

const (
	kdInternalX kdNodeType = 0
	kdInternalY kdNodeType = 1
	kdInternalZ kdNodeType = 2
	kdLeaf      kdNodeType = 3
)

const kdIndexMask = 0x3FFFFFFF // 30 bits
const kdMaxIndex = kdIndexMask

// KDNode is a packed 8-byte record: a 2-bit type discriminant plus a 30-bit
// field in the first word, and a second word holding either an object-array
// offset (leaf) or a float32 split value (internal). The right child of an
// internal node is never stored explicitly — it always immediately follows
// the parent in the node array.
type KDNode struct {
	packed uint32
	data   uint32
}

func newLeafNode(length, objIndex uint32) KDNode {
	return KDNode{packed: uint32(kdLeaf)<<30 | (length & kdIndexMask), data: objIndex}
}

func newInternalNode(axis int, leftIndex uint32, split float32) KDNode {
	return KDNode{packed: uint32(axis)<<30 | (leftIndex & kdIndexMask), data: math.Float32bits(split)}
}

func (n KDNode) kind() kdNodeType  { return kdNodeType(n.packed >> 30) }
func (n KDNode) isLeaf() bool      { return n.kind() == kdLeaf }
func (n KDNode) leafLen() uint32   { return n.packed & kdIndexMask }
func (n KDNode) objIndex() uint32  { return n.data }
func (n KDNode) axis() int         { return int(n.kind()) }
func (n KDNode) leftIndex() uint32 { return n.packed & kdIndexMask }
func (n KDNode) split() float32    { return math.Float32frombits(n.data) }

// KDTree is a flat SAH-built acceleration structure over a fixed set of
// Objects. Once built it is never mutated.
type KDTree struct {
	nodes    []KDNode
	objPtrs  []int
	worldBox core.BoundingBox
	maxDepth int
}

// SAH metaparameters, matching the reference accelerator except NumBuckets,
// which spec.md fixes at 32 rather than the reference's 64.
const (
	kdMinLeafLoad          = 4
	kdNumBuckets           = 32
	kdIntersectCost        = 1.0
	kdTraversalCost        = 1.0
	kdRightNodeRelativeCost = 0.95
	kdLeftNodeRelativeCost  = 1 + (1 - kdRightNodeRelativeCost)
	kdEmptyBonus            = 0.5
)

// BuildKDTree constructs a SAH KD-tree over the given object indices and
// their bounding boxes (boxes[i] bounds object index objIndices[i]). Depth is
// bounded by floor(8 + 1.8*log2(N)). Returns an error if the node or
// object-pointer arrays would exceed the packed format's 30-bit index range.
func BuildKDTree(objIndices []int, boxes []core.BoundingBox) (*KDTree, error) {
	if len(objIndices) == 0 {
		return &KDTree{}, nil
	}

	world := boxes[0]
	for _, b := range boxes[1:] {
		world = world.Union(b)
	}

	n := len(objIndices)
	maxDepth := int(8.0 + 1.8*math.Log2(float64(n)))

	// The builder looks boxes up by object index, so re-key them from
	// position i to objIndices[i].
	maxObj := 0
	for _, idx := range objIndices {
		if idx > maxObj {
			maxObj = idx
		}
	}
	boxByObj := make([]core.BoundingBox, maxObj+1)
	for i, idx := range objIndices {
		boxByObj[idx] = boxes[i]
	}

	b := &kdBuilder{objIndices: objIndices, boxes: boxByObj, maxDepth: maxDepth}
	_, err := b.build(objIndices, world, maxDepth)
	if err != nil {
		return nil, err
	}

	return &KDTree{nodes: b.nodes, objPtrs: b.objPtrs, worldBox: world, maxDepth: maxDepth}, nil
}

type kdBuilder struct {
	objIndices []int
	boxes      []core.BoundingBox
	maxDepth   int
	nodes      []KDNode
	objPtrs    []int
}

// build emits the subtree for items (a slice of original object indices)
// bounded by box, returning the index of the node it created.
func (b *kdBuilder) build(items []int, box core.BoundingBox, depth int) (int, error) {
	if len(b.nodes) > kdMaxIndex {
		return 0, fmt.Errorf("rt: kd-tree node array exceeds %d entries", kdMaxIndex+1)
	}

	if len(items) <= kdMinLeafLoad || depth == 0 {
		return b.emitLeaf(items)
	}

	axis, split, left, right, found := b.bestSplit(items, box)
	parentCost := float32(len(items)) * kdIntersectCost
	if !found || parentCost <= b.splitCost(items, box, axis, split) {
		return b.emitLeaf(items)
	}

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, KDNode{}) // reserve parent slot

	leftBox, rightBox := box.Split(axis, split)

	// The right child is built first so it always lands at nodeIndex+1,
	// matching the packed format's implicit-right-child convention.
	if _, err := b.build(right, rightBox, depth-1); err != nil {
		return 0, err
	}
	leftIndex, err := b.build(left, leftBox, depth-1)
	if err != nil {
		return 0, err
	}

	b.nodes[nodeIndex] = newInternalNode(axis, uint32(leftIndex), split)
	return nodeIndex, nil
}

func (b *kdBuilder) emitLeaf(items []int) (int, error) {
	if len(b.objPtrs) > kdMaxIndex {
		return 0, fmt.Errorf("rt: kd-tree object-pointer array exceeds %d entries", kdMaxIndex+1)
	}
	objIndex := len(b.objPtrs)
	b.objPtrs = append(b.objPtrs, items...)
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, newLeafNode(uint32(len(items)), uint32(objIndex)))
	return nodeIndex, nil
}

// bestSplit scans kdNumBuckets-1 candidate splits on each of the 3 axes and
// returns the lowest-SAH-cost candidate found, partitioning items into left
// and right subsets (an item that straddles the split lands in both).
func (b *kdBuilder) bestSplit(items []int, box core.BoundingBox) (axis int, split float32, left, right []int, found bool) {
	bestCost := float32(math.Inf(1))

	for ax := 0; ax < 3; ax++ {
		lo, hi := box.AxisMin(ax), box.AxisMax(ax)
		if hi-lo <= 0 {
			continue
		}
		for i := 1; i < kdNumBuckets; i++ {
			candidate := lo + (hi-lo)*float32(i)/float32(kdNumBuckets)
			cost := b.splitCost(items, box, ax, candidate)
			if cost < bestCost {
				bestCost = cost
				axis, split, found = ax, candidate, true
			}
		}
	}

	if !found {
		return 0, 0, nil, nil, false
	}

	left, right = b.partition(items, axis, split)
	return axis, split, left, right, true
}

// splitCost evaluates the SAH cost of splitting box at (axis, split) given
// the primitives in items, applying kdEmptyBonus when one side is empty.
func (b *kdBuilder) splitCost(items []int, box core.BoundingBox, axis int, split float32) float32 {
	leftBox, rightBox := box.Split(axis, split)
	leftCount, rightCount := 0, 0
	for _, idx := range items {
		ib := b.boxes[idx]
		if ib.AxisMax(axis) < split {
			leftCount++
		} else if ib.AxisMin(axis) > split {
			rightCount++
		} else {
			leftCount++
			rightCount++
		}
	}

	parentArea := box.SurfaceArea()
	if parentArea <= 0 {
		return float32(math.Inf(1))
	}

	leftCost := kdLeftNodeRelativeCost * (leftBox.SurfaceArea() / parentArea) * float32(leftCount) * kdIntersectCost
	rightCost := kdRightNodeRelativeCost * (rightBox.SurfaceArea() / parentArea) * float32(rightCount) * kdIntersectCost

	bonus := float32(1.0)
	if leftCount == 0 || rightCount == 0 {
		bonus = 1 - kdEmptyBonus
	}

	return kdTraversalCost + bonus*(leftCost+rightCost)
}

func (b *kdBuilder) partition(items []int, axis int, split float32) (left, right []int) {
	for _, idx := range items {
		ib := b.boxes[idx]
		if ib.AxisMax(axis) < split {
			left = append(left, idx)
		} else if ib.AxisMin(axis) > split {
			right = append(right, idx)
		} else {
			left = append(left, idx)
			right = append(right, idx)
		}
	}
	return left, right
}

const (
	kdEpsilonParallel  = 0.0001
	kdEpsilonIntersect = 0.001
)

// Hit walks the tree looking for the closest intersection of ray with any
// object in objects within (tMin, tMax), resolving leaf contents through the
// get callback (typically a closure over the Scene's object list).
func (t *KDTree) Hit(ray core.Ray, tMin, tMax float32, get func(objPtr int) (Surface, *Material)) (core.HitInfo, *Material, bool) {
	if len(t.nodes) == 0 {
		return core.HitInfo{}, nil, false
	}
	return t.hitNode(0, ray, tMin, tMax, get)
}

func (t *KDTree) hitNode(nodeIndex int, ray core.Ray, tMin, tMax float32, get func(int) (Surface, *Material)) (core.HitInfo, *Material, bool) {
	node := t.nodes[nodeIndex]
	if node.isLeaf() {
		return t.hitLeaf(node, ray, tMin, tMax, get)
	}

	axis := node.axis()
	split := node.split()
	leftIndex := int(node.leftIndex())
	rightIndex := nodeIndex + 1

	dirAxis := vecAxis(ray.Dir, axis)
	originAxis := vecAxis(ray.Origin, axis)
	nearFirst, farSecond := nearFarChildren(ray, axis, split, originAxis, leftIndex, rightIndex)

	if remath.Abs32(dirAxis) < kdEpsilonParallel {
		return t.hitNode(nearFirst, ray, tMin, tMax, get)
	}

	invDirAxis := vecAxis(ray.InvDir, axis)
	originDivDirAxis := vecAxis(ray.OriginDivDir, axis)
	tIntersect := split*invDirAxis - originDivDirAxis

	if tIntersect < kdEpsilonIntersect {
		return t.hitNode(nearFirst, ray, tMin, tMax, get)
	}

	tMaxNear := remath.Min32(tMax, tIntersect)
	if hit, mat, ok := t.hitNode(nearFirst, ray, tMin, tMaxNear, get); ok {
		return hit, mat, true
	}
	if tMaxNear != tIntersect {
		return core.HitInfo{}, nil, false
	}
	return t.hitNode(farSecond, ray, tIntersect, tMax, get)
}

func (t *KDTree) hitLeaf(node KDNode, ray core.Ray, tMin, tMax float32, get func(int) (Surface, *Material)) (core.HitInfo, *Material, bool) {
	var (
		closest core.HitInfo
		mat     *Material
		any     bool
	)
	start := node.objIndex()
	for i := uint32(0); i < node.leafLen(); i++ {
		surf, m := get(t.objPtrs[start+i])
		if hit, ok := surf.Hit(ray, tMin, tMax); ok {
			tMax = hit.TIntersect
			closest, mat, any = hit, m, true
		}
	}
	return closest, mat, any
}

// nearFarChildren resolves which child is "near" the ray's origin on axis,
// breaking the origin[a] == split tie by evaluating ray.At(1)[a] against
// split. Used by both the axis-parallel and the general traversal branches so
// they agree on the same side.
func nearFarChildren(ray core.Ray, axis int, split, originAxis float32, leftIndex, rightIndex int) (near, far int) {
	near, far = leftIndex, rightIndex
	if originAxis >= split {
		near, far = rightIndex, leftIndex
	}
	if originAxis == split && vecAxis(ray.At(1.0), axis) < split {
		near, far = leftIndex, rightIndex
	}
	return near, far
}

func vecAxis(v remath.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
