package hashtrie

// cNode is a sparse W-way branch: bitmap marks which of the W slots at this
// depth are occupied, and children holds exactly popcount(bitmap) entries,
// ordered by ascending slot index (least-significant bit first). A non-root
// cNode has at least two children or a single cNode child; a cNode with one
// S/L child is canonicalized away by its caller.
type cNode[K any, V any] struct {
	bitmap   uint32
	children []*mnode[K, V]
	size     int
}

func newCNode[K any, V any](bitmap uint32, children []*mnode[K, V]) *cNode[K, V] {
	size := 0
	for _, c := range children {
		size += mnodeSize(c)
	}
	return &cNode[K, V]{bitmap: bitmap, children: children, size: size}
}

// withChildAt returns a copy of n with the child at array position i replaced.
func (n *cNode[K, V]) withChildAt(i int, child *mnode[K, V]) *cNode[K, V] {
	children := make([]*mnode[K, V], len(n.children))
	copy(children, n.children)
	children[i] = child
	return newCNode(n.bitmap, children)
}

// withInsertedAt returns a copy of n with a new child inserted at array
// position i, and mask added to the bitmap.
func (n *cNode[K, V]) withInsertedAt(i int, mask uint32, child *mnode[K, V]) *cNode[K, V] {
	children := make([]*mnode[K, V], len(n.children)+1)
	copy(children, n.children[:i])
	children[i] = child
	copy(children[i+1:], n.children[i:])
	return newCNode(n.bitmap|mask, children)
}

// withRemovedAt returns a copy of n with the child at array position i
// dropped, and mask cleared from the bitmap.
func (n *cNode[K, V]) withRemovedAt(i int, mask uint32) *cNode[K, V] {
	children := make([]*mnode[K, V], len(n.children)-1)
	copy(children, n.children[:i])
	copy(children[i:], n.children[i+1:])
	return newCNode(n.bitmap&^mask, children)
}

func cNodeFind[K any, V any](n *cNode[K, V], f hashFlag, target K, eq func(K, K) bool) (key K, value V, found bool) {
	if !present(n.bitmap, f.mask) {
		return key, value, false
	}
	i := arrayIndex(n.bitmap, f.mask)
	deeper, _ := f.deeper()
	return mnodeFind(n.children[i], deeper, target, eq)
}

// cNodeInsert implements the four-way slot dispatch of a cNode insert: empty
// slot, or a slot occupied by an sNode, lNode, or cNode.
func cNodeInsert[K any, V any](n *cNode[K, V], hashOf func(K) uint64, eq func(K, K) bool, f hashFlag, key K, value V, replace bool) (result *cNode[K, V], existing V, hadExisting bool, inserted bool) {
	i := arrayIndex(n.bitmap, f.mask)
	if !present(n.bitmap, f.mask) {
		return n.withInsertedAt(i, f.mask, snodeNode(newSNode(key, value))), existing, false, true
	}

	child := n.children[i]
	deeper, deeperOK := f.deeper()

	switch {
	case child.s != nil:
		if eq(child.s.key, key) {
			if !replace {
				return n, child.s.value, true, false
			}
			return n.withChildAt(i, snodeNode(newSNode(key, value))), child.s.value, true, true
		}
		existingHash := hashOf(child.s.key)
		if !deeperOK {
			return n.withChildAt(i, lnodeNode(newLNode(key, value, lNodeNextFromMnode(child)))), existing, false, true
		}
		return n.withChildAt(i, liftToCNodeAndInsert(child, existingHash, deeper, key, value)), existing, false, true

	case child.l != nil:
		if !deeperOK {
			// The hash is exhausted below this depth, so every key in this
			// slot shares the full hash; f still carries it, which lets the
			// lNode insert extend the chain.
			deeper = f
		}
		newChild, existing, hadExisting, inserted := lNodeInsert(child.l, hashOf, eq, deeper, key, value, replace)
		if !inserted && hadExisting {
			return n, existing, hadExisting, false
		}
		return n.withChildAt(i, newChild), existing, hadExisting, inserted

	case child.c != nil:
		newChild, existing, hadExisting, inserted := cNodeInsert(child.c, hashOf, eq, deeper, key, value, replace)
		if !inserted && hadExisting {
			return n, existing, hadExisting, false
		}
		return n.withChildAt(i, cnodeNode(newChild)), existing, hadExisting, inserted
	}
	return n, existing, false, false
}

// cNodeRemove removes the entry at target's position, then applies the
// shape-rewrite rules: drop an emptied child, or bubble up a lone surviving
// S/L child at a non-root position.
func cNodeRemove[K any, V any](n *cNode[K, V], f hashFlag, target K, eq func(K, K) bool) (result *mnode[K, V], removedKey K, removedValue V, found bool) {
	if !present(n.bitmap, f.mask) {
		return cnodeNode(n), removedKey, removedValue, false
	}
	i := arrayIndex(n.bitmap, f.mask)
	deeper, _ := f.deeper()

	newChild, k, v, found := mnodeRemove(n.children[i], deeper, target, eq)
	if !found {
		return cnodeNode(n), k, v, false
	}

	if newChild == nil {
		shrunk := n.withRemovedAt(i, f.mask)
		return bubbleCNode(shrunk, f.depth), k, v, true
	}
	return bubbleCNode(n.withChildAt(i, newChild), f.depth), k, v, true
}

// bubbleCNode applies the CNode shape-rewrite rules after a mutation: an
// empty CNode below the root becomes nil (propagated as Removed); a CNode
// with exactly one S/L child below the root is elided in favor of that
// child. A lone C child, or any shape at the root, is kept as-is.
func bubbleCNode[K any, V any](n *cNode[K, V], depth uint8) *mnode[K, V] {
	if depth == 0 {
		return cnodeNode(n)
	}
	if len(n.children) == 0 {
		return nil
	}
	if len(n.children) == 1 && n.children[0].c == nil {
		return n.children[0]
	}
	return cnodeNode(n)
}

func cNodeVisit[K any, V any](n *cNode[K, V], op func(K, V)) {
	for _, c := range n.children {
		mnodeVisit(c, op)
	}
}

func cNodeTransform[K any, V any, R any](n *cNode[K, V], depth uint8, reduceOp func(R, R) R, op func(K, V) MapTransformResult[V, R]) (result *mnode[K, V], reduced R, changed bool) {
	bitmap := n.bitmap
	children := make([]*mnode[K, V], 0, len(n.children))
	anyChanged := false
	for i, c := range n.children {
		mask := uint32(1) << uint(nthSetBit(n.bitmap, i))
		newChild, r, childChanged := mnodeTransform(c, depth+1, reduceOp, op)
		reduced = reduceOp(reduced, r)
		if childChanged {
			anyChanged = true
		}
		if newChild == nil {
			bitmap &^= mask
			continue
		}
		children = append(children, newChild)
	}
	if !anyChanged {
		return cnodeNode(n), reduced, false
	}
	return bubbleCNode(newCNode(bitmap, children), depth), reduced, true
}

func cNodeTransmute[K any, V any, S any, X any, R any](n *cNode[K, V], depth uint8, reduceOp func(R, R) R, op func(K, V) MapTransmuteResult[S, X, R]) (result *mnode[S, X], reduced R) {
	bitmap := n.bitmap
	children := make([]*mnode[S, X], 0, len(n.children))
	for i, c := range n.children {
		mask := uint32(1) << uint(nthSetBit(n.bitmap, i))
		newChild, r := mnodeTransmute(c, depth+1, reduceOp, op)
		reduced = reduceOp(reduced, r)
		if newChild == nil {
			bitmap &^= mask
			continue
		}
		children = append(children, newChild)
	}
	return bubbleCNode(newCNode(bitmap, children), depth), reduced
}

func cNodeEqual[K comparable, V comparable](a, b *cNode[K, V]) bool {
	if a.bitmap != b.bitmap || len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !mnodeEqual(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// nthSetBit returns the bit position of the i-th (0-based) set bit of bitmap,
// matching the canonical ascending-index child ordering a cNode maintains.
func nthSetBit(bitmap uint32, i int) int {
	for pos := 0; pos < fanOut; pos++ {
		if bitmap&(1<<uint(pos)) == 0 {
			continue
		}
		if i == 0 {
			return pos
		}
		i--
	}
	return -1
}

// liftPairToCNode combines two already-distinct nodes (neither a cNode) into
// a cNode at leftFlag.depth == rightFlag.depth, recursing one level deeper
// whenever their flags still collide at that depth.
func liftPairToCNode[K any, V any](left *mnode[K, V], leftFlag hashFlag, right *mnode[K, V], rightFlag hashFlag) *cNode[K, V] {
	if leftFlag.index != rightFlag.index {
		if leftFlag.index < rightFlag.index {
			return newCNode(leftFlag.mask|rightFlag.mask, []*mnode[K, V]{left, right})
		}
		return newCNode(leftFlag.mask|rightFlag.mask, []*mnode[K, V]{right, left})
	}

	deeperLeft, okLeft := leftFlag.deeper()
	deeperRight, okRight := rightFlag.deeper()
	if !okLeft || !okRight {
		// Hash exhausted with both flags still colliding: unreachable for two
		// genuinely distinct full hashes, since the callers of this function
		// (liftToCNodeAndInsert, combineDistinctHashes) only reach here when
		// the full hashes differ, and branchBits*ceil(hashBits/branchBits) covers every bit of
		// a 64-bit hash by the final valid depth.
		panic("hashtrie: hash exhausted while lifting distinct hashes into a cNode")
	}
	child := cnodeNode(liftPairToCNode(left, deeperLeft, right, deeperRight))
	return newCNode(leftFlag.mask, []*mnode[K, V]{child})
}
