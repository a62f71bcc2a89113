package hashtrie

// lNodeNext is the tail of an lNode chain: either another, shorter lNode or
// the terminal sNode. Exactly one field is non-nil.
type lNodeNext[K any, V any] struct {
	l *lNode[K, V]
	s *sNode[K, V]
}

// lNode is a cons-cell collision chain: every key reachable from it (this
// entry plus everything in next) shares the same full hash. It only exists
// when two or more distinct keys collide in the full hash space.
type lNode[K any, V any] struct {
	key   K
	value V
	next  lNodeNext[K, V]
	size  int
}

func newLNode[K any, V any](key K, value V, next lNodeNext[K, V]) *lNode[K, V] {
	size := 1
	switch {
	case next.l != nil:
		size += next.l.size
	case next.s != nil:
		size++
	}
	return &lNode[K, V]{key: key, value: value, next: next, size: size}
}

// nextAsMnode wraps n's tail as an *mnode, the shape every chain-building
// helper below needs when handing a remainder back up to cNode/mnode code.
func (n *lNode[K, V]) nextAsMnode() *mnode[K, V] {
	if n.next.l != nil {
		return lnodeNode(n.next.l)
	}
	return snodeNode(n.next.s)
}

// lNodeNextFromMnode unwraps an *mnode known to hold an lNode or sNode (never
// a cNode or nil) back into an lNodeNext, for re-consing a chain.
func lNodeNextFromMnode[K any, V any](n *mnode[K, V]) lNodeNext[K, V] {
	if n.l != nil {
		return lNodeNext[K, V]{l: n.l}
	}
	return lNodeNext[K, V]{s: n.s}
}

// lNodeFind performs a linear scan; the first equality match wins.
func lNodeFind[K any, V any](n *lNode[K, V], target K, eq func(K, K) bool) (key K, value V, found bool) {
	for {
		if eq(n.key, target) {
			return n.key, n.value, true
		}
		if n.next.l == nil {
			return sNodeFind(n.next.s, target, eq)
		}
		n = n.next.l
	}
}

func lNodeVisit[K any, V any](n *lNode[K, V], op func(K, V)) {
	for {
		op(n.key, n.value)
		if n.next.l == nil {
			op(n.next.s.key, n.next.s.value)
			return
		}
		n = n.next.l
	}
}

// lNodeInsert inserts key/value against a collision chain. A match with
// replace=false reports the conflict without allocating; a match with
// replace=true removes the stale entry and conses the new one onto the
// remainder; no match lifts the whole chain and the new entry into a cNode
// (or a longer lNode, if the new key's hash happens to equal the chain's).
func lNodeInsert[K any, V any](n *lNode[K, V], hashOf func(K) uint64, eq func(K, K) bool, f hashFlag, key K, value V, replace bool) (result *mnode[K, V], existing V, hadExisting bool, inserted bool) {
	_, existingValue, found := lNodeFind(n, key, eq)
	if found {
		if !replace {
			return lnodeNode(n), existingValue, true, false
		}
		remainder, _, _, _ := lNodeRemove(n, key, eq)
		return lnodeNode(newLNode(key, value, lNodeNextFromMnode(remainder))), existingValue, true, true
	}
	return liftToCNodeAndInsert(lnodeNode(n), hashOf(n.key), f, key, value), existing, false, true
}

// lNodeRemove removes the entry matching target. A match on the head returns
// the (already-built) tail directly; a match deeper in the chain rebuilds
// every node from the match point back up to the head.
func lNodeRemove[K any, V any](n *lNode[K, V], target K, eq func(K, K) bool) (result *mnode[K, V], removedKey K, removedValue V, found bool) {
	if eq(n.key, target) {
		return n.nextAsMnode(), n.key, n.value, true
	}
	if n.next.l != nil {
		remainder, k, v, found := lNodeRemove(n.next.l, target, eq)
		if !found {
			return nil, k, v, false
		}
		return lnodeNode(newLNode(n.key, n.value, lNodeNextFromMnode(remainder))), k, v, true
	}
	k, v, found := sNodeFind(n.next.s, target, eq)
	if !found {
		return nil, k, v, false
	}
	return snodeNode(newSNode(n.key, n.value)), k, v, true
}

// lNodeTransform maps every entry in the chain through op, folding reduced
// values with reduceOp. Entries op removes disappear; the chain collapses to
// an sNode if only one entry remains, or to nil if none do.
func lNodeTransform[K any, V any, R any](n *lNode[K, V], reduceOp func(R, R) R, op func(K, V) MapTransformResult[V, R]) (result *mnode[K, V], reduced R, changed bool) {
	var tailNode *mnode[K, V]
	var tailReduced R
	var tailChanged bool
	if n.next.l != nil {
		tailNode, tailReduced, tailChanged = lNodeTransform(n.next.l, reduceOp, op)
	} else {
		var s *sNode[K, V]
		s, tailReduced, tailChanged = sNodeTransform(n.next.s, op)
		if s != nil {
			tailNode = snodeNode(s)
		}
	}

	r := op(n.key, n.value)
	changed = tailChanged || r.Outcome != Unchanged
	reduced = reduceOp(r.Reduced, tailReduced)

	if !changed {
		return lnodeNode(n), reduced, false
	}

	effectiveTail := tailNode
	if !tailChanged {
		effectiveTail = n.nextAsMnode()
	}

	if r.Outcome == Removed {
		return effectiveTail, reduced, true
	}

	headValue := n.value
	if r.Outcome == Transformed {
		headValue = r.Value
	}
	if effectiveTail == nil {
		return snodeNode(newSNode(n.key, headValue)), reduced, true
	}
	return lnodeNode(newLNode(n.key, headValue, lNodeNextFromMnode(effectiveTail))), reduced, true
}

// lNodeTransmute rebuilds the chain under a (possibly) new key/value type.
func lNodeTransmute[K any, V any, S any, X any, R any](n *lNode[K, V], reduceOp func(R, R) R, op func(K, V) MapTransmuteResult[S, X, R]) (result *mnode[S, X], reduced R) {
	var nextNode *mnode[S, X]
	var nextReduced R
	if n.next.l != nil {
		nextNode, nextReduced = lNodeTransmute(n.next.l, reduceOp, op)
	} else {
		nextNode, nextReduced = sNodeTransmute(n.next.s, op)
	}

	r := op(n.key, n.value)
	reduced = reduceOp(r.Reduced, nextReduced)

	if r.Outcome == RemovedBy {
		return nextNode, reduced
	}
	if nextNode == nil {
		return snodeNode(newSNode(r.Key, r.Value)), reduced
	}
	return lnodeNode(newLNode(r.Key, r.Value, lNodeNextFromMnode(nextNode))), reduced
}

// lNodeEqual compares two chains by content, ignoring order.
func lNodeEqual[K comparable, V comparable](a, b *lNode[K, V]) bool {
	if a.size != b.size {
		return false
	}
	bEntries := make(map[K]V, b.size)
	lNodeVisit(b, func(k K, v V) { bEntries[k] = v })
	equal := true
	lNodeVisit(a, func(k K, v V) {
		bv, ok := bEntries[k]
		if !ok || bv != v {
			equal = false
		}
	})
	return equal
}

// liftToCNodeAndInsert combines an existing node (an lNode or sNode, whose
// full hash is existingHash) with a brand-new (key, value) entry located by
// f. Equal hashes produce a longer lNode; differing hashes produce a cNode,
// recursing to whatever depth the two hashes first diverge at.
func liftToCNodeAndInsert[K any, V any](existing *mnode[K, V], existingHash uint64, f hashFlag, key K, value V) *mnode[K, V] {
	if existingHash == f.hash {
		return lnodeNode(newLNode(key, value, lNodeNextFromMnode(existing)))
	}
	existingFlag, ok := newFlagAtDepth(existingHash, f.depth)
	if !ok {
		// The hash is exhausted at this depth, yet existingHash != f.hash:
		// unreachable, since branchBits*ceil(hashBits/branchBits) covers every
		// bit of a 64-bit hash by the final valid depth.
		panic("hashtrie: hash exhausted while lifting distinct hashes")
	}
	return cnodeNode(liftPairToCNode(existing, existingFlag, snodeNode(newSNode(key, value)), f))
}
