package hashtrie

// kvPair is a detached (key, value) pair, used only as scratch storage while
// reassembling an lNode/sNode chain produced by a same-hash collision walk.
type kvPair[K any, V any] struct {
	key   K
	value V
}

// jointTransmute fuses two tries sharing a key type K, one over (K,V) and
// one over (K,W), into a third over (S,X), walking both in lockstep by hash
// rather than by key. Go's generics cannot express an equality relation
// between two distinct key types, so both inputs must agree on K; the
// callbacks are free to change the value types and the output key type.
func jointTransmute[K any, V any, W any, S any, X any, R any](
	left *mnode[K, V], right *mnode[K, W],
	hashOf func(K) uint64, eq func(K, K) bool,
	reduceOp func(R, R) R,
	bothOp func(K, V, K, W) MapTransmuteResult[S, X, R],
	leftOp func(K, V) MapTransmuteResult[S, X, R],
	rightOp func(K, W) MapTransmuteResult[S, X, R],
) (*mnode[S, X], R) {
	return jointTransmuteMnode(left, right, 0, hashOf, eq, reduceOp, bothOp, leftOp, rightOp)
}

func jointTransmuteMnode[K any, V any, W any, S any, X any, R any](
	left *mnode[K, V], right *mnode[K, W], depth uint8,
	hashOf func(K) uint64, eq func(K, K) bool,
	reduceOp func(R, R) R,
	bothOp func(K, V, K, W) MapTransmuteResult[S, X, R],
	leftOp func(K, V) MapTransmuteResult[S, X, R],
	rightOp func(K, W) MapTransmuteResult[S, X, R],
) (*mnode[S, X], R) {
	var zero R
	switch {
	case left == nil && right == nil:
		return nil, zero
	case left == nil:
		return mnodeTransmute(right, depth, reduceOp, rightOp)
	case right == nil:
		return mnodeTransmute(left, depth, reduceOp, leftOp)
	case left.c != nil && right.c != nil:
		return jointTransmuteCNodeCNode(left.c, right.c, depth, hashOf, eq, reduceOp, bothOp, leftOp, rightOp)
	case left.c != nil:
		return jointTransmuteCNodeLeaf(left.c, right, depth, hashOf, eq, reduceOp, bothOp, leftOp, rightOp)
	case right.c != nil:
		return jointTransmuteCNodeLeaf(right.c, left, depth, hashOf, eq, reduceOp, swapTransmuteOp(bothOp), rightOp, leftOp)
	case left.l != nil && right.l != nil:
		return jointTransmuteLNodeLNode(left.l, right.l, depth, hashOf, eq, reduceOp, bothOp, leftOp, rightOp)
	case left.l != nil:
		return jointTransmuteLNodeSNode(left.l, right.s, depth, hashOf, eq, reduceOp, bothOp, leftOp, rightOp)
	case right.l != nil:
		return jointTransmuteLNodeSNode(right.l, left.s, depth, hashOf, eq, reduceOp, swapTransmuteOp(bothOp), rightOp, leftOp)
	default:
		return jointTransmuteSNodeSNode(left.s, right.s, depth, hashOf, eq, reduceOp, bothOp, leftOp, rightOp)
	}
}

// swapTransmuteOp turns a both-callback written as (leftKey,leftValue,
// rightKey,rightValue) into one a swapped-operand walker can call as
// (rightKey,rightValue,leftKey,leftValue), while still invoking the original
// in the caller's documented argument order.
func swapTransmuteOp[K any, V any, W any, S any, X any, R any](bothOp func(K, V, K, W) MapTransmuteResult[S, X, R]) func(K, W, K, V) MapTransmuteResult[S, X, R] {
	return func(rk K, rv W, lk K, lv V) MapTransmuteResult[S, X, R] {
		return bothOp(lk, lv, rk, rv)
	}
}

func leafHash[K any, W any](n *mnode[K, W], hashOf func(K) uint64) uint64 {
	if n.l != nil {
		return hashOf(n.l.key)
	}
	return hashOf(n.s.key)
}

// jointTransmuteCNodeCNode walks two branch nodes slot by slot: for each of
// the W slot indices, dispatch on which side has a child there and recurse
// or unary-transmute accordingly, then reassemble applying the usual
// shape-rewrite rules.
func jointTransmuteCNodeCNode[K any, V any, W any, S any, X any, R any](
	left *cNode[K, V], right *cNode[K, W], depth uint8,
	hashOf func(K) uint64, eq func(K, K) bool,
	reduceOp func(R, R) R,
	bothOp func(K, V, K, W) MapTransmuteResult[S, X, R],
	leftOp func(K, V) MapTransmuteResult[S, X, R],
	rightOp func(K, W) MapTransmuteResult[S, X, R],
) (*mnode[S, X], R) {
	bitmap := uint32(0)
	children := make([]*mnode[S, X], 0, len(left.children)+len(right.children))
	var reduced R

	for idx := 0; idx < fanOut; idx++ {
		mask := uint32(1) << uint(idx)
		leftPresent := present(left.bitmap, mask)
		rightPresent := present(right.bitmap, mask)
		if !leftPresent && !rightPresent {
			continue
		}

		var childResult *mnode[S, X]
		var r R
		switch {
		case leftPresent && rightPresent:
			lChild := left.children[arrayIndex(left.bitmap, mask)]
			rChild := right.children[arrayIndex(right.bitmap, mask)]
			childResult, r = jointTransmuteMnode(lChild, rChild, depth+1, hashOf, eq, reduceOp, bothOp, leftOp, rightOp)
		case leftPresent:
			lChild := left.children[arrayIndex(left.bitmap, mask)]
			childResult, r = mnodeTransmute(lChild, depth+1, reduceOp, leftOp)
		default:
			rChild := right.children[arrayIndex(right.bitmap, mask)]
			childResult, r = mnodeTransmute(rChild, depth+1, reduceOp, rightOp)
		}
		reduced = reduceOp(reduced, r)
		if childResult == nil {
			continue
		}
		bitmap |= mask
		children = append(children, childResult)
	}

	return bubbleCNode(newCNode(bitmap, children), depth), reduced
}

// jointTransmuteCNodeLeaf walks a cNode against a single leaf (lNode or
// sNode) from the other trie. The leaf occupies
// exactly one slot at this depth; every other slot is a unary left-transmute
// of the cNode's own child.
func jointTransmuteCNodeLeaf[K any, V any, W any, S any, X any, R any](
	cnode *cNode[K, V], leaf *mnode[K, W], depth uint8,
	hashOf func(K) uint64, eq func(K, K) bool,
	reduceOp func(R, R) R,
	bothOp func(K, V, K, W) MapTransmuteResult[S, X, R],
	cnodeOp func(K, V) MapTransmuteResult[S, X, R],
	leafOp func(K, W) MapTransmuteResult[S, X, R],
) (*mnode[S, X], R) {
	leafFlag, ok := newFlagAtDepth(leafHash(leaf, hashOf), depth)
	if !ok {
		panic("hashtrie: hash exhausted while joint-transmuting a cNode against a leaf")
	}

	bitmap := uint32(0)
	children := make([]*mnode[S, X], 0, len(cnode.children)+1)
	var reduced R

	for idx := 0; idx < fanOut; idx++ {
		mask := uint32(1) << uint(idx)
		cnodePresent := present(cnode.bitmap, mask)
		isLeafSlot := mask == leafFlag.mask
		if !cnodePresent && !isLeafSlot {
			continue
		}

		var childResult *mnode[S, X]
		var r R
		switch {
		case cnodePresent && isLeafSlot:
			cChild := cnode.children[arrayIndex(cnode.bitmap, mask)]
			childResult, r = jointTransmuteMnode(cChild, leaf, depth+1, hashOf, eq, reduceOp, bothOp, cnodeOp, leafOp)
		case cnodePresent:
			cChild := cnode.children[arrayIndex(cnode.bitmap, mask)]
			childResult, r = mnodeTransmute(cChild, depth+1, reduceOp, cnodeOp)
		default:
			childResult, r = mnodeTransmute(leaf, depth+1, reduceOp, leafOp)
		}
		reduced = reduceOp(reduced, r)
		if childResult == nil {
			continue
		}
		bitmap |= mask
		children = append(children, childResult)
	}

	return bubbleCNode(newCNode(bitmap, children), depth), reduced
}

// jointTransmuteLNodeLNode fuses two collision chains: matching full hashes
// mean a key-by-key merge, differing full hashes mean each chain is
// transmuted on its own and the survivors are placed in a branch.
func jointTransmuteLNodeLNode[K any, V any, W any, S any, X any, R any](
	left *lNode[K, V], right *lNode[K, W], depth uint8,
	hashOf func(K) uint64, eq func(K, K) bool,
	reduceOp func(R, R) R,
	bothOp func(K, V, K, W) MapTransmuteResult[S, X, R],
	leftOp func(K, V) MapTransmuteResult[S, X, R],
	rightOp func(K, W) MapTransmuteResult[S, X, R],
) (*mnode[S, X], R) {
	leftHash := hashOf(left.key)
	rightHash := hashOf(right.key)

	if leftHash == rightHash {
		return jointTransmuteChainsSameHash(lnodeEntries(left), lnodeEntries(right), eq, reduceOp, bothOp, leftOp, rightOp)
	}

	lChild, lr := mnodeTransmute(lnodeNode(left), depth, reduceOp, leftOp)
	rChild, rr := mnodeTransmute(lnodeNode(right), depth, reduceOp, rightOp)
	return combineDistinctHashes(lChild, leftHash, rChild, rightHash, depth, reduceOp(lr, rr))
}

// jointTransmuteLNodeSNode fuses an lNode with a singleton, the size-1 edge
// of the same collision-chain walk as jointTransmuteLNodeLNode.
func jointTransmuteLNodeSNode[K any, V any, W any, S any, X any, R any](
	left *lNode[K, V], right *sNode[K, W], depth uint8,
	hashOf func(K) uint64, eq func(K, K) bool,
	reduceOp func(R, R) R,
	bothOp func(K, V, K, W) MapTransmuteResult[S, X, R],
	leftOp func(K, V) MapTransmuteResult[S, X, R],
	rightOp func(K, W) MapTransmuteResult[S, X, R],
) (*mnode[S, X], R) {
	leftHash := hashOf(left.key)
	rightHash := hashOf(right.key)

	if leftHash == rightHash {
		return jointTransmuteChainsSameHash(lnodeEntries(left), []kvPair[K, W]{{right.key, right.value}}, eq, reduceOp, bothOp, leftOp, rightOp)
	}

	lChild, lr := mnodeTransmute(lnodeNode(left), depth, reduceOp, leftOp)
	rChild, rr := sNodeTransmute(right, rightOp)
	return combineDistinctHashes(lChild, leftHash, rChild, rightHash, depth, reduceOp(lr, rr))
}

func jointTransmuteSNodeSNode[K any, V any, W any, S any, X any, R any](
	left *sNode[K, V], right *sNode[K, W], depth uint8,
	hashOf func(K) uint64, eq func(K, K) bool,
	reduceOp func(R, R) R,
	bothOp func(K, V, K, W) MapTransmuteResult[S, X, R],
	leftOp func(K, V) MapTransmuteResult[S, X, R],
	rightOp func(K, W) MapTransmuteResult[S, X, R],
) (*mnode[S, X], R) {
	if eq(left.key, right.key) {
		r := bothOp(left.key, left.value, right.key, right.value)
		if r.Outcome == RemovedBy {
			return nil, r.Reduced
		}
		return snodeNode(newSNode(r.Key, r.Value)), r.Reduced
	}

	lr := leftOp(left.key, left.value)
	rr := rightOp(right.key, right.value)
	reduced := reduceOp(lr.Reduced, rr.Reduced)

	var lChild, rChild *mnode[S, X]
	if lr.Outcome == TransmutedTo {
		lChild = snodeNode(newSNode(lr.Key, lr.Value))
	}
	if rr.Outcome == TransmutedTo {
		rChild = snodeNode(newSNode(rr.Key, rr.Value))
	}

	leftHash := hashOf(left.key)
	rightHash := hashOf(right.key)
	if leftHash == rightHash {
		// Hashes equal but keys differ: the two survivors become a chain
		// rather than a cNode split, since they will never diverge by index.
		switch {
		case lChild != nil && rChild != nil:
			return lnodeNode(newLNode(lr.Key, lr.Value, lNodeNext[S, X]{s: rChild.s})), reduced
		case lChild != nil:
			return lChild, reduced
		default:
			return rChild, reduced
		}
	}
	return combineDistinctHashes(lChild, leftHash, rChild, rightHash, depth, reduced)
}

// combineDistinctHashes places two already-transmuted, already known to
// have distinct full hashes into a cNode at depth (or returns whichever
// survived, if one side vanished).
func combineDistinctHashes[S any, X any, R any](lChild *mnode[S, X], leftHash uint64, rChild *mnode[S, X], rightHash uint64, depth uint8, reduced R) (*mnode[S, X], R) {
	switch {
	case lChild == nil && rChild == nil:
		return nil, reduced
	case lChild == nil:
		return rChild, reduced
	case rChild == nil:
		return lChild, reduced
	}
	leftFlag, okL := newFlagAtDepth(leftHash, depth)
	rightFlag, okR := newFlagAtDepth(rightHash, depth)
	if !okL || !okR {
		panic("hashtrie: hash exhausted while joint-transmuting distinct hashes")
	}
	return cnodeNode(liftPairToCNode(lChild, leftFlag, rChild, rightFlag)), reduced
}

// jointTransmuteChainsSameHash merges two flattened collision chains known
// to share a full hash: every left entry looks for an equal key among the
// not-yet-matched right entries; unmatched right entries are processed
// afterward with rightOp.
func jointTransmuteChainsSameHash[K any, V any, W any, S any, X any, R any](
	leftEntries []kvPair[K, V], rightEntries []kvPair[K, W],
	eq func(K, K) bool,
	reduceOp func(R, R) R,
	bothOp func(K, V, K, W) MapTransmuteResult[S, X, R],
	leftOp func(K, V) MapTransmuteResult[S, X, R],
	rightOp func(K, W) MapTransmuteResult[S, X, R],
) (*mnode[S, X], R) {
	used := make([]bool, len(rightEntries))
	var reduced R
	var results []kvPair[S, X]

	for _, le := range leftEntries {
		matchIdx := -1
		for i, re := range rightEntries {
			if !used[i] && eq(le.key, re.key) {
				matchIdx = i
				break
			}
		}
		var r MapTransmuteResult[S, X, R]
		if matchIdx >= 0 {
			used[matchIdx] = true
			re := rightEntries[matchIdx]
			r = bothOp(le.key, le.value, re.key, re.value)
		} else {
			r = leftOp(le.key, le.value)
		}
		reduced = reduceOp(reduced, r.Reduced)
		if r.Outcome == TransmutedTo {
			results = append(results, kvPair[S, X]{r.Key, r.Value})
		}
	}
	for i, re := range rightEntries {
		if used[i] {
			continue
		}
		r := rightOp(re.key, re.value)
		reduced = reduceOp(reduced, r.Reduced)
		if r.Outcome == TransmutedTo {
			results = append(results, kvPair[S, X]{r.Key, r.Value})
		}
	}

	return buildChainFromEntries(results), reduced
}

func lnodeEntries[K any, V any](n *lNode[K, V]) []kvPair[K, V] {
	entries := make([]kvPair[K, V], 0, n.size)
	lNodeVisit(n, func(k K, v V) { entries = append(entries, kvPair[K, V]{k, v}) })
	return entries
}

// buildChainFromEntries reassembles a chain (lNode, sNode, or nil) from an
// arbitrary-length slice of surviving entries.
func buildChainFromEntries[S any, X any](entries []kvPair[S, X]) *mnode[S, X] {
	if len(entries) == 0 {
		return nil
	}
	if len(entries) == 1 {
		return snodeNode(newSNode(entries[0].key, entries[0].value))
	}
	tail := buildChainFromEntries(entries[1:])
	return lnodeNode(newLNode(entries[0].key, entries[0].value, lNodeNextFromMnode(tail)))
}
