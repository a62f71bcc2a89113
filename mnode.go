package hashtrie

// mnode is the node-sum discriminator: at most one of c, l, s is non-nil.
// A nil *mnode pointer represents the empty trie (only valid at the root).
// A struct of optional fields keeps dispatch a plain nil check rather than
// an interface type switch.
type mnode[K any, V any] struct {
	c *cNode[K, V]
	l *lNode[K, V]
	s *sNode[K, V]
}

func cnodeNode[K any, V any](c *cNode[K, V]) *mnode[K, V] { return &mnode[K, V]{c: c} }
func lnodeNode[K any, V any](l *lNode[K, V]) *mnode[K, V] { return &mnode[K, V]{l: l} }
func snodeNode[K any, V any](s *sNode[K, V]) *mnode[K, V] { return &mnode[K, V]{s: s} }

// mnodeSize returns the number of entries reachable from n (0 for nil/empty).
func mnodeSize[K any, V any](n *mnode[K, V]) int {
	switch {
	case n == nil:
		return 0
	case n.c != nil:
		return n.c.size
	case n.l != nil:
		return n.l.size
	case n.s != nil:
		return 1
	}
	return 0
}

// mnodeFind looks up target within n at flag's position, using eq to compare
// against stored keys.
func mnodeFind[K any, V any](n *mnode[K, V], f hashFlag, target K, eq func(K, K) bool) (key K, value V, found bool) {
	switch {
	case n == nil:
		return key, value, false
	case n.c != nil:
		return cNodeFind(n.c, f, target, eq)
	case n.l != nil:
		return lNodeFind(n.l, target, eq)
	case n.s != nil:
		return sNodeFind(n.s, target, eq)
	}
	return key, value, false
}

// mnodeInsert inserts key/value into n at flag's position. inserted is false
// and hadExisting is true when the key was already present and replace is
// false (a conflict); existing then holds the value already stored.
func mnodeInsert[K any, V any](n *mnode[K, V], hashOf func(K) uint64, eq func(K, K) bool, f hashFlag, key K, value V, replace bool) (result *mnode[K, V], existing V, hadExisting bool, inserted bool) {
	switch {
	case n == nil:
		return snodeNode(newSNode(key, value)), existing, false, true
	case n.c != nil:
		newC, existing, hadExisting, inserted := cNodeInsert(n.c, hashOf, eq, f, key, value, replace)
		if !inserted && hadExisting {
			return n, existing, hadExisting, false
		}
		return cnodeNode(newC), existing, hadExisting, inserted
	case n.l != nil:
		result, existing, hadExisting, inserted := lNodeInsert(n.l, hashOf, eq, f, key, value, replace)
		if !inserted && hadExisting {
			return n, existing, hadExisting, false
		}
		return result, existing, hadExisting, inserted
	case n.s != nil:
		result, existing, hadExisting, inserted := sNodeInsert(n.s, hashOf, eq, f, key, value, replace)
		if !inserted && hadExisting {
			return n, existing, hadExisting, false
		}
		return result, existing, hadExisting, inserted
	}
	return snodeNode(newSNode(key, value)), existing, false, true
}

// mnodeRemove removes the entry matching target at flag's position.
func mnodeRemove[K any, V any](n *mnode[K, V], f hashFlag, target K, eq func(K, K) bool) (result *mnode[K, V], removedKey K, removedValue V, found bool) {
	switch {
	case n == nil:
		return nil, removedKey, removedValue, false
	case n.c != nil:
		newC, k, v, found := cNodeRemove(n.c, f, target, eq)
		if !found {
			return n, k, v, false
		}
		return newC, k, v, true
	case n.l != nil:
		newNode, k, v, found := lNodeRemove(n.l, target, eq)
		if !found {
			return n, k, v, false
		}
		return newNode, k, v, true
	case n.s != nil:
		k, v, found := sNodeFind(n.s, target, eq)
		if !found {
			return n, k, v, false
		}
		return nil, k, v, true
	}
	return n, removedKey, removedValue, false
}

// mnodeVisit walks every (key, value) reachable from n exactly once, in a
// deterministic (mask, then chain) order.
func mnodeVisit[K any, V any](n *mnode[K, V], op func(K, V)) {
	switch {
	case n == nil:
		return
	case n.c != nil:
		cNodeVisit(n.c, op)
	case n.l != nil:
		lNodeVisit(n.l, op)
	case n.s != nil:
		op(n.s.key, n.s.value)
	}
}

// mnodeTransform reshapes n in place (same K, V), folding reduced values
// with reduceOp. changed reports whether the result differs from n, so
// hashTrieTransform can share the original root when nothing changed. depth
// is the depth n itself sits at, so a cNode can tell whether it is the root.
func mnodeTransform[K any, V any, R any](n *mnode[K, V], depth uint8, reduceOp func(R, R) R, op func(K, V) MapTransformResult[V, R]) (result *mnode[K, V], reduced R, changed bool) {
	switch {
	case n == nil:
		return nil, reduced, false
	case n.c != nil:
		newC, r, changed := cNodeTransform(n.c, depth, reduceOp, op)
		if !changed {
			return n, r, false
		}
		return newC, r, true
	case n.l != nil:
		newNode, r, changed := lNodeTransform(n.l, reduceOp, op)
		if !changed {
			return n, r, false
		}
		return newNode, r, true
	case n.s != nil:
		newS, r, changed := sNodeTransform(n.s, op)
		if !changed {
			return n, r, false
		}
		if newS == nil {
			return nil, r, true
		}
		return snodeNode(newS), r, true
	}
	return n, reduced, false
}

// mnodeTransmute rebuilds n under a (possibly) new key/value type.
func mnodeTransmute[K any, V any, S any, X any, R any](n *mnode[K, V], depth uint8, reduceOp func(R, R) R, op func(K, V) MapTransmuteResult[S, X, R]) (result *mnode[S, X], reduced R) {
	switch {
	case n == nil:
		return nil, reduced
	case n.c != nil:
		return cNodeTransmute(n.c, depth, reduceOp, op)
	case n.l != nil:
		return lNodeTransmute(n.l, reduceOp, op)
	case n.s != nil:
		return sNodeTransmute(n.s, op)
	}
	return nil, reduced
}

// mnodeEqual reports whether two mnodes represent the same entries with the
// same canonical (mask-ordered) shape.
func mnodeEqual[K comparable, V comparable](a, b *mnode[K, V]) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	case a.c != nil && b.c != nil:
		return cNodeEqual(a.c, b.c)
	case a.l != nil && b.l != nil:
		return lNodeEqual(a.l, b.l)
	case a.s != nil && b.s != nil:
		return a.s.key == b.s.key && a.s.value == b.s.value
	}
	return false
}
