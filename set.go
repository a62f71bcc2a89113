package hashtrie

// HashTrieSet is a persistent, immutable set of values, built directly on
// the same trie core as HashTrieMap with V itself as the key and an empty
// struct as the (unused) value.
type HashTrieSet[V any] struct {
	trie *hashTrie[V, struct{}]
}

// NewSet builds an empty set using hasher for placement and equality.
func NewSet[V any](hasher Hasher[V]) HashTrieSet[V] {
	return HashTrieSet[V]{trie: newHashTrie[V, struct{}](hasher)}
}

// NewComparableSet builds an empty set over a value type usable with ==.
func NewComparableSet[V comparable]() HashTrieSet[V] {
	return NewSet[V](ComparableHasher[V]{})
}

// NewStringSet builds an empty set of strings.
func NewStringSet() HashTrieSet[string] {
	return NewSet[string](StringHasher{})
}

// NewBytesSet builds an empty set of []byte.
func NewBytesSet() HashTrieSet[[]byte] {
	return NewSet[[]byte](BytesHasher{})
}

// Size returns the number of values in s.
func (s HashTrieSet[V]) Size() int { return s.trie.size() }

// Contains reports whether value is a member of s.
func (s HashTrieSet[V]) Contains(value V) bool {
	_, found := s.trie.find(value)
	return found
}

// Find looks up value and returns the member stored in s (which equals the
// argument under the set's hasher but may be a distinct object), or
// ErrNotFound if it is absent.
func (s HashTrieSet[V]) Find(value V) (V, error) {
	stored, _, found := mnodeFind(s.trie.root, newFlag(s.trie.hasher.Hash(value)), value, s.trie.hasher.Equal)
	if !found {
		var zero V
		return zero, ErrNotFound
	}
	return stored, nil
}

// Insert returns the set with value added. inserted is false when value was
// already present, in which case the result is s itself.
func (s HashTrieSet[V]) Insert(value V) (result HashTrieSet[V], inserted bool) {
	next, _, _, inserted := s.trie.insert(value, struct{}{}, false)
	return HashTrieSet[V]{trie: next}, inserted
}

// Remove returns the set with value dropped, or ErrNotFound (and s
// unchanged) if value was absent.
func (s HashTrieSet[V]) Remove(value V) (HashTrieSet[V], error) {
	next, _, found := s.trie.remove(value)
	if !found {
		return s, ErrNotFound
	}
	return HashTrieSet[V]{trie: next}, nil
}

// Visit calls op once for every value, in an implementation-defined but
// deterministic order for a given set shape.
func (s HashTrieSet[V]) Visit(op func(V)) {
	s.trie.visit(func(v V, _ struct{}) { op(v) })
}

// Clone returns s; see HashTrieMap.Clone.
func (s HashTrieSet[V]) Clone() HashTrieSet[V] { return s }

// TransformSet keeps or drops each value of s through op, folding each
// value's reduction with reduceOp (starting from R's zero value). If every
// value is kept, the returned set shares its root with s.
func TransformSet[V any, R any](s HashTrieSet[V], reduceOp func(R, R) R, op func(V) (SetTransformResult, R)) (HashTrieSet[V], R) {
	next, reduced := hashTrieTransform(s.trie, reduceOp, func(v V, _ struct{}) MapTransformResult[struct{}, R] {
		result, r := op(v)
		if result.Outcome == Removed {
			return DropValue[struct{}](r)
		}
		return KeepValue[struct{}](r)
	})
	return HashTrieSet[V]{trie: next}, reduced
}

// TransmuteSet rebuilds s under a new value type via op, folding reductions
// with reduceOp. Each resulting value keeps the trie position of the value
// it came from; hasher becomes the result's hasher for later operations, so
// Contains finds a result value only if hasher gives it the hash s's hasher
// gave its source value. Unlike TransformSet, the result shares no
// structure with s.
func TransmuteSet[V any, S any, R any](s HashTrieSet[V], hasher Hasher[S], reduceOp func(R, R) R, op func(V) SetTransmuteResult[S, R]) (HashTrieSet[S], R) {
	next, reduced := hashTrieTransmute(s.trie, hasher, reduceOp, func(v V, _ struct{}) MapTransmuteResult[S, struct{}, R] {
		r := op(v)
		if r.Outcome == RemovedBy {
			return TransmuteRemoved[S, struct{}](r.Reduced)
		}
		return Transmuted(r.Value, struct{}{}, r.Reduced)
	})
	return HashTrieSet[S]{trie: next}, reduced
}

// JointTransmuteSet fuses left and right (which must share a value type) by
// hash: values present in only one side go through leftOp/rightOp; values
// present on both sides go through bothOp(leftValue, rightValue). Each
// resulting value keeps the position its source value has under left's
// hasher; hasher becomes the result's hasher for later operations, so
// Contains finds a result value only if hasher gives it that same hash.
func JointTransmuteSet[V any, S any, R any](
	left, right HashTrieSet[V], hasher Hasher[S],
	reduceOp func(R, R) R,
	bothOp func(V, V) SetTransmuteResult[S, R],
	leftOp func(V) SetTransmuteResult[S, R],
	rightOp func(V) SetTransmuteResult[S, R],
) (HashTrieSet[S], R) {
	lift := func(r SetTransmuteResult[S, R]) MapTransmuteResult[S, struct{}, R] {
		if r.Outcome == RemovedBy {
			return TransmuteRemoved[S, struct{}](r.Reduced)
		}
		return Transmuted(r.Value, struct{}{}, r.Reduced)
	}
	next, reduced := hashTrieJointTransmute(left.trie, right.trie, hasher, reduceOp,
		func(lv V, _ struct{}, rv V, _ struct{}) MapTransmuteResult[S, struct{}, R] {
			return lift(bothOp(lv, rv))
		},
		func(v V, _ struct{}) MapTransmuteResult[S, struct{}, R] { return lift(leftOp(v)) },
		func(v V, _ struct{}) MapTransmuteResult[S, struct{}, R] { return lift(rightOp(v)) },
	)
	return HashTrieSet[S]{trie: next}, reduced
}

// EqualSets reports whether a and b hold the same values.
func EqualSets[V comparable](a, b HashTrieSet[V]) bool {
	return hashTrieEqual(a.trie, b.trie)
}
