package hashtrie

import (
	"testing"

	"github.com/go-quicktest/qt"
)

// bucketHasher sends every key below 10 to one full hash and the rest to
// another, forcing collision chains on both sides of a joint walk.
type bucketHasher struct{}

func (bucketHasher) Hash(k int) uint64 {
	if k >= 10 {
		return 0x20
	}
	return 0
}

func (bucketHasher) Equal(a, b int) bool { return a == b }

func mapOf(hasher Hasher[int], entries map[int]string) HashTrieMap[int, string] {
	m := NewMap[int, string](hasher)
	for k, v := range entries {
		m, _, _, _ = m.Insert(k, v, false)
	}
	return m
}

func addInt(a, b int) int { return a + b }

func keepLeft(k int, v string) MapTransmuteResult[int, string, int] {
	return Transmuted(k, v, 0)
}

func TestJointTransmuteUnion(t *testing.T) {
	a := mapOf(ComparableHasher[int]{}, map[int]string{1: "a", 2: "b"})
	b := mapOf(ComparableHasher[int]{}, map[int]string{2: "c", 3: "d"})

	union, overlap := JointTransmuteMap(a, b, ComparableHasher[int]{}, addInt,
		func(k int, _ string, _ int, w string) MapTransmuteResult[int, string, int] {
			return Transmuted(k, w, 1)
		},
		keepLeft, keepLeft)

	qt.Assert(t, qt.Equals(overlap, 1))
	qt.Assert(t, qt.Equals(union.Size(), 3))
	want := map[int]string{1: "a", 2: "c", 3: "d"}
	for k, v := range want {
		got, err := union.Find(k)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(got, v))
	}
	checkShape(t, union.trie)
}

func TestJointTransmuteIdentity(t *testing.T) {
	m := NewComparableMap[int, string]()
	for i := 0; i < 200; i++ {
		m, _, _, _ = m.Insert(i, "v", false)
	}
	drop := func(int, string) MapTransmuteResult[int, string, int] {
		return TransmuteRemoved[int, string](0)
	}
	out, _ := JointTransmuteMap(m, m, ComparableHasher[int]{}, addInt,
		func(k int, v string, _ int, _ string) MapTransmuteResult[int, string, int] {
			return Transmuted(k, v, 0)
		},
		drop, drop)
	qt.Assert(t, qt.IsTrue(EqualMaps(m, out)))
}

func TestJointTransmuteSymmetry(t *testing.T) {
	a := mapOf(ComparableHasher[int]{}, map[int]string{1: "a", 2: "b", 5: "e"})
	b := mapOf(ComparableHasher[int]{}, map[int]string{2: "c", 3: "d", 9: "i"})

	both := func(k int, v string, _ int, w string) MapTransmuteResult[int, string, int] {
		return Transmuted(k, v+w, 1)
	}
	bothSwapped := func(k int, w string, _ int, v string) MapTransmuteResult[int, string, int] {
		return Transmuted(k, v+w, 1)
	}

	ab, rab := JointTransmuteMap(a, b, ComparableHasher[int]{}, addInt, both, keepLeft, keepLeft)
	ba, rba := JointTransmuteMap(b, a, ComparableHasher[int]{}, addInt, bothSwapped, keepLeft, keepLeft)
	qt.Assert(t, qt.Equals(rab, rba))
	qt.Assert(t, qt.IsTrue(EqualMaps(ab, ba)))
}

func TestJointTransmuteEmptySides(t *testing.T) {
	empty := NewComparableMap[int, string]()
	m := mapOf(ComparableHasher[int]{}, map[int]string{1: "a", 2: "b"})
	fail := func(int, string, int, string) MapTransmuteResult[int, string, int] {
		t.Fatal("both callback invoked with an empty side")
		return TransmuteRemoved[int, string](0)
	}

	left, _ := JointTransmuteMap(m, empty, ComparableHasher[int]{}, addInt, fail, keepLeft, keepLeft)
	qt.Assert(t, qt.IsTrue(EqualMaps(left, m)))

	right, _ := JointTransmuteMap(empty, m, ComparableHasher[int]{}, addInt, fail, keepLeft, keepLeft)
	qt.Assert(t, qt.IsTrue(EqualMaps(right, m)))

	none, _ := JointTransmuteMap(empty, empty, ComparableHasher[int]{}, addInt, fail, keepLeft, keepLeft)
	qt.Assert(t, qt.Equals(none.Size(), 0))
}

func TestJointTransmuteCollidingChains(t *testing.T) {
	// Both sides collide into one chain at the same full hash.
	a := mapOf(bucketHasher{}, map[int]string{1: "a1", 2: "a2", 3: "a3"})
	b := mapOf(bucketHasher{}, map[int]string{2: "b2", 3: "b3", 4: "b4"})

	union, overlap := JointTransmuteMap(a, b, bucketHasher{}, addInt,
		func(k int, _ string, _ int, w string) MapTransmuteResult[int, string, int] {
			return Transmuted(k, w, 1)
		},
		keepLeft, keepLeft)
	qt.Assert(t, qt.Equals(overlap, 2))
	qt.Assert(t, qt.Equals(union.Size(), 4))
	for k, v := range map[int]string{1: "a1", 2: "b2", 3: "b3", 4: "b4"} {
		got, err := union.Find(k)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(got, v))
	}
	checkShape(t, union.trie)
}

func TestJointTransmuteChainsAtDistinctHashes(t *testing.T) {
	// The two chains share slot 0 at depth 0 (hashes 0x0 and 0x20) but
	// diverge at depth 1, so the walk must split them into a deeper branch.
	a := mapOf(bucketHasher{}, map[int]string{1: "a1", 2: "a2"})
	b := mapOf(bucketHasher{}, map[int]string{11: "b11", 12: "b12"})

	union, _ := JointTransmuteMap(a, b, bucketHasher{}, addInt,
		func(k int, v string, _ int, _ string) MapTransmuteResult[int, string, int] {
			return Transmuted(k, v, 1)
		},
		keepLeft, keepLeft)
	qt.Assert(t, qt.Equals(union.Size(), 4))
	for k, v := range map[int]string{1: "a1", 2: "a2", 11: "b11", 12: "b12"} {
		got, err := union.Find(k)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(got, v))
	}
	checkShape(t, union.trie)
}

func TestJointTransmuteChainAgainstSingleton(t *testing.T) {
	a := mapOf(bucketHasher{}, map[int]string{1: "a1", 2: "a2"})
	b := mapOf(bucketHasher{}, map[int]string{3: "b3"})

	union, _ := JointTransmuteMap(a, b, bucketHasher{}, addInt,
		func(k int, v string, _ int, _ string) MapTransmuteResult[int, string, int] {
			return Transmuted(k, v, 0)
		},
		keepLeft, keepLeft)
	qt.Assert(t, qt.Equals(union.Size(), 3))
	checkShape(t, union.trie)

	// Swapped operands exercise the canonicalizing (singleton, chain) walk.
	swapped, _ := JointTransmuteMap(b, a, bucketHasher{}, addInt,
		func(k int, v string, _ int, _ string) MapTransmuteResult[int, string, int] {
			return Transmuted(k, v, 0)
		},
		keepLeft, keepLeft)
	qt.Assert(t, qt.IsTrue(EqualMaps(union, swapped)))
}

func TestJointTransmuteSingletonsSameHash(t *testing.T) {
	a := mapOf(ConstantHasher[int]{}, map[int]string{1: "a"})
	b := mapOf(ConstantHasher[int]{}, map[int]string{2: "b"})

	// Two distinct keys with one full hash fuse into a two-entry chain.
	union, _ := JointTransmuteMap(a, b, ConstantHasher[int]{}, addInt,
		func(k int, v string, _ int, _ string) MapTransmuteResult[int, string, int] {
			return Transmuted(k, v, 0)
		},
		keepLeft, keepLeft)
	qt.Assert(t, qt.Equals(union.Size(), 2))
	qt.Assert(t, qt.IsTrue(union.trie.root.c.children[0].l != nil))
	for k, v := range map[int]string{1: "a", 2: "b"} {
		got, err := union.Find(k)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(got, v))
	}

	// Dropping one side leaves a lone singleton, not a chain.
	onlyLeft, _ := JointTransmuteMap(a, b, ConstantHasher[int]{}, addInt,
		func(k int, v string, _ int, _ string) MapTransmuteResult[int, string, int] {
			return Transmuted(k, v, 0)
		},
		keepLeft,
		func(int, string) MapTransmuteResult[int, string, int] {
			return TransmuteRemoved[int, string](0)
		})
	qt.Assert(t, qt.IsTrue(EqualMaps(onlyLeft, a)))
}

func TestJointTransmuteCrossType(t *testing.T) {
	// Value types differ on the two sides and in the output.
	a := NewComparableMap[int, int]()
	b := NewComparableMap[int, string]()
	for i := 0; i < 30; i++ {
		a, _, _, _ = a.Insert(i, i, false)
	}
	for i := 20; i < 40; i++ {
		b, _, _, _ = b.Insert(i, "s", false)
	}

	merged, overlap := JointTransmuteMap(a, b, ComparableHasher[int]{}, addInt,
		func(k, _ int, _ int, _ string) MapTransmuteResult[int, bool, int] {
			return Transmuted(k, true, 1)
		},
		func(k, _ int) MapTransmuteResult[int, bool, int] { return Transmuted(k, false, 0) },
		func(k int, _ string) MapTransmuteResult[int, bool, int] { return Transmuted(k, false, 0) },
	)
	qt.Assert(t, qt.Equals(overlap, 10))
	qt.Assert(t, qt.Equals(merged.Size(), 40))
	for i := 0; i < 40; i++ {
		v, err := merged.Find(i)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(v, i >= 20 && i < 30))
	}
	checkShape(t, merged.trie)
}
