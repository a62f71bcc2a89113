package hashtrie

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestSetEmptyFind(t *testing.T) {
	s := NewComparableSet[int32]()
	_, err := s.Find(7)
	qt.Assert(t, qt.ErrorIs(err, ErrNotFound))
	qt.Assert(t, qt.IsFalse(s.Contains(7)))
	qt.Assert(t, qt.Equals(s.Size(), 0))
}

func TestSetInsertRemove(t *testing.T) {
	s := NewStringSet()
	s, inserted := s.Insert("hello")
	qt.Assert(t, qt.IsTrue(inserted))
	s, inserted = s.Insert("world")
	qt.Assert(t, qt.IsTrue(inserted))
	qt.Assert(t, qt.Equals(s.Size(), 2))

	dup, inserted := s.Insert("hello")
	qt.Assert(t, qt.IsFalse(inserted))
	qt.Assert(t, qt.IsTrue(dup.trie == s.trie))

	v, err := s.Find("hello")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v, "hello"))

	s2, err := s.Remove("hello")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(s2.Contains("hello")))
	qt.Assert(t, qt.IsTrue(s2.Contains("world")))
	qt.Assert(t, qt.IsTrue(s.Contains("hello")))

	_, err = s2.Remove("hello")
	qt.Assert(t, qt.ErrorIs(err, ErrNotFound))
}

func TestSetTransform(t *testing.T) {
	s := NewComparableSet[int]()
	for i := 1; i <= 100; i++ {
		s, _ = s.Insert(i)
	}
	add := func(a, b int) int { return a + b }

	same, summed := TransformSet(s, add, func(v int) (SetTransformResult, int) {
		return KeepEntry(), v
	})
	qt.Assert(t, qt.Equals(summed, 5050))
	qt.Assert(t, qt.IsTrue(EqualSets(s, same)))
	qt.Assert(t, qt.IsTrue(same.trie == s.trie))

	removed, _ := TransformSet(s, add, func(int) (SetTransformResult, int) {
		return DropEntry(), 0
	})
	qt.Assert(t, qt.Equals(removed.Size(), 0))
	qt.Assert(t, qt.IsTrue(EqualSets(removed, NewComparableSet[int]())))

	evens, droppedCount := TransformSet(s, add, func(v int) (SetTransformResult, int) {
		if v%2 == 1 {
			return DropEntry(), 1
		}
		return KeepEntry(), 0
	})
	qt.Assert(t, qt.Equals(droppedCount, 50))
	qt.Assert(t, qt.Equals(evens.Size(), 50))
	for i := 1; i <= 100; i++ {
		qt.Assert(t, qt.Equals(evens.Contains(i), i%2 == 0))
	}

	// The source set is untouched.
	qt.Assert(t, qt.Equals(s.Size(), 100))
}

func TestSetVisit(t *testing.T) {
	s := NewComparableSet[int]()
	for i := 0; i < 300; i++ {
		s, _ = s.Insert(i)
	}
	seen := make(map[int]bool)
	s.Visit(func(v int) { seen[v] = true })
	qt.Assert(t, qt.Equals(len(seen), 300))
}

func TestTransmuteSet(t *testing.T) {
	s := NewComparableSet[int]()
	for i := 0; i < 20; i++ {
		s, _ = s.Insert(i)
	}
	add := func(a, b int) int { return a + b }

	kept, count := TransmuteSet(s, ComparableHasher[int]{}, add, func(v int) SetTransmuteResult[int, int] {
		if v >= 10 {
			return TransmuteRemovedValue[int](0)
		}
		return TransmutedValue(v, 1)
	})
	qt.Assert(t, qt.Equals(count, 10))
	qt.Assert(t, qt.Equals(kept.Size(), 10))
	for i := 0; i < 10; i++ {
		qt.Assert(t, qt.IsTrue(kept.Contains(i)))
	}
}

func TestJointTransmuteSetUnion(t *testing.T) {
	a := NewComparableSet[int]()
	b := NewComparableSet[int]()
	for i := 0; i < 50; i++ {
		a, _ = a.Insert(i)
	}
	for i := 25; i < 75; i++ {
		b, _ = b.Insert(i)
	}
	add := func(x, y int) int { return x + y }
	keep := func(v int) SetTransmuteResult[int, int] { return TransmutedValue(v, 0) }

	union, overlap := JointTransmuteSet(a, b, ComparableHasher[int]{}, add,
		func(l, _ int) SetTransmuteResult[int, int] { return TransmutedValue(l, 1) },
		keep, keep)
	qt.Assert(t, qt.Equals(overlap, 25))
	qt.Assert(t, qt.Equals(union.Size(), 75))
	for i := 0; i < 75; i++ {
		qt.Assert(t, qt.IsTrue(union.Contains(i)))
	}
	checkShape(t, union.trie)

	// Intersection: keep only values present on both sides.
	drop := func(int) SetTransmuteResult[int, int] { return TransmuteRemovedValue[int](0) }
	inter, _ := JointTransmuteSet(a, b, ComparableHasher[int]{}, add,
		func(l, _ int) SetTransmuteResult[int, int] { return TransmutedValue(l, 0) },
		drop, drop)
	qt.Assert(t, qt.Equals(inter.Size(), 25))
	for i := 25; i < 50; i++ {
		qt.Assert(t, qt.IsTrue(inter.Contains(i)))
	}
	checkShape(t, inter.trie)
}
