package hashtrie

import (
	"bytes"
	"hash/maphash"
)

// Hasher defines a hash function and an equivalence relation over values of
// type K. A trie is parameterized by a single Hasher for its key type;
// equal keys must hash equal.
type Hasher[K any] interface {
	Hash(key K) uint64
	Equal(a, b K) bool
}

// ComparableHasher hashes any comparable type using maphash.WriteComparable,
// consistent with == for equality. It is the default hasher for key types
// that don't need a custom Hasher.
type ComparableHasher[K comparable] struct{}

var comparableSeed = maphash.MakeSeed()

func (ComparableHasher[K]) Hash(key K) uint64 {
	var h maphash.Hash
	h.SetSeed(comparableSeed)
	maphash.WriteComparable(&h, key)
	return h.Sum64()
}

func (ComparableHasher[K]) Equal(a, b K) bool {
	return a == b
}

// StringHasher hashes strings with hash/maphash.
type StringHasher struct{}

var stringSeed = maphash.MakeSeed()

func (StringHasher) Hash(key string) uint64 {
	var h maphash.Hash
	h.SetSeed(stringSeed)
	h.WriteString(key)
	return h.Sum64()
}

func (StringHasher) Equal(a, b string) bool {
	return a == b
}

// BytesHasher hashes byte slices with hash/maphash.
type BytesHasher struct{}

var bytesSeed = maphash.MakeSeed()

func (BytesHasher) Hash(key []byte) uint64 {
	var h maphash.Hash
	h.SetSeed(bytesSeed)
	h.Write(key)
	return h.Sum64()
}

func (BytesHasher) Equal(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// ConstantHasher always returns the configured hash, regardless of the key.
// It exists to exercise collision handling (lNode construction) in tests.
type ConstantHasher[K comparable] struct {
	HashValue uint64
}

func (h ConstantHasher[K]) Hash(K) uint64 {
	return h.HashValue
}

func (ConstantHasher[K]) Equal(a, b K) bool {
	return a == b
}
