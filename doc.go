// Package hashtrie implements a persistent (immutable, structurally shared)
// associative container backed by a hash array mapped trie (HAMT).
//
// Every mutating operation returns a new root while sharing every untouched
// subtree with the trie it was derived from. There is no mutable in-place
// update, no lazy iterator protocol, and no ordering guarantee between
// entries: traversal is visitor-style and single-threaded, matching a plain
// recursive walk over an immutable tree.
//
// The exported entry points are HashTrieMap and HashTrieSet; the node
// taxonomy (sNode, lNode, cNode, mnode) and the recursive insert, remove,
// transform, transmute, and joint-transmute algorithms beneath them are
// unexported implementation detail.
package hashtrie
