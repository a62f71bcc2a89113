package hashtrie

import "errors"

// ErrNotFound is returned by Find and Remove when the key is absent. It is
// the trie's only observable error condition: inserting an already-present
// key is informational, reported by returning the existing entry rather
// than an error.
var ErrNotFound = errors.New("hashtrie: key not found")
