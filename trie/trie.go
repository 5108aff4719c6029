// Package trie implements versioned trie operations (component C2): pure
// Read and Write functions over an immutable, content-addressed 16-ary
// nibble trie. Every Write that actually changes the tree produces a new
// root hash while leaving every node reachable from the old root
// untouched in the store, so historical roots stay valid forever and
// concurrent readers never observe a partially written tree.
package trie

import (
	"github.com/casper-ecosystem/exec-engine-core/common"
	"github.com/casper-ecosystem/exec-engine-core/triestore"
)

// ReadResult reports the outcome of a Read.
type ReadResult int

const (
	Found ReadResult = iota
	NotFound
	RootNotFound
)

// WriteResult reports the outcome of a Write.
type WriteResult int

const (
	Written WriteResult = iota
	AlreadyExists
	WriteRootNotFound
)

func loadNode(r triestore.ReadTxn, h Hash) (*node, bool) {
	raw := r.Nodes().Get(h.Bytes())
	if raw == nil {
		return nil, false
	}
	return decodeNode(raw), true
}

func storeNode(w triestore.RwTxn, n *node) Hash {
	h := n.hash()
	w.NodesWriter().Set(h.Bytes(), n.bytes())
	return h
}

// CreateHashedEmptyTrie writes the canonical empty node to env and
// returns its hash, the root of a trie with no keys.
func CreateHashedEmptyTrie(env *triestore.Environment) (Hash, error) {
	var root Hash
	err := env.Update(func(tx triestore.RwTxn) error {
		root = storeNode(tx, &node{})
		return nil
	})
	return root, err
}

// RootExists reports whether root names a node ever written to this
// store, without looking up any key. The commit pipeline uses this to
// distinguish a bad prestate root from an absent key.
func RootExists(r triestore.ReadTxn, root Hash) bool {
	_, ok := loadNode(r, root)
	return ok
}

// Read looks up key under the trie rooted at root within a read
// transaction already open on env. It returns NotFound for an absent
// key and RootNotFound if root does not name a node ever written to
// this store.
func Read(r triestore.ReadTxn, root Hash, key []byte) (ReadResult, []byte) {
	n, ok := loadNode(r, root)
	if !ok {
		return RootNotFound, nil
	}
	nibbles := keyToNibbles(key)
	for _, nb := range nibbles {
		child := n.children[nb]
		if child.IsZero() {
			return NotFound, nil
		}
		var found bool
		n, found = loadNode(r, child)
		if !found {
			// A child hash is referenced but missing from the store: the
			// store has been corrupted or written to by something other
			// than this package.
			panic(triestore.ErrStoreCorrupted)
		}
	}
	if !n.hasValue {
		return NotFound, nil
	}
	valueBytes := r.Values().Get(n.valueHash.Bytes())
	if valueBytes == nil {
		panic(triestore.ErrStoreCorrupted)
	}
	return Found, valueBytes
}

// Write inserts or overwrites key -> value under the trie rooted at
// root, within an already-open write transaction. It is idempotent:
// writing the same key/value pair that is already present returns
// AlreadyExists and leaves root (and the store) unchanged. A root that
// does not name a stored node yields WriteRootNotFound and no store
// mutation.
func Write(tx triestore.RwTxn, root Hash, key []byte, value []byte) (Hash, WriteResult) {
	if _, ok := loadNode(tx, root); !ok {
		return root, WriteRootNotFound
	}
	valueHash := Hash(common.Blake2b256(value))
	nibbles := keyToNibbles(key)
	newRoot, result := writeAt(tx, root, nibbles, valueHash, value)
	return newRoot, result
}

func writeAt(tx triestore.RwTxn, curHash Hash, nibbles []byte, valueHash Hash, value []byte) (Hash, WriteResult) {
	n, ok := loadNode(tx, curHash)
	common.Assertf(ok, "trie: write descended into a hash %x missing from the store", curHash)

	if len(nibbles) == 0 {
		if n.hasValue && n.valueHash == valueHash {
			return curHash, AlreadyExists
		}
		updated := *n
		updated.hasValue = true
		updated.valueHash = valueHash
		tx.ValuesWriter().Set(valueHash.Bytes(), value)
		return storeNode(tx, &updated), Written
	}

	nb := nibbles[0]
	childHash := n.children[nb]
	if childHash.IsZero() {
		childHash = storeEmptySubtree(tx)
	}
	newChildHash, result := writeAt(tx, childHash, nibbles[1:], valueHash, value)
	if result == AlreadyExists {
		return curHash, AlreadyExists
	}
	updated := *n
	updated.children[nb] = newChildHash
	return storeNode(tx, &updated), Written
}

func storeEmptySubtree(tx triestore.RwTxn) Hash {
	return storeNode(tx, &node{})
}
