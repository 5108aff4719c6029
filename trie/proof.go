package trie

import (
	"bytes"
	"errors"

	"github.com/casper-ecosystem/exec-engine-core/common"
	"github.com/casper-ecosystem/exec-engine-core/triestore"
)

// MerkleProof is a self-contained witness that a key maps to a value (or
// is absent) under a given root, verifiable without access to the node
// store. Nodes holds the canonical byte encoding of every node visited
// from the root down to (and including, for a membership proof) the
// node that terminates the key.
//
// This is a supplemental capability: nothing in the commit pipeline
// depends on it, but any component that needs to hand a prestate
// fragment to a remote verifier (a light client, a cross-shard receipt)
// can use it. The wire shape is modelled on the path-of-full-nodes style
// the teacher's own Merkle proof sketch used, adapted to this package's
// node structure.
type MerkleProof struct {
	Key   []byte
	Nodes [][]byte
	Found bool
	Value []byte
}

var (
	ErrProofKeyMismatch  = errors.New("trie: proof key does not match requested key")
	ErrProofBadNode      = errors.New("trie: proof contains an undecodable node")
	ErrProofHashMismatch = errors.New("trie: proof node hash does not match its parent's reference")
	ErrProofRootMismatch = errors.New("trie: proof root does not match expected root")
	ErrProofValueMismatch = errors.New("trie: proof value does not match its claimed hash")
)

// Prove builds a MerkleProof for key under the trie rooted at root. It
// succeeds whether or not the key is present: an absence proof stops at
// the first missing child link.
func Prove(r triestore.ReadTxn, root Hash, key []byte) (*MerkleProof, error) {
	n, ok := loadNode(r, root)
	if !ok {
		return nil, triestore.ErrStoreCorrupted
	}
	proof := &MerkleProof{Key: append([]byte(nil), key...)}
	proof.Nodes = append(proof.Nodes, n.bytes())

	nibbles := keyToNibbles(key)
	for _, nb := range nibbles {
		child := n.children[nb]
		if child.IsZero() {
			proof.Found = false
			return proof, nil
		}
		var found bool
		n, found = loadNode(r, child)
		if !found {
			return nil, triestore.ErrStoreCorrupted
		}
		proof.Nodes = append(proof.Nodes, n.bytes())
	}

	if !n.hasValue {
		proof.Found = false
		return proof, nil
	}
	value := r.Values().Get(n.valueHash.Bytes())
	if value == nil {
		return nil, triestore.ErrStoreCorrupted
	}
	proof.Found = true
	proof.Value = append([]byte(nil), value...)
	return proof, nil
}

// VerifyProof checks proof against an expected key and root, without
// touching any store. It returns nil if the proof is internally
// consistent and terminates in the claimed Found/Value outcome.
func VerifyProof(proof *MerkleProof, expectedRoot Hash, key []byte) error {
	if !bytes.Equal(proof.Key, key) {
		return ErrProofKeyMismatch
	}
	if len(proof.Nodes) == 0 {
		return ErrProofBadNode
	}

	currentHash := Hash(common.Blake2b256(proof.Nodes[0]))
	if currentHash != expectedRoot {
		return ErrProofRootMismatch
	}

	nibbles := keyToNibbles(key)
	n := decodeNode(proof.Nodes[0])

	for i, nb := range nibbles {
		if i+1 >= len(proof.Nodes) {
			// proof terminates here: must be an absence proof at this depth
			if proof.Found {
				return ErrProofBadNode
			}
			if !n.children[nb].IsZero() {
				return ErrProofBadNode
			}
			return nil
		}
		nextBytes := proof.Nodes[i+1]
		nextHash := Hash(common.Blake2b256(nextBytes))
		if n.children[nb] != nextHash {
			return ErrProofHashMismatch
		}
		n = decodeNode(nextBytes)
	}

	if proof.Found {
		if !n.hasValue {
			return ErrProofBadNode
		}
		if Hash(common.Blake2b256(proof.Value)) != n.valueHash {
			return ErrProofValueMismatch
		}
		return nil
	}
	if n.hasValue {
		return ErrProofBadNode
	}
	return nil
}
