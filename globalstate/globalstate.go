// Package globalstate implements the outward state-transition API
// (component C4's commit pipeline plus the read/checkout surface a
// caller actually uses): a versioned key/value store whose values are
// produced by folding Transforms into a prestate trie root.
package globalstate

import (
	"errors"
	"sort"

	"github.com/casper-ecosystem/exec-engine-core/key"
	"github.com/casper-ecosystem/exec-engine-core/transform"
	"github.com/casper-ecosystem/exec-engine-core/trie"
	"github.com/casper-ecosystem/exec-engine-core/triestore"
	"github.com/casper-ecosystem/exec-engine-core/value"
)

// errCommitAborted signals the Update closure to skip the batch commit
// because the fold stopped short of CommitSuccess. It never escapes
// Commit: the caller only ever sees the CommitResult.
var errCommitAborted = errors.New("globalstate: commit aborted before success")

// CommitOutcome is the closed result of a Commit call, mirroring the
// four-way outcome named in the data model: a successful commit carries
// the new root; the three failure outcomes carry enough detail to report
// back to whatever produced the effects map.
type CommitOutcome int

const (
	CommitSuccess CommitOutcome = iota
	CommitRootNotFound
	CommitKeyNotFound
	CommitTypeMismatch
)

func (o CommitOutcome) String() string {
	switch o {
	case CommitSuccess:
		return "Success"
	case CommitRootNotFound:
		return "RootNotFound"
	case CommitKeyNotFound:
		return "KeyNotFound"
	case CommitTypeMismatch:
		return "TypeMismatch"
	default:
		return "CommitOutcome(invalid)"
	}
}

// CommitResult is the full outcome of Commit: Outcome names which of the
// four cases occurred, NewRoot is valid only for CommitSuccess, FailedKey
// names the key that stopped the fold for the two failure cases that
// have one, and Err carries the underlying TypeMismatch for
// CommitTypeMismatch.
type CommitResult struct {
	Outcome   CommitOutcome
	NewRoot   trie.Hash
	FailedKey key.Key
	Err       error
}

// GlobalState is a versioned key/value store backed by an Environment.
// Every successful Commit produces a brand-new root; every root ever
// returned by Commit (or by Empty/FromPairs) stays readable
// forever, since the underlying trie never overwrites a node already
// written for an older root.
type GlobalState struct {
	env *triestore.Environment
}

func New(env *triestore.Environment) *GlobalState {
	return &GlobalState{env: env}
}

// Empty creates a fresh trie with no keys and returns its root.
func Empty(env *triestore.Environment) (trie.Hash, error) {
	return trie.CreateHashedEmptyTrie(env)
}

// FromPairs writes every (key, value) pair into a fresh trie via Write,
// panicking if the empty trie's own root is somehow rejected (that would
// be a store left in an invalid state, not a caller error).
func FromPairs(env *triestore.Environment, pairs map[key.Key]value.Value) (trie.Hash, error) {
	root, err := Empty(env)
	if err != nil {
		return trie.Hash{}, err
	}
	err = env.Update(func(tx triestore.RwTxn) error {
		newRoot, writeErr := writeAllPairs(tx, root, pairs)
		if writeErr != nil {
			return writeErr
		}
		root = newRoot
		return nil
	})
	return root, err
}

func writeAllPairs(tx triestore.RwTxn, root trie.Hash, pairs map[key.Key]value.Value) (trie.Hash, error) {
	keys := sortedKeys(pairs)
	current := root
	for _, k := range keys {
		v := pairs[k]
		newRoot, result := trie.Write(tx, current, k.Bytes(), v.Bytes())
		// Invariant: the root we are folding into was either just created
		// by Empty or produced by our own prior Write in this same loop,
		// so it always names a real node. A WriteRootNotFound here means
		// the store itself is broken, not a caller mistake.
		if result == trie.WriteRootNotFound {
			panic(triestore.ErrStoreCorrupted)
		}
		current = newRoot
	}
	return current, nil
}

func sortedKeys(pairs map[key.Key]value.Value) []key.Key {
	keys := make([]key.Key, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return string(keys[i].Bytes()) < string(keys[j].Bytes())
	})
	return keys
}

// Read returns the value stored at k under root, or (nil, false) if
// absent. It panics if root names no node, since a caller that holds a
// root handle is expected to have gotten it from this package.
func (gs *GlobalState) Read(root trie.Hash, k key.Key) (value.Value, bool) {
	var result trie.ReadResult
	var raw []byte
	err := gs.env.Read(func(r triestore.ReadTxn) error {
		result, raw = trie.Read(r, root, k.Bytes())
		return nil
	})
	if err != nil {
		panic(err)
	}
	switch result {
	case trie.Found:
		v, decodeErr := value.Decode(raw)
		if decodeErr != nil {
			panic(triestore.ErrStoreCorrupted)
		}
		return v, true
	case trie.NotFound:
		return nil, false
	case trie.RootNotFound:
		panic(triestore.ErrStoreCorrupted)
	default:
		panic(triestore.ErrStoreCorrupted)
	}
}

// Checkout reports whether root names a node ever written to the store,
// returning root itself alongside that flag. It returns no separate
// reader object; reads under a checked-out root go through Read.
func (gs *GlobalState) Checkout(root trie.Hash) (trie.Hash, bool) {
	var exists bool
	err := gs.env.Read(func(r triestore.ReadTxn) error {
		exists = trie.RootExists(r, root)
		return nil
	})
	if err != nil {
		panic(err)
	}
	return root, exists
}

// Commit folds effects into the trie rooted at prestateRoot, one key at
// a time in canonical key order so that the result is independent of the
// order effects happened to be gathered in. For each key: a transform
// that needs a prestate value which is not there fails with
// CommitKeyNotFound, a transform that disagrees with the prestate
// value's type fails with CommitTypeMismatch, a Write transform never
// needs a prestate value at all, and Identity against an absent key is a
// silent no-op rather than a failure.
func (gs *GlobalState) Commit(prestateRoot trie.Hash, effects map[key.Key]transform.Transform) CommitResult {
	var result CommitResult
	err := gs.env.Update(func(tx triestore.RwTxn) error {
		if !trie.RootExists(tx, prestateRoot) {
			result = CommitResult{Outcome: CommitRootNotFound}
			return errCommitAborted
		}

		current := prestateRoot
		for _, k := range sortedEffectKeys(effects) {
			t := effects[k]

			readResult, raw := trie.Read(tx, current, k.Bytes())
			var existing value.Value
			switch readResult {
			case trie.Found:
				v, decodeErr := value.Decode(raw)
				if decodeErr != nil {
					panic(triestore.ErrStoreCorrupted)
				}
				existing = v
			case trie.NotFound:
				if transform.IsIdentity(t) {
					continue
				}
				if !transform.IsWrite(t) {
					result = CommitResult{Outcome: CommitKeyNotFound, FailedKey: k}
					return errCommitAborted
				}
			case trie.RootNotFound:
				// current was just confirmed to exist (either prestateRoot
				// above, or our own prior Write below); this can only mean
				// the store itself lost data mid-commit.
				panic(triestore.ErrStoreCorrupted)
			}

			newValue, applyErr := transform.Apply(t, existing)
			if applyErr != nil {
				result = CommitResult{Outcome: CommitTypeMismatch, FailedKey: k, Err: applyErr}
				return errCommitAborted
			}

			newRoot, writeResult := trie.Write(tx, current, k.Bytes(), newValue.Bytes())
			if writeResult == trie.WriteRootNotFound {
				panic(triestore.ErrStoreCorrupted)
			}
			current = newRoot
		}

		result = CommitResult{Outcome: CommitSuccess, NewRoot: current}
		return nil
	})
	if err != nil && !errors.Is(err, errCommitAborted) {
		panic(err)
	}
	return result
}

func sortedEffectKeys(effects map[key.Key]transform.Transform) []key.Key {
	keys := make([]key.Key, 0, len(effects))
	for k := range effects {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return string(keys[i].Bytes()) < string(keys[j].Bytes())
	})
	return keys
}
