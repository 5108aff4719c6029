package trie

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-ecosystem/exec-engine-core/triestore"
)

func TestProveAndVerifyMembership(t *testing.T) {
	env := triestore.NewInMemoryEnvironment()
	root, err := CreateHashedEmptyTrie(env)
	require.NoError(t, err)

	key := []byte("a-key")
	val := []byte("a-value")
	err = env.Update(func(tx triestore.RwTxn) error {
		newRoot, _ := Write(tx, root, key, val)
		root = newRoot
		return nil
	})
	require.NoError(t, err)

	var proof *MerkleProof
	err = env.Read(func(r triestore.ReadTxn) error {
		p, proveErr := Prove(r, root, key)
		proof = p
		return proveErr
	})
	require.NoError(t, err)
	require.True(t, proof.Found)
	require.Equal(t, val, proof.Value)

	require.NoError(t, VerifyProof(proof, root, key))
}

func TestProveAndVerifyAbsence(t *testing.T) {
	env := triestore.NewInMemoryEnvironment()
	root, err := CreateHashedEmptyTrie(env)
	require.NoError(t, err)

	err = env.Update(func(tx triestore.RwTxn) error {
		newRoot, _ := Write(tx, root, []byte("present"), []byte("v"))
		root = newRoot
		return nil
	})
	require.NoError(t, err)

	var proof *MerkleProof
	err = env.Read(func(r triestore.ReadTxn) error {
		p, proveErr := Prove(r, root, []byte("absent"))
		proof = p
		return proveErr
	})
	require.NoError(t, err)
	require.False(t, proof.Found)
	require.NoError(t, VerifyProof(proof, root, []byte("absent")))
}

func TestVerifyProofRejectsWrongKey(t *testing.T) {
	env := triestore.NewInMemoryEnvironment()
	root, err := CreateHashedEmptyTrie(env)
	require.NoError(t, err)

	err = env.Update(func(tx triestore.RwTxn) error {
		newRoot, _ := Write(tx, root, []byte("k"), []byte("v"))
		root = newRoot
		return nil
	})
	require.NoError(t, err)

	var proof *MerkleProof
	err = env.Read(func(r triestore.ReadTxn) error {
		p, proveErr := Prove(r, root, []byte("k"))
		proof = p
		return proveErr
	})
	require.NoError(t, err)

	require.ErrorIs(t, VerifyProof(proof, root, []byte("other")), ErrProofKeyMismatch)
}

func TestVerifyProofRejectsWrongRoot(t *testing.T) {
	env := triestore.NewInMemoryEnvironment()
	root, err := CreateHashedEmptyTrie(env)
	require.NoError(t, err)

	err = env.Update(func(tx triestore.RwTxn) error {
		newRoot, _ := Write(tx, root, []byte("k"), []byte("v"))
		root = newRoot
		return nil
	})
	require.NoError(t, err)

	var proof *MerkleProof
	err = env.Read(func(r triestore.ReadTxn) error {
		p, proveErr := Prove(r, root, []byte("k"))
		proof = p
		return proveErr
	})
	require.NoError(t, err)

	var wrongRoot Hash
	wrongRoot[0] = 1
	require.ErrorIs(t, VerifyProof(proof, wrongRoot, []byte("k")), ErrProofRootMismatch)
}

func TestVerifyProofRejectsTamperedValue(t *testing.T) {
	env := triestore.NewInMemoryEnvironment()
	root, err := CreateHashedEmptyTrie(env)
	require.NoError(t, err)

	err = env.Update(func(tx triestore.RwTxn) error {
		newRoot, _ := Write(tx, root, []byte("k"), []byte("v"))
		root = newRoot
		return nil
	})
	require.NoError(t, err)

	var proof *MerkleProof
	err = env.Read(func(r triestore.ReadTxn) error {
		p, proveErr := Prove(r, root, []byte("k"))
		proof = p
		return proveErr
	})
	require.NoError(t, err)

	proof.Value = []byte("tampered")
	require.ErrorIs(t, VerifyProof(proof, root, []byte("k")), ErrProofValueMismatch)
}
