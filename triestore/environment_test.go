package triestore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errTestAbort = errors.New("triestore: test abort")

func TestUpdateSeesItsOwnWritesBeforeCommit(t *testing.T) {
	env := NewInMemoryEnvironment()

	err := env.Update(func(tx RwTxn) error {
		tx.NodesWriter().Set([]byte("a"), []byte("1"))
		require.Equal(t, []byte("1"), tx.Nodes().Get([]byte("a")), "an Update must read back a key it just wrote, before the batch commits")
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateWritesAreVisibleAfterCommit(t *testing.T) {
	env := NewInMemoryEnvironment()

	err := env.Update(func(tx RwTxn) error {
		tx.NodesWriter().Set([]byte("a"), []byte("1"))
		return nil
	})
	require.NoError(t, err)

	err = env.Read(func(r ReadTxn) error {
		require.Equal(t, []byte("1"), r.Nodes().Get([]byte("a")))
		return nil
	})
	require.NoError(t, err)
}

func TestFailedUpdateNeverPersists(t *testing.T) {
	env := NewInMemoryEnvironment()

	err := env.Update(func(tx RwTxn) error {
		tx.NodesWriter().Set([]byte("a"), []byte("1"))
		return errTestAbort
	})
	require.ErrorIs(t, err, errTestAbort)

	err = env.Read(func(r ReadTxn) error {
		require.Nil(t, r.Nodes().Get([]byte("a")))
		return nil
	})
	require.NoError(t, err)
}

func TestPartitionsDoNotCollide(t *testing.T) {
	env := NewInMemoryEnvironment()

	err := env.Update(func(tx RwTxn) error {
		tx.NodesWriter().Set([]byte("k"), []byte("node-value"))
		tx.ValuesWriter().Set([]byte("k"), []byte("leaf-value"))
		return nil
	})
	require.NoError(t, err)

	err = env.Read(func(r ReadTxn) error {
		require.Equal(t, []byte("node-value"), r.Nodes().Get([]byte("k")))
		require.Equal(t, []byte("leaf-value"), r.Values().Get([]byte("k")))
		return nil
	})
	require.NoError(t, err)
}
