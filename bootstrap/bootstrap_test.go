package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-ecosystem/exec-engine-core/key"
)

func TestMockedAccountSeedsASingleAccountKey(t *testing.T) {
	addr := [32]byte{1, 2, 3}
	pairs := MockedAccount(addr)

	require.Len(t, pairs, 1)
	v, ok := pairs[key.NewAccountKey(addr)]
	require.True(t, ok)
	require.Equal(t, "Account", v.TypeString())
}
