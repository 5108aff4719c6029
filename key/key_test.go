package key

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesLeadWithDistinctTags(t *testing.T) {
	addr := [32]byte{1, 2, 3}
	a := NewAccountKey(addr)
	h := NewHashKey(addr)
	require.NotEqual(t, a.Bytes(), h.Bytes())
	require.Equal(t, byte(TagAccount), a.Bytes()[0])
	require.Equal(t, byte(TagHash), h.Bytes()[0])
}

func TestEqualComparesByVariantAndPayload(t *testing.T) {
	addr := [32]byte{9}
	require.True(t, NewAccountKey(addr).Equal(NewAccountKey(addr)))
	require.False(t, NewAccountKey(addr).Equal(NewHashKey(addr)))
}

func TestURefKeyCarriesAccessRights(t *testing.T) {
	addr := [32]byte{7}
	k := NewURefKey(addr, AccessReadWrite)
	decoded, err := Decode(k.Bytes())
	require.NoError(t, err)
	require.True(t, k.Equal(decoded))
}

func TestDecodeRoundTripsAllVariants(t *testing.T) {
	cases := []Key{
		NewAccountKey([32]byte{1}),
		NewHashKey([32]byte{2}),
		NewURefKey([32]byte{3}, AccessAddWrite),
		NewLocalKey([32]byte{4}, [32]byte{5}),
	}
	for _, k := range cases {
		decoded, err := Decode(k.Bytes())
		require.NoError(t, err)
		require.True(t, k.Equal(decoded), "round trip mismatch for %s", k)
	}
}

func TestDecodeRejectsTruncatedPayload(t *testing.T) {
	k := NewHashKey([32]byte{1})
	truncated := k.Bytes()[:10]
	_, err := Decode(truncated)
	require.Error(t, err)
}

func TestDecodeRejectsUnknownTag(t *testing.T) {
	_, err := Decode([]byte{0xff, 1, 2, 3})
	require.Error(t, err)
}

func TestKeyIsUsableAsMapKey(t *testing.T) {
	m := map[Key]int{
		NewAccountKey([32]byte{1}): 1,
		NewHashKey([32]byte{1}):    2,
	}
	require.Len(t, m, 2)
}
