package value

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-ecosystem/exec-engine-core/bignum"
	"github.com/casper-ecosystem/exec-engine-core/key"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()
	decoded, err := Decode(v.Bytes())
	require.NoError(t, err)
	return decoded
}

func TestInt32RoundTrip(t *testing.T) {
	v := Int32(-12345)
	require.Equal(t, v, roundTrip(t, v))
}

func TestUInt128RoundTrip(t *testing.T) {
	v := UInt128{V: bignum.U128FromUint64(99)}
	got := roundTrip(t, v).(UInt128)
	require.True(t, got.V.Equal(v.V))
}

func TestUInt256RoundTrip(t *testing.T) {
	v := UInt256{V: bignum.U256FromUint64(77)}
	got := roundTrip(t, v).(UInt256)
	require.True(t, got.V.Eq(v.V))
}

func TestStringRoundTrip(t *testing.T) {
	v := String("hello, world")
	require.Equal(t, v, roundTrip(t, v))
}

func TestByteArrayRoundTrip(t *testing.T) {
	v := ByteArray{1, 2, 3, 4}
	got := roundTrip(t, v).(ByteArray)
	require.Equal(t, []byte(v), []byte(got))
}

func TestAccountNamedKeysEncodingIsOrderIndependent(t *testing.T) {
	a := NewAccount()
	a.NamedKeys["zeta"] = key.NewHashKey([32]byte{1})
	a.NamedKeys["alpha"] = key.NewHashKey([32]byte{2})

	b := NewAccount()
	b.NamedKeys["alpha"] = key.NewHashKey([32]byte{2})
	b.NamedKeys["zeta"] = key.NewHashKey([32]byte{1})

	require.Equal(t, a.Bytes(), b.Bytes())
}

func TestAccountRoundTrip(t *testing.T) {
	a := NewAccount()
	a.NamedKeys["main_purse"] = key.NewURefKey([32]byte{3}, key.AccessReadWrite)

	got := roundTrip(t, a).(Account)
	require.Len(t, got.NamedKeys, 1)
	require.True(t, got.NamedKeys["main_purse"].Equal(a.NamedKeys["main_purse"]))
}

func TestContractRoundTrip(t *testing.T) {
	c := NewContract([]byte{0xde, 0xad, 0xbe, 0xef})
	c.NamedKeys["dep"] = key.NewHashKey([32]byte{9})

	got := roundTrip(t, c).(Contract)
	require.Equal(t, c.Bytes_, got.Bytes_)
	require.True(t, got.NamedKeys["dep"].Equal(c.NamedKeys["dep"]))
}

func TestCloneDoesNotAliasNamedKeys(t *testing.T) {
	a := NewAccount()
	a.NamedKeys["k"] = key.NewHashKey([32]byte{1})

	cloned := a.Clone().(Account)
	cloned.NamedKeys["k2"] = key.NewHashKey([32]byte{2})

	require.Len(t, a.NamedKeys, 1)
	require.Len(t, cloned.NamedKeys, 2)
}

func TestAsNamedKeyHolderOnlyMatchesAccountAndContract(t *testing.T) {
	_, ok := AsNamedKeyHolder(Int32(1))
	require.False(t, ok)

	_, ok = AsNamedKeyHolder(NewAccount())
	require.True(t, ok)

	_, ok = AsNamedKeyHolder(NewContract(nil))
	require.True(t, ok)
}

func TestDecodeRejectsUnknownTag(t *testing.T) {
	_, err := Decode([]byte{0xff})
	require.Error(t, err)
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	_, err := Decode(nil)
	require.Error(t, err)
}
