package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-ecosystem/exec-engine-core/bignum"
	"github.com/casper-ecosystem/exec-engine-core/key"
	"github.com/casper-ecosystem/exec-engine-core/value"
)

func TestApplyIdentityReturnsPrestate(t *testing.T) {
	v := value.Int32(42)
	got, err := Apply(NewIdentity(), v)
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestApplyWriteReplacesPrestate(t *testing.T) {
	got, err := Apply(NewWrite(value.String("hello")), value.Int32(1))
	require.NoError(t, err)
	require.Equal(t, value.String("hello"), got)
}

func TestApplyAddInt32WrapsOnOverflow(t *testing.T) {
	got, err := Apply(NewAddInt32(1), value.Int32(2147483647))
	require.NoError(t, err)
	require.Equal(t, value.Int32(-2147483648), got)
}

func TestApplyAddInt32OntoUInt128(t *testing.T) {
	got, err := Apply(NewAddInt32(5), value.UInt128{V: bignum.U128FromUint64(10)})
	require.NoError(t, err)
	require.True(t, got.(value.UInt128).V.Equal(bignum.U128FromUint64(15)))
}

func TestApplyAddInt32TypeMismatch(t *testing.T) {
	_, err := Apply(NewAddInt32(5), value.String("nope"))
	require.Error(t, err)
	var tm *TypeMismatch
	require.ErrorAs(t, err, &tm)
}

func TestApplyAddUInt128RequiresSameWidth(t *testing.T) {
	_, err := Apply(NewAddUInt128(bignum.U128FromUint64(1)), value.Int32(1))
	require.Error(t, err)
}

func TestApplyAddKeysOnAccountMergesWithoutAliasingInput(t *testing.T) {
	acc := value.NewAccount()
	acc.NamedKeys["existing"] = key.NewHashKey([32]byte{1})

	toAdd := map[string]key.Key{"fresh": key.NewHashKey([32]byte{2})}
	got, err := Apply(NewAddKeys(toAdd), acc)
	require.NoError(t, err)

	updated := got.(value.Account)
	require.Len(t, updated.NamedKeys, 2)
	require.NotContains(t, acc.NamedKeys, "fresh")
}

func TestApplyAddKeysRejectsNonHolder(t *testing.T) {
	_, err := Apply(NewAddKeys(map[string]key.Key{"x": key.NewHashKey([32]byte{})}), value.Int32(1))
	require.Error(t, err)
}

func TestApplyFailureIsSticky(t *testing.T) {
	sentinel := NewFailure(&TypeMismatch{Expected: "A", Found: "B"})
	_, err := Apply(sentinel, value.Int32(1))
	require.Error(t, err)
}

func TestCombineIdentityIsNeutral(t *testing.T) {
	write := NewWrite(value.Int32(9))
	require.Equal(t, write, Combine(NewIdentity(), write))
	require.Equal(t, write, Combine(write, NewIdentity()))
}

func TestCombineLaterWriteWins(t *testing.T) {
	a := NewWrite(value.Int32(1))
	b := NewWrite(value.Int32(2))
	require.Equal(t, b, Combine(a, b))
}

func TestCombineWriteThenAddFoldsIntoWrite(t *testing.T) {
	a := NewWrite(value.Int32(10))
	b := NewAddInt32(5)
	combined := Combine(a, b)
	v, err := Apply(combined, value.Int32(999)) // prestate is irrelevant once folded into a Write
	require.NoError(t, err)
	require.Equal(t, value.Int32(15), v)
}

// TestCombineAddInt32ThenAddUInt128IsATypeMismatch documents the
// asymmetric combine rule: AddInt32 combined with a following AddUInt128
// fails, even though the reverse order succeeds. This mirrors the
// upstream combine table and is not a bug.
func TestCombineAddInt32ThenAddUInt128IsATypeMismatch(t *testing.T) {
	combined := Combine(NewAddInt32(5), NewAddUInt128(bignum.U128FromUint64(1)))
	_, err := Apply(combined, value.UInt128{V: bignum.U128FromUint64(0)})
	require.Error(t, err)
}

func TestCombineAddUInt128ThenAddInt32Succeeds(t *testing.T) {
	combined := Combine(NewAddUInt128(bignum.U128FromUint64(10)), NewAddInt32(5))
	v, err := Apply(combined, value.UInt128{V: bignum.U128FromUint64(0)})
	require.NoError(t, err)
	require.True(t, v.(value.UInt128).V.Equal(bignum.U128FromUint64(15)))
}

func TestCombineAddInt32ThenAddUInt256Succeeds(t *testing.T) {
	combined := Combine(NewAddInt32(3), NewAddUInt256(bignum.U256FromUint64(7)))
	v, err := Apply(combined, value.UInt256{V: bignum.U256FromUint64(0)})
	require.NoError(t, err)
	require.True(t, v.(value.UInt256).V.Eq(bignum.U256FromUint64(10)))
}

func TestCombineAddKeysMergesBothSides(t *testing.T) {
	a := NewAddKeys(map[string]key.Key{"one": key.NewHashKey([32]byte{1})})
	b := NewAddKeys(map[string]key.Key{"two": key.NewHashKey([32]byte{2})})
	combined := Combine(a, b)

	acc := value.NewAccount()
	v, err := Apply(combined, acc)
	require.NoError(t, err)
	require.Len(t, v.(value.Account).NamedKeys, 2)
}

func TestCombineMismatchedKindsFails(t *testing.T) {
	combined := Combine(NewAddInt32(1), NewAddKeys(map[string]key.Key{}))
	_, err := Apply(combined, value.Int32(1))
	require.Error(t, err)
}

func TestCombineFailureIsStickyOnEitherSide(t *testing.T) {
	f := NewFailure(&TypeMismatch{Expected: "A", Found: "B"})
	require.Equal(t, f, Combine(f, NewAddInt32(1)))
	require.Equal(t, f, Combine(NewAddInt32(1), f))
}
