package bignum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestU128WrappingAdd(t *testing.T) {
	max := U128Max()
	one := U128FromUint64(1)
	require.True(t, AddU128(max, one).IsZero())
}

func TestU128RoundTripBytes(t *testing.T) {
	v := U128FromUint64(123456789)
	b := v.Bytes16()
	require.True(t, U128FromBytes16(b).Equal(v))
}

func TestU256WrappingAdd(t *testing.T) {
	max := U256Max()
	one := U256FromUint64(1)
	got := AddU256(max, one)
	require.True(t, got.IsZero())
}

func TestU512WrappingAdd(t *testing.T) {
	max := U512Max()
	one := U512FromUint64(1)
	require.True(t, AddU512(max, one).IsZero())
}

func TestAddI32ToU128Negative(t *testing.T) {
	base := U128FromUint64(10)
	got := AddI32ToU128(base, -3)
	require.True(t, got.Equal(U128FromUint64(7)))
}

func TestAddI32ToU128WrapsOnUnderflow(t *testing.T) {
	base := U128FromUint64(0)
	got := AddI32ToU128(base, -1)
	require.True(t, got.Equal(U128Max()))
}

func TestAddI32ToU256MinInt32DoesNotOverflow(t *testing.T) {
	base := U256FromUint64(0)
	got := AddI32ToU256(base, -2147483648)
	expected := SubU256(U256FromUint64(0), U256FromUint64(2147483648))
	require.True(t, got.Eq(expected))
}
