// Package bignum provides the fixed-width wrapping unsigned integers used
// by the value and transform algebra: U128, U256 and U512. Wrapping
// addition never errors; overflow silently rolls over modulo 2^N, matching
// the semantics required by the transform combine/apply tables.
package bignum

import (
	"math/big"

	"github.com/holiman/uint256"
)

// U256 is a 256-bit unsigned integer with wrapping arithmetic. holiman's
// uint256.Int already wraps on Add (it is a fixed 4x64-word type with no
// carry-out), so it is used directly rather than reimplemented.
type U256 = uint256.Int

// ZeroU256 returns the zero value of U256.
func ZeroU256() *U256 {
	return new(uint256.Int)
}

// U256FromUint64 builds a U256 from a small unsigned value.
func U256FromUint64(v uint64) *U256 {
	return uint256.NewInt(v)
}

// U256Max returns the all-ones 256-bit value.
func U256Max() *U256 {
	ret := new(uint256.Int)
	return ret.Not(ret)
}

// AddU256 returns a+b mod 2^256. uint256.Int.Add already discards the
// carry past the 4th word, so this is a thin, named wrapper kept symmetric
// with AddU128/AddU512 for uniform call sites in transform.go.
func AddU256(a, b *U256) *U256 {
	ret := new(uint256.Int)
	return ret.Add(a, b)
}

// SubU256 returns a-b mod 2^256.
func SubU256(a, b *U256) *U256 {
	ret := new(uint256.Int)
	return ret.Sub(a, b)
}

// U128 is a 128-bit unsigned integer, represented as two 64-bit words.
// No ecosystem 128-bit integer type was available in the retrieval pack,
// so this is hand-rolled on top of plain wrapping uint64 arithmetic
// (documented in DESIGN.md as the one stdlib-justified numeric type).
type U128 struct {
	Hi, Lo uint64
}

func U128FromUint64(v uint64) U128 {
	return U128{Lo: v}
}

func U128Max() U128 {
	return U128{Hi: ^uint64(0), Lo: ^uint64(0)}
}

// AddU128 returns a+b mod 2^128.
func AddU128(a, b U128) U128 {
	lo, carry := bits64Add(a.Lo, b.Lo)
	hi := a.Hi + b.Hi + carry
	return U128{Hi: hi, Lo: lo}
}

// SubU128 returns a-b mod 2^128.
func SubU128(a, b U128) U128 {
	lo, borrow := bits64Sub(a.Lo, b.Lo)
	hi := a.Hi - b.Hi - borrow
	return U128{Hi: hi, Lo: lo}
}

func (u U128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

func (u U128) Equal(o U128) bool {
	return u.Hi == o.Hi && u.Lo == o.Lo
}

// Bytes16 returns the canonical big-endian 16-byte representation.
func (u U128) Bytes16() [16]byte {
	var ret [16]byte
	for i := 0; i < 8; i++ {
		ret[7-i] = byte(u.Lo >> (8 * i))
		ret[15-i] = byte(u.Hi >> (8 * i))
	}
	return ret
}

func U128FromBytes16(b [16]byte) U128 {
	var hi, lo uint64
	for i := 0; i < 8; i++ {
		lo |= uint64(b[7-i]) << (8 * i)
		hi |= uint64(b[15-i]) << (8 * i)
	}
	return U128{Hi: hi, Lo: lo}
}

func (u U128) String() string {
	v := new(big.Int).Lsh(new(big.Int).SetUint64(u.Hi), 64)
	v.Add(v, new(big.Int).SetUint64(u.Lo))
	return v.String()
}

// U512 is a 512-bit unsigned integer composed of two U256 halves, reusing
// holiman/uint256 twice rather than hand-rolling an eight-word type.
type U512 struct {
	Hi, Lo U256
}

func U512FromUint64(v uint64) U512 {
	return U512{Lo: *uint256.NewInt(v)}
}

func U512Max() U512 {
	hi, lo := U256Max(), U256Max()
	return U512{Hi: *hi, Lo: *lo}
}

// AddU512 returns a+b mod 2^512, propagating the carry out of the low
// U256 half into the high half and discarding any carry out of the high
// half (the definition of wrapping addition at 512 bits).
func AddU512(a, b U512) U512 {
	lo := new(uint256.Int).Add(&a.Lo, &b.Lo)
	carry := uint256.NewInt(0)
	if lo.Lt(&a.Lo) {
		carry = uint256.NewInt(1)
	}
	hi := new(uint256.Int).Add(&a.Hi, &b.Hi)
	hi.Add(hi, carry)
	return U512{Hi: *hi, Lo: *lo}
}

// SubU512 returns a-b mod 2^512.
func SubU512(a, b U512) U512 {
	borrow := uint256.NewInt(0)
	if a.Lo.Lt(&b.Lo) {
		borrow = uint256.NewInt(1)
	}
	lo := new(uint256.Int).Sub(&a.Lo, &b.Lo)
	hi := new(uint256.Int).Sub(&a.Hi, &b.Hi)
	hi.Sub(hi, borrow)
	return U512{Hi: *hi, Lo: *lo}
}

func (u U512) IsZero() bool {
	return u.Hi.IsZero() && u.Lo.IsZero()
}

func (u U512) Equal(o U512) bool {
	return u.Hi.Eq(&o.Hi) && u.Lo.Eq(&o.Lo)
}

// Bytes64 returns the canonical big-endian 64-byte representation.
func (u U512) Bytes64() [64]byte {
	var ret [64]byte
	hiB := u.Hi.Bytes32()
	loB := u.Lo.Bytes32()
	copy(ret[0:32], hiB[:])
	copy(ret[32:64], loB[:])
	return ret
}

func U512FromBytes64(b [64]byte) U512 {
	var hi, lo [32]byte
	copy(hi[:], b[0:32])
	copy(lo[:], b[32:64])
	return U512{Hi: *new(uint256.Int).SetBytes32(hi[:]), Lo: *new(uint256.Int).SetBytes32(lo[:])}
}

func (u U512) String() string {
	hi := new(big.Int).SetBytes(u.Hi.Bytes())
	lo := new(big.Int).SetBytes(u.Lo.Bytes())
	v := new(big.Int).Lsh(hi, 256)
	v.Add(v, lo)
	return v.String()
}

func bits64Add(a, b uint64) (sum, carry uint64) {
	sum = a + b
	if sum < a {
		carry = 1
	}
	return
}

func bits64Sub(a, b uint64) (diff, borrow uint64) {
	diff = a - b
	if a < b {
		borrow = 1
	}
	return
}

// addI32U128, addI32U256 and addI32U512 add a signed i32 delta j to an
// unsigned value, mirroring the source's rule that a negative i32 is
// wrapping-subtracted as its absolute value. AddI32ToU128, AddI32ToU256
// and AddI32ToU512 are their exported entry points.
func addI32U128(i U128, j int32) U128 {
	if j >= 0 {
		return AddU128(i, U128FromUint64(uint64(j)))
	}
	return SubU128(i, U128FromUint64(uint64(-int64(j))))
}

func AddI32ToU128(i U128, j int32) U128 {
	return addI32U128(i, j)
}

func addI32U256(i *U256, j int32) *U256 {
	if j >= 0 {
		return AddU256(i, U256FromUint64(uint64(j)))
	}
	return SubU256(i, U256FromUint64(uint64(-int64(j))))
}

func AddI32ToU256(i *U256, j int32) *U256 {
	return addI32U256(i, j)
}

func addI32U512(i U512, j int32) U512 {
	if j >= 0 {
		return AddU512(i, U512FromUint64(uint64(j)))
	}
	return SubU512(i, U512FromUint64(uint64(-int64(j))))
}

func AddI32ToU512(i U512, j int32) U512 {
	return addI32U512(i, j)
}
