// Package transform implements the commutative-in-name-only algebra folded
// over a prestate value during a commit: Identity, Write, the numeric
// Add* family, AddKeys and Failure. Apply resolves a single transform
// against a concrete Value; Combine folds two transforms requested for
// the same key into one, so a commit only ever applies one transform per
// key to the trie.
package transform

import (
	"fmt"

	"github.com/casper-ecosystem/exec-engine-core/bignum"
	"github.com/casper-ecosystem/exec-engine-core/key"
	"github.com/casper-ecosystem/exec-engine-core/value"
)

// TypeMismatch reports the expected and actual shapes involved in a
// failed Apply or Combine.
type TypeMismatch struct {
	Expected string
	Found    string
}

func (t *TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, found %s", t.Expected, t.Found)
}

func mismatch(expected, found string) error {
	return &TypeMismatch{Expected: expected, Found: found}
}

// kind tags the closed Transform union; Transform is a struct rather
// than an interface so zero-value Transforms (used as map values before
// being set) are never accidentally satisfied by an unrelated type.
type kind byte

const (
	kIdentity kind = iota
	kWrite
	kAddInt32
	kAddUInt128
	kAddUInt256
	kAddUInt512
	kAddKeys
	kFailure
)

// Transform is a closed tagged value; construct one with the
// Identity/Write/AddInt32/... functions below rather than composite
// literals.
type Transform struct {
	kind kind

	write   value.Value
	i32     int32
	u128    bignum.U128
	u256    *bignum.U256
	u512    bignum.U512
	keys    map[string]key.Key
	failure error
}

func NewIdentity() Transform { return Transform{kind: kIdentity} }

func NewWrite(v value.Value) Transform { return Transform{kind: kWrite, write: v} }

func NewAddInt32(i int32) Transform { return Transform{kind: kAddInt32, i32: i} }

func NewAddUInt128(i bignum.U128) Transform { return Transform{kind: kAddUInt128, u128: i} }

func NewAddUInt256(i *bignum.U256) Transform { return Transform{kind: kAddUInt256, u256: i} }

func NewAddUInt512(i bignum.U512) Transform { return Transform{kind: kAddUInt512, u512: i} }

func NewAddKeys(keys map[string]key.Key) Transform {
	cp := make(map[string]key.Key, len(keys))
	for k, v := range keys {
		cp[k] = v
	}
	return Transform{kind: kAddKeys, keys: cp}
}

func NewFailure(err error) Transform { return Transform{kind: kFailure, failure: err} }

// IsWrite reports whether t is a Write transform: the one case that
// never needs a prestate value to resolve, since it replaces whatever
// was there (or wasn't).
func IsWrite(t Transform) bool { return t.kind == kWrite }

// IsIdentity reports whether t is the Identity transform.
func IsIdentity(t Transform) bool { return t.kind == kIdentity }

func (t Transform) String() string {
	switch t.kind {
	case kIdentity:
		return "Identity"
	case kWrite:
		return fmt.Sprintf("Write(%s)", t.write.TypeString())
	case kAddInt32:
		return fmt.Sprintf("AddInt32(%d)", t.i32)
	case kAddUInt128:
		return fmt.Sprintf("AddUInt128(%s)", t.u128.String())
	case kAddUInt256:
		return fmt.Sprintf("AddUInt256(%s)", t.u256.String())
	case kAddUInt512:
		return fmt.Sprintf("AddUInt512(%s)", t.u512.String())
	case kAddKeys:
		return fmt.Sprintf("AddKeys(%d keys)", len(t.keys))
	case kFailure:
		return fmt.Sprintf("Failure(%v)", t.failure)
	default:
		return "Transform(invalid)"
	}
}

// Apply resolves the transform against a prestate value, producing the
// poststate value or a TypeMismatch/sticky Failure error.
func Apply(t Transform, v value.Value) (value.Value, error) {
	switch t.kind {
	case kIdentity:
		return v, nil

	case kWrite:
		return t.write, nil

	case kAddInt32:
		switch existing := v.(type) {
		case value.Int32:
			return value.Int32(int32(existing) + t.i32), nil
		case value.UInt128:
			return value.UInt128{V: bignum.AddI32ToU128(existing.V, t.i32)}, nil
		case value.UInt256:
			return value.UInt256{V: bignum.AddI32ToU256(existing.V, t.i32)}, nil
		case value.UInt512:
			return value.UInt512{V: bignum.AddI32ToU512(existing.V, t.i32)}, nil
		default:
			return nil, mismatch("Int32", v.TypeString())
		}

	case kAddUInt128:
		existing, ok := v.(value.UInt128)
		if !ok {
			return nil, mismatch("UInt128", v.TypeString())
		}
		return value.UInt128{V: bignum.AddU128(existing.V, t.u128)}, nil

	case kAddUInt256:
		existing, ok := v.(value.UInt256)
		if !ok {
			return nil, mismatch("UInt256", v.TypeString())
		}
		return value.UInt256{V: bignum.AddU256(existing.V, t.u256)}, nil

	case kAddUInt512:
		existing, ok := v.(value.UInt512)
		if !ok {
			return nil, mismatch("UInt512", v.TypeString())
		}
		return value.UInt512{V: bignum.AddU512(existing.V, t.u512)}, nil

	case kAddKeys:
		if _, ok := value.AsNamedKeyHolder(v); !ok {
			return nil, mismatch("Contract or Account", v.TypeString())
		}
		updated := v.Clone()
		updatedKeys, _ := value.AsNamedKeyHolder(updated)
		updatedKeys.InsertKeys(t.keys)
		return updated, nil

	case kFailure:
		return nil, t.failure

	default:
		return nil, fmt.Errorf("transform: invalid kind %d", t.kind)
	}
}

// i32WrappingAddInt32 returns i+j with two's-complement wraparound at
// 32 bits (Go's int32 addition already wraps).
func i32WrappingAddInt32(i, j int32) int32 { return i + j }

// Combine folds two transforms requested for the same key, within the
// same commit, into one. Combine(a, b) must be read as "a applied, then
// b applied" collapsed into a single equivalent transform — it is NOT
// commutative, and in particular AddInt32 combined with AddUInt128 only
// succeeds in one direction (AddUInt128 first, AddInt32 second); the
// reverse is a TypeMismatch. This mirrors the upstream combine table
// exactly and is not a bug to fix.
func Combine(a, b Transform) Transform {
	if b.kind == kIdentity {
		return a
	}
	if a.kind == kIdentity {
		return b
	}
	if a.kind == kFailure {
		return a
	}
	if b.kind == kFailure {
		return b
	}
	if b.kind == kWrite {
		return b
	}
	if a.kind == kWrite {
		newValue, err := Apply(b, a.write)
		if err != nil {
			return NewFailure(err)
		}
		return NewWrite(newValue)
	}

	switch a.kind {
	case kAddInt32:
		switch b.kind {
		case kAddInt32:
			return NewAddInt32(i32WrappingAddInt32(a.i32, b.i32))
		case kAddUInt256:
			return NewAddUInt256(bignum.AddI32ToU256(b.u256, a.i32))
		case kAddUInt512:
			return NewAddUInt512(bignum.AddI32ToU512(b.u512, a.i32))
		default:
			return NewFailure(mismatch("AddInt32", b.String()))
		}

	case kAddUInt128:
		if b.kind == kAddInt32 {
			return NewAddUInt128(bignum.AddI32ToU128(a.u128, b.i32))
		}
		if b.kind != kAddUInt128 {
			return NewFailure(mismatch("U128", b.String()))
		}
		return NewAddUInt128(bignum.AddU128(a.u128, b.u128))

	case kAddUInt256:
		if b.kind == kAddInt32 {
			return NewAddUInt256(bignum.AddI32ToU256(a.u256, b.i32))
		}
		if b.kind != kAddUInt256 {
			return NewFailure(mismatch("U256", b.String()))
		}
		return NewAddUInt256(bignum.AddU256(a.u256, b.u256))

	case kAddUInt512:
		if b.kind == kAddInt32 {
			return NewAddUInt512(bignum.AddI32ToU512(a.u512, b.i32))
		}
		if b.kind != kAddUInt512 {
			return NewFailure(mismatch("U512", b.String()))
		}
		return NewAddUInt512(bignum.AddU512(a.u512, b.u512))

	case kAddKeys:
		if b.kind != kAddKeys {
			return NewFailure(mismatch("AddKeys", b.String()))
		}
		merged := make(map[string]key.Key, len(a.keys)+len(b.keys))
		for k, v := range a.keys {
			merged[k] = v
		}
		for k, v := range b.keys {
			merged[k] = v
		}
		return NewAddKeys(merged)

	default:
		return NewFailure(fmt.Errorf("transform: cannot combine %s with %s", a, b))
	}
}
