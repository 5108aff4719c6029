// Package value implements the Value tagged union stored at trie leaves.
// Every variant has a stable TypeString used verbatim in TypeMismatch
// diagnostics, and a canonical Bytes encoding used both for node hashing
// and for on-disk leaf storage.
package value

import (
	"bytes"
	"sort"

	"github.com/casper-ecosystem/exec-engine-core/bignum"
	"github.com/casper-ecosystem/exec-engine-core/common"
	"github.com/casper-ecosystem/exec-engine-core/key"
)

// Value is a closed, tagged value. Implementations are value types (or
// hold only immutable/cloned state) so that a Value read from the trie
// can be handed to a Transform without aliasing trie-internal memory.
type Value interface {
	// TypeString is the stable textual tag used in TypeMismatch errors.
	TypeString() string
	// Bytes is the canonical serialization, used for hashing and storage.
	Bytes() []byte
	// Clone returns a deep copy, so mutating transforms (AddKeys) never
	// alias the value a reader already holds.
	Clone() Value
}

// type tags lead every Bytes() encoding, mirroring key.Tag.
const (
	tagInt32 byte = iota
	tagUInt128
	tagUInt256
	tagUInt512
	tagString
	tagByteArray
	tagAccount
	tagContract
)

// ---------------------------------------------------------------------------
// Int32

type Int32 int32

func (v Int32) TypeString() string { return "Int32" }
func (v Int32) Bytes() []byte {
	var b [4]byte
	u := uint32(v)
	for i := 0; i < 4; i++ {
		b[i] = byte(u >> (8 * i))
	}
	return common.Concat(tagInt32, b[:])
}
func (v Int32) Clone() Value { return v }

// ---------------------------------------------------------------------------
// UInt128 / UInt256 / UInt512

type UInt128 struct{ V bignum.U128 }

func (v UInt128) TypeString() string { return "UInt128" }
func (v UInt128) Bytes() []byte {
	b := v.V.Bytes16()
	return common.Concat(tagUInt128, b[:])
}
func (v UInt128) Clone() Value { return v }

type UInt256 struct{ V *bignum.U256 }

func (v UInt256) TypeString() string { return "UInt256" }
func (v UInt256) Bytes() []byte {
	b := v.V.Bytes32()
	return common.Concat(tagUInt256, b[:])
}
func (v UInt256) Clone() Value {
	cp := *v.V
	return UInt256{V: &cp}
}

type UInt512 struct{ V bignum.U512 }

func (v UInt512) TypeString() string { return "UInt512" }
func (v UInt512) Bytes() []byte {
	b := v.V.Bytes64()
	return common.Concat(tagUInt512, b[:])
}
func (v UInt512) Clone() Value { return v }

// ---------------------------------------------------------------------------
// String / ByteArray

type String string

func (v String) TypeString() string { return "String" }
func (v String) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagString)
	common.AssertNoError(common.WriteBytes32(&buf, []byte(v)))
	return buf.Bytes()
}
func (v String) Clone() Value { return v }

// ByteArray is a supplemental variant (see SPEC_FULL.md §3.2) for raw
// deploy-attached blobs such as contract bytecode. It only ever
// participates in Write/Identity.
type ByteArray []byte

func (v ByteArray) TypeString() string { return "ByteArray" }
func (v ByteArray) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagByteArray)
	common.AssertNoError(common.WriteBytes32(&buf, v))
	return buf.Bytes()
}
func (v ByteArray) Clone() Value {
	cp := make(ByteArray, len(v))
	copy(cp, v)
	return cp
}

// ---------------------------------------------------------------------------
// Named-key sets shared by Account and Contract

// NamedKeys is the string-to-Key mapping mutated by AddKeys.
type NamedKeys map[string]key.Key

// InsertKeys merges m into the receiver, last-writer-wins for names that
// appear in both (when two AddKeys transforms are folded together,
// transform.Combine already resolves duplicate names before reaching here).
func (nk NamedKeys) InsertKeys(m map[string]key.Key) {
	for k, v := range m {
		nk[k] = v
	}
}

func (nk NamedKeys) clone() NamedKeys {
	cp := make(NamedKeys, len(nk))
	for k, v := range nk {
		cp[k] = v
	}
	return cp
}

// bytes serializes the named-key set in sorted-name order so the result
// is independent of Go's randomized map iteration (invariant I1).
func (nk NamedKeys) bytes() []byte {
	names := make([]string, 0, len(nk))
	for n := range nk {
		names = append(names, n)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	common.AssertNoError(common.WriteUint32(&buf, uint32(len(names))))
	for _, n := range names {
		common.AssertNoError(common.WriteBytes16(&buf, []byte(n)))
		common.AssertNoError(common.WriteBytes16(&buf, nk[n].Bytes()))
	}
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// Account / Contract

type Account struct {
	NamedKeys NamedKeys
}

func NewAccount() Account {
	return Account{NamedKeys: make(NamedKeys)}
}

func (v Account) TypeString() string { return "Account" }
func (v Account) Bytes() []byte {
	var buf []byte
	buf = append(buf, tagAccount)
	buf = append(buf, v.NamedKeys.bytes()...)
	return buf
}
func (v Account) Clone() Value {
	return Account{NamedKeys: v.NamedKeys.clone()}
}

// Contract carries its bytecode (the supplemental ByteArray-shaped field
// from SPEC_FULL.md §3.2) plus the named-key set the transform algebra
// actually mutates.
type Contract struct {
	Bytes_    []byte
	NamedKeys NamedKeys
}

func NewContract(code []byte) Contract {
	cp := make([]byte, len(code))
	copy(cp, code)
	return Contract{Bytes_: cp, NamedKeys: make(NamedKeys)}
}

func (v Contract) TypeString() string { return "Contract" }
func (v Contract) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagContract)
	common.AssertNoError(common.WriteBytes32(&buf, v.Bytes_))
	buf.Write(v.NamedKeys.bytes())
	return buf.Bytes()
}
func (v Contract) Clone() Value {
	code := make([]byte, len(v.Bytes_))
	copy(code, v.Bytes_)
	return Contract{Bytes_: code, NamedKeys: v.NamedKeys.clone()}
}

// AsNamedKeyHolder exposes the mutable named-key set of Account/Contract
// values to the transform package without a type switch at every call
// site. Any other Value returns (nil, false).
func AsNamedKeyHolder(v Value) (NamedKeys, bool) {
	switch t := v.(type) {
	case Account:
		return t.NamedKeys, true
	case Contract:
		return t.NamedKeys, true
	default:
		return nil, false
	}
}
