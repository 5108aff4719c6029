package trie

import (
	"bytes"
	"encoding/binary"

	"github.com/casper-ecosystem/exec-engine-core/common"
)

// Hash identifies a trie node or a stored value by the Blake2b-256 digest
// of its canonical bytes. The zero Hash never occurs as a real digest in
// practice and is reserved as the "no child"/"no node" sentinel.
type Hash [32]byte

var zeroHash Hash

func (h Hash) IsZero() bool { return h == zeroHash }

func (h Hash) Bytes() []byte { return h[:] }

func hashFromBytes(b []byte) (h Hash) {
	common.Assertf(len(b) == 32, "trie: expected 32-byte hash, got %d bytes", len(b))
	copy(h[:], b)
	return
}

// node is one level of the 16-ary nibble trie: it optionally terminates a
// key (HasValue/ValueHash) and optionally continues into up to 16
// children, one per nibble value. A node with neither is the canonical
// empty subtree.
type node struct {
	hasValue  bool
	valueHash Hash
	children  [16]Hash
}

// bytes is the canonical, deterministic encoding hashed to address this
// node and written to the node-store partition. Field order and the
// fixed-size child bitmap make two nodes with identical content produce
// byte-identical encodings regardless of how they were built.
func (n *node) bytes() []byte {
	var buf bytes.Buffer
	if n.hasValue {
		buf.WriteByte(1)
		buf.Write(n.valueHash[:])
	} else {
		buf.WriteByte(0)
	}

	var bitmap uint16
	for i := 0; i < 16; i++ {
		if !n.children[i].IsZero() {
			bitmap |= 1 << uint(i)
		}
	}
	var bitmapBytes [2]byte
	binary.LittleEndian.PutUint16(bitmapBytes[:], bitmap)
	buf.Write(bitmapBytes[:])

	for i := 0; i < 16; i++ {
		if !n.children[i].IsZero() {
			buf.Write(n.children[i][:])
		}
	}
	return buf.Bytes()
}

func (n *node) hash() Hash {
	return Hash(common.Blake2b256(n.bytes()))
}

// decodeNode parses the canonical encoding produced by node.bytes. It
// panics on malformed input since the only producer of node bytes is
// this package itself; corruption here means the store was tampered
// with or written by something other than this module.
func decodeNode(b []byte) *node {
	common.Assertf(len(b) >= 3, "trie: node encoding too short (%d bytes)", len(b))
	n := &node{}
	pos := 0
	hasValue := b[pos]
	pos++
	common.Assertf(hasValue == 0 || hasValue == 1, "trie: invalid hasValue byte %d", hasValue)
	if hasValue == 1 {
		common.Assertf(len(b) >= pos+32, "trie: node encoding truncated at value hash")
		n.hasValue = true
		copy(n.valueHash[:], b[pos:pos+32])
		pos += 32
	}

	common.Assertf(len(b) >= pos+2, "trie: node encoding truncated at bitmap")
	bitmap := binary.LittleEndian.Uint16(b[pos : pos+2])
	pos += 2

	for i := 0; i < 16; i++ {
		if bitmap&(1<<uint(i)) != 0 {
			common.Assertf(len(b) >= pos+32, "trie: node encoding truncated at child %d", i)
			copy(n.children[i][:], b[pos:pos+32])
			pos += 32
		}
	}
	common.Assertf(pos == len(b), "trie: trailing bytes in node encoding")
	return n
}

// keyToNibbles splits a byte path into its big-endian nibble sequence,
// high nibble first, so traversal order matches byte order.
func keyToNibbles(key []byte) []byte {
	nibbles := make([]byte, len(key)*2)
	for i, b := range key {
		nibbles[2*i] = b >> 4
		nibbles[2*i+1] = b & 0x0f
	}
	return nibbles
}
