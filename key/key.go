// Package key implements the Key tagged value: a content-identifying,
// byte-serializable path into the versioned trie. It has no entanglement
// with the trie or transform packages, matching the teacher library's
// habit of keeping data-model types free of storage concerns.
package key

import (
	"fmt"

	"github.com/casper-ecosystem/exec-engine-core/common"
)

// Tag distinguishes Key variants in their canonical byte encoding. The
// tag is always the leading byte of Bytes(), which is what the trie uses
// to split distinct variants apart even when the rest of their payload
// happens to collide.
type Tag byte

const (
	TagAccount Tag = iota
	TagHash
	TagURef
	TagLocal
)

func (t Tag) String() string {
	switch t {
	case TagAccount:
		return "Account"
	case TagHash:
		return "Hash"
	case TagURef:
		return "URef"
	case TagLocal:
		return "Local"
	default:
		return fmt.Sprintf("Tag(%d)", byte(t))
	}
}

// AccessRights is carried by a URef key but is not interpreted by the
// core; the executor decides whether a given access level permits a
// transform.
type AccessRights byte

const (
	AccessNone AccessRights = iota
	AccessRead
	AccessWrite
	AccessAdd
	AccessReadWrite
	AccessReadAdd
	AccessAddWrite
	AccessReadAddWrite
)

// Key is a closed, tagged value identifying a storage cell. Distinct
// variants always produce distinct canonical byte paths because the tag
// byte leads every encoding.
type Key struct {
	tag          Tag
	account      [32]byte
	hash         [32]byte
	uref         [32]byte
	accessRights AccessRights
	localSeed    [32]byte
	localHash    [32]byte
}

func NewAccountKey(addr [32]byte) Key {
	return Key{tag: TagAccount, account: addr}
}

func NewHashKey(h [32]byte) Key {
	return Key{tag: TagHash, hash: h}
}

func NewURefKey(addr [32]byte, rights AccessRights) Key {
	return Key{tag: TagURef, uref: addr, accessRights: rights}
}

func NewLocalKey(seed, localKeyHash [32]byte) Key {
	return Key{tag: TagLocal, localSeed: seed, localHash: localKeyHash}
}

func (k Key) Tag() Tag { return k.tag }

// Bytes returns the canonical byte-path used for trie traversal: a
// leading tag byte followed by the variant's fixed-width payload.
func (k Key) Bytes() []byte {
	switch k.tag {
	case TagAccount:
		return common.Concat(byte(k.tag), k.account[:])
	case TagHash:
		return common.Concat(byte(k.tag), k.hash[:])
	case TagURef:
		return common.Concat(byte(k.tag), k.uref[:], byte(k.accessRights))
	case TagLocal:
		return common.Concat(byte(k.tag), k.localSeed[:], k.localHash[:])
	default:
		common.Assertf(false, "key: unknown tag %d", byte(k.tag))
		return nil
	}
}

// String renders a key for diagnostics and error messages.
func (k Key) String() string {
	switch k.tag {
	case TagAccount:
		return fmt.Sprintf("Account(%x)", k.account)
	case TagHash:
		return fmt.Sprintf("Hash(%x)", k.hash)
	case TagURef:
		return fmt.Sprintf("URef(%x, rights=%d)", k.uref, k.accessRights)
	case TagLocal:
		return fmt.Sprintf("Local(%x, %x)", k.localSeed, k.localHash)
	default:
		return "Key(invalid)"
	}
}

// Equal compares two keys by their canonical encoding.
func (k Key) Equal(o Key) bool {
	if k.tag != o.tag {
		return false
	}
	switch k.tag {
	case TagAccount:
		return k.account == o.account
	case TagHash:
		return k.hash == o.hash
	case TagURef:
		return k.uref == o.uref && k.accessRights == o.accessRights
	case TagLocal:
		return k.localSeed == o.localSeed && k.localHash == o.localHash
	default:
		return false
	}
}

// AccountAddr returns the underlying address for an Account key. Callers
// must check Tag() == TagAccount first; it panics otherwise.
func (k Key) AccountAddr() [32]byte {
	common.Assertf(k.tag == TagAccount, "key: AccountAddr called on a %s key", k.tag)
	return k.account
}
