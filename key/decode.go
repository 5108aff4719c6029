package key

import "fmt"

// Decode parses the canonical encoding produced by Key.Bytes. It is the
// inverse used when a key must be recovered from a named-key entry
// stored inside an Account or Contract value.
func Decode(b []byte) (Key, error) {
	if len(b) == 0 {
		return Key{}, fmt.Errorf("key: empty encoding")
	}
	tag := Tag(b[0])
	rest := b[1:]
	switch tag {
	case TagAccount:
		if len(rest) != 32 {
			return Key{}, fmt.Errorf("key: bad Account encoding length %d", len(rest))
		}
		var addr [32]byte
		copy(addr[:], rest)
		return NewAccountKey(addr), nil

	case TagHash:
		if len(rest) != 32 {
			return Key{}, fmt.Errorf("key: bad Hash encoding length %d", len(rest))
		}
		var h [32]byte
		copy(h[:], rest)
		return NewHashKey(h), nil

	case TagURef:
		if len(rest) != 33 {
			return Key{}, fmt.Errorf("key: bad URef encoding length %d", len(rest))
		}
		var addr [32]byte
		copy(addr[:], rest[:32])
		return NewURefKey(addr, AccessRights(rest[32])), nil

	case TagLocal:
		if len(rest) != 64 {
			return Key{}, fmt.Errorf("key: bad Local encoding length %d", len(rest))
		}
		var seed, h [32]byte
		copy(seed[:], rest[:32])
		copy(h[:], rest[32:])
		return NewLocalKey(seed, h), nil

	default:
		return Key{}, fmt.Errorf("key: unknown tag %d", byte(tag))
	}
}
