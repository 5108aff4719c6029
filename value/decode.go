package value

import (
	"bytes"
	"fmt"
	"io"

	"github.com/casper-ecosystem/exec-engine-core/bignum"
	"github.com/casper-ecosystem/exec-engine-core/common"
	"github.com/casper-ecosystem/exec-engine-core/key"
)

// Decode parses the canonical encoding produced by Value.Bytes. It is
// the inverse read path the commit pipeline uses to reconstruct the
// prestate value a Transform is about to be applied to.
func Decode(b []byte) (Value, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("value: empty encoding")
	}
	tag := b[0]
	r := bytes.NewReader(b[1:])

	switch tag {
	case tagInt32:
		var u uint32
		for i := 0; i < 4; i++ {
			bb, err := common.ReadByte(r)
			if err != nil {
				return nil, err
			}
			u |= uint32(bb) << (8 * i)
		}
		return Int32(int32(u)), nil

	case tagUInt128:
		raw, err := readFixed(r, 16)
		if err != nil {
			return nil, err
		}
		var arr [16]byte
		copy(arr[:], raw)
		return UInt128{V: bignum.U128FromBytes16(arr)}, nil

	case tagUInt256:
		raw, err := readFixed(r, 32)
		if err != nil {
			return nil, err
		}
		v := bignum.ZeroU256()
		v.SetBytes32(raw)
		return UInt256{V: v}, nil

	case tagUInt512:
		raw, err := readFixed(r, 64)
		if err != nil {
			return nil, err
		}
		var arr [64]byte
		copy(arr[:], raw)
		return UInt512{V: bignum.U512FromBytes64(arr)}, nil

	case tagString:
		s, err := common.ReadBytes32(r)
		if err != nil {
			return nil, err
		}
		return String(s), nil

	case tagByteArray:
		s, err := common.ReadBytes32(r)
		if err != nil {
			return nil, err
		}
		return ByteArray(s), nil

	case tagAccount:
		nk, err := decodeNamedKeys(r)
		if err != nil {
			return nil, err
		}
		return Account{NamedKeys: nk}, nil

	case tagContract:
		code, err := common.ReadBytes32(r)
		if err != nil {
			return nil, err
		}
		nk, err := decodeNamedKeys(r)
		if err != nil {
			return nil, err
		}
		return Contract{Bytes_: code, NamedKeys: nk}, nil

	default:
		return nil, fmt.Errorf("value: unknown tag %d", tag)
	}
}

func readFixed(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func decodeNamedKeys(r io.Reader) (NamedKeys, error) {
	var count uint32
	if err := common.ReadUint32(r, &count); err != nil {
		return nil, err
	}
	nk := make(NamedKeys, count)
	for i := uint32(0); i < count; i++ {
		name, err := common.ReadBytes16(r)
		if err != nil {
			return nil, err
		}
		kb, err := common.ReadBytes16(r)
		if err != nil {
			return nil, err
		}
		k, err := key.Decode(kb)
		if err != nil {
			return nil, err
		}
		nk[string(name)] = k
	}
	return nk, nil
}
