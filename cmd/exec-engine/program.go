package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/casper-ecosystem/exec-engine-core/bignum"
	"github.com/casper-ecosystem/exec-engine-core/key"
	"github.com/casper-ecosystem/exec-engine-core/transform"
	"github.com/casper-ecosystem/exec-engine-core/value"
)

// programFile is the on-disk shape of a "deploy": since executing real
// Wasm is out of scope here, a program is a pre-built effects map a
// caller hands the engine directly, in the same role the driver's wasm
// bytes played.
type programFile struct {
	Effects []effectJSON `json:"effects"`
}

type effectJSON struct {
	Key       keyJSON       `json:"key"`
	Transform transformJSON `json:"transform"`
}

type keyJSON struct {
	Tag          string `json:"tag"`
	Account      string `json:"account,omitempty"`
	Hash         string `json:"hash,omitempty"`
	URef         string `json:"uref,omitempty"`
	AccessRights string `json:"access_rights,omitempty"`
	LocalSeed    string `json:"local_seed,omitempty"`
	LocalHash    string `json:"local_hash,omitempty"`
}

type transformJSON struct {
	Kind    string             `json:"kind"`
	Value   *valueJSON         `json:"value,omitempty"`
	Int32   *int32             `json:"int32,omitempty"`
	UInt128 string             `json:"uint128,omitempty"`
	UInt256 string             `json:"uint256,omitempty"`
	UInt512 string             `json:"uint512,omitempty"`
	Keys    map[string]keyJSON `json:"keys,omitempty"`
	Failure string             `json:"failure,omitempty"`
}

type valueJSON struct {
	Type      string             `json:"type"`
	Int32     *int32             `json:"int32,omitempty"`
	UInt128   string             `json:"uint128,omitempty"`
	UInt256   string             `json:"uint256,omitempty"`
	UInt512   string             `json:"uint512,omitempty"`
	Str       string             `json:"string,omitempty"`
	Bytes     string             `json:"bytes,omitempty"`
	Code      string             `json:"code,omitempty"`
	NamedKeys map[string]keyJSON `json:"named_keys,omitempty"`
}

func loadProgramFile(path string) (map[key.Key]transform.Transform, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf programFile
	if err := json.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	effects := make(map[key.Key]transform.Transform, len(pf.Effects))
	for _, e := range pf.Effects {
		k, err := decodeKeyJSON(e.Key)
		if err != nil {
			return nil, fmt.Errorf("%s: key: %w", path, err)
		}
		t, err := decodeTransformJSON(e.Transform)
		if err != nil {
			return nil, fmt.Errorf("%s: transform: %w", path, err)
		}
		effects[k] = t
	}
	return effects, nil
}

func decodeHex32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func decodeKeyJSON(kj keyJSON) (key.Key, error) {
	switch kj.Tag {
	case "account":
		addr, err := decodeHex32(kj.Account)
		if err != nil {
			return key.Key{}, err
		}
		return key.NewAccountKey(addr), nil

	case "hash":
		h, err := decodeHex32(kj.Hash)
		if err != nil {
			return key.Key{}, err
		}
		return key.NewHashKey(h), nil

	case "uref":
		addr, err := decodeHex32(kj.URef)
		if err != nil {
			return key.Key{}, err
		}
		rights, err := parseAccessRights(kj.AccessRights)
		if err != nil {
			return key.Key{}, err
		}
		return key.NewURefKey(addr, rights), nil

	case "local":
		seed, err := decodeHex32(kj.LocalSeed)
		if err != nil {
			return key.Key{}, err
		}
		h, err := decodeHex32(kj.LocalHash)
		if err != nil {
			return key.Key{}, err
		}
		return key.NewLocalKey(seed, h), nil

	default:
		return key.Key{}, fmt.Errorf("unknown key tag %q", kj.Tag)
	}
}

func parseAccessRights(s string) (key.AccessRights, error) {
	switch s {
	case "", "none":
		return key.AccessNone, nil
	case "read":
		return key.AccessRead, nil
	case "write":
		return key.AccessWrite, nil
	case "add":
		return key.AccessAdd, nil
	case "read_write":
		return key.AccessReadWrite, nil
	case "read_add":
		return key.AccessReadAdd, nil
	case "add_write":
		return key.AccessAddWrite, nil
	case "read_add_write":
		return key.AccessReadAddWrite, nil
	default:
		return 0, fmt.Errorf("unknown access rights %q", s)
	}
}

func decimalToFixedBytes(s string, width int) ([]byte, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a decimal integer: %q", s)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("negative value not allowed: %q", s)
	}
	raw := n.Bytes()
	if len(raw) > width {
		return nil, fmt.Errorf("value %q overflows %d bytes", s, width)
	}
	out := make([]byte, width)
	copy(out[width-len(raw):], raw)
	return out, nil
}

func decodeU128(s string) (bignum.U128, error) {
	b, err := decimalToFixedBytes(s, 16)
	if err != nil {
		return bignum.U128{}, err
	}
	var arr [16]byte
	copy(arr[:], b)
	return bignum.U128FromBytes16(arr), nil
}

func decodeU256(s string) (*bignum.U256, error) {
	b, err := decimalToFixedBytes(s, 32)
	if err != nil {
		return nil, err
	}
	v := bignum.ZeroU256()
	v.SetBytes32(b)
	return v, nil
}

func decodeU512(s string) (bignum.U512, error) {
	b, err := decimalToFixedBytes(s, 64)
	if err != nil {
		return bignum.U512{}, err
	}
	var arr [64]byte
	copy(arr[:], b)
	return bignum.U512FromBytes64(arr), nil
}

func decodeValueJSON(vj valueJSON) (value.Value, error) {
	switch vj.Type {
	case "int32":
		if vj.Int32 == nil {
			return nil, fmt.Errorf("int32 value missing \"int32\" field")
		}
		return value.Int32(*vj.Int32), nil

	case "uint128":
		v, err := decodeU128(vj.UInt128)
		if err != nil {
			return nil, err
		}
		return value.UInt128{V: v}, nil

	case "uint256":
		v, err := decodeU256(vj.UInt256)
		if err != nil {
			return nil, err
		}
		return value.UInt256{V: v}, nil

	case "uint512":
		v, err := decodeU512(vj.UInt512)
		if err != nil {
			return nil, err
		}
		return value.UInt512{V: v}, nil

	case "string":
		return value.String(vj.Str), nil

	case "bytes":
		b, err := hex.DecodeString(vj.Bytes)
		if err != nil {
			return nil, err
		}
		return value.ByteArray(b), nil

	case "account":
		acc := value.NewAccount()
		if err := decodeNamedKeysInto(acc.NamedKeys, vj.NamedKeys); err != nil {
			return nil, err
		}
		return acc, nil

	case "contract":
		code, err := hex.DecodeString(vj.Code)
		if err != nil {
			return nil, err
		}
		c := value.NewContract(code)
		if err := decodeNamedKeysInto(c.NamedKeys, vj.NamedKeys); err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown value type %q", vj.Type)
	}
}

func decodeNamedKeysInto(dst value.NamedKeys, src map[string]keyJSON) error {
	for name, kj := range src {
		k, err := decodeKeyJSON(kj)
		if err != nil {
			return fmt.Errorf("named key %q: %w", name, err)
		}
		dst[name] = k
	}
	return nil
}

func decodeTransformJSON(tj transformJSON) (transform.Transform, error) {
	switch tj.Kind {
	case "identity":
		return transform.NewIdentity(), nil

	case "write":
		if tj.Value == nil {
			return transform.Transform{}, fmt.Errorf("write transform missing \"value\"")
		}
		v, err := decodeValueJSON(*tj.Value)
		if err != nil {
			return transform.Transform{}, err
		}
		return transform.NewWrite(v), nil

	case "add_int32":
		if tj.Int32 == nil {
			return transform.Transform{}, fmt.Errorf("add_int32 transform missing \"int32\"")
		}
		return transform.NewAddInt32(*tj.Int32), nil

	case "add_uint128":
		v, err := decodeU128(tj.UInt128)
		if err != nil {
			return transform.Transform{}, err
		}
		return transform.NewAddUInt128(v), nil

	case "add_uint256":
		v, err := decodeU256(tj.UInt256)
		if err != nil {
			return transform.Transform{}, err
		}
		return transform.NewAddUInt256(v), nil

	case "add_uint512":
		v, err := decodeU512(tj.UInt512)
		if err != nil {
			return transform.Transform{}, err
		}
		return transform.NewAddUInt512(v), nil

	case "add_keys":
		keys := make(map[string]key.Key, len(tj.Keys))
		if err := decodeNamedKeysInto(keys, tj.Keys); err != nil {
			return transform.Transform{}, err
		}
		return transform.NewAddKeys(keys), nil

	case "failure":
		return transform.NewFailure(fmt.Errorf("%s", tj.Failure)), nil

	default:
		return transform.Transform{}, fmt.Errorf("unknown transform kind %q", tj.Kind)
	}
}
