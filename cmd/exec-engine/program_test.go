package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-ecosystem/exec-engine-core/transform"
)

func TestDecimalToFixedBytesIsBigEndian(t *testing.T) {
	b, err := decimalToFixedBytes("256", 2)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0}, b)
}

func TestDecimalToFixedBytesRejectsNegative(t *testing.T) {
	_, err := decimalToFixedBytes("-1", 16)
	require.Error(t, err)
}

func TestDecimalToFixedBytesRejectsOverflow(t *testing.T) {
	_, err := decimalToFixedBytes("256", 1)
	require.Error(t, err)
}

const hexAddr32 = "0100000000000000000000000000000000000000000000000000000000000000"

func TestDecodeKeyJSONAccount(t *testing.T) {
	k, err := decodeKeyJSON(keyJSON{Tag: "account", Account: hexAddr32})
	require.NoError(t, err)
	require.Equal(t, "Account", k.Tag().String())
}

func TestDecodeValueJSONInt32(t *testing.T) {
	i := int32(7)
	v, err := decodeValueJSON(valueJSON{Type: "int32", Int32: &i})
	require.NoError(t, err)
	require.Equal(t, "Int32", v.TypeString())
}

func TestDecodeTransformJSONAddUInt128(t *testing.T) {
	tr, err := decodeTransformJSON(transformJSON{Kind: "add_uint128", UInt128: "42"})
	require.NoError(t, err)
	require.Contains(t, tr.String(), "AddUInt128")
}

func TestDecodeTransformJSONUnknownKindFails(t *testing.T) {
	_, err := decodeTransformJSON(transformJSON{Kind: "bogus"})
	require.Error(t, err)
}

func TestLoadProgramFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.json")
	contents := `{
		"effects": [
			{
				"key": {"tag": "hash", "hash": "` + hexAddr32 + `"},
				"transform": {"kind": "write", "value": {"type": "int32", "int32": 5}}
			}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	effects, err := loadProgramFile(path)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	for _, tr := range effects {
		require.True(t, transform.IsWrite(tr))
	}
}
