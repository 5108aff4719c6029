package triestore

import (
	"github.com/casper-ecosystem/exec-engine-core/adaptors/badger_adaptor"
	"github.com/dgraph-io/badger/v4"
)

// NewBadgerEnvironment opens (or creates) a Badger-backed environment at
// dir. This is the persistent backend; NewInMemoryEnvironment is used for
// short-lived state such as test fixtures and driver runs without a data
// directory.
func NewBadgerEnvironment(dir string, opts ...badger.Options) *Environment {
	db := badger_adaptor.New(badger_adaptor.MustCreateOrOpenBadgerDB(dir, opts...))
	return NewEnvironment(db)
}
