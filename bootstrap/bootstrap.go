// Package bootstrap builds the initial key/value pairs a fresh global
// state is seeded with, standing in for the external account-creation
// flow that normally runs before any deploy is ever executed.
package bootstrap

import (
	"github.com/casper-ecosystem/exec-engine-core/key"
	"github.com/casper-ecosystem/exec-engine-core/value"
)

// MockedAccount returns the single-pair seed state for addr: an empty
// Account value with no named keys yet. It is the Go counterpart of the
// standalone driver's bootstrap helper that hands a brand-new engine a
// minimal account to deploy against before any real account-creation
// transform has ever run.
func MockedAccount(addr [32]byte) map[key.Key]value.Value {
	return map[key.Key]value.Value{
		key.NewAccountKey(addr): value.NewAccount(),
	}
}
