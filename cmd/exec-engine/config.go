package main

import (
	"encoding/hex"
	"fmt"

	"github.com/casper-ecosystem/exec-engine-core/enginelog"
	"github.com/urfave/cli/v2"
)

const (
	procName    = "exec-engine"
	appName     = "Execution Engine Standalone"
	defaultAddr = "0000000000000000000000000000000000000000000000000000000000000000"
	defaultGas  = uint64(18446744073709551615)
)

// config is the fully-resolved set of knobs main needs, built from CLI
// flags the way the driver's own ARG_MATCHES/LOG_SETTINGS pair were, but
// as an explicit value instead of lazily-initialized globals.
type config struct {
	address      [32]byte
	gasLimit     uint64
	logLevel     enginelog.Level
	dataDir      string
	programFiles []string
}

func app() *cli.App {
	return &cli.App{
		Name:  appName,
		Usage: "deterministic state-transition engine driver",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Value:   defaultAddr,
				Usage:   "hex-encoded 32-byte account address to bootstrap",
			},
			&cli.Uint64Flag{
				Name:    "gas-limit",
				Aliases: []string{"l"},
				Value:   defaultGas,
				Usage:   "gas limit carried through to deploy reporting",
			},
			&cli.StringFlag{
				Name:  "loglevel",
				Usage: "fatal | error | warning | info | debug",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Badger data directory; empty means in-memory state",
			},
		},
		Action: runAction,
	}
}

func configFromContext(c *cli.Context) (config, error) {
	addrBytes, err := hex.DecodeString(c.String("address"))
	if err != nil || len(addrBytes) != 32 {
		return config{}, fmt.Errorf("address must be 32 bytes hex-encoded: %w", err)
	}
	var addr [32]byte
	copy(addr[:], addrBytes)

	if c.NArg() == 0 {
		return config{}, fmt.Errorf("at least one program file is required")
	}

	return config{
		address:      addr,
		gasLimit:     c.Uint64("gas-limit"),
		logLevel:     enginelog.ParseLevel(c.String("loglevel")),
		dataDir:      c.String("data-dir"),
		programFiles: c.Args().Slice(),
	}, nil
}
