// Command exec-engine is a standalone driver for the state-transition
// core: it bootstraps a mocked account, folds one or more pre-built
// effects files onto the running state root in order, and reports each
// commit's outcome as a structured log line, the way the original
// driver reported each deploy's execution result.
package main

import (
	"fmt"
	"os"

	"github.com/casper-ecosystem/exec-engine-core/bootstrap"
	"github.com/casper-ecosystem/exec-engine-core/enginelog"
	"github.com/casper-ecosystem/exec-engine-core/globalstate"
	"github.com/casper-ecosystem/exec-engine-core/triestore"
	"github.com/urfave/cli/v2"
)

const (
	serverStartMessage  = "starting Execution Engine Standalone"
	serverStopMessage   = "stopping Execution Engine Standalone"
	serverNoGasLimitMsg = "gas limit is 0"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAction(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}

	logger, err := enginelog.New(enginelog.Settings{ProcessName: procName, Level: cfg.logLevel})
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info(serverStartMessage)
	defer logger.Info(serverStopMessage)

	if cfg.gasLimit == 0 {
		logger.Info(serverNoGasLimitMsg)
	}

	var env *triestore.Environment
	if cfg.dataDir != "" {
		env = triestore.NewBadgerEnvironment(cfg.dataDir)
	} else {
		env = triestore.NewInMemoryEnvironment()
	}
	defer env.Close()

	initState := bootstrap.MockedAccount(cfg.address)
	stateRoot, err := globalstate.FromPairs(env, initState)
	if err != nil {
		return fmt.Errorf("could not create global state: %w", err)
	}
	gs := globalstate.New(env)

	for _, path := range cfg.programFiles {
		effects, err := loadProgramFile(path)
		if err != nil {
			return err
		}

		properties := map[string]string{
			"pre-state-hash": fmt.Sprintf("%x", stateRoot),
			"program-path":   path,
			"gas-limit":      fmt.Sprintf("%d", cfg.gasLimit),
		}

		result := gs.Commit(stateRoot, effects)

		level := enginelog.LevelInfo
		errorMessage := ""

		switch result.Outcome {
		case globalstate.CommitSuccess:
			stateRoot = result.NewRoot
			properties["post-state-hash"] = fmt.Sprintf("%x", stateRoot)
		case globalstate.CommitRootNotFound:
			level = enginelog.LevelWarn
			errorMessage = fmt.Sprintf("root %x not found", stateRoot)
		case globalstate.CommitKeyNotFound:
			level = enginelog.LevelWarn
			errorMessage = fmt.Sprintf("key %s not found", result.FailedKey)
		case globalstate.CommitTypeMismatch:
			level = enginelog.LevelWarn
			errorMessage = fmt.Sprintf("type mismatch on key %s: %v", result.FailedKey, result.Err)
		}

		success := errorMessage == ""
		properties["success"] = fmt.Sprintf("%v", success)
		if !success {
			properties["error"] = errorMessage
		}

		message := fmt.Sprintf("%s success: %v", path, success)
		logger.Details(level, message, properties)
	}

	return nil
}
