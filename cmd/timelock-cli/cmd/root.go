// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/timelock/config"
	"github.com/ava-labs/timelock/ledger"
	"github.com/ava-labs/timelock/pebble"
	"github.com/ava-labs/timelock/program"
	"github.com/ava-labs/timelock/sdk"

	timelocktrace "github.com/ava-labs/timelock/trace"
)

type app struct {
	configPath string
	logLevel   string
	dbDir      string

	cfg        *config.Config
	logFactory *logFactory
	log        logging.Logger
	tracer     trace.Tracer
	db         ledger.Store
	ledger     *ledger.Ledger
	builder    *sdk.Builder
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "timelock-cli",
		Short: "Time-locked token vaults on a simulated ledger",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a JSON config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides the config)")
	cmd.PersistentFlags().StringVar(&a.dbDir, "db", "", "pebble directory, in memory if empty (overrides the config)")

	cmd.AddCommand(
		newKeyCmd(a),
		newVaultCmd(a),
		newRunCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	var b []byte
	if a.configPath != "" {
		var err error
		b, err = os.ReadFile(a.configPath)
		if err != nil {
			return err
		}
	}
	cfg, err := config.New(b)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, err = logging.ToLevel(a.logLevel)
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("db") {
		cfg.DBDir = a.dbDir
	}
	a.cfg = cfg

	loggingConfig := logging.Config{}
	loggingConfig.LogLevel = cfg.LogLevel
	loggingConfig.DisplayLevel = cfg.LogLevel
	loggingConfig.LogFormat = logging.JSON
	loggingConfig.Directory = cfg.LogDir
	a.logFactory = newLogFactory(loggingConfig)
	a.log, err = a.logFactory.Make("timelock")
	if err != nil {
		a.logFactory.Close()
		return err
	}

	a.tracer, err = timelocktrace.New(&cfg.Trace)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	if cfg.DBDir == "" {
		a.db = memdb.New()
	} else {
		a.db, err = pebble.New(cfg.DBDir, cfg.Pebble, registry)
		if err != nil {
			return err
		}
	}
	return a.open(registry)
}

// open starts the ledger on [a.db] and registers the vault program.
func (a *app) open(registry prometheus.Registerer) error {
	var err error
	a.ledger, err = ledger.New(a.cfg.LedgerConfig(), a.db, a.log, registry)
	if err != nil {
		return err
	}
	if err := a.ledger.Register(program.New(a.cfg.ProgramConfig(), a.log)); err != nil {
		return err
	}
	a.builder = sdk.New(a.cfg.ProgramConfig(), a.cfg.LedgerConfig())
	a.log.Debug("ledger opened",
		zap.String("db", a.cfg.DBDir),
		zap.Uint64("slot", a.ledger.Slot()),
	)
	return nil
}

func (a *app) close() error {
	var err error
	if a.ledger != nil {
		err = a.ledger.Close()
	}
	if a.tracer != nil {
		if terr := a.tracer.Close(); terr != nil {
			a.log.Warn("failed to close tracer", zap.Error(terr))
		}
	}
	if a.logFactory != nil {
		a.logFactory.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to close ledger: %w", err)
	}
	return nil
}
