// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/ledger"
	"github.com/ava-labs/timelock/pebble"
	"github.com/ava-labs/timelock/program"
	"github.com/ava-labs/timelock/runtime"
	"github.com/ava-labs/timelock/trace"
)

type Config struct {
	// Programs
	ProgramID                codec.Address `json:"programID"`
	TokenProgramID           codec.Address `json:"tokenProgramID"`
	SystemProgramID          codec.Address `json:"systemProgramID"`
	AssociatedTokenProgramID codec.Address `json:"associatedTokenProgramID"`

	// Ledger
	Rent        runtime.Rent `json:"rent"`
	GenesisSlot uint64       `json:"genesisSlot"`
	MaxTxAge    uint64       `json:"maxTxAge"`

	// Storage
	DBDir  string        `json:"dbDir"` // empty keeps everything in memory
	Pebble pebble.Config `json:"pebble"`

	// Tracing
	Trace trace.Config `json:"trace"`

	// Misc
	LogLevel logging.Level `json:"logLevel"`
	LogDir   string        `json:"logDir"`
}

func New(b []byte) (*Config, error) {
	programCfg := program.DefaultConfig()
	ledgerCfg := ledger.DefaultConfig()
	c := &Config{
		ProgramID:                programCfg.ProgramID,
		TokenProgramID:           programCfg.TokenProgramID,
		SystemProgramID:          programCfg.SystemProgramID,
		AssociatedTokenProgramID: ledgerCfg.AssociatedTokenProgramID,
		Rent:                     ledgerCfg.Rent,
		GenesisSlot:              ledgerCfg.GenesisSlot,
		MaxTxAge:                 ledgerCfg.MaxTxAge,
		Pebble:                   pebble.NewDefaultConfig(),
		Trace: trace.Config{
			TraceSampleRate: 1,
			AppName:         "timelock",
			Agent:           "timelock-cli",
		},
		LogLevel: logging.Info,
	}

	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Config) ProgramConfig() program.Config {
	return program.Config{
		ProgramID:       c.ProgramID,
		TokenProgramID:  c.TokenProgramID,
		SystemProgramID: c.SystemProgramID,
	}
}

func (c *Config) LedgerConfig() ledger.Config {
	return ledger.Config{
		SystemProgramID:          c.SystemProgramID,
		TokenProgramID:           c.TokenProgramID,
		AssociatedTokenProgramID: c.AssociatedTokenProgramID,
		Rent:                     c.Rent,
		GenesisSlot:              c.GenesisSlot,
		MaxTxAge:                 c.MaxTxAge,
	}
}
