// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/ava-labs/avalanchego/utils/units"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/program"
	"github.com/ava-labs/timelock/runtime"
)

const (
	DefaultGenesisSlot = 1
	DefaultMaxTxAge    = 150

	MaxAccountSize = 10 * units.MiB
)

var DefaultAssociatedTokenProgramID = codec.MustParseAddress("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

// Config describes the native programs and economics of a ledger.
type Config struct {
	SystemProgramID          codec.Address `json:"systemProgramID"`
	TokenProgramID           codec.Address `json:"tokenProgramID"`
	AssociatedTokenProgramID codec.Address `json:"associatedTokenProgramID"`

	Rent runtime.Rent `json:"rent"`

	// GenesisSlot is the slot of a new database. Slot 0 is never used so
	// that a zero start slot always means "not locked".
	GenesisSlot uint64 `json:"genesisSlot"`
	// MaxTxAge is how many slots a transaction's recent slot may lag.
	MaxTxAge uint64 `json:"maxTxAge"`
}

func DefaultConfig() Config {
	return Config{
		SystemProgramID:          program.DefaultSystemProgramID,
		TokenProgramID:           program.DefaultTokenProgramID,
		AssociatedTokenProgramID: DefaultAssociatedTokenProgramID,
		Rent:                     runtime.DefaultRent,
		GenesisSlot:              DefaultGenesisSlot,
		MaxTxAge:                 DefaultMaxTxAge,
	}
}
