// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import "github.com/ava-labs/timelock/codec"

var (
	DefaultProgramID       = codec.MustParseAddress("CATvuZTNuyeBkoo5Tpeqtxcn51NDLNMExWPZ5vzQxkEg")
	DefaultTokenProgramID  = codec.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	DefaultSystemProgramID = codec.MustParseAddress("11111111111111111111111111111111")
)

// Config holds the identities the program trusts. The program's own id scopes
// every vault address.
type Config struct {
	ProgramID       codec.Address `json:"programID"`
	TokenProgramID  codec.Address `json:"tokenProgramID"`
	SystemProgramID codec.Address `json:"systemProgramID"`
}

func DefaultConfig() Config {
	return Config{
		ProgramID:       DefaultProgramID,
		TokenProgramID:  DefaultTokenProgramID,
		SystemProgramID: DefaultSystemProgramID,
	}
}
