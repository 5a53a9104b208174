// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import (
	"bytes"
	"fmt"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/pda"
)

// Seed is the label every vault address is derived from.
var Seed = []byte("VAULT")

// Seeds returns (Seed, admin, mint, [salt]), the components that derive a
// vault address and sign on its behalf.
func Seeds(admin, mint codec.Address, salt uint8) pda.Seeds {
	return pda.Seeds{
		Seed,
		admin[:],
		mint[:],
		{salt},
	}
}

// DeriveAddress computes the vault address of (admin, mint, salt) under
// [programID].
func DeriveAddress(programID, admin, mint codec.Address, salt uint8) (codec.Address, error) {
	addr, err := pda.CreateProgramAddress(Seeds(admin, mint, salt), programID)
	if err != nil {
		return codec.EmptyAddress, fmt.Errorf("%w: %w", fault.ErrAddressMismatch, err)
	}
	return addr, nil
}

// FindAddress searches for the vault address of (admin, mint) and its salt.
// Only clients call this; the program always re-derives from a stored salt.
func FindAddress(programID, admin, mint codec.Address) (codec.Address, uint8, error) {
	return pda.FindProgramAddress(pda.Seeds{Seed, admin[:], mint[:]}, programID)
}

// VerifySeeds checks byte for byte that [seeds] is exactly
// (Seed, admin, mint, [salt]).
func VerifySeeds(admin, mint codec.Address, salt uint8, seeds pda.Seeds) error {
	expected := Seeds(admin, mint, salt)
	if len(seeds) != len(expected) {
		return fmt.Errorf("%w: expected %d seeds but got %d", fault.ErrSeedMismatch, len(expected), len(seeds))
	}
	for i, seed := range seeds {
		if !bytes.Equal(seed, expected[i]) {
			return fmt.Errorf("%w: seed %d is %x but expected %x", fault.ErrSeedMismatch, i, seed, expected[i])
		}
	}
	return nil
}
