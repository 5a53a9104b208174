// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"fmt"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/pda"
	"github.com/ava-labs/timelock/runtime"
	"github.com/ava-labs/timelock/token"
)

const (
	AssociatedTokenCreate           uint8 = 0
	AssociatedTokenCreateIdempotent uint8 = 1
)

func (c Config) associatedTokenSeeds(owner, mint codec.Address) pda.Seeds {
	return pda.Seeds{owner[:], c.TokenProgramID[:], mint[:]}
}

// AssociatedTokenAddress is the canonical token account of [owner] for
// [mint].
func (c Config) AssociatedTokenAddress(owner, mint codec.Address) (codec.Address, uint8, error) {
	return pda.FindProgramAddress(c.associatedTokenSeeds(owner, mint), c.AssociatedTokenProgramID)
}

// CreateAssociatedTokenAccountInstruction creates the associated token
// account of [owner] for [mint], paid for by [payer]. With [idempotent] set
// an existing, matching account is accepted.
func (c Config) CreateAssociatedTokenAccountInstruction(
	payer, owner, mint codec.Address,
	idempotent bool,
) (runtime.Instruction, error) {
	ata, _, err := c.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return runtime.Instruction{}, err
	}
	op := AssociatedTokenCreate
	if idempotent {
		op = AssociatedTokenCreateIdempotent
	}
	return runtime.Instruction{
		ProgramID: c.AssociatedTokenProgramID,
		Accounts: []runtime.AccountMeta{
			runtime.NewWritable(payer, true),
			runtime.NewWritable(ata, false),
			runtime.NewReadonly(owner, false),
			runtime.NewReadonly(mint, false),
			runtime.NewReadonly(c.SystemProgramID, false),
			runtime.NewReadonly(c.TokenProgramID, false),
		},
		Data: []byte{op},
	}, nil
}

func processAssociatedToken(inv *invocation, infos []*runtime.AccountInfo, data []byte) error {
	cfg := inv.exec.ledger.cfg
	op := AssociatedTokenCreate
	switch len(data) {
	case 0:
	case 1:
		op = data[0]
	default:
		return fmt.Errorf("%w: %d bytes", fault.ErrInvalidInstructionData, len(data))
	}
	if op != AssociatedTokenCreate && op != AssociatedTokenCreateIdempotent {
		return fmt.Errorf("%w: associated token instruction %d", fault.ErrInvalidInstructionData, op)
	}
	if len(infos) < 6 {
		return fmt.Errorf("%w: need 6, got %d", fault.ErrNotEnoughAccountKeys, len(infos))
	}
	var (
		payer         = infos[0]
		ata           = infos[1]
		owner         = infos[2]
		mint          = infos[3]
		systemProgram = infos[4]
		tokenProgram  = infos[5]
	)
	if systemProgram.Key != cfg.SystemProgramID {
		return fmt.Errorf("%w: system program %s", fault.ErrIncorrectProgramID, systemProgram.Key)
	}
	if tokenProgram.Key != cfg.TokenProgramID {
		return fmt.Errorf("%w: token program %s", fault.ErrIncorrectProgramID, tokenProgram.Key)
	}

	seeds := cfg.associatedTokenSeeds(owner.Key, mint.Key)
	expected, salt, err := pda.FindProgramAddress(seeds, cfg.AssociatedTokenProgramID)
	if err != nil {
		return err
	}
	if ata.Key != expected {
		return fmt.Errorf("%w: associated token account %s, derived %s", fault.ErrAddressMismatch, ata.Key, expected)
	}

	if op == AssociatedTokenCreateIdempotent && ata.IsOwnedBy(cfg.TokenProgramID) {
		a, err := token.AccountFromAccountInfo(ata, cfg.TokenProgramID)
		if err != nil {
			return err
		}
		if a.Owner != owner.Key {
			return fmt.Errorf("%w: %s owned by %s, not %s", fault.ErrOwnerMismatch, ata.Key, a.Owner, owner.Key)
		}
		if a.Mint != mint.Key {
			return fmt.Errorf("%w: %s holds %s, not %s", fault.ErrMintMismatch, ata.Key, a.Mint, mint.Key)
		}
		return nil
	}

	if _, err := token.MintFromAccountInfo(mint, cfg.TokenProgramID); err != nil {
		return err
	}
	signer := append(seeds, []byte{salt})
	if err := inv.createAccount(
		payer,
		ata,
		cfg.Rent.MinimumBalance(token.AccountLen),
		token.AccountLen,
		cfg.TokenProgramID,
		[]pda.Seeds{signer},
	); err != nil {
		return err
	}
	return inv.initializeTokenAccount(ata, mint, owner.Key)
}
