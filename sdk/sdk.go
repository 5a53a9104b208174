// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sdk builds the instructions a client sends to lock and empty
// vaults, and decodes vault records read back from a ledger.
package sdk

import (
	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/ledger"
	"github.com/ava-labs/timelock/program"
	"github.com/ava-labs/timelock/runtime"
	"github.com/ava-labs/timelock/token"
	"github.com/ava-labs/timelock/vault"
)

// AdminOffset is where a vault record stores its admin.
const AdminOffset = 3

type Builder struct {
	program program.Config
	ledger  ledger.Config
}

func New(p program.Config, l ledger.Config) *Builder {
	return &Builder{
		program: p,
		ledger:  l,
	}
}

// VaultAddress finds the vault of ([admin], [mint]) and the salt it is
// derived with.
func (b *Builder) VaultAddress(admin, mint codec.Address) (codec.Address, uint8, error) {
	return vault.FindAddress(b.program.ProgramID, admin, mint)
}

// TokenAccount is the associated token account of [owner] for [mint].
func (b *Builder) TokenAccount(owner, mint codec.Address) (codec.Address, error) {
	addr, _, err := b.ledger.AssociatedTokenAddress(owner, mint)
	return addr, err
}

func (b *Builder) vaultAccounts(admin, mint codec.Address) (codec.Address, uint8, []runtime.AccountMeta, error) {
	vaultKey, salt, err := b.VaultAddress(admin, mint)
	if err != nil {
		return codec.EmptyAddress, 0, nil, err
	}
	adminToken, err := b.TokenAccount(admin, mint)
	if err != nil {
		return codec.EmptyAddress, 0, nil, err
	}
	vaultToken, err := b.TokenAccount(vaultKey, mint)
	if err != nil {
		return codec.EmptyAddress, 0, nil, err
	}

	metas := make([]runtime.AccountMeta, program.NumAccounts)
	metas[program.AccountVault] = runtime.NewWritable(vaultKey, false)
	metas[program.AccountAdmin] = runtime.NewWritable(admin, true)
	metas[program.AccountMint] = runtime.NewReadonly(mint, false)
	metas[program.AccountAdminToken] = runtime.NewWritable(adminToken, false)
	metas[program.AccountVaultToken] = runtime.NewWritable(vaultToken, false)
	metas[program.AccountTokenProgram] = runtime.NewReadonly(b.program.TokenProgramID, false)
	metas[program.AccountSystemProgram] = runtime.NewReadonly(b.program.SystemProgramID, false)
	return vaultKey, salt, metas, nil
}

// LockVault returns the instructions that lock [tokensToLock] (everything
// the admin holds if nil) for [slotsToLock] slots: the vault's token account
// is created if missing, then the vault is locked.
func (b *Builder) LockVault(
	admin, mint codec.Address,
	slotsToLock uint64,
	tokensToLock *uint64,
) ([]runtime.Instruction, error) {
	vaultKey, salt, metas, err := b.vaultAccounts(admin, mint)
	if err != nil {
		return nil, err
	}
	createVaultToken, err := b.ledger.CreateAssociatedTokenAccountInstruction(admin, vaultKey, mint, true)
	if err != nil {
		return nil, err
	}
	data, err := program.NewLockData(salt, slotsToLock, tokensToLock).Encode()
	if err != nil {
		return nil, err
	}
	return []runtime.Instruction{
		createVaultToken,
		{
			ProgramID: b.program.ProgramID,
			Accounts:  metas,
			Data:      data,
		},
	}, nil
}

// EmptyVault returns the instruction that withdraws everything from the
// vault of ([admin], [mint]) and closes it.
func (b *Builder) EmptyVault(admin, mint codec.Address) (runtime.Instruction, error) {
	_, _, metas, err := b.vaultAccounts(admin, mint)
	if err != nil {
		return runtime.Instruction{}, err
	}
	return runtime.Instruction{
		ProgramID: b.program.ProgramID,
		Accounts:  metas,
		Data:      program.EncodeEmptyData(),
	}, nil
}

// CreateMint returns the instructions that allocate [mint] and make
// [authority] its mint authority. Both [payer] and [mint] must sign.
func (b *Builder) CreateMint(payer, mint codec.Address, decimals uint8, authority codec.Address) []runtime.Instruction {
	return []runtime.Instruction{
		b.ledger.CreateAccountInstruction(
			payer,
			mint,
			b.ledger.Rent.MinimumBalance(token.MintLen),
			token.MintLen,
			b.ledger.TokenProgramID,
		),
		b.ledger.InitializeMintInstruction(mint, decimals, authority),
	}
}

// CreateTokenAccount creates the associated token account of [owner] for
// [mint] unless it already exists.
func (b *Builder) CreateTokenAccount(payer, owner, mint codec.Address) (runtime.Instruction, error) {
	return b.ledger.CreateAssociatedTokenAccountInstruction(payer, owner, mint, true)
}

// MintTo issues [amount] new tokens into the associated token account of
// [owner].
func (b *Builder) MintTo(mint, owner, authority codec.Address, amount uint64) (runtime.Instruction, error) {
	dst, err := b.TokenAccount(owner, mint)
	if err != nil {
		return runtime.Instruction{}, err
	}
	return b.ledger.MintToInstruction(mint, dst, authority, amount), nil
}

// AdminFilter matches the vault records of [admin].
func AdminFilter(admin codec.Address) ledger.Filter {
	return ledger.Filter{Offset: AdminOffset, Bytes: admin[:]}
}

// DecodeVault parses the data of a vault account.
func DecodeVault(data []byte) (*vault.Vault, error) {
	return vault.Decode(data)
}
