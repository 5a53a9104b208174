// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/runtime"
	"github.com/ava-labs/timelock/token"
	"github.com/ava-labs/timelock/vault"
)

func (p *Program) lock(
	ctx context.Context,
	host runtime.Host,
	infos []*runtime.AccountInfo,
	data []byte,
) error {
	a, err := loadAccounts(infos)
	if err != nil {
		return err
	}
	ixData, err := ParseLockData(data)
	if err != nil {
		return err
	}

	if err := p.checkPrograms(a); err != nil {
		return err
	}
	// The vault must not exist yet.
	if err := p.checkUnallocated(a.vault, true); err != nil {
		return err
	}
	if err := vault.CheckSigner(a.admin, true); err != nil {
		return err
	}

	expected, err := vault.DeriveAddress(p.cfg.ProgramID, a.admin.Key, a.mint.Key, ixData.Salt)
	if err != nil {
		return err
	}
	if a.vault.Key != expected {
		return fmt.Errorf("%w: vault %s, derived %s", fault.ErrAddressMismatch, a.vault.Key, expected)
	}

	mint, err := token.MintFromAccountInfo(a.mint, p.cfg.TokenProgramID)
	if err != nil {
		return err
	}

	vaultToken, err := token.AccountFromAccountInfo(a.vaultToken, p.cfg.TokenProgramID)
	if err != nil {
		return err
	}
	if vaultToken.Owner != a.vault.Key {
		return fmt.Errorf("%w: vault token account owned by %s, expected vault %s", fault.ErrOwnerMismatch, vaultToken.Owner, a.vault.Key)
	}
	if vaultToken.Mint != a.mint.Key {
		return fmt.Errorf("%w: vault token account mint %s, expected %s", fault.ErrMintMismatch, vaultToken.Mint, a.mint.Key)
	}

	adminToken, err := token.AccountFromAccountInfo(a.adminToken, p.cfg.TokenProgramID)
	if err != nil {
		return err
	}
	if adminToken.Owner != a.admin.Key {
		return fmt.Errorf("%w: admin token account owned by %s, expected admin %s", fault.ErrOwnerMismatch, adminToken.Owner, a.admin.Key)
	}
	if adminToken.Mint != a.mint.Key {
		return fmt.Errorf("%w: admin token account mint %s, expected %s", fault.ErrMintMismatch, adminToken.Mint, a.mint.Key)
	}

	available := adminToken.Amount
	amount := available
	if requested, ok := ixData.TokensToLock.Value(); ok {
		amount = requested.Get()
	}
	if amount > available {
		return fmt.Errorf("%w: %d > %d", fault.ErrAmountExceedsBalance, amount, available)
	}

	seeds := vault.Seeds(a.admin.Key, a.mint.Key, ixData.Salt)
	if err := vault.VerifySeeds(a.admin.Key, a.mint.Key, ixData.Salt, seeds); err != nil {
		return err
	}

	if err := host.CreateAccount(
		ctx,
		a.admin,
		a.vault,
		host.Rent().MinimumBalance(vault.Len),
		vault.Len,
		p.cfg.ProgramID,
		seeds,
	); err != nil {
		return err
	}

	slotsToLock := ixData.SlotsToLock.Get()
	if err := vault.Initialize(
		a.vault.Data,
		a.admin.Key,
		a.mint.Key,
		vault.LockParams{Salt: ixData.Salt, SlotsToLock: slotsToLock},
		a.vaultToken.Key,
		mint.Decimals,
		host.Slot(),
	); err != nil {
		return err
	}

	// The admin holds the tokens and signed the request, so no seeds are
	// needed.
	if err := host.Transfer(ctx, a.adminToken, a.vaultToken, a.admin, amount); err != nil {
		return err
	}

	p.log.Info("vault locked",
		zap.Uint64("amount", amount),
		zap.Stringer("mint", a.mint.Key),
		zap.Uint64("slots", slotsToLock),
	)
	return nil
}
