// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/timelock/consts"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/runtime"
	"github.com/ava-labs/timelock/token"
	"github.com/ava-labs/timelock/vault"
)

func (p *Program) empty(
	ctx context.Context,
	host runtime.Host,
	infos []*runtime.AccountInfo,
	data []byte,
) error {
	a, err := loadAccounts(infos)
	if err != nil {
		return err
	}
	if err := ParseEmptyData(data); err != nil {
		return err
	}

	if err := p.checkPrograms(a); err != nil {
		return err
	}
	if err := vault.CheckSigner(a.admin, true); err != nil {
		return err
	}
	if _, err := token.MintFromAccountInfo(a.mint, p.cfg.TokenProgramID); err != nil {
		return err
	}

	adminToken, err := token.AccountFromAccountInfo(a.adminToken, p.cfg.TokenProgramID)
	if err != nil {
		return err
	}
	if adminToken.Mint != a.mint.Key {
		return fmt.Errorf("%w: admin token account mint %s, expected %s", fault.ErrMintMismatch, adminToken.Mint, a.mint.Key)
	}
	if adminToken.Owner != a.admin.Key {
		return fmt.Errorf("%w: admin token account owned by %s, expected admin %s", fault.ErrOwnerMismatch, adminToken.Owner, a.admin.Key)
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
	amount := vaultToken.Amount

	v, err := vault.Validate(p.cfg.ProgramID, a.vault, true, a.admin, a.mint, a.vaultToken)
	if err != nil {
		return err
	}
	// Only checked once the request is known to be well formed.
	if err := vault.CheckUnlockAllowed(v, host.Slot()); err != nil {
		return err
	}

	seeds := vault.Seeds(a.admin.Key, a.mint.Key, v.Salt)
	if err := vault.VerifySeeds(a.admin.Key, a.mint.Key, v.Salt, seeds); err != nil {
		return err
	}

	if err := host.Transfer(ctx, a.vaultToken, a.adminToken, a.vault, amount, seeds); err != nil {
		return err
	}
	if err := host.CloseAccount(ctx, a.vaultToken, a.adminToken, a.vault, seeds); err != nil {
		return err
	}

	// The vault is owned by this program, so its lamports can be moved
	// directly.
	lamports, err := smath.Add64(a.admin.Lamports, a.vault.Lamports)
	if err != nil {
		lamports = consts.MaxUint64
	}
	a.admin.Lamports = lamports
	a.vault.Lamports = 0
	vault.Close(a.vault.Data)

	p.log.Info("vault emptied",
		zap.Uint64("amount", amount),
		zap.Stringer("mint", a.mint.Key),
		zap.Stringer("admin", a.admin.Key),
	)
	return nil
}
