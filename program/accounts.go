// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"fmt"

	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/runtime"
)

// Positions of the accounts passed to both lock and empty.
const (
	AccountVault = iota
	AccountAdmin
	AccountMint
	AccountAdminToken
	AccountVaultToken
	AccountTokenProgram
	AccountSystemProgram

	NumAccounts
)

type accounts struct {
	vault         *runtime.AccountInfo
	admin         *runtime.AccountInfo
	mint          *runtime.AccountInfo
	adminToken    *runtime.AccountInfo
	vaultToken    *runtime.AccountInfo
	tokenProgram  *runtime.AccountInfo
	systemProgram *runtime.AccountInfo
}

func loadAccounts(infos []*runtime.AccountInfo) (*accounts, error) {
	if len(infos) < NumAccounts {
		return nil, fmt.Errorf("%w: need %d, got %d", fault.ErrNotEnoughAccountKeys, NumAccounts, len(infos))
	}
	return &accounts{
		vault:         infos[AccountVault],
		admin:         infos[AccountAdmin],
		mint:          infos[AccountMint],
		adminToken:    infos[AccountAdminToken],
		vaultToken:    infos[AccountVaultToken],
		tokenProgram:  infos[AccountTokenProgram],
		systemProgram: infos[AccountSystemProgram],
	}, nil
}

func (p *Program) checkPrograms(a *accounts) error {
	if a.tokenProgram.Key != p.cfg.TokenProgramID {
		return fmt.Errorf("%w: token program %s, expected %s", fault.ErrIncorrectProgramID, a.tokenProgram.Key, p.cfg.TokenProgramID)
	}
	if a.systemProgram.Key != p.cfg.SystemProgramID {
		return fmt.Errorf("%w: system program %s, expected %s", fault.ErrIncorrectProgramID, a.systemProgram.Key, p.cfg.SystemProgramID)
	}
	return nil
}

// checkUnallocated fails unless [info] is still an empty system account.
func (p *Program) checkUnallocated(info *runtime.AccountInfo, expectWritable bool) error {
	if !info.IsOwnedBy(p.cfg.SystemProgramID) {
		return fmt.Errorf("%w: %s owned by %s", fault.ErrAccountInUse, info.Key, info.Owner)
	}
	if !info.DataIsEmpty() {
		return fmt.Errorf("%w: %s holds %d bytes", fault.ErrAccountInUse, info.Key, len(info.Data))
	}
	if expectWritable && !info.IsWritable {
		return fmt.Errorf("%w: %s", fault.ErrNotWritable, info.Key)
	}
	return nil
}
