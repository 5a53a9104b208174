// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/pda"
	"github.com/ava-labs/timelock/runtime"
)

// system program instructions
const (
	SystemCreateAccount uint8 = 0
	SystemTransfer      uint8 = 2
)

const (
	createAccountDataLen = 1 + 8 + 8 + codec.AddressLen
	transferDataLen      = 1 + 8
)

type createAccountLayout struct {
	Op       uint8
	Lamports uint64
	Space    uint64
	Owner    [codec.AddressLen]byte
}

type amountLayout struct {
	Op     uint8
	Amount uint64
}

// CreateAccountInstruction funds [to] from [from] and assigns it to [owner].
// Both accounts must sign.
func (c Config) CreateAccountInstruction(from, to codec.Address, lamports, space uint64, owner codec.Address) runtime.Instruction {
	data, err := codec.Marshal(createAccountLayout{
		Op:       SystemCreateAccount,
		Lamports: lamports,
		Space:    space,
		Owner:    owner,
	}, createAccountDataLen)
	if err != nil {
		panic(err)
	}
	return runtime.Instruction{
		ProgramID: c.SystemProgramID,
		Accounts: []runtime.AccountMeta{
			runtime.NewWritable(from, true),
			runtime.NewWritable(to, true),
		},
		Data: data,
	}
}

// TransferLamportsInstruction moves [lamports] from [from] to [to].
func (c Config) TransferLamportsInstruction(from, to codec.Address, lamports uint64) runtime.Instruction {
	data, err := codec.Marshal(amountLayout{Op: SystemTransfer, Amount: lamports}, transferDataLen)
	if err != nil {
		panic(err)
	}
	return runtime.Instruction{
		ProgramID: c.SystemProgramID,
		Accounts: []runtime.AccountMeta{
			runtime.NewWritable(from, true),
			runtime.NewWritable(to, false),
		},
		Data: data,
	}
}

func processSystem(inv *invocation, infos []*runtime.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty system instruction", fault.ErrInvalidInstructionData)
	}
	if len(infos) < 2 {
		return fmt.Errorf("%w: need 2, got %d", fault.ErrNotEnoughAccountKeys, len(infos))
	}
	switch data[0] {
	case SystemCreateAccount:
		var l createAccountLayout
		if err := codec.Unmarshal(data, createAccountDataLen, &l); err != nil {
			return fmt.Errorf("%w: %w", fault.ErrInvalidInstructionData, err)
		}
		return inv.createAccount(infos[0], infos[1], l.Lamports, l.Space, l.Owner, nil)
	case SystemTransfer:
		var l amountLayout
		if err := codec.Unmarshal(data, transferDataLen, &l); err != nil {
			return fmt.Errorf("%w: %w", fault.ErrInvalidInstructionData, err)
		}
		return inv.transferLamports(infos[0], infos[1], l.Amount)
	default:
		return fmt.Errorf("%w: system instruction %d", fault.ErrInvalidInstructionData, data[0])
	}
}

// debit checks that [from] is a funded system account that authorized the
// payment and removes [lamports] from it.
func (inv *invocation) debit(from *runtime.AccountInfo, lamports uint64, signers []pda.Seeds) error {
	if err := inv.authorize(from, signers); err != nil {
		return err
	}
	if !from.IsWritable {
		return fmt.Errorf("%w: %s", fault.ErrNotWritable, from.Key)
	}
	if !from.IsOwnedBy(inv.exec.ledger.cfg.SystemProgramID) || !from.DataIsEmpty() {
		return fmt.Errorf("%w: payer %s owned by %s with %d bytes", fault.ErrOwnerMismatch, from.Key, from.Owner, len(from.Data))
	}
	balance, err := smath.Sub(from.Lamports, lamports)
	if err != nil {
		return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientLamports, from.Key, from.Lamports, lamports)
	}
	from.Lamports = balance
	return nil
}

func credit(to *runtime.AccountInfo, lamports uint64) error {
	if !to.IsWritable {
		return fmt.Errorf("%w: %s", fault.ErrNotWritable, to.Key)
	}
	balance, err := smath.Add64(to.Lamports, lamports)
	if err != nil {
		return fmt.Errorf("%w: crediting %s", fault.ErrArithmeticOverflow, to.Key)
	}
	to.Lamports = balance
	return nil
}

func (inv *invocation) createAccount(
	from, to *runtime.AccountInfo,
	lamports, space uint64,
	owner codec.Address,
	signers []pda.Seeds,
) error {
	cfg := inv.exec.ledger.cfg
	if err := inv.authorize(to, signers); err != nil {
		return err
	}
	if !to.IsWritable {
		return fmt.Errorf("%w: %s", fault.ErrNotWritable, to.Key)
	}
	if !to.IsOwnedBy(cfg.SystemProgramID) || !to.DataIsEmpty() || to.Lamports != 0 {
		return fmt.Errorf("%w: %s owned by %s with %d lamports", fault.ErrAccountInUse, to.Key, to.Owner, to.Lamports)
	}
	if space > MaxAccountSize {
		return fmt.Errorf("%w: %d > %d", ErrAccountTooLarge, space, MaxAccountSize)
	}
	if minimum := cfg.Rent.MinimumBalance(int(space)); lamports < minimum {
		return fmt.Errorf("%w: %d below rent exemption of %d", ErrInsufficientLamports, lamports, minimum)
	}
	if from.Key == to.Key {
		return fmt.Errorf("%w: %s funds itself", fault.ErrAccountInUse, to.Key)
	}
	if err := inv.debit(from, lamports, signers); err != nil {
		return err
	}
	to.Lamports = lamports
	to.Owner = owner
	to.Data = make([]byte, space)
	return nil
}

func (inv *invocation) transferLamports(from, to *runtime.AccountInfo, lamports uint64) error {
	if err := inv.debit(from, lamports, nil); err != nil {
		return err
	}
	return credit(to, lamports)
}
