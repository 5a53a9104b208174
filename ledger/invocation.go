// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/holiman/uint256"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/pda"
	"github.com/ava-labs/timelock/runtime"
)

var _ runtime.Host = (*invocation)(nil)

type snapshot struct {
	owner      codec.Address
	lamports   uint64
	executable bool
	data       []byte
}

func takeSnapshot(a *runtime.Account) snapshot {
	return snapshot{
		owner:      a.Owner,
		lamports:   a.Lamports,
		executable: a.Executable,
		data:       slices.Clone(a.Data),
	}
}

// invocation is the host seen by one instruction. It records the accounts as
// they were before the program ran so the program's direct changes can be
// checked once it returns. Changes made through a capability call are folded
// into the record as soon as the call completes.
type invocation struct {
	exec   *execution
	caller codec.Address

	pre      map[codec.Address]snapshot
	preTotal *uint256.Int
}

func newInvocation(e *execution, caller codec.Address, infos []*runtime.AccountInfo) *invocation {
	inv := &invocation{
		exec:   e,
		caller: caller,
		pre:    make(map[codec.Address]snapshot, len(infos)),
	}
	inv.refresh(infos...)
	inv.preTotal = totalLamports(infos)
	return inv
}

func (inv *invocation) refresh(infos ...*runtime.AccountInfo) {
	for _, info := range infos {
		inv.pre[info.Key] = takeSnapshot(info.Account)
	}
}

func totalLamports(infos []*runtime.AccountInfo) *uint256.Int {
	total := new(uint256.Int)
	seen := set.NewSet[codec.Address](len(infos))
	for _, info := range infos {
		if seen.Contains(info.Key) {
			continue
		}
		seen.Add(info.Key)
		total.AddUint64(total, info.Lamports)
	}
	return total
}

// verify checks what the calling program did to [infos] on its own since the
// last capability call.
func (inv *invocation) verify(infos ...*runtime.AccountInfo) error {
	for _, info := range infos {
		pre, ok := inv.pre[info.Key]
		if !ok {
			continue
		}
		dataChanged := !bytes.Equal(pre.data, info.Data)
		changed := dataChanged ||
			pre.owner != info.Owner ||
			pre.lamports != info.Lamports ||
			pre.executable != info.Executable
		if !changed {
			continue
		}
		if !info.IsWritable {
			return fmt.Errorf("%w: %s", ErrReadonlyModified, info.Key)
		}
		if pre.owner != info.Owner || pre.executable != info.Executable {
			return fmt.Errorf("%w: %s from %s to %s", ErrIllegalOwnerChange, info.Key, pre.owner, info.Owner)
		}
		if dataChanged && pre.owner != inv.caller {
			return fmt.Errorf("%w: %s owned by %s", ErrExternalDataModified, info.Key, pre.owner)
		}
		if info.Lamports < pre.lamports && pre.owner != inv.caller {
			return fmt.Errorf("%w: %s owned by %s", ErrExternalLamportSpend, info.Key, pre.owner)
		}
	}
	return nil
}

func (inv *invocation) verifyBalanced(infos []*runtime.AccountInfo) error {
	post := totalLamports(infos)
	if !post.Eq(inv.preTotal) {
		return fmt.Errorf("%w: %s before, %s after", ErrUnbalancedInstruction, inv.preTotal, post)
	}
	return nil
}

// authorize succeeds if [info] signed the transaction or is the address of
// one of [signers] under the calling program.
func (inv *invocation) authorize(info *runtime.AccountInfo, signers []pda.Seeds) error {
	if info.IsSigner {
		return nil
	}
	for _, seeds := range signers {
		addr, err := pda.CreateProgramAddress(seeds, inv.caller)
		if err == nil && addr == info.Key {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", fault.ErrMissingRequiredSignature, info.Key)
}

func (inv *invocation) call(touched []*runtime.AccountInfo, f func() error) error {
	if err := inv.verify(touched...); err != nil {
		return err
	}
	inv.exec.ledger.metrics.invocations.Inc()
	if err := f(); err != nil {
		return err
	}
	inv.refresh(touched...)
	return nil
}

func (inv *invocation) CreateAccount(
	_ context.Context,
	from, to *runtime.AccountInfo,
	lamports, space uint64,
	owner codec.Address,
	signers ...pda.Seeds,
) error {
	return inv.call([]*runtime.AccountInfo{from, to}, func() error {
		inv.exec.receipt.logf("invoke %s: create account %s", inv.exec.ledger.cfg.SystemProgramID, to.Key)
		return inv.createAccount(from, to, lamports, space, owner, signers)
	})
}

func (inv *invocation) Transfer(
	_ context.Context,
	source, destination, authority *runtime.AccountInfo,
	amount uint64,
	signers ...pda.Seeds,
) error {
	return inv.call([]*runtime.AccountInfo{source, destination, authority}, func() error {
		inv.exec.receipt.logf("invoke %s: transfer %d", inv.exec.ledger.cfg.TokenProgramID, amount)
		return inv.transferTokens(source, destination, authority, amount, signers)
	})
}

func (inv *invocation) CloseAccount(
	_ context.Context,
	account, destination, authority *runtime.AccountInfo,
	signers ...pda.Seeds,
) error {
	return inv.call([]*runtime.AccountInfo{account, destination, authority}, func() error {
		inv.exec.receipt.logf("invoke %s: close account %s", inv.exec.ledger.cfg.TokenProgramID, account.Key)
		return inv.closeTokenAccount(account, destination, authority, signers)
	})
}

func (inv *invocation) Slot() uint64 {
	return inv.exec.ledger.slot
}

func (inv *invocation) Rent() runtime.Rent {
	return inv.exec.ledger.cfg.Rent
}
