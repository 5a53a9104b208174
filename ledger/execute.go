// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/runtime"
	"github.com/ava-labs/timelock/tstate"
)

var errStore = errors.New("store failure")

// execution is the state of one transaction. Every instruction runs against
// its own view of [ts]; a view is committed into [ts] only if its
// instruction succeeds, and [ts] reaches the database only if all of them
// do.
type execution struct {
	ledger  *Ledger
	ts      *tstate.TState
	signers set.Set[codec.Address]
	receipt *Receipt
}

func newTState(tx *Transaction) *tstate.TState {
	n := 0
	for _, ix := range tx.Instructions {
		n += len(ix.Accounts)
	}
	return tstate.New(n)
}

func (e *execution) executeInstruction(ctx context.Context, ix runtime.Instruction) error {
	l := e.ledger
	native, p, err := l.lookup(ix.ProgramID)
	if err != nil {
		return err
	}

	scope := make(tstate.Keys, len(ix.Accounts))
	storage := make(map[string][]byte, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		k := string(AccountKey(meta.Key))
		perm := tstate.Read
		if meta.IsWritable {
			perm = tstate.All
		}
		scope.Add(k, perm)
		if _, ok := storage[k]; ok {
			continue
		}
		v, err := l.db.Get([]byte(k))
		switch {
		case err == nil:
			storage[k] = v
		case errors.Is(err, database.ErrNotFound):
		default:
			return fmt.Errorf("%w: %w", errStore, err)
		}
	}
	view := e.ts.NewView(scope, storage)

	infos, err := e.loadAccounts(ctx, view, ix.Accounts)
	if err != nil {
		return err
	}

	inv := newInvocation(e, ix.ProgramID, infos)
	e.receipt.logf("invoke %s", ix.ProgramID)
	if native != nil {
		err = native(inv, infos, ix.Data)
	} else {
		err = p.Process(ctx, inv, infos, ix.Data)
		if err == nil {
			err = inv.verify(infos...)
		}
		if err == nil {
			err = inv.verifyBalanced(infos)
		}
	}
	if err != nil {
		e.receipt.logf("%s failed: %v", ix.ProgramID, err)
		return err
	}
	e.receipt.logf("%s success", ix.ProgramID)

	if err := e.store(ctx, view, infos); err != nil {
		return err
	}
	view.Commit()
	return nil
}

// loadAccounts builds the account list handed to a program. An address named
// more than once is backed by a single account, with the union of the
// privileges it was given.
func (e *execution) loadAccounts(
	ctx context.Context,
	view *tstate.TStateView,
	metas []runtime.AccountMeta,
) ([]*runtime.AccountInfo, error) {
	var (
		accounts = make(map[codec.Address]*runtime.Account, len(metas))
		signer   = set.NewSet[codec.Address](len(metas))
		writable = set.NewSet[codec.Address](len(metas))
	)
	for _, meta := range metas {
		if meta.IsSigner && e.signers.Contains(meta.Key) {
			signer.Add(meta.Key)
		}
		if meta.IsWritable {
			writable.Add(meta.Key)
		}
		if _, ok := accounts[meta.Key]; ok {
			continue
		}
		v, err := view.GetValue(ctx, AccountKey(meta.Key))
		switch {
		case err == nil:
			acct, err := decodeAccount(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", errStore, err)
			}
			accounts[meta.Key] = acct
		case errors.Is(err, database.ErrNotFound):
			accounts[meta.Key] = &runtime.Account{
				Owner: e.ledger.cfg.SystemProgramID,
				Data:  []byte{},
			}
		default:
			return nil, err
		}
	}

	infos := make([]*runtime.AccountInfo, len(metas))
	for i, meta := range metas {
		infos[i] = runtime.NewAccountInfo(
			meta.Key,
			signer.Contains(meta.Key),
			writable.Contains(meta.Key),
			accounts[meta.Key],
		)
	}
	return infos, nil
}

// store writes every writable account back to [view]. Accounts left without
// lamports are deleted.
func (e *execution) store(ctx context.Context, view *tstate.TStateView, infos []*runtime.AccountInfo) error {
	seen := set.NewSet[codec.Address](len(infos))
	for _, info := range infos {
		if !info.IsWritable || seen.Contains(info.Key) {
			continue
		}
		seen.Add(info.Key)

		k := AccountKey(info.Key)
		if info.Lamports == 0 {
			_, exists, err := view.Exists(ctx, k)
			if err != nil {
				return err
			}
			if !exists {
				continue
			}
			if err := view.Remove(ctx, k); err != nil {
				return err
			}
			e.ledger.metrics.accountsPurged.Inc()
			continue
		}
		v, err := encodeAccount(info.Account)
		if err != nil {
			return err
		}
		if err := view.Insert(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}
