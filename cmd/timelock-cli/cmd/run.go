// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/crypto/ed25519"
	"github.com/ava-labs/timelock/ledger"
	"github.com/ava-labs/timelock/runtime"
	"github.com/ava-labs/timelock/sdk"
)

type runCmd struct {
	app *app
	out io.Writer
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [path]",
		Short: "Run a plan of vault operations, reading from stdin if path is -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := readPlan(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			r := &runCmd{app: a, out: cmd.OutOrStdout()}
			return r.Run(cmd.Context(), plan)
		},
	}
}

func readPlan(path string, stdin io.Reader) (*Plan, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	plan, err := unmarshalPlan(b)
	if err != nil {
		return nil, err
	}
	return plan, plan.verify()
}

// Run executes every step of [plan], printing one response per step. A
// failed transaction is reported, not returned; only a failed assertion
// stops the plan.
func (r *runCmd) Run(ctx context.Context, plan *Plan) error {
	log := r.app.log
	log.Info("running plan",
		zap.String("name", plan.Name),
		zap.Int("steps", len(plan.Steps)),
	)

	for i, step := range plan.Steps {
		log.Info("step",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("op", string(step.Op)),
		)

		resp := NewResponse(i)
		if err := r.runStep(ctx, &step, &resp.Result); err != nil {
			resp.Error = err.Error()
		}
		if err := resp.Print(r.out); err != nil {
			return err
		}
		if err := step.Require.check(&resp.Result); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (r *runCmd) runStep(ctx context.Context, step *Step, result *Result) error {
	a := r.app
	switch step.Op {
	case OpKey:
		priv, ok, err := getKey(a.db, step.Admin)
		if err != nil {
			return err
		}
		if !ok {
			priv, err = keyCreateFunc(a.db, step.Admin)
			if err != nil {
				return err
			}
		}
		if step.Amount != nil {
			if err := a.ledger.Airdrop(priv.Address(), *step.Amount); err != nil {
				return err
			}
		}
		result.Success = true
		result.Msg = priv.Address().String()
		result.Value, err = a.ledger.Balance(priv.Address())
		return err

	case OpMint:
		return r.mint(ctx, step, result)

	case OpLock:
		admin, err := mustGetKey(a.db, step.Admin)
		if err != nil {
			return err
		}
		mint, err := resolveAddress(a.db, step.Mint)
		if err != nil {
			return err
		}
		ixs, err := a.builder.LockVault(admin.Address(), mint, step.Slots, step.Amount)
		if err != nil {
			return err
		}
		if err := r.send(ctx, []ed25519.PrivateKey{admin}, ixs, result); err != nil {
			return err
		}
		vaultKey, _, err := a.builder.VaultAddress(admin.Address(), mint)
		if err != nil {
			return err
		}
		return r.tokenBalance(vaultKey, mint, result)

	case OpEmpty:
		admin, err := mustGetKey(a.db, step.Admin)
		if err != nil {
			return err
		}
		mint, err := resolveAddress(a.db, step.Mint)
		if err != nil {
			return err
		}
		ix, err := a.builder.EmptyVault(admin.Address(), mint)
		if err != nil {
			return err
		}
		if err := r.send(ctx, []ed25519.PrivateKey{admin}, []runtime.Instruction{ix}, result); err != nil {
			return err
		}
		return r.tokenBalance(admin.Address(), mint, result)

	case OpWarp:
		if err := a.ledger.WarpSlots(step.Slots); err != nil {
			return err
		}
		result.Success = true
		result.Value = a.ledger.Slot()
		return nil

	case OpBalance:
		name := step.Owner
		if name == "" {
			name = step.Admin
		}
		owner, err := resolveAddress(a.db, name)
		if err != nil {
			return err
		}
		result.Success = true
		if step.Mint == "" {
			result.Value, err = a.ledger.Balance(owner)
			return err
		}
		mint, err := resolveAddress(a.db, step.Mint)
		if err != nil {
			return err
		}
		return r.tokenBalance(owner, mint, result)

	case OpVault:
		admin, mint, err := a.resolvePair(step.Admin, step.Mint)
		if err != nil {
			return err
		}
		vaultKey, _, err := a.builder.VaultAddress(admin, mint)
		if err != nil {
			return err
		}
		exists, err := a.ledger.Exists(vaultKey)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrVaultNotFound, vaultKey)
		}
		acct, err := a.ledger.Account(vaultKey)
		if err != nil {
			return err
		}
		v, err := sdk.DecodeVault(acct.Data)
		if err != nil {
			return err
		}
		result.Success = true
		result.Value = v.Remaining(a.ledger.Slot())
		result.Msg = v.String()
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, step.Op)
	}
}

// mint creates [step.Mint] on first use, with [step.Admin] as its authority,
// then issues [step.Amount] tokens to [step.Owner] (the admin by default).
func (r *runCmd) mint(ctx context.Context, step *Step, result *Result) error {
	a := r.app
	admin, err := mustGetKey(a.db, step.Admin)
	if err != nil {
		return err
	}
	mintKey, ok, err := getKey(a.db, step.Mint)
	if err != nil {
		return err
	}
	if !ok {
		mintKey, err = keyCreateFunc(a.db, step.Mint)
		if err != nil {
			return err
		}
	}
	mint := mintKey.Address()
	owner := admin.Address()
	if step.Owner != "" {
		owner, err = resolveAddress(a.db, step.Owner)
		if err != nil {
			return err
		}
	}

	var (
		ixs  []runtime.Instruction
		keys = []ed25519.PrivateKey{admin}
	)
	exists, err := a.ledger.Exists(mint)
	if err != nil {
		return err
	}
	if !exists {
		ixs = append(ixs, a.builder.CreateMint(admin.Address(), mint, step.Decimals, admin.Address())...)
		keys = append(keys, mintKey)
	}
	create, err := a.builder.CreateTokenAccount(admin.Address(), owner, mint)
	if err != nil {
		return err
	}
	ixs = append(ixs, create)
	if step.Amount != nil {
		mintTo, err := a.builder.MintTo(mint, owner, admin.Address(), *step.Amount)
		if err != nil {
			return err
		}
		ixs = append(ixs, mintTo)
	}
	if err := r.send(ctx, keys, ixs, result); err != nil {
		return err
	}
	return r.tokenBalance(owner, mint, result)
}

// send signs [ixs] with [keys], the first of which pays, and records the
// receipt in [result].
func (r *runCmd) send(ctx context.Context, keys []ed25519.PrivateKey, ixs []runtime.Instruction, result *Result) error {
	l := r.app.ledger
	tx := ledger.NewTx(keys[0].Address(), l.Slot(), ixs...)
	if err := tx.Sign(keys...); err != nil {
		return err
	}
	receipt, err := l.ProcessTransaction(ctx, tx)
	if err != nil {
		return err
	}
	result.TxID = receipt.TxID.String()
	result.Success = receipt.Success
	result.Code = receipt.Code
	result.Error = receipt.Error
	if !receipt.Success {
		r.app.log.Debug("transaction failed",
			zap.Strings("logs", receipt.Logs),
			zap.Error(receipt.Err()),
		)
	}
	return nil
}

// tokenBalance reports the associated token account balance of [owner]. An
// account that does not exist holds nothing.
func (r *runCmd) tokenBalance(owner, mint codec.Address, result *Result) error {
	a := r.app
	addr, err := a.builder.TokenAccount(owner, mint)
	if err != nil {
		return err
	}
	exists, err := a.ledger.Exists(addr)
	if err != nil {
		return err
	}
	if !exists {
		result.Value = 0
		return nil
	}
	result.Value, err = a.ledger.TokenBalance(addr)
	return err
}
