// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger_test

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/crypto/ed25519"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/ledger"
	"github.com/ava-labs/timelock/pebble"
	"github.com/ava-labs/timelock/program"
	"github.com/ava-labs/timelock/runtime"
	"github.com/ava-labs/timelock/sdk"
	"github.com/ava-labs/timelock/token"
)

const (
	adminLamports = 10_000_000_000
	minted        = 1_000
	decimals      = 6
)

type env struct {
	ledger  *ledger.Ledger
	builder *sdk.Builder
	admin   ed25519.PrivateKey
	mint    codec.Address
}

func newEnv(t *testing.T, db ledger.Store) *env {
	require := require.New(t)

	cfg := ledger.DefaultConfig()
	l, err := ledger.New(cfg, db, logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(l.Register(program.New(program.DefaultConfig(), logging.NoLog{})))

	admin, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	mintKey, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	require.NoError(l.Airdrop(admin.Address(), adminLamports))

	e := &env{
		ledger:  l,
		builder: sdk.New(program.DefaultConfig(), cfg),
		admin:   admin,
		mint:    mintKey.Address(),
	}
	ixs := e.builder.CreateMint(admin.Address(), e.mint, decimals, admin.Address())
	create, err := e.builder.CreateTokenAccount(admin.Address(), admin.Address(), e.mint)
	require.NoError(err)
	mintTo, err := e.builder.MintTo(e.mint, admin.Address(), admin.Address(), minted)
	require.NoError(err)
	ixs = append(ixs, create, mintTo)
	e.requireSuccess(t, e.send(t, []ed25519.PrivateKey{admin, mintKey}, ixs...))
	return e
}

func (e *env) send(t *testing.T, keys []ed25519.PrivateKey, ixs ...runtime.Instruction) *ledger.Receipt {
	require := require.New(t)

	tx := ledger.NewTx(keys[0].Address(), e.ledger.Slot(), ixs...)
	require.NoError(tx.Sign(keys...))
	r, err := e.ledger.ProcessTransaction(context.Background(), tx)
	require.NoError(err)
	return r
}

func (*env) requireSuccess(t *testing.T, r *ledger.Receipt) {
	require.True(t, r.Success, "failed with %v: %v", r.Err(), r.Logs)
}

func (*env) requireFailure(t *testing.T, r *ledger.Receipt, expected error) {
	require := require.New(t)
	require.False(r.Success)
	require.ErrorIs(r.Err(), expected)
	require.Equal(fault.CodeOf(expected), r.Code)
}

func (e *env) lock(t *testing.T, slots uint64, tokens *uint64) *ledger.Receipt {
	ixs, err := e.builder.LockVault(e.admin.Address(), e.mint, slots, tokens)
	require.NoError(t, err)
	return e.send(t, []ed25519.PrivateKey{e.admin}, ixs...)
}

func (e *env) empty(t *testing.T) *ledger.Receipt {
	ix, err := e.builder.EmptyVault(e.admin.Address(), e.mint)
	require.NoError(t, err)
	return e.send(t, []ed25519.PrivateKey{e.admin}, ix)
}

func (e *env) tokenBalance(t *testing.T, owner codec.Address) uint64 {
	require := require.New(t)

	addr, err := e.builder.TokenAccount(owner, e.mint)
	require.NoError(err)
	amount, err := e.ledger.TokenBalance(addr)
	require.NoError(err)
	return amount
}

func (e *env) vaultKey(t *testing.T) codec.Address {
	addr, _, err := e.builder.VaultAddress(e.admin.Address(), e.mint)
	require.NoError(t, err)
	return addr
}

func (e *env) requireGone(t *testing.T, addrs ...codec.Address) {
	require := require.New(t)
	for _, addr := range addrs {
		exists, err := e.ledger.Exists(addr)
		require.NoError(err)
		require.False(exists, "%s still exists", addr)
	}
}

func TestLockAndEmpty(t *testing.T) {
	require := require.New(t)
	e := newEnv(t, memdb.New())
	admin := e.admin.Address()
	vaultKey := e.vaultKey(t)
	vaultToken, err := e.builder.TokenAccount(vaultKey, e.mint)
	require.NoError(err)
	cfg := e.ledger.Config()

	before, err := e.ledger.Balance(admin)
	require.NoError(err)
	lockSlot := e.ledger.Slot()
	e.requireSuccess(t, e.lock(t, 100, nil))

	require.Zero(e.tokenBalance(t, admin))
	require.Equal(uint64(minted), e.tokenBalance(t, vaultKey))

	acct, err := e.ledger.Account(vaultKey)
	require.NoError(err)
	require.Equal(program.DefaultProgramID, acct.Owner)
	require.Equal(cfg.Rent.MinimumBalance(len(acct.Data)), acct.Lamports)
	v, err := sdk.DecodeVault(acct.Data)
	require.NoError(err)
	require.Equal(admin, v.Admin)
	require.Equal(e.mint, v.Mint)
	require.Equal(vaultToken, v.VaultToken)
	require.Equal(uint8(decimals), v.MintDecimals)
	require.Equal(lockSlot, v.StartSlot)
	require.Equal(uint64(100), v.SlotsLocked)

	vaults, err := e.ledger.ProgramAccounts(program.DefaultProgramID, sdk.AdminFilter(admin))
	require.NoError(err)
	require.Len(vaults, 1)
	require.Equal(vaultKey, vaults[0].Key)

	require.NoError(e.ledger.WarpSlots(99))
	e.requireFailure(t, e.empty(t), fault.ErrVaultLocked)
	require.Equal(uint64(minted), e.tokenBalance(t, vaultKey))

	require.NoError(e.ledger.WarpSlots(1))
	r := e.empty(t)
	e.requireSuccess(t, r)
	require.NotEmpty(r.Logs)

	require.Equal(uint64(minted), e.tokenBalance(t, admin))
	e.requireGone(t, vaultKey, vaultToken)

	// The vault's rent comes back to the admin. The rent of the vault's
	// token account is returned to the admin's token account.
	after, err := e.ledger.Balance(admin)
	require.NoError(err)
	require.Equal(before-cfg.Rent.MinimumBalance(token.AccountLen), after)

	vaults, err = e.ledger.ProgramAccounts(program.DefaultProgramID, sdk.AdminFilter(admin))
	require.NoError(err)
	require.Empty(vaults)
}

func TestLockPartial(t *testing.T) {
	require := require.New(t)
	e := newEnv(t, memdb.New())
	admin := e.admin.Address()

	tokens := uint64(400)
	e.requireSuccess(t, e.lock(t, 0, &tokens))
	require.Equal(uint64(600), e.tokenBalance(t, admin))
	require.Equal(uint64(400), e.tokenBalance(t, e.vaultKey(t)))

	// A zero slot lock can be emptied right away.
	e.requireSuccess(t, e.empty(t))
	require.Equal(uint64(minted), e.tokenBalance(t, admin))
}

func TestLockExceedsBalance(t *testing.T) {
	require := require.New(t)
	e := newEnv(t, memdb.New())
	admin := e.admin.Address()
	vaultKey := e.vaultKey(t)
	vaultToken, err := e.builder.TokenAccount(vaultKey, e.mint)
	require.NoError(err)
	before, err := e.ledger.Balance(admin)
	require.NoError(err)

	tokens := uint64(minted + 500)
	r := e.lock(t, 10, &tokens)
	e.requireFailure(t, r, fault.ErrAmountExceedsBalance)
	require.Equal(1, r.FailedInstruction)

	// The token account created earlier in the transaction is rolled back.
	e.requireGone(t, vaultKey, vaultToken)
	require.Equal(uint64(minted), e.tokenBalance(t, admin))
	after, err := e.ledger.Balance(admin)
	require.NoError(err)
	require.Equal(before, after)
}

func TestLockTwice(t *testing.T) {
	require := require.New(t)
	e := newEnv(t, memdb.New())

	tokens := uint64(400)
	e.requireSuccess(t, e.lock(t, 10, &tokens))
	require.NoError(e.ledger.WarpSlots(1))
	e.requireFailure(t, e.lock(t, 10, &tokens), fault.ErrAccountInUse)
	require.Equal(uint64(600), e.tokenBalance(t, e.admin.Address()))
	require.Equal(uint64(400), e.tokenBalance(t, e.vaultKey(t)))
}

func TestDuplicateTransaction(t *testing.T) {
	require := require.New(t)
	e := newEnv(t, memdb.New())
	admin := e.admin.Address()
	transfer := e.ledger.Config().TransferLamportsInstruction(admin, codec.Address{0x01}, 1)

	tx := ledger.NewTx(admin, e.ledger.Slot(), transfer)
	require.NoError(tx.Sign(e.admin))
	r, err := e.ledger.ProcessTransaction(context.Background(), tx)
	require.NoError(err)
	e.requireSuccess(t, r)

	_, err = e.ledger.ProcessTransaction(context.Background(), tx)
	require.ErrorIs(err, ledger.ErrDuplicateTx)

	// Still remembered on the last slot it could land in.
	require.NoError(e.ledger.WarpSlots(ledger.DefaultMaxTxAge))
	_, err = e.ledger.ProcessTransaction(context.Background(), tx)
	require.ErrorIs(err, ledger.ErrDuplicateTx)

	// Failed transactions are remembered too.
	fail := ledger.NewTx(admin, e.ledger.Slot(), e.ledger.Config().TransferLamportsInstruction(admin, codec.Address{0x01}, adminLamports*2))
	require.NoError(fail.Sign(e.admin))
	r, err = e.ledger.ProcessTransaction(context.Background(), fail)
	require.NoError(err)
	require.False(r.Success)
	_, err = e.ledger.ProcessTransaction(context.Background(), fail)
	require.ErrorIs(err, ledger.ErrDuplicateTx)

	balance, err := e.ledger.Balance(codec.Address{0x01})
	require.NoError(err)
	require.Equal(uint64(1), balance)
}

func TestEmptyByOther(t *testing.T) {
	require := require.New(t)
	e := newEnv(t, memdb.New())
	e.requireSuccess(t, e.lock(t, 0, nil))

	other, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	require.NoError(e.ledger.Airdrop(other.Address(), adminLamports))

	// Emptying the vault of someone else derives a vault that does not
	// exist.
	ix, err := e.builder.EmptyVault(other.Address(), e.mint)
	require.NoError(err)
	ix.Accounts[program.AccountVault] = runtime.NewWritable(e.vaultKey(t), false)
	r := e.send(t, []ed25519.PrivateKey{other}, ix)
	require.False(r.Success)
	require.Equal(uint64(minted), e.tokenBalance(t, e.vaultKey(t)))
}

func TestTransactionRejected(t *testing.T) {
	e := newEnv(t, memdb.New())
	admin := e.admin.Address()
	transfer := e.ledger.Config().TransferLamportsInstruction(admin, codec.Address{0x01}, 1)

	tests := []struct {
		name        string
		tx          func(*testing.T) *ledger.Transaction
		expectedErr error
	}{
		{
			name: "no instructions",
			tx: func(t *testing.T) *ledger.Transaction {
				tx := ledger.NewTx(admin, e.ledger.Slot())
				require.NoError(t, tx.Sign(e.admin))
				return tx
			},
			expectedErr: ledger.ErrNoInstructions,
		},
		{
			name: "tampered",
			tx: func(t *testing.T) *ledger.Transaction {
				tx := ledger.NewTx(admin, e.ledger.Slot(), transfer)
				require.NoError(t, tx.Sign(e.admin))
				tx.Instructions[0].Data = append([]byte{}, tx.Instructions[0].Data...)
				tx.Instructions[0].Data[1]++
				return tx
			},
			expectedErr: ledger.ErrInvalidSignature,
		},
		{
			name: "fee payer did not sign",
			tx: func(t *testing.T) *ledger.Transaction {
				other, err := ed25519.GeneratePrivateKey()
				require.NoError(t, err)
				tx := ledger.NewTx(admin, e.ledger.Slot(), transfer)
				require.NoError(t, tx.Sign(other))
				return tx
			},
			expectedErr: ledger.ErrFeePayerNotSigner,
		},
		{
			name: "future slot",
			tx: func(t *testing.T) *ledger.Transaction {
				tx := ledger.NewTx(admin, e.ledger.Slot()+1, transfer)
				require.NoError(t, tx.Sign(e.admin))
				return tx
			},
			expectedErr: ledger.ErrFutureSlot,
		},
		{
			name: "expired",
			tx: func(t *testing.T) *ledger.Transaction {
				tx := ledger.NewTx(admin, e.ledger.Slot(), transfer)
				require.NoError(t, tx.Sign(e.admin))
				require.NoError(t, e.ledger.WarpSlots(ledger.DefaultMaxTxAge+1))
				return tx
			},
			expectedErr: ledger.ErrTxExpired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ledger.ProcessTransaction(context.Background(), tt.tx(t))
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestMissingSignature(t *testing.T) {
	require := require.New(t)
	e := newEnv(t, memdb.New())

	ixs, err := e.builder.LockVault(e.admin.Address(), e.mint, 10, nil)
	require.NoError(err)

	payer, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	require.NoError(e.ledger.Airdrop(payer.Address(), adminLamports))

	// The admin is marked as a signer but never signs.
	tx := ledger.NewTx(payer.Address(), e.ledger.Slot(), ixs...)
	require.NoError(tx.Sign(payer))
	_, err = e.ledger.ProcessTransaction(context.Background(), tx)
	require.ErrorIs(err, ledger.ErrMissingSignature)
}

func TestWarp(t *testing.T) {
	require := require.New(t)
	e := newEnv(t, memdb.New())

	require.Equal(uint64(ledger.DefaultGenesisSlot), e.ledger.Slot())
	require.NoError(e.ledger.WarpSlots(10))
	require.NoError(e.ledger.WarpToSlot(100))
	require.Equal(uint64(100), e.ledger.Slot())
	require.ErrorIs(e.ledger.WarpToSlot(99), ledger.ErrSlotInPast)
	require.ErrorIs(e.ledger.WarpSlots(^uint64(0)), fault.ErrArithmeticOverflow)
}

func TestAirdropOverflow(t *testing.T) {
	require := require.New(t)
	e := newEnv(t, memdb.New())

	addr := codec.Address{0x42}
	require.NoError(e.ledger.Airdrop(addr, ^uint64(0)))
	require.ErrorIs(e.ledger.Airdrop(addr, 1), fault.ErrArithmeticOverflow)
	balance, err := e.ledger.Balance(addr)
	require.NoError(err)
	require.Equal(^uint64(0), balance)
}

type rogueProgram struct {
	id     codec.Address
	modify func(infos []*runtime.AccountInfo)
}

func (p *rogueProgram) ID() codec.Address { return p.id }

func (p *rogueProgram) Process(_ context.Context, _ runtime.Host, infos []*runtime.AccountInfo, _ []byte) error {
	p.modify(infos)
	return nil
}

func TestProgramChecks(t *testing.T) {
	var (
		writable = codec.Address{0x11}
		readonly = codec.Address{0x12}
		other    = codec.Address{0x13}
	)
	tests := []struct {
		name        string
		modify      func(infos []*runtime.AccountInfo)
		expectedErr error
	}{
		{
			name: "no change",
			modify: func([]*runtime.AccountInfo) {
			},
		},
		{
			name: "readonly modified",
			modify: func(infos []*runtime.AccountInfo) {
				infos[1].Lamports--
				infos[0].Lamports++
			},
			expectedErr: ledger.ErrReadonlyModified,
		},
		{
			name: "external data",
			modify: func(infos []*runtime.AccountInfo) {
				infos[0].Data = []byte{1}
			},
			expectedErr: ledger.ErrExternalDataModified,
		},
		{
			name: "external spend",
			modify: func(infos []*runtime.AccountInfo) {
				infos[0].Lamports--
				infos[2].Lamports++
			},
			expectedErr: ledger.ErrExternalLamportSpend,
		},
		{
			name: "owner change",
			modify: func(infos []*runtime.AccountInfo) {
				infos[0].Owner = codec.Address{0xee}
			},
			expectedErr: ledger.ErrIllegalOwnerChange,
		},
		{
			name: "minted lamports",
			modify: func(infos []*runtime.AccountInfo) {
				infos[2].Lamports++
			},
			expectedErr: ledger.ErrUnbalancedInstruction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			e := newEnv(t, memdb.New())
			for _, addr := range []codec.Address{writable, readonly, other} {
				require.NoError(e.ledger.Airdrop(addr, 1_000))
			}
			p := &rogueProgram{id: codec.Address{0xee}, modify: tt.modify}
			require.NoError(e.ledger.Register(p))
			require.ErrorIs(e.ledger.Register(p), ledger.ErrDuplicateProgram)

			r := e.send(t, []ed25519.PrivateKey{e.admin}, runtime.Instruction{
				ProgramID: p.id,
				Accounts: []runtime.AccountMeta{
					runtime.NewWritable(writable, false),
					runtime.NewReadonly(readonly, false),
					runtime.NewWritable(other, false),
				},
			})
			if tt.expectedErr == nil {
				e.requireSuccess(t, r)
				return
			}
			require.False(r.Success)
			require.ErrorIs(r.Err(), tt.expectedErr)
			for _, addr := range []codec.Address{writable, readonly, other} {
				balance, err := e.ledger.Balance(addr)
				require.NoError(err)
				require.Equal(uint64(1_000), balance)
			}
		})
	}
}

func TestUnknownProgram(t *testing.T) {
	require := require.New(t)
	e := newEnv(t, memdb.New())

	r := e.send(t, []ed25519.PrivateKey{e.admin}, runtime.Instruction{ProgramID: codec.Address{0xff}})
	require.False(r.Success)
	require.ErrorIs(r.Err(), ledger.ErrUnknownProgram)
}

func TestReopen(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	db, err := pebble.New(dir, pebble.NewDefaultConfig(), prometheus.NewRegistry())
	require.NoError(err)
	e := newEnv(t, db)
	e.requireSuccess(t, e.lock(t, 50, nil))
	require.NoError(e.ledger.WarpSlots(20))
	slot := e.ledger.Slot()
	require.NoError(e.ledger.Close())

	db, err = pebble.New(dir, pebble.NewDefaultConfig(), prometheus.NewRegistry())
	require.NoError(err)
	l, err := ledger.New(ledger.DefaultConfig(), db, logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)
	defer func() {
		require.NoError(l.Close())
	}()
	require.Equal(slot, l.Slot())

	vaults, err := l.ProgramAccounts(program.DefaultProgramID, sdk.AdminFilter(e.admin.Address()))
	require.NoError(err)
	require.Len(vaults, 1)
	v, err := sdk.DecodeVault(vaults[0].Data)
	require.NoError(err)
	require.Equal(uint64(30), v.Remaining(slot))
}
