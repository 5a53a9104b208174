// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/pda"
	"github.com/ava-labs/timelock/runtime"
	"github.com/ava-labs/timelock/token"
	"github.com/ava-labs/timelock/vault"
)

const (
	adminLamports = 10_000_000_000
	startSlot     = 1
)

var (
	testAdmin      = codec.Address{0x01, 0xad}
	testMint       = codec.Address{0x02, 0x4d}
	testAdminToken = codec.Address{0x03}
	testVaultToken = codec.Address{0x04}
)

type testHost struct {
	*runtime.MockInvoker
	slot uint64
}

func (h *testHost) Slot() uint64 { return h.slot }

func (*testHost) Rent() runtime.Rent { return runtime.DefaultRent }

type fixture struct {
	cfg      Config
	vaultKey codec.Address
	salt     uint8
	infos    []*runtime.AccountInfo
}

func (f *fixture) info(i int) *runtime.AccountInfo { return f.infos[i] }

func tokenAccountData(t *testing.T, mint, owner codec.Address, amount uint64) []byte {
	b, err := (&token.Account{
		Mint:   mint,
		Owner:  owner,
		Amount: amount,
		State:  token.StateInitialized,
	}).Encode()
	require.NoError(t, err)
	return b
}

// newFixture returns the accounts of a lock request from an admin holding
// [balance] tokens.
func newFixture(t *testing.T, balance uint64) *fixture {
	require := require.New(t)

	cfg := DefaultConfig()
	vaultKey, salt, err := vault.FindAddress(cfg.ProgramID, testAdmin, testMint)
	require.NoError(err)

	mintData, err := (&token.Mint{Decimals: 6, IsInitialized: true, Supply: balance}).Encode()
	require.NoError(err)

	infos := make([]*runtime.AccountInfo, NumAccounts)
	infos[AccountVault] = runtime.NewAccountInfo(vaultKey, false, true, &runtime.Account{
		Owner: cfg.SystemProgramID,
	})
	infos[AccountAdmin] = runtime.NewAccountInfo(testAdmin, true, true, &runtime.Account{
		Owner:    cfg.SystemProgramID,
		Lamports: adminLamports,
	})
	infos[AccountMint] = runtime.NewAccountInfo(testMint, false, false, &runtime.Account{
		Owner: cfg.TokenProgramID,
		Data:  mintData,
	})
	infos[AccountAdminToken] = runtime.NewAccountInfo(testAdminToken, false, true, &runtime.Account{
		Owner: cfg.TokenProgramID,
		Data:  tokenAccountData(t, testMint, testAdmin, balance),
	})
	infos[AccountVaultToken] = runtime.NewAccountInfo(testVaultToken, false, true, &runtime.Account{
		Owner: cfg.TokenProgramID,
		Data:  tokenAccountData(t, testMint, vaultKey, 0),
	})
	infos[AccountTokenProgram] = runtime.NewAccountInfo(cfg.TokenProgramID, false, false, &runtime.Account{Executable: true})
	infos[AccountSystemProgram] = runtime.NewAccountInfo(cfg.SystemProgramID, false, false, &runtime.Account{Executable: true})
	return &fixture{
		cfg:      cfg,
		vaultKey: vaultKey,
		salt:     salt,
		infos:    infos,
	}
}

// lock turns the fixture into the accounts of an empty request for a vault
// created at [startSlot] holding [amount] tokens for [slots] slots.
func (f *fixture) lock(t *testing.T, amount uint64, slots uint64) {
	require := require.New(t)

	v := f.info(AccountVault)
	v.Owner = f.cfg.ProgramID
	v.Lamports = runtime.DefaultRent.MinimumBalance(vault.Len)
	v.Data = make([]byte, vault.Len)
	require.NoError(vault.Initialize(
		v.Data,
		testAdmin,
		testMint,
		vault.LockParams{Salt: f.salt, SlotsToLock: slots},
		testVaultToken,
		6,
		startSlot,
	))
	f.info(AccountAdminToken).Data = tokenAccountData(t, testMint, testAdmin, 0)
	f.info(AccountVaultToken).Data = tokenAccountData(t, testMint, f.vaultKey, amount)
}

func lockData(t *testing.T, salt uint8, slots uint64, tokens *uint64) []byte {
	b, err := NewLockData(salt, slots, tokens).Encode()
	require.NoError(t, err)
	return b
}

func newProgram() *Program {
	return New(DefaultConfig(), logging.NoLog{})
}

func TestProcessUnknownOperation(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := &testHost{MockInvoker: runtime.NewMockInvoker(ctrl), slot: 1}
	f := newFixture(t, 1_000)

	for _, data := range [][]byte{nil, {}, {0}, {3}, {0xff, 1, 2}} {
		err := newProgram().Process(context.Background(), host, f.infos, data)
		require.ErrorIs(t, err, fault.ErrUnknownOperation)
		require.True(t, fault.IsStructural(err))
	}
}

func TestLockChecks(t *testing.T) {
	tokens := func(v uint64) *uint64 { return &v }

	tests := []struct {
		name   string
		mutate func(*fixture)
		data   func(*fixture) []byte
		err    error
	}{
		{
			name:   "not enough accounts",
			mutate: func(f *fixture) { f.infos = f.infos[:NumAccounts-1] },
			err:    fault.ErrNotEnoughAccountKeys,
		},
		{
			name: "short payload",
			data: func(*fixture) []byte { return []byte{uint8(OperationLock), 1} },
			err:  fault.ErrInvalidInstructionData,
		},
		{
			name: "corrupt amount tag",
			data: func(f *fixture) []byte {
				b := lockData(t, f.salt, 10, nil)
				b[10] = 2
				return b
			},
			err: fault.ErrInvalidInstructionData,
		},
		{
			name:   "wrong token program",
			mutate: func(f *fixture) { f.info(AccountTokenProgram).Key = codec.Address{0xee} },
			err:    fault.ErrIncorrectProgramID,
		},
		{
			name:   "wrong system program",
			mutate: func(f *fixture) { f.info(AccountSystemProgram).Key = codec.Address{0xee} },
			err:    fault.ErrIncorrectProgramID,
		},
		{
			name:   "vault already owned",
			mutate: func(f *fixture) { f.info(AccountVault).Owner = f.cfg.ProgramID },
			err:    fault.ErrAccountInUse,
		},
		{
			name:   "vault holds data",
			mutate: func(f *fixture) { f.info(AccountVault).Data = []byte{0} },
			err:    fault.ErrAccountInUse,
		},
		{
			name:   "vault not writable",
			mutate: func(f *fixture) { f.info(AccountVault).IsWritable = false },
			err:    fault.ErrNotWritable,
		},
		{
			name:   "admin did not sign",
			mutate: func(f *fixture) { f.info(AccountAdmin).IsSigner = false },
			err:    fault.ErrMissingRequiredSignature,
		},
		{
			name: "wrong salt",
			data: func(f *fixture) []byte { return lockData(t, f.salt-1, 10, nil) },
			err:  fault.ErrAddressMismatch,
		},
		{
			name:   "mint not owned by token program",
			mutate: func(f *fixture) { f.info(AccountMint).Owner = f.cfg.SystemProgramID },
			err:    fault.ErrOwnerMismatch,
		},
		{
			name: "vault token account owned by admin",
			mutate: func(f *fixture) {
				f.info(AccountVaultToken).Data = tokenAccountData(t, testMint, testAdmin, 0)
			},
			err: fault.ErrOwnerMismatch,
		},
		{
			name: "admin token account for another mint",
			mutate: func(f *fixture) {
				f.info(AccountAdminToken).Data = tokenAccountData(t, codec.Address{0x99}, testAdmin, 1_000)
			},
			err: fault.ErrMintMismatch,
		},
		{
			name: "amount exceeds balance",
			data: func(f *fixture) []byte { return lockData(t, f.salt, 10, tokens(1_500)) },
			err:  fault.ErrAmountExceedsBalance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			// no expectations: any capability call fails the test
			ctrl := gomock.NewController(t)
			host := &testHost{MockInvoker: runtime.NewMockInvoker(ctrl), slot: 5}

			f := newFixture(t, 1_000)
			if tt.mutate != nil {
				tt.mutate(f)
			}
			data := lockData(t, f.salt, 10, nil)
			if tt.data != nil {
				data = tt.data(f)
			}
			err := newProgram().Process(context.Background(), host, f.infos, data)
			require.ErrorIs(err, tt.err)
		})
	}
}

func TestLockEffects(t *testing.T) {
	tests := []struct {
		name   string
		tokens *uint64
		amount uint64
	}{
		{name: "everything", amount: 1_000},
		{name: "partial", tokens: func() *uint64 { v := uint64(400); return &v }(), amount: 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			ctrl := gomock.NewController(t)
			host := &testHost{MockInvoker: runtime.NewMockInvoker(ctrl), slot: 42}
			f := newFixture(t, 1_000)
			seeds := vault.Seeds(testAdmin, testMint, f.salt)
			rent := runtime.DefaultRent.MinimumBalance(vault.Len)

			gomock.InOrder(
				host.EXPECT().CreateAccount(
					gomock.Any(),
					f.info(AccountAdmin),
					f.info(AccountVault),
					rent,
					uint64(vault.Len),
					f.cfg.ProgramID,
					seeds,
				).DoAndReturn(func(
					_ context.Context,
					from, to *runtime.AccountInfo,
					lamports, space uint64,
					owner codec.Address,
					_ ...pda.Seeds,
				) error {
					from.Lamports -= lamports
					to.Lamports += lamports
					to.Data = make([]byte, space)
					to.Owner = owner
					return nil
				}),
				host.EXPECT().Transfer(
					gomock.Any(),
					f.info(AccountAdminToken),
					f.info(AccountVaultToken),
					f.info(AccountAdmin),
					tt.amount,
				).Return(nil),
			)

			err := newProgram().Process(context.Background(), host, f.infos, lockData(t, f.salt, 100, tt.tokens))
			require.NoError(err)

			v, err := vault.Decode(f.info(AccountVault).Data)
			require.NoError(err)
			require.Equal(f.salt, v.Salt)
			require.Equal(testAdmin, v.Admin)
			require.Equal(testMint, v.Mint)
			require.Equal(testVaultToken, v.VaultToken)
			require.Equal(uint8(6), v.MintDecimals)
			require.Equal(uint64(42), v.StartSlot)
			require.Equal(uint64(100), v.SlotsLocked)
			require.Equal(uint64(adminLamports)-rent, f.info(AccountAdmin).Lamports)
		})
	}
}

func TestLockCreateAccountFails(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	host := &testHost{MockInvoker: runtime.NewMockInvoker(ctrl), slot: 42}
	f := newFixture(t, 1_000)

	errCreate := errors.New("create failed")
	host.EXPECT().CreateAccount(
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
	).Return(errCreate)

	err := newProgram().Process(context.Background(), host, f.infos, lockData(t, f.salt, 100, nil))
	require.ErrorIs(err, errCreate)
}

func TestEmptyChecks(t *testing.T) {
	otherAdmin := codec.Address{0x77}

	tests := []struct {
		name   string
		slot   uint64
		mutate func(*fixture)
		data   []byte
		err    error
	}{
		{
			name: "still locked",
			slot: startSlot + 9,
			err:  fault.ErrVaultLocked,
		},
		{
			name: "malformed request is reported before the lock",
			slot: startSlot + 9,
			mutate: func(f *fixture) {
				f.info(AccountVaultToken).Data = tokenAccountData(t, codec.Address{0x99}, f.vaultKey, 1_000)
			},
			err: fault.ErrMintMismatch,
		},
		{
			name: "payload too long",
			slot: startSlot + 10,
			data: []byte{uint8(OperationEmpty), 0},
			err:  fault.ErrInvalidInstructionData,
		},
		{
			name:   "wrong system program",
			slot:   startSlot + 10,
			mutate: func(f *fixture) { f.info(AccountSystemProgram).Key = codec.Address{0xee} },
			err:    fault.ErrIncorrectProgramID,
		},
		{
			name:   "admin did not sign",
			slot:   startSlot + 10,
			mutate: func(f *fixture) { f.info(AccountAdmin).IsSigner = false },
			err:    fault.ErrMissingRequiredSignature,
		},
		{
			name: "admin token account owned by someone else",
			slot: startSlot + 10,
			mutate: func(f *fixture) {
				f.info(AccountAdminToken).Data = tokenAccountData(t, testMint, otherAdmin, 0)
			},
			err: fault.ErrOwnerMismatch,
		},
		{
			name: "vault token account not owned by vault",
			slot: startSlot + 10,
			mutate: func(f *fixture) {
				f.info(AccountVaultToken).Data = tokenAccountData(t, testMint, testAdmin, 1_000)
			},
			err: fault.ErrOwnerMismatch,
		},
		{
			name:   "vault not owned by program",
			slot:   startSlot + 10,
			mutate: func(f *fixture) { f.info(AccountVault).Owner = f.cfg.SystemProgramID },
			err:    fault.ErrOwnerMismatch,
		},
		{
			name:   "vault not writable",
			slot:   startSlot + 10,
			mutate: func(f *fixture) { f.info(AccountVault).IsWritable = false },
			err:    fault.ErrNotWritable,
		},
		{
			name: "another admin",
			slot: startSlot + 10,
			mutate: func(f *fixture) {
				f.info(AccountAdmin).Key = otherAdmin
				f.info(AccountAdminToken).Data = tokenAccountData(t, testMint, otherAdmin, 0)
			},
			err: fault.ErrAdminMismatch,
		},
		{
			name:   "vault token account not recorded in vault",
			slot:   startSlot + 10,
			mutate: func(f *fixture) { f.info(AccountVaultToken).Key = codec.Address{0x55} },
			err:    fault.ErrTokenAccountMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			ctrl := gomock.NewController(t)
			host := &testHost{MockInvoker: runtime.NewMockInvoker(ctrl), slot: tt.slot}

			f := newFixture(t, 1_000)
			f.lock(t, 1_000, 10)
			if tt.mutate != nil {
				tt.mutate(f)
			}
			data := EncodeEmptyData()
			if tt.data != nil {
				data = tt.data
			}
			err := newProgram().Process(context.Background(), host, f.infos, data)
			require.ErrorIs(err, tt.err)
		})
	}
}

func TestEmptyEffects(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	host := &testHost{MockInvoker: runtime.NewMockInvoker(ctrl), slot: startSlot + 10}
	f := newFixture(t, 1_000)
	f.lock(t, 1_000, 10)
	seeds := vault.Seeds(testAdmin, testMint, f.salt)

	gomock.InOrder(
		host.EXPECT().Transfer(
			gomock.Any(),
			f.info(AccountVaultToken),
			f.info(AccountAdminToken),
			f.info(AccountVault),
			uint64(1_000),
			seeds,
		).Return(nil),
		host.EXPECT().CloseAccount(
			gomock.Any(),
			f.info(AccountVaultToken),
			f.info(AccountAdminToken),
			f.info(AccountVault),
			seeds,
		).Return(nil),
	)

	vaultLamports := f.info(AccountVault).Lamports
	require.NoError(newProgram().Process(context.Background(), host, f.infos, EncodeEmptyData()))

	require.Equal(uint64(adminLamports)+vaultLamports, f.info(AccountAdmin).Lamports)
	require.Zero(f.info(AccountVault).Lamports)
	require.Equal(make([]byte, vault.Len), f.info(AccountVault).Data)
}

func TestEmptyRefundSaturates(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	host := &testHost{MockInvoker: runtime.NewMockInvoker(ctrl), slot: startSlot + 10}
	f := newFixture(t, 1_000)
	f.lock(t, 1_000, 10)
	f.info(AccountAdmin).Lamports = math.MaxUint64 - 1

	host.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), uint64(1_000), gomock.Any()).Return(nil)
	host.EXPECT().CloseAccount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(newProgram().Process(context.Background(), host, f.infos, EncodeEmptyData()))
	require.Equal(uint64(math.MaxUint64), f.info(AccountAdmin).Lamports)
	require.Zero(f.info(AccountVault).Lamports)
}

func TestLockData(t *testing.T) {
	require := require.New(t)

	tokens := uint64(400)
	b := lockData(t, 254, 100, &tokens)
	require.Len(b, LockDataLen)
	require.Equal([]byte{
		1, 254,
		100, 0, 0, 0, 0, 0, 0, 0,
		1, 0x90, 0x01, 0, 0, 0, 0, 0, 0,
	}, b)

	d, err := ParseLockData(b)
	require.NoError(err)
	require.Equal(uint8(254), d.Salt)
	require.Equal(uint64(100), d.SlotsToLock.Get())
	v, ok := d.TokensToLock.Value()
	require.True(ok)
	require.Equal(tokens, v.Get())

	none, err := ParseLockData(lockData(t, 1, 1, nil))
	require.NoError(err)
	require.True(none.TokensToLock.IsNone())

	_, err = ParseLockData(EncodeEmptyData())
	require.ErrorIs(err, fault.ErrInvalidInstructionData)
	require.ErrorIs(ParseEmptyData(b), fault.ErrInvalidInstructionData)
	require.NoError(ParseEmptyData(EncodeEmptyData()))
}
