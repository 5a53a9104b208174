// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token reads and writes the mint and token account layouts owned by
// the token program.
package token

import (
	"fmt"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/runtime"
)

const (
	MintLen    = 82
	AccountLen = 165
)

// AccountState is the lifecycle of a token account.
type AccountState uint8

const (
	StateUninitialized AccountState = iota
	StateInitialized
	StateFrozen
)

type Mint struct {
	MintAuthority   codec.Option[codec.Address]
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority codec.Option[codec.Address]
}

type Account struct {
	Mint            codec.Address
	Owner           codec.Address
	Amount          uint64
	Delegate        codec.Option[codec.Address]
	State           AccountState
	IsNative        codec.Option[codec.PodU64]
	DelegatedAmount uint64
	CloseAuthority  codec.Option[codec.Address]
}

func (a *Account) IsInitialized() bool {
	return a.State != StateUninitialized
}

func (a *Account) IsFrozen() bool {
	return a.State == StateFrozen
}

// DecodeMint parses raw mint account data.
func DecodeMint(data []byte) (*Mint, error) {
	var l mintLayout
	if err := codec.Unmarshal(data, MintLen, &l); err != nil {
		return nil, err
	}
	mintAuthority, err := fromCOption[codec.Address](l.MintAuthorityTag, l.MintAuthority[:])
	if err != nil {
		return nil, err
	}
	freezeAuthority, err := fromCOption[codec.Address](l.FreezeAuthorityTag, l.FreezeAuthority[:])
	if err != nil {
		return nil, err
	}
	isInitialized := codec.PodBool(l.IsInitialized)
	if !isInitialized.IsValid() {
		return nil, fmt.Errorf("%w: mint initialized flag %d", codec.ErrCorruptTag, l.IsInitialized)
	}
	return &Mint{
		MintAuthority:   mintAuthority,
		Supply:          l.Supply,
		Decimals:        l.Decimals,
		IsInitialized:   isInitialized.Get(),
		FreezeAuthority: freezeAuthority,
	}, nil
}

func (m *Mint) Encode() ([]byte, error) {
	l := mintLayout{
		Supply:        m.Supply,
		Decimals:      m.Decimals,
		IsInitialized: uint8(codec.NewPodBool(m.IsInitialized)),
	}
	l.MintAuthorityTag = putCOption(m.MintAuthority, l.MintAuthority[:])
	l.FreezeAuthorityTag = putCOption(m.FreezeAuthority, l.FreezeAuthority[:])
	return codec.Marshal(l, MintLen)
}

// DecodeAccount parses raw token account data.
func DecodeAccount(data []byte) (*Account, error) {
	var l accountLayout
	if err := codec.Unmarshal(data, AccountLen, &l); err != nil {
		return nil, err
	}
	if l.State > uint8(StateFrozen) {
		return nil, fmt.Errorf("%w: account state %d", fault.ErrInvalidAccountData, l.State)
	}
	delegate, err := fromCOption[codec.Address](l.DelegateTag, l.Delegate[:])
	if err != nil {
		return nil, err
	}
	isNative, err := fromCOption[codec.PodU64](l.IsNativeTag, l.IsNative[:])
	if err != nil {
		return nil, err
	}
	closeAuthority, err := fromCOption[codec.Address](l.CloseAuthorityTag, l.CloseAuthority[:])
	if err != nil {
		return nil, err
	}
	return &Account{
		Mint:            l.Mint,
		Owner:           l.Owner,
		Amount:          l.Amount,
		Delegate:        delegate,
		State:           AccountState(l.State),
		IsNative:        isNative,
		DelegatedAmount: l.DelegatedAmount,
		CloseAuthority:  closeAuthority,
	}, nil
}

func (a *Account) Encode() ([]byte, error) {
	l := accountLayout{
		Mint:            a.Mint,
		Owner:           a.Owner,
		Amount:          a.Amount,
		State:           uint8(a.State),
		DelegatedAmount: a.DelegatedAmount,
	}
	l.DelegateTag = putCOption(a.Delegate, l.Delegate[:])
	l.IsNativeTag = putCOption(a.IsNative, l.IsNative[:])
	l.CloseAuthorityTag = putCOption(a.CloseAuthority, l.CloseAuthority[:])
	return codec.Marshal(l, AccountLen)
}

// MintFromAccountInfo decodes [info] as an initialized mint owned by
// [tokenProgramID].
func MintFromAccountInfo(info *runtime.AccountInfo, tokenProgramID codec.Address) (*Mint, error) {
	if len(info.Data) != MintLen {
		return nil, fmt.Errorf("%w: mint %s has %d bytes", fault.ErrInvalidAccountData, info.Key, len(info.Data))
	}
	if !info.IsOwnedBy(tokenProgramID) {
		return nil, fmt.Errorf("%w: mint %s owned by %s", fault.ErrOwnerMismatch, info.Key, info.Owner)
	}
	m, err := DecodeMint(info.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: mint %s: %w", fault.ErrInvalidAccountData, info.Key, err)
	}
	if !m.IsInitialized {
		return nil, fmt.Errorf("%w: mint %s", fault.ErrUninitialized, info.Key)
	}
	return m, nil
}

// AccountFromAccountInfo decodes [info] as an initialized token account owned
// by [tokenProgramID].
func AccountFromAccountInfo(info *runtime.AccountInfo, tokenProgramID codec.Address) (*Account, error) {
	if len(info.Data) != AccountLen {
		return nil, fmt.Errorf("%w: token account %s has %d bytes", fault.ErrInvalidAccountData, info.Key, len(info.Data))
	}
	if !info.IsOwnedBy(tokenProgramID) {
		return nil, fmt.Errorf("%w: token account %s owned by %s", fault.ErrOwnerMismatch, info.Key, info.Owner)
	}
	a, err := DecodeAccount(info.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: token account %s: %w", fault.ErrInvalidAccountData, info.Key, err)
	}
	if !a.IsInitialized() {
		return nil, fmt.Errorf("%w: token account %s", fault.ErrUninitialized, info.Key)
	}
	return a, nil
}
