// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "github.com/ava-labs/timelock/codec"

// Account is the persisted state behind a ledger address.
type Account struct {
	Owner      codec.Address `json:"owner"`
	Lamports   uint64        `json:"lamports"`
	Data       []byte        `json:"data"`
	Executable bool          `json:"executable"`
}

// AccountInfo is an account as presented to one instruction: its address,
// the privileges the transaction granted it, and a pointer to the shared
// account state (so capability calls made by the host are visible to the
// program immediately).
type AccountInfo struct {
	Key        codec.Address
	IsSigner   bool
	IsWritable bool

	*Account
}

func NewAccountInfo(key codec.Address, signer, writable bool, account *Account) *AccountInfo {
	return &AccountInfo{
		Key:        key,
		IsSigner:   signer,
		IsWritable: writable,
		Account:    account,
	}
}

func (a *AccountInfo) DataIsEmpty() bool {
	return len(a.Data) == 0
}

func (a *AccountInfo) IsOwnedBy(owner codec.Address) bool {
	return a.Owner == owner
}
