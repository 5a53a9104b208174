// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/pda"
)

// Invoker exposes the external capability providers a program may call. Each
// call is authorized either by the transaction signatures or by [signers]:
// seed lists that must derive (under the calling program) to the authority
// being exercised.
type Invoker interface {
	// CreateAccount allocates [space] bytes at [to], funded with [lamports]
	// from [from], and assigns it to [owner].
	CreateAccount(
		ctx context.Context,
		from, to *AccountInfo,
		lamports, space uint64,
		owner codec.Address,
		signers ...pda.Seeds,
	) error

	// Transfer moves [amount] tokens between two token accounts of the same
	// mint. [authority] must be the owner of [source].
	Transfer(
		ctx context.Context,
		source, destination, authority *AccountInfo,
		amount uint64,
		signers ...pda.Seeds,
	) error

	// CloseAccount closes an empty token account, sending its lamports to
	// [destination].
	CloseAccount(
		ctx context.Context,
		account, destination, authority *AccountInfo,
		signers ...pda.Seeds,
	) error
}

// Host is everything a program can ask of the ledger while it runs.
type Host interface {
	Invoker

	// Slot is the current ledger time.
	Slot() uint64
	Rent() Rent
}
