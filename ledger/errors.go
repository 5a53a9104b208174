// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "errors"

var (
	ErrNoInstructions       = errors.New("transaction has no instructions")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrMissingSignature     = errors.New("account requires a signature")
	ErrFeePayerNotSigner    = errors.New("fee payer did not sign")
	ErrTxExpired            = errors.New("transaction expired")
	ErrFutureSlot           = errors.New("transaction references a future slot")
	ErrDuplicateTx          = errors.New("transaction already processed")
	ErrUnknownProgram       = errors.New("unknown program")
	ErrDuplicateProgram     = errors.New("program already registered")
	ErrSlotInPast           = errors.New("slot is in the past")
	ErrCorruptAccount       = errors.New("corrupt account record")
	ErrInsufficientLamports = errors.New("insufficient lamports")
	ErrAccountTooLarge      = errors.New("account too large")
	ErrNonZeroBalance       = errors.New("token account still holds tokens")
	ErrAccountFrozen        = errors.New("token account is frozen")

	// post-instruction invariants
	ErrReadonlyModified      = errors.New("readonly account modified")
	ErrExternalDataModified  = errors.New("program modified data of an account it does not own")
	ErrExternalLamportSpend  = errors.New("program spent lamports of an account it does not own")
	ErrIllegalOwnerChange    = errors.New("program changed an account owner")
	ErrUnbalancedInstruction = errors.New("instruction changed total lamports")
)
