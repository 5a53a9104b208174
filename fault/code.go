// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fault

import "errors"

// Code is the stable numeric form of a program error, recorded in
// transaction receipts.
type Code uint32

const (
	CodeOK Code = iota
	CodeUnknownOperation
	CodeInvalidInstructionData
	CodeNotEnoughAccountKeys
	CodeIncorrectProgramID
	CodeInvalidAccountData
	CodeMissingRequiredSignature
	CodeNotWritable
	CodeAddressMismatch
	CodeOwnerMismatch
	CodeAdminMismatch
	CodeMintMismatch
	CodeTokenAccountMismatch
	CodeSeedMismatch
	CodeAccountInUse
	CodeAlreadyInitialized
	CodeUninitialized
	CodeVaultLocked
	CodeAmountExceedsBalance
	CodeArithmeticOverflow

	// CodeUnknown is returned for errors that did not originate in this
	// package (e.g. a failing database).
	CodeUnknown Code = 0xffff
)

var codes = []struct {
	err  error
	code Code
}{
	{ErrUnknownOperation, CodeUnknownOperation},
	{ErrInvalidInstructionData, CodeInvalidInstructionData},
	{ErrNotEnoughAccountKeys, CodeNotEnoughAccountKeys},
	{ErrIncorrectProgramID, CodeIncorrectProgramID},
	{ErrInvalidAccountData, CodeInvalidAccountData},
	{ErrMissingRequiredSignature, CodeMissingRequiredSignature},
	{ErrNotWritable, CodeNotWritable},
	{ErrAddressMismatch, CodeAddressMismatch},
	{ErrOwnerMismatch, CodeOwnerMismatch},
	{ErrAdminMismatch, CodeAdminMismatch},
	{ErrMintMismatch, CodeMintMismatch},
	{ErrTokenAccountMismatch, CodeTokenAccountMismatch},
	{ErrSeedMismatch, CodeSeedMismatch},
	{ErrAccountInUse, CodeAccountInUse},
	{ErrAlreadyInitialized, CodeAlreadyInitialized},
	{ErrUninitialized, CodeUninitialized},
	{ErrVaultLocked, CodeVaultLocked},
	{ErrAmountExceedsBalance, CodeAmountExceedsBalance},
	{ErrArithmeticOverflow, CodeArithmeticOverflow},
}

// CodeOf maps [err] to its Code. A nil error is CodeOK.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}
