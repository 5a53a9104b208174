// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fault holds the single instances of every error the vault program
// can return, grouped into classes so callers can tell a malformed request
// from a refused one without matching on strings.
package fault

import "errors"

// error classes
type (
	StructuralError    string
	AuthorizationError string
	StateError         string
	BusinessError      string
)

// keep in alphabetic order within a class
var (
	ErrIncorrectProgramID     = StructuralError("incorrect program id")
	ErrInvalidAccountData     = StructuralError("invalid account data")
	ErrInvalidInstructionData = StructuralError("invalid instruction data")
	ErrNotEnoughAccountKeys   = StructuralError("not enough account keys")
	ErrUnknownOperation       = StructuralError("unknown operation")

	ErrAddressMismatch          = AuthorizationError("derived address mismatch")
	ErrAdminMismatch            = AuthorizationError("admin mismatch")
	ErrMintMismatch             = AuthorizationError("mint mismatch")
	ErrMissingRequiredSignature = AuthorizationError("missing required signature")
	ErrNotWritable              = AuthorizationError("account is not writable")
	ErrOwnerMismatch            = AuthorizationError("account owner mismatch")
	ErrSeedMismatch             = AuthorizationError("signer seeds mismatch")
	ErrTokenAccountMismatch     = AuthorizationError("token account mismatch")

	ErrAccountInUse       = StateError("account already in use")
	ErrAlreadyInitialized = StateError("account already initialized")
	ErrUninitialized      = StateError("account not initialized")
	ErrVaultLocked        = StateError("vault is still locked")

	ErrAmountExceedsBalance = BusinessError("amount exceeds balance")
	ErrArithmeticOverflow   = BusinessError("arithmetic overflow")
)

func (e StructuralError) Error() string    { return string(e) }
func (e AuthorizationError) Error() string { return string(e) }
func (e StateError) Error() string         { return string(e) }
func (e BusinessError) Error() string      { return string(e) }

// determine the class of an error, looking through any wrapping
func IsStructural(err error) bool {
	var e StructuralError
	return errors.As(err, &e)
}

func IsAuthorization(err error) bool {
	var e AuthorizationError
	return errors.As(err, &e)
}

func IsState(err error) bool {
	var e StateError
	return errors.As(err, &e)
}

func IsBusiness(err error) bool {
	var e BusinessError
	return errors.As(err, &e)
}
