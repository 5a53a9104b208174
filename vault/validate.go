// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import (
	"fmt"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/runtime"
)

// Validate checks that [account] holds a vault owned by [programID] at the
// address its own contents derive to, and returns the decoded vault.
//
// Any of [checkAdmin], [checkMint] and [checkToken] may be nil. When set,
// the admin must be a writable signer equal to the stored admin, and the mint
// and token account must equal the stored mint and vault token account.
func Validate(
	programID codec.Address,
	account *runtime.AccountInfo,
	expectWritable bool,
	checkAdmin *runtime.AccountInfo,
	checkMint *runtime.AccountInfo,
	checkToken *runtime.AccountInfo,
) (*Vault, error) {
	if !account.IsOwnedBy(programID) {
		return nil, fmt.Errorf("%w: vault %s owned by %s, expected %s", fault.ErrOwnerMismatch, account.Key, account.Owner, programID)
	}
	if expectWritable && !account.IsWritable {
		return nil, fmt.Errorf("%w: vault %s", fault.ErrNotWritable, account.Key)
	}

	v, err := Decode(account.Data)
	if err != nil {
		return nil, err
	}

	expected, err := DeriveAddress(programID, v.Admin, v.Mint, v.Salt)
	if err != nil {
		return nil, err
	}
	if account.Key != expected {
		return nil, fmt.Errorf("%w: vault %s, derived %s", fault.ErrAddressMismatch, account.Key, expected)
	}

	if checkAdmin != nil {
		if err := CheckSigner(checkAdmin, true); err != nil {
			return nil, err
		}
		if v.Admin != checkAdmin.Key {
			return nil, fmt.Errorf("%w: vault admin %s, got %s", fault.ErrAdminMismatch, v.Admin, checkAdmin.Key)
		}
	}
	if checkMint != nil && v.Mint != checkMint.Key {
		return nil, fmt.Errorf("%w: vault mint %s, got %s", fault.ErrMintMismatch, v.Mint, checkMint.Key)
	}
	if checkToken != nil && v.VaultToken != checkToken.Key {
		return nil, fmt.Errorf("%w: vault token account %s, got %s", fault.ErrTokenAccountMismatch, v.VaultToken, checkToken.Key)
	}
	return v, nil
}

// CheckSigner fails unless [info] signed the request and, when
// [expectWritable], was passed writable.
func CheckSigner(info *runtime.AccountInfo, expectWritable bool) error {
	if !info.IsSigner {
		return fmt.Errorf("%w: %s", fault.ErrMissingRequiredSignature, info.Key)
	}
	if expectWritable && !info.IsWritable {
		return fmt.Errorf("%w: signer %s", fault.ErrNotWritable, info.Key)
	}
	return nil
}
