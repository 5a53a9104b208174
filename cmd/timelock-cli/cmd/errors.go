// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrInvalidConfigFormat = errors.New("invalid config format")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidStep         = errors.New("invalid step")
	ErrUnknownOperation    = errors.New("unknown operation")
	ErrMissingParam        = errors.New("missing parameter")
	ErrDuplicateKeyName    = errors.New("duplicate key name")
	ErrNamedKeyNotFound    = errors.New("named key not found")
	ErrInvalidKeyName      = errors.New("invalid key name")
	ErrCorruptKey          = errors.New("corrupt key")
	ErrInvalidOperator     = errors.New("invalid operator")
	ErrAssertionFailed     = errors.New("assertion failed")
	ErrVaultNotFound       = errors.New("vault not found")
)
