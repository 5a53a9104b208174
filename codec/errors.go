// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "errors"

var (
	ErrInvalidSize    = errors.New("invalid size")
	ErrCorruptTag     = errors.New("corrupt option tag")
	ErrInvalidAddress = errors.New("invalid address")
	ErrUint128Range   = errors.New("value does not fit in 128 bits")
)
