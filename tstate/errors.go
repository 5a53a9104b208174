// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import "errors"

var (
	ErrKeyNotSpecified = errors.New("key not specified")
	ErrKeyNotWritable  = errors.New("key not writable")
)
