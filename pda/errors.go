// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pda

import "errors"

var (
	ErrMaxSeedsExceeded      = errors.New("too many seeds")
	ErrMaxSeedLengthExceeded = errors.New("seed too long")
	ErrOnCurve               = errors.New("derived address is on the ed25519 curve")
	ErrNoViableSalt          = errors.New("no viable salt")
)
