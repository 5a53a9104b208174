// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	AddressLen = 32
	ByteLen    = 1
	BoolLen    = 1
	Uint16Len  = 2
	Uint32Len  = 4
	Uint64Len  = 8
	Uint128Len = 16
	MaxUint8   = ^uint8(0)
	MaxUint64  = ^uint64(0)

	// OptionTagLen is the size of the presence tag that prefixes every
	// optional value in a fixed layout.
	OptionTagLen = 1

	// SlotsPerEpoch is only used to render durations for humans.
	SlotsPerEpoch = 432_000
)
