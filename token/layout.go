// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"fmt"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/consts"
)

// The token program prefixes optional fields with a 4 byte tag instead of the
// 1 byte tag used by [codec.Option].
const (
	cOptionNone uint32 = 0
	cOptionSome uint32 = 1
)

type mintLayout struct {
	MintAuthorityTag   uint32
	MintAuthority      [32]byte
	Supply             uint64
	Decimals           uint8
	IsInitialized      uint8
	FreezeAuthorityTag uint32
	FreezeAuthority    [32]byte
}

type accountLayout struct {
	Mint              [32]byte
	Owner             [32]byte
	Amount            uint64
	DelegateTag       uint32
	Delegate          [32]byte
	State             uint8
	IsNativeTag       uint32
	IsNative          [8]byte
	DelegatedAmount   uint64
	CloseAuthorityTag uint32
	CloseAuthority    [32]byte
}

func fromCOption[T codec.Fixed](tag uint32, payload []byte) (codec.Option[T], error) {
	if tag > cOptionSome {
		return codec.None[T](), fmt.Errorf("%w: %d", codec.ErrCorruptTag, tag)
	}
	return codec.OptionFromParts[T](uint8(tag), payload)
}

// putCOption writes the payload of [o] into [dst] and returns the tag.
func putCOption[T codec.Fixed](o codec.Option[T], dst []byte) uint32 {
	if o.IsNone() {
		return cOptionNone
	}
	copy(dst, o.Bytes()[consts.OptionTagLen:])
	return cOptionSome
}
