// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"fmt"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/consts"
	"github.com/ava-labs/timelock/fault"
)

// Operation is the leading byte of every instruction.
type Operation uint8

const (
	OperationLock  Operation = 1
	OperationEmpty Operation = 2
)

func (o Operation) String() string {
	switch o {
	case OperationLock:
		return "lock"
	case OperationEmpty:
		return "empty"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

const (
	LockDataLen  = consts.ByteLen + consts.ByteLen + consts.Uint64Len + consts.OptionTagLen + consts.Uint64Len
	EmptyDataLen = consts.ByteLen
)

// LockData is the payload of a lock instruction.
type LockData struct {
	// Salt must derive the vault address from (admin, mint).
	Salt uint8
	// SlotsToLock is the minimum number of slots before the vault can be
	// emptied.
	SlotsToLock codec.PodU64
	// TokensToLock caps the amount moved into the vault. When absent the
	// entire admin balance is locked.
	TokensToLock codec.Option[codec.PodU64]
}

type lockLayout struct {
	Operation       uint8
	Salt            uint8
	SlotsToLock     [8]byte
	TokensToLockTag uint8
	TokensToLock    [8]byte
}

func NewLockData(salt uint8, slotsToLock uint64, tokensToLock *uint64) *LockData {
	d := &LockData{
		Salt:        salt,
		SlotsToLock: codec.NewPodU64(slotsToLock),
	}
	if tokensToLock != nil {
		d.TokensToLock = codec.Some(codec.NewPodU64(*tokensToLock))
	}
	return d
}

// Encode returns the full instruction data, operation byte included.
func (d *LockData) Encode() ([]byte, error) {
	l := lockLayout{
		Operation:       uint8(OperationLock),
		Salt:            d.Salt,
		SlotsToLock:     d.SlotsToLock,
		TokensToLockTag: d.TokensToLock.Tag(),
	}
	if v, ok := d.TokensToLock.Value(); ok {
		l.TokensToLock = v
	}
	return codec.Marshal(l, LockDataLen)
}

// ParseLockData decodes full lock instruction data.
func ParseLockData(b []byte) (*LockData, error) {
	var l lockLayout
	if err := codec.Unmarshal(b, LockDataLen, &l); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidInstructionData, err)
	}
	if Operation(l.Operation) != OperationLock {
		return nil, fmt.Errorf("%w: operation %s", fault.ErrInvalidInstructionData, Operation(l.Operation))
	}
	tokensToLock, err := codec.OptionFromParts[codec.PodU64](l.TokensToLockTag, l.TokensToLock[:])
	if err != nil {
		return nil, fmt.Errorf("%w: tokens to lock: %w", fault.ErrInvalidInstructionData, err)
	}
	return &LockData{
		Salt:         l.Salt,
		SlotsToLock:  l.SlotsToLock,
		TokensToLock: tokensToLock,
	}, nil
}

// EncodeEmptyData returns the full empty instruction data.
func EncodeEmptyData() []byte {
	return []byte{uint8(OperationEmpty)}
}

func ParseEmptyData(b []byte) error {
	if len(b) != EmptyDataLen {
		return fmt.Errorf("%w: %w: expected %d bytes but got %d", fault.ErrInvalidInstructionData, codec.ErrInvalidSize, EmptyDataLen, len(b))
	}
	if Operation(b[0]) != OperationEmpty {
		return fmt.Errorf("%w: operation %s", fault.ErrInvalidInstructionData, Operation(b[0]))
	}
	return nil
}
