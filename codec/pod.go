// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/ava-labs/timelock/consts"
)

// Pod types are alignment-1 little-endian integers that can be embedded in a
// fixed layout without introducing padding.
type (
	PodU16  [consts.Uint16Len]byte
	PodU32  [consts.Uint32Len]byte
	PodU64  [consts.Uint64Len]byte
	PodU128 [consts.Uint128Len]byte
)

func NewPodU16(v uint16) PodU16 {
	var p PodU16
	p.Set(v)
	return p
}

func (p PodU16) Get() uint16 { return binary.LittleEndian.Uint16(p[:]) }

func (p *PodU16) Set(v uint16) { binary.LittleEndian.PutUint16(p[:], v) }

func NewPodU32(v uint32) PodU32 {
	var p PodU32
	p.Set(v)
	return p
}

func (p PodU32) Get() uint32 { return binary.LittleEndian.Uint32(p[:]) }

func (p *PodU32) Set(v uint32) { binary.LittleEndian.PutUint32(p[:], v) }

func NewPodU64(v uint64) PodU64 {
	var p PodU64
	p.Set(v)
	return p
}

func (p PodU64) Get() uint64 { return binary.LittleEndian.Uint64(p[:]) }

func (p *PodU64) Set(v uint64) { binary.LittleEndian.PutUint64(p[:], v) }

// NewPodU128 returns the little-endian encoding of [v]. Values wider than 128
// bits are rejected.
func NewPodU128(v *uint256.Int) (PodU128, error) {
	var p PodU128
	return p, p.Set(v)
}

// NewPodU128FromUint64 is a convenience for values that fit in a uint64.
func NewPodU128FromUint64(v uint64) PodU128 {
	var p PodU128
	binary.LittleEndian.PutUint64(p[:consts.Uint64Len], v)
	return p
}

// Get returns the value as a 256 bit integer with the upper limbs cleared.
func (p PodU128) Get() *uint256.Int {
	var v uint256.Int
	v[0] = binary.LittleEndian.Uint64(p[:consts.Uint64Len])
	v[1] = binary.LittleEndian.Uint64(p[consts.Uint64Len:])
	return &v
}

func (p *PodU128) Set(v *uint256.Int) error {
	if v.BitLen() > 128 {
		return ErrUint128Range
	}
	binary.LittleEndian.PutUint64(p[:consts.Uint64Len], v[0])
	binary.LittleEndian.PutUint64(p[consts.Uint64Len:], v[1])
	return nil
}

// PodBool is a single byte boolean. The canonical encodings are 0 and 1, but
// any nonzero byte reads as true. Use IsValid to reject non-canonical input.
type PodBool uint8

func NewPodBool(b bool) PodBool {
	if b {
		return 1
	}
	return 0
}

func (p PodBool) IsValid() bool { return p <= 1 }

func (p PodBool) Get() bool { return p != 0 }

func (p *PodBool) Set(b bool) { *p = NewPodBool(b) }
