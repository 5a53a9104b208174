// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pda

import (
	"filippo.io/edwards25519"

	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/timelock/codec"
)

const (
	MaxSeeds   = 16
	MaxSeedLen = 32
)

var marker = []byte("ProgramDerivedAddress")

// Seeds is the ordered list of byte strings an address is derived from.
type Seeds [][]byte

// CreateProgramAddress derives the address for [seeds] scoped to
// [programID]. The result is rejected if it is a valid ed25519 point, since
// such an address could have a private key.
func CreateProgramAddress(seeds Seeds, programID codec.Address) (codec.Address, error) {
	if len(seeds) > MaxSeeds {
		return codec.EmptyAddress, ErrMaxSeedsExceeded
	}
	size := len(programID) + len(marker)
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return codec.EmptyAddress, ErrMaxSeedLengthExceeded
		}
		size += len(seed)
	}

	buf := make([]byte, 0, size)
	for _, seed := range seeds {
		buf = append(buf, seed...)
	}
	buf = append(buf, programID[:]...)
	buf = append(buf, marker...)

	var addr codec.Address
	copy(addr[:], hashing.ComputeHash256(buf))
	if IsOnCurve(addr) {
		return codec.EmptyAddress, ErrOnCurve
	}
	return addr, nil
}

// FindProgramAddress searches for the largest salt that, appended to
// [seeds], yields an off-curve address. This is an off-chain helper; the
// program itself only ever verifies.
func FindProgramAddress(seeds Seeds, programID codec.Address) (codec.Address, uint8, error) {
	withSalt := make(Seeds, len(seeds)+1)
	copy(withSalt, seeds)
	for salt := 255; salt >= 0; salt-- {
		withSalt[len(seeds)] = []byte{uint8(salt)}
		addr, err := CreateProgramAddress(withSalt, programID)
		switch err {
		case nil:
			return addr, uint8(salt), nil
		case ErrOnCurve:
			continue
		default:
			return codec.EmptyAddress, 0, err
		}
	}
	return codec.EmptyAddress, 0, ErrNoViableSalt
}

// IsOnCurve reports whether [addr] decodes as an ed25519 point.
func IsOnCurve(addr codec.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(addr[:])
	return err == nil
}
