// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestPodIntegers(t *testing.T) {
	require := require.New(t)

	require.Equal(PodU16{0x34, 0x12}, NewPodU16(0x1234))
	require.Equal(uint16(0x1234), NewPodU16(0x1234).Get())

	require.Equal(PodU32{0x78, 0x56, 0x34, 0x12}, NewPodU32(0x12345678))
	require.Equal(uint32(0x12345678), NewPodU32(0x12345678).Get())

	p := NewPodU64(1)
	require.Equal(PodU64{1, 0, 0, 0, 0, 0, 0, 0}, p)
	p.Set(^uint64(0))
	require.Equal(^uint64(0), p.Get())
}

func TestPodU128(t *testing.T) {
	require := require.New(t)

	small := NewPodU128FromUint64(500)
	require.Equal(uint64(500), small.Get().Uint64())

	// 2^127 + 3
	v := new(uint256.Int).Lsh(uint256.NewInt(1), 127)
	v.AddUint64(v, 3)
	p, err := NewPodU128(v)
	require.NoError(err)
	require.Equal(byte(3), p[0])
	require.Equal(byte(0x80), p[15])
	require.True(v.Eq(p.Get()))

	tooWide := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	_, err = NewPodU128(tooWide)
	require.ErrorIs(err, ErrUint128Range)
}

func TestPodBool(t *testing.T) {
	tests := []struct {
		raw   PodBool
		value bool
		valid bool
	}{
		{0, false, true},
		{1, true, true},
		{2, true, false},
		{0xff, true, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.value, tt.raw.Get())
		require.Equal(t, tt.valid, tt.raw.IsValid())
	}

	var b PodBool
	b.Set(true)
	require.Equal(t, PodBool(1), b)
	require.Equal(t, PodBool(0), NewPodBool(false))
}
