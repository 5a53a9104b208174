// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionNone(t *testing.T) {
	require := require.New(t)

	o := None[PodU64]()
	require.True(o.IsNone())
	require.True(o.IsValidTag())
	require.Nil(o.Ref())
	require.Nil(o.Mut())
	_, ok := o.Value()
	require.False(ok)

	b := o.Bytes()
	require.Equal(make([]byte, 9), b)

	decoded, err := UnmarshalOption[PodU64](b)
	require.NoError(err)
	require.True(decoded.IsNone())
}

func TestOptionSomeRoundTrip(t *testing.T) {
	require := require.New(t)

	o := Some(NewPodU64(400))
	b := o.Bytes()
	require.Equal([]byte{1, 0x90, 0x01, 0, 0, 0, 0, 0, 0}, b)

	decoded, err := UnmarshalOption[PodU64](b)
	require.NoError(err)
	v, ok := decoded.Value()
	require.True(ok)
	require.Equal(uint64(400), v.Get())

	addr := testAddress(3)
	ao, err := UnmarshalOption[Address](Some(addr).Bytes())
	require.NoError(err)
	require.Equal(addr, *ao.Ref())

	bo, err := UnmarshalOption[uint8](Some(uint8(1)).Bytes())
	require.NoError(err)
	require.Equal(uint8(1), *bo.Ref())
}

func TestOptionCorruptTag(t *testing.T) {
	require := require.New(t)

	_, err := UnmarshalOption[uint8]([]byte{2, 1})
	require.ErrorIs(err, ErrCorruptTag)

	_, err = UnmarshalOption[PodU64]([]byte{0xff, 0, 0, 0, 0, 0, 0, 0, 0})
	require.ErrorIs(err, ErrCorruptTag)
}

func TestOptionSizeMismatch(t *testing.T) {
	require := require.New(t)

	_, err := UnmarshalOption[PodU64]([]byte{1, 0, 0})
	require.ErrorIs(err, ErrInvalidSize)

	_, err = UnmarshalOption[uint8](nil)
	require.ErrorIs(err, ErrInvalidSize)
}

func TestOptionAccessors(t *testing.T) {
	require := require.New(t)

	o := Some(uint8(5))

	// Ref hands out a copy.
	*o.Ref() = 9
	require.Equal(uint8(5), *o.Ref())

	// Mut aliases the payload.
	*o.Mut() = 9
	require.Equal(uint8(9), *o.Ref())

	v, ok := o.Take()
	require.True(ok)
	require.Equal(uint8(9), v)
	require.True(o.IsNone())

	_, ok = o.Take()
	require.False(ok)

	o.SetSome(4)
	require.Equal("Some(4)", o.String())
	o.SetNone()
	require.Equal("None", o.String())

	require.True(FromPtr[uint8](nil).IsNone())
	x := uint8(3)
	require.Equal(uint8(3), *FromPtr(&x).Ptr())
}
