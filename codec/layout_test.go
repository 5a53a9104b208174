// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testLayout struct {
	Tag   uint8
	Value uint64
	Key   [4]byte
	Small uint16
}

const testLayoutLen = 1 + 8 + 4 + 2

func TestLayoutPackedLittleEndian(t *testing.T) {
	require := require.New(t)

	l := testLayout{Tag: 2, Value: 0x0102030405060708, Key: [4]byte{9, 9, 9, 9}, Small: 0x0a0b}
	b, err := Marshal(l, testLayoutLen)
	require.NoError(err)
	require.Equal([]byte{
		2,
		8, 7, 6, 5, 4, 3, 2, 1,
		9, 9, 9, 9,
		0x0b, 0x0a,
	}, b)

	var decoded testLayout
	require.NoError(Unmarshal(b, testLayoutLen, &decoded))
	require.Equal(l, decoded)
}

func TestLayoutThroughPointer(t *testing.T) {
	require := require.New(t)

	l := testLayout{Tag: 1, Value: 3}
	byValue, err := Marshal(l, testLayoutLen)
	require.NoError(err)
	byPointer, err := Marshal(&l, testLayoutLen)
	require.NoError(err)
	require.Equal(byValue, byPointer)
	require.Len(byPointer, testLayoutLen)
}

func TestLayoutSizeMismatch(t *testing.T) {
	require := require.New(t)

	_, err := Marshal(testLayout{}, testLayoutLen+1)
	require.ErrorIs(err, ErrInvalidSize)

	var decoded testLayout
	require.ErrorIs(Unmarshal(make([]byte, testLayoutLen-1), testLayoutLen, &decoded), ErrInvalidSize)
	require.ErrorIs(Unmarshal(make([]byte, testLayoutLen+1), testLayoutLen, &decoded), ErrInvalidSize)
}
