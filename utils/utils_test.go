// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   uint64
		decimals uint8
		expected string
	}{
		{1_000, 0, "1000"},
		{1_000, 3, "1.000"},
		{1_234_567, 6, "1.234567"},
		{5, 6, "0.000005"},
		{2_039_280, NativeDecimals, "0.002039280"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, FormatAmount(tt.amount, tt.decimals))
	}
}

func TestParseBalance(t *testing.T) {
	require := require.New(t)

	bal, err := ParseBalance("1.5")
	require.NoError(err)
	require.Equal(uint64(1_500_000_000), bal)
	require.Equal("1.500000000", FormatBalance(bal))

	_, err = ParseBalance("lots")
	require.Error(err)
}
