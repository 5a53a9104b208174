// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func testAddress(b byte) Address {
	var a Address
	for i := range a {
		a[i] = b + byte(i)
	}
	return a
}

func TestAddress(t *testing.T) {
	require := require.New(t)
	addr := testAddress(7)

	addrStr, err := addr.MarshalText()
	require.NoError(err)

	var parsedAddr Address
	require.NoError(parsedAddr.UnmarshalText(addrStr))
	require.Equal(addr, parsedAddr)
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)
	addr := testAddress(42)

	addrJSONBytes, err := json.Marshal(addr)
	require.NoError(err)

	var parsedAddr Address
	require.NoError(json.Unmarshal(addrJSONBytes, &parsedAddr))
	require.Equal(addr, parsedAddr)
}

func TestAddressWellKnown(t *testing.T) {
	require := require.New(t)

	// The all-zero identity renders as 32 '1' characters in base58.
	require.Equal("11111111111111111111111111111111", EmptyAddress.String())
	parsed, err := ParseAddress("11111111111111111111111111111111")
	require.NoError(err)
	require.Equal(EmptyAddress, parsed)

	token := MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	require.Equal("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", token.String())
}

func TestParseAddressInvalid(t *testing.T) {
	require := require.New(t)

	_, err := ParseAddress("0OIl")
	require.ErrorIs(err, ErrInvalidAddress)

	// valid base58 but too short
	_, err = ParseAddress("abc")
	require.ErrorIs(err, ErrInvalidAddress)

	_, err = ToAddress(make([]byte, AddressLen+1))
	require.ErrorIs(err, ErrInvalidAddress)
}
