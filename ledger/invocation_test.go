// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/runtime"
)

func TestTotalLamportsCountsEachAccountOnce(t *testing.T) {
	require := require.New(t)

	a := runtime.NewAccountInfo(codec.Address{0x01}, false, true, &runtime.Account{Lamports: 5})
	b := runtime.NewAccountInfo(codec.Address{0x02}, false, true, &runtime.Account{Lamports: ^uint64(0)})
	total := totalLamports([]*runtime.AccountInfo{a, b, a, b})

	expected := new(uint256.Int).AddUint64(uint256.NewInt(^uint64(0)), 5)
	require.Equal(expected, total)
}
