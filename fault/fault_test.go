// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClasses(t *testing.T) {
	errorList := []struct {
		err           error
		structural    bool
		authorization bool
		state         bool
		business      bool
	}{
		{ErrUnknownOperation, true, false, false, false},
		{ErrNotEnoughAccountKeys, true, false, false, false},
		{ErrMissingRequiredSignature, false, true, false, false},
		{ErrAddressMismatch, false, true, false, false},
		{ErrVaultLocked, false, false, true, false},
		{ErrAccountInUse, false, false, true, false},
		{ErrAmountExceedsBalance, false, false, false, true},
		{errors.New("other"), false, false, false, false},
	}

	for i, e := range errorList {
		wrapped := fmt.Errorf("%w: remaining=%d", e.err, i)
		for _, err := range []error{e.err, wrapped} {
			require.Equal(t, e.structural, IsStructural(err), "%d: %s", i, err)
			require.Equal(t, e.authorization, IsAuthorization(err), "%d: %s", i, err)
			require.Equal(t, e.state, IsState(err), "%d: %s", i, err)
			require.Equal(t, e.business, IsBusiness(err), "%d: %s", i, err)
		}
	}
}

func TestCodeOf(t *testing.T) {
	require := require.New(t)

	require.Equal(CodeOK, CodeOf(nil))
	require.Equal(CodeVaultLocked, CodeOf(ErrVaultLocked))
	require.Equal(CodeVaultLocked, CodeOf(fmt.Errorf("%w: 90 slots remaining", ErrVaultLocked)))
	require.Equal(CodeUnknown, CodeOf(errors.New("disk on fire")))

	seen := make(map[Code]error, len(codes))
	for _, c := range codes {
		require.NotContains(seen, c.code, "duplicate code for %s", c.err)
		seen[c.code] = c.err
	}
}
