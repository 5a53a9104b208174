// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vault defines the persisted custody record created by a lock and
// destroyed once it is emptied.
package vault

import (
	"fmt"
	"strings"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/consts"
	"github.com/ava-labs/timelock/fault"
)

const (
	// Len is the exact size of a vault account's data.
	Len = 148

	// Discriminator marks data as an initialized vault. Zero is never a valid
	// discriminator since new accounts are zero filled.
	Discriminator uint8 = 1

	ReservedLen = 32
)

// Vault is the decoded form of a vault account.
type Vault struct {
	Discriminator codec.Option[uint8]
	// Salt re-derives the vault address from (Admin, Mint).
	Salt         uint8
	Admin        codec.Address
	Mint         codec.Address
	MintDecimals uint8
	VaultToken   codec.Address
	StartSlot    uint64
	SlotsLocked  uint64
	Reserved     [ReservedLen]byte
}

// LockParams are the caller supplied values recorded at initialization.
type LockParams struct {
	Salt        uint8
	SlotsToLock uint64
}

type layout struct {
	DiscriminatorTag uint8
	Discriminator    uint8
	Salt             uint8
	Admin            [32]byte
	Mint             [32]byte
	MintDecimals     uint8
	VaultToken       [32]byte
	StartSlot        uint64
	SlotsLocked      uint64
	Reserved         [ReservedLen]byte
}

func (v *Vault) IsInitialized() bool {
	d, ok := v.Discriminator.Value()
	return ok && d == Discriminator
}

// Decode parses an initialized vault.
func Decode(data []byte) (*Vault, error) {
	v, err := DecodeUnchecked(data)
	if err != nil {
		return nil, err
	}
	if !v.IsInitialized() {
		return nil, fmt.Errorf("%w: discriminator %s", fault.ErrUninitialized, v.Discriminator)
	}
	return v, nil
}

// DecodeUnchecked parses vault data without requiring it to be initialized.
func DecodeUnchecked(data []byte) (*Vault, error) {
	var l layout
	if err := codec.Unmarshal(data, Len, &l); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidAccountData, err)
	}
	d, err := codec.OptionFromParts[uint8](l.DiscriminatorTag, []byte{l.Discriminator})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrUninitialized, err)
	}
	return &Vault{
		Discriminator: d,
		Salt:          l.Salt,
		Admin:         l.Admin,
		Mint:          l.Mint,
		MintDecimals:  l.MintDecimals,
		VaultToken:    l.VaultToken,
		StartSlot:     l.StartSlot,
		SlotsLocked:   l.SlotsLocked,
		Reserved:      l.Reserved,
	}, nil
}

func (v *Vault) Encode() ([]byte, error) {
	l := layout{
		DiscriminatorTag: v.Discriminator.Tag(),
		Salt:             v.Salt,
		Admin:            v.Admin,
		Mint:             v.Mint,
		MintDecimals:     v.MintDecimals,
		VaultToken:       v.VaultToken,
		StartSlot:        v.StartSlot,
		SlotsLocked:      v.SlotsLocked,
		Reserved:         v.Reserved,
	}
	if d, ok := v.Discriminator.Value(); ok {
		l.Discriminator = d
	}
	return codec.Marshal(l, Len)
}

// Initialize writes a new vault into [data], which must be freshly allocated.
func Initialize(
	data []byte,
	admin codec.Address,
	mint codec.Address,
	params LockParams,
	vaultToken codec.Address,
	mintDecimals uint8,
	nowSlot uint64,
) error {
	v, err := DecodeUnchecked(data)
	if err != nil {
		return err
	}
	if v.IsInitialized() {
		return fmt.Errorf("%w: vault for admin %s and mint %s", fault.ErrAlreadyInitialized, v.Admin, v.Mint)
	}

	v.Discriminator = codec.Some(Discriminator)
	v.Salt = params.Salt
	v.Admin = admin
	v.Mint = mint
	v.VaultToken = vaultToken
	v.MintDecimals = mintDecimals
	v.StartSlot = nowSlot
	v.SlotsLocked = params.SlotsToLock

	b, err := v.Encode()
	if err != nil {
		return err
	}
	copy(data, b)
	return nil
}

// Close zeroes every byte of vault data.
func Close(data []byte) {
	clear(data)
}

// Elapsed returns the slots since the vault was created, floored at zero.
func (v *Vault) Elapsed(currentSlot uint64) uint64 {
	elapsed, err := smath.Sub(currentSlot, v.StartSlot)
	if err != nil {
		return 0
	}
	return elapsed
}

// Remaining returns the slots left until the vault unlocks, floored at zero.
func (v *Vault) Remaining(currentSlot uint64) uint64 {
	remaining, err := smath.Sub(v.SlotsLocked, v.Elapsed(currentSlot))
	if err != nil {
		return 0
	}
	return remaining
}

// CheckUnlockAllowed fails with [fault.ErrVaultLocked] until SlotsLocked
// slots have passed since StartSlot.
func CheckUnlockAllowed(v *Vault, currentSlot uint64) error {
	if v.Elapsed(currentSlot) >= v.SlotsLocked {
		return nil
	}
	remaining := v.Remaining(currentSlot)
	return fmt.Errorf(
		"%w: unlocks in %d slots (%d epochs)",
		fault.ErrVaultLocked,
		remaining,
		remaining/consts.SlotsPerEpoch,
	)
}

func (v *Vault) String() string {
	discriminator := "None"
	if d, ok := v.Discriminator.Value(); ok {
		discriminator = fmt.Sprintf("%d", d)
	}
	var sb strings.Builder
	sb.WriteString("Vault Account:\n")
	fmt.Fprintf(&sb, "├─ Discriminator: %s\n", discriminator)
	fmt.Fprintf(&sb, "├─ Salt: %d\n", v.Salt)
	fmt.Fprintf(&sb, "├─ Admin: %s\n", v.Admin)
	fmt.Fprintf(&sb, "├─ Mint: %s\n", v.Mint)
	fmt.Fprintf(&sb, "├─ Mint Decimals: %d\n", v.MintDecimals)
	fmt.Fprintf(&sb, "├─ Vault Token Account: %s\n", v.VaultToken)
	fmt.Fprintf(&sb, "├─ Start Slot: %d\n", v.StartSlot)
	fmt.Fprintf(
		&sb,
		"└─ Slots Locked: %d (%.3f epochs)",
		v.SlotsLocked,
		float64(v.SlotsLocked)/consts.SlotsPerEpoch,
	)
	return sb.String()
}
