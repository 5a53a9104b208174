// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/pda"
	"github.com/ava-labs/timelock/runtime"
	"github.com/ava-labs/timelock/token"
)

// token program instructions
const (
	TokenInitializeMint    uint8 = 0
	TokenInitializeAccount uint8 = 1
	TokenTransfer          uint8 = 3
	TokenMintTo            uint8 = 7
	TokenCloseAccount      uint8 = 9
)

const initializeMintDataLen = 1 + 1 + codec.AddressLen

type initializeMintLayout struct {
	Op            uint8
	Decimals      uint8
	MintAuthority [codec.AddressLen]byte
}

func (c Config) tokenInstruction(data []byte, metas ...runtime.AccountMeta) runtime.Instruction {
	return runtime.Instruction{
		ProgramID: c.TokenProgramID,
		Accounts:  metas,
		Data:      data,
	}
}

func amountData(op uint8, amount uint64) []byte {
	data, err := codec.Marshal(amountLayout{Op: op, Amount: amount}, transferDataLen)
	if err != nil {
		panic(err)
	}
	return data
}

// InitializeMintInstruction turns an allocated account into a mint
// controlled by [authority].
func (c Config) InitializeMintInstruction(mint codec.Address, decimals uint8, authority codec.Address) runtime.Instruction {
	data, err := codec.Marshal(initializeMintLayout{
		Op:            TokenInitializeMint,
		Decimals:      decimals,
		MintAuthority: authority,
	}, initializeMintDataLen)
	if err != nil {
		panic(err)
	}
	return c.tokenInstruction(data, runtime.NewWritable(mint, false))
}

// InitializeAccountInstruction turns an allocated account into a holder of
// [mint] owned by [owner].
func (c Config) InitializeAccountInstruction(account, mint, owner codec.Address) runtime.Instruction {
	return c.tokenInstruction(
		[]byte{TokenInitializeAccount},
		runtime.NewWritable(account, false),
		runtime.NewReadonly(mint, false),
		runtime.NewReadonly(owner, false),
	)
}

func (c Config) MintToInstruction(mint, destination, authority codec.Address, amount uint64) runtime.Instruction {
	return c.tokenInstruction(
		amountData(TokenMintTo, amount),
		runtime.NewWritable(mint, false),
		runtime.NewWritable(destination, false),
		runtime.NewReadonly(authority, true),
	)
}

func (c Config) TransferInstruction(source, destination, authority codec.Address, amount uint64) runtime.Instruction {
	return c.tokenInstruction(
		amountData(TokenTransfer, amount),
		runtime.NewWritable(source, false),
		runtime.NewWritable(destination, false),
		runtime.NewReadonly(authority, true),
	)
}

func (c Config) CloseAccountInstruction(account, destination, authority codec.Address) runtime.Instruction {
	return c.tokenInstruction(
		[]byte{TokenCloseAccount},
		runtime.NewWritable(account, false),
		runtime.NewWritable(destination, false),
		runtime.NewReadonly(authority, true),
	)
}

func processToken(inv *invocation, infos []*runtime.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty token instruction", fault.ErrInvalidInstructionData)
	}
	need := 3
	if data[0] == TokenInitializeMint {
		need = 1
	}
	if len(infos) < need {
		return fmt.Errorf("%w: need %d, got %d", fault.ErrNotEnoughAccountKeys, need, len(infos))
	}

	switch data[0] {
	case TokenInitializeMint:
		var l initializeMintLayout
		if err := codec.Unmarshal(data, initializeMintDataLen, &l); err != nil {
			return fmt.Errorf("%w: %w", fault.ErrInvalidInstructionData, err)
		}
		return inv.initializeMint(infos[0], l.Decimals, l.MintAuthority)
	case TokenInitializeAccount:
		if len(data) != 1 {
			return fmt.Errorf("%w: initialize account takes no arguments", fault.ErrInvalidInstructionData)
		}
		return inv.initializeTokenAccount(infos[0], infos[1], infos[2].Key)
	case TokenTransfer, TokenMintTo:
		var l amountLayout
		if err := codec.Unmarshal(data, transferDataLen, &l); err != nil {
			return fmt.Errorf("%w: %w", fault.ErrInvalidInstructionData, err)
		}
		if l.Op == TokenMintTo {
			return inv.mintTo(infos[0], infos[1], infos[2], l.Amount)
		}
		return inv.transferTokens(infos[0], infos[1], infos[2], l.Amount, nil)
	case TokenCloseAccount:
		if len(data) != 1 {
			return fmt.Errorf("%w: close account takes no arguments", fault.ErrInvalidInstructionData)
		}
		return inv.closeTokenAccount(infos[0], infos[1], infos[2], nil)
	default:
		return fmt.Errorf("%w: token instruction %d", fault.ErrInvalidInstructionData, data[0])
	}
}

// writeTokenState stores the output of [encode] in [info].
func (inv *invocation) writeTokenState(info *runtime.AccountInfo, encode func() ([]byte, error)) error {
	if !info.IsWritable {
		return fmt.Errorf("%w: %s", fault.ErrNotWritable, info.Key)
	}
	b, err := encode()
	if err != nil {
		return err
	}
	copy(info.Data, b)
	return nil
}

func (inv *invocation) initializeMint(info *runtime.AccountInfo, decimals uint8, authority codec.Address) error {
	tokenID := inv.exec.ledger.cfg.TokenProgramID
	if !info.IsOwnedBy(tokenID) {
		return fmt.Errorf("%w: mint %s owned by %s", fault.ErrOwnerMismatch, info.Key, info.Owner)
	}
	if len(info.Data) != token.MintLen {
		return fmt.Errorf("%w: mint %s has %d bytes", fault.ErrInvalidAccountData, info.Key, len(info.Data))
	}
	m, err := token.DecodeMint(info.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", fault.ErrInvalidAccountData, err)
	}
	if m.IsInitialized {
		return fmt.Errorf("%w: mint %s", fault.ErrAlreadyInitialized, info.Key)
	}
	m = &token.Mint{
		MintAuthority: codec.Some(authority),
		Decimals:      decimals,
		IsInitialized: true,
	}
	return inv.writeTokenState(info, m.Encode)
}

func (inv *invocation) initializeTokenAccount(info, mint *runtime.AccountInfo, owner codec.Address) error {
	tokenID := inv.exec.ledger.cfg.TokenProgramID
	if !info.IsOwnedBy(tokenID) {
		return fmt.Errorf("%w: token account %s owned by %s", fault.ErrOwnerMismatch, info.Key, info.Owner)
	}
	if len(info.Data) != token.AccountLen {
		return fmt.Errorf("%w: token account %s has %d bytes", fault.ErrInvalidAccountData, info.Key, len(info.Data))
	}
	a, err := token.DecodeAccount(info.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", fault.ErrInvalidAccountData, err)
	}
	if a.IsInitialized() {
		return fmt.Errorf("%w: token account %s", fault.ErrAlreadyInitialized, info.Key)
	}
	if _, err := token.MintFromAccountInfo(mint, tokenID); err != nil {
		return err
	}
	a = &token.Account{
		Mint:  mint.Key,
		Owner: owner,
		State: token.StateInitialized,
	}
	return inv.writeTokenState(info, a.Encode)
}

func (inv *invocation) mintTo(mint, destination, authority *runtime.AccountInfo, amount uint64) error {
	tokenID := inv.exec.ledger.cfg.TokenProgramID
	m, err := token.MintFromAccountInfo(mint, tokenID)
	if err != nil {
		return err
	}
	mintAuthority, ok := m.MintAuthority.Value()
	if !ok || mintAuthority != authority.Key {
		return fmt.Errorf("%w: mint authority of %s is %s, not %s", fault.ErrOwnerMismatch, mint.Key, m.MintAuthority, authority.Key)
	}
	if err := inv.authorize(authority, nil); err != nil {
		return err
	}
	dst, err := token.AccountFromAccountInfo(destination, tokenID)
	if err != nil {
		return err
	}
	if dst.Mint != mint.Key {
		return fmt.Errorf("%w: destination holds %s, not %s", fault.ErrMintMismatch, dst.Mint, mint.Key)
	}
	if dst.IsFrozen() {
		return fmt.Errorf("%w: %s", ErrAccountFrozen, destination.Key)
	}

	supply, err := smath.Add64(m.Supply, amount)
	if err != nil {
		return fmt.Errorf("%w: supply of %s", fault.ErrArithmeticOverflow, mint.Key)
	}
	// supply >= every balance, so this cannot overflow
	m.Supply = supply
	dst.Amount += amount

	if err := inv.writeTokenState(mint, m.Encode); err != nil {
		return err
	}
	return inv.writeTokenState(destination, dst.Encode)
}

func (inv *invocation) transferTokens(source, destination, authority *runtime.AccountInfo, amount uint64, signers []pda.Seeds) error {
	tokenID := inv.exec.ledger.cfg.TokenProgramID
	src, err := token.AccountFromAccountInfo(source, tokenID)
	if err != nil {
		return err
	}
	dst, err := token.AccountFromAccountInfo(destination, tokenID)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return fmt.Errorf("%w: source holds %s, destination holds %s", fault.ErrMintMismatch, src.Mint, dst.Mint)
	}
	if src.IsFrozen() || dst.IsFrozen() {
		return fmt.Errorf("%w: %s -> %s", ErrAccountFrozen, source.Key, destination.Key)
	}
	if src.Owner != authority.Key {
		return fmt.Errorf("%w: %s owned by %s, not %s", fault.ErrOwnerMismatch, source.Key, src.Owner, authority.Key)
	}
	if err := inv.authorize(authority, signers); err != nil {
		return err
	}
	remaining, err := smath.Sub(src.Amount, amount)
	if err != nil {
		return fmt.Errorf("%w: %d > %d", fault.ErrAmountExceedsBalance, amount, src.Amount)
	}
	if source.Key == destination.Key {
		return nil
	}
	balance, err := smath.Add64(dst.Amount, amount)
	if err != nil {
		return fmt.Errorf("%w: crediting %s", fault.ErrArithmeticOverflow, destination.Key)
	}
	src.Amount = remaining
	dst.Amount = balance

	if err := inv.writeTokenState(source, src.Encode); err != nil {
		return err
	}
	return inv.writeTokenState(destination, dst.Encode)
}

// closeTokenAccount sends the rent of an empty token account to
// [destination] and hands the account back to the system program.
func (inv *invocation) closeTokenAccount(account, destination, authority *runtime.AccountInfo, signers []pda.Seeds) error {
	cfg := inv.exec.ledger.cfg
	a, err := token.AccountFromAccountInfo(account, cfg.TokenProgramID)
	if err != nil {
		return err
	}
	if account.Key == destination.Key {
		return fmt.Errorf("%w: %s closes into itself", fault.ErrInvalidAccountData, account.Key)
	}
	closer := a.Owner
	if ca, ok := a.CloseAuthority.Value(); ok {
		closer = ca
	}
	if closer != authority.Key {
		return fmt.Errorf("%w: %s closed by %s, not %s", fault.ErrOwnerMismatch, account.Key, closer, authority.Key)
	}
	if err := inv.authorize(authority, signers); err != nil {
		return err
	}
	if a.IsNative.IsNone() && a.Amount != 0 {
		return fmt.Errorf("%w: %s holds %d", ErrNonZeroBalance, account.Key, a.Amount)
	}
	if !account.IsWritable {
		return fmt.Errorf("%w: %s", fault.ErrNotWritable, account.Key)
	}
	if err := credit(destination, account.Lamports); err != nil {
		return err
	}
	account.Lamports = 0
	account.Owner = cfg.SystemProgramID
	account.Data = []byte{}
	return nil
}
