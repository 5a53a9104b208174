// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ava-labs/avalanchego/database"
	"github.com/near/borsh-go"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/consts"
	"github.com/ava-labs/timelock/runtime"
)

// Store is the database the ledger persists to. Both memdb and the pebble
// package satisfy it.
type Store interface {
	database.KeyValueReader
	database.Batcher
	NewIteratorWithPrefix(prefix []byte) database.Iterator
	io.Closer
}

const (
	accountPrefix byte = 0x0
	slotPrefix    byte = 0x1

	// KeyPrefix is reserved for tools that keep named keys next to the
	// ledger state.
	KeyPrefix byte = 0x2
)

var slotKey = []byte{slotPrefix}

func accountFromKey(k []byte) (codec.Address, bool) {
	if len(k) != 1+codec.AddressLen || k[0] != accountPrefix {
		return codec.EmptyAddress, false
	}
	return codec.Address(k[1:]), true
}

// [accountPrefix] + [address]
func AccountKey(addr codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = accountPrefix
	copy(k[1:], addr[:])
	return k
}

type accountRecord struct {
	Owner      [codec.AddressLen]byte
	Lamports   uint64
	Executable bool
	Data       []byte
}

func encodeAccount(a *runtime.Account) ([]byte, error) {
	return borsh.Serialize(accountRecord{
		Owner:      a.Owner,
		Lamports:   a.Lamports,
		Executable: a.Executable,
		Data:       a.Data,
	})
}

func decodeAccount(b []byte) (*runtime.Account, error) {
	var r accountRecord
	if err := borsh.Deserialize(&r, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptAccount, err)
	}
	data := r.Data
	if data == nil {
		data = []byte{}
	}
	return &runtime.Account{
		Owner:      r.Owner,
		Lamports:   r.Lamports,
		Executable: r.Executable,
		Data:       data,
	}, nil
}

// getAccount reads [addr] from [db]. Addresses that were never written are
// empty system accounts.
func getAccount(db database.KeyValueReader, addr codec.Address, system codec.Address) (*runtime.Account, error) {
	v, err := db.Get(AccountKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return &runtime.Account{Owner: system, Data: []byte{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeAccount(v)
}

func getSlot(db database.KeyValueReader) (uint64, bool, error) {
	v, err := db.Get(slotKey)
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(v) != consts.Uint64Len {
		return 0, false, fmt.Errorf("%w: slot is %d bytes", ErrCorruptAccount, len(v))
	}
	return binary.BigEndian.Uint64(v), true, nil
}

func putSlot(db database.KeyValueWriter, slot uint64) error {
	return db.Put(slotKey, binary.BigEndian.AppendUint64(nil, slot))
}
