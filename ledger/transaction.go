// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/near/borsh-go"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/crypto/ed25519"
	"github.com/ava-labs/timelock/runtime"
)

type Signature struct {
	PublicKey ed25519.PublicKey `json:"publicKey"`
	Signature ed25519.Signature `json:"signature"`
}

// Transaction is an ordered list of instructions executed atomically. The
// fee payer must sign; every account meta marked as a signer must be covered
// by one of [Signatures].
type Transaction struct {
	FeePayer     codec.Address         `json:"feePayer"`
	RecentSlot   uint64                `json:"recentSlot"`
	Instructions []runtime.Instruction `json:"instructions"`

	Signatures []Signature `json:"signatures"`

	id ids.ID
}

func NewTx(feePayer codec.Address, recentSlot uint64, instructions ...runtime.Instruction) *Transaction {
	return &Transaction{
		FeePayer:     feePayer,
		RecentSlot:   recentSlot,
		Instructions: instructions,
	}
}

type metaLayout struct {
	Key        [codec.AddressLen]byte
	IsSigner   bool
	IsWritable bool
}

type instructionLayout struct {
	ProgramID [codec.AddressLen]byte
	Accounts  []metaLayout
	Data      []byte
}

type messageLayout struct {
	FeePayer     [codec.AddressLen]byte
	RecentSlot   uint64
	Instructions []instructionLayout
}

// Message is the byte string every signature covers.
func (t *Transaction) Message() ([]byte, error) {
	m := messageLayout{
		FeePayer:     t.FeePayer,
		RecentSlot:   t.RecentSlot,
		Instructions: make([]instructionLayout, len(t.Instructions)),
	}
	for i, ix := range t.Instructions {
		metas := make([]metaLayout, len(ix.Accounts))
		for j, meta := range ix.Accounts {
			metas[j] = metaLayout{
				Key:        meta.Key,
				IsSigner:   meta.IsSigner,
				IsWritable: meta.IsWritable,
			}
		}
		m.Instructions[i] = instructionLayout{
			ProgramID: ix.ProgramID,
			Accounts:  metas,
			Data:      ix.Data,
		}
	}
	return borsh.Serialize(m)
}

// Sign appends a signature by each of [keys] over the current message.
func (t *Transaction) Sign(keys ...ed25519.PrivateKey) error {
	msg, err := t.Message()
	if err != nil {
		return err
	}
	for _, key := range keys {
		t.Signatures = append(t.Signatures, Signature{
			PublicKey: key.PublicKey(),
			Signature: ed25519.Sign(msg, key),
		})
	}
	return nil
}

// ID is the hash of the message.
func (t *Transaction) ID() (ids.ID, error) {
	if t.id != ids.Empty {
		return t.id, nil
	}
	msg, err := t.Message()
	if err != nil {
		return ids.Empty, err
	}
	t.id = hashing.ComputeHash256Array(msg)
	return t.id, nil
}

// verify checks every signature and returns the set of signing addresses.
// Large batches are verified together.
func (t *Transaction) verify(msg []byte) (set.Set[codec.Address], error) {
	signers := set.NewSet[codec.Address](len(t.Signatures))
	if len(t.Signatures) >= ed25519.MinBatchSize {
		batch := ed25519.NewBatch(len(t.Signatures))
		for _, sig := range t.Signatures {
			batch.Add(msg, sig.PublicKey, sig.Signature)
		}
		if !batch.Verify() {
			return nil, ErrInvalidSignature
		}
	}
	for _, sig := range t.Signatures {
		if len(t.Signatures) < ed25519.MinBatchSize && !ed25519.Verify(msg, sig.PublicKey, sig.Signature) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSignature, codec.Address(sig.PublicKey))
		}
		signers.Add(codec.Address(sig.PublicKey))
	}

	if !signers.Contains(t.FeePayer) {
		return nil, fmt.Errorf("%w: %s", ErrFeePayerNotSigner, t.FeePayer)
	}
	for _, ix := range t.Instructions {
		for _, meta := range ix.Accounts {
			if meta.IsSigner && !signers.Contains(meta.Key) {
				return nil, fmt.Errorf("%w: %s", ErrMissingSignature, meta.Key)
			}
		}
	}
	return signers, nil
}
