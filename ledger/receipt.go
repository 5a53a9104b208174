// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/timelock/fault"
)

// Receipt is the outcome of an executed transaction.
type Receipt struct {
	TxID    ids.ID `json:"txID"`
	Slot    uint64 `json:"slot"`
	Success bool   `json:"success"`

	// Set when an instruction failed.
	Code              fault.Code `json:"code"`
	Error             string     `json:"error,omitempty"`
	FailedInstruction int        `json:"failedInstruction"`

	Logs []string `json:"logs"`

	err error
}

// Err returns the error of the failed instruction, if any.
func (r *Receipt) Err() error {
	return r.err
}

func (r *Receipt) fail(i int, err error) {
	r.Success = false
	r.FailedInstruction = i
	r.Code = fault.CodeOf(err)
	r.Error = err.Error()
	r.err = err
}

func (r *Receipt) logf(format string, args ...any) {
	r.Logs = append(r.Logs, fmt.Sprintf(format, args...))
}
