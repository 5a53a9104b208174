// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package program implements the time-locked vault: lock moves tokens into a
// vault derived from (admin, mint), empty returns them once enough slots have
// passed.
package program

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/runtime"
)

type Program struct {
	cfg Config
	log logging.Logger
}

func New(cfg Config, log logging.Logger) *Program {
	return &Program{
		cfg: cfg,
		log: log,
	}
}

func (p *Program) ID() codec.Address {
	return p.cfg.ProgramID
}

// Process runs a single instruction to completion. No capability is invoked
// until every check for the operation has passed; the host is responsible for
// discarding all effects if an error is returned.
func (p *Program) Process(
	ctx context.Context,
	host runtime.Host,
	accounts []*runtime.AccountInfo,
	data []byte,
) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty instruction data", fault.ErrUnknownOperation)
	}

	op := Operation(data[0])
	var err error
	switch op {
	case OperationLock:
		p.log.Debug("locking vault")
		err = p.lock(ctx, host, accounts, data)
	case OperationEmpty:
		p.log.Debug("emptying vault")
		err = p.empty(ctx, host, accounts, data)
	default:
		return fmt.Errorf("%w: %d", fault.ErrUnknownOperation, data[0])
	}
	if err != nil {
		p.log.Debug("instruction failed",
			zap.Stringer("operation", op),
			zap.Uint32("code", uint32(fault.CodeOf(err))),
			zap.Error(err),
		)
	}
	return err
}
