// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger is a single-node account ledger that hosts programs. It
// verifies transaction signatures, runs each instruction against the
// accounts it names, and commits a transaction only if every instruction
// succeeds.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	smath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/emap"
	"github.com/ava-labs/timelock/fault"
	"github.com/ava-labs/timelock/runtime"
	"github.com/ava-labs/timelock/token"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Program is code the ledger can run. The vault program satisfies it.
type Program interface {
	ID() codec.Address
	Process(ctx context.Context, host runtime.Host, accounts []*runtime.AccountInfo, data []byte) error
}

type nativeProgram func(inv *invocation, infos []*runtime.AccountInfo, data []byte) error

type Ledger struct {
	cfg     Config
	log     logging.Logger
	tracer  oteltrace.Tracer
	metrics *metrics

	l        sync.Mutex
	db       Store
	slot     uint64
	natives  map[codec.Address]nativeProgram
	programs map[codec.Address]Program
	seen     *emap.EMap[*seenTx]
}

// seenTx is a processed transaction remembered until it can no longer be
// replayed.
type seenTx struct {
	id     ids.ID
	expiry uint64
}

func (s *seenTx) ID() ids.ID     { return s.id }
func (s *seenTx) Expiry() uint64 { return s.expiry }

// New opens a ledger on [db]. A database that has never held a ledger
// starts at [cfg.GenesisSlot].
func New(cfg Config, db Store, log logging.Logger, registerer prometheus.Registerer) (*Ledger, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	slot, ok, err := getSlot(db)
	if err != nil {
		return nil, err
	}
	if !ok {
		slot = cfg.GenesisSlot
		batch := db.NewBatch()
		if err := putSlot(batch, slot); err != nil {
			return nil, err
		}
		if err := batch.Write(); err != nil {
			return nil, err
		}
	}
	m.slot.Set(float64(slot))

	l := &Ledger{
		cfg:      cfg,
		log:      log,
		tracer:   otel.Tracer("github.com/ava-labs/timelock/ledger"),
		metrics:  m,
		db:       db,
		slot:     slot,
		programs: map[codec.Address]Program{},
		seen:     emap.NewEMap[*seenTx](),
	}
	l.natives = map[codec.Address]nativeProgram{
		cfg.SystemProgramID:          processSystem,
		cfg.TokenProgramID:           processToken,
		cfg.AssociatedTokenProgramID: processAssociatedToken,
	}
	return l, nil
}

func (l *Ledger) Config() Config {
	return l.cfg
}

// Register makes [p] callable at [p.ID()].
func (l *Ledger) Register(p Program) error {
	l.l.Lock()
	defer l.l.Unlock()

	id := p.ID()
	if _, ok := l.natives[id]; ok {
		return fmt.Errorf("%w: %s is native", ErrDuplicateProgram, id)
	}
	if _, ok := l.programs[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateProgram, id)
	}
	l.programs[id] = p
	l.log.Info("registered program", zap.Stringer("id", id))
	return nil
}

func (l *Ledger) Slot() uint64 {
	l.l.Lock()
	defer l.l.Unlock()

	return l.slot
}

// WarpSlots advances the clock by [n] slots.
func (l *Ledger) WarpSlots(n uint64) error {
	l.l.Lock()
	defer l.l.Unlock()

	slot, err := smath.Add64(l.slot, n)
	if err != nil {
		return fault.ErrArithmeticOverflow
	}
	return l.setSlot(slot)
}

// WarpToSlot sets the clock to [slot]. Time never moves backwards.
func (l *Ledger) WarpToSlot(slot uint64) error {
	l.l.Lock()
	defer l.l.Unlock()

	if slot < l.slot {
		return fmt.Errorf("%w: %d < %d", ErrSlotInPast, slot, l.slot)
	}
	return l.setSlot(slot)
}

// Assumes [l.l] is held
func (l *Ledger) setSlot(slot uint64) error {
	batch := l.db.NewBatch()
	if err := putSlot(batch, slot); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	l.slot = slot
	l.metrics.slot.Set(float64(slot))
	l.log.Debug("warped", zap.Uint64("slot", slot))
	return nil
}

// Account returns the committed state of [addr].
func (l *Ledger) Account(addr codec.Address) (*runtime.Account, error) {
	l.l.Lock()
	defer l.l.Unlock()

	return getAccount(l.db, addr, l.cfg.SystemProgramID)
}

// Exists reports whether [addr] holds any state.
func (l *Ledger) Exists(addr codec.Address) (bool, error) {
	l.l.Lock()
	defer l.l.Unlock()

	return l.db.Has(AccountKey(addr))
}

// Filter matches accounts whose data holds [Bytes] at [Offset].
type Filter struct {
	Offset int
	Bytes  []byte
}

func (f Filter) match(data []byte) bool {
	end := f.Offset + len(f.Bytes)
	return f.Offset >= 0 && end <= len(data) && bytes.Equal(data[f.Offset:end], f.Bytes)
}

// KeyedAccount is an account together with its address.
type KeyedAccount struct {
	Key codec.Address `json:"key"`
	*runtime.Account
}

// ProgramAccounts returns every account owned by [owner] that matches all
// of [filters], in address order.
func (l *Ledger) ProgramAccounts(owner codec.Address, filters ...Filter) ([]KeyedAccount, error) {
	l.l.Lock()
	defer l.l.Unlock()

	it := l.db.NewIteratorWithPrefix([]byte{accountPrefix})
	defer it.Release()

	var accounts []KeyedAccount
	for it.Next() {
		addr, ok := accountFromKey(it.Key())
		if !ok {
			continue
		}
		acct, err := decodeAccount(it.Value())
		if err != nil {
			return nil, err
		}
		if acct.Owner != owner || !matchAll(acct.Data, filters) {
			continue
		}
		accounts = append(accounts, KeyedAccount{Key: addr, Account: acct})
	}
	return accounts, it.Error()
}

func matchAll(data []byte, filters []Filter) bool {
	for _, f := range filters {
		if !f.match(data) {
			return false
		}
	}
	return true
}

// Balance returns the lamports held by [addr].
func (l *Ledger) Balance(addr codec.Address) (uint64, error) {
	acct, err := l.Account(addr)
	if err != nil {
		return 0, err
	}
	return acct.Lamports, nil
}

// TokenBalance returns the amount held by the token account at [addr].
func (l *Ledger) TokenBalance(addr codec.Address) (uint64, error) {
	acct, err := l.Account(addr)
	if err != nil {
		return 0, err
	}
	info := runtime.NewAccountInfo(addr, false, false, acct)
	ta, err := token.AccountFromAccountInfo(info, l.cfg.TokenProgramID)
	if err != nil {
		return 0, err
	}
	return ta.Amount, nil
}

// Airdrop credits [lamports] to [addr] outside of any transaction.
func (l *Ledger) Airdrop(addr codec.Address, lamports uint64) error {
	l.l.Lock()
	defer l.l.Unlock()

	acct, err := getAccount(l.db, addr, l.cfg.SystemProgramID)
	if err != nil {
		return err
	}
	balance, err := smath.Add64(acct.Lamports, lamports)
	if err != nil {
		return fmt.Errorf("%w: airdrop to %s", fault.ErrArithmeticOverflow, addr)
	}
	acct.Lamports = balance
	v, err := encodeAccount(acct)
	if err != nil {
		return err
	}
	batch := l.db.NewBatch()
	if err := batch.Put(AccountKey(addr), v); err != nil {
		return err
	}
	return batch.Write()
}

// ProcessTransaction executes [tx]. An error is returned only if [tx] could
// not be considered at all (bad signatures, stale slot, already processed)
// or the database failed; an instruction failure is reported in the receipt and leaves the
// ledger untouched.
func (l *Ledger) ProcessTransaction(ctx context.Context, tx *Transaction) (*Receipt, error) {
	start := time.Now()
	defer func() {
		l.metrics.txProcess.Observe(time.Since(start).Seconds())
	}()

	ctx, span := l.tracer.Start(
		ctx, "Ledger.ProcessTransaction",
		oteltrace.WithAttributes(
			attribute.Int("instructions", len(tx.Instructions)),
			attribute.Int("signatures", len(tx.Signatures)),
		),
	)
	defer span.End()

	l.l.Lock()
	defer l.l.Unlock()

	signers, err := l.precheck(tx)
	if err != nil {
		l.metrics.txsRejected.Inc()
		return nil, err
	}
	txID, err := tx.ID()
	if err != nil {
		return nil, err
	}
	l.seen.SetMin(l.slot)
	seen := &seenTx{id: txID, expiry: tx.RecentSlot + l.cfg.MaxTxAge}
	if l.seen.Any(seen) {
		l.metrics.txsRejected.Inc()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, txID)
	}

	r := &Receipt{
		TxID:              txID,
		Slot:              l.slot,
		FailedInstruction: -1,
	}
	e := &execution{
		ledger:  l,
		ts:      newTState(tx),
		signers: signers,
		receipt: r,
	}
	for i, ix := range tx.Instructions {
		l.metrics.instructions.Inc()
		if err := e.executeInstruction(ctx, ix); err != nil {
			if errors.Is(err, errStore) {
				return nil, err
			}
			r.fail(i, err)
			l.seen.Add(seen)
			l.metrics.txsFailed.Inc()
			l.log.Debug("transaction failed",
				zap.Stringer("txID", txID),
				zap.Int("instruction", i),
				zap.Uint32("code", uint32(r.Code)),
				zap.Error(err),
			)
			return r, nil
		}
	}

	batch := l.db.NewBatch()
	n, err := e.ts.Write(batch)
	if err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}
	r.Success = true
	l.seen.Add(seen)
	l.metrics.txsAccepted.Inc()
	l.log.Debug("transaction accepted",
		zap.Stringer("txID", txID),
		zap.Int("keys", n),
	)
	return r, nil
}

// Assumes [l.l] is held
func (l *Ledger) precheck(tx *Transaction) (set.Set[codec.Address], error) {
	if len(tx.Instructions) == 0 {
		return nil, ErrNoInstructions
	}
	if tx.RecentSlot > l.slot {
		return nil, fmt.Errorf("%w: %d > %d", ErrFutureSlot, tx.RecentSlot, l.slot)
	}
	if l.slot-tx.RecentSlot > l.cfg.MaxTxAge {
		return nil, fmt.Errorf("%w: recent slot %d, current %d", ErrTxExpired, tx.RecentSlot, l.slot)
	}
	msg, err := tx.Message()
	if err != nil {
		return nil, err
	}
	return tx.verify(msg)
}

func (l *Ledger) lookup(id codec.Address) (nativeProgram, Program, error) {
	if native, ok := l.natives[id]; ok {
		return native, nil, nil
	}
	if p, ok := l.programs[id]; ok {
		return nil, p, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnknownProgram, id)
}

// Close releases the underlying database.
func (l *Ledger) Close() error {
	l.l.Lock()
	defer l.l.Unlock()

	if err := l.db.Close(); err != nil && !errors.Is(err, database.ErrClosed) {
		return err
	}
	return nil
}
