// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pebble is the on-disk account store used by the command line
// ledger.
package pebble

import (
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	_ database.KeyValueReader        = (*Database)(nil)
	_ database.KeyValueWriterDeleter = (*Database)(nil)
	_ database.Batcher               = (*Database)(nil)
	_ io.Closer                      = (*Database)(nil)
	_ database.Batch                 = (*Batch)(nil)
)

type Config struct {
	CacheSize       int  `json:"cacheSize"`
	BytesPerSync    int  `json:"bytesPerSync"`
	WALBytesPerSync int  `json:"walBytesPerSync"`
	MaxOpenFiles    int  `json:"maxOpenFiles"`
	Sync            bool `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:       64 * units.MiB,
		BytesPerSync:    1 * units.MiB,
		WALBytesPerSync: 1 * units.MiB,
		MaxOpenFiles:    1_024,
		Sync:            true,
	}
}

// Database stores accounts in a pebble instance.
type Database struct {
	l      sync.RWMutex
	closed bool

	db           *pebble.DB
	writeOptions *pebble.WriteOptions

	metrics *metrics
}

// New opens (or creates) the pebble database at [file], registering its
// metrics on [registerer].
func New(file string, cfg Config, registerer prometheus.Registerer) (*Database, error) {
	metrics, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	d := &Database{
		writeOptions: &pebble.WriteOptions{Sync: cfg.Sync},
		metrics:      metrics,
	}
	opts := &pebble.Options{
		Cache:           pebble.NewCache(int64(cfg.CacheSize)),
		BytesPerSync:    cfg.BytesPerSync,
		WALBytesPerSync: cfg.WALBytesPerSync,
		MaxOpenFiles:    cfg.MaxOpenFiles,
	}
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, err
	}
	d.db = db
	return d, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, err := db.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.l.RLock()
	defer db.l.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	start := time.Now()
	defer func() {
		db.metrics.getLatency.Observe(time.Since(start).Seconds())
	}()

	value, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// [value] is only valid until [closer] is closed.
	v := slices.Clone(value)
	return v, closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	db.l.RLock()
	defer db.l.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	db.metrics.puts.Inc()
	return db.db.Set(key, value, db.writeOptions)
}

func (db *Database) Delete(key []byte) error {
	db.l.RLock()
	defer db.l.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	db.metrics.deletes.Inc()
	return db.db.Delete(key, db.writeOptions)
}

func (db *Database) NewBatch() database.Batch {
	return &Batch{
		db:    db,
		batch: db.db.NewBatch(),
	}
}

func (db *Database) Close() error {
	db.l.Lock()
	defer db.l.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.closed = true
	return db.db.Close()
}

type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

// Batch accumulates writes that are applied atomically by Write.
type Batch struct {
	db    *Database
	batch *pebble.Batch

	ops  []batchOp
	size int
}

func (b *Batch) Put(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: slices.Clone(key), value: slices.Clone(value)})
	b.size += len(key) + len(value)
	return b.batch.Set(key, value, nil)
}

func (b *Batch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: slices.Clone(key), delete: true})
	b.size += len(key)
	return b.batch.Delete(key, nil)
}

func (b *Batch) Size() int {
	return b.size
}

func (b *Batch) Write() error {
	b.db.l.RLock()
	defer b.db.l.RUnlock()

	if b.db.closed {
		return database.ErrClosed
	}
	b.db.metrics.batches.Inc()
	return b.batch.Commit(b.db.writeOptions)
}

func (b *Batch) Reset() {
	b.batch.Reset()
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *Batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, op := range b.ops {
		if op.delete {
			if err := w.Delete(op.key); err != nil {
				return err
			}
			continue
		}
		if err := w.Put(op.key, op.value); err != nil {
			return err
		}
	}
	return nil
}

func (b *Batch) Inner() database.Batch {
	return b
}
