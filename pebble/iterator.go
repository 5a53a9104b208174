// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var (
	_ database.Iterator = (*iter)(nil)

	errCouldNotGetIterator = errors.New("failed to create iterator")
)

// NewIteratorWithPrefix iterates, in key order, over every key starting
// with [prefix].
func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	db.l.RLock()
	defer db.l.RUnlock()

	if db.closed {
		return &database.IteratorError{Err: database.ErrClosed}
	}
	it, err := db.db.NewIter(prefixBounds(prefix))
	if err != nil {
		return &database.IteratorError{Err: fmt.Errorf("%w: %w", errCouldNotGetIterator, err)}
	}
	return &iter{
		db:   db,
		iter: it,
	}
}

func prefixBounds(prefix []byte) *pebble.IterOptions {
	opts := &pebble.IterOptions{LowerBound: slices.Clone(prefix)}
	// The upper bound is the shortest key greater than every key with
	// [prefix]. A prefix of only 0xff bytes has no upper bound.
	upper := slices.Clone(prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] != 0xff {
			upper[i]++
			opts.UpperBound = upper[:i+1]
			break
		}
	}
	return opts
}

type iter struct {
	db   *Database
	iter *pebble.Iterator

	initialized bool
	closed      bool
	err         error

	key   []byte
	value []byte
}

func (it *iter) Next() bool {
	it.db.l.RLock()
	defer it.db.l.RUnlock()

	switch {
	case it.err != nil || it.closed:
		return false
	case it.db.closed:
		it.err = database.ErrClosed
		return false
	}

	var hasNext bool
	if it.initialized {
		hasNext = it.iter.Next()
	} else {
		hasNext = it.iter.First()
		it.initialized = true
	}
	if !hasNext {
		it.key = nil
		it.value = nil
		return false
	}
	it.key = slices.Clone(it.iter.Key())
	it.value = slices.Clone(it.iter.Value())
	return true
}

func (it *iter) Error() error {
	if it.err != nil || it.closed {
		return it.err
	}
	return it.iter.Error()
}

func (it *iter) Key() []byte {
	return it.key
}

func (it *iter) Value() []byte {
	return it.value
}

func (it *iter) Release() {
	it.db.l.RLock()
	defer it.db.l.RUnlock()

	if it.closed {
		return
	}
	it.closed = true
	if err := it.iter.Close(); err != nil && it.err == nil {
		it.err = err
	}
}
