// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package emap tracks ids until the slot they expire at.
package emap

import (
	"container/heap"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/set"
)

// Item defines an interface accepted by EMap
type Item interface {
	ID() ids.ID
	Expiry() uint64 // last slot the item must be remembered for
}

// An EMap remembers the ids of items until their expiry slot passes. The
// zero expiry is never tracked.
type EMap[T Item] struct {
	mu sync.RWMutex

	bh    *bucketHeap
	seen  set.Set[ids.ID]
	slots map[uint64]*bucket
}

func NewEMap[T Item]() *EMap[T] {
	return &EMap[T]{
		seen:  set.Set[ids.ID]{},
		slots: make(map[uint64]*bucket),
		bh:    &bucketHeap{buckets: make([]*bucket, 0, 120)},
	}
}

// Add tracks [items]. Items already tracked keep their original expiry.
func (e *EMap[T]) Add(items ...T) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, item := range items {
		e.add(item.ID(), item.Expiry())
	}
}

func (e *EMap[T]) add(id ids.ID, slot uint64) {
	if slot == 0 {
		return
	}
	if e.seen.Contains(id) {
		return
	}
	e.seen.Add(id)

	if b, ok := e.slots[slot]; ok {
		b.items = append(b.items, id)
		return
	}

	b := &bucket{
		slot:  slot,
		items: []ids.ID{id},
	}
	e.slots[slot] = b
	heap.Push(e.bh, b)
}

// SetMin forgets every item that expires before [slot] and returns their
// ids.
func (e *EMap[T]) SetMin(slot uint64) []ids.ID {
	e.mu.Lock()
	defer e.mu.Unlock()

	evicted := []ids.ID{}
	for {
		b := e.bh.Peek()
		if b == nil || b.slot >= slot {
			break
		}
		heap.Pop(e.bh)
		for _, id := range b.items {
			e.seen.Remove(id)
			evicted = append(evicted, id)
		}
		delete(e.slots, b.slot)
	}
	return evicted
}

// Any returns true if any of [items] is tracked.
func (e *EMap[T]) Any(items ...T) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, item := range items {
		if e.seen.Contains(item.ID()) {
			return true
		}
	}
	return false
}

func (e *EMap[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.seen.Len()
}
