// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package emap

import (
	"container/heap"

	"github.com/ava-labs/avalanchego/ids"
)

var _ heap.Interface = (*bucketHeap)(nil)

type bucket struct {
	slot  uint64
	items []ids.ID
}

// bucketHeap is a min-heap of buckets ordered by slot.
type bucketHeap struct {
	buckets []*bucket
}

func (bh *bucketHeap) Len() int {
	return len(bh.buckets)
}

func (bh *bucketHeap) Less(i, j int) bool {
	return bh.buckets[i].slot < bh.buckets[j].slot
}

func (bh *bucketHeap) Swap(i, j int) {
	bh.buckets[i], bh.buckets[j] = bh.buckets[j], bh.buckets[i]
}

// Push is only called by container/heap.
func (bh *bucketHeap) Push(x any) {
	bh.buckets = append(bh.buckets, x.(*bucket))
}

// Pop is only called by container/heap.
func (bh *bucketHeap) Pop() any {
	n := len(bh.buckets)
	b := bh.buckets[n-1]
	bh.buckets[n-1] = nil
	bh.buckets = bh.buckets[:n-1]
	return b
}

// Peek returns the bucket with the lowest slot, or nil.
func (bh *bucketHeap) Peek() *bucket {
	if len(bh.buckets) == 0 {
		return nil
	}
	return bh.buckets[0]
}
