package queue

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

const (
	freeState uint32 = iota // in the cache or unowned. must be 0
	liveState               // linked, or retired and not yet reclaimed
)

// node is a list cell. prev is set once before the node is published,
// next is set once after it, by the enqueuer or by a helper storing the
// same value.
type node[T any] struct {
	item    T
	hasItem bool
	prev    atomic.Pointer[node[T]]
	next    atomic.Pointer[node[T]]
	state   atomic.Uint32
	cache   *nodeCache[T]
}

// nodeCache hands out nodes for a single queue and takes them back once
// reclaimed.
type nodeCache[T any] struct {
	pool    sync.Pool
	enabled bool

	allocated atomic.Uint64
	recycled  atomic.Uint64
	freed     atomic.Uint64
}

func newNodeCache[T any](enabled bool) *nodeCache[T] {
	return &nodeCache[T]{enabled: enabled}
}

func (c *nodeCache[T]) get() *node[T] {
	c.allocated.Add(1)
	if c.enabled {
		if n, _ := c.pool.Get().(*node[T]); n != nil {
			if !n.state.CompareAndSwap(freeState, liveState) {
				panic("queue: cached node is still live")
			}
			c.recycled.Add(1)
			return n
		}
	}
	n := &node[T]{cache: c}
	n.state.Store(liveState)
	return n
}

func (c *nodeCache[T]) put(n *node[T]) {
	if !n.state.CompareAndSwap(liveState, freeState) {
		panic("queue: double reclaim")
	}
	var zero T
	n.item = zero
	n.hasItem = false
	n.prev.Store(nil)
	n.next.Store(nil)
	c.freed.Add(1)
	if c.enabled {
		c.pool.Put(n)
	}
}

// testHookEnqueue, if set, runs between the head load and the tail
// re-read of every enqueue attempt.
var testHookEnqueue func()

// freeNode is the deleter handed to the reclamation services.
func freeNode[T any](p unsafe.Pointer) {
	n := (*node[T])(p)
	n.cache.put(n)
}

// take moves the item out of n, which the caller owns as the new sentinel.
func (n *node[T]) take() T {
	if !n.hasItem {
		panic("queue: dequeued node carries no item")
	}
	item := n.item
	var zero T
	n.item = zero
	n.hasItem = false
	return item
}

// Stats describes a queue's node accounting.
type Stats struct {
	Allocated uint64 // nodes handed out, sentinels included
	Recycled  uint64 // allocations served from the node cache
	Freed     uint64 // nodes reclaimed
	Live      uint64 // Allocated - Freed
	Len       int    // approximate number of queued items
}

func (c *nodeCache[T]) stats(n int) Stats {
	// freed before allocated so Live never underflows
	freed := c.freed.Load()
	allocated := c.allocated.Load()
	return Stats{
		Allocated: allocated,
		Recycled:  c.recycled.Load(),
		Freed:     freed,
		Live:      allocated - freed,
		Len:       n,
	}
}
