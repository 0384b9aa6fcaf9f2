package queue

import (
	"sync/atomic"
	"unsafe"

	"github.com/min1324/dlq/hazard"
	"golang.org/x/sys/cpu"
)

// HP is an unbounded lock-free FIFO queue whose nodes are reclaimed with
// hazard pointers. Every operation takes a holder acquired from the
// queue's domain; see AcquireHolder.
type HP[T any] struct {
	_    cpu.CacheLinePad
	head atomic.Pointer[node[T]]
	_    cpu.CacheLinePad
	tail atomic.Pointer[node[T]]
	_    cpu.CacheLinePad
	len  atomic.Int64
	_    cpu.CacheLinePad

	cache     *nodeCache[T]
	destroyed atomic.Bool
	opts      *queueOptions
}

// NewHP returns an empty queue.
func NewHP[T any](opts ...Option) *HP[T] {
	q := &HP[T]{opts: resolveOptions(opts)}
	q.cache = newNodeCache[T](q.opts.nodeCache)
	sentinel := q.cache.get()
	sentinel.prev.Store(sentinel)
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// AcquireHolder returns a holder from the queue's domain. The caller
// releases it when done.
func (q *HP[T]) AcquireHolder() *hazard.Holder {
	return q.opts.domain.AcquireHolder()
}

// Domain returns the domain holders must be acquired from.
func (q *HP[T]) Domain() *hazard.Domain {
	return q.opts.domain
}

// protectLink publishes the value of link in slot and returns it once a
// reload confirms it is still current.
func protectLink[T any](link *atomic.Pointer[node[T]], slot *hazard.Slot) *node[T] {
	p := link.Load()
	for {
		slot.Protect(unsafe.Pointer(p))
		cur := link.Load()
		if cur == p {
			return p
		}
		p = cur
	}
}

// checkHolder panics if h was acquired from a domain other than the queue's.
func (q *HP[T]) checkHolder(h *hazard.Holder) {
	if h.Domain() != q.opts.domain {
		panic("queue: holder acquired from a foreign domain")
	}
}

// Enqueue puts item at the tail of the queue. Both slots of h are reset
// on return.
func (q *HP[T]) Enqueue(item T, h *hazard.Holder) {
	q.checkHolder(h)
	n := q.cache.get()
	n.item = item
	n.hasItem = true
	for {
		ltail := protectLink(&q.tail, h.Primary)
		lprev := protectLink(&ltail.prev, h.Secondary)
		// lprev may already be retired once head has reached ltail
		lhead := q.head.Load()
		if testHookEnqueue != nil {
			testHookEnqueue()
		}
		if q.tail.Load() != ltail {
			continue
		}
		n.prev.Store(ltail)
		if lprev != ltail && lhead != ltail && lprev.next.Load() == nil {
			lprev.next.Store(ltail)
		}
		if q.tail.CompareAndSwap(ltail, n) {
			ltail.next.Store(n)
			h.Reset()
			q.len.Add(1)
			return
		}
	}
}

// Dequeue removes and returns the item at the head of the queue.
// ok is false if the queue is empty. Both slots of h are reset on return.
func (q *HP[T]) Dequeue(h *hazard.Holder) (item T, ok bool) {
	q.checkHolder(h)
	for {
		lhead := protectLink(&q.head, h.Primary)
		lnext := protectLink(&lhead.next, h.Secondary)
		if q.head.Load() != lhead {
			continue
		}
		if lnext == nil {
			h.Reset()
			return item, false
		}
		if q.head.CompareAndSwap(lhead, lnext) {
			item = lnext.take()
			h.Reset()
			q.len.Add(-1)
			q.opts.domain.Retire(unsafe.Pointer(lhead), freeNode[T])
			return item, true
		}
	}
}

// Size returns the number of queued items. It is exact when no operation
// is in flight.
func (q *HP[T]) Size() int {
	if n := q.len.Load(); n > 0 {
		return int(n)
	}
	return 0
}

// Empty reports whether Size is zero.
func (q *HP[T]) Empty() bool {
	return q.Size() == 0
}

// Stats returns the queue's node accounting. Retired nodes count as live
// until the domain reclaims them.
func (q *HP[T]) Stats() Stats {
	return q.cache.stats(q.Size())
}

// Destroy drains the queue under a private holder, releases its sentinel
// and runs a reclaim pass on the domain. No other goroutine may use the
// queue during or after the call. A second call returns ErrDestroyed.
func (q *HP[T]) Destroy() error {
	if !q.destroyed.CompareAndSwap(false, true) {
		return ErrDestroyed
	}
	h := q.opts.domain.AcquireHolder()
	var drained int
	for {
		if _, ok := q.Dequeue(h); !ok {
			break
		}
		drained++
	}
	h.Release()
	sentinel := q.head.Swap(nil)
	q.tail.Store(nil)
	freeNode[T](unsafe.Pointer(sentinel))
	reclaimed := q.opts.domain.Reclaim()
	q.opts.logger.Debug().
		Int("drained", drained).
		Int("reclaimed", reclaimed).
		Uint64("allocated", q.cache.allocated.Load()).
		Uint64("freed", q.cache.freed.Load()).
		Log("queue: destroyed hp queue")
	return nil
}
