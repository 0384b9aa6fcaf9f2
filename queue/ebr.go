package queue

import (
	"sync/atomic"
	"unsafe"

	"github.com/min1324/dlq/epoch"
	"golang.org/x/sys/cpu"
)

// EBR is an unbounded lock-free FIFO queue whose nodes are reclaimed with
// epoch-based reclamation. Every operation takes a pinned guard from the
// queue's collector; see Pin.
type EBR[T any] struct {
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

// NewEBR returns an empty queue.
func NewEBR[T any](opts ...Option) *EBR[T] {
	q := &EBR[T]{opts: resolveOptions(opts)}
	q.cache = newNodeCache[T](q.opts.nodeCache)
	sentinel := q.cache.get()
	sentinel.prev.Store(sentinel)
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Pin pins a guard on the queue's collector.
func (q *EBR[T]) Pin() *epoch.Guard {
	return q.opts.collector.Pin()
}

// Collector returns the collector guards must be pinned on.
func (q *EBR[T]) Collector() *epoch.Collector {
	return q.opts.collector
}

// checkGuard panics if g is pinned on a collector other than the queue's.
func (q *EBR[T]) checkGuard(g *epoch.Guard) {
	if !g.IsUnprotected() && g.Collector() != q.opts.collector {
		panic("queue: guard pinned on a foreign collector")
	}
}

// Enqueue puts item at the tail of the queue. g must stay pinned for the
// duration of the call.
func (q *EBR[T]) Enqueue(item T, g *epoch.Guard) {
	q.checkGuard(g)
	n := q.cache.get()
	n.item = item
	n.hasItem = true
	for {
		ltail := q.tail.Load()
		lprev := ltail.prev.Load()
		n.prev.Store(ltail)
		// lprev is only safe to touch while head has not reached ltail
		lhead := q.head.Load()
		if testHookEnqueue != nil {
			testHookEnqueue()
		}
		if q.tail.Load() != ltail {
			continue
		}
		if lprev != ltail && lhead != ltail && lprev.next.Load() == nil {
			lprev.next.Store(ltail)
		}
		if q.tail.CompareAndSwap(ltail, n) {
			ltail.next.Store(n)
			q.len.Add(1)
			return
		}
	}
}

// Dequeue removes and returns the item at the head of the queue.
// ok is false if the queue is empty. The unlinked sentinel is deferred to g.
func (q *EBR[T]) Dequeue(g *epoch.Guard) (item T, ok bool) {
	q.checkGuard(g)
	for {
		lhead := q.head.Load()
		lnext := lhead.next.Load()
		if lnext == nil {
			return item, false
		}
		if q.head.CompareAndSwap(lhead, lnext) {
			item = lnext.take()
			q.len.Add(-1)
			g.DeferDestroy(unsafe.Pointer(lhead), freeNode[T])
			return item, true
		}
	}
}

// Size returns the number of queued items. It is exact when no operation
// is in flight.
func (q *EBR[T]) Size() int {
	if n := q.len.Load(); n > 0 {
		return int(n)
	}
	return 0
}

// Empty reports whether Size is zero.
func (q *EBR[T]) Empty() bool {
	return q.Size() == 0
}

// Stats returns the queue's node accounting. Nodes deferred to a guard
// count as live until the collector reclaims them.
func (q *EBR[T]) Stats() Stats {
	return q.cache.stats(q.Size())
}

// Destroy drains the queue and releases its sentinel. No other goroutine
// may use the queue during or after the call. A second call returns
// ErrDestroyed.
func (q *EBR[T]) Destroy() error {
	if !q.destroyed.CompareAndSwap(false, true) {
		return ErrDestroyed
	}
	g := epoch.Unprotected()
	var drained int
	for {
		if _, ok := q.Dequeue(g); !ok {
			break
		}
		drained++
	}
	sentinel := q.head.Swap(nil)
	q.tail.Store(nil)
	g.DeferDestroy(unsafe.Pointer(sentinel), freeNode[T])
	q.opts.logger.Debug().
		Int("drained", drained).
		Uint64("allocated", q.cache.allocated.Load()).
		Uint64("freed", q.cache.freed.Load()).
		Log("queue: destroyed ebr queue")
	return nil
}
