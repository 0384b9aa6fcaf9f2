package epoch

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/min1324/dlq/list"
	"github.com/min1324/dlq/stack"
	"golang.org/x/sys/cpu"
)

// Deleter destroys an object once no guard can reference it any more.
type Deleter func(unsafe.Pointer)

const pinned uint64 = 1

type deferred struct {
	p   unsafe.Pointer
	del Deleter
}

// sealedBag is a batch of deferred objects stamped with the global epoch
// observed when it was sealed.
type sealedBag struct {
	epoch uint64
	items []deferred
}

type participant struct {
	state atomic.Uint64 // 0 idle, e<<1|pinned while pinned at e
	_     cpu.CacheLinePad

	// owned by the goroutine holding guard
	guard Guard
	bag   []deferred
	pins  uint64
}

// Collector owns a global epoch and the objects deferred against it.
type Collector struct {
	epoch atomic.Uint64
	_     cpu.CacheLinePad

	participants list.List[*participant]
	idle         stack.LLStack[*participant]
	garbage      stack.LLStack[*sealedBag]

	sealed    atomic.Uint64
	reclaimed atomic.Uint64

	opts *collectorOptions
}

// Stats is a snapshot of a Collector's bookkeeping.
type Stats struct {
	Epoch        uint64 // current global epoch
	Participants int    // registered participants, pinned or idle
	Pinned       int    // participants pinned at snapshot time
	Pending      uint64 // sealed objects not reclaimed yet
	Reclaimed    uint64 // objects whose deleter ran
}

// NewCollector returns a Collector with its own epoch and garbage.
func NewCollector(opts ...Option) *Collector {
	return &Collector{opts: resolveOptions(opts)}
}

var defaultCollector = sync.OnceValue(func() *Collector {
	return NewCollector()
})

// Default returns the process-wide collector. It is created on first use
// and lives as long as the process.
func Default() *Collector {
	return defaultCollector()
}

// Pin pins a guard on the process-wide collector.
func Pin() *Guard {
	return Default().Pin()
}

// Pin returns a guard pinned at the current epoch. Objects retired after
// this call are not destroyed until the guard is unpinned.
func (c *Collector) Pin() *Guard {
	p, ok := c.idle.Pop()
	if !ok {
		p = &participant{bag: make([]deferred, 0, c.opts.bagSize)}
		p.guard = Guard{c: c, p: p}
		c.participants.Insert(p)
	}

	e := c.epoch.Load()
	for {
		p.state.Store(e<<1 | pinned)
		// a stale epoch only holds the collector back, but catching up
		// keeps the pinned window short
		now := c.epoch.Load()
		if now == e {
			break
		}
		e = now
	}

	p.pins++
	if p.pins%uint64(c.opts.collectEvery) == 0 {
		c.collect()
	}
	return &p.guard
}

// tryAdvance moves the global epoch forward by one if every pinned
// participant has observed it, and returns the resulting epoch.
func (c *Collector) tryAdvance() uint64 {
	global := c.epoch.Load()
	for e := c.participants.Front(); e != nil; e = e.Next() {
		s := e.Value.state.Load()
		if s&pinned == pinned && s>>1 != global {
			return global
		}
	}
	if c.epoch.CompareAndSwap(global, global+1) {
		return global + 1
	}
	return c.epoch.Load()
}

// seal moves p's local bag to the garbage stack.
// The caller must own p.
func (c *Collector) seal(p *participant) {
	if len(p.bag) == 0 {
		return
	}
	b := &sealedBag{epoch: c.epoch.Load(), items: p.bag}
	p.bag = make([]deferred, 0, c.opts.bagSize)
	c.sealed.Add(uint64(len(b.items)))
	c.garbage.Push(b)
}

func (c *Collector) collect() int {
	global := c.tryAdvance()

	var keep []*sealedBag
	var n int
	c.garbage.Drain(func(b *sealedBag) {
		if global < b.epoch+2 {
			keep = append(keep, b)
			return
		}
		for _, d := range b.items {
			d.del(d.p)
		}
		n += len(b.items)
	})
	for i := len(keep) - 1; i >= 0; i-- {
		c.garbage.Push(keep[i])
	}

	if n > 0 {
		c.reclaimed.Add(uint64(n))
		c.opts.logger.Debug().
			Uint64("epoch", global).
			Int("reclaimed", n).
			Int("bags_kept", len(keep)).
			Log("epoch: collected garbage")
	}
	return n
}

// Collect tries to advance the epoch once and destroys every sealed object
// that no pinned guard can reference. It returns the number destroyed.
func (c *Collector) Collect() int {
	return c.collect()
}

// Flush seals the local bags of idle participants, then collects.
// Objects deferred by currently pinned guards stay in their bags.
func (c *Collector) Flush() int {
	var idle []*participant
	c.idle.Drain(func(p *participant) {
		c.seal(p)
		idle = append(idle, p)
	})
	for _, p := range idle {
		c.idle.Push(p)
	}
	return c.collect()
}

// Stats returns a snapshot of the collector's bookkeeping.
func (c *Collector) Stats() Stats {
	st := Stats{
		Epoch:        c.epoch.Load(),
		Participants: c.participants.Len(),
	}
	c.participants.Range(func(p *participant) bool {
		if p.state.Load()&pinned == pinned {
			st.Pinned++
		}
		return true
	})
	st.Reclaimed = c.reclaimed.Load()
	st.Pending = c.sealed.Load() - st.Reclaimed
	return st
}
