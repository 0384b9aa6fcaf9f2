package hazard

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/min1324/dlq/list"
	"github.com/min1324/dlq/stack"
	"golang.org/x/sys/cpu"
)

// Deleter destroys a retired object once no slot protects it.
type Deleter func(unsafe.Pointer)

type retired struct {
	p   unsafe.Pointer
	del Deleter
}

// Domain is a set of hazard slots and the objects retired against them.
type Domain struct {
	slots   list.List[*Slot]
	retired stack.LLStack[retired]

	count atomic.Int64 // retired, not yet scanned
	_     cpu.CacheLinePad

	reclaimed atomic.Uint64

	opts *domainOptions
}

// Stats is a snapshot of a Domain's bookkeeping.
type Stats struct {
	Slots     int    // registered slots
	Active    int    // slots currently acquired
	Retired   int    // retired objects awaiting a reclaim pass
	Reclaimed uint64 // objects whose deleter ran
}

// NewDomain returns an empty domain.
func NewDomain(opts ...Option) *Domain {
	return &Domain{opts: resolveOptions(opts)}
}

var globalDomain = sync.OnceValue(func() *Domain {
	return NewDomain()
})

// Global returns the process-wide domain. It is created on first use and
// lives as long as the process.
func Global() *Domain {
	return globalDomain()
}

// Acquire returns an unused slot, registering a new one if every slot is
// taken.
func (d *Domain) Acquire() *Slot {
	for e := d.slots.Front(); e != nil; e = e.Next() {
		s := e.Value
		if !s.active.Load() && s.active.CompareAndSwap(false, true) {
			return s
		}
	}
	s := &Slot{domain: d}
	s.active.Store(true)
	d.slots.Insert(s)
	return s
}

// AcquireHolder returns a Holder with two fresh slots.
func (d *Domain) AcquireHolder() *Holder {
	return &Holder{Primary: d.Acquire(), Secondary: d.Acquire()}
}

func (d *Domain) threshold() int64 {
	t := d.opts.scanThreshold
	if n := 2 * d.slots.Len(); n > t {
		t = n
	}
	return int64(t)
}

// Retire hands p to the domain, which calls del(p) once no slot protects
// p. p must already be unreachable from the shared structure.
func (d *Domain) Retire(p unsafe.Pointer, del Deleter) {
	d.retired.Push(retired{p: p, del: del})
	if d.count.Add(1) >= d.threshold() {
		d.Reclaim()
	}
}

// Reclaim scans every slot and destroys the retired objects none of them
// protects. It returns the number destroyed.
func (d *Domain) Reclaim() int {
	var batch []retired
	d.retired.Drain(func(r retired) {
		batch = append(batch, r)
	})
	if len(batch) == 0 {
		return 0
	}
	d.count.Add(-int64(len(batch)))

	// the batch was unlinked before this snapshot, so any reader still
	// holding one of its addresses has published it by now
	protected := make(map[uintptr]struct{})
	d.slots.Range(func(s *Slot) bool {
		if p := s.ptr.Load(); p != 0 {
			protected[p] = struct{}{}
		}
		return true
	})

	var n int
	for _, r := range batch {
		if _, ok := protected[uintptr(r.p)]; ok {
			d.retired.Push(r)
			d.count.Add(1)
			continue
		}
		r.del(r.p)
		n++
	}

	d.reclaimed.Add(uint64(n))
	d.opts.logger.Debug().
		Int("reclaimed", n).
		Int("retained", len(batch)-n).
		Int("slots", len(protected)).
		Log("hazard: reclaim pass")
	return n
}

// Stats returns a snapshot of the domain's bookkeeping.
func (d *Domain) Stats() Stats {
	st := Stats{
		Slots:     d.slots.Len(),
		Retired:   d.retired.Size(),
		Reclaimed: d.reclaimed.Load(),
	}
	d.slots.Range(func(s *Slot) bool {
		if s.active.Load() {
			st.Active++
		}
		return true
	})
	return st
}
