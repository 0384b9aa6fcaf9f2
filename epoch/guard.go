package epoch

import (
	"unsafe"
)

// Guard certifies that its goroutine participates in the current epoch.
// Every dereference of a shared object must happen while a guard is
// pinned. A Guard must not be used by more than one goroutine, and must not
// be used after Unpin.
type Guard struct {
	c *Collector
	p *participant
}

var unprotected = &Guard{}

// Unprotected returns a guard that does no epoch tracking: DeferDestroy
// runs the deleter immediately. It is only valid when the caller can prove
// that no other goroutine can reference the objects involved, such as
// while tearing down a structure nobody else uses.
func Unprotected() *Guard {
	return unprotected
}

// IsUnprotected reports whether g is the guard returned by Unprotected.
func (g *Guard) IsUnprotected() bool {
	return g.p == nil
}

// Collector returns the collector g is pinned on, or nil for the
// unprotected guard.
func (g *Guard) Collector() *Collector {
	return g.c
}

// Unpin ends the guard's critical section. It is a no-op on the
// unprotected guard and on an already unpinned guard.
func (g *Guard) Unpin() {
	if g == nil || g.p == nil {
		return
	}
	p := g.p
	if p.state.Load()&pinned == 0 {
		return
	}
	p.state.Store(0)
	g.c.idle.Push(p)
}

// DeferDestroy schedules del(ptr) to run once no pinned guard can still
// reference ptr. ptr must already be unreachable for goroutines pinning
// after this call.
func (g *Guard) DeferDestroy(ptr unsafe.Pointer, del Deleter) {
	p := g.p
	if p == nil {
		del(ptr)
		return
	}
	p.bag = append(p.bag, deferred{p: ptr, del: del})
	if len(p.bag) >= g.c.opts.bagSize {
		g.c.seal(p)
	}
}

// Flush seals the objects deferred through g so far and tries to collect.
// It returns the number of objects destroyed.
func (g *Guard) Flush() int {
	if g.p == nil {
		return 0
	}
	g.c.seal(g.p)
	return g.c.collect()
}
