package hazard

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Slot is a single hazard pointer. The address it holds is never destroyed
// by its domain while published.
type Slot struct {
	ptr    atomic.Uintptr
	active atomic.Bool
	domain *Domain
	_      cpu.CacheLinePad
}

// Protect publishes p. The caller must re-validate that p is still
// reachable after Protect returns before dereferencing it.
func (s *Slot) Protect(p unsafe.Pointer) {
	s.ptr.Store(uintptr(p))
}

// Reset clears the published address.
func (s *Slot) Reset() {
	s.ptr.Store(0)
}

// Protected returns the published address, or 0.
func (s *Slot) Protected() uintptr {
	return s.ptr.Load()
}

// Domain returns the domain s belongs to.
func (s *Slot) Domain() *Domain {
	return s.domain
}

// Release resets s and returns it to its domain for reuse.
// s must not be used afterwards.
func (s *Slot) Release() {
	s.ptr.Store(0)
	s.active.Store(false)
}

// Holder carries the two slots a traversal needs: Primary protects the
// node entered from a shared root, Secondary the node reached from it.
type Holder struct {
	Primary   *Slot
	Secondary *Slot
}

// Domain returns the domain both slots belong to.
func (h *Holder) Domain() *Domain {
	return h.Primary.domain
}

// Reset clears both slots.
func (h *Holder) Reset() {
	h.Primary.Reset()
	h.Secondary.Reset()
}

// Release returns both slots to their domain.
func (h *Holder) Release() {
	h.Primary.Release()
	h.Secondary.Release()
}
