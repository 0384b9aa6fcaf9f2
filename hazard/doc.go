// Package hazard provides hazard-pointer memory reclamation.
//
// A reader publishes the address it is about to dereference in a Slot, then
// re-reads the shared pointer it came from; if that pointer is unchanged
// the address cannot be destroyed until the slot is reset. Writers hand
// unlinked objects to Domain.Retire, and the domain runs their deleter once
// no slot holds their address.
//
//	h := hazard.Global().AcquireHolder()
//	defer h.Release()
//
// Slots are per-goroutine and must not be shared. Unlike epoch guards, a
// stalled reader only keeps the addresses it protects alive.
package hazard
