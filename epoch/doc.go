// Package epoch provides epoch-based memory reclamation.
//
// A goroutine pins a Guard before it dereferences any object shared through
// a lock-free structure and unpins it once it holds no more references.
// Objects unlinked from the structure are handed to Guard.DeferDestroy; the
// Collector runs their deleter only after every guard that could still see
// them has been unpinned.
//
//	g := epoch.Pin()
//	defer g.Unpin()
//	// load and dereference shared pointers
//	g.DeferDestroy(unsafe.Pointer(old), free)
//
// Guards are per-goroutine tokens and must not be shared.
package epoch

/*
Epoch rules:

	global epoch e advances to e+1 only when every pinned participant
	published e.

	a bag sealed while the global epoch was s is reclaimable once the
	global epoch reached s+2: a guard pinned at s blocks the advance
	past s+1.

Participant state word:

	0               idle
	e<<1 | pinned   pinned at epoch e

Participants are registered once and recycled through an idle stack, so
their number is bounded by the peak number of concurrently pinned guards.
Each participant owns a local bag of deferred objects that only the
goroutine holding its guard touches; full bags are sealed and pushed to
the collector's garbage stack.
*/
