/*
Package queue implements an unbounded lock-free FIFO queue on a doubly
linked list, in two flavours that differ only in how unlinked nodes are
reclaimed: EBR (epoch-based, see package epoch) and HP (hazard pointers,
see package hazard).

	q := queue.NewEBR[int]()
	g := q.Pin()
	q.Enqueue(1, g)
	v, ok := q.Dequeue(g)
	g.Unpin()

	h := queue.NewHP[string]()
	holder := h.AcquireHolder()
	h.Enqueue("a", holder)
	s, ok := h.Dequeue(holder)
	holder.Release()

Layout:

	head                               tail
	 |                                  |
	sentinel <-prev- n1 <-prev- n2 <-prev- n3
	         -next->    -next->    -next->

head points at the sentinel, which carries no item; the item at the front
of the queue lives in head.next. A dequeue CAS moves head to head.next,
moves the item out of it (it becomes the new sentinel) and retires the old
sentinel.

Enqueue sets node.prev to the observed tail before swinging tail with a
CAS, and links tail.next afterwards. Between the two steps next lags prev,
so every enqueuer first repairs its predecessor's forward link:

	if tail.prev.next == nil {
		tail.prev.next = tail
	}

Every writer of a next link stores the same value, so the repair is
idempotent. The repair is skipped once head has reached tail, since the
predecessor may already be reclaimed and its next is necessarily set.

The construction sentinel's prev points at itself, meaning no predecessor.

Reclaimed nodes go back to a per-queue node cache and are reused by later
enqueues, unless disabled with WithNodeCache(false). A node reclaimed
twice panics.

Tokens (guards and holders) belong to one goroutine at a time. Destroy
requires exclusive access to the queue.
*/
package queue
