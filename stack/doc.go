// Package stack provides a lock-free LIFO stack.
//
// The stack is the bookkeeping structure behind the reclamation services:
// idle epoch participants, sealed garbage bags and hazard-pointer retired
// entries are all parked on an LLStack.
package stack

/*
LLStack is a Treiber stack:

	push: slot.next = top, then cas(top, slot.next, slot).
	pop:  cas(top, top, top.next).
	drain: swap(top, nil), then walk the detached chain.

top == nil means the stack is empty; there is no full condition.

Every Push allocates a fresh slot and a popped slot is never pushed again.
A goroutine that loaded top therefore keeps that slot alive through the GC,
so the address cannot come back as a different slot while it is still
compared, and pop is free of ABA.

A popped slot is not cleared: a concurrent Pop may still be reading its
next field.
*/
