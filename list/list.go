// Package list implements a lock-free, insert-only singly linked list.
//
// Elements are never removed, so a reader walking the list with Next can
// never observe a dangling element. The reclamation services use it as the
// registry of epoch participants and hazard slots, whose lifetime is the
// lifetime of the process.
package list

import (
	"sync/atomic"
)

// Element is an entry of a List.
type Element[T any] struct {
	Value T
	next  atomic.Pointer[Element[T]]
}

// Next returns the item on the right.
func (e *Element[T]) Next() *Element[T] {
	return e.next.Load()
}

// The zero value for List is an empty list ready to use.
type List[T any] struct {
	root  atomic.Pointer[Element[T]]
	count atomic.Int64
}

// Len returns the number of elements inserted so far.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return int(l.count.Load())
}

// Front returns the most recently inserted element, or nil.
func (l *List[T]) Front() *Element[T] {
	if l == nil {
		return nil
	}
	return l.root.Load()
}

// Insert adds v at the front of the list and returns its element.
func (l *List[T]) Insert(v T) *Element[T] {
	e := &Element[T]{Value: v}
	for {
		next := l.root.Load()
		e.next.Store(next)
		if l.root.CompareAndSwap(next, e) {
			l.count.Add(1)
			return e
		}
		// item was modified concurrently
	}
}

// Range calls f for each element from the front, stopping when f returns
// false. Elements inserted while Range runs may or may not be visited.
func (l *List[T]) Range(f func(v T) bool) {
	for e := l.Front(); e != nil; e = e.Next() {
		if !f(e.Value) {
			return
		}
	}
}
