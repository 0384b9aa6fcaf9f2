package stack

import (
	"sync/atomic"
)

// LLStack a lock-free concurrent FILO stack.
// The zero value is an empty stack ready to use.
type LLStack[T any] struct {
	len atomic.Int64             // stack value num.
	top atomic.Pointer[node[T]] // point to the latest value pushed.
}

type node[T any] struct {
	value T
	next  *node[T]
}

// Size stack element's number
func (s *LLStack[T]) Size() int {
	n := s.len.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

// Empty reports whether the stack holds no value.
func (s *LLStack[T]) Empty() bool {
	return s.top.Load() == nil
}

// Push puts the given value at the top of the stack.
func (s *LLStack[T]) Push(val T) {
	slot := &node[T]{value: val}
	for {
		slot.next = s.top.Load()
		if s.top.CompareAndSwap(slot.next, slot) {
			s.len.Add(1)
			return
		}
	}
}

// Pop removes and returns the value at the top of the stack.
// ok is false if the stack is empty.
func (s *LLStack[T]) Pop() (val T, ok bool) {
	for {
		top := s.top.Load()
		if top == nil {
			return val, false
		}
		if s.top.CompareAndSwap(top, top.next) {
			s.len.Add(-1)
			return top.value, true
		}
	}
}

// Drain detaches every value currently on the stack and calls f for each,
// newest first. Values pushed while Drain runs stay on the stack.
// It returns the number of values passed to f.
func (s *LLStack[T]) Drain(f func(T)) int {
	top := s.top.Swap(nil)
	var n int
	for slot := top; slot != nil; slot = slot.next {
		f(slot.value)
		n++
	}
	s.len.Add(int64(-n))
	return n
}
