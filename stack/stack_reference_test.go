package stack_test

import (
	"sync"
)

// MutexStack stack with mutex
type MutexStack[T any] struct {
	top   *node[T]
	count int
	mu    sync.Mutex
}

type node[T any] struct {
	p    T
	next *node[T]
}

func (s *MutexStack[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *MutexStack[T]) Push(i T) {
	s.mu.Lock()
	s.top = &node[T]{p: i, next: s.top}
	s.count++
	s.mu.Unlock()
}

func (s *MutexStack[T]) Pop() (val T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.top == nil {
		return val, false
	}
	top := s.top
	s.top = top.next
	s.count--
	return top.p, true
}
