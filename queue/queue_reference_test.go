package queue_test

import (
	"sync"

	"github.com/min1324/dlq/queue"
)

// MutexQueue is a FIFO guarded by a mutex, used as the reference
// behaviour.
type MutexQueue struct {
	head, tail *node
	count      int
	mu         sync.Mutex
}

type node struct {
	v    int
	next *node
}

func (q *MutexQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

func (q *MutexQueue) Enqueue(v int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := &node{v: v}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.count++
}

func (q *MutexQueue) Dequeue() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == nil {
		return 0, false
	}
	slot := q.head
	q.head = slot.next
	if q.head == nil {
		q.tail = nil
	}
	q.count--
	return slot.v, true
}

// mutexAdapter lets MutexQueue run in the benchmarks next to the lock-free
// variants.
type mutexAdapter struct {
	MutexQueue
}

func (q *mutexAdapter) Session() Session   { return q }
func (q *mutexAdapter) Empty() bool        { return q.Size() == 0 }
func (q *mutexAdapter) Stats() queue.Stats { return queue.Stats{Len: q.Size()} }
func (q *mutexAdapter) Destroy() error     { return nil }
func (q *mutexAdapter) Reclaim()           {}
func (q *mutexAdapter) Close()             {}
