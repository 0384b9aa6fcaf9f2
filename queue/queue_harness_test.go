package queue_test

import (
	"testing"

	"github.com/min1324/dlq/epoch"
	"github.com/min1324/dlq/hazard"
	"github.com/min1324/dlq/queue"
)

// Interface is the view of a queue the tests drive. Every goroutine opens
// its own session, which owns the protection token.
type Interface interface {
	Session() Session
	Size() int
	Empty() bool
	Stats() queue.Stats
	Destroy() error
	// Reclaim runs the reclamation service until nothing deferred is left.
	Reclaim()
}

type Session interface {
	Enqueue(v int)
	Dequeue() (int, bool)
	Close()
}

type variant struct {
	name string
	new  func(opts ...queue.Option) Interface
}

var variants = [...]variant{
	{"EBR", func(opts ...queue.Option) Interface {
		c := epoch.NewCollector()
		return &ebrQueue{EBR: queue.NewEBR[int](append([]queue.Option{queue.WithCollector(c)}, opts...)...)}
	}},
	{"HP", func(opts ...queue.Option) Interface {
		d := hazard.NewDomain()
		return &hpQueue{HP: queue.NewHP[int](append([]queue.Option{queue.WithDomain(d)}, opts...)...)}
	}},
}

func forEachVariant(t *testing.T, f func(t *testing.T, newQueue func(opts ...queue.Option) Interface)) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			f(t, v.new)
		})
	}
}

type ebrQueue struct {
	*queue.EBR[int]
}

func (q *ebrQueue) Session() Session {
	return ebrSession{q.EBR}
}

func (q *ebrQueue) Reclaim() {
	for i := 0; i < 8; i++ {
		q.Collector().Flush()
	}
}

// ebrSession pins for every operation.
type ebrSession struct {
	q *queue.EBR[int]
}

func (s ebrSession) Enqueue(v int) {
	g := s.q.Pin()
	s.q.Enqueue(v, g)
	g.Unpin()
}

func (s ebrSession) Dequeue() (int, bool) {
	g := s.q.Pin()
	defer g.Unpin()
	return s.q.Dequeue(g)
}

func (s ebrSession) Close() {}

type hpQueue struct {
	*queue.HP[int]
}

func (q *hpQueue) Session() Session {
	return &hpSession{q: q.HP, h: q.AcquireHolder()}
}

func (q *hpQueue) Reclaim() {
	q.Domain().Reclaim()
}

// hpSession keeps one holder for its lifetime.
type hpSession struct {
	q *queue.HP[int]
	h *hazard.Holder
}

func (s *hpSession) Enqueue(v int) {
	s.q.Enqueue(v, s.h)
}

func (s *hpSession) Dequeue() (int, bool) {
	return s.q.Dequeue(s.h)
}

func (s *hpSession) Close() {
	s.h.Release()
}
