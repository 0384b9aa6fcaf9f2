package stack_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/min1324/dlq/stack"
)

type SInterface interface {
	Push(int)
	Pop() (int, bool)
}

const prevPushSize = 1 << 16

type benchS struct {
	setup func(*testing.B, SInterface)
	perG  func(b *testing.B, pb *testing.PB, i int, m SInterface)
}

func benchSMap(b *testing.B, benchS benchS) {
	for _, newStack := range [...]func() SInterface{
		func() SInterface { return &MutexStack[int]{} },
		func() SInterface { return &stack.LLStack[int]{} },
	} {
		m := newStack()
		b.Run(fmt.Sprintf("%T", m), func(b *testing.B) {
			if benchS.setup != nil {
				benchS.setup(b, m)
			}

			b.ResetTimer()

			var i int64
			b.RunParallel(func(pb *testing.PB) {
				id := int(atomic.AddInt64(&i, 1) - 1)
				benchS.perG(b, pb, id*b.N, m)
			})
		})
	}
}

func BenchmarkPush(b *testing.B) {
	benchSMap(b, benchS{
		perG: func(b *testing.B, pb *testing.PB, i int, m SInterface) {
			for ; pb.Next(); i++ {
				m.Push(i)
			}
		},
	})
}

func BenchmarkPop(b *testing.B) {
	benchSMap(b, benchS{
		setup: func(b *testing.B, m SInterface) {
			for i := 0; i < prevPushSize; i++ {
				m.Push(i)
			}
		},

		perG: func(b *testing.B, pb *testing.PB, i int, m SInterface) {
			for ; pb.Next(); i++ {
				m.Pop()
			}
		},
	})
}

func BenchmarkMostlyPop(b *testing.B) {
	const bit = 4
	const mark = 1<<bit - 1
	benchSMap(b, benchS{
		setup: func(_ *testing.B, m SInterface) {
			for i := 0; i < prevPushSize; i++ {
				m.Push(i)
			}
		},

		perG: func(b *testing.B, pb *testing.PB, i int, m SInterface) {
			for ; pb.Next(); i++ {
				if i&mark == 0 {
					m.Push(i)
				} else {
					m.Pop()
				}
			}
		},
	})
}

func BenchmarkStackBalance(b *testing.B) {
	benchSMap(b, benchS{
		perG: func(b *testing.B, pb *testing.PB, i int, m SInterface) {
			for ; pb.Next(); i++ {
				m.Push(1)
				m.Pop()
			}
		},
	})
}

func BenchmarkStackCollision(b *testing.B) {
	benchSMap(b, benchS{
		setup: func(_ *testing.B, m SInterface) {
			m.Push(1)
		},

		perG: func(b *testing.B, pb *testing.PB, i int, m SInterface) {
			for ; pb.Next(); i++ {
				if i&1 == 0 {
					m.Pop()
				} else {
					m.Push(1)
				}
			}
		},
	})
}
