// Package pqueue provides a generic container/heap-backed priority queue.
package pqueue

import "container/heap"

// PriorityQueue orders items of type T by an injected less function, the
// same comparator shape heap.Interface expects but without requiring the
// caller to hand-write Len/Less/Swap/Push/Pop for every element type.
type PriorityQueue[T any] struct {
	h *innerHeap[T]
}

// New builds an empty queue. less(a, b) should report whether a sorts
// before b; Pop always returns the least element per less.
func New[T any](less func(a, b T) bool) *PriorityQueue[T] {
	h := &innerHeap[T]{less: less}
	heap.Init(h)
	return &PriorityQueue[T]{h: h}
}

func (q *PriorityQueue[T]) Push(item T) {
	heap.Push(q.h, item)
}

func (q *PriorityQueue[T]) Pop() (T, bool) {
	if q.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(q.h).(T), true
}

func (q *PriorityQueue[T]) Len() int {
	return q.h.Len()
}

type innerHeap[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h *innerHeap[T]) Len() int           { return len(h.items) }
func (h *innerHeap[T]) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }
func (h *innerHeap[T]) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *innerHeap[T]) Push(x any) {
	h.items = append(h.items, x.(T))
}

func (h *innerHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}
