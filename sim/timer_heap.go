package sim

import "container/heap"

// timerHeap implements a priority queue with deterministic ordering
// Ordering: fire time → submission sequence number
type timerHeap struct {
	entries []*callback
}

func newTimerHeap() *timerHeap {
	h := &timerHeap{
		entries: make([]*callback, 0),
	}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *timerHeap) Len() int {
	return len(h.entries)
}

// Less implements heap.Interface with deterministic ordering
// Order by: fire time → sequence number
func (h *timerHeap) Less(i, j int) bool {
	ci, cj := h.entries[i], h.entries[j]

	// Primary: fire time (earlier first)
	if ci.when != cj.when {
		return ci.when < cj.when
	}

	// Secondary: sequence number (lower first, deterministic tie-breaker)
	return ci.seq < cj.seq
}

// Swap implements heap.Interface
func (h *timerHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

// Push implements heap.Interface
func (h *timerHeap) Push(x interface{}) {
	h.entries = append(h.entries, x.(*callback))
}

// Pop implements heap.Interface
func (h *timerHeap) Pop() interface{} {
	old := h.entries
	n := len(old)
	item := old[n-1]
	h.entries = old[0 : n-1]
	return item
}

// Schedule adds a timer entry to the heap
func (h *timerHeap) Schedule(cb *callback) {
	heap.Push(h, cb)
}

// PopNext removes and returns the earliest entry
func (h *timerHeap) PopNext() *callback {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(*callback)
}

// Peek returns the earliest entry without removing it
func (h *timerHeap) Peek() *callback {
	if h.Len() == 0 {
		return nil
	}
	return h.entries[0]
}
