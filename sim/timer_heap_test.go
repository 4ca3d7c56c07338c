package sim

import (
	"testing"
)

// TestTimerHeap_FireTimeOrdering tests that entries pop in fire-time order
func TestTimerHeap_FireTimeOrdering(t *testing.T) {
	h := newTimerHeap()

	// Add entries with different fire times in random order
	e1 := &callback{seq: 1, when: 100}
	e2 := &callback{seq: 2, when: 50}
	e3 := &callback{seq: 3, when: 150}

	h.Schedule(e1)
	h.Schedule(e2)
	h.Schedule(e3)

	// Should be popped in fire-time order: 50, 100, 150
	first := h.PopNext()
	if first.when != 50 {
		t.Errorf("First entry fire time = %d, want 50", first.when)
	}

	second := h.PopNext()
	if second.when != 100 {
		t.Errorf("Second entry fire time = %d, want 100", second.when)
	}

	third := h.PopNext()
	if third.when != 150 {
		t.Errorf("Third entry fire time = %d, want 150", third.when)
	}

	if h.Len() != 0 {
		t.Errorf("Heap should be empty, len = %d", h.Len())
	}
}

// TestTimerHeap_SequenceOrdering tests same-time entries pop in submission order
func TestTimerHeap_SequenceOrdering(t *testing.T) {
	h := newTimerHeap()

	e1 := &callback{seq: 1, when: 100}
	e2 := &callback{seq: 2, when: 100}
	e3 := &callback{seq: 3, when: 100}

	// Add in non-increasing order
	h.Schedule(e3)
	h.Schedule(e1)
	h.Schedule(e2)

	// Should be popped in sequence order
	if got := h.PopNext(); got.seq != 1 {
		t.Errorf("First entry seq = %d, want 1", got.seq)
	}
	if got := h.PopNext(); got.seq != 2 {
		t.Errorf("Second entry seq = %d, want 2", got.seq)
	}
	if got := h.PopNext(); got.seq != 3 {
		t.Errorf("Third entry seq = %d, want 3", got.seq)
	}
}

// TestTimerHeap_PeekDoesNotRemove tests Peek leaves the heap unchanged
func TestTimerHeap_PeekDoesNotRemove(t *testing.T) {
	h := newTimerHeap()

	if h.Peek() != nil {
		t.Error("Peek on empty heap should return nil")
	}
	if h.PopNext() != nil {
		t.Error("PopNext on empty heap should return nil")
	}

	h.Schedule(&callback{seq: 1, when: 42})
	if got := h.Peek(); got == nil || got.when != 42 {
		t.Errorf("Peek = %v, want entry at 42", got)
	}
	if h.Len() != 1 {
		t.Errorf("Len after Peek = %d, want 1", h.Len())
	}
}
