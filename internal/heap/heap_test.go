package heap

import (
	"math/rand"
	"sort"
	"testing"
)

func intLess(a, b int) bool { return a < b }

func heapOK[T any](t *testing.T, h *Heap[T], less Less[T]) {
	t.Helper()
	n := len(h.items) - 1
	for k := 2; k <= n; k++ {
		if less(h.items[k], h.items[k>>1]) {
			t.Fatalf("heap property violated at index %d", k)
		}
	}
}

func TestHeapPushPopTopOrdering(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	values := make([]int, 200)
	for i := range values {
		values[i] = r.Intn(1000)
	}

	h := New(intLess, 0)
	for _, v := range values {
		h.Push(v)
		heapOK(t, h, intLess)
	}

	want := append([]int(nil), values...)
	sort.Ints(want)

	got := make([]int, 0, len(values))
	for {
		v, ok := h.PopTop()
		if !ok {
			break
		}
		got = append(got, v)
		heapOK(t, h, intLess)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d elements, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestHeapEmptyPop(t *testing.T) {
	h := New(intLess, 0)
	if _, ok := h.PopTop(); ok {
		t.Fatal("expected PopTop on empty heap to report not-ok")
	}
}

func TestHeapLen(t *testing.T) {
	h := New(intLess, 0)
	for i := 0; i < 5; i++ {
		h.Push(i)
	}
	if h.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", h.Len())
	}
	h.PopTop()
	if h.Len() != 4 {
		t.Fatalf("Len() after pop = %d, want 4", h.Len())
	}
}
