package randperm

import (
	"math/rand"
	"testing"
)

// mathRandSource adapts math/rand to the EntropySource interface for
// deterministic, seedable tests (not for production use).
type mathRandSource struct{ r *rand.Rand }

func (m mathRandSource) Read(out []byte) error {
	_, err := m.r.Read(out)
	return err
}

func TestNewLengthAndDistinctness(t *testing.T) {
	src := mathRandSource{rand.New(rand.NewSource(42))}

	for _, tc := range []struct{ h, n uint64 }{
		{0, 10}, {1, 10}, {2, 10}, {5, 10}, {10, 10},
	} {
		perm, err := New(src, tc.h, tc.n)
		if err != nil {
			t.Fatalf("New(%d,%d): %v", tc.h, tc.n, err)
		}
		if uint64(len(perm)) != tc.h {
			t.Fatalf("New(%d,%d): got length %d", tc.h, tc.n, len(perm))
		}
		seen := make(map[uint64]bool, len(perm))
		for _, v := range perm {
			if v >= tc.n {
				t.Fatalf("value %d out of range [0,%d)", v, tc.n)
			}
			if seen[v] {
				t.Fatalf("duplicate value %d in permutation prefix", v)
			}
			seen[v] = true
		}
	}
}

func TestBoundMonotonic(t *testing.T) {
	if Bound(5, 1000) == 0 {
		t.Fatal("Bound should be nonzero for nonzero h")
	}
	if Bound(0, 1000) != 0 {
		t.Fatal("Bound(0, n) should be 0")
	}
	if got, small := Bound(10, 1000), Bound(2, 1000); got < small {
		t.Fatalf("Bound(10,1000)=%d should be >= Bound(2,1000)=%d", got, small)
	}
}
