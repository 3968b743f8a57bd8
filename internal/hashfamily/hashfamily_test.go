package hashfamily

import "testing"

func TestSum64Deterministic(t *testing.T) {
	f := New(1)
	a := f.Sum64([]byte("hello"))
	b := f.Sum64([]byte("hello"))
	if a != b {
		t.Fatalf("hash of same input differed: %d vs %d", a, b)
	}
}

func TestTwoInstancesAreIndependent(t *testing.T) {
	f1 := New(1)
	f2 := New(2)
	same := 0
	for i := uint64(0); i < 1000; i++ {
		if f1.SumUint64(i) == f2.SumUint64(i) {
			same++
		}
	}
	if same > 5 {
		t.Fatalf("two seeded families collided too often: %d/1000", same)
	}
}

func TestSumUint64Distinguishes(t *testing.T) {
	f := New(42)
	seen := make(map[uint64]bool)
	for i := uint64(0); i < 500; i++ {
		h := f.SumUint64(i)
		if seen[h] {
			t.Fatalf("collision at i=%d", i)
		}
		seen[h] = true
	}
}
