package bitpack

import "testing"

func TestArrayGetSetRoundTrip(t *testing.T) {
	widths := []uint{1, 3, 8, 11, 12, 17, 33, 64}
	for _, w := range widths {
		a := New(200, w)
		max := lowMask(w)
		for i := uint64(0); i < 200; i++ {
			val := (i * 2654435761) & max
			a.Set(i, val)
		}
		for i := uint64(0); i < 200; i++ {
			want := (i * 2654435761) & max
			got := a.Get(i)
			if got != want {
				t.Fatalf("width=%d idx=%d: got %d want %d", w, i, got, want)
			}
		}
	}
}

func TestArraySetOnlyTouchesOwnField(t *testing.T) {
	a := New(10, 7)
	for i := uint64(0); i < 10; i++ {
		a.Set(i, lowMask(7))
	}
	a.Set(5, 0)
	for i := uint64(0); i < 10; i++ {
		want := lowMask(7)
		if i == 5 {
			want = 0
		}
		if got := a.Get(i); got != want {
			t.Errorf("idx %d: got %d want %d", i, got, want)
		}
	}
}

func TestArrayStraddlesWordBoundary(t *testing.T) {
	// width=5, field 12 begins at bit 60 and spills 1 bit into the next word.
	a := New(20, 5)
	a.Set(12, 0x1f)
	if got := a.Get(12); got != 0x1f {
		t.Fatalf("got %d want 31", got)
	}
	a.Set(11, 0)
	a.Set(13, 0)
	if got := a.Get(12); got != 0x1f {
		t.Fatalf("neighbor writes corrupted field 12: got %d", got)
	}
}

func TestArrayAllZero(t *testing.T) {
	a := New(64, 12)
	if !a.AllZero() {
		t.Fatal("freshly allocated array should be all zero")
	}
	a.Set(30, 1)
	if a.AllZero() {
		t.Fatal("expected non-zero after Set")
	}
	a.Set(30, 0)
	if !a.AllZero() {
		t.Fatal("expected zero after clearing the only set field")
	}
}
