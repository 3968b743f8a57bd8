package vecbf

import (
	"fmt"
	"testing"
)

func TestInsertThenLookup(t *testing.T) {
	f, err := New(1000, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	items := make([][]byte, 200)
	for i := range items {
		items[i] = []byte(fmt.Sprintf("item-%d", i))
		f.Insert(items[i])
	}
	for _, item := range items {
		if !f.Lookup(item) {
			t.Fatalf("lookup miss for inserted item %q", item)
		}
	}
}

func TestLookupOnEmptyFilterNeverPanics(t *testing.T) {
	f, err := New(100, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if f.Lookup([]byte("absent")) {
		t.Fatalf("empty filter reported membership")
	}
}

func TestDeleteThenLookup(t *testing.T) {
	// After deleting the only inserted item, every counter it touched is back
	// to zero, so lookup for that exact item must report absence.
	f, err := New(500, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	item := []byte("solo-item")
	f.Insert(item)
	if !f.Lookup(item) {
		t.Fatalf("expected membership right after insert")
	}
	if !f.Delete(item) {
		t.Fatalf("expected delete to succeed")
	}
	if f.Lookup(item) {
		t.Fatalf("expected absence after deleting the only inserted item")
	}
}

func TestDeleteMissingItemFails(t *testing.T) {
	f, err := New(500, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if f.Delete([]byte("never-inserted")) {
		t.Fatalf("expected delete of a never-inserted item to fail")
	}
}

func TestDeleteAllClearsCounters(t *testing.T) {
	f, err := New(200, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	items := make([][]byte, 50)
	for i := range items {
		items[i] = []byte(fmt.Sprintf("clear-%d", i))
		f.Insert(items[i])
	}
	for _, item := range items {
		if !f.Delete(item) {
			t.Fatalf("delete failed for %q", item)
		}
	}
	if !f.AllCountersZero() {
		t.Fatalf("expected all counters zero after deleting every inserted item")
	}
	if f.Size() != 0 {
		t.Fatalf("expected size 0, got %d", f.Size())
	}
}

func TestPhaseTransition(t *testing.T) {
	f, err := New(20, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if f.Phase() != Phase1 {
		t.Fatalf("expected filter to start in phase1")
	}
	for i := 0; i < 15; i++ {
		f.Insert([]byte(fmt.Sprintf("p-%d", i)))
	}
	if f.Phase() != Phase2 {
		t.Fatalf("expected filter to have switched to phase2 by now, got %s", f.Phase())
	}
}

func TestMembershipSurvivesPhaseTransition(t *testing.T) {
	f, err := New(20, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	early := []byte("inserted-before-transition")
	f.Insert(early)
	for i := 0; i < 15; i++ {
		f.Insert([]byte(fmt.Sprintf("filler-%d", i)))
	}
	if f.Phase() != Phase2 {
		t.Fatalf("expected phase2 after enough inserts")
	}
	if !f.Lookup(early) {
		t.Fatalf("phase-1-inserted item lost membership after transition to phase2")
	}
}

func TestSizeInBytesConstantAcrossOperations(t *testing.T) {
	f, err := New(1000, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	before := f.SizeInBytes()
	for i := 0; i < 100; i++ {
		f.Insert([]byte(fmt.Sprintf("x-%d", i)))
	}
	after := f.SizeInBytes()
	if before != after {
		t.Fatalf("SizeInBytes changed with occupancy: %d vs %d", before, after)
	}
}

func TestLoadFactorAndBitsPerItem(t *testing.T) {
	f, err := New(1000, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if lf := f.LoadFactor(); lf != 0 {
		t.Fatalf("expected 0 load factor on empty filter, got %f", lf)
	}
	for i := 0; i < 500; i++ {
		f.Insert([]byte(fmt.Sprintf("y-%d", i)))
	}
	if lf := f.LoadFactor(); lf < 0.4 || lf > 0.6 {
		t.Fatalf("expected load factor near 0.5, got %f", lf)
	}
	if bpi := f.BitsPerItem(); bpi <= 0 {
		t.Fatalf("expected positive bits per item, got %f", bpi)
	}
}

func TestConstructorRejectsInvalidParams(t *testing.T) {
	if _, err := New(0, 0.01); err == nil {
		t.Fatalf("expected error for zero maxNumKeys")
	}
	if _, err := New(100, 0); err == nil {
		t.Fatalf("expected error for zero false positive rate")
	}
	if _, err := New(100, 1); err == nil {
		t.Fatalf("expected error for false positive rate of 1")
	}
	if _, err := NewWithCounterWidth(100, 0.01, 3); err == nil {
		t.Fatalf("expected error for odd counter width")
	}
}
