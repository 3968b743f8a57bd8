package veqf

import (
	"fmt"
	"testing"
)

func TestInsertThenLookup(t *testing.T) {
	f, err := New(1000, 8)
	if err != nil {
		t.Fatal(err)
	}
	items := make([][]byte, 200)
	for i := range items {
		items[i] = []byte(fmt.Sprintf("item-%d", i))
		if !f.Insert(items[i]) {
			t.Fatalf("insert failed for %q", items[i])
		}
	}
	for _, item := range items {
		if !f.Lookup(item) {
			t.Fatalf("lookup miss for inserted item %q", item)
		}
	}
}

func TestLookupOnEmptyFilterNeverPanics(t *testing.T) {
	f, err := New(1000, 8)
	if err != nil {
		t.Fatal(err)
	}
	if f.Lookup([]byte("absent")) {
		t.Fatalf("empty filter reported membership")
	}
}

func TestDeleteThenLookup(t *testing.T) {
	f, err := New(1000, 8)
	if err != nil {
		t.Fatal(err)
	}
	item := []byte("solo-item")
	if !f.Insert(item) {
		t.Fatalf("insert failed")
	}
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
	f, err := New(1000, 8)
	if err != nil {
		t.Fatal(err)
	}
	if f.Delete([]byte("never-inserted")) {
		t.Fatalf("expected delete of a never-inserted item to fail")
	}
}

func TestInsertManyThenDeleteAll(t *testing.T) {
	f, err := New(2000, 8)
	if err != nil {
		t.Fatal(err)
	}
	items := make([][]byte, 300)
	for i := range items {
		items[i] = []byte(fmt.Sprintf("clear-%d", i))
		if !f.Insert(items[i]) {
			t.Fatalf("insert failed for %q", items[i])
		}
	}
	for _, item := range items {
		if !f.Delete(item) {
			t.Fatalf("delete failed for %q", item)
		}
	}
	if f.Size() != 0 {
		t.Fatalf("expected size 0 after deleting every inserted item, got %d", f.Size())
	}
}

func TestSizeTracksInsertsAndDeletes(t *testing.T) {
	f, err := New(1000, 8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		f.Insert([]byte(fmt.Sprintf("s-%d", i)))
	}
	if f.Size() != 50 {
		t.Fatalf("expected size 50, got %d", f.Size())
	}
	f.Delete([]byte("s-0"))
	if f.Size() != 49 {
		t.Fatalf("expected size 49 after one delete, got %d", f.Size())
	}
}

func TestLoadFactorAndBitsPerItem(t *testing.T) {
	f, err := New(1000, 8)
	if err != nil {
		t.Fatal(err)
	}
	if f.BitsPerItem() != 0 {
		t.Fatalf("expected 0 bits per item on an empty filter")
	}
	for i := 0; i < 100; i++ {
		f.Insert([]byte(fmt.Sprintf("z-%d", i)))
	}
	if lf := f.LoadFactor(); lf <= 0 || lf > 1 {
		t.Fatalf("expected load factor in (0, 1], got %f", lf)
	}
	if bpi := f.BitsPerItem(); bpi <= 0 {
		t.Fatalf("expected positive bits per item, got %f", bpi)
	}
}

func TestInsertRejectsBeyondItemBudget(t *testing.T) {
	f, err := New(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	inserted := 0
	for i := 0; i < 64; i++ {
		if f.Insert([]byte(fmt.Sprintf("cap-%d", i))) {
			inserted++
		} else {
			break
		}
	}
	if inserted == 0 {
		t.Fatalf("expected at least one successful insert before hitting capacity")
	}
	if f.Insert([]byte("overflow")) {
		t.Fatalf("expected insert to fail once maxEntries is reached")
	}
}

func TestSetInsertLargeRemainderThresholdAffectsSlotConsumption(t *testing.T) {
	low, err := New(1000, 8)
	if err != nil {
		t.Fatal(err)
	}
	low.SetInsertLargeRemainderThreshold(0)

	high, err := New(1000, 8)
	if err != nil {
		t.Fatal(err)
	}
	high.SetInsertLargeRemainderThreshold(1)

	items := make([][]byte, 100)
	for i := range items {
		items[i] = []byte(fmt.Sprintf("thresh-%d", i))
		low.Insert(items[i])
		high.Insert(items[i])
	}

	if high.entries <= low.entries {
		t.Fatalf("expected a higher remainder threshold to consume more slots: low=%d high=%d", low.entries, high.entries)
	}
	for _, item := range items {
		if !low.Lookup(item) {
			t.Fatalf("low-threshold filter lost membership for %q", item)
		}
		if !high.Lookup(item) {
			t.Fatalf("high-threshold filter lost membership for %q", item)
		}
	}
}

func TestConstructorRejectsInvalidParams(t *testing.T) {
	if _, err := New(0, 8); err == nil {
		t.Fatalf("expected error for zero maxNumKeys")
	}
	if _, err := New(1000, 0); err == nil {
		t.Fatalf("expected error for zero bitsPerItem")
	}
	if _, err := New(1000, 32); err == nil {
		t.Fatalf("expected error for a bitsPerItem too wide to leave room for a quotient")
	}
}

func TestInsertDeleteInterleaved(t *testing.T) {
	f, err := New(2000, 8)
	if err != nil {
		t.Fatal(err)
	}
	present := map[string]bool{}
	for i := 0; i < 60; i++ {
		key := fmt.Sprintf("iv-%d", i)
		f.Insert([]byte(key))
		present[key] = true
		if i%3 == 0 {
			victim := fmt.Sprintf("iv-%d", i/2)
			if present[victim] {
				if !f.Delete([]byte(victim)) {
					t.Fatalf("expected delete of %q to succeed", victim)
				}
				delete(present, victim)
			}
		}
	}
	for key := range present {
		if !f.Lookup([]byte(key)) {
			t.Fatalf("lost membership for %q after interleaved insert/delete", key)
		}
	}
}
