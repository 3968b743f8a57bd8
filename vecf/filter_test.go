package vecf

import (
	"fmt"
	"testing"
)

func TestInsertThenLookupAllWidths(t *testing.T) {
	for _, width := range []TagWidth{Tag8, Tag12, Tag16} {
		f, err := New(2000, width)
		if err != nil {
			t.Fatalf("width %d: %v", width, err)
		}
		items := make([][]byte, 500)
		for i := range items {
			items[i] = []byte(fmt.Sprintf("item-%d", i))
			if !f.Insert(items[i]) {
				t.Fatalf("width %d: insert failed for %q", width, items[i])
			}
		}
		for _, item := range items {
			if !f.Lookup(item) {
				t.Fatalf("width %d: lookup miss for inserted item %q", width, item)
			}
		}
	}
}

func TestLookupOnEmptyFilterNeverPanics(t *testing.T) {
	f, err := New(1000, Tag8)
	if err != nil {
		t.Fatal(err)
	}
	if f.Lookup([]byte("absent")) {
		t.Fatalf("empty filter reported membership")
	}
}

func TestDeleteThenLookup(t *testing.T) {
	f, err := New(1000, Tag12)
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
	f, err := New(1000, Tag8)
	if err != nil {
		t.Fatal(err)
	}
	if f.Delete([]byte("never-inserted")) {
		t.Fatalf("expected delete of a never-inserted item to fail")
	}
}

func TestDeleteAllEmptiesBuckets(t *testing.T) {
	// Tag8 runs at a higher load factor than Tag16 (60 items; New(64, Tag8)
	// rounds up to 32 buckets, i.e. 128 slots) so that buckets reach 3- and
	// 4-occupancy, exercising the occupancy codepaths deleteTagFromBucket8
	// has, including the slot-index-2 case
	// covered more directly by TestBucket8DeleteSlotTwoOfThreePreservesOtherSlots.
	cases := []struct {
		width      TagWidth
		maxNumKeys uint64
		numItems   int
	}{
		{Tag8, 64, 60},
		{Tag16, 500, 100},
	}
	for _, c := range cases {
		f, err := New(c.maxNumKeys, c.width)
		if err != nil {
			t.Fatal(err)
		}
		items := make([][]byte, c.numItems)
		for i := range items {
			items[i] = []byte(fmt.Sprintf("clear-%d-%d", c.width, i))
			if !f.Insert(items[i]) {
				t.Fatalf("width %d: insert failed for %q", c.width, items[i])
			}
		}
		for _, item := range items {
			if !f.Delete(item) {
				t.Fatalf("width %d: delete failed for %q", c.width, item)
			}
		}
		if !f.table.AllBucketsEmpty() {
			t.Fatalf("width %d: expected all buckets empty after deleting every inserted item", c.width)
		}
		if f.Size() != 0 {
			t.Fatalf("width %d: expected size 0, got %d", c.width, f.Size())
		}
	}
}

func TestBucketCountStatSumsToNumBuckets(t *testing.T) {
	f, err := New(500, Tag8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		f.Insert([]byte(fmt.Sprintf("x-%d", i)))
	}
	stat := f.BucketCountStat()
	var total uint64
	for _, c := range stat {
		total += c
	}
	if total != f.table.NumBuckets() {
		t.Fatalf("occupancy histogram sums to %d, want %d buckets", total, f.table.NumBuckets())
	}
}

func TestConstructorRejectsInvalidParams(t *testing.T) {
	if _, err := New(0, Tag8); err == nil {
		t.Fatalf("expected error for zero maxNumKeys")
	}
	if _, err := New(100, TagWidth(10)); err == nil {
		t.Fatalf("expected error for unsupported tag width")
	}
}

func TestAltIndexIsAnInvolution(t *testing.T) {
	f, err := New(1000, Tag8)
	if err != nil {
		t.Fatal(err)
	}
	i1, tag := f.generateIndexTagHash([]byte("round-trip"))
	i2 := f.altIndex(i1, tag)
	back := f.altIndex(i2, tag)
	if back != i1 {
		t.Fatalf("AltIndex is not an involution: i1=%d i2=%d back=%d", i1, i2, back)
	}
}

func TestBitsPerItemPositive(t *testing.T) {
	f, err := New(1000, Tag8)
	if err != nil {
		t.Fatal(err)
	}
	if bpi := f.BitsPerItem(); bpi != 0 {
		t.Fatalf("expected 0 bits per item on empty filter, got %f", bpi)
	}
	for i := 0; i < 300; i++ {
		f.Insert([]byte(fmt.Sprintf("y-%d", i)))
	}
	if bpi := f.BitsPerItem(); bpi <= 0 {
		t.Fatalf("expected positive bits per item, got %f", bpi)
	}
}
