package vecf

import "testing"

func TestTableInsertFindDeleteRoundTrip(t *testing.T) {
	for _, width := range []TagWidth{Tag8, Tag12, Tag16} {
		table := NewTable(16, width)
		tags := []uint64{0x1a2b3c, 0x4d5e6f, 0x7a8b9c, 0xdeadbeef}
		for _, tag := range tags {
			if _, ok := table.InsertTagToBucket(3, tag, false); !ok {
				t.Fatalf("width %d: insert failed for tag %x", width, tag)
			}
		}
		for _, tag := range tags {
			if !table.FindTagInBucket(3, tag) {
				t.Fatalf("width %d: find missed tag %x after insert", width, tag)
			}
		}
		for _, tag := range tags {
			var maxBucketIdx uint64
			var maxTagLength uint
			table.FindMaxMatchingTag(3, tag, &maxBucketIdx, &maxTagLength)
			if maxTagLength == 0 {
				t.Fatalf("width %d: expected to find tag %x before deleting it", width, tag)
			}
			table.DeleteTagFromBucket(3, maskTag(tag, maxTagLength))
		}
		if !table.AllBucketsEmpty() {
			t.Fatalf("width %d: bucket should be empty after deleting every inserted tag", width)
		}
	}
}

// TestBucket8DeleteSlotTwoOfThreePreservesOtherSlots pins down the
// slot-index-2 delete path of a 3-occupant Tag8 bucket: insertTagToBucket8's
// twoFlag8->threeFlag8 transition always appends the newly inserted tag at
// slot index 2, so inserting three tags in order gives full control over
// which tag lands where without needing to reverse a hash. Regression test
// for a mask transcription bug where slot 2's delete mask corrupted slot 1's
// surviving tag.
func TestBucket8DeleteSlotTwoOfThreePreservesOtherSlots(t *testing.T) {
	table := NewTable(1, Tag8)
	tags := []uint64{0x1ab, 0xcd, 0x1ef}
	for _, tag := range tags {
		if _, ok := table.InsertTagToBucket(0, tag, false); !ok {
			t.Fatalf("insert failed for tag %x", tag)
		}
	}
	if stat := table.BucketCountStat(); stat[3] != 1 {
		t.Fatalf("expected bucket to reach 3-occupancy, got histogram %v", stat)
	}

	var maxBucketIdx uint64
	var maxTagLength uint
	table.FindMaxMatchingTag(0, tags[2], &maxBucketIdx, &maxTagLength)
	if maxTagLength != 9 {
		t.Fatalf("expected tag %x to be found at slot-index-2 width 9, got width %d", tags[2], maxTagLength)
	}
	table.DeleteTagFromBucket(0, maskTag(tags[2], maxTagLength))

	if table.FindTagInBucket(0, tags[2]) {
		t.Fatalf("deleted tag %x should no longer be found", tags[2])
	}
	if !table.FindTagInBucket(0, tags[0]) {
		t.Fatalf("slot 0 tag %x was corrupted by deleting slot 2", tags[0])
	}
	if !table.FindTagInBucket(0, tags[1]) {
		t.Fatalf("slot 1 tag %x was corrupted by deleting slot 2", tags[1])
	}
}

func TestTableFullBucketRejectsWithoutKickout(t *testing.T) {
	table := NewTable(16, Tag8)
	for i := uint64(1); i <= 4; i++ {
		if _, ok := table.InsertTagToBucket(0, i, false); !ok {
			t.Fatalf("insert %d failed unexpectedly", i)
		}
	}
	if _, ok := table.InsertTagToBucket(0, 5, false); ok {
		t.Fatalf("expected insert into a full bucket without kickout to fail")
	}
}

func TestTableFullBucketKicksOutWithKickout(t *testing.T) {
	table := NewTable(16, Tag8)
	for i := uint64(1); i <= 4; i++ {
		table.InsertTagToBucket(0, i, false)
	}
	oldTag, ok := table.InsertTagToBucket(0, 9, true)
	if ok {
		t.Fatalf("kickout insert should report ok=false to signal relocation is needed")
	}
	if oldTag == 0 {
		t.Fatalf("expected a nonzero evicted tag")
	}
}

func TestBucketCountStatTracksOccupancy(t *testing.T) {
	table := NewTable(4, Tag8)
	table.InsertTagToBucket(0, 1, false)
	table.InsertTagToBucket(0, 2, false)
	table.InsertTagToBucket(1, 1, false)

	stat := table.BucketCountStat()
	if stat[0] != 2 {
		t.Fatalf("expected 2 empty buckets, got %d", stat[0])
	}
	if stat[1] != 1 {
		t.Fatalf("expected 1 single-occupancy bucket, got %d", stat[1])
	}
	if stat[2] != 1 {
		t.Fatalf("expected 1 double-occupancy bucket, got %d", stat[2])
	}
}

func TestAllBucketsEmptyOnFreshTable(t *testing.T) {
	table := NewTable(8, Tag16)
	if !table.AllBucketsEmpty() {
		t.Fatalf("freshly allocated table should report all buckets empty")
	}
	table.InsertTagToBucket(0, 42, false)
	if table.AllBucketsEmpty() {
		t.Fatalf("expected non-empty after insert")
	}
}

func TestPextPdepRoundTrip(t *testing.T) {
	mask := uint64(0x80808000)
	x := uint64(0xdeadbeef) &^ mask
	extracted := pext64(x, ^mask)
	restored := pdep64(extracted, ^mask)
	if restored != x {
		t.Fatalf("pext/pdep round trip failed: got %x want %x", restored, x)
	}
}

func TestHasValueFindsExactMatchOnly(t *testing.T) {
	// three 9-bit fields packed at bit 0: values 5, 6, 7
	packed := uint64(5) | uint64(6)<<9 | uint64(7)<<18
	if !hasValue(packed, 9, 3, 6) {
		t.Fatalf("expected hasValue to find 6")
	}
	if hasValue(packed, 9, 3, 8) {
		t.Fatalf("expected hasValue to not find 8")
	}
}
