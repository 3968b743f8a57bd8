package vecf

import "math/rand"

// TagWidth is the fingerprint width in bits a Table stores per fully-loaded
// bucket slot. Supported widths are 8, 12, and 16, each with its own
// variable-width bucket codec; a Table uses one width for all its buckets,
// and within that codec the per-tag width shrinks as a bucket fills.
type TagWidth uint

const (
	Tag8  TagWidth = 8
	Tag12 TagWidth = 12
	Tag16 TagWidth = 16
)

// kTagsPerBucket is the number of tag slots a single bucket word holds once
// fully loaded, fixed across all supported tag widths.
const kTagsPerBucket = 4

func randSlot(n uint) uint {
	return uint(rand.Intn(int(n)))
}

func zeroBucketFor(width TagWidth) uint64 {
	switch width {
	case Tag8:
		return zeroFlag8
	case Tag12:
		return zeroFlag12
	case Tag16:
		return zeroFlag16
	default:
		panic("vecf: unsupported tag width")
	}
}

// Table is the bucketed fingerprint store shared by every VECF instance: an
// array of fixed-size bucket words, each independently coded as 1, 2, 3, or
// 4 variable-width tags depending on how full it is.
type Table struct {
	width   TagWidth
	buckets []uint64
}

// NewTable allocates a Table with numBuckets buckets, each storing tags of
// the given width.
func NewTable(numBuckets uint64, width TagWidth) *Table {
	switch width {
	case Tag8, Tag12, Tag16:
	default:
		panic("vecf: unsupported tag width")
	}
	t := &Table{width: width, buckets: make([]uint64, numBuckets)}
	zero := zeroBucketFor(width)
	for i := range t.buckets {
		t.buckets[i] = zero
	}
	return t
}

func (t *Table) NumBuckets() uint64 { return uint64(len(t.buckets)) }

func (t *Table) SizeInBytes() int { return len(t.buckets) * 8 }

func (t *Table) SizeInTags() uint64 { return t.NumBuckets() * kTagsPerBucket }

// FindTagInBucket reports whether bucket i holds a tag matching
// unmaskedTag at any occupancy-dependent width.
func (t *Table) FindTagInBucket(i uint64, unmaskedTag uint64) bool {
	switch t.width {
	case Tag8:
		return findTagInBucket8(t.buckets[i], unmaskedTag)
	case Tag12:
		return findTagInBucket12(t.buckets[i], unmaskedTag)
	default:
		return findTagInBucket16(t.buckets[i], unmaskedTag)
	}
}

// InsertTagToBucket stores tag in bucket i. If the bucket is already at
// 4-slot occupancy and kickout is true, one existing slot is evicted at
// random, its old tag returned in oldTag, and ok is false to signal the
// caller must relocate oldTag. If kickout is false and the bucket is full,
// nothing is stored and ok is false with oldTag left at zero.
func (t *Table) InsertTagToBucket(i uint64, tag uint64, kickout bool) (oldTag uint64, ok bool) {
	var newBucket uint64
	switch t.width {
	case Tag8:
		newBucket, oldTag, ok = insertTagToBucket8(t.buckets[i], tag, kickout)
	case Tag12:
		newBucket, oldTag, ok = insertTagToBucket12(t.buckets[i], tag, kickout)
	default:
		newBucket, oldTag, ok = insertTagToBucket16(t.buckets[i], tag, kickout)
	}
	t.buckets[i] = newBucket
	return oldTag, ok
}

// FindMaxMatchingTag scans bucket i for the longest occupancy-dependent tag
// width at which unmaskedTag matches, updating maxBucketIdx/maxTagLength if
// a longer match than previously recorded is found. Used to pick the
// strongest lookup evidence across the two candidate buckets of an item.
func (t *Table) FindMaxMatchingTag(i uint64, unmaskedTag uint64, maxBucketIdx *uint64, maxTagLength *uint) {
	hit := false
	switch t.width {
	case Tag8:
		findMaxMatchingTag8(t.buckets[i], unmaskedTag, maxTagLength, &hit)
	case Tag12:
		findMaxMatchingTag12(t.buckets[i], unmaskedTag, maxTagLength, &hit)
	default:
		findMaxMatchingTag16(t.buckets[i], unmaskedTag, maxTagLength, &hit)
	}
	if hit {
		*maxBucketIdx = i
	}
}

// DeleteTagFromBucket removes the slot in bucket i holding masked tag,
// stepping the bucket down one occupancy level. It panics if the tag is not
// present, matching the precondition of the reference codec (callers must
// have confirmed presence via FindTagInBucket first).
func (t *Table) DeleteTagFromBucket(i uint64, maskedTag uint64) {
	switch t.width {
	case Tag8:
		t.buckets[i] = deleteTagFromBucket8(t.buckets[i], maskedTag)
	case Tag12:
		t.buckets[i] = deleteTagFromBucket12(t.buckets[i], maskedTag)
	default:
		t.buckets[i] = deleteTagFromBucket16(t.buckets[i], maskedTag)
	}
}

// BucketCountStat returns a 5-element histogram of bucket occupancy
// (counter[k] = number of buckets holding exactly k tags), for
// diagnostics.
func (t *Table) BucketCountStat() [5]uint64 {
	var counter [5]uint64
	for _, b := range t.buckets {
		var occ int
		switch t.width {
		case Tag8:
			occ = occupancyOf8(b)
		case Tag12:
			occ = occupancyOf12(b)
		default:
			occ = occupancyOf16(b)
		}
		counter[occ]++
	}
	return counter
}

// AllBucketsEmpty reports whether every bucket is at zero occupancy.
func (t *Table) AllBucketsEmpty() bool {
	zero := zeroBucketFor(t.width)
	for _, b := range t.buckets {
		if b != zero {
			return false
		}
	}
	return true
}

// Words returns a copy of the raw bucket words, for snapshotting.
func (t *Table) Words() []uint64 {
	out := make([]uint64, len(t.buckets))
	copy(out, t.buckets)
	return out
}

// LoadWords overwrites the raw bucket words with a snapshot previously
// obtained from Words. The word count must match the table's own.
func (t *Table) LoadWords(words []uint64) {
	if len(words) != len(t.buckets) {
		panic("vecf: snapshot bucket count mismatch")
	}
	copy(t.buckets, words)
}
