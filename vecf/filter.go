// Package vecf implements a cuckoo-style approximate set-membership filter:
// two candidate buckets per item, each holding up to four variable-width
// fingerprints, with a single-slot "victim" stash absorbing the rare
// kickout chain that runs out of relocation attempts.
package vecf

import (
	"fmt"

	"github.com/vecfilter/vecfilter/internal/hashfamily"
)

// kMaxCuckooCount bounds how many times Insert relocates an existing tag
// before giving up and parking the displaced tag in the victim slot.
const kMaxCuckooCount = 500

// altIndexMultiplier is the odd constant the reference filter multiplies a
// masked tag by before XOR-ing it into a bucket index to compute the
// alternate bucket. Any odd constant preserves the XOR involution
// AltIndex(AltIndex(i, t), t) == i; this is the value the original uses.
const altIndexMultiplier = 0x5bd1e995

type victim struct {
	index uint64
	tag   uint64
	used  bool
}

// Filter is a cuckoo fingerprint filter over an opaque []byte item. It is
// single-owner: no method is safe to call concurrently with any other
// method on the same Filter.
type Filter struct {
	table    *Table
	numItems uint64
	victim   victim

	hasherIndex *hashfamily.Family
	hasherTag   *hashfamily.Family

	width TagWidth
}

// New constructs a Filter sized for maxNumKeys items, using tags of the
// given width (Tag8, Tag12, or Tag16 — wider tags cut the false-positive
// rate at the cost of lower capacity per bucket byte).
func New(maxNumKeys uint64, width TagWidth) (*Filter, error) {
	switch width {
	case Tag8, Tag12, Tag16:
	default:
		return nil, fmt.Errorf("vecf: unsupported tag width %d", width)
	}
	if maxNumKeys == 0 {
		return nil, fmt.Errorf("vecf: maxNumKeys must be positive")
	}

	const assoc = uint64(kTagsPerBucket)
	numBuckets := upperPower2(max64(1, maxNumKeys/assoc))
	frac := float64(maxNumKeys) / float64(numBuckets) / float64(assoc)
	if frac > 0.96 {
		numBuckets <<= 1
	}

	return &Filter{
		table:       NewTable(numBuckets, width),
		hasherIndex: hashfamily.New(0xf1ec1e5),
		hasherTag:   hashfamily.New(0x7ac1e5),
		width:       width,
	}, nil
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func upperPower2(n uint64) uint64 {
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

func (f *Filter) indexHash(hv uint64) uint64 {
	return hv & (f.table.NumBuckets() - 1)
}

func (f *Filter) altIndex(index, unmaskedTag uint64) uint64 {
	return f.indexHash(index ^ (maskTag(unmaskedTag, uint(f.width)) * altIndexMultiplier))
}

func (f *Filter) generateIndexTagHash(item []byte) (index, unmaskedTag uint64) {
	index = f.indexHash(f.hasherIndex.Sum64(item))
	unmaskedTag = f.hasherTag.Sum64(item)
	return index, unmaskedTag
}

func maskTag(tag uint64, width uint) uint64 {
	return tag & ((uint64(1) << width) - 1)
}

// insertImpl runs the cuckoo relocation loop starting at bucket i for
// unmaskedTag, returning true once the tag is placed (either into a bucket
// or, as a last resort, the victim slot).
func (f *Filter) insertImpl(i, unmaskedTag uint64) bool {
	curIndex := i
	curTag := unmaskedTag

	for count := 0; count < kMaxCuckooCount; count++ {
		kickout := count > 0
		oldTag, ok := f.table.InsertTagToBucket(curIndex, curTag, kickout)
		if ok {
			f.numItems++
			return true
		}
		if kickout {
			curTag = oldTag
		}
		curIndex = f.altIndex(curIndex, curTag)
	}

	f.victim = victim{index: curIndex, tag: curTag, used: true}
	return true
}

// Insert adds item to the filter. It returns false only when the victim
// slot is already occupied by an earlier eviction: the filter is full and
// cannot safely accept more items until a Delete frees the victim slot.
func (f *Filter) Insert(item []byte) bool {
	if f.victim.used {
		return false
	}
	index, tag := f.generateIndexTagHash(item)
	return f.insertImpl(index, tag)
}

// Lookup reports whether item may be a member.
func (f *Filter) Lookup(item []byte) bool {
	i1, unmaskedTag := f.generateIndexTagHash(item)
	i2 := f.altIndex(i1, unmaskedTag)

	if f.victim.used && (f.victim.index == i1 || f.victim.index == i2) &&
		f.victim.tag == maskTag(unmaskedTag, uint(f.width)) {
		return true
	}

	return f.table.FindTagInBucket(i1, unmaskedTag) || f.table.FindTagInBucket(i2, unmaskedTag)
}

// Delete removes one instance of item. It returns false if item is not
// found in either candidate bucket nor the victim slot.
func (f *Filter) Delete(item []byte) bool {
	i1, unmaskedTag := f.generateIndexTagHash(item)
	i2 := f.altIndex(i1, unmaskedTag)

	var maxBucketIdx uint64
	var maxTagLength uint
	f.table.FindMaxMatchingTag(i1, unmaskedTag, &maxBucketIdx, &maxTagLength)
	f.table.FindMaxMatchingTag(i2, unmaskedTag, &maxBucketIdx, &maxTagLength)

	if maxTagLength == 0 {
		if f.victim.used && (f.victim.index == i1 || f.victim.index == i2) &&
			f.victim.tag == maskTag(unmaskedTag, uint(f.width)) {
			f.victim.used = false
			f.numItems--
			return true
		}
		return false
	}

	f.table.DeleteTagFromBucket(maxBucketIdx, maskTag(unmaskedTag, maxTagLength))

	if f.victim.used {
		f.victim.used = false
		f.insertImpl(f.victim.index, f.victim.tag)
	}
	f.numItems--
	return true
}

// Size returns the number of logical items present.
func (f *Filter) Size() uint64 { return f.numItems }

// SizeInBytes returns the size of the backing bucket table (excluding the
// single victim slot).
func (f *Filter) SizeInBytes() int { return f.table.SizeInBytes() }

// LoadFactor returns Size() / total tag slots.
func (f *Filter) LoadFactor() float64 {
	return float64(f.numItems) / float64(f.table.SizeInTags())
}

// BitsPerItem returns the amortized number of storage bits per inserted
// item.
func (f *Filter) BitsPerItem() float64 {
	if f.numItems == 0 {
		return 0
	}
	return 8.0 * float64(f.SizeInBytes()) / float64(f.numItems)
}

// BucketCountStat returns a 5-element occupancy histogram of the backing
// table, for diagnostics.
func (f *Filter) BucketCountStat() [5]uint64 { return f.table.BucketCountStat() }

// VictimUsed reports whether the single victim slot currently holds a
// displaced tag, i.e. the filter is at capacity.
func (f *Filter) VictimUsed() bool { return f.victim.used }

// Snapshot is a point-in-time, serializable copy of a Filter's state,
// exported for Raft FSM snapshotting.
type Snapshot struct {
	Width       TagWidth
	Buckets     []uint64
	NumItems    uint64
	VictimIndex uint64
	VictimTag   uint64
	VictimUsed  bool
}

// ExportSnapshot captures the filter's current state.
func (f *Filter) ExportSnapshot() Snapshot {
	return Snapshot{
		Width:       f.width,
		Buckets:     f.table.Words(),
		NumItems:    f.numItems,
		VictimIndex: f.victim.index,
		VictimTag:   f.victim.tag,
		VictimUsed:  f.victim.used,
	}
}

// RestoreSnapshot overwrites the filter's state with a previously exported
// Snapshot. The receiver must have been constructed with a bucket count
// matching the snapshot's origin.
func (f *Filter) RestoreSnapshot(s Snapshot) {
	f.width = s.Width
	f.table.LoadWords(s.Buckets)
	f.numItems = s.NumItems
	f.victim = victim{index: s.VictimIndex, tag: s.VictimTag, used: s.VictimUsed}
}
