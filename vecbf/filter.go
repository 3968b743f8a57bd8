// Package vecbf implements a two-phase counting Bloom filter: a bit-packed
// counter array that runs a "phase 1" layout of two half-width
// sub-counters (doubling the effective hash function count without
// doubling memory) until enough items have been inserted, then switches,
// once and irreversibly, to a "phase 2" layout of one full-width counter.
package vecbf

import (
	"fmt"
	"math"

	"github.com/vecfilter/vecfilter/internal/bitpack"
	"github.com/vecfilter/vecfilter/internal/hashfamily"
)

// Phase identifies which counter layout a Filter is currently using.
type Phase int

const (
	// Phase1 splits each counter into two B/2-bit sub-counters fed by
	// disjoint halves of a doubled hash function set.
	Phase1 Phase = iota
	// Phase2 uses the full B bits of each counter as a single value.
	Phase2
)

func (p Phase) String() string {
	if p == Phase1 {
		return "phase1"
	}
	return "phase2"
}

// DefaultBitsPerCounter is the counter width used when Filter is
// constructed via New. Callers needing a different width should use
// NewWithCounterWidth.
const DefaultBitsPerCounter = 8

// Filter is a two-phase counting Bloom filter over an opaque []byte item.
// It is single-owner: no method is safe to call concurrently with any
// other method on the same Filter.
type Filter struct {
	maxNumKeys     uint64
	fpp            float64
	bitsPerCounter uint

	counterNum uint64
	k          uint64

	table    *bitpack.Array
	numItems int64
	phase    Phase

	hasher *hashfamily.Family
}

// New constructs a Filter sized for maxNumKeys items at the given target
// false-positive rate, using an 8-bit counter.
func New(maxNumKeys uint64, falsePositive float64) (*Filter, error) {
	return NewWithCounterWidth(maxNumKeys, falsePositive, DefaultBitsPerCounter)
}

// NewWithCounterWidth constructs a Filter with an explicit counter width in
// bits. bitsPerCounter must be even and at least 2, since phase 1 splits it
// into two equal halves.
func NewWithCounterWidth(maxNumKeys uint64, falsePositive float64, bitsPerCounter uint) (*Filter, error) {
	if maxNumKeys == 0 {
		return nil, fmt.Errorf("vecbf: maxNumKeys must be positive")
	}
	if falsePositive <= 0 || falsePositive >= 1 {
		return nil, fmt.Errorf("vecbf: falsePositive must be in (0, 1)")
	}
	if bitsPerCounter < 2 || bitsPerCounter%2 != 0 || bitsPerCounter > 64 {
		return nil, fmt.Errorf("vecbf: bitsPerCounter must be even and in [2, 64]")
	}

	counterNum := optimalCounterNum(maxNumKeys, falsePositive)
	k := optimalHashFunctionNum(maxNumKeys, counterNum)

	return &Filter{
		maxNumKeys:     maxNumKeys,
		fpp:            falsePositive,
		bitsPerCounter: bitsPerCounter,
		counterNum:     counterNum,
		k:              k,
		table:          bitpack.New(counterNum, bitsPerCounter),
		phase:          Phase1,
		hasher:         hashfamily.New(0x5eccb17),
	}, nil
}

func optimalCounterNum(maxNumKeys uint64, falsePositive float64) uint64 {
	n := float64(maxNumKeys) * (-math.Log(falsePositive)) / (math.Ln2 * math.Ln2)
	return uint64(math.Ceil(n))
}

func optimalHashFunctionNum(maxNumKeys, counterNum uint64) uint64 {
	k := uint64(math.Round(float64(counterNum) * math.Ln2 / float64(maxNumKeys)))
	if k < 1 {
		return 1
	}
	return k
}

func lowMask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// Phase reports the filter's current operating phase, for diagnostics.
func (f *Filter) Phase() Phase {
	return f.phase
}

func (f *Filter) upperCounterBase() uint64 {
	return uint64(1) << (f.bitsPerCounter / 2)
}

// indices returns the effectiveK counter indices the item hashes to, using the
// effective hash function count for the current phase (2k in phase 1, k in
// phase 2).
func (f *Filter) indices(item []byte) (idxs []uint64, effectiveK uint64) {
	hash := f.hasher.Sum64(item)
	hash1 := hash & lowMask(32)
	hash2 := hash >> 32

	effectiveK = f.k
	if f.phase == Phase1 {
		effectiveK = 2 * f.k
	}
	idxs = make([]uint64, effectiveK)
	for i := uint64(0); i < effectiveK; i++ {
		combined := hash1 + hash2*i
		idxs[i] = combined % f.counterNum
	}
	return idxs, effectiveK
}

// Insert adds item to the filter. It returns false only on a structural
// error; VECBF has no capacity ceiling short of counter saturation, which
// is undefined behavior by design (see DESIGN.md) — the
// caller is responsible for respecting the configured false-positive rate
// and capacity.
func (f *Filter) Insert(item []byte) bool {
	idxs, _ := f.indices(item)

	if f.phase == Phase1 {
		for i, idx := range idxs {
			counter := f.table.Get(idx)
			if uint64(i) >= f.k {
				counter += f.upperCounterBase()
			} else {
				counter++
			}
			f.table.Set(idx, counter)
		}
	} else {
		for _, idx := range idxs {
			f.table.Set(idx, f.table.Get(idx)+1)
		}
	}

	f.numItems++

	if f.phase == Phase1 && f.numItems >= int64(f.maxNumKeys/2) {
		f.switchToPhase2()
	}
	return true
}

// switchToPhase2 discards the high half of every counter and moves the
// filter, once and irreversibly, into phase 2. This is destructive: any
// bookkeeping the high half held for phase-1-only hash positions is lost,
// which is why phase-2 Lookup only ever probes the low k positions again
// (see DESIGN.md's Open Question on Lookup probe count).
func (f *Filter) switchToPhase2() {
	half := f.bitsPerCounter / 2
	for i := uint64(0); i < f.counterNum; i++ {
		counter := f.table.Get(i)
		f.table.Set(i, counter&lowMask(half))
	}
	f.phase = Phase2
}

// Lookup reports whether item may be a member. It never fails.
func (f *Filter) Lookup(item []byte) bool {
	idxs, _ := f.indices(item)
	for _, idx := range idxs {
		if f.table.Get(idx) == 0 {
			return false
		}
	}
	return true
}

// Delete removes one instance of item. It returns false if any probed
// counter is already zero, meaning the item was never inserted or was
// already deleted. Every probed counter is checked before any is
// decremented, so a Delete that returns false leaves every counter
// unchanged — matching spec.md §7's "either the filter's post-state
// reflects the operation or it is unchanged" for all operations. This
// probe-then-mutate split is a deliberate deviation from the reference
// (vecbf.h's Delete decrements each counter as it walks the probe list and
// bails out mid-walk on a later zero counter, leaving earlier decrements
// applied — see DESIGN.md).
func (f *Filter) Delete(item []byte) bool {
	idxs, _ := f.indices(item)

	for _, idx := range idxs {
		if f.table.Get(idx) == 0 {
			return false
		}
	}

	if f.phase == Phase1 {
		for i, idx := range idxs {
			counter := f.table.Get(idx)
			if uint64(i) >= f.k {
				counter -= f.upperCounterBase()
			} else {
				counter--
			}
			f.table.Set(idx, counter)
		}
	} else {
		for _, idx := range idxs {
			f.table.Set(idx, f.table.Get(idx)-1)
		}
	}

	f.numItems--
	return true
}

// Size returns the number of logical items present (inserts minus
// successful deletes).
func (f *Filter) Size() int64 {
	return f.numItems
}

// SizeInBytes returns the size of the backing counter table.
func (f *Filter) SizeInBytes() int {
	return f.table.SizeInBytes()
}

// LoadFactor returns Size() / maxNumKeys.
func (f *Filter) LoadFactor() float64 {
	return float64(f.numItems) / float64(f.maxNumKeys)
}

// BitsPerItem returns the amortized number of storage bits per inserted
// item.
func (f *Filter) BitsPerItem() float64 {
	if f.numItems == 0 {
		return 0
	}
	return 8.0 * float64(f.SizeInBytes()) / float64(f.numItems)
}

// AllCountersZero reports whether every counter in the backing table is
// zero. Used to verify the delete-all-clears property (spec.md §8, E6).
func (f *Filter) AllCountersZero() bool {
	return f.table.AllZero()
}

// Snapshot is a point-in-time, serializable copy of a Filter's state,
// exported for Raft FSM snapshotting.
type Snapshot struct {
	MaxNumKeys     uint64
	Fpp            float64
	BitsPerCounter uint
	CounterNum     uint64
	K              uint64
	Table          []uint64
	NumItems       int64
	Phase          Phase
}

// ExportSnapshot captures the filter's current state.
func (f *Filter) ExportSnapshot() Snapshot {
	return Snapshot{
		MaxNumKeys:     f.maxNumKeys,
		Fpp:            f.fpp,
		BitsPerCounter: f.bitsPerCounter,
		CounterNum:     f.counterNum,
		K:              f.k,
		Table:          f.table.Words(),
		NumItems:       f.numItems,
		Phase:          f.phase,
	}
}

// RestoreSnapshot overwrites the filter's state with a previously exported
// Snapshot. The receiver must have been constructed with the same
// maxNumKeys/bitsPerCounter as the filter the snapshot came from.
func (f *Filter) RestoreSnapshot(s Snapshot) {
	f.maxNumKeys = s.MaxNumKeys
	f.fpp = s.Fpp
	f.bitsPerCounter = s.BitsPerCounter
	f.counterNum = s.CounterNum
	f.k = s.K
	f.table.LoadWords(s.Table)
	f.numItems = s.NumItems
	f.phase = s.Phase
}
