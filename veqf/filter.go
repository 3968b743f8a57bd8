// Package veqf implements a quotient filter whose remainders occupy one or
// two slots, following the reference implementation's one-or-two-slot
// remainder scheme: while the fraction of used slots is below a configurable
// threshold, new items are stored as longer two-slot remainders; above it,
// as one-slot remainders.
package veqf

import (
	"fmt"
	"math/bits"

	"github.com/vecfilter/vecfilter/internal/bitpack"
	"github.com/vecfilter/vecfilter/internal/hashfamily"
)

const (
	metadataOccupied     uint64 = 1
	metadataContinuation uint64 = 2
	metadataShifted      uint64 = 4
	metadataMask         uint64 = metadataOccupied | metadataContinuation | metadataShifted
	metadataBits         uint64 = 3

	// kMaxOccupiedSlot is the most slots a single remainder can occupy.
	kMaxOccupiedSlot uint64 = 2

	// defaultInsertLargeRemainderThreshold matches the reference default:
	// below this load factor, Insert prefers two-slot remainders (more
	// selective, fewer false positives); above it, Insert compacts to
	// one-slot remainders to conserve the shrinking slot budget.
	defaultInsertLargeRemainderThreshold = 0.2
)

func lowMask(n uint64) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

func upperPower2(n uint64) uint64 {
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// Filter is a quotient filter over an opaque []byte item. It is
// single-owner: no method is safe to call concurrently with any other
// method on the same Filter.
type Filter struct {
	bitsPerItem uint64
	qbits       uint64
	indexMask   uint64
	entries     uint64
	maxEntries  uint64
	items       uint64

	table  *bitpack.Array
	hasher *hashfamily.Family

	insertLargeRemainderThreshold float64
}

// New constructs a Filter sized for maxNumKeys items, with remainders
// bitsPerItem bits wide (per slot; a two-slot remainder uses 2*bitsPerItem-1
// bits across its pair: 2*bitsPerItem-2 bits of the hash plus the marker bit
// that flags the first slot). bitsPerItem must leave room for a quotient: 2*bitsPerItem must be
// less than 64.
func New(maxNumKeys uint64, bitsPerItem uint64) (*Filter, error) {
	if maxNumKeys == 0 {
		return nil, fmt.Errorf("veqf: maxNumKeys must be positive")
	}
	if bitsPerItem == 0 || kMaxOccupiedSlot*bitsPerItem >= 64 {
		return nil, fmt.Errorf("veqf: bitsPerItem must leave room for a quotient (2*bitsPerItem < 64)")
	}

	qbits := uint64(bits.TrailingZeros64(upperPower2(maxNumKeys)))
	maxEntries := uint64(1) << qbits
	slotBits := bitsPerItem + metadataBits

	return &Filter{
		bitsPerItem:                   bitsPerItem,
		qbits:                         qbits,
		indexMask:                     lowMask(qbits),
		maxEntries:                    maxEntries,
		table:                         bitpack.New(maxEntries, uint(slotBits)),
		hasher:                        hashfamily.New(0xfeed5eed),
		insertLargeRemainderThreshold: defaultInsertLargeRemainderThreshold,
	}, nil
}

// SetInsertLargeRemainderThreshold overrides the load-factor threshold
// below which Insert prefers two-slot remainders. See the field doc on
// defaultInsertLargeRemainderThreshold.
func (f *Filter) SetInsertLargeRemainderThreshold(threshold float64) {
	f.insertLargeRemainderThreshold = threshold
}

func (f *Filter) remainderHighestBit() uint64 {
	return uint64(1) << (f.bitsPerItem - 1)
}

func (f *Filter) generateQuotientRemainder(item []byte) (quotient, remainder uint64) {
	hash := f.hasher.Sum64(item)
	quotient = (hash >> (kMaxOccupiedSlot*f.bitsPerItem - 2)) & f.indexMask
	remainder = hash & lowMask(kMaxOccupiedSlot*f.bitsPerItem-2)
	return quotient, remainder
}

func (f *Filter) getSlot(idx uint64) uint64  { return f.table.Get(idx) }
func (f *Filter) setSlot(idx, slot uint64)   { f.table.Set(idx, slot) }
func (f *Filter) incrIdx(idx, step uint64) uint64 {
	return (idx + step) & f.indexMask
}
func (f *Filter) decrIdx(idx uint64) uint64 { return (idx - 1) & f.indexMask }

func isOccupied(slot uint64) bool     { return slot&metadataOccupied != 0 }
func isContinuation(slot uint64) bool { return slot&metadataContinuation != 0 }
func isShifted(slot uint64) bool      { return slot&metadataShifted != 0 }
func setOccupied(slot uint64) uint64     { return slot | metadataOccupied }
func setContinuation(slot uint64) uint64 { return slot | metadataContinuation }
func setShifted(slot uint64) uint64      { return slot | metadataShifted }
func clearOccupied(slot uint64) uint64     { return slot &^ metadataOccupied }
func clearContinuation(slot uint64) uint64 { return slot &^ metadataContinuation }
func clearShifted(slot uint64) uint64      { return slot &^ metadataShifted }
func getPartialRemainder(slot uint64) uint64 { return slot >> metadataBits }
func isEmpty(slot uint64) bool               { return slot&metadataMask == 0 }
func isClusterStart(slot uint64) bool {
	return isOccupied(slot) && !isContinuation(slot) && !isShifted(slot)
}
func isRunStart(slot uint64) bool {
	return !isContinuation(slot) && (isOccupied(slot) || isShifted(slot))
}

// getRemainder returns how many slots (1 or 2) the remainder starting at
// idx occupies, and writes the full remainder value (spanning both slots
// if 2) to *remainder.
func (f *Filter) getRemainder(idx, slot uint64) (step uint64, remainder uint64) {
	remainder = getPartialRemainder(slot)
	step = 1
	nextIdx := f.incrIdx(idx, 1)
	nextSlot := f.getSlot(nextIdx)

	if !isEmpty(nextSlot) && !isRunStart(nextSlot) && getPartialRemainder(nextSlot) < getPartialRemainder(slot) {
		remainder &= lowMask(f.bitsPerItem - 1)
		remainder |= getPartialRemainder(nextSlot) << (f.bitsPerItem - 1)
		step = 2
	}
	return step, remainder
}

// findRunStart locates the first slot of quotient's run: walk back to the
// start of the cluster quotient belongs to, then walk forward one run per
// occupied canonical slot until reaching quotient's own run. The reference
// (veqf.h's FindRunStart) walks unconditionally and notes "IsOccupied(quotient)
// must be true, otherwise it will be infinite loop"; every loop here is
// additionally capped at maxEntries iterations, since a slot table is finite
// and a caller violating that precondition should get the last-seen index
// back rather than hang.
func (f *Filter) findRunStart(quotient uint64) uint64 {
	clusterStart := quotient
	for steps := uint64(0); steps < f.maxEntries; steps++ {
		content := f.getSlot(clusterStart)
		if !isShifted(content) && !isContinuation(content) {
			break
		}
		clusterStart = f.decrIdx(clusterStart)
	}

	runStart := clusterStart
	for steps := uint64(0); clusterStart != quotient && steps < f.maxEntries; steps++ {
		for inner := uint64(0); inner < f.maxEntries; inner++ {
			runStart = f.incrIdx(runStart, 1)
			if !isContinuation(f.getSlot(runStart)) {
				break
			}
		}
		for inner := uint64(0); inner < f.maxEntries; inner++ {
			clusterStart = f.incrIdx(clusterStart, 1)
			if isOccupied(f.getSlot(clusterStart)) {
				break
			}
		}
	}
	return runStart
}

// Lookup reports whether item may be a member.
func (f *Filter) Lookup(item []byte) bool {
	quotient, remainder := f.generateQuotientRemainder(item)

	if !isOccupied(f.getSlot(quotient)) {
		return false
	}

	runIdx := f.findRunStart(quotient)
	curSlot := f.getSlot(runIdx)
	oneSlotRemainder := remainder & lowMask(f.bitsPerItem)
	twoSlotFirstRemainder := (remainder & lowMask(f.bitsPerItem-1)) | f.remainderHighestBit()
	maxRemainder := maxU64(oneSlotRemainder, twoSlotFirstRemainder)

	for {
		partialRemainder := getPartialRemainder(curSlot)
		step, fullRemainder := f.getRemainder(runIdx, curSlot)
		if (step == 1 && partialRemainder == oneSlotRemainder) || (step == 2 && fullRemainder == remainder) {
			return true
		}
		if partialRemainder > maxRemainder {
			return false
		}
		runIdx = f.incrIdx(runIdx, step)
		curSlot = f.getSlot(runIdx)
		if !isContinuation(curSlot) {
			return false
		}
	}
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// isInsertMultipleRemainder reports whether Insert should currently prefer
// a two-slot remainder, based on the configured load-factor threshold.
func (f *Filter) isInsertMultipleRemainder() bool {
	return float64(f.entries) < float64(f.maxEntries)*f.insertLargeRemainderThreshold
}

// Insert adds item to the filter. It returns false once the item budget
// (maxNumKeys, rounded up to the filter's power-of-two slot count) is
// exhausted.
func (f *Filter) Insert(item []byte) bool {
	if f.items >= f.maxEntries {
		return false
	}

	slotCount := uint64(1)
	if f.isInsertMultipleRemainder() {
		slotCount = kMaxOccupiedSlot
	}

	quotient, remainder := f.generateQuotientRemainder(item)
	quotientEntry := f.getSlot(quotient)

	var toInsert [2]uint64
	if slotCount == 1 {
		toInsert[0] = (remainder & lowMask(f.bitsPerItem)) << metadataBits
	} else {
		toInsert[0] = ((remainder&lowMask(f.bitsPerItem-1) | f.remainderHighestBit()) << metadataBits)
		toInsert[1] = setContinuation(((remainder >> (f.bitsPerItem - 1)) & lowMask(f.bitsPerItem-1)) << metadataBits)
	}

	if f.entries == f.maxEntries {
		f.compactOneMultiSlotRemainder(quotient)
		quotientEntry = f.getSlot(quotient)
	}

	if isEmpty(quotientEntry) {
		return f.insertIntoEmptyCanonicalSlot(quotient, toInsert, slotCount)
	}

	isQuotientOccupied := isOccupied(quotientEntry)
	if !isQuotientOccupied {
		f.setSlot(quotient, setOccupied(quotientEntry))
	}

	runStart := f.findRunStart(quotient)
	insertIdx := runStart

	if isQuotientOccupied {
		curSlot := f.getSlot(insertIdx)
		oneSlotRemainder := getPartialRemainder(toInsert[0])
		for {
			partialRemainder := getPartialRemainder(curSlot)
			step, _ := f.getRemainder(insertIdx, curSlot)
			if partialRemainder > oneSlotRemainder {
				break
			}
			insertIdx = f.incrIdx(insertIdx, step)
			curSlot = f.getSlot(insertIdx)
			if !isContinuation(curSlot) {
				break
			}
		}

		if insertIdx == runStart {
			f.setSlot(runStart, setShifted(setContinuation(f.getSlot(runStart))))
		} else {
			toInsert[0] = setContinuation(toInsert[0])
		}
	}

	if insertIdx != quotient {
		toInsert[0] = setShifted(toInsert[0])
	}
	f.entries += f.insertTo(insertIdx, toInsert[:slotCount], false)
	f.items++
	return true
}

func (f *Filter) insertIntoEmptyCanonicalSlot(quotient uint64, toInsert [2]uint64, slotCount uint64) bool {
	switch slotCount {
	case 1:
		f.setSlot(quotient, setOccupied(toInsert[0]))
		f.entries++
		f.items++
		return true
	case 2:
		nextQuotientIdx := f.incrIdx(quotient, 1)
		if !isEmpty(f.getSlot(nextQuotientIdx)) {
			f.insertTo(nextQuotientIdx, []uint64{0}, true)
		}
		if isOccupied(f.getSlot(nextQuotientIdx)) {
			toInsert[1] = setOccupied(toInsert[1])
		}
		f.setSlot(quotient, setOccupied(toInsert[0]))
		f.setSlot(nextQuotientIdx, toInsert[1])
		f.entries += 2
		f.items++
		return true
	default:
		panic("veqf: unreachable slot count")
	}
}

// compactOneMultiSlotRemainder makes room for one more entry when the slot
// budget (entries_) is exhausted but the item budget (items_) is not, by
// compacting the first multi-slot remainder it finds down to a single slot.
// Ported from the reference Insert's "entries_ == max_entries_" branch.
func (f *Filter) compactOneMultiSlotRemainder(quotient uint64) {
	quotientEntry := f.getSlot(quotient)
	isQuotientOccupied := isOccupied(quotientEntry)
	if !isQuotientOccupied {
		f.setSlot(quotient, setOccupied(quotientEntry))
	}

	multiIdx := f.findRunStart(quotient)
	multiQuotient := quotient
	if !isQuotientOccupied {
		for {
			multiQuotient = f.incrIdx(multiQuotient, 1)
			if isOccupied(f.getSlot(multiQuotient)) {
				break
			}
		}
		f.setSlot(quotient, quotientEntry)
	}

	var slot uint64
	for {
		multiIdx = f.incrIdx(multiIdx, 1)
		slot = f.getSlot(multiIdx)
		if isRunStart(slot) {
			for {
				multiQuotient = f.incrIdx(multiQuotient, 1)
				if isOccupied(f.getSlot(multiQuotient)) {
					break
				}
			}
		}
		if isContinuation(slot) && !isShifted(slot) {
			break
		}
	}

	f.adjustTwoSlotsHighestBit(multiIdx)
	f.deleteFrom(multiIdx, multiQuotient, f.incrIdx(multiIdx, 1))
	f.entries--
}

// entryQueue is a ring of kMaxOccupiedSlot+1 cells holding up to
// kMaxOccupiedSlot pending slot values (first == last means empty), used by
// insertTo to shift-forward existing entries while feeding in new ones.
type entryQueue struct {
	slots      [kMaxOccupiedSlot + 1]uint64
	first, last uint64
}

func (q *entryQueue) isEmpty() bool { return q.first == q.last }
func (q *entryQueue) enqueue(entry uint64) {
	q.slots[q.last] = entry
	q.last = (q.last + 1) % (kMaxOccupiedSlot + 1)
}
func (q *entryQueue) dequeue() uint64 {
	ret := q.slots[q.first]
	q.first = (q.first + 1) % (kMaxOccupiedSlot + 1)
	return ret
}

// insertTo shifts entries forward starting at insertIdx to make room for
// toInsert, compacting multi-slot remainders it displaces where allowed.
// It returns how many previously-empty slots were consumed.
func (f *Filter) insertTo(insertIdx uint64, toInsert []uint64, forceDisableCompaction bool) uint64 {
	var q entryQueue
	ret := uint64(len(toInsert))
	for _, e := range toInsert {
		q.enqueue(e)
	}

	for {
		prev := f.getSlot(insertIdx)
		curr := q.dequeue()
		empty := isEmpty(prev)
		needMoveBackwards := false

		if !empty {
			isMultipleRemainder := isContinuation(prev) && !isShifted(prev)
			if !isMultipleRemainder {
				prev = setShifted(prev)
			}
			if isOccupied(prev) {
				prev = clearOccupied(prev)
				curr = setOccupied(curr)
			}
			reuseMultipleRemainder := !forceDisableCompaction && !f.isInsertMultipleRemainder() && isMultipleRemainder
			if !reuseMultipleRemainder {
				q.enqueue(prev)
			} else {
				if getPartialRemainder(prev)%2 == 0 {
					curr &^= uint64(1) << (f.bitsPerItem + metadataBits - 1)
					needMoveBackwards = true
				}
				ret--
			}
		}
		f.setSlot(insertIdx, curr)
		if needMoveBackwards {
			f.moveCompactedSlot(insertIdx, curr)
		}
		insertIdx = f.incrIdx(insertIdx, 1)

		if q.isEmpty() {
			break
		}
	}

	return ret
}

// deleteFrom shifts entries backward to close the gap left at delete_idx,
// stopping once it reaches an empty slot, a cluster start, or wraps back to
// its own starting point.
func (f *Filter) deleteFrom(deleteIdx, quotient, deleteNextIdx uint64) {
	deleteCurrEntry := f.getSlot(deleteIdx)
	origDeleteIdx := deleteIdx

	for {
		deleteNextEntry := f.getSlot(deleteNextIdx)
		currOccupied := isOccupied(deleteCurrEntry)

		if isEmpty(deleteNextEntry) || isClusterStart(deleteNextEntry) || deleteNextIdx == origDeleteIdx {
			for i := deleteIdx; i != deleteNextIdx; i = f.incrIdx(i, 1) {
				f.setSlot(i, 0)
			}
			return
		}

		updatedNext := deleteNextEntry
		if isRunStart(updatedNext) {
			for {
				quotient = f.incrIdx(quotient, 1)
				if isOccupied(f.getSlot(quotient)) {
					break
				}
			}

			for f.isDeleteIdxBeforeQuotient(deleteIdx, quotient, deleteNextIdx) {
				paddingSlot := uint64(0)
				if currOccupied {
					paddingSlot = setOccupied(paddingSlot)
				}
				f.setSlot(deleteIdx, paddingSlot)
				deleteIdx = f.incrIdx(deleteIdx, 1)
				deleteCurrEntry = f.getSlot(deleteIdx)
				currOccupied = isOccupied(deleteCurrEntry)
			}

			if currOccupied && quotient == deleteIdx {
				updatedNext = clearShifted(updatedNext)
			}
		}

		if currOccupied {
			f.setSlot(deleteIdx, setOccupied(updatedNext))
		} else {
			f.setSlot(deleteIdx, clearOccupied(updatedNext))
		}
		deleteIdx = f.incrIdx(deleteIdx, 1)
		deleteCurrEntry = f.getSlot(deleteIdx)
		deleteNextIdx = f.incrIdx(deleteNextIdx, 1)
	}
}

// isDeleteIdxBeforeQuotient reports whether deleteIdx precedes
// nextQuotient which in turn precedes deleteNextIdx, accounting for
// wraparound of the circular slot index space.
func (f *Filter) isDeleteIdxBeforeQuotient(deleteIdx, nextQuotient, deleteNextIdx uint64) bool {
	return (deleteIdx < nextQuotient && nextQuotient < deleteNextIdx) ||
		(deleteNextIdx < deleteIdx && deleteIdx < nextQuotient) ||
		(nextQuotient < deleteNextIdx && deleteNextIdx < deleteIdx)
}

// adjustTwoSlotsHighestBit prepares a two-slot remainder's first slot for
// its second slot being dropped during compaction. If the second slot's
// partial remainder is even, it clears the first slot's top bit and
// relocates the first slot to keep the run in ascending order; if it is
// odd, the first slot is left unchanged.
func (f *Filter) adjustTwoSlotsHighestBit(secondIdx uint64) {
	firstIdx := f.decrIdx(secondIdx)
	firstSlot := f.getSlot(firstIdx)
	secondSlot := f.getSlot(secondIdx)
	if getPartialRemainder(secondSlot)%2 == 0 {
		firstSlot &^= uint64(1) << (f.bitsPerItem + metadataBits - 1)
		f.moveCompactedSlot(firstIdx, firstSlot)
	}
}

// moveCompactedSlot relocates a slot whose remainder shrank (via
// compaction) to keep the run's ascending-remainder invariant, walking
// backward through the run to find where it now belongs.
func (f *Filter) moveCompactedSlot(firstIdx, firstSlot uint64) {
	if isRunStart(firstSlot) {
		f.setSlot(firstIdx, firstSlot)
		return
	}

	newIdx := firstIdx
	newSlot := firstSlot
	{
		currIdx := f.decrIdx(firstIdx)
		firstSlotRemainder := getPartialRemainder(firstSlot)
		var currSlot uint64
		for {
			currSlot = f.getSlot(currIdx)
			if !(isContinuation(currSlot) && !isShifted(currSlot)) {
				if getPartialRemainder(currSlot) >= firstSlotRemainder {
					newIdx = currIdx
					newSlot = currSlot
				} else {
					break
				}
			}
			currIdx = f.decrIdx(currIdx)
			if isRunStart(currSlot) {
				break
			}
		}
	}

	if newIdx != firstIdx {
		wasOccupied := isOccupied(firstSlot)
		if isOccupied(newSlot) {
			firstSlot = setOccupied(firstSlot)
		} else {
			firstSlot = clearOccupied(firstSlot)
		}
		switch {
		case isClusterStart(newSlot):
			firstSlot = clearContinuation(firstSlot)
			firstSlot = clearShifted(firstSlot)
			f.setSlot(newIdx, setShifted(setContinuation(newSlot)))
		case isRunStart(newSlot):
			firstSlot = clearContinuation(firstSlot)
			firstSlot = setShifted(firstSlot)
			f.setSlot(newIdx, setShifted(setContinuation(newSlot)))
		default:
			firstSlot = setContinuation(firstSlot)
			firstSlot = setShifted(firstSlot)
		}
		f.setSlot(firstIdx, 0)
		f.insertTo(newIdx, []uint64{firstSlot}, true)
		if wasOccupied {
			f.setSlot(firstIdx, setOccupied(f.getSlot(firstIdx)))
		}
	} else {
		f.setSlot(newIdx, firstSlot)
	}
}

// Delete removes one instance of item. It returns false if item is not
// found.
func (f *Filter) Delete(item []byte) bool {
	quotient, remainder := f.generateQuotientRemainder(item)
	quotientEntry := f.getSlot(quotient)

	if !isOccupied(quotientEntry) || f.entries == 0 {
		return false
	}

	runIdx := f.findRunStart(quotient)
	curSlot := f.getSlot(runIdx)
	oneSlotRemainder := remainder & lowMask(f.bitsPerItem)
	twoSlotFirstRemainder := (remainder & lowMask(f.bitsPerItem-1)) | f.remainderHighestBit()
	maxRemainder := maxU64(oneSlotRemainder, twoSlotFirstRemainder)

	var deleteIdx, deleteStep, remainderMatchLen uint64
	for {
		partialRemainder := getPartialRemainder(curSlot)
		step, fullRemainder := f.getRemainder(runIdx, curSlot)
		matched := (step == 1 && partialRemainder == oneSlotRemainder) || (step == 2 && fullRemainder == remainder)
		if matched {
			if step > remainderMatchLen {
				deleteIdx = runIdx
				deleteStep = step
				remainderMatchLen = step
				if step == kMaxOccupiedSlot {
					break
				}
			}
		} else if partialRemainder > maxRemainder {
			break
		}
		runIdx = f.incrIdx(runIdx, step)
		curSlot = f.getSlot(runIdx)
		if !isContinuation(curSlot) {
			break
		}
	}

	if remainderMatchLen == 0 {
		return false
	}

	deleteEntry := quotientEntry
	if deleteIdx != quotient {
		deleteEntry = f.getSlot(deleteIdx)
	}
	isRunStartEntry := isRunStart(deleteEntry)
	deleteNextIdx := f.incrIdx(deleteIdx, deleteStep)
	deleteNextEntry := f.getSlot(deleteNextIdx)
	if isRunStartEntry && !isContinuation(deleteNextEntry) {
		f.setSlot(quotient, clearOccupied(quotientEntry))
	}

	f.deleteFrom(deleteIdx, quotient, deleteNextIdx)

	if isRunStartEntry {
		next := f.getSlot(deleteIdx)
		updatedNext := next
		if isContinuation(updatedNext) {
			updatedNext = clearContinuation(updatedNext)
		}
		if deleteIdx == quotient && isShifted(updatedNext) {
			updatedNext = clearShifted(updatedNext)
		}
		if updatedNext != next {
			f.setSlot(deleteIdx, updatedNext)
		}
	}

	f.entries -= deleteStep
	f.items--
	return true
}

// Size returns the number of logical items present.
func (f *Filter) Size() uint64 { return f.items }

// SizeInBytes returns the size of the backing slot table.
func (f *Filter) SizeInBytes() int { return f.table.SizeInBytes() }

// LoadFactor returns the fraction of slots occupied (entries / maxEntries),
// which can exceed Size()/maxEntries since a two-slot remainder consumes
// two slots per item.
func (f *Filter) LoadFactor() float64 {
	return float64(f.entries) / float64(f.maxEntries)
}

// BitsPerItem returns the amortized number of storage bits per inserted
// item.
func (f *Filter) BitsPerItem() float64 {
	if f.items == 0 {
		return 0
	}
	return 8.0 * float64(f.SizeInBytes()) / float64(f.items)
}

// Snapshot is a point-in-time, serializable copy of a Filter's state,
// exported for Raft FSM snapshotting.
type Snapshot struct {
	BitsPerItem                   uint64
	Qbits                         uint64
	IndexMask                     uint64
	Entries                       uint64
	MaxEntries                    uint64
	Items                         uint64
	Table                         []uint64
	InsertLargeRemainderThreshold float64
}

// ExportSnapshot captures the filter's current state.
func (f *Filter) ExportSnapshot() Snapshot {
	return Snapshot{
		BitsPerItem:                   f.bitsPerItem,
		Qbits:                         f.qbits,
		IndexMask:                     f.indexMask,
		Entries:                       f.entries,
		MaxEntries:                    f.maxEntries,
		Items:                         f.items,
		Table:                         f.table.Words(),
		InsertLargeRemainderThreshold: f.insertLargeRemainderThreshold,
	}
}

// RestoreSnapshot overwrites the filter's state with a previously exported
// Snapshot. The receiver must have been constructed with the same
// bitsPerItem/qbits as the filter the snapshot came from.
func (f *Filter) RestoreSnapshot(s Snapshot) {
	f.bitsPerItem = s.BitsPerItem
	f.qbits = s.Qbits
	f.indexMask = s.IndexMask
	f.entries = s.Entries
	f.maxEntries = s.MaxEntries
	f.items = s.Items
	f.table.LoadWords(s.Table)
	f.insertLargeRemainderThreshold = s.InsertLargeRemainderThreshold
}
