package vecf

// bucket12 is the T=12 sibling of bucket8: same variable-width degradation
// idea (45, 22, 15, then 12 bits per tag) over a 48-bit bucket word. The
// reference format additionally reserves a 16-bit "next bucket" overflow
// chain pointer in the top of the word; this filter has no bucket chaining
// so that field is always left zero and simply never read.
const (
	flagMask12 uint64 = 0x0000800800800000
	tagMask12  uint64 = 0x00007ff7ff7fffff

	zeroFlag12  uint64 = 0x0000000800000000
	oneFlag12   uint64 = 0x0000800000000000
	twoFlag12   uint64 = 0x0000800000800000
	threeFlag12 uint64 = 0x0000800800000000

	oneLen12   uint = 45
	twoLen12   uint = 22
	threeLen12 uint = 15
	fourLen12  uint = 12
)

func maskedTag12(tag uint64, width uint) uint64 {
	return tag & ((uint64(1) << width) - 1)
}

func findTagInBucket12(bucket uint64, unmaskedTag uint64) bool {
	switch bucket & flagMask12 {
	case zeroFlag12:
		return false
	case oneFlag12:
		tags := pext64(bucket, tagMask12)
		return hasValue(tags, oneLen12, 1, maskedTag12(unmaskedTag, oneLen12)) ||
			hasValue(tags, oneLen12, 1, maskedTag12(unmaskedTag, twoLen12)) ||
			hasValue(tags, oneLen12, 1, maskedTag12(unmaskedTag, threeLen12)) ||
			hasValue(tags, oneLen12, 1, maskedTag12(unmaskedTag, fourLen12))
	case twoFlag12:
		tags := pext64(bucket, tagMask12)
		return hasValue(tags, twoLen12, 2, maskedTag12(unmaskedTag, twoLen12)) ||
			hasValue(tags, twoLen12, 2, maskedTag12(unmaskedTag, threeLen12)) ||
			hasValue(tags, twoLen12, 2, maskedTag12(unmaskedTag, fourLen12))
	case threeFlag12:
		tags := pext64(bucket, tagMask12)
		return hasValue(tags, threeLen12, 3, maskedTag12(unmaskedTag, threeLen12)) ||
			hasValue(tags, threeLen12, 3, maskedTag12(unmaskedTag, fourLen12))
	default:
		return hasValue(bucket, fourLen12, 4, maskedTag12(unmaskedTag, fourLen12))
	}
}

func insertTagToBucket12(bucket, tag uint64, kickout bool) (newBucket uint64, oldTag uint64, ok bool) {
	switch bucket & flagMask12 {
	case zeroFlag12:
		t := pext64(bucket, 0xffff000000000000)
		t = (t << oneLen12) | maskedTag12(tag, oneLen12)
		return pdep64(t, 0xffff000000000000|tagMask12) | oneFlag12, 0, true
	case oneFlag12:
		t := pext64(bucket, 0xffff0000003fffff)
		t = (t << twoLen12) | maskedTag12(tag, twoLen12)
		return pdep64(t, 0xffff3ff7ff7fffff) | twoFlag12, 0, true
	case twoFlag12:
		t := pext64(bucket, 0xffff0077ff407fff)
		t = (t << threeLen12) | maskedTag12(tag, threeLen12)
		return pdep64(t, 0xffff000000000000|tagMask12) | threeFlag12, 0, true
	case threeFlag12:
		t := pext64(bucket, 0xffff0ff78f7f8fff)
		t = (t << fourLen12) | maskedTag12(tag, fourLen12)
		return sort4(t, fourLen12), 0, true
	default:
		if !kickout {
			return bucket, 0, false
		}
		r := randSlot(kTagsPerBucket)
		oldTag = fieldAt(bucket, fourLen12, r)
		bucket &^= ((uint64(1) << fourLen12) - 1) << (r * fourLen12)
		bucket |= maskedTag12(tag, fourLen12) << (r * fourLen12)
		return sort4(bucket, fourLen12), oldTag, false
	}
}

func findMaxMatchingTag12(bucket, unmaskedTag uint64, maxTagLength *uint, hit *bool) {
	tryLen := func(tags uint64, count, slotWidth, width uint) bool {
		if *maxTagLength >= width {
			return true
		}
		if hasValue(tags, slotWidth, count, maskedTag12(unmaskedTag, width)) {
			*maxTagLength = width
			*hit = true
			return true
		}
		return false
	}
	switch bucket & flagMask12 {
	case zeroFlag12:
		return
	case oneFlag12:
		tags := pext64(bucket, tagMask12)
		for _, w := range []uint{oneLen12, twoLen12, threeLen12, fourLen12} {
			if tryLen(tags, 1, oneLen12, w) {
				return
			}
		}
	case twoFlag12:
		tags := pext64(bucket, tagMask12)
		for _, w := range []uint{twoLen12, threeLen12, fourLen12} {
			if tryLen(tags, 2, twoLen12, w) {
				return
			}
		}
	case threeFlag12:
		tags := pext64(bucket, tagMask12)
		for _, w := range []uint{threeLen12, fourLen12} {
			if tryLen(tags, 3, threeLen12, w) {
				return
			}
		}
	default:
		tryLen(bucket, 4, fourLen12, fourLen12)
	}
}

func deleteTagFromBucket12(bucket, maskedTag uint64) uint64 {
	switch bucket & flagMask12 {
	case oneFlag12:
		return zeroFlag12
	case twoFlag12:
		masks := [2]uint64{0xffff3ff7ff400000, 0xffff0000003fffff}
		tags := pext64(bucket, tagMask12)
		for slot := uint(0); slot < 2; slot++ {
			if fieldAt(tags, twoLen12, slot) == maskedTag {
				return pdep64(pext64(bucket, masks[slot]), 0xffff0000003fffff) | oneFlag12
			}
		}
	case threeFlag12:
		masks := [3]uint64{0xffff7ff7ff7f8000, 0xffff7ff780007fff, 0xffff00007f7fffff}
		tags := pext64(bucket, tagMask12)
		for slot := uint(0); slot < 3; slot++ {
			if fieldAt(tags, threeLen12, slot) == maskedTag {
				return pdep64(pext64(bucket, masks[slot]), 0xffff0077ff407fff) | twoFlag12
			}
		}
	default:
		masks := [4]uint64{0xfffffffffffff000, 0xffffffffff000fff, 0xfffffff000ffffff, 0xffff000fffffffff}
		for slot := uint(0); slot < 4; slot++ {
			if fieldAt(bucket, fourLen12, slot) == maskedTag {
				return pdep64(pext64(bucket, masks[slot]), 0xffff0ff78f7f8fff) | threeFlag12
			}
		}
	}
	panic("vecf: delete of tag not present in bucket")
}

func occupancyOf12(bucket uint64) int {
	switch bucket & flagMask12 {
	case zeroFlag12:
		return 0
	case oneFlag12:
		return 1
	case twoFlag12:
		return 2
	case threeFlag12:
		return 3
	default:
		return 4
	}
}
