package vecf

// bucket8 implements the T=8 variable-width bucket codec: a 32-bit word
// holding up to 4 tags, whose per-tag width shrinks as the bucket fills
// (29, then 14, then 9, then 8 bits) so that a fixed-size bucket can absorb
// more tags in exchange for a higher false-positive contribution from the
// later arrivals. Ported bit-for-bit from the reference bucket codec.
const (
	flagMask8 uint64 = 0x80808000
	tagMask8  uint64 = 0xffffffff &^ flagMask8

	zeroFlag8  uint64 = 0x00800000
	oneFlag8   uint64 = 0x80000000
	twoFlag8   uint64 = 0x80008000
	threeFlag8 uint64 = 0x80800000

	oneLen8   uint = 29
	twoLen8   uint = 14
	threeLen8 uint = 9
	fourLen8  uint = 8
)

func maskedTag8(tag uint64, width uint) uint64 {
	return tag & ((uint64(1) << width) - 1)
}

func findTagInBucket8(bucket uint64, unmaskedTag uint64) bool {
	switch bucket & flagMask8 {
	case zeroFlag8:
		return false
	case oneFlag8:
		tags := pext64(bucket, tagMask8)
		return hasValue(tags, oneLen8, 1, maskedTag8(unmaskedTag, oneLen8)) ||
			hasValue(tags, oneLen8, 1, maskedTag8(unmaskedTag, twoLen8)) ||
			hasValue(tags, oneLen8, 1, maskedTag8(unmaskedTag, threeLen8)) ||
			hasValue(tags, oneLen8, 1, maskedTag8(unmaskedTag, fourLen8))
	case twoFlag8:
		tags := pext64(bucket, tagMask8)
		return hasValue(tags, twoLen8, 2, maskedTag8(unmaskedTag, twoLen8)) ||
			hasValue(tags, twoLen8, 2, maskedTag8(unmaskedTag, threeLen8)) ||
			hasValue(tags, twoLen8, 2, maskedTag8(unmaskedTag, fourLen8))
	case threeFlag8:
		tags := pext64(bucket, tagMask8)
		return hasValue(tags, threeLen8, 3, maskedTag8(unmaskedTag, threeLen8)) ||
			hasValue(tags, threeLen8, 3, maskedTag8(unmaskedTag, fourLen8))
	default:
		return hasValue(bucket, fourLen8, 4, maskedTag8(unmaskedTag, fourLen8))
	}
}

// sort4 restores the descending-tag invariant for a 4-slot bucket of width
// width, mutating the three highest slots (index 1..3) in place; slot 0 is
// never reordered, matching the reference codec.
func sort4(bucket uint64, width uint) uint64 {
	tag3, tag2, tag1 := fieldAt(bucket, width, 3), fieldAt(bucket, width, 2), fieldAt(bucket, width, 1)
	if tag3 > tag2 || tag2 > tag1 {
		if tag3 > tag2 {
			tag3, tag2 = tag2, tag3
		}
		if tag3 > tag1 {
			tag3, tag1 = tag1, tag3
		}
		if tag2 > tag1 {
			tag2, tag1 = tag1, tag2
		}
		bucket &^= ^((uint64(1) << width) - 1)
		bucket |= (tag3 << (3 * width)) | (tag2 << (2 * width)) | (tag1 << width)
	}
	return bucket
}

func insertTagToBucket8(bucket, tag uint64, kickout bool) (newBucket uint64, oldTag uint64, ok bool) {
	switch bucket & flagMask8 {
	case zeroFlag8:
		return pdep64(maskedTag8(tag, oneLen8), tagMask8) | oneFlag8, 0, true
	case oneFlag8:
		tags := pext64(bucket, 0x00003fff)
		tags |= maskedTag8(tag, twoLen8) << twoLen8
		return pdep64(tags, tagMask8) | twoFlag8, 0, true
	case twoFlag8:
		tags := pext64(bucket, 0x017f41ff)
		tags |= maskedTag8(tag, threeLen8) << (2 * threeLen8)
		return pdep64(tags, tagMask8) | threeFlag8, 0, true
	case threeFlag8:
		tags := pext64(bucket, 0x0f7b7eff)
		tags |= maskedTag8(tag, fourLen8) << (3 * fourLen8)
		return sort4(tags, fourLen8), 0, true
	default:
		if !kickout {
			return bucket, 0, false
		}
		r := randSlot(kTagsPerBucket)
		oldTag = fieldAt(bucket, fourLen8, r)
		bucket &^= ((uint64(1) << fourLen8) - 1) << (r * fourLen8)
		bucket |= maskedTag8(tag, fourLen8) << (r * fourLen8)
		return sort4(bucket, fourLen8), oldTag, false
	}
}

func findMaxMatchingTag8(bucket, unmaskedTag uint64, maxTagLength *uint, hit *bool) {
	tryLen := func(tags uint64, count, slotWidth, width uint) bool {
		if *maxTagLength >= width {
			return true
		}
		if hasValue(tags, slotWidth, count, maskedTag8(unmaskedTag, width)) {
			*maxTagLength = width
			*hit = true
			return true
		}
		return false
	}
	switch bucket & flagMask8 {
	case zeroFlag8:
		return
	case oneFlag8:
		tags := pext64(bucket, tagMask8)
		for _, w := range []uint{oneLen8, twoLen8, threeLen8, fourLen8} {
			if tryLen(tags, 1, oneLen8, w) {
				return
			}
		}
	case twoFlag8:
		tags := pext64(bucket, tagMask8)
		for _, w := range []uint{twoLen8, threeLen8, fourLen8} {
			if tryLen(tags, 2, twoLen8, w) {
				return
			}
		}
	case threeFlag8:
		tags := pext64(bucket, tagMask8)
		for _, w := range []uint{threeLen8, fourLen8} {
			if tryLen(tags, 3, threeLen8, w) {
				return
			}
		}
	default:
		tryLen(bucket, 4, fourLen8, fourLen8)
	}
}

func deleteTagFromBucket8(bucket, maskedTag uint64) uint64 {
	switch bucket & flagMask8 {
	case oneFlag8:
		return zeroFlag8
	case twoFlag8:
		masks := [2]uint64{0x3f7f4000, 0x00003fff}
		tags := pext64(bucket, tagMask8)
		for slot := uint(0); slot < 2; slot++ {
			if fieldAt(tags, twoLen8, slot) == maskedTag {
				return pdep64(pext64(bucket, masks[slot]), tagMask8) | oneFlag8
			}
		}
	case threeFlag8:
		masks := [3]uint64{0x1f7f7e00, 0x1f7801ff, 0x00077fff}
		tags := pext64(bucket, tagMask8)
		for slot := uint(0); slot < 3; slot++ {
			if fieldAt(tags, threeLen8, slot) == maskedTag {
				return pdep64(pext64(bucket, masks[slot]), 0x017f41ff) | twoFlag8
			}
		}
	default:
		masks := [4]uint64{0xffffff00, 0xffff00ff, 0xff00ffff, 0x00ffffff}
		for slot := uint(0); slot < 4; slot++ {
			if fieldAt(bucket, fourLen8, slot) == maskedTag {
				return pdep64(pext64(bucket, masks[slot]), 0x0f7b7eff) | threeFlag8
			}
		}
	}
	panic("vecf: delete of tag not present in bucket")
}

func occupancyOf8(bucket uint64) int {
	switch bucket & flagMask8 {
	case zeroFlag8:
		return 0
	case oneFlag8:
		return 1
	case twoFlag8:
		return 2
	case threeFlag8:
		return 3
	default:
		return 4
	}
}
