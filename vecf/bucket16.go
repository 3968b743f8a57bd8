package vecf

// bucket16 is the T=16 sibling: same degradation scheme (61, 30, 20, then
// 16 bits per tag) over a full 64-bit bucket word, no spare bits for an
// overflow chain pointer.
const (
	flagMask16 uint64 = 0x8000800080000000
	tagMask16  uint64 = ^flagMask16

	zeroFlag16  uint64 = 0x0000800000000000
	oneFlag16   uint64 = 0x8000000000000000
	twoFlag16   uint64 = 0x8000000080000000
	threeFlag16 uint64 = 0x8000800000000000

	oneLen16   uint = 61
	twoLen16   uint = 30
	threeLen16 uint = 20
	fourLen16  uint = 16
)

func maskedTag16(tag uint64, width uint) uint64 {
	return tag & ((uint64(1) << width) - 1)
}

func findTagInBucket16(bucket uint64, unmaskedTag uint64) bool {
	switch bucket & flagMask16 {
	case zeroFlag16:
		return false
	case oneFlag16:
		tags := pext64(bucket, tagMask16)
		return hasValue(tags, oneLen16, 1, maskedTag16(unmaskedTag, oneLen16)) ||
			hasValue(tags, oneLen16, 1, maskedTag16(unmaskedTag, twoLen16)) ||
			hasValue(tags, oneLen16, 1, maskedTag16(unmaskedTag, threeLen16)) ||
			hasValue(tags, oneLen16, 1, maskedTag16(unmaskedTag, fourLen16))
	case twoFlag16:
		tags := pext64(bucket, tagMask16)
		return hasValue(tags, twoLen16, 2, maskedTag16(unmaskedTag, twoLen16)) ||
			hasValue(tags, twoLen16, 2, maskedTag16(unmaskedTag, threeLen16)) ||
			hasValue(tags, twoLen16, 2, maskedTag16(unmaskedTag, fourLen16))
	case threeFlag16:
		tags := pext64(bucket, tagMask16)
		return hasValue(tags, threeLen16, 3, maskedTag16(unmaskedTag, threeLen16)) ||
			hasValue(tags, threeLen16, 3, maskedTag16(unmaskedTag, fourLen16))
	default:
		return hasValue(bucket, fourLen16, 4, maskedTag16(unmaskedTag, fourLen16))
	}
}

func insertTagToBucket16(bucket, tag uint64, kickout bool) (newBucket uint64, oldTag uint64, ok bool) {
	switch bucket & flagMask16 {
	case zeroFlag16:
		return pdep64(maskedTag16(tag, oneLen16), tagMask16) | oneFlag16, 0, true
	case oneFlag16:
		t := pext64(bucket, 0x000000003fffffff)
		t |= maskedTag16(tag, twoLen16) << twoLen16
		return pdep64(t, tagMask16) | twoFlag16, 0, true
	case twoFlag16:
		t := pext64(bucket, 0x000f7fff400fffff)
		t |= maskedTag16(tag, threeLen16) << (2 * threeLen16)
		return pdep64(t, tagMask16) | threeFlag16, 0, true
	case threeFlag16:
		t := pext64(bucket, 0x03ff7e1f7ff0ffff)
		t |= maskedTag16(tag, fourLen16) << (3 * fourLen16)
		return sort4(t, fourLen16), 0, true
	default:
		if !kickout {
			return bucket, 0, false
		}
		r := randSlot(kTagsPerBucket)
		oldTag = fieldAt(bucket, fourLen16, r)
		bucket &^= ((uint64(1) << fourLen16) - 1) << (r * fourLen16)
		bucket |= maskedTag16(tag, fourLen16) << (r * fourLen16)
		return sort4(bucket, fourLen16), oldTag, false
	}
}

func findMaxMatchingTag16(bucket, unmaskedTag uint64, maxTagLength *uint, hit *bool) {
	tryLen := func(tags uint64, count, slotWidth, width uint) bool {
		if *maxTagLength >= width {
			return true
		}
		if hasValue(tags, slotWidth, count, maskedTag16(unmaskedTag, width)) {
			*maxTagLength = width
			*hit = true
			return true
		}
		return false
	}
	switch bucket & flagMask16 {
	case zeroFlag16:
		return
	case oneFlag16:
		tags := pext64(bucket, tagMask16)
		for _, w := range []uint{oneLen16, twoLen16, threeLen16, fourLen16} {
			if tryLen(tags, 1, oneLen16, w) {
				return
			}
		}
	case twoFlag16:
		tags := pext64(bucket, tagMask16)
		for _, w := range []uint{twoLen16, threeLen16, fourLen16} {
			if tryLen(tags, 2, twoLen16, w) {
				return
			}
		}
	case threeFlag16:
		tags := pext64(bucket, tagMask16)
		for _, w := range []uint{threeLen16, fourLen16} {
			if tryLen(tags, 3, threeLen16, w) {
				return
			}
		}
	default:
		tryLen(bucket, 4, fourLen16, fourLen16)
	}
}

func deleteTagFromBucket16(bucket, maskedTag uint64) uint64 {
	switch bucket & flagMask16 {
	case oneFlag16:
		return zeroFlag16
	case twoFlag16:
		masks := [2]uint64{0x3fff7fff40000000, 0x000000003fffffff}
		tags := pext64(bucket, tagMask16)
		for slot := uint(0); slot < 2; slot++ {
			if fieldAt(tags, twoLen16, slot) == maskedTag {
				return pdep64(pext64(bucket, masks[slot]), tagMask16) | oneFlag16
			}
		}
	case threeFlag16:
		masks := [3]uint64{0x3fff7fff7ff00000, 0x3fff7e00000fffff, 0x000001ff7fffffff}
		tags := pext64(bucket, tagMask16)
		for slot := uint(0); slot < 3; slot++ {
			if fieldAt(tags, threeLen16, slot) == maskedTag {
				return pdep64(pext64(bucket, masks[slot]), 0x000f7fff400fffff) | twoFlag16
			}
		}
	default:
		masks := [4]uint64{0xffffffffffff0000, 0xffffffff0000ffff, 0xffff0000ffffffff, 0x0000ffffffffffff}
		for slot := uint(0); slot < 4; slot++ {
			if fieldAt(bucket, fourLen16, slot) == maskedTag {
				return pdep64(pext64(bucket, masks[slot]), 0x03ff7e1f7ff0ffff) | threeFlag16
			}
		}
	}
	panic("vecf: delete of tag not present in bucket")
}

func occupancyOf16(bucket uint64) int {
	switch bucket & flagMask16 {
	case zeroFlag16:
		return 0
	case oneFlag16:
		return 1
	case twoFlag16:
		return 2
	case threeFlag16:
		return 3
	default:
		return 4
	}
}
