package densemap

// block is a single storage unit covering 8*blockSize consecutive keys.
// Its layout is a lookup header of 1<<width bytes followed by width
// bit-planes of blockSize bytes each; width is not stored but recovered
// from the total length via widthForSize.
type block []byte

func newBlock(blockSize int) block {
	return make(block, sizeForWidth(blockSize, 1))
}

// sizeForWidth returns the byte length of a block: lookup header plus
// one plane per width bit.
func sizeForWidth(blockSize, width int) int {
	return 1<<uint(width) + blockSize*width
}

// widthForSize recovers the plane count from a block's byte length.
func widthForSize(blockSize, size int) int {
	width := 1
	for sizeForWidth(blockSize, width) < size {
		width++
	}
	return width
}

func (b block) width(blockSize int) int {
	return widthForSize(blockSize, len(b))
}

// findCode scans the header for the biased value v, claiming the first
// free slot on the way. It returns the slot index and true, or the
// header size and false when the header is full. Slot 0 is reserved.
//
// At width 8 the header has 255 usable slots, one per possible biased
// value, so the scan always succeeds and the full case is unreachable.
func (b block) findCode(v byte, width int) (int, bool) {
	headerSize := 1 << uint(width)
	for idx := 1; idx < headerSize; idx++ {
		if b[idx] == 0 {
			b[idx] = v
		}
		if b[idx] == v {
			return idx, true
		}
	}
	return headerSize, false
}

// expand grows the block by one plane. The header doubles and the plane
// data shifts right behind it; the appended most-significant plane is
// implicitly zero, so existing codes keep their meaning.
func (b block) expand(blockSize, width int) block {
	headerSize := 1 << uint(width)
	nb := make(block, sizeForWidth(blockSize, width+1))
	copy(nb, b[:headerSize])
	copy(nb[2*headerSize:], b[headerSize:])
	return nb
}

// setCode writes the code for the key at offset, one bit per plane.
func (b block) setCode(blockSize, width, offset, code int) {
	headerSize := 1 << uint(width)
	bit := byte(1) << uint(offset&7)
	pos := offset>>3 + headerSize

	for i := uint(0); i < uint(width); i++ {
		if code&(1<<i) != 0 {
			b[pos] |= bit
		} else {
			b[pos] &^= bit
		}
		pos += blockSize
	}
}

// code reads the key's bit at offset across all planes and reassembles
// the header index. All-zero bits yield the reserved code 0.
func (b block) code(blockSize, width, offset int) int {
	headerSize := 1 << uint(width)
	bit := byte(1) << uint(offset&7)
	pos := offset>>3 + headerSize

	code := 0
	for i := uint(0); i < uint(width); i++ {
		if b[pos]&bit != 0 {
			code |= 1 << i
		}
		pos += blockSize
	}
	return code
}
