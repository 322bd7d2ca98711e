package machine

// Word is one LC-3 machine word. All arithmetic is two's-complement with
// silent wraparound; there is no overflow fault.
type Word uint16

// Bits extracts the inclusive bit field hi..lo of w, shifted down to bit 0.
func Bits(w Word, hi, lo uint) Word {
	width := hi - lo + 1
	mask := Word(1)<<width - 1
	return (w >> lo) & mask
}

// Bit extracts bit n of w.
func Bit(w Word, n uint) Word {
	return (w >> n) & 1
}

// Sext sign-extends w from bit position sign to the full word width.
// Bits above the sign position are ignored.
func Sext(w Word, sign uint) Word {
	mask := Word(1)<<(sign+1) - 1
	w &= mask
	if w&(1<<sign) != 0 {
		return w | ^mask
	}
	return w
}

// Negative reports whether w is negative as a signed 16-bit value.
func Negative(w Word) bool {
	return w&0x8000 != 0
}
