package layout

import (
	"fmt"
	"math/bits"
)

// Size is a byte quantity.
type Size uint64

// SizeFromBits converts a bit count to bytes, rounding up.
func SizeFromBits(b uint64) Size {
	return Size((b + 7) / 8)
}

// Bytes returns the size in bytes.
func (s Size) Bytes() uint64 { return uint64(s) }

// Bits returns the size in bits.
func (s Size) Bits() uint64 { return uint64(s) * 8 }

// AlignTo rounds s up to a multiple of a.
func (s Size) AlignTo(a Align) Size {
	mask := Size(a.Bytes() - 1)
	return (s + mask) &^ mask
}

// IsAlignedTo reports whether s is a multiple of a.
func (s Size) IsAlignedTo(a Align) bool {
	return s&Size(a.Bytes()-1) == 0
}

// Max returns the larger of s and o.
func (s Size) Max(o Size) Size {
	if o > s {
		return o
	}
	return s
}

func (s Size) String() string {
	return fmt.Sprintf("%dB", uint64(s))
}

// Align is a power-of-two byte alignment. The zero value means "unset"
// and is only valid where explicitly documented (e.g. optional pointee
// alignment on argument attributes).
type Align uint64

// AlignFromBytes validates that b is a power of two and returns it as an
// Align. A non-power-of-two is a contract violation.
func AlignFromBytes(b uint64) Align {
	if b == 0 || bits.OnesCount64(b) != 1 {
		panic(fmt.Sprintf("layout: alignment %d is not a power of two", b))
	}
	return Align(b)
}

// AlignFromBits is AlignFromBytes over a bit count.
func AlignFromBits(b uint64) Align {
	return AlignFromBytes((b + 7) / 8)
}

// Bytes returns the alignment in bytes.
func (a Align) Bytes() uint64 { return uint64(a) }

// Bits returns the alignment in bits.
func (a Align) Bits() uint64 { return uint64(a) * 8 }

// IsSet reports whether a carries a real alignment.
func (a Align) IsSet() bool { return a != 0 }

// Max returns the stricter of a and o.
func (a Align) Max(o Align) Align {
	if o > a {
		return o
	}
	return a
}

func (a Align) String() string {
	return fmt.Sprintf("align(%d)", uint64(a))
}

// DataLayout is the target-supplied alignment table, indexed by register
// kind and bit width. Lookups for unsupported kind/width combinations
// panic; they indicate a malformed register, never a malformed input type.
type DataLayout struct {
	PointerWidth uint64 // bits

	I8Align   Align
	I16Align  Align
	I32Align  Align
	I64Align  Align
	I128Align Align

	F32Align Align
	F64Align Align

	PointerAlign   Align
	AggregateAlign Align

	// MaxVectorAlign caps the natural (size-rounded) vector alignment.
	MaxVectorAlign Align
}

// IntAlign returns the alignment of an integer of the given bit width.
func (dl *DataLayout) IntAlign(bits uint64) Align {
	switch {
	case bits <= 8:
		return dl.I8Align
	case bits <= 16:
		return dl.I16Align
	case bits <= 32:
		return dl.I32Align
	case bits <= 64:
		return dl.I64Align
	case bits <= 128:
		return dl.I128Align
	default:
		panic(fmt.Sprintf("layout: unsupported integer width %d", bits))
	}
}

// FloatAlign returns the alignment of a float of the given bit width.
func (dl *DataLayout) FloatAlign(bits uint64) Align {
	switch bits {
	case 32:
		return dl.F32Align
	case 64:
		return dl.F64Align
	default:
		panic(fmt.Sprintf("layout: unsupported float width %d", bits))
	}
}

// VectorAlign returns the alignment of a vector of the given total size:
// the size rounded up to a power of two, capped at MaxVectorAlign.
func (dl *DataLayout) VectorAlign(size Size) Align {
	b := size.Bytes()
	if b == 0 {
		b = 1
	}
	a := Align(1)
	for a.Bytes() < b {
		a <<= 1
	}
	if dl.MaxVectorAlign.IsSet() && a > dl.MaxVectorAlign {
		a = dl.MaxVectorAlign
	}
	return a
}

// PointerSize returns the byte size of a pointer.
func (dl *DataLayout) PointerSize() Size {
	return SizeFromBits(dl.PointerWidth)
}
