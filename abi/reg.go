package abi

import (
	"fmt"

	"github.com/wippyai/callconv/layout"
)

// RegKind is the hardware register class a value occupies.
type RegKind int

const (
	RegInteger RegKind = iota
	RegFloat
	RegVector
)

func (k RegKind) String() string {
	switch k {
	case RegInteger:
		return "integer"
	case RegFloat:
		return "float"
	case RegVector:
		return "vector"
	default:
		return fmt.Sprintf("RegKind(%d)", int(k))
	}
}

// Reg describes one primitive hardware register: a kind and a width.
type Reg struct {
	Kind RegKind
	Size layout.Size
}

func RegI8() Reg   { return Reg{Kind: RegInteger, Size: 1} }
func RegI16() Reg  { return Reg{Kind: RegInteger, Size: 2} }
func RegI32() Reg  { return Reg{Kind: RegInteger, Size: 4} }
func RegI64() Reg  { return Reg{Kind: RegInteger, Size: 8} }
func RegI128() Reg { return Reg{Kind: RegInteger, Size: 16} }
func RegF32() Reg  { return Reg{Kind: RegFloat, Size: 4} }
func RegF64() Reg  { return Reg{Kind: RegFloat, Size: 8} }

// Align looks the register's alignment up in the target table. An
// unsupported width/kind combination panics; valid layouts never
// produce one.
func (r Reg) Align(dl *layout.DataLayout) layout.Align {
	switch r.Kind {
	case RegInteger:
		bits := r.Size.Bits()
		if bits < 1 || bits > 128 {
			panic(fmt.Sprintf("abi: unsupported integer register %v", r))
		}
		return dl.IntAlign(bits)
	case RegFloat:
		switch r.Size.Bits() {
		case 32, 64:
			return dl.FloatAlign(r.Size.Bits())
		default:
			panic(fmt.Sprintf("abi: unsupported float register %v", r))
		}
	case RegVector:
		return dl.VectorAlign(r.Size)
	default:
		panic(fmt.Sprintf("abi: unknown register kind %v", r.Kind))
	}
}

func (r Reg) String() string {
	return fmt.Sprintf("%s%d", map[RegKind]string{
		RegInteger: "i", RegFloat: "f", RegVector: "v",
	}[r.Kind], r.Size.Bits())
}

// Uniform represents one or more registers of a single unit kind
// covering Total bytes. Total need not be a multiple of the unit size;
// the final register is partially used and rounded up when emitted.
type Uniform struct {
	Unit  Reg
	Total layout.Size

	// ForceArray wraps even a single unit in an array type. Some ABIs
	// distinguish a one-element homogeneous aggregate from a bare
	// scalar even though the register layout is identical.
	ForceArray bool
}

// RegUniform is the single-register Uniform.
func RegUniform(r Reg) Uniform {
	return Uniform{Unit: r, Total: r.Size}
}

// Align defers to the unit register's alignment.
func (u Uniform) Align(dl *layout.DataLayout) layout.Align {
	return u.Unit.Align(dl)
}

func (u Uniform) String() string {
	return fmt.Sprintf("%s x %s", u.Unit, u.Total)
}
