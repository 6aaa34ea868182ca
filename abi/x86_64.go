package abi

// System V x86-64 ABI: every value up to 64 bytes is chopped into
// eightbyte chunks, each chunk classified as integer or SSE, and the
// chunks mapped onto the argument registers while they last.

import (
	"fmt"

	"github.com/wippyai/callconv/layout"
	"github.com/wippyai/callconv/target"
)

type x86_64Class int

const (
	x86_64Int x86_64Class = iota + 1
	x86_64Sse
	x86_64SseUp
)

const (
	x86_64LargestVectorBits = 512
	x86_64MaxEightbytes     = x86_64LargestVectorBits / 64

	x86_64MaxIntRegs = 6 // RDI, RSI, RDX, RCX, R8, R9
	x86_64MaxSseRegs = 8 // XMM0-7
)

// x86_64Classify fills cls with the eightbyte classes of one value
// rooted at off. A false return means the value must go to memory.
func x86_64Classify(dl *layout.DataLayout, l *layout.Layout, cls []x86_64Class, off layout.Size) bool {
	if !off.IsAlignedTo(l.Align) {
		return l.IsZST()
	}

	var c x86_64Class
	switch shape := l.Shape.(type) {
	case layout.ShapeUninhabited:
		return true
	case layout.ShapeScalar:
		if shape.Scalar.IsFloat() {
			c = x86_64Sse
		} else {
			c = x86_64Int
		}
	case layout.ShapeVector:
		c = x86_64Sse
	case layout.ShapeScalarPair, layout.ShapeAggregate:
		for i := 0; i < l.Fields.Count(); i++ {
			if !x86_64Classify(dl, l.Field(i), cls, off+l.FieldOffset(i)) {
				return false
			}
		}
		// Treat enum variants like union members.
		for _, variant := range l.Variants {
			if !x86_64Classify(dl, variant, cls, off) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("abi: unknown shape %T", l.Shape))
	}

	// Fill in the eightbytes the scalar or vector spans. Everything
	// after the first SSE eightbyte is SseUp.
	first := off.Bytes() / 8
	last := (off.Bytes() + l.Size.Bytes() - 1) / 8
	for i := first; i <= last; i++ {
		if cls[i] == 0 || c < cls[i] {
			cls[i] = c
		}
		if c == x86_64Sse {
			c = x86_64SseUp
		}
	}
	return true
}

// x86_64ClassifyArg returns the eightbyte classes for one argument, or
// nil when it must be passed through memory.
func x86_64ClassifyArg(dl *layout.DataLayout, arg *ArgABI) []x86_64Class {
	n := (arg.Layout.Size.Bytes() + 7) / 8
	if n > x86_64MaxEightbytes {
		return nil
	}

	cls := make([]x86_64Class, x86_64MaxEightbytes)
	if !x86_64Classify(dl, arg.Layout, cls, 0) {
		return nil
	}
	if n > 2 {
		// Oversized values are only register-passable as one big
		// vector: Sse followed by nothing but SseUp.
		if cls[0] != x86_64Sse {
			return nil
		}
		for _, c := range cls[1:n] {
			if c != x86_64SseUp {
				return nil
			}
		}
	} else {
		for i := uint64(0); i < n; i++ {
			if cls[i] == x86_64SseUp {
				cls[i] = x86_64Sse
			}
		}
	}
	return cls
}

// x86_64RegComponent turns the class run starting at *i into one
// register, advancing *i past it. size is the bytes remaining from this
// component on.
func x86_64RegComponent(cls []x86_64Class, i *int, size layout.Size) *Reg {
	if *i >= len(cls) {
		return nil
	}
	switch cls[*i] {
	case 0:
		return nil
	case x86_64Int:
		*i++
		r := RegI64()
		if size.Bytes() < 8 {
			r = Reg{Kind: RegInteger, Size: size}
		}
		return &r
	case x86_64Sse:
		vecLen := 1
		for _, c := range cls[*i+1:] {
			if c != x86_64SseUp {
				break
			}
			vecLen++
		}
		*i += vecLen
		var r Reg
		if vecLen == 1 {
			if size.Bytes() == 4 {
				r = RegF32()
			} else {
				r = RegF64()
			}
		} else {
			r = Reg{Kind: RegVector, Size: 8 * layout.Size(vecLen)}
		}
		return &r
	default:
		panic(fmt.Sprintf("abi: unexpected eightbyte class %d", cls[*i]))
	}
}

// x86_64CastTarget synthesizes the cast type for a register-passable
// aggregate.
func x86_64CastTarget(cls []x86_64Class, size layout.Size) CastTarget {
	i := 0
	lo := x86_64RegComponent(cls, &i, size)
	if lo == nil {
		panic("abi: eightbyte classification produced no registers")
	}
	offset := 8 * layout.Size(i)
	targetCast := CastReg(*lo)
	if size > offset {
		if hi := x86_64RegComponent(cls, &i, size-offset); hi != nil {
			targetCast = CastPair(*lo, *hi)
		}
	}
	if rest := x86_64RegComponent(cls, &i, 0); rest != nil {
		panic("abi: eightbyte classification left trailing registers")
	}
	return targetCast
}

func x86_64Compute(t *target.Target, fn *FnABI) {
	dl := &t.DataLayout
	intRegs := x86_64MaxIntRegs
	sseRegs := x86_64MaxSseRegs

	classifyValue := func(arg *ArgABI, isArg bool) {
		if arg.Layout.IsUnsized() {
			// Unsized values already travel as fat pointers.
			return
		}
		cls := x86_64ClassifyArg(dl, arg)

		if isArg && cls != nil {
			neededInt, neededSse := 0, 0
			for _, c := range cls {
				switch c {
				case x86_64Int:
					neededInt++
				case x86_64Sse:
					neededSse++
				}
			}
			if intRegs >= neededInt && sseRegs >= neededSse {
				intRegs -= neededInt
				sseRegs -= neededSse
			} else if arg.Layout.IsAggregate() {
				// Out of registers. Scalars spill to the stack on
				// their own; aggregates must be marked byval.
				cls = nil
			}
		}

		if cls == nil {
			if isArg {
				arg.MakeIndirectByval(0)
			} else {
				// sret consumes one integer register for the pointer.
				arg.MakeIndirect()
				intRegs--
			}
			return
		}
		if arg.Layout.IsAggregate() {
			arg.CastTo(x86_64CastTarget(cls, arg.Layout.Size))
		} else {
			arg.ExtendIntegerWidthTo(32)
		}
	}

	if !fn.Ret.IsIgnore() {
		classifyValue(fn.Ret, false)
	}
	for _, arg := range fn.Args {
		if arg.IsIgnore() {
			continue
		}
		classifyValue(arg, true)
	}
}
