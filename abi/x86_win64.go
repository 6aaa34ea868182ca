package abi

// Win64 calling convention: values of 1, 2, 4, or 8 bytes travel in a
// single register regardless of their contents; everything else goes
// behind a pointer.

import "github.com/wippyai/callconv/layout"

func x86Win64Fixup(a *ArgABI) {
	switch a.Layout.Shape.(type) {
	case layout.ShapeUninhabited:
	case layout.ShapeAggregate, layout.ShapeScalarPair:
		if a.Layout.IsUnsized() {
			return
		}
		switch a.Layout.Size.Bits() {
		case 8:
			a.CastTo(CastReg(RegI8()))
		case 16:
			a.CastTo(CastReg(RegI16()))
		case 32:
			a.CastTo(CastReg(RegI32()))
		case 64:
			a.CastTo(CastReg(RegI64()))
		default:
			a.MakeIndirect()
		}
	case layout.ShapeVector:
		// Vectors are left as-is; the backend passes them by register
		// or memory per their size.
	case layout.ShapeScalar:
		if a.Layout.Size.Bytes() > 8 {
			// i128 and friends are passed indirectly.
			a.MakeIndirect()
		} else {
			a.ExtendIntegerWidthTo(32)
		}
	}
}

func x86Win64Compute(fn *FnABI) {
	if !fn.Ret.IsIgnore() {
		x86Win64Fixup(fn.Ret)
	}
	for _, arg := range fn.Args {
		if arg.IsIgnore() {
			continue
		}
		x86Win64Fixup(arg)
	}
}
