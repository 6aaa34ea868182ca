package abi

// AArch64 procedure call standard, with the Darwin and Win64 deviations.
// Homogeneous floating-point and vector aggregates of at most four
// members go in consecutive SIMD registers; other small aggregates are
// packed into general registers.

import (
	"github.com/wippyai/callconv/layout"
	"github.com/wippyai/callconv/target"
)

type aarch64Kind int

const (
	aarch64AAPCS aarch64Kind = iota
	aarch64DarwinPCS
	aarch64Win64
)

// aarch64HomogeneousAggregate returns the uniform for a homogeneous
// float or vector aggregate with at most four uniquely addressable
// members, the only aggregates AArch64 passes in SIMD registers.
func aarch64HomogeneousAggregate(dl *layout.DataLayout, arg *ArgABI) (Uniform, bool) {
	ha, err := ClassifyHomogeneous(dl, arg.Layout)
	if err != nil {
		return Uniform{}, false
	}
	unit, ok := ha.Unit()
	if !ok {
		return Uniform{}, false
	}
	size := arg.Layout.Size
	if size > unit.Size*4 {
		return Uniform{}, false
	}
	switch unit.Kind {
	case RegFloat:
	case RegVector:
		if size.Bits() != 64 && size.Bits() != 128 {
			return Uniform{}, false
		}
	default:
		return Uniform{}, false
	}
	return Uniform{Unit: unit, Total: size}, true
}

func aarch64ClassifyRet(dl *layout.DataLayout, ret *ArgABI, kind aarch64Kind) {
	if ret.Layout.IsUnsized() {
		return
	}
	if !ret.Layout.IsAggregate() {
		if kind == aarch64DarwinPCS {
			// Darwin requires sub-word returns to be extended to 32
			// bits by the callee.
			ret.ExtendIntegerWidthTo(32)
		}
		return
	}
	if uniform, ok := aarch64HomogeneousAggregate(dl, ret); ok {
		ret.CastTo(CastUniform(uniform))
		return
	}
	size := ret.Layout.Size
	if size.Bits() <= 128 {
		ret.CastTo(CastUniform(Uniform{Unit: RegI64(), Total: size}))
		return
	}
	ret.MakeIndirect()
}

func aarch64ClassifyArg(dl *layout.DataLayout, arg *ArgABI, kind aarch64Kind) {
	if arg.Layout.IsUnsized() {
		return
	}
	if !arg.Layout.IsAggregate() {
		if kind == aarch64DarwinPCS {
			// Darwin widens sub-word arguments in the caller.
			arg.ExtendIntegerWidthTo(32)
		}
		return
	}
	if uniform, ok := aarch64HomogeneousAggregate(dl, arg); ok {
		arg.CastTo(CastUniform(uniform))
		return
	}
	size := arg.Layout.Size
	if size.Bits() <= 128 {
		unit := RegI64()
		if arg.Layout.Align.Bits() == 128 {
			unit = RegI128()
		}
		arg.CastTo(CastUniform(Uniform{Unit: unit, Total: size}))
		return
	}
	arg.MakeIndirect()
}

func aarch64Compute(t *target.Target, fn *FnABI, kind aarch64Kind) {
	dl := &t.DataLayout
	if !fn.Ret.IsIgnore() {
		aarch64ClassifyRet(dl, fn.Ret, kind)
	}
	for _, arg := range fn.Args {
		if arg.IsIgnore() {
			continue
		}
		aarch64ClassifyArg(dl, arg, kind)
	}
}
