package abi

// 32-bit Arm AAPCS. Hard-float targets additionally pass homogeneous
// float/vector aggregates in VFP registers, unless the function is
// explicitly AAPCS (soft-float argument passing) or variadic.

import (
	"github.com/wippyai/callconv/layout"
	"github.com/wippyai/callconv/target"
)

func armHomogeneousAggregate(dl *layout.DataLayout, arg *ArgABI) (Uniform, bool) {
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

func armClassifyRet(dl *layout.DataLayout, ret *ArgABI, vfp bool) {
	if ret.Layout.IsUnsized() {
		return
	}
	if !ret.Layout.IsAggregate() {
		ret.ExtendIntegerWidthTo(32)
		return
	}
	if vfp {
		if uniform, ok := armHomogeneousAggregate(dl, ret); ok {
			ret.CastTo(CastUniform(uniform))
			return
		}
	}
	size := ret.Layout.Size
	if size.Bits() <= 32 {
		ret.CastTo(CastUniform(Uniform{Unit: RegI32(), Total: size}))
		return
	}
	ret.MakeIndirect()
}

func armClassifyArg(dl *layout.DataLayout, arg *ArgABI, vfp bool) {
	if arg.Layout.IsUnsized() {
		return
	}
	if !arg.Layout.IsAggregate() {
		arg.ExtendIntegerWidthTo(32)
		return
	}
	if vfp {
		if uniform, ok := armHomogeneousAggregate(dl, arg); ok {
			arg.CastTo(CastUniform(uniform))
			return
		}
	}
	unit := RegI32()
	if arg.Layout.Align.Bytes() > 4 {
		unit = RegI64()
	}
	arg.CastTo(CastUniform(Uniform{Unit: unit, Total: arg.Layout.Size}))
}

func armCompute(t *target.Target, fn *FnABI) {
	vfp := t.HardFloat && fn.Conv != ConvArmAapcs && !fn.CVariadic

	dl := &t.DataLayout
	if !fn.Ret.IsIgnore() {
		armClassifyRet(dl, fn.Ret, vfp)
	}
	for _, arg := range fn.Args {
		if arg.IsIgnore() {
			continue
		}
		armClassifyArg(dl, arg, vfp)
	}
}
