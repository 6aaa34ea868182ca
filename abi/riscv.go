package abi

// RISC-V calling convention, covering both riscv32 and riscv64. The
// interesting part is the hardware floating-point extension: a value
// consisting of at most two scalars, at least one of them a float that
// fits the FLEN registers, is split across FPRs (and a GPR for a mixed
// pair) instead of taking the integer path. Register exhaustion and
// variadic arguments fall back to the plain integer convention.

import (
	"errors"

	"github.com/wippyai/callconv/layout"
	"github.com/wippyai/callconv/target"
)

var errCannotUseFPConv = errors.New("abi: value not eligible for riscv float registers")

// riscvPassKind records what a candidate field slot holds while walking
// a value for float-register eligibility.
type riscvPassKind struct {
	valid   bool
	isFloat bool
	reg     Reg
}

func (k *riscvPassKind) assignInt(size layout.Size) {
	k.valid = true
	k.isFloat = false
	k.reg = Reg{Kind: RegInteger, Size: size}
}

func (k *riscvPassKind) assignFloat(size layout.Size) {
	k.valid = true
	k.isFloat = true
	k.reg = Reg{Kind: RegFloat, Size: size}
}

// riscvFloatConv is the resolved float-register passing for a value:
// a lone float, two floats, or a float paired with an integer.
type riscvFloatConv struct {
	single bool
	first  Reg
	second Reg
}

func riscvFPConvFields(dl *layout.DataLayout, l *layout.Layout, xlen, flen uint64, field1, field2 *riscvPassKind) error {
	switch shape := l.Shape.(type) {
	case layout.ShapeUninhabited, layout.ShapeVector:
		return errCannotUseFPConv

	case layout.ShapeScalar:
		s := shape.Scalar
		if s.IsFloat() {
			if l.Size.Bits() > flen {
				return errCannotUseFPConv
			}
			switch {
			case !field1.valid:
				field1.assignFloat(l.Size)
			case !field2.valid:
				field2.assignFloat(l.Size)
			default:
				return errCannotUseFPConv
			}
			return nil
		}
		if l.Size.Bits() > xlen {
			return errCannotUseFPConv
		}
		switch {
		case !field1.valid:
			field1.assignInt(l.Size)
		case field1.isFloat && !field2.valid:
			field2.assignInt(l.Size)
		default:
			return errCannotUseFPConv
		}
		return nil

	case layout.ShapeScalarPair, layout.ShapeAggregate:
		switch fields := l.Fields.(type) {
		case layout.FieldsUnion:
			if !l.IsZST() {
				return errCannotUseFPConv
			}
			return nil
		case layout.FieldsArray:
			if fields.Num == 0 {
				return nil
			}
			elem := l.Field(0)
			for i := uint64(0); i < fields.Num; i++ {
				if err := riscvFPConvFields(dl, elem, xlen, flen, field1, field2); err != nil {
					return err
				}
			}
			return nil
		case layout.FieldsArbitrary:
			if len(l.Variants) > 1 {
				return errCannotUseFPConv
			}
			for i := range fields.Offsets {
				if err := riscvFPConvFields(dl, l.Field(i), xlen, flen, field1, field2); err != nil {
					return err
				}
			}
			return nil
		default:
			return errCannotUseFPConv
		}
	}
	return errCannotUseFPConv
}

func riscvFPConv(dl *layout.DataLayout, l *layout.Layout, xlen, flen uint64) (riscvFloatConv, bool) {
	var field1, field2 riscvPassKind
	if err := riscvFPConvFields(dl, l, xlen, flen, &field1, &field2); err != nil {
		return riscvFloatConv{}, false
	}
	switch {
	case field1.valid && field1.isFloat && !field2.valid:
		return riscvFloatConv{single: true, first: field1.reg}, true
	case field1.valid && field2.valid && (field1.isFloat || field2.isFloat):
		return riscvFloatConv{first: field1.reg, second: field2.reg}, true
	}
	return riscvFloatConv{}, false
}

func riscvIsAggregate(l *layout.Layout) bool {
	if _, ok := l.Shape.(layout.ShapeVector); ok {
		return true
	}
	return l.IsAggregate()
}

// riscvExtendInteger widens a small scalar to XLEN. LP64 keeps 32-bit
// integers sign-extended regardless of their own signedness.
func riscvExtendInteger(arg *ArgABI, xlen uint64) {
	if shape, ok := arg.Layout.Shape.(layout.ShapeScalar); ok {
		s := shape.Scalar
		if s.Prim == layout.PrimInt && s.Size.Bits() == 32 && xlen > 32 {
			if direct, ok := arg.Mode.(*Direct); ok {
				arg.mutable()
				direct.Attrs.Ext(ExtSext)
				return
			}
		}
	}
	arg.ExtendIntegerWidthTo(xlen)
}

// riscvClassifyRet reports whether the return consumes a GPR for the
// hidden sret pointer.
func riscvClassifyRet(dl *layout.DataLayout, arg *ArgABI, xlen, flen uint64) bool {
	if conv, ok := riscvFPConv(dl, arg.Layout, xlen, flen); ok {
		if conv.single {
			arg.CastTo(CastReg(conv.first))
		} else {
			arg.CastTo(CastPair(conv.first, conv.second))
		}
		return false
	}

	total := arg.Layout.Size

	// Values wider than 2*XLEN are returned through memory. Scalars of
	// that size are left to the backend to split across registers.
	if total.Bits() > 2*xlen {
		if riscvIsAggregate(arg.Layout) {
			arg.MakeIndirect()
		}
		return true
	}

	xlenReg := RegI32()
	if xlen == 64 {
		xlenReg = RegI64()
	}

	if riscvIsAggregate(arg.Layout) {
		if total.Bits() <= xlen {
			arg.CastTo(CastReg(xlenReg))
		} else {
			arg.CastTo(CastUniform(Uniform{Unit: xlenReg, Total: layout.Size(2 * xlen / 8)}))
		}
		return false
	}

	riscvExtendInteger(arg, xlen)
	return false
}

func riscvClassifyArg(dl *layout.DataLayout, arg *ArgABI, xlen, flen uint64, isVararg bool, availGPRs, availFPRs *uint64) {
	if !isVararg {
		if conv, ok := riscvFPConv(dl, arg.Layout, xlen, flen); ok {
			switch {
			case conv.single && *availFPRs >= 1:
				*availFPRs--
				arg.CastTo(CastReg(conv.first))
				return
			case !conv.single && conv.first.Kind == RegFloat && conv.second.Kind == RegFloat && *availFPRs >= 2:
				*availFPRs -= 2
				arg.CastTo(CastPair(conv.first, conv.second))
				return
			case !conv.single && *availFPRs >= 1 && *availGPRs >= 1:
				*availFPRs--
				*availGPRs--
				arg.CastTo(CastPair(conv.first, conv.second))
				return
			}
		}
	}

	total := arg.Layout.Size
	alignBits := arg.Layout.Align.Bits()

	if total.Bits() > 2*xlen {
		// Passed by reference; the pointer occupies one GPR.
		if riscvIsAggregate(arg.Layout) {
			arg.MakeIndirect()
		}
		if *availGPRs >= 1 {
			*availGPRs--
		}
		return
	}

	xlenReg, doubleXlenReg := RegI32(), RegI64()
	if xlen == 64 {
		xlenReg, doubleXlenReg = RegI64(), RegI128()
	}

	if total.Bits() > xlen {
		alignRegs := alignBits > xlen
		if riscvIsAggregate(arg.Layout) {
			unit := xlenReg
			if alignRegs {
				unit = doubleXlenReg
			}
			arg.CastTo(CastUniform(Uniform{Unit: unit, Total: layout.Size(2 * xlen / 8)}))
		}
		if alignRegs && isVararg {
			// 2*XLEN-aligned varargs start at an even register pair.
			*availGPRs -= *availGPRs % 2
		}
		if *availGPRs >= 2 {
			*availGPRs -= 2
		} else {
			*availGPRs = 0
		}
		return
	}
	if riscvIsAggregate(arg.Layout) {
		arg.CastTo(CastReg(xlenReg))
		if *availGPRs >= 1 {
			*availGPRs--
		}
		return
	}

	if *availGPRs >= 1 {
		*availGPRs--
	}
	riscvExtendInteger(arg, xlen)
}

func riscvCompute(t *target.Target, fn *FnABI) {
	dl := &t.DataLayout
	xlen := uint64(t.PointerWidth)
	flen := uint64(t.FloatABIBits)

	availGPRs := uint64(8)
	availFPRs := uint64(8)

	if !fn.Ret.IsIgnore() && riscvClassifyRet(dl, fn.Ret, xlen, flen) {
		availGPRs--
	}

	for i, arg := range fn.Args {
		if arg.IsIgnore() {
			continue
		}
		vararg := fn.CVariadic && i >= int(fn.FixedCount)
		riscvClassifyArg(dl, arg, xlen, flen, vararg, &availGPRs, &availFPRs)
	}
}
