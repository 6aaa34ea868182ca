package abi

// 32-bit x86. Everything aggregate goes byval on the stack; the only
// subtleties are the byval slot alignment, small-struct returns on
// targets that do them in registers, and the fastcall/vectorcall InReg
// promotion.

import (
	"fmt"

	"github.com/wippyai/callconv/layout"
	"github.com/wippyai/callconv/target"
)

type x86Flavor int

const (
	x86General x86Flavor = iota
	x86FastcallOrVectorcall
)

// x86IsSingleFPElement reports whether the layout is, possibly after
// unwrapping single-field structs, exactly one float.
func x86IsSingleFPElement(dl *layout.DataLayout, l *layout.Layout) bool {
	ha, err := ClassifyHomogeneous(dl, l)
	if err != nil {
		return false
	}
	unit, ok := ha.Unit()
	return ok && unit.Kind == RegFloat && unit.Size == l.Size
}

// x86ContainsVector reports whether any leaf of the layout is a SIMD
// vector; such aggregates get a 16-byte byval slot.
func x86ContainsVector(l *layout.Layout) bool {
	switch l.Shape.(type) {
	case layout.ShapeVector:
		return true
	case layout.ShapeScalarPair, layout.ShapeAggregate:
		count := l.Fields.Count()
		if _, ok := l.Fields.(layout.FieldsArray); ok && count > 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			if x86ContainsVector(l.Field(i)) {
				return true
			}
		}
		for _, variant := range l.Variants {
			if x86ContainsVector(variant) {
				return true
			}
		}
	}
	return false
}

func x86Compute(t *target.Target, fn *FnABI, flavor x86Flavor) {
	dl := &t.DataLayout

	if !fn.Ret.IsIgnore() {
		ret := fn.Ret
		if ret.Layout.IsAggregate() && ret.Layout.IsSized() {
			// Returning a structure. Most often this uses a hidden
			// first argument; some targets return small structs in
			// registers instead.
			if t.ReturnStructAsInt {
				if !t.IsLikeMSVC && x86IsSingleFPElement(dl, ret.Layout) {
					switch ret.Layout.Size.Bytes() {
					case 4:
						ret.CastTo(CastReg(RegF32()))
					case 8:
						ret.CastTo(CastReg(RegF64()))
					default:
						ret.MakeIndirect()
					}
				} else {
					switch ret.Layout.Size.Bytes() {
					case 1:
						ret.CastTo(CastReg(RegI8()))
					case 2:
						ret.CastTo(CastReg(RegI16()))
					case 4:
						ret.CastTo(CastReg(RegI32()))
					case 8:
						ret.CastTo(CastReg(RegI64()))
					default:
						ret.MakeIndirect()
					}
				}
			} else {
				ret.MakeIndirect()
			}
		} else {
			ret.ExtendIntegerWidthTo(32)
		}
	}

	for _, arg := range fn.Args {
		if arg.IsIgnore() || arg.Layout.IsUnsized() {
			continue
		}
		if arg.Layout.IsAggregate() {
			byvalAlign := layout.Align(4)
			if arg.Layout.Align.Bytes() > 4 && x86ContainsVector(arg.Layout) {
				byvalAlign = 16
			}
			arg.MakeIndirectByval(byvalAlign)
		} else {
			arg.ExtendIntegerWidthTo(32)
		}
	}

	if flavor == x86FastcallOrVectorcall {
		x86AssignInReg(dl, fn)
	}
}

// x86AssignInReg marks the leading small integer arguments InReg, the
// way fastcall allocates ECX and EDX.
func x86AssignInReg(dl *layout.DataLayout, fn *FnABI) {
	freeRegs := uint64(2)

	for _, arg := range fn.Args {
		var attrs *ArgAttributes
		switch m := arg.Mode.(type) {
		case *Ignore:
			continue
		case *Indirect:
			if m.MetaAttrs != nil {
				panic(fmt.Sprintf("abi: x86 passing argument by %v", arg.Mode))
			}
			continue
		case *Direct:
			attrs = &m.Attrs
		default:
			panic(fmt.Sprintf("abi: x86 passing argument by %v", arg.Mode))
		}

		// At this point the argument is a primitive of sorts.
		ha, err := ClassifyHomogeneous(dl, arg.Layout)
		if err != nil {
			panic("abi: direct x86 argument is not homogeneous")
		}
		unit, ok := ha.Unit()
		if !ok || unit.Size != arg.Layout.Size {
			panic("abi: direct x86 argument with mismatched unit")
		}
		if unit.Kind == RegFloat {
			continue
		}

		sizeInRegs := (arg.Layout.Size.Bits() + 31) / 32
		if sizeInRegs == 0 {
			continue
		}
		if sizeInRegs > freeRegs {
			break
		}
		freeRegs -= sizeInRegs

		if arg.Layout.Size.Bits() <= 32 && unit.Kind == RegInteger {
			attrs.Set(AttrInReg)
		}
		if freeRegs == 0 {
			break
		}
	}
}
