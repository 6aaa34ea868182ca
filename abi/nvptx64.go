package abi

// NVPTX device functions pass anything up to 64 bits directly and
// everything larger by reference. Kernel entry points are stricter:
// they can return nothing, and their aggregate parameters live in the
// param space, expressed here as byval.

import (
	"fmt"

	"github.com/wippyai/callconv/layout"
	"github.com/wippyai/callconv/target"
)

func nvptx64Classify(arg *ArgABI) {
	if arg.Layout.IsAggregate() && arg.Layout.Size.Bits() > 64 {
		arg.MakeIndirect()
	} else {
		arg.ExtendIntegerWidthTo(64)
	}
}

func nvptx64Compute(fn *FnABI) {
	if !fn.Ret.IsIgnore() {
		nvptx64Classify(fn.Ret)
	}
	for _, arg := range fn.Args {
		if arg.IsIgnore() {
			continue
		}
		nvptx64Classify(arg)
	}
}

func nvptx64KernelCompute(t *target.Target, fn *FnABI) {
	if !fn.Ret.IsIgnore() && !fn.Ret.Layout.IsZST() {
		panic("abi: kernel entry points cannot return a value")
	}

	for _, arg := range fn.Args {
		switch arg.Mode.(type) {
		case *Ignore:
			continue
		case *Pair:
			// Fat pointers and two-scalar wrappers become an array of
			// alignment-sized units so the param layout stays packed.
			alignBytes := arg.Layout.Align.Bytes()
			var unit Reg
			switch alignBytes {
			case 1:
				unit = RegI8()
			case 2:
				unit = RegI16()
			case 4:
				unit = RegI32()
			case 8:
				unit = RegI64()
			case 16:
				unit = RegI128()
			default:
				panic(fmt.Sprintf("abi: unexpected kernel argument alignment %d", alignBytes))
			}
			arg.CastTo(CastUniform(Uniform{Unit: unit, Total: layout.Size(2 * alignBytes)}))
		default:
			if arg.Layout.IsAggregate() && arg.Layout.IsSized() {
				byvalAlign := layout.Align(4).Max(arg.Layout.Align)
				arg.MakeIndirectByval(byvalAlign)
			}
		}
	}
}
