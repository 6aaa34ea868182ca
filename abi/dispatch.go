package abi

import (
	"go.uber.org/zap"

	"github.com/wippyai/callconv/errors"
	"github.com/wippyai/callconv/target"
)

// archRule adjusts a default classification to one hardware ABI. Each
// rule is a pure function over the FnABI, built from the shared
// primitives (ClassifyHomogeneous, the mode transitions, CastTarget).
type archRule func(t *target.Target, fn *FnABI)

// archRules is the closed dispatch table. The architecture set is fixed
// at build time; there is no plugin loading.
var archRules = map[string]archRule{
	"x86": func(t *target.Target, fn *FnABI) {
		flavor := x86General
		if fn.Conv == ConvX86Fastcall || fn.Conv == ConvX86VectorCall {
			flavor = x86FastcallOrVectorcall
		}
		x86Compute(t, fn, flavor)
	},
	"x86_64": func(t *target.Target, fn *FnABI) {
		switch {
		case fn.Conv == ConvX86_64SysV:
			x86_64Compute(t, fn)
		case fn.Conv == ConvX86_64Win64:
			x86Win64Compute(fn)
		case t.IsLikeWindows:
			x86Win64Compute(fn)
		default:
			x86_64Compute(t, fn)
		}
	},
	"aarch64": func(t *target.Target, fn *FnABI) {
		kind := aarch64AAPCS
		switch {
		case t.IsLikeDarwin:
			kind = aarch64DarwinPCS
		case t.IsLikeWindows:
			kind = aarch64Win64
		}
		aarch64Compute(t, fn, kind)
	},
	"arm": func(t *target.Target, fn *FnABI) {
		armCompute(t, fn)
	},
	"riscv32": func(t *target.Target, fn *FnABI) {
		riscvCompute(t, fn)
	},
	"riscv64": func(t *target.Target, fn *FnABI) {
		riscvCompute(t, fn)
	},
	"wasm32": func(t *target.Target, fn *FnABI) {
		if adjustedConv(t, fn) == ConvWasm {
			wasmCompute(fn)
		} else {
			wasmCCompute(t, fn)
		}
	},
	"wasm64": func(t *target.Target, fn *FnABI) {
		if adjustedConv(t, fn) == ConvWasm {
			wasmCompute(fn)
		} else {
			wasmCCompute(t, fn)
		}
	},
	"nvptx64": func(t *target.Target, fn *FnABI) {
		if adjustedConv(t, fn) == ConvPtxKernel {
			nvptx64KernelCompute(t, fn)
		} else {
			nvptx64Compute(fn)
		}
	},
}

// adjustedConv runs the target's convention remap hook over the
// signature's convention.
func adjustedConv(t *target.Target, fn *FnABI) Conv {
	remapped := t.AdjustConv(fn.Conv.String(), fn.CVariadic)
	conv, err := ParseConv(remapped)
	if err != nil {
		panic("abi: target remap hook produced unknown convention " + remapped)
	}
	return conv
}

// AdjustForArch runs the architecture rule module matching t and
// freezes the classification. Interrupt-handler conventions
// short-circuit before architecture dispatch: their only argument, if
// any, always lands on the stack. An unrecognized architecture
// identifier is the one recoverable failure; it leaves fn untouched.
func (fn *FnABI) AdjustForArch(t *target.Target) error {
	if fn.frozen {
		panic("abi: AdjustForArch on frozen FnABI")
	}

	if fn.Conv == ConvX86Intr {
		if len(fn.Args) > 0 {
			fn.Args[0].MakeIndirectByval(0)
		}
		fn.Freeze()
		return nil
	}

	rule, ok := archRules[t.Arch]
	if !ok {
		return errors.UnsupportedArch(t.Arch, fn.Conv.String())
	}

	Logger().Debug("adjusting for architecture",
		zap.String("target", t.Name),
		zap.String("arch", t.Arch),
		zap.Stringer("conv", fn.Conv),
	)
	rule(t, fn)
	fn.Freeze()
	return nil
}
