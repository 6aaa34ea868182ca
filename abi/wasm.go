package abi

// WebAssembly has two conventions. The default one matches the basic C
// ABI used by clang: aggregates that flatten to one register class are
// passed directly, everything else goes through linear memory. The
// "Wasm" convention instead matches the raw WebAssembly signature
// rules, where aggregates are scalarized without an indirection.

import (
	"github.com/wippyai/callconv/layout"
	"github.com/wippyai/callconv/target"
)

// wasmUnwrapTrivialAggregate flattens an aggregate whose members reduce
// to a single register kind with no padding.
func wasmUnwrapTrivialAggregate(dl *layout.DataLayout, arg *ArgABI) bool {
	if !arg.Layout.IsAggregate() {
		return false
	}
	ha, err := ClassifyHomogeneous(dl, arg.Layout)
	if err != nil {
		return false
	}
	unit, ok := ha.Unit()
	if !ok || unit.Size != arg.Layout.Size {
		return false
	}
	arg.CastTo(CastUniform(Uniform{Unit: unit, Total: arg.Layout.Size}))
	return true
}

func wasmCClassifyRet(dl *layout.DataLayout, ret *ArgABI) {
	ret.ExtendIntegerWidthTo(32)
	if ret.Layout.IsAggregate() && !wasmUnwrapTrivialAggregate(dl, ret) {
		ret.MakeIndirect()
	}
}

func wasmCClassifyArg(dl *layout.DataLayout, arg *ArgABI) {
	arg.ExtendIntegerWidthTo(32)
	if arg.Layout.IsAggregate() && !wasmUnwrapTrivialAggregate(dl, arg) {
		arg.MakeIndirectByval(0)
	}
}

func wasmCCompute(t *target.Target, fn *FnABI) {
	dl := &t.DataLayout
	if !fn.Ret.IsIgnore() {
		wasmCClassifyRet(dl, fn.Ret)
	}
	for _, arg := range fn.Args {
		if arg.IsIgnore() {
			continue
		}
		wasmCClassifyArg(dl, arg)
	}
}

func wasmCompute(fn *FnABI) {
	if !fn.Ret.IsIgnore() {
		fn.Ret.ExtendIntegerWidthTo(32)
		if fn.Ret.Layout.IsAggregate() {
			fn.Ret.MakeDirectDeprecated()
		}
	}
	for _, arg := range fn.Args {
		if arg.IsIgnore() {
			continue
		}
		arg.ExtendIntegerWidthTo(32)
		if arg.Layout.IsAggregate() {
			arg.MakeDirectDeprecated()
		}
	}
}
