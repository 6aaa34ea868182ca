package abi_test

import (
	"testing"

	"github.com/wippyai/callconv/abi"
	"github.com/wippyai/callconv/layout"
)

func TestFnABIEquivalence(t *testing.T) {
	tgt := testTarget(t, "x86_64-unknown-linux")
	dl := &tgt.DataLayout

	build := func(argType layout.Type, conv abi.Conv) *abi.FnABI {
		calc := layout.NewCalculator(dl)
		fn := abi.NewFnABI(dl, []*layout.Layout{calc.Calculate(argType)}, calc.Calculate(layout.Unit{}), conv)
		if err := fn.AdjustForArch(tgt); err != nil {
			t.Fatalf("adjust: %v", err)
		}
		return fn
	}

	// Two wrappers with the same machine layout share one call sequence.
	a := build(structOf(layout.I64()), abi.ConvC)
	b := build(layout.I64(), abi.ConvC)
	if !a.EqABI(b) {
		t.Error("identical layouts reported as ABI-distinct")
	}

	c := build(layout.F64(), abi.ConvC)
	if a.EqABI(c) {
		t.Error("int and float arguments reported as ABI-equal")
	}

	d := build(layout.I64(), abi.ConvX86_64SysV)
	if a.EqABI(d) {
		t.Error("different conventions reported as ABI-equal")
	}
}

func TestFnABIVariadicBookkeeping(t *testing.T) {
	tgt := testTarget(t, "x86_64-unknown-linux")
	dl := &tgt.DataLayout
	calc := layout.NewCalculator(dl)

	args := []*layout.Layout{calc.Calculate(layout.Ptr{}), calc.Calculate(layout.I32())}
	fn := abi.NewFnABI(dl, args, calc.Calculate(layout.I32()), abi.ConvC, abi.WithVariadic(1))
	if !fn.CVariadic || fn.FixedCount != 1 {
		t.Errorf("variadic: got (%v, %d), want (true, 1)", fn.CVariadic, fn.FixedCount)
	}

	plain := abi.NewFnABI(dl, args, calc.Calculate(layout.I32()), abi.ConvC)
	if plain.CVariadic || plain.FixedCount != 2 {
		t.Errorf("non-variadic: got (%v, %d), want (false, 2)", plain.CVariadic, plain.FixedCount)
	}

	mustPanic(t, "fixed beyond args", func() {
		abi.NewFnABI(dl, args, calc.Calculate(layout.I32()), abi.ConvC, abi.WithVariadic(3))
	})
}
