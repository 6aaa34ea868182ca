package abi_test

import (
	"testing"

	"github.com/wippyai/callconv/abi"
	"github.com/wippyai/callconv/layout"
)

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	f()
}

func TestDefaultModes(t *testing.T) {
	dl := &testTarget(t, "x86_64-unknown-linux").DataLayout
	calc := layout.NewCalculator(dl)

	tests := []struct {
		name string
		typ  layout.Type
		want string
	}{
		{"uninhabited", layout.Never{}, "ignore"},
		{"unit", layout.Unit{}, "ignore"},
		{"empty struct", structOf(), "ignore"},
		{"zero-length array", layout.Array{Elem: layout.I64(), Count: 0}, "ignore"},
		{"scalar", layout.I32(), "direct"},
		{"scalar pair", structOf(layout.F32(), layout.I32()), "pair"},
		{"vector", layout.Vector{Elem: layout.F32(), Count: 4}, "direct"},
		{"aggregate", structOf(layout.I8(), layout.I32(), layout.I8()), "indirect"},
		{"unsized", layout.OpenArray{Elem: layout.I8()}, "indirect fat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg := abi.NewArgABI(dl, calc.Calculate(tt.typ), abi.StdScalarAttrs)
			var got string
			switch m := arg.Mode.(type) {
			case *abi.Ignore:
				got = "ignore"
			case *abi.Direct:
				got = "direct"
			case *abi.Pair:
				got = "pair"
			case *abi.Indirect:
				got = "indirect"
				if m.MetaAttrs != nil {
					got = "indirect fat"
				}
			default:
				t.Fatalf("unexpected mode %T", arg.Mode)
			}
			if got != tt.want {
				t.Errorf("mode: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIndirectAttributes(t *testing.T) {
	dl := &testTarget(t, "x86_64-unknown-linux").DataLayout
	calc := layout.NewCalculator(dl)

	l := calc.Calculate(structOf(layout.I8(), layout.I32(), layout.I8()))
	arg := abi.NewArgABI(dl, l, abi.StdScalarAttrs)
	m, ok := arg.Mode.(*abi.Indirect)
	if !ok {
		t.Fatalf("mode: got %T, want Indirect", arg.Mode)
	}
	for _, attr := range []abi.ArgAttribute{abi.AttrNoAlias, abi.AttrNoCapture, abi.AttrNonNull, abi.AttrNoUndef} {
		if !m.Attrs.Contains(attr) {
			t.Errorf("indirect attrs missing %v", attr)
		}
	}
	if m.Attrs.PointeeSize != l.Size {
		t.Errorf("pointee size: got %v, want %v", m.Attrs.PointeeSize, l.Size)
	}
	if m.Attrs.PointeeAlign != l.Align {
		t.Errorf("pointee align: got %v, want %v", m.Attrs.PointeeAlign, l.Align)
	}
}

func TestExtendIntegerWidth(t *testing.T) {
	dl := &testTarget(t, "x86_64-unknown-linux").DataLayout
	calc := layout.NewCalculator(dl)

	signed := abi.NewArgABI(dl, calc.Calculate(layout.I8()), abi.StdScalarAttrs)
	signed.ExtendIntegerWidthTo(32)
	if got := signed.Mode.(*abi.Direct).Attrs.ArgExt; got != abi.ExtSext {
		t.Errorf("signed ext: got %v, want Sext", got)
	}
	// Idempotent for the same direction.
	signed.ExtendIntegerWidthTo(32)
	signed.ExtendIntegerWidthTo(16)

	unsigned := abi.NewArgABI(dl, calc.Calculate(layout.U8()), abi.StdScalarAttrs)
	unsigned.ExtendIntegerWidthTo(32)
	if got := unsigned.Mode.(*abi.Direct).Attrs.ArgExt; got != abi.ExtZext {
		t.Errorf("unsigned ext: got %v, want Zext", got)
	}

	// Already wide enough: untouched.
	wide := abi.NewArgABI(dl, calc.Calculate(layout.I64()), abi.StdScalarAttrs)
	wide.ExtendIntegerWidthTo(32)
	if got := wide.Mode.(*abi.Direct).Attrs.ArgExt; got != abi.ExtNone {
		t.Errorf("wide ext: got %v, want none", got)
	}

	// Floats have no extension.
	f := abi.NewArgABI(dl, calc.Calculate(layout.F32()), abi.StdScalarAttrs)
	f.ExtendIntegerWidthTo(64)
	if got := f.Mode.(*abi.Direct).Attrs.ArgExt; got != abi.ExtNone {
		t.Errorf("float ext: got %v, want none", got)
	}
}

func TestConflictingExtensionPanics(t *testing.T) {
	dl := &testTarget(t, "x86_64-unknown-linux").DataLayout
	calc := layout.NewCalculator(dl)

	arg := abi.NewArgABI(dl, calc.Calculate(layout.I8()), abi.StdScalarAttrs)
	arg.ExtendIntegerWidthTo(32)
	mustPanic(t, "sext then zext", func() {
		m := arg.Mode.(*abi.Direct)
		m.Attrs.Ext(abi.ExtZext)
	})
}

func TestModeTransitionContract(t *testing.T) {
	dl := &testTarget(t, "x86_64-unknown-linux").DataLayout
	calc := layout.NewCalculator(dl)
	aggregate := calc.Calculate(structOf(layout.I8(), layout.I32(), layout.I8()))

	t.Run("byval requires sized", func(t *testing.T) {
		arg := abi.NewArgABI(dl, calc.Calculate(layout.OpenArray{Elem: layout.I8()}), abi.StdScalarAttrs)
		mustPanic(t, "byval on unsized", func() { arg.MakeIndirectByval(0) })
	})

	t.Run("byval align floor", func(t *testing.T) {
		arg := abi.NewArgABI(dl, aggregate, abi.StdScalarAttrs)
		mustPanic(t, "byval align 2", func() { arg.MakeIndirectByval(layout.AlignFromBytes(2)) })
	})

	t.Run("indirect on ignore is fatal", func(t *testing.T) {
		arg := abi.NewArgABI(dl, calc.Calculate(layout.Never{}), abi.StdScalarAttrs)
		mustPanic(t, "indirect on ignore", func() { arg.MakeIndirect() })
	})

	t.Run("indirect is idempotent until byval", func(t *testing.T) {
		arg := abi.NewArgABI(dl, aggregate, abi.StdScalarAttrs)
		arg.MakeIndirect()
		arg.MakeIndirect()
		arg.MakeIndirectByval(0)
		mustPanic(t, "indirect on byval", func() { arg.MakeIndirect() })
	})

	t.Run("direct deprecated reverses indirect", func(t *testing.T) {
		arg := abi.NewArgABI(dl, aggregate, abi.StdScalarAttrs)
		arg.MakeDirectDeprecated()
		if _, ok := arg.Mode.(*abi.Direct); !ok {
			t.Errorf("mode: got %T, want Direct", arg.Mode)
		}
		// No-op on an already direct mode.
		arg.MakeDirectDeprecated()
	})

	t.Run("direct deprecated fatal on cast", func(t *testing.T) {
		arg := abi.NewArgABI(dl, aggregate, abi.StdScalarAttrs)
		arg.CastTo(abi.CastReg(abi.RegI64()))
		mustPanic(t, "direct on cast", func() { arg.MakeDirectDeprecated() })
	})
}

func TestFreezeBlocksMutation(t *testing.T) {
	tgt := testTarget(t, "x86_64-unknown-linux")
	dl := &tgt.DataLayout
	calc := layout.NewCalculator(dl)

	fn := abi.NewFnABI(dl, []*layout.Layout{calc.Calculate(layout.I8())}, calc.Calculate(layout.Unit{}), abi.ConvC)
	if err := fn.AdjustForArch(tgt); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !fn.Frozen() {
		t.Fatal("FnABI not frozen after AdjustForArch")
	}
	mustPanic(t, "mutation after freeze", func() { fn.Args[0].ExtendIntegerWidthTo(64) })
	mustPanic(t, "second adjustment", func() { _ = fn.AdjustForArch(tgt) })
}
