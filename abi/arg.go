package abi

import (
	"fmt"

	"github.com/wippyai/callconv/layout"
)

// ScalarAttrsFunc lets the caller attach attributes to each scalar of a
// Direct or Pair mode; offset is the scalar's byte position within the
// value. StdScalarAttrs is the usual choice.
type ScalarAttrsFunc func(l *layout.Layout, s layout.Scalar, offset layout.Size) ArgAttributes

// StdScalarAttrs marks every scalar as fully initialized and pointers
// as non-null.
func StdScalarAttrs(_ *layout.Layout, s layout.Scalar, _ layout.Size) ArgAttributes {
	attrs := NewArgAttributes()
	attrs.Set(AttrNoUndef)
	if s.Prim == layout.PrimPointer {
		attrs.Set(AttrNonNull)
	}
	return attrs
}

// ArgABI binds one value's layout to its current passing mode. The mode
// starts at the layout's default and is adjusted by exactly one
// architecture rule module before the owning FnABI freezes.
type ArgABI struct {
	Layout *layout.Layout
	Mode   PassMode

	frozen bool
}

// NewArgABI computes the default, architecture-agnostic mode for a
// layout: uninhabited and zero-sized values are skipped, scalars and
// vectors go direct, scalar pairs go as two arguments, other aggregates
// go behind a pointer.
func NewArgABI(dl *layout.DataLayout, l *layout.Layout, scalarAttrs ScalarAttrsFunc) *ArgABI {
	var mode PassMode
	switch shape := l.Shape.(type) {
	case layout.ShapeUninhabited:
		mode = &Ignore{}
	case layout.ShapeScalar:
		mode = &Direct{Attrs: scalarAttrs(l, shape.Scalar, 0)}
	case layout.ShapeScalarPair:
		bOffset := shape.A.Size.AlignTo(shape.B.Align(dl))
		mode = &Pair{
			A: scalarAttrs(l, shape.A, 0),
			B: scalarAttrs(l, shape.B, bOffset),
		}
	case layout.ShapeVector:
		mode = &Direct{Attrs: NewArgAttributes()}
	case layout.ShapeAggregate:
		if l.IsZST() {
			mode = &Ignore{}
		} else {
			mode = indirectPassMode(l)
		}
	default:
		panic(fmt.Sprintf("abi: unknown shape %T", l.Shape))
	}
	return &ArgABI{Layout: l, Mode: mode}
}

// indirectPassMode synthesizes the Indirect mode for a layout. The
// callee gets its own copy, so the pointer cannot alias or escape.
func indirectPassMode(l *layout.Layout) *Indirect {
	attrs := NewArgAttributes()
	attrs.Set(AttrNoAlias).
		Set(AttrNoCapture).
		Set(AttrNonNull).
		Set(AttrNoUndef)
	attrs.PointeeSize = l.Size
	attrs.PointeeAlign = l.Align

	var meta *ArgAttributes
	if l.IsUnsized() {
		m := NewArgAttributes()
		meta = &m
	}
	return &Indirect{Attrs: attrs, MetaAttrs: meta}
}

func (a *ArgABI) mutable() {
	if a.frozen {
		panic("abi: mode mutation after freeze")
	}
}

// MakeDirectDeprecated turns an Indirect mode back into a plain Direct
// one. It exists only for ABIs that historically passed aggregates
// directly; new rules should not reach for it.
func (a *ArgABI) MakeDirectDeprecated() {
	a.mutable()
	switch a.Mode.(type) {
	case *Indirect:
		a.Mode = &Direct{Attrs: NewArgAttributes()}
	case *Ignore, *Direct, *Pair:
		// already direct
	default:
		panic(fmt.Sprintf("abi: tried to make %v direct", a.Mode))
	}
}

// MakeIndirect switches a Direct or Pair mode to passing a (thin or
// fat) pointer. Valid for both sized and unsized layouts.
func (a *ArgABI) MakeIndirect() {
	a.mutable()
	switch m := a.Mode.(type) {
	case *Direct, *Pair:
		a.Mode = indirectPassMode(a.Layout)
	case *Indirect:
		if m.OnStack {
			panic("abi: tried to make a byval argument indirect")
		}
		// already indirect
	default:
		panic(fmt.Sprintf("abi: tried to make %v indirect", a.Mode))
	}
}

// MakeIndirectByval places the value at a fixed stack offset (byval).
// Only valid for sized layouts. A non-zero byvalAlign overrides the
// pointee alignment; every byval-capable target uses at least 4 bytes.
func (a *ArgABI) MakeIndirectByval(byvalAlign layout.Align) {
	a.mutable()
	if a.Layout.IsUnsized() {
		panic("abi: used byval ABI for unsized layout")
	}
	a.MakeIndirect()
	m := a.Mode.(*Indirect)
	m.OnStack = true
	if byvalAlign.IsSet() {
		if byvalAlign.Bytes() < 4 {
			panic(fmt.Sprintf("abi: byval alignment %v below 4 bytes", byvalAlign))
		}
		m.Attrs.PointeeAlign = byvalAlign
	}
}

// ExtendIntegerWidthTo requests sign or zero extension up to bits for a
// Direct integer scalar narrower than that. Non-integers and already
// wide enough values are untouched.
func (a *ArgABI) ExtendIntegerWidthTo(bits uint64) {
	a.mutable()
	// Only integers have signedness.
	shape, ok := a.Layout.Shape.(layout.ShapeScalar)
	if !ok || shape.Scalar.Prim != layout.PrimInt {
		return
	}
	if shape.Scalar.Size.Bits() >= bits {
		return
	}
	if m, ok := a.Mode.(*Direct); ok {
		if shape.Scalar.Signed {
			m.Attrs.Ext(ExtSext)
		} else {
			m.Attrs.Ext(ExtZext)
		}
	}
}

// CastTo unconditionally replaces the mode with a cast to target.
func (a *ArgABI) CastTo(target CastTarget) {
	a.mutable()
	a.Mode = &Cast{Target: target}
}

// CastToAndPadI32 is CastTo with an optional 32-bit padding slot before
// the value.
func (a *ArgABI) CastToAndPadI32(target CastTarget, pad bool) {
	a.mutable()
	a.Mode = &Cast{Target: target, PadI32: pad}
}

// IsIndirect reports whether the value currently travels behind a
// pointer.
func (a *ArgABI) IsIndirect() bool {
	_, ok := a.Mode.(*Indirect)
	return ok
}

// IsSizedIndirect reports indirect passing without metadata.
func (a *ArgABI) IsSizedIndirect() bool {
	m, ok := a.Mode.(*Indirect)
	return ok && m.MetaAttrs == nil
}

// IsUnsizedIndirect reports fat-pointer passing.
func (a *ArgABI) IsUnsizedIndirect() bool {
	m, ok := a.Mode.(*Indirect)
	return ok && m.MetaAttrs != nil
}

// IsIgnore reports whether the value is skipped entirely.
func (a *ArgABI) IsIgnore() bool {
	_, ok := a.Mode.(*Ignore)
	return ok
}

// EqABI reports whether two classifications would produce the same call
// sequence: equivalent layouts and equivalent modes.
func (a *ArgABI) EqABI(o *ArgABI) bool {
	return a.Layout.EqABI(o.Layout) && a.Mode.EqABI(o.Mode)
}

func (a *ArgABI) String() string {
	return fmt.Sprintf("%s: %s", a.Layout.Size, a.Mode)
}
