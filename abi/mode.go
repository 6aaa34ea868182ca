package abi

import "fmt"

// PassMode is how one argument or return value travels at the machine
// level. It is a closed union: exactly Ignore, Direct, Pair, Cast, and
// Indirect implement it, always as pointers so rule modules can mutate
// attribute blocks in place.
type PassMode interface {
	implPassMode()
	// EqABI reports whether two modes are interchangeable for binary
	// call compatibility, ignoring optimizer-hint attributes.
	EqABI(PassMode) bool
	String() string
}

// Ignore skips the argument entirely: it is uninhabited or zero-sized.
type Ignore struct{}

// Direct passes the value as-is, usually in one register.
type Direct struct {
	Attrs ArgAttributes
}

// Pair passes a scalar pair's elements as two consecutive arguments.
type Pair struct {
	A, B ArgAttributes
}

// Cast reinterprets the value as a CastTarget register sequence. PadI32
// reserves one 32-bit register slot immediately before the value, for
// targets whose register allocation needs the padding.
type Cast struct {
	Target CastTarget
	PadI32 bool
}

// Indirect passes a hidden pointer to the value. MetaAttrs is non-nil
// only for unsized values, which travel as a fat pointer (data pointer
// plus length or vtable metadata). OnStack places the value at a fixed
// stack offset (byval) instead; it is never valid for unsized values.
type Indirect struct {
	Attrs     ArgAttributes
	MetaAttrs *ArgAttributes
	OnStack   bool
}

func (*Ignore) implPassMode()   {}
func (*Direct) implPassMode()   {}
func (*Pair) implPassMode()     {}
func (*Cast) implPassMode()     {}
func (*Indirect) implPassMode() {}

func (*Ignore) EqABI(o PassMode) bool {
	_, ok := o.(*Ignore)
	return ok
}

func (m *Direct) EqABI(o PassMode) bool {
	d, ok := o.(*Direct)
	return ok && m.Attrs.EqABI(d.Attrs)
}

func (m *Pair) EqABI(o PassMode) bool {
	p, ok := o.(*Pair)
	return ok && m.A.EqABI(p.A) && m.B.EqABI(p.B)
}

func (m *Cast) EqABI(o PassMode) bool {
	c, ok := o.(*Cast)
	return ok && m.Target.EqABI(&c.Target) && m.PadI32 == c.PadI32
}

func (m *Indirect) EqABI(o PassMode) bool {
	i, ok := o.(*Indirect)
	if !ok {
		return false
	}
	if !m.Attrs.EqABI(i.Attrs) || m.OnStack != i.OnStack {
		return false
	}
	if (m.MetaAttrs == nil) != (i.MetaAttrs == nil) {
		return false
	}
	if m.MetaAttrs != nil && !m.MetaAttrs.EqABI(*i.MetaAttrs) {
		return false
	}
	return true
}

func (*Ignore) String() string { return "ignore" }

func (m *Direct) String() string { return fmt.Sprintf("direct(%s)", m.Attrs.Regular) }

func (m *Pair) String() string {
	return fmt.Sprintf("pair(%s, %s)", m.A.Regular, m.B.Regular)
}

func (m *Cast) String() string {
	if m.PadI32 {
		return fmt.Sprintf("cast(pad, %s)", m.Target.String())
	}
	return fmt.Sprintf("cast(%s)", m.Target.String())
}

func (m *Indirect) String() string {
	switch {
	case m.OnStack:
		return "indirect(byval)"
	case m.MetaAttrs != nil:
		return "indirect(fat)"
	default:
		return "indirect"
	}
}
