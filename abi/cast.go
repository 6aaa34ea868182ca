package abi

import (
	"fmt"
	"strings"

	"github.com/wippyai/callconv/layout"
)

// castPrefixSlots is the fixed number of optional prefix registers a
// cast target can carry before its repeated tail.
const castPrefixSlots = 8

// CastTarget is the synthetic register-sequence type used when an
// aggregate is passed by value through registers: up to eight explicit
// prefix registers laid out in order, followed by the Rest unit repeated
// often enough to cover Rest.Total. The argument's bytes are reinterpreted
// as this shape for the call; it never exists as a source-level type.
type CastTarget struct {
	Prefix [castPrefixSlots]*Reg
	Rest   Uniform
	Attrs  ArgAttributes
}

// CastReg is the cast target for a single register.
func CastReg(r Reg) CastTarget {
	return CastUniform(RegUniform(r))
}

// CastUniform is the cast target for a repeated-register tail with no
// prefix.
func CastUniform(u Uniform) CastTarget {
	return CastTarget{Rest: u, Attrs: NewArgAttributes()}
}

// CastPair is the cast target for exactly two registers.
func CastPair(a, b Reg) CastTarget {
	t := CastUniform(RegUniform(b))
	ar := a
	t.Prefix[0] = &ar
	return t
}

// Size is the sum of all present prefix register sizes plus the tail,
// with the tail rounded up to whole units.
func (t *CastTarget) Size() layout.Size {
	size := layout.Size(0)
	for _, r := range t.Prefix {
		if r != nil {
			size += r.Size
		}
	}
	unit := t.Rest.Unit.Size.Bytes()
	if unit == 0 {
		panic(fmt.Sprintf("abi: cast target with zero-width unit %v", t.Rest.Unit))
	}
	units := (t.Rest.Total.Bytes() + unit - 1) / unit
	return size + t.Rest.Unit.Size*layout.Size(units)
}

// Align is the strictest of the prefix registers' alignments, the
// aggregate default alignment, and the tail's alignment.
func (t *CastTarget) Align(dl *layout.DataLayout) layout.Align {
	align := dl.AggregateAlign.Max(t.Rest.Align(dl))
	for _, r := range t.Prefix {
		if r != nil {
			align = align.Max(r.Align(dl))
		}
	}
	return align
}

// EqABI compares the prefix registers, the tail, and the attribute block
// under the reduced attribute rule.
func (t *CastTarget) EqABI(o *CastTarget) bool {
	for i := range t.Prefix {
		a, b := t.Prefix[i], o.Prefix[i]
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && *a != *b {
			return false
		}
	}
	return t.Rest == o.Rest && t.Attrs.EqABI(o.Attrs)
}

func (t *CastTarget) String() string {
	var parts []string
	for _, r := range t.Prefix {
		if r != nil {
			parts = append(parts, r.String())
		}
	}
	parts = append(parts, t.Rest.String())
	return "{" + strings.Join(parts, ", ") + "}"
}
