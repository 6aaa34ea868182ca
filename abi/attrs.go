package abi

import (
	"fmt"
	"strings"

	"github.com/wippyai/callconv/layout"
)

// ArgAttribute is a bit set of binary-compatibility and optimizer-hint
// attributes attached to a passing mode.
type ArgAttribute uint8

const (
	AttrNoAlias ArgAttribute = 1 << (iota + 1)
	AttrNoCapture
	AttrNonNull
	AttrReadOnly
	AttrInReg
	AttrNoUndef
)

func (a ArgAttribute) String() string {
	var parts []string
	for _, f := range []struct {
		bit  ArgAttribute
		name string
	}{
		{AttrNoAlias, "noalias"},
		{AttrNoCapture, "nocapture"},
		{AttrNonNull, "nonnull"},
		{AttrReadOnly, "readonly"},
		{AttrInReg, "inreg"},
		{AttrNoUndef, "noundef"},
	} {
		if a&f.bit != 0 {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ArgExtension says whether a sub-register integer must be sign- or
// zero-extended when an ABI widens it.
type ArgExtension int

const (
	ExtNone ArgExtension = iota
	ExtZext
	ExtSext
)

func (e ArgExtension) String() string {
	switch e {
	case ExtNone:
		return "none"
	case ExtZext:
		return "zext"
	case ExtSext:
		return "sext"
	default:
		return fmt.Sprintf("ArgExtension(%d)", int(e))
	}
}

// ArgAttributes is the compact attribute block attached to one passing
// mode. It is freely mutable during classification and must be treated
// as immutable once the owning FnABI is frozen.
type ArgAttributes struct {
	Regular ArgAttribute
	ArgExt  ArgExtension

	// PointeeSize is the guaranteed-valid size behind an indirect
	// argument's pointer.
	PointeeSize layout.Size

	// PointeeAlign is the alignment behind the pointer; the zero value
	// means unset.
	PointeeAlign layout.Align
}

// NewArgAttributes returns the empty attribute block.
func NewArgAttributes() ArgAttributes {
	return ArgAttributes{}
}

// Ext requests an extension kind. Requesting a different kind than one
// already set is a contract violation.
func (a *ArgAttributes) Ext(ext ArgExtension) *ArgAttributes {
	if a.ArgExt != ExtNone && a.ArgExt != ext {
		panic(fmt.Sprintf("abi: cannot set %v when %v is already set", ext, a.ArgExt))
	}
	a.ArgExt = ext
	return a
}

// Set adds attr to the regular bit set.
func (a *ArgAttributes) Set(attr ArgAttribute) *ArgAttributes {
	a.Regular |= attr
	return a
}

// Contains reports whether attr is set.
func (a *ArgAttributes) Contains(attr ArgAttribute) bool {
	return a.Regular&attr != 0
}

// EqABI reports whether two attribute blocks are interchangeable for
// binary call compatibility. Only the InReg bit and the extension kind
// affect the call sequence; aliasing, nullability, and pointee metadata
// are optimizer hints.
func (a ArgAttributes) EqABI(o ArgAttributes) bool {
	if a.Contains(AttrInReg) != o.Contains(AttrInReg) {
		return false
	}
	return a.ArgExt == o.ArgExt
}
