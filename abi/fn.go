package abi

import (
	"fmt"

	"github.com/wippyai/callconv/layout"
)

// FnABI is the complete classification of one call signature: the
// ordered argument classifications, the return classification, and the
// convention metadata a code generator needs to emit the call.
//
// Lifecycle: built once from layouts, adjusted in place by exactly one
// architecture rule module, then frozen. Frozen FnABIs are safe to share.
type FnABI struct {
	Args []*ArgABI
	Ret  *ArgABI

	CVariadic bool

	// FixedCount is the number of non-variadic arguments. It equals
	// len(Args) unless CVariadic is set.
	FixedCount uint32

	Conv      Conv
	CanUnwind bool

	frozen bool
}

// FnOption tweaks NewFnABI.
type FnOption func(*fnOptions)

type fnOptions struct {
	scalarAttrs ScalarAttrsFunc
	fixedCount  int
	canUnwind   bool
}

// WithScalarAttrs overrides the per-scalar attribute generator.
func WithScalarAttrs(f ScalarAttrsFunc) FnOption {
	return func(o *fnOptions) { o.scalarAttrs = f }
}

// WithVariadic marks the signature C-variadic with the given number of
// fixed arguments.
func WithVariadic(fixed int) FnOption {
	return func(o *fnOptions) { o.fixedCount = fixed }
}

// WithUnwind marks the function as able to unwind into its caller.
func WithUnwind() FnOption {
	return func(o *fnOptions) { o.canUnwind = true }
}

// NewFnABI computes the default classification for a signature. The
// result still carries architecture-agnostic modes; AdjustForArch turns
// them into the target's actual ABI.
func NewFnABI(dl *layout.DataLayout, args []*layout.Layout, ret *layout.Layout, conv Conv, opts ...FnOption) *FnABI {
	o := fnOptions{scalarAttrs: StdScalarAttrs, fixedCount: -1}
	for _, opt := range opts {
		opt(&o)
	}

	fn := &FnABI{
		Args:      make([]*ArgABI, len(args)),
		Ret:       NewArgABI(dl, ret, o.scalarAttrs),
		Conv:      conv,
		CanUnwind: o.canUnwind,
	}
	for i, l := range args {
		fn.Args[i] = NewArgABI(dl, l, o.scalarAttrs)
	}

	if o.fixedCount >= 0 {
		if o.fixedCount > len(args) {
			panic(fmt.Sprintf("abi: fixed count %d exceeds %d arguments", o.fixedCount, len(args)))
		}
		fn.CVariadic = true
		fn.FixedCount = uint32(o.fixedCount)
	} else {
		fn.FixedCount = uint32(len(args))
	}
	return fn
}

// Freeze marks the classification complete. Further mode mutations
// panic. AdjustForArch freezes on success; calling Freeze directly is
// only needed when skipping architecture adjustment entirely.
func (fn *FnABI) Freeze() {
	fn.frozen = true
	fn.Ret.frozen = true
	for _, arg := range fn.Args {
		arg.frozen = true
	}
}

// Frozen reports whether the classification is complete.
func (fn *FnABI) Frozen() bool { return fn.frozen }

// EqABI reports whether two signatures compile to the same call
// sequence: every argument and the return value must agree on both
// layout and reduced mode. This detects whether two instantiations of a
// generic signature can share one calling sequence.
func (fn *FnABI) EqABI(o *FnABI) bool {
	if len(fn.Args) != len(o.Args) {
		return false
	}
	if fn.CVariadic != o.CVariadic || fn.FixedCount != o.FixedCount || fn.Conv != o.Conv {
		return false
	}
	if !fn.Ret.EqABI(o.Ret) {
		return false
	}
	for i := range fn.Args {
		if !fn.Args[i].EqABI(o.Args[i]) {
			return false
		}
	}
	return true
}

func (fn *FnABI) String() string {
	return fmt.Sprintf("fn(%d args, %s, ret %s)", len(fn.Args), fn.Conv, fn.Ret.Mode)
}
