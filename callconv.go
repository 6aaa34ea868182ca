package callconv

import (
	"github.com/wippyai/callconv/abi"
	"github.com/wippyai/callconv/layout"
	"github.com/wippyai/callconv/target"
)

// Signature is the source-level description handed to Classify.
type Signature struct {
	Args []layout.Type
	Ret  layout.Type
	Conv abi.Conv

	// Variadic marks a C-variadic signature; FixedArgs is then the
	// number of non-variadic leading arguments.
	Variadic  bool
	FixedArgs int

	CanUnwind bool
}

// Classify computes the full calling-convention classification of sig
// on t: layouts for every type, the default modes, and the target
// architecture's adjustments. The result is frozen.
func Classify(t *target.Target, sig Signature) (*abi.FnABI, error) {
	calc := layout.NewCalculator(&t.DataLayout)

	args := make([]*layout.Layout, len(sig.Args))
	for i, typ := range sig.Args {
		args[i] = calc.Calculate(typ)
	}
	ret := sig.Ret
	if ret == nil {
		ret = layout.Unit{}
	}

	var opts []abi.FnOption
	if sig.Variadic {
		opts = append(opts, abi.WithVariadic(sig.FixedArgs))
	}
	if sig.CanUnwind {
		opts = append(opts, abi.WithUnwind())
	}

	fn := abi.NewFnABI(&t.DataLayout, args, calc.Calculate(ret), sig.Conv, opts...)
	if err := fn.AdjustForArch(t); err != nil {
		return nil, err
	}
	return fn, nil
}
