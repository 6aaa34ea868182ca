// Package abi decides how each function argument and return value is
// physically passed for a given target architecture and calling
// convention: in which registers, indirectly through a pointer, or via a
// synthesized register-packed cast type.
//
// The package only classifies; it emits no code. A layout.Calculator (or
// any other layout source) supplies type shapes, NewFnABI computes the
// architecture-agnostic default passing modes, and AdjustForArch runs the
// single architecture rule module matching the target, mutating the modes
// in place. The resulting FnABI is frozen and handed to a code generator
// as-is.
//
//	calc := layout.NewCalculator(&tgt.DataLayout)
//	fn := abi.NewFnABI(&tgt.DataLayout,
//		[]*layout.Layout{calc.Calculate(argType)},
//		calc.Calculate(retType),
//		abi.ConvC)
//	if err := fn.AdjustForArch(tgt); err != nil {
//		// unknown architecture: the only recoverable failure here
//	}
//
// Classification is pure and deterministic. Contract violations such as
// an invalid mode transition, a conflicting extension request, or an
// unsupported register width panic; they indicate a bug in a rule
// module, never a property of the input.
package abi
