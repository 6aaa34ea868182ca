// Package callconv classifies function signatures against hardware
// calling conventions: for each argument and the return value, it
// decides whether the value travels in registers, as a scalar pair,
// through a synthetic cast type, or behind a pointer.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	callconv/       Root package with the one-call Classify helper
//	├── layout/     Type language, size/alignment math, layout calculator
//	├── target/     Built-in target descriptions and YAML target files
//	├── abi/        Passing modes, homogeneous-aggregate analysis,
//	│               per-architecture rule modules, dispatch
//	└── errors/     Structured error types for debugging
//
// # Quick Start
//
// Classify a signature for a built-in target:
//
//	tgt, ok := target.Lookup("x86_64-unknown-linux")
//	if !ok {
//	    log.Fatal("unknown target")
//	}
//
//	fn, err := callconv.Classify(tgt, callconv.Signature{
//	    Args: []layout.Type{layout.I32(), layout.F64()},
//	    Ret:  layout.I64(),
//	    Conv: abi.ConvC,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, arg := range fn.Args {
//	    fmt.Println(arg.Mode)
//	}
//
// The returned FnABI is frozen: it can be shared between goroutines and
// consumed as-is by a code generator.
//
// # Lower-level use
//
// Callers that already hold computed layouts can skip the root helper
// and drive the abi package directly: build a FnABI with abi.NewFnABI,
// then call AdjustForArch with the target. That path gives control over
// scalar attributes, variadic fixed counts, and unwind annotations.
package callconv
