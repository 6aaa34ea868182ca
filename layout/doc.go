// Package layout computes and describes the machine-level layout of types:
// sizes, alignments, field offsets, and the shape classification
// (scalar, scalar pair, vector, aggregate) that the abi package consumes.
//
// The package has three parts:
//
//   - size.go: Size and Align primitives plus the DataLayout alignment table.
//   - types.go: a small type language for describing C-like types.
//   - calc.go: a caching Calculator that turns a Type into a Layout for a
//     given data layout.
//
// A Layout is immutable once built. Calculators may be shared across
// goroutines for reads after construction, but Calculate itself is not
// safe for concurrent use; give each classification pipeline its own
// Calculator or synchronize externally.
package layout
