package abi

import (
	"errors"
	"fmt"

	"github.com/wippyai/callconv/layout"
)

// ErrHeterogeneous reports that an aggregate's leaf fields do not all
// share one register kind and size. It is a classification outcome, not
// a fault: callers take it as the cue to fall back to indirect passing.
var ErrHeterogeneous = errors.New("abi: heterogeneous aggregate")

// HomogeneousAggregate is the result of the homogeneous-aggregate walk:
// either every leaf field is passed the same way (in Unit-kind
// registers), or the type carries no data at all.
type HomogeneousAggregate struct {
	unit  Reg
	valid bool
}

// Homogeneous wraps a unit register.
func Homogeneous(unit Reg) HomogeneousAggregate {
	return HomogeneousAggregate{unit: unit, valid: true}
}

// NoData is the result for types without leaf fields.
func NoData() HomogeneousAggregate {
	return HomogeneousAggregate{}
}

// Unit returns the homogeneous unit register, if there is one.
func (h HomogeneousAggregate) Unit() (Reg, bool) {
	return h.unit, h.valid
}

// merge combines the classifications of two sibling fields. NoData is
// absorbed by anything; two homogeneous results must agree exactly.
func (h HomogeneousAggregate) merge(o HomogeneousAggregate) (HomogeneousAggregate, error) {
	switch {
	case !o.valid:
		return h, nil
	case !h.valid:
		return o, nil
	case h.unit == o.unit:
		return h, nil
	default:
		return HomogeneousAggregate{}, ErrHeterogeneous
	}
}

// ClassifyHomogeneous decides whether l decomposes into identical
// same-kind registers, so that architecture rules can flatten it across
// registers instead of passing it through memory. It returns
// ErrHeterogeneous when the leaf fields disagree, when padding breaks
// contiguity, or when the type is uninhabited or unsized.
func ClassifyHomogeneous(dl *layout.DataLayout, l *layout.Layout) (HomogeneousAggregate, error) {
	switch shape := l.Shape.(type) {
	case layout.ShapeUninhabited:
		return HomogeneousAggregate{}, ErrHeterogeneous

	case layout.ShapeScalar:
		// The primitive for this algorithm.
		kind := RegInteger
		if shape.Scalar.IsFloat() {
			kind = RegFloat
		}
		return Homogeneous(Reg{Kind: kind, Size: l.Size}), nil

	case layout.ShapeVector:
		if l.IsZST() {
			panic("abi: zero-sized vector layout")
		}
		return Homogeneous(Reg{Kind: RegVector, Size: l.Size}), nil

	case layout.ShapeScalarPair, layout.ShapeAggregate:
		if agg, ok := shape.(layout.ShapeAggregate); ok && !agg.Sized {
			return HomogeneousAggregate{}, ErrHeterogeneous
		}

		result, total, err := homogeneousFieldsAt(dl, l, 0)
		if err != nil {
			return HomogeneousAggregate{}, err
		}

		// Treat enum variants like union members: the discriminant is
		// assumed to sit at the start of every variant, so its presence
		// alone does not break contiguity. The total size is the
		// maximum across variants.
		if len(l.Variants) > 0 {
			variantStart := total
			for _, variant := range l.Variants {
				vres, vtotal, err := homogeneousFieldsAt(dl, variant, variantStart)
				if err != nil {
					return HomogeneousAggregate{}, err
				}
				result, err = result.merge(vres)
				if err != nil {
					return HomogeneousAggregate{}, err
				}
				total = total.Max(vtotal)
			}
		}

		// Any unaccounted trailing padding disqualifies the type.
		if total != l.Size {
			return HomogeneousAggregate{}, ErrHeterogeneous
		}
		if _, ok := result.Unit(); ok {
			if total == 0 {
				panic("abi: homogeneous aggregate with zero size")
			}
		} else if total != 0 {
			panic("abi: no-data aggregate with nonzero size")
		}
		return result, nil

	default:
		panic(fmt.Sprintf("abi: unknown shape %T", l.Shape))
	}
}

// homogeneousFieldsAt walks one field arrangement, starting the running
// offset at start (nonzero only for enum variants, where the
// discriminant occupies the prefix).
func homogeneousFieldsAt(dl *layout.DataLayout, l *layout.Layout, start layout.Size) (HomogeneousAggregate, layout.Size, error) {
	var isUnion bool
	switch fields := l.Fields.(type) {
	case layout.FieldsPrimitive:
		panic("abi: aggregate with primitive field shape")
	case layout.FieldsArray:
		if start != 0 {
			panic("abi: array variant with nonzero start offset")
		}
		// All elements are identical; classifying the first covers the
		// whole array.
		if fields.Num == 0 {
			return NoData(), l.Size, nil
		}
		res, err := ClassifyHomogeneous(dl, l.Field(0))
		if err != nil {
			return HomogeneousAggregate{}, 0, err
		}
		return res, l.Size, nil
	case layout.FieldsUnion:
		isUnion = true
	case layout.FieldsArbitrary:
	}

	result := NoData()
	total := start

	for i := 0; i < l.Fields.Count(); i++ {
		field := l.Field(i)
		if field.Is1ZST() {
			// No data here and no impact on layout, can be ignored.
			// Zero-sized fields with larger alignment still take part
			// in the offset checks below.
			continue
		}

		if !isUnion && total != l.FieldOffset(i) {
			// This field isn't just after the previous one we
			// considered; padding or reordering disqualifies the type.
			return HomogeneousAggregate{}, 0, ErrHeterogeneous
		}

		fieldResult, err := ClassifyHomogeneous(dl, field)
		if err != nil {
			return HomogeneousAggregate{}, 0, err
		}
		result, err = result.merge(fieldResult)
		if err != nil {
			return HomogeneousAggregate{}, 0, err
		}

		// Track the offset without padding. Union fields all start at
		// zero, so only the widest matters.
		if isUnion {
			total = total.Max(field.Size)
		} else {
			total += field.Size
		}
	}

	return result, total, nil
}
