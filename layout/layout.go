package layout

import "fmt"

// Primitive is the machine-level class of a scalar.
type Primitive int

const (
	PrimInt Primitive = iota
	PrimPointer
	PrimFloat
)

func (p Primitive) String() string {
	switch p {
	case PrimInt:
		return "int"
	case PrimPointer:
		return "pointer"
	case PrimFloat:
		return "float"
	default:
		return fmt.Sprintf("Primitive(%d)", int(p))
	}
}

// Scalar is a value that fits in one machine register.
type Scalar struct {
	Prim   Primitive
	Signed bool // meaningful only for PrimInt
	Size   Size
}

// Align returns the scalar's natural alignment under dl.
func (s Scalar) Align(dl *DataLayout) Align {
	switch s.Prim {
	case PrimInt:
		return dl.IntAlign(s.Size.Bits())
	case PrimPointer:
		return dl.PointerAlign
	case PrimFloat:
		return dl.FloatAlign(s.Size.Bits())
	default:
		panic(fmt.Sprintf("layout: unknown primitive %v", s.Prim))
	}
}

// IsFloat reports whether the scalar lives in floating-point registers.
func (s Scalar) IsFloat() bool { return s.Prim == PrimFloat }

// Shape is the top-level classification of a layout. It is a closed
// union: exactly the five variants below implement it.
type Shape interface{ implShape() }

// ShapeUninhabited marks a type with no values.
type ShapeUninhabited struct{}

// ShapeScalar is a single scalar value.
type ShapeScalar struct {
	Scalar Scalar
}

// ShapeScalarPair is two scalars laid out consecutively (with alignment
// padding between them if required).
type ShapeScalarPair struct {
	A, B Scalar
}

// ShapeVector is a SIMD vector of Count copies of Elem.
type ShapeVector struct {
	Elem  Scalar
	Count uint64
}

// ShapeAggregate is everything else: structs, unions, arrays, enums.
type ShapeAggregate struct {
	Sized bool
}

func (ShapeUninhabited) implShape() {}
func (ShapeScalar) implShape()      {}
func (ShapeScalarPair) implShape()  {}
func (ShapeVector) implShape()      {}
func (ShapeAggregate) implShape()   {}

// FieldsShape describes how a layout's fields are arranged. Closed union.
type FieldsShape interface {
	implFieldsShape()
	// Count is the number of fields addressable through Field/FieldOffset.
	Count() int
}

// FieldsPrimitive is used for scalars: no fields at all.
type FieldsPrimitive struct{}

// FieldsArray is Count elements of a single layout at a fixed stride.
type FieldsArray struct {
	Stride Size
	Num    uint64
}

// FieldsUnion overlays NumFields fields at offset zero.
type FieldsUnion struct {
	NumFields int
}

// FieldsArbitrary assigns each field an explicit offset.
type FieldsArbitrary struct {
	Offsets []Size
}

func (FieldsPrimitive) implFieldsShape() {}
func (FieldsArray) implFieldsShape()     {}
func (FieldsUnion) implFieldsShape()     {}
func (FieldsArbitrary) implFieldsShape() {}

func (FieldsPrimitive) Count() int   { return 0 }
func (f FieldsArray) Count() int     { return int(f.Num) }
func (f FieldsUnion) Count() int     { return f.NumFields }
func (f FieldsArbitrary) Count() int { return len(f.Offsets) }

// Layout is the complete machine layout of one type: its shape, size,
// alignment, field arrangement, and (for multi-variant enums) the
// per-variant layouts. Layouts are immutable once built.
type Layout struct {
	Type   Type // the source type, for diagnostics; may be nil
	Shape  Shape
	Size   Size
	Align  Align
	Fields FieldsShape

	// FieldLayouts holds one layout per field for FieldsUnion and
	// FieldsArbitrary, and a single element layout for FieldsArray.
	FieldLayouts []*Layout

	// Variants is non-empty only for multi-variant enums. Each variant
	// layout records its payload fields at absolute offsets (past the
	// discriminant) and its own unpadded end as Size.
	Variants []*Layout
}

// Field returns the layout of field i.
func (l *Layout) Field(i int) *Layout {
	if _, ok := l.Fields.(FieldsArray); ok {
		return l.FieldLayouts[0]
	}
	return l.FieldLayouts[i]
}

// FieldOffset returns the byte offset of field i.
func (l *Layout) FieldOffset(i int) Size {
	switch f := l.Fields.(type) {
	case FieldsArray:
		return f.Stride * Size(i)
	case FieldsUnion:
		return 0
	case FieldsArbitrary:
		return f.Offsets[i]
	default:
		panic("layout: field offset on primitive layout")
	}
}

// IsSized reports whether the layout has a size known at compile time.
func (l *Layout) IsSized() bool {
	if a, ok := l.Shape.(ShapeAggregate); ok {
		return a.Sized
	}
	return true
}

// IsUnsized is the negation of IsSized.
func (l *Layout) IsUnsized() bool { return !l.IsSized() }

// IsZST reports whether the layout is sized and occupies no bytes.
func (l *Layout) IsZST() bool {
	return l.IsSized() && l.Size == 0
}

// Is1ZST reports whether the layout is a zero-sized type with alignment
// one. Only such fields are invisible to the homogeneous-aggregate walk;
// zero-sized fields with a larger alignment still participate.
func (l *Layout) Is1ZST() bool {
	return l.IsZST() && l.Align == 1
}

// IsAggregate reports whether the layout is an aggregate for ABI
// purposes. Scalar pairs count as aggregates.
func (l *Layout) IsAggregate() bool {
	switch l.Shape.(type) {
	case ShapeScalarPair, ShapeAggregate:
		return true
	default:
		return false
	}
}

// EqABI reports whether two layouts are interchangeable for call ABI
// purposes: same size, alignment, sizedness, and shape. Field structure
// does not participate; a one-field wrapper is ABI-equal to its payload.
// For unsized layouts the metadata ABI is not captured here.
func (l *Layout) EqABI(o *Layout) bool {
	if l == o {
		return true
	}
	if l == nil || o == nil {
		return false
	}
	return l.Size == o.Size &&
		l.Align == o.Align &&
		l.IsSized() == o.IsSized() &&
		shapeEq(l.Shape, o.Shape)
}

func shapeEq(a, b Shape) bool {
	switch av := a.(type) {
	case ShapeUninhabited:
		_, ok := b.(ShapeUninhabited)
		return ok
	case ShapeScalar:
		bv, ok := b.(ShapeScalar)
		return ok && av.Scalar == bv.Scalar
	case ShapeScalarPair:
		bv, ok := b.(ShapeScalarPair)
		return ok && av.A == bv.A && av.B == bv.B
	case ShapeVector:
		bv, ok := b.(ShapeVector)
		return ok && av == bv
	case ShapeAggregate:
		bv, ok := b.(ShapeAggregate)
		return ok && av.Sized == bv.Sized
	default:
		return false
	}
}
