package layout_test

import (
	"testing"

	"github.com/wippyai/callconv/layout"
)

func testDataLayout() *layout.DataLayout {
	return &layout.DataLayout{
		PointerWidth:   64,
		I8Align:        1,
		I16Align:       2,
		I32Align:       4,
		I64Align:       8,
		I128Align:      16,
		F32Align:       4,
		F64Align:       8,
		PointerAlign:   8,
		AggregateAlign: 1,
		MaxVectorAlign: 16,
	}
}

func structOf(types ...layout.Type) layout.Struct {
	fields := make([]layout.Field, len(types))
	for i, t := range types {
		fields[i] = layout.Field{Type: t}
	}
	return layout.Struct{Fields: fields}
}

func unionOf(types ...layout.Type) layout.Union {
	fields := make([]layout.Field, len(types))
	for i, t := range types {
		fields[i] = layout.Field{Type: t}
	}
	return layout.Union{Fields: fields}
}

func TestScalarLayouts(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	tests := []struct {
		name  string
		typ   layout.Type
		size  uint64
		align uint64
	}{
		{"i8", layout.I8(), 1, 1},
		{"i16", layout.I16(), 2, 2},
		{"i32", layout.I32(), 4, 4},
		{"i64", layout.I64(), 8, 8},
		{"i128", layout.I128(), 16, 16},
		{"f32", layout.F32(), 4, 4},
		{"f64", layout.F64(), 8, 8},
		{"ptr", layout.Ptr{}, 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := calc.Calculate(tt.typ)
			if l.Size.Bytes() != tt.size {
				t.Errorf("size: got %d, want %d", l.Size.Bytes(), tt.size)
			}
			if l.Align.Bytes() != tt.align {
				t.Errorf("align: got %d, want %d", l.Align.Bytes(), tt.align)
			}
			if _, ok := l.Shape.(layout.ShapeScalar); !ok {
				t.Errorf("shape: got %T, want ShapeScalar", l.Shape)
			}
		})
	}
}

func TestStructOffsets(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	l := calc.Calculate(structOf(layout.I8(), layout.I32(), layout.I8()))
	if l.Size.Bytes() != 12 {
		t.Errorf("size: got %d, want 12", l.Size.Bytes())
	}
	if l.Align.Bytes() != 4 {
		t.Errorf("align: got %d, want 4", l.Align.Bytes())
	}
	wantOffsets := []uint64{0, 4, 8}
	for i, want := range wantOffsets {
		if got := l.FieldOffset(i).Bytes(); got != want {
			t.Errorf("field %d offset: got %d, want %d", i, got, want)
		}
	}
	if _, ok := l.Shape.(layout.ShapeAggregate); !ok {
		t.Errorf("shape: got %T, want ShapeAggregate", l.Shape)
	}
}

func TestNewtypeCollapsesToScalar(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	l := calc.Calculate(structOf(layout.F64()))
	shape, ok := l.Shape.(layout.ShapeScalar)
	if !ok {
		t.Fatalf("shape: got %T, want ShapeScalar", l.Shape)
	}
	if shape.Scalar.Prim != layout.PrimFloat {
		t.Errorf("prim: got %v, want float", shape.Scalar.Prim)
	}
	if l.Size.Bytes() != 8 {
		t.Errorf("size: got %d, want 8", l.Size.Bytes())
	}
}

func TestZeroSizedFieldsIgnoredByShape(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	l := calc.Calculate(structOf(layout.Unit{}, layout.I64()))
	if _, ok := l.Shape.(layout.ShapeScalar); !ok {
		t.Errorf("shape: got %T, want ShapeScalar", l.Shape)
	}
	if l.Size.Bytes() != 8 {
		t.Errorf("size: got %d, want 8", l.Size.Bytes())
	}
}

func TestScalarPairShape(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	l := calc.Calculate(structOf(layout.F32(), layout.I32()))
	shape, ok := l.Shape.(layout.ShapeScalarPair)
	if !ok {
		t.Fatalf("shape: got %T, want ShapeScalarPair", l.Shape)
	}
	if shape.A.Prim != layout.PrimFloat || shape.B.Prim != layout.PrimInt {
		t.Errorf("pair: got (%v, %v), want (float, int)", shape.A.Prim, shape.B.Prim)
	}
	if l.Size.Bytes() != 8 {
		t.Errorf("size: got %d, want 8", l.Size.Bytes())
	}
}

func TestUnionLayout(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	l := calc.Calculate(unionOf(layout.I32(), layout.F64()))
	if l.Size.Bytes() != 8 {
		t.Errorf("size: got %d, want 8", l.Size.Bytes())
	}
	if l.Align.Bytes() != 8 {
		t.Errorf("align: got %d, want 8", l.Align.Bytes())
	}
	fields, ok := l.Fields.(layout.FieldsUnion)
	if !ok {
		t.Fatalf("fields: got %T, want FieldsUnion", l.Fields)
	}
	if fields.NumFields != 2 {
		t.Errorf("num fields: got %d, want 2", fields.NumFields)
	}
	for i := 0; i < 2; i++ {
		if off := l.FieldOffset(i); off != 0 {
			t.Errorf("field %d offset: got %v, want 0", i, off)
		}
	}
}

func TestArrayLayout(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	l := calc.Calculate(layout.Array{Elem: layout.I32(), Count: 4})
	if l.Size.Bytes() != 16 {
		t.Errorf("size: got %d, want 16", l.Size.Bytes())
	}
	if l.Align.Bytes() != 4 {
		t.Errorf("align: got %d, want 4", l.Align.Bytes())
	}
	if got := l.FieldOffset(2).Bytes(); got != 8 {
		t.Errorf("element 2 offset: got %d, want 8", got)
	}
}

func TestVectorLayout(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	l := calc.Calculate(layout.Vector{Elem: layout.F32(), Count: 4})
	shape, ok := l.Shape.(layout.ShapeVector)
	if !ok {
		t.Fatalf("shape: got %T, want ShapeVector", l.Shape)
	}
	if shape.Count != 4 {
		t.Errorf("count: got %d, want 4", shape.Count)
	}
	if l.Size.Bytes() != 16 {
		t.Errorf("size: got %d, want 16", l.Size.Bytes())
	}
	if l.Align.Bytes() != 16 {
		t.Errorf("align: got %d, want 16", l.Align.Bytes())
	}
}

func TestEnumLayout(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	enum := layout.Enum{Variants: []layout.Variant{
		{Name: "A", Fields: []layout.Type{layout.I32()}},
		{Name: "B", Fields: []layout.Type{layout.F32()}},
		{Name: "C"},
	}}
	l := calc.Calculate(enum)
	if l.Size.Bytes() != 8 {
		t.Errorf("size: got %d, want 8", l.Size.Bytes())
	}
	if l.Align.Bytes() != 4 {
		t.Errorf("align: got %d, want 4", l.Align.Bytes())
	}
	if len(l.Variants) != 3 {
		t.Fatalf("variants: got %d, want 3", len(l.Variants))
	}
	// The payload starts after the one-byte tag, aligned to the field.
	if got := l.Variants[0].FieldOffset(0).Bytes(); got != 4 {
		t.Errorf("variant payload offset: got %d, want 4", got)
	}
	if got := l.Variants[0].Size.Bytes(); got != 8 {
		t.Errorf("variant unpadded end: got %d, want 8", got)
	}
}

func TestEnumDegenerateCases(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	empty := calc.Calculate(layout.Enum{})
	if _, ok := empty.Shape.(layout.ShapeUninhabited); !ok {
		t.Errorf("empty enum shape: got %T, want ShapeUninhabited", empty.Shape)
	}

	single := calc.Calculate(layout.Enum{Variants: []layout.Variant{
		{Name: "Only", Fields: []layout.Type{layout.I64()}},
	}})
	if _, ok := single.Shape.(layout.ShapeScalar); !ok {
		t.Errorf("single-variant enum shape: got %T, want ShapeScalar", single.Shape)
	}
	if single.Size.Bytes() != 8 {
		t.Errorf("single-variant enum size: got %d, want 8", single.Size.Bytes())
	}
}

func TestUnsizedLayouts(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	l := calc.Calculate(layout.OpenArray{Elem: layout.I32()})
	if l.IsSized() {
		t.Error("open array reported as sized")
	}
	if l.IsZST() {
		t.Error("unsized layout reported as ZST")
	}
}

func TestZSTPredicates(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	unit := calc.Calculate(layout.Unit{})
	if !unit.IsZST() || !unit.Is1ZST() {
		t.Errorf("unit: IsZST=%v Is1ZST=%v, want true/true", unit.IsZST(), unit.Is1ZST())
	}

	emptyArr := calc.Calculate(layout.Array{Elem: layout.I64(), Count: 0})
	if !emptyArr.IsZST() {
		t.Error("empty array not a ZST")
	}
	if emptyArr.Is1ZST() {
		t.Error("empty i64 array has align 8 but reported as 1-ZST")
	}
}

func TestLayoutEqABI(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	a := calc.Calculate(structOf(layout.I32(), layout.I32(), layout.I32()))
	b := layout.NewCalculator(testDataLayout()).Calculate(structOf(layout.I32(), layout.I32(), layout.I32()))
	if !a.EqABI(b) {
		t.Error("identical structs from separate calculators reported as ABI-distinct")
	}

	// A one-field wrapper is ABI-equal to its payload.
	wrapped := calc.Calculate(structOf(layout.I64()))
	if !wrapped.EqABI(calc.Calculate(layout.I64())) {
		t.Error("newtype wrapper reported as ABI-distinct from its payload")
	}

	c := calc.Calculate(structOf(layout.I32(), layout.F32()))
	d := calc.Calculate(structOf(layout.I32(), layout.I32()))
	if c.EqABI(d) {
		t.Error("int/float pair difference reported as ABI-equal")
	}

	if a.EqABI(calc.Calculate(structOf(layout.I32(), layout.I32()))) {
		t.Error("different sizes reported as ABI-equal")
	}
}

func TestCalculatorCaches(t *testing.T) {
	calc := layout.NewCalculator(testDataLayout())

	typ := structOf(layout.I32(), layout.F64())
	first := calc.Calculate(typ)
	second := calc.Calculate(typ)
	if first != second {
		t.Error("repeated calculation did not hit the cache")
	}
}
