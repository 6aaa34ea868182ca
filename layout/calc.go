package layout

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// cacheEntries bounds the per-calculator layout cache. Generic code
// tends to re-request a small working set of layouts, so a modest LRU
// keeps repeated classification runs cheap without growing unbounded.
const cacheEntries = 1024

// Calculator computes layouts for one data layout, caching results.
type Calculator struct {
	dl    *DataLayout
	cache *lru.Cache
}

// NewCalculator returns a Calculator for the given data layout.
func NewCalculator(dl *DataLayout) *Calculator {
	cache, err := lru.New(cacheEntries)
	if err != nil {
		panic(fmt.Sprintf("layout: cache init: %v", err))
	}
	return &Calculator{dl: dl, cache: cache}
}

// DataLayout returns the data layout this calculator computes against.
func (c *Calculator) DataLayout() *DataLayout { return c.dl }

// Calculate returns the layout of t.
func (c *Calculator) Calculate(t Type) *Layout {
	key := t.String()
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*Layout)
	}
	l := c.calculate(t)
	c.cache.Add(key, l)
	return l
}

func (c *Calculator) calculate(t Type) *Layout {
	switch typ := t.(type) {
	case Int:
		s := Scalar{Prim: PrimInt, Signed: typ.Signed, Size: SizeFromBits(typ.Bits)}
		return c.scalarLayout(t, s)
	case Ptr:
		s := Scalar{Prim: PrimPointer, Size: c.dl.PointerSize()}
		return c.scalarLayout(t, s)
	case Float:
		s := Scalar{Prim: PrimFloat, Size: SizeFromBits(typ.Bits)}
		return c.scalarLayout(t, s)
	case Unit:
		return &Layout{
			Type:   t,
			Shape:  ShapeAggregate{Sized: true},
			Size:   0,
			Align:  1,
			Fields: FieldsArbitrary{},
		}
	case Never:
		return &Layout{
			Type:   t,
			Shape:  ShapeUninhabited{},
			Size:   0,
			Align:  1,
			Fields: FieldsPrimitive{},
		}
	case Struct:
		return c.structLayout(t, typ.Fields)
	case Union:
		return c.unionLayout(typ)
	case Array:
		return c.arrayLayout(typ)
	case Vector:
		return c.vectorLayout(typ)
	case Enum:
		return c.enumLayout(typ)
	case OpenArray:
		elem := c.Calculate(typ.Elem)
		return &Layout{
			Type:         t,
			Shape:        ShapeAggregate{Sized: false},
			Size:         0,
			Align:        elem.Align,
			Fields:       FieldsArray{Stride: elem.Size, Num: 0},
			FieldLayouts: []*Layout{elem},
		}
	default:
		panic(fmt.Sprintf("layout: unknown type %T", t))
	}
}

func (c *Calculator) scalarLayout(t Type, s Scalar) *Layout {
	return &Layout{
		Type:   t,
		Shape:  ShapeScalar{Scalar: s},
		Size:   s.Size,
		Align:  s.Align(c.dl),
		Fields: FieldsPrimitive{},
	}
}

func (c *Calculator) structLayout(t Type, fields []Field) *Layout {
	offsets := make([]Size, len(fields))
	layouts := make([]*Layout, len(fields))
	offset := Size(0)
	align := Align(1)
	uninhabited := false
	for i, f := range fields {
		fl := c.Calculate(f.Type)
		if fl.IsUnsized() {
			panic(fmt.Sprintf("layout: unsized field %q in struct", f.Name))
		}
		if _, ok := fl.Shape.(ShapeUninhabited); ok {
			uninhabited = true
		}
		offset = offset.AlignTo(fl.Align)
		offsets[i] = offset
		layouts[i] = fl
		offset += fl.Size
		align = align.Max(fl.Align)
	}
	size := offset.AlignTo(align)

	l := &Layout{
		Type:         t,
		Size:         size,
		Align:        align,
		Fields:       FieldsArbitrary{Offsets: offsets},
		FieldLayouts: layouts,
	}
	switch {
	case uninhabited:
		l.Shape = ShapeUninhabited{}
	default:
		l.Shape = c.structShape(l)
	}
	return l
}

// structShape picks the most register-friendly shape for a struct:
// a lone scalar field makes the struct itself a scalar, two scalar
// fields make it a scalar pair. Everything else stays an aggregate.
func (c *Calculator) structShape(l *Layout) Shape {
	var present []int
	for i := range l.FieldLayouts {
		if !l.FieldLayouts[i].Is1ZST() {
			present = append(present, i)
		}
	}
	switch len(present) {
	case 1:
		f := l.FieldLayouts[present[0]]
		if l.FieldOffset(present[0]) == 0 && f.Size == l.Size {
			switch f.Shape.(type) {
			case ShapeScalar, ShapeScalarPair, ShapeVector:
				return f.Shape
			}
		}
	case 2:
		f0 := l.FieldLayouts[present[0]]
		f1 := l.FieldLayouts[present[1]]
		s0, ok0 := f0.Shape.(ShapeScalar)
		s1, ok1 := f1.Shape.(ShapeScalar)
		if ok0 && ok1 && l.FieldOffset(present[0]) == 0 &&
			l.FieldOffset(present[1]) == f0.Size.AlignTo(f1.Align) {
			return ShapeScalarPair{A: s0.Scalar, B: s1.Scalar}
		}
	}
	return ShapeAggregate{Sized: true}
}

func (c *Calculator) unionLayout(t Union) *Layout {
	layouts := make([]*Layout, len(t.Fields))
	size := Size(0)
	align := Align(1)
	for i, f := range t.Fields {
		fl := c.Calculate(f.Type)
		if fl.IsUnsized() {
			panic(fmt.Sprintf("layout: unsized field %q in union", f.Name))
		}
		layouts[i] = fl
		size = size.Max(fl.Size)
		align = align.Max(fl.Align)
	}
	return &Layout{
		Type:         t,
		Shape:        ShapeAggregate{Sized: true},
		Size:         size.AlignTo(align),
		Align:        align,
		Fields:       FieldsUnion{NumFields: len(t.Fields)},
		FieldLayouts: layouts,
	}
}

func (c *Calculator) arrayLayout(t Array) *Layout {
	elem := c.Calculate(t.Elem)
	if elem.IsUnsized() {
		panic("layout: array of unsized element")
	}
	stride := elem.Size.AlignTo(elem.Align)
	return &Layout{
		Type:         t,
		Shape:        ShapeAggregate{Sized: true},
		Size:         stride * Size(t.Count),
		Align:        elem.Align,
		Fields:       FieldsArray{Stride: stride, Num: t.Count},
		FieldLayouts: []*Layout{elem},
	}
}

func (c *Calculator) vectorLayout(t Vector) *Layout {
	elem := c.Calculate(t.Elem)
	es, ok := elem.Shape.(ShapeScalar)
	if !ok {
		panic(fmt.Sprintf("layout: vector element %s is not scalar", t.Elem))
	}
	if t.Count == 0 {
		panic("layout: zero-length vector")
	}
	size := elem.Size * Size(t.Count)
	return &Layout{
		Type:         t,
		Shape:        ShapeVector{Elem: es.Scalar, Count: t.Count},
		Size:         size,
		Align:        c.dl.VectorAlign(size),
		Fields:       FieldsArray{Stride: elem.Size, Num: t.Count},
		FieldLayouts: []*Layout{elem},
	}
}

func (c *Calculator) enumLayout(t Enum) *Layout {
	switch len(t.Variants) {
	case 0:
		return &Layout{
			Type:   t,
			Shape:  ShapeUninhabited{},
			Size:   0,
			Align:  1,
			Fields: FieldsPrimitive{},
		}
	case 1:
		fields := make([]Field, len(t.Variants[0].Fields))
		for i, ft := range t.Variants[0].Fields {
			fields[i] = Field{Name: t.Variants[0].Name, Type: ft}
		}
		return c.structLayout(t, fields)
	}

	tag := discriminant(len(t.Variants))
	tagLayout := c.scalarLayout(Int{Bits: tag.Size.Bits()}, tag)

	align := tagLayout.Align
	end := tagLayout.Size
	variants := make([]*Layout, len(t.Variants))
	for vi, v := range t.Variants {
		offsets := make([]Size, len(v.Fields))
		layouts := make([]*Layout, len(v.Fields))
		offset := tagLayout.Size
		valign := tagLayout.Align
		for i, ft := range v.Fields {
			fl := c.Calculate(ft)
			if fl.IsUnsized() {
				panic("layout: unsized field in enum variant")
			}
			offset = offset.AlignTo(fl.Align)
			offsets[i] = offset
			layouts[i] = fl
			offset += fl.Size
			valign = valign.Max(fl.Align)
		}
		variants[vi] = &Layout{
			Shape:        ShapeAggregate{Sized: true},
			Size:         offset,
			Align:        valign,
			Fields:       FieldsArbitrary{Offsets: offsets},
			FieldLayouts: layouts,
		}
		align = align.Max(valign)
		end = end.Max(offset)
	}

	return &Layout{
		Type:         t,
		Shape:        ShapeAggregate{Sized: true},
		Size:         end.AlignTo(align),
		Align:        align,
		Fields:       FieldsArbitrary{Offsets: []Size{0}},
		FieldLayouts: []*Layout{tagLayout},
		Variants:     variants,
	}
}

// discriminant picks the smallest unsigned tag that can number count
// variants.
func discriminant(count int) Scalar {
	switch {
	case count <= 1<<8:
		return Scalar{Prim: PrimInt, Size: 1}
	case count <= 1<<16:
		return Scalar{Prim: PrimInt, Size: 2}
	default:
		return Scalar{Prim: PrimInt, Size: 4}
	}
}
