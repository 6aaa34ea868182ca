package layout

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in the input type language.
// The language is deliberately small: just enough structure to express
// the layouts a calling convention cares about.
type Type interface {
	implType()
	String() string
}

// Int is a fixed-width integer type.
type Int struct {
	Bits   uint64 // 8, 16, 32, 64, or 128
	Signed bool
}

// Ptr is a data pointer; its width comes from the target.
type Ptr struct{}

// Float is an IEEE floating-point type.
type Float struct {
	Bits uint64 // 32 or 64
}

// Unit is the empty type: zero size, byte alignment.
type Unit struct{}

// Never is the uninhabited type; values of it cannot exist.
type Never struct{}

// Field is one named member of a Struct or Union.
type Field struct {
	Name string
	Type Type
}

// Struct is a C-style record with sequentially laid out fields.
type Struct struct {
	Name   string
	Fields []Field
}

// Union overlays all of its fields at offset zero.
type Union struct {
	Name   string
	Fields []Field
}

// Array is a fixed-count sequence of one element type.
type Array struct {
	Elem  Type
	Count uint64
}

// Vector is a SIMD vector of a scalar element type.
type Vector struct {
	Elem  Type
	Count uint64
}

// Variant is one case of an Enum, holding zero or more payload types.
type Variant struct {
	Name   string
	Fields []Type
}

/// Enum is a tagged union: a discriminant followed by per-variant payloads.
type Enum struct {
	Name     string
	Variants []Variant
}

// OpenArray is an unsized trailing sequence ([T] with unknown length).
// Arguments of this type can only be passed indirectly, as a pointer
// plus length metadata.
type OpenArray struct {
	Elem Type
}

func (Int) implType()       {}
func (Ptr) implType()       {}
func (Float) implType()     {}
func (Unit) implType()      {}
func (Never) implType()     {}
func (Struct) implType()    {}
func (Union) implType()     {}
func (Array) implType()     {}
func (Vector) implType()    {}
func (Enum) implType()      {}
func (OpenArray) implType() {}

func (t Int) String() string {
	if t.Signed {
		return fmt.Sprintf("i%d", t.Bits)
	}
	return fmt.Sprintf("u%d", t.Bits)
}

func (Ptr) String() string { return "ptr" }

func (t Float) String() string { return fmt.Sprintf("f%d", t.Bits) }

func (Unit) String() string { return "unit" }

func (Never) String() string { return "never" }

func (t Struct) String() string {
	var b strings.Builder
	b.WriteString("struct ")
	if t.Name != "" {
		b.WriteString(t.Name)
		b.WriteByte(' ')
	}
	b.WriteByte('{')
	for i, f := range t.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Type.String())
	}
	b.WriteByte('}')
	return b.String()
}

func (t Union) String() string {
	var b strings.Builder
	b.WriteString("union ")
	if t.Name != "" {
		b.WriteString(t.Name)
		b.WriteByte(' ')
	}
	b.WriteByte('{')
	for i, f := range t.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Type.String())
	}
	b.WriteByte('}')
	return b.String()
}

func (t Array) String() string {
	return fmt.Sprintf("[%d]%s", t.Count, t.Elem)
}

func (t Vector) String() string {
	return fmt.Sprintf("vec<%d x %s>", t.Count, t.Elem)
}

func (t Enum) String() string {
	var b strings.Builder
	b.WriteString("enum ")
	if t.Name != "" {
		b.WriteString(t.Name)
		b.WriteByte(' ')
	}
	b.WriteByte('{')
	for i, v := range t.Variants {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, f := range v.Fields {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.String())
		}
		b.WriteByte(')')
	}
	b.WriteByte('}')
	return b.String()
}

func (t OpenArray) String() string {
	return fmt.Sprintf("[]%s", t.Elem)
}

// Convenience constructors for the common primitives.

func I8() Type   { return Int{Bits: 8, Signed: true} }
func I16() Type  { return Int{Bits: 16, Signed: true} }
func I32() Type  { return Int{Bits: 32, Signed: true} }
func I64() Type  { return Int{Bits: 64, Signed: true} }
func I128() Type { return Int{Bits: 128, Signed: true} }
func U8() Type   { return Int{Bits: 8} }
func U16() Type  { return Int{Bits: 16} }
func U32() Type  { return Int{Bits: 32} }
func U64() Type  { return Int{Bits: 64} }
func F32() Type  { return Float{Bits: 32} }
func F64() Type  { return Float{Bits: 64} }
