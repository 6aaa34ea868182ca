package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/callconv/layout"
)

// signatureFile is the on-disk YAML description of one call signature.
//
//	conv: C
//	args:
//	  - i32
//	  - struct: [f64, f64]
//	ret: i64
//	variadic: true
//	fixed: 1
type signatureFile struct {
	Conv     string     `yaml:"conv"`
	Args     []typeSpec `yaml:"args"`
	Ret      *typeSpec  `yaml:"ret"`
	Variadic bool       `yaml:"variadic"`
	Fixed    int        `yaml:"fixed"`
}

// typeSpec is one type expression. Scalars use a shorthand name
// ("i32", "u8", "f64", "ptr", "unit", "never"); compound types use a
// single-key mapping (struct, union, array, vector, enum, open_array).
type typeSpec struct {
	name string

	Struct    []typeSpec   `yaml:"struct"`
	Union     []typeSpec   `yaml:"union"`
	Array     *repeatSpec  `yaml:"array"`
	Vector    *repeatSpec  `yaml:"vector"`
	Enum      [][]typeSpec `yaml:"enum"`
	OpenArray *typeSpec    `yaml:"open_array"`
}

type repeatSpec struct {
	Elem  typeSpec `yaml:"elem"`
	Count uint64   `yaml:"count"`
}

func (t *typeSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		t.name = value.Value
		return nil
	}
	type plain typeSpec
	return value.Decode((*plain)(t))
}

var scalarTypes = map[string]layout.Type{
	"i8":    layout.I8(),
	"i16":   layout.I16(),
	"i32":   layout.I32(),
	"i64":   layout.I64(),
	"i128":  layout.I128(),
	"u8":    layout.U8(),
	"u16":   layout.U16(),
	"u32":   layout.U32(),
	"u64":   layout.U64(),
	"f32":   layout.F32(),
	"f64":   layout.F64(),
	"ptr":   layout.Ptr{},
	"unit":  layout.Unit{},
	"never": layout.Never{},
}

func (t *typeSpec) toType() (layout.Type, error) {
	if t.name != "" {
		typ, ok := scalarTypes[t.name]
		if !ok {
			return nil, fmt.Errorf("unknown type %q", t.name)
		}
		return typ, nil
	}

	switch {
	case t.Struct != nil:
		fields, err := fieldList(t.Struct)
		if err != nil {
			return nil, err
		}
		return layout.Struct{Fields: fields}, nil
	case t.Union != nil:
		fields, err := fieldList(t.Union)
		if err != nil {
			return nil, err
		}
		return layout.Union{Fields: fields}, nil
	case t.Array != nil:
		elem, err := t.Array.Elem.toType()
		if err != nil {
			return nil, err
		}
		return layout.Array{Elem: elem, Count: t.Array.Count}, nil
	case t.Vector != nil:
		elem, err := t.Vector.Elem.toType()
		if err != nil {
			return nil, err
		}
		return layout.Vector{Elem: elem, Count: t.Vector.Count}, nil
	case t.Enum != nil:
		variants := make([]layout.Variant, len(t.Enum))
		for i, v := range t.Enum {
			payload := make([]layout.Type, len(v))
			for j := range v {
				typ, err := v[j].toType()
				if err != nil {
					return nil, err
				}
				payload[j] = typ
			}
			variants[i] = layout.Variant{Fields: payload}
		}
		return layout.Enum{Variants: variants}, nil
	case t.OpenArray != nil:
		elem, err := t.OpenArray.toType()
		if err != nil {
			return nil, err
		}
		return layout.OpenArray{Elem: elem}, nil
	}
	return nil, fmt.Errorf("empty type expression")
}

func fieldList(specs []typeSpec) ([]layout.Field, error) {
	fields := make([]layout.Field, len(specs))
	for i := range specs {
		typ, err := specs[i].toType()
		if err != nil {
			return nil, err
		}
		fields[i] = layout.Field{Type: typ}
	}
	return fields, nil
}

func loadSignature(path string) (*signatureFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signature: %w", err)
	}
	var sig signatureFile
	if err := yaml.Unmarshal(data, &sig); err != nil {
		return nil, fmt.Errorf("parse signature: %w", err)
	}
	if sig.Conv == "" {
		sig.Conv = "C"
	}
	return &sig, nil
}
