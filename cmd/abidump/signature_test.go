package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/wippyai/callconv/layout"
)

func writeSignature(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sig.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSignatureScalars(t *testing.T) {
	path := writeSignature(t, `
conv: C
args:
  - i32
  - f64
ret: u8
`)
	sig, err := loadSignature(path)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Conv != "C" {
		t.Errorf("conv = %q, want C", sig.Conv)
	}
	if len(sig.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(sig.Args))
	}

	arg0, err := sig.Args[0].toType()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(arg0, layout.I32()) {
		t.Errorf("arg 0 = %v, want i32", arg0)
	}
	ret, err := sig.Ret.toType()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ret, layout.U8()) {
		t.Errorf("ret = %v, want u8", ret)
	}
}

func TestLoadSignatureCompound(t *testing.T) {
	path := writeSignature(t, `
args:
  - struct: [f64, f64]
  - array: {elem: i32, count: 3}
  - enum:
      - []
      - [i64, ptr]
variadic: true
fixed: 1
`)
	sig, err := loadSignature(path)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Conv != "C" {
		t.Errorf("missing conv should default to C, got %q", sig.Conv)
	}
	if !sig.Variadic || sig.Fixed != 1 {
		t.Errorf("variadic = %v fixed = %d, want true/1", sig.Variadic, sig.Fixed)
	}

	st, err := sig.Args[0].toType()
	if err != nil {
		t.Fatal(err)
	}
	want := layout.Struct{Fields: []layout.Field{
		{Type: layout.F64()},
		{Type: layout.F64()},
	}}
	if !reflect.DeepEqual(st, want) {
		t.Errorf("arg 0 = %v, want %v", st, want)
	}

	arr, err := sig.Args[1].toType()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(arr, layout.Array{Elem: layout.I32(), Count: 3}) {
		t.Errorf("arg 1 = %v, want [3]i32", arr)
	}

	en, err := sig.Args[2].toType()
	if err != nil {
		t.Fatal(err)
	}
	wantEnum := layout.Enum{Variants: []layout.Variant{
		{Fields: []layout.Type{}},
		{Fields: []layout.Type{layout.I64(), layout.Ptr{}}},
	}}
	if !reflect.DeepEqual(en, wantEnum) {
		t.Errorf("arg 2 = %v, want %v", en, wantEnum)
	}
}

func TestLoadSignatureErrors(t *testing.T) {
	if _, err := loadSignature(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeSignature(t, "args: [i7]\n")
	sig, err := loadSignature(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sig.Args[0].toType(); err == nil {
		t.Error("expected error for unknown scalar name")
	}

	path = writeSignature(t, "args: [{}]\n")
	sig, err = loadSignature(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sig.Args[0].toType(); err == nil {
		t.Error("expected error for empty type expression")
	}
}
