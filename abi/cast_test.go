package abi_test

import (
	"testing"

	"github.com/wippyai/callconv/abi"
	"github.com/wippyai/callconv/layout"
)

func TestCastTargetSize(t *testing.T) {
	tests := []struct {
		name string
		cast abi.CastTarget
		want uint64
	}{
		{"single register", abi.CastReg(abi.RegI64()), 8},
		{"pair", abi.CastPair(abi.RegI64(), abi.RegI32()), 12},
		{"uniform exact", abi.CastUniform(abi.Uniform{Unit: abi.RegI64(), Total: 16}), 16},
		{"uniform rounds up", abi.CastUniform(abi.Uniform{Unit: abi.RegI64(), Total: 12}), 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cast.Size().Bytes(); got != tt.want {
				t.Errorf("size: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCastTargetPrefixAndTail(t *testing.T) {
	// Two explicit 8-byte prefix registers plus a 12-byte tail of
	// 4-byte units: 8 + 8 + 3*4 = 28.
	var cast abi.CastTarget
	r := abi.RegI64()
	cast.Prefix[0] = &r
	cast.Prefix[1] = &r
	cast.Rest = abi.Uniform{Unit: abi.RegI32(), Total: 12}

	if got := cast.Size().Bytes(); got != 28 {
		t.Errorf("size: got %d, want 28", got)
	}

	dl := &testTarget(t, "x86_64-unknown-linux").DataLayout
	if got := cast.Align(dl).Bytes(); got != 8 {
		t.Errorf("align: got %d, want 8", got)
	}
}

func TestCastTargetAlign(t *testing.T) {
	dl := &testTarget(t, "x86_64-unknown-linux").DataLayout

	u := abi.CastUniform(abi.Uniform{Unit: abi.RegI32(), Total: 12})
	if got := u.Align(dl).Bytes(); got != 4 {
		t.Errorf("uniform align: got %d, want 4", got)
	}

	v := abi.CastReg(abi.Reg{Kind: abi.RegVector, Size: 16})
	if got := v.Align(dl).Bytes(); got != 16 {
		t.Errorf("vector align: got %d, want 16", got)
	}
}

func TestCastTargetEqABI(t *testing.T) {
	a := abi.CastPair(abi.RegI64(), abi.RegF64())
	b := abi.CastPair(abi.RegI64(), abi.RegF64())
	if !a.EqABI(&b) {
		t.Error("identical pairs reported as ABI-distinct")
	}

	c := abi.CastPair(abi.RegI64(), abi.RegI64())
	if a.EqABI(&c) {
		t.Error("different tail registers reported as ABI-equal")
	}

	d := abi.CastReg(abi.RegI64())
	if a.EqABI(&d) {
		t.Error("pair and single register reported as ABI-equal")
	}
}

func TestUniformAlign(t *testing.T) {
	dl := &testTarget(t, "x86_64-unknown-linux").DataLayout

	u := abi.Uniform{Unit: abi.RegI64(), Total: 24}
	if got := u.Align(dl); got != layout.AlignFromBytes(8) {
		t.Errorf("align: got %v, want 8", got)
	}
}
