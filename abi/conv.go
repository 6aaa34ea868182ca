package abi

import (
	"fmt"

	"github.com/wippyai/callconv/errors"
)

// Conv identifies a calling convention.
type Conv int

const (
	// General language conventions.
	ConvC Conv = iota
	ConvRust

	ConvCold
	ConvPreserveMost
	ConvPreserveAll

	// Target-specific conventions.
	ConvArmAapcs
	ConvCCmseNonSecureCall

	ConvMsp430Intr

	ConvPtxKernel

	ConvX86Fastcall
	ConvX86Intr
	ConvX86Stdcall
	ConvX86ThisCall
	ConvX86VectorCall

	ConvX86_64SysV
	ConvX86_64Win64

	ConvAvrInterrupt
	ConvAvrNonBlockingInterrupt

	ConvRiscvInterruptMachine
	ConvRiscvInterruptSupervisor

	// ConvWasm is the non-C WebAssembly convention. It is never parsed
	// directly; targets produce it through their convention remap hook.
	ConvWasm

	// ConvKernel is the abstract GPU/wasm kernel-entry convention; a
	// target's remap hook collapses it to a concrete one.
	ConvKernel
)

var convNames = map[Conv]string{
	ConvC:                        "C",
	ConvRust:                     "Rust",
	ConvCold:                     "Cold",
	ConvPreserveMost:             "PreserveMost",
	ConvPreserveAll:              "PreserveAll",
	ConvArmAapcs:                 "ArmAapcs",
	ConvCCmseNonSecureCall:       "CCmseNonSecureCall",
	ConvMsp430Intr:               "Msp430Intr",
	ConvPtxKernel:                "PtxKernel",
	ConvX86Fastcall:              "X86Fastcall",
	ConvX86Intr:                  "X86Intr",
	ConvX86Stdcall:               "X86Stdcall",
	ConvX86ThisCall:              "X86ThisCall",
	ConvX86VectorCall:            "X86VectorCall",
	ConvX86_64SysV:               "X86_64SysV",
	ConvX86_64Win64:              "X86_64Win64",
	ConvAvrInterrupt:             "AvrInterrupt",
	ConvAvrNonBlockingInterrupt:  "AvrNonBlockingInterrupt",
	ConvRiscvInterruptMachine:    "RiscvInterrupt(machine)",
	ConvRiscvInterruptSupervisor: "RiscvInterrupt(supervisor)",
	ConvWasm:                     "Wasm",
	ConvKernel:                   "Kernel",
}

func (c Conv) String() string {
	if name, ok := convNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Conv(%d)", int(c))
}

// RiscvInterruptKind returns "machine" or "supervisor" for the RISC-V
// interrupt conventions, and "" otherwise.
func (c Conv) RiscvInterruptKind() string {
	switch c {
	case ConvRiscvInterruptMachine:
		return "machine"
	case ConvRiscvInterruptSupervisor:
		return "supervisor"
	default:
		return ""
	}
}

// ParseConv maps a convention name to its Conv value. The vocabulary is
// fixed; anything else fails with an error naming the value.
func ParseConv(s string) (Conv, error) {
	if s == "RustCold" {
		return ConvRust, nil
	}
	for conv, name := range convNames {
		if name == s {
			return conv, nil
		}
	}
	return 0, errors.InvalidConvention(s)
}
