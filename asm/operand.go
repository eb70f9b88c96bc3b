// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strings"

	"github.com/beevik/go65c02/isa"
)

// An Operand pairs an addressing mode with its operand bytes. Operands are
// built only through the mode constructors below, so a value of this type
// always carries a payload whose width agrees with its mode.
type Operand struct {
	mode   isa.Mode
	lo, hi byte
}

// Implied returns the operand of an instruction that takes none.
func Implied() Operand {
	return Operand{mode: isa.IMP}
}

// Accumulator returns the operand of an instruction operating on the
// accumulator register.
func Accumulator() Operand {
	return Operand{mode: isa.ACC}
}

// Immediate returns an 8-bit immediate value operand.
func Immediate(v byte) Operand {
	return Operand{mode: isa.IMM, lo: v}
}

// ZeroPage returns a zero page address operand.
func ZeroPage(addr byte) Operand {
	return Operand{mode: isa.ZPG, lo: addr}
}

// ZeroPageX returns a zero page address operand indexed by X.
func ZeroPageX(addr byte) Operand {
	return Operand{mode: isa.ZPX, lo: addr}
}

// ZeroPageY returns a zero page address operand indexed by Y.
func ZeroPageY(addr byte) Operand {
	return Operand{mode: isa.ZPY, lo: addr}
}

// ZeroPageIndirect returns a zero page indirect address operand.
func ZeroPageIndirect(addr byte) Operand {
	return Operand{mode: isa.ZPI, lo: addr}
}

// IndirectX returns a pre-indexed zero page indirect address operand.
func IndirectX(addr byte) Operand {
	return Operand{mode: isa.IDX, lo: addr}
}

// IndirectY returns a post-indexed zero page indirect address operand.
func IndirectY(addr byte) Operand {
	return Operand{mode: isa.IDY, lo: addr}
}

// Relative returns a signed branch displacement operand. The displacement is
// packed by reinterpreting its bits as an unsigned byte.
func Relative(offset int8) Operand {
	return Operand{mode: isa.REL, lo: byte(offset)}
}

// ZeroPageRelative returns the two-part operand of the bit test-and-branch
// instructions: a zero page address followed by a signed branch
// displacement.
func ZeroPageRelative(addr byte, offset int8) Operand {
	return Operand{mode: isa.ZPR, lo: addr, hi: byte(offset)}
}

// Absolute returns a 16-bit address operand.
func Absolute(addr uint16) Operand {
	return Operand{mode: isa.ABS, lo: byte(addr), hi: byte(addr >> 8)}
}

// AbsoluteX returns a 16-bit address operand indexed by X.
func AbsoluteX(addr uint16) Operand {
	return Operand{mode: isa.ABX, lo: byte(addr), hi: byte(addr >> 8)}
}

// AbsoluteY returns a 16-bit address operand indexed by Y.
func AbsoluteY(addr uint16) Operand {
	return Operand{mode: isa.ABY, lo: byte(addr), hi: byte(addr >> 8)}
}

// Indirect returns a 16-bit indirect address operand.
func Indirect(addr uint16) Operand {
	return Operand{mode: isa.IND, lo: byte(addr), hi: byte(addr >> 8)}
}

// Mode returns the operand's addressing mode.
func (o Operand) Mode() isa.Mode {
	return o.mode
}

// payload appends the operand's bytes to b, low byte first.
func (o Operand) payload(b []byte) []byte {
	switch o.mode.OperandSize() {
	case 0:
		return b
	case 1:
		return append(b, o.lo)
	default:
		return append(b, o.lo, o.hi)
	}
}

// Encode converts a mnemonic and an operand into machine code: the opcode
// byte assigned to the (mnemonic, mode) pair followed by the operand bytes,
// 16-bit values packed little-endian. Encode is pure; a (mnemonic, mode)
// pair absent from the instruction table yields a *ModeError.
func Encode(name string, operand Operand) ([]byte, error) {
	inst := isa.Find(name, operand.mode)
	if inst == nil {
		return nil, &ModeError{Name: strings.ToUpper(name), Mode: operand.mode}
	}
	return operand.payload([]byte{inst.Opcode}), nil
}
