// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package isa holds the W65C02S instruction set data consulted by the
// assembler: the full table of valid (mnemonic, addressing mode) pairs and
// their opcode values, including the Rockwell/WDC bit instructions
// (BBRn, BBSn, RMBn, SMBn) and the WAI and STP control instructions.
package isa

import "strings"

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	REL             // Relative
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect)
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ACC             // Accumulator (no operand)
	ZPI             // (Zero Page Indirect)
	ZPR             // Zero Page, Relative
)

var modeName = []string{
	"IMM",
	"IMP",
	"REL",
	"ZPG",
	"ZPX",
	"ZPY",
	"ABS",
	"ABX",
	"ABY",
	"IND",
	"IDX",
	"IDY",
	"ACC",
	"ZPI",
	"ZPR",
}

// String returns the conventional three-letter name of the addressing mode.
func (m Mode) String() string {
	if int(m) >= len(modeName) {
		return "???"
	}
	return modeName[m]
}

var modeSize = []byte{
	1, // IMM
	0, // IMP
	1, // REL
	1, // ZPG
	1, // ZPX
	1, // ZPY
	2, // ABS
	2, // ABX
	2, // ABY
	2, // IND
	1, // IDX
	1, // IDY
	0, // ACC
	1, // ZPI
	2, // ZPR (zero page address + relative offset)
}

// OperandSize returns the number of operand bytes that follow the opcode
// byte for the addressing mode.
func (m Mode) OperandSize() int {
	return int(modeSize[m])
}

// Opcode data for a (mnemonic, mode) pair
type opcodeData struct {
	name     string // all-caps mnemonic
	mode     Mode   // addressing mode
	opcode   byte   // opcode hex value
	cycles   byte   // number of CPU cycles to execute the instruction
	bpcycles byte   // additional CPU cycles if a page boundary is crossed
}

// All valid (mnemonic, mode) pairs on the W65C02S
var data = []opcodeData{
	{"LDA", IMM, 0xa9, 2, 0},
	{"LDA", ZPG, 0xa5, 3, 0},
	{"LDA", ZPX, 0xb5, 4, 0},
	{"LDA", ABS, 0xad, 4, 0},
	{"LDA", ABX, 0xbd, 4, 1},
	{"LDA", ABY, 0xb9, 4, 1},
	{"LDA", IDX, 0xa1, 6, 0},
	{"LDA", IDY, 0xb1, 5, 1},
	{"LDA", ZPI, 0xb2, 5, 0},

	{"LDX", IMM, 0xa2, 2, 0},
	{"LDX", ZPG, 0xa6, 3, 0},
	{"LDX", ZPY, 0xb6, 4, 0},
	{"LDX", ABS, 0xae, 4, 0},
	{"LDX", ABY, 0xbe, 4, 1},

	{"LDY", IMM, 0xa0, 2, 0},
	{"LDY", ZPG, 0xa4, 3, 0},
	{"LDY", ZPX, 0xb4, 4, 0},
	{"LDY", ABS, 0xac, 4, 0},
	{"LDY", ABX, 0xbc, 4, 1},

	{"STA", ZPG, 0x85, 3, 0},
	{"STA", ZPX, 0x95, 4, 0},
	{"STA", ABS, 0x8d, 4, 0},
	{"STA", ABX, 0x9d, 5, 0},
	{"STA", ABY, 0x99, 5, 0},
	{"STA", IDX, 0x81, 6, 0},
	{"STA", IDY, 0x91, 6, 0},
	{"STA", ZPI, 0x92, 5, 0},

	{"STX", ZPG, 0x86, 3, 0},
	{"STX", ZPY, 0x96, 4, 0},
	{"STX", ABS, 0x8e, 4, 0},

	{"STY", ZPG, 0x84, 3, 0},
	{"STY", ZPX, 0x94, 4, 0},
	{"STY", ABS, 0x8c, 4, 0},

	{"STZ", ZPG, 0x64, 3, 0},
	{"STZ", ZPX, 0x74, 4, 0},
	{"STZ", ABS, 0x9c, 4, 0},
	{"STZ", ABX, 0x9e, 5, 0},

	{"ADC", IMM, 0x69, 2, 0},
	{"ADC", ZPG, 0x65, 3, 0},
	{"ADC", ZPX, 0x75, 4, 0},
	{"ADC", ABS, 0x6d, 4, 0},
	{"ADC", ABX, 0x7d, 4, 1},
	{"ADC", ABY, 0x79, 4, 1},
	{"ADC", IDX, 0x61, 6, 0},
	{"ADC", IDY, 0x71, 5, 1},
	{"ADC", ZPI, 0x72, 5, 1},

	{"SBC", IMM, 0xe9, 2, 0},
	{"SBC", ZPG, 0xe5, 3, 0},
	{"SBC", ZPX, 0xf5, 4, 0},
	{"SBC", ABS, 0xed, 4, 0},
	{"SBC", ABX, 0xfd, 4, 1},
	{"SBC", ABY, 0xf9, 4, 1},
	{"SBC", IDX, 0xe1, 6, 0},
	{"SBC", IDY, 0xf1, 5, 1},
	{"SBC", ZPI, 0xf2, 5, 1},

	{"CMP", IMM, 0xc9, 2, 0},
	{"CMP", ZPG, 0xc5, 3, 0},
	{"CMP", ZPX, 0xd5, 4, 0},
	{"CMP", ABS, 0xcd, 4, 0},
	{"CMP", ABX, 0xdd, 4, 1},
	{"CMP", ABY, 0xd9, 4, 1},
	{"CMP", IDX, 0xc1, 6, 0},
	{"CMP", IDY, 0xd1, 5, 1},
	{"CMP", ZPI, 0xd2, 5, 0},

	{"CPX", IMM, 0xe0, 2, 0},
	{"CPX", ZPG, 0xe4, 3, 0},
	{"CPX", ABS, 0xec, 4, 0},

	{"CPY", IMM, 0xc0, 2, 0},
	{"CPY", ZPG, 0xc4, 3, 0},
	{"CPY", ABS, 0xcc, 4, 0},

	{"BIT", IMM, 0x89, 2, 0},
	{"BIT", ZPG, 0x24, 3, 0},
	{"BIT", ZPX, 0x34, 4, 0},
	{"BIT", ABS, 0x2c, 4, 0},
	{"BIT", ABX, 0x3c, 4, 1},

	{"CLC", IMP, 0x18, 2, 0},
	{"SEC", IMP, 0x38, 2, 0},
	{"CLI", IMP, 0x58, 2, 0},
	{"SEI", IMP, 0x78, 2, 0},
	{"CLD", IMP, 0xd8, 2, 0},
	{"SED", IMP, 0xf8, 2, 0},
	{"CLV", IMP, 0xb8, 2, 0},

	{"BCC", REL, 0x90, 2, 1},
	{"BCS", REL, 0xb0, 2, 1},
	{"BEQ", REL, 0xf0, 2, 1},
	{"BNE", REL, 0xd0, 2, 1},
	{"BMI", REL, 0x30, 2, 1},
	{"BPL", REL, 0x10, 2, 1},
	{"BVC", REL, 0x50, 2, 1},
	{"BVS", REL, 0x70, 2, 1},
	{"BRA", REL, 0x80, 2, 1},

	{"BRK", IMP, 0x00, 7, 0},

	{"AND", IMM, 0x29, 2, 0},
	{"AND", ZPG, 0x25, 3, 0},
	{"AND", ZPX, 0x35, 4, 0},
	{"AND", ABS, 0x2d, 4, 0},
	{"AND", ABX, 0x3d, 4, 1},
	{"AND", ABY, 0x39, 4, 1},
	{"AND", IDX, 0x21, 6, 0},
	{"AND", IDY, 0x31, 5, 1},
	{"AND", ZPI, 0x32, 5, 0},

	{"ORA", IMM, 0x09, 2, 0},
	{"ORA", ZPG, 0x05, 3, 0},
	{"ORA", ZPX, 0x15, 4, 0},
	{"ORA", ABS, 0x0d, 4, 0},
	{"ORA", ABX, 0x1d, 4, 1},
	{"ORA", ABY, 0x19, 4, 1},
	{"ORA", IDX, 0x01, 6, 0},
	{"ORA", IDY, 0x11, 5, 1},
	{"ORA", ZPI, 0x12, 5, 0},

	{"EOR", IMM, 0x49, 2, 0},
	{"EOR", ZPG, 0x45, 3, 0},
	{"EOR", ZPX, 0x55, 4, 0},
	{"EOR", ABS, 0x4d, 4, 0},
	{"EOR", ABX, 0x5d, 4, 1},
	{"EOR", ABY, 0x59, 4, 1},
	{"EOR", IDX, 0x41, 6, 0},
	{"EOR", IDY, 0x51, 5, 1},
	{"EOR", ZPI, 0x52, 5, 0},

	{"INC", ZPG, 0xe6, 5, 0},
	{"INC", ZPX, 0xf6, 6, 0},
	{"INC", ABS, 0xee, 6, 0},
	{"INC", ABX, 0xfe, 7, 0},
	{"INC", ACC, 0x1a, 2, 0},

	{"DEC", ZPG, 0xc6, 5, 0},
	{"DEC", ZPX, 0xd6, 6, 0},
	{"DEC", ABS, 0xce, 6, 0},
	{"DEC", ABX, 0xde, 7, 0},
	{"DEC", ACC, 0x3a, 2, 0},

	{"INX", IMP, 0xe8, 2, 0},
	{"INY", IMP, 0xc8, 2, 0},

	{"DEX", IMP, 0xca, 2, 0},
	{"DEY", IMP, 0x88, 2, 0},

	// JMP (a,x) shares the ABX classification; it encodes identically.
	{"JMP", ABS, 0x4c, 3, 0},
	{"JMP", ABX, 0x7c, 6, 0},
	{"JMP", IND, 0x6c, 5, 0},

	{"JSR", ABS, 0x20, 6, 0},
	{"RTS", IMP, 0x60, 6, 0},

	{"RTI", IMP, 0x40, 6, 0},

	{"NOP", IMP, 0xea, 2, 0},

	{"TAX", IMP, 0xaa, 2, 0},
	{"TXA", IMP, 0x8a, 2, 0},
	{"TAY", IMP, 0xa8, 2, 0},
	{"TYA", IMP, 0x98, 2, 0},
	{"TXS", IMP, 0x9a, 2, 0},
	{"TSX", IMP, 0xba, 2, 0},

	{"TRB", ZPG, 0x14, 5, 0},
	{"TRB", ABS, 0x1c, 6, 0},
	{"TSB", ZPG, 0x04, 5, 0},
	{"TSB", ABS, 0x0c, 6, 0},

	{"PHA", IMP, 0x48, 3, 0},
	{"PLA", IMP, 0x68, 4, 0},
	{"PHP", IMP, 0x08, 3, 0},
	{"PLP", IMP, 0x28, 4, 0},
	{"PHX", IMP, 0xda, 3, 0},
	{"PLX", IMP, 0xfa, 4, 0},
	{"PHY", IMP, 0x5a, 3, 0},
	{"PLY", IMP, 0x7a, 4, 0},

	{"ASL", ACC, 0x0a, 2, 0},
	{"ASL", ZPG, 0x06, 5, 0},
	{"ASL", ZPX, 0x16, 6, 0},
	{"ASL", ABS, 0x0e, 6, 0},
	{"ASL", ABX, 0x1e, 7, 0},

	{"LSR", ACC, 0x4a, 2, 0},
	{"LSR", ZPG, 0x46, 5, 0},
	{"LSR", ZPX, 0x56, 6, 0},
	{"LSR", ABS, 0x4e, 6, 0},
	{"LSR", ABX, 0x5e, 7, 0},

	{"ROL", ACC, 0x2a, 2, 0},
	{"ROL", ZPG, 0x26, 5, 0},
	{"ROL", ZPX, 0x36, 6, 0},
	{"ROL", ABS, 0x2e, 6, 0},
	{"ROL", ABX, 0x3e, 7, 0},

	{"ROR", ACC, 0x6a, 2, 0},
	{"ROR", ZPG, 0x66, 5, 0},
	{"ROR", ZPX, 0x76, 6, 0},
	{"ROR", ABS, 0x6e, 6, 0},
	{"ROR", ABX, 0x7e, 7, 0},

	// Rockwell bit set/clear: zero page only.
	{"RMB0", ZPG, 0x07, 5, 0},
	{"RMB1", ZPG, 0x17, 5, 0},
	{"RMB2", ZPG, 0x27, 5, 0},
	{"RMB3", ZPG, 0x37, 5, 0},
	{"RMB4", ZPG, 0x47, 5, 0},
	{"RMB5", ZPG, 0x57, 5, 0},
	{"RMB6", ZPG, 0x67, 5, 0},
	{"RMB7", ZPG, 0x77, 5, 0},
	{"SMB0", ZPG, 0x87, 5, 0},
	{"SMB1", ZPG, 0x97, 5, 0},
	{"SMB2", ZPG, 0xa7, 5, 0},
	{"SMB3", ZPG, 0xb7, 5, 0},
	{"SMB4", ZPG, 0xc7, 5, 0},
	{"SMB5", ZPG, 0xd7, 5, 0},
	{"SMB6", ZPG, 0xe7, 5, 0},
	{"SMB7", ZPG, 0xf7, 5, 0},

	// Rockwell bit test-and-branch: zero page address + relative offset.
	{"BBR0", ZPR, 0x0f, 5, 1},
	{"BBR1", ZPR, 0x1f, 5, 1},
	{"BBR2", ZPR, 0x2f, 5, 1},
	{"BBR3", ZPR, 0x3f, 5, 1},
	{"BBR4", ZPR, 0x4f, 5, 1},
	{"BBR5", ZPR, 0x5f, 5, 1},
	{"BBR6", ZPR, 0x6f, 5, 1},
	{"BBR7", ZPR, 0x7f, 5, 1},
	{"BBS0", ZPR, 0x8f, 5, 1},
	{"BBS1", ZPR, 0x9f, 5, 1},
	{"BBS2", ZPR, 0xaf, 5, 1},
	{"BBS3", ZPR, 0xbf, 5, 1},
	{"BBS4", ZPR, 0xcf, 5, 1},
	{"BBS5", ZPR, 0xdf, 5, 1},
	{"BBS6", ZPR, 0xef, 5, 1},
	{"BBS7", ZPR, 0xff, 5, 1},

	// WDC extensions.
	{"WAI", IMP, 0xcb, 3, 0},
	{"STP", IMP, 0xdb, 3, 0},
}

// An Instruction describes a CPU instruction, including its mnemonic, its
// addressing mode, its opcode value, its encoded size, and its CPU cycle
// cost.
type Instruction struct {
	Name     string // all-caps mnemonic
	Mode     Mode   // addressing mode
	Opcode   byte   // hexadecimal opcode value
	Length   byte   // combined size of opcode and operand, in bytes
	Cycles   byte   // number of CPU cycles to execute the instruction
	BPCycles byte   // additional cycles required if a page boundary is crossed
}

type nameMode struct {
	name string
	mode Mode
}

var (
	opcodes      [256]*Instruction
	variants     map[string][]*Instruction
	instructions map[nameMode]*Instruction
)

// Build the lookup tables. A table entry that reuses an opcode value or
// disagrees with its mode's operand size is a bug in the table itself, so
// both conditions panic.
func init() {
	variants = make(map[string][]*Instruction)
	instructions = make(map[nameMode]*Instruction, len(data))

	for _, d := range data {
		if opcodes[d.opcode] != nil {
			panic("opcode collision in instruction table")
		}

		inst := &Instruction{
			Name:     d.name,
			Mode:     d.mode,
			Opcode:   d.opcode,
			Length:   1 + byte(d.mode.OperandSize()),
			Cycles:   d.cycles,
			BPCycles: d.bpcycles,
		}

		opcodes[d.opcode] = inst
		variants[d.name] = append(variants[d.name], inst)
		instructions[nameMode{d.name, d.mode}] = inst
	}
}

// Lookup retrieves the instruction assigned to the requested opcode value,
// or nil if the opcode is unassigned on the W65C02S.
func Lookup(opcode byte) *Instruction {
	return opcodes[opcode]
}

// Find retrieves the instruction for a (mnemonic, addressing mode) pair, or
// nil if the mnemonic does not support the mode. The mnemonic is
// case-insensitive.
func Find(name string, mode Mode) *Instruction {
	return instructions[nameMode{strings.ToUpper(name), mode}]
}

// GetInstructions returns all instructions whose mnemonic matches the
// provided string.
func GetInstructions(name string) []*Instruction {
	return variants[strings.ToUpper(name)]
}

// Mnemonics returns the set of all instruction mnemonics.
func Mnemonics() []string {
	m := make([]string, 0, len(variants))
	for name := range variants {
		m = append(m, name)
	}
	return m
}
