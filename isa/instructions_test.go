// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package isa

import "testing"

// The W65C02S assigns 212 of the 256 opcode values.
const assignedOpcodes = 212

func TestTableComplete(t *testing.T) {
	count := 0
	for op := 0; op < 256; op++ {
		inst := Lookup(byte(op))
		if inst == nil {
			continue
		}
		count++

		if inst.Opcode != byte(op) {
			t.Errorf("opcode %02X: table entry claims %02X", op, inst.Opcode)
		}
		if inst.Name == "" {
			t.Errorf("opcode %02X: missing mnemonic", op)
		}
		if want := byte(1 + inst.Mode.OperandSize()); inst.Length != want {
			t.Errorf("opcode %02X (%s %s): length %d, want %d",
				op, inst.Name, inst.Mode, inst.Length, want)
		}
	}

	if count != assignedOpcodes {
		t.Errorf("assigned opcodes: got %d, want %d", count, assignedOpcodes)
	}
}

func TestNoCollisions(t *testing.T) {
	// Every (mnemonic, mode) pair must map to a distinct opcode value and
	// back again through the decode array.
	seen := make(map[byte]*Instruction)
	for _, name := range Mnemonics() {
		for _, inst := range GetInstructions(name) {
			if prev, ok := seen[inst.Opcode]; ok {
				t.Errorf("opcode %02X assigned to both %s %s and %s %s",
					inst.Opcode, prev.Name, prev.Mode, inst.Name, inst.Mode)
			}
			seen[inst.Opcode] = inst

			if Lookup(inst.Opcode) != inst {
				t.Errorf("%s %s: decode array disagrees with variant list",
					inst.Name, inst.Mode)
			}
			if Find(inst.Name, inst.Mode) != inst {
				t.Errorf("%s %s: pair lookup disagrees with variant list",
					inst.Name, inst.Mode)
			}
		}
	}
	if len(seen) != assignedOpcodes {
		t.Errorf("distinct opcodes: got %d, want %d", len(seen), assignedOpcodes)
	}
}

func TestFind(t *testing.T) {
	cases := []struct {
		name   string
		mode   Mode
		opcode byte
	}{
		{"LDA", ABS, 0xad},
		{"LDA", ZPI, 0xb2},
		{"JSR", ABS, 0x20},
		{"JMP", ABX, 0x7c},
		{"BRA", REL, 0x80},
		{"STZ", ABX, 0x9e},
		{"INC", ACC, 0x1a},
		{"BIT", IMM, 0x89},
		{"RMB0", ZPG, 0x07},
		{"SMB5", ZPG, 0xd7},
		{"BBR7", ZPR, 0x7f},
		{"BBS2", ZPR, 0xaf},
		{"WAI", IMP, 0xcb},
		{"STP", IMP, 0xdb},
	}
	for _, c := range cases {
		inst := Find(c.name, c.mode)
		if inst == nil {
			t.Errorf("Find(%s, %s): not found", c.name, c.mode)
			continue
		}
		if inst.Opcode != c.opcode {
			t.Errorf("Find(%s, %s): opcode %02X, want %02X",
				c.name, c.mode, inst.Opcode, c.opcode)
		}
	}

	if Find("lda", ABS) == nil {
		t.Error("Find is expected to be case-insensitive")
	}

	invalid := []struct {
		name string
		mode Mode
	}{
		{"JSR", IMM},
		{"LDX", ABX},
		{"RTS", ABS},
		{"BBR0", REL},
		{"???", IMP},
	}
	for _, c := range invalid {
		if Find(c.name, c.mode) != nil {
			t.Errorf("Find(%s, %s): expected no instruction", c.name, c.mode)
		}
	}
}

func TestGetInstructions(t *testing.T) {
	if got := len(GetInstructions("LDA")); got != 9 {
		t.Errorf("LDA variants: got %d, want 9", got)
	}
	if got := len(GetInstructions("sta")); got != 8 {
		t.Errorf("STA variants: got %d, want 8", got)
	}
	if got := len(GetInstructions("WAI")); got != 1 {
		t.Errorf("WAI variants: got %d, want 1", got)
	}
	if GetInstructions("BRL") != nil {
		t.Error("BRL is not a W65C02S mnemonic")
	}
}

func TestMnemonics(t *testing.T) {
	// 56 NMOS mnemonics, 10 CMOS additions, 32 Rockwell bit instructions.
	if got := len(Mnemonics()); got != 98 {
		t.Errorf("mnemonic count: got %d, want 98", got)
	}
}

func TestModes(t *testing.T) {
	sizes := map[Mode]int{
		IMM: 1, IMP: 0, REL: 1, ZPG: 1, ZPX: 1, ZPY: 1,
		ABS: 2, ABX: 2, ABY: 2, IND: 2, IDX: 1, IDY: 1,
		ACC: 0, ZPI: 1, ZPR: 2,
	}
	for m, want := range sizes {
		if got := m.OperandSize(); got != want {
			t.Errorf("%s operand size: got %d, want %d", m, got, want)
		}
	}
	if ZPR.String() != "ZPR" || IMM.String() != "IMM" {
		t.Error("unexpected mode name")
	}
	if Mode(200).String() != "???" {
		t.Error("out-of-range mode should stringify as ???")
	}
}
