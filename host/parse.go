// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/go65c02/asm"
	"github.com/beevik/go65c02/isa"
)

// parseInstruction converts one line of monitor input into a mnemonic and
// an operand. The operand text determines the addressing mode shape, and
// the narrowest mode the mnemonic supports is chosen for ambiguous shapes;
// a shape the mnemonic cannot support at all is left for the encoder to
// reject, so the user sees the encoder's error.
func parseInstruction(line string) (name string, operand asm.Operand, err error) {
	fields := strings.Fields(line)
	name = strings.ToUpper(fields[0])
	if isa.GetInstructions(name) == nil {
		return "", asm.Operand{}, fmt.Errorf("unknown mnemonic '%s'", fields[0])
	}

	operand, err = parseOperand(name, strings.Join(fields[1:], ""))
	return name, operand, err
}

func hasMode(name string, mode isa.Mode) bool {
	return isa.Find(name, mode) != nil
}

func parseOperand(name, text string) (asm.Operand, error) {
	switch {
	case text == "":
		if hasMode(name, isa.IMP) {
			return asm.Implied(), nil
		}
		if hasMode(name, isa.ACC) {
			return asm.Accumulator(), nil
		}
		return asm.Operand{}, fmt.Errorf("opcode %s requires an operand", name)

	case strings.EqualFold(text, "A"):
		return asm.Accumulator(), nil

	case strings.HasPrefix(text, "#"):
		v, wide, err := parseValue(text[1:])
		if err != nil {
			return asm.Operand{}, err
		}
		if wide {
			return asm.Operand{}, fmt.Errorf("immediate operand '%s' too large", text)
		}
		return asm.Immediate(byte(v)), nil

	case strings.HasPrefix(text, "("):
		return parseIndirect(text)

	case strings.Contains(text, ","):
		before, after, _ := strings.Cut(text, ",")
		v, wide, err := parseValue(before)
		if err != nil {
			return asm.Operand{}, err
		}
		switch strings.ToUpper(after) {
		case "X":
			if !wide && hasMode(name, isa.ZPX) {
				return asm.ZeroPageX(byte(v)), nil
			}
			return asm.AbsoluteX(v), nil
		case "Y":
			if !wide && hasMode(name, isa.ZPY) {
				return asm.ZeroPageY(byte(v)), nil
			}
			return asm.AbsoluteY(v), nil
		default:
			// $zp,$offset form used by the bit test-and-branch opcodes.
			o, owide, err := parseValue(after)
			if err != nil {
				return asm.Operand{}, err
			}
			if wide || owide {
				return asm.Operand{}, fmt.Errorf("operand '%s,%s' out of range", before, after)
			}
			return asm.ZeroPageRelative(byte(v), int8(o)), nil
		}

	default:
		v, wide, err := parseValue(text)
		if err != nil {
			return asm.Operand{}, err
		}
		if !wide {
			if hasMode(name, isa.ZPG) {
				return asm.ZeroPage(byte(v)), nil
			}
			if hasMode(name, isa.REL) {
				return asm.Relative(int8(v)), nil
			}
		}
		return asm.Absolute(v), nil
	}
}

func parseIndirect(text string) (asm.Operand, error) {
	switch {
	case strings.HasSuffix(strings.ToUpper(text), "),Y"):
		v, wide, err := parseValue(text[1 : len(text)-3])
		if err != nil {
			return asm.Operand{}, err
		}
		if wide {
			return asm.Operand{}, fmt.Errorf("operand '%s' out of range", text)
		}
		return asm.IndirectY(byte(v)), nil

	case strings.HasSuffix(strings.ToUpper(text), ",X)"):
		v, wide, err := parseValue(text[1 : len(text)-3])
		if err != nil {
			return asm.Operand{}, err
		}
		if wide {
			// JMP (a,x) carries a 16-bit address.
			return asm.AbsoluteX(v), nil
		}
		return asm.IndirectX(byte(v)), nil

	case strings.HasSuffix(text, ")"):
		v, wide, err := parseValue(text[1 : len(text)-1])
		if err != nil {
			return asm.Operand{}, err
		}
		if wide {
			return asm.Indirect(v), nil
		}
		return asm.ZeroPageIndirect(byte(v)), nil

	default:
		return asm.Operand{}, fmt.Errorf("malformed operand '%s'", text)
	}
}

// parseValue reads a numeric operand: $-prefixed hexadecimal or plain
// decimal. wide reports whether the value requires (or, for hex literals,
// was written with) more than two digits, which selects between zero page
// and absolute shapes.
func parseValue(s string) (v uint16, wide bool, err error) {
	if strings.HasPrefix(s, "$") {
		digits := s[1:]
		if len(digits) == 0 || len(digits) > 4 {
			return 0, false, fmt.Errorf("invalid operand value '%s'", s)
		}
		for i := 0; i < len(digits); i++ {
			if !isHexDigit(digits[i]) {
				return 0, false, fmt.Errorf("invalid operand value '%s'", s)
			}
		}
		u, _ := strconv.ParseUint(digits, 16, 16)
		return uint16(u), len(digits) > 2, nil
	}

	u, perr := strconv.ParseUint(s, 10, 16)
	if perr != nil {
		return 0, false, fmt.Errorf("invalid operand value '%s'", s)
	}
	return uint16(u), u > 0xff, nil
}
