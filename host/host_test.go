// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/go65c02/asm"
)

// runScript feeds a sequence of monitor commands to a fresh host and
// returns everything the host wrote in response.
func runScript(t *testing.T, h *Host, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	h.RunCommands(strings.NewReader(strings.Join(lines, "\n")), &out, false)
	return out.String()
}

func TestSession(t *testing.T) {
	tmp := t.TempDir()
	binFile := filepath.Join(tmp, "prog.bin")

	h := New()
	out := runScript(t, h,
		"origin $1000",
		"define init",
		"LDX #$FF",
		"TXS",
		"end",
		"define main",
		"call init",
		"STZ $0200",
		"end",
		"call main",
		"symbols",
		"save "+binFile,
	)

	for _, want := range []string{
		"Origin set to $1000.",
		"Defined 'init' at $1000.",
		"1000-   A2 FF       LDX #$FF",
		"1002-   9A          TXS",
		"Defined 'main' at $1003.",
		"1003-   20 00 10    JSR $1000       ; init",
		"1006-   9C 00 02    STZ $0200",
		"1009-   20 03 10    JSR $1003       ; main",
		"init             $1000",
		"main             $1003",
		"Saved 'prog.bin' (12 bytes) and 'prog.sym'.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("session output missing %q\noutput:\n%s", want, out)
		}
	}

	code, err := os.ReadFile(binFile)
	if err != nil {
		t.Fatalf("reading saved binary: %v", err)
	}
	want := "A2FF9A2000109C0002200310"
	got := fmt.Sprintf("%X", code)
	if got != want {
		t.Errorf("saved code = %s, want %s", got, want)
	}

	symData, err := os.ReadFile(filepath.Join(tmp, "prog.sym"))
	if err != nil {
		t.Fatalf("reading saved symbol map: %v", err)
	}
	var sm asm.SymbolMap
	if err := json.Unmarshal(symData, &sm); err != nil {
		t.Fatalf("decoding symbol map: %v", err)
	}
	if sm.Origin != 0x1000 || len(sm.Symbols) != 2 {
		t.Errorf("symbol map origin=$%04X symbols=%d, want $1000 and 2",
			sm.Origin, len(sm.Symbols))
	}
}

func TestBadInputDoesNotPoisonSession(t *testing.T) {
	h := New()
	out := runScript(t, h,
		"LDA ($12),X", // unsupported addressing mode
		"call nowhere",
		"STA #$10", // STA has no immediate mode
		"NOP",
		"dump 0 8",
	)

	if !strings.Contains(out, "opcode STA does not support") {
		t.Errorf("expected mode error in output:\n%s", out)
	}
	if !strings.Contains(out, "Undefined subroutine 'nowhere'.") {
		t.Errorf("expected undefined subroutine report in output:\n%s", out)
	}
	if !strings.Contains(out, "0000- EA") {
		t.Errorf("expected NOP to be emitted after earlier errors:\n%s", out)
	}
	if h.asm.Len() != 1 {
		t.Errorf("code length = %d, want 1", h.asm.Len())
	}
}

func TestDefineFirstWins(t *testing.T) {
	h := New()
	out := runScript(t, h,
		"define loop",
		"INX",
		"define loop",
		"end",
		"end",
		"end",
	)

	if !strings.Contains(out, "already defined at $0000") {
		t.Errorf("expected shadowing warning:\n%s", out)
	}
	if !strings.Contains(out, "No open block.") {
		t.Errorf("expected unmatched end report:\n%s", out)
	}
	if off, ok := h.asm.Symbol("loop"); !ok || off != 0 {
		t.Errorf("loop offset = %d, %v; want 0, true", off, ok)
	}
}

func TestOriginLocked(t *testing.T) {
	h := New()
	out := runScript(t, h,
		"NOP",
		"origin $2000",
	)
	if !strings.Contains(out, "Cannot change origin") {
		t.Errorf("expected origin rejection:\n%s", out)
	}
	if h.asm.Origin() != 0 {
		t.Errorf("origin = $%04X, want $0000", h.asm.Origin())
	}
}

func TestBytesCommand(t *testing.T) {
	h := New()
	out := runScript(t, h,
		"bytes A9FF60",
		"bytes XYZ1",
		"bytes A",
	)
	if !strings.Contains(out, "Emitted 3 bytes at $0000.") {
		t.Errorf("expected bytes emission report:\n%s", out)
	}
	if !strings.Contains(out, "Invalid hex string") {
		t.Errorf("expected invalid hex report:\n%s", out)
	}
	if !strings.Contains(out, "Odd number of hex digits.") {
		t.Errorf("expected odd digit report:\n%s", out)
	}
	if h.asm.Len() != 3 {
		t.Errorf("code length = %d, want 3", h.asm.Len())
	}
}

func TestResetCommand(t *testing.T) {
	h := New()
	runScript(t, h,
		"origin $0800",
		"define sub",
		"RTS",
		"reset",
	)
	if h.asm.Len() != 0 {
		t.Errorf("code length after reset = %d, want 0", h.asm.Len())
	}
	if h.asm.Origin() != 0x0800 {
		t.Errorf("origin after reset = $%04X, want $0800", h.asm.Origin())
	}
	if _, ok := h.asm.Symbol("sub"); ok {
		t.Error("symbol survived reset")
	}
	if len(h.blocks) != 0 {
		t.Errorf("open blocks after reset = %d, want 0", len(h.blocks))
	}
}

func TestSetCommand(t *testing.T) {
	h := New()
	out := runScript(t, h,
		"set EchoBytes false",
		"LDA #$01",
		"set bogus 1",
	)
	if strings.Contains(out, "LDA #$01") {
		t.Errorf("echo not suppressed:\n%s", out)
	}
	if !strings.Contains(out, "not found") {
		t.Errorf("expected unknown setting report:\n%s", out)
	}
	if h.settings.EchoBytes {
		t.Error("EchoBytes still true")
	}
}

func TestParseInstruction(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"NOP", "EA"},
		{"INC A", "1A"},
		{"INC", "1A"}, // bare INC falls back to accumulator mode
		{"LDA #$80", "A9 80"},
		{"LDA $80", "A5 80"},
		{"LDA $0080", "AD 80 00"},
		{"LDA $1234", "AD 34 12"},
		{"LDA $12,X", "B5 12"},
		{"LDA $1234,X", "BD 34 12"},
		{"LDX $12,Y", "B6 12"},
		{"LDA ($12,X)", "A1 12"},
		{"LDA ($12),Y", "B1 12"},
		{"LDA ($12)", "B2 12"},
		{"JMP ($1234)", "6C 34 12"},
		{"JMP ($1234,X)", "7C 34 12"},
		{"BNE $10", "D0 10"},
		{"BBR0 $12,$03", "0F 12 03"},
		{"ASL", "0A"},
		{"STA $0200", "8D 00 02"},
		{"lda #$ff", "A9 FF"},
	}

	for _, c := range cases {
		name, operand, err := parseInstruction(c.line)
		if err != nil {
			t.Errorf("parseInstruction(%q): %v", c.line, err)
			continue
		}
		b, err := asm.Encode(name, operand)
		if err != nil {
			t.Errorf("Encode(%q): %v", c.line, err)
			continue
		}
		if got := codeString(b); got != c.want {
			t.Errorf("%q = %s, want %s", c.line, got, c.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"LDA #$1234", // immediate too large
		"LDA $",
		"LDA $12345",
		"LDA (12",
		"LDA $12,$1234", // relative offset out of range
		"XYZ $10",
	}
	for _, line := range cases {
		name, operand, err := parseInstruction(line)
		if err != nil {
			continue
		}
		if _, err := asm.Encode(name, operand); err == nil {
			t.Errorf("parse+encode of %q unexpectedly succeeded", line)
		}
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		s    string
		v    uint16
		wide bool
		ok   bool
	}{
		{"$12", 0x12, false, true},
		{"$0012", 0x12, true, true},
		{"$1234", 0x1234, true, true},
		{"255", 255, false, true},
		{"256", 256, true, true},
		{"$", 0, false, false},
		{"$12345", 0, false, false},
		{"$1G", 0, false, false},
		{"12x", 0, false, false},
		{"65536", 0, false, false},
	}
	for _, c := range cases {
		v, wide, err := parseValue(c.s)
		if (err == nil) != c.ok {
			t.Errorf("parseValue(%q) err = %v, want ok=%v", c.s, err, c.ok)
			continue
		}
		if c.ok && (v != c.v || wide != c.wide) {
			t.Errorf("parseValue(%q) = (%d, %v), want (%d, %v)",
				c.s, v, wide, c.v, c.wide)
		}
	}
}
