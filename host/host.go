// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host provides an interactive monitor for building W65C02S
// machine code with the embedded assembler. Within the monitor it is
// possible to enter instructions one at a time, group them into named
// subroutines, call previously defined subroutines, dump the code buffer,
// inspect the symbol table, and save the assembled binary along with its
// symbol map.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/go65c02/asm"
	"github.com/beevik/go65c02/isa"
)

// A Host drives one interactive assembly session. Commands manage the
// session; any other input line is treated as an instruction and encoded
// into the session's code buffer.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	asm         *asm.Assembler
	blocks      []string // open define blocks, innermost last
	lastCmd     *cmd.Selection
	settings    *settings
}

// New creates a new monitor host with an empty assembly session.
func New() *Host {
	return &Host{
		asm:      asm.New(),
		settings: newSettings(),
	}
}

// RunCommands accepts monitor commands from a reader and outputs the
// results to a writer. If the commands are interactive, a prompt is
// displayed while the host waits for the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
		h.println("go65c02 monitor. Type 'help' for a list of commands.")
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)

		// Instruction mnemonics take precedence over commands.
		if line != "" {
			name, _, _ := strings.Cut(line, " ")
			if isa.GetInstructions(name) != nil {
				h.instruction(line)
				continue
			}
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = nil

		handler := c.Command.Data.(func(*Host, cmd.Selection) error)
		err = handler(h, c)
		if err != nil {
			break
		}
	}

	h.flush()
}

// Break interrupts the monitor's prompt, redisplaying it on a fresh line.
func (h *Host) Break() {
	h.println()
	h.prompt()
}

func (h *Host) print(args ...any) {
	fmt.Fprint(h.output, args...)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if !h.interactive {
		return
	}
	if len(h.blocks) > 0 {
		h.printf("%s* ", strings.Join(h.blocks, "."))
	} else {
		h.print("* ")
	}
	h.flush()
}

// addr returns the absolute address of the next emitted byte.
func (h *Host) addr() uint16 {
	return h.asm.Origin() + uint16(h.asm.Len())
}

func (h *Host) echo(addr uint16, b []byte, text string) {
	if h.settings.EchoBytes {
		h.printf("%04X-   %-8s    %s\n", addr, codeString(b), text)
	}
}

// instruction encodes one line of instruction input and appends it to the
// session's code buffer. The encoder validates the (mnemonic, mode) pair
// before anything is emitted, so a rejected line leaves the session
// untouched.
func (h *Host) instruction(line string) {
	name, operand, err := parseInstruction(line)
	if err != nil {
		h.printf("%v\n", err)
		return
	}

	b, err := asm.Encode(name, operand)
	if err != nil {
		h.printf("%v\n", err)
		return
	}

	addr := h.addr()
	h.asm.Emit(b...)
	if err := h.asm.Err(); err != nil {
		h.printf("%v\n", err)
		return
	}

	h.echo(addr, b, strings.ToUpper(strings.Join(strings.Fields(line), " ")))
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	switch {
	case len(c.Args) == 0:
		h.displayCommands()
		h.println("Any other input is encoded as a W65C02S instruction.")
	default:
		s, err := cmds.Lookup(strings.Join(c.Args, " "))
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		if s.Command.Usage != "" {
			h.printf("Syntax: %s\n\n", s.Command.Usage)
		}
		switch {
		case s.Command.Description != "":
			h.printf("Description:\n   %s\n\n", s.Command.Description)
		case s.Command.Brief != "":
			h.printf("Description:\n   %s.\n\n", s.Command.Brief)
		}
	}
	return nil
}

func (h *Host) displayCommands() {
	h.println("Monitor commands:")
	for _, d := range cmdList {
		if d.Brief != "" {
			h.printf("    %-15s  %s\n", d.Name, d.Brief)
		}
	}
}

func (h *Host) cmdOrigin(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.printf("Origin is $%04X.\n", h.asm.Origin())
		return nil
	}

	v, _, err := parseValue(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.asm.Len() > 0 || len(h.asm.Symbols()) > 0 {
		h.println("Cannot change origin after code or symbols exist.")
		return nil
	}

	h.asm = asm.NewOrigin(v)
	h.printf("Origin set to $%04X.\n", v)
	return nil
}

func (h *Host) cmdDefine(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	name := c.Args[0]
	if off, ok := h.asm.Symbol(name); ok {
		h.printf("Subroutine '%s' already defined at $%04X; keeping the first definition.\n",
			name, h.asm.Origin()+off)
	} else {
		h.asm.Define(name, nil)
		h.printf("Defined '%s' at $%04X.\n", name, h.addr())
	}

	h.blocks = append(h.blocks, name)
	return nil
}

func (h *Host) cmdEnd(c cmd.Selection) error {
	if len(h.blocks) == 0 {
		h.println("No open block.")
		return nil
	}

	name := h.blocks[len(h.blocks)-1]
	h.blocks = h.blocks[:len(h.blocks)-1]
	h.printf("Closed '%s'.\n", name)
	return nil
}

func (h *Host) cmdCall(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	name := c.Args[0]
	off, ok := h.asm.Symbol(name)
	if !ok {
		h.printf("Undefined subroutine '%s'.\n", name)
		return nil
	}

	addr := h.addr()
	h.asm.Call(name)
	if err := h.asm.Err(); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	target := h.asm.Origin() + off
	b, _ := asm.Encode("JSR", asm.Absolute(target))
	h.echo(addr, b, fmt.Sprintf("JSR $%04X       ; %s", target, name))
	return nil
}

func (h *Host) cmdBytes(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	digits := strings.Join(c.Args, "")
	if len(digits)%2 != 0 {
		h.println("Odd number of hex digits.")
		return nil
	}

	b := make([]byte, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		if !isHexDigit(digits[i]) || !isHexDigit(digits[i+1]) {
			h.printf("Invalid hex string '%s'.\n", digits)
			return nil
		}
		b[i/2] = hexDigit(digits[i])<<4 | hexDigit(digits[i+1])
	}

	addr := h.addr()
	h.asm.Emit(b...)
	if err := h.asm.Err(); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("Emitted %d bytes at $%04X.\n", len(b), addr)
	return nil
}

func (h *Host) cmdDump(c cmd.Selection) error {
	assembly, err := h.asm.Assemble()
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if len(assembly.Code) == 0 {
		h.println("Code buffer is empty.")
		return nil
	}

	offset := int(h.settings.NextDumpOffset)
	if len(c.Args) > 0 && c.Args[0] != "$" {
		v, _, err := parseValue(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		offset = int(v)
	}

	count := h.settings.DumpBytes
	if len(c.Args) > 1 {
		v, _, err := parseValue(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		count = int(v)
	}

	if offset >= len(assembly.Code) {
		offset = 0
	}
	end := min(offset+count, len(assembly.Code))
	h.dumpCode(assembly.Code, offset, end)

	h.settings.NextDumpOffset = uint16(end)
	h.lastCmd = &cmd.Selection{
		Command: c.Command,
		Args:    []string{"$", strconv.Itoa(count)},
	}
	return nil
}

// dumpCode displays the code bytes in [offset, end) in rows of eight,
// labeled with absolute addresses and followed by a printable-character
// column.
func (h *Host) dumpCode(code []byte, offset, end int) {
	buf := []byte("    -" + strings.Repeat(" ", 35))

	for r := offset &^ 7; r < end; r += 8 {
		addrToBuf(h.asm.Origin()+uint16(r), buf[0:4])
		for i, c1, c2 := 0, 6, 32; i < 8; i, c1, c2 = i+1, c1+3, c2+1 {
			a := r + i
			if a >= offset && a < end {
				m := code[a]
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) cmdSymbols(c cmd.Selection) error {
	syms := h.asm.Symbols()
	if len(syms) == 0 {
		h.println("No subroutines defined.")
		return nil
	}

	if h.settings.SymbolsByName {
		sort.Slice(syms, func(i, j int) bool {
			return syms[i].Name < syms[j].Name
		})
	}

	for _, s := range syms {
		h.printf("%-16s $%04X\n", s.Name, h.asm.Origin()+s.Offset)
	}
	return nil
}

func (h *Host) cmdSave(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	assembly, err := h.asm.Assemble()
	if err != nil {
		h.printf("Cannot save: %v\n", err)
		return nil
	}

	filename := c.Args[0]
	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		h.printf("Failed to create '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	_, err = assembly.WriteTo(file)
	file.Close()
	if err != nil {
		h.printf("Failed to save '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	ext := filepath.Ext(filename)
	symFilename := filename[:len(filename)-len(ext)] + ".sym"
	file, err = os.OpenFile(symFilename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		h.printf("Failed to create '%s': %v\n", filepath.Base(symFilename), err)
		return nil
	}

	_, err = asm.NewSymbolMap(assembly).WriteTo(file)
	file.Close()
	if err != nil {
		h.printf("Failed to write '%s': %v\n", filepath.Base(symFilename), err)
		return nil
	}

	h.printf("Saved '%s' (%d bytes) and '%s'.\n",
		filepath.Base(filename), len(assembly.Code), filepath.Base(symFilename))
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	h.asm = asm.NewOrigin(h.asm.Origin())
	h.blocks = nil
	h.settings.NextDumpOffset = 0
	h.println("Session reset.")
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText(c.Command)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			var v uint16
			v, _, err = parseValue(value)
			if err == nil {
				err = h.settings.Set(key, int(v))
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}
	}

	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errors.New("exiting monitor")
}

func (h *Host) displayHelpText(c *cmd.Command) {
	if c.Usage != "" {
		h.printf("Syntax: %s\n", c.Usage)
	} else {
		h.println("<no help text>")
	}
}
