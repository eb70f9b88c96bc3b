// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements an embedded W65C02S assembler. A program is built
// by calling operations on an Assembler, which owns a growing machine code
// buffer and a table of named subroutine offsets. Subroutines are declared
// with Define, which binds a name to the current buffer offset and then
// compiles the subroutine body; Call resolves a previously defined name and
// emits a JSR to its absolute address.
//
// All offsets recorded in the symbol table are measured from the start of
// the whole program, no matter how deeply Defines are nested, so a finished
// block never needs offset correction when it rejoins its parent. The first
// definition of a name is permanent; later bindings of the same name are
// dropped.
//
// The first error encountered latches: every operation after it is a no-op,
// and Assemble reports the error instead of producing an artifact.
package asm

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/beevik/go65c02/isa"
)

// The largest code buffer an assembly session may produce. Together with
// the origin it must fit the CPU's 16-bit address space, since Call targets
// are absolute addresses.
const maxCodeSize = 0x10000

// ErrCodeRange is reported when emitted code would extend past the end of
// the 64K address space.
var ErrCodeRange = errors.New("code exceeded 64K address space")

var errEmptyName = errors.New("empty subroutine name")

// A ModeError reports an addressing mode unsupported by a mnemonic.
type ModeError struct {
	Name string   // all-caps mnemonic
	Mode isa.Mode // the rejected addressing mode
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("opcode %s does not support addressing mode %s", e.Name, e.Mode)
}

// An UndefinedError reports a Call whose target name had no definition at
// the time of the call.
type UndefinedError struct {
	Name string // the unresolved subroutine name
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined subroutine '%s'", e.Name)
}

// A Symbol records the offset of a defined subroutine, measured from the
// start of the program.
type Symbol struct {
	Name   string `json:"name"`
	Offset uint16 `json:"offset"`
}

// An Assembler holds the state of one assembly session: the machine code
// produced so far and the offsets of the subroutines defined so far. The
// zero origin places the program at address 0; use NewOrigin to build code
// intended to load elsewhere.
//
// An Assembler is not safe for concurrent use. A session runs to completion
// or stops at its first error; there is no partial output.
type Assembler struct {
	origin  uint16
	code    []byte
	symbols map[string]uint16
	err     error
}

// New creates an assembler for a program whose first byte lands at
// address 0.
func New() *Assembler {
	return NewOrigin(0)
}

// NewOrigin creates an assembler for a program whose first byte lands at
// the provided load address. Call instructions emit absolute addresses, so
// the origin must match the address at which the finished image is loaded.
func NewOrigin(origin uint16) *Assembler {
	return &Assembler{
		origin:  origin,
		symbols: make(map[string]uint16),
	}
}

// Origin returns the address assigned to the start of the program.
func (a *Assembler) Origin() uint16 {
	return a.origin
}

// Len returns the number of code bytes emitted so far, which is also the
// offset at which the next emitted byte will land.
func (a *Assembler) Len() int {
	return len(a.code)
}

// Err returns the first error encountered by the session, or nil.
func (a *Assembler) Err() error {
	return a.err
}

func (a *Assembler) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

// Emit appends literal bytes to the code buffer.
func (a *Assembler) Emit(b ...byte) {
	if a.err != nil {
		return
	}
	if int(a.origin)+len(a.code)+len(b) > maxCodeSize {
		a.fail(ErrCodeRange)
		return
	}
	a.code = append(a.code, b...)
}

// Op encodes an instruction and appends it to the code buffer. An
// addressing mode the mnemonic does not support stops the session with a
// *ModeError.
func (a *Assembler) Op(name string, operand Operand) {
	if a.err != nil {
		return
	}
	b, err := Encode(name, operand)
	if err != nil {
		a.fail(err)
		return
	}
	a.Emit(b...)
}

// Define binds name to the current buffer offset and then compiles body
// against the same session. body may emit code, call previously defined
// subroutines, and define further subroutines to any depth; names bound
// inside body are recorded at their absolute program offsets and survive
// after Define returns. If name is already bound, the existing binding wins
// and the new offset is discarded, but body still compiles. A nil body
// defines an empty subroutine.
func (a *Assembler) Define(name string, body func(*Assembler)) {
	if a.err != nil {
		return
	}
	if name == "" {
		a.fail(errEmptyName)
		return
	}
	if _, ok := a.symbols[name]; !ok {
		a.symbols[name] = uint16(len(a.code))
	}
	if body != nil {
		body(a)
	}
}

// Call emits a JSR to the absolute address of a previously defined
// subroutine. A name with no definition at this point in the program stops
// the session with an *UndefinedError; definitions appearing later are
// never considered.
func (a *Assembler) Call(name string) {
	if a.err != nil {
		return
	}
	offset, ok := a.symbols[name]
	if !ok {
		a.fail(&UndefinedError{Name: name})
		return
	}
	a.Op("JSR", Absolute(a.origin+offset))
}

// Symbol returns the offset bound to a defined subroutine name.
func (a *Assembler) Symbol(name string) (offset uint16, ok bool) {
	offset, ok = a.symbols[name]
	return offset, ok
}

// Symbols returns all subroutine definitions recorded so far, ordered by
// offset and then by name.
func (a *Assembler) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(a.symbols))
	for name, offset := range a.symbols {
		syms = append(syms, Symbol{Name: name, Offset: offset})
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].Offset != syms[j].Offset {
			return syms[i].Offset < syms[j].Offset
		}
		return syms[i].Name < syms[j].Name
	})
	return syms
}

// Assemble produces the finished artifact: the accumulated code buffer and
// the symbol table gathered while building it. If the session stopped on an
// error, Assemble returns that error and no artifact. The assembler remains
// usable afterward; the returned assembly holds its own copy of the code.
func (a *Assembler) Assemble() (*Assembly, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &Assembly{
		Code:    append([]byte{}, a.code...),
		Origin:  a.origin,
		Symbols: a.Symbols(),
	}, nil
}

// Assembly contains the assembled machine code and the data recorded while
// producing it.
type Assembly struct {
	Code    []byte   // assembled machine code
	Origin  uint16   // address at which the code expects to be loaded
	Symbols []Symbol // subroutine offsets recorded during assembly
}

// ReadFrom reads machine code from a binary input source.
func (a *Assembly) ReadFrom(r io.Reader) (n int64, err error) {
	a.Code, err = io.ReadAll(r)
	n = int64(len(a.Code))
	if n > maxCodeSize {
		return n, fmt.Errorf("code exceeded 64K size")
	}
	return n, err
}

// WriteTo saves machine code as binary data into an output writer. Only the
// raw contiguous code bytes are written; the symbol table is not part of
// the artifact.
func (a *Assembly) WriteTo(w io.Writer) (n int64, err error) {
	nn, err := w.Write(a.Code)
	return int64(nn), err
}
