// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"encoding/json"
	"io"
	"sort"
)

// A SymbolMap is the exportable form of an assembly session's symbol table.
// It is debugging data kept alongside a binary image, never part of the
// image itself.
type SymbolMap struct {
	Origin  uint16   `json:"origin"`
	Symbols []Symbol `json:"symbols"`
}

// NewSymbolMap captures the symbol table of a finished assembly.
func NewSymbolMap(a *Assembly) *SymbolMap {
	return &SymbolMap{
		Origin:  a.Origin,
		Symbols: append([]Symbol{}, a.Symbols...),
	}
}

// Search finds the name of the subroutine defined at the requested offset.
func (s *SymbolMap) Search(offset uint16) (name string, ok bool) {
	i := sort.Search(len(s.Symbols), func(i int) bool {
		return s.Symbols[i].Offset >= offset
	})
	if i < len(s.Symbols) && s.Symbols[i].Offset == offset {
		return s.Symbols[i].Name, true
	}
	return "", false
}

// ReadFrom reads the contents of an exported symbol map file.
func (s *SymbolMap) ReadFrom(r io.Reader) (n int64, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	err = json.Unmarshal(b, s)
	if err != nil {
		return 0, err
	}
	return int64(len(b)), nil
}

// WriteTo writes the contents of the symbol map to an output stream.
func (s *SymbolMap) WriteTo(w io.Writer) (n int64, err error) {
	b, err := json.Marshal(*s)
	if err != nil {
		return 0, err
	}

	nn, err := w.Write(b)
	return int64(nn), err
}
