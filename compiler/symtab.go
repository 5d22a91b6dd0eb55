// This file is part of corvid.
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compiler

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

type internalRef struct {
	id        int
	patchAddr uint64
}

type externalRef struct {
	name      string
	patchAddr uint64
}

// Symbols tracks every branch target (internal symbols: if/while end
// labels, while start labels) and function entry point (external
// symbols) of a compilation unit, deferring the actual patching of
// their reference sites until the whole unit has been compiled and
// every address is known.
type Symbols struct {
	internalSyms []uint64
	internalRefs []internalRef
	externalSyms map[string]uint64
	externalRefs []externalRef
}

// NewSymbols returns an empty Symbols table.
func NewSymbols() *Symbols {
	return &Symbols{externalSyms: make(map[string]uint64)}
}

// AddExternalSym records name's address, failing if name has already
// been defined.
func (s *Symbols) AddExternalSym(name string, addr uint64) error {
	if _, ok := s.externalSyms[name]; ok {
		return errors.Errorf("'%s' has already been defined", name)
	}
	s.externalSyms[name] = addr
	return nil
}

// Lookup returns the address of a previously defined external symbol.
func (s *Symbols) Lookup(name string) (uint64, bool) {
	addr, ok := s.externalSyms[name]
	return addr, ok
}

// ExternalRef records patchAddr as a site to be rewritten with name's
// address at Link time. It fails immediately if name is not yet
// defined: this compiler does not support calling a function before
// its definition.
func (s *Symbols) ExternalRef(name string, patchAddr uint64) error {
	if _, ok := s.externalSyms[name]; !ok {
		return errors.Errorf("'%s' undefined", name)
	}
	s.externalRefs = append(s.externalRefs, externalRef{name: name, patchAddr: patchAddr})
	return nil
}

// AllocInternalSym reserves a new internal symbol id with an initial
// address of addr, to be corrected later with ModifyInternalSym once
// its real address is known.
func (s *Symbols) AllocInternalSym(addr uint64) int {
	s.internalSyms = append(s.internalSyms, addr)
	return len(s.internalSyms) - 1
}

// ModifyInternalSym corrects a previously allocated internal symbol's
// address.
func (s *Symbols) ModifyInternalSym(id int, addr uint64) {
	s.internalSyms[id] = addr
}

// InternalRef records patchAddr as a site to be rewritten with the
// internal symbol id's address at Link time.
func (s *Symbols) InternalRef(id int, patchAddr uint64) {
	s.internalRefs = append(s.internalRefs, internalRef{id: id, patchAddr: patchAddr})
}

// Link rewrites every recorded reference site in code with its
// symbol's final address, as a big-endian 64-bit immediate. It
// collects every external reference whose symbol was never defined
// into a single aggregate error.
func (s *Symbols) Link(code []byte) error {
	var undefined []string
	for _, r := range s.externalRefs {
		addr, ok := s.externalSyms[r.name]
		if !ok {
			undefined = append(undefined, r.name)
			continue
		}
		binary.BigEndian.PutUint64(code[r.patchAddr:], addr)
	}
	if len(undefined) > 0 {
		return errors.Errorf("undefined symbols: %v", undefined)
	}
	for _, r := range s.internalRefs {
		binary.BigEndian.PutUint64(code[r.patchAddr:], s.internalSyms[r.id])
	}
	return nil
}
