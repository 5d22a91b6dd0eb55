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

import "github.com/pkg/errors"

// VarType is a declared variable's primitive type.
type VarType int

const (
	TypeUnknown VarType = iota
	U8
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	Bool
)

var typeNames = map[string]VarType{
	"u8": U8, "i8": I8, "u16": U16, "i16": I16,
	"u32": U32, "i32": I32, "u64": U64, "i64": I64,
	"bool": Bool,
}

// VarTypeFromString maps a type annotation's text to a VarType,
// returning TypeUnknown for anything it doesn't recognize.
func VarTypeFromString(s string) VarType {
	if t, ok := typeNames[s]; ok {
		return t
	}
	return TypeUnknown
}

// Size returns the type's storage size in bytes, or 0 for TypeUnknown.
func (t VarType) Size() int {
	switch t {
	case U8, I8, Bool:
		return 1
	case U16, I16:
		return 2
	case U32, I32:
		return 4
	case U64, I64:
		return 8
	default:
		return 0
	}
}

// Variable is one declared name in a Scope: its type, storage size and
// its byte offset from the frame's stack pointer.
type Variable struct {
	Name   string
	Type   VarType
	Size   int
	Offset int
}

// Scope is a chain of local variable lists, innermost first. It has no
// owning reference to its parent: Scope never outlives the Compile
// call that created it, so a plain pointer is enough.
type Scope struct {
	vars   []Variable
	parent *Scope
}

// NewScope returns a new, empty Scope chained to parent. parent may be
// nil for a top-level scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

// Push declares v in s, failing if a variable with the same name is
// already visible from s (in s itself or any enclosing scope).
func (s *Scope) Push(v Variable) error {
	if _, ok := s.Lookup(v.Name); ok {
		return errors.Errorf("'%s' has already defined", v.Name)
	}
	s.vars = append(s.vars, v)
	return nil
}

// Lookup searches s and its enclosing scopes, innermost first, for a
// variable named name.
func (s *Scope) Lookup(name string) (*Variable, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		for i := range sc.vars {
			if sc.vars[i].Name == name {
				return &sc.vars[i], true
			}
		}
	}
	return nil, false
}

// ModifyOffset shifts every variable currently declared in s (not its
// enclosing scopes) by delta bytes. Declaring a new local pushes the
// existing ones further from the stack pointer, so callers shift
// before appending the new variable at offset 0.
func (s *Scope) ModifyOffset(delta int) {
	for i := range s.vars {
		s.vars[i].Offset += delta
	}
}

// TotalSize returns the combined storage size of every variable
// declared directly in s (not its enclosing scopes) — the number of
// bytes a block must reclaim from the stack pointer on exit.
func (s *Scope) TotalSize() int {
	total := 0
	for _, v := range s.vars {
		total += v.Size
	}
	return total
}
