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

package ast

// Kind classifies a Node.
type Kind int

const (
	Undefined Kind = iota
	Program
	Identifier
	VarDeclare
	VarType
	VarSetValue
	FuncDef
	FuncCall
	CodeBlock
	Params
	If
	Elif
	Else
	For
	While
	Break
	Continue
	Return
	Value
	Index
	Child
	Add
	Sub
	Mul
	Div
	Mod
	GT
	LT
	GE
	LE
	Eq
	NotEq
	Shl
	Shr
	And
	Or
	Xor
	LogicAnd
	LogicOr
)

var kindNames = map[Kind]string{
	Undefined: "undefined", Program: "program", Identifier: "identifier",
	VarDeclare: "var_declare", VarType: "var_type", VarSetValue: "var_set_value",
	FuncDef: "func_def", FuncCall: "func_call", CodeBlock: "code_block",
	Params: "params", If: "if", Elif: "elif", Else: "else", For: "for",
	While: "while", Break: "break", Continue: "continue", Return: "return",
	Value: "value", Index: "index", Child: "child", Add: "add", Sub: "sub",
	Mul: "mul", Div: "div", Mod: "mod", GT: "gt", LT: "lt", GE: "ge", LE: "le",
	Eq: "eq", NotEq: "neq", Shl: "shl", Shr: "shr", And: "and", Or: "or",
	Xor: "xor", LogicAnd: "logic_and", LogicOr: "logic_or",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// Node is one syntax tree node. Children is owned exclusively by this
// node: no other Node ever aliases the same slice or its elements.
type Node struct {
	Kind     Kind
	Data     string
	Children []*Node
}
