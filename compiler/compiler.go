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
	"strconv"

	"github.com/pkg/errors"

	"github.com/db47h/corvid/ast"
	"github.com/db47h/corvid/asm"
	"github.com/db47h/corvid/vm"
)

// Compiler lowers a syntax tree into byte code, sharing a single
// Symbols table across every function and block it compiles so that
// branch and call targets resolve against one coherent address space.
type Compiler struct {
	symbols *Symbols
	funcs   FuncTable
}

// New returns a Compiler that records branch and function addresses
// in symbols.
func New(symbols *Symbols) *Compiler {
	return &Compiler{symbols: symbols}
}

// Compile lowers node (a Program or CodeBlock) into byte code living
// at baseAddr, using enclosing as the lexical parent scope (nil at the
// top level), appends a terminating HAL, and returns the result. The
// caller is responsible for calling Symbols.Link once every top-level
// construct that shares this Compiler's Symbols table has been
// compiled.
func (c *Compiler) Compile(node *ast.Node, enclosing *Scope, baseAddr int) ([]byte, error) {
	scope := NewScope(enclosing)
	code, err := c.block(node.Children, scope, baseAddr, nil)
	if err != nil {
		return nil, err
	}
	return asm.Encode(code, vm.OpHAL)
}

// Entry appends a "CALL name; HAL" bootstrap after code (compiled at
// baseAddr) and returns the extended code along with the address of
// that bootstrap. Callers must use this address, not name's own, as
// the VM's entry point: every function, name included, expects CALL
// to have pushed a real return address before it starts, and its own
// RET pops that address to find out where to go next. Pointing the
// VM directly at name's address instead skips the CALL, so RET pops
// whatever happens to be sitting at SP and can send IP anywhere.
func (c *Compiler) Entry(code []byte, baseAddr int, name string) ([]byte, uint64, error) {
	addr, ok := c.symbols.Lookup(name)
	if !ok {
		return nil, 0, errors.Errorf("'%s' undefined", name)
	}
	entry := uint64(baseAddr + len(code))
	code, err := asm.Encode(code, vm.OpCALL, asm.Imm64(addr))
	if err != nil {
		return nil, 0, err
	}
	code, err = asm.Encode(code, vm.OpHAL)
	if err != nil {
		return nil, 0, err
	}
	return code, entry, nil
}

var binaryOps = map[ast.Kind]vm.Op{
	ast.Add: vm.OpADD, ast.Sub: vm.OpSUB, ast.Mul: vm.OpMUL, ast.Div: vm.OpDIV, ast.Mod: vm.OpMOD,
	ast.And: vm.OpAND, ast.Or: vm.OpOR, ast.Xor: vm.OpXOR, ast.Shl: vm.OpSHL, ast.Shr: vm.OpSHR,
	ast.LogicAnd: vm.OpAND, ast.LogicOr: vm.OpOR,
}

var testOps = map[ast.Kind]vm.Op{
	ast.Eq: vm.OpTESTEQ, ast.NotEq: vm.OpTESTNEQ, ast.GT: vm.OpTESTGT,
	ast.LT: vm.OpTESTLT, ast.GE: vm.OpTESTGE, ast.LE: vm.OpTESTLE,
}

// block compiles stmts in order within scope, then reclaims scope's
// own local variables from the stack pointer. An If is special-cased
// here, rather than in stmt, because it must look ahead at its
// following siblings to collect any Elif/Else chained to it.
func (c *Compiler) block(stmts []*ast.Node, scope *Scope, base int, code []byte) ([]byte, error) {
	var err error
	i := 0
	for i < len(stmts) {
		n := stmts[i]
		if n.Kind == ast.If {
			branches := []*ast.Node{n}
			j := i + 1
			for j < len(stmts) && stmts[j].Kind == ast.Elif {
				branches = append(branches, stmts[j])
				j++
			}
			var elseNode *ast.Node
			if j < len(stmts) && stmts[j].Kind == ast.Else {
				elseNode = stmts[j]
				j++
			}
			code, err = c.compileIfChain(branches, elseNode, scope, base, code)
			if err != nil {
				return nil, err
			}
			i = j
			continue
		}
		code, err = c.stmt(n, scope, base, code)
		if err != nil {
			return nil, err
		}
		i++
	}
	if total := scope.TotalSize(); total > 0 {
		code, err = asm.Encode(code, vm.OpADD, asm.Reg(vm.RegSP), asm.Imm16(uint16(total)))
		if err != nil {
			return nil, err
		}
	}
	return code, nil
}

func (c *Compiler) stmt(n *ast.Node, scope *Scope, base int, code []byte) ([]byte, error) {
	switch n.Kind {
	case ast.VarDeclare:
		return c.compileVarDeclare(n, scope, code)
	case ast.VarSetValue:
		return c.compileAssign(n, scope, base, code)
	case ast.Return:
		return c.compileReturn(n, scope, base, code)
	case ast.While:
		return c.compileWhile(n, scope, base, code)
	case ast.FuncDef:
		return c.compileFuncDef(n, scope, base, code)
	case ast.For:
		return nil, errors.New("for loops are not implemented")
	case ast.Break, ast.Continue:
		return nil, errors.Errorf("%s is not implemented", n.Kind)
	case ast.Elif, ast.Else:
		return nil, errors.Errorf("%s without a preceding if", n.Kind)
	default:
		// An expression used as a statement: compile it and discard
		// whatever lands in C0.
		return c.compileExpr(n, scope, base, code)
	}
}

func (c *Compiler) compileVarDeclare(n *ast.Node, scope *Scope, code []byte) ([]byte, error) {
	if len(n.Children) < 1 {
		return nil, errors.New("malformed variable declaration")
	}
	name := n.Children[0].Data
	typ := TypeUnknown
	if len(n.Children) > 1 {
		typ = VarTypeFromString(n.Children[1].Data)
	}
	if typ == TypeUnknown {
		return nil, errors.Errorf("'%s' has unknown type", name)
	}
	size := typ.Size()
	var err error
	if size > 0 {
		code, err = asm.Encode(code, vm.OpSUB, asm.Reg(vm.RegSP), asm.Imm16(uint16(size)))
		if err != nil {
			return nil, err
		}
	}
	scope.ModifyOffset(size)
	if err := scope.Push(Variable{Name: name, Type: typ, Size: size, Offset: 0}); err != nil {
		return nil, err
	}
	return code, nil
}

// addressVariable computes v's absolute address into AR.
func (c *Compiler) addressVariable(v *Variable, code []byte) ([]byte, error) {
	code, err := asm.Encode(code, vm.OpMOV, asm.Reg(vm.RegAR), asm.Reg(vm.RegSP))
	if err != nil {
		return nil, err
	}
	if v.Offset > 0 {
		code, err = asm.Encode(code, vm.OpADD, asm.Reg(vm.RegAR), asm.Imm16(uint16(v.Offset)))
		if err != nil {
			return nil, err
		}
	}
	return code, nil
}

func (c *Compiler) loadVariable(v *Variable, code []byte, dest vm.Reg) ([]byte, error) {
	code, err := c.addressVariable(v, code)
	if err != nil {
		return nil, err
	}
	return asm.Encode(code, vm.OpLOAD64, asm.Reg(dest), asm.Reg(vm.RegAR))
}

func (c *Compiler) compileAssign(n *ast.Node, scope *Scope, base int, code []byte) ([]byte, error) {
	if len(n.Children) != 2 {
		return nil, errors.New("malformed assignment")
	}
	lhs, rhs := n.Children[0], n.Children[1]
	if lhs.Kind != ast.Identifier {
		return nil, errors.New("left-hand side of assignment must be a name")
	}
	v, ok := scope.Lookup(lhs.Data)
	if !ok {
		return nil, errors.Errorf("'%s' undefined", lhs.Data)
	}
	code, err := c.materialize(rhs, scope, base, code, vm.RegC0)
	if err != nil {
		return nil, err
	}
	code, err = c.addressVariable(v, code)
	if err != nil {
		return nil, err
	}
	return asm.Encode(code, vm.OpSTORE64, asm.Reg(vm.RegC0), asm.Reg(vm.RegAR))
}

func (c *Compiler) compileReturn(n *ast.Node, scope *Scope, base int, code []byte) ([]byte, error) {
	var err error
	if len(n.Children) > 0 {
		code, err = c.materialize(n.Children[0], scope, base, code, vm.RegC0)
		if err != nil {
			return nil, err
		}
	}
	return asm.Encode(code, vm.OpRET)
}

// compileIfChain compiles an if and any elif branches chained to it,
// plus an optional trailing else, as one cohesive structure: each
// branch's condition is tested in turn, falling through to the next
// branch's test on failure, with every taken branch jumping past the
// rest of the chain to a shared end label.
func (c *Compiler) compileIfChain(branches []*ast.Node, elseNode *ast.Node, scope *Scope, base int, code []byte) ([]byte, error) {
	endLabel := c.symbols.AllocInternalSym(0)
	var err error
	for idx, branch := range branches {
		if len(branch.Children) != 2 {
			return nil, errors.Errorf("malformed %s statement", branch.Kind)
		}
		cond, body := branch.Children[0], branch.Children[1]
		code, err = c.compileExpr(cond, scope, base, code)
		if err != nil {
			return nil, err
		}

		nextLabel := c.symbols.AllocInternalSym(0)
		patchAddr := uint64(base + len(code) + 3) // header(2) + C0 operand(1)
		code, err = asm.Encode(code, vm.OpJNE, asm.Reg(vm.RegC0), asm.Imm64(0))
		if err != nil {
			return nil, err
		}
		c.symbols.InternalRef(nextLabel, patchAddr)

		code, err = c.block(body.Children, NewScope(scope), base, code)
		if err != nil {
			return nil, err
		}

		isLast := idx == len(branches)-1 && elseNode == nil
		if !isLast {
			jmpPatchAddr := uint64(base + len(code) + 2) // header(2), no register operand
			code, err = asm.Encode(code, vm.OpJMP, asm.Imm64(0))
			if err != nil {
				return nil, err
			}
			c.symbols.InternalRef(endLabel, jmpPatchAddr)
		}
		c.symbols.ModifyInternalSym(nextLabel, uint64(base+len(code)))
	}
	if elseNode != nil {
		if len(elseNode.Children) != 1 {
			return nil, errors.New("malformed else statement")
		}
		code, err = c.block(elseNode.Children[0].Children, NewScope(scope), base, code)
		if err != nil {
			return nil, err
		}
	}
	c.symbols.ModifyInternalSym(endLabel, uint64(base+len(code)))
	return code, nil
}

// compileWhile compiles a condition, a JNE past the loop, the body,
// and a trailing unconditional jump back to the condition.
func (c *Compiler) compileWhile(n *ast.Node, scope *Scope, base int, code []byte) ([]byte, error) {
	if len(n.Children) != 2 {
		return nil, errors.New("malformed while statement")
	}
	cond, body := n.Children[0], n.Children[1]
	startLabel := c.symbols.AllocInternalSym(uint64(base + len(code)))
	code, err := c.compileExpr(cond, scope, base, code)
	if err != nil {
		return nil, err
	}
	endLabel := c.symbols.AllocInternalSym(0)
	endPatchAddr := uint64(base + len(code) + 3)
	code, err = asm.Encode(code, vm.OpJNE, asm.Reg(vm.RegC0), asm.Imm64(0))
	if err != nil {
		return nil, err
	}
	c.symbols.InternalRef(endLabel, endPatchAddr)
	code, err = c.block(body.Children, NewScope(scope), base, code)
	if err != nil {
		return nil, err
	}
	startPatchAddr := uint64(base + len(code) + 2) // header(2), no register operand
	code, err = asm.Encode(code, vm.OpJMP, asm.Imm64(0))
	if err != nil {
		return nil, err
	}
	c.symbols.InternalRef(startLabel, startPatchAddr)
	c.symbols.ModifyInternalSym(endLabel, uint64(base+len(code)))
	return code, nil
}

// compileFuncDef records name's entry address before compiling its
// body, so a function can call itself; parameters become a fresh
// Scope whose offsets are shifted by the saved return address CALL
// pushes on entry.
func (c *Compiler) compileFuncDef(n *ast.Node, scope *Scope, base int, code []byte) ([]byte, error) {
	if len(n.Children) < 3 {
		return nil, errors.New("malformed function definition")
	}
	name := n.Children[0].Data
	params := n.Children[1]
	body := n.Children[2]

	paramTypes := make([]VarType, 0, len(params.Children))
	for _, p := range params.Children {
		typ := TypeUnknown
		if len(p.Children) > 0 {
			typ = VarTypeFromString(p.Children[0].Data)
		}
		if typ == TypeUnknown {
			return nil, errors.Errorf("parameter '%s' has unknown type", p.Data)
		}
		paramTypes = append(paramTypes, typ)
	}
	c.funcs.Add(name, paramTypes)

	if err := c.symbols.AddExternalSym(name, uint64(base+len(code))); err != nil {
		return nil, err
	}

	fnScope := NewScope(scope)
	for i, p := range params.Children {
		size := paramTypes[i].Size()
		fnScope.ModifyOffset(size)
		if err := fnScope.Push(Variable{Name: p.Data, Type: paramTypes[i], Size: size, Offset: 0}); err != nil {
			return nil, err
		}
	}
	fnScope.ModifyOffset(8) // saved return address, pushed by CALL

	code, err := c.block(body.Children, fnScope, base, code)
	if err != nil {
		return nil, err
	}
	stmts := body.Children
	if len(stmts) == 0 || stmts[len(stmts)-1].Kind != ast.Return {
		code, err = asm.Encode(code, vm.OpRET)
		if err != nil {
			return nil, err
		}
	}
	return code, nil
}

// compileFuncCall compiles a call to a user function or, for the
// intrinsics "in" and "out", directly to their VM opcodes.
func (c *Compiler) compileFuncCall(n *ast.Node, scope *Scope, base int, code []byte) ([]byte, error) {
	if len(n.Children) != 2 {
		return nil, errors.New("malformed function call")
	}
	name := n.Children[0].Data
	args := n.Children[1].Children

	switch name {
	case "out":
		return c.compileOut(args, scope, base, code)
	case "in":
		return c.compileIn(args, scope, base, code)
	}

	addr, ok := c.symbols.Lookup(name)
	if !ok {
		return nil, errors.Errorf("'%s' undefined", name)
	}
	var err error
	for _, a := range args {
		code, err = c.materialize(a, scope, base, code, vm.RegC0)
		if err != nil {
			return nil, err
		}
		code, err = asm.Encode(code, vm.OpPUSH, asm.Reg(vm.RegC0))
		if err != nil {
			return nil, err
		}
		// Each pushed argument moves every visible variable 8 bytes
		// further from SP for the arguments that follow.
		for s := scope; s != nil; s = s.parent {
			s.ModifyOffset(8)
		}
	}
	for s := scope; s != nil; s = s.parent {
		s.ModifyOffset(-8 * len(args))
	}
	code, err = asm.Encode(code, vm.OpCALL, asm.Imm64(addr))
	if err != nil {
		return nil, err
	}
	if n := len(args); n > 0 {
		code, err = asm.Encode(code, vm.OpADD, asm.Reg(vm.RegSP), asm.Imm8(uint8(8*n)))
		if err != nil {
			return nil, err
		}
	}
	return code, nil
}

// compileOut lowers out(dev, value) directly to OUT dev, src: the
// device id materializes into C0, the value into C1.
func (c *Compiler) compileOut(args []*ast.Node, scope *Scope, base int, code []byte) ([]byte, error) {
	if len(args) != 2 {
		return nil, errors.New("'out' takes exactly 2 arguments: device, value")
	}
	code, err := c.materialize(args[0], scope, base, code, vm.RegC0)
	if err != nil {
		return nil, err
	}
	code, err = c.materialize(args[1], scope, base, code, vm.RegC1)
	if err != nil {
		return nil, err
	}
	return asm.Encode(code, vm.OpOUT, asm.Reg(vm.RegC0), asm.Reg(vm.RegC1))
}

// compileIn lowers in(dev) directly to IN dst, dev: the device id
// materializes into C1, and the byte read lands in C0, matching every
// other expression's result convention.
func (c *Compiler) compileIn(args []*ast.Node, scope *Scope, base int, code []byte) ([]byte, error) {
	if len(args) != 1 {
		return nil, errors.New("'in' takes exactly 1 argument: device")
	}
	code, err := c.materialize(args[0], scope, base, code, vm.RegC1)
	if err != nil {
		return nil, err
	}
	return asm.Encode(code, vm.OpIN, asm.Reg(vm.RegC0), asm.Reg(vm.RegC1))
}

// compileExpr compiles n as an expression, landing its result in C0.
func (c *Compiler) compileExpr(n *ast.Node, scope *Scope, base int, code []byte) ([]byte, error) {
	switch n.Kind {
	case ast.Value, ast.Identifier:
		return c.materialize(n, scope, base, code, vm.RegC0)
	case ast.FuncCall:
		return c.compileFuncCall(n, scope, base, code)
	}
	if op, ok := binaryOps[n.Kind]; ok {
		return c.compileBinary(n, op, scope, base, code)
	}
	if op, ok := testOps[n.Kind]; ok {
		return c.compileTest(n, op, scope, base, code)
	}
	return nil, errors.Errorf("cannot compile %s as an expression", n.Kind)
}

func (c *Compiler) compileBinary(n *ast.Node, op vm.Op, scope *Scope, base int, code []byte) ([]byte, error) {
	if len(n.Children) != 2 {
		return nil, errors.Errorf("malformed %s expression", n.Kind)
	}
	code, err := c.materialize(n.Children[0], scope, base, code, vm.RegC0)
	if err != nil {
		return nil, err
	}
	code, err = c.materialize(n.Children[1], scope, base, code, vm.RegC1)
	if err != nil {
		return nil, err
	}
	return asm.Encode(code, op, asm.Reg(vm.RegC0), asm.Reg(vm.RegC1))
}

func (c *Compiler) compileTest(n *ast.Node, op vm.Op, scope *Scope, base int, code []byte) ([]byte, error) {
	if len(n.Children) != 2 {
		return nil, errors.Errorf("malformed %s expression", n.Kind)
	}
	code, err := c.materialize(n.Children[0], scope, base, code, vm.RegC0)
	if err != nil {
		return nil, err
	}
	code, err = c.materialize(n.Children[1], scope, base, code, vm.RegC1)
	if err != nil {
		return nil, err
	}
	return asm.Encode(code, op, asm.Reg(vm.RegC0), asm.Reg(vm.RegC0), asm.Reg(vm.RegC1))
}

// materialize compiles n and ensures its value ends up in dest. For a
// literal or a variable it emits directly into dest; for anything else
// (a nested operator, a call) it relies on compileExpr's C0 convention,
// saving and restoring C0 around it when dest is not C0 itself.
func (c *Compiler) materialize(n *ast.Node, scope *Scope, base int, code []byte, dest vm.Reg) ([]byte, error) {
	switch n.Kind {
	case ast.Value:
		v, err := literalValue(n)
		if err != nil {
			return nil, err
		}
		return asm.Encode(code, vm.OpMOV, asm.Reg(dest), asm.Imm64(v))
	case ast.Identifier:
		v, ok := scope.Lookup(n.Data)
		if !ok {
			return nil, errors.Errorf("'%s' undefined", n.Data)
		}
		return c.loadVariable(v, code, dest)
	default:
		if dest == vm.RegC0 {
			return c.compileExpr(n, scope, base, code)
		}
		code, err := asm.Encode(code, vm.OpPUSH, asm.Reg(vm.RegC0))
		if err != nil {
			return nil, err
		}
		// The PUSH moved SP down by 8: every visible variable is 8 bytes
		// further from SP while n is compiled.
		for s := scope; s != nil; s = s.parent {
			s.ModifyOffset(8)
		}
		code, err = c.compileExpr(n, scope, base, code)
		for s := scope; s != nil; s = s.parent {
			s.ModifyOffset(-8)
		}
		if err != nil {
			return nil, err
		}
		code, err = asm.Encode(code, vm.OpMOV, asm.Reg(dest), asm.Reg(vm.RegC0))
		if err != nil {
			return nil, err
		}
		return asm.Encode(code, vm.OpPOP, asm.Reg(vm.RegC0))
	}
}

func literalValue(n *ast.Node) (uint64, error) {
	switch {
	case len(n.Data) >= 2 && n.Data[0] == '\'' && n.Data[len(n.Data)-1] == '\'':
		return uint64(n.Data[1]), nil
	case n.Data == "true":
		return 1, nil
	case n.Data == "false", n.Data == "null":
		return 0, nil
	default:
		v, err := strconv.ParseUint(n.Data, 10, 64)
		if err != nil {
			return 0, errors.Errorf("'%s' is not a number", n.Data)
		}
		return v, nil
	}
}
