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

package asm

import (
	"encoding/binary"
	"io"
	"strconv"

	"github.com/db47h/corvid/vm"
	"github.com/pkg/errors"
)

// Operand is a single encoded operand: either a register or an
// immediate value of the width implied by Kind.
type Operand struct {
	Kind  vm.OperandKind
	Reg   vm.Reg
	Value uint64
}

// Reg builds a register operand.
func Reg(r vm.Reg) Operand { return Operand{Kind: vm.KindReg, Reg: r} }

// Imm8/Imm16/Imm32/Imm64 build immediate operands of the given width.
func Imm8(v uint8) Operand   { return Operand{Kind: vm.KindImm8, Value: uint64(v)} }
func Imm16(v uint16) Operand { return Operand{Kind: vm.KindImm16, Value: uint64(v)} }
func Imm32(v uint32) Operand { return Operand{Kind: vm.KindImm32, Value: uint64(v)} }
func Imm64(v uint64) Operand { return Operand{Kind: vm.KindImm64, Value: v} }

// Instruction is a decoded opcode plus up to three operands, as
// produced by Decode and consumed by Encode.
type Instruction struct {
	Op       vm.Op
	Operands []Operand
}

// Encode appends the byte encoding of op with the given operands (at
// most three) to dst and returns the extended slice.
func Encode(dst []byte, op vm.Op, operands ...Operand) ([]byte, error) {
	if len(operands) > 3 {
		return nil, errors.Errorf("%s: too many operands (%d > 3)", op, len(operands))
	}
	var kinds [3]vm.OperandKind
	for i, o := range operands {
		kinds[i] = o.Kind
	}
	header := uint16(op)<<9 | uint16(kinds[0])<<6 | uint16(kinds[1])<<3 | uint16(kinds[2])
	var hb [2]byte
	binary.BigEndian.PutUint16(hb[:], header)
	dst = append(dst, hb[:]...)
	for _, o := range operands {
		if o.Kind == vm.KindReg {
			dst = append(dst, byte(o.Reg))
			continue
		}
		w := o.Kind.Width()
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], o.Value)
		dst = append(dst, buf[8-w:]...)
	}
	return dst, nil
}

// Decode reads one instruction from code at pc and returns it along
// with the offset of the next instruction.
func Decode(code []byte, pc int) (Instruction, int, error) {
	if pc+2 > len(code) {
		return Instruction{}, 0, errors.Errorf("decode: truncated header at %#x", pc)
	}
	header := binary.BigEndian.Uint16(code[pc:])
	op := vm.Op(header >> 9)
	pc += 2
	kinds := [3]vm.OperandKind{
		vm.OperandKind((header >> 6) & 0x7),
		vm.OperandKind((header >> 3) & 0x7),
		vm.OperandKind(header & 0x7),
	}
	var ops []Operand
	for _, k := range kinds {
		if k == vm.KindNone {
			continue
		}
		if k == vm.KindReg {
			if pc+1 > len(code) {
				return Instruction{}, 0, errors.Errorf("decode: truncated register operand at %#x", pc)
			}
			ops = append(ops, Reg(vm.Reg(code[pc])))
			pc++
			continue
		}
		w := k.Width()
		if pc+w > len(code) {
			return Instruction{}, 0, errors.Errorf("decode: truncated immediate operand at %#x", pc)
		}
		var buf [8]byte
		copy(buf[8-w:], code[pc:pc+w])
		ops = append(ops, Operand{Kind: k, Value: binary.BigEndian.Uint64(buf[:])})
		pc += w
	}
	return Instruction{Op: op, Operands: ops}, pc, nil
}

// Assemble reads textual assembly (see the package doc for the
// grammar) from r and returns the assembled byte code. name is used
// only to tag error positions in a returned ErrAsm.
func Assemble(name string, r io.Reader) ([]byte, error) {
	return newParser().Parse(name, r)
}

// DisassembleAll disassembles every instruction in code, one per
// line, prefixing each with its address (base + offset).
func DisassembleAll(code []byte, base int, w io.Writer) error {
	for pc := 0; pc < len(code); {
		if _, err := io.WriteString(w, strconv.Itoa(base+pc)+"\t"); err != nil {
			return err
		}
		next, err := Disassemble(code, pc, w)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		pc = next
	}
	return nil
}

// Disassemble decodes the instruction at pc, writes its mnemonic form
// to w, and returns the offset of the next instruction.
func Disassemble(code []byte, pc int, w io.Writer) (next int, err error) {
	ins, next, err := Decode(code, pc)
	if err != nil {
		return 0, err
	}
	if _, err := io.WriteString(w, ins.Op.String()); err != nil {
		return 0, err
	}
	for idx, o := range ins.Operands {
		sep := ", "
		if idx == 0 {
			sep = " "
		}
		if _, err := io.WriteString(w, sep); err != nil {
			return 0, err
		}
		if o.Kind == vm.KindReg {
			_, err = io.WriteString(w, o.Reg.String())
		} else {
			_, err = io.WriteString(w, strconv.FormatUint(o.Value, 10))
		}
		if err != nil {
			return 0, err
		}
	}
	return next, nil
}
