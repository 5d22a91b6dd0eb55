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

// Package asm encodes, decodes and disassembles the VM's packed
// instruction format: a 2-byte big-endian header (7-bit opcode, three
// 3-bit operand-type fields) followed by 0-3 variable-width operand
// payloads.
//
// Opcode table:
//
//	opcode	mnemonic	operands
//	0x01	MOV		dst, src
//	0x02	IN		dst, dev
//	0x03	OUT		dev, src
//	0x04	JMP		addr
//	0x06	ADD		dst, src
//	0x07	SUB		dst, src
//	0x08	MUL		dst, src
//	0x09	DIV		dst, src
//	0x0a	PUSH		src
//	0x0b	POP		dst
//	0x0c	CALL		addr
//	0x0d	RET
//	0x0e-0x11	LOAD8/16/32/64	dst, addr
//	0x12-0x15	STORE8/16/32/64	src, addr
//	0x16	MOD		dst, src
//	0x17	SHL		dst, src
//	0x18	SHR		dst, src
//	0x19	AND		dst, src
//	0x1a	OR		dst, src
//	0x1b	XOR		dst, src
//	0x1c	NOT		dst
//	0x1d-0x22	TESTEQ/NEQ/GT/LT/GE/LE	dst, a, b
//
// The arithmetic, shift and bitwise instructions are two-operand:
// dst ← dst op src. NOT complements dst in place. The TEST family
// stores 1 in dst when "a op b" holds and 0 otherwise.
//	0x23	JE		cond, addr
//	0x24	JNE		cond, addr
//	0x25	HAL
//
// Operand-type codes (3 bits each): 0 absent, 1 imm8, 2 imm16, 3
// imm32, 4 imm64, 5 register.
//
// The package also provides a small textual assembler (Assemble),
// used by tests and examples to write VM programs by hand without
// going through the lexer/ast/compiler pipeline.
//
// A program is a sequence of statements, each either a label
// definition or an instruction:
//
//	:label
//	MNEMONIC operand, operand, operand;
//
// Operands are either register names (C0, C1, C2, C3, SP, IP, AR) or
// decimal/hex/octal integer literals (as accepted by strconv.ParseInt
// with base 0). A bare identifier that is neither a register name nor
// a known mnemonic is a label reference; Assemble resolves it to the
// label's byte address once the whole program has been scanned,
// patching both forward and backward references in a final pass. All
// label references and integer literals are always encoded as 64-bit
// immediates: this textual assembler favors simplicity over code
// size. The compiler's own direct Encode calls use a fixed width per
// instruction kind instead (imm64 for loaded values, imm16 for stack
// adjustments, imm8 for argument cleanup).
//
// For example, a function that loops three times printing 'x' (JE
// jumps when its condition register holds 1):
//
//	MOV C0, 3;
//	:loop
//	MOV C1, 120;
//	OUT 1, C1;
//	MOV C1, 1;
//	SUB C0, C1;
//	TESTNEQ C1, C0, 0;
//	JE C1, loop;
//	HAL;
package asm
