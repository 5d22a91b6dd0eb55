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

package vm

// Op identifies a VM instruction. Values deliberately leave a gap at
// 0x05 (an earlier revision of this machine carried a dedicated CMP
// instruction; it was dropped in favor of the TEST family below, which
// stores its boolean result in a register instead of a flag).
type Op byte

const (
	OpMOV Op = 0x01
	OpIN  Op = 0x02
	OpOUT Op = 0x03
	OpJMP Op = 0x04

	OpADD Op = 0x06
	OpSUB Op = 0x07
	OpMUL Op = 0x08
	OpDIV Op = 0x09

	OpPUSH Op = 0x0a
	OpPOP  Op = 0x0b
	OpCALL Op = 0x0c
	OpRET  Op = 0x0d

	OpLOAD8   Op = 0x0e
	OpLOAD16  Op = 0x0f
	OpLOAD32  Op = 0x10
	OpLOAD64  Op = 0x11
	OpSTORE8  Op = 0x12
	OpSTORE16 Op = 0x13
	OpSTORE32 Op = 0x14
	OpSTORE64 Op = 0x15

	OpMOD Op = 0x16
	OpSHL Op = 0x17
	OpSHR Op = 0x18
	OpAND Op = 0x19
	OpOR  Op = 0x1a
	OpXOR Op = 0x1b
	OpNOT Op = 0x1c

	OpTESTEQ  Op = 0x1d
	OpTESTNEQ Op = 0x1e
	OpTESTGT  Op = 0x1f
	OpTESTLT  Op = 0x20
	OpTESTGE  Op = 0x21
	OpTESTLE  Op = 0x22

	OpJE  Op = 0x23
	OpJNE Op = 0x24
	OpHAL Op = 0x25
)

var opcodes = map[Op]string{
	OpMOV: "MOV", OpIN: "IN", OpOUT: "OUT", OpJMP: "JMP",
	OpADD: "ADD", OpSUB: "SUB", OpMUL: "MUL", OpDIV: "DIV",
	OpPUSH: "PUSH", OpPOP: "POP", OpCALL: "CALL", OpRET: "RET",
	OpLOAD8: "LOAD8", OpLOAD16: "LOAD16", OpLOAD32: "LOAD32", OpLOAD64: "LOAD64",
	OpSTORE8: "STORE8", OpSTORE16: "STORE16", OpSTORE32: "STORE32", OpSTORE64: "STORE64",
	OpMOD: "MOD", OpSHL: "SHL", OpSHR: "SHR", OpAND: "AND", OpOR: "OR", OpXOR: "XOR", OpNOT: "NOT",
	OpTESTEQ: "TESTEQ", OpTESTNEQ: "TESTNEQ", OpTESTGT: "TESTGT", OpTESTLT: "TESTLT",
	OpTESTGE: "TESTGE", OpTESTLE: "TESTLE",
	OpJE: "JE", OpJNE: "JNE", OpHAL: "HAL",
}

var opcodeIndex = make(map[string]Op)

func init() {
	for op, name := range opcodes {
		opcodeIndex[name] = op
	}
}

// String implements fmt.Stringer.
func (op Op) String() string {
	if s, ok := opcodes[op]; ok {
		return s
	}
	return "UNKNOWN"
}

// Reg identifies a VM register. Register codes start at 0x20; a
// register operand is recognized by its KindReg operand-type field,
// not by its byte value.
type Reg byte

const (
	RegC0 Reg = 0x20
	RegC1 Reg = 0x21
	RegC2 Reg = 0x22
	RegC3 Reg = 0x23
	RegSP Reg = 0x24
	RegIP Reg = 0x25
	RegAR Reg = 0x26
)

var regNames = map[Reg]string{
	RegC0: "C0", RegC1: "C1", RegC2: "C2", RegC3: "C3",
	RegSP: "SP", RegIP: "IP", RegAR: "AR",
}

// String implements fmt.Stringer.
func (r Reg) String() string {
	if s, ok := regNames[r]; ok {
		return s
	}
	return "?"
}

// OperandKind tags the 3-bit operand-type field of an instruction
// header.
type OperandKind byte

const (
	KindNone  OperandKind = 0
	KindImm8  OperandKind = 1
	KindImm16 OperandKind = 2
	KindImm32 OperandKind = 3
	KindImm64 OperandKind = 4
	KindReg   OperandKind = 5
)

// Width reports the payload size in bytes for an operand of this kind.
func (k OperandKind) Width() int {
	switch k {
	case KindImm8:
		return 1
	case KindImm16:
		return 2
	case KindImm32:
		return 4
	case KindImm64:
		return 8
	case KindReg:
		return 1
	default:
		return 0
	}
}
