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

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// operand is a decoded instruction operand: either a register (kind
// KindReg) or an immediate value, already widened to 64 bits.
type operand struct {
	kind  OperandKind
	reg   Reg
	value uint64
}

func (i *Instance) operandValue(o operand) uint64 {
	if o.kind == KindReg {
		return i.Reg(o.reg)
	}
	return o.value
}

// fetch decodes the instruction at IP: the opcode, up to three
// operands, and the next IP. It never mutates instance state besides
// reading i.code.
func (i *Instance) fetch() (op Op, operands [3]operand, next uint64, err error) {
	pc := i.ip
	if pc+2 > uint64(len(i.code)) {
		return 0, operands, 0, errors.Errorf("IP %#x: fetch past end of code (%d bytes)", pc, len(i.code))
	}
	header := binary.BigEndian.Uint16(i.code[pc:])
	op = Op(header >> 9)
	pc += 2
	kinds := [3]OperandKind{
		OperandKind((header >> 6) & 0x7),
		OperandKind((header >> 3) & 0x7),
		OperandKind(header & 0x7),
	}
	for n, k := range kinds {
		switch k {
		case KindNone:
			continue
		case KindReg:
			if pc+1 > uint64(len(i.code)) {
				return 0, operands, 0, errors.Errorf("IP %#x: truncated register operand", i.ip)
			}
			operands[n] = operand{kind: k, reg: Reg(i.code[pc])}
			pc++
		default:
			w := k.Width()
			if pc+uint64(w) > uint64(len(i.code)) {
				return 0, operands, 0, errors.Errorf("IP %#x: truncated immediate operand", i.ip)
			}
			var v uint64
			switch w {
			case 1:
				v = uint64(i.code[pc])
			case 2:
				v = uint64(binary.BigEndian.Uint16(i.code[pc:]))
			case 4:
				v = uint64(binary.BigEndian.Uint32(i.code[pc:]))
			case 8:
				v = binary.BigEndian.Uint64(i.code[pc:])
			}
			operands[n] = operand{kind: k, value: v}
			pc += uint64(w)
		}
	}
	return op, operands, pc, nil
}

// Run executes instructions starting at the current IP until HAL or a
// fatal error. A panic inside the loop (e.g. an unexpected nil map
// access) is converted to a wrapped error rather than escaping to the
// caller, mirroring the reference VM's recover-wrapped Run.
func (i *Instance) Run() (err error) {
	defer func() {
		if e := recover(); e != nil {
			if cause, ok := e.(error); ok {
				err = errors.Wrapf(cause, "recovered panic @ip=%#x", i.ip)
			} else {
				err = errors.Errorf("recovered panic @ip=%#x: %v", i.ip, e)
			}
		}
	}()
	i.insCount = 0
	for {
		pc := i.ip
		op, ops, next, ferr := i.fetch()
		if ferr != nil {
			return ferr
		}
		i.ip = next
		halt, err := i.exec(op, ops)
		if err != nil {
			return errors.Wrapf(err, "instruction %s @ip=%#x", op, pc)
		}
		i.insCount++
		if halt {
			return nil
		}
	}
}

func (i *Instance) exec(op Op, ops [3]operand) (halt bool, err error) {
	dst := func() Reg { return ops[0].reg }
	a := func() uint64 { return i.operandValue(ops[0]) }
	b := func() uint64 { return i.operandValue(ops[1]) }

	switch op {
	case OpHAL:
		return true, nil
	case OpMOV:
		i.setReg(dst(), b())
	case OpIN:
		v, err := i.in(b())
		if err != nil {
			return false, err
		}
		i.setReg(dst(), v)
	case OpOUT:
		if err := i.out(a(), b()); err != nil {
			return false, err
		}
	case OpJMP:
		i.ip = a()
	case OpJE:
		if a() == 1 {
			i.ip = b()
		}
	case OpJNE:
		if a() == 0 {
			i.ip = b()
		}
	case OpADD:
		i.setReg(dst(), a()+b())
	case OpSUB:
		i.setReg(dst(), a()-b())
	case OpMUL:
		i.setReg(dst(), a()*b())
	case OpDIV:
		if b() == 0 {
			return false, errors.New("division by zero")
		}
		i.setReg(dst(), a()/b())
	case OpMOD:
		if b() == 0 {
			return false, errors.New("modulo by zero")
		}
		i.setReg(dst(), a()%b())
	case OpAND:
		i.setReg(dst(), a()&b())
	case OpOR:
		i.setReg(dst(), a()|b())
	case OpXOR:
		i.setReg(dst(), a()^b())
	case OpSHL:
		i.setReg(dst(), a()<<uint(b()&63))
	case OpSHR:
		i.setReg(dst(), a()>>uint(b()&63))
	case OpNOT:
		i.setReg(dst(), ^a())
	case OpTESTEQ:
		i.setReg(dst(), boolU64(b() == i.operandValue(ops[2])))
	case OpTESTNEQ:
		i.setReg(dst(), boolU64(b() != i.operandValue(ops[2])))
	case OpTESTGT:
		i.setReg(dst(), boolU64(b() > i.operandValue(ops[2])))
	case OpTESTLT:
		i.setReg(dst(), boolU64(b() < i.operandValue(ops[2])))
	case OpTESTGE:
		i.setReg(dst(), boolU64(b() >= i.operandValue(ops[2])))
	case OpTESTLE:
		i.setReg(dst(), boolU64(b() <= i.operandValue(ops[2])))
	case OpPUSH:
		if err := i.push(a()); err != nil {
			return false, err
		}
	case OpPOP:
		v, err := i.pop()
		if err != nil {
			return false, err
		}
		i.setReg(dst(), v)
	case OpCALL:
		if err := i.push(i.ip); err != nil {
			return false, err
		}
		i.ip = a()
	case OpRET:
		v, err := i.pop()
		if err != nil {
			return false, err
		}
		i.ip = v
	case OpLOAD8, OpLOAD16, OpLOAD32, OpLOAD64:
		v, err := i.ram.Load(b(), loadWidth(op))
		if err != nil {
			return false, err
		}
		i.setReg(dst(), v)
	case OpSTORE8, OpSTORE16, OpSTORE32, OpSTORE64:
		if err := i.ram.Store(b(), storeWidth(op), a()); err != nil {
			return false, err
		}
	default:
		return false, errors.Errorf("unknown opcode %#x", byte(op))
	}
	return false, nil
}

func boolU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func loadWidth(op Op) int {
	switch op {
	case OpLOAD8:
		return 1
	case OpLOAD16:
		return 2
	case OpLOAD32:
		return 4
	default:
		return 8
	}
}

func storeWidth(op Op) int {
	switch op {
	case OpSTORE8:
		return 1
	case OpSTORE16:
		return 2
	case OpSTORE32:
		return 4
	default:
		return 8
	}
}
