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

package asm_test

import (
	"strings"
	"testing"

	"github.com/db47h/corvid/asm"
	"github.com/db47h/corvid/vm"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	code, err := asm.Encode(nil, vm.OpMOV, asm.Reg(vm.RegC0), asm.Imm8(65))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	ins, next, err := asm.Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if next != len(code) {
		t.Fatalf("next = %d, want %d", next, len(code))
	}
	if ins.Op != vm.OpMOV {
		t.Fatalf("Op = %s, want MOV", ins.Op)
	}
	if len(ins.Operands) != 2 || ins.Operands[0].Reg != vm.RegC0 || ins.Operands[1].Value != 65 {
		t.Fatalf("Operands = %+v", ins.Operands)
	}
}

func TestEncodeTooManyOperands(t *testing.T) {
	_, err := asm.Encode(nil, vm.OpHAL, asm.Imm8(1), asm.Imm8(2), asm.Imm8(3), asm.Imm8(4))
	if err == nil {
		t.Fatal("expected an error for more than three operands, got nil")
	}
}

func TestDecodeTruncatedHeader(t *testing.T) {
	if _, _, err := asm.Decode([]byte{0x02}, 0); err == nil {
		t.Fatal("expected an error decoding a truncated header, got nil")
	}
}

func TestAssembleLabelForwardAndBackward(t *testing.T) {
	src := `
		MOV C0, 3;
		:loop
		MOV C1, 1;
		SUB C0, C1;
		JNE C0, loop;
		JMP done;
		:done
		HAL;
	`
	code, err := asm.Assemble("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	var sb strings.Builder
	if err := asm.DisassembleAll(code, 0, &sb); err != nil {
		t.Fatalf("DisassembleAll: %v", err)
	}
	if !strings.Contains(sb.String(), "HAL") {
		t.Fatalf("disassembly missing HAL:\n%s", sb.String())
	}
}

func TestAssembleUndefinedLabelIsAnError(t *testing.T) {
	_, err := asm.Assemble("test", strings.NewReader("JMP nowhere;"))
	if err == nil {
		t.Fatal("expected an error for an undefined label, got nil")
	}
	if _, ok := err.(asm.ErrAsm); !ok {
		t.Fatalf("error type = %T, want asm.ErrAsm", err)
	}
}

func TestAssembleLabelRedefinitionIsAnError(t *testing.T) {
	_, err := asm.Assemble("test", strings.NewReader(":foo HAL; :foo HAL;"))
	if err == nil {
		t.Fatal("expected an error for a redefined label, got nil")
	}
}
