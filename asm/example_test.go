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
	"fmt"
	"os"
	"strings"

	"github.com/db47h/corvid/asm"
	"github.com/db47h/corvid/vm"
)

// ExampleAssemble assembles a small countdown loop that writes 'x' to
// stdout three times, showing label resolution (both the backward
// reference at :loop and the fixed width of every encoded immediate).
func ExampleAssemble() {
	code := `
		MOV C0, 3;
		:loop
		MOV C1, 120;
		OUT 1, C1;
		MOV C1, 1;
		SUB C0, C1;
		TESTNEQ C1, C0, 0;
		JE C1, loop;
		HAL;
	`

	img, err := asm.Assemble("countdown", strings.NewReader(code))
	if err != nil {
		fmt.Println(err)
		return
	}

	asm.DisassembleAll(img, 0, os.Stdout)

	// Output:
	// 0	MOV C0, 3
	// 11	MOV C1, 120
	// 22	OUT 1, C1
	// 33	MOV C1, 1
	// 44	SUB C0, C1
	// 48	TESTNEQ C1, C0, 0
	// 60	JE C1, 11
	// 71	HAL
}

// ExampleDisassemble steps through a hand-encoded program one
// instruction at a time.
func ExampleDisassemble() {
	var code []byte
	code, _ = asm.Encode(code, vm.OpMOV, asm.Reg(vm.RegC0), asm.Imm8(65))
	code, _ = asm.Encode(code, vm.OpOUT, asm.Imm8(vm.DevStdout), asm.Reg(vm.RegC0))
	code, _ = asm.Encode(code, vm.OpHAL)

	for pc := 0; pc < len(code); {
		fmt.Printf("%d\t", pc)
		next, err := asm.Disassemble(code, pc, os.Stdout)
		if err != nil {
			panic(err)
		}
		fmt.Println()
		pc = next
	}

	// Output:
	// 0	MOV C0, 65
	// 4	OUT 1, C0
	// 8	HAL
}
