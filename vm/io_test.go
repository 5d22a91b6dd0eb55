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

package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/db47h/corvid/vm"
)

func TestStdoutDevice(t *testing.T) {
	var out bytes.Buffer
	i, err := vm.New(vm.Stdout(&out))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	code := buildOutProgram(t, vm.DevStdout, 'x')
	i.UpdateCode(code)
	if err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "x" {
		t.Errorf("stdout = %q, want %q", out.String(), "x")
	}
}

func TestStdinDevice(t *testing.T) {
	i, err := vm.New(vm.Stdin(strings.NewReader("Z")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	code := buildInProgram(t)
	i.UpdateCode(code)
	if err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := i.Reg(vm.RegC0); got != 'Z' {
		t.Errorf("C0 = %d, want %d ('Z')", got, 'Z')
	}
}

func TestUnknownDeviceIsAnError(t *testing.T) {
	i, err := vm.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	i.UpdateCode(buildOutProgram(t, 9, 'x'))
	if err := i.Run(); err == nil {
		t.Fatal("expected an error writing to an unknown device, got nil")
	}
}

// buildOutProgram assembles: MOV C0, imm8:v; OUT imm8:dev, C0; HAL.
func buildOutProgram(t *testing.T, dev byte, v byte) []byte {
	t.Helper()
	var b []byte
	b = append(b, packHeader(vm.OpMOV, vm.KindReg, vm.KindImm8, vm.KindNone)...)
	b = append(b, byte(vm.RegC0), v)
	b = append(b, packHeader(vm.OpOUT, vm.KindImm8, vm.KindReg, vm.KindNone)...)
	b = append(b, dev, byte(vm.RegC0))
	b = append(b, packHeader(vm.OpHAL, vm.KindNone, vm.KindNone, vm.KindNone)...)
	return b
}

// buildInProgram assembles: IN C0, imm8:DevStdin; HAL.
func buildInProgram(t *testing.T) []byte {
	t.Helper()
	var b []byte
	b = append(b, packHeader(vm.OpIN, vm.KindReg, vm.KindImm8, vm.KindNone)...)
	b = append(b, byte(vm.RegC0), byte(vm.DevStdin))
	b = append(b, packHeader(vm.OpHAL, vm.KindNone, vm.KindNone, vm.KindNone)...)
	return b
}

func packHeader(op vm.Op, k0, k1, k2 vm.OperandKind) []byte {
	h := uint16(op)<<9 | uint16(k0)<<6 | uint16(k1)<<3 | uint16(k2)
	return []byte{byte(h >> 8), byte(h)}
}
