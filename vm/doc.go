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

// Package vm implements the register virtual machine: registers
// C0-C3, SP, IP and AR (all 64-bit unsigned), a flat byte-addressable
// RAM region with a descending stack, and a fetch/decode/execute loop
// over a packed 2-byte instruction header format.
//
// A program is a []byte produced by package asm/compiler, installed
// with vm.Code or Instance.UpdateCode, and executed with Run:
//
//	i, err := vm.New(vm.Code(linked), vm.Stdout(os.Stdout))
//	if err != nil {
//		return err
//	}
//	if err := i.Run(); err != nil {
//		return err
//	}
//
// The RAM region is sized 4 GiB by default (vm.DefaultMemSize),
// overridable with vm.MemSize. It is backed by lazily allocated pages,
// so the default size costs nothing until a program actually touches
// memory far from the stack.
//
// Byte-oriented I/O goes through three devices addressed by a small
// integer: DevStdin, DevStdout, DevStderr. IN reads one byte; OUT
// writes the low byte of a value. There is no notion of interactive
// terminal ergonomics (cursor movement, echo, line editing) at this
// layer — see package debug and cmd/corvidc for a thin driver that
// optionally puts its own stdin into raw mode before wiring it up as
// device 0.
//
// Run recovers from internal panics (e.g. a malformed opcode byte
// sequence) and reports them as a wrapped error instead of letting
// them escape to the caller; RAM bounds violations and division or
// modulo by a runtime zero are likewise reported as errors, never as
// process-level panics.
package vm
