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

import "io"

const (
	// DefaultMemSize is the default logical RAM capacity.
	DefaultMemSize = 4 << 30 // 4 GiB
	// DefaultStackBase is the initial value of SP: the stack starts
	// 8 MiB in from the bottom of RAM and grows downward.
	DefaultStackBase = 8 << 20
)

// device ids for IN/OUT.
const (
	DevStdin  = 0
	DevStdout = 1
	DevStderr = 2
)

// Option configures an Instance at construction time.
type Option func(*Instance) error

// MemSize overrides the logical RAM capacity.
func MemSize(n uint64) Option {
	return func(i *Instance) error { i.ram = newRAM(n); return nil }
}

// Stdin sets the reader backing device 0 (IN).
func Stdin(r io.Reader) Option {
	return func(i *Instance) error { i.stdin = r; return nil }
}

// Stdout sets the writer backing device 1 (OUT).
func Stdout(w io.Writer) Option {
	return func(i *Instance) error { i.stdout = w; return nil }
}

// Stderr sets the writer backing device 2 (OUT).
func Stderr(w io.Writer) Option {
	return func(i *Instance) error { i.stderr = w; return nil }
}

// Code installs the byte code the instance will execute.
func Code(code []byte) Option {
	return func(i *Instance) error { i.code = code; return nil }
}

// EntryPoint sets the initial value of IP.
func EntryPoint(addr uint64) Option {
	return func(i *Instance) error { i.ip = addr; return nil }
}

// Instance is one VM execution context: registers, RAM and the three
// byte-oriented I/O devices.
type Instance struct {
	c0, c1, c2, c3 uint64
	sp, ip, ar     uint64
	zf, cf         bool // reserved, never set by the current instruction set

	ram  *RAM
	code []byte

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	insCount int64
}

// New creates a VM instance with default RAM size and stack pointer,
// then applies opts in order.
func New(opts ...Option) (*Instance, error) {
	i := &Instance{
		sp: DefaultStackBase,
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	if i.ram == nil {
		i.ram = newRAM(DefaultMemSize)
	}
	return i, nil
}

// UpdateCode replaces the instance's byte code and resets IP to 0.
func (i *Instance) UpdateCode(code []byte) {
	i.code = code
	i.ip = 0
}

// SetEntryPoint sets IP directly, e.g. to a linked "main" address.
func (i *Instance) SetEntryPoint(addr uint64) {
	i.ip = addr
}

// Reg reads a register by name.
func (i *Instance) Reg(r Reg) uint64 {
	switch r {
	case RegC0:
		return i.c0
	case RegC1:
		return i.c1
	case RegC2:
		return i.c2
	case RegC3:
		return i.c3
	case RegSP:
		return i.sp
	case RegIP:
		return i.ip
	case RegAR:
		return i.ar
	default:
		return 0
	}
}

func (i *Instance) setReg(r Reg, v uint64) {
	switch r {
	case RegC0:
		i.c0 = v
	case RegC1:
		i.c1 = v
	case RegC2:
		i.c2 = v
	case RegC3:
		i.c3 = v
	case RegSP:
		i.sp = v
	case RegIP:
		i.ip = v
	case RegAR:
		i.ar = v
	}
}

// RAM returns the instance's memory, for tests and debug dumps.
func (i *Instance) RAM() *RAM { return i.ram }

// Code returns the instance's byte code, for debug dumps that
// disassemble the instruction at IP.
func (i *Instance) Code() []byte { return i.code }

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}
