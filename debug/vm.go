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

package debug

import (
	"io"
	"strconv"

	"github.com/db47h/corvid/asm"
	"github.com/db47h/corvid/vm"
)

// stackWindow is how many bytes starting at SP are dumped: enough to show a
// few stack frames' worth of locals and saved return addresses.
const stackWindow = 64

var regOrder = []vm.Reg{vm.RegC0, vm.RegC1, vm.RegC2, vm.RegC3, vm.RegSP, vm.RegIP, vm.RegAR}

// VM writes i's register values, a window of stack memory starting at
// SP, and the instruction at IP disassembled via asm.Decode.
func VM(w io.Writer, i *vm.Instance) error {
	ew := newErrWriter(w)
	for _, r := range regOrder {
		ew.WriteString(r.String())
		ew.WriteString("=")
		ew.WriteString(strconv.FormatUint(i.Reg(r), 10))
		ew.WriteString(" ")
	}
	ew.WriteString("\n")

	sp := i.Reg(vm.RegSP)
	if mem, err := i.RAM().Dump(sp, stackWindow); err == nil {
		ew.WriteString("stack@")
		ew.WriteString(strconv.FormatUint(sp, 10))
		ew.WriteString(":")
		for _, b := range mem {
			ew.WriteString(" ")
			ew.WriteString(strconv.Itoa(int(b)))
		}
		ew.WriteString("\n")
	}

	ip := i.Reg(vm.RegIP)
	ew.WriteString("ip=")
	ew.WriteString(strconv.FormatUint(ip, 10))
	ew.WriteString(": ")
	if ew.err == nil {
		if _, err := asm.Disassemble(i.Code(), int(ip), ew); err != nil {
			return err
		}
	}
	ew.WriteString("\n")
	return ew.err
}
