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

// pageSize is the granularity at which RAM pages are lazily allocated.
// The logical address space (4 GiB by default) is never actually
// backed by a single Go slice; only pages written by a Store are
// materialized.
const pageSize = 64 * 1024

// RAM is the VM's flat, byte-addressable, bounds-checked memory. It is
// sparse: pages are allocated on first touch, so a 4 GiB logical
// region costs nothing until a program actually writes to it.
type RAM struct {
	size  uint64
	pages map[uint64][]byte
}

func newRAM(size uint64) *RAM {
	return &RAM{size: size, pages: make(map[uint64][]byte)}
}

// Size returns the logical capacity of the RAM region.
func (r *RAM) Size() uint64 { return r.size }

func (r *RAM) page(addr uint64, alloc bool) []byte {
	id := addr / pageSize
	p, ok := r.pages[id]
	if !ok && alloc {
		p = make([]byte, pageSize)
		r.pages[id] = p
	}
	return p
}

func (r *RAM) checkBounds(addr uint64, width int) error {
	if width < 0 || addr > r.size || uint64(width) > r.size-addr {
		return errors.Errorf("RAM: access at %#x (width %d) exceeds %#x byte region", addr, width, r.size)
	}
	return nil
}

// Load reads an n-byte (n in {1,2,4,8}) big-endian unsigned value at
// addr, zero-extended to 64 bits. Untouched pages read as zero.
func (r *RAM) Load(addr uint64, width int) (uint64, error) {
	if err := r.checkBounds(addr, width); err != nil {
		return 0, err
	}
	var buf [8]byte
	r.readInto(buf[8-width:], addr)
	switch width {
	case 1:
		return uint64(buf[7]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(buf[6:])), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(buf[4:])), nil
	case 8:
		return binary.BigEndian.Uint64(buf[:]), nil
	default:
		return 0, errors.Errorf("RAM: unsupported load width %d", width)
	}
}

func (r *RAM) readInto(dst []byte, addr uint64) {
	for i := range dst {
		page := r.page(addr+uint64(i), false)
		if page != nil {
			dst[i] = page[(addr+uint64(i))%pageSize]
		}
	}
}

// Store writes the low width bytes of v, big-endian, at addr.
func (r *RAM) Store(addr uint64, width int, v uint64) error {
	if err := r.checkBounds(addr, width); err != nil {
		return err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	src := buf[8-width:]
	for i, b := range src {
		page := r.page(addr+uint64(i), true)
		page[(addr+uint64(i))%pageSize] = b
	}
	return nil
}

// Dump returns a copy of size bytes starting at addr, for debug
// printers. It fails the same way Load/Store do on out-of-range
// requests.
func (r *RAM) Dump(addr, size uint64) ([]byte, error) {
	if err := r.checkBounds(addr, int(size)); err != nil {
		return nil, err
	}
	out := make([]byte, size)
	r.readInto(out, addr)
	return out, nil
}
