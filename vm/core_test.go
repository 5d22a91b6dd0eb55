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

import "testing"

func TestPushPopDepth(t *testing.T) {
	i, err := New(MemSize(DefaultStackBase))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	base := i.Reg(RegSP)
	if d := i.Depth(); d != 0 {
		t.Fatalf("initial Depth() = %d, want 0", d)
	}
	if err := i.push(7); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := i.push(9); err != nil {
		t.Fatalf("push: %v", err)
	}
	if d := i.Depth(); d != 2 {
		t.Fatalf("Depth() after two pushes = %d, want 2", d)
	}
	v, err := i.pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if v != 9 {
		t.Fatalf("pop() = %d, want 9 (LIFO order)", v)
	}
	v, err = i.pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if v != 7 {
		t.Fatalf("pop() = %d, want 7", v)
	}
	if got := i.Reg(RegSP); got != base {
		t.Fatalf("SP = %#x after balanced push/pop, want %#x", got, base)
	}
}

func TestPopUnderflowIsAnError(t *testing.T) {
	i, err := New(MemSize(1 << 16))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	i.sp = i.ram.Size() // nothing below SP to read from
	if _, err := i.pop(); err == nil {
		t.Fatal("expected an error popping past the end of RAM, got nil")
	}
}
