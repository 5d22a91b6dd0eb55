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

// Package compiler lowers an *ast.Node tree to the VM's packed byte
// code, tracking local variables in a Scope chain and branch/function
// addresses in a Symbols table shared across a whole compilation unit.
//
// Compile drives one block's statements in source order; expressions
// always land their result in register C0, with C1 as scratch for the
// right-hand operand of a binary operation. Forward references within
// a block (an if/while branch target past the end of the block it
// guards) go through Symbols' internal-symbol mechanism, patched by
// Symbols.Link once the whole unit has been compiled. Forward
// references across function boundaries — calling a function before
// its definition — are not supported; every call site resolves its
// target's address immediately via Symbols.Lookup.
package compiler
