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

// Command corvidc compiles and optionally runs a corvid source file. It is
// a thin composition root over the lexer, ast, compiler, asm, vm and debug
// packages: it contains no language or VM logic of its own.
//
// Usage:
//
//	corvidc [flags] file
//
//	-o filename
//		  write compiled byte code to filename instead of running it
//	-run
//		  run the program after compiling, even when -o is given
//	-dump
//		  print token, AST and VM-state debug dumps
//	-debug
//		  print a full error cause chain on failure
//	-mem bytes
//		  override the VM's RAM size (default 4 GiB)
//	-raw
//		  switch stdin to raw mode for interactive IN reads
//
// With no -o flag, the compiled program is run immediately. With -o and no
// -run, corvidc only compiles. file may be "-" or omitted to read source
// from stdin.
package main
