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

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/db47h/corvid/ast"
	"github.com/db47h/corvid/compiler"
	"github.com/db47h/corvid/debug"
	"github.com/db47h/corvid/lexer"
	"github.com/db47h/corvid/vm"
)

var (
	outFileName string
	runAfter    bool
	dump        bool
	debugErrs   bool
	memSize     uint64
	rawIO       bool
)

// atExit reports a pipeline error and, under -debug, the VM state at the
// point of failure, then terminates the process with a non-zero status.
func atExit(i *vm.Instance, err error) {
	if err == nil {
		return
	}
	if debugErrs {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		if i != nil {
			debug.VM(os.Stderr, i)
		}
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(1)
}

func readSource(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func main() {
	flag.StringVar(&outFileName, "o", "", "write compiled byte code to `filename` instead of running it")
	flag.BoolVar(&runAfter, "run", false, "run the program after compiling, even when -o is given")
	flag.BoolVar(&dump, "dump", false, "print token, AST and VM-state debug dumps")
	flag.BoolVar(&debugErrs, "debug", false, "print a full error cause chain on failure")
	flag.Uint64Var(&memSize, "mem", vm.DefaultMemSize, "override the VM's RAM size, in bytes")
	flag.BoolVar(&rawIO, "raw", false, "switch stdin to raw mode for interactive IN reads")
	flag.Parse()

	var i *vm.Instance
	var err error
	defer func() { atExit(i, err) }()

	src, err := readSource(flag.Arg(0))
	if err != nil {
		err = errors.Wrap(err, "read source")
		return
	}

	toks, err := lexer.Lex(string(src))
	if err != nil {
		err = errors.Wrap(err, "lex")
		return
	}
	if dump {
		debug.Tokens(os.Stdout, toks)
	}

	tree, err := ast.Build(toks)
	if err != nil {
		err = errors.Wrap(err, "parse")
		return
	}
	if dump {
		debug.Tree(os.Stdout, tree)
	}

	syms := compiler.NewSymbols()
	cc := compiler.New(syms)
	code, err := cc.Compile(tree, nil, 0)
	if err != nil {
		err = errors.Wrap(err, "compile")
		return
	}
	if err = syms.Link(code); err != nil {
		err = errors.Wrap(err, "link")
		return
	}

	var entry uint64
	code, entry, err = cc.Entry(code, 0, "main")
	if err != nil {
		err = errors.Wrap(err, "entry")
		return
	}

	if outFileName != "" {
		if err = os.WriteFile(outFileName, code, 0644); err != nil {
			err = errors.Wrap(err, "write byte code")
			return
		}
	}

	if outFileName != "" && !runAfter {
		return
	}

	if rawIO {
		var tearDown func()
		tearDown, err = setRawIO()
		if err != nil {
			err = errors.Wrap(err, "set raw IO")
			return
		}
		defer tearDown()
	}

	stdout := bufio.NewWriter(os.Stdout)
	i, err = vm.New(
		vm.Code(code),
		vm.EntryPoint(entry),
		vm.MemSize(memSize),
		vm.Stdin(os.Stdin),
		vm.Stdout(stdout),
		vm.Stderr(os.Stderr),
	)
	if err != nil {
		err = errors.Wrap(err, "create VM")
		return
	}

	err = i.Run()
	stdout.Flush()
	if err != nil {
		err = errors.Wrap(err, "run")
		return
	}
	if dump {
		debug.VM(os.Stdout, i)
	}
}
