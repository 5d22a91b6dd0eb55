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

package debug_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/db47h/corvid/ast"
	"github.com/db47h/corvid/compiler"
	"github.com/db47h/corvid/debug"
	"github.com/db47h/corvid/lexer"
	"github.com/db47h/corvid/vm"
)

func TestTokensDumpsOneLinePerToken(t *testing.T) {
	toks, err := lexer.Lex(`return 42;`)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, debug.Tokens(&buf, toks))
	out := buf.String()
	require.Contains(t, out, "keyword return")
	require.Contains(t, out, "number 42")
	require.Equal(t, len(toks), strings.Count(out, "\n"))
}

func TestTreeDumpsIndentedSExpression(t *testing.T) {
	toks, err := lexer.Lex(`func main() { return 42; }`)
	require.NoError(t, err)
	tree, err := ast.Build(toks)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, debug.Tree(&buf, tree))
	out := buf.String()
	require.Contains(t, out, "(program")
	require.Contains(t, out, "(func_def func")
	require.Contains(t, out, "(return")
}

func TestVMDumpsRegistersAndCurrentInstruction(t *testing.T) {
	toks, err := lexer.Lex(`func main() -> u64 { return 42; }`)
	require.NoError(t, err)
	tree, err := ast.Build(toks)
	require.NoError(t, err)
	syms := compiler.NewSymbols()
	code, err := compiler.New(syms).Compile(tree, nil, 0)
	require.NoError(t, err)
	require.NoError(t, syms.Link(code))
	main, ok := syms.Lookup("main")
	require.True(t, ok)

	i, err := vm.New(vm.Code(code), vm.EntryPoint(main))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, debug.VM(&buf, i))
	out := buf.String()
	require.Contains(t, out, "C0=")
	require.Contains(t, out, "SP=")
	require.Contains(t, out, "ip=")
	require.Contains(t, out, "MOV")
}

func TestTreeHandlesNilNode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, debug.Tree(&buf, nil))
	require.Empty(t, buf.String())
}
