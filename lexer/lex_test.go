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

package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/corvid/lexer"
)

func kinds(toks []lexer.Token) []lexer.Kind {
	k := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		k[i] = t.Kind
	}
	return k
}

func lexemes(toks []lexer.Token) []string {
	l := make([]string, len(toks))
	for i, t := range toks {
		l[i] = t.Lexeme
	}
	return l
}

func TestLexFuncDecl(t *testing.T) {
	toks, err := lexer.Lex(`func add(a, b) { return a + b; }`)
	require.NoError(t, err)
	assert.Equal(t, []lexer.Kind{
		lexer.Keyword, lexer.Ident, lexer.LParen, lexer.Ident, lexer.Split,
		lexer.Ident, lexer.RParen, lexer.LBrace, lexer.Keyword, lexer.Ident,
		lexer.Add, lexer.Ident, lexer.Split, lexer.RBrace,
	}, kinds(toks))
}

func TestLexNumberAndVarDeclare(t *testing.T) {
	toks, err := lexer.Lex(`var x = 42;`)
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal(t, lexer.Keyword, toks[0].Kind)
	assert.Equal(t, lexer.Ident, toks[1].Kind)
	assert.Equal(t, lexer.Equ, toks[2].Kind)
	assert.Equal(t, lexer.Number, toks[3].Kind)
	assert.Equal(t, "42", toks[3].Lexeme)
	assert.Equal(t, lexer.Split, toks[4].Kind)
}

func TestLexTwoCharOperators(t *testing.T) {
	toks, err := lexer.Lex(`a == b != c && d || e <= f >= g << h >> i -> j`)
	require.NoError(t, err)
	var ops []lexer.Kind
	for _, tk := range toks {
		if tk.Kind != lexer.Ident {
			ops = append(ops, tk.Kind)
		}
	}
	assert.Equal(t, []lexer.Kind{
		lexer.Eq, lexer.NotEq, lexer.LogicAnd, lexer.LogicOr, lexer.LE,
		lexer.GE, lexer.Shl, lexer.Shr, lexer.Explain,
	}, ops)
}

func TestLexLineComment(t *testing.T) {
	toks, err := lexer.Lex("a // a trailing comment\nb")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lexemes(toks))
}

func TestLexBlockComment(t *testing.T) {
	toks, err := lexer.Lex("a /* spans\nmultiple\nlines */ b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lexemes(toks))
}

func TestLexStringEscapes(t *testing.T) {
	toks, err := lexer.Lex(`"hello\nworld"`)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, lexer.String, toks[0].Kind)
	assert.Equal(t, "\"hello\nworld\"", toks[0].Lexeme)
}

func TestLexCharLiteral(t *testing.T) {
	toks, err := lexer.Lex(`'x'`)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, lexer.Char, toks[0].Kind)
	assert.Equal(t, "'x'", toks[0].Lexeme)
}

func TestLexUnterminatedStringIsAnError(t *testing.T) {
	_, err := lexer.Lex(`"never closed`)
	require.Error(t, err)
	assert.Equal(t, "sybmol '\"' doesn't match.", err.Error())
}

func TestLexKeywordsVsIdentifiers(t *testing.T) {
	toks, err := lexer.Lex("if elif else variable")
	require.NoError(t, err)
	assert.Equal(t, []lexer.Kind{lexer.Keyword, lexer.Keyword, lexer.Keyword, lexer.Ident}, kinds(toks))
}

func TestLexXor(t *testing.T) {
	toks, err := lexer.Lex("a ^ b")
	require.NoError(t, err)
	assert.Equal(t, []lexer.Kind{lexer.Ident, lexer.Xor, lexer.Ident}, kinds(toks))
}
