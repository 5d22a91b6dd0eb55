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

	"github.com/db47h/corvid/lexer"
)

// Tokens writes one line per token to w, as "kind lexeme" followed by
// a tab and the token's "(line:col)" position.
func Tokens(w io.Writer, toks []lexer.Token) error {
	ew := newErrWriter(w)
	for _, t := range toks {
		ew.WriteString(t.Kind.String())
		ew.WriteString(" ")
		ew.WriteString(t.Lexeme)
		ew.WriteString("\t(")
		ew.WriteString(t.Pos.String())
		ew.WriteString(")\n")
	}
	return ew.err
}
