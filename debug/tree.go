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
	"strings"

	"github.com/db47h/corvid/ast"
)

// Tree writes an indented s-expression dump of n to w: one node per
// line, children indented two spaces under their parent.
func Tree(w io.Writer, n *ast.Node) error {
	ew := newErrWriter(w)
	writeNode(ew, n, 0)
	return ew.err
}

func writeNode(w *errWriter, n *ast.Node, depth int) {
	if n == nil {
		return
	}
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString("(")
	w.WriteString(n.Kind.String())
	if n.Data != "" {
		w.WriteString(" ")
		w.WriteString(n.Data)
	}
	if len(n.Children) == 0 {
		w.WriteString(")\n")
		return
	}
	w.WriteString("\n")
	for _, c := range n.Children {
		writeNode(w, c, depth+1)
	}
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString(")\n")
}
