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

// Package ast builds a syntax tree from a lexer.Token stream.
//
// Build recurses once per bracket: opening a `(`, `[` or `{` starts a
// nested call that returns when it consumes the matching closer, so by
// the time a bracketed subtree is handed back to its parent level it
// is already fully resolved. Each level then runs a fixed sequence of
// left-to-right restructuring passes over its flat node list: a few
// structural absorptions (function definitions, function calls,
// variable declarations, array indexing, type annotations), then
// operator-precedence reduction from highest to lowest, then control
// flow absorption (if/elif/while conditions and bodies, else bodies),
// and finally return/assignment/member-access absorption.
//
// Every *Node is owned exclusively by its parent's Children slice;
// there is no shared ownership and no back-references, unlike the
// reference-counted, interior-mutable tree the distilled-from Rust
// implementation builds.
package ast
