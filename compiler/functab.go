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

package compiler

// Function records a declared function's name and parameter types, as
// seen at its FUNC_DEF site.
type Function struct {
	Name   string
	Params []VarType
}

// FuncTable is a simple list of declared functions, searched linearly:
// corvid programs declare at most a handful of functions, so there is
// no call for anything fancier than a slice scan.
type FuncTable struct {
	funcs []Function
}

// Add records a new function signature.
func (t *FuncTable) Add(name string, params []VarType) {
	t.funcs = append(t.funcs, Function{Name: name, Params: params})
}

// Lookup returns the function named name, if any.
func (t *FuncTable) Lookup(name string) (*Function, bool) {
	for i := range t.funcs {
		if t.funcs[i].Name == name {
			return &t.funcs[i], true
		}
	}
	return nil, false
}
