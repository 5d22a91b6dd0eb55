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

// flusher is implemented by buffered writers (e.g. bufio.Writer) that
// an Option's caller may hand to Stdout/Stderr. Flush drains any
// output buffered by OUT before the driver reports an error or exits.
type flusher interface {
	Flush() error
}

// Flush flushes the instance's stdout and stderr devices if they
// implement flusher. Safe to call even if neither does.
func (i *Instance) Flush() error {
	if f, ok := i.stdout.(flusher); ok {
		if err := f.Flush(); err != nil {
			return err
		}
	}
	if f, ok := i.stderr.(flusher); ok {
		return f.Flush()
	}
	return nil
}
