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

// push writes v at the 8 bytes below the current SP and moves SP down,
// mirroring the stack-grows-downward layout described for PUSH.
func (i *Instance) push(v uint64) error {
	i.sp -= 8
	return i.ram.Store(i.sp, 8, v)
}

// pop reads the 8 bytes at SP and moves SP back up, the inverse of push.
func (i *Instance) pop() (uint64, error) {
	v, err := i.ram.Load(i.sp, 8)
	if err != nil {
		return 0, err
	}
	i.sp += 8
	return v, nil
}

// Depth reports how many 8-byte cells currently separate SP from the
// stack's starting point, for tests and debug dumps.
func (i *Instance) Depth() int64 {
	return (int64(DefaultStackBase) - int64(i.sp)) / 8
}
