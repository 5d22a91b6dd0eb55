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

import "github.com/pkg/errors"

// in reads one byte from the device named by dev and returns it
// zero-extended.
func (i *Instance) in(dev uint64) (uint64, error) {
	switch dev {
	case DevStdin:
		if i.stdin == nil {
			return 0, errors.New("IN: no stdin device bound")
		}
		var b [1]byte
		if _, err := i.stdin.Read(b[:]); err != nil {
			return 0, errors.Wrap(err, "IN: stdin read failed")
		}
		return uint64(b[0]), nil
	default:
		return 0, errors.Errorf("IN: unknown device %d", dev)
	}
}

// out writes the low byte of v to the device named by dev.
func (i *Instance) out(dev, v uint64) error {
	switch dev {
	case DevStdout:
		if i.stdout == nil {
			return nil
		}
		_, err := i.stdout.Write([]byte{byte(v)})
		return errors.Wrap(err, "OUT: stdout write failed")
	case DevStderr:
		if i.stderr == nil {
			return nil
		}
		_, err := i.stderr.Write([]byte{byte(v)})
		return errors.Wrap(err, "OUT: stderr write failed")
	default:
		return errors.Errorf("OUT: unknown device %d", dev)
	}
}
