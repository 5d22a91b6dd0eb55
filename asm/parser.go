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

package asm

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/db47h/corvid/vm"
)

const maxErrors = 10

// ErrAsm encapsulates errors generated by the textual assembler.
type ErrAsm []struct {
	Pos scanner.Position
	Msg string
}

func (e ErrAsm) Error() string {
	l := make([]string, 0, len(e))
	for _, err := range e {
		l = append(l, fmt.Sprintf("%s: %s", err.Pos, err.Msg))
	}
	return strings.Join(l, "\n")
}

// labelSite records where, in the output byte stream, a label was
// either defined or referenced.
type labelSite struct {
	pos  scanner.Position
	addr int
}

// label tracks one label's definition site (addr == -1 until defined)
// and every patch site that referenced it before or after definition.
type label struct {
	labelSite
	uses []labelSite
}

var regIndex = map[string]vm.Reg{
	"C0": vm.RegC0, "C1": vm.RegC1, "C2": vm.RegC2, "C3": vm.RegC3,
	"SP": vm.RegSP, "IP": vm.RegIP, "AR": vm.RegAR,
}

// opcodeIndex maps each mnemonic to its opcode.
var opcodeIndex = func() map[string]vm.Op {
	m := make(map[string]vm.Op)
	for op := vm.Op(0); op < 0x80; op++ {
		if s := op.String(); s != "UNKNOWN" {
			m[s] = op
		}
	}
	return m
}()

// parser drives a tiny textual assembler for the packed instruction
// format: `MNEMONIC op, op, op;` statements with `:label` definitions,
// used by tests and examples.
// It mirrors the teacher assembler's emit-then-patch label mechanism,
// adapted from Cells to the packed byte stream.
type parser struct {
	out    []byte
	s      scanner.Scanner
	labels map[string]*label
	errs   ErrAsm
}

func newParser() *parser {
	return &parser{labels: make(map[string]*label)}
}

func (p *parser) error(msg string) {
	pos := p.s.Position
	if !pos.IsValid() {
		pos = p.s.Pos()
	}
	p.errs = append(p.errs, struct {
		Pos scanner.Position
		Msg string
	}{pos, msg})
}

func (p *parser) abort() bool { return len(p.errs) >= maxErrors }

// refLabel records a use of name as an 8-byte address operand located
// off bytes into the instruction about to be emitted at the current
// output position, returning a placeholder to emit.
func (p *parser) refLabel(name string, off int) uint64 {
	pos := p.s.Position
	l, ok := p.labels[name]
	if !ok {
		l = &label{labelSite: labelSite{pos, -1}}
		p.labels[name] = l
	}
	l.uses = append(l.uses, labelSite{pos, len(p.out) + off})
	return 0
}

func (p *parser) defineLabel(name string) {
	pos := p.s.Position
	if l, ok := p.labels[name]; ok {
		if l.addr != -1 {
			p.error("label redefinition: " + name)
			return
		}
		l.addr = len(p.out)
		l.pos = pos
		return
	}
	p.labels[name] = &label{labelSite: labelSite{pos, len(p.out)}}
}

// Parse reads textual assembly from r and returns the assembled byte
// code. name is used only to tag error positions.
func (p *parser) Parse(name string, r io.Reader) ([]byte, error) {
	p.s.Init(r)
	p.s.Filename = name
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanComments | scanner.SkipComments
	// A leading ':' is part of the identifier so that ":loop" scans as
	// one label-definition token.
	p.s.IsIdentRune = func(ch rune, i int) bool {
		return ch == ':' && i == 0 || ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch) && i > 0
	}
	p.s.Error = func(s *scanner.Scanner, msg string) { p.error(msg) }

	tok := p.s.Scan()
	for !p.abort() && tok != scanner.EOF {
		text := p.s.TokenText()
		if strings.HasPrefix(text, ":") {
			p.defineLabel(text[1:])
			tok = p.s.Scan()
			continue
		}
		op, ok := opcodeIndex[text]
		if !ok {
			p.error("expected mnemonic or label, got " + text)
			tok = p.s.Scan()
			continue
		}
		var operands []Operand
		tok = p.s.Scan()
		for tok != ';' && tok != scanner.EOF && !p.abort() {
			opText := p.s.TokenText()
			switch {
			case tok == ',':
				// separator, skip
			case tok == scanner.Int:
				n, err := strconv.ParseInt(opText, 0, 64)
				if err != nil {
					p.error(err.Error())
				} else {
					operands = append(operands, Imm64(uint64(n)))
				}
			case tok == scanner.Ident:
				if r, ok := regIndex[opText]; ok {
					operands = append(operands, Reg(r))
				} else {
					off := 2 // skip the header and the operands before this one
					for _, o := range operands {
						off += o.Kind.Width()
					}
					operands = append(operands, Imm64(p.refLabel(opText, off)))
				}
			default:
				p.error("unexpected token " + opText)
			}
			tok = p.s.Scan()
		}
		var err error
		p.out, err = Encode(p.out, op, operands...)
		if err != nil {
			p.error(err.Error())
		}
		if tok == ';' {
			tok = p.s.Scan()
		}
	}

	for name, l := range p.labels {
		if l.addr == -1 {
			for _, u := range l.uses {
				p.errs = append(p.errs, struct {
					Pos scanner.Position
					Msg string
				}{u.pos, "undefined label " + name})
			}
			continue
		}
		for _, u := range l.uses {
			var buf [8]byte
			for i := range buf {
				buf[i] = byte(uint64(l.addr) >> uint(8*(7-i)))
			}
			copy(p.out[u.addr:u.addr+8], buf[:])
		}
	}

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return p.out, nil
}
