package vm

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// asmBuf is a tiny self-contained instruction builder used only by this
// test file, so that vm's own tests don't depend on package asm.
type asmBuf struct{ b bytes.Buffer }

func (a *asmBuf) ins(op Op, kinds [3]OperandKind, payload ...interface{}) *asmBuf {
	header := uint16(op)<<9 | uint16(kinds[0])<<6 | uint16(kinds[1])<<3 | uint16(kinds[2])
	var hb [2]byte
	binary.BigEndian.PutUint16(hb[:], header)
	a.b.Write(hb[:])
	for _, p := range payload {
		switch v := p.(type) {
		case Reg:
			a.b.WriteByte(byte(v))
		case uint8:
			a.b.WriteByte(v)
		case uint16:
			var x [2]byte
			binary.BigEndian.PutUint16(x[:], v)
			a.b.Write(x[:])
		case uint32:
			var x [4]byte
			binary.BigEndian.PutUint32(x[:], v)
			a.b.Write(x[:])
		case uint64:
			var x [8]byte
			binary.BigEndian.PutUint64(x[:], v)
			a.b.Write(x[:])
		}
	}
	return a
}

func (a *asmBuf) bytes() []byte { return a.b.Bytes() }

func movImm(dst Reg, v uint64) func(*asmBuf) *asmBuf {
	return func(a *asmBuf) *asmBuf {
		return a.ins(OpMOV, [3]OperandKind{KindReg, KindImm64, KindNone}, dst, v)
	}
}

func hal(a *asmBuf) *asmBuf { return a.ins(OpHAL, [3]OperandKind{}) }

func newTestVM(code []byte) *Instance {
	i, err := New(Code(code), MemSize(DefaultStackBase))
	if err != nil {
		panic(err)
	}
	return i
}

func TestMovHal(t *testing.T) {
	a := &asmBuf{}
	movImm(RegC0, 42)(a)
	hal(a)
	i := newTestVM(a.bytes())
	if err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := i.Reg(RegC0); got != 42 {
		t.Errorf("C0 = %d, want 42", got)
	}
}

func TestArithmetic(t *testing.T) {
	a := &asmBuf{}
	movImm(RegC0, 2)(a)
	movImm(RegC1, 3)(a)
	a.ins(OpADD, [3]OperandKind{KindReg, KindReg, KindNone}, RegC0, RegC1)
	hal(a)
	i := newTestVM(a.bytes())
	if err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := i.Reg(RegC0); got != 5 {
		t.Errorf("C0 = %d, want 5", got)
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	a := &asmBuf{}
	movImm(RegC0, 99)(a)
	a.ins(OpPUSH, [3]OperandKind{KindReg, KindNone, KindNone}, RegC0)
	movImm(RegC0, 0)(a)
	a.ins(OpPOP, [3]OperandKind{KindReg, KindNone, KindNone}, RegC0)
	hal(a)
	i := newTestVM(a.bytes())
	spBefore := i.Reg(RegSP)
	if err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := i.Reg(RegC0); got != 99 {
		t.Errorf("C0 = %d, want 99", got)
	}
	if got := i.Reg(RegSP); got != spBefore {
		t.Errorf("SP = %#x, want %#x (push/pop must balance)", got, spBefore)
	}
}

func TestCallRetBalancesIPAndSP(t *testing.T) {
	// main: CALL f; HAL
	// f (at offset 12): RET
	a := &asmBuf{}
	a.ins(OpCALL, [3]OperandKind{KindImm64, KindNone, KindNone}, uint64(12))
	hal(a)
	a.ins(OpRET, [3]OperandKind{})
	i := newTestVM(a.bytes())
	spBefore := i.Reg(RegSP)
	if err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := i.Reg(RegSP); got != spBefore {
		t.Errorf("SP = %#x, want %#x", got, spBefore)
	}
	// RET resumed at the HAL at offset 10, which leaves IP just past it.
	if got := i.Reg(RegIP); got != 12 {
		t.Errorf("IP = %d, want 12", got)
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	a := &asmBuf{}
	movImm(RegC0, 0x1234)(a)
	movImm(RegAR, 4096)(a)
	a.ins(OpSTORE64, [3]OperandKind{KindReg, KindReg, KindNone}, RegC0, RegAR)
	movImm(RegC1, 0)(a)
	a.ins(OpLOAD64, [3]OperandKind{KindReg, KindReg, KindNone}, RegC1, RegAR)
	hal(a)
	i := newTestVM(a.bytes())
	if err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := i.Reg(RegC1); got != 0x1234 {
		t.Errorf("C1 = %#x, want 0x1234", got)
	}
}

func TestTestGEIsDistinctFromTESTLE(t *testing.T) {
	a := &asmBuf{}
	movImm(RegC0, 6)(a)
	movImm(RegC1, 5)(a)
	a.ins(OpTESTGE, [3]OperandKind{KindReg, KindReg, KindReg}, RegC2, RegC0, RegC1)
	a.ins(OpTESTLE, [3]OperandKind{KindReg, KindReg, KindReg}, RegC3, RegC0, RegC1)
	hal(a)
	i := newTestVM(a.bytes())
	if err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := i.Reg(RegC2); got != 1 {
		t.Errorf("TESTGE result = %d, want 1", got)
	}
	if got := i.Reg(RegC3); got != 0 {
		t.Errorf("TESTLE result = %d, want 0", got)
	}
}

func TestDivByZeroIsFatalNotPanic(t *testing.T) {
	a := &asmBuf{}
	movImm(RegC0, 1)(a)
	movImm(RegC1, 0)(a)
	a.ins(OpDIV, [3]OperandKind{KindReg, KindReg, KindNone}, RegC0, RegC1)
	hal(a)
	i := newTestVM(a.bytes())
	if err := i.Run(); err == nil {
		t.Fatal("expected division-by-zero error, got nil")
	}
}

func TestRAMOverflowIsFatalNotPanic(t *testing.T) {
	a := &asmBuf{}
	movImm(RegC0, 1)(a)
	movImm(RegAR, DefaultStackBase)(a) // first address past the 8 MiB test RAM
	a.ins(OpSTORE64, [3]OperandKind{KindReg, KindReg, KindNone}, RegC0, RegAR)
	hal(a)
	i := newTestVM(a.bytes())
	if err := i.Run(); err == nil {
		t.Fatal("expected RAM overflow error, got nil")
	}
}

func TestEmptyProgramJustHalts(t *testing.T) {
	i := newTestVM(hal(&asmBuf{}).bytes())
	if err := i.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := i.Reg(RegC0); got != 0 {
		t.Errorf("C0 = %d, want 0", got)
	}
	if got := i.Reg(RegSP); got != DefaultStackBase {
		t.Errorf("SP = %#x, want %#x", got, DefaultStackBase)
	}
}
