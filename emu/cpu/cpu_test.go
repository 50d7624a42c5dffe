/*
 * ZOI - CPU instruction tests.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package cpu

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/rcornwell/zoi/util/bits"
)

const testMemSize = 1024

func newTestCPU() *CPU {
	machine := New(testMemSize, nil)
	machine.SetDiag(io.Discard)
	return machine
}

func TestAddSubOr(t *testing.T) {
	machine := newTestCPU()
	machine.regs[1] = 7
	machine.regs[2] = 35

	machine.Add(3, 1, 2)
	if machine.regs[3] != 42 {
		t.Errorf("add got %d expected 42", machine.regs[3])
	}
	if machine.pc != 4 {
		t.Errorf("add pc got %d expected 4", machine.pc)
	}

	machine.Sub(4, 1, 2)
	if machine.regs[4] != uint32(0xffffffe4) {
		t.Errorf("sub got %08x expected ffffffe4", machine.regs[4])
	}

	machine.regs[5] = 0xf0f0
	machine.regs[6] = 0x0f0f
	machine.Or(7, 5, 6)
	if machine.regs[7] != 0xffff {
		t.Errorf("or got %08x expected 0000ffff", machine.regs[7])
	}
}

func TestAddWraps(t *testing.T) {
	machine := newTestCPU()
	machine.regs[1] = 0xffffffff
	machine.regs[2] = 2
	machine.Add(3, 1, 2)
	if machine.regs[3] != 1 {
		t.Errorf("add wrap got %08x expected 00000001", machine.regs[3])
	}
}

func TestFlushR0(t *testing.T) {
	machine := newTestCPU()
	machine.regs[1] = 55
	machine.Add(0, 1, 1)
	if machine.regs[0] != 0 {
		t.Errorf("x0 got %d expected 0", machine.regs[0])
	}
	machine.Addi(0, 1, 1)
	if machine.regs[0] != 0 {
		t.Errorf("x0 got %d expected 0 after addi", machine.regs[0])
	}
	machine.Lui(0, -4096)
	if machine.regs[0] != 0 {
		t.Errorf("x0 got %d expected 0 after lui", machine.regs[0])
	}
}

func TestAddiSignExtended(t *testing.T) {
	machine := newTestCPU()
	machine.regs[1] = 10
	machine.Addi(2, 1, -3)
	if machine.regs[2] != 7 {
		t.Errorf("addi got %d expected 7", machine.regs[2])
	}
}

func TestShifts(t *testing.T) {
	machine := newTestCPU()
	machine.regs[1] = 1
	machine.Slli(2, 1, 31)
	if machine.regs[2] != 0x80000000 {
		t.Errorf("slli got %08x expected 80000000", machine.regs[2])
	}
	machine.Srai(3, 2, 31)
	if machine.regs[3] != 0xffffffff {
		t.Errorf("srai got %08x expected ffffffff", machine.regs[3])
	}
	machine.regs[4] = 0x40000000
	machine.Srai(5, 4, 30)
	if machine.regs[5] != 1 {
		t.Errorf("srai got %08x expected 00000001", machine.regs[5])
	}
}

func TestLui(t *testing.T) {
	machine := newTestCPU()
	machine.regs[1] = 0x00000abc
	machine.Lui(1, int32(0x12345000))
	if machine.regs[1] != 0x12345abc {
		t.Errorf("lui got %08x expected 12345abc", machine.regs[1])
	}
}

func TestLuiAddiMaterialize(t *testing.T) {
	machine := newTestCPU()
	machine.Lui(1, int32(0x40491000))
	machine.Addi(1, 1, -37)
	if machine.regs[1] != 0x40490fdb {
		t.Errorf("lui+addi got %08x expected 40490fdb", machine.regs[1])
	}
}

func TestLoadStore(t *testing.T) {
	machine := newTestCPU()
	machine.regs[1] = 100
	machine.regs[2] = 0xdeadbeef
	machine.Sw(2, 1, 4)
	if machine.mem[26] != 0xdeadbeef {
		t.Errorf("sw got %08x expected deadbeef", machine.mem[26])
	}
	machine.Lw(3, 1, 4)
	if machine.regs[3] != 0xdeadbeef {
		t.Errorf("lw got %08x expected deadbeef", machine.regs[3])
	}
}

func TestMemoryException(t *testing.T) {
	machine := newTestCPU()
	machine.regs[1] = testMemSize * WordSize // First out of range address.
	machine.regs[2] = 42
	machine.Lw(2, 1, 0)
	if !machine.exception {
		t.Error("lw out of range did not set exception")
	}
	if machine.pc != 0 {
		t.Errorf("lw out of range advanced pc to %d", machine.pc)
	}
	if machine.regs[2] != 42 {
		t.Errorf("lw out of range wrote register, got %d", machine.regs[2])
	}

	machine = newTestCPU()
	machine.regs[1] = testMemSize * WordSize
	machine.Sw(2, 1, 0)
	if !machine.exception {
		t.Error("sw out of range did not set exception")
	}
	if machine.pc != 0 {
		t.Errorf("sw out of range advanced pc to %d", machine.pc)
	}
}

func TestJalJalr(t *testing.T) {
	machine := newTestCPU()
	machine.pc = 8
	machine.Jal(1, 16)
	if machine.regs[1] != 12 {
		t.Errorf("jal link got %d expected 12", machine.regs[1])
	}
	if machine.pc != 24 {
		t.Errorf("jal pc got %d expected 24", machine.pc)
	}
	if machine.prevPC != 8 {
		t.Errorf("jal prevPC got %d expected 8", machine.prevPC)
	}

	machine.regs[2] = 101 // Odd target, not masked.
	machine.Jalr(3, 2, 2)
	if machine.regs[3] != 28 {
		t.Errorf("jalr link got %d expected 28", machine.regs[3])
	}
	if machine.pc != 103 {
		t.Errorf("jalr pc got %d expected 103", machine.pc)
	}
}

func TestBranches(t *testing.T) {
	machine := newTestCPU()
	machine.pc = 8
	machine.regs[1] = 5
	machine.regs[2] = 5
	machine.Beq(1, 2, -8)
	if machine.pc != 0 {
		t.Errorf("beq taken pc got %d expected 0", machine.pc)
	}

	machine.pc = 8
	machine.Bne(1, 2, -8)
	if machine.pc != 12 {
		t.Errorf("bne not taken pc got %d expected 12", machine.pc)
	}

	// Signed comparisons.
	machine.pc = 8
	machine.regs[1] = 0xffffffff // -1
	machine.regs[2] = 1
	machine.Blt(1, 2, 8)
	if machine.pc != 16 {
		t.Errorf("blt signed pc got %d expected 16", machine.pc)
	}

	machine.pc = 8
	machine.Bge(1, 2, 8)
	if machine.pc != 12 {
		t.Errorf("bge signed pc got %d expected 12", machine.pc)
	}
}

func TestHaltLeavesPC(t *testing.T) {
	machine := newTestCPU()
	machine.pc = 12
	machine.Halt()
	if !machine.halted {
		t.Error("halt did not set halted")
	}
	if machine.pc != 12 {
		t.Errorf("halt moved pc to %d", machine.pc)
	}
}

func TestByteIO(t *testing.T) {
	machine := newTestCPU()
	var out bytes.Buffer
	machine.SetIO(strings.NewReader("ab"), &out)

	machine.Inb(1)
	if machine.regs[1] != 'a' {
		t.Errorf("inb got %02x expected 61", machine.regs[1])
	}
	machine.Outb(1)
	machine.Inb(1)
	machine.Outb(1)
	// EOF reads as zero.
	machine.Inb(1)
	if machine.regs[1] != 0 {
		t.Errorf("inb at EOF got %02x expected 00", machine.regs[1])
	}
	machine.Outb(1)

	if out.String() != "ab\x00" {
		t.Errorf("output got %q expected \"ab\\x00\"", out.String())
	}
}

func TestInbZeroesHighBits(t *testing.T) {
	machine := newTestCPU()
	machine.regs[1] = 0xffffffff
	machine.SetIO(strings.NewReader("\x7f"), io.Discard)
	machine.Inb(1)
	if machine.regs[1] != 0x7f {
		t.Errorf("inb got %08x expected 0000007f", machine.regs[1])
	}
}

func TestFloatArith(t *testing.T) {
	machine := newTestCPU()
	machine.fregs[1] = bits.FloatBits(1.5)
	machine.fregs[2] = bits.FloatBits(2.25)

	machine.Fadd(3, 1, 2)
	if got := bits.BitsFloat(machine.fregs[3]); got != 3.75 {
		t.Errorf("fadd got %v expected 3.75", got)
	}
	machine.Fsub(3, 2, 1)
	if got := bits.BitsFloat(machine.fregs[3]); got != 0.75 {
		t.Errorf("fsub got %v expected 0.75", got)
	}
	machine.Fmul(3, 1, 2)
	if got := bits.BitsFloat(machine.fregs[3]); got != 3.375 {
		t.Errorf("fmul got %v expected 3.375", got)
	}
	machine.Fdiv(3, 2, 1)
	if got := bits.BitsFloat(machine.fregs[3]); got != 1.5 {
		t.Errorf("fdiv got %v expected 1.5", got)
	}
	machine.fregs[4] = bits.FloatBits(9)
	machine.Fsqrt(5, 4)
	if got := bits.BitsFloat(machine.fregs[5]); got != 3 {
		t.Errorf("fsqrt got %v expected 3", got)
	}
	if machine.exception {
		t.Error("unexpected exception during float arithmetic")
	}
}

func TestSignInjection(t *testing.T) {
	machine := newTestCPU()
	machine.fregs[1] = bits.FloatBits(-2.5)
	machine.fregs[2] = bits.FloatBits(3)

	machine.Fsgnj(3, 1, 2)
	if got := bits.BitsFloat(machine.fregs[3]); got != 2.5 {
		t.Errorf("fsgnj got %v expected 2.5", got)
	}
	machine.Fsgnjn(3, 1, 2)
	if got := bits.BitsFloat(machine.fregs[3]); got != -2.5 {
		t.Errorf("fsgnjn got %v expected -2.5", got)
	}
	// Negative times positive sign is negative.
	machine.Fsgnjx(3, 1, 2)
	if got := bits.BitsFloat(machine.fregs[3]); got != -2.5 {
		t.Errorf("fsgnjx got %v expected -2.5", got)
	}
	// Same source twice clears the sign.
	machine.Fsgnjx(3, 1, 1)
	if got := bits.BitsFloat(machine.fregs[3]); got != 2.5 {
		t.Errorf("fsgnjx same reg got %v expected 2.5", got)
	}
}

func TestFloatCompare(t *testing.T) {
	machine := newTestCPU()
	machine.fregs[1] = bits.FloatBits(1)
	machine.fregs[2] = bits.FloatBits(2)

	machine.Feq(3, 1, 1)
	if machine.regs[3] != 1 {
		t.Errorf("feq equal got %d expected 1", machine.regs[3])
	}
	machine.Feq(3, 1, 2)
	if machine.regs[3] != 0 {
		t.Errorf("feq unequal got %d expected 0", machine.regs[3])
	}
	machine.Fle(3, 1, 2)
	if machine.regs[3] != 1 {
		t.Errorf("fle got %d expected 1", machine.regs[3])
	}
	machine.Fle(3, 2, 1)
	if machine.regs[3] != 0 {
		t.Errorf("fle got %d expected 0", machine.regs[3])
	}

	// NaN compares unequal and not ordered, without raising.
	machine.fregs[4] = 0x7fc00000
	machine.Feq(3, 4, 4)
	if machine.regs[3] != 0 {
		t.Errorf("feq NaN got %d expected 0", machine.regs[3])
	}
	machine.Fle(3, 4, 4)
	if machine.regs[3] != 0 {
		t.Errorf("fle NaN got %d expected 0", machine.regs[3])
	}
	if machine.exception {
		t.Error("NaN comparison raised an exception")
	}
}

func TestConvertRoundTrip(t *testing.T) {
	machine := newTestCPU()
	for _, value := range []int32{0, 1, -1, 42, -37, 1 << 24, -(1 << 24)} {
		machine.regs[1] = uint32(value)
		machine.FcvtSW(1, 1)
		machine.FcvtWS(2, 1)
		if int32(machine.regs[2]) != value {
			t.Errorf("fcvt round trip of %d got %d", value, int32(machine.regs[2]))
		}
	}
}

func TestConvertRoundsToNearestEven(t *testing.T) {
	machine := newTestCPU()
	cases := []struct {
		value    float32
		expected int32
	}{
		{2.5, 2},
		{3.5, 4},
		{-2.5, -2},
		{0.4, 0},
		{-0.6, -1},
	}
	for _, tc := range cases {
		machine.fregs[1] = bits.FloatBits(tc.value)
		machine.FcvtWS(2, 1)
		if int32(machine.regs[2]) != tc.expected {
			t.Errorf("fcvt.w.s of %v got %d expected %d",
				tc.value, int32(machine.regs[2]), tc.expected)
		}
	}
}

func TestBitMoveRoundTrip(t *testing.T) {
	machine := newTestCPU()
	// Patterns that must survive bit exactly, including NaNs.
	patterns := []uint32{0, 1, 0x80000000, 0x7fc00001, 0xffc00000, 0x40490fdb}
	for _, pattern := range patterns {
		machine.exception = false
		machine.regs[1] = pattern
		machine.FmvSX(1, 1)
		if machine.exception {
			t.Errorf("fmv.s.x of %08x raised an exception", pattern)
		}
		machine.regs[2] = 0
		machine.Fsw(1, 2, 16)
		machine.Lw(3, 2, 16)
		if machine.regs[3] != pattern {
			t.Errorf("round trip of %08x got %08x", pattern, machine.regs[3])
		}
	}
}

func TestNaNException(t *testing.T) {
	machine := newTestCPU()
	var diag bytes.Buffer
	machine.SetDiag(&diag)

	machine.fregs[1] = 0x7fc00000
	machine.Fadd(2, 1, 1)
	if !machine.exception {
		t.Error("fadd of NaN did not set exception")
	}
	// The NaN result is still written and PC still advances.
	if got := bits.BitsFloat(machine.fregs[2]); got == got {
		t.Errorf("fadd NaN result not written, got %v", got)
	}
	if machine.pc != 4 {
		t.Errorf("fadd NaN pc got %d expected 4", machine.pc)
	}
	if !strings.Contains(diag.String(), "NaN exception") {
		t.Errorf("missing NaN diagnostic, got %q", diag.String())
	}
}

func TestSqrtNegativeRaises(t *testing.T) {
	machine := newTestCPU()
	machine.fregs[1] = bits.FloatBits(-1)
	machine.Fsqrt(2, 1)
	if !machine.exception {
		t.Error("fsqrt of negative did not set exception")
	}
}

func TestFlwNaNRaises(t *testing.T) {
	machine := newTestCPU()
	machine.mem[4] = 0x7fc00000
	machine.Flw(1, 0, 16)
	if !machine.exception {
		t.Error("flw of NaN pattern did not set exception")
	}
	if machine.fregs[1] != 0x7fc00000 {
		t.Errorf("flw NaN result not written, got %08x", machine.fregs[1])
	}
	if machine.pc != 4 {
		t.Errorf("flw NaN pc got %d expected 4", machine.pc)
	}
}

func TestAccessors(t *testing.T) {
	machine := newTestCPU()
	if _, err := machine.Reg(32); err == nil {
		t.Error("Reg(32) did not fail")
	}
	if _, err := machine.Freg(32); err == nil {
		t.Error("Freg(32) did not fail")
	}
	if _, err := machine.MemWord(2); err == nil {
		t.Error("MemWord misaligned did not fail")
	}
	if _, err := machine.MemWord(testMemSize * WordSize); err == nil {
		t.Error("MemWord out of range did not fail")
	}
	machine.mem[5] = 99
	value, err := machine.MemWord(20)
	if err != nil || value != 99 {
		t.Errorf("MemWord got %d, %v expected 99", value, err)
	}
}

func TestDataImage(t *testing.T) {
	machine := New(16, []uint32{10, 20, 30})
	machine.SetDiag(io.Discard)
	for i, expected := range []uint32{10, 20, 30, 0} {
		value, err := machine.MemWord(uint32(i) * WordSize)
		if err != nil || value != expected {
			t.Errorf("data image word %d got %d expected %d", i, value, expected)
		}
	}
}

func TestFcvtLargeMagnitude(t *testing.T) {
	machine := newTestCPU()
	machine.fregs[1] = bits.FloatBits(float32(math.Exp2(20)))
	machine.FcvtWS(2, 1)
	if int32(machine.regs[2]) != 1<<20 {
		t.Errorf("fcvt.w.s of 2^20 got %d", int32(machine.regs[2]))
	}
}
