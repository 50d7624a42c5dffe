/*
 * ZOI - Floating point instructions.
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
	"math"

	"github.com/rcornwell/zoi/util/bits"
)

const signMask = uint32(0x80000000)

// Value of a float register.
func (cpu *CPU) fval(num uint32) float32 {
	return bits.BitsFloat(cpu.fregs[num])
}

// Write a computed float result, checking for NaN.
func (cpu *CPU) setFloat(rd uint32, value float32) {
	cpu.fregs[rd] = bits.FloatBits(value)
	if value != value {
		cpu.reportNaN(rd)
	}
}

// fadd rd, rs1, rs2
func (cpu *CPU) Fadd(rd, rs1, rs2 uint32) {
	cpu.setFloat(rd, cpu.fval(rs1)+cpu.fval(rs2))
	cpu.incPC()
}

// fsub rd, rs1, rs2
func (cpu *CPU) Fsub(rd, rs1, rs2 uint32) {
	cpu.setFloat(rd, cpu.fval(rs1)-cpu.fval(rs2))
	cpu.incPC()
}

// fmul rd, rs1, rs2
func (cpu *CPU) Fmul(rd, rs1, rs2 uint32) {
	cpu.setFloat(rd, cpu.fval(rs1)*cpu.fval(rs2))
	cpu.incPC()
}

// fdiv rd, rs1, rs2
func (cpu *CPU) Fdiv(rd, rs1, rs2 uint32) {
	cpu.setFloat(rd, cpu.fval(rs1)/cpu.fval(rs2))
	cpu.incPC()
}

// fsqrt rd, rs1
func (cpu *CPU) Fsqrt(rd, rs1 uint32) {
	cpu.setFloat(rd, float32(math.Sqrt(float64(cpu.fval(rs1)))))
	cpu.incPC()
}

// fsgnj rd, rs1, rs2: magnitude of rs1 with the sign of rs2.
func (cpu *CPU) Fsgnj(rd, rs1, rs2 uint32) {
	cpu.fregs[rd] = cpu.fregs[rs1]&^signMask | cpu.fregs[rs2]&signMask
	cpu.incPC()
}

// fsgnjn rd, rs1, rs2: magnitude of rs1 with the negated sign of rs2.
func (cpu *CPU) Fsgnjn(rd, rs1, rs2 uint32) {
	cpu.fregs[rd] = cpu.fregs[rs1]&^signMask | ^cpu.fregs[rs2]&signMask
	cpu.incPC()
}

// fsgnjx rd, rs1, rs2: magnitude of rs1 with sign(rs1) xor sign(rs2).
func (cpu *CPU) Fsgnjx(rd, rs1, rs2 uint32) {
	sign := (cpu.fregs[rs1] ^ cpu.fregs[rs2]) & signMask
	cpu.fregs[rd] = cpu.fregs[rs1]&^signMask | sign
	cpu.incPC()
}

// feq rd, rs1, rs2. NaN compares unequal.
func (cpu *CPU) Feq(rd, rs1, rs2 uint32) {
	if cpu.fval(rs1) == cpu.fval(rs2) {
		cpu.regs[rd] = 1
	} else {
		cpu.regs[rd] = 0
	}
	cpu.flushR0()
	cpu.incPC()
}

// fle rd, rs1, rs2
func (cpu *CPU) Fle(rd, rs1, rs2 uint32) {
	if cpu.fval(rs1) <= cpu.fval(rs2) {
		cpu.regs[rd] = 1
	} else {
		cpu.regs[rd] = 0
	}
	cpu.flushR0()
	cpu.incPC()
}

// fcvt.w.s rd, rs1: round to nearest even, store as two's complement.
func (cpu *CPU) FcvtWS(rd, rs1 uint32) {
	cpu.regs[rd] = uint32(int32(math.RoundToEven(float64(cpu.fval(rs1)))))
	cpu.flushR0()
	cpu.incPC()
}

// fcvt.s.w rd, rs1: signed integer to float.
func (cpu *CPU) FcvtSW(rd, rs1 uint32) {
	cpu.setFloat(rd, float32(int32(cpu.regs[rs1])))
	cpu.incPC()
}

// fmv.s.x rd, rs1: move the raw bits, no value conversion and no NaN check.
func (cpu *CPU) FmvSX(rd, rs1 uint32) {
	cpu.fregs[rd] = cpu.regs[rs1]
	cpu.incPC()
}
