/*
 * ZOI - Integer, memory, branch and I/O instructions.
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
	"github.com/rcornwell/zoi/util/bits"
)

// add rd, rs1, rs2
func (cpu *CPU) Add(rd, rs1, rs2 uint32) {
	cpu.regs[rd] = cpu.regs[rs1] + cpu.regs[rs2]
	cpu.flushR0()
	cpu.incPC()
}

// sub rd, rs1, rs2
func (cpu *CPU) Sub(rd, rs1, rs2 uint32) {
	cpu.regs[rd] = cpu.regs[rs1] - cpu.regs[rs2]
	cpu.flushR0()
	cpu.incPC()
}

// or rd, rs1, rs2
func (cpu *CPU) Or(rd, rs1, rs2 uint32) {
	cpu.regs[rd] = cpu.regs[rs1] | cpu.regs[rs2]
	cpu.flushR0()
	cpu.incPC()
}

// addi rd, rs, imm
func (cpu *CPU) Addi(rd, rs uint32, imm int32) {
	cpu.regs[rd] = cpu.regs[rs] + uint32(imm)
	cpu.flushR0()
	cpu.incPC()
}

// slli rd, rs, shamt
func (cpu *CPU) Slli(rd, rs, shamt uint32) {
	cpu.regs[rd] = cpu.regs[rs] << (shamt & 0b11111)
	cpu.flushR0()
	cpu.incPC()
}

// srai rd, rs, shamt. The shift is arithmetic.
func (cpu *CPU) Srai(rd, rs, shamt uint32) {
	cpu.regs[rd] = uint32(int32(cpu.regs[rs]) >> (shamt & 0b11111))
	cpu.flushR0()
	cpu.incPC()
}

// lw rd, rs, imm
func (cpu *CPU) Lw(rd, rs uint32, imm int32) {
	idx, ok := cpu.memIndex(rs, imm)
	if !ok {
		return
	}
	cpu.regs[rd] = cpu.mem[idx]
	cpu.flushR0()
	cpu.incPC()
}

// sw rs2, rs1, imm
func (cpu *CPU) Sw(rs2, rs1 uint32, imm int32) {
	idx, ok := cpu.memIndex(rs1, imm)
	if !ok {
		return
	}
	cpu.mem[idx] = cpu.regs[rs2]
	cpu.incPC()
}

// jalr rd, rs, imm. The low bit of the target is not masked.
func (cpu *CPU) Jalr(rd, rs uint32, imm int32) {
	cpu.regs[rd] = cpu.pc + WordSize
	cpu.flushR0()
	cpu.advancePC(cpu.regs[rs] + uint32(imm))
}

// jal rd, imm
func (cpu *CPU) Jal(rd uint32, imm int32) {
	cpu.regs[rd] = cpu.pc + WordSize
	cpu.flushR0()
	cpu.advancePC(cpu.pc + uint32(imm))
}

// beq rs1, rs2, imm
func (cpu *CPU) Beq(rs1, rs2 uint32, imm int32) {
	if cpu.regs[rs1] == cpu.regs[rs2] {
		cpu.advancePC(cpu.pc + uint32(imm))
	} else {
		cpu.incPC()
	}
}

// bne rs1, rs2, imm
func (cpu *CPU) Bne(rs1, rs2 uint32, imm int32) {
	if cpu.regs[rs1] != cpu.regs[rs2] {
		cpu.advancePC(cpu.pc + uint32(imm))
	} else {
		cpu.incPC()
	}
}

// blt rs1, rs2, imm. Signed comparison.
func (cpu *CPU) Blt(rs1, rs2 uint32, imm int32) {
	if int32(cpu.regs[rs1]) < int32(cpu.regs[rs2]) {
		cpu.advancePC(cpu.pc + uint32(imm))
	} else {
		cpu.incPC()
	}
}

// bge rs1, rs2, imm. Signed comparison.
func (cpu *CPU) Bge(rs1, rs2 uint32, imm int32) {
	if int32(cpu.regs[rs1]) >= int32(cpu.regs[rs2]) {
		cpu.advancePC(cpu.pc + uint32(imm))
	} else {
		cpu.incPC()
	}
}

// lui rd, immU. The low 12 bits of the previous rd value are preserved.
func (cpu *CPU) Lui(rd uint32, immU int32) {
	cpu.regs[rd] = uint32(immU)&0xfffff000 | cpu.regs[rd]&0x00000fff
	cpu.flushR0()
	cpu.incPC()
}

// halt. PC is left unchanged.
func (cpu *CPU) Halt() {
	cpu.halted = true
}

// inb rd. Read one byte from the program input; EOF reads as zero.
func (cpu *CPU) Inb(rd uint32) {
	var by byte
	if cpu.input != nil {
		if b, err := cpu.input.ReadByte(); err == nil {
			by = b
		}
	}
	cpu.regs[rd] = uint32(by)
	cpu.flushR0()
	cpu.incPC()
}

// outb rs2. Write the low byte of the register to the program output.
func (cpu *CPU) Outb(rs2 uint32) {
	if cpu.output != nil {
		cpu.output.Write([]byte{byte(cpu.regs[rs2])})
	}
	cpu.incPC()
}

// flw rd, rs, imm. A loaded NaN pattern raises the NaN exception.
func (cpu *CPU) Flw(rd, rs uint32, imm int32) {
	idx, ok := cpu.memIndex(rs, imm)
	if !ok {
		return
	}
	word := cpu.mem[idx]
	cpu.fregs[rd] = word
	if isNaN(word) {
		cpu.reportNaN(rd)
	}
	cpu.incPC()
}

// fsw rs2, rs1, imm. Stores the raw bit pattern.
func (cpu *CPU) Fsw(rs2, rs1 uint32, imm int32) {
	idx, ok := cpu.memIndex(rs1, imm)
	if !ok {
		return
	}
	cpu.mem[idx] = cpu.fregs[rs2]
	cpu.incPC()
}

func isNaN(word uint32) bool {
	f := bits.BitsFloat(word)
	return f != f
}
