/*
 * ZOI - Instruction decoder.
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

package decode

/*
   Instruction words use the RISC-V base field layout:

       opcode = w[6:0]   rd = w[11:7]   funct3 = w[14:12]
       rs1 = w[19:15]    rs2 = w[24:20] funct7 = w[31:25]

   The all-zero word is halt. Opcodes 0000010 and 0000110 are the byte
   input and output instructions, which have no RISC-V counterpart.
*/

import (
	"github.com/rcornwell/zoi/util/bits"
)

type Opcode int

// Opcodes in dispatch table order. This order is also the insertion order of
// the instruction statistics report.
const (
	OpADD Opcode = iota
	OpSUB
	OpOR
	OpFADD
	OpFSUB
	OpFMUL
	OpFDIV
	OpFSQRT
	OpFSGNJ
	OpFSGNJN
	OpFSGNJX
	OpFEQ
	OpFLE
	OpFCVTWS
	OpFCVTSW
	OpFMVSX
	OpADDI
	OpSLLI
	OpSRAI
	OpLW
	OpFLW
	OpJALR
	OpSW
	OpFSW
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpLUI
	OpJAL
	OpHALT
	OpINB
	OpOUTB

	NumOpcodes int = iota
)

// Mnemonic of each opcode, indexed by Opcode.
var Names = [NumOpcodes]string{
	"add", "sub", "or",
	"fadd", "fsub", "fmul", "fdiv", "fsqrt",
	"fsgnj", "fsgnjn", "fsgnjx",
	"feq", "fle",
	"fcvt.w.s", "fcvt.s.w", "fmv.s.x",
	"addi", "slli", "srai", "lw", "flw", "jalr",
	"sw", "fsw",
	"beq", "bne", "blt", "bge",
	"lui", "jal",
	"halt", "inb", "outb",
}

// A decoded instruction. For the shift instructions Imm holds the shift
// amount; for lui it holds the already shifted upper immediate.
type Inst struct {
	Op  Opcode
	Rd  uint32
	Rs1 uint32
	Rs2 uint32
	Imm int32
}

// Decode one instruction word. ok is false when the word matches no pattern.
func Decode(word uint32) (Inst, bool) {
	if word == 0 {
		return Inst{Op: OpHALT}, true
	}

	opcode := word & 0b1111111
	rd := (word >> 7) & 0b11111
	funct3 := (word >> 12) & 0b111
	rs1 := (word >> 15) & 0b11111
	rs2 := (word >> 20) & 0b11111
	funct7 := word >> 25

	inst := Inst{Rd: rd, Rs1: rs1, Rs2: rs2}

	switch opcode {
	case 0b0110011: // R type
		if funct3 == 0b000 && funct7 == 0b0000000 {
			inst.Op = OpADD
			return inst, true
		}
		if funct3 == 0b000 && funct7 == 0b0100000 {
			inst.Op = OpSUB
			return inst, true
		}
		if funct3 == 0b110 && funct7 == 0b0000000 {
			inst.Op = OpOR
			return inst, true
		}

	case 0b1010011: // Float R type
		return decodeFloat(inst, funct3, funct7)

	case 0b0010011: // I type ALU
		inst.Imm = immI(word)
		switch funct3 {
		case 0b000:
			inst.Op = OpADDI
			return inst, true
		case 0b001:
			if funct7 == 0b0000000 {
				inst.Op = OpSLLI
				inst.Imm = int32(rs2)
				return inst, true
			}
		case 0b101:
			if funct7 == 0b0100000 {
				inst.Op = OpSRAI
				inst.Imm = int32(rs2)
				return inst, true
			}
		}

	case 0b0000011: // lw
		if funct3 == 0b010 {
			inst.Op = OpLW
			inst.Imm = immI(word)
			return inst, true
		}

	case 0b0000111: // flw
		if funct3 == 0b010 {
			inst.Op = OpFLW
			inst.Imm = immI(word)
			return inst, true
		}

	case 0b1100111: // jalr
		if funct3 == 0b000 {
			inst.Op = OpJALR
			inst.Imm = immI(word)
			return inst, true
		}

	case 0b0100011: // sw
		if funct3 == 0b010 {
			inst.Op = OpSW
			inst.Imm = immS(word)
			return inst, true
		}

	case 0b0100111: // fsw
		if funct3 == 0b010 {
			inst.Op = OpFSW
			inst.Imm = immS(word)
			return inst, true
		}

	case 0b1100011: // SB type
		inst.Imm = immB(word)
		switch funct3 {
		case 0b000:
			inst.Op = OpBEQ
			return inst, true
		case 0b001:
			inst.Op = OpBNE
			return inst, true
		case 0b100:
			inst.Op = OpBLT
			return inst, true
		case 0b101:
			inst.Op = OpBGE
			return inst, true
		}

	case 0b0110111: // lui
		inst.Op = OpLUI
		inst.Imm = int32(word & 0xfffff000)
		return inst, true

	case 0b1101111: // jal
		inst.Op = OpJAL
		inst.Imm = immJ(word)
		return inst, true

	case 0b0000010: // inb
		if funct3 == 0 && funct7 == 0 && rs1 == 0 && rs2 == 0 {
			inst.Op = OpINB
			return inst, true
		}

	case 0b0000110: // outb
		if funct3 == 0 && funct7 == 0 && rs1 == 0 && rd == 0 {
			inst.Op = OpOUTB
			return inst, true
		}
	}

	return Inst{}, false
}

func decodeFloat(inst Inst, funct3, funct7 uint32) (Inst, bool) {
	switch funct3 {
	case 0b000:
		switch funct7 {
		case 0b0000000:
			inst.Op = OpFADD
			return inst, true
		case 0b0000100:
			inst.Op = OpFSUB
			return inst, true
		case 0b0001000:
			inst.Op = OpFMUL
			return inst, true
		case 0b0001100:
			inst.Op = OpFDIV
			return inst, true
		case 0b0101100:
			if inst.Rs2 == 0 {
				inst.Op = OpFSQRT
				return inst, true
			}
		case 0b0010000:
			inst.Op = OpFSGNJ
			return inst, true
		case 0b1010000:
			inst.Op = OpFLE
			return inst, true
		case 0b1100000:
			if inst.Rs2 == 0 {
				inst.Op = OpFCVTWS
				return inst, true
			}
		case 0b1101000:
			if inst.Rs2 == 0 {
				inst.Op = OpFCVTSW
				return inst, true
			}
		case 0b1111000:
			if inst.Rs2 == 0 {
				inst.Op = OpFMVSX
				return inst, true
			}
		}
	case 0b001:
		if funct7 == 0b0010000 {
			inst.Op = OpFSGNJN
			return inst, true
		}
	case 0b010:
		if funct7 == 0b0010000 {
			inst.Op = OpFSGNJX
			return inst, true
		}
		if funct7 == 0b1010000 {
			inst.Op = OpFEQ
			return inst, true
		}
	}
	return Inst{}, false
}

// I type: imm = signExtend12(w[31:20]).
func immI(word uint32) int32 {
	return bits.SignExtend(word>>20, 12)
}

// S type: imm = signExtend12(w[31:25] || w[11:7]).
func immS(word uint32) int32 {
	return bits.SignExtend((word>>25)<<5|(word>>7)&0b11111, 12)
}

// SB type: imm = signExtend13(w[31] || w[7] || w[30:25] || w[11:8] || 0).
func immB(word uint32) int32 {
	imm := (word>>31)<<12 |
		(word>>7&1)<<11 |
		(word>>25&0b111111)<<5 |
		(word>>8&0b1111)<<1
	return bits.SignExtend(imm, 13)
}

// UJ type: imm = signExtend21(w[31] || w[19:12] || w[20] || w[30:21] || 0).
func immJ(word uint32) int32 {
	imm := (word>>31)<<20 |
		word&0xff000 |
		(word>>20&1)<<11 |
		(word>>21&0b1111111111)<<1
	return bits.SignExtend(imm, 21)
}
