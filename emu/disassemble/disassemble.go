/*
 * ZOI - Disassembler.
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

package disassemble

import (
	"fmt"

	op "github.com/rcornwell/zoi/emu/decode"
)

// Operand shape of each opcode.
const (
	tyR = 1 + iota // rd, rs1, rs2 integer registers
	tyFR           // rd, rs1, rs2 float registers
	tyFR2          // rd, rs1 float registers
	tyFCmp         // integer rd, float rs1, rs2
	tyFInt         // float rd, integer rs1
	tyIntF         // integer rd, float rs1
	tyI            // rd, rs1, imm
	tyShift        // rd, rs1, shamt
	tyLoad         // rd, imm(rs1)
	tyFLoad        // float rd, imm(rs1)
	tyStore        // rs2, imm(rs1)
	tyFStore       // float rs2, imm(rs1)
	tyBranch       // rs1, rs2, imm
	tyU            // rd, imm
	tyJal          // rd, imm
	tyZero         // no operands
	tyInb          // rd only
	tyOutb         // rs2 only
)

var opType = map[op.Opcode]int{
	op.OpADD:    tyR,
	op.OpSUB:    tyR,
	op.OpOR:     tyR,
	op.OpFADD:   tyFR,
	op.OpFSUB:   tyFR,
	op.OpFMUL:   tyFR,
	op.OpFDIV:   tyFR,
	op.OpFSQRT:  tyFR2,
	op.OpFSGNJ:  tyFR,
	op.OpFSGNJN: tyFR,
	op.OpFSGNJX: tyFR,
	op.OpFEQ:    tyFCmp,
	op.OpFLE:    tyFCmp,
	op.OpFCVTWS: tyIntF,
	op.OpFCVTSW: tyFInt,
	op.OpFMVSX:  tyFInt,
	op.OpADDI:   tyI,
	op.OpSLLI:   tyShift,
	op.OpSRAI:   tyShift,
	op.OpLW:     tyLoad,
	op.OpFLW:    tyFLoad,
	op.OpJALR:   tyLoad,
	op.OpSW:     tyStore,
	op.OpFSW:    tyFStore,
	op.OpBEQ:    tyBranch,
	op.OpBNE:    tyBranch,
	op.OpBLT:    tyBranch,
	op.OpBGE:    tyBranch,
	op.OpLUI:    tyU,
	op.OpJAL:    tyJal,
	op.OpHALT:   tyZero,
	op.OpINB:    tyInb,
	op.OpOUTB:   tyOutb,
}

// Render one instruction word as assembly text. Words that match no pattern
// render as a .word directive.
func Disassemble(word uint32) string {
	inst, ok := op.Decode(word)
	if !ok {
		return fmt.Sprintf(".word 0x%08x", word)
	}

	name := op.Names[inst.Op]
	switch opType[inst.Op] {
	case tyR:
		return fmt.Sprintf("%s x%d, x%d, x%d", name, inst.Rd, inst.Rs1, inst.Rs2)
	case tyFR:
		return fmt.Sprintf("%s f%d, f%d, f%d", name, inst.Rd, inst.Rs1, inst.Rs2)
	case tyFR2:
		return fmt.Sprintf("%s f%d, f%d", name, inst.Rd, inst.Rs1)
	case tyFCmp:
		return fmt.Sprintf("%s x%d, f%d, f%d", name, inst.Rd, inst.Rs1, inst.Rs2)
	case tyFInt:
		return fmt.Sprintf("%s f%d, x%d", name, inst.Rd, inst.Rs1)
	case tyIntF:
		return fmt.Sprintf("%s x%d, f%d", name, inst.Rd, inst.Rs1)
	case tyI:
		return fmt.Sprintf("%s x%d, x%d, %d", name, inst.Rd, inst.Rs1, inst.Imm)
	case tyShift:
		return fmt.Sprintf("%s x%d, x%d, %d", name, inst.Rd, inst.Rs1, inst.Imm)
	case tyLoad:
		return fmt.Sprintf("%s x%d, %d(x%d)", name, inst.Rd, inst.Imm, inst.Rs1)
	case tyFLoad:
		return fmt.Sprintf("%s f%d, %d(x%d)", name, inst.Rd, inst.Imm, inst.Rs1)
	case tyStore:
		return fmt.Sprintf("%s x%d, %d(x%d)", name, inst.Rs2, inst.Imm, inst.Rs1)
	case tyFStore:
		return fmt.Sprintf("%s f%d, %d(x%d)", name, inst.Rs2, inst.Imm, inst.Rs1)
	case tyBranch:
		return fmt.Sprintf("%s x%d, x%d, %d", name, inst.Rs1, inst.Rs2, inst.Imm)
	case tyU:
		return fmt.Sprintf("%s x%d, 0x%x", name, inst.Rd, uint32(inst.Imm)>>12)
	case tyJal:
		return fmt.Sprintf("%s x%d, %d", name, inst.Rd, inst.Imm)
	case tyInb:
		return fmt.Sprintf("%s x%d", name, inst.Rd)
	case tyOutb:
		return fmt.Sprintf("%s x%d", name, inst.Rs2)
	}
	return name
}
