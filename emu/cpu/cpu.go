/*
 * ZOI - CPU architectural state.
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

/*
   The ZOI machine is a 32-bit word addressed RISC-V derivative. It has 32
   general purpose registers with x0 wired to zero, 32 single precision
   floating point registers, a word addressed memory, and byte stream I/O.

   Memory is addressed byte-wise by the ISA but the hardware model ignores
   the low two address bits: the memory index is always addr >> 2.

   Floating point registers are kept as raw bit patterns so that bitwise
   moves and stores round trip every pattern exactly; value access converts
   on demand.
*/

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rcornwell/zoi/util/bits"
)

// Bytes per instruction and memory word.
const WordSize = 4

const regLen = 32

var (
	ErrRegIndex   = errors.New("register index out of range")
	ErrMisaligned = errors.New("misaligned address")
	ErrOutOfRange = errors.New("address out of range")
)

// Source map hook used for diagnostics. Only the loader's debug metadata
// implements it; a nil resolver is valid.
type LineResolver interface {
	LineOfTextAddr(addr uint32) (uint32, string, error)
}

type CPU struct {
	pc     uint32
	prevPC uint32
	regs   [regLen]uint32
	fregs  [regLen]uint32 // raw bit patterns
	mem    []uint32
	memSize uint32

	halted    bool
	exception bool
	clocks    uint64

	input  io.ByteReader
	output io.Writer
	diag   io.Writer
	lines  LineResolver
}

// Create a CPU with memSize words of memory and the data image copied to
// the low end of memory. Registers, PC, flags and counters start at zero.
func New(memSize uint32, data []uint32) *CPU {
	cpu := &CPU{
		mem:     make([]uint32, memSize),
		memSize: memSize,
		diag:    os.Stderr,
	}
	copy(cpu.mem, data)
	return cpu
}

// Attach the program input and output byte streams.
func (cpu *CPU) SetIO(input io.ByteReader, output io.Writer) {
	cpu.input = input
	cpu.output = output
}

// Redirect the diagnostics stream. Default is stderr.
func (cpu *CPU) SetDiag(w io.Writer) {
	cpu.diag = w
}

// Attach the source map used in diagnostics.
func (cpu *CPU) SetResolver(lines LineResolver) {
	cpu.lines = lines
}

func (cpu *CPU) PC() uint32      { return cpu.pc }
func (cpu *CPU) PrevPC() uint32  { return cpu.prevPC }
func (cpu *CPU) Clocks() uint64  { return cpu.clocks }
func (cpu *CPU) Halted() bool    { return cpu.halted }
func (cpu *CPU) Exception() bool { return cpu.exception }

// Read an integer register.
func (cpu *CPU) Reg(num uint32) (uint32, error) {
	if num >= regLen {
		return 0, ErrRegIndex
	}
	return cpu.regs[num], nil
}

// Read a float register as its raw bit pattern.
func (cpu *CPU) FregBits(num uint32) (uint32, error) {
	if num >= regLen {
		return 0, ErrRegIndex
	}
	return cpu.fregs[num], nil
}

// Read a float register by value.
func (cpu *CPU) Freg(num uint32) (float32, error) {
	if num >= regLen {
		return 0, ErrRegIndex
	}
	return bits.BitsFloat(cpu.fregs[num]), nil
}

// Snapshot the integer register file.
func (cpu *CPU) Regs() [regLen]uint32 {
	return cpu.regs
}

// Read one memory word by byte address. Unlike execution, inspection
// rejects misaligned addresses.
func (cpu *CPU) MemWord(addr uint32) (uint32, error) {
	if addr&0b11 != 0 {
		return 0, ErrMisaligned
	}
	idx := addr >> 2
	if idx >= cpu.memSize {
		return 0, ErrOutOfRange
	}
	return cpu.mem[idx], nil
}

// Count one retired instruction.
func (cpu *CPU) Tick() {
	cpu.clocks++
}

// x0 is hard wired to zero; called after every integer register write.
func (cpu *CPU) flushR0() {
	cpu.regs[0] = 0
}

func (cpu *CPU) advancePC(next uint32) {
	cpu.prevPC = cpu.pc
	cpu.pc = next
}

func (cpu *CPU) incPC() {
	cpu.advancePC(cpu.pc + WordSize)
}

// Print the source line holding addr to the diagnostics stream, when a
// source map is attached.
func (cpu *CPU) printLine(addr uint32) {
	if cpu.lines == nil {
		return
	}
	lnum, text, err := cpu.lines.LineOfTextAddr(addr)
	if err != nil {
		return
	}
	fmt.Fprintf(cpu.diag, "%d: %s\n", lnum, text)
}

// A float operation produced NaN. The result is still written and PC still
// advances; the stepper stops the run on seeing the exception flag.
func (cpu *CPU) reportNaN(rd uint32) {
	cpu.printLine(cpu.pc)
	fmt.Fprintf(cpu.diag, "NaN exception at f%02d.\n", rd)
	cpu.exception = true
}

// A load or store computed an address outside memory. PC and registers are
// left unchanged.
func (cpu *CPU) reportBadAccess(addr uint32) {
	cpu.printLine(cpu.pc)
	fmt.Fprintf(cpu.diag, "Invalid memory access. addr = %s (%d)\n",
		bits.FormatHex(addr), addr)
	cpu.exception = true
}

// Compute the memory index for a load or store. false means the access was
// out of range and the exception flag is set.
func (cpu *CPU) memIndex(base uint32, imm int32) (uint32, bool) {
	addr := cpu.regs[base] + uint32(imm)
	idx := addr >> 2
	if idx >= cpu.memSize {
		cpu.reportBadAccess(addr)
		return 0, false
	}
	return idx, true
}

// Dump clocks, PC and both register files.
func (cpu *CPU) PrintState(w io.Writer) {
	var str strings.Builder
	fmt.Fprintf(&str, "%d clocks.\n\n", cpu.clocks)
	fmt.Fprintf(&str, "PC = %s\n\n", bits.FormatHex(cpu.pc))

	str.WriteString("GPRs:\n")
	for i := 0; i < regLen; i++ {
		fmt.Fprintf(&str, "x%02d = %10d;", i, cpu.regs[i])
		if i%4 == 3 {
			str.WriteByte('\n')
		} else {
			str.WriteByte(' ')
		}
	}

	str.WriteString("FPRs:\n")
	for i := 0; i < regLen; i++ {
		fmt.Fprintf(&str, "f%02d = %10v;", i, bits.BitsFloat(cpu.fregs[i]))
		if i%4 == 3 {
			str.WriteByte('\n')
		} else {
			str.WriteByte(' ')
		}
	}
	fmt.Fprint(w, str.String())
}
