/*
 * ZOI - Core stepper and run loop.
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

package core

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rcornwell/zoi/emu/cpu"
	"github.com/rcornwell/zoi/emu/decode"
	dis "github.com/rcornwell/zoi/emu/disassemble"
	"github.com/rcornwell/zoi/util/zoifile"
)

// Outcome of one step.
type StepResult int

const (
	Continue StepResult = iota // Instruction retired, keep going.
	Halted                     // Halt instruction executed.
	Exception                  // NaN or invalid memory access.
	Abort                      // PC out of text range or undecodable word.
)

// Core owns the CPU, the immutable program image and the observer state:
// coverage bitmap, per opcode counters and per register maxima.
type Core struct {
	cpu  *cpu.CPU
	prog *zoifile.Program

	unreached []bool
	counts    [decode.NumOpcodes]uint64

	trackMax bool
	maxima   [32]uint32

	trace bool
	diag  io.Writer
}

func New(machine *cpu.CPU, prog *zoifile.Program) *Core {
	core := &Core{
		cpu:       machine,
		prog:      prog,
		unreached: make([]bool, len(prog.Insts)),
		diag:      os.Stderr,
	}
	for i := range core.unreached {
		core.unreached[i] = true
	}
	return core
}

// Enable tracking of the largest value seen in each integer register.
func (core *Core) TrackMax(enable bool) {
	core.trackMax = enable
}

// Log each instruction mnemonic at debug level as it executes.
func (core *Core) SetTrace(enable bool) {
	core.trace = enable
}

func (core *Core) SetDiag(w io.Writer) {
	core.diag = w
}

func (core *Core) CPU() *cpu.CPU                     { return core.cpu }
func (core *Core) Program() *zoifile.Program         { return core.prog }
func (core *Core) Counts() [decode.NumOpcodes]uint64 { return core.counts }
func (core *Core) Maxima() [32]uint32                { return core.maxima }

// Report whether the instruction at text index idx was ever fetched.
func (core *Core) Unreached(idx uint32) bool {
	if idx >= uint32(len(core.unreached)) {
		return false
	}
	return core.unreached[idx]
}

// Fetch, decode and execute one instruction.
func (core *Core) Step() StepResult {
	pc := core.cpu.PC()
	idx := pc >> 2
	if idx >= uint32(len(core.prog.Insts)) {
		core.printLine(core.cpu.PrevPC())
		fmt.Fprintf(core.diag, "PC out of range. pc = 0x%08x\n", pc)
		return Abort
	}
	core.unreached[idx] = false

	word := core.prog.Insts[idx]
	inst, ok := decode.Decode(word)
	if !ok {
		core.printLine(pc)
		fmt.Fprintf(core.diag, "Invalid instruction. word = 0x%08x\n", word)
		return Abort
	}

	core.counts[inst.Op]++
	if core.trace {
		slog.Debug(dis.Disassemble(word))
	}

	core.dispatch(inst)
	core.cpu.Tick()

	if core.trackMax {
		regs := core.cpu.Regs()
		for i, value := range regs {
			if value > core.maxima[i] {
				core.maxima[i] = value
			}
		}
	}

	switch {
	case core.cpu.Halted():
		return Halted
	case core.cpu.Exception():
		return Exception
	}
	return Continue
}

// Step once and report terminal states. Returns false when the run is over.
func (core *Core) StepAndReport(showHalted bool) bool {
	switch core.Step() {
	case Abort, Exception:
		fmt.Fprintln(core.diag, "Execution interrupted.")
		core.cpu.PrintState(core.diag)
		return false
	case Halted:
		if showHalted {
			fmt.Fprintln(core.diag, "Execution finished.")
			core.cpu.PrintState(core.diag)
		}
		return false
	}
	return true
}

// Run until halt, exception or abort.
func (core *Core) Run(showHalted bool) {
	for core.StepAndReport(showHalted) {
	}
}

func (core *Core) printLine(addr uint32) {
	if !core.prog.HasDebug() {
		return
	}
	lnum, text, err := core.prog.LineOfTextAddr(addr)
	if err != nil {
		return
	}
	fmt.Fprintf(core.diag, "%d: %s\n", lnum, text)
}

func (core *Core) dispatch(inst decode.Inst) {
	machine := core.cpu
	switch inst.Op {
	case decode.OpADD:
		machine.Add(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpSUB:
		machine.Sub(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpOR:
		machine.Or(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpFADD:
		machine.Fadd(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpFSUB:
		machine.Fsub(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpFMUL:
		machine.Fmul(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpFDIV:
		machine.Fdiv(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpFSQRT:
		machine.Fsqrt(inst.Rd, inst.Rs1)
	case decode.OpFSGNJ:
		machine.Fsgnj(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpFSGNJN:
		machine.Fsgnjn(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpFSGNJX:
		machine.Fsgnjx(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpFEQ:
		machine.Feq(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpFLE:
		machine.Fle(inst.Rd, inst.Rs1, inst.Rs2)
	case decode.OpFCVTWS:
		machine.FcvtWS(inst.Rd, inst.Rs1)
	case decode.OpFCVTSW:
		machine.FcvtSW(inst.Rd, inst.Rs1)
	case decode.OpFMVSX:
		machine.FmvSX(inst.Rd, inst.Rs1)
	case decode.OpADDI:
		machine.Addi(inst.Rd, inst.Rs1, inst.Imm)
	case decode.OpSLLI:
		machine.Slli(inst.Rd, inst.Rs1, uint32(inst.Imm))
	case decode.OpSRAI:
		machine.Srai(inst.Rd, inst.Rs1, uint32(inst.Imm))
	case decode.OpLW:
		machine.Lw(inst.Rd, inst.Rs1, inst.Imm)
	case decode.OpFLW:
		machine.Flw(inst.Rd, inst.Rs1, inst.Imm)
	case decode.OpJALR:
		machine.Jalr(inst.Rd, inst.Rs1, inst.Imm)
	case decode.OpSW:
		machine.Sw(inst.Rs2, inst.Rs1, inst.Imm)
	case decode.OpFSW:
		machine.Fsw(inst.Rs2, inst.Rs1, inst.Imm)
	case decode.OpBEQ:
		machine.Beq(inst.Rs1, inst.Rs2, inst.Imm)
	case decode.OpBNE:
		machine.Bne(inst.Rs1, inst.Rs2, inst.Imm)
	case decode.OpBLT:
		machine.Blt(inst.Rs1, inst.Rs2, inst.Imm)
	case decode.OpBGE:
		machine.Bge(inst.Rs1, inst.Rs2, inst.Imm)
	case decode.OpLUI:
		machine.Lui(inst.Rd, inst.Imm)
	case decode.OpJAL:
		machine.Jal(inst.Rd, inst.Imm)
	case decode.OpHALT:
		machine.Halt()
	case decode.OpINB:
		machine.Inb(inst.Rd)
	case decode.OpOUTB:
		machine.Outb(inst.Rs2)
	}
}
