/*
 * ZOI - Debugger inspection command.
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

package parser

import (
	"fmt"
	"strconv"

	dis "github.com/rcornwell/zoi/emu/disassemble"
	"github.com/rcornwell/zoi/util/bits"
)

// print: with no argument dump the CPU state. Otherwise print one value,
// '*' dereferences it as a memory address, '@' decodes it as a text address.
func printCmd(dbg *Debugger, args []string) bool {
	if len(args) == 0 {
		dbg.session.CPU().PrintState(dbg.diag)
		return true
	}

	arg := args[0]
	deref := false
	inst := false
	switch arg[0] {
	case '*':
		deref = true
		arg = arg[1:]
	case '@':
		inst = true
		arg = arg[1:]
	}
	if arg == "" {
		return dbg.invalidArgument()
	}

	value, ok := dbg.resolveValue(arg)
	if !ok {
		return dbg.invalidArgument()
	}

	if inst {
		word, err := dbg.prog.WordOfTextAddr(value)
		if err != nil {
			return dbg.invalidArgument()
		}
		dbg.printLine(value)
		fmt.Fprintf(dbg.diag, "(asm)   %s\n", dis.Disassemble(word))
		fmt.Fprintf(dbg.diag, "(hex)   %s\n", bits.FormatHex(word))
		fmt.Fprintf(dbg.diag, "(bin)   0b%s\n", bits.FormatBin(word, 32))
		fmt.Fprintln(dbg.diag)
		return true
	}

	if deref {
		word, err := dbg.session.CPU().MemWord(value)
		if err != nil {
			fmt.Fprintf(dbg.diag, "Invalid memory access. addr = %s (%d)\n",
				bits.FormatHex(value), value)
			return true
		}
		value = word
	}

	dbg.printValue(value)
	return true
}

// Resolve a print argument: pc, an integer or float register, or a numeric
// literal in decimal, hex or binary.
func (dbg *Debugger) resolveValue(arg string) (uint32, bool) {
	machine := dbg.session.CPU()

	if arg == "pc" {
		return machine.PC(), true
	}

	if arg[0] == 'x' || arg[0] == 'f' {
		num, err := strconv.ParseUint(arg[1:], 10, 32)
		if err == nil {
			if arg[0] == 'x' {
				value, err := machine.Reg(uint32(num))
				if err != nil {
					return 0, false
				}
				return value, true
			}
			value, err := machine.FregBits(uint32(num))
			if err != nil {
				return 0, false
			}
			return value, true
		}
		// Fall through: not a register name, maybe a literal.
	}

	value, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return 0, false
	}
	return uint32(value), true
}

// Render one 32-bit payload in every interpretation.
func (dbg *Debugger) printValue(value uint32) {
	fmt.Fprintf(dbg.diag, "(hex)   %s\n", bits.FormatHex(value))
	fmt.Fprintf(dbg.diag, "(uint)  %d\n", value)
	fmt.Fprintf(dbg.diag, "(int)   %d\n", int32(value))
	fmt.Fprintf(dbg.diag, "(float) %v\n", bits.BitsFloat(value))
	fmt.Fprintf(dbg.diag, "(bin)   0b%s\n", bits.FormatBin(value, 32))
	fmt.Fprintln(dbg.diag)
}
