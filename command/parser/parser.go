/*
 * ZOI - Debugger command parser.
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
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rcornwell/zoi/emu/core"
	"github.com/rcornwell/zoi/util/zoifile"
)

type cmd struct {
	name    string
	process func(*Debugger, []string) bool // Returns false to leave the debugger.
}

// Commands are recognized by their first character; the full names exist
// for completion.
var cmdList = []cmd{
	{name: "next", process: next},
	{name: "continue", process: cont},
	{name: "quit", process: quit},
	{name: "break", process: breakpoint},
	{name: "delete", process: deleteBreak},
	{name: "print", process: printCmd},
}

// Debugger session: the execution core plus the breakpoint set.
type Debugger struct {
	session     *core.Core
	prog        *zoifile.Program
	breakpoints map[uint32]struct{}
	diag        io.Writer
	showHalted  bool
}

func New(session *core.Core) *Debugger {
	return &Debugger{
		session:     session,
		prog:        session.Program(),
		breakpoints: map[uint32]struct{}{},
		diag:        os.Stderr,
		showHalted:  true,
	}
}

func (dbg *Debugger) SetDiag(w io.Writer) {
	dbg.diag = w
	dbg.session.SetDiag(w)
	dbg.session.CPU().SetDiag(w)
}

// Print the source line of the current PC, the first half of the prompt.
func (dbg *Debugger) PrintSourceLine() {
	dbg.printLine(dbg.session.CPU().PC())
}

// Second half of the prompt, handed to the line editor.
func (dbg *Debugger) Prompt() string {
	return fmt.Sprintf("[%d clks] > ", dbg.session.CPU().Clocks())
}

// Execute one command line. Empty input repeats next. Returns true when the
// debugger should exit, either by quit or because the run ended.
func (dbg *Debugger) ProcessCommand(commandLine string) bool {
	elems := strings.Fields(commandLine)
	if len(elems) == 0 {
		elems = []string{"next"}
	}
	name := elems[0]
	args := elems[1:]

	for _, command := range cmdList {
		if command.name[0] == name[0] {
			return !command.process(dbg, args)
		}
	}
	fmt.Fprintln(dbg.diag, "Undefined command.")
	return false
}

// Resolve a breakpoint argument: a source line number or a label.
func (dbg *Debugger) resolveArg(arg string) (uint32, bool) {
	lnum := uint32(0)
	if arg[0] >= '0' && arg[0] <= '9' {
		value, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return 0, false
		}
		lnum = uint32(value)
	} else {
		value, err := dbg.prog.LineOfLabel(arg)
		if err != nil {
			return 0, false
		}
		lnum = value
	}
	addr, err := dbg.prog.TextAddrOfLine(lnum)
	if err != nil {
		return 0, false
	}
	return addr, true
}

func (dbg *Debugger) atBreakpoint() bool {
	_, ok := dbg.breakpoints[dbg.session.CPU().PC()]
	return ok
}

func (dbg *Debugger) sortedBreakpoints() []uint32 {
	addrs := make([]uint32, 0, len(dbg.breakpoints))
	for addr := range dbg.breakpoints {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

func (dbg *Debugger) printLine(addr uint32) {
	lnum, text, err := dbg.prog.LineOfTextAddr(addr)
	if err != nil {
		return
	}
	fmt.Fprintf(dbg.diag, "%d: %s\n", lnum, text)
}

func (dbg *Debugger) printBreakpoint(addr uint32) {
	fmt.Fprintf(dbg.diag, "(0x%08x) ", addr)
	dbg.printLine(addr)
}

func (dbg *Debugger) invalidArgument() bool {
	fmt.Fprintln(dbg.diag, "Invalid argument.")
	return true
}
