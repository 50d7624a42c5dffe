/*
 * ZOI - Debugger commands.
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
)

// next: step once, or the given number of times. Stops early at a
// breakpoint or when the run ends.
func next(dbg *Debugger, args []string) bool {
	if len(args) == 0 {
		return dbg.session.StepAndReport(dbg.showHalted)
	}

	count, err := strconv.Atoi(args[0])
	if err != nil {
		return dbg.invalidArgument()
	}
	for i := 0; i < count; i++ {
		if !dbg.session.StepAndReport(dbg.showHalted) {
			return false
		}
		if dbg.atBreakpoint() {
			fmt.Fprint(dbg.diag, "Stop at breakpoint.\n\n")
			break
		}
	}
	return true
}

// continue: run until a breakpoint or the run ends.
func cont(dbg *Debugger, _ []string) bool {
	for {
		if !dbg.session.StepAndReport(dbg.showHalted) {
			return false
		}
		if dbg.atBreakpoint() {
			fmt.Fprint(dbg.diag, "Stop at breakpoint.\n\n")
			return true
		}
	}
}

func quit(_ *Debugger, _ []string) bool {
	return false
}

// break: with no argument, set a breakpoint at the current PC. With -s list
// the breakpoints. Otherwise set one at a source line or label.
func breakpoint(dbg *Debugger, args []string) bool {
	if len(args) == 0 {
		dbg.breakpoints[dbg.session.CPU().PC()] = struct{}{}
		fmt.Fprint(dbg.diag, "Add breakpoint.\n\n")
		return true
	}

	if args[0] == "-s" {
		if len(dbg.breakpoints) == 0 {
			fmt.Fprint(dbg.diag, "No")
		} else {
			fmt.Fprintf(dbg.diag, "%d", len(dbg.breakpoints))
		}
		fmt.Fprintln(dbg.diag, " breakpoint(s).")
		for _, addr := range dbg.sortedBreakpoints() {
			dbg.printBreakpoint(addr)
		}
		fmt.Fprintln(dbg.diag)
		return true
	}

	addr, ok := dbg.resolveArg(args[0])
	if !ok {
		return dbg.invalidArgument()
	}
	dbg.breakpoints[addr] = struct{}{}
	fmt.Fprintln(dbg.diag, "Add breakpoint at")
	dbg.printBreakpoint(addr)
	fmt.Fprintln(dbg.diag)
	return true
}

// delete: remove one breakpoint by line or label, or all with -a.
func deleteBreak(dbg *Debugger, args []string) bool {
	if len(args) == 0 {
		fmt.Fprintln(dbg.diag, "Please specify an argument.")
		return true
	}

	if args[0] == "-a" {
		fmt.Fprint(dbg.diag, "Delete all breakpoints.\n\n")
		dbg.breakpoints = map[uint32]struct{}{}
		return true
	}

	addr, ok := dbg.resolveArg(args[0])
	if !ok {
		return dbg.invalidArgument()
	}
	delete(dbg.breakpoints, addr)
	fmt.Fprintln(dbg.diag, "Delete breakpoint at")
	dbg.printBreakpoint(addr)
	fmt.Fprintln(dbg.diag)
	return true
}
