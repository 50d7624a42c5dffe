/*
 * ZOI - Run reports.
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

package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rcornwell/zoi/emu/core"
	"github.com/rcornwell/zoi/emu/decode"
	"github.com/rcornwell/zoi/util/bits"
)

// Print per opcode execution counts. Zero rows are skipped. With sorted the
// rows are ordered by descending count, otherwise dispatch table order.
func InstStat(w io.Writer, counts [decode.NumOpcodes]uint64, sorted bool) {
	var str strings.Builder
	str.WriteString("\n[Instruction Stats]\n")

	order := make([]int, decode.NumOpcodes)
	for i := range order {
		order[i] = i
	}
	if sorted {
		sort.SliceStable(order, func(i, j int) bool {
			return counts[order[i]] > counts[order[j]]
		})
	}

	for _, op := range order {
		if counts[op] == 0 {
			continue
		}
		fmt.Fprintf(&str, "%-8s %12d\n", decode.Names[op], counts[op])
	}
	fmt.Fprint(w, str.String())
}

// Print the largest unsigned value observed in each integer register.
func RegisterMax(w io.Writer, maxima [32]uint32) {
	var str strings.Builder
	str.WriteString("\n[Register Max]\n")
	for i, value := range maxima {
		fmt.Fprintf(&str, "x%02d = %10d;", i, value)
		if i%4 == 3 {
			str.WriteByte('\n')
		} else {
			str.WriteByte(' ')
		}
	}
	fmt.Fprint(w, str.String())
}

// Print every instruction that was never fetched, by source line.
func UnreachedLines(w io.Writer, session *core.Core) {
	prog := session.Program()

	var addrs []uint32
	for i := range prog.Insts {
		if session.Unreached(uint32(i)) {
			addrs = append(addrs, uint32(i)<<2)
		}
	}

	fmt.Fprint(w, "\n[Unreached Lines]\n")
	printCount(w, len(addrs), "unreached lines")

	for _, addr := range addrs {
		lnum, text, err := prog.LineOfTextAddr(addr)
		if err != nil {
			fmt.Fprintf(w, "%s\n", bits.FormatHex(addr))
			continue
		}
		fmt.Fprintf(w, "%d: %s\n", lnum, text)
	}
}

// Print every label whose first instruction was never fetched.
func UnreachedLabels(w io.Writer, session *core.Core) {
	prog := session.Program()

	var unreached []string
	for _, label := range prog.Labels {
		lnum, err := prog.LineOfLabel(label)
		if err != nil {
			continue
		}
		addr, err := prog.TextAddrOfLine(lnum)
		if err != nil {
			continue
		}
		if session.Unreached(addr >> 2) {
			unreached = append(unreached, label)
		}
	}

	fmt.Fprint(w, "\n[Unreached Labels]\n")
	printCount(w, len(unreached), "unreached labels")

	for _, label := range unreached {
		fmt.Fprintln(w, label)
	}
}

func printCount(w io.Writer, count int, what string) {
	if count == 0 {
		fmt.Fprintf(w, "No %s.\n\n", what)
	} else {
		fmt.Fprintf(w, "%d %s.\n\n", count, what)
	}
}
