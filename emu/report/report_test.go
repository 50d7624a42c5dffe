/*
 * ZOI - Report formatting tests.
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
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/rcornwell/zoi/emu/core"
	"github.com/rcornwell/zoi/emu/cpu"
	"github.com/rcornwell/zoi/emu/decode"
	"github.com/rcornwell/zoi/util/zoifile"
)

func TestInstStat(t *testing.T) {
	var counts [decode.NumOpcodes]uint64
	counts[decode.OpADDI] = 5
	counts[decode.OpHALT] = 1
	counts[decode.OpJAL] = 9

	var out bytes.Buffer
	InstStat(&out, counts, false)
	text := out.String()
	if !strings.Contains(text, "[Instruction Stats]") {
		t.Errorf("missing header in %q", text)
	}
	if !strings.Contains(text, "addi") || !strings.Contains(text, "jal") {
		t.Errorf("missing rows in %q", text)
	}
	if strings.Contains(text, "fadd") {
		t.Errorf("zero row printed in %q", text)
	}
	// Insertion order: addi before jal.
	if strings.Index(text, "addi") > strings.Index(text, "jal") {
		t.Error("insertion order not preserved")
	}

	out.Reset()
	InstStat(&out, counts, true)
	text = out.String()
	// Sorted order: jal first.
	if strings.Index(text, "jal") > strings.Index(text, "addi") {
		t.Error("sorted order wrong")
	}
}

func TestRegisterMax(t *testing.T) {
	var maxima [32]uint32
	maxima[3] = 123456
	var out bytes.Buffer
	RegisterMax(&out, maxima)
	if !strings.Contains(out.String(), "x03 =     123456;") {
		t.Errorf("missing maximum in %q", out.String())
	}
}

/*
   Coverage program, lines 1..4:

       1  start:
       2      halt
       3  dead:
       4      addi x1, x0, 1
*/
func newCoverageSession() *core.Core {
	addi := (uint32(1)&0xfff)<<20 | 1<<7 | 0b0010011
	prog := &zoifile.Program{
		Insts:     []uint32{0, addi},
		InstLines: []uint32{2, 4},
		Lines:     []string{"start:", "    halt", "dead:", "    addi x1, x0, 1"},
		Labels:    []string{"start", "dead"},
		LabelLine: map[string]uint32{"start": 1, "dead": 3},
	}
	machine := cpu.New(16, nil)
	machine.SetDiag(io.Discard)
	session := core.New(machine, prog)
	session.SetDiag(io.Discard)
	session.Run(false)
	return session
}

func TestUnreachedLines(t *testing.T) {
	session := newCoverageSession()
	var out bytes.Buffer
	UnreachedLines(&out, session)
	text := out.String()
	if !strings.Contains(text, "1 unreached lines.") {
		t.Errorf("missing count in %q", text)
	}
	if !strings.Contains(text, "4:     addi x1, x0, 1") {
		t.Errorf("missing line in %q", text)
	}
}

func TestUnreachedLabels(t *testing.T) {
	session := newCoverageSession()
	var out bytes.Buffer
	UnreachedLabels(&out, session)
	text := out.String()
	if !strings.Contains(text, "1 unreached labels.") {
		t.Errorf("missing count in %q", text)
	}
	if !strings.Contains(text, "dead") {
		t.Errorf("missing label in %q", text)
	}
	if strings.Contains(text, "start\n") {
		t.Errorf("reached label printed in %q", text)
	}
}
