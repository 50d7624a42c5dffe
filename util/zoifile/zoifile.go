/*
 * ZOI - Program container reader.
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

package zoifile

/*
   A .zoi container holds a complete program image, little endian throughout:

       magic[4]           "ZOI!" plain, "ZOI?" with debug info
       u32 dataLen        number of data words
       u32 textLen        number of instruction words
       u32 data[dataLen]  initial memory image, loaded at word 0
       u32 text[textLen]  instruction words

   When the magic is "ZOI?" the container continues with:

       u32 instLines[textLen]   1-origin source line of each instruction
       bytes                    original source text, newline separated

   A source line whose first token ends with ':' declares a label.
*/

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

const wordSize = 4

var (
	ErrBadMagic     = errors.New("invalid file type")
	ErrDataTooLarge = errors.New("static data is too large")
	ErrTruncated    = errors.New("unexpected end of file")
	ErrMisaligned   = errors.New("misaligned text address")
	ErrOutOfRange   = errors.New("text address out of range")
	ErrNoLine       = errors.New("no instruction for line")
	ErrNoLabel      = errors.New("no such label")
)

// Program is the loaded image plus any debug metadata. Immutable after load.
type Program struct {
	Data      []uint32          // Initial data image.
	Insts     []uint32          // Instruction words.
	InstLines []uint32          // 1-origin source line per instruction.
	Lines     []string          // Source text, Lines[k] is line k+1.
	Labels    []string          // Labels in declaration order.
	LabelLine map[string]uint32 // Label to 1-origin line.
}

// Report whether the container carried debug info.
func (prog *Program) HasDebug() bool {
	return prog.InstLines != nil
}

// Look up the 1-origin line number of a label.
func (prog *Program) LineOfLabel(label string) (uint32, error) {
	lnum, ok := prog.LabelLine[label]
	if !ok {
		return 0, ErrNoLabel
	}
	return lnum, nil
}

// Resolve a source line number to the text address of the first instruction
// whose recorded line is >= lnum.
func (prog *Program) TextAddrOfLine(lnum uint32) (uint32, error) {
	idx := sort.Search(len(prog.InstLines), func(i int) bool {
		return prog.InstLines[i] >= lnum
	})
	if idx >= len(prog.InstLines) {
		return 0, ErrNoLine
	}
	return uint32(idx) << 2, nil
}

// Return the line number and text for a text address.
func (prog *Program) LineOfTextAddr(addr uint32) (uint32, string, error) {
	if addr&0b11 != 0 {
		return 0, "", ErrMisaligned
	}
	idx := addr >> 2
	if idx >= uint32(len(prog.InstLines)) {
		return 0, "", ErrOutOfRange
	}
	lnum := prog.InstLines[idx]
	if lnum == 0 || lnum > uint32(len(prog.Lines)) {
		return lnum, "", nil
	}
	return lnum, prog.Lines[lnum-1], nil
}

// Return the instruction word at a text address.
func (prog *Program) WordOfTextAddr(addr uint32) (uint32, error) {
	if addr&0b11 != 0 {
		return 0, ErrMisaligned
	}
	idx := addr >> 2
	if idx >= uint32(len(prog.Insts)) {
		return 0, ErrOutOfRange
	}
	return prog.Insts[idx], nil
}

// Load a container from a file.
func Load(name string, memSize uint32) (*Program, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, memSize)
}

// Read a container from a stream.
func Read(r io.Reader, memSize uint32) (*Program, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(buf) < wordSize || buf[0] != 'Z' || buf[1] != 'O' || buf[2] != 'I' {
		return nil, ErrBadMagic
	}
	debug := false
	switch buf[3] {
	case '!':
	case '?':
		debug = true
	default:
		return nil, ErrBadMagic
	}
	pos := wordSize

	dataLen, pos, err := readWord(buf, pos)
	if err != nil {
		return nil, err
	}
	if dataLen > memSize {
		return nil, ErrDataTooLarge
	}
	textLen, pos, err := readWord(buf, pos)
	if err != nil {
		return nil, err
	}

	prog := &Program{}
	prog.Data, pos, err = readWords(buf, pos, dataLen)
	if err != nil {
		return nil, err
	}
	prog.Insts, pos, err = readWords(buf, pos, textLen)
	if err != nil {
		return nil, err
	}

	if !debug {
		return prog, nil
	}

	prog.InstLines, pos, err = readWords(buf, pos, textLen)
	if err != nil {
		return nil, err
	}
	prog.readSource(buf[pos:])
	return prog, nil
}

// Assemble one little endian word.
func readWord(buf []byte, pos int) (uint32, int, error) {
	if pos+wordSize > len(buf) {
		return 0, pos, fmt.Errorf("%w at offset %d", ErrTruncated, pos)
	}
	word := uint32(buf[pos]) | uint32(buf[pos+1])<<8 |
		uint32(buf[pos+2])<<16 | uint32(buf[pos+3])<<24
	return word, pos + wordSize, nil
}

func readWords(buf []byte, pos int, count uint32) ([]uint32, int, error) {
	words := make([]uint32, count)
	var err error
	for i := range words {
		words[i], pos, err = readWord(buf, pos)
		if err != nil {
			return nil, pos, err
		}
	}
	return words, pos, nil
}

// Split the trailing source text into lines and collect label declarations.
func (prog *Program) readSource(buf []byte) {
	prog.LabelLine = map[string]uint32{}
	text := strings.Split(string(buf), "\n")
	for i, line := range text {
		prog.Lines = append(prog.Lines, line)
		lnum := uint32(i) + 1

		tokens := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '#'
		})
		if len(tokens) == 0 {
			continue
		}
		first := tokens[0]
		if strings.HasSuffix(first, ":") {
			label := first[:len(first)-1]
			prog.Labels = append(prog.Labels, label)
			prog.LabelLine[label] = lnum
		}
	}
}
