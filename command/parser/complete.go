/*
 * ZOI - Debugger command completion.
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

import "strings"

// Complete a partial command name. Label arguments of break and delete
// complete from the program's label table.
func (dbg *Debugger) CompleteCmd(commandLine string) []string {
	elems := strings.Fields(commandLine)

	if len(elems) == 1 && strings.HasSuffix(commandLine, " ") &&
		(elems[0][0] == 'b' || elems[0][0] == 'd') {
		return dbg.completeLabel(elems[0], "")
	}
	if len(elems) == 2 && (elems[0][0] == 'b' || elems[0][0] == 'd') {
		return dbg.completeLabel(elems[0], elems[1])
	}
	if len(elems) > 1 {
		return nil
	}

	prefix := ""
	if len(elems) == 1 {
		prefix = elems[0]
	}
	var matches []string
	for _, command := range cmdList {
		if strings.HasPrefix(command.name, prefix) {
			matches = append(matches, command.name)
		}
	}
	return matches
}

func (dbg *Debugger) completeLabel(command, prefix string) []string {
	var matches []string
	for _, label := range dbg.prog.Labels {
		if strings.HasPrefix(label, prefix) {
			matches = append(matches, command+" "+label)
		}
	}
	return matches
}
