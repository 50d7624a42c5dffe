/*
 * ZOI - Main process.
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

package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/zoi/command/parser"
	"github.com/rcornwell/zoi/command/reader"
	"github.com/rcornwell/zoi/emu/core"
	"github.com/rcornwell/zoi/emu/cpu"
	"github.com/rcornwell/zoi/emu/report"
	"github.com/rcornwell/zoi/util/logger"
	"github.com/rcornwell/zoi/util/zoifile"
)

// Default memory size, 2^24 words (64 MiB).
const defaultMemSize = 0x1000000

func main() {
	optDebug := getopt.BoolLong("debug", 'd', "Run under the interactive debugger")
	optShowStat := getopt.BoolLong("show-stat", 0, "Report per instruction execution counts")
	optSortStat := getopt.BoolLong("sort-stat", 0, "Sort the instruction report by count")
	optShowLast := getopt.BoolLong("show-last", 0, "Dump CPU state when the run finishes")
	optShowMax := getopt.BoolLong("show-max", 0, "Report the largest value seen in each register")
	optShowULines := getopt.BoolLong("show-ulines", 0, "Report unreached instructions")
	optShowULabels := getopt.BoolLong("show-ulabels", 0, "Report unreached labels")
	optSilent := getopt.BoolLong("silent", 0, "Disable all optional reports")
	optVerbose := getopt.BoolLong("verbose", 0, "Enable all optional reports")
	optTrace := getopt.BoolLong("trace", 0, "Log each instruction as it executes")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optMemSize := getopt.Uint32Long("mem-size", 0, defaultMemSize, "Memory size in words")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logWriter io.Writer
	if *optLogFile != "" {
		if file, err := os.Create(*optLogFile); err == nil {
			logWriter = file
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	handler := logger.NewHandler(logWriter, &slog.HandlerOptions{Level: programLevel}, *optTrace)
	slog.SetDefault(slog.New(handler))

	showStat := *optShowStat
	sortStat := *optSortStat
	showLast := *optShowLast
	showMax := *optShowMax
	showULines := *optShowULines
	showULabels := *optShowULabels
	silent := *optSilent

	// Silent clears every optional report; verbose wins over both.
	if silent {
		showStat = false
		showLast = false
		showMax = false
		showULines = false
		showULabels = false
	}
	if *optVerbose {
		silent = false
		showStat = true
		showLast = true
		showMax = true
		showULines = true
		showULabels = true
	}

	params := getopt.Args()
	if len(params) == 0 {
		fatal("no zoi file")
	}
	if len(params) == 1 {
		fatal("no input file")
	}

	zoiName := params[0]
	if !strings.HasSuffix(zoiName, ".zoi") {
		fatal("invalid file type")
	}

	prog, err := zoifile.Load(zoiName, *optMemSize)
	if err != nil {
		fatal(err.Error())
	}

	inFile, err := os.Open(params[1])
	if err != nil {
		fatal("no such input file")
	}
	defer inFile.Close()

	var outFile io.Writer = os.Stdout
	if len(params) > 2 {
		file, err := os.Create(params[2])
		if err != nil {
			fatal(err.Error())
		}
		defer file.Close()
		outFile = file
	}

	machine := cpu.New(*optMemSize, prog.Data)
	machine.SetIO(bufio.NewReader(inFile), outFile)
	if prog.HasDebug() {
		machine.SetResolver(prog)
	}

	session := core.New(machine, prog)
	session.TrackMax(showMax)
	session.SetTrace(*optTrace)

	if *optDebug {
		if !prog.HasDebug() {
			fatal("you must specify binary with debug info when in debug mode")
		}
		reader.ConsoleReader(parser.New(session))
	} else {
		session.Run(showLast)
		if machine.Halted() && !showLast && !silent {
			fmt.Fprintln(os.Stderr, "Execution finished.")
			fmt.Fprintf(os.Stderr, "Elapsed %d clocks.\n", machine.Clocks())
		}
	}

	if showStat {
		report.InstStat(os.Stderr, session.Counts(), sortStat)
	}
	if showMax {
		report.RegisterMax(os.Stderr, session.Maxima())
	}
	if prog.HasDebug() {
		if showULines {
			report.UnreachedLines(os.Stderr, session)
		}
		if showULabels {
			report.UnreachedLabels(os.Stderr, session)
		}
	}
}

func fatal(message string) {
	fmt.Fprintln(os.Stderr, "Error: "+message)
	os.Exit(1)
}
