// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/ls8/emulator"
	ls8io "github.com/ezrec/ls8/io"
	"github.com/ezrec/ls8/translate"
)

// Process exit codes.
const (
	EXIT_USAGE = 1
	EXIT_OPEN  = 2
	EXIT_FAULT = -1
)

var f = translate.From

// fatal reports err, and terminates with the fault exit code.
func fatal(err error) {
	log.Printf("%v: %v", os.Args[0], err)
	os.Exit(EXIT_FAULT)
}

func main() {
	var assemble bool
	var save bool

	// Flag errors share the argument error exit code.
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	flag.BoolVar(&assemble, "a", false, "FILE is assembly source, not a program image")
	flag.BoolVar(&save, "s", false, "Write the program image to stdout, do not execute")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, f("Correct usage: %v [-a] [-s] file_name.ls8 [1|true]", os.Args[0]))
		flag.PrintDefaults()
	}

	err := flag.CommandLine.Parse(os.Args[1:])
	if err != nil {
		os.Exit(EXIT_USAGE)
	}

	if flag.NArg() < 1 || flag.NArg() > 2 {
		fmt.Fprintln(os.Stderr, f("Invalid program call."))
		flag.Usage()
		os.Exit(EXIT_USAGE)
	}

	var verbose bool
	if flag.NArg() == 2 {
		switch flag.Arg(1) {
		case "1", "true":
			verbose = true
		}
	}

	file := flag.Arg(0)
	inf, err := os.Open(file)
	if err != nil {
		log.Printf("%v: %v", file, err)
		os.Exit(EXIT_OPEN)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Output = os.Stdout

	if assemble {
		err = emu.Assemble(inf)
	} else {
		err = emu.LoadImage(inf)
	}
	inf.Close()
	if err != nil {
		fatal(fmt.Errorf("%v: %w", file, err))
	}

	if save {
		err = ls8io.WriteImage(os.Stdout, emu.Program.Listing())
		if err != nil {
			fatal(err)
		}
		return
	}

	err = emu.Reset()
	if err != nil {
		fatal(err)
	}

	err = emu.Run()
	if err != nil {
		fatal(err)
	}

	if verbose {
		log.Printf("ls8: halted after %d ticks", emu.Ticks())
	}
}
