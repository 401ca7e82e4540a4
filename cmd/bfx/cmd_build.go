package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/haldean/bfx/internal/driver"
)

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	optLevel := fs.Int("O", 2, "optimization level (0, 1, or 2)")
	asmMode := fs.Bool("S", false, "emit via NASM + external assembler/linker instead of direct ELF")
	output := fs.String("o", "", "output file (default: input file with a trailing .bf removed)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: bfx build [-O level] [-S] [-o output] <file>")
		fmt.Fprintln(os.Stderr, "\nProduces a native Linux x86-64 executable.")
		fs.PrintDefaults()
		os.Exit(1)
	}
	fs.Parse(args)

	if fs.NArg() != 1 {
		fail(&argumentError{Msg: "build: missing input file"})
	}

	level := parseOptLevel(*optLevel)
	file := filepath.Clean(fs.Arg(0))

	outFile := *output
	if outFile == "" {
		outFile = strings.TrimSuffix(file, ".bf")
	}

	backend := driver.BackendDirectELF
	if *asmMode {
		backend = driver.BackendAssembly
	}

	if err := driver.Build(file, outFile, driver.Options{Level: level, Backend: backend}); err != nil {
		fail(err)
	}

	fmt.Printf("built %s -> %s\n", file, outFile)
}
