package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haldean/bfx/internal/driver"
)

func cmdIR(args []string) {
	fs := flag.NewFlagSet("ir", flag.ExitOnError)
	optLevel := fs.Int("O", 0, "optimization level (0, 1, or 2)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: bfx ir [-O level] <file>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	fs.Parse(args)

	if fs.NArg() != 1 {
		fail(&argumentError{Msg: "ir: missing input file"})
	}

	level := parseOptLevel(*optLevel)
	file := filepath.Clean(fs.Arg(0))

	ops, err := driver.Compile(file, level)
	if err != nil {
		fail(err)
	}

	fmt.Print(driver.WriteIR(ops))
}
