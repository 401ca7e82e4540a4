package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haldean/bfx/internal/driver"
)

func cmdTokens(args []string) {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: bfx tokens <file>")
		os.Exit(1)
	}
	fs.Parse(args)

	if fs.NArg() != 1 {
		fail(&argumentError{Msg: "tokens: missing input file"})
	}

	file := filepath.Clean(fs.Arg(0))

	tokens, err := driver.Tokenize(file)
	if err != nil {
		fail(err)
	}

	fmt.Print(driver.WriteTokens(tokens))
}
