// Command bfx compiles Brainfuck source to a native Linux x86-64
// executable, either by hand-emitting machine code directly into a
// minimal ELF64 file or by rendering NASM text and shelling out to an
// external assembler and linker.
package main

import (
	"fmt"
	"os"

	"github.com/haldean/bfx/internal/optimizer"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bfx <command> [options] <file>

commands:
  build [-O level] [-S] [-o output] <file>   Compile to a native executable
  tokens <file>                              Dump tokenizer output
  ir [-O level] <file>                       Dump optimized IR`)
	os.Exit(1)
}

func parseOptLevel(level int) optimizer.Level {
	switch level {
	case 0:
		return optimizer.LevelNone
	case 1:
		return optimizer.LevelMerge
	case 2:
		return optimizer.LevelFull
	default:
		fmt.Fprintf(os.Stderr, "invalid optimization level: %d (must be 0, 1, or 2)\n", level)
		os.Exit(1)
	}
	return optimizer.LevelNone
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "build":
		cmdBuild(args)
	case "tokens":
		cmdTokens(args)
	case "ir":
		cmdIR(args)
	default:
		usage()
	}
}

// fail prints a single diagnostic line and exits 1, matching spec.md's
// error policy: no error is recovered locally.
func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// argumentError reports a missing CLI argument, surfaced before any
// file I/O as spec.md requires.
type argumentError struct {
	Msg string
}

func (e *argumentError) Error() string { return e.Msg }
