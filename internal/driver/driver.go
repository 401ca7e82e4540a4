// Package driver wires the parser, optimizer, and back ends together
// into the two build modes spec.md names: assembly-via-external-tools
// and direct-ELF. It owns all filesystem and process-invocation
// concerns so the compiler packages themselves stay pure.
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/haldean/bfx/internal/asmgen"
	"github.com/haldean/bfx/internal/elfgen"
	"github.com/haldean/bfx/internal/ir"
	"github.com/haldean/bfx/internal/optimizer"
	"github.com/haldean/bfx/internal/parser"
)

// Backend selects how optimized IR is turned into an executable.
type Backend int

const (
	// BackendDirectELF hand-emits machine code and wraps it in a
	// minimal ELF64 executable; no external tool is invoked.
	BackendDirectELF Backend = iota
	// BackendAssembly renders NASM text and shells out to nasm and ld.
	BackendAssembly
)

// Options configures a single compile.
type Options struct {
	Level   optimizer.Level
	Backend Backend
}

// outputFilePerm matches the teacher's own convention for the produced
// executable (os.WriteFile(outFile, binary, 0755)).
const outputFilePerm = 0755

// Tokenize reads a Brainfuck source file and returns its token stream,
// without parsing or validating bracket balance.
func Tokenize(path string) ([]parser.Token, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputIoError{Path: path, Err: err}
	}
	return parser.Tokenize(src), nil
}

// Compile reads and lowers a Brainfuck source file into optimized IR,
// without selecting a back end.
func Compile(path string, level optimizer.Level) ([]ir.Op, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputIoError{Path: path, Err: err}
	}

	ops, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}

	return optimizer.Run(ops, level), nil
}

// Build compiles inputPath and writes the result to outputPath per
// opts.Backend. In BackendAssembly mode it leaves {outputPath}.s and
// {outputPath}.o in place alongside the linked executable, matching
// spec.md's assembly-mode file layout.
func Build(inputPath, outputPath string, opts Options) error {
	ops, err := Compile(inputPath, opts.Level)
	if err != nil {
		return err
	}

	switch opts.Backend {
	case BackendAssembly:
		return buildAssembly(ops, outputPath)
	default:
		return buildDirectELF(ops, outputPath)
	}
}

func buildDirectELF(ops []ir.Op, outputPath string) error {
	binary, err := elfgen.GenerateELF(ops)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, binary, outputFilePerm); err != nil {
		return &OutputIoError{Path: outputPath, Err: err}
	}
	return nil
}

func buildAssembly(ops []ir.Op, outputPath string) error {
	asmPath := outputPath + ".s"
	objPath := outputPath + ".o"

	asm := asmgen.Generate(ops)
	if err := os.WriteFile(asmPath, []byte(asm), 0644); err != nil {
		return &OutputIoError{Path: asmPath, Err: err}
	}

	if err := runTool("nasm", "-felf64", asmPath, "-o", objPath); err != nil {
		return err
	}
	if err := runTool("ld", objPath, "-o", outputPath); err != nil {
		return err
	}

	return nil
}

func runTool(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &ToolInvocationError{Tool: name, Args: args, Output: string(out), Err: err}
	}
	return nil
}

// WriteIR renders ops in the debug dump format used by the ir subcommand.
func WriteIR(ops []ir.Op) string {
	return ir.Dump(ops)
}

// WriteTokens renders a token stream in the debug dump format used by
// the tokens subcommand.
func WriteTokens(tokens []parser.Token) string {
	var out strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&out, "%d:%d\t%v\n", tok.Pos.Line, tok.Pos.Column, tok.Kind)
	}
	return out.String()
}
