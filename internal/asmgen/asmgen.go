// Package asmgen lowers optimized IR to NASM-syntax x86-64 assembly for
// Linux, using rsp itself as the tape pointer. The resulting text is fed
// to an external assembler and linker by internal/driver; this package
// never invokes either.
package asmgen

import (
	"fmt"
	"strings"

	"github.com/haldean/bfx/internal/ir"
)

// Generate renders ops as a complete NASM source file. Bracket pairing
// is resolved with a single left-to-right pass over a label-counter
// stack: JumpIfZero pushes a fresh label index and forward-jumps past
// it; JumpIfNotZero pops that index and jumps back to it. Both back
// ends specialize the same abstract algorithm (push at open, patch at
// close) — this one materializes the match as symbolic label pairs
// instead of patched byte offsets.
func Generate(ops []ir.Op) string {
	var out strings.Builder
	var labelStack []int
	var counter int

	fmt.Fprintln(&out, "section .text")
	fmt.Fprintln(&out, "global _start")
	fmt.Fprintln(&out, "_start:")
	fmt.Fprintln(&out, "sub rsp, 1")
	fmt.Fprintln(&out, "mov edx, 1")

	for _, op := range ops {
		switch op.Kind {
		case ir.MovePointer:
			emitMove(&out, op.Delta)
		case ir.AddToCell:
			emitAdd(&out, op.Value, op.Offset)
		case ir.WriteByte:
			emitWrite(&out, op.Offset)
		case ir.ReadByte:
			emitRead(&out, op.Offset)
		case ir.JumpIfZero:
			n := counter
			counter++
			labelStack = append(labelStack, n)
			fmt.Fprintf(&out, "cmp BYTE [rsp - %d], 0\n", op.Offset)
			fmt.Fprintf(&out, "je L%d_\n", n)
			fmt.Fprintf(&out, "L%d:\n", n)
		case ir.JumpIfNotZero:
			n := labelStack[len(labelStack)-1]
			labelStack = labelStack[:len(labelStack)-1]
			fmt.Fprintf(&out, "cmp BYTE [rsp - %d], 0\n", op.Offset)
			fmt.Fprintf(&out, "jne L%d\n", n)
			fmt.Fprintf(&out, "L%d_:\n", n)
		}
	}

	fmt.Fprintln(&out, "mov eax, 0x3c")
	fmt.Fprintln(&out, "xor edi, edi")
	fmt.Fprintln(&out, "syscall")

	return out.String()
}

func emitMove(out *strings.Builder, delta int64) {
	fmt.Fprintf(out, "sub rsp, %d\n", delta)
}

func emitAdd(out *strings.Builder, value, offset int64) {
	fmt.Fprintf(out, "add BYTE [rsp - %d], %d\n", offset, value)
}

func emitWrite(out *strings.Builder, offset int64) {
	fmt.Fprintln(out, "mov eax, 1")
	fmt.Fprintln(out, "mov edi, 1")
	fmt.Fprintf(out, "lea rsi, [rsp - %d]\n", offset)
	fmt.Fprintln(out, "syscall")
}

func emitRead(out *strings.Builder, offset int64) {
	fmt.Fprintln(out, "xor eax, eax")
	fmt.Fprintln(out, "xor edi, edi")
	fmt.Fprintf(out, "lea rsi, [rsp - %d]\n", offset)
	fmt.Fprintln(out, "syscall")
}
