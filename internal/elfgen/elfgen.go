// Package elfgen lowers optimized IR directly to x86-64 machine code and
// wraps it in a minimal ELF64 executable — no external assembler or
// linker involved. Bracket matching is resolved in a single
// left-to-right pass over a control stack: JumpIfZero records the byte
// position right after its (placeholder) rel32 and emits it as zero;
// when the matching JumpIfNotZero is reached, both rel32 displacements
// — the forward one patched back into the open bracket's placeholder,
// and the backward one written in place now — are computed from the
// two now-known positions.
package elfgen

import (
	"encoding/binary"
	"fmt"

	"github.com/haldean/bfx/internal/elfgen/amd64"
	"github.com/haldean/bfx/internal/elfgen/elf64"
	"github.com/haldean/bfx/internal/ir"
)

// UnmatchedBracketError reports an IR stream whose brackets don't
// balance — the back end asserts this never happens because the parser
// already rejects it, but a malformed or hand-built IR stream should
// fail loudly rather than produce a corrupt binary. Generate also
// returns it for an op kind it does not recognize.
type UnmatchedBracketError struct {
	Msg string
}

func (e *UnmatchedBracketError) Error() string { return e.Msg }

// Generate lowers ops to raw machine code: the prologue carves the tape
// out of the stack, each op is emitted per the direct back end's
// instruction table, and the epilogue exits 0.
func Generate(ops []ir.Op) ([]byte, error) {
	code := amd64.Prologue(ir.TapeSize)

	var openPositions []int
	for _, op := range ops {
		switch op.Kind {
		case ir.MovePointer:
			code = append(code, amd64.MovePointer(op.Delta)...)

		case ir.AddToCell:
			code = append(code, amd64.AddToCell(op.Value, op.Offset)...)

		case ir.WriteByte:
			code = append(code, amd64.Write(op.Offset)...)

		case ir.ReadByte:
			code = append(code, amd64.Read(op.Offset)...)

		case ir.JumpIfZero:
			code = append(code, amd64.CmpByteZero(op.Offset)...)
			code = append(code, amd64.JccRel32(false, 0)...)
			openPositions = append(openPositions, len(code))

		case ir.JumpIfNotZero:
			if len(openPositions) == 0 {
				return nil, &UnmatchedBracketError{Msg: "elfgen: JumpIfNotZero with no matching JumpIfZero"}
			}
			openEnd := openPositions[len(openPositions)-1]
			openPositions = openPositions[:len(openPositions)-1]

			code = append(code, amd64.CmpByteZero(op.Offset)...)
			code = append(code, amd64.JccRel32(true, 0)...)
			closeEnd := len(code)

			forward := int32(closeEnd - openEnd)
			backward := int32(openEnd - closeEnd)
			binary.LittleEndian.PutUint32(code[openEnd-4:openEnd], uint32(forward))
			binary.LittleEndian.PutUint32(code[closeEnd-4:closeEnd], uint32(backward))

		case ir.NoOperation:
			// emit nothing

		default:
			return nil, &UnmatchedBracketError{Msg: fmt.Sprintf("elfgen: unknown op kind %v", op.Kind)}
		}
	}

	if len(openPositions) != 0 {
		return nil, &UnmatchedBracketError{Msg: "elfgen: unmatched JumpIfZero at end of stream"}
	}

	code = append(code, amd64.Epilogue()...)
	return code, nil
}

// GenerateELF lowers ops to machine code and wraps it in a complete
// ELF64 executable.
func GenerateELF(ops []ir.Op) ([]byte, error) {
	code, err := Generate(ops)
	if err != nil {
		return nil, err
	}
	return elf64.Build(code), nil
}
