// Package oracle provides a plain Brainfuck interpreter over the IR.
// It exists solely as an internal test harness: it lets tests check that
// the optimizer preserves a program's observable behavior (stdout and
// final tape contents) without assembling or executing a native binary;
// the back ends are not run through it. It is never exposed as a CLI mode — this
// repository ships no interpreter/JIT feature.
package oracle

import (
	"fmt"
	"io"

	"github.com/haldean/bfx/internal/ir"
)

// EOFBehavior selects what a ReadByte stores on end-of-input.
type EOFBehavior int

const (
	EOFZero     EOFBehavior = iota // store 0 on end-of-input
	EOFNoChange                    // leave the cell unchanged on end-of-input
)

// RuntimeError reports an out-of-bounds tape access.
type RuntimeError struct {
	Msg string
	PC  int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("oracle: runtime error at op %d: %s", e.PC, e.Msg)
}

// Machine interprets IR directly against a tape, for use as a test
// oracle only.
type Machine struct {
	TapeSize    int
	Input       io.Reader
	Output      io.Writer
	EOFBehavior EOFBehavior
}

// NewMachine creates an interpreter with the given I/O streams and the
// spec's fixed 0x8000-byte tape.
func NewMachine(input io.Reader, output io.Writer) *Machine {
	return &Machine{
		TapeSize: ir.TapeSize,
		Input:    input,
		Output:   output,
	}
}

// Run interprets ops against a fresh, zeroed tape and returns the final
// tape contents alongside any runtime error.
func (m *Machine) Run(ops []ir.Op) ([]byte, error) {
	tape := make([]byte, m.TapeSize)
	var ptr int
	var ioBuf [1]byte

	// jump targets are resolved by scanning forward/backward for the
	// matching bracket at interpretation time, mirroring how both real
	// back ends resolve them with a single-pass stack rather than a
	// precomputed table.
	for pc := 0; pc < len(ops); pc++ {
		op := ops[pc]
		switch op.Kind {
		case ir.MovePointer:
			// Only cell accesses are bounds-checked: offset-folded IR
			// may move the pointer itself outside the tape as long as
			// every ptr+Offset it dereferences stays inside.
			ptr += int(op.Delta)

		case ir.AddToCell:
			idx := ptr + int(op.Offset)
			if idx < 0 || idx >= m.TapeSize {
				return tape, &RuntimeError{Msg: "cell access out of bounds", PC: pc}
			}
			tape[idx] = byte(int64(tape[idx]) + op.Value)

		case ir.WriteByte:
			idx := ptr + int(op.Offset)
			if idx < 0 || idx >= m.TapeSize {
				return tape, &RuntimeError{Msg: "cell access out of bounds", PC: pc}
			}
			ioBuf[0] = tape[idx]
			if _, err := m.Output.Write(ioBuf[:]); err != nil {
				return tape, &RuntimeError{Msg: err.Error(), PC: pc}
			}

		case ir.ReadByte:
			idx := ptr + int(op.Offset)
			if idx < 0 || idx >= m.TapeSize {
				return tape, &RuntimeError{Msg: "cell access out of bounds", PC: pc}
			}
			n, err := m.Input.Read(ioBuf[:])
			if err == io.EOF || n == 0 {
				if m.EOFBehavior == EOFZero {
					tape[idx] = 0
				}
			} else if err != nil {
				return tape, &RuntimeError{Msg: err.Error(), PC: pc}
			} else {
				tape[idx] = ioBuf[0]
			}

		case ir.JumpIfZero:
			idx := ptr + int(op.Offset)
			if idx < 0 || idx >= m.TapeSize {
				return tape, &RuntimeError{Msg: "cell access out of bounds", PC: pc}
			}
			if tape[idx] == 0 {
				target, err := matchForward(ops, pc)
				if err != nil {
					return tape, err
				}
				pc = target
			}

		case ir.JumpIfNotZero:
			idx := ptr + int(op.Offset)
			if idx < 0 || idx >= m.TapeSize {
				return tape, &RuntimeError{Msg: "cell access out of bounds", PC: pc}
			}
			if tape[idx] != 0 {
				target, err := matchBackward(ops, pc)
				if err != nil {
					return tape, err
				}
				pc = target
			}

		case ir.NoOperation:
			// no effect
		}
	}

	return tape, nil
}

// matchForward returns the index of the JumpIfNotZero matching the
// JumpIfZero at pc.
func matchForward(ops []ir.Op, pc int) (int, error) {
	depth := 0
	for i := pc; i < len(ops); i++ {
		switch ops[i].Kind {
		case ir.JumpIfZero:
			depth++
		case ir.JumpIfNotZero:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, &RuntimeError{Msg: "unmatched JumpIfZero", PC: pc}
}

// matchBackward returns the index of the JumpIfZero matching the
// JumpIfNotZero at pc.
func matchBackward(ops []ir.Op, pc int) (int, error) {
	depth := 0
	for i := pc; i >= 0; i-- {
		switch ops[i].Kind {
		case ir.JumpIfNotZero:
			depth++
		case ir.JumpIfZero:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, &RuntimeError{Msg: "unmatched JumpIfNotZero", PC: pc}
}
