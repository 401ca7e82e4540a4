// Package optimizer implements the three IR rewrite passes: run-length
// merging, pointer-move hoisting with offset folding, and dead-op
// elimination.
package optimizer

import "github.com/haldean/bfx/internal/ir"

// Level selects how much optimization Run applies.
type Level int

const (
	// LevelNone runs no passes; the IR is returned unchanged.
	LevelNone Level = iota
	// LevelMerge runs MergeOperations then RemoveNops.
	LevelMerge
	// LevelFull additionally runs ReorderPointerMoves between them,
	// matching the order MergeOperations -> ReorderPointerMoves ->
	// RemoveNops the spec prescribes.
	LevelFull
)

// Run applies the passes appropriate to level, in the fixed order the
// spec requires: MergeOperations, then (at LevelFull)
// ReorderPointerMoves, then RemoveNops.
func Run(ops []ir.Op, level Level) []ir.Op {
	switch level {
	case LevelNone:
		return ops
	case LevelMerge:
		return RemoveNops(MergeOperations(ops))
	default:
		return RemoveNops(ReorderPointerMoves(MergeOperations(ops)))
	}
}

// MergeOperations collapses adjacent MovePointer ops and adjacent
// AddToCell ops that share the same Offset. Fusion never crosses a
// WriteByte, ReadByte, JumpIfZero, or JumpIfNotZero. Resulting sums that
// come out to zero are not pruned here — that's RemoveNops' job.
func MergeOperations(ops []ir.Op) []ir.Op {
	out := make([]ir.Op, 0, len(ops))

	for _, op := range ops {
		if len(out) > 0 {
			last := &out[len(out)-1]

			if op.Kind == ir.MovePointer && last.Kind == ir.MovePointer {
				last.Delta += op.Delta
				continue
			}

			if op.Kind == ir.AddToCell && last.Kind == ir.AddToCell && last.Offset == op.Offset {
				last.Value += op.Value
				continue
			}
		}

		out = append(out, op)
	}

	return out
}

// ReorderPointerMoves hoists pointer movement away from per-cell edits
// within straight-line code by folding the running pointer offset into
// every memory-touching op's Offset. At each matching bracket pair the
// pointer is realigned: a synthetic MovePointer is emitted at the close
// bracket to restore the value the pointer held at the matching open
// bracket, since loop bodies assume the same relative frame on every
// iteration.
//
// This pass is not idempotent; it is meant to run exactly once,
// immediately after MergeOperations.
func ReorderPointerMoves(ops []ir.Op) []ir.Op {
	out := make([]ir.Op, 0, len(ops))
	var offset int64
	var saved []int64

	for _, op := range ops {
		switch op.Kind {
		case ir.MovePointer:
			offset += op.Delta

		case ir.AddToCell:
			out = append(out, ir.Op{Kind: ir.AddToCell, Value: op.Value, Offset: op.Offset + offset, Pos: op.Pos})

		case ir.WriteByte:
			out = append(out, ir.Op{Kind: ir.WriteByte, Offset: op.Offset + offset, Pos: op.Pos})

		case ir.ReadByte:
			out = append(out, ir.Op{Kind: ir.ReadByte, Offset: op.Offset + offset, Pos: op.Pos})

		case ir.JumpIfZero:
			saved = append(saved, offset)
			out = append(out, ir.Op{Kind: ir.JumpIfZero, Offset: op.Offset + offset, Pos: op.Pos})

		case ir.JumpIfNotZero:
			prev := saved[len(saved)-1]
			saved = saved[:len(saved)-1]
			out = append(out, ir.Op{Kind: ir.MovePointer, Delta: offset - prev, Pos: op.Pos})
			offset = prev
			out = append(out, ir.Op{Kind: ir.JumpIfNotZero, Offset: op.Offset + offset, Pos: op.Pos})

		default:
			out = append(out, op)
		}
	}

	return out
}

// RemoveNops drops MovePointer ops with a zero Delta and AddToCell ops
// with a zero Value (after wrapping mod 256). All other ops, including
// any NoOperation sentinels, pass through unchanged.
func RemoveNops(ops []ir.Op) []ir.Op {
	out := make([]ir.Op, 0, len(ops))

	for _, op := range ops {
		if op.Kind == ir.AddToCell {
			op.Value = wrapSigned(op.Value)
			if op.Value == 0 {
				continue
			}
		}
		if op.Kind == ir.MovePointer && op.Delta == 0 {
			continue
		}
		out = append(out, op)
	}

	return out
}

// wrapSigned reduces v into (-256, 256) by taking it mod 256, preserving
// the property that wrapSigned(v) == 0 iff v is a multiple of 256 — the
// condition RemoveNops prunes on. The back ends apply the final mod-256
// wrap themselves when they lower AddToCell to an 8-bit immediate.
func wrapSigned(v int64) int64 {
	return v % 256
}
