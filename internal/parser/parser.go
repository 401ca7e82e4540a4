package parser

import "github.com/haldean/bfx/internal/ir"

// Parse scans src and lowers it directly to IR, one Op per recognized
// command byte (no folding — that is the optimizer's job). Every [ pushes
// its token position on a counting stack and emits a JumpIfZero with
// Offset 0; every ] pops the stack and emits a JumpIfNotZero with Offset
// 0. An unmatched ] or an unmatched [ left open at EOF is a fatal
// *ir.BracketError and no partial IR is returned.
func Parse(src []byte) ([]ir.Op, error) {
	tokens := Tokenize(src)

	ops := make([]ir.Op, 0, len(tokens))
	openStack := make([]ir.Position, 0, 8)

	for _, tok := range tokens {
		switch tok.Kind {
		case TokShiftRight:
			ops = append(ops, withPos(ir.Move(1), tok.Pos))
		case TokShiftLeft:
			ops = append(ops, withPos(ir.Move(-1), tok.Pos))
		case TokAdd:
			ops = append(ops, withPos(ir.Add(1, 0), tok.Pos))
		case TokSub:
			ops = append(ops, withPos(ir.Add(-1, 0), tok.Pos))
		case TokOut:
			ops = append(ops, withPos(ir.Write(0), tok.Pos))
		case TokIn:
			ops = append(ops, withPos(ir.Read(0), tok.Pos))
		case TokLBracket:
			openStack = append(openStack, tok.Pos)
			ops = append(ops, withPos(ir.Jz(0), tok.Pos))
		case TokRBracket:
			if len(openStack) == 0 {
				return nil, ir.MissingOpenBracket(tok.Pos)
			}
			openStack = openStack[:len(openStack)-1]
			ops = append(ops, withPos(ir.Jnz(0), tok.Pos))
		}
	}

	if len(openStack) > 0 {
		return nil, ir.MissingCloseBracket(openStack[0])
	}

	return ops, nil
}

func withPos(op ir.Op, pos ir.Position) ir.Op {
	op.Pos = pos
	return op
}
