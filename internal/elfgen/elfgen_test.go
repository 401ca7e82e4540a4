package elfgen

import (
	"encoding/binary"
	"testing"

	"github.com/haldean/bfx/internal/ir"
)

// TestInvariant5 checks spec invariant 5: every emitted je rel32 / jne
// rel32 pair satisfies forward + backward == 0.
func TestInvariant5(t *testing.T) {
	progs := [][]ir.Op{
		{ir.Jz(0), ir.Add(-1, 0), ir.Jnz(0)},
		{ir.Jz(0), ir.Jz(0), ir.Jnz(0), ir.Add(1, 0), ir.Jnz(0)},
		{ir.Add(1, 0), ir.Jz(0), ir.Move(1), ir.Jz(0), ir.Add(-1, 0), ir.Jnz(0), ir.Move(-1), ir.Jnz(0)},
	}

	for _, ops := range progs {
		code, err := Generate(ops)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}

		var openEnds []int
		var i int
		for i < len(code) {
			switch {
			case code[i] == 0x0F && code[i+1] == 0x84: // je rel32
				openEnds = append(openEnds, i+6)
				i += 6
			case code[i] == 0x0F && code[i+1] == 0x85: // jne rel32
				backward := int32(binary.LittleEndian.Uint32(code[i+2 : i+6]))
				openEnd := openEnds[len(openEnds)-1]
				openEnds = openEnds[:len(openEnds)-1]
				forward := int32(binary.LittleEndian.Uint32(code[openEnd-4 : openEnd]))
				if forward+backward != 0 {
					t.Errorf("forward (%d) + backward (%d) != 0", forward, backward)
				}
				i += 6
			default:
				i++
			}
		}
	}
}

func TestUnmatchedBracketIsFatal(t *testing.T) {
	if _, err := Generate([]ir.Op{ir.Jnz(0)}); err == nil {
		t.Error("expected error for JumpIfNotZero with no matching JumpIfZero")
	}
	if _, err := Generate([]ir.Op{ir.Jz(0)}); err == nil {
		t.Error("expected error for unmatched JumpIfZero at end of stream")
	}
}

func TestGenerateELFEntryWithinFile(t *testing.T) {
	out, err := GenerateELF([]ir.Op{ir.Add(1, 0)})
	if err != nil {
		t.Fatalf("GenerateELF: %v", err)
	}
	if len(out) < 120 {
		t.Fatalf("ELF output too small: %d bytes", len(out))
	}
	if string(out[1:4]) != "ELF" {
		t.Errorf("missing ELF magic")
	}
}
