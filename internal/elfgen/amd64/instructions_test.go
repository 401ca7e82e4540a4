package amd64

import (
	"bytes"
	"testing"
)

func TestMovePointerUnitDeltas(t *testing.T) {
	if got, want := MovePointer(1), []byte{0x48, 0x83, 0xC6, 0x01}; !bytes.Equal(got, want) {
		t.Errorf("MovePointer(1) = % X, want % X", got, want)
	}
	if got, want := MovePointer(-1), []byte{0x48, 0x83, 0xEE, 0x01}; !bytes.Equal(got, want) {
		t.Errorf("MovePointer(-1) = % X, want % X", got, want)
	}
}

func TestAddToCellUnitValuesNoOffset(t *testing.T) {
	if got, want := AddToCell(1, 0), []byte{0x80, 0x06, 0x01}; !bytes.Equal(got, want) {
		t.Errorf("AddToCell(1,0) = % X, want % X", got, want)
	}
	if got, want := AddToCell(-1, 0), []byte{0x80, 0x2E, 0x01}; !bytes.Equal(got, want) {
		t.Errorf("AddToCell(-1,0) = % X, want % X", got, want)
	}
}

func TestWriteNoOffset(t *testing.T) {
	want := []byte{
		0xB8, 0x01, 0x00, 0x00, 0x00,
		0xBF, 0x01, 0x00, 0x00, 0x00,
		0xBA, 0x01, 0x00, 0x00, 0x00,
		0x0F, 0x05,
	}
	if got := Write(0); !bytes.Equal(got, want) {
		t.Errorf("Write(0) = % X, want % X", got, want)
	}
}

func TestReadNoOffset(t *testing.T) {
	want := []byte{
		0x31, 0xC0,
		0x31, 0xFF,
		0xBA, 0x01, 0x00, 0x00, 0x00,
		0x0F, 0x05,
	}
	if got := Read(0); !bytes.Equal(got, want) {
		t.Errorf("Read(0) = % X, want % X", got, want)
	}
}

func TestCmpByteZeroNoOffset(t *testing.T) {
	if got, want := CmpByteZero(0), []byte{0x80, 0x3E, 0x00}; !bytes.Equal(got, want) {
		t.Errorf("CmpByteZero(0) = % X, want % X", got, want)
	}
}

func TestJccRel32Opcodes(t *testing.T) {
	jz := JccRel32(false, 0)
	if jz[0] != 0x0F || jz[1] != 0x84 {
		t.Errorf("je opcode = % X, want 0F 84 ...", jz)
	}
	jnz := JccRel32(true, 0)
	if jnz[0] != 0x0F || jnz[1] != 0x85 {
		t.Errorf("jne opcode = % X, want 0F 85 ...", jnz)
	}
}

func TestEpilogueBytes(t *testing.T) {
	want := []byte{0xB8, 0x3C, 0x00, 0x00, 0x00, 0x31, 0xFF, 0x0F, 0x05}
	if got := Epilogue(); !bytes.Equal(got, want) {
		t.Errorf("Epilogue() = % X, want % X", got, want)
	}
}

func TestPrologueBytes(t *testing.T) {
	got := Prologue(0x8000)
	wantSub := []byte{0x48, 0x81, 0xEC, 0x00, 0x80, 0x00, 0x00}
	wantMov := []byte{0x48, 0x89, 0xE6}
	if !bytes.HasPrefix(got, wantSub) {
		t.Fatalf("Prologue() = % X, want prefix % X", got, wantSub)
	}
	if !bytes.Equal(got[len(wantSub):], wantMov) {
		t.Errorf("Prologue() tail = % X, want % X", got[len(wantSub):], wantMov)
	}
}

func TestAddToCellWithOffsetEncodesDisplacement(t *testing.T) {
	got := AddToCell(1, 5)
	want := []byte{0x80, 0x46, 0x05, 0x01} // ModRM mod01 reg000 rm110, disp8=5
	if !bytes.Equal(got, want) {
		t.Errorf("AddToCell(1,5) = % X, want % X", got, want)
	}
}

func TestWriteWithOffsetPreservesRsi(t *testing.T) {
	got := Write(5)
	if got[0] != 0x56 || got[len(got)-1] != 0x5E {
		t.Errorf("Write(5) should bracket the syscall with push/pop rsi: % X", got)
	}
}
