package elf64

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestBuildLayout(t *testing.T) {
	code := []byte{0x90, 0x90, 0x90}
	out := Build(code)

	if len(out) != HeaderSize+PhdrSize+len(code) {
		t.Fatalf("got %d bytes, want %d", len(out), HeaderSize+PhdrSize+len(code))
	}

	if !bytes.Equal(out[:4], []byte{0x7F, 'E', 'L', 'F'}) {
		t.Errorf("bad ELF magic: % X", out[:4])
	}
	if out[4] != 2 || out[5] != 1 {
		t.Errorf("bad EI_CLASS/EI_DATA: %d %d", out[4], out[5])
	}

	phoff := binary.LittleEndian.Uint64(out[0x20:0x28])
	if phoff != HeaderSize {
		t.Errorf("e_phoff = %d, want %d", phoff, HeaderSize)
	}
	phentsize := binary.LittleEndian.Uint16(out[0x36:0x38])
	phnum := binary.LittleEndian.Uint16(out[0x38:0x3A])
	if phentsize != PhdrSize || phnum != 1 {
		t.Errorf("phentsize=%d phnum=%d, want %d 1", phentsize, phnum, PhdrSize)
	}

	entry := binary.LittleEndian.Uint64(out[0x18:0x20])
	if entry != LoadAddress+EntryOffset {
		t.Errorf("e_entry = %#x, want %#x", entry, LoadAddress+EntryOffset)
	}

	if !bytes.Equal(out[EntryOffset:], code) {
		t.Errorf("code section mismatch")
	}
}

// TestInvariant6 checks spec invariant 6:
// e_phoff + e_phentsize*e_phnum <= e_entry - p_vaddr <= p_filesz.
func TestInvariant6(t *testing.T) {
	code := make([]byte, 17)
	out := Build(code)

	ehsize := uint64(binary.LittleEndian.Uint16(out[0x34:0x36]))
	_ = ehsize
	phoff := binary.LittleEndian.Uint64(out[0x20:0x28])
	phentsize := uint64(binary.LittleEndian.Uint16(out[0x36:0x38]))
	phnum := uint64(binary.LittleEndian.Uint16(out[0x38:0x3A]))
	entry := binary.LittleEndian.Uint64(out[0x18:0x20])

	vaddr := binary.LittleEndian.Uint64(out[HeaderSize+16 : HeaderSize+24])
	filesz := binary.LittleEndian.Uint64(out[HeaderSize+32 : HeaderSize+40])

	lhs := phoff + phentsize*phnum
	mid := entry - vaddr
	if lhs > mid {
		t.Errorf("e_phoff+e_phentsize*e_phnum (%d) > e_entry-p_vaddr (%d)", lhs, mid)
	}
	if mid > filesz {
		t.Errorf("e_entry-p_vaddr (%d) > p_filesz (%d)", mid, filesz)
	}
}

func TestBuildEmptyCode(t *testing.T) {
	out := Build(nil)
	if len(out) != HeaderSize+PhdrSize {
		t.Fatalf("got %d bytes, want %d", len(out), HeaderSize+PhdrSize)
	}
}
