// Package elf64 builds the minimal single-segment ELF64 executable the
// direct back end wraps its machine code in: one ELF header, one program
// header, then the code, with no section headers and no padding between
// them. This package has no dependency on the compiler internals.
package elf64

import (
	"debug/elf"
	"encoding/binary"
)

const (
	elfMag0      = 0x7F
	elfClass64   = 2
	elfData2Lsb  = 1 // little-endian
	evCurrent    = 1
	elfOsAbiNone = 0

	etExec   = 2
	emX86_64 = 0x3E

	// HeaderSize and PhdrSize are fixed by the ELF64 format.
	HeaderSize = 64
	PhdrSize   = 56

	// LoadAddress is the virtual address the single PT_LOAD segment is
	// mapped at.
	LoadAddress = 0x400000

	// EntryOffset is the byte offset of the first code byte within the
	// file (and, since the segment's file offset is zero, within the
	// mapped image too): right after the ELF header and the one program
	// header.
	EntryOffset = HeaderSize + PhdrSize
)

// ptLoad and pFlags name the program-header type and permission bits
// from the standard library's ELF format constants (debug/elf) rather
// than bare magic numbers — PF_R | PF_X isn't part of any syscall ABI,
// so it has no golang.org/x/sys/unix equivalent the way the syscall
// numbers in internal/elfgen/amd64 do.
const (
	ptLoad = uint32(elf.PT_LOAD)
	pFlags = uint32(elf.PF_R | elf.PF_X)
)

// Build wraps code in a complete ELF64 executable: bytes [0,64) are the
// ELF header, [64,120) are the single program header, and [120,...) is
// code itself, byte for byte. The entry point is LoadAddress+EntryOffset.
func Build(code []byte) []byte {
	entry := uint64(LoadAddress + EntryOffset)
	fileSz := uint64(EntryOffset + len(code))

	out := make([]byte, 0, EntryOffset+len(code))
	out = appendHeader(out, entry)
	out = appendPhdr(out, fileSz)
	out = append(out, code...)
	return out
}

func appendHeader(out []byte, entry uint64) []byte {
	var ident [16]byte
	ident[0] = elfMag0
	ident[1] = 'E'
	ident[2] = 'L'
	ident[3] = 'F'
	ident[4] = elfClass64
	ident[5] = elfData2Lsb
	ident[6] = evCurrent
	ident[7] = elfOsAbiNone

	out = append(out, ident[:]...)
	out = le16(out, etExec)
	out = le16(out, emX86_64)
	out = le32(out, evCurrent)
	out = le64(out, entry)
	out = le64(out, HeaderSize) // e_phoff
	out = le64(out, 0)          // e_shoff
	out = le32(out, 0)          // e_flags
	out = le16(out, HeaderSize)
	out = le16(out, PhdrSize)
	out = le16(out, 1) // e_phnum
	out = le16(out, 0) // e_shentsize
	out = le16(out, 0) // e_shnum
	out = le16(out, 0) // e_shstrndx
	return out
}

func appendPhdr(out []byte, fileSz uint64) []byte {
	out = le32(out, ptLoad)
	out = le32(out, pFlags)
	out = le64(out, 0)           // p_offset
	out = le64(out, LoadAddress) // p_vaddr
	out = le64(out, LoadAddress) // p_paddr
	out = le64(out, fileSz)      // p_filesz
	out = le64(out, fileSz)      // p_memsz
	out = le64(out, 0x1000)      // p_align
	return out
}

func le16(out []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(out, b[:]...)
}

func le32(out []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}

func le64(out []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(out, b[:]...)
}
