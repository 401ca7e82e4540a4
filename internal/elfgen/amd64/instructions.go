package amd64

import "golang.org/x/sys/unix"

// Linux x86-64 syscall numbers, sourced from the platform's syscall ABI
// rather than hand-copied magic numbers.
const (
	SysRead  = uint32(unix.SYS_READ)
	SysWrite = uint32(unix.SYS_WRITE)
	SysExit  = uint32(unix.SYS_EXIT)
)

// Prologue carves the tape out of the program's own stack and points
// rsi at its base: sub rsp, 0x8000; mov rsi, rsp.
func Prologue(tapeSize int64) []byte {
	out := subRspImm32(uint32(tapeSize))
	out = append(out, movRsiRsp()...)
	return out
}

// Epilogue performs exit(0): mov eax, 0x3c; xor edi, edi; syscall.
func Epilogue() []byte {
	out := movEax(SysExit)
	out = append(out, xorEdiEdi()...)
	out = append(out, Syscall()...)
	return out
}

// MovePointer encodes add/sub rsi, |delta|, choosing the instruction by
// sign so the register always moves by exactly delta.
func MovePointer(delta int64) []byte {
	reg, mag := addSubReg(delta)
	if mag <= 127 {
		return []byte{0x48, 0x83, modRM(3, reg, 6), byte(mag)}
	}
	out := []byte{0x48, 0x81, modRM(3, reg, 6)}
	return append(out, le32s(int32(mag))...)
}

// AddToCell encodes add/sub byte [rsi+offset], |value|.
func AddToCell(value, offset int64) []byte {
	reg, mag := addSubReg(value)
	out := []byte{0x80}
	out = append(out, rsiOperand(reg, offset)...)
	return append(out, byte(mag))
}

// addSubReg picks the group-opcode reg field (0 for add, 5 for sub) so
// the emitted instruction always carries a nonnegative immediate.
func addSubReg(v int64) (reg byte, mag int64) {
	if v < 0 {
		return 5, -v
	}
	return 0, v
}

// CmpByteZero encodes cmp byte [rsi+offset], 0 — the test both
// JumpIfZero and JumpIfNotZero open with.
func CmpByteZero(offset int64) []byte {
	out := []byte{0x80}
	out = append(out, rsiOperand(7, offset)...)
	return append(out, 0x00)
}

// JccRel32 encodes je/jne rel32 with a placeholder displacement; the
// caller patches the last 4 bytes once the target is known. forJnz
// selects jne (0F 85) instead of je (0F 84).
func JccRel32(forJnz bool, rel32 int32) []byte {
	opcode := byte(0x84)
	if forJnz {
		opcode = 0x85
	}
	out := []byte{0x0F, opcode}
	return append(out, le32s(rel32)...)
}

// Write emits a write(1, &cell, 1) syscall. When offset is zero this
// matches the instruction table exactly; a nonzero offset (reachable
// only when the direct back end is fed offset-folded IR) brackets the
// syscall with push/lea/pop so the tape pointer in rsi survives the
// temporary address adjustment.
func Write(offset int64) []byte {
	return ioSyscall(SysWrite, 1, offset)
}

// Read emits a read(0, &cell, 1) syscall, analogous to Write.
func Read(offset int64) []byte {
	return ioSyscall(SysRead, 0, offset)
}

func ioSyscall(sysno, fd uint32, offset int64) []byte {
	var out []byte
	if offset != 0 {
		out = append(out, pushRsi()...)
		out = append(out, leaRsiRsiDisp(offset)...)
	}
	out = append(out, movEax(sysno)...)
	out = append(out, movEdi(fd)...)
	out = append(out, movEdx(1)...)
	out = append(out, Syscall()...)
	if offset != 0 {
		out = append(out, popRsi()...)
	}
	return out
}

// Syscall encodes the syscall instruction.
func Syscall() []byte { return []byte{0x0F, 0x05} }

func movEax(imm32 uint32) []byte {
	if imm32 == 0 {
		return []byte{0x31, 0xC0} // xor eax, eax
	}
	return append([]byte{0xB8}, le32(imm32)...)
}

func movEdi(imm32 uint32) []byte {
	if imm32 == 0 {
		return xorEdiEdi()
	}
	return append([]byte{0xBF}, le32(imm32)...)
}

func movEdx(imm32 uint32) []byte {
	if imm32 == 0 {
		return []byte{0x31, 0xD2} // xor edx, edx
	}
	return append([]byte{0xBA}, le32(imm32)...)
}

func xorEdiEdi() []byte { return []byte{0x31, 0xFF} }

func subRspImm32(imm32 uint32) []byte {
	const rsp = 4
	out := []byte{0x48, 0x81, modRM(3, 5, rsp)}
	return append(out, le32(imm32)...)
}

func movRsiRsp() []byte {
	const rsi, rsp = 6, 4
	return []byte{0x48, 0x89, modRM(3, rsp, rsi)}
}

func pushRsi() []byte { return []byte{0x56} }
func popRsi() []byte  { return []byte{0x5E} }

// leaRsiRsiDisp encodes lea rsi, [rsi+disp].
func leaRsiRsiDisp(disp int64) []byte {
	const rsi = 6
	out := []byte{0x48, 0x8D}
	return append(out, rsiOperand(rsi, disp)...)
}
