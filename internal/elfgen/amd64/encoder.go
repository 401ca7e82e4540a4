// Package amd64 encodes the fixed, small set of x86-64 instructions the
// direct-ELF back end needs, using rsi as the tape pointer register.
// This package has no dependency on the compiler internals and could be
// used standalone to emit the same bytes outside this module.
package amd64

import "encoding/binary"

func le32(v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return buf[:]
}

func le32s(v int32) []byte {
	return le32(uint32(v))
}

// modRM packs the three ModRM fields into one byte.
func modRM(mod, reg, rm byte) byte {
	return mod<<6 | reg<<3 | rm<<0
}

// rsiOperand returns the ModRM byte (and trailing displacement bytes, if
// any) addressing [rsi+disp] with the given reg-field (the /digit of a
// group opcode, or a destination register number). rsi never needs a SIB
// byte: only rsp and rbp/r13 as a base do.
func rsiOperand(reg byte, disp int64) []byte {
	const rsi = 6
	switch {
	case disp == 0:
		return []byte{modRM(0, reg, rsi)}
	case disp >= -128 && disp <= 127:
		return []byte{modRM(1, reg, rsi), byte(int8(disp))}
	default:
		out := []byte{modRM(2, reg, rsi)}
		return append(out, le32s(int32(disp))...)
	}
}
