/*
 * Enigma VM - Opcode numbering and instruction word decode helpers.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package cpu

// Opcode numbering, dense from 0 in declaration order. Bits 63..58 of
// an instruction word hold one of these.
const (
	OpNOP = iota
	OpADD
	OpSUB
	OpMUL
	OpDIV
	OpINC
	OpDEC
	OpNEG
	OpAND
	OpNOT
	OpOR
	OpXOR
	OpLSHIFT
	OpRSHIFT
	OpMOV
	OpMOVZX
	OpMOVSX
	OpSTORE
	OpLOAD
	OpLEA
	OpPUSH
	OpPOP
	OpPUSHREG
	OpPOPREG
	OpCMP
	OpJMP
	OpJZ
	OpJNZ
	OpJN
	OpJNN
	OpJE
	OpJNE
	OpJG
	OpJGE
	OpJS
	OpJSE
	OpMOVZ
	OpMOVNZ
	OpMOVN
	OpMOVNN
	OpMOVE
	OpMOVNE
	OpMOVG
	OpMOVGE
	OpMOVS
	OpMOVSE
	OpEXT
	OpZEXT
	OpHALT
	OpSYSCALL

	numOpcodes
)

// regLow returns the 3-bit register field at bits 0..2.
func regLow(instr uint64) int { return int(instr & 7) }

// regHigh returns the 3-bit register field at bits 3..5.
func regHigh(instr uint64) int { return int((instr >> 3) & 7) }

// format2 returns the 2-bit format selector at bits 56..57.
func format2(instr uint64) uint8 { return uint8((instr >> 56) & 3) }

// format1 returns the 1-bit format selector at bit 56.
func format1(instr uint64) uint8 { return uint8((instr >> 56) & 1) }

// imm53 extracts the 53-bit immediate used by arithmetic/logical
// opcodes: bits 3..55, masked (not OR'd — the source's use of `|` to
// mask the immediate was a bug).
func imm53(instr uint64) uint64 { return (instr >> 3) & ((1 << 53) - 1) }

// imm58 extracts LOAD's immediate: bits 3..57, every bit below the
// opcode field. The ISA calls it a 58-bit immediate, but only 55 bits
// lie below the opcode; masking there keeps the opcode's own bits out
// of the loaded value, so LOAD R, 5 puts exactly 5 in R.
func imm58(instr uint64) uint64 { return (instr >> 3) & ((1 << 55) - 1) }

// widthFromFormat maps a 2-bit format code to an access width, used by
// EXT/ZEXT to select which byte width of the register to extend from.
func widthFromFormat(f uint8) uint8 {
	switch f {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 4
	default:
		return 8
	}
}

func zeroExtend(v uint64, width uint8) uint64 {
	if width >= 8 {
		return v
	}
	mask := uint64(1)<<(8*width) - 1
	return v & mask
}

func signExtend(v uint64, width uint8) uint64 {
	if width >= 8 {
		return v
	}
	bits := uint(8 * width)
	mask := uint64(1)<<bits - 1
	v &= mask
	signBit := uint64(1) << (bits - 1)
	if v&signBit != 0 {
		v |= ^mask
	}
	return v
}
