/*
 * Enigma VM - Logical and shift opcode semantics.
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

import "github.com/rcornwell/enigma-vm/internal/vmerr"

// opLogic builds the handler shared by AND/OR/XOR. A single format bit
// selects register-register (destination in the upper slot) or
// register-immediate (destination in the low slot, 53-bit immediate).
func opLogic(apply func(a, b uint64) uint64) opHandler {
	return func(c *CPU, instr uint64) error {
		if format1(instr) == 0 {
			dst := regHigh(instr)
			src := regLow(instr)
			c.Regs[dst] = apply(c.Regs[dst], c.Regs[src])
		} else {
			r := regLow(instr)
			c.Regs[r] = apply(c.Regs[r], imm53(instr))
		}
		return nil
	}
}

func opNot(c *CPU, instr uint64) error {
	r := regLow(instr)
	c.Regs[r] = ^c.Regs[r]
	return nil
}

// opShift builds the handler shared by LSHIFT/RSHIFT. Mnemonics match
// direction here (the source had them swapped): LSHIFT is <<, RSHIFT
// is >>. Format 0 takes the shift count from a register, format 1 from
// a 53-bit immediate; a count of 64 or more is a fault rather than the
// Go-defined zero result, per the undefined-shift handling in the ISA.
func opShift(left bool) opHandler {
	return func(c *CPU, instr uint64) error {
		var dst int
		var amount uint64
		if format1(instr) == 0 {
			dst = regHigh(instr)
			amount = c.Regs[regLow(instr)]
		} else {
			dst = regLow(instr)
			amount = imm53(instr)
		}
		if amount >= 64 {
			return vmerr.Arithmetic("shift amount %d out of range", amount)
		}
		if left {
			c.Regs[dst] <<= amount
		} else {
			c.Regs[dst] >>= amount
		}
		return nil
	}
}

// opExtInPlace implements EXT (signed == true) and ZEXT (signed ==
// false): both are declared in the opcode enumeration but have no
// dispatch case in the source. They are completed here symmetrically
// to MOVSX/MOVZX, operating in place on a single register, with the
// 2-bit format selecting the source width being extended from.
func opExtInPlace(signed bool) opHandler {
	return func(c *CPU, instr uint64) error {
		width := widthFromFormat(format2(instr))
		r := regLow(instr)
		if signed {
			c.Regs[r] = signExtend(c.Regs[r], width)
		} else {
			c.Regs[r] = zeroExtend(c.Regs[r], width)
		}
		return nil
	}
}
