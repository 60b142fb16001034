/*
 * Enigma VM - Opcode dispatch table construction.
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

// buildTable wires every opcode constant to its handler. Reserved and
// unassigned opcode values keep their zero (nil) table entry, which
// Step treats as NOP.
func (c *CPU) buildTable() {
	c.table[OpNOP] = func(*CPU, uint64) error { return nil }

	c.table[OpADD] = opAdd()
	c.table[OpSUB] = opSub()
	c.table[OpMUL] = opMul()
	c.table[OpDIV] = opDiv()
	c.table[OpINC] = opInc
	c.table[OpDEC] = opDec
	c.table[OpNEG] = opNeg

	c.table[OpAND] = opLogic(func(a, b uint64) uint64 { return a & b })
	c.table[OpNOT] = opNot
	c.table[OpOR] = opLogic(func(a, b uint64) uint64 { return a | b })
	c.table[OpXOR] = opLogic(func(a, b uint64) uint64 { return a ^ b })
	c.table[OpLSHIFT] = opShift(true)
	c.table[OpRSHIFT] = opShift(false)

	c.table[OpMOV] = opMove(moveCopy)
	c.table[OpMOVZX] = opMove(moveZeroExtend)
	c.table[OpMOVSX] = opMove(moveSignExtend)
	c.table[OpSTORE] = opStore
	c.table[OpLOAD] = opLoad
	c.table[OpLEA] = opLea

	c.table[OpPUSH] = opPush
	c.table[OpPOP] = opPop
	c.table[OpPUSHREG] = opPushSingle
	c.table[OpPOPREG] = opPopSingle

	c.table[OpCMP] = opCmp
	c.table[OpJMP] = opJmp
	c.table[OpJZ] = opCondJump(FlagZero)
	c.table[OpJNZ] = opCondJump(FlagNonZero)
	c.table[OpJE] = opCondJump(FlagEqual)
	c.table[OpJNE] = opCondJump(FlagNotEqual)
	c.table[OpJG] = opCondJump(FlagGreater)
	c.table[OpJGE] = opCondJump(FlagGreaterEq)
	c.table[OpJS] = opCondJump(FlagSmaller)
	c.table[OpJSE] = opCondJump(FlagSmallerEq)
	// JN and JNN have no defined condition in the ISA prose. Treated as
	// aliases: JN behaves as JS (jump if smaller), JNN as JGE (jump if
	// greater-or-equal), the same pairing used to resolve MOVN/MOVNN
	// below.
	c.table[OpJN] = opCondJump(FlagSmaller)
	c.table[OpJNN] = opCondJump(FlagGreaterEq)

	c.table[OpMOVZ] = opCondMove(FlagZero)
	c.table[OpMOVNZ] = opCondMove(FlagNonZero)
	c.table[OpMOVE] = opCondMove(FlagEqual)
	c.table[OpMOVNE] = opCondMove(FlagNotEqual)
	c.table[OpMOVG] = opCondMove(FlagGreater)
	c.table[OpMOVGE] = opCondMove(FlagGreaterEq)
	c.table[OpMOVS] = opCondMove(FlagSmaller)
	c.table[OpMOVSE] = opMovse
	c.table[OpMOVN] = opCondMove(FlagSmaller)
	c.table[OpMOVNN] = opCondMove(FlagGreaterEq)

	c.table[OpEXT] = opExtInPlace(true)
	c.table[OpZEXT] = opExtInPlace(false)

	c.table[OpHALT] = opHalt
	c.table[OpSYSCALL] = opSyscall
}
