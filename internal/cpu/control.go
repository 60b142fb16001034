/*
 * Enigma VM - Comparison, branch and conditional-move opcode semantics.
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

// opCmp implements CMP: compare two operands (format 0: register vs
// register in the low slot; format 1: register vs a 53-bit immediate)
// and set all eight flags from the result. The source set both
// FlagZero and FlagNonZero whenever either operand was zero; the fix
// compares the two operands against each other, not against zero,
// and zero/non-zero refer to the result.
func opCmp(c *CPU, instr uint64) error {
	var a, b uint64
	if format1(instr) == 0 {
		a = c.Regs[regHigh(instr)]
		b = c.Regs[regLow(instr)]
	} else {
		a = c.Regs[regLow(instr)]
		b = imm53(instr)
	}

	diff := a - b
	c.setFlag(FlagZero, diff == 0)
	c.setFlag(FlagNonZero, diff != 0)
	c.setFlag(FlagEqual, a == b)
	c.setFlag(FlagNotEqual, a != b)
	c.setFlag(FlagGreater, a > b)
	c.setFlag(FlagGreaterEq, a >= b)
	c.setFlag(FlagSmaller, a < b)
	c.setFlag(FlagSmallerEq, a <= b)
	return nil
}

// opJmp implements unconditional JMP: the trailing word is the target
// instruction address. jumpTo lands pc exactly on target, correcting
// the source's tendency to land one instruction past it.
func opJmp(c *CPU, instr uint64) error {
	target, err := c.fetchNext()
	if err != nil {
		return err
	}
	c.jumpTo(target)
	return nil
}

// opCondJump builds the handler shared by every conditional jump. The
// trailing word is always consumed (it is part of the instruction's
// fixed length) whether or not the branch is taken; it is only used as
// a jump target when flag is set.
func opCondJump(flag int) opHandler {
	return func(c *CPU, instr uint64) error {
		target, err := c.fetchNext()
		if err != nil {
			return err
		}
		if c.Flags[flag] == 1 {
			c.jumpTo(target)
		}
		return nil
	}
}

// opHalt implements HALT: stop the run loop without raising a fault.
func opHalt(c *CPU, instr uint64) error {
	c.Running = false
	return nil
}

// opSyscall implements SYSCALL: hand control to whatever host mediator
// registered itself as OnSyscall. A CPU with no handler wired treats
// SYSCALL as a no-op, which only matters to unit tests that exercise
// opcodes without a manager present.
func opSyscall(c *CPU, instr uint64) error {
	if c.OnSyscall == nil {
		return nil
	}
	return c.OnSyscall(c)
}
