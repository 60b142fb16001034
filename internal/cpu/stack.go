/*
 * Enigma VM - Stack opcode semantics.
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

// The stack lives in data memory at low addresses and grows upward:
// PUSH writes at sp then increments it, POP decrements sp then reads.
// Stack slots are always 8 bytes wide regardless of the value's
// natural width.

// opPush implements PUSH: push every general register (ar..er4) in
// declaration order.
func opPush(c *CPU, instr uint64) error {
	for _, r := range generalRegs {
		if err := c.Data.Write64(c.Regs[RegSP], c.Regs[r]); err != nil {
			return err
		}
		c.Regs[RegSP] += 8
	}
	return nil
}

// opPop implements POP: restore every general register in reverse
// declaration order, undoing PUSH.
func opPop(c *CPU, instr uint64) error {
	for i := len(generalRegs) - 1; i >= 0; i-- {
		c.Regs[RegSP] -= 8
		v, err := c.Data.Read64(c.Regs[RegSP])
		if err != nil {
			return err
		}
		c.Regs[generalRegs[i]] = v
	}
	return nil
}

// opPushSingle implements PUSH_REG R: push a single named register.
func opPushSingle(c *CPU, instr uint64) error {
	r := regLow(instr)
	if err := c.Data.Write64(c.Regs[RegSP], c.Regs[r]); err != nil {
		return err
	}
	c.Regs[RegSP] += 8
	return nil
}

// opPopSingle implements POP_REG R: pop into a single named register.
func opPopSingle(c *CPU, instr uint64) error {
	r := regLow(instr)
	c.Regs[RegSP] -= 8
	v, err := c.Data.Read64(c.Regs[RegSP])
	if err != nil {
		return err
	}
	c.Regs[r] = v
	return nil
}
