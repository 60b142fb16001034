/*
 * Enigma VM - Arithmetic opcode semantics.
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

// opArith builds the handler shared by ADD/SUB/MUL/DIV. Format 0 is
// register-register, 1 and 2 are register-immediate (both formats
// behave identically; the distinction only matters to a disassembler),
// and 3 reads the second operand from data memory through a trailing
// tagged address.
func opArith(apply func(dst, src uint64) (uint64, error)) opHandler {
	return func(c *CPU, instr uint64) error {
		switch format2(instr) {
		case 0:
			dst := regHigh(instr)
			src := regLow(instr)
			v, err := apply(c.Regs[dst], c.Regs[src])
			if err != nil {
				return err
			}
			c.Regs[dst] = v
		case 1, 2:
			r := regLow(instr)
			v, err := apply(c.Regs[r], imm53(instr))
			if err != nil {
				return err
			}
			c.Regs[r] = v
		case 3:
			r := regLow(instr)
			addr, err := c.fetchNext()
			if err != nil {
				return err
			}
			operand, err := c.Data.ReadTagged(addr)
			if err != nil {
				return err
			}
			v, err := apply(c.Regs[r], operand)
			if err != nil {
				return err
			}
			c.Regs[r] = v
		}
		return nil
	}
}

func opAdd() opHandler {
	return opArith(func(dst, src uint64) (uint64, error) { return dst + src, nil })
}

func opSub() opHandler {
	return opArith(func(dst, src uint64) (uint64, error) { return dst - src, nil })
}

func opMul() opHandler {
	return opArith(func(dst, src uint64) (uint64, error) { return dst * src, nil })
}

func opDiv() opHandler {
	return opArith(func(dst, src uint64) (uint64, error) {
		if src == 0 {
			return 0, vmerr.Arithmetic("division by zero")
		}
		return dst / src, nil
	})
}

func opInc(c *CPU, instr uint64) error {
	r := regLow(instr)
	c.Regs[r]++
	return nil
}

func opDec(c *CPU, instr uint64) error {
	r := regLow(instr)
	c.Regs[r]--
	return nil
}

func opNeg(c *CPU, instr uint64) error {
	r := regLow(instr)
	c.Regs[r] = ^c.Regs[r] + 1
	return nil
}
