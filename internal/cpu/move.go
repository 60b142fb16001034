/*
 * Enigma VM - Data movement opcode semantics.
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

import "github.com/rcornwell/enigma-vm/internal/memory"

// moveKind selects how opMove extends a value read from tagged memory
// (format 3). Formats 0..2 never see an extension distinction: there
// is no width tag attached to a plain register or immediate operand,
// so MOV/MOVZX/MOVSX are identical copies in those formats.
type moveKind int

const (
	moveCopy moveKind = iota
	moveZeroExtend
	moveSignExtend
)

// opMove builds the handler shared by MOV/MOVZX/MOVSX. Formats 0 and 2
// are register-to-register (kept distinct only for a disassembler's
// benefit), format 1 loads a 53-bit immediate, and format 3 reads
// data memory through a tagged address held in the low register slot,
// writing to the register named in the high slot.
func opMove(kind moveKind) opHandler {
	return func(c *CPU, instr uint64) error {
		switch format2(instr) {
		case 0, 2:
			dst := regHigh(instr)
			src := regLow(instr)
			c.Regs[dst] = c.Regs[src]
		case 1:
			dst := regLow(instr)
			c.Regs[dst] = imm53(instr)
		case 3:
			addrReg := regLow(instr)
			dst := regHigh(instr)
			width, offset := memory.SplitTaggedAddress(c.Regs[addrReg])
			val, err := c.Data.ReadWidth(offset, width)
			if err != nil {
				return err
			}
			if kind == moveSignExtend {
				val = signExtend(val, width)
			}
			c.Regs[dst] = val
		}
		return nil
	}
}

// opLoad implements LOAD R, imm58: load the immediate held in every
// bit below the opcode field (see imm58) into register R.
func opLoad(c *CPU, instr uint64) error {
	r := regLow(instr)
	c.Regs[r] = imm58(instr)
	return nil
}

// opStore implements STORE R: write register R to the data-memory
// address named by the trailing tagged word. The source had this
// backwards (it read memory into the register); the ISA corrects it so
// the mnemonic matches its effect.
func opStore(c *CPU, instr uint64) error {
	r := regLow(instr)
	addr, err := c.fetchNext()
	if err != nil {
		return err
	}
	return c.Data.WriteTagged(addr, c.Regs[r])
}

// opLea implements LEA: write the trailing literal word into ar
// unconditionally.
func opLea(c *CPU, instr uint64) error {
	lit, err := c.fetchNext()
	if err != nil {
		return err
	}
	c.Regs[RegAR] = lit
	return nil
}

// opCondMove builds the handler shared by MOVZ/MOVNZ/MOVE/MOVNE/MOVG/
// MOVGE/MOVS/MOVN/MOVNN: perform a plain MOV using the same encoding
// when flag is set, do nothing otherwise.
func opCondMove(flag int) opHandler {
	mov := opMove(moveCopy)
	return func(c *CPU, instr uint64) error {
		if c.Flags[flag] == 1 {
			return mov(c, instr)
		}
		return nil
	}
}

// opMovse implements MOVSE. The source tested only SMALLER; the fix is
// SMALLER_EQ || SMALLER.
func opMovse(c *CPU, instr uint64) error {
	if c.Flags[FlagSmallerEq] == 1 || c.Flags[FlagSmaller] == 1 {
		return opMove(moveCopy)(c, instr)
	}
	return nil
}
