/*
 * Enigma VM - Syscall table.
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

package manager

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/enigma-vm/internal/cpu"
	"github.com/rcornwell/enigma-vm/internal/memory"
	"github.com/rcornwell/enigma-vm/internal/vmerr"
)

// Syscall numbers, selected via ar.
const (
	sysMemIncrease = iota
	sysUpperLimitIncrease
	sysIncrPointerLim
	sysReserved3
	sysReserved4
	sysReserved5
	sysReserved6
	sysReserved7
	sysReserved8
	sysReserved9
	sysReserved10
	sysExit
	sysReadNum
	sysReadChar
	sysReadFloat
	sysWriteNum
	sysWriteChar
	sysWriteFloat
)

// handleSyscall dispatches on ar. Numbers with no case here (the
// reserved block and anything above sysWriteFloat) are a no-op.
func (m *Manager) handleSyscall(c *cpu.CPU) error {
	switch c.Regs[cpu.RegAR] {
	case sysMemIncrease, sysIncrPointerLim:
		return m.Data.PointerLimitIncrease(c.Regs[cpu.RegBR])
	case sysUpperLimitIncrease:
		return m.Data.IncreaseUpperLimit(c.Regs[cpu.RegBR])
	case sysExit:
		c.Running = false
		c.Regs[cpu.RegAR] = c.Regs[cpu.RegBR]
		return nil
	case sysReadNum:
		return m.sysReadNum(c)
	case sysReadChar:
		return m.sysReadChar(c)
	case sysReadFloat:
		return m.sysReadFloat(c)
	case sysWriteNum:
		return m.sysWriteNum(c)
	case sysWriteChar:
		return m.sysWriteChar(c)
	case sysWriteFloat:
		return m.sysWriteFloat(c)
	default:
		return nil
	}
}

func (m *Manager) readToken() (string, error) {
	var sb strings.Builder
	for {
		b, err := m.in.ReadByte()
		if err != nil {
			if sb.Len() > 0 {
				break
			}
			return "", err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if sb.Len() == 0 {
				continue
			}
			break
		}
		sb.WriteByte(b)
	}
	return sb.String(), nil
}

// sysReadNum reads a decimal unsigned integer from stdin and stores it
// at the tagged address in br. The source accumulated digits with a
// descending power-of-ten multiplier, which over-scaled the value; a
// plain strconv parse replaces that by construction.
func (m *Manager) sysReadNum(c *cpu.CPU) error {
	tok, err := m.readToken()
	if err != nil {
		return vmerr.Syscall("read_num: %v", err)
	}
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return vmerr.Syscall("read_num: invalid integer %q", tok)
	}
	width, offset := memory.SplitTaggedAddress(c.Regs[cpu.RegBR])
	return m.Data.WriteWidth(offset, width, v)
}

// sysReadChar reads cr bytes from stdin into data memory starting at
// the plain (untagged) offset in br.
func (m *Manager) sysReadChar(c *cpu.CPU) error {
	addr := c.Regs[cpu.RegBR]
	count := c.Regs[cpu.RegCR]
	for i := uint64(0); i < count; i++ {
		b, err := m.in.ReadByte()
		if err != nil {
			return vmerr.Syscall("read_char: %v", err)
		}
		if err := m.Data.Write8(addr+i, uint64(b)); err != nil {
			return err
		}
	}
	return nil
}

// fixedFracBits returns how many low bits of the ad-hoc fixed-point
// encoding hold the fractional part, for the two supported widths.
func fixedFracBits(width uint8) (uint, error) {
	switch width {
	case 4:
		return 8, nil
	case 8:
		return 16, nil
	default:
		return 0, vmerr.Syscall("float syscall: width must be 4 or 8, got %d", width)
	}
}

// sysReadFloat reads "[-]digits.digits" from stdin, packs it into the
// fixed-point form described by fixedFracBits, and stores it at the
// tagged address in br.
func (m *Manager) sysReadFloat(c *cpu.CPU) error {
	width, offset := memory.SplitTaggedAddress(c.Regs[cpu.RegBR])
	fracBits, err := fixedFracBits(width)
	if err != nil {
		return err
	}
	tok, err := m.readToken()
	if err != nil {
		return vmerr.Syscall("read_float: %v", err)
	}

	negative := strings.HasPrefix(tok, "-")
	tok = strings.TrimPrefix(tok, "-")
	intPart, fracPart, _ := strings.Cut(tok, ".")

	intVal, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil && intPart != "" {
		return vmerr.Syscall("read_float: invalid integer part %q", intPart)
	}

	var fracVal uint64
	if fracPart != "" {
		num, err := strconv.ParseUint(fracPart, 10, 64)
		if err != nil {
			return vmerr.Syscall("read_float: invalid fraction %q", fracPart)
		}
		scale := uint64(1)
		for range fracPart {
			scale *= 10
		}
		fracVal = (num << fracBits) / scale
	}

	packed := (intVal << fracBits) | (fracVal & ((1 << fracBits) - 1))
	if negative {
		mask := uint64(1)<<(8*width) - 1
		if width == 8 {
			mask = ^uint64(0)
		}
		packed = (^packed + 1) & mask
	}
	return m.Data.WriteWidth(offset, width, packed)
}

// sysWriteNum reads width-N bytes at the tagged address in br. If the
// value's top bit (within its width) is set, it is treated as the
// two's-complement negative of its width and printed with a leading
// '-'; otherwise it is printed as an unsigned value.
func (m *Manager) sysWriteNum(c *cpu.CPU) error {
	width, offset := memory.SplitTaggedAddress(c.Regs[cpu.RegBR])
	v, err := m.Data.ReadWidth(offset, width)
	if err != nil {
		return err
	}
	bits := uint(8 * width)
	var signBit uint64 = 1 << (bits - 1)
	if width == 8 {
		signBit = 1 << 63
	}
	if v&signBit != 0 {
		mask := uint64(1)<<bits - 1
		if width == 8 {
			mask = ^uint64(0)
		}
		fmt.Fprintf(m.out, "-%d", (^v+1)&mask)
	} else {
		fmt.Fprintf(m.out, "%d", v)
	}
	return nil
}

// sysWriteChar prints cr bytes from the plain offset in br as
// characters.
func (m *Manager) sysWriteChar(c *cpu.CPU) error {
	addr := c.Regs[cpu.RegBR]
	count := c.Regs[cpu.RegCR]
	buf := make([]byte, count)
	for i := range buf {
		b, err := m.Data.Read8(addr + uint64(i))
		if err != nil {
			return err
		}
		buf[i] = byte(b)
	}
	_, err := m.out.Write(buf)
	return err
}

// sysWriteFloat decodes the fixed-point form at the tagged address in
// br and prints it as "<integer>.<fraction>".
func (m *Manager) sysWriteFloat(c *cpu.CPU) error {
	width, offset := memory.SplitTaggedAddress(c.Regs[cpu.RegBR])
	fracBits, err := fixedFracBits(width)
	if err != nil {
		return err
	}
	v, err := m.Data.ReadWidth(offset, width)
	if err != nil {
		return err
	}

	bits := uint(8 * width)
	signBit := uint64(1) << (bits - 1)
	negative := v&signBit != 0
	if negative {
		mask := uint64(1)<<bits - 1
		v = (^v + 1) & mask
	}

	intPart := v >> fracBits
	fracPart := v & ((1 << fracBits) - 1)
	scale := uint64(1) << fracBits

	sign := ""
	if negative {
		sign = "-"
	}
	fmt.Fprintf(m.out, "%s%d.%04d", sign, intPart, (fracPart*10000)/scale)
	return nil
}
