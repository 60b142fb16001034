/*
 * Enigma VM - Register file, flags and CPU state.
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

// Package cpu implements the Enigma VM's fetch/decode/execute loop: ten
// 64-bit registers, eight condition flags, and the full opcode
// catalogue described by the instruction set. A CPU owns no state
// beyond its registers and flags plus references to the two Memory
// instances it operates on; the host mediator (the manager package)
// owns loading and the syscall table.
package cpu

import "github.com/rcornwell/enigma-vm/internal/memory"

// Register indices. Only 0..7 are encodable in a 3-bit instruction
// operand field; sp and pc are reachable only through CPU internal
// logic (stack ops, jumps, fetch).
const (
	RegAR = iota
	RegBR
	RegCR
	RegDR
	RegER1
	RegER2
	RegER3
	RegER4
	RegSP
	RegPC

	NumRegisters
)

var registerNames = [NumRegisters]string{
	RegAR: "ar", RegBR: "br", RegCR: "cr", RegDR: "dr",
	RegER1: "er1", RegER2: "er2", RegER3: "er3", RegER4: "er4",
	RegSP: "sp", RegPC: "pc",
}

// RegisterName returns the canonical name of register index r.
func RegisterName(r int) string {
	if r < 0 || r >= NumRegisters {
		return "?"
	}
	return registerNames[r]
}

// generalRegs lists ar..er4 in the order PUSH stores them and POP
// restores them in reverse.
var generalRegs = [8]int{RegAR, RegBR, RegCR, RegDR, RegER1, RegER2, RegER3, RegER4}

// Flag indices. CMP is the only opcode that writes these; conditional
// jumps and conditional moves only read them. They have no defined
// value before the first CMP.
const (
	FlagZero = iota
	FlagNonZero
	FlagGreater
	FlagSmaller
	FlagEqual
	FlagNotEqual
	FlagGreaterEq
	FlagSmallerEq

	NumFlags
)

// StackStart is the initial value of sp: the stack grows upward from
// offset 0.
const StackStart = 0x00

// SyscallHandler is the capability a CPU invokes on SYSCALL. Passing it
// in this way (rather than importing the manager package) is what
// breaks the apparent CPU<->Manager include cycle from the original
// source: the CPU calls a function value, it never knows who built it.
type SyscallHandler func(*CPU) error

// opHandler executes one decoded instruction. instr is the full 64-bit
// instruction word as fetched; the handler decodes whatever operand
// fields it needs from it.
type opHandler func(c *CPU, instr uint64) error

// CPU is the fetch/decode/execute engine. It owns no global state: a
// process may run multiple independent CPUs, each with its own
// registers, flags and memory.
type CPU struct {
	Regs    [NumRegisters]uint64
	Flags   [NumFlags]uint8
	Running bool

	Instr *memory.Memory
	Data  *memory.Memory

	OnSyscall SyscallHandler

	table  [64]opHandler
	jumped bool
}

// New creates a CPU wired to the given instruction and data memories.
// Registers start zero, sp is StackStart, pc is zero, and running is
// true.
func New(instr, data *memory.Memory) *CPU {
	c := &CPU{Instr: instr, Data: data, Running: true}
	c.Regs[RegSP] = StackStart
	c.buildTable()
	return c
}

func (c *CPU) setFlag(flag int, v bool) {
	if v {
		c.Flags[flag] = 1
	} else {
		c.Flags[flag] = 0
	}
}

// fetchNext advances pc by one word and fetches it from instruction
// memory. Used by opcodes that carry a trailing 64-bit immediate:
// jumps, STORE, LEA, and the memory form of arithmetic. pc counts
// instruction words, so word n lives at byte offset n*8.
func (c *CPU) fetchNext() (uint64, error) {
	c.Regs[RegPC]++
	return c.Instr.Read64(c.Regs[RegPC] * 8)
}

// jumpTo sets pc directly and marks this cycle as having already
// repositioned it, so Step's trailing pc++ is suppressed. This is the
// chosen fix for the JMP "lands one past the target" eccentricity: pc
// ends the cycle exactly at target instead of target+1.
func (c *CPU) jumpTo(target uint64) {
	c.Regs[RegPC] = target
	c.jumped = true
}

// Step performs one fetch/decode/execute cycle. It returns any fault
// raised by Memory or by an opcode (divide by zero, out-of-range
// shift, malformed syscall argument); such a fault is unrecoverable
// and the caller should stop running this CPU.
func (c *CPU) Step() error {
	word, err := c.Instr.Read64(c.Regs[RegPC] * 8)
	if err != nil {
		return err
	}

	opcode := uint8(word >> 58)
	handler := c.table[opcode]

	c.jumped = false
	if handler != nil {
		if err := handler(c, word); err != nil {
			return err
		}
	}
	// An opcode with no registered handler is treated as NOP: the
	// source leaves unknown opcodes undefined, and silently skipping
	// them keeps a CPU running past reserved/unassigned encodings
	// instead of making every future opcode addition a breaking
	// change for already-assembled programs.
	if !c.jumped {
		c.Regs[RegPC]++
	}
	return nil
}
