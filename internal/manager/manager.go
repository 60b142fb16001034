/*
 * Enigma VM - Host mediator: loading, the syscall table and the run loop.
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

// Package manager is the host mediator between a guest program and the
// CPU that runs it: it loads instruction and data streams into the two
// memories before execution starts, supplies the syscall table the
// SYSCALL opcode delegates to, and drives the fetch/decode/execute
// loop to completion.
package manager

import (
	"bufio"
	"context"
	"io"
	"log/slog"

	"github.com/rcornwell/enigma-vm/internal/cpu"
	"github.com/rcornwell/enigma-vm/internal/memory"
)

// dataLoadOffset is where load_data* begins writing: the first 256
// bytes of data memory are reserved for the stack.
const dataLoadOffset = 0x100

// Manager owns the CPU and both memories for one run, and the
// stdin/stdout streams read/write syscalls talk to.
type Manager struct {
	CPU   *cpu.CPU
	Instr *memory.Memory
	Data  *memory.Memory

	in  *bufio.Reader
	out io.Writer

	dataPointer uint64
}

// New creates a Manager with freshly sized memories and a CPU wired to
// them, reading syscall input from in and writing syscall output to
// out.
func New(in io.Reader, out io.Writer, maxMemoryLength uint64) *Manager {
	instr := memory.NewWithLimit(memory.DefaultSize, maxMemoryLength)
	data := memory.NewWithLimit(memory.DefaultSize, maxMemoryLength)
	c := cpu.New(instr, data)

	m := &Manager{
		CPU:         c,
		Instr:       instr,
		Data:        data,
		in:          bufio.NewReader(in),
		out:         out,
		dataPointer: dataLoadOffset,
	}
	c.OnSyscall = m.handleSyscall
	return m
}

// LoadInstructions writes words to instruction memory starting at
// offset 0, growing the region if the stream doesn't already fit. Each
// call starts again at offset 0; it does not append after words loaded
// by an earlier call.
func (m *Manager) LoadInstructions(words []uint64) error {
	end := uint64(len(words)) * 8
	if err := m.Instr.EnsureCapacity(end); err != nil {
		return err
	}
	for i, w := range words {
		if err := m.Instr.Write64(uint64(i)*8, w); err != nil {
			return err
		}
	}
	return nil
}

// LoadData8/16/32/64 append values of the given width starting at the
// current data load pointer (initially 0x100), advancing the pointer
// by the width after each value.
func (m *Manager) LoadData8(values []uint8) error {
	for _, v := range values {
		if err := m.loadDataWidth(uint64(v), 1); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) LoadData16(values []uint16) error {
	for _, v := range values {
		if err := m.loadDataWidth(uint64(v), 2); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) LoadData32(values []uint32) error {
	for _, v := range values {
		if err := m.loadDataWidth(uint64(v), 4); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) LoadData64(values []uint64) error {
	for _, v := range values {
		if err := m.loadDataWidth(v, 8); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) loadDataWidth(v uint64, width uint8) error {
	if err := m.Data.EnsureCapacity(m.dataPointer + uint64(width)); err != nil {
		return err
	}
	if err := m.Data.WriteWidth(m.dataPointer, width, v); err != nil {
		return err
	}
	m.dataPointer += uint64(width)
	return nil
}

// StartExecution drives the fetch/decode/execute loop until the CPU
// halts, a fault is raised, or ctx is cancelled.
func (m *Manager) StartExecution(ctx context.Context) error {
	for m.CPU.Running {
		select {
		case <-ctx.Done():
			slog.Info("execution cancelled", "pc", m.CPU.Regs[cpu.RegPC])
			return ctx.Err()
		default:
		}
		if err := m.CPU.Step(); err != nil {
			return err
		}
	}
	return nil
}
