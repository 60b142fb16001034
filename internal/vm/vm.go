/*
 * Enigma VM - Composition root.
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

// Package vm assembles Memory, CPU and Manager into a single value a
// caller can construct, load a program into, and run — replacing the
// global registers/memories/running-flag the instruction set was
// originally specified against with a value multiple independent runs
// can each own.
package vm

import (
	"context"
	"io"

	"github.com/rcornwell/enigma-vm/internal/cpu"
	"github.com/rcornwell/enigma-vm/internal/manager"
	"github.com/rcornwell/enigma-vm/internal/memory"
	"github.com/rcornwell/enigma-vm/internal/program"
)

// Options configures a new VM. A zero value uses memory.DefaultSize
// for both regions and memory.DefaultMaxMemoryLength as the ceiling.
type Options struct {
	MaxMemoryLength uint64
	Stdin           io.Reader
	Stdout          io.Writer
}

// VM owns one Manager (and, through it, one CPU and its two Memory
// instances) for the lifetime of a single run.
type VM struct {
	mgr *manager.Manager
}

// New constructs a VM ready to have a program loaded into it.
func New(opts Options) *VM {
	maxLen := opts.MaxMemoryLength
	if maxLen == 0 {
		maxLen = 524288
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = io.LimitReader(nil, 0)
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	return &VM{mgr: manager.New(stdin, stdout, maxLen)}
}

// LoadImage loads a decoded program image's instructions and data and
// positions pc at its entry point.
func (v *VM) LoadImage(img *program.Image) error {
	if err := v.mgr.LoadInstructions(img.Instructions); err != nil {
		return err
	}
	if len(img.Data) > 0 {
		if err := v.mgr.LoadData8(img.Data); err != nil {
			return err
		}
	}
	v.mgr.CPU.Regs[cpu.RegPC] = img.Entry
	return nil
}

// Run drives the VM to completion (HALT, exit syscall, a fault, or ctx
// cancellation) and returns the guest's exit code (ar at the moment
// running went false).
func (v *VM) Run(ctx context.Context) (int64, error) {
	if err := v.mgr.StartExecution(ctx); err != nil {
		return 0, err
	}
	return int64(v.mgr.CPU.Regs[cpu.RegAR]), nil
}

// Step executes exactly one instruction, returning whether the CPU is
// still running afterward. Used by the debug monitor.
func (v *VM) Step() (bool, error) {
	if !v.mgr.CPU.Running {
		return false, nil
	}
	if err := v.mgr.CPU.Step(); err != nil {
		return false, err
	}
	return v.mgr.CPU.Running, nil
}

// CPU exposes the underlying CPU for inspection (registers, flags) by
// the debug monitor.
func (v *VM) CPU() *cpu.CPU { return v.mgr.CPU }

// DataMemory exposes the data memory region for inspection by the
// debug monitor's "mem" command.
func (v *VM) DataMemory() *memory.Memory { return v.mgr.Data }

// InstrMemory exposes the instruction memory region for inspection by
// the debug monitor's "mem" command.
func (v *VM) InstrMemory() *memory.Memory { return v.mgr.Instr }
