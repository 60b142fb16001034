/*
 * Enigma VM - CPU fetch/decode/execute tests.
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

import (
	"testing"

	"github.com/rcornwell/enigma-vm/internal/memory"
	"github.com/rcornwell/enigma-vm/internal/vmerr"
)

// word assembles an instruction with register operands: opcode in bits
// 63..58, a 2-bit format, regHigh in bits 5..3, regLow in bits 2..0.
func word(op uint8, format uint8, rHigh, rLow int) uint64 {
	return uint64(op)<<58 | uint64(format)<<56 | uint64(rHigh)<<3 | uint64(rLow)
}

// wordImm assembles a register/immediate instruction: opcode, a 1-bit
// format, destination register in the low slot, and a 53-bit immediate.
func wordImm(op uint8, format uint8, rLow int, imm uint64) uint64 {
	return uint64(op)<<58 | uint64(format)<<56 | (imm&((1<<53)-1))<<3 | uint64(rLow)
}

func newTestCPU(t *testing.T) *CPU {
	t.Helper()
	instr := memory.New(4096)
	data := memory.New(4096)
	return New(instr, data)
}

func mustWrite64(t *testing.T, m *memory.Memory, addr, v uint64) {
	t.Helper()
	if err := m.Write64(addr, v); err != nil {
		t.Fatalf("write64(0x%x): %v", addr, err)
	}
}

func TestAddAndHalt(t *testing.T) {
	c := newTestCPU(t)
	mustWrite64(t, c.Instr, 0, wordImm(OpADD, 1, RegAR, 41))
	mustWrite64(t, c.Instr, 8, wordImm(OpADD, 1, RegAR, 1))
	mustWrite64(t, c.Instr, 16, word(OpHALT, 0, 0, 0))

	for c.Running {
		if err := c.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if c.Regs[RegAR] != 42 {
		t.Fatalf("ar = %d, want 42", c.Regs[RegAR])
	}
}

// TestPushPopRoundTrip covers the no-operand PUSH/POP pair, which save
// and restore every general register (spec scenario: "PUSH; zero all
// regs; POP" must restore them all).
func TestPushPopRoundTrip(t *testing.T) {
	c := newTestCPU(t)
	for i, r := range generalRegs {
		c.Regs[r] = uint64(i + 1)
	}
	mustWrite64(t, c.Instr, 0, word(OpPUSH, 0, 0, 0))
	mustWrite64(t, c.Instr, 8, word(OpPOP, 0, 0, 0))
	mustWrite64(t, c.Instr, 16, word(OpHALT, 0, 0, 0))

	if err := c.Step(); err != nil { // PUSH
		t.Fatalf("step push: %v", err)
	}
	for _, r := range generalRegs {
		c.Regs[r] = 0
	}
	for c.Running {
		if err := c.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	for i, r := range generalRegs {
		want := uint64(i + 1)
		if c.Regs[r] != want {
			t.Fatalf("register %s = %d, want %d", RegisterName(r), c.Regs[r], want)
		}
	}
	if c.Regs[RegSP] != StackStart {
		t.Fatalf("sp = %#x, want back at start", c.Regs[RegSP])
	}
}

// TestPushRegPopRegRoundTrip covers PUSH_REG/POP_REG, which operate on
// a single register named by the instruction's low operand field.
func TestPushRegPopRegRoundTrip(t *testing.T) {
	c := newTestCPU(t)
	c.Regs[RegBR] = 0xdeadbeef
	mustWrite64(t, c.Instr, 0, word(OpPUSHREG, 0, 0, RegBR))
	mustWrite64(t, c.Instr, 8, word(OpPOPREG, 0, 0, RegCR))
	mustWrite64(t, c.Instr, 16, word(OpHALT, 0, 0, 0))

	for c.Running {
		if err := c.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if c.Regs[RegCR] != 0xdeadbeef {
		t.Fatalf("cr = %#x, want %#x", c.Regs[RegCR], 0xdeadbeef)
	}
	if c.Regs[RegSP] != StackStart {
		t.Fatalf("sp = %#x, want back at start %#x", c.Regs[RegSP], uint64(StackStart))
	}
}

func TestConditionalBranchTaken(t *testing.T) {
	c := newTestCPU(t)
	mustWrite64(t, c.Instr, 0, wordImm(OpCMP, 1, RegAR, 0)) // ar(0) cmp 0 -> equal, zero
	mustWrite64(t, c.Instr, 8, word(OpJZ, 0, 0, 0))
	mustWrite64(t, c.Instr, 16, 4) // jump target operand: word 4, the halt
	mustWrite64(t, c.Instr, 24, wordImm(OpADD, 1, RegAR, 99))
	mustWrite64(t, c.Instr, 32, word(OpHALT, 0, 0, 0))

	for c.Running {
		if err := c.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if c.Regs[RegAR] != 0 {
		t.Fatalf("ar = %d, want 0 (branch to halt should have skipped the add)", c.Regs[RegAR])
	}
}

func TestConditionalBranchNotTaken(t *testing.T) {
	c := newTestCPU(t)
	mustWrite64(t, c.Instr, 0, wordImm(OpCMP, 1, RegAR, 5)) // 0 cmp 5 -> not equal
	mustWrite64(t, c.Instr, 8, word(OpJZ, 0, 0, 0))
	mustWrite64(t, c.Instr, 16, 4) // would jump to halt (word 4), but flag is unset
	mustWrite64(t, c.Instr, 24, wordImm(OpADD, 1, RegAR, 99))
	mustWrite64(t, c.Instr, 32, word(OpHALT, 0, 0, 0))

	for c.Running {
		if err := c.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if c.Regs[RegAR] != 99 {
		t.Fatalf("ar = %d, want 99", c.Regs[RegAR])
	}
}

func TestJmpLandsExactlyOnTarget(t *testing.T) {
	c := newTestCPU(t)
	mustWrite64(t, c.Instr, 0, word(OpJMP, 0, 0, 0))
	mustWrite64(t, c.Instr, 8, 2)
	mustWrite64(t, c.Instr, 16, word(OpHALT, 0, 0, 0))

	if err := c.Step(); err != nil { // JMP
		t.Fatalf("step jmp: %v", err)
	}
	if c.Regs[RegPC] != 2 {
		t.Fatalf("pc = %d, want 2 (landed exactly on target, not 3)", c.Regs[RegPC])
	}
	if err := c.Step(); err != nil { // HALT
		t.Fatalf("step halt: %v", err)
	}
	if c.Running {
		t.Fatalf("expected HALT to stop the cpu")
	}
}

func TestMemoryBigEndianViaStoreLoad(t *testing.T) {
	c := newTestCPU(t)
	addr := memory.MakeTaggedAddress(8, 0x40)
	c.Regs[RegAR] = 0x0102030405060708

	mustWrite64(t, c.Instr, 0, word(OpSTORE, 0, 0, RegAR))
	mustWrite64(t, c.Instr, 8, addr)
	mustWrite64(t, c.Instr, 16, word(OpHALT, 0, 0, 0))

	for c.Running {
		if err := c.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	raw, err := c.Data.Read8(0x40)
	if err != nil {
		t.Fatalf("read8: %v", err)
	}
	if raw != 0x01 {
		t.Fatalf("first byte at 0x40 = %#x, want 0x01 (most significant byte first)", raw)
	}
}

func TestMovzxLoadZeroExtends(t *testing.T) {
	c := newTestCPU(t)
	addr := memory.MakeTaggedAddress(1, 0x80)
	if err := c.Data.Write8(0x80, 0xff); err != nil {
		t.Fatalf("write8: %v", err)
	}
	c.Regs[RegBR] = addr

	mustWrite64(t, c.Instr, 0, word(OpMOVZX, 3, RegAR, RegBR))
	mustWrite64(t, c.Instr, 8, word(OpHALT, 0, 0, 0))

	for c.Running {
		if err := c.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if c.Regs[RegAR] != 0xff {
		t.Fatalf("ar = %#x, want 0xff (zero-extended)", c.Regs[RegAR])
	}
}

func TestMovsxLoadSignExtends(t *testing.T) {
	c := newTestCPU(t)
	addr := memory.MakeTaggedAddress(1, 0x88)
	if err := c.Data.Write8(0x88, 0xff); err != nil {
		t.Fatalf("write8: %v", err)
	}
	c.Regs[RegBR] = addr

	mustWrite64(t, c.Instr, 0, word(OpMOVSX, 3, RegAR, RegBR))
	mustWrite64(t, c.Instr, 8, word(OpHALT, 0, 0, 0))

	for c.Running {
		if err := c.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if c.Regs[RegAR] != ^uint64(0) {
		t.Fatalf("ar = %#x, want all-ones (sign-extended -1)", c.Regs[RegAR])
	}
}

func TestDivideByZeroFaults(t *testing.T) {
	c := newTestCPU(t)
	mustWrite64(t, c.Instr, 0, wordImm(OpDIV, 1, RegAR, 0))

	err := c.Step()
	if err == nil {
		t.Fatal("expected a fault, got nil")
	}
	f, ok := vmerr.As(err)
	if !ok || f.Kind != vmerr.FaultArithmetic {
		t.Fatalf("expected arithmetic fault, got %v", err)
	}
}

func TestExitSyscallStopsRun(t *testing.T) {
	c := newTestCPU(t)
	c.OnSyscall = func(c *CPU) error {
		c.Running = false
		return nil
	}
	mustWrite64(t, c.Instr, 0, word(OpSYSCALL, 0, 0, 0))

	if err := c.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if c.Running {
		t.Fatal("expected syscall handler to stop the cpu")
	}
}

func TestLshiftRshiftDirections(t *testing.T) {
	c := newTestCPU(t)
	c.Regs[RegAR] = 1
	mustWrite64(t, c.Instr, 0, wordImm(OpLSHIFT, 1, RegAR, 4))
	if err := c.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if c.Regs[RegAR] != 16 {
		t.Fatalf("ar = %d, want 16 after LSHIFT by 4", c.Regs[RegAR])
	}

	c.Regs[RegPC] = 1
	mustWrite64(t, c.Instr, 8, wordImm(OpRSHIFT, 1, RegAR, 2))
	if err := c.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if c.Regs[RegAR] != 4 {
		t.Fatalf("ar = %d, want 4 after RSHIFT by 2", c.Regs[RegAR])
	}
}

func TestShiftOutOfRangeFaults(t *testing.T) {
	c := newTestCPU(t)
	mustWrite64(t, c.Instr, 0, wordImm(OpLSHIFT, 1, RegAR, 64))
	if err := c.Step(); err == nil {
		t.Fatal("expected a fault for shift amount 64")
	}
}
