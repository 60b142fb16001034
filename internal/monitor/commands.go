/*
 * Enigma VM - Debug monitor command table.
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

package monitor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/enigma-vm/internal/cpu"
	"github.com/rcornwell/enigma-vm/internal/hexdump"
	"github.com/rcornwell/enigma-vm/internal/vm"
)

type cmd struct {
	name     string
	min      int
	process  func(*cmdLine, *vm.VM) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "step", min: 1, process: step},
	{name: "continue", min: 1, process: cont},
	{name: "regs", min: 1, process: regs},
	{name: "mem", min: 1, process: mem, complete: memComplete},
	{name: "break", min: 2, process: setBreak},
	{name: "clear", min: 2, process: clearBreak},
	{name: "quit", min: 1, process: quit},
}

var breakpoints = map[uint64]bool{}

// processCommand runs one line against v, returning whether the
// monitor should exit.
func processCommand(commandLine string, v *vm.VM) (bool, error) {
	line := &cmdLine{line: commandLine}
	name := line.word()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}
	return match[0].process(line, v)
}

// completeCmd implements tab completion over the command names, the
// same prefix-matching scheme used to process commands.
func completeCmd(commandLine string) []string {
	line := &cmdLine{line: commandLine}
	name := line.word()
	if !line.isEOL() && line.line[line.pos] == ' ' {
		line.skipSpace()
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(line)
	}
	matches := matchList(name)
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

func matchCommand(c cmd, name string) bool {
	if len(name) > len(c.name) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if c.name[i] != name[i] {
			return false
		}
	}
	return len(name) >= c.min
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var out []cmd
	for _, c := range cmdList {
		if matchCommand(c, name) {
			out = append(out, c)
		}
	}
	return out
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && l.line[l.pos] == ' ' {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) word() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && l.line[l.pos] != ' ' {
		l.pos++
	}
	return l.line[start:l.pos]
}

func memComplete(_ *cmdLine) []string {
	return []string{"data ", "instr "}
}

func step(line *cmdLine, v *vm.VM) (bool, error) {
	n := 1
	if w := line.word(); w != "" {
		parsed, err := strconv.Atoi(w)
		if err != nil {
			return false, fmt.Errorf("step: invalid count %q", w)
		}
		n = parsed
	}
	for i := 0; i < n; i++ {
		running, err := v.Step()
		if err != nil {
			return false, err
		}
		if !running {
			fmt.Println("halted")
			break
		}
		if breakpoints[v.CPU().Regs[cpu.RegPC]] {
			fmt.Printf("breakpoint hit at pc=%#x\n", v.CPU().Regs[cpu.RegPC])
			break
		}
	}
	return false, nil
}

func cont(_ *cmdLine, v *vm.VM) (bool, error) {
	for v.CPU().Running {
		running, err := v.Step()
		if err != nil {
			return false, err
		}
		if !running {
			fmt.Println("halted")
			break
		}
		if breakpoints[v.CPU().Regs[cpu.RegPC]] {
			fmt.Printf("breakpoint hit at pc=%#x\n", v.CPU().Regs[cpu.RegPC])
			break
		}
	}
	return false, nil
}

func regs(_ *cmdLine, v *vm.VM) (bool, error) {
	c := v.CPU()
	for r := 0; r < cpu.NumRegisters; r++ {
		fmt.Printf("%-4s %#018x\n", cpu.RegisterName(r), c.Regs[r])
	}
	fmt.Printf("running: %v\n", c.Running)
	return false, nil
}

func mem(line *cmdLine, v *vm.VM) (bool, error) {
	region := line.word()
	addrStr := line.word()
	lenStr := line.word()

	addr, err := strconv.ParseUint(addrStr, 0, 64)
	if err != nil {
		return false, fmt.Errorf("mem: invalid address %q", addrStr)
	}
	length := uint64(64)
	if lenStr != "" {
		length, err = strconv.ParseUint(lenStr, 0, 64)
		if err != nil {
			return false, fmt.Errorf("mem: invalid length %q", lenStr)
		}
	}

	var m interface {
		Read8(uint64) (uint64, error)
	}
	switch strings.ToLower(region) {
	case "data":
		m = v.DataMemory()
	case "instr":
		m = v.InstrMemory()
	default:
		return false, fmt.Errorf("mem: region must be data or instr, got %q", region)
	}

	buf := make([]byte, 0, length)
	for i := uint64(0); i < length; i++ {
		b, err := m.Read8(addr + i)
		if err != nil {
			break
		}
		buf = append(buf, byte(b))
	}
	fmt.Print(hexdump.Dump(addr, buf))
	return false, nil
}

func setBreak(line *cmdLine, _ *vm.VM) (bool, error) {
	addrStr := line.word()
	addr, err := strconv.ParseUint(addrStr, 0, 64)
	if err != nil {
		return false, fmt.Errorf("break: invalid address %q", addrStr)
	}
	breakpoints[addr] = true
	return false, nil
}

func clearBreak(line *cmdLine, _ *vm.VM) (bool, error) {
	addrStr := line.word()
	addr, err := strconv.ParseUint(addrStr, 0, 64)
	if err != nil {
		return false, fmt.Errorf("clear: invalid address %q", addrStr)
	}
	delete(breakpoints, addr)
	return false, nil
}

func quit(_ *cmdLine, _ *vm.VM) (bool, error) {
	return true, nil
}
