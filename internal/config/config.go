/*
 * Enigma VM - Configuration file parser.
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

// Package config parses the VM's configuration file: line-oriented,
// '#' starts a comment that runs to end of line, each non-comment line
// is "key value". Unlike the machine's program image, this file is
// meant to be hand-edited, so it tolerates blank lines and trailing
// comments rather than demanding a strict grammar.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Config holds the tunables the file may set; anything left unset is
// zero. cmd/enigma applies only MaxMemoryLength (a zero value keeps the
// VM's built-in ceiling); the other fields are parsed and validated but
// not applied to the VM.
type Config struct {
	InstrMemSize    uint64
	DataMemSize     uint64
	MaxMemoryLength uint64
	Entry           uint64
	LogFile         string
}

var lineNumber int

// keyLine is the current line being scanned, mirroring the
// teacher's optionLine: a string plus a scan cursor.
type keyLine struct {
	line string
	pos  int
}

// Load reads a configuration file and applies it on top of zero-valued
// defaults; callers that want the VM's built-in defaults to survive an
// absent key should seed cfg before merging, or apply zero checks
// afterward.
func Load(name string) (*Config, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads configuration directives from r.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	lineNumber = 0
	reader := bufio.NewReader(r)
	for {
		raw, err := reader.ReadString('\n')
		lineNumber++
		if len(raw) == 0 && err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		line := &keyLine{line: raw}
		if parseErr := line.apply(cfg); parseErr != nil {
			return nil, parseErr
		}
		if err == io.EOF {
			break
		}
	}
	return cfg, nil
}

func (line *keyLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *keyLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

func (line *keyLine) word() string {
	line.skipSpace()
	start := line.pos
	for line.pos < len(line.line) {
		by := line.line[line.pos]
		if unicode.IsSpace(rune(by)) || by == '#' {
			break
		}
		line.pos++
	}
	return line.line[start:line.pos]
}

// apply parses one line and, if it names a recognised key, stores the
// value into cfg.
func (line *keyLine) apply(cfg *Config) error {
	line.skipSpace()
	if line.isEOL() {
		return nil
	}

	key := strings.ToLower(line.word())
	value := line.word()
	if value == "" && key != "" {
		return fmt.Errorf("config: line %d: %q has no value", lineNumber, key)
	}

	switch key {
	case "instr_mem_size":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("config: line %d: invalid instr_mem_size %q", lineNumber, value)
		}
		cfg.InstrMemSize = n
	case "data_mem_size":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("config: line %d: invalid data_mem_size %q", lineNumber, value)
		}
		cfg.DataMemSize = n
	case "max_memory_length":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("config: line %d: invalid max_memory_length %q", lineNumber, value)
		}
		cfg.MaxMemoryLength = n
	case "entry":
		n, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return fmt.Errorf("config: line %d: invalid entry %q", lineNumber, value)
		}
		cfg.Entry = n
	case "log_file":
		cfg.LogFile = value
	case "":
		return nil
	default:
		return fmt.Errorf("config: line %d: unknown key %q", lineNumber, key)
	}
	return nil
}
