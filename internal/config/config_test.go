/*
 * Enigma VM - Configuration parser tests.
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

package config

import (
	"strings"
	"testing"
)

func TestParseBasicDirectives(t *testing.T) {
	src := `
# a comment line, ignored
instr_mem_size 2048
data_mem_size 4096  # trailing comment
max_memory_length 1048576
entry 0x10
log_file run.log
`
	cfg, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.InstrMemSize != 2048 {
		t.Fatalf("InstrMemSize = %d, want 2048", cfg.InstrMemSize)
	}
	if cfg.DataMemSize != 4096 {
		t.Fatalf("DataMemSize = %d, want 4096", cfg.DataMemSize)
	}
	if cfg.MaxMemoryLength != 1048576 {
		t.Fatalf("MaxMemoryLength = %d, want 1048576", cfg.MaxMemoryLength)
	}
	if cfg.Entry != 0x10 {
		t.Fatalf("Entry = %#x, want 0x10", cfg.Entry)
	}
	if cfg.LogFile != "run.log" {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, "run.log")
	}
}

func TestParseBlankAndCommentOnlyFile(t *testing.T) {
	src := "\n# nothing here\n\n"
	cfg, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.InstrMemSize != 0 {
		t.Fatalf("expected zero-valued config, got %+v", cfg)
	}
}

func TestParseUnknownKeyFails(t *testing.T) {
	if _, err := Parse(strings.NewReader("bogus_key 1\n")); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestParseMissingValueFails(t *testing.T) {
	if _, err := Parse(strings.NewReader("entry\n")); err == nil {
		t.Fatal("expected an error for a key with no value")
	}
}

func TestParseNoTrailingNewline(t *testing.T) {
	cfg, err := Parse(strings.NewReader("entry 5"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Entry != 5 {
		t.Fatalf("Entry = %d, want 5", cfg.Entry)
	}
}
