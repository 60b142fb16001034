/*
 * Enigma VM - Fatal guest fault representation.
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

// Package vmerr defines the fault values that represent a guest-fatal
// condition. The guest has no exception mechanism: a Fault always means
// the run is over, but it is returned up the call stack instead of
// calling os.Exit directly so callers (tests, the monitor, the CLI) can
// decide how to report it.
package vmerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a Fault.
type Kind int

const (
	// FaultMemory covers out-of-bounds access and limit breaches.
	FaultMemory Kind = iota
	// FaultSyscall covers malformed syscall arguments.
	FaultSyscall
	// FaultArithmetic covers divide-by-zero and out-of-range shifts.
	FaultArithmetic
)

func (k Kind) String() string {
	switch k {
	case FaultMemory:
		return "memory fault"
	case FaultSyscall:
		return "syscall fault"
	case FaultArithmetic:
		return "arithmetic fault"
	default:
		return "fault"
	}
}

// Fault is an unrecoverable guest condition. There are no retries and no
// recovery: once raised, the VM that produced it must stop.
type Fault struct {
	Kind Kind
	Msg  string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
}

// New builds a Fault of the given kind, wrapped with a stack trace via
// pkg/errors recording where the fault occurred. Formatting the error
// with %+v prints that trace; Error() returns only the fault message,
// which is what cmd/enigma prints.
func New(kind Kind, format string, args ...any) error {
	return errors.WithStack(&Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// Memory reports an out-of-bounds access or a limit breach.
func Memory(format string, args ...any) error {
	return New(FaultMemory, format, args...)
}

// Syscall reports a malformed syscall argument.
func Syscall(format string, args ...any) error {
	return New(FaultSyscall, format, args...)
}

// Arithmetic reports a divide-by-zero or an out-of-range shift.
func Arithmetic(format string, args ...any) error {
	return New(FaultArithmetic, format, args...)
}

// As reports whether err wraps a *Fault, returning it if so.
func As(err error) (*Fault, bool) {
	var f *Fault
	ok := errors.As(err, &f)
	return f, ok
}
