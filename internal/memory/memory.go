/*
 * Enigma VM - Byte-addressable memory with bounds checking.
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

// Package memory implements the Enigma VM's byte-addressable memory: a
// resizable buffer with a soft pointer_limit (current usable size) and
// a hard max_memory_length ceiling. Two independent instances exist in
// a running VM, one for instructions and one for data; this package
// knows nothing about that split, it only enforces bounds on a single
// region.
package memory

import (
	"github.com/rcornwell/enigma-vm/internal/vmerr"
)

const (
	// DefaultSize is the size a freshly created Memory starts at.
	DefaultSize = 1024

	// DefaultMaxMemoryLength is the initial ceiling pointer_limit may
	// grow to before a syscall raises it further.
	DefaultMaxMemoryLength = 524288

	// HardCeiling is the absolute cap increase_upper_limit may never
	// push max_memory_length past.
	HardCeiling = 1 << 30

	// StackRegionSize is the portion of data memory reserved for the
	// stack (offsets 0x00..0xFF).
	StackRegionSize = 0x100
)

// Memory is a byte-addressable, bounds-checked region of guest memory.
type Memory struct {
	buf             []byte
	pointerLimit    uint64
	maxMemoryLength uint64
}

// New creates a Memory of the given initial size with the default
// max_memory_length ceiling.
func New(initialSize uint64) *Memory {
	return NewWithLimit(initialSize, DefaultMaxMemoryLength)
}

// NewWithLimit creates a Memory of the given initial size with an
// explicit max_memory_length ceiling (clamped to HardCeiling).
func NewWithLimit(initialSize, maxMemoryLength uint64) *Memory {
	if maxMemoryLength > HardCeiling {
		maxMemoryLength = HardCeiling
	}
	if initialSize > maxMemoryLength {
		initialSize = maxMemoryLength
	}
	return &Memory{
		buf:             make([]byte, initialSize),
		pointerLimit:    initialSize,
		maxMemoryLength: maxMemoryLength,
	}
}

// CurrentSize returns pointer_limit, the current bounds-check ceiling.
func (m *Memory) CurrentSize() uint64 {
	return m.pointerLimit
}

// MaxMemoryLength returns the current hard ceiling on pointer_limit.
func (m *Memory) MaxMemoryLength() uint64 {
	return m.maxMemoryLength
}

// Resize grows or shrinks the backing buffer to n bytes. It fails if n
// would exceed max_memory_length.
func (m *Memory) Resize(n uint64) error {
	if n > m.maxMemoryLength {
		return vmerr.Memory("resize to %d exceeds max_memory_length %d", n, m.maxMemoryLength)
	}
	buf := make([]byte, n)
	copy(buf, m.buf)
	m.buf = buf
	return nil
}

// PointerLimitIncrease raises pointer_limit by k, growing the backing
// buffer to the new limit if it is shorter. It fails if the result
// would exceed max_memory_length.
func (m *Memory) PointerLimitIncrease(k uint64) error {
	next := m.pointerLimit + k
	if next < m.pointerLimit || next > m.maxMemoryLength {
		return vmerr.Memory("pointer_limit_increase by %d exceeds max_memory_length %d", k, m.maxMemoryLength)
	}
	m.pointerLimit = next
	if uint64(len(m.buf)) < m.pointerLimit {
		return m.Resize(m.pointerLimit)
	}
	return nil
}

// IncreaseUpperLimit raises max_memory_length by k. It fails if the
// result would exceed HardCeiling (2^30).
func (m *Memory) IncreaseUpperLimit(k uint64) error {
	next := m.maxMemoryLength + k
	if next < m.maxMemoryLength || next > HardCeiling {
		return vmerr.Memory("increase_upper_limit by %d exceeds hard ceiling %d", k, uint64(HardCeiling))
	}
	m.maxMemoryLength = next
	return nil
}

// AddSize raises pointer_limit by k and resizes the backing buffer in
// lockstep.
func (m *Memory) AddSize(k uint64) error {
	next := m.pointerLimit + k
	if next < m.pointerLimit || next > m.maxMemoryLength {
		return vmerr.Memory("add_size by %d exceeds max_memory_length %d", k, m.maxMemoryLength)
	}
	if err := m.Resize(next); err != nil {
		return err
	}
	m.pointerLimit = next
	return nil
}

// EnsureCapacity grows the region (via AddSize) just enough that end is
// addressable, if it isn't already.
func (m *Memory) EnsureCapacity(end uint64) error {
	if end <= m.pointerLimit {
		return nil
	}
	return m.AddSize(end - m.pointerLimit)
}

func (m *Memory) writeN(addr, value uint64, n int) error {
	if addr+uint64(n) < addr || addr+uint64(n) > m.pointerLimit {
		return vmerr.Memory("segmentation fault: write of %d bytes at 0x%x", n, addr)
	}
	for i := 0; i < n; i++ {
		shift := uint(8 * (n - 1 - i))
		m.buf[addr+uint64(i)] = byte(value >> shift)
	}
	return nil
}

func (m *Memory) readN(addr uint64, n int) (uint64, error) {
	if addr+uint64(n) < addr || addr+uint64(n) > m.pointerLimit {
		return 0, vmerr.Memory("segmentation fault: read of %d bytes at 0x%x", n, addr)
	}
	var v uint64
	for i := 0; i < n; i++ {
		v = (v << 8) | uint64(m.buf[addr+uint64(i)])
	}
	return v, nil
}

// Write64 writes the 8 bytes of value, big-endian, at addr.
func (m *Memory) Write64(addr, value uint64) error { return m.writeN(addr, value, 8) }

// Write32 writes the low 4 bytes of value, big-endian, at addr.
func (m *Memory) Write32(addr, value uint64) error { return m.writeN(addr, value, 4) }

// Write16 writes the low 2 bytes of value, big-endian, at addr.
func (m *Memory) Write16(addr, value uint64) error { return m.writeN(addr, value, 2) }

// Write8 writes the low byte of value at addr.
func (m *Memory) Write8(addr, value uint64) error { return m.writeN(addr, value, 1) }

// Read64 reads 8 bytes, big-endian, from addr.
func (m *Memory) Read64(addr uint64) (uint64, error) { return m.readN(addr, 8) }

// Read32 reads 4 bytes, big-endian, from addr, zero-extended to 64 bits.
func (m *Memory) Read32(addr uint64) (uint64, error) { return m.readN(addr, 4) }

// Read16 reads 2 bytes, big-endian, from addr, zero-extended to 64 bits.
func (m *Memory) Read16(addr uint64) (uint64, error) { return m.readN(addr, 2) }

// Read8 reads 1 byte from addr, zero-extended to 64 bits.
func (m *Memory) Read8(addr uint64) (uint64, error) { return m.readN(addr, 1) }

// ReadWidth reads a value of the given width (1, 2, 4 or 8 bytes) from
// offset, zero-extended to 64 bits.
func (m *Memory) ReadWidth(offset uint64, width uint8) (uint64, error) {
	switch width {
	case 1:
		return m.Read8(offset)
	case 2:
		return m.Read16(offset)
	case 4:
		return m.Read32(offset)
	case 8:
		return m.Read64(offset)
	default:
		return 0, vmerr.Memory("invalid access width %d at 0x%x", width, offset)
	}
}

// WriteWidth writes value's low `width` bytes (1, 2, 4 or 8) at offset.
func (m *Memory) WriteWidth(offset uint64, width uint8, value uint64) error {
	switch width {
	case 1:
		return m.Write8(offset, value)
	case 2:
		return m.Write16(offset, value)
	case 4:
		return m.Write32(offset, value)
	case 8:
		return m.Write64(offset, value)
	default:
		return vmerr.Memory("invalid access width %d at 0x%x", width, offset)
	}
}

// SplitTaggedAddress decodes a tagged data-memory address: the top 4
// bits are the access width (1, 2, 4 or 8), the low 60 bits are the
// byte offset. This is the canonical map_mem(a) function from the ISA
// definition.
func SplitTaggedAddress(a uint64) (width uint8, offset uint64) {
	return uint8(a >> 60), a & ((1 << 60) - 1)
}

// MakeTaggedAddress is the inverse of SplitTaggedAddress, used by tests
// and the loader to build tagged addresses.
func MakeTaggedAddress(width uint8, offset uint64) uint64 {
	return uint64(width)<<60 | (offset & ((1 << 60) - 1))
}

// ReadTagged decodes addr as a tagged address and reads the indicated
// width from the indicated offset.
func (m *Memory) ReadTagged(addr uint64) (uint64, error) {
	width, offset := SplitTaggedAddress(addr)
	return m.ReadWidth(offset, width)
}

// WriteTagged decodes addr as a tagged address and writes value's low
// N bytes at the indicated offset.
func (m *Memory) WriteTagged(addr, value uint64) error {
	width, offset := SplitTaggedAddress(addr)
	return m.WriteWidth(offset, width, value)
}
