/*
 * Enigma VM - Program image container format.
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

// Package program reads and writes the assembled program image the
// command line loads into a VM: a small header naming how many
// instruction words and data bytes follow, then the words themselves.
// The assembler that emits these images is an external collaborator;
// this package only knows the container format.
package program

import (
	"encoding/binary"
	"errors"
	"io"
)

// magic identifies an enigma program image. Anything else in the
// first four bytes is rejected rather than guessed at.
const magic = "EVM1"

var (
	errBadMagic   = errors.New("program: not an enigma image")
	errTruncated  = errors.New("program: truncated image")
	errEmptyEntry = errors.New("program: entry point beyond instruction stream")
)

// Image is a decoded program: the instruction words to load into
// instruction memory starting at offset 0, the data bytes to load into
// data memory starting at offset 0x100, and the pc value execution
// begins at.
type Image struct {
	Entry        uint64
	Instructions []uint64
	Data         []byte
}

// Encode serialises img in the container format:
//
//	4 bytes   magic "EVM1"
//	8 bytes   entry point
//	8 bytes   instruction word count N
//	8 bytes   data byte count M
//	N*8 bytes instruction words, big-endian
//	M bytes   data bytes
func Encode(w io.Writer, img *Image) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}
	header := make([]byte, 24)
	binary.BigEndian.PutUint64(header[0:8], img.Entry)
	binary.BigEndian.PutUint64(header[8:16], uint64(len(img.Instructions)))
	binary.BigEndian.PutUint64(header[16:24], uint64(len(img.Data)))
	if _, err := w.Write(header); err != nil {
		return err
	}
	instrBuf := make([]byte, 8)
	for _, word := range img.Instructions {
		binary.BigEndian.PutUint64(instrBuf, word)
		if _, err := w.Write(instrBuf); err != nil {
			return err
		}
	}
	if len(img.Data) > 0 {
		if _, err := w.Write(img.Data); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a container built by Encode.
func Decode(r io.Reader) (*Image, error) {
	hdr := make([]byte, 4+24)
	if _, err := io.ReadFull(r, hdr); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errTruncated
		}
		return nil, err
	}
	if string(hdr[0:4]) != magic {
		return nil, errBadMagic
	}
	entry := binary.BigEndian.Uint64(hdr[4:12])
	numInstr := binary.BigEndian.Uint64(hdr[12:20])
	numData := binary.BigEndian.Uint64(hdr[20:28])

	if numInstr > 0 && entry >= numInstr {
		return nil, errEmptyEntry
	}

	instrBytes := make([]byte, numInstr*8)
	if _, err := io.ReadFull(r, instrBytes); err != nil {
		return nil, errTruncated
	}
	instructions := make([]uint64, numInstr)
	for i := range instructions {
		instructions[i] = binary.BigEndian.Uint64(instrBytes[i*8 : i*8+8])
	}

	data := make([]byte, numData)
	if numData > 0 {
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, errTruncated
		}
	}

	return &Image{Entry: entry, Instructions: instructions, Data: data}, nil
}
