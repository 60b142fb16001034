/*
 * Enigma VM - Hex formatting helpers for the debug monitor.
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

// Package hexdump formats raw bytes for the monitor's "mem" command:
// sixteen bytes per line, offset on the left, hex on the right, and an
// ASCII gutter with unprintable bytes shown as '.'.
package hexdump

import "strings"

var hexMap = "0123456789abcdef"

// FormatByte writes a single byte as two hex digits.
func FormatByte(str *strings.Builder, b byte) {
	str.WriteByte(hexMap[(b>>4)&0xf])
	str.WriteByte(hexMap[b&0xf])
}

// FormatOffset writes a 64-bit offset as 16 hex digits.
func FormatOffset(str *strings.Builder, offset uint64) {
	for shift := 60; shift >= 0; shift -= 4 {
		str.WriteByte(hexMap[(offset>>uint(shift))&0xf])
	}
}

// Dump renders data (read starting at baseOffset) as a multi-line hex
// dump, sixteen bytes per row.
func Dump(baseOffset uint64, data []byte) string {
	var out strings.Builder
	for row := 0; row < len(data); row += 16 {
		end := row + 16
		if end > len(data) {
			end = len(data)
		}
		chunk := data[row:end]

		FormatOffset(&out, baseOffset+uint64(row))
		out.WriteString("  ")
		for i, b := range chunk {
			FormatByte(&out, b)
			out.WriteByte(' ')
			if i == 7 {
				out.WriteByte(' ')
			}
		}
		for i := len(chunk); i < 16; i++ {
			out.WriteString("   ")
			if i == 7 {
				out.WriteByte(' ')
			}
		}
		out.WriteString(" |")
		for _, b := range chunk {
			if b >= 0x20 && b < 0x7f {
				out.WriteByte(b)
			} else {
				out.WriteByte('.')
			}
		}
		out.WriteString("|\n")
	}
	return out.String()
}
