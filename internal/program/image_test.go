/*
 * Enigma VM - Program image round-trip tests.
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

package program

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	img := &Image{
		Entry:        2,
		Instructions: []uint64{0x1, 0x0102030405060708, 0xffffffffffffffff},
		Data:         []byte{0xde, 0xad, 0xbe, 0xef},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Entry != img.Entry {
		t.Fatalf("entry = %d, want %d", got.Entry, img.Entry)
	}
	if len(got.Instructions) != len(img.Instructions) {
		t.Fatalf("instruction count = %d, want %d", len(got.Instructions), len(img.Instructions))
	}
	for i := range img.Instructions {
		if got.Instructions[i] != img.Instructions[i] {
			t.Fatalf("instruction %d = %#x, want %#x", i, got.Instructions[i], img.Instructions[i])
		}
	}
	if !bytes.Equal(got.Data, img.Data) {
		t.Fatalf("data = %x, want %x", got.Data, img.Data)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("NOPE" + string(make([]byte, 24)))
	if _, err := Decode(buf); err != errBadMagic {
		t.Fatalf("expected errBadMagic, got %v", err)
	}
}

func TestDecodeRejectsTruncatedInstructions(t *testing.T) {
	img := &Image{Instructions: []uint64{1, 2, 3}}
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	truncated := bytes.NewBuffer(buf.Bytes()[:buf.Len()-8])
	if _, err := Decode(truncated); err != errTruncated {
		t.Fatalf("expected errTruncated, got %v", err)
	}
}

func TestDecodeEmptyImage(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, &Image{}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Instructions) != 0 || len(got.Data) != 0 {
		t.Fatalf("expected empty image, got %+v", got)
	}
}
