/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package utfconv

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nabbar/ant-golib/codec"
)

type crt struct{}

// New returns a codec.Coder that encodes UTF-8 to UTF-16 (native-endian
// uint16s packed as little-endian bytes) and decodes the reverse.
func New() codec.Coder {
	return &crt{}
}

func (o *crt) Encode(p []byte) []byte {
	units := UTF8ToUTF16(p)
	out := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[i*2:], u)
	}
	return out
}

func (o *crt) Decode(p []byte) ([]byte, error) {
	if len(p)%2 != 0 {
		return nil, fmt.Errorf("utfconv: odd byte length %d is not valid UTF-16", len(p))
	}
	units := make([]uint16, len(p)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(p[i*2:])
	}
	return UTF16ToUTF8(units), nil
}

func (o *crt) EncodeReader(r io.Reader) io.ReadCloser {
	b, err := io.ReadAll(r)
	if err != nil {
		b = nil
	}
	return io.NopCloser(bytes.NewReader(o.Encode(b)))
}

func (o *crt) DecodeReader(r io.Reader) io.ReadCloser {
	b, err := io.ReadAll(r)
	if err != nil {
		b = nil
	}
	d, err := o.Decode(b)
	if err != nil {
		d = nil
	}
	return io.NopCloser(bytes.NewReader(d))
}

func (o *crt) EncodeWriter(w io.Writer) io.WriteCloser {
	return &bufWriter{w: w, fn: o.Encode}
}

func (o *crt) DecodeWriter(w io.Writer) io.WriteCloser {
	return &bufWriter{w: w, fn: func(p []byte) []byte {
		d, err := o.Decode(p)
		if err != nil {
			return nil
		}
		return d
	}}
}

func (o *crt) Reset() {}

type bufWriter struct {
	w  io.Writer
	fn func([]byte) []byte
	buf bytes.Buffer
}

func (b *bufWriter) Write(p []byte) (int, error) { return b.buf.Write(p) }

func (b *bufWriter) Close() error {
	_, err := b.w.Write(b.fn(b.buf.Bytes()))
	return err
}
