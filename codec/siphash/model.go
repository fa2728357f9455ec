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

package siphash

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nabbar/ant-golib/codec"
)

type crt struct {
	key Key
}

// New returns a codec.Coder computing SipHash-2-4 under the given key,
// encoding the sum as 8 big-endian bytes.
func New(k Key) codec.Coder {
	return &crt{key: k}
}

func (o *crt) Encode(p []byte) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, Sum64(o.key, p))
	return out
}

func (o *crt) Decode(p []byte) ([]byte, error) {
	return nil, fmt.Errorf("unexpected call function")
}

func (o *crt) EncodeReader(r io.Reader) io.ReadCloser {
	b, err := io.ReadAll(r)
	if err != nil {
		b = nil
	}
	return io.NopCloser(bytes.NewReader(o.Encode(b)))
}

func (o *crt) DecodeReader(r io.Reader) io.ReadCloser { return nil }

func (o *crt) EncodeWriter(w io.Writer) io.WriteCloser {
	return &sumWriter{c: o, w: w}
}

func (o *crt) DecodeWriter(w io.Writer) io.WriteCloser { return nil }

func (o *crt) Reset() {}

type sumWriter struct {
	c   *crt
	w   io.Writer
	buf bytes.Buffer
}

func (s *sumWriter) Write(p []byte) (int, error) { return s.buf.Write(p) }

func (s *sumWriter) Close() error {
	_, err := s.w.Write(s.c.Encode(s.buf.Bytes()))
	return err
}
