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

// Package gzip wraps compress/gzip behind the codec.Coder shape, the way the
// teacher's encoding/sha256 wraps crypto/sha256: the Gzip framing itself is
// not reimplemented, only adapted to the shared interface.
package gzip

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/nabbar/ant-golib/codec"
)

type crt struct {
	level int
}

// New returns a codec.Coder wrapping compress/gzip at the default
// compression level.
func New() codec.Coder {
	return &crt{level: gzip.DefaultCompression}
}

// NewLevel returns a codec.Coder wrapping compress/gzip at the given level.
func NewLevel(level int) codec.Coder {
	return &crt{level: level}
}

func (o *crt) Encode(p []byte) []byte {
	buf := &bytes.Buffer{}
	w, err := gzip.NewWriterLevel(buf, o.level)
	if err != nil {
		w = gzip.NewWriter(buf)
	}
	if _, err = w.Write(p); err != nil {
		return nil
	}
	if err = w.Close(); err != nil {
		return nil
	}
	return buf.Bytes()
}

func (o *crt) Decode(p []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(p))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

func (o *crt) EncodeReader(r io.Reader) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		w, err := gzip.NewWriterLevel(pw, o.level)
		if err != nil {
			w = gzip.NewWriter(pw)
		}
		_, err = io.Copy(w, r)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		_ = pw.CloseWithError(err)
	}()
	return pr
}

func (o *crt) DecodeReader(r io.Reader) io.ReadCloser {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return io.NopCloser(&erroringReader{err: err})
	}
	return gr
}

func (o *crt) EncodeWriter(w io.Writer) io.WriteCloser {
	gw, err := gzip.NewWriterLevel(w, o.level)
	if err != nil {
		gw = gzip.NewWriter(w)
	}
	return gw
}

func (o *crt) DecodeWriter(w io.Writer) io.WriteCloser {
	pr, pw := io.Pipe()
	go func() {
		gr, err := gzip.NewReader(pr)
		if err != nil {
			_ = pr.CloseWithError(err)
			return
		}
		_, err = io.Copy(w, gr)
		_ = pr.CloseWithError(err)
	}()
	return pw
}

func (o *crt) Reset() {}

type erroringReader struct{ err error }

func (e *erroringReader) Read([]byte) (int, error) { return 0, e.err }
