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

package base64

import (
	"bytes"
	"io"

	"github.com/nabbar/ant-golib/codec"
)

type crt struct {
	enc *Encoding
}

// New returns a codec.Coder using the standard RFC 4648 alphabet.
func New() codec.Coder {
	return &crt{enc: NewEncoding(Standard)}
}

// NewURLSafe returns a codec.Coder using the URL-safe RFC 4648 alphabet.
func NewURLSafe() codec.Coder {
	return &crt{enc: NewEncoding(URLSafe)}
}

func (o *crt) Encode(p []byte) []byte {
	return o.enc.Encode(p)
}

func (o *crt) Decode(p []byte) ([]byte, error) {
	return o.enc.Decode(p)
}

func (o *crt) EncodeReader(r io.Reader) io.ReadCloser {
	b, err := io.ReadAll(r)
	if err != nil {
		b = nil
	}
	return io.NopCloser(bytes.NewReader(o.enc.Encode(b)))
}

func (o *crt) DecodeReader(r io.Reader) io.ReadCloser {
	b, err := io.ReadAll(r)
	if err != nil {
		b = nil
	}
	d, err := o.enc.Decode(b)
	if err != nil {
		d = nil
	}
	return io.NopCloser(bytes.NewReader(d))
}

func (o *crt) EncodeWriter(w io.Writer) io.WriteCloser {
	return &encodeWriter{enc: o.enc, w: w}
}

func (o *crt) DecodeWriter(w io.Writer) io.WriteCloser {
	return &decodeWriter{enc: o.enc, w: w}
}

func (o *crt) Reset() {}

type encodeWriter struct {
	enc *Encoding
	w   io.Writer
	buf bytes.Buffer
}

func (e *encodeWriter) Write(p []byte) (int, error) {
	return e.buf.Write(p)
}

func (e *encodeWriter) Close() error {
	_, err := e.w.Write(e.enc.Encode(e.buf.Bytes()))
	if wc, ok := e.w.(io.Closer); ok {
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

type decodeWriter struct {
	enc *Encoding
	w   io.Writer
	buf bytes.Buffer
}

func (d *decodeWriter) Write(p []byte) (int, error) {
	return d.buf.Write(p)
}

func (d *decodeWriter) Close() error {
	dec, err := d.enc.Decode(d.buf.Bytes())
	if err != nil {
		return err
	}
	_, err = d.w.Write(dec)
	if wc, ok := d.w.(io.Closer); ok {
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
