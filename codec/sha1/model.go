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

package sha1

import (
	"fmt"
	"io"

	"github.com/nabbar/ant-golib/codec"
)

type crt struct {
	h *Digest
}

// New returns a codec.Coder computing FIPS 180-4 SHA-1 digests.
func New() codec.Coder {
	return &crt{h: NewDigest()}
}

func (o *crt) Encode(p []byte) []byte {
	if o.h == nil {
		o.h = NewDigest()
	}
	o.h.Reset()
	if len(p) > 0 {
		_, _ = o.h.Write(p)
	}
	return o.h.Sum(nil)
}

func (o *crt) Decode(p []byte) ([]byte, error) {
	return nil, fmt.Errorf("unexpected call function")
}

func (o *crt) EncodeReader(r io.Reader) io.ReadCloser {
	f := func(p []byte) (n int, err error) {
		n, err = r.Read(p)
		if n > 0 && o.h != nil {
			_, _ = o.h.Write(p[:n])
		}
		return n, err
	}
	c := func() error {
		if rc, ok := r.(io.Closer); ok {
			return rc.Close()
		}
		return nil
	}
	return &readWrap{f: f, c: c}
}

func (o *crt) DecodeReader(r io.Reader) io.ReadCloser { return nil }

func (o *crt) EncodeWriter(w io.Writer) io.WriteCloser {
	f := func(p []byte) (n int, err error) {
		n, err = w.Write(p)
		if n > 0 && o.h != nil {
			_, _ = o.h.Write(p[:n])
		}
		return n, err
	}
	c := func() error {
		if wc, ok := w.(io.Closer); ok {
			return wc.Close()
		}
		return nil
	}
	return &writeWrap{f: f, c: c}
}

func (o *crt) DecodeWriter(w io.Writer) io.WriteCloser { return nil }

func (o *crt) Reset() {
	if o.h != nil {
		o.h.Reset()
	}
}

type readWrap struct {
	f func(p []byte) (n int, err error)
	c func() error
}

func (r *readWrap) Read(p []byte) (int, error) { return r.f(p) }
func (r *readWrap) Close() error                { return r.c() }

type writeWrap struct {
	f func(p []byte) (n int, err error)
	c func() error
}

func (w *writeWrap) Write(p []byte) (int, error) { return w.f(p) }
func (w *writeWrap) Close() error                { return w.c() }
