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

// Package codec defines the Coder interface shared by every hand-rolled or
// wrapped codec in this module (base64, md5, sha1, murmur, siphash, gzip,
// utfconv), mirroring the shape of the teacher's own encoding package.
package codec

import "io"

// Coder is the unified interface for encoding and decoding operations,
// implemented by every codec sub-package.
type Coder interface {
	// Encode encodes the given byte slice.
	Encode(p []byte) []byte

	// Decode decodes the given byte slice.
	Decode(p []byte) ([]byte, error)

	// EncodeReader returns a reader that encodes bytes read from r.
	EncodeReader(r io.Reader) io.ReadCloser

	// DecodeReader returns a reader that decodes bytes read from r.
	DecodeReader(r io.Reader) io.ReadCloser

	// EncodeWriter returns a writer that encodes bytes before writing to w.
	EncodeWriter(w io.Writer) io.WriteCloser

	// DecodeWriter returns a writer that decodes bytes before writing to w.
	DecodeWriter(w io.Writer) io.WriteCloser

	// Reset clears any internal state, releasing buffers for reuse.
	Reset()
}
