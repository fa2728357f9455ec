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

package murmur

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/nabbar/ant-golib/codec"
)

// Hasher wraps a Seed that freezes on first use, replacing the source's
// process-global murmur seed with an explicit, single-owner configuration.
type Hasher struct {
	seed  Seed
	used  int32
	width int // 32 or 128
}

// New32 returns a codec.Coder computing MurmurHash3_x86_32, encoding the sum
// as 4 big-endian bytes.
func New32(seed Seed) codec.Coder {
	return &Hasher{seed: seed, width: 32}
}

// New128 returns a codec.Coder computing MurmurHash3_x64_128, encoding the
// sum as 16 big-endian bytes (h1 || h2).
func New128(seed Seed) codec.Coder {
	return &Hasher{seed: seed, width: 128}
}

func (h *Hasher) freeze() Seed {
	atomic.StoreInt32(&h.used, 1)
	return h.seed
}

func (h *Hasher) Encode(p []byte) []byte {
	seed := h.freeze()

	if h.width == 32 {
		out := make([]byte, 4)
		binary.BigEndian.PutUint32(out, Sum32(seed, p))
		return out
	}

	h1, h2 := Sum128(seed, p)
	out := make([]byte, 16)
	binary.BigEndian.PutUint64(out[:8], h1)
	binary.BigEndian.PutUint64(out[8:], h2)
	return out
}

func (h *Hasher) Decode(p []byte) ([]byte, error) {
	return nil, fmt.Errorf("unexpected call function")
}

func (h *Hasher) EncodeReader(r io.Reader) io.ReadCloser {
	b, err := io.ReadAll(r)
	if err != nil {
		b = nil
	}
	return io.NopCloser(bytes.NewReader(h.Encode(b)))
}

func (h *Hasher) DecodeReader(r io.Reader) io.ReadCloser { return nil }

func (h *Hasher) EncodeWriter(w io.Writer) io.WriteCloser {
	return &sumWriter{h: h, w: w}
}

func (h *Hasher) DecodeWriter(w io.Writer) io.WriteCloser { return nil }

func (h *Hasher) Reset() {}

type sumWriter struct {
	h   *Hasher
	w   io.Writer
	buf bytes.Buffer
}

func (s *sumWriter) Write(p []byte) (int, error) { return s.buf.Write(p) }

func (s *sumWriter) Close() error {
	_, err := s.w.Write(s.h.Encode(s.buf.Bytes()))
	return err
}
