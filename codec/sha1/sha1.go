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

// Package sha1 is a from-scratch implementation of FIPS 180-4 SHA-1, kept
// hand-rolled per the algorithm's public-domain, trivial-interface status
// rather than wrapped around crypto/sha1.
package sha1

import "encoding/binary"

const chunk = 64

// Digest holds the running state of a FIPS 180-4 SHA-1 computation.
type Digest struct {
	h   [5]uint32
	x   [chunk]byte
	nx  int
	len uint64
}

// NewDigest returns a fresh, zeroed SHA-1 digest.
func NewDigest() *Digest {
	d := &Digest{}
	d.Reset()
	return d
}

// Reset restores the digest to its initial state.
func (d *Digest) Reset() {
	d.h[0] = 0x67452301
	d.h[1] = 0xEFCDAB89
	d.h[2] = 0x98BADCFE
	d.h[3] = 0x10325476
	d.h[4] = 0xC3D2E1F0
	d.nx = 0
	d.len = 0
}

// Write absorbs p into the running digest.
func (d *Digest) Write(p []byte) (n int, err error) {
	n = len(p)
	d.len += uint64(n)

	if d.nx > 0 {
		c := copy(d.x[d.nx:], p)
		d.nx += c
		if d.nx == chunk {
			block(d, d.x[:])
			d.nx = 0
		}
		p = p[c:]
	}

	for len(p) >= chunk {
		block(d, p[:chunk])
		p = p[chunk:]
	}

	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}

	return n, nil
}

// Sum appends the current digest to b and returns the resulting slice.
func (d *Digest) Sum(b []byte) []byte {
	dd := *d
	hash := dd.checkSum()
	return append(b, hash[:]...)
}

func (d *Digest) checkSum() [20]byte {
	length := d.len

	var tmp [64 + 8]byte
	tmp[0] = 0x80
	if length%64 < 56 {
		d.Write(tmp[0 : 56-length%64])
	} else {
		d.Write(tmp[0 : 64+56-length%64])
	}

	length <<= 3
	binary.BigEndian.PutUint64(tmp[:8], length)
	d.Write(tmp[:8])

	var digest [20]byte
	for i, s := range d.h {
		binary.BigEndian.PutUint32(digest[i*4:], s)
	}

	return digest
}

func block(d *Digest, p []byte) {
	var w [80]uint32

	h0, h1, h2, h3, h4 := d.h[0], d.h[1], d.h[2], d.h[3], d.h[4]

	for len(p) >= chunk {
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(p[i*4:])
		}
		for i := 16; i < 80; i++ {
			w[i] = rotl32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
		}

		a, b, c, d0, e := h0, h1, h2, h3, h4

		for i := 0; i < 80; i++ {
			var f, k uint32
			switch {
			case i < 20:
				f = (b & c) | (^b & d0)
				k = 0x5A827999
			case i < 40:
				f = b ^ c ^ d0
				k = 0x6ED9EBA1
			case i < 60:
				f = (b & c) | (b & d0) | (c & d0)
				k = 0x8F1BBCDC
			default:
				f = b ^ c ^ d0
				k = 0xCA62C1D6
			}

			t := rotl32(a, 5) + f + e + k + w[i]
			e = d0
			d0 = c
			c = rotl32(b, 30)
			b = a
			a = t
		}

		h0 += a
		h1 += b
		h2 += c
		h3 += d0
		h4 += e

		p = p[chunk:]
	}

	d.h[0], d.h[1], d.h[2], d.h[3], d.h[4] = h0, h1, h2, h3, h4
}

func rotl32(x uint32, n uint) uint32 {
	return (x << n) | (x >> (32 - n))
}
