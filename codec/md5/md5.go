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

// Package md5 is a from-scratch implementation of RFC 1321, kept hand-rolled
// per the algorithm's public-domain, trivial-interface status rather than
// wrapped around crypto/md5.
package md5

import "encoding/binary"

const (
	chunk     = 64
	init0     = 0x67452301
	init1     = 0xefcdab89
	init2     = 0x98badcfe
	init3     = 0x10325476
)

var shift = [64]uint{
	7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22,
	5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20,
	4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23,
	6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21,
}

var table = [64]uint32{
	0xd76aa478, 0xe8c7b756, 0x242070db, 0xc1bdceee,
	0xf57c0faf, 0x4787c62a, 0xa8304613, 0xfd469501,
	0x698098d8, 0x8b44f7af, 0xffff5bb1, 0x895cd7be,
	0x6b901122, 0xfd987193, 0xa679438e, 0x49b40821,
	0xf61e2562, 0xc040b340, 0x265e5a51, 0xe9b6c7aa,
	0xd62f105d, 0x02441453, 0xd8a1e681, 0xe7d3fbc8,
	0x21e1cde6, 0xc33707d6, 0xf4d50d87, 0x455a14ed,
	0xa9e3e905, 0xfcefa3f8, 0x676f02d9, 0x8d2a4c8a,
	0xfffa3942, 0x8771f681, 0x6d9d6122, 0xfde5380c,
	0xa4beea44, 0x4bdecfa9, 0xf6bb4b60, 0xbebfbc70,
	0x289b7ec6, 0xeaa127fa, 0xd4ef3085, 0x04881d05,
	0xd9d4d039, 0xe6db99e5, 0x1fa27cf8, 0xc4ac5665,
	0xf4292244, 0x432aff97, 0xab9423a7, 0xfc93a039,
	0x655b59c3, 0x8f0ccc92, 0xffeff47d, 0x85845dd1,
	0x6fa87e4f, 0xfe2ce6e0, 0xa3014314, 0x4e0811a1,
	0xf7537e82, 0xbd3af235, 0x2ad7d2bb, 0xeb86d391,
}

// Digest holds the running state of an RFC 1321 MD5 computation.
type Digest struct {
	s   [4]uint32
	x   [chunk]byte
	nx  int
	len uint64
}

// NewDigest returns a fresh, zeroed MD5 digest.
func NewDigest() *Digest {
	d := &Digest{}
	d.Reset()
	return d
}

// Reset restores the digest to its initial state.
func (d *Digest) Reset() {
	d.s[0], d.s[1], d.s[2], d.s[3] = init0, init1, init2, init3
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

func (d *Digest) checkSum() [16]byte {
	length := d.len

	var tmp [72]byte
	tmp[0] = 0x80
	if length%64 < 56 {
		d.Write(tmp[0 : 56-length%64])
	} else {
		d.Write(tmp[0 : 64+56-length%64])
	}

	length <<= 3
	binary.LittleEndian.PutUint64(tmp[:8], length)
	d.Write(tmp[:8])

	var digest [16]byte
	binary.LittleEndian.PutUint32(digest[0:], d.s[0])
	binary.LittleEndian.PutUint32(digest[4:], d.s[1])
	binary.LittleEndian.PutUint32(digest[8:], d.s[2])
	binary.LittleEndian.PutUint32(digest[12:], d.s[3])

	return digest
}

func block(d *Digest, p []byte) {
	a, b, c, dd := d.s[0], d.s[1], d.s[2], d.s[3]

	for len(p) >= chunk {
		aa, bb, cc, ddd := a, b, c, dd

		var x [16]uint32
		for i := 0; i < 16; i++ {
			x[i] = binary.LittleEndian.Uint32(p[i*4:])
		}

		for i := 0; i < 64; i++ {
			var f uint32
			var g int

			switch {
			case i < 16:
				f = (b & c) | (^b & dd)
				g = i
			case i < 32:
				f = (dd & b) | (^dd & c)
				g = (5*i + 1) % 16
			case i < 48:
				f = b ^ c ^ dd
				g = (3*i + 5) % 16
			default:
				f = c ^ (b | ^dd)
				g = (7 * i) % 16
			}

			f += a + table[i] + x[g]
			a, dd, c = dd, c, b
			b += leftRotate(f, shift[i])
		}

		a += aa
		b += bb
		c += cc
		dd += ddd

		p = p[chunk:]
	}

	d.s[0], d.s[1], d.s[2], d.s[3] = a, b, c, dd
}

func leftRotate(x uint32, n uint) uint32 {
	return (x << n) | (x >> (32 - n))
}

// Sum128 returns the MD5 digest of p as a 16-byte array.
func Sum128(p []byte) [16]byte {
	d := NewDigest()
	_, _ = d.Write(p)
	var out [16]byte
	copy(out[:], d.Sum(nil))
	return out
}
