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

// Package base64 is a from-scratch implementation of RFC 4648 (standard and
// URL-safe alphabets), kept hand-rolled per the algorithm's public-domain,
// trivial-interface status rather than wrapped around encoding/base64.
package base64

import "fmt"

const (
	stdAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	urlAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	padChar     = '='
)

// Alphabet selects which RFC 4648 table an Encoding uses.
type Alphabet bool

const (
	Standard Alphabet = false
	URLSafe  Alphabet = true
)

// Encoding implements the RFC 4648 alphabet/decode tables for one variant.
type Encoding struct {
	enc     string
	dec     [256]int8
	padding bool
}

// NewEncoding returns an Encoding for the given alphabet, padded by default.
func NewEncoding(a Alphabet) *Encoding {
	e := &Encoding{padding: true}
	if a == URLSafe {
		e.enc = urlAlphabet
	} else {
		e.enc = stdAlphabet
	}

	for i := range e.dec {
		e.dec[i] = -1
	}
	for i := 0; i < len(e.enc); i++ {
		e.dec[e.enc[i]] = int8(i)
	}

	return e
}

// WithPadding toggles whether Encode emits trailing '=' padding.
func (e *Encoding) WithPadding(pad bool) *Encoding {
	e.padding = pad
	return e
}

// Encode returns the base64 encoding of src.
func (e *Encoding) Encode(src []byte) []byte {
	if len(src) == 0 {
		return []byte{}
	}

	n := (len(src) + 2) / 3 * 4
	dst := make([]byte, 0, n)

	for i := 0; i < len(src); i += 3 {
		var b0, b1, b2 byte
		remaining := len(src) - i

		b0 = src[i]
		if remaining > 1 {
			b1 = src[i+1]
		}
		if remaining > 2 {
			b2 = src[i+2]
		}

		dst = append(dst,
			e.enc[b0>>2],
			e.enc[(b0&0x03)<<4|(b1>>4)],
		)

		if remaining > 1 {
			dst = append(dst, e.enc[(b1&0x0F)<<2|(b2>>6)])
		} else if e.padding {
			dst = append(dst, padChar)
		}

		if remaining > 2 {
			dst = append(dst, e.enc[b2&0x3F])
		} else if e.padding {
			dst = append(dst, padChar)
		}
	}

	return dst
}

// Decode returns the bytes represented by the base64 string src.
func (e *Encoding) Decode(src []byte) ([]byte, error) {
	var clean []byte
	for _, c := range src {
		if c == padChar {
			break
		}
		clean = append(clean, c)
	}

	if len(clean)%4 == 1 {
		return nil, fmt.Errorf("base64: invalid input length %d", len(clean))
	}

	dst := make([]byte, 0, len(clean)*3/4+3)

	for i := 0; i < len(clean); i += 4 {
		var quad [4]int8
		n := 0
		for j := 0; j < 4 && i+j < len(clean); j++ {
			v := e.dec[clean[i+j]]
			if v < 0 {
				return nil, fmt.Errorf("base64: invalid character %q", clean[i+j])
			}
			quad[j] = v
			n++
		}

		dst = append(dst, byte(quad[0])<<2|byte(quad[1])>>4)
		if n > 2 {
			dst = append(dst, byte(quad[1])<<4|byte(quad[2])>>2)
		}
		if n > 3 {
			dst = append(dst, byte(quad[2])<<6|byte(quad[3]))
		}
	}

	return dst, nil
}
