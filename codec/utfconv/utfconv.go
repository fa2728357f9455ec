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

// Package utfconv converts between UTF-8 and UTF-16/UCS-4, supplementing the
// distilled spec from original_source's StrConverter (AppUTF8ToWchar,
// AppWcharToUTF8, AppUTF8ToUCS2/4) with the stdlib unicode/utf8 + unicode/utf16
// codepoint machinery rather than a hand-rolled re-implementation, since the
// conversion itself is not in the spec's "reimplement from published
// references" list (only the hash/codec functions are).
package utfconv

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF8ToUTF16 converts a UTF-8 byte string to UTF-16 code units (little or
// big endian encoded as a flat uint16 slice, native order).
func UTF8ToUTF16(src []byte) []uint16 {
	runes := []rune(string(src))
	return utf16.Encode(runes)
}

// UTF16ToUTF8 converts UTF-16 code units back to UTF-8 bytes.
func UTF16ToUTF8(src []uint16) []byte {
	runes := utf16.Decode(src)
	return []byte(string(runes))
}

// UTF8ToUCS4 converts a UTF-8 byte string to UCS-4 (UTF-32) code points.
func UTF8ToUCS4(src []byte) []uint32 {
	out := make([]uint32, 0, len(src))
	for _, r := range string(src) {
		out = append(out, uint32(r))
	}
	return out
}

// UCS4ToUTF8 converts UCS-4 (UTF-32) code points back to UTF-8 bytes.
func UCS4ToUTF8(src []uint32) []byte {
	out := make([]byte, 0, len(src)*utf8.UTFMax)
	buf := make([]byte, utf8.UTFMax)
	for _, cp := range src {
		n := utf8.EncodeRune(buf, rune(cp))
		out = append(out, buf[:n]...)
	}
	return out
}
