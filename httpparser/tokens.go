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

package httpparser

// Header-token and URL-character validity, per HttpParserDef.h's
// TOKEN/IS_URL_CHAR/IS_HOST_CHAR macros. Strict mode rejects bytes lenient
// mode tolerates (high-bit bytes in URLs, underscore in hosts).

func isAlpha(c byte) bool { l := c | 0x20; return l >= 'a' && l <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }
func isHex(c byte) bool   { l := c | 0x20; return isDigit(c) || (l >= 'a' && l <= 'f') }

// isTokenChar reports whether c is a valid RFC 7230 header token
// character. Strict mode is the only mode the original exposes for header
// tokens (TOKEN(c) degenerates to the same table either way); kept as a
// parameter for symmetry with the URL/host checks and possible future
// relaxation.
func isTokenChar(c byte, strict bool) bool {
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return isAlnum(c)
}

// isURLChar mirrors IS_URL_CHAR: strict mode restricts to the printable,
// non-control, non-space ASCII range; lenient mode additionally accepts
// any byte with the high bit set (raw UTF-8 in URLs).
func isURLChar(c byte, strict bool) bool {
	if c < 0x21 || c == 0x7f {
		return false
	}
	if c >= 0x80 {
		return !strict
	}
	switch c {
	case '"', '<', '>', '\\', '^', '`', '{', '|', '}':
		return false
	}
	return true
}

// isHostChar mirrors IS_HOST_CHAR: alnum, '.', '-'; lenient mode also
// accepts '_'.
func isHostChar(c byte, strict bool) bool {
	if isAlnum(c) || c == '.' || c == '-' {
		return true
	}
	return !strict && c == '_'
}

func isUserinfoChar(c byte) bool {
	if isAlnum(c) {
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')', '%', ';', ':', '&', '=', '+', '$', ',':
		return true
	}
	return false
}
