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

import (
	"bytes"
	"strings"
)

// multipartScanner scans a multipart/form-data body for "--boundary"
// delimiters, per HttpParser.h's boundary-mode comment: it emits part
// headers via Callbacks.OnHeader (including the Content-Disposition
// name= and filename= parameters, surfaced as ordinary header text) and
// part bodies via Callbacks.OnBody, exactly as the host parser's own
// header/body callbacks do.
type multipartScanner struct {
	first []byte // "--" + boundary, matched once at the very start
	delim []byte // "\r\n--" + boundary, matched between parts

	buf []byte

	seenFirst bool
	inHeaders bool
	inBody    bool
	final     bool

	FormName string
	FileName string
}

func newMultipartScanner(boundary string) *multipartScanner {
	return &multipartScanner{
		first: []byte("--" + boundary),
		delim: []byte("\r\n--" + boundary),
	}
}

// feed consumes data into the scanner's internal buffer and advances as
// far as it can. It always reports having consumed the whole of data,
// since unmatched trailing bytes are retained internally pending the next
// call. done reports that the closing boundary (and the CRLF or "--"
// that follows it) has been recognised.
func (m *multipartScanner) feed(data []byte, cb Callbacks) (int, bool, error) {
	n := len(data)
	m.buf = append(m.buf, data...)

	for {
		if m.final {
			return n, true, nil
		}

		if !m.seenFirst {
			idx := bytes.Index(m.buf, m.first)
			if idx < 0 {
				m.trimPreamble(len(m.first))
				return n, false, nil
			}
			m.buf = m.buf[idx+len(m.first):]
			m.seenFirst = true
			m.inHeaders = false
			m.inBody = false
			if !m.consumeBoundaryTail() {
				return n, false, nil
			}
			continue
		}

		if m.inHeaders {
			progressed, err := m.consumeHeaders(cb)
			if err != nil {
				return n, false, err
			}
			if !progressed {
				return n, false, nil
			}
			continue
		}

		if m.inBody {
			idx := bytes.Index(m.buf, m.delim)
			if idx < 0 {
				tail := len(m.delim) - 1
				if len(m.buf) > tail {
					if err := cb.OnBody(m.buf[:len(m.buf)-tail]); err != nil {
						return n, false, err
					}
					m.buf = m.buf[len(m.buf)-tail:]
				}
				return n, false, nil
			}
			if idx > 0 {
				if err := cb.OnBody(m.buf[:idx]); err != nil {
					return n, false, err
				}
			}
			m.buf = m.buf[idx+len(m.delim):]
			m.inBody = false
			if !m.consumeBoundaryTail() {
				return n, false, nil
			}
			continue
		}

		return n, false, nil
	}
}

// trimPreamble keeps only as much trailing buffer as could still contain
// the start of a boundary match, discarding the (ignored) preamble.
func (m *multipartScanner) trimPreamble(keep int) {
	if len(m.buf) > keep {
		m.buf = m.buf[len(m.buf)-keep+1:]
	}
}

// consumeBoundaryTail decides, once a boundary token has just been
// matched, whether it is the final boundary ("--" follows) or an
// ordinary one (CRLF then part headers follow). Returns false if more
// data is needed to decide.
func (m *multipartScanner) consumeBoundaryTail() bool {
	if len(m.buf) < 2 {
		return false
	}
	if m.buf[0] == '-' && m.buf[1] == '-' {
		m.buf = m.buf[2:]
		m.final = true
		return true
	}
	if m.buf[0] == '\r' && m.buf[1] == '\n' {
		m.buf = m.buf[2:]
	} else if m.buf[0] == '\n' {
		m.buf = m.buf[1:]
	} else {
		return false
	}
	m.inHeaders = true
	return true
}

// consumeHeaders parses as many complete part-header lines as are
// buffered, switching into body mode on the blank line that ends the
// part's header block.
func (m *multipartScanner) consumeHeaders(cb Callbacks) (bool, error) {
	progressed := false
	for {
		idx := bytes.IndexByte(m.buf, '\n')
		if idx < 0 {
			return progressed, nil
		}
		line := m.buf[:idx]
		m.buf = m.buf[idx+1:]
		progressed = true

		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}

		if len(line) == 0 {
			m.inHeaders = false
			m.inBody = true
			return true, nil
		}

		if colon := bytes.IndexByte(line, ':'); colon >= 0 {
			key := bytes.TrimSpace(line[:colon])
			val := bytes.TrimSpace(line[colon+1:])
			if err := cb.OnHeader(key, val); err != nil {
				return progressed, err
			}
			if strings.EqualFold(string(key), "Content-Disposition") {
				if name, ok := parseDispositionParam(string(val), "name"); ok {
					m.FormName = name
				}
				if file, ok := parseDispositionParam(string(val), "filename"); ok {
					m.FileName = file
				}
			}
		}
	}
}

// parseDispositionParam extracts a `key="value"` (or unquoted) parameter
// from a Content-Disposition value, mirroring HttpParser::parseValue's
// semicolon-separated `key=value` scan.
func parseDispositionParam(val, key string) (string, bool) {
	for _, part := range strings.Split(val, ";") {
		part = strings.TrimSpace(part)
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(part[:eq]), key) {
			continue
		}
		v := strings.TrimSpace(part[eq+1:])
		v = strings.Trim(v, "\"")
		return v, true
	}
	return "", false
}
