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

// Package httpurl parses absolute-form, origin-form and CONNECT
// authority-form request targets into field ranges (schema, host, port,
// path, query, fragment, userinfo), per spec's standalone URL parser
// utility. Unlike the original's HttpParserURL (offset/length pairs into
// the caller's buffer), fields are plain strings — the natural Go
// rendition of the same "field ranges" idea.
package httpurl

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidURL is returned for any structural violation of the URL
// grammar, mirroring the original's single InvalidUrl failure kind.
var ErrInvalidURL = errors.New("httpurl: invalid url")

// URL holds the decomposed fields of a parsed request target.
type URL struct {
	Scheme   string
	UserInfo string
	Host     string
	IsIPv6   bool
	Port     uint16
	HasPort  bool
	Path     string
	Query    string
	Fragment string
}

// Parse parses raw as an absolute-form URL ("scheme://[userinfo@]host[:port][path][?query][#fragment]"),
// an origin-form URL ("/path[?query][#fragment]"), or, when isConnect is
// true, a CONNECT authority-form target ("host:port").
func Parse(raw string, isConnect bool) (*URL, error) {
	if raw == "" {
		return nil, ErrInvalidURL
	}

	if isConnect {
		u := &URL{}
		if err := u.parseAuthority(raw); err != nil {
			return nil, err
		}
		return u, nil
	}

	if raw[0] == '/' {
		u := &URL{}
		rest, err := u.parsePathQueryFragment(raw)
		if err != nil {
			return nil, err
		}
		if rest != "" {
			return nil, ErrInvalidURL
		}
		return u, nil
	}

	return parseAbsolute(raw)
}

func parseAbsolute(raw string) (*URL, error) {
	schemeEnd := strings.Index(raw, "://")
	if schemeEnd <= 0 {
		return nil, ErrInvalidURL
	}
	scheme := raw[:schemeEnd]
	for i := 0; i < len(scheme); i++ {
		c := scheme[i]
		if !isAlpha(c) && !(i > 0 && (isDigit(c) || c == '+' || c == '-' || c == '.')) {
			return nil, ErrInvalidURL
		}
	}

	rest := raw[schemeEnd+3:]
	if rest == "" {
		return nil, ErrInvalidURL
	}

	u := &URL{Scheme: scheme}

	authEnd := len(rest)
	for i, c := range rest {
		if c == '/' || c == '?' || c == '#' {
			authEnd = i
			break
		}
	}
	authority := rest[:authEnd]
	remainder := rest[authEnd:]

	if err := u.parseAuthority(authority); err != nil {
		return nil, err
	}

	if remainder == "" {
		return u, nil
	}
	tail, err := u.parsePathQueryFragment(remainder)
	if err != nil {
		return nil, err
	}
	if tail != "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// parseAuthority parses "[userinfo@]host[:port]" (used for both the
// absolute-form authority component and CONNECT's authority-form target).
func (u *URL) parseAuthority(authority string) error {
	if authority == "" {
		return ErrInvalidURL
	}

	hostport := authority
	if at := strings.LastIndexByte(authority, '@'); at >= 0 {
		userinfo := authority[:at]
		for i := 0; i < len(userinfo); i++ {
			if !isUserinfoChar(userinfo[i]) {
				return ErrInvalidURL
			}
		}
		u.UserInfo = userinfo
		hostport = authority[at+1:]
	}

	if hostport == "" {
		return ErrInvalidURL
	}

	if hostport[0] == '[' {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return ErrInvalidURL
		}
		u.Host = hostport[1:end]
		u.IsIPv6 = true
		if !isValidIPv6Literal(u.Host) {
			return ErrInvalidURL
		}

		rest := hostport[end+1:]
		if rest == "" {
			return nil
		}
		if rest[0] != ':' {
			return ErrInvalidURL
		}
		return u.setPort(rest[1:])
	}

	colon := strings.LastIndexByte(hostport, ':')
	if colon < 0 {
		u.Host = hostport
	} else {
		u.Host = hostport[:colon]
		if err := u.setPort(hostport[colon+1:]); err != nil {
			return err
		}
	}

	if u.Host == "" {
		return ErrInvalidURL
	}
	for i := 0; i < len(u.Host); i++ {
		if !isHostChar(u.Host[i]) {
			return ErrInvalidURL
		}
	}
	return nil
}

func (u *URL) setPort(s string) error {
	if s == "" {
		return ErrInvalidURL
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return ErrInvalidURL
	}
	u.Port = uint16(n)
	u.HasPort = true
	return nil
}

// parsePathQueryFragment parses "[path][?query][#fragment]" from the
// front of s, returning any unconsumed suffix (always empty for
// well-formed input, non-empty only signals a caller-side structural
// error such as trailing garbage).
func (u *URL) parsePathQueryFragment(s string) (string, error) {
	path := s
	query := ""
	fragment := ""

	if h := strings.IndexByte(path, '#'); h >= 0 {
		fragment = path[h+1:]
		path = path[:h]
	}
	if q := strings.IndexByte(path, '?'); q >= 0 {
		query = path[q+1:]
		path = path[:q]
	}

	for i := 0; i < len(path); i++ {
		if !isURLChar(path[i]) {
			return "", ErrInvalidURL
		}
	}
	for i := 0; i < len(query); i++ {
		if !isURLChar(query[i]) && query[i] != '?' {
			return "", ErrInvalidURL
		}
	}
	for i := 0; i < len(fragment); i++ {
		if !isURLChar(fragment[i]) {
			return "", ErrInvalidURL
		}
	}

	u.Path = path
	u.Query = query
	u.Fragment = fragment
	return "", nil
}

func isValidIPv6Literal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isHex(c) || c == ':' || c == '.' || c == '%' {
			continue
		}
		return false
	}
	return true
}

func isAlpha(c byte) bool { l := c | 0x20; return l >= 'a' && l <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isHex(c byte) bool   { l := c | 0x20; return isDigit(c) || (l >= 'a' && l <= 'f') }

func isHostChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '.' || c == '-'
}

func isUserinfoChar(c byte) bool {
	if isAlpha(c) || isDigit(c) {
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')', '%', ';', ':', '&', '=', '+', '$', ',':
		return true
	}
	return false
}

// isURLChar is the lenient IS_URL_CHAR check (printable ASCII minus a
// short delimiter blacklist, plus any high-bit byte for raw UTF-8).
func isURLChar(c byte) bool {
	if c < 0x21 || c == 0x7f {
		return false
	}
	if c >= 0x80 {
		return true
	}
	switch c {
	case '"', '<', '>', '\\', '^', '`', '{', '|', '}':
		return false
	}
	return true
}
