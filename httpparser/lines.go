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
	"strconv"
	"strings"
)

func (p *Parser) stepStartLine(rest []byte) (int, error) {
	line, n, ok, err := p.readLine(rest, maxHeaderBudget(p))
	if err != nil {
		return n, err
	}
	if !ok {
		return n, nil
	}
	if len(line) == 0 {
		return n, nil
	}

	if err := p.cb.OnMessageBegin(); err != nil {
		return n, err
	}

	isResponse := p.kind == Response || (p.kind == Both && bytes.HasPrefix(line, []byte("HTTP/")))
	if isResponse {
		if err := p.parseStatusLine(line); err != nil {
			return n, err
		}
	} else {
		if err := p.parseRequestLine(line); err != nil {
			return n, err
		}
	}

	p.state = stateHeaderLine
	return n, nil
}

func (p *Parser) parseRequestLine(line []byte) error {
	parts := bytes.SplitN(line, []byte(" "), 3)
	if len(parts) != 3 {
		return ErrorInvalidConstant.Error(nil)
	}

	if !validMethod(string(parts[0])) {
		return ErrorInvalidMethod.Error(nil)
	}
	p.Method = Method(parts[0])

	rawURL := parts[1]
	for _, c := range rawURL {
		if !isURLChar(c, p.Strict) {
			return ErrorInvalidURL.Error(nil)
		}
	}

	major, minor, err := parseVersion(parts[2])
	if err != nil {
		return err
	}
	p.VersionMajor, p.VersionMinor = major, minor

	if err := p.cb.OnURL(rawURL); err != nil {
		return err
	}
	return nil
}

func (p *Parser) parseStatusLine(line []byte) error {
	parts := bytes.SplitN(line, []byte(" "), 3)
	if len(parts) < 2 {
		return ErrorInvalidConstant.Error(nil)
	}

	major, minor, err := parseVersion(parts[0])
	if err != nil {
		return err
	}
	p.VersionMajor, p.VersionMinor = major, minor

	code, convErr := strconv.Atoi(string(parts[1]))
	if convErr != nil || code < 100 || code > 999 {
		return ErrorInvalidStatus.Error(nil)
	}
	p.StatusCode = code

	var reason []byte
	if len(parts) == 3 {
		reason = parts[2]
	}
	if err := p.cb.OnStatus(reason); err != nil {
		return err
	}
	return nil
}

func parseVersion(v []byte) (major, minor int, err error) {
	if !bytes.HasPrefix(v, []byte("HTTP/")) {
		return 0, 0, ErrorInvalidVersion.Error(nil)
	}
	rest := v[len("HTTP/"):]
	dot := bytes.IndexByte(rest, '.')
	if dot < 0 {
		return 0, 0, ErrorInvalidVersion.Error(nil)
	}
	maj, e1 := strconv.Atoi(string(rest[:dot]))
	min_, e2 := strconv.Atoi(string(rest[dot+1:]))
	if e1 != nil || e2 != nil || maj < 0 || min_ < 0 {
		return 0, 0, ErrorInvalidVersion.Error(nil)
	}
	return maj, min_, nil
}

func validMethod(m string) bool {
	switch Method(m) {
	case MethodGet, MethodHead, MethodPost, MethodPut, MethodDelete, MethodConnect,
		MethodOptions, MethodTrace, MethodPatch, MethodCopy, MethodLock, MethodMkcol,
		MethodMove, MethodPropfind, MethodProppatch, MethodSearch, MethodUnlock,
		MethodReport, MethodMerge, MethodPurge:
		return true
	}
	return false
}

func (p *Parser) stepHeaderLine(rest []byte) (int, error) {
	line, n, ok, err := p.readLine(rest, maxHeaderBudget(p))
	if err != nil {
		return n, err
	}
	if !ok {
		return n, nil
	}

	if len(line) == 0 {
		if err := p.flushPendingHeader(); err != nil {
			return n, err
		}
		return n, p.onHeadersComplete()
	}

	if (line[0] == ' ' || line[0] == '\t') && p.havePending {
		p.pendingValue += " " + strings.TrimSpace(string(line))
		return n, nil
	}

	if err := p.flushPendingHeader(); err != nil {
		return n, err
	}

	colon := bytes.IndexByte(line, ':')
	if colon < 0 {
		return n, ErrorInvalidHeaderToken.Error(nil)
	}
	key := line[:colon]
	for _, c := range key {
		if !isTokenChar(c, p.Strict) {
			return n, ErrorInvalidHeaderToken.Error(nil)
		}
	}

	p.pendingKey = string(key)
	p.pendingValue = string(bytes.TrimSpace(line[colon+1:]))
	p.havePending = true
	return n, nil
}

func (p *Parser) flushPendingHeader() error {
	if !p.havePending {
		return nil
	}
	key, val := p.pendingKey, p.pendingValue
	p.havePending = false

	switch strings.ToLower(key) {
	case "content-length":
		if err := p.handleContentLength(val); err != nil {
			return err
		}
	case "transfer-encoding":
		if err := p.handleTransferEncoding(val); err != nil {
			return err
		}
	case "connection":
		p.handleConnection(val)
	case "content-type":
		p.handleContentType(val)
	}

	if err := p.cb.OnHeader([]byte(key), []byte(val)); err != nil {
		return err
	}
	return nil
}

func (p *Parser) handleContentLength(val string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil || n < 0 {
		return ErrorInvalidContentLength.Error(nil)
	}

	if p.flags.has(flagContentLength) {
		// redesigned per spec: a repeated Content-Length with a differing
		// value is always rejected, lenient mode or not.
		if p.contentLength != n {
			return ErrorInvalidContentLength.Error(nil)
		}
		return nil
	}

	if p.flags.has(flagChunked) && !p.LenientBody {
		return ErrorInvalidTransferEncoding.Error(nil)
	}

	p.flags.set(flagContentLength)
	p.hasContentLength = true
	p.contentLength = n
	return nil
}

func (p *Parser) handleTransferEncoding(val string) error {
	if !strings.Contains(strings.ToLower(val), "chunked") {
		return nil
	}
	if p.hasContentLength && !p.LenientBody {
		return ErrorInvalidTransferEncoding.Error(nil)
	}
	p.flags.set(flagChunked)
	return nil
}

func (p *Parser) handleConnection(val string) {
	lv := strings.ToLower(val)
	if strings.Contains(lv, "close") {
		p.flags.set(flagConnectionClose)
	}
	if strings.Contains(lv, "keep-alive") {
		p.flags.set(flagConnectionKeepAlive)
	}
	if strings.Contains(lv, "upgrade") {
		p.flags.set(flagConnectionUpgrade)
	}
}

func (p *Parser) handleContentType(val string) {
	lv := strings.ToLower(val)
	if !strings.HasPrefix(strings.TrimSpace(lv), "multipart/") {
		return
	}
	idx := strings.Index(lv, "boundary=")
	if idx < 0 {
		return
	}
	b := strings.TrimSpace(val[idx+len("boundary="):])
	if semi := strings.IndexByte(b, ';'); semi >= 0 {
		b = strings.TrimSpace(b[:semi])
	}
	b = strings.Trim(b, "\"")
	if b == "" {
		return
	}
	p.isMultipart = true
	p.multipartBoundary = b
}

func (p *Parser) onHeadersComplete() error {
	action, err := p.cb.OnHeadersComplete()
	if err != nil {
		return err
	}
	p.headAction = action

	if p.flags.has(flagConnectionUpgrade) {
		p.flags.set(flagUpgrade)
	}

	noBody := action != Continue
	if p.kind != Request {
		if p.StatusCode/100 == 1 || p.StatusCode == 204 || p.StatusCode == 304 {
			noBody = true
		}
	}

	if action == NoBodyNorMore {
		if err := p.cb.OnMessageComplete(); err != nil {
			return err
		}
		p.state = stateDead
		return nil
	}

	if p.Upgrade() {
		if err := p.cb.OnMessageComplete(); err != nil {
			return err
		}
		p.state = stateDead
		return nil
	}

	if noBody {
		if err := p.cb.OnMessageComplete(); err != nil {
			return err
		}
		p.finishMessage()
		return nil
	}

	switch {
	case p.isMultipart:
		p.mp = newMultipartScanner(p.multipartBoundary)
		p.state = stateBoundaryBody
	case p.flags.has(flagChunked):
		p.state = stateChunkSize
	case p.hasContentLength:
		if p.contentLength == 0 {
			if err := p.cb.OnMessageComplete(); err != nil {
				return err
			}
			p.finishMessage()
			return nil
		}
		p.bodyRemaining = p.contentLength
		p.state = stateBodyIdentity
	default:
		if p.kind == Request {
			if err := p.cb.OnMessageComplete(); err != nil {
				return err
			}
			p.finishMessage()
			return nil
		}
		p.state = stateBodyIdentityEOF
	}
	return nil
}

func (p *Parser) finishMessage() {
	if !p.ShouldKeepAlive() {
		p.state = stateDead
		return
	}

	kind, cb, userData := p.kind, p.cb, p.UserData
	maxHeader, strict, lenient := p.MaxHeaderSize, p.Strict, p.LenientBody

	*p = Parser{
		kind:          kind,
		cb:            cb,
		UserData:      userData,
		MaxHeaderSize: maxHeader,
		Strict:        strict,
		LenientBody:   lenient,
		state:         stateStartLine,
	}
}

func (p *Parser) stepBodyIdentity(rest []byte) (int, error) {
	n := len(rest)
	if int64(n) > p.bodyRemaining {
		n = int(p.bodyRemaining)
	}
	if n > 0 {
		if err := p.cb.OnBody(rest[:n]); err != nil {
			return n, err
		}
	}
	p.bodyRemaining -= int64(n)
	if p.bodyRemaining == 0 {
		if err := p.cb.OnMessageComplete(); err != nil {
			return n, err
		}
		p.finishMessage()
	}
	return n, nil
}

func (p *Parser) stepBodyEOF(rest []byte) (int, error) {
	if len(rest) == 0 {
		return 0, nil
	}
	if err := p.cb.OnBody(rest); err != nil {
		return len(rest), err
	}
	return len(rest), nil
}

func (p *Parser) stepChunkSize(rest []byte) (int, error) {
	line, n, ok, err := p.readLine(rest, maxHeaderBudget(p))
	if err != nil {
		return n, err
	}
	if !ok {
		return n, nil
	}

	hexPart := line
	if semi := bytes.IndexByte(line, ';'); semi >= 0 {
		hexPart = line[:semi]
	}
	hexPart = bytes.TrimSpace(hexPart)
	if len(hexPart) == 0 {
		return n, ErrorInvalidChunkSize.Error(nil)
	}
	for _, c := range hexPart {
		if !isHex(c) {
			return n, ErrorInvalidChunkSize.Error(nil)
		}
	}

	size, convErr := strconv.ParseUint(string(hexPart), 16, 64)
	if convErr != nil {
		return n, ErrorInvalidChunkSize.Error(nil)
	}

	p.chunkRemaining = size
	if err := p.cb.OnChunkHeader(size); err != nil {
		return n, err
	}

	if size == 0 {
		p.state = stateChunkTrailer
	} else {
		p.state = stateChunkData
	}
	return n, nil
}

func (p *Parser) stepChunkData(rest []byte) (int, error) {
	n := len(rest)
	if uint64(n) > p.chunkRemaining {
		n = int(p.chunkRemaining)
	}
	if n > 0 {
		if err := p.cb.OnBody(rest[:n]); err != nil {
			return n, err
		}
	}
	p.chunkRemaining -= uint64(n)
	if p.chunkRemaining == 0 {
		p.state = stateChunkCRLF
	}
	return n, nil
}

func (p *Parser) stepChunkCRLF(rest []byte) (int, error) {
	line, n, ok, err := p.readLine(rest, nil)
	if err != nil {
		return n, err
	}
	if !ok {
		return n, nil
	}
	if len(line) != 0 {
		return n, ErrorInvalidConstant.Error(nil)
	}
	if err := p.cb.OnChunkComplete(); err != nil {
		return n, err
	}
	p.state = stateChunkSize
	return n, nil
}

func (p *Parser) stepTrailerLine(rest []byte) (int, error) {
	line, n, ok, err := p.readLine(rest, maxHeaderBudget(p))
	if err != nil {
		return n, err
	}
	if !ok {
		return n, nil
	}

	if len(line) == 0 {
		if err := p.cb.OnMessageComplete(); err != nil {
			return n, err
		}
		p.finishMessage()
		return n, nil
	}

	if colon := bytes.IndexByte(line, ':'); colon >= 0 {
		key := bytes.TrimSpace(line[:colon])
		val := bytes.TrimSpace(line[colon+1:])
		if err := p.cb.OnHeader(key, val); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (p *Parser) stepBoundaryBody(rest []byte) (int, error) {
	n, done, err := p.mp.feed(rest, p.cb)
	if err != nil {
		return n, err
	}
	if done {
		if err := p.cb.OnMessageComplete(); err != nil {
			return n, err
		}
		p.finishMessage()
	}
	return n, nil
}
