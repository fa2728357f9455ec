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
)

const defaultMaxHeaderSize = 80 * 1024

type state int

const (
	stateStartLine state = iota
	stateHeaderLine
	stateBodyIdentity
	stateBodyIdentityEOF
	stateChunkSize
	stateChunkData
	stateChunkCRLF
	stateChunkTrailer
	stateBoundaryBody
	stateMessageDone
	stateDead
)

// Parser is a byte-driven HTTP/1.x message parser. It holds no network
// connection of its own: callers feed it bytes as they arrive via Parse
// and react to Callbacks invocations.
type Parser struct {
	kind Kind
	cb   Callbacks

	UserData any

	MaxHeaderSize int
	Strict        bool
	LenientBody   bool // allow Content-Length and Transfer-Encoding together

	state state
	line  []byte

	headerBytes int

	Method       Method
	StatusCode   int
	VersionMajor int
	VersionMinor int

	flags flag

	hasContentLength bool
	contentLength    int64
	bodyRemaining    int64

	chunkRemaining uint64

	pendingKey   string
	pendingValue string
	havePending  bool

	headAction HeadAction
	paused     bool

	isMultipart       bool
	multipartBoundary string
	mp                *multipartScanner
}

// Init prepares p to parse messages of the given kind. userData is stashed
// on UserData for the callback implementation's own use.
func (p *Parser) Init(kind Kind, cb Callbacks, userData any) {
	*p = Parser{
		kind:          kind,
		cb:            cb,
		UserData:      userData,
		MaxHeaderSize: defaultMaxHeaderSize,
		Strict:        true,
		state:         stateStartLine,
	}
}

// Pause suspends (or resumes) parsing. While paused, Parse returns
// ErrorPaused without consuming any bytes.
func (p *Parser) Pause(paused bool) { p.paused = paused }

// Kind reports whether p was initialised to parse requests, responses, or
// to sniff either from the first line.
func (p *Parser) Kind() Kind { return p.kind }

// Upgrade reports whether an Upgrade handshake (a "Connection: upgrade"
// header) ended the parse of the HTTP-framed portion of the stream. A
// CONNECT request does not set it.
func (p *Parser) Upgrade() bool { return p.flags.has(flagUpgrade) }

// ShouldKeepAlive reports whether the connection should remain open for a
// further message, per the version defaults and any Connection header.
func (p *Parser) ShouldKeepAlive() bool {
	if p.flags.has(flagConnectionClose) {
		return false
	}
	if p.VersionMajor > 1 || (p.VersionMajor == 1 && p.VersionMinor >= 1) {
		return !p.flags.has(flagConnectionClose)
	}
	return p.flags.has(flagConnectionKeepAlive)
}

// NeedsEOF reports whether the current message's body (a response with
// neither Content-Length nor chunked framing) can only be bounded by the
// underlying connection closing.
func (p *Parser) NeedsEOF() bool { return p.state == stateBodyIdentityEOF }

func (p *Parser) fail() { p.state = stateDead }

// PartName returns the `name` parameter of the current multipart part's
// Content-Disposition header, or "" outside of a multipart body.
func (p *Parser) PartName() string {
	if p.mp == nil {
		return ""
	}
	return p.mp.FormName
}

// PartFileName returns the `filename` parameter of the current multipart
// part's Content-Disposition header, or "" outside of a multipart body.
func (p *Parser) PartFileName() string {
	if p.mp == nil {
		return ""
	}
	return p.mp.FileName
}

// Finish signals that the transport has reached EOF, closing out a body
// that was being delimited by connection close (NeedsEOF). It is a no-op
// in any other state.
func (p *Parser) Finish() error {
	if p.state != stateBodyIdentityEOF {
		return nil
	}
	if err := p.cb.OnMessageComplete(); err != nil {
		p.fail()
		return err
	}
	p.finishMessage()
	return nil
}

// Parse feeds data into the state machine, invoking Callbacks as
// completed pieces of the message are recognised. It returns the number
// of bytes consumed; callers must retain any unconsumed suffix to prepend
// to their next call (none will be left over except while paused or when
// more data is required to complete the current line).
func (p *Parser) Parse(data []byte) (int, error) {
	if p.paused {
		return 0, ErrorPaused.Error(nil)
	}
	if p.state == stateDead {
		if len(data) == 0 {
			return 0, nil
		}
		return 0, ErrorClosedConnection.Error(nil)
	}

	total := 0
	for total < len(data) {
		rest := data[total:]
		var n int
		var err error

		switch p.state {
		case stateStartLine:
			n, err = p.stepStartLine(rest)
		case stateHeaderLine:
			n, err = p.stepHeaderLine(rest)
		case stateBodyIdentity:
			n, err = p.stepBodyIdentity(rest)
		case stateBodyIdentityEOF:
			n, err = p.stepBodyEOF(rest)
		case stateChunkSize:
			n, err = p.stepChunkSize(rest)
		case stateChunkData:
			n, err = p.stepChunkData(rest)
		case stateChunkCRLF:
			n, err = p.stepChunkCRLF(rest)
		case stateChunkTrailer:
			n, err = p.stepTrailerLine(rest)
		case stateBoundaryBody:
			n, err = p.stepBoundaryBody(rest)
		case stateMessageDone:
			return total, nil
		case stateDead:
			return total, nil
		}

		if err != nil {
			p.fail()
			return total, err
		}

		total += n

		if n == 0 {
			break
		}
		if p.paused {
			break
		}
	}

	return total, nil
}

// readLine accumulates bytes into p.line until a terminator is found.
// Returns the logical line (CR/LF stripped) and bytes consumed from data;
// ok is false if more data is needed.
func (p *Parser) readLine(data []byte, budget *int) (line []byte, n int, ok bool, err error) {
	idx := bytes.IndexByte(data, '\n')
	if idx < 0 {
		if budget != nil {
			*budget += len(data)
			if *budget > p.MaxHeaderSize {
				return nil, 0, false, ErrorHeaderOverflow.Error(nil)
			}
		}
		p.line = append(p.line, data...)
		return nil, len(data), false, nil
	}

	n = idx + 1
	p.line = append(p.line, data[:idx]...)
	if budget != nil {
		*budget += n
		if *budget > p.MaxHeaderSize {
			return nil, n, false, ErrorHeaderOverflow.Error(nil)
		}
	}

	raw := p.line
	if len(raw) > 0 && raw[len(raw)-1] == '\r' {
		raw = raw[:len(raw)-1]
	} else if p.Strict {
		p.line = nil
		return nil, n, false, ErrorLFExpected.Error(nil)
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	p.line = p.line[:0]
	return out, n, true, nil
}

func maxHeaderBudget(p *Parser) *int { return &p.headerBytes }
