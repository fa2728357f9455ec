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

// Package httpmsg holds the assembled-message representation a
// httpparser.Parser drives as it decodes a byte stream: headers, status
// line or request line, and a body backed by ringbuffer.ByteRing rather
// than a single growing []byte, so a message of unbounded size never
// requires one unbounded contiguous allocation.
package httpmsg

import (
	"github.com/nabbar/ant-golib/httpparser"
	"github.com/nabbar/ant-golib/ringbuffer"
)

// Message is the decoded form of one HTTP request or response.
type Message struct {
	Kind httpparser.Kind

	Method  httpparser.Method
	URL     string
	Status  int
	Reason  string
	VerMaj  int
	VerMin  int

	Headers Headers

	// LastPartName and LastPartFileName mirror the Content-Disposition
	// name= / filename= parameters of the most recently started
	// multipart/form-data part, if any; the underlying parser does not
	// emit per-part boundaries as distinct callback events, so only the
	// latest part's identity survives past message completion.
	LastPartName     string
	LastPartFileName string

	KeepAlive bool
	Upgraded  bool
	Complete  bool

	// MaxBodySize caps the number of bytes buffered into Body; zero means
	// unbounded. Exceeding it fails the message with ErrorMessageTooLarge.
	MaxBodySize int64

	body     *ringbuffer.ByteRing
	bodyLen  int64
}

// NewMessage returns a Message with a ByteRing body sized to nodeSize
// bytes per node (0 selects ringbuffer.DefaultNodeSize).
func NewMessage(nodeSize int) *Message {
	return &Message{body: ringbuffer.NewByteRing(nodeSize)}
}

// BodyLen reports the number of bytes currently buffered in Body.
func (m *Message) BodyLen() int64 { return m.bodyLen }

// ReadBody drains up to len(p) bytes of the buffered body into p.
func (m *Message) ReadBody(p []byte) (int, error) {
	n, err := m.body.Read(p)
	m.bodyLen -= int64(n)
	return n, err
}

// PeekBody copies up to len(p) bytes of the buffered body into p without
// consuming them.
func (m *Message) PeekBody(p []byte) int {
	return m.body.Peek(p)
}

func (m *Message) appendBody(p []byte) error {
	if m.MaxBodySize > 0 && m.bodyLen+int64(len(p)) > m.MaxBodySize {
		return ErrorMessageTooLarge.Error(nil)
	}
	n, _ := m.body.Write(p)
	m.bodyLen += int64(n)
	return nil
}

// Reset clears every field back to a Message ready to decode a fresh
// exchange, reusing the existing body ring rather than reallocating it.
func (m *Message) Reset() {
	kept := m.body
	maxBody := m.MaxBodySize
	for kept.Len() > 0 {
		var scratch [512]byte
		kept.Read(scratch[:])
	}
	*m = Message{body: kept, MaxBodySize: maxBody}
}
