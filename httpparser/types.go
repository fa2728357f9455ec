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

// Package httpparser implements a byte-driven, streaming HTTP/1.x message
// parser covering request lines, status lines, headers, chunked and
// identity body framing, and multipart/form-data boundary scanning.
package httpparser

// Kind selects which grammar a Parser accepts.
type Kind int

const (
	Request Kind = iota
	Response
	Both
)

// Method is an HTTP request method.
type Method string

const (
	MethodGet       Method = "GET"
	MethodHead      Method = "HEAD"
	MethodPost      Method = "POST"
	MethodPut       Method = "PUT"
	MethodDelete    Method = "DELETE"
	MethodConnect   Method = "CONNECT"
	MethodOptions   Method = "OPTIONS"
	MethodTrace     Method = "TRACE"
	MethodPatch     Method = "PATCH"
	MethodCopy      Method = "COPY"
	MethodLock      Method = "LOCK"
	MethodMkcol     Method = "MKCOL"
	MethodMove      Method = "MOVE"
	MethodPropfind  Method = "PROPFIND"
	MethodProppatch Method = "PROPPATCH"
	MethodSearch    Method = "SEARCH"
	MethodUnlock    Method = "UNLOCK"
	MethodReport    Method = "REPORT"
	MethodMerge     Method = "MERGE"
	MethodPurge     Method = "PURGE"
)

// HeadAction is returned from Callbacks.OnHeadersComplete to steer body
// framing, mirroring the original parser's 0/1/2 return convention.
type HeadAction int

const (
	// Continue parses the body normally according to the framing headers.
	Continue HeadAction = iota
	// NoBody tells the parser this message has no body regardless of what
	// Content-Length/Transfer-Encoding claim (used for HEAD responses).
	NoBody
	// NoBodyNorMore tells the parser neither this message nor any further
	// message will follow on this connection (used for CONNECT responses).
	NoBodyNorMore
)

// flag bits tracked on Parser.flags, mirroring EHttpFlags.
type flag uint16

const (
	flagConnectionKeepAlive flag = 1 << iota
	flagConnectionClose
	flagConnectionUpgrade
	flagUpgrade
	flagSkipBody
	flagContentLength
	flagChunked
	flagTrailing
)

func (f *flag) set(bit flag) { *f |= bit }

func (f flag) has(bit flag) bool { return f&bit != 0 }
