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
	"fmt"

	liberr "github.com/nabbar/ant-golib/errors"
)

const pkgName = "ant-golib/httpparser"

const (
	ErrorInvalidMethod liberr.CodeError = iota + liberr.MinPkgHttpParser
	ErrorInvalidVersion
	ErrorInvalidStatus
	ErrorInvalidURL
	ErrorInvalidHost
	ErrorInvalidPort
	ErrorInvalidPath
	ErrorInvalidQueryString
	ErrorInvalidFragment
	ErrorLFExpected
	ErrorInvalidHeaderToken
	ErrorHeaderOverflow
	ErrorInvalidContentLength
	ErrorUnexpectedContentLength
	ErrorInvalidChunkSize
	ErrorInvalidTransferEncoding
	ErrorInvalidConstant
	ErrorClosedConnection
	ErrorPaused
	ErrorCallbackAbort
	ErrorInvalidEOFState
)

func init() {
	if liberr.ExistInMapMessage(ErrorInvalidMethod) {
		panic(fmt.Errorf("error code collision with package %s", pkgName))
	}
	liberr.RegisterIdFctMessage(ErrorInvalidMethod, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorInvalidMethod:
		return "httpparser: invalid method"
	case ErrorInvalidVersion:
		return "httpparser: invalid HTTP version"
	case ErrorInvalidStatus:
		return "httpparser: invalid status code"
	case ErrorInvalidURL:
		return "httpparser: invalid url"
	case ErrorInvalidHost:
		return "httpparser: invalid host"
	case ErrorInvalidPort:
		return "httpparser: invalid port"
	case ErrorInvalidPath:
		return "httpparser: invalid path"
	case ErrorInvalidQueryString:
		return "httpparser: invalid query string"
	case ErrorInvalidFragment:
		return "httpparser: invalid fragment"
	case ErrorLFExpected:
		return "httpparser: LF character expected"
	case ErrorInvalidHeaderToken:
		return "httpparser: invalid character in header"
	case ErrorHeaderOverflow:
		return "httpparser: header block exceeds configured maximum"
	case ErrorInvalidContentLength:
		return "httpparser: invalid or conflicting content-length header"
	case ErrorUnexpectedContentLength:
		return "httpparser: unexpected content-length header"
	case ErrorInvalidChunkSize:
		return "httpparser: invalid character in chunk size"
	case ErrorInvalidTransferEncoding:
		return "httpparser: invalid or conflicting transfer-encoding header"
	case ErrorInvalidConstant:
		return "httpparser: invalid constant string"
	case ErrorClosedConnection:
		return "httpparser: data received after connection close message"
	case ErrorPaused:
		return "httpparser: parser is paused"
	case ErrorCallbackAbort:
		return "httpparser: callback aborted the parse"
	case ErrorInvalidEOFState:
		return "httpparser: stream ended at an unexpected time"
	}

	return liberr.NullMessage
}
