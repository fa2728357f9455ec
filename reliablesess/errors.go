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

package reliablesess

import (
	"fmt"

	liberr "github.com/nabbar/ant-golib/errors"
)

const pkgName = "ant-golib/reliablesess"

const (
	ErrorParamInvalid liberr.CodeError = iota + liberr.MinPkgReliableSess
	ErrorValidatorError
	ErrorTooManyFragments
	ErrorBadConv
	ErrorBadCommand
	ErrorTruncated
	ErrorDeadLink
	ErrorSessionClosed
	ErrorNoData
	ErrorShortBuffer
)

func init() {
	if liberr.ExistInMapMessage(ErrorParamInvalid) {
		panic(fmt.Errorf("error code collision with package %s", pkgName))
	}
	liberr.RegisterIdFctMessage(ErrorParamInvalid, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorParamInvalid:
		return "reliable session: invalid parameter"
	case ErrorValidatorError:
		return "reliable session: config validation failed"
	case ErrorTooManyFragments:
		return "reliable session: payload needs more than 255 fragments"
	case ErrorBadConv:
		return "reliable session: segment conversation id mismatch"
	case ErrorBadCommand:
		return "reliable session: unknown segment command"
	case ErrorTruncated:
		return "reliable session: truncated segment"
	case ErrorDeadLink:
		return "reliable session: dead link, transmit-count exceeded threshold"
	case ErrorSessionClosed:
		return "reliable session: session already closed"
	case ErrorNoData:
		return "reliable session: no data available to receive"
	case ErrorShortBuffer:
		return "reliable session: receive buffer too small for next message"
	}

	return liberr.NullMessage
}
