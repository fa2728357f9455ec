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

package dbpool

import (
	"fmt"

	liberr "github.com/nabbar/ant-golib/errors"
)

const pkgName = "ant-golib/dbpool"

const (
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgDBPool
	ErrorValidatorError
	ErrorDriverUnknown
	ErrorDatabaseOpen
	ErrorDatabaseOpenPool
	ErrorPoolClosed
	ErrorAcquireTimeout
	ErrorTaskEmpty
)

func init() {
	if liberr.ExistInMapMessage(ErrorParamEmpty) {
		panic(fmt.Errorf("error code collision with package %s", pkgName))
	}
	liberr.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorParamEmpty:
		return "dbpool: given parameter is empty"
	case ErrorValidatorError:
		return "dbpool: invalid config"
	case ErrorDriverUnknown:
		return "dbpool: unknown driver"
	case ErrorDatabaseOpen:
		return "dbpool: cannot open connection to dsn"
	case ErrorDatabaseOpenPool:
		return "dbpool: cannot configure connection pool"
	case ErrorPoolClosed:
		return "dbpool: pool is closed"
	case ErrorAcquireTimeout:
		return "dbpool: timed out acquiring a connector"
	case ErrorTaskEmpty:
		return "dbpool: task has no fragments to execute"
	}

	return liberr.NullMessage
}
