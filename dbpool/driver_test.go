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

package dbpool_test

import (
	"github.com/nabbar/ant-golib/dbpool"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Driver", func() {
	It("recognises every supported driver name case-insensitively", func() {
		Expect(dbpool.DriverFromString("MySQL")).To(Equal(dbpool.DriverMysql))
		Expect(dbpool.DriverFromString("psql")).To(Equal(dbpool.DriverPostgreSQL))
		Expect(dbpool.DriverFromString("SQLite")).To(Equal(dbpool.DriverSQLite))
	})

	It("returns DriverNone for an unrecognised name", func() {
		Expect(dbpool.DriverFromString("oracle")).To(Equal(dbpool.DriverNone))
	})

	It("builds a dialector for every supported driver", func() {
		Expect(dbpool.DriverMysql.Dialector("user:pass@/db")).NotTo(BeNil())
		Expect(dbpool.DriverPostgreSQL.Dialector("host=localhost")).NotTo(BeNil())
		Expect(dbpool.DriverSQLite.Dialector(":memory:")).NotTo(BeNil())
	})

	It("returns a nil dialector for DriverNone", func() {
		Expect(dbpool.DriverNone.Dialector("anything")).To(BeNil())
	})
})
