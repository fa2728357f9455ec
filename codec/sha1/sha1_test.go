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

package sha1_test

import (
	"encoding/hex"

	encsha1 "github.com/nabbar/ant-golib/codec/sha1"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SHA-1", func() {
	It("matches the published digest of the empty string", func() {
		c := encsha1.New()
		Expect(hex.EncodeToString(c.Encode(nil))).To(Equal("da39a3ee5e6b4b0d3255bfef95601890afd80709"))
	})

	It("matches the published digest of a known string", func() {
		c := encsha1.New()
		Expect(hex.EncodeToString(c.Encode([]byte("abc")))).To(Equal("a9993e364706816aba3e25717850c26c9cd0d89d"))
	})

	It("is incremental: add(a); add(b) == add(a||b)", func() {
		d1 := encsha1.NewDigest()
		_, _ = d1.Write([]byte("hello "))
		_, _ = d1.Write([]byte("world"))

		d2 := encsha1.NewDigest()
		_, _ = d2.Write([]byte("hello world"))

		Expect(d1.Sum(nil)).To(Equal(d2.Sum(nil)))
	})
})
