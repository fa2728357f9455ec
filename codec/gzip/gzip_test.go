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

package gzip_test

import (
	encgzip "github.com/nabbar/ant-golib/codec/gzip"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Gzip framing", func() {
	It("round-trips arbitrary payloads", func() {
		c := encgzip.New()
		payload := []byte("the quick brown fox jumps over the lazy dog, repeated, " +
			"the quick brown fox jumps over the lazy dog")

		compressed := c.Encode(payload)
		Expect(compressed).ToNot(BeEmpty())

		decoded, err := c.Decode(compressed)
		Expect(err).ToNot(HaveOccurred())
		Expect(decoded).To(Equal(payload))
	})

	It("errors decoding a non-gzip payload", func() {
		c := encgzip.New()
		_, err := c.Decode([]byte("not gzip"))
		Expect(err).To(HaveOccurred())
	})
})
