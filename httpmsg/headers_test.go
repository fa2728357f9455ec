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

package httpmsg_test

import (
	"github.com/nabbar/ant-golib/httpmsg"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Headers", func() {
	It("preserves insertion order and duplicates", func() {
		var h httpmsg.Headers
		h.Add("Set-Cookie", "a=1")
		h.Add("Host", "example.com")
		h.Add("Set-Cookie", "b=2")

		Expect(h.Len()).To(Equal(3))
		Expect(h.Values("set-cookie")).To(Equal([]string{"a=1", "b=2"}))

		var keys []string
		h.Range(func(k, v string) bool {
			keys = append(keys, k)
			return true
		})
		Expect(keys).To(Equal([]string{"Set-Cookie", "Host", "Set-Cookie"}))
	})

	It("looks up case-insensitively and reports absence", func() {
		var h httpmsg.Headers
		h.Add("Content-Type", "text/plain")

		v, ok := h.Get("CONTENT-TYPE")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("text/plain"))

		_, ok = h.Get("X-Missing")
		Expect(ok).To(BeFalse())
	})

	It("Set collapses every existing entry under the key into one", func() {
		var h httpmsg.Headers
		h.Add("X-Tag", "one")
		h.Add("X-Tag", "two")
		h.Add("Host", "example.com")

		h.Set("x-tag", "replaced")

		Expect(h.Values("X-Tag")).To(Equal([]string{"replaced"}))
		Expect(h.Len()).To(Equal(2))
	})

	It("Del removes every matching entry", func() {
		var h httpmsg.Headers
		h.Add("X-Tag", "one")
		h.Add("X-Tag", "two")
		h.Add("Host", "example.com")

		h.Del("x-tag")

		Expect(h.Len()).To(Equal(1))
		_, ok := h.Get("X-Tag")
		Expect(ok).To(BeFalse())
	})

	It("Reset discards every field", func() {
		var h httpmsg.Headers
		h.Add("A", "1")
		h.Reset()
		Expect(h.Len()).To(Equal(0))
	})
})
