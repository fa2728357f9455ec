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
	liberr "github.com/nabbar/ant-golib/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("segment wire codec", func() {
	It("round-trips header fields and payload", func() {
		seg := &segment{conv: 42, cmd: CmdPush, frag: 3, wnd: 17, ts: 1000, sn: 5, una: 2, data: []byte("payload")}
		wire := seg.encode(nil)
		Expect(wire).To(HaveLen(headerSize + len("payload")))

		got, consumed, err := decodeSegment(wire)
		Expect(err).NotTo(HaveOccurred())
		Expect(consumed).To(Equal(len(wire)))
		Expect(got.conv).To(Equal(uint32(42)))
		Expect(got.cmd).To(Equal(CmdPush))
		Expect(got.frag).To(Equal(uint8(3)))
		Expect(got.wnd).To(Equal(uint16(17)))
		Expect(got.ts).To(Equal(uint32(1000)))
		Expect(got.sn).To(Equal(uint32(5)))
		Expect(got.una).To(Equal(uint32(2)))
		Expect(string(got.data)).To(Equal("payload"))
	})

	It("decodes two concatenated segments from one buffer", func() {
		a := (&segment{conv: 1, cmd: CmdAck, sn: 1}).encode(nil)
		b := (&segment{conv: 1, cmd: CmdAck, sn: 2}).encode(nil)
		buf := append(a, b...)

		first, n1, err := decodeSegment(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.sn).To(Equal(uint32(1)))

		second, n2, err := decodeSegment(buf[n1:])
		Expect(err).NotTo(HaveOccurred())
		Expect(second.sn).To(Equal(uint32(2)))
		Expect(n1 + n2).To(Equal(len(buf)))
	})

	It("rejects a truncated header", func() {
		_, _, err := decodeSegment(make([]byte, headerSize-1))
		Expect(liberr.IsCode(err, ErrorTruncated)).To(BeTrue())
	})

	It("rejects an unknown command", func() {
		seg := (&segment{conv: 1, cmd: Command(200)}).encode(nil)
		_, _, err := decodeSegment(seg)
		Expect(liberr.IsCode(err, ErrorBadCommand)).To(BeTrue())
	})

	It("orders sequence numbers with wrap-around arithmetic", func() {
		Expect(seqLess(10, 20)).To(BeTrue())
		Expect(seqLess(20, 10)).To(BeFalse())
		Expect(seqLess(0xFFFFFFFF, 0)).To(BeTrue()) // wrapped: 0 comes "after" max uint32
		Expect(seqGreaterEq(0, 0xFFFFFFFF)).To(BeTrue())
	})
})
