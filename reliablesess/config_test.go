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

package reliablesess_test

import (
	"github.com/nabbar/ant-golib/reliablesess"

	liberr "github.com/nabbar/ant-golib/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	It("accepts a minimal valid configuration", func() {
		cfg := reliablesess.Config{Conv: 42}
		Expect(cfg.Validate()).To(BeNil())
	})

	It("rejects a configuration missing a conversation id", func() {
		cfg := reliablesess.Config{}
		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(liberr.IsCode(err, reliablesess.ErrorValidatorError)).To(BeTrue())
	})

	It("accepts an explicit tuning of every defaulted field", func() {
		cfg := reliablesess.Config{
			Conv:                7,
			MTU:                 512,
			SendWindow:          64,
			ReceiveWindow:       64,
			Interval:            20,
			NoDelay:             true,
			FastResend:          2,
			NoCongestionControl: true,
			StreamMode:          true,
			DeadLink:            5,
		}
		Expect(cfg.Validate()).To(BeNil())
	})
})
