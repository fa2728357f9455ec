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

package mpmcqueue_test

import (
	"sync"
	"time"

	"github.com/nabbar/ant-golib/mpmcqueue"

	liberr "github.com/nabbar/ant-golib/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Queue", func() {
	It("pops items FIFO across a read/write swap", func() {
		q := mpmcqueue.New[int](8)

		for i := 0; i < 5; i++ {
			Expect(q.Push(i, false)).ToNot(HaveOccurred())
		}
		Expect(q.Len()).To(Equal(5))

		for i := 0; i < 5; i++ {
			v, err := q.Pop(false)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(i))
		}
		Expect(q.Len()).To(Equal(0))
	})

	It("returns ErrorEmpty on non-blocking pop of an empty queue", func() {
		q := mpmcqueue.New[int](4)
		_, err := q.Pop(false)
		Expect(liberr.IsCode(err, mpmcqueue.ErrorEmpty)).To(BeTrue())
	})

	It("returns ErrorFull on non-blocking push past capacity", func() {
		q := mpmcqueue.New[int](2)
		Expect(q.Push(1, false)).ToNot(HaveOccurred())
		Expect(q.Push(2, false)).ToNot(HaveOccurred())
		Expect(liberr.IsCode(q.Push(3, false), mpmcqueue.ErrorFull)).To(BeTrue())
	})

	It("wakes a blocked Pop once an item is pushed", func() {
		q := mpmcqueue.New[int](4)

		done := make(chan int, 1)
		go func() {
			v, err := q.Pop(true)
			Expect(err).ToNot(HaveOccurred())
			done <- v
		}()

		time.Sleep(20 * time.Millisecond)
		Expect(q.Push(42, true)).ToNot(HaveOccurred())

		Eventually(done).Should(Receive(Equal(42)))
	})

	It("wakes a blocked Push once room frees up", func() {
		q := mpmcqueue.New[int](1)
		Expect(q.Push(1, false)).ToNot(HaveOccurred())

		done := make(chan struct{})
		go func() {
			Expect(q.Push(2, true)).ToNot(HaveOccurred())
			close(done)
		}()

		time.Sleep(20 * time.Millisecond)
		v, err := q.Pop(false)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(1))

		Eventually(done).Should(BeClosed())
	})

	It("unblocks all waiters and fails subsequent calls after Shutdown", func() {
		q := mpmcqueue.New[int](1)

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			_, err := q.Pop(true)
			Expect(liberr.IsCode(err, mpmcqueue.ErrorShutdown)).To(BeTrue())
		}()

		go func() {
			defer wg.Done()
			Expect(q.Push(1, false)).ToNot(HaveOccurred())
			err := q.Push(2, true)
			Expect(liberr.IsCode(err, mpmcqueue.ErrorShutdown)).To(BeTrue())
		}()

		time.Sleep(20 * time.Millisecond)
		q.Shutdown()
		wg.Wait()

		_, err := q.Pop(false)
		Expect(liberr.IsCode(err, mpmcqueue.ErrorShutdown)).To(BeTrue())
	})

	It("turns blocking calls into immediate failures once SetBlocking disables them", func() {
		q := mpmcqueue.New[int](1)
		q.SetBlocking(false, false)

		_, err := q.Pop(true)
		Expect(liberr.IsCode(err, mpmcqueue.ErrorEmpty)).To(BeTrue())

		Expect(q.Push(1, false)).ToNot(HaveOccurred())
		Expect(liberr.IsCode(q.Push(2, true), mpmcqueue.ErrorFull)).To(BeTrue())
	})

	It("delivers every item exactly once under concurrent producers and a single consumer", func() {
		q := mpmcqueue.New[int](16)
		const perProducer = 200
		const producers = 4

		var wg sync.WaitGroup
		wg.Add(producers)
		for p := 0; p < producers; p++ {
			go func(base int) {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					Expect(q.Push(base+i, true)).ToNot(HaveOccurred())
				}
			}(p * perProducer)
		}

		total := producers * perProducer
		seen := make(map[int]bool, total)
		for i := 0; i < total; i++ {
			v, err := q.Pop(true)
			Expect(err).ToNot(HaveOccurred())
			Expect(seen[v]).To(BeFalse())
			seen[v] = true
		}

		wg.Wait()
		Expect(seen).To(HaveLen(total))
	})
})
