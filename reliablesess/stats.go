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

// Stats is a point-in-time snapshot of a Session's internal estimators,
// exposed for the monitor package's Prometheus gauges.
type Stats struct {
	SRTT        int
	RTTVar      int
	RTO         int
	Cwnd        uint32
	SSThreshold uint32
	Inflight    uint32
	SendQueued  int
	SendBuffered int
	RecvBuffered int
	RecvQueued   int
	TotalXmit    uint32
	Dead         bool
}

// Stats returns a snapshot of s's current estimators and queue depths.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		SRTT:         s.srtt,
		RTTVar:       s.rttVar,
		RTO:          s.rto,
		Cwnd:         s.windowCongestion,
		SSThreshold:  s.ssthresh,
		Inflight:     s.sendNext - s.sendUNA,
		SendQueued:   len(s.sendQueue),
		SendBuffered: len(s.sendBuffer),
		RecvBuffered: len(s.receiveBuffer),
		RecvQueued:   len(s.receiveQueue),
		TotalXmit:    s.totalXmit,
		Dead:         s.dead,
	}
}
