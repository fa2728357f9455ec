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
	"sync"

	"github.com/nabbar/ant-golib/logger"
	loglvl "github.com/nabbar/ant-golib/logger/level"
)

// Sender transmits one packed buffer (one or more concatenated segments,
// never exceeding the session's MTU) to the peer. The session never
// interprets the transport below this boundary.
type Sender func(data []byte) error

const (
	probeAsk  uint32 = 1
	probeTell uint32 = 2
)

type ackEntry struct {
	sn uint32
	ts uint32
}

// Session is one peer's half of an ordered, retransmitted delivery
// session layered over an unreliable Sender. All exported methods are
// safe for concurrent use.
type Session struct {
	mu sync.Mutex

	conv uint32
	mtu  int
	mss  int

	sendUNA     uint32
	sendNext    uint32
	receiveNext uint32

	ssthresh         uint32
	windowRemote     uint32
	windowCongestion uint32
	increase         uint32

	maxSendWindow    uint32
	maxReceiveWindow uint32

	srtt   int
	rttVar int
	rto    int
	minRTOValue int

	current   int64
	timeFlush int64
	updated   bool
	intervalMs int

	timeProbe     int64
	timeProbeWait int64
	probeFlag     uint32

	nodelay             bool
	fastResend          int
	noCongestionControl bool
	streamMode          bool
	deadLink            int
	dead                bool
	closed              bool
	totalXmit           uint32

	sendQueue     []*segment
	sendBuffer    []*segment
	receiveBuffer []*segment
	receiveQueue  []*segment
	ackList       []ackEntry

	sender Sender
	log    logger.FuncLog
}

// New validates cfg and constructs a Session bound to sender. log may be
// nil (ambient logging is then a no-op).
func New(cfg Config, sender Sender, log logger.FuncLog) (*Session, error) {
	if sender == nil {
		return nil, ErrorParamInvalid.Error(nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard
	}

	s := &Session{
		conv:             cfg.Conv,
		mtu:              cfg.mtu(),
		maxSendWindow:    uint32(cfg.sendWindow()),
		maxReceiveWindow: uint32(cfg.receiveWindow()),
		windowRemote:     uint32(cfg.receiveWindow()),
		ssthresh:         defaultSSThresh,
		rto:              defaultRTO,
		minRTOValue:      cfg.minRTO(),
		intervalMs:       cfg.interval(),
		nodelay:          cfg.NoDelay,
		fastResend:       cfg.FastResend,
		noCongestionControl: cfg.NoCongestionControl,
		streamMode:       cfg.StreamMode,
		deadLink:         cfg.deadLink(),
		sender:           sender,
		log:              log,
	}
	s.mss = s.mtu - headerSize

	return s, nil
}

// SetMTU changes the maximum packed-output size. mss is recomputed as
// mtu - headerSize.
func (s *Session) SetMTU(mtu int) error {
	if mtu <= headerSize {
		return ErrorParamInvalid.Error(nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mtu = mtu
	s.mss = mtu - headerSize
	return nil
}

// SetWindowSize changes the maximum send/receive window sizes. A
// non-positive argument leaves the corresponding window unchanged.
func (s *Session) SetWindowSize(sendWindow, receiveWindow int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sendWindow > 0 {
		s.maxSendWindow = uint32(sendWindow)
	}
	if receiveWindow > 0 {
		s.maxReceiveWindow = uint32(receiveWindow)
	}
}

// SetNoDelay configures the low-latency profile: nodelay toggles the
// min-RTO/backoff regime, interval is the flush period in ms (clamped to
// [10,5000]), resend is the fast-resend duplicate-ACK threshold (0
// disables it), nc disables congestion control entirely when true.
func (s *Session) SetNoDelay(nodelay bool, intervalMs int, resend int, nc bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if intervalMs > 5000 {
		intervalMs = 5000
	} else if intervalMs > 0 && intervalMs < 10 {
		intervalMs = 10
	}
	if intervalMs > 0 {
		s.intervalMs = intervalMs
	}

	s.nodelay = nodelay
	if nodelay {
		s.minRTOValue = minRTONoDelay
	} else {
		s.minRTOValue = minRTONormal
	}

	s.fastResend = resend
	s.noCongestionControl = nc
}

// SetStreamMode toggles whether Send coalesces payload into the trailing
// queued segment instead of always starting a fresh fragment chain.
func (s *Session) SetStreamMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streamMode = on
}

// Dead reports whether the session has declared itself a dead link (some
// segment's transmit-count reached the configured threshold).
func (s *Session) Dead() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dead
}

// Send fragments data into chunks of at most mss bytes and enqueues them
// for the next flush. In stream mode it first tries to top up the
// trailing queued fragment.
func (s *Session) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrorSessionClosed.Error(nil)
	}

	if s.streamMode && len(s.sendQueue) > 0 {
		last := s.sendQueue[len(s.sendQueue)-1]
		if last.length() < s.mss {
			capacity := s.mss - last.length()
			extend := len(data)
			if extend > capacity {
				extend = capacity
			}
			last.data = append(last.data, data[:extend]...)
			last.frag = 0
			data = data[extend:]
		}
		if len(data) == 0 {
			return nil
		}
	}

	count := 1
	if len(data) > s.mss {
		count = (len(data) + s.mss - 1) / s.mss
	}
	if count > 255 {
		return ErrorTooManyFragments.Error(nil)
	}

	for i := 0; i < count; i++ {
		size := len(data)
		if size > s.mss {
			size = s.mss
		}
		frag := uint8(count - i - 1)
		if s.streamMode {
			frag = 0
		}
		seg := &segment{data: append([]byte(nil), data[:size]...), frag: frag}
		s.sendQueue = append(s.sendQueue, seg)
		data = data[size:]
	}

	return nil
}

// peekNextSizeLocked returns the assembled length of the next
// user-visible message at the front of receiveQueue, or -1 if the
// fragment chain is not yet complete.
func (s *Session) peekNextSizeLocked() int {
	if len(s.receiveQueue) == 0 {
		return -1
	}
	first := s.receiveQueue[0]
	if first.frag == 0 {
		return first.length()
	}
	if len(s.receiveQueue) < int(first.frag)+1 {
		return -1
	}
	length := 0
	for _, seg := range s.receiveQueue {
		length += seg.length()
		if seg.frag == 0 {
			break
		}
	}
	return length
}

// Recv copies the next complete, in-order message into buf. It returns
// ErrorNoData if no complete message is queued yet, or ErrorShortBuffer
// if buf is smaller than the message (nothing is consumed in that case).
func (s *Session) Recv(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.peekNextSizeLocked()
	if size < 0 {
		return 0, ErrorNoData.Error(nil)
	}
	if size > len(buf) {
		return 0, ErrorShortBuffer.Error(nil)
	}

	recover := len(s.receiveQueue) >= int(s.maxReceiveWindow)

	n := 0
	consumed := 0
	for _, seg := range s.receiveQueue {
		n += copy(buf[n:], seg.data)
		consumed++
		if seg.frag == 0 {
			break
		}
	}
	s.receiveQueue = s.receiveQueue[consumed:]

	s.promoteReceiveBufferLocked()

	if len(s.receiveQueue) < int(s.maxReceiveWindow) && recover {
		s.probeFlag |= probeTell
	}

	return n, nil
}

// promoteReceiveBufferLocked moves the contiguous prefix of
// receiveBuffer starting at receiveNext into receiveQueue.
func (s *Session) promoteReceiveBufferLocked() {
	for len(s.receiveBuffer) > 0 {
		seg := s.receiveBuffer[0]
		if seg.sn == s.receiveNext && len(s.receiveQueue) < int(s.maxReceiveWindow) {
			s.receiveBuffer = s.receiveBuffer[1:]
			s.receiveQueue = append(s.receiveQueue, seg)
			s.receiveNext++
		} else {
			break
		}
	}
}

func (s *Session) unusedWindowCountLocked() uint16 {
	if uint32(len(s.receiveQueue)) < s.maxReceiveWindow {
		return uint16(s.maxReceiveWindow - uint32(len(s.receiveQueue)))
	}
	return 0
}

func (s *Session) updateACKLocked(rtt int) {
	if s.srtt == 0 {
		s.srtt = rtt
		s.rttVar = rtt / 2
	} else {
		delta := rtt - s.srtt
		if delta < 0 {
			delta = -delta
		}
		s.rttVar = (3*s.rttVar + delta) / 4
		s.srtt = (7*s.srtt + rtt) / 8
		if s.srtt < 1 {
			s.srtt = 1
		}
	}
	rto := s.srtt + maxInt(s.intervalMs, 4*s.rttVar)
	s.rto = clampInt(rto, s.minRTOValue, maxRTO)
}

func (s *Session) shrinkBufferLocked() {
	if len(s.sendBuffer) > 0 {
		s.sendUNA = s.sendBuffer[0].sn
	} else {
		s.sendUNA = s.sendNext
	}
}

func (s *Session) parseUNALocked(una uint32) {
	i := 0
	for ; i < len(s.sendBuffer); i++ {
		if seqLess(s.sendBuffer[i].sn, una) {
			continue
		}
		break
	}
	s.sendBuffer = s.sendBuffer[i:]
}

func (s *Session) parseACKLocked(sn uint32) {
	if seqLess(sn, s.sendUNA) || seqGreaterEq(sn, s.sendNext) {
		return
	}
	for i, seg := range s.sendBuffer {
		if seg.sn == sn {
			s.sendBuffer = append(s.sendBuffer[:i], s.sendBuffer[i+1:]...)
			return
		}
		if seqLess(sn, seg.sn) {
			return
		}
	}
}

func (s *Session) parseFastACKLocked(sn uint32) {
	if seqLess(sn, s.sendUNA) || seqGreaterEq(sn, s.sendNext) {
		return
	}
	for _, seg := range s.sendBuffer {
		if seqLess(sn, seg.sn) {
			break
		} else if sn != seg.sn {
			seg.fastACK++
		}
	}
}

// parseSegmentLocked inserts a freshly decoded PUSH segment into
// receiveBuffer in sn order (discarding duplicates and out-of-window
// segments), then promotes whatever contiguous prefix that produces.
func (s *Session) parseSegmentLocked(seg *segment) {
	if seqGreaterEq(seg.sn, s.receiveNext+s.maxReceiveWindow) || seqLess(seg.sn, s.receiveNext) {
		return
	}

	i := len(s.receiveBuffer)
	for ; i > 0; i-- {
		prev := s.receiveBuffer[i-1]
		if prev.sn == seg.sn {
			return
		}
		if seqLess(prev.sn, seg.sn) {
			break
		}
	}
	s.receiveBuffer = append(s.receiveBuffer, nil)
	copy(s.receiveBuffer[i+1:], s.receiveBuffer[i:])
	s.receiveBuffer[i] = seg

	s.promoteReceiveBufferLocked()
}

// Input parses one or more concatenated wire segments out of data. Gaps
// and duplicates are tolerated; a conv-id mismatch or malformed segment
// aborts the whole call.
func (s *Session) Input(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(data) < headerSize {
		return ErrorTruncated.Error(nil)
	}

	unaSnapshot := s.sendUNA
	haveAck := false
	var maxAcked uint32

	for len(data) >= headerSize {
		seg, consumed, err := decodeSegment(data)
		if err != nil {
			return err
		}
		if seg.conv != s.conv {
			return ErrorBadConv.Error(nil)
		}

		s.windowRemote = uint32(seg.wnd)
		s.parseUNALocked(seg.una)
		s.shrinkBufferLocked()

		switch seg.cmd {
		case CmdAck:
			elapsed := int32(uint32(s.current) - seg.ts)
			if elapsed >= 0 {
				s.updateACKLocked(int(elapsed))
			}
			s.parseACKLocked(seg.sn)
			s.shrinkBufferLocked()
			if !haveAck {
				haveAck = true
				maxAcked = seg.sn
			} else if seqLess(maxAcked, seg.sn) {
				maxAcked = seg.sn
			}
			s.log(logger.Entry{Level: loglvl.DebugLevel, Message: "reliablesess: input ack", Fields: map[string]interface{}{"sn": seg.sn}})
		case CmdPush:
			if seqLess(seg.sn, s.receiveNext+s.maxReceiveWindow) {
				s.ackList = append(s.ackList, ackEntry{sn: seg.sn, ts: seg.ts})
				if seqGreaterEq(seg.sn, s.receiveNext) {
					s.parseSegmentLocked(seg)
				}
			}
		case CmdAskWindow:
			s.probeFlag |= probeTell
		case CmdTellWindow:
			// remote window already updated above; nothing else to do.
		default:
			return ErrorBadCommand.Error(nil)
		}

		data = data[consumed:]
	}

	if haveAck {
		s.parseFastACKLocked(maxAcked)
	}

	if int32(s.sendUNA-unaSnapshot) > 0 {
		s.growCongestionLocked()
	}

	return nil
}

func (s *Session) growCongestionLocked() {
	if s.windowCongestion >= s.windowRemote {
		return
	}
	mss := uint32(s.mss)
	if s.windowCongestion < s.ssthresh {
		s.windowCongestion++
		s.increase += mss
	} else {
		if s.increase < mss {
			s.increase = mss
		}
		s.increase += mss*mss/s.increase + mss/16
		if (s.windowCongestion+1)*mss <= s.increase {
			s.windowCongestion++
		}
	}
	if s.windowCongestion > s.windowRemote {
		s.windowCongestion = s.windowRemote
		s.increase = s.windowRemote * mss
	}
}

// Update drives the session's clock forward to nowMs and flushes at most
// once per configured interval.
func (s *Session) Update(nowMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nowMs
	if !s.updated {
		s.updated = true
	}
	if s.current <= s.timeFlush {
		return
	}
	if s.current-s.timeFlush >= 10000 {
		s.timeFlush = s.current
	} else {
		s.timeFlush = s.current + int64(s.intervalMs)
	}
	s.flushLocked()
}

// Check reports the next time at which Update should be called again,
// the earlier of the flush deadline or any send-buffer segment's resend
// time.
func (s *Session) Check(nowMs int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.updated {
		return nowMs
	}

	tsFlush := s.timeFlush
	if d := nowMs - tsFlush; d >= 10000 || d < -10000 {
		tsFlush = nowMs
	}
	if nowMs >= tsFlush {
		return nowMs
	}

	const sentinel = int64(1) << 40
	tmPacket := sentinel
	for _, seg := range s.sendBuffer {
		diff := seg.resendTimeMs - nowMs
		if diff <= 0 {
			return nowMs
		}
		if diff < tmPacket {
			tmPacket = diff
		}
	}

	tmFlush := tsFlush - nowMs
	minimal := tmPacket
	if tmFlush < minimal {
		minimal = tmFlush
	}
	if minimal >= int64(s.intervalMs) {
		minimal = int64(s.intervalMs)
	}
	return nowMs + minimal
}

// Flush emits any pending ACKs, window-probe segments and send-buffer
// (re)transmissions without waiting for the next Update tick.
func (s *Session) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

func (s *Session) flushLocked() {
	if !s.updated {
		return
	}

	wnd := s.unusedWindowCountLocked()
	output := make([]byte, 0, s.mtu)

	flushOut := func() {
		if len(output) > 0 {
			_ = s.sender(output)
			output = output[:0]
		}
	}
	ensureRoom := func(need int) {
		if len(output)+need > s.mtu {
			flushOut()
		}
	}

	for _, ack := range s.ackList {
		ensureRoom(headerSize)
		seg := segment{conv: s.conv, cmd: CmdAck, wnd: wnd, una: s.receiveNext, sn: ack.sn, ts: ack.ts}
		output = seg.encode(output)
	}
	s.ackList = s.ackList[:0]

	if s.windowRemote == 0 {
		if s.timeProbeWait == 0 {
			s.timeProbeWait = probeTime
			s.timeProbe = s.current + s.timeProbeWait
		} else if s.current >= s.timeProbe {
			if s.timeProbeWait < probeTime {
				s.timeProbeWait = probeTime
			}
			s.timeProbeWait += s.timeProbeWait / 2
			if s.timeProbeWait > probeTimeLimit {
				s.timeProbeWait = probeTimeLimit
			}
			s.timeProbe = s.current + s.timeProbeWait
			s.probeFlag |= probeAsk
		}
	} else {
		s.timeProbe = 0
		s.timeProbeWait = 0
	}

	if s.probeFlag&probeAsk != 0 {
		ensureRoom(headerSize)
		seg := segment{conv: s.conv, cmd: CmdAskWindow, wnd: wnd, una: s.receiveNext}
		output = seg.encode(output)
	}
	if s.probeFlag&probeTell != 0 {
		ensureRoom(headerSize)
		seg := segment{conv: s.conv, cmd: CmdTellWindow, wnd: wnd, una: s.receiveNext}
		output = seg.encode(output)
	}
	s.probeFlag = 0

	cwnd := minU32(s.maxSendWindow, s.windowRemote)
	if !s.noCongestionControl {
		cwnd = minU32(s.windowCongestion, cwnd)
	}

	for seqLess(s.sendNext, s.sendUNA+cwnd) && len(s.sendQueue) > 0 {
		seg := s.sendQueue[0]
		s.sendQueue = s.sendQueue[1:]

		seg.conv = s.conv
		seg.cmd = CmdPush
		seg.wnd = wnd
		seg.ts = uint32(s.current)
		seg.sn = s.sendNext
		s.sendNext++
		seg.una = s.receiveNext
		seg.resendTimeMs = s.current
		seg.rto = uint32(s.rto)
		seg.fastACK = 0
		seg.xmit = 0

		s.sendBuffer = append(s.sendBuffer, seg)
	}

	resend := uint32(0xffffffff)
	if s.fastResend > 0 {
		resend = uint32(s.fastResend)
	}
	var rtomin uint32
	if !s.nodelay {
		rtomin = uint32(s.rto) >> 3
	}

	change := false
	lost := false

	for _, seg := range s.sendBuffer {
		needSend := false
		switch {
		case seg.xmit == 0:
			needSend = true
			seg.xmit++
			seg.rto = uint32(s.rto)
			seg.resendTimeMs = s.current + int64(seg.rto) + int64(rtomin)
		case s.current >= seg.resendTimeMs:
			needSend = true
			seg.xmit++
			s.totalXmit++
			if !s.nodelay {
				seg.rto += uint32(s.rto)
			} else {
				seg.rto += uint32(s.rto) / 2
			}
			seg.resendTimeMs = s.current + int64(seg.rto)
			lost = true
		case seg.fastACK >= resend:
			needSend = true
			seg.xmit++
			seg.fastACK = 0
			seg.resendTimeMs = s.current + int64(seg.rto)
			change = true
		}

		if needSend {
			seg.ts = uint32(s.current)
			seg.wnd = wnd
			seg.una = s.receiveNext

			ensureRoom(headerSize + seg.length())
			output = seg.encode(output)

			if seg.xmit >= uint32(s.deadLink) {
				s.dead = true
				s.log(logger.Entry{Level: loglvl.ErrorLevel, Message: "reliablesess: dead link", Fields: map[string]interface{}{"conv": s.conv, "sn": seg.sn}})
			} else if seg.xmit > 1 {
				s.log(logger.Entry{Level: loglvl.DebugLevel, Message: "reliablesess: retransmit", Fields: map[string]interface{}{"conv": s.conv, "sn": seg.sn, "xmit": seg.xmit}})
			}
		}
	}
	flushOut()

	if change {
		inflight := s.sendNext - s.sendUNA
		s.ssthresh = inflight / 2
		if s.ssthresh < minSSThresh {
			s.ssthresh = minSSThresh
		}
		s.windowCongestion = s.ssthresh + resend
		s.increase = s.windowCongestion * uint32(s.mss)
	}
	if lost {
		s.ssthresh = cwnd / 2
		if s.ssthresh < minSSThresh {
			s.ssthresh = minSSThresh
		}
		s.windowCongestion = 1
		s.increase = uint32(s.mss)
	}
	if s.windowCongestion < 1 {
		s.windowCongestion = 1
		s.increase = uint32(s.mss)
	}
}

// Close marks the session closed; further Send calls fail with
// ErrorSessionClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
