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

import "encoding/binary"

// Command identifies a segment's purpose on the wire.
type Command uint8

const (
	CmdPush       Command = 81
	CmdAck        Command = 82
	CmdAskWindow  Command = 83
	CmdTellWindow Command = 84
)

// headerSize is the fixed wire size of a segment header:
// conv(4) | cmd(1) | frag(1) | wnd(2) | ts(4) | sn(4) | una(4) | len(4).
const headerSize = 24

// segment is one in-flight or queued unit of the protocol: header fields
// plus local bookkeeping used only on the sending side (resendTime, rto,
// fastACK, xmit never travel on the wire).
type segment struct {
	conv uint32
	cmd  Command
	frag uint8
	wnd  uint16
	ts   uint32
	sn   uint32
	una  uint32
	data []byte

	resendTimeMs int64
	rto          uint32
	fastACK      uint32
	xmit         uint32
}

func (s *segment) length() int { return len(s.data) }

// encode appends the wire form of s (header + payload) to dst and returns
// the extended slice.
func (s *segment) encode(dst []byte) []byte {
	var hdr [headerSize]byte
	binary.BigEndian.PutUint32(hdr[0:4], s.conv)
	hdr[4] = byte(s.cmd)
	hdr[5] = s.frag
	binary.BigEndian.PutUint16(hdr[6:8], s.wnd)
	binary.BigEndian.PutUint32(hdr[8:12], s.ts)
	binary.BigEndian.PutUint32(hdr[12:16], s.sn)
	binary.BigEndian.PutUint32(hdr[16:20], s.una)
	binary.BigEndian.PutUint32(hdr[20:24], uint32(len(s.data)))

	dst = append(dst, hdr[:]...)
	dst = append(dst, s.data...)
	return dst
}

// decodeSegment parses one segment (header + payload) from the front of
// buf, returning the segment and the number of bytes consumed. The
// returned segment's data is a copy, safe to retain past buf's lifetime.
func decodeSegment(buf []byte) (*segment, int, error) {
	if len(buf) < headerSize {
		return nil, 0, ErrorTruncated.Error(nil)
	}

	s := &segment{}
	s.conv = binary.BigEndian.Uint32(buf[0:4])
	s.cmd = Command(buf[4])
	s.frag = buf[5]
	s.wnd = binary.BigEndian.Uint16(buf[6:8])
	s.ts = binary.BigEndian.Uint32(buf[8:12])
	s.sn = binary.BigEndian.Uint32(buf[12:16])
	s.una = binary.BigEndian.Uint32(buf[16:20])
	dataLen := binary.BigEndian.Uint32(buf[20:24])

	switch s.cmd {
	case CmdPush, CmdAck, CmdAskWindow, CmdTellWindow:
	default:
		return nil, 0, ErrorBadCommand.Error(nil)
	}

	consumed := headerSize + int(dataLen)
	if len(buf) < consumed {
		return nil, 0, ErrorTruncated.Error(nil)
	}

	if dataLen > 0 {
		s.data = append([]byte(nil), buf[headerSize:consumed]...)
	}

	return s, consumed, nil
}

// seqLess reports whether a precedes b under signed wrap-around sequence
// arithmetic (a - b, interpreted as a signed 32-bit difference, is
// negative). This is the Go expression of the original's
// `AppValueDiff(a, b) < 0` comparisons against unsigned sequence numbers.
func seqLess(a, b uint32) bool {
	return int32(a-b) < 0
}

// seqLessEq reports whether a precedes or equals b under the same
// wrap-around arithmetic.
func seqLessEq(a, b uint32) bool {
	return int32(a-b) <= 0
}

// seqGreaterEq reports whether a is at or after b under wrap-around
// arithmetic.
func seqGreaterEq(a, b uint32) bool {
	return int32(a-b) >= 0
}
