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

// Package reliablesess implements an ordered, retransmitted delivery
// session over an unreliable send(bytes) primitive: fragmentation,
// selective-ACK, RTT estimation, slow-start/congestion-avoidance window
// growth and window probing, in the shape of a classic ARQ protocol.
package reliablesess

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"
	liberr "github.com/nabbar/ant-golib/errors"
)

const (
	minRTONoDelay  = 30
	minRTONormal   = 100
	maxRTO         = 60000
	defaultRTO     = 200
	defaultSWindow = 32
	defaultRWindow = 32
	defaultMTU     = 1400
	defaultInterval = 100
	defaultDeadLink = 20
	defaultSSThresh = 2
	minSSThresh     = 2
	probeTime       = 7000
	probeTimeLimit  = 120000
)

// Config constructs a Session. Every field has a documented default
// applied by New when left zero.
type Config struct {
	// Conv is the conversation id shared by both peers of this session.
	Conv uint32 `json:"conv" yaml:"conv" toml:"conv" mapstructure:"conv" validate:"required"`

	// MTU caps the size of one packed output buffer. Default 1400.
	MTU int `json:"mtu" yaml:"mtu" toml:"mtu" mapstructure:"mtu"`

	// SendWindow, ReceiveWindow cap the send/receive window sizes.
	// Default 32 each.
	SendWindow    int `json:"send-window" yaml:"send-window" toml:"send-window" mapstructure:"send-window"`
	ReceiveWindow int `json:"receive-window" yaml:"receive-window" toml:"receive-window" mapstructure:"receive-window"`

	// Interval is the update() flush interval in milliseconds, clamped
	// to [10, 5000]. Default 100.
	Interval int

	// NoDelay enables the low-latency RTO/resend profile (min RTO 30ms; on
	// each timeout a segment's RTO grows by half the session RTO instead of
	// by the full session RTO).
	NoDelay bool

	// FastResend is the duplicate-ACK threshold that triggers a fast
	// retransmit. Zero disables fast resend.
	FastResend int

	// NoCongestionControl disables the congestion window entirely,
	// bounding only by SendWindow/ReceiveWindow.
	NoCongestionControl bool

	// StreamMode merges send() payloads into the trailing queued
	// segment instead of always starting a fresh fragment chain.
	StreamMode bool

	// DeadLink is the per-segment transmit count at which the session is
	// declared dead. Default 20.
	DeadLink int
}

// Validate checks the struct tags above via go-playground/validator,
// collapsing every violation into a single liberr.Error chain.
func (c *Config) Validate() liberr.Error {
	e := ErrorValidatorError.Error(nil)

	if err := libval.New().Struct(c); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		} else {
			for _, er := range err.(libval.ValidationErrors) {
				e.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
			}
		}
	}

	if !e.HasParent() {
		return nil
	}
	return e
}

func (c *Config) mtu() int {
	if c.MTU <= 0 {
		return defaultMTU
	}
	return c.MTU
}

func (c *Config) sendWindow() int {
	if c.SendWindow <= 0 {
		return defaultSWindow
	}
	return c.SendWindow
}

func (c *Config) receiveWindow() int {
	if c.ReceiveWindow <= 0 {
		return defaultRWindow
	}
	return c.ReceiveWindow
}

func (c *Config) interval() int {
	iv := c.Interval
	if iv == 0 {
		iv = defaultInterval
	}
	if iv > 5000 {
		iv = 5000
	} else if iv < 10 {
		iv = 10
	}
	return iv
}

func (c *Config) deadLink() int {
	if c.DeadLink <= 0 {
		return defaultDeadLink
	}
	return c.DeadLink
}

func (c *Config) minRTO() int {
	if c.NoDelay {
		return minRTONoDelay
	}
	return minRTONormal
}
