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

package httpmsg

import (
	"github.com/nabbar/ant-golib/httpparser"
)

// Collector adapts a *Message into a httpparser.Callbacks implementation:
// feeding a Parser initialised with a Collector populates the Message as
// the stream is decoded. One Collector decodes one message at a time;
// OnMessageBegin resets Msg for the next one, so a Collector can sit in
// front of a keep-alive connection's Parser across its whole lifetime.
type Collector struct {
	httpparser.NoopCallbacks

	Msg *Message

	// HeadAction, when set, is returned verbatim from OnHeadersComplete,
	// letting a caller suppress a HEAD or CONNECT response's body the
	// same way the underlying Parser itself expects.
	HeadAction httpparser.HeadAction

	p *httpparser.Parser
}

// NewCollector returns a Collector writing into msg. p is the Parser this
// Collector will be registered against, used to read back the fields
// (method, URL, version, ...) the Parser itself already tracks.
func NewCollector(msg *Message, p *httpparser.Parser) *Collector {
	return &Collector{Msg: msg, p: p}
}

func (c *Collector) OnMessageBegin() error {
	c.Msg.Reset()
	c.Msg.Kind = c.p.Kind()
	return nil
}

func (c *Collector) OnURL(data []byte) error {
	c.Msg.URL += string(data)
	c.Msg.Method = c.p.Method
	return nil
}

func (c *Collector) OnStatus(data []byte) error {
	c.Msg.Reason += string(data)
	c.Msg.Status = c.p.StatusCode
	return nil
}

func (c *Collector) OnHeader(key, value []byte) error {
	c.Msg.Headers.Add(string(key), string(value))
	return nil
}

func (c *Collector) OnHeadersComplete() (httpparser.HeadAction, error) {
	c.Msg.VerMaj = c.p.VersionMajor
	c.Msg.VerMin = c.p.VersionMinor
	c.Msg.LastPartName = c.p.PartName()
	c.Msg.LastPartFileName = c.p.PartFileName()
	return c.HeadAction, nil
}

func (c *Collector) OnBody(data []byte) error {
	c.Msg.LastPartName = c.p.PartName()
	c.Msg.LastPartFileName = c.p.PartFileName()
	return c.Msg.appendBody(data)
}

func (c *Collector) OnMessageComplete() error {
	c.Msg.KeepAlive = c.p.ShouldKeepAlive()
	c.Msg.Upgraded = c.p.Upgrade()
	c.Msg.Complete = true
	return nil
}
