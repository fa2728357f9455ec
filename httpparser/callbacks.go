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

package httpparser

// Callbacks is the capability interface a Parser drives as it consumes
// bytes, replacing the original's bundle of raw function pointers
// (FuncHttpData/FuncHttpHeader/FuncHttpParser). Any method returning a
// non-nil error aborts the parse, and Parse (or Finish) returns that error
// unchanged: it is not wrapped in ErrorCallbackAbort, which the parser does
// not return. Embed NoopCallbacks to implement only the methods a caller
// cares about.
type Callbacks interface {
	OnMessageBegin() error
	OnURL(data []byte) error
	OnStatus(data []byte) error
	OnHeader(key, value []byte) error
	OnHeadersComplete() (HeadAction, error)
	OnBody(data []byte) error
	OnMessageComplete() error
	OnChunkHeader(size uint64) error
	OnChunkComplete() error
}

// NoopCallbacks implements Callbacks with no-ops, so a caller can embed it
// and override only the methods relevant to their use case.
type NoopCallbacks struct{}

func (NoopCallbacks) OnMessageBegin() error                  { return nil }
func (NoopCallbacks) OnURL(data []byte) error                { return nil }
func (NoopCallbacks) OnStatus(data []byte) error             { return nil }
func (NoopCallbacks) OnHeader(key, value []byte) error       { return nil }
func (NoopCallbacks) OnHeadersComplete() (HeadAction, error) { return Continue, nil }
func (NoopCallbacks) OnBody(data []byte) error               { return nil }
func (NoopCallbacks) OnMessageComplete() error                { return nil }
func (NoopCallbacks) OnChunkHeader(size uint64) error          { return nil }
func (NoopCallbacks) OnChunkComplete() error                   { return nil }
