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

package dbpool

import (
	"context"
	"sync/atomic"

	libuid "github.com/hashicorp/go-uuid"
	"github.com/nabbar/ant-golib/workerpool"
	gormdb "gorm.io/gorm"
)

// Hook runs once per dispatch-worker goroutine, on start or on stop. It
// exists for driver state that must be established per-thread rather than
// per-query (spec's "driver requires per-thread init/uninit calls").
type Hook func(workerID int)

// Pool is a bounded set of Connector instances, acquired and released
// around each unit of work and dispatched through an internal
// workerpool.Pool so a driver's per-goroutine setup hooks run exactly
// once per dispatch worker.
type Pool struct {
	cfg  Config
	name string

	connectors []*Connector
	avail      chan *Connector

	wp *workerpool.Pool

	closed atomic.Bool
}

// New validates cfg and constructs a Pool of cfg.PoolSize (or 1)
// Connector instances. No connection is dialled until Acquire or Execute
// is first used.
func New(cfg Config) (*Pool, error) {
	return NewWithHooks(cfg, nil, nil)
}

// NewWithHooks is New, but installs onStart/onStop as the dispatch
// workerpool's per-worker hooks before starting it.
func NewWithHooks(cfg Config, onStart, onStop Hook) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		if id, err := libuid.GenerateUUID(); err == nil {
			name = id
		}
	}

	n := cfg.poolSize()
	p := &Pool{
		cfg:        cfg,
		name:       name,
		connectors: make([]*Connector, n),
		avail:      make(chan *Connector, n),
	}
	for i := 0; i < n; i++ {
		c := newConnector(&p.cfg)
		p.connectors[i] = c
		p.avail <- c
	}

	p.wp = workerpool.New()
	if onStart != nil || onStop != nil {
		p.wp.SetHooks(func(id int) {
			if onStart != nil {
				onStart(id)
			}
		}, func(id int) {
			if onStop != nil {
				onStop(id)
			}
		})
	}
	if err := p.wp.Start(cfg.workers()); err != nil {
		return nil, err
	}

	return p, nil
}

// Name returns cfg.Name, or a generated UUID if the caller left it blank.
// Intended as the registration key passed to monitor.Collector.RegisterDBPool.
func (p *Pool) Name() string {
	return p.name
}

// InUse returns the number of Connectors currently checked out (not sitting
// in the idle channel), for the monitor package's DB-pool gauge.
func (p *Pool) InUse() int {
	return len(p.connectors) - len(p.avail)
}

// Size returns the pool's total Connector count.
func (p *Pool) Size() int {
	return len(p.connectors)
}

// Acquire blocks until a Connector is available, ctx is done, or the pool
// is closed. The caller must Release it exactly once. If ctx carries no
// deadline of its own and cfg.AcquireTimeout is set, Acquire bounds the
// wait to that duration.
func (p *Pool) Acquire(ctx context.Context) (*Connector, error) {
	if p.closed.Load() {
		return nil, ErrorPoolClosed.Error(nil)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && p.cfg.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.AcquireTimeout.Time())
		defer cancel()
	}

	select {
	case c, ok := <-p.avail:
		if !ok {
			return nil, ErrorPoolClosed.Error(nil)
		}
		return c, nil
	case <-ctx.Done():
		return nil, ErrorAcquireTimeout.Error(nil)
	}
}

// Release returns c to the pool, or closes it immediately if the pool has
// already been closed.
func (p *Pool) Release(c *Connector) {
	if p.closed.Load() {
		_ = c.Close()
		return
	}

	select {
	case p.avail <- c:
	default:
		// pool already holds every connector; nothing to do (defensive,
		// should be unreachable since Release is always paired with a
		// prior Acquire).
	}
}

// Execute dispatches fn to a dispatch-worker goroutine, which Acquires a
// Connector, opens its *gorm.DB, runs fn, and Releases the Connector
// before reporting the result back to the caller. It blocks until fn
// returns or ctx is cancelled.
func (p *Pool) Execute(ctx context.Context, fn func(db *gormdb.DB) error) error {
	if p.closed.Load() {
		return ErrorPoolClosed.Error(nil)
	}

	result := make(chan error, 1)
	ok := p.wp.Submit(func(any) {
		c, err := p.Acquire(ctx)
		if err != nil {
			result <- err
			return
		}
		defer p.Release(c)

		db, err := c.open()
		if err != nil {
			result <- err
			return
		}
		result <- fn(db)
	}, nil, false)

	if !ok {
		return ErrorPoolClosed.Error(nil)
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ErrorAcquireTimeout.Error(nil)
	}
}

// Close stops accepting new work, drains and closes every Connector
// currently sitting idle in the pool, and stops the dispatch workerpool.
// It does not wait for Connectors currently held by an in-flight Acquire;
// those are closed by Release once the caller returns them. Close returns
// the number of Connectors it closed directly.
func (p *Pool) Close() (released int) {
	if !p.closed.CompareAndSwap(false, true) {
		return 0
	}

	close(p.avail)
	for c := range p.avail {
		_ = c.Close()
		released++
	}

	_ = p.wp.Stop()
	return released
}
