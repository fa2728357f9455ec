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

// Package monitor exposes the live state of the other packages' long-lived
// objects (reliablesess sessions, queues, worker pools, DB pools) as
// Prometheus metrics. It is a pull-based prometheus.Collector: nothing here
// pushes metric updates, every Collect call reads each registered
// component's current state directly.
package monitor

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/ant-golib/dbpool"
	"github.com/nabbar/ant-golib/reliablesess"
	"github.com/nabbar/ant-golib/workerpool"
)

// queueLen is satisfied by any mpmcqueue.Queue[T] regardless of its element
// type, since Go generics give each instantiation a distinct concrete type.
type queueLen interface {
	Len() int
}

var (
	descSessSRTT     = prometheus.NewDesc("reliablesess_srtt_milliseconds", "Smoothed round-trip time estimate.", []string{"name"}, nil)
	descSessRTO      = prometheus.NewDesc("reliablesess_rto_milliseconds", "Current retransmission timeout.", []string{"name"}, nil)
	descSessCwnd     = prometheus.NewDesc("reliablesess_congestion_window", "Current congestion window, in segments.", []string{"name"}, nil)
	descSessSSThresh = prometheus.NewDesc("reliablesess_slow_start_threshold", "Slow-start threshold, in segments.", []string{"name"}, nil)
	descSessInflight   = prometheus.NewDesc("reliablesess_inflight_segments", "Segments sent but not yet acknowledged.", []string{"name"}, nil)
	descSessSendQueue  = prometheus.NewDesc("reliablesess_send_queue_length", "Fragments queued but not yet admitted into the send window.", []string{"name"}, nil)
	descSessSendBuffer = prometheus.NewDesc("reliablesess_send_buffer_length", "Segments admitted into the send window.", []string{"name"}, nil)
	descSessRecvBuffer = prometheus.NewDesc("reliablesess_recv_buffer_length", "Out-of-order segments held pending reassembly.", []string{"name"}, nil)
	descSessRecvQueue  = prometheus.NewDesc("reliablesess_recv_queue_length", "In-order segments ready for Recv.", []string{"name"}, nil)
	descSessRetransmit = prometheus.NewDesc("reliablesess_retransmits_total", "Cumulative count of segment retransmissions.", []string{"name"}, nil)
	descSessDead       = prometheus.NewDesc("reliablesess_dead", "1 if the session has declared its link dead, 0 otherwise.", []string{"name"}, nil)

	descQueueLen = prometheus.NewDesc("mpmcqueue_length", "Number of items currently queued.", []string{"name"}, nil)

	descPoolActive = prometheus.NewDesc("workerpool_active_workers", "Workers currently executing a task.", []string{"name"}, nil)
	descPoolQueued = prometheus.NewDesc("workerpool_queued_tasks", "Tasks waiting in the ready ring.", []string{"name"}, nil)

	descDBInUse = prometheus.NewDesc("dbpool_connections_in_use", "Connectors currently checked out.", []string{"name"}, nil)
	descDBTotal = prometheus.NewDesc("dbpool_connections_total", "Total Connectors in the pool.", []string{"name"}, nil)
)

// Collector aggregates every registered component into one
// prometheus.Collector, suitable for a single prometheus.Registry.Register
// call regardless of how many sessions, queues or pools exist.
type Collector struct {
	mu sync.RWMutex

	sessions by[*reliablesess.Session]
	queues   by[queueLen]
	pools    by[*workerpool.Pool]
	dbpools  by[*dbpool.Pool]
}

type by[T any] map[string]T

// New returns an empty Collector. Register it with a prometheus.Registry
// once; components may be added and removed from it at any time afterward.
func New() *Collector {
	return &Collector{
		sessions: make(by[*reliablesess.Session]),
		queues:   make(by[queueLen]),
		pools:    make(by[*workerpool.Pool]),
		dbpools:  make(by[*dbpool.Pool]),
	}
}

func registerInto[T any](mu *sync.RWMutex, m by[T], name string, v T) error {
	if name == "" {
		return ErrorNameEmpty.Error(nil)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := m[name]; ok {
		return ErrorNameDuplicate.Error(nil)
	}
	m[name] = v
	return nil
}

func unregisterFrom[T any](mu *sync.RWMutex, m by[T], name string) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := m[name]; !ok {
		return ErrorNameNotFound.Error(nil)
	}
	delete(m, name)
	return nil
}

// RegisterSession exposes s's Stats() under name.
func (c *Collector) RegisterSession(name string, s *reliablesess.Session) error {
	return registerInto(&c.mu, c.sessions, name, s)
}

// UnregisterSession stops exposing the session registered under name.
func (c *Collector) UnregisterSession(name string) error {
	return unregisterFrom(&c.mu, c.sessions, name)
}

// RegisterQueue exposes q's Len() under name. q may be any
// *mpmcqueue.Queue[T] instantiation.
func (c *Collector) RegisterQueue(name string, q queueLen) error {
	return registerInto(&c.mu, c.queues, name, q)
}

// UnregisterQueue stops exposing the queue registered under name.
func (c *Collector) UnregisterQueue(name string) error {
	return unregisterFrom(&c.mu, c.queues, name)
}

// RegisterWorkerPool exposes p's Active()/Queued() under name.
func (c *Collector) RegisterWorkerPool(name string, p *workerpool.Pool) error {
	return registerInto(&c.mu, c.pools, name, p)
}

// UnregisterWorkerPool stops exposing the pool registered under name.
func (c *Collector) UnregisterWorkerPool(name string) error {
	return unregisterFrom(&c.mu, c.pools, name)
}

// RegisterDBPool exposes p's InUse()/Size() under name.
func (c *Collector) RegisterDBPool(name string, p *dbpool.Pool) error {
	return registerInto(&c.mu, c.dbpools, name, p)
}

// UnregisterDBPool stops exposing the DB pool registered under name.
func (c *Collector) UnregisterDBPool(name string) error {
	return unregisterFrom(&c.mu, c.dbpools, name)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descSessSRTT
	ch <- descSessRTO
	ch <- descSessCwnd
	ch <- descSessSSThresh
	ch <- descSessInflight
	ch <- descSessSendQueue
	ch <- descSessSendBuffer
	ch <- descSessRecvBuffer
	ch <- descSessRecvQueue
	ch <- descSessRetransmit
	ch <- descSessDead
	ch <- descQueueLen
	ch <- descPoolActive
	ch <- descPoolQueued
	ch <- descDBInUse
	ch <- descDBTotal
}

// Collect implements prometheus.Collector, reading every registered
// component's current state.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for name, s := range c.sessions {
		st := s.Stats()
		dead := 0.0
		if st.Dead {
			dead = 1.0
		}
		ch <- prometheus.MustNewConstMetric(descSessSRTT, prometheus.GaugeValue, float64(st.SRTT), name)
		ch <- prometheus.MustNewConstMetric(descSessRTO, prometheus.GaugeValue, float64(st.RTO), name)
		ch <- prometheus.MustNewConstMetric(descSessCwnd, prometheus.GaugeValue, float64(st.Cwnd), name)
		ch <- prometheus.MustNewConstMetric(descSessSSThresh, prometheus.GaugeValue, float64(st.SSThreshold), name)
		ch <- prometheus.MustNewConstMetric(descSessInflight, prometheus.GaugeValue, float64(st.Inflight), name)
		ch <- prometheus.MustNewConstMetric(descSessSendQueue, prometheus.GaugeValue, float64(st.SendQueued), name)
		ch <- prometheus.MustNewConstMetric(descSessSendBuffer, prometheus.GaugeValue, float64(st.SendBuffered), name)
		ch <- prometheus.MustNewConstMetric(descSessRecvBuffer, prometheus.GaugeValue, float64(st.RecvBuffered), name)
		ch <- prometheus.MustNewConstMetric(descSessRecvQueue, prometheus.GaugeValue, float64(st.RecvQueued), name)
		ch <- prometheus.MustNewConstMetric(descSessRetransmit, prometheus.CounterValue, float64(st.TotalXmit), name)
		ch <- prometheus.MustNewConstMetric(descSessDead, prometheus.GaugeValue, dead, name)
	}

	for name, q := range c.queues {
		ch <- prometheus.MustNewConstMetric(descQueueLen, prometheus.GaugeValue, float64(q.Len()), name)
	}

	for name, p := range c.pools {
		ch <- prometheus.MustNewConstMetric(descPoolActive, prometheus.GaugeValue, float64(p.Active()), name)
		ch <- prometheus.MustNewConstMetric(descPoolQueued, prometheus.GaugeValue, float64(p.Queued()), name)
	}

	for name, p := range c.dbpools {
		ch <- prometheus.MustNewConstMetric(descDBInUse, prometheus.GaugeValue, float64(p.InUse()), name)
		ch <- prometheus.MustNewConstMetric(descDBTotal, prometheus.GaugeValue, float64(p.Size()), name)
	}
}
