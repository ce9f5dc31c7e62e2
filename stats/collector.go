// Package stats tracks request/latency/error counters for a session
// pipeline (component D) and exposes them to Prometheus (SPEC_FULL.md
// ambient observability — the source's StatsD/Prometheus dual-backend
// tracker (common_statsd.go) is reduced here to the Prometheus side
// only, since this module has no daemon loop to push StatsD deltas
// from).
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names follow the Prometheus convention: "*_total" for a plain
// counter, "*_seconds" for a latency histogram.
const (
	labelNamespace = "emberplus"
	labelSubsystem = "session"
)

// Collector implements session.Metrics, reporting to a
// prometheus.Registerer. It is kept in this package rather than
// session itself so session never imports the metrics backend
// directly (spec.md §4.D; avoids a client -> stats -> session import
// cycle).
type Collector struct {
	requestsSent    prometheus.Counter
	requestTimeouts prometheus.Counter
	frameErrors     prometheus.Counter
	latency         prometheus.Histogram
}

// NewCollector builds and registers the session metric set. Pass
// prometheus.DefaultRegisterer unless the caller maintains its own
// registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: labelNamespace,
			Subsystem: labelSubsystem,
			Name:      "requests_sent_total",
			Help:      "Requests written to the peer (getDirectory/setValue/connect/subscribe).",
		}),
		requestTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: labelNamespace,
			Subsystem: labelSubsystem,
			Name:      "request_timeouts_total",
			Help:      "Requests that never received a matching response within RequestTimeout.",
		}),
		frameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: labelNamespace,
			Subsystem: labelSubsystem,
			Name:      "frame_errors_total",
			Help:      "Non-fatal S101 framing errors (bad CRC, truncated frame) recovered from.",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: labelNamespace,
			Subsystem: labelSubsystem,
			Name:      "response_latency_seconds",
			Help:      "Time from writing a request to its matching response.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.requestsSent, c.requestTimeouts, c.frameErrors, c.latency)
	return c
}

func (c *Collector) RequestSent()    { c.requestsSent.Inc() }
func (c *Collector) RequestTimeout() { c.requestTimeouts.Inc() }
func (c *Collector) FrameError()     { c.frameErrors.Inc() }

func (c *Collector) ObserveLatency(d time.Duration) { c.latency.Observe(d.Seconds()) }
