// Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
package stats_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/NVIDIA/emberplus-go/stats"
)

func findMetric(t *testing.T, mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() == "emberplus_session_"+name {
			return mf
		}
	}
	t.Fatalf("metric %q not registered", name)
	return nil
}

func TestCollectorCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := stats.NewCollector(reg)

	c.RequestSent()
	c.RequestSent()
	c.RequestTimeout()
	c.FrameError()
	c.ObserveLatency(5 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	sent := findMetric(t, mfs, "requests_sent_total")
	if got := sent.Metric[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("requests_sent_total = %v, want 2", got)
	}
	timeouts := findMetric(t, mfs, "request_timeouts_total")
	if got := timeouts.Metric[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("request_timeouts_total = %v, want 1", got)
	}
	latency := findMetric(t, mfs, "response_latency_seconds")
	if got := latency.Metric[0].GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("response_latency_seconds sample count = %v, want 1", got)
	}
}
