// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/someonegg/placematch/instance"
)

const metricsNamespace = "placematch"

type metrics struct {
	registry *prometheus.Registry

	evaluations *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	utility     *prometheus.GaugeVec
	duration    *prometheus.HistogramVec
}

func newMetrics() *metrics {
	labels := []string{"instance", "strategy"}
	m := &metrics{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "utility_evaluations_total",
			Help:      "Utility evaluations requested by the optimizers.",
		}, labels),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "estimate_cache_hits_total",
			Help:      "Monte Carlo estimates served from the cache.",
		}, labels),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "estimate_cache_misses_total",
			Help:      "Monte Carlo estimates computed by sampling.",
		}, labels),
		utility: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "best_utility",
			Help:      "Utility of the last matching found.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "optimize_duration_seconds",
			Help:      "Wall time of one optimizer run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, labels),
	}
	m.registry.MustRegister(m.evaluations, m.cacheHits, m.cacheMisses, m.utility, m.duration)
	return m
}

func (m *metrics) observe(r instance.Report) {
	m.evaluations.WithLabelValues(r.Instance, r.Strategy).Add(float64(r.Evaluations))
	m.cacheHits.WithLabelValues(r.Instance, r.Strategy).Add(float64(r.CacheHits))
	m.cacheMisses.WithLabelValues(r.Instance, r.Strategy).Add(float64(r.CacheMisses))
	m.utility.WithLabelValues(r.Instance, r.Strategy).Set(r.Utility)
	m.duration.WithLabelValues(r.Instance, r.Strategy).Observe(r.Elapsed.Seconds())
}

// write prints one line per sample, histograms as their count and sum.
func (m *metrics) write(w io.Writer) error {
	mfs, err := m.registry.Gather()
	if err != nil {
		return err
	}

	for _, mf := range mfs {
		for _, mt := range mf.GetMetric() {
			pairs := make([]string, 0, len(mt.GetLabel()))
			for _, lp := range mt.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			labels := "{" + strings.Join(pairs, ",") + "}"

			switch {
			case mt.GetCounter() != nil:
				_, err = fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels, mt.GetCounter().GetValue())
			case mt.GetGauge() != nil:
				_, err = fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels, mt.GetGauge().GetValue())
			case mt.GetHistogram() != nil:
				h := mt.GetHistogram()
				_, err = fmt.Fprintf(w, "%s_count%s %d\n%s_sum%s %g\n",
					mf.GetName(), labels, h.GetSampleCount(), mf.GetName(), labels, h.GetSampleSum())
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
