// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package montecarlo estimates expectations by sampling and memoizes the
// estimates under canonical keys.
package montecarlo

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
)

var ErrNoRand = errors.New("nil random source")

// Estimator averages independent draws taken from one explicit random
// source. It is not safe for concurrent use.
type Estimator struct {
	samples int
	rng     *rand.Rand
}

func NewEstimator(samples int, rng *rand.Rand) (*Estimator, error) {
	if samples < 1 {
		return nil, fmt.Errorf("random samples must be positive, got %d", samples)
	}
	if rng == nil {
		return nil, ErrNoRand
	}
	return &Estimator{samples: samples, rng: rng}, nil
}

func (e *Estimator) Samples() int {
	return e.samples
}

// Mean returns the sample mean of draw over the configured number of
// samples.
func (e *Estimator) Mean(draw func(rng *rand.Rand) float64) float64 {
	sum := 0.0
	for s := 0; s < e.samples; s++ {
		sum += draw(e.rng)
	}
	return sum / float64(e.samples)
}

type Stats struct {
	Entries int `json:"entries"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
}

func (s Stats) Add(o Stats) Stats {
	return Stats{
		Entries: s.Entries + o.Entries,
		Hits:    s.Hits + o.Hits,
		Misses:  s.Misses + o.Misses,
	}
}

// Cache memoizes computed values by key. Entries are never evicted.
// It is not safe for concurrent use.
type Cache struct {
	entries map[string]float64
	hits    int
	misses  int
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]float64)}
}

// Get returns the value stored under key, calling compute and storing its
// result on the first request.
func (c *Cache) Get(key string, compute func() float64) float64 {
	if v, ok := c.entries[key]; ok {
		c.hits++
		return v
	}
	c.misses++
	v := compute()
	c.entries[key] = v
	return v
}

func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) Stats() Stats {
	return Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}

// IntsKey is the canonical key of a set of indices, independent of order.
func IntsKey(ids []int) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	var b strings.Builder
	for i, id := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}

// FloatsKey is the canonical key of a multiset of values, independent of
// order. Values are formatted exactly, so distinct values never collide.
func FloatsKey(vals []float64) string {
	sorted := slices.Clone(vals)
	slices.Sort(sorted)

	var b strings.Builder
	for i, v := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}
