// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utility

import (
	"fmt"
	"math/rand/v2"

	"github.com/someonegg/placematch"
	"github.com/someonegg/placematch/bipartite"
	"github.com/someonegg/placematch/montecarlo"
)

// Coordination draws, at each locality, which assigned agents are
// compatible with which of its jobs, then fills the jobs optimally. The
// utility is the expected maximum matching size, summed over localities.
//
// Jobs and capacity are independent: a locality may accept more agents
// than it has jobs, anticipating that some will not fit any.
type Coordination struct {
	placematch.Layout
	jobs   []int
	compat [][][]float64

	est    *montecarlo.Estimator
	oracle bipartite.Oracle
	caches []*montecarlo.Cache // per locality, keyed by agent set
}

// NewCoordination builds the model of len(compat) agents, where
// compat[i][l][j] is the probability that agent i is compatible with job j
// of locality l.
func NewCoordination(caps, jobs []int, compat [][][]float64, samples int, rng *rand.Rand) (*Coordination, error) {
	layout, err := placematch.NewLayout(len(compat), caps)
	if err != nil {
		return nil, err
	}
	if len(jobs) != len(caps) {
		return nil, fmt.Errorf("%d job counts for %d localities", len(jobs), len(caps))
	}
	for l, n := range jobs {
		if n < 0 {
			return nil, fmt.Errorf("locality %d has negative job count %d", l, n)
		}
	}
	for i, perLocality := range compat {
		if len(perLocality) != len(caps) {
			return nil, fmt.Errorf("agent %d has compatibilities for %d localities, want %d",
				i, len(perLocality), len(caps))
		}
		for l, perJob := range perLocality {
			if len(perJob) != jobs[l] {
				return nil, fmt.Errorf("agent %d has compatibilities for %d jobs at locality %d, want %d",
					i, len(perJob), l, jobs[l])
			}
			if err := checkProbabilities(perJob); err != nil {
				return nil, fmt.Errorf("agent %d, locality %d: %w", i, l, err)
			}
		}
	}

	est, err := montecarlo.NewEstimator(samples, rng)
	if err != nil {
		return nil, err
	}

	return &Coordination{
		Layout: layout,
		jobs:   jobs,
		compat: compat,
		est:    est,
		oracle: bipartite.HopcroftKarp{},
		caches: newCaches(len(caps)),
	}, nil
}

// UseOracle replaces the maximum matching oracle.
func (m *Coordination) UseOracle(oracle bipartite.Oracle) {
	m.oracle = oracle
}

func (m *Coordination) Utility(matching placematch.Matching) (float64, error) {
	if err := m.Validate(matching); err != nil {
		return 0, err
	}
	total := 0.0
	for l, agents := range m.Groups(matching) {
		total += m.LocalityUtility(l, agents)
	}
	return total, nil
}

// LocalityUtility is the memoized expected utility of a set of agents at
// locality l. The locality and agents must be valid indices.
func (m *Coordination) LocalityUtility(l int, agents []int) float64 {
	if len(agents) == 0 || m.jobs[l] == 0 {
		return 0
	}
	return m.caches[l].Get(montecarlo.IntsKey(agents), func() float64 {
		return m.est.Mean(func(rng *rand.Rand) float64 {
			return m.draw(l, agents, rng)
		})
	})
}

func (m *Coordination) draw(l int, agents []int, rng *rand.Rand) float64 {
	g := bipartite.Graph{Left: len(agents), Right: m.jobs[l]}
	for k, i := range agents {
		for j, p := range m.compat[i][l] {
			if rng.Float64() < p {
				g.AddEdge(k, j)
			}
		}
	}
	return float64(m.oracle.MaxMatching(g))
}

func (m *Coordination) CacheStats() montecarlo.Stats {
	return sumStats(m.caches)
}
