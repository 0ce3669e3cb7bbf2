// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utility

import (
	"fmt"
	"math/rand/v2"

	"github.com/someonegg/placematch"
	"github.com/someonegg/placematch/montecarlo"
)

// Interview models sequential hiring. The agents of one profession at one
// locality apply in uniformly random order; each one interviews for the
// remaining openings one after another, passing each interview with its
// own compatibility probability, and is hired at the first pass. The
// utility is the expected number of hires, summed over localities and
// professions.
type Interview struct {
	placematch.Layout
	professions
	compat   []float64
	openings [][]int

	est *montecarlo.Estimator
}

// NewInterview builds the model of len(profession) agents. compat[i] is the
// probability that agent i passes an interview and openings[l][p] is the
// number of jobs for profession p at locality l.
func NewInterview(caps []int, profession []int, compat []float64, openings [][]int,
	samples int, rng *rand.Rand) (*Interview, error) {
	layout, err := placematch.NewLayout(len(profession), caps)
	if err != nil {
		return nil, err
	}
	numProfessions, err := tableWidth("openings", openings, len(caps), profession)
	if err != nil {
		return nil, err
	}
	ps, err := newProfessions(profession, len(caps), numProfessions)
	if err != nil {
		return nil, err
	}
	if len(compat) != len(profession) {
		return nil, fmt.Errorf("%d compatibilities for %d agents", len(compat), len(profession))
	}
	if err := checkProbabilities(compat); err != nil {
		return nil, err
	}
	for l, row := range openings {
		for p, n := range row {
			if n < 0 {
				return nil, fmt.Errorf("profession %d at locality %d has negative openings %d", p, l, n)
			}
		}
	}

	est, err := montecarlo.NewEstimator(samples, rng)
	if err != nil {
		return nil, err
	}

	return &Interview{
		Layout:      layout,
		professions: ps,
		compat:      compat,
		openings:    openings,
		est:         est,
	}, nil
}

func (m *Interview) Utility(matching placematch.Matching) (float64, error) {
	if err := m.Validate(matching); err != nil {
		return 0, err
	}
	total := 0.0
	for l, perProfession := range m.groups(m.NumLocalities(), matching) {
		for p, agents := range perProfession {
			if len(agents) == 0 {
				continue
			}
			probs := make([]float64, len(agents))
			for k, i := range agents {
				probs[k] = m.compat[i]
			}
			total += m.GroupUtility(l, p, probs)
		}
	}
	return total, nil
}

// GroupUtility is the memoized expected number of hires among applicants
// of profession p at locality l with the given compatibilities.
func (m *Interview) GroupUtility(l, p int, probs []float64) float64 {
	openings := m.openings[l][p]
	if openings == 0 || len(probs) == 0 {
		return 0
	}
	key := montecarlo.FloatsKey(probs)
	return m.caches[l][p].Get(key, func() float64 {
		order := make([]float64, len(probs))
		return m.est.Mean(func(rng *rand.Rand) float64 {
			copy(order, probs)
			rng.Shuffle(len(order), func(a, b int) {
				order[a], order[b] = order[b], order[a]
			})
			return float64(hire(order, openings, rng))
		})
	})
}

// hire runs one application round and returns the number of hires.
func hire(order []float64, openings int, rng *rand.Rand) int {
	hired := 0
	for _, q := range order {
		remaining := openings - hired
		if remaining == 0 {
			break
		}
		for k := 0; k < remaining; k++ {
			if rng.Float64() < q {
				hired++
				break
			}
		}
	}
	return hired
}

func (m *Interview) CacheStats() montecarlo.Stats {
	return m.stats()
}
