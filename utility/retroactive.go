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

// Retroactive draws, independently per agent, whether the agent qualifies
// at its locality, then applies the locality and profession specific
// correction to the number of qualified agents of each profession.
//
// Agents of one profession with equal qualification probability are
// interchangeable, so estimates are memoized by the probability multiset.
type Retroactive struct {
	placematch.Layout
	professions
	qualify     [][]float64
	corrections [][]Correction

	est *montecarlo.Estimator
}

// NewRetroactive builds the model of len(profession) agents. qualify[i][l]
// is the probability that agent i qualifies at locality l, and
// corrections[l][p] is the correction of profession p at locality l.
func NewRetroactive(caps []int, profession []int, qualify [][]float64, corrections [][]Correction,
	samples int, rng *rand.Rand) (*Retroactive, error) {
	layout, err := placematch.NewLayout(len(profession), caps)
	if err != nil {
		return nil, err
	}
	numProfessions, err := tableWidth("corrections", corrections, len(caps), profession)
	if err != nil {
		return nil, err
	}
	ps, err := newProfessions(profession, len(caps), numProfessions)
	if err != nil {
		return nil, err
	}
	if len(qualify) != len(profession) {
		return nil, fmt.Errorf("%d qualification rows for %d agents", len(qualify), len(profession))
	}
	for i, row := range qualify {
		if len(row) != len(caps) {
			return nil, fmt.Errorf("agent %d has qualifications for %d localities, want %d",
				i, len(row), len(caps))
		}
		if err := checkProbabilities(row); err != nil {
			return nil, fmt.Errorf("agent %d: %w", i, err)
		}
	}
	for l, row := range corrections {
		for p, c := range row {
			if c == nil {
				return nil, fmt.Errorf("missing correction for profession %d at locality %d", p, l)
			}
			if err := CheckCorrection(c, min(len(profession), caps[l])); err != nil {
				return nil, fmt.Errorf("profession %d at locality %d: %w", p, l, err)
			}
		}
	}

	est, err := montecarlo.NewEstimator(samples, rng)
	if err != nil {
		return nil, err
	}

	return &Retroactive{
		Layout:      layout,
		professions: ps,
		qualify:     qualify,
		corrections: corrections,
		est:         est,
	}, nil
}

func (m *Retroactive) Utility(matching placematch.Matching) (float64, error) {
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
				probs[k] = m.qualify[i][l]
			}
			total += m.GroupUtility(l, p, probs)
		}
	}
	return total, nil
}

// GroupUtility is the memoized expected utility of agents of profession p
// at locality l with the given qualification probabilities.
func (m *Retroactive) GroupUtility(l, p int, probs []float64) float64 {
	key := montecarlo.FloatsKey(probs)
	return m.caches[l][p].Get(key, func() float64 {
		correction := m.corrections[l][p]
		return m.est.Mean(func(rng *rand.Rand) float64 {
			qualified := 0
			for _, q := range probs {
				if rng.Float64() < q {
					qualified++
				}
			}
			return correction.Apply(qualified)
		})
	})
}

func (m *Retroactive) CacheStats() montecarlo.Stats {
	return m.stats()
}
