// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package placematch

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
)

type randomOptimizer struct {
	trials int
	rng    *rand.Rand
	log    *slog.Logger
}

// RandomOptimizer scores trials uniformly random complete matchings and
// keeps the best one. It serves as a baseline.
func RandomOptimizer(trials int, rng *rand.Rand, logger *slog.Logger) (Optimizer, error) {
	if trials < 1 {
		return nil, fmt.Errorf("random search needs at least one trial, got %d", trials)
	}
	if rng == nil {
		return nil, errors.New("random search needs a random source")
	}
	return randomOptimizer{trials, rng, orDiscard(logger)}, nil
}

func (o randomOptimizer) Optimize(model Model) (Result, error) {
	var best Matching
	bestValue := math.Inf(-1)

	for trial := 0; trial < o.trials; trial++ {
		matching := o.sample(model)
		value, err := model.Utility(matching)
		if err != nil {
			return Result{}, err
		}
		if value > bestValue {
			best, bestValue = matching, value
			o.log.Debug("random improved", "trial", trial, "utility", value)
		}
	}

	return evaluate(model, best)
}

// sample places random unassigned agents in random localities with room
// left until the matching is complete.
func (o randomOptimizer) sample(model Model) Matching {
	matching := NewMatching(model.NumAgents())
	capRest := model.LocalityCaps()

	agents := make([]int, len(matching))
	for i := range agents {
		agents[i] = i
	}
	var open []int
	for l, c := range capRest {
		if c > 0 {
			open = append(open, l)
		}
	}

	for n := maxPlacements(len(matching), capRest); n > 0; n-- {
		a := o.rng.IntN(len(agents))
		i := agents[a]
		agents[a] = agents[len(agents)-1]
		agents = agents[:len(agents)-1]

		b := o.rng.IntN(len(open))
		l := open[b]
		matching[i] = l
		capRest[l]--
		if capRest[l] == 0 {
			open[b] = open[len(open)-1]
			open = open[:len(open)-1]
		}
	}
	return matching
}
