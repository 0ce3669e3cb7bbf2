// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package placematch

import (
	"fmt"
	"log/slog"
	"math"
)

type greedyOptimizer struct {
	log *slog.Logger
}

// GreedyOptimizer builds a matching by repeatedly committing the
// agent-locality pair with the greatest resulting utility. A nil logger
// disables logging.
func GreedyOptimizer(logger *slog.Logger) Optimizer {
	return greedyOptimizer{orDiscard(logger)}
}

func (o greedyOptimizer) Optimize(model Model) (Result, error) {
	matching := NewMatching(model.NumAgents())
	capRest := model.LocalityCaps()

	rounds := maxPlacements(len(matching), capRest)
	for round := 0; round < rounds; round++ {
		bestAgent, bestLocality := -1, -1
		bestValue := math.Inf(-1)

		// Agent-major, locality-minor; strict > keeps the first of equals.
		for i := range matching {
			if matching[i] != Unassigned {
				continue
			}
			for l, rest := range capRest {
				if rest <= 0 {
					continue
				}
				matching[i] = l
				value, err := model.Utility(matching)
				matching[i] = Unassigned
				if err != nil {
					return Result{}, err
				}
				if value > bestValue {
					bestAgent, bestLocality, bestValue = i, l, value
				}
			}
		}

		if bestAgent < 0 {
			return Result{}, fmt.Errorf("%w: round %d of %d", ErrNoImprovingPair, round, rounds)
		}
		matching[bestAgent] = bestLocality
		capRest[bestLocality]--

		o.log.Debug("greedy commit",
			"round", round, "agent", bestAgent, "locality", bestLocality, "utility", bestValue)
	}

	return evaluate(model, matching)
}

// evaluate returns the matching with its freshly computed utility.
func evaluate(model Model, matching Matching) (Result, error) {
	value, err := model.Utility(matching)
	if err != nil {
		return Result{}, err
	}
	return Result{Matching: matching, Utility: value}, nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
