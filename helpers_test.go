// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package placematch_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/someonegg/placematch"
	"github.com/someonegg/placematch/utility"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func newAdditive(t *testing.T, caps []int, matrix [][]float64) *utility.Additive {
	t.Helper()
	m, err := utility.NewAdditive(caps, matrix)
	require.NoError(t, err)
	return m
}

// randomAdditive draws an additive instance with integral utilities, which
// keeps optimum comparisons exact.
func randomAdditive(t *testing.T, rng *rand.Rand, numAgents, numLocalities, maxCap int) *utility.Additive {
	t.Helper()
	caps := make([]int, numLocalities)
	for l := range caps {
		caps[l] = rng.IntN(maxCap + 1)
	}
	matrix := make([][]float64, numAgents)
	for i := range matrix {
		matrix[i] = make([]float64, numLocalities)
		for l := range matrix[i] {
			matrix[i][l] = float64(rng.IntN(10))
		}
	}
	return newAdditive(t, caps, matrix)
}

// bruteForce returns the best utility over all valid matchings.
func bruteForce(t *testing.T, model placematch.Model) float64 {
	t.Helper()
	numLocalities := len(model.LocalityCaps())
	matching := placematch.NewMatching(model.NumAgents())
	best := math.Inf(-1)

	var walk func(i int)
	walk = func(i int) {
		if i == len(matching) {
			if model.Validate(matching) != nil {
				return
			}
			v, err := model.Utility(matching)
			require.NoError(t, err)
			best = math.Max(best, v)
			return
		}
		for l := placematch.Unassigned; l < numLocalities; l++ {
			matching[i] = l
			walk(i + 1)
		}
		matching[i] = placematch.Unassigned
	}
	walk(0)
	return best
}

func requireComplete(t *testing.T, model placematch.Model, res placematch.Result) {
	t.Helper()
	require.NoError(t, model.Validate(res.Matching))

	caps := model.LocalityCaps()
	total := 0
	for _, c := range caps {
		total += c
	}
	require.Equal(t, min(model.NumAgents(), total), res.Matching.Assigned())

	v, err := model.Utility(res.Matching)
	require.NoError(t, err)
	require.Equal(t, v, res.Utility)
}

// funcModel scores with an arbitrary function.
type funcModel struct {
	placematch.Layout
	score func(placematch.Matching) (float64, error)
}

func newFuncModel(t *testing.T, numAgents int, caps []int, score func(placematch.Matching) (float64, error)) *funcModel {
	t.Helper()
	lo, err := placematch.NewLayout(numAgents, caps)
	require.NoError(t, err)
	return &funcModel{Layout: lo, score: score}
}

func (m *funcModel) Utility(matching placematch.Matching) (float64, error) {
	if err := m.Validate(matching); err != nil {
		return 0, err
	}
	return m.score(matching)
}
