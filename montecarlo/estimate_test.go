// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package montecarlo

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestNewEstimator(t *testing.T) {
	_, err := NewEstimator(0, newRand(1))
	assert.ErrorContains(t, err, "must be positive")

	_, err = NewEstimator(10, nil)
	assert.ErrorIs(t, err, ErrNoRand)

	e, err := NewEstimator(10, newRand(1))
	require.NoError(t, err)
	assert.Equal(t, 10, e.Samples())
}

func TestEstimator_Mean(t *testing.T) {
	t.Run("Constant", func(t *testing.T) {
		e, err := NewEstimator(7, newRand(1))
		require.NoError(t, err)

		calls := 0
		got := e.Mean(func(*rand.Rand) float64 {
			calls++
			return 2.5
		})
		assert.Equal(t, 2.5, got)
		assert.Equal(t, 7, calls)
	})

	t.Run("Reproducible", func(t *testing.T) {
		coin := func(rng *rand.Rand) float64 {
			if rng.Float64() < 0.3 {
				return 1
			}
			return 0
		}
		a, _ := NewEstimator(100, newRand(42))
		b, _ := NewEstimator(100, newRand(42))
		assert.Equal(t, a.Mean(coin), b.Mean(coin))
	})

	t.Run("VarianceShrinks", func(t *testing.T) {
		coin := func(rng *rand.Rand) float64 {
			if rng.Float64() < 0.3 {
				return 1
			}
			return 0
		}
		spread := func(samples int) (mean, variance float64) {
			const runs = 40
			vals := make([]float64, runs)
			for r := range vals {
				e, _ := NewEstimator(samples, newRand(uint64(1000*samples+r)))
				vals[r] = e.Mean(coin)
				mean += vals[r]
			}
			mean /= runs
			for _, v := range vals {
				variance += (v - mean) * (v - mean)
			}
			return mean, variance / runs
		}

		_, small := spread(10)
		mean, large := spread(10000)
		assert.Less(t, large, small)
		assert.InDelta(t, 0.3, mean, 0.01)
	})
}

func TestCache_Get(t *testing.T) {
	c := NewCache()
	calls := 0
	compute := func() float64 {
		calls++
		return float64(calls)
	}

	first := c.Get("a", compute)
	second := c.Get("a", compute)
	other := c.Get("b", compute)

	assert.Equal(t, 1.0, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 2.0, other)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, Stats{Entries: 2, Hits: 1, Misses: 2}, c.Stats())
}

func TestStats_Add(t *testing.T) {
	got := Stats{Entries: 1, Hits: 2, Misses: 3}.Add(Stats{Entries: 10, Hits: 20, Misses: 30})
	assert.Equal(t, Stats{Entries: 11, Hits: 22, Misses: 33}, got)
}

func TestKeys(t *testing.T) {
	t.Run("IntsOrderInsensitive", func(t *testing.T) {
		assert.Equal(t, IntsKey([]int{3, 1, 2}), IntsKey([]int{1, 2, 3}))
		assert.Equal(t, "1,2,3", IntsKey([]int{2, 3, 1}))
		assert.NotEqual(t, IntsKey([]int{1, 23}), IntsKey([]int{12, 3}))
		assert.Equal(t, "", IntsKey(nil))
	})

	t.Run("FloatsMultiset", func(t *testing.T) {
		assert.Equal(t, FloatsKey([]float64{0.5, 0.25, 0.5}), FloatsKey([]float64{0.5, 0.5, 0.25}))
		assert.NotEqual(t, FloatsKey([]float64{0.5, 0.25}), FloatsKey([]float64{0.5, 0.25, 0.25}))
		assert.NotEqual(t, FloatsKey([]float64{0.1}), FloatsKey([]float64{0.1000000001}))
	})

	t.Run("InputUntouched", func(t *testing.T) {
		ids := []int{3, 1, 2}
		IntsKey(ids)
		assert.Equal(t, []int{3, 1, 2}, ids)
	})
}
