// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utility

import (
	"errors"
	"fmt"

	"github.com/someonegg/placematch"
	"github.com/someonegg/placematch/montecarlo"
)

var ErrProbability = errors.New("probability out of [0, 1]")

// professions partitions the agents of each locality by profession and
// owns one cache per locality and profession.
type professions struct {
	of     []int // agent -> profession
	count  int
	caches [][]*montecarlo.Cache
}

// newProfessions checks the per agent professions against per locality
// tables of width numProfessions.
func newProfessions(of []int, numLocalities, numProfessions int) (professions, error) {
	for i, p := range of {
		if p < 0 || p >= numProfessions {
			return professions{}, fmt.Errorf("agent %d has profession %d, there are %d professions",
				i, p, numProfessions)
		}
	}
	caches := make([][]*montecarlo.Cache, numLocalities)
	for l := range caches {
		caches[l] = newCaches(numProfessions)
	}
	return professions{of: of, count: numProfessions, caches: caches}, nil
}

// tableWidth returns the common row length of a per locality table.
func tableWidth[T any](name string, table [][]T, numLocalities int, of []int) (int, error) {
	if len(table) != numLocalities {
		return 0, fmt.Errorf("%s has %d rows for %d localities", name, len(table), numLocalities)
	}
	if numLocalities == 0 {
		width := 0
		for _, p := range of {
			width = max(width, p+1)
		}
		return width, nil
	}
	width := len(table[0])
	for l, row := range table {
		if len(row) != width {
			return 0, fmt.Errorf("%s row %d has %d professions, want %d", name, l, len(row), width)
		}
	}
	return width, nil
}

// groups returns the agents of the matching per locality and profession,
// in ascending order. The matching must be valid.
func (ps professions) groups(numLocalities int, matching placematch.Matching) [][][]int {
	groups := make([][][]int, numLocalities)
	for l := range groups {
		groups[l] = make([][]int, ps.count)
	}
	for i, l := range matching {
		if l != placematch.Unassigned {
			p := ps.of[i]
			groups[l][p] = append(groups[l][p], i)
		}
	}
	return groups
}

func (ps professions) stats() montecarlo.Stats {
	var s montecarlo.Stats
	for _, perProfession := range ps.caches {
		s = s.Add(sumStats(perProfession))
	}
	return s
}

func newCaches(n int) []*montecarlo.Cache {
	caches := make([]*montecarlo.Cache, n)
	for k := range caches {
		caches[k] = montecarlo.NewCache()
	}
	return caches
}

func sumStats(caches []*montecarlo.Cache) montecarlo.Stats {
	var s montecarlo.Stats
	for _, c := range caches {
		s = s.Add(c.Stats())
	}
	return s
}

func checkProbabilities(ps []float64) error {
	for k, p := range ps {
		if !(p >= 0 && p <= 1) {
			return fmt.Errorf("%w: value %d is %v", ErrProbability, k, p)
		}
	}
	return nil
}
