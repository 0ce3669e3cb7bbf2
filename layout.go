// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package placematch

import (
	"fmt"
)

// Layout carries the agent count and locality capacities shared by every
// model, and implements matching validation for them. Models embed it.
type Layout struct {
	numAgents int
	caps      []int
}

func NewLayout(numAgents int, caps []int) (Layout, error) {
	if numAgents < 0 {
		return Layout{}, fmt.Errorf("negative agent count %d", numAgents)
	}
	for l, c := range caps {
		if c < 0 {
			return Layout{}, fmt.Errorf("locality %d has negative capacity %d", l, c)
		}
	}
	cs := make([]int, len(caps))
	copy(cs, caps)
	return Layout{numAgents: numAgents, caps: cs}, nil
}

func (lo Layout) NumAgents() int {
	return lo.numAgents
}

func (lo Layout) NumLocalities() int {
	return len(lo.caps)
}

func (lo Layout) LocalityCaps() []int {
	cs := make([]int, len(lo.caps))
	copy(cs, lo.caps)
	return cs
}

// Validate checks the matching length, that every entry is Unassigned or a
// locality index, and that no locality holds more agents than its capacity.
func (lo Layout) Validate(matching Matching) error {
	if len(matching) != lo.numAgents {
		return fmt.Errorf("%w: matching has %d values, but there are %d agents",
			ErrInvalidLength, len(matching), lo.numAgents)
	}
	usage := make([]int, len(lo.caps))
	for i, l := range matching {
		if l == Unassigned {
			continue
		}
		if l < 0 || l >= len(lo.caps) {
			return fmt.Errorf("%w: agent %d placed in %d, there are %d localities",
				ErrInvalidLocalityIndex, i, l, len(lo.caps))
		}
		usage[l]++
	}
	for l, c := range lo.caps {
		if usage[l] > c {
			return fmt.Errorf("%w: matching places %d agents in locality %d, but cap is %d",
				ErrCapacityExceeded, usage[l], l, c)
		}
	}
	return nil
}

// Groups returns, per locality, the ascending indices of the agents placed
// there. The matching must be valid.
func (lo Layout) Groups(matching Matching) [][]int {
	groups := make([][]int, len(lo.caps))
	for i, l := range matching {
		if l != Unassigned {
			groups[l] = append(groups[l], i)
		}
	}
	return groups
}
