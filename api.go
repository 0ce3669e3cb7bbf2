// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package placematch provides algorithms that assign agents to capacity
// limited localities so as to maximize a (possibly non-additive, possibly
// stochastic) utility model.
package placematch

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidLength        = errors.New("invalid matching length")
	ErrInvalidLocalityIndex = errors.New("invalid locality index")
	ErrCapacityExceeded     = errors.New("locality capacity exceeded")
	ErrSolverNonOptimal     = errors.New("solver did not report an optimal solution")
	ErrNoImprovingPair      = errors.New("no improving agent-locality pair")
)

// Unassigned marks an agent that is matched to no locality.
const Unassigned = -1

// Matching holds, for each agent, its locality index or Unassigned.
type Matching []int

// NewMatching returns a matching of n unassigned agents.
func NewMatching(n int) Matching {
	m := make(Matching, n)
	for i := range m {
		m[i] = Unassigned
	}
	return m
}

func (m Matching) Clone() Matching {
	c := make(Matching, len(m))
	copy(c, m)
	return c
}

// Assigned returns the number of agents matched to some locality.
func (m Matching) Assigned() int {
	n := 0
	for _, l := range m {
		if l != Unassigned {
			n++
		}
	}
	return n
}

// Usage counts, per locality, the agents placed there. Entries outside
// [0, numLocalities) are ignored.
func (m Matching) Usage(numLocalities int) []int {
	usage := make([]int, numLocalities)
	for _, l := range m {
		if l >= 0 && l < numLocalities {
			usage[l]++
		}
	}
	return usage
}

func (m Matching) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, l := range m {
		if i > 0 {
			b.WriteByte(' ')
		}
		if l == Unassigned {
			b.WriteByte('-')
		} else {
			b.WriteString(strconv.Itoa(l))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// MarshalJSON encodes unassigned agents as null.
func (m Matching) MarshalJSON() ([]byte, error) {
	vals := make([]*int, len(m))
	for i := range m {
		if m[i] != Unassigned {
			l := m[i]
			vals[i] = &l
		}
	}
	return json.Marshal(vals)
}

func (m *Matching) UnmarshalJSON(data []byte) error {
	var vals []*int
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	*m = NewMatching(len(vals))
	for i, v := range vals {
		if v != nil {
			(*m)[i] = *v
		}
	}
	return nil
}

// Model scores matchings. Implementations may be stochastic and may keep
// private memoization state, so a Model is not safe for concurrent use
// unless it says otherwise.
type Model interface {
	NumAgents() int
	// LocalityCaps returns a copy of the per-locality capacities.
	LocalityCaps() []int

	Validate(matching Matching) error
	// Utility validates the matching and returns its nonnegative utility.
	Utility(matching Matching) (float64, error)
}

type Result struct {
	Matching Matching `json:"matching"`
	Utility  float64  `json:"utility"`
}

type Optimizer interface {
	// Optimize searches a matching for the model. The returned utility is
	// always evaluated fresh on the returned matching.
	Optimize(model Model) (Result, error)
}

// maxPlacements is the number of pairs any complete matching places.
func maxPlacements(numAgents int, caps []int) int {
	total := 0
	for _, c := range caps {
		total += c
	}
	return minInt(numAgents, total)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
