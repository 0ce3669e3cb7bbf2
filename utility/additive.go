// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package utility provides the utility models that placematch optimizers
// maximize: an additive table and several stochastic models estimated by
// memoized Monte-Carlo sampling.
package utility

import (
	"fmt"
	"math"

	"github.com/someonegg/placematch"
)

// Additive scores a matching by summing a per agent, per locality value
// over the assigned agents.
type Additive struct {
	placematch.Layout
	matrix [][]float64
}

// NewAdditive builds the model of len(matrix) agents, where matrix[i][l] is
// the utility of placing agent i in locality l.
func NewAdditive(caps []int, matrix [][]float64) (*Additive, error) {
	layout, err := placematch.NewLayout(len(matrix), caps)
	if err != nil {
		return nil, err
	}
	for i, row := range matrix {
		if len(row) != len(caps) {
			return nil, fmt.Errorf("utility row %d has %d values, but there are %d localities",
				i, len(row), len(caps))
		}
		for l, u := range row {
			if !(u >= 0) || math.IsInf(u, 0) {
				return nil, fmt.Errorf("utility of agent %d in locality %d is %v", i, l, u)
			}
		}
	}
	return &Additive{Layout: layout, matrix: matrix}, nil
}

func (m *Additive) Utility(matching placematch.Matching) (float64, error) {
	if err := m.Validate(matching); err != nil {
		return 0, err
	}
	sum := 0.0
	for i, l := range matching {
		if l != placematch.Unassigned {
			sum += m.matrix[i][l]
		}
	}
	return sum, nil
}
