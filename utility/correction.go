// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utility

import (
	"errors"
	"fmt"
	"math"
)

var ErrNotConcave = errors.New("correction is not a concave, non-decreasing function vanishing at zero")

// Correction maps the number of qualified agents of one profession at one
// locality to the utility they realize.
type Correction interface {
	Apply(qualified int) float64
}

// CorrectionFunc adapts a function to Correction.
type CorrectionFunc func(qualified int) float64

func (f CorrectionFunc) Apply(qualified int) float64 {
	return f(qualified)
}

// Linear realizes a fixed value per qualified agent.
type Linear float64

func (c Linear) Apply(qualified int) float64 {
	return float64(c) * float64(qualified)
}

// Capped realizes Value per qualified agent up to Cap agents.
type Capped struct {
	Value float64
	Cap   int
}

func (c Capped) Apply(qualified int) float64 {
	return c.Value * float64(min(qualified, c.Cap))
}

// Sqrt realizes its scale times the square root of the count.
type Sqrt float64

func (c Sqrt) Apply(qualified int) float64 {
	return float64(c) * math.Sqrt(float64(qualified))
}

// Table realizes Table[k] for k qualified agents, and its last value
// beyond its end. An empty table realizes nothing.
type Table []float64

func (t Table) Apply(qualified int) float64 {
	if len(t) == 0 {
		return 0
	}
	return t[min(qualified, len(t)-1)]
}

const concaveTol = 1e-9

// CheckCorrection verifies that c is finite, zero at zero, non-decreasing
// and concave on 0..upTo.
func CheckCorrection(c Correction, upTo int) error {
	prev, prevGain := 0.0, math.Inf(1)
	if v := c.Apply(0); v != 0 {
		return fmt.Errorf("%w: f(0) = %v", ErrNotConcave, v)
	}
	for k := 1; k <= upTo; k++ {
		v := c.Apply(k)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: f(%d) = %v", ErrNotConcave, k, v)
		}
		gain := v - prev
		if gain < -concaveTol {
			return fmt.Errorf("%w: f(%d) = %v < f(%d) = %v", ErrNotConcave, k, v, k-1, prev)
		}
		if gain > prevGain+concaveTol {
			return fmt.Errorf("%w: gain %v at %d exceeds gain %v at %d", ErrNotConcave, gain, k, prevGain, k-1)
		}
		prev, prevGain = v, gain
	}
	return nil
}
