// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	convexlp "gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	DefaultTolerance = 1e-10
	DefaultMaxNodes  = 100000

	integralTol = 1e-6
)

// Gonum solves problems by depth-first branch and bound, each node being
// the LP relaxation solved with gonum's simplex. Problems whose relaxation
// is already integral (for example assignment problems) finish at the root.
type Gonum struct {
	Tolerance *float64
	MaxNodes  *int
}

func (s Gonum) Solve(p *Problem) (Solution, error) {
	if err := p.check(); err != nil {
		return Solution{}, err
	}

	bb := &branchAndBound{
		p:        p,
		tol:      DefaultTolerance,
		maxNodes: DefaultMaxNodes,
		best:     math.Inf(-1),
	}
	if s.Tolerance != nil {
		bb.tol = *s.Tolerance
	}
	if s.MaxNodes != nil {
		bb.maxNodes = *s.MaxNodes
	}

	fixed := make([]int8, p.NumVars)
	for j := range fixed {
		fixed[j] = free
	}

	if err := bb.search(fixed); err != nil {
		switch {
		case errors.Is(err, errUnbounded):
			return Solution{Status: StatusUnbounded, Reason: err.Error()}, nil
		default:
			return Solution{Status: StatusFailed, Reason: err.Error()}, nil
		}
	}
	if bb.incumbent == nil {
		return Solution{Status: StatusInfeasible}, nil
	}
	return Solution{
		Status:    StatusOptimal,
		Values:    bb.incumbent,
		Objective: bb.best,
	}, nil
}

var (
	ErrNodeLimit = errors.New("branch and bound node limit reached")
	errUnbounded = errors.New("relaxation unbounded")
)

const free int8 = -1

type branchAndBound struct {
	p        *Problem
	tol      float64
	maxNodes int
	nodes    int

	best      float64
	incumbent []float64
}

func (bb *branchAndBound) search(fixed []int8) error {
	bb.nodes++
	if bb.nodes > bb.maxNodes {
		return fmt.Errorf("%w (%d)", ErrNodeLimit, bb.maxNodes)
	}

	value, x, feasible, err := bb.relax(fixed)
	if err != nil || !feasible {
		return err
	}
	if bb.incumbent != nil && value <= bb.best+integralTol {
		return nil
	}

	branch, worst := -1, 0.0
	for j, v := range x {
		if frac := math.Abs(v - math.Round(v)); frac > integralTol && frac > worst {
			branch, worst = j, frac
		}
	}
	if branch < 0 {
		bb.best = value
		bb.incumbent = make([]float64, len(x))
		for j, v := range x {
			bb.incumbent[j] = math.Round(v)
		}
		return nil
	}

	for _, v := range []int8{1, 0} {
		fixed[branch] = v
		if err := bb.search(fixed); err != nil {
			fixed[branch] = free
			return err
		}
	}
	fixed[branch] = free
	return nil
}

// relax solves the LP relaxation of the problem with some variables fixed,
// returning the objective and a full assignment of all variables.
func (bb *branchAndBound) relax(fixed []int8) (float64, []float64, bool, error) {
	p := bb.p

	var cols []int // free variable -> problem variable
	fixedValue := 0.0
	for j, f := range fixed {
		switch f {
		case free:
			cols = append(cols, j)
		case 1:
			fixedValue += p.Objective[j]
		}
	}
	colOf := make(map[int]int, len(cols))
	for k, j := range cols {
		colOf[j] = k
	}

	x := make([]float64, p.NumVars)
	for j, f := range fixed {
		if f == 1 {
			x[j] = 1
		}
	}

	if len(cols) == 0 {
		for _, c := range p.Constraints {
			if residual(c, fixed) < -bb.tol {
				return 0, nil, false, nil
			}
		}
		return fixedValue, x, true, nil
	}

	// One row per constraint plus an upper bound row per free variable that
	// no constraint already keeps at or below one, each row with its own
	// slack column.
	bounds := make([]float64, len(p.Constraints))
	capped := make([]bool, len(cols))
	for r, c := range p.Constraints {
		bounds[r] = residual(c, fixed)
		if bounds[r] < 0 || !nonNegative(c) {
			continue
		}
		for _, t := range c.Terms {
			if k, ok := colOf[t.Var]; ok && t.Coef > 0 && t.Coef >= bounds[r] {
				capped[k] = true
			}
		}
	}
	var uncapped []int
	for k := range cols {
		if !capped[k] {
			uncapped = append(uncapped, k)
		}
	}

	rows := len(p.Constraints) + len(uncapped)
	width := len(cols) + rows
	a := mat.NewDense(rows, width, nil)
	b := make([]float64, rows)
	for r, c := range p.Constraints {
		for _, t := range c.Terms {
			if k, ok := colOf[t.Var]; ok {
				a.Set(r, k, a.At(r, k)+t.Coef)
			}
		}
		b[r] = bounds[r]
	}
	for n, k := range uncapped {
		r := len(p.Constraints) + n
		a.Set(r, k, 1)
		b[r] = 1
	}
	for r := 0; r < rows; r++ {
		a.Set(r, len(cols)+r, 1)
		if b[r] < 0 {
			for k := 0; k < width; k++ {
				a.Set(r, k, -a.At(r, k))
			}
			b[r] = -b[r]
		}
	}

	c := make([]float64, width)
	for k, j := range cols {
		c[k] = -p.Objective[j]
	}

	optF, optX, err := convexlp.Simplex(c, a, b, bb.tol, nil)
	switch {
	case errors.Is(err, convexlp.ErrInfeasible):
		return 0, nil, false, nil
	case errors.Is(err, convexlp.ErrUnbounded):
		return 0, nil, false, errUnbounded
	case err != nil:
		return 0, nil, false, fmt.Errorf("simplex: %w", err)
	}

	for k, j := range cols {
		x[j] = optX[k]
	}
	return fixedValue - optF, x, true, nil
}

func nonNegative(c Constraint) bool {
	for _, t := range c.Terms {
		if t.Coef < 0 {
			return false
		}
	}
	return true
}

// residual is the constraint bound left after the variables fixed to one.
func residual(c Constraint, fixed []int8) float64 {
	r := c.Bound
	for _, t := range c.Terms {
		if fixed[t.Var] == 1 {
			r -= t.Coef
		}
	}
	return r
}
