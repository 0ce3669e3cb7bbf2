// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lp describes 0/1 integer programs with a linear maximization
// objective and linear inequality constraints, and solves them.
package lp

import (
	"fmt"
)

type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

type Term struct {
	Var  int
	Coef float64
}

// Constraint is sum(Terms) <= Bound.
type Constraint struct {
	Terms []Term
	Bound float64
}

// Problem maximizes Objective·x over binary x subject to Constraints.
type Problem struct {
	NumVars     int
	Objective   []float64
	Constraints []Constraint
}

func NewProblem(numVars int) *Problem {
	return &Problem{
		NumVars:   numVars,
		Objective: make([]float64, numVars),
	}
}

func (p *Problem) SetObjective(v int, coef float64) {
	p.Objective[v] = coef
}

func (p *Problem) AddConstraint(terms []Term, bound float64) {
	p.Constraints = append(p.Constraints, Constraint{Terms: terms, Bound: bound})
}

func (p *Problem) check() error {
	if p.NumVars < 0 {
		return fmt.Errorf("negative variable count %d", p.NumVars)
	}
	if len(p.Objective) != p.NumVars {
		return fmt.Errorf("objective has %d coefficients, but there are %d variables",
			len(p.Objective), p.NumVars)
	}
	for k, c := range p.Constraints {
		for _, t := range c.Terms {
			if t.Var < 0 || t.Var >= p.NumVars {
				return fmt.Errorf("constraint %d references variable %d of %d", k, t.Var, p.NumVars)
			}
		}
	}
	return nil
}

type Solution struct {
	Status    Status
	Values    []float64 // set when Status is StatusOptimal
	Objective float64
	Reason    string
}

// Solver is the integer program backend. Malformed problems fail with an
// error; every solve outcome, including failures of the backend, is
// reported through Solution.Status.
type Solver interface {
	Solve(p *Problem) (Solution, error)
}
