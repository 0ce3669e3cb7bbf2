// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package placematch

import (
	"fmt"
	"log/slog"

	"github.com/someonegg/placematch/lp"
)

type exactOptimizer struct {
	solver lp.Solver
	log    *slog.Logger
}

// ExactOptimizer approximates the model by the marginal utility of every
// single agent-locality pair and solves the resulting assignment problem
// exactly. The result is optimal when the model is additive. A nil solver
// selects lp.Gonum.
func ExactOptimizer(solver lp.Solver, logger *slog.Logger) Optimizer {
	if solver == nil {
		solver = lp.Gonum{}
	}
	return exactOptimizer{solver, orDiscard(logger)}
}

func (o exactOptimizer) Optimize(model Model) (Result, error) {
	numAgents := model.NumAgents()
	caps := model.LocalityCaps()
	numLocalities := len(caps)

	matching := NewMatching(numAgents)
	base, err := model.Utility(matching)
	if err != nil {
		return Result{}, err
	}
	if numAgents == 0 || numLocalities == 0 {
		return Result{Matching: matching, Utility: base}, nil
	}

	variable := func(i, l int) int { return i*numLocalities + l }

	p := lp.NewProblem(numAgents * numLocalities)
	for i := 0; i < numAgents; i++ {
		for l, c := range caps {
			// A locality without capacity cannot take a single agent;
			// its capacity row keeps these variables at zero.
			if c == 0 {
				continue
			}
			matching[i] = l
			value, err := model.Utility(matching)
			matching[i] = Unassigned
			if err != nil {
				return Result{}, err
			}
			p.SetObjective(variable(i, l), value-base)
		}
	}

	for i := 0; i < numAgents; i++ {
		terms := make([]lp.Term, numLocalities)
		for l := range caps {
			terms[l] = lp.Term{Var: variable(i, l), Coef: 1}
		}
		p.AddConstraint(terms, 1)
	}
	for l, c := range caps {
		terms := make([]lp.Term, numAgents)
		for i := range terms {
			terms[i] = lp.Term{Var: variable(i, l), Coef: 1}
		}
		p.AddConstraint(terms, float64(c))
	}

	sol, err := o.solver.Solve(p)
	if err != nil {
		return Result{}, fmt.Errorf("solve assignment problem: %w", err)
	}
	if sol.Status != lp.StatusOptimal {
		return Result{}, fmt.Errorf("%w: status %v %s", ErrSolverNonOptimal, sol.Status, sol.Reason)
	}
	if len(sol.Values) != p.NumVars {
		return Result{}, fmt.Errorf("%w: %d values for %d variables",
			ErrSolverNonOptimal, len(sol.Values), p.NumVars)
	}

	for i := 0; i < numAgents; i++ {
		for l := range caps {
			if sol.Values[variable(i, l)] > 0.5 {
				matching[i] = l
				break
			}
		}
	}
	o.log.Debug("exact solved",
		"agents", numAgents, "localities", numLocalities, "relaxed_utility", base+sol.Objective)

	return evaluate(model, matching)
}
