// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lp

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assignmentProblem(utility [][]float64, caps []int) *Problem {
	numLocalities := len(caps)
	p := NewProblem(len(utility) * numLocalities)
	for i, row := range utility {
		terms := make([]Term, 0, numLocalities)
		for l, u := range row {
			p.SetObjective(i*numLocalities+l, u)
			terms = append(terms, Term{Var: i*numLocalities + l, Coef: 1})
		}
		p.AddConstraint(terms, 1)
	}
	for l, c := range caps {
		terms := make([]Term, 0, len(utility))
		for i := range utility {
			terms = append(terms, Term{Var: i*numLocalities + l, Coef: 1})
		}
		p.AddConstraint(terms, float64(c))
	}
	return p
}

func TestGonum_Assignment(t *testing.T) {
	p := assignmentProblem([][]float64{{4, 1}, {1, 4}, {2, 2}}, []int{1, 1})

	sol, err := Gonum{}.Solve(p)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 8.0, sol.Objective, 1e-9)
	assert.Equal(t, []float64{1, 0, 0, 1, 0, 0}, sol.Values)
}

func TestGonum_ZeroCapacity(t *testing.T) {
	p := assignmentProblem([][]float64{{3, 7}, {5, 9}}, []int{2, 0})

	sol, err := Gonum{}.Solve(p)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 8.0, sol.Objective, 1e-9)
	assert.Equal(t, []float64{1, 0, 1, 0}, sol.Values)
}

func TestGonum_LargeAssignment(t *testing.T) {
	// Every agent earns 10 at its own locality and less than 1 elsewhere,
	// and each locality seats exactly its own 6 agents.
	const numAgents, numLocalities = 60, 10
	rng := rand.New(rand.NewPCG(3, 4))
	utility := make([][]float64, numAgents)
	for i := range utility {
		utility[i] = make([]float64, numLocalities)
		for l := range utility[i] {
			utility[i][l] = rng.Float64()
		}
		utility[i][i%numLocalities] = 10
	}
	caps := make([]int, numLocalities)
	for l := range caps {
		caps[l] = numAgents / numLocalities
	}

	start := time.Now()
	sol, err := Gonum{}.Solve(assignmentProblem(utility, caps))
	elapsed := time.Since(start)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 600.0, sol.Objective, 1e-6)
	for i := 0; i < numAgents; i++ {
		for l := 0; l < numLocalities; l++ {
			want := 0.0
			if l == i%numLocalities {
				want = 1
			}
			assert.Equal(t, want, sol.Values[i*numLocalities+l], "agent %d locality %d", i, l)
		}
	}
	assert.Less(t, elapsed, time.Second)
}

func TestGonum_PartlyCappedRow(t *testing.T) {
	// The row keeps x0 below one but not x1, whose relaxation would
	// otherwise reach the integral value 2.
	p := NewProblem(2)
	p.SetObjective(0, 1)
	p.SetObjective(1, 5)
	p.AddConstraint([]Term{{0, 3}, {1, 1}}, 2)

	sol, err := Gonum{}.Solve(p)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 5.0, sol.Objective, 1e-9)
	assert.Equal(t, []float64{0, 1}, sol.Values)
}

func TestGonum_FractionalRoot(t *testing.T) {
	// The relaxation takes a third of item 1; the integer optimum drops it.
	p := NewProblem(3)
	p.SetObjective(0, 5)
	p.SetObjective(1, 4)
	p.SetObjective(2, 3)
	p.AddConstraint([]Term{{0, 2}, {1, 3}, {2, 1}}, 4)

	sol, err := Gonum{}.Solve(p)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 8.0, sol.Objective, 1e-9)
	assert.Equal(t, []float64{1, 0, 1}, sol.Values)

	t.Run("NodeLimit", func(t *testing.T) {
		one := 1
		sol, err := Gonum{MaxNodes: &one}.Solve(p)
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, sol.Status)
		assert.Contains(t, sol.Reason, ErrNodeLimit.Error())
	})
}

func TestGonum_Infeasible(t *testing.T) {
	p := NewProblem(1)
	p.SetObjective(0, 1)
	p.AddConstraint([]Term{{0, -1}}, -2)

	sol, err := Gonum{}.Solve(p)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.Nil(t, sol.Values)
}

func TestGonum_NegativeObjective(t *testing.T) {
	p := NewProblem(2)
	p.SetObjective(0, -1)
	p.SetObjective(1, 2)

	sol, err := Gonum{}.Solve(p)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.Equal(t, []float64{0, 1}, sol.Values)
	assert.InDelta(t, 2.0, sol.Objective, 1e-9)
}

func TestGonum_Empty(t *testing.T) {
	sol, err := Gonum{}.Solve(NewProblem(0))
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.Empty(t, sol.Values)
	assert.Zero(t, sol.Objective)
}

func TestProblem_Check(t *testing.T) {
	cases := []struct {
		name    string
		problem *Problem
		wantErr string
	}{
		{
			name:    "VarOutOfRange",
			problem: &Problem{NumVars: 1, Objective: []float64{1}, Constraints: []Constraint{{Terms: []Term{{Var: 1, Coef: 1}}, Bound: 1}}},
			wantErr: "references variable 1",
		},
		{
			name:    "ObjectiveLength",
			problem: &Problem{NumVars: 2, Objective: []float64{1}},
			wantErr: "objective has 1 coefficients",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Gonum{}.Solve(c.problem)
			assert.ErrorContains(t, err, c.wantErr)
		})
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "optimal", StatusOptimal.String())
	assert.Equal(t, "infeasible", StatusInfeasible.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
