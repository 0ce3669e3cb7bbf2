// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bipartite

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

// bruteForce tries every way to match left nodes in order.
func bruteForce(g Graph) int {
	adj := make([][]bool, g.Left)
	for u := range adj {
		adj[u] = make([]bool, g.Right)
	}
	for _, e := range g.Edges {
		adj[e[0]][e[1]] = true
	}
	used := make([]bool, g.Right)

	var best func(u int) int
	best = func(u int) int {
		if u == g.Left {
			return 0
		}
		size := best(u + 1)
		for v := 0; v < g.Right; v++ {
			if adj[u][v] && !used[v] {
				used[v] = true
				if s := 1 + best(u+1); s > size {
					size = s
				}
				used[v] = false
			}
		}
		return size
	}
	return best(0)
}

func TestHopcroftKarp_Cases(t *testing.T) {
	cases := []struct {
		name  string
		graph Graph
		want  int
	}{
		{"Empty", Graph{}, 0},
		{"NoEdges", Graph{Left: 3, Right: 2}, 0},
		{"Single", Graph{Left: 1, Right: 1, Edges: [][2]int{{0, 0}}}, 1},
		{"Star", Graph{Left: 3, Right: 1, Edges: [][2]int{{0, 0}, {1, 0}, {2, 0}}}, 1},
		{"Perfect", Graph{Left: 2, Right: 2, Edges: [][2]int{{0, 0}, {0, 1}, {1, 0}}}, 2},
		{"NeedsAugmenting", Graph{Left: 3, Right: 3, Edges: [][2]int{
			{0, 0}, {0, 1}, {1, 0}, {2, 1}, {2, 2},
		}}, 3},
		{"DuplicateEdges", Graph{Left: 2, Right: 1, Edges: [][2]int{{0, 0}, {0, 0}, {1, 0}}}, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, HopcroftKarp{}.MaxMatching(c.graph))
		})
	}
}

func TestHopcroftKarp_AgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 300; trial++ {
		g := Graph{Left: rng.IntN(6), Right: rng.IntN(6)}
		density := rng.Float64()
		for u := 0; u < g.Left; u++ {
			for v := 0; v < g.Right; v++ {
				if rng.Float64() < density {
					g.AddEdge(u, v)
				}
			}
		}
		if got, want := (HopcroftKarp{}).MaxMatching(g), bruteForce(g); got != want {
			t.Fatalf("trial %d: MaxMatching(%+v) = %d, want %d", trial, g, got, want)
		}
	}
}
