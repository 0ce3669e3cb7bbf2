// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bipartite computes maximum matchings of bipartite graphs.
package bipartite

// Graph has Left nodes 0..Left-1, Right nodes 0..Right-1 and edges
// between them, each given as a (left, right) pair.
type Graph struct {
	Left  int
	Right int
	Edges [][2]int
}

func (g *Graph) AddEdge(left, right int) {
	g.Edges = append(g.Edges, [2]int{left, right})
}

type Oracle interface {
	// MaxMatching returns the cardinality of a maximum matching.
	MaxMatching(g Graph) int
}

// HopcroftKarp is an Oracle running the Hopcroft-Karp algorithm.
type HopcroftKarp struct{}

const nilNode = -1

func (HopcroftKarp) MaxMatching(g Graph) int {
	if g.Left == 0 || g.Right == 0 || len(g.Edges) == 0 {
		return 0
	}

	adj := make([][]int, g.Left)
	for _, e := range g.Edges {
		adj[e[0]] = append(adj[e[0]], e[1])
	}

	hk := &hopcroftKarp{
		adj:       adj,
		pairLeft:  make([]int, g.Left),
		pairRight: make([]int, g.Right),
		dist:      make([]int, g.Left),
	}
	for u := range hk.pairLeft {
		hk.pairLeft[u] = nilNode
	}
	for v := range hk.pairRight {
		hk.pairRight[v] = nilNode
	}

	size := 0
	for hk.bfs() {
		for u := range adj {
			if hk.pairLeft[u] == nilNode && hk.dfs(u) {
				size++
			}
		}
	}
	return size
}

type hopcroftKarp struct {
	adj       [][]int
	pairLeft  []int
	pairRight []int
	dist      []int
	found     int // layer of the nearest free right node
}

const infinity = int(^uint(0) >> 1)

// bfs layers the left nodes by alternating path length from the free ones
// and reports whether some augmenting path exists.
func (hk *hopcroftKarp) bfs() bool {
	queue := make([]int, 0, len(hk.adj))
	for u := range hk.adj {
		if hk.pairLeft[u] == nilNode {
			hk.dist[u] = 0
			queue = append(queue, u)
		} else {
			hk.dist[u] = infinity
		}
	}

	hk.found = infinity
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if hk.dist[u] >= hk.found {
			continue
		}
		for _, v := range hk.adj[u] {
			w := hk.pairRight[v]
			if w == nilNode {
				if hk.found == infinity {
					hk.found = hk.dist[u] + 1
				}
			} else if hk.dist[w] == infinity {
				hk.dist[w] = hk.dist[u] + 1
				queue = append(queue, w)
			}
		}
	}
	return hk.found != infinity
}

func (hk *hopcroftKarp) dfs(u int) bool {
	for _, v := range hk.adj[u] {
		w := hk.pairRight[v]
		if w == nilNode {
			if hk.dist[u]+1 != hk.found {
				continue
			}
		} else if hk.dist[w] != hk.dist[u]+1 || !hk.dfs(w) {
			continue
		}
		hk.pairLeft[u] = v
		hk.pairRight[v] = u
		return true
	}
	hk.dist[u] = infinity
	return false
}
