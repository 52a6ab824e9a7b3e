// Package graph holds the attributed, directed, weighted interaction graph the
// simulation engines consume.
//
// Topology is fixed once a Graph is built: adjacency is kept as sorted dense
// index slices so every traversal is deterministic. The only mutable per-node
// field is the misinformation opinion, written by the diffusion engine.
package graph

import (
	"fmt"
)

// Graph is a directed weighted graph over a dense node arena.
type Graph struct {
	nodes      []Node
	index      map[string]int
	in         [][]int
	out        [][]int
	outWeights [][]float64
	nbrs       [][]int
	selfLoops  map[int]float64
	edges      int
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct directed edges, self-loops included.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Index returns the dense index of the node with the given id.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// MustIndex is Index for ids known to exist.
func (g *Graph) MustIndex(id string) int {
	i, ok := g.index[id]
	if !ok {
		panic(fmt.Sprintf("graph: node %q not found", id))
	}
	return i
}

// ID returns the id of node i.
func (g *Graph) ID(i int) string {
	return g.nodes[i].ID
}

// Node returns a pointer to node i. Callers must not modify it; use SetOpinion.
func (g *Graph) Node(i int) *Node {
	return &g.nodes[i]
}

// Lookup returns the node with the given id.
func (g *Graph) Lookup(id string) (*Node, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, newError("Lookup", id, ErrNodeNotFound)
	}
	return &g.nodes[i], nil
}

// HasAttribute reports whether any node carries the named attribute.
func (g *Graph) HasAttribute(name string) bool {
	for i := range g.nodes {
		if _, ok := g.nodes[i].Attributes[name]; ok {
			return true
		}
	}
	return false
}

// Opinion returns the misinformation label of node i (0 or 1).
func (g *Graph) Opinion(i int) uint8 {
	return g.nodes[i].Opinion
}

// SetOpinion sets the misinformation label of node i. Any non-zero value is 1.
func (g *Graph) SetOpinion(i int, v uint8) {
	if v != 0 {
		v = 1
	}
	g.nodes[i].Opinion = v
}

// InNeighbors returns the distinct sources of edges into i, sorted, self excluded.
// The slice is shared and must not be modified.
func (g *Graph) InNeighbors(i int) []int {
	return g.in[i]
}

// OutNeighbors returns the distinct targets of edges out of i, sorted, self excluded.
func (g *Graph) OutNeighbors(i int) []int {
	return g.out[i]
}

// Neighbors returns the sorted union of in- and out-neighbors of i.
func (g *Graph) Neighbors(i int) []int {
	return g.nbrs[i]
}

// Degree is the number of distinct neighbors of i, ignoring direction and loops.
func (g *Graph) Degree(i int) int {
	return len(g.nbrs[i])
}

// Weight returns the accumulated weight of u -> v, or 0 without such an edge.
func (g *Graph) Weight(u, v int) float64 {
	if u == v {
		return g.selfLoops[u]
	}
	for k, j := range g.out[u] {
		if j == v {
			return g.outWeights[u][k]
		}
	}
	return 0
}

// Edges returns every edge in (from, to) order, self-loops included.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for u := range g.nodes {
		loop, hasLoop := g.selfLoops[u]
		placed := !hasLoop
		for k, v := range g.out[u] {
			if !placed && u < v {
				edges = append(edges, Edge{From: u, To: u, Weight: loop})
				placed = true
			}
			edges = append(edges, Edge{From: u, To: v, Weight: g.outWeights[u][k]})
		}
		if !placed {
			edges = append(edges, Edge{From: u, To: u, Weight: loop})
		}
	}
	return edges
}

// Subgraph returns a new graph with the nodes for which keep returns true and
// the edges among them. Node order and opinions are preserved.
func (g *Graph) Subgraph(keep func(i int) bool) *Graph {
	b := NewBuilder()
	for i := range g.nodes {
		if keep(i) {
			b.add(g.nodes[i].clone())
		}
	}
	for _, e := range g.Edges() {
		from, to := g.nodes[e.From].ID, g.nodes[e.To].ID
		if _, ok := b.index[from]; !ok {
			continue
		}
		if _, ok := b.index[to]; !ok {
			continue
		}
		// Weights were validated when g was built
		_ = b.AddEdge(from, to, e.Weight)
	}
	return b.Build()
}
