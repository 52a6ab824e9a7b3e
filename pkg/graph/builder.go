package graph

import (
	"math"
	"slices"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Builder accumulates nodes and edges and freezes them into a Graph.
// Repeated edges between the same ordered pair add up their weights.
type Builder struct {
	wg        *simple.WeightedDirectedGraph
	nodes     []Node
	index     map[string]int
	selfLoops map[int]float64
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		wg:        simple.NewWeightedDirectedGraph(0, 0),
		index:     make(map[string]int),
		selfLoops: make(map[int]float64),
	}
}

// AddNode adds a node with its attributes. Adding an id twice is an error.
func (b *Builder) AddNode(n Node) (int, error) {
	if n.ID == "" {
		return -1, newError("AddNode", "", ErrEmptyID)
	}
	if _, ok := b.index[n.ID]; ok {
		return -1, newError("AddNode", n.ID, ErrDuplicateNode)
	}
	return b.add(n.clone()), nil
}

// EnsureNode returns the index of id, creating an attribute-less node if needed.
func (b *Builder) EnsureNode(id string) (int, error) {
	if id == "" {
		return -1, newError("EnsureNode", "", ErrEmptyID)
	}
	if i, ok := b.index[id]; ok {
		return i, nil
	}
	return b.add(Node{ID: id}), nil
}

func (b *Builder) add(n Node) int {
	i := len(b.nodes)
	b.nodes = append(b.nodes, n)
	b.index[n.ID] = i
	b.wg.AddNode(simple.Node(int64(i)))
	return i
}

// AddEdge records weight w of interactions from -> to, creating missing nodes.
func (b *Builder) AddEdge(from, to string, w float64) error {
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return newError("AddEdge", from, ErrInvalidWeight)
	}
	u, err := b.EnsureNode(from)
	if err != nil {
		return err
	}
	v, err := b.EnsureNode(to)
	if err != nil {
		return err
	}

	// gonum simple graphs reject self edges, so loops are kept aside
	if u == v {
		b.selfLoops[u] += w
		return nil
	}

	if e := b.wg.WeightedEdge(int64(u), int64(v)); e != nil {
		w += e.Weight()
	}
	b.wg.SetWeightedEdge(b.wg.NewWeightedEdge(simple.Node(int64(u)), simple.Node(int64(v)), w))
	return nil
}

// Build freezes the builder into an immutable-topology Graph. The builder can
// keep being used afterwards; later additions do not affect the returned Graph.
func (b *Builder) Build() *Graph {
	n := len(b.nodes)
	g := &Graph{
		nodes:      make([]Node, n),
		index:      make(map[string]int, n),
		in:         make([][]int, n),
		out:        make([][]int, n),
		outWeights: make([][]float64, n),
		nbrs:       make([][]int, n),
		selfLoops:  make(map[int]float64, len(b.selfLoops)),
	}

	for i := range b.nodes {
		g.nodes[i] = b.nodes[i].clone()
		g.index[b.nodes[i].ID] = i
	}
	for i, w := range b.selfLoops {
		g.selfLoops[i] = w
	}

	for i := 0; i < n; i++ {
		id := int64(i)
		g.out[i] = sortedIDs(b.wg.From(id))
		g.in[i] = sortedIDs(b.wg.To(id))

		g.outWeights[i] = make([]float64, len(g.out[i]))
		for k, j := range g.out[i] {
			g.outWeights[i][k] = b.wg.WeightedEdge(id, int64(j)).Weight()
		}
		g.edges += len(g.out[i])

		g.nbrs[i] = mergeSorted(g.in[i], g.out[i])
	}
	g.edges += len(g.selfLoops)

	return g
}

func sortedIDs(it gonum.Nodes) []int {
	ids := make([]int, 0, max(it.Len(), 0))
	for it.Next() {
		ids = append(ids, int(it.Node().ID()))
	}
	slices.Sort(ids)
	return ids
}

// mergeSorted returns the sorted union of two sorted, duplicate-free slices.
func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
