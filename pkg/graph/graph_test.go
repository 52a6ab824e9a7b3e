package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestGraph creates a small graph:
//
//	a -> b (2), a -> b (1), b -> c, c -> a, d -> d (loop), e isolated
func buildTestGraph(t *testing.T) *Graph {
	t.Helper()

	b := NewBuilder()
	_, err := b.AddNode(Node{ID: "a", Attributes: map[string]float64{AttrMisinfoScore: 3}})
	require.NoError(t, err)
	_, err = b.AddNode(Node{ID: "e", Location: &Location{State: "IN"}})
	require.NoError(t, err)

	require.NoError(t, b.AddEdge("a", "b", 2))
	require.NoError(t, b.AddEdge("a", "b", 1))
	require.NoError(t, b.AddEdge("b", "c", 1))
	require.NoError(t, b.AddEdge("c", "a", 1))
	require.NoError(t, b.AddEdge("d", "d", 4))

	return b.Build()
}

func TestBuilder_NodesInInsertionOrder(t *testing.T) {
	g := buildTestGraph(t)

	require.Equal(t, 5, g.NodeCount())
	ids := make([]string, g.NodeCount())
	for i := range ids {
		ids[i] = g.ID(i)
	}
	assert.Equal(t, []string{"a", "e", "b", "c", "d"}, ids)

	i, ok := g.Index("c")
	require.True(t, ok)
	assert.Equal(t, 3, i)

	_, ok = g.Index("missing")
	assert.False(t, ok)
}

func TestBuilder_RepeatedEdgesAccumulate(t *testing.T) {
	g := buildTestGraph(t)

	a, b := g.MustIndex("a"), g.MustIndex("b")
	assert.Equal(t, 3.0, g.Weight(a, b))
	assert.Equal(t, 0.0, g.Weight(b, a))
	assert.Equal(t, 4, g.EdgeCount(), "a->b, b->c, c->a, d->d")
}

func TestGraph_Adjacency(t *testing.T) {
	g := buildTestGraph(t)
	a, e, b, c, d := 0, 1, 2, 3, 4

	assert.Equal(t, []int{c}, g.InNeighbors(a))
	assert.Equal(t, []int{b}, g.OutNeighbors(a))
	assert.Equal(t, []int{b, c}, g.Neighbors(a))
	assert.Equal(t, []int{a}, g.InNeighbors(b))

	// Self-loops are stored but never count as neighbors
	assert.Empty(t, g.InNeighbors(d))
	assert.Empty(t, g.Neighbors(d))
	assert.Equal(t, 0, g.Degree(d))
	assert.Equal(t, 4.0, g.Weight(d, d))

	assert.Equal(t, 0, g.Degree(e))
}

func TestGraph_Attributes(t *testing.T) {
	g := buildTestGraph(t)

	v, ok := g.Node(0).Attribute(AttrMisinfoScore)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, ok = g.Node(g.MustIndex("b")).Attribute(AttrMisinfoScore)
	assert.False(t, ok)

	assert.True(t, g.HasAttribute(AttrMisinfoScore))
	assert.False(t, g.HasAttribute("ideology"))

	n, err := g.Lookup("e")
	require.NoError(t, err)
	assert.Equal(t, "IN", n.Location.State)

	_, err = g.Lookup("zzz")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestGraph_SetOpinion(t *testing.T) {
	g := buildTestGraph(t)

	g.SetOpinion(2, 7)
	assert.Equal(t, uint8(1), g.Opinion(2))
	g.SetOpinion(2, 0)
	assert.Equal(t, uint8(0), g.Opinion(2))
}

func TestBuilder_Errors(t *testing.T) {
	b := NewBuilder()

	_, err := b.AddNode(Node{})
	assert.ErrorIs(t, err, ErrEmptyID)

	_, err = b.AddNode(Node{ID: "x"})
	require.NoError(t, err)
	_, err = b.AddNode(Node{ID: "x"})
	assert.ErrorIs(t, err, ErrDuplicateNode)

	err = b.AddEdge("x", "y", -1)
	assert.ErrorIs(t, err, ErrInvalidWeight)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "AddEdge", gerr.Op)
	assert.Equal(t, "x", gerr.NodeID)

	assert.ErrorIs(t, b.AddEdge("", "y", 1), ErrEmptyID)
}

func TestBuilder_BuildIsSnapshot(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddEdge("a", "b", 1))
	g := b.Build()

	require.NoError(t, b.AddEdge("b", "a", 1))
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 2, b.Build().EdgeCount())
}

func TestGraph_Edges(t *testing.T) {
	g := buildTestGraph(t)

	edges := g.Edges()
	require.Len(t, edges, 4)
	assert.Equal(t, Edge{From: 0, To: 2, Weight: 3}, edges[0])
	assert.Equal(t, Edge{From: 4, To: 4, Weight: 4}, edges[3])
}

func TestGraph_Subgraph(t *testing.T) {
	g := buildTestGraph(t)
	g.SetOpinion(g.MustIndex("b"), 1)

	sub := g.Subgraph(func(i int) bool { return g.Degree(i) > 0 })

	require.Equal(t, 3, sub.NodeCount())
	assert.Equal(t, "a", sub.ID(0))
	assert.Equal(t, "b", sub.ID(1))
	assert.Equal(t, "c", sub.ID(2))
	assert.Equal(t, 3, sub.EdgeCount())
	assert.Equal(t, 3.0, sub.Weight(0, 1))
	assert.Equal(t, uint8(1), sub.Opinion(1))

	// Source graph untouched
	assert.Equal(t, 5, g.NodeCount())
}

func TestMergeSorted(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 5, 8}, mergeSorted([]int{1, 3, 5}, []int{2, 3, 8}))
	assert.Equal(t, []int{4}, mergeSorted(nil, []int{4}))
	assert.Empty(t, mergeSorted(nil, nil))
}
