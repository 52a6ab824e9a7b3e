package graph

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/exp/mmap"
)

// fileNode and fileEdge are the JSON interchange records produced by the data
// preparation pipeline.
type fileNode struct {
	ID         string             `json:"id"`
	Attributes map[string]float64 `json:"attributes,omitempty"`
	Location   *Location          `json:"location,omitempty"`
	Metadata   map[string]string  `json:"metadata,omitempty"`
	Opinion    uint8              `json:"opinion,omitempty"`
}

type fileEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight,omitempty"`
}

type fileGraph struct {
	Nodes []fileNode `json:"nodes"`
	Edges []fileEdge `json:"edges"`
}

// LoadFile reads a JSON graph file through a memory-mapped reader.
func LoadFile(path string) (*Graph, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, newError("Load", "", fmt.Errorf("open %s: %w", path, err))
	}
	defer r.Close()

	return Decode(io.NewSectionReader(r, 0, int64(r.Len())))
}

// Decode reads a JSON graph. Edges may name nodes absent from the node list;
// such nodes are created without attributes. A zero or missing weight counts
// as a single interaction.
func Decode(r io.Reader) (*Graph, error) {
	var fg fileGraph
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fg); err != nil {
		return nil, newError("Decode", "", fmt.Errorf("%w: %w", ErrInvalidFormat, err))
	}

	b := NewBuilder()
	for _, fn := range fg.Nodes {
		i, err := b.AddNode(Node{
			ID:         fn.ID,
			Attributes: fn.Attributes,
			Location:   fn.Location,
			Metadata:   fn.Metadata,
		})
		if err != nil {
			return nil, err
		}
		if fn.Opinion != 0 {
			b.nodes[i].Opinion = 1
		}
	}
	for _, fe := range fg.Edges {
		w := fe.Weight
		if w == 0 {
			w = 1
		}
		if err := b.AddEdge(fe.Source, fe.Target, w); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Encode writes g in the format Decode reads.
func Encode(w io.Writer, g *Graph) error {
	fg := fileGraph{
		Nodes: make([]fileNode, 0, g.NodeCount()),
		Edges: make([]fileEdge, 0, g.EdgeCount()),
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		fg.Nodes = append(fg.Nodes, fileNode{
			ID:         n.ID,
			Attributes: n.Attributes,
			Location:   n.Location,
			Metadata:   n.Metadata,
			Opinion:    n.Opinion,
		})
	}
	for _, e := range g.Edges() {
		fg.Edges = append(fg.Edges, fileEdge{
			Source: g.nodes[e.From].ID,
			Target: g.nodes[e.To].ID,
			Weight: e.Weight,
		})
	}
	enc := json.NewEncoder(w)
	return enc.Encode(fg)
}
