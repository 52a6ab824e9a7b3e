package graph

// Well-known node attribute names
const (
	// AttrMisinfoScore counts (or rates) a node's low-credibility shares
	AttrMisinfoScore = "misinfo_score"
)

// Location is structured place metadata attached by data preparation.
// The simulation core never reads it.
type Location struct {
	City    string `json:"city,omitempty"`
	County  string `json:"county,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Node is one account in the interaction graph.
type Node struct {
	ID         string
	Attributes map[string]float64 // numeric inputs such as misinfo_score
	Location   *Location
	Metadata   map[string]string // carried through, ignored by the engines

	// Opinion is 1 when the node is labelled misinformed. Only the diffusion
	// engine writes it.
	Opinion uint8
}

// Attribute returns a numeric attribute and whether the node carries it.
func (n *Node) Attribute(name string) (float64, bool) {
	v, ok := n.Attributes[name]
	return v, ok
}

func (n *Node) clone() Node {
	c := *n
	if n.Attributes != nil {
		c.Attributes = make(map[string]float64, len(n.Attributes))
		for k, v := range n.Attributes {
			c.Attributes[k] = v
		}
	}
	if n.Metadata != nil {
		c.Metadata = make(map[string]string, len(n.Metadata))
		for k, v := range n.Metadata {
			c.Metadata[k] = v
		}
	}
	if n.Location != nil {
		loc := *n.Location
		c.Location = &loc
	}
	return c
}

// Edge is a directed, weighted interaction u -> v.
type Edge struct {
	From   int
	To     int
	Weight float64
}
