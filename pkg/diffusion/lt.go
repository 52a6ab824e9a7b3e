// Package diffusion implements the single-step Linear Threshold model that
// labels accounts as misinformed.
//
// Seeds are nodes whose misinformation attribute is positive. A non-seed node is
// promoted when at least threshold of its distinct in-neighbors are seeds. All
// promotions are computed from the seed snapshot and applied together. The
// model runs exactly one synchronous pass; it is never iterated to a fixed
// point.
package diffusion

import (
	"errors"
	"fmt"

	"github.com/dd0wney/infodemic/pkg/graph"
	"github.com/dd0wney/infodemic/pkg/logging"
)

var (
	ErrInvalidThreshold = errors.New("threshold must be a non-negative integer")
	ErrUnknownAttribute = errors.New("misinformation attribute not carried by any node")
	ErrEmptyAttribute   = errors.New("misinformation attribute name is empty")
)

// DefaultThresholds is the reference sweep.
var DefaultThresholds = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 20, 30, 40, 50, 60, 75, 100}

// Result summarises one RunLT call.
type Result struct {
	Threshold int
	Seeds     int // nodes labelled from the attribute alone
	Promoted  int // nodes labelled by the threshold rule
	Labels    LabelSet
}

// Misinformed is the total number of labelled nodes.
func (r *Result) Misinformed() int {
	return r.Seeds + r.Promoted
}

// RunLT labels g's nodes in place with one Linear Threshold step.
//
// A node without the attribute counts as value 0. With threshold 0 a node still
// needs one misinformed in-neighbor to be promoted, so isolated nodes keep
// their seed opinion for every threshold.
func RunLT(g *graph.Graph, threshold int, attribute string) (*Result, error) {
	if err := checkConfig(g, threshold, attribute); err != nil {
		return nil, err
	}

	n := g.NodeCount()
	res := &Result{Threshold: threshold}

	for i := 0; i < n; i++ {
		v, _ := g.Node(i).Attribute(attribute)
		if v > 0 {
			g.SetOpinion(i, 1)
			res.Seeds++
		} else {
			g.SetOpinion(i, 0)
		}
	}

	need := max(threshold, 1)
	var queued []int
	for i := 0; i < n; i++ {
		if g.Opinion(i) == 1 {
			continue
		}
		bad := 0
		for _, j := range g.InNeighbors(i) {
			if g.Opinion(j) == 1 {
				bad++
			}
		}
		if bad >= need {
			queued = append(queued, i)
		}
	}

	for _, i := range queued {
		g.SetOpinion(i, 1)
	}
	res.Promoted = len(queued)
	res.Labels = Labels(g)
	return res, nil
}

func checkConfig(g *graph.Graph, threshold int, attribute string) error {
	if threshold < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, threshold)
	}
	if attribute == "" {
		return ErrEmptyAttribute
	}
	if g.NodeCount() > 0 && !g.HasAttribute(attribute) {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, attribute)
	}
	return nil
}

// Labels collects the ids of nodes currently labelled misinformed.
func Labels(g *graph.Graph) LabelSet {
	ids := make([]string, 0)
	for i := 0; i < g.NodeCount(); i++ {
		if g.Opinion(i) == 1 {
			ids = append(ids, g.ID(i))
		}
	}
	return NewLabelSet(ids)
}

// SeedCount is the number of nodes whose attribute value is positive.
func SeedCount(g *graph.Graph, attribute string) int {
	count := 0
	for i := 0; i < g.NodeCount(); i++ {
		if v, _ := g.Node(i).Attribute(attribute); v > 0 {
			count++
		}
	}
	return count
}

// ApplyLabels sets every node's opinion to its membership in labels and returns
// how many nodes were labelled. Ids in labels that g lacks are ignored.
func ApplyLabels(g *graph.Graph, labels LabelSet) int {
	count := 0
	for i := 0; i < g.NodeCount(); i++ {
		if labels.Contains(g.ID(i)) {
			g.SetOpinion(i, 1)
			count++
		} else {
			g.SetOpinion(i, 0)
		}
	}
	return count
}

// Sweep runs RunLT once per threshold and returns the labels of each run.
// Every run re-seeds from the attribute, so runs are independent of order.
// All thresholds are checked before the graph is touched.
func Sweep(g *graph.Graph, thresholds []int, attribute string, logger logging.Logger) (map[int]LabelSet, error) {
	for _, t := range thresholds {
		if err := checkConfig(g, t, attribute); err != nil {
			return nil, err
		}
	}

	logger = logging.OrNop(logger).With(logging.Component("diffusion"))
	out := make(map[int]LabelSet, len(thresholds))
	for _, t := range thresholds {
		if _, done := out[t]; done {
			continue
		}
		res, err := RunLT(g, t, attribute)
		if err != nil {
			return nil, fmt.Errorf("threshold %d: %w", t, err)
		}
		out[t] = res.Labels
		logger.Info("linear threshold step complete",
			logging.Threshold(t),
			logging.Int("seeds", res.Seeds),
			logging.Int("promoted", res.Promoted),
			logging.Int("misinformed", res.Misinformed()),
			logging.Int("nodes", g.NodeCount()),
		)
	}
	return out, nil
}
