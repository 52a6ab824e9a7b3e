package diffusion

import (
	"slices"
)

// LabelSet is the immutable set of node ids labelled misinformed after one
// diffusion step.
type LabelSet struct {
	ids    []string
	member map[string]struct{}
}

// NewLabelSet builds a set from ids. Duplicates are dropped; order is not kept.
func NewLabelSet(ids []string) LabelSet {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	member := make(map[string]struct{}, len(sorted))
	for _, id := range sorted {
		member[id] = struct{}{}
	}
	return LabelSet{ids: sorted, member: member}
}

// Contains reports whether id is labelled misinformed.
func (s LabelSet) Contains(id string) bool {
	_, ok := s.member[id]
	return ok
}

// Len returns the number of labelled nodes.
func (s LabelSet) Len() int {
	return len(s.ids)
}

// IDs returns the labelled ids in sorted order.
func (s LabelSet) IDs() []string {
	return slices.Clone(s.ids)
}

// SubsetOf reports whether every id in s is also in other.
func (s LabelSet) SubsetOf(other LabelSet) bool {
	for _, id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}
