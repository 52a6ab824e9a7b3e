package output

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"slices"
	"time"

	"github.com/golang/snappy"

	"github.com/dd0wney/infodemic/pkg/diffusion"
)

var ErrCorruptLabels = errors.New("label artifact is corrupt")

// LabelArtifact is a saved threshold sweep.
type LabelArtifact struct {
	RunID      string           `json:"run_id"`
	Attribute  string           `json:"attribute"`
	CreatedAt  time.Time        `json:"created_at"`
	Thresholds map[int][]string `json:"thresholds"`
}

// NewLabelArtifact captures the label sets of a sweep.
func NewLabelArtifact(runID, attribute string, sets map[int]diffusion.LabelSet) *LabelArtifact {
	a := &LabelArtifact{
		RunID:      runID,
		Attribute:  attribute,
		CreatedAt:  time.Now().UTC(),
		Thresholds: make(map[int][]string, len(sets)),
	}
	for t, s := range sets {
		a.Thresholds[t] = s.IDs()
	}
	return a
}

// Sets rebuilds the label sets.
func (a *LabelArtifact) Sets() map[int]diffusion.LabelSet {
	out := make(map[int]diffusion.LabelSet, len(a.Thresholds))
	for t, ids := range a.Thresholds {
		out[t] = diffusion.NewLabelSet(ids)
	}
	return out
}

// SortedThresholds lists the thresholds in ascending order.
func (a *LabelArtifact) SortedThresholds() []int {
	ts := make([]int, 0, len(a.Thresholds))
	for t := range a.Thresholds {
		ts = append(ts, t)
	}
	slices.Sort(ts)
	return ts
}

// WriteLabels saves a as snappy-compressed JSON followed by a CRC32 of the
// compressed bytes.
//
// Format: [Data:N][Checksum:4]
func WriteLabels(path string, a *LabelArtifact) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}

	compressed := snappy.Encode(nil, data)
	buf := binary.BigEndian.AppendUint32(compressed, crc32.ChecksumIEEE(compressed))

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write labels: %w", err)
	}
	return nil
}

// ReadLabels loads an artifact written by WriteLabels.
func ReadLabels(path string) (*LabelArtifact, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptLabels, len(buf))
	}

	compressed, sum := buf[:len(buf)-4], binary.BigEndian.Uint32(buf[len(buf)-4:])
	if crc32.ChecksumIEEE(compressed) != sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptLabels)
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptLabels, err)
	}

	var a LabelArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptLabels, err)
	}
	if a.Thresholds == nil {
		a.Thresholds = make(map[int][]string)
	}
	return &a, nil
}
