// Package output writes simulation results: parquet tables for analysis and
// compressed label artifacts for reuse between runs.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/dd0wney/infodemic/pkg/aggregate"
	"github.com/dd0wney/infodemic/pkg/epidemic"
	"github.com/dd0wney/infodemic/pkg/meanfield"
)

// Table file names inside the output directory.
const (
	NodesFile            = "nodes.parquet"
	DailyFile            = "daily.parquet"
	MeanFieldFile        = "meanfield.parquet"
	MeanFieldSummaryFile = "meanfield_summary.parquet"
)

// NodeRecord is the end state of one node in one agent-based trial.
type NodeRecord struct {
	RunID         string `parquet:"run_id"`
	LTThreshold   int32  `parquet:"lt_threshold"`
	Experiment    int32  `parquet:"experiment"`
	NodeID        string `parquet:"node_id"`
	Status        string `parquet:"status"`
	InfectionTime int32  `parquet:"infection_time"`
	RecoveryTime  int32  `parquet:"recovery_time"`
	Infector      string `parquet:"infector"`
	Misinfo       int32  `parquet:"misinfo"`
}

// DailyRecord is one day of the averaged new-infection curve.
type DailyRecord struct {
	RunID            string  `parquet:"run_id"`
	LTThreshold      int32   `parquet:"lt_threshold"`
	Day              int32   `parquet:"day"`
	MeanInfected     float64 `parquet:"mean_infected"`
	Std              float64 `parquet:"std"`
	CumInfected      float64 `parquet:"cum_infected"`
	PropMeanInfected float64 `parquet:"prop_mean_infected"`
	PropStd          float64 `parquet:"prop_std"`
	PropCumInfected  float64 `parquet:"prop_cum_infected"`
}

// MeanFieldRecord is one day of a mean-field trajectory.
type MeanFieldRecord struct {
	Setting string  `parquet:"setting"`
	Day     int32   `parquet:"day"`
	SO      float64 `parquet:"s_o"`
	IO      float64 `parquet:"i_o"`
	RO      float64 `parquet:"r_o"`
	SM      float64 `parquet:"s_m"`
	IM      float64 `parquet:"i_m"`
	RM      float64 `parquet:"r_m"`
}

// MeanFieldSummary reduces a mean-field run to a single row.
type MeanFieldSummary struct {
	Setting          string  `parquet:"setting"`
	PeakDay          int32   `parquet:"peak_day"`
	MaxInfected      float64 `parquet:"max_infected"`
	TotalOrdinary    float64 `parquet:"total_ordinary"`
	TotalMisinformed float64 `parquet:"total_misinformed"`
	TotalInfected    float64 `parquet:"total_infected"`
	R0Ordinary       float64 `parquet:"r0_ordinary"`
	R0Misinformed    float64 `parquet:"r0_misinformed"`
	R0Weighted       float64 `parquet:"r0_weighted"`
}

// NodeRecords converts the rows of one threshold's trials.
func NodeRecords(runID string, threshold int, rows []epidemic.Row) []NodeRecord {
	out := make([]NodeRecord, len(rows))
	for i, r := range rows {
		out[i] = NodeRecord{
			RunID:         runID,
			LTThreshold:   int32(threshold),
			Experiment:    int32(r.Experiment),
			NodeID:        r.NodeID,
			Status:        r.Status.String(),
			InfectionTime: int32(r.InfectionTime),
			RecoveryTime:  int32(r.RecoveryTime),
			Infector:      r.Infector,
			Misinfo:       int32(r.Misinfo),
		}
	}
	return out
}

// DailyRecords converts a daily summary; days are numbered from 1.
func DailyRecords(runID string, threshold int, d *aggregate.Daily) []DailyRecord {
	out := make([]DailyRecord, d.Days())
	for i := range out {
		out[i] = DailyRecord{
			RunID:            runID,
			LTThreshold:      int32(threshold),
			Day:              int32(i + 1),
			MeanInfected:     d.Mean[i],
			Std:              d.Std[i],
			CumInfected:      d.CumMean[i],
			PropMeanInfected: d.PropMean[i],
			PropStd:          d.PropStd[i],
			PropCumInfected:  d.PropCum[i],
		}
	}
	return out
}

// MeanFieldRecords converts a trajectory; day 0 is the initial state.
func MeanFieldRecords(setting string, res *meanfield.Result) []MeanFieldRecord {
	out := make([]MeanFieldRecord, res.Days())
	for t := range out {
		out[t] = MeanFieldRecord{
			Setting: setting,
			Day:     int32(t),
			SO:      res.SO[t],
			IO:      res.IO[t],
			RO:      res.RO[t],
			SM:      res.SM[t],
			IM:      res.IM[t],
			RM:      res.RM[t],
		}
	}
	return out
}

// Summarize reduces a trajectory to peak, totals and R0.
func Summarize(setting string, res *meanfield.Result) MeanFieldSummary {
	infected := res.Infected()
	totals := aggregate.TotalInfected(res)
	return MeanFieldSummary{
		Setting:          setting,
		PeakDay:          int32(aggregate.PeakDay(infected)),
		MaxInfected:      aggregate.MaxValue(infected),
		TotalOrdinary:    totals.Ordinary,
		TotalMisinformed: totals.Misinformed,
		TotalInfected:    totals.Total,
		R0Ordinary:       res.R0.Ordinary,
		R0Misinformed:    res.R0.Misinformed,
		R0Weighted:       res.R0.Weighted,
	}
}

// Writer writes tables into one directory.
type Writer struct {
	dir string
}

// NewWriter creates dir if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// Dir is the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path joins name onto the output directory.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteNodes writes nodes.parquet.
func (w *Writer) WriteNodes(records []NodeRecord) error {
	return writeTable(w.Path(NodesFile), records)
}

// WriteDaily writes daily.parquet.
func (w *Writer) WriteDaily(records []DailyRecord) error {
	return writeTable(w.Path(DailyFile), records)
}

// WriteMeanField writes meanfield.parquet.
func (w *Writer) WriteMeanField(records []MeanFieldRecord) error {
	return writeTable(w.Path(MeanFieldFile), records)
}

// WriteMeanFieldSummary writes meanfield_summary.parquet.
func (w *Writer) WriteMeanFieldSummary(records []MeanFieldSummary) error {
	return writeTable(w.Path(MeanFieldSummaryFile), records)
}

func writeTable[T any](path string, rows []T) error {
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadNodes loads a nodes table.
func ReadNodes(path string) ([]NodeRecord, error) {
	return readTable[NodeRecord](path)
}

// ReadDaily loads a daily table.
func ReadDaily(path string) ([]DailyRecord, error) {
	return readTable[DailyRecord](path)
}

// ReadMeanField loads a mean-field trajectory table.
func ReadMeanField(path string) ([]MeanFieldRecord, error) {
	return readTable[MeanFieldRecord](path)
}

// ReadMeanFieldSummary loads a mean-field summary table.
func ReadMeanFieldSummary(path string) ([]MeanFieldSummary, error) {
	return readTable[MeanFieldSummary](path)
}

func readTable[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// DailyCurve extracts the curve of one threshold from a daily table, ordered
// by day.
func DailyCurve(records []DailyRecord, threshold int) (aggregate.Curve, bool) {
	var c aggregate.Curve
	maxDay := 0
	for _, r := range records {
		if int(r.LTThreshold) == threshold {
			maxDay = max(maxDay, int(r.Day))
		}
	}
	if maxDay == 0 {
		return c, false
	}
	c.Infected = make([]float64, maxDay)
	c.Cumulative = make([]float64, maxDay)
	for _, r := range records {
		if int(r.LTThreshold) == threshold && r.Day >= 1 {
			c.Infected[r.Day-1] = r.PropMeanInfected
			c.Cumulative[r.Day-1] = r.PropCumInfected
		}
	}
	return c, true
}

// MeanFieldCurve rebuilds the curve of one setting from a trajectory table.
func MeanFieldCurve(records []MeanFieldRecord, setting string) (aggregate.Curve, bool) {
	var c aggregate.Curve
	days := 0
	for _, r := range records {
		if r.Setting == setting {
			days = max(days, int(r.Day)+1)
		}
	}
	if days == 0 {
		return c, false
	}
	c.Infected = make([]float64, days)
	c.Cumulative = make([]float64, days)
	for _, r := range records {
		if r.Setting == setting && r.Day >= 0 {
			c.Infected[r.Day] = r.IO + r.IM
			c.Cumulative[r.Day] = r.RO + r.RM
		}
	}
	return c, true
}
