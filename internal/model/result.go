package model

import "time"

// StrategyResult captures the outcome of one solver run.
type StrategyResult struct {
	Name         string        `json:"name"`
	Score        int64         `json:"score"`
	Passes       int           `json:"passes"`
	Improvements int           `json:"improvements"`
	Duration     time.Duration `json:"duration"`

	// Winner is set on the strategy whose packing became the run's best.
	Winner bool `json:"winner,omitempty"`
}

// GroupReport details how many shapes of one input group were placed.
type GroupReport struct {
	ID        int    `json:"id"`
	Label     string `json:"label"`
	Width     int    `json:"w"`
	Height    int    `json:"h"`
	Requested int    `json:"requested"`
	Placed    int    `json:"placed"`
}

// Unplaced returns how many shapes of the group were left out.
func (g GroupReport) Unplaced() int {
	return g.Requested - g.Placed
}

// PackingReport summarizes how well a packing uses the bin.
type PackingReport struct {
	BinArea    int64 `json:"bin_area"`
	Score      int64 `json:"score"`
	WastedArea int64 `json:"wasted_area"`

	// Score / BinArea, 0.0 - 1.0
	Utilization float64 `json:"utilization"`

	// Score / total requested area, 0.0 - 1.0
	Coverage float64 `json:"coverage"`

	Placed   int `json:"placed"`
	Unplaced int `json:"unplaced"`

	Groups []GroupReport `json:"groups"`
}

// RunResult is the final output of an orchestrated packing run.
type RunResult struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`

	Bin       Rectangle     `json:"bin"`
	Mask      int           `json:"mask"`
	Budget    time.Duration `json:"budget"`
	Seed      int64         `json:"seed"`
	Evaluator string        `json:"evaluator"`

	Strategies []StrategyResult `json:"strategies"`
	Packed     Packing          `json:"packed"`
	Report     PackingReport    `json:"report"`

	// FromCache is set when no strategy beat a previously stored packing.
	FromCache bool `json:"from_cache,omitempty"`
}

// Winner returns the name of the strategy that produced Packed, or "" when
// the result came from the cache or nothing was placed.
func (r *RunResult) Winner() string {
	for _, s := range r.Strategies {
		if s.Winner {
			return s.Name
		}
	}
	return ""
}
