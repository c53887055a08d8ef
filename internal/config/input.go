package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/guimove/rectfit/internal/model"
)

var (
	ErrInvalidBin   = errors.New("bin dimensions must be positive")
	ErrInvalidShape = errors.New("invalid shape")
)

// Input is a packing problem document:
//
//	{"Bin": {"W": 100, "H": 100},
//	 "Settings": {"Mask": 7, "MaxTime": 2.5, "Seed": 42, "Evaluator": "Area"},
//	 "Shapes": [{"W": 10, "H": 20, "Count": 5, "Label": "door"}]}
//
// Settings is optional and overrides the tool configuration; omitted fields
// keep the configured values.
type Input struct {
	Bin      BinSpec       `json:"Bin"`
	Settings *SettingsSpec `json:"Settings,omitempty"`
	Shapes   []ShapeSpec   `json:"Shapes"`
}

type BinSpec struct {
	W int `json:"W"`
	H int `json:"H"`
}

type SettingsSpec struct {
	Mask      *int     `json:"Mask,omitempty"`
	MaxTime   *float64 `json:"MaxTime,omitempty"` // seconds per strategy
	Seed      *int64   `json:"Seed,omitempty"`
	Evaluator string   `json:"Evaluator"`
}

type ShapeSpec struct {
	W     int    `json:"W"`
	H     int    `json:"H"`
	Count int    `json:"Count"`
	Label string `json:"Label,omitempty"`
}

// LoadInput reads and parses an input document from path.
func LoadInput(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	defer f.Close()
	return ParseInput(f)
}

// ParseInput decodes and validates an input document.
func ParseInput(r io.Reader) (*Input, error) {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

// Validate checks dimensions and counts.
func (in *Input) Validate() error {
	if in.Bin.W <= 0 || in.Bin.H <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidBin, in.Bin.W, in.Bin.H)
	}
	for i, s := range in.Shapes {
		if s.W <= 0 || s.H <= 0 {
			return fmt.Errorf("%w: shape %d has size %dx%d", ErrInvalidShape, i+1, s.W, s.H)
		}
		if s.Count < 0 {
			return fmt.Errorf("%w: shape %d has negative count %d", ErrInvalidShape, i+1, s.Count)
		}
	}
	if in.Settings != nil && in.Settings.MaxTime != nil {
		switch t := *in.Settings.MaxTime; {
		case t < 0 || math.IsNaN(t):
			return fmt.Errorf("MaxTime must be non-negative, got %v", t)
		case t > maxTimeSeconds:
			return fmt.Errorf("MaxTime must be at most %v seconds, got %v", maxTimeSeconds, t)
		}
	}
	return nil
}

// BinRect returns the bin as a rectangle.
func (in *Input) BinRect() model.Rectangle {
	return model.Rectangle{Width: in.Bin.W, Height: in.Bin.H}
}

// Rectangles expands every shape entry into Count rectangles tagged with the
// entry's 1-based position.
func (in *Input) Rectangles() []model.Rectangle {
	var n int
	for _, s := range in.Shapes {
		n += s.Count
	}
	rects := make([]model.Rectangle, 0, n)
	for i, s := range in.Shapes {
		for j := 0; j < s.Count; j++ {
			rects = append(rects, model.NewRectangle(s.W, s.H, i+1))
		}
	}
	return rects
}

// Labels maps group tags to shape labels.
func (in *Input) Labels() map[int]string {
	labels := make(map[int]string, len(in.Shapes))
	for i, s := range in.Shapes {
		if s.Label != "" {
			labels[i+1] = s.Label
		}
	}
	return labels
}

// maxTimeSeconds is the longest MaxTime a time.Duration can hold.
const maxTimeSeconds = float64(math.MaxInt64 / int64(time.Second))

// Apply overlays the document's settings onto cfg.
func (in *Input) Apply(cfg *Config) {
	s := in.Settings
	if s == nil {
		return
	}
	if s.Mask != nil {
		cfg.Solver.Mask = *s.Mask
	}
	if s.MaxTime != nil {
		cfg.Solver.TimeBudget = time.Duration(*s.MaxTime * float64(time.Second))
	}
	if s.Seed != nil {
		cfg.Solver.Seed = *s.Seed
	}
	if s.Evaluator != "" {
		cfg.Solver.Evaluator = s.Evaluator
	}
}

// Key identifies the packing problem: the bin, the ordered shape list and
// whether rotation is allowed. Settings other than rotation do not change
// which packings are valid, so they are not part of the key.
func (in *Input) Key(allowRotate bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "bin %d %d rotate %v\n", in.Bin.W, in.Bin.H, allowRotate)
	for _, s := range in.Shapes {
		fmt.Fprintf(h, "%d %d %d\n", s.W, s.H, s.Count)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Document renders the input back to indented JSON.
func (in *Input) Document() ([]byte, error) {
	return json.MarshalIndent(in, "", "  ")
}
