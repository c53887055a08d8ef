package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/guimove/rectfit/internal/model"
)

// Config is the top-level configuration for rectfit.
type Config struct {
	Solver  SolverConfig  `mapstructure:"solver"`
	Output  OutputConfig  `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Stress  StressConfig  `mapstructure:"stress"`
}

type SolverConfig struct {
	Mask        int           `mapstructure:"mask"`        // bit 0 skyline, bit 1 maxrect, bit 2 shelf
	TimeBudget  time.Duration `mapstructure:"time_budget"` // per strategy
	Seed        int64         `mapstructure:"seed"`
	Evaluator   string        `mapstructure:"evaluator"`
	AllowRotate bool          `mapstructure:"allow_rotate"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"` // optional export; format chosen by extension
}

type MetricsConfig struct {
	File           string `mapstructure:"file"`
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"` // 0 = never expires
}

type StressConfig struct {
	Duration   time.Duration `mapstructure:"duration"`
	CaseBudget time.Duration `mapstructure:"case_budget"`
	BinSize    int           `mapstructure:"bin_size"`
	Sizes      int           `mapstructure:"sizes"`
	Copies     int           `mapstructure:"copies"`
	MinSide    int           `mapstructure:"min_side"`
	MaxSide    int           `mapstructure:"max_side"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			Mask:        7,
			TimeBudget:  3 * time.Second,
			Seed:        1,
			Evaluator:   model.EvaluatorArea,
			AllowRotate: true,
		},
		Output: OutputConfig{
			Format: "table",
		},
		Metrics: MetricsConfig{
			Job: "rectfit",
		},
		Cache: CacheConfig{
			Dir: defaultCacheDir(),
		},
		Stress: StressConfig{
			Duration:   30 * time.Second,
			CaseBudget: 100 * time.Millisecond,
			BinSize:    200,
			Sizes:      10,
			Copies:     30,
			MinSide:    10,
			MaxSide:    29,
		},
	}
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	if c.Solver.Mask < 0 || c.Solver.Mask > 7 {
		return fmt.Errorf("mask must be between 0 and 7, got %d", c.Solver.Mask)
	}
	if c.Solver.TimeBudget < 0 {
		return fmt.Errorf("time budget must be non-negative, got %v", c.Solver.TimeBudget)
	}
	validFormats := map[string]bool{"table": true, "json": true, "markdown": true, "svg": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output format must be table, json, markdown, or svg, got %q", c.Output.Format)
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache dir must be set when the cache is enabled")
	}
	if c.Stress.MinSide <= 0 || c.Stress.MaxSide < c.Stress.MinSide {
		return fmt.Errorf("stress sides must satisfy 0 < min_side <= max_side, got %d..%d",
			c.Stress.MinSide, c.Stress.MaxSide)
	}
	if c.Stress.BinSize <= 0 || c.Stress.Sizes <= 0 || c.Stress.Copies <= 0 {
		return fmt.Errorf("stress bin_size, sizes and copies must be positive")
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = "rectfit"
	}
	return nil
}

// ResolveEvaluator returns the configured evaluator and its canonical name.
// An unknown or empty name falls back to the area evaluator with a warning.
func (c *SolverConfig) ResolveEvaluator(logger *slog.Logger) (model.Evaluator, string) {
	eval, ok := model.EvaluatorByName(c.Evaluator)
	if !ok {
		if c.Evaluator == "" {
			logger.Warn("no evaluator name specified, using Area instead")
		} else {
			logger.Warn("unknown evaluator, using Area instead",
				"evaluator", c.Evaluator, "valid", model.EvaluatorNames())
		}
		c.Evaluator = model.EvaluatorArea
	}
	return eval, c.Evaluator
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "rectfit")
	}
	return filepath.Join(os.TempDir(), "rectfit-cache")
}
