package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultKind        = "gameoflife"
	DefaultSize        = 32
	DefaultGenerations = 100
)

// Initial state distributions.
const (
	Specified   = "specified"
	Random      = "random"
	RandomTotal = "randomtotal"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is one experiment file.
type Config struct {
	Title       string            `yaml:"title"`
	Author      string            `yaml:"author,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Kind        string            `yaml:"kind"`
	Seed        int64             `yaml:"seed"`
	Generations int               `yaml:"generations"`
	Grid        GridConfig        `yaml:"grid"`
	Params      map[string]string `yaml:"params,omitempty"`
}

type GridConfig struct {
	Topology  string `yaml:"topology,omitempty"`
	Neighbors int    `yaml:"neighbors,omitempty"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Wrapping  bool   `yaml:"wrapping"`
	History   int    `yaml:"history,omitempty"`

	// Distribution is specified, random or randomtotal. Empty means
	// specified when Rows is set and random otherwise.
	Distribution string         `yaml:"distribution,omitempty"`
	Rows         []string       `yaml:"rows,omitempty"`
	Weights      map[string]int `yaml:"weights,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Title:       "Game of Life",
		Kind:        DefaultKind,
		Generations: DefaultGenerations,
		Grid: GridConfig{
			Width:    DefaultSize,
			Height:   DefaultSize,
			Wrapping: true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML document over DefaultConfig. Grid dimensions left
// out of the document are taken from the rows, if any.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Grid.Width, cfg.Grid.Height = 0, 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Grid.Height == 0 {
		cfg.Grid.Height = DefaultSize
		if len(cfg.Grid.Rows) > 0 {
			cfg.Grid.Height = len(cfg.Grid.Rows)
		}
	}
	if cfg.Grid.Width == 0 {
		cfg.Grid.Width = DefaultSize
		if len(cfg.Grid.Rows) > 0 {
			cfg.Grid.Width = len(strings.Fields(cfg.Grid.Rows[0]))
		}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DistributionName resolves the empty distribution.
func (g GridConfig) DistributionName() string {
	if g.Distribution != "" {
		return strings.ToLower(g.Distribution)
	}
	if len(g.Rows) > 0 {
		return Specified
	}
	return Random
}

// Validate checks the fields that do not depend on the rule kind.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Kind) == "" {
		errs = append(errs, errors.New("kind is required"))
	}
	if c.Generations < 0 {
		errs = append(errs, fmt.Errorf("generations must be non-negative, got %d", c.Generations))
	}
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid must be at least 1x1, got %dx%d", c.Grid.Width, c.Grid.Height))
	}
	if c.Grid.History < 0 {
		errs = append(errs, fmt.Errorf("history must be non-negative, got %d", c.Grid.History))
	}
	switch d := c.Grid.DistributionName(); d {
	case Specified, Random, RandomTotal:
	default:
		errs = append(errs, fmt.Errorf("unknown distribution %q", d))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
