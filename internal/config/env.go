package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Settings are the runtime options read from the environment.
type Settings struct {
	DataDir    string `env:"CELLSIM_DATA"        envDefault:".cellsim"`
	Store      string `env:"CELLSIM_STORE"       envDefault:"file"`
	SQLitePath string `env:"CELLSIM_SQLITE_PATH"`
	LogLevel   string `env:"CELLSIM_LOG_LEVEL"   envDefault:"info"`
}

func LoadSettings() (Settings, error) {
	s, err := env.ParseAs[Settings]()
	if err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.SQLitePath == "" {
		s.SQLitePath = filepath.Join(s.DataDir, "cellsim.db")
	}
	return s, nil
}

// Level maps LogLevel to a slog level, falling back to info.
func (s Settings) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}
