package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("run not found")

// RunMetadata describes one stored run.
type RunMetadata struct {
	ID          string             `json:"id"`
	Kind        string             `json:"kind"`
	Title       string             `json:"title,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Generations int                `json:"generations"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Topology    string             `json:"topology"`
	Neighbors   int                `json:"neighbors"`
	Wrapping    bool               `json:"wrapping"`
	States      []string           `json:"states"`
	Params      map[string]string  `json:"params,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Run is everything persisted for one experiment run. Census maps a state
// name to its count per generation; Snapshots holds one matrix of state
// names per generation.
type Run struct {
	Metadata  RunMetadata
	Census    map[string][]float64
	Snapshots [][][]string
}

type Store interface {
	Init(ctx context.Context) error
	// Save assigns an ID when Metadata.ID is empty and returns it.
	Save(ctx context.Context, run *Run) (string, error)
	List(ctx context.Context) ([]RunMetadata, error)
	Load(ctx context.Context, id string) (*RunMetadata, error)
	LoadCensus(ctx context.Context, id string) (map[string][]float64, error)
	LoadSnapshots(ctx context.Context, id string) ([][][]string, error)
	Close() error
}

// NewStore returns an uninitialized store. kind is "file" (the default) or
// "sqlite".
func NewStore(kind, dir, sqlitePath string) (Store, error) {
	switch kind {
	case "", "file":
		return NewFileStore(dir), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func newRunID(kind string, t time.Time) string {
	return fmt.Sprintf("%s_%d", kind, t.UnixNano())
}

func prepare(run *Run) {
	if run.Metadata.Timestamp.IsZero() {
		run.Metadata.Timestamp = time.Now()
	}
	if run.Metadata.ID == "" {
		run.Metadata.ID = newRunID(run.Metadata.Kind, run.Metadata.Timestamp)
	}
}
