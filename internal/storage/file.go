package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

const (
	metadataFile  = "metadata.json"
	censusFile    = "census.csv"
	snapshotsFile = "snapshots.json"
)

// FileStore keeps each run in its own directory under baseDir.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

func (s *FileStore) Init(_ context.Context) error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Save(ctx context.Context, run *Run) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prepare(run)
	runDir := filepath.Join(s.baseDir, run.Metadata.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), run.Metadata); err != nil {
		return "", err
	}
	if err := writeCensus(filepath.Join(runDir, censusFile), run.Metadata.States, run.Census); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, snapshotsFile), run.Snapshots); err != nil {
		return "", err
	}
	return run.Metadata.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCensus(path string, states []string, census map[string][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCensusCSV(f, states, census); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCensusCSV writes one row per generation with a column per state.
func WriteCensusCSV(out io.Writer, states []string, census map[string][]float64) error {
	w := csv.NewWriter(out)
	columns := censusColumns(states, census)
	if err := w.Write(append([]string{"generation"}, columns...)); err != nil {
		return err
	}

	rows := 0
	for _, series := range census {
		rows = max(rows, len(series))
	}
	for gen := 0; gen < rows; gen++ {
		record := []string{strconv.Itoa(gen)}
		for _, state := range columns {
			v := 0.0
			if series := census[state]; gen < len(series) {
				v = series[gen]
			}
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// censusColumns orders columns by the kind's state list, then any extras.
func censusColumns(states []string, census map[string][]float64) []string {
	seen := make(map[string]bool, len(states))
	var cols []string
	for _, s := range states {
		if _, ok := census[s]; ok && !seen[s] {
			cols = append(cols, s)
			seen[s] = true
		}
	}
	var extra []string
	for s := range census {
		if !seen[s] {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

func (s *FileStore) List(_ context.Context) ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), metadataFile))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *FileStore) Load(_ context.Context, id string) (*RunMetadata, error) {
	var meta RunMetadata
	if err := s.readJSON(id, metadataFile, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *FileStore) LoadSnapshots(_ context.Context, id string) ([][][]string, error) {
	var frames [][][]string
	if err := s.readJSON(id, snapshotsFile, &frames); err != nil {
		return nil, err
	}
	return frames, nil
}

func (s *FileStore) readJSON(id, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s of run %s: %w", name, id, err)
	}
	return nil
}

func (s *FileStore) LoadCensus(_ context.Context, id string) (map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, censusFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	census := make(map[string][]float64)
	if len(records) == 0 {
		return census, nil
	}

	header := records[0]
	for _, state := range header[1:] {
		census[state] = make([]float64, 0, len(records)-1)
	}
	for _, record := range records[1:] {
		for j := 1; j < len(record) && j < len(header); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("census of run %s: %w", id, err)
			}
			census[header[j]] = append(census[header[j]], v)
		}
	}
	return census, nil
}

var _ Store = (*FileStore)(nil)
