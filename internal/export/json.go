package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/cellsim/internal/storage"
)

type ExportData struct {
	Run       storage.RunMetadata  `json:"run"`
	Census    map[string][]float64 `json:"census"`
	Snapshots [][][]string         `json:"snapshots,omitempty"`
}

// WriteJSON writes a run as one indented JSON document.
func WriteJSON(w io.Writer, run *storage.Run, withSnapshots bool) error {
	data := ExportData{
		Run:    run.Metadata,
		Census: run.Census,
	}
	if withSnapshots {
		data.Snapshots = run.Snapshots
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, run *storage.Run, withSnapshots bool) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, run, withSnapshots); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
