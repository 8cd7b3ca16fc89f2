package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run     RunMetadata     `json:"run"`
	Samples []*SampleRecord `json:"samples"`
}

// ExportJSON writes the metadata and samples of a stored run to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Samples: samples})
}
