package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	finalFile    = "final.txt"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Source    string             `json:"source"`
	Timestamp time.Time          `json:"timestamp"`
	Bodies    int                `json:"bodies"`
	Radius    float64            `json:"radius"`
	Dt        float64            `json:"dt"`
	TotalTime float64            `json:"total_time"`
	Steps     int                `json:"steps"`
	Workers   int                `json:"workers"`
	Metrics   Metrics            `json:"metrics"`
	Errors    []string           `json:"errors,omitempty"`
}

// Metrics holds final metric values. NaN and infinities are stored as null
// and read back as NaN.
type Metrics map[string]float64

func (m Metrics) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, len(m))
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[k] = nil
			continue
		}
		out[k] = &v
	}
	return json.Marshal(out)
}

func (m *Metrics) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = nil
		return nil
	}
	*m = make(Metrics, len(raw))
	for k, v := range raw {
		if v == nil {
			(*m)[k] = math.NaN()
			continue
		}
		(*m)[k] = *v
	}
	return nil
}

// SampleRecord is one body at one sampled step.
type SampleRecord struct {
	Step  int     `csv:"step"`
	Time  float64 `csv:"time"`
	Index int     `csv:"index"`
	Asset string  `csv:"asset"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	VX    float64 `csv:"vx"`
	VY    float64 `csv:"vy"`
	Mass  float64 `csv:"mass"`
}

// Records flattens samples into one record per body per sample.
func Records(samples []sim.Sample) []*SampleRecord {
	records := make([]*SampleRecord, 0)
	for _, smp := range samples {
		for i, b := range smp.Bodies {
			records = append(records, &SampleRecord{
				Step:  smp.Step,
				Time:  smp.Time,
				Index: i,
				Asset: b.Asset(),
				X:     b.X(),
				Y:     b.Y(),
				VX:    b.VX(),
				VY:    b.VY(),
				Mass:  b.Mass(),
			})
		}
	}
	return records
}

// Save writes metadata, samples and the final universe of a run. meta.ID and
// meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, radius float64, result *sim.Result) (string, error) {
	meta.ID = fmt.Sprintf("%s_%d", meta.Source, time.Now().UnixNano())
	meta.Timestamp = time.Now()
	meta.Radius = radius
	meta.Steps = result.StepsTaken
	meta.Metrics = Metrics(result.Metrics)
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := s.write(runDir, meta, radius, result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return meta.ID, nil
}

// write stores metadata.json last, so a run without it was never completed.
func (s *Store) write(runDir string, meta RunMetadata, radius float64, result *sim.Result) error {
	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	records := Records(result.Samples)
	if len(records) > 0 {
		if err := gocsv.MarshalFile(&records, csvFile); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	}

	final := &universe.Universe{Radius: radius, Bodies: result.Final}
	if err := universe.Save(filepath.Join(runDir, finalFile), final); err != nil {
		return err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(runDir, metadataFile), append(data, '\n'), 0644)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]*SampleRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records := make([]*SampleRecord, 0)
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return records, nil
		}
		return nil, err
	}
	return records, nil
}

func (s *Store) LoadFinal(runID string) (*universe.Universe, error) {
	return universe.Load(filepath.Join(s.baseDir, runID, finalFile))
}
