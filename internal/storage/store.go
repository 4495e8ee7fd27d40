// Package storage persists simulation runs as metadata plus CSV history.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/roversim/internal/physics"
	"github.com/san-kum/roversim/internal/sim"
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
	Drive     string             `json:"drive"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	MaxTime   float64            `json:"maxtime"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// header returns the CSV column names: time, the 12 state channels, then the
// per-wheel voltage, torque, current and speed columns.
func header() []string {
	cols := []string{"time", "u", "v", "w", "p", "q", "r", "x", "y", "z", "phi", "theta", "psi"}
	for _, group := range []string{"volt", "torque", "current", "speed"} {
		for j := 0; j < 4; j++ {
			cols = append(cols, fmt.Sprintf("%s%d", group, j))
		}
	}
	return cols
}

// Save writes a run directory containing metadata.json and history.csv and
// returns the run ID.
func (s *Store) Save(drive string, dt, maxTime float64, history *sim.History) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Drive:     drive,
		Timestamp: time.Now(),
		Dt:        dt,
		MaxTime:   maxTime,
		Steps:     history.Len(),
		Metrics:   history.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "history.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(header()); err != nil {
		return "", err
	}

	row := make([]string, len(header()))
	for i := range history.Records {
		rec := &history.Records[i]
		row = row[:0]
		row = append(row, formatFloat(rec.T))
		for _, v := range rec.State {
			row = append(row, formatFloat(v))
		}
		for _, vec := range []physics.WheelVec{rec.Voltage, rec.Torque, rec.Current, rec.Speed} {
			for _, v := range vec {
				row = append(row, formatFloat(v))
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of all stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.LoadMetadata(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) LoadMetadata(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadColumns reads history.csv back as named columns.
func (s *Store) LoadColumns(runID string) (map[string][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("empty history for run %s", runID)
	}

	names := rows[0]
	cols := make(map[string][]float64, len(names))
	for _, name := range names {
		cols[name] = make([]float64, 0, len(rows)-1)
	}
	for _, row := range rows[1:] {
		for i, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, err
			}
			cols[names[i]] = append(cols[names[i]], v)
		}
	}
	return cols, nil
}
