package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/walkersim/internal/agent"
	"github.com/san-kum/walkersim/internal/experiment"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectories.csv"
	archiveFile    = "results.jsonl.zst"
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

func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID         string          `json:"id"`
	Agent      string          `json:"agent"`
	Timestamp  time.Time       `json:"timestamp"`
	Seed       int64           `json:"seed"`
	Duration   int             `json:"duration"`
	Population int             `json:"population"`
	Lights     int             `json:"lights"`
	Policy     string          `json:"policy,omitempty"`
	Prototype  bool            `json:"prototype"`
	Elapsed    time.Duration   `json:"elapsed"`
	Batches    []BatchMetadata `json:"batches"`
}

// TotalRuns is the number of runs across all batches.
func (m *RunMetadata) TotalRuns() int {
	n := 0
	for _, b := range m.Batches {
		n += b.Runs
	}
	return n
}

// BatchMetadata keeps the per-run scalars of a batch so statistics can be
// computed without reading trajectories.
type BatchMetadata struct {
	Agent        string               `json:"agent"`
	Runs         int                  `json:"runs"`
	Explorations []int                `json:"explorations,omitempty"`
	Lights       []agent.Light        `json:"lights,omitempty"`
	Fitness      []float64            `json:"fitness,omitempty"`
	Metrics      []map[string]float64 `json:"metrics,omitempty"`
}

// Save writes the report under a new run directory and returns its id.
func (s *Store) Save(report *experiment.Report) (string, error) {
	runID := fmt.Sprintf("%s_%s", report.Config.Agent, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := newMetadata(runID, report)
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectories(filepath.Join(runDir, trajectoryFile), report); err != nil {
		return "", err
	}
	if err := WriteArchive(filepath.Join(runDir, archiveFile), report); err != nil {
		return "", err
	}

	return runID, nil
}

func newMetadata(runID string, report *experiment.Report) RunMetadata {
	cfg := report.Config
	meta := RunMetadata{
		ID:         runID,
		Agent:      cfg.Agent,
		Timestamp:  time.Now(),
		Seed:       cfg.Seed,
		Duration:   cfg.Duration,
		Population: cfg.Population,
		Lights:     cfg.Lights,
		Prototype:  cfg.Prototype,
		Elapsed:    report.Elapsed,
	}

	for _, b := range report.Batches {
		bm := BatchMetadata{Agent: b.Agent}
		for _, w := range b.Walkers {
			bm.Explorations = append(bm.Explorations, w.Exploration)
			bm.Metrics = append(bm.Metrics, w.Metrics)
		}
		for _, v := range b.Vehicles {
			bm.Lights = append(bm.Lights, v.Light)
			bm.Fitness = append(bm.Fitness, v.Fitness)
			bm.Metrics = append(bm.Metrics, v.Metrics)
			meta.Policy = cfg.Policy
		}
		bm.Runs = len(b.Walkers) + len(b.Vehicles)
		meta.Batches = append(meta.Batches, bm)
	}
	return meta
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

func writeTrajectories(path string, report *experiment.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"batch", "run", "step", "x", "y", "displacement"}); err != nil {
		return err
	}

	for bi, b := range report.Batches {
		for ri, res := range b.Walkers {
			if err := writeRows(w, bi, ri, res.Trajectory.X, res.Trajectory.Y, res.Displacement); err != nil {
				return err
			}
		}
		for ri, res := range b.Vehicles {
			if err := writeRows(w, bi, ri, res.Trajectory.X, res.Trajectory.Y, res.Trajectory.Displacement()); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func writeRows(w *csv.Writer, batch, run int, xs, ys, disp []float64) error {
	b := strconv.Itoa(batch)
	r := strconv.Itoa(run)
	for i := range xs {
		row := []string{
			b, r, strconv.Itoa(i),
			strconv.FormatFloat(xs[i], 'f', 6, 64),
			strconv.FormatFloat(ys[i], 'f', 6, 64),
			strconv.FormatFloat(disp[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

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

// StoredRun is one trajectory read back from CSV.
type StoredRun struct {
	X            []float64
	Y            []float64
	Displacement []float64
}

// LoadTrajectories reads trajectories.csv back as [batch][run].
func (s *Store) LoadTrajectories(runID string) ([][]StoredRun, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var batches [][]StoredRun
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 6 {
			continue
		}
		batch, err1 := strconv.Atoi(rec[0])
		run, err2 := strconv.Atoi(rec[1])
		if err1 != nil || err2 != nil || batch < 0 || run < 0 {
			continue
		}
		vals := make([]float64, 3)
		bad := false
		for j := range vals {
			v, err := strconv.ParseFloat(rec[3+j], 64)
			if err != nil {
				bad = true
				break
			}
			vals[j] = v
		}
		if bad {
			continue
		}

		for len(batches) <= batch {
			batches = append(batches, nil)
		}
		for len(batches[batch]) <= run {
			batches[batch] = append(batches[batch], StoredRun{})
		}
		sr := &batches[batch][run]
		sr.X = append(sr.X, vals[0])
		sr.Y = append(sr.Y, vals[1])
		sr.Displacement = append(sr.Displacement, vals[2])
	}

	return batches, nil
}

// ArchivePath returns where Save put the compressed results of runID.
func (s *Store) ArchivePath(runID string) string {
	return filepath.Join(s.baseDir, runID, archiveFile)
}
