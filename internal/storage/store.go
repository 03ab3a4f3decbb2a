package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/linksim/internal/pbd"
	"github.com/san-kum/linksim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	configFile     = "config.yaml"
)

// ErrNoConfig is returned by LoadConfig for runs stored without a config,
// such as scripted scenario runs that cannot be replayed from one.
var ErrNoConfig = errors.New("storage: run has no stored config")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type PhysicsMeta struct {
	Gravity    float64 `json:"gravity"`
	Damping    float64 `json:"damping"`
	Iterations int     `json:"iterations"`
	TimeStep   float64 `json:"time_step"`
	Floor      bool    `json:"floor"`
	FloorY     float64 `json:"floor_y,omitempty"`
}

func physicsMeta(p pbd.Params) PhysicsMeta {
	return PhysicsMeta{
		Gravity:    p.Gravity,
		Damping:    p.Damping,
		Iterations: p.Iterations,
		TimeStep:   p.TimeStep,
		Floor:      p.Floor,
		FloorY:     p.FloorY,
	}
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Physics   PhysicsMeta        `json:"physics"`
	Steps     int                `json:"steps"`
	Track     []int              `json:"track"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Trajectory is a run's tracked positions as read back from disk.
type Trajectory struct {
	Track  []int
	Steps  []int
	Times  []float64
	Frames []sim.Frame
}

// Series returns the x and y history of particle index p, which must be one
// of the tracked indices.
func (t *Trajectory) Series(p int) (xs, ys []float64, err error) {
	for n, idx := range t.Track {
		if idx != p {
			continue
		}
		xs = make([]float64, len(t.Frames))
		ys = make([]float64, len(t.Frames))
		for i, f := range t.Frames {
			xs[i], ys[i] = f[n].X, f[n].Y
		}
		return xs, ys, nil
	}
	return nil, nil, fmt.Errorf("particle %d was not tracked (tracked: %v)", p, t.Track)
}

func (s *Store) Save(name string, p pbd.Params, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", safeName(name), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Physics:   physicsMeta(p),
		Steps:     result.StepsTaken,
		Track:     result.Track,
		Metrics:   result.Metrics,
	}

	err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", err
	}

	err = writeFile(filepath.Join(runDir, trajectoryFile), func(w io.Writer) error {
		return WriteCSV(w, result)
	})
	if err != nil {
		return "", err
	}

	return runID, nil
}

// SaveConfig stores the resolved config a run was simulated from.
func (s *Store) SaveConfig(runID string, data []byte) error {
	dir, err := s.runDir(runID)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, configFile), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// LoadConfig returns the bytes stored by SaveConfig, or ErrNoConfig.
func (s *Store) LoadConfig(runID string) ([]byte, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoConfig, runID)
	}
	return data, err
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || filepath.Base(runID) != runID {
		return "", fmt.Errorf("storage: invalid run id %q", runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

// safeName keeps letters, digits, '-' and '_' so a run id is always a single
// path element.
func safeName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if clean == "" {
		return "run"
	}
	return clean
}

// writeFile creates path, fills it with write and reports the first error,
// including one from Close.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// WriteCSV writes one row per recorded frame: step, time, then x and y of
// each tracked particle.
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	header := []string{"step", "time"}
	for _, idx := range result.Track {
		header = append(header, fmt.Sprintf("x%d", idx), fmt.Sprintf("y%d", idx))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, f := range result.Frames {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, p := range f {
			row = append(row,
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV parses the format written by WriteCSV. Rows that fail to parse are
// skipped.
func ReadCSV(in io.Reader) (*Trajectory, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("trajectory: missing header")
	}

	track, err := parseHeader(records[0])
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{
		Track:  track,
		Steps:  make([]int, 0, len(records)-1),
		Times:  make([]float64, 0, len(records)-1),
		Frames: make([]sim.Frame, 0, len(records)-1),
	}

	for _, record := range records[1:] {
		if len(record) != 2+2*len(track) {
			continue
		}

		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}

		f := make(sim.Frame, len(track))
		ok := true
		for n := range track {
			x, errX := strconv.ParseFloat(record[2+2*n], 64)
			y, errY := strconv.ParseFloat(record[3+2*n], 64)
			if errX != nil || errY != nil {
				ok = false
				break
			}
			f[n] = pbd.Vec2{X: x, Y: y}
		}
		if !ok {
			continue
		}

		traj.Steps = append(traj.Steps, step)
		traj.Times = append(traj.Times, t)
		traj.Frames = append(traj.Frames, f)
	}

	return traj, nil
}

func parseHeader(h []string) ([]int, error) {
	if len(h) < 2 || h[0] != "step" || h[1] != "time" || len(h)%2 != 0 {
		return nil, fmt.Errorf("trajectory: bad header %v", h)
	}
	track := make([]int, 0, (len(h)-2)/2)
	for i := 2; i < len(h); i += 2 {
		if !strings.HasPrefix(h[i], "x") || h[i+1] != "y"+h[i][1:] {
			return nil, fmt.Errorf("trajectory: bad column pair %s,%s", h[i], h[i+1])
		}
		idx, err := strconv.Atoi(h[i][1:])
		if err != nil {
			return nil, fmt.Errorf("trajectory: bad column %s: %w", h[i], err)
		}
		track = append(track, idx)
	}
	return track, nil
}
