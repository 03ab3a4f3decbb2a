package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/linksim/internal/sim"
)

type ExportData struct {
	Name    string             `json:"name"`
	Physics PhysicsMeta        `json:"physics"`
	Steps   int                `json:"steps"`
	Track   []int              `json:"track"`
	Times   []float64          `json:"times"`
	Frames  [][][2]float64     `json:"frames"`
	Metrics map[string]float64 `json:"metrics"`
}

func exportData(meta *RunMetadata, traj *Trajectory) ExportData {
	data := ExportData{
		Name:    meta.Name,
		Physics: meta.Physics,
		Steps:   meta.Steps,
		Track:   traj.Track,
		Times:   traj.Times,
		Frames:  make([][][2]float64, len(traj.Frames)),
		Metrics: meta.Metrics,
	}
	for i, f := range traj.Frames {
		data.Frames[i] = make([][2]float64, len(f))
		for n, p := range f {
			data.Frames[i][n] = [2]float64{p.X, p.Y}
		}
	}
	return data
}

// ExportJSON writes a stored run as a single JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, traj *Trajectory) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(meta, traj))
}

func ExportJSONFile(path string, meta *RunMetadata, traj *Trajectory) error {
	return writeFile(path, func(w io.Writer) error {
		return ExportJSON(w, meta, traj)
	})
}

// ResultTrajectory views an in-memory result as a trajectory.
func ResultTrajectory(result *sim.Result) *Trajectory {
	steps := make([]int, len(result.Frames))
	for i := range steps {
		steps[i] = i
	}
	return &Trajectory{
		Track:  result.Track,
		Steps:  steps,
		Times:  result.Times,
		Frames: result.Frames,
	}
}
