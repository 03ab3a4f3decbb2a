package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/linksim/internal/storage"
	"github.com/spf13/cobra"
)

// useDataDir points the commands at a fresh run store and resets the flags
// they read.
func useDataDir(t *testing.T) {
	t.Helper()
	dataDir = t.TempDir()
	configFile, preset, jsonFile = "", "", ""
	particle, skip = -1, 0
	svgWidth, svgHeight, svgCanvas = 800, 600, false
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// onlyRun returns the metadata and trajectory of the single stored run.
func onlyRun(t *testing.T) (*storage.RunMetadata, *storage.Trajectory) {
	t.Helper()
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	traj, err := st.LoadTrajectory(runs[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	return &runs[0], traj
}

func TestSceneReplaysEmptyDefault(t *testing.T) {
	useDataDir(t)
	if err := runSimulation(&cobra.Command{}, nil); err != nil {
		t.Fatal(err)
	}

	meta, traj := onlyRun(t)
	if meta.Name != "editor" {
		t.Fatalf("expected default name editor, got %q", meta.Name)
	}
	_, err := sceneSVG(meta, traj)
	if err == nil || !strings.Contains(err.Error(), "empty scene") {
		t.Errorf("expected the run's own empty scene, got %v", err)
	}
}

func TestSceneReplaysStoredConfig(t *testing.T) {
	useDataDir(t)
	configFile = writeFile(t, "rope.yaml", `
name: rope
steps: 10
scene:
  kind: pendulum
  origin: {x: 10, y: 20}
  radius: 40
`)
	if err := runSimulation(&cobra.Command{}, nil); err != nil {
		t.Fatal(err)
	}

	meta, traj := onlyRun(t)
	svg, err := sceneSVG(meta, traj)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected the stored 2-particle scene, drew %d particles", n)
	}
}

func TestSceneRefusesScriptedScenario(t *testing.T) {
	useDataDir(t)
	path := writeFile(t, "pin.yaml", `
name: pin
preset: pendulum
steps: 10
events:
  - {step: 2, action: toggle_fixed, index: 1}
`)
	if err := runScenario(&cobra.Command{}, []string{path}); err != nil {
		t.Fatal(err)
	}

	meta, traj := onlyRun(t)
	if _, err := sceneSVG(meta, traj); !errors.Is(err, storage.ErrNoConfig) {
		t.Errorf("expected ErrNoConfig, got %v", err)
	}
}

func TestAnalyzeSkip(t *testing.T) {
	useDataDir(t)
	preset = "pendulum"
	if err := runSimulation(&cobra.Command{}, nil); err != nil {
		t.Fatal(err)
	}
	meta, _ := onlyRun(t)

	tests := []struct {
		name    string
		skip    int
		wantErr string
	}{
		{"negative", -1, "must not be negative"},
		{"too many", meta.Steps, "fewer than"},
		{"transient dropped", 100, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip = tt.skip
			err := analyzeRun(&cobra.Command{}, []string{meta.ID})
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
