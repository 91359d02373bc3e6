package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gitrymt/cold-atoms/internal/config"
	"github.com/gitrymt/cold-atoms/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Times:      []float64{0, 0.1, 0.2},
		StepsTaken: 2,
		Metrics:    map[string]float64{"temperature": 1e-3},
		Snapshots: []sim.Snapshot{
			{Time: 0, X: []float64{0, 0, 0, 1, 0, 0}, V: []float64{0, 0, 0, 0, 0, 0}},
			{Time: 0.1, X: []float64{0, 0, 0, 1.1, 0, 0}, V: []float64{0, 0, 0, 1, 0, 0}},
			{Time: 0.2, X: []float64{0, 0, 0, 1.2, 0, 0}, V: []float64{0, 0, 0, 1, 0, 0}},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Particles = 2
	cfg.Seed = 9

	runID, err := s.Save("crystal", cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := s.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID || meta.Preset != "crystal" || meta.Seed != 9 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Metrics["temperature"] != 1e-3 {
		t.Errorf("metrics not persisted: %+v", meta.Metrics)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("list returned %+v", runs)
	}
}

func TestListEmptyStore(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestTrajRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	cfg := config.DefaultConfig()
	cfg.Particles = 2
	result := testResult()

	runID, err := s.Save("default", cfg, result)
	if err != nil {
		t.Fatal(err)
	}

	r, err := s.OpenTrajFor(runID)
	if err != nil {
		t.Fatalf("open traj failed: %v", err)
	}
	defer r.Close()

	if r.NumPtcls() != 2 {
		t.Errorf("particles = %d, want 2", r.NumPtcls())
	}
	if r.NumFrames() != len(result.Snapshots) {
		t.Fatalf("frames = %d, want %d", r.NumFrames(), len(result.Snapshots))
	}

	for i, snap := range result.Snapshots {
		time, x, v, err := r.Frame(i)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if time != snap.Time {
			t.Errorf("frame %d time = %g, want %g", i, time, snap.Time)
		}
		if diff := cmp.Diff(snap.X, x); diff != "" {
			t.Errorf("frame %d positions:\n%s", i, diff)
		}
		if diff := cmp.Diff(snap.V, v); diff != "" {
			t.Errorf("frame %d velocities:\n%s", i, diff)
		}
	}

	if _, _, _, err := r.Frame(r.NumFrames()); !errors.Is(err, ErrFrameRange) {
		t.Errorf("expected ErrFrameRange, got %v", err)
	}
}

func TestTrajWriterRejectsWrongShape(t *testing.T) {
	w, err := CreateTraj(filepath.Join(t.TempDir(), "traj.bin"), 2)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	err = w.WriteFrame(0, []float64{1, 2, 3}, []float64{1, 2, 3})
	if !errors.Is(err, ErrTrajFormat) {
		t.Errorf("expected ErrTrajFormat, got %v", err)
	}
}

func TestOpenTrajRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traj.bin")
	if err := os.WriteFile(path, []byte("not a trajectory"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenTraj(path); !errors.Is(err, ErrTrajFormat) {
		t.Errorf("expected ErrTrajFormat, got %v", err)
	}
}

func TestEnergiesCSVWritten(t *testing.T) {
	s := New(t.TempDir())
	cfg := config.DefaultConfig()
	cfg.Particles = 2

	runID, err := s.Save("default", cfg, testResult())
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "energies.csv"))
	if err != nil {
		t.Fatalf("energies.csv not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("energies.csv is empty")
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	result := testResult()

	if err := ExportJSON(path, "cloud", 0.1, 2, result); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var exported ExportData
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if exported.Preset != "cloud" || exported.Steps != 2 {
		t.Errorf("exported header mismatch: %+v", exported)
	}
	if diff := cmp.Diff(result.Times, exported.Times); diff != "" {
		t.Errorf("times mismatch:\n%s", diff)
	}
}
