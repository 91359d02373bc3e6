// Package storage persists runs: metadata and scalar metrics as JSON,
// energy traces as CSV and full trajectories in a binary frame format.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gitrymt/cold-atoms/internal/config"
	"github.com/gitrymt/cold-atoms/internal/ensemble"
	"github.com/gitrymt/cold-atoms/internal/forces"
	"github.com/gitrymt/cold-atoms/internal/metrics"
	"github.com/gitrymt/cold-atoms/internal/sim"
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
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Particles int                `json:"particles"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory containing metadata.json, the trajectory
// frames and a per-snapshot energies.csv, and returns the run ID.
func (s *Store) Save(preset string, cfg *config.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", preset, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Steps:     result.StepsTaken,
		Particles: cfg.Particles,
		Metrics:   result.Metrics,
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

	if err := s.saveTraj(runDir, cfg.Particles, result); err != nil {
		return "", err
	}
	if err := s.saveEnergies(runDir, cfg, result); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) saveTraj(runDir string, numPtcls int, result *sim.Result) error {
	w, err := CreateTraj(filepath.Join(runDir, "traj.bin"), numPtcls)
	if err != nil {
		return err
	}
	for _, snap := range result.Snapshots {
		if err := w.WriteFrame(snap.Time, snap.X, snap.V); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

func (s *Store) saveEnergies(runDir string, cfg *config.Config, result *sim.Result) error {
	file, err := os.Create(filepath.Join(runDir, "energies.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"time", "kinetic", "coulomb"}); err != nil {
		return err
	}
	for _, snap := range result.Snapshots {
		ke, pe := snapshotEnergies(cfg, snap)
		row := []string{
			strconv.FormatFloat(snap.Time, 'g', -1, 64),
			strconv.FormatFloat(ke, 'g', -1, 64),
			strconv.FormatFloat(pe, 'g', -1, 64),
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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
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

// LoadEnergies reads back a run's energies.csv.
func (s *Store) LoadEnergies(runID string) (times, kinetic, coulomb []float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "energies.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			continue
		}
		t, err0 := strconv.ParseFloat(record[0], 64)
		ke, err1 := strconv.ParseFloat(record[1], 64)
		pe, err2 := strconv.ParseFloat(record[2], 64)
		if err0 != nil || err1 != nil || err2 != nil {
			continue
		}
		times = append(times, t)
		kinetic = append(kinetic, ke)
		coulomb = append(coulomb, pe)
	}
	return times, kinetic, coulomb, nil
}

func snapshotEnergies(cfg *config.Config, snap sim.Snapshot) (ke, pe float64) {
	ens := ensemble.New(len(snap.X) / 3)
	copy(ens.X, snap.X)
	copy(ens.V, snap.V)
	ens.Properties["mass"] = cfg.Mass
	ens.Properties["charge"] = cfg.Charge

	k := cfg.CoulombK
	if k == 0 {
		k = forces.CoulombConstant
	}
	kin := metrics.NewKineticEnergy()
	kin.Observe(ens, snap.Time)
	pot := metrics.NewCoulombEnergy(cfg.Delta, k)
	pot.Observe(ens, snap.Time)
	return kin.Value(), pot.Value()
}

// OpenTrajFor maps the trajectory of a stored run.
func (s *Store) OpenTrajFor(runID string) (*TrajReader, error) {
	return OpenTraj(filepath.Join(s.baseDir, runID, "traj.bin"))
}
