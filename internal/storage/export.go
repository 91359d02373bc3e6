package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/gitrymt/cold-atoms/internal/sim"
)

type ExportData struct {
	Preset     string             `json:"preset"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Particles  int                `json:"particles"`
	Times      []float64          `json:"times"`
	Positions  [][]float64        `json:"positions"`
	Velocities [][]float64        `json:"velocities"`
	Metrics    map[string]float64 `json:"metrics"`
}

func ExportJSON(path string, preset string, dt float64, particles int, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportJSON(file, preset, dt, particles, result)
}

func ExportJSONStdout(preset string, dt float64, particles int, result *sim.Result) error {
	return exportJSON(os.Stdout, preset, dt, particles, result)
}

func exportJSON(w io.Writer, preset string, dt float64, particles int, result *sim.Result) error {
	data := ExportData{
		Preset:     preset,
		Dt:         dt,
		Steps:      result.StepsTaken,
		Particles:  particles,
		Times:      result.Times,
		Positions:  make([][]float64, len(result.Snapshots)),
		Velocities: make([][]float64, len(result.Snapshots)),
		Metrics:    result.Metrics,
	}
	for i, snap := range result.Snapshots {
		data.Positions[i] = snap.X
		data.Velocities[i] = snap.V
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
