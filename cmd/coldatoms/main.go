package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gitrymt/cold-atoms/internal/analysis"
	"github.com/gitrymt/cold-atoms/internal/config"
	"github.com/gitrymt/cold-atoms/internal/coulomb"
	"github.com/gitrymt/cold-atoms/internal/forces"
	"github.com/gitrymt/cold-atoms/internal/metrics"
	"github.com/gitrymt/cold-atoms/internal/push"
	"github.com/gitrymt/cold-atoms/internal/sim"
	"github.com/gitrymt/cold-atoms/internal/storage"
	"github.com/gitrymt/cold-atoms/internal/viz"
)

const hbar = 1.054571817e-34

var (
	dataDir    string
	configFile string
	preset     string
	particles  int
	dt         float64
	steps      int
	seed       int64
	snapEvery  int
	workers    int
	tileWidth  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coldatoms",
		Short: "charged particle dynamics lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".coldatoms", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live visualization",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy traces of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the force kernel",
		RunE:  benchKernel,
	}
	benchCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = serial)")
	benchCmd.Flags().IntVar(&tileWidth, "tile-width", 0, "tile width (0 = default)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the kinetic energy trace",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, benchCmd, analyzeCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "default", "preset configuration")
	cmd.Flags().IntVar(&particles, "particles", 0, "number of particles")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep in seconds")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&snapEvery, "snapshot-every", 10, "steps between snapshots")
	cmd.Flags().IntVar(&workers, "workers", 0, "force kernel worker goroutines")
	cmd.Flags().IntVar(&tileWidth, "tile-width", 0, "force kernel tile width")
}

// loadConfig merges preset, config file and command line flags, in that
// order of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.GetPreset(preset)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("tile-width") {
		cfg.TileWidth = tileWidth
	}
	cfg.SnapshotEvery = snapEvery

	return cfg, cfg.Validate()
}

func buildForces(cfg *config.Config) []forces.Force {
	cf := forces.NewCoulomb(cfg.Delta)
	if cfg.CoulombK != 0 {
		cf.K = cfg.CoulombK
	}
	cf.Kernel.TileWidth = cfg.TileWidth
	cf.Kernel.Workers = cfg.Workers
	fs := []forces.Force{cf}

	if cfg.Cooling.Enabled {
		// One red-detuned beam along each direction of x.
		k := cfg.Cooling.HbarK / hbar
		for i, dir := range []float64{1, -1} {
			fs = append(fs, forces.NewRadiationPressure(
				cfg.Cooling.Gamma,
				[3]float64{dir * cfg.Cooling.HbarK, 0, 0},
				&forces.UniformIntensity{S0: cfg.Cooling.S0},
				&forces.DopplerDetuning{
					Delta0: cfg.Cooling.Detuning,
					K:      [3]float64{dir * k, 0, 0},
				},
				cfg.Seed+int64(i)+1,
			))
		}
	}
	return fs
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	k := cfg.CoulombK
	if k == 0 {
		k = forces.CoulombConstant
	}
	s := sim.New(buildForces(cfg)...)
	s.AddMetric(metrics.NewKineticEnergy())
	s.AddMetric(metrics.NewCoulombEnergy(cfg.Delta, k))
	s.AddMetric(metrics.NewTemperature())
	s.AddMetric(metrics.NewEnergyDrift(cfg.Delta, k))

	ens := cfg.GetInitEnsemble()

	fmt.Printf("running %d particles for %d steps...\n", cfg.Particles, cfg.Steps)
	start := time.Now()

	result, err := s.Run(context.Background(), ens, sim.Config{
		Dt:            cfg.Dt,
		Steps:         cfg.Steps,
		Seed:          cfg.Seed,
		SnapshotEvery: cfg.SnapshotEvery,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(preset, cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %g\n", name, val)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pusher := push.New(buildForces(cfg)...)
	m := viz.NewModel(cfg, pusher, cfg.GetInitEnsemble())

	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tPARTICLES\tSTEPS\tDT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%gs\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Steps,
			run.Dt,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	_, kinetic, coulombE, err := st.LoadEnergies(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n\n", meta.Particles)

	fmt.Println(viz.EnergyPlot(kinetic, "kinetic energy"))
	fmt.Println()
	fmt.Println(viz.EnergyPlot(coulombE, "coulomb energy"))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	traj, err := st.OpenTrajFor(args[0])
	if err != nil {
		// Metadata-only runs still export their header.
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}
	defer traj.Close()

	result := &sim.Result{
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}
	for i := 0; i < traj.NumFrames(); i++ {
		t, x, v, err := traj.Frame(i)
		if err != nil {
			return err
		}
		result.Times = append(result.Times, t)
		result.Snapshots = append(result.Snapshots, sim.Snapshot{Time: t, X: x, V: v})
	}

	return storage.ExportJSONStdout(meta.Preset, meta.Dt, meta.Particles, result)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	times, kinetic, _, err := st.LoadEnergies(args[0])
	if err != nil {
		return err
	}
	if len(times) < 4 {
		return fmt.Errorf("not enough samples to analyze")
	}

	sampleDt := times[1] - times[0]
	ps := analysis.PowerSpectrum(kinetic)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d, sample interval: %g s\n\n", len(kinetic), sampleDt)
	fmt.Println(viz.EnergyPlot(ps, "kinetic energy power spectrum"))

	freq := analysis.DominantFrequency(kinetic, sampleDt)
	fmt.Printf("\ndominant frequency: %.4g hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.4g s\n", 1.0/freq)
	}
	return nil
}

func benchKernel(cmd *cobra.Command, args []string) error {
	kernel := &coulomb.Kernel{TileWidth: tileWidth, Workers: workers}
	rng := rand.New(rand.NewSource(1))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tREPS\tTIME/STEP\tPAIRS/SEC")

	for _, n := range []int{64, 256, 1024, 4096} {
		x := make([]float64, 3*n)
		for i := range x {
			x[i] = rng.Float64()
		}
		f := make([]float64, 3*n)

		reps := 1 << 22 / (n * n)
		if reps < 1 {
			reps = 1
		}
		kernel.Accumulate(x, 1.0, 1.0, 1e-6, 1.0, f) // warm up scratch
		start := time.Now()
		for r := 0; r < reps; r++ {
			kernel.Accumulate(x, 1.0, 1.0, 1e-6, 1.0, f)
		}
		elapsed := time.Since(start)

		perStep := elapsed / time.Duration(reps)
		pairs := float64(n) * float64(n-1) / perStep.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%v\t%.3g\n", n, reps, perStep, pairs)
	}
	return w.Flush()
}
