package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/linksim/internal/analysis"
	"github.com/san-kum/linksim/internal/automation"
	"github.com/san-kum/linksim/internal/config"
	"github.com/san-kum/linksim/internal/export"
	"github.com/san-kum/linksim/internal/metrics"
	"github.com/san-kum/linksim/internal/pbd"
	"github.com/san-kum/linksim/internal/reference"
	"github.com/san-kum/linksim/internal/sim"
	"github.com/san-kum/linksim/internal/storage"
	"github.com/san-kum/linksim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	steps      int
	iterations int
	gravity    float64
	damping    float64
	// Stability threshold on max stretch
	threshold float64
	// Output file; stdout when empty
	outFile  string
	jsonFile string
	particle int
	skip     int
	// Live view
	theme string
	watch bool
	// SVG export
	svgWidth  int
	svgHeight int
	svgScene  bool
	svgCanvas bool
	// Sweeps
	sweepMin   float64
	sweepMax   float64
	sweepCount int
	// Monte Carlo
	perturbation float64
	trials       int
	seed         int64
	coherent     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "linksim",
		Short:        "position-based particle and linkage simulator",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".linksim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	rootCmd.PersistentFlags().IntVar(&iterations, "iterations", pbd.DefaultIterations, "solver iterations per step")
	rootCmd.PersistentFlags().Float64Var(&gravity, "gravity", pbd.DefaultGravity, "gravity per step")
	rootCmd.PersistentFlags().Float64Var(&damping, "damping", pbd.DefaultDamping, "velocity damping")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and store the trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&threshold, "threshold", 1.0, "max stretch counted as a violation")
	runCmd.Flags().StringVar(&jsonFile, "json", "", "also write the run as JSON to this file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive editor",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addLiveFlags(rootCmd)
	addLiveFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot tracked particles of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&particle, "particle", -1, "particle to plot (default: first tracked)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "period analysis of a tracked particle",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&particle, "particle", -1, "particle to analyze (default: first tracked)")
	analyzeCmd.Flags().IntVar(&skip, "skip", 0, "leading frames to drop as transient")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a trajectory or the final scene to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file")
	exportSVGCmd.Flags().IntVar(&particle, "particle", -1, "particle to draw (default: first tracked)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().BoolVar(&svgScene, "scene", false, "replay the run's preset and draw the final scene over all paths")
	exportSVGCmd.Flags().BoolVar(&svgCanvas, "braille", false, "with --scene, draw the terminal canvas instead")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSCENE\tSTEPS\tITER\tFLOOR")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%t\n",
					name, p.Scene.Kind, p.Steps, p.Physics.Iterations, p.Physics.HasFloor())
			}
			return w.Flush()
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [iterations|damping|gravity]",
		Short: "sweep a physics parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 20, "last value")
	sweepCmd.Flags().IntVar(&sweepCount, "n", 10, "number of values")

	jitterCmd := &cobra.Command{
		Use:   "jitter",
		Short: "perturb free particles and check the structure recovers",
		Args:  cobra.NoArgs,
		RunE:  runJitter,
	}
	jitterCmd.Flags().Float64Var(&perturbation, "perturbation", 5, "max offset per axis")
	jitterCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	jitterCmd.Flags().Float64Var(&threshold, "threshold", 1.0, "final max stretch counted as recovered")
	jitterCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	jitterCmd.Flags().BoolVar(&coherent, "coherent", false, "use a smooth noise field instead of independent offsets")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare against a rigid-joint reference solver",
		Args:  cobra.NoArgs,
		RunE:  compareReference,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark every preset",
		Args:  cobra.NoArgs,
		RunE:  benchPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd,
		exportSVGCmd, presetsCmd, scenarioCmd, sweepCmd, jitterCmd, compareCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the config file when it changes")
}

// loadConfig resolves the world configuration: config file, else preset,
// else defaults, with explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("iterations") {
		cfg.Physics.Iterations = iterations
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("damping") {
		cfg.Physics.Damping = damping
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
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

	w, err := cfg.NewWorld()
	if err != nil {
		return err
	}

	track := cfg.TrackedParticles(w)
	r := sim.New(w)
	r.AddMetric(metrics.NewStretch())
	r.AddMetric(metrics.NewKineticEnergy())
	stability := metrics.NewStability(threshold)
	r.AddMetric(stability)
	for _, p := range track {
		r.AddMetric(metrics.NewTravel(p))
	}

	simCfg := sim.DefaultConfig()
	simCfg.Steps = cfg.Steps
	simCfg.Track = track

	fmt.Printf("running %s: %d particles, %d links...\n", cfg.Name, w.ParticleCount(), w.ConstraintCount())
	start := time.Now()

	result, err := r.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Name, cfg.Params(), result)
	if err != nil {
		return err
	}
	if err := saveConfig(st, runID, cfg); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printMetrics(result.Metrics)
	fmt.Printf("longest stable streak: %d steps\n", stability.Longest())
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	if jsonFile != "" {
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		if err := storage.ExportJSONFile(jsonFile, meta, storage.ResultTrajectory(result)); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonFile)
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg, theme)
	if err != nil {
		return err
	}

	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch needs --config")
		}
		watcher, err := viz.WatchFile(configFile)
		if err != nil {
			return err
		}
		defer watcher.Close()
		m = m.WithReloads(watcher.Events)
	}

	return viz.Run(m)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSTEPS\tITER\tMAX STRETCH\tTRACK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\t%v\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Physics.Iterations,
			run.Metrics["max_stretch"],
			run.Track,
		)
	}

	return w.Flush()
}

func saveConfig(st *storage.Store, runID string, cfg *config.Config) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	return st.SaveConfig(runID, data)
}

// storedConfig returns the config a run was simulated from.
func storedConfig(runID string) (*config.Config, error) {
	data, err := storage.New(dataDir).LoadConfig(runID)
	if err != nil {
		return nil, err
	}
	return config.Parse(data)
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(traj.Frames) == 0 || len(traj.Track) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, traj, nil
}

// series picks the requested particle, or the first tracked one.
func series(traj *storage.Trajectory) (int, []float64, []float64, error) {
	p := particle
	if p < 0 {
		p = traj.Track[0]
	}
	xs, ys, err := traj.Series(p)
	return p, xs, ys, err
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	p, xs, ys, err := series(traj)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(xs))

	for _, s := range []struct {
		data    []float64
		caption string
	}{
		{xs, fmt.Sprintf("x%d vs step", p)},
		{ys, fmt.Sprintf("y%d vs step", p)},
	} {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Printf("path of particle %d (y down):\n", p)
	fmt.Println(analysis.TrajectoryToASCII(xs, ys, 70, 20))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	p, xs, _, err := series(traj)
	if err != nil {
		return err
	}
	if skip < 0 {
		return fmt.Errorf("skip must not be negative, got %d", skip)
	}
	if len(xs)-skip < analysis.MinSamples {
		return fmt.Errorf("skip %d leaves fewer than %d samples (have %d)", skip, analysis.MinSamples, len(xs))
	}
	xs = xs[skip:]
	dt := meta.Physics.TimeStep

	fmt.Printf("period analysis: %s\n", meta.ID)
	fmt.Printf("particle: %d, samples: %d\n\n", p, len(xs))

	ps := analysis.PowerSpectrum(xs)
	plotData := ps[:len(ps)/4+1]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (x%d)", p)),
	)
	fmt.Println(graph)
	fmt.Println()

	if period, err := analysis.SpectralPeriod(xs, dt); err == nil {
		fmt.Printf("spectral period: %.3f\n", period)
	} else {
		fmt.Printf("spectral period: %v\n", err)
	}

	if period, err := analysis.DominantPeriod(xs, dt); err == nil {
		fmt.Printf("autocorrelation period: %.3f\n", period)
	} else {
		fmt.Printf("autocorrelation period: %v\n", err)
	}

	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	crossings := analysis.Crossings(xs, mean)
	if iv := analysis.MeanInterval(crossings); iv > 0 {
		fmt.Printf("mean crossing interval: %.3f (%d crossings)\n", iv*dt, len(crossings))
	}

	cfg, err := storedConfig(meta.ID)
	if err != nil {
		return nil
	}
	if period := cfg.Scene.DriverPeriod(); period > 0 {
		fmt.Printf("driver period: %.3f\n", period*dt)
	}
	if rate, err := analysis.Sensitivity(cfg.NewWorld, p, sensitivityEps, meta.Steps); err == nil {
		fmt.Printf("separation growth rate: %.4g per unit time\n", rate)
	} else {
		fmt.Printf("separation growth rate: %v\n", err)
	}
	return nil
}

// sensitivityEps is the nudge, in world units, given to the analysed particle.
const sensitivityEps = 1e-6

func output() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outFile != "" {
		return storage.ExportJSONFile(outFile, meta, traj)
	}
	return storage.ExportJSON(os.Stdout, meta, traj)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, &sim.Result{
		Track:  traj.Track,
		Frames: traj.Frames,
		Times:  traj.Times,
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var svg string
	if svgScene {
		svg, err = sceneSVG(meta, traj)
		if err != nil {
			return err
		}
	} else {
		p, xs, ys, err := series(traj)
		if err != nil {
			return err
		}
		points := make([]pbd.Vec2, len(xs))
		for i := range xs {
			points[i] = pbd.Vec2{X: xs[i], Y: ys[i]}
		}
		svg = export.TrajectoryToSVG(points, svgWidth, svgHeight, "#00ccff")
		if svg == "" {
			return fmt.Errorf("particle %d has fewer than two samples", p)
		}
	}

	out, closeOut, err := output()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, svg); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

// sceneSVG rebuilds the run's stored config, replays it to the final step
// and draws the scene over every tracked path.
func sceneSVG(meta *storage.RunMetadata, traj *storage.Trajectory) (string, error) {
	cfg, err := storedConfig(meta.ID)
	if errors.Is(err, storage.ErrNoConfig) {
		return "", fmt.Errorf("run %s cannot be replayed (scripted scenario or saved without a config): %w", meta.ID, err)
	}
	if err != nil {
		return "", err
	}

	w, err := cfg.NewWorld()
	if err != nil {
		return "", err
	}
	for i := 0; i < meta.Steps; i++ {
		w.Step()
	}

	if svgCanvas {
		c := viz.NewCanvas(svgWidth/8, svgHeight/16)
		b, ok := viz.SceneBounds(w)
		if !ok {
			return "", fmt.Errorf("empty scene")
		}
		viz.DrawWorld(c, w, viz.Fit(b, c.SubWidth(), c.SubHeight()), -1)
		return export.CanvasToSVG(c, 4), nil
	}

	paths := make([][]pbd.Vec2, 0, len(traj.Track))
	for _, idx := range traj.Track {
		xs, ys, err := traj.Series(idx)
		if err != nil {
			return "", err
		}
		path := make([]pbd.Vec2, len(xs))
		for i := range xs {
			path[i] = pbd.Vec2{X: xs[i], Y: ys[i]}
		}
		paths = append(paths, path)
	}
	svg := export.WorldToSVG(w, svgWidth, svgHeight, paths...)
	if svg == "" {
		return "", fmt.Errorf("run %s has an empty scene", meta.ID)
	}
	return svg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}

	result, cfg, err := automation.RunScenario(context.Background(), sc)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Name, cfg.Params(), result)
	if err != nil {
		return err
	}
	if !sc.Scripted() {
		if err := saveConfig(st, runID, cfg); err != nil {
			return err
		}
	}

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d, events: %d\n", result.StepsTaken, len(sc.Events))
	printMetrics(result.Metrics)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Param:    args[0],
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepCount,
	}

	fmt.Printf("sweeping %s over [%g, %g] on %s\n\n", sweep.Param, sweep.Min, sweep.Max, cfg.Name)
	results, err := automation.RunSweep(context.Background(), cfg, sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMAX STRETCH\tFINAL STRETCH\tMEAN KE\tSTABLE\n", strings.ToUpper(sweep.Param))
	final := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%g\t%.4f\t%.4f\t%.4f\t%t\n",
			r.ParamValue, r.MaxStretch, r.FinalStretch, r.MeanKinetic, r.Stable)
		final[i] = r.FinalStretch
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(final) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(final,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("final max stretch vs "+sweep.Param),
		))
	}
	return nil
}

func runJitter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(context.Background(), cfg, &automation.MonteCarloConfig{
		Perturbation: perturbation,
		NumTrials:    trials,
		Threshold:    threshold,
		Seed:         seed,
		Coherent:     coherent,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tINITIAL STRETCH\tFINAL STRETCH\tRECOVERED")
	recovered := 0
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%t\n", r.TrialID, r.InitStretch, r.FinalStretch, r.Stable)
		if r.Stable {
			recovered++
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d/%d trials recovered within %g\n", recovered, len(results), threshold)
	return nil
}

func compareReference(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	w, err := cfg.NewWorld()
	if err != nil {
		return err
	}

	d, err := reference.Compare(w, cfg.Steps)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d steps, %d solver iterations\n\n", cfg.Name, d.Steps, cfg.Physics.Iterations)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tWORLD\tREFERENCE")
	fmt.Fprintf(tw, "max stretch\t%.4f\t%.4f\n", d.Stretch, d.RefStretch)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nmax deviation: %.4f\n", d.Max)
	fmt.Printf("final rms deviation: %.4f\n", d.Final)
	return nil
}

func benchPresets(cmd *cobra.Command, args []string) error {
	fmt.Printf("benchmarking %d steps per preset\n\n", steps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPARTICLES\tLINKS\tITER\tTIME\tSTEPS/SEC")

	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		world, err := cfg.NewWorld()
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < steps; i++ {
			world.Step()
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%v\t%.0f\n",
			name,
			world.ParticleCount(),
			world.ConstraintCount(),
			cfg.Physics.Iterations,
			elapsed,
			float64(steps)/elapsed.Seconds(),
		)
	}

	return w.Flush()
}
