package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	verbose     bool
	dt          float64
	totalTime   float64
	sampleEvery int
	workers     int
	validate    bool
	preset      string
	configFile  string
	frameRate   int
	printFinal  bool
	benchSteps  int
	svgSize     int
	svgBraille  bool
	finalYAML   bool
)

// main registers the gravsim commands and exits with status 1 if the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "direct N-body gravity simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [universe-file]",
		Short: "run simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "record a snapshot every n steps")
	runCmd.Flags().BoolVar(&printFinal, "print", true, "print the final universe to stdout")

	liveCmd := &cobra.Command{
		Use:   "live [universe-file]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	benchCmd := &cobra.Command{
		Use:   "bench [universe-file]",
		Short: "time sequential and parallel steppers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchSteppers,
	}
	addRunFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchSteps, "steps", 1000, "steps per stepper")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and center of mass of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	finalCmd := &cobra.Command{
		Use:   "final [run_id]",
		Short: "print the final universe of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := storage.New(dataDir).LoadFinal(args[0])
			if err != nil {
				return err
			}
			if finalYAML {
				data, err := universe.MarshalYAML(u)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(data)
				return err
			}
			return universe.Write(os.Stdout, u)
		},
	}
	finalCmd.Flags().BoolVar(&finalYAML, "yaml", false, "print as a yaml universe")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "write the sampled orbits of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  orbitsSVG,
	}
	svgCmd.Flags().IntVar(&svgSize, "size", 800, "image side in pixels")
	svgCmd.Flags().BoolVar(&svgBraille, "braille", false, "draw the last sample as the terminal canvas would")

	initCmd := &cobra.Command{
		Use:   "init [config-file]",
		Short: "write a config file with default values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			cfg.Preset = "planets"
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in universes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tRADIUS\tDT\tTIME")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				u, err := universe.Preset(cfg.Preset)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%.2e\t%g\t%.4e\n", name, len(u.Bodies), u.Radius, cfg.Dt, cfg.TotalTime)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, listCmd, plotCmd, finalCmd, exportJSONCmd, svgCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().Float64Var(&totalTime, "time", config.DefaultTotalTime, "simulated seconds")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "force workers (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&validate, "validate", false, "reject invalid bodies and stop on NaN/Inf")
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in universe")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, u, source, err := resolve(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	drift := metrics.NewEnergyDrift()
	s := sim.New(sim.NewStepper(cfg.Workers))
	s.SetLogger(slog.Default().With("source", source))
	s.AddMetric(drift)
	s.AddMetric(metrics.NewMomentumDrift())
	s.AddMetric(metrics.NewContainment(u.Radius))
	if verbose {
		s.AddObserver(progress{every: 10 * max(cfg.SampleEvery, 1)})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("running simulation", "source", source, "bodies", len(u.Bodies), "dt", cfg.Dt, "time", cfg.TotalTime, "workers", cfg.Workers)
	start := time.Now()

	result, err := s.Run(ctx, u.Bodies, cfg.SimConfig())
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		slog.Warn("simulation interrupted", "err", err, "steps", result.StepsTaken)
	}

	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Source:    source,
		Bodies:    len(u.Bodies),
		Dt:        cfg.Dt,
		TotalTime: cfg.TotalTime,
		Workers:   cfg.Workers,
	}
	runID, saveErr := st.Save(meta, u.Radius, result)
	if saveErr != nil {
		return saveErr
	}

	slog.Info("simulation finished", "run", runID, "steps", result.StepsTaken, "elapsed", elapsed)

	if printFinal {
		if err := universe.Write(os.Stdout, &universe.Universe{Radius: u.Radius, Bodies: result.Final}); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "run id: %s\n", runID)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %v\n", e)
	}
	summary := metrics.Summarize(drift.History())
	fmt.Fprintf(os.Stderr, "energy: mean %.6e std %.3e\n", summary.Mean, summary.StdDev)
	for name, val := range result.Metrics {
		fmt.Fprintf(os.Stderr, "  %s: %.6e\n", name, val)
	}

	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, u, source, err := resolve(cmd, args)
	if err != nil {
		return err
	}
	m := viz.NewModel(source, u.Bodies, u.Radius, sim.NewStepper(cfg.Workers), cfg.SimConfig(), frameRate)
	return viz.Run(m)
}

func benchSteppers(cmd *cobra.Command, args []string) error {
	cfg, u, source, err := resolve(cmd, args)
	if err != nil {
		return err
	}

	steppers := []struct {
		name    string
		stepper sim.Stepper
	}{
		{"sequential", sim.NewSequential()},
		{fmt.Sprintf("parallel(%d)", sim.NewParallel(cfg.Workers).Workers()), sim.NewParallel(cfg.Workers)},
	}

	fmt.Printf("%s: %d bodies, %d steps\n\n", source, len(u.Bodies), benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPPER\tTOTAL\tPER STEP")
	for _, s := range steppers {
		bodies := sim.Snapshot(u.Bodies)
		start := time.Now()
		for i := 0; i < benchSteps; i++ {
			s.stepper.Step(bodies, cfg.Dt)
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%s\t%v\t%v\n", s.name, elapsed, elapsed/time.Duration(max(benchSteps, 1)))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tBODIES\tDT\tSTEPS\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%d\t%.3e\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Dt,
			run.Steps,
			run.Metrics["energy_drift"],
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
	records, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	samples := group(records)
	if len(samples) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	energy := make([]float64, len(samples))
	comX := make([]float64, len(samples))
	for i, bodies := range samples {
		energy[i] = metrics.TotalEnergy(bodies)
		comX[i], _ = metrics.CenterOfMass(bodies)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("source: %s\n", meta.Source)
	fmt.Printf("samples: %d\n\n", len(samples))

	fmt.Println(asciigraph.Plot(metrics.RelativeDrift(energy),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("relative energy drift"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(comX,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("center of mass x"),
	))

	last := samples[len(samples)-1]
	fmt.Println()
	fmt.Print(viz.Render(last, meta.Radius, 60, 20))
	return nil
}

func orbitsSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	samples := group(records)
	var svg string
	if svgBraille && len(samples) > 0 {
		frame := viz.Frame{Canvas: viz.NewCanvas(svgSize/8, svgSize/16), Radius: meta.Radius}
		frame.Plot(samples[len(samples)-1])
		svg = export.CanvasToSVG(frame.Canvas, 4)
	} else {
		svg = export.Orbits(samples, meta.Radius, svgSize)
	}
	if svg == "" {
		return fmt.Errorf("nothing to draw for run %s", meta.ID)
	}
	_, err = fmt.Fprintln(os.Stdout, svg)
	return err
}

// progress logs the simulated time every n steps.
type progress struct {
	every int
}

func (p progress) OnStep(bodies []*body.Body, step int, t float64) {
	if step%p.every == 0 {
		slog.Debug("progress", "step", step, "t", t, "energy", metrics.TotalEnergy(bodies))
	}
}
