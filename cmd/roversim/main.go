package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/roversim/internal/analysis"
	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/drive"
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/metrics"
	"github.com/san-kum/roversim/internal/sim"
	"github.com/san-kum/roversim/internal/storage"
	"github.com/san-kum/roversim/internal/tui"
	"github.com/san-kum/roversim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	dt         float64
	maxTime    float64
	volts      float64
	riseTime   float64
	driveKind  string
	initU      float64
	initPsi    float64
	configFile string
	preset     string
	channel    string
	plotWidth  int
	plotHeight int
	frameRate  int
	sweepMin   float64
	sweepMax   float64
	benchSteps int
)

var log zerolog.Logger

func main() {
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	rootCmd := &cobra.Command{
		Use:   "roversim",
		Short: "open-loop 4WD rover dynamics simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".roversim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the history",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal telemetry",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded channel",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&channel, "channel", "u", "channel name (see history.csv header)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 14, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the run history CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [count]",
		Short: "run a concurrent drive-voltage sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepVoltage,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 2.0, "lowest drive voltage")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 14.0, "highest drive voltage")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded channel",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&channel, "channel", "u", "channel name")
	analyzeCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	analyzeCmd.Flags().IntVar(&plotHeight, "height", 14, "plot height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure driver stepping throughput",
		RunE:  benchDriver,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 1_000_000, "number of steps")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, sweepCmd, analyzeCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&maxTime, "time", config.DefaultMaxTime, "simulated duration")
	cmd.Flags().Float64Var(&volts, "volts", config.DefaultVolts, "drive voltage")
	cmd.Flags().Float64Var(&riseTime, "rise", 0, "ramp rise time (drive=ramp)")
	cmd.Flags().StringVar(&driveKind, "drive", "constant", "drive profile: constant, ramp, schedule")
	cmd.Flags().Float64Var(&initU, "u", 0, "initial surge velocity")
	cmd.Flags().Float64Var(&initPsi, "psi", 0, "initial yaw angle")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig merges preset, config file and CLI flags, flags winning.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.MaxTime = maxTime
	}
	if cmd.Flags().Changed("volts") {
		cfg.Volts = volts
	}
	if cmd.Flags().Changed("rise") {
		cfg.RiseTime = riseTime
	}
	if cmd.Flags().Changed("drive") {
		cfg.Drive = driveKind
	}
	if cmd.Flags().Changed("u") {
		cfg.InitState.U = initU
	}
	if cmd.Flags().Changed("psi") {
		cfg.InitState.Psi = initPsi
	}
	return cfg, nil
}

func buildSimulator(cfg *config.Config) (*sim.Simulator, sim.Config, error) {
	motor, rover, err := cfg.BuildModels()
	if err != nil {
		return nil, sim.Config{}, err
	}
	voltage, err := cfg.BuildVoltageSource()
	if err != nil {
		return nil, sim.Config{}, err
	}

	s := sim.New(motor, rover, voltage, cfg.BuildDisturbanceSource())

	settleWindow := int(1.0 / cfg.Dt)
	if settleWindow < 1 {
		settleWindow = 1
	}
	s.AddMetric(metrics.NewStability(1e6))
	s.AddMetric(metrics.NewDriveEffort())
	s.AddMetric(metrics.NewSurgeSettle(settleWindow))

	runCfg := sim.Config{
		Dt:         cfg.Dt,
		MaxTime:    cfg.MaxTime,
		InitState:  cfg.GetInitState(),
		InitWheels: cfg.GetInitWheels(),
	}
	return s, runCfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, runCfg, err := buildSimulator(cfg)
	if err != nil {
		return err
	}
	progressEvery := int(1.0 / runCfg.Dt)
	if progressEvery < 1 {
		progressEvery = 1
	}
	s.AddObserver(sim.NewLogObserver(log, progressEvery))

	log.Debug().Float64("dt", runCfg.Dt).Float64("maxtime", runCfg.MaxTime).
		Str("drive", cfg.Drive).Msg("starting run")
	start := time.Now()

	history, err := s.Run(context.Background(), runCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Drive, runCfg.Dt, runCfg.MaxTime, history)
	if err != nil {
		return err
	}
	log.Debug().Str("run", runID).Dur("elapsed", elapsed).Msg("run saved")

	fmt.Println(viz.Summary(history, runCfg.Dt, runCfg.MaxTime))
	fmt.Printf("run id: %s (%v)\n", runID, elapsed)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	motor, rover, err := cfg.BuildModels()
	if err != nil {
		return err
	}
	voltage, err := cfg.BuildVoltageSource()
	if err != nil {
		return err
	}
	runCfg := sim.Config{
		Dt:         cfg.Dt,
		MaxTime:    cfg.MaxTime,
		InitState:  cfg.GetInitState(),
		InitWheels: cfg.GetInitWheels(),
	}
	return tui.Run(tui.NewModel(motor, rover, voltage, cfg.BuildDisturbanceSource(), runCfg, frameRate))
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDRIVE\tDT\tTIME\tSTEPS\tWHEN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%d\t%s\n",
			run.ID, run.Drive, run.Dt, run.MaxTime, run.Steps,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	cols, err := st.LoadColumns(args[0])
	if err != nil {
		return err
	}
	series, ok := cols[channel]
	if !ok {
		return fmt.Errorf("unknown channel: %s", channel)
	}
	fmt.Println(viz.Plot(series, fmt.Sprintf("%s (%s)", channel, args[0]), plotWidth, plotHeight))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.LoadMetadata(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	f, err := os.Open(filepath.Join(dataDir, args[0], "history.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(os.Stdout, f)
	return err
}

func sweepVoltage(cmd *cobra.Command, args []string) error {
	var count int
	if _, err := fmt.Sscanf(args[0], "%d", &count); err != nil || count < 2 {
		return fmt.Errorf("count must be an integer >= 2")
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	motor, rover, err := cfg.BuildModels()
	if err != nil {
		return err
	}
	base, err := cfg.BuildVoltageSource()
	if err != nil {
		return err
	}
	if cfg.Volts <= 0 {
		return fmt.Errorf("sweep needs a positive base voltage to scale, got %g", cfg.Volts)
	}

	// Each run scales the configured profile so ramps and schedules sweep
	// the same way constant drives do. The base source is read-only and
	// safe to share across runs.
	sources := make([]sim.VoltageSource, count)
	levels := make([]float64, count)
	for i := 0; i < count; i++ {
		levels[i] = sweepMin + (sweepMax-sweepMin)*float64(i)/float64(count-1)
		sources[i] = &drive.Scaled{Source: base, Factor: levels[i] / cfg.Volts}
	}

	ensemble := sim.NewEnsemble(motor, rover, cfg.BuildDisturbanceSource(), sources)
	runCfg := sim.Config{Dt: cfg.Dt, MaxTime: cfg.MaxTime}

	log.Debug().Int("runs", count).Msg("starting sweep")
	histories, err := ensemble.Run(context.Background(), runCfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VOLTS\tFINAL U\tFINAL WHEEL SPEED")
	for i, h := range histories {
		final := h.Final()
		fmt.Fprintf(w, "%.2f\t%.4f\t%.4f\n", levels[i], final.State[dynamo.SurgeVel], final.Speed[0])
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.LoadMetadata(args[0])
	if err != nil {
		return err
	}
	cols, err := st.LoadColumns(args[0])
	if err != nil {
		return err
	}
	series, ok := cols[channel]
	if !ok {
		return fmt.Errorf("unknown channel: %s", channel)
	}

	freqs, power := analysis.PowerSpectrum(series, meta.Dt)
	if len(power) == 0 {
		return fmt.Errorf("channel too short to analyze")
	}
	dom := analysis.DominantFrequency(series, meta.Dt)

	fmt.Printf("channel %s: %d samples, dominant frequency %.4f Hz\n", channel, len(series), dom)
	fmt.Println(viz.Plot(power, fmt.Sprintf("spectrum of %s (bins up to %.2f Hz)", channel, freqs[len(freqs)-1]), plotWidth, plotHeight))
	return nil
}

func benchDriver(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Dt = 0.001
	cfg.MaxTime = float64(benchSteps) * cfg.Dt

	s, runCfg, err := buildSimulator(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	history, err := s.Run(context.Background(), runCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("%d steps in %v (%.0f steps/s)\n",
		history.Len()-1, elapsed, float64(history.Len()-1)/elapsed.Seconds())
	return nil
}
