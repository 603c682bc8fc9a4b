package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/compute"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	configFile string
	preset     string

	gravityConstant   float64
	tickSpeed         int
	scaleFactor       float64
	workers           int
	parallelThreshold int
	zeroDistance      string
	validateMass      bool
	frameRate         int
	theme             string

	logLevel string
	logFile  string

	// run
	ticks       int
	sampleEvery int
	trackBody   int
	svgPath     string
	scriptPath  string
	// bench
	benchBodies []int
	benchTicks  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "orbitsim",
		Short:        "interactive gravitational n-body simulator",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named scenario")
	pf.Float64Var(&gravityConstant, "g", config.DefaultGravityConstant, "gravitational constant")
	pf.IntVar(&tickSpeed, "tick", config.DefaultTickSpeed, "tick length in milliseconds")
	pf.Float64Var(&scaleFactor, "scale", config.DefaultScaleFactor, "zoom exponent: one dot is 10^scale units")
	pf.IntVar(&workers, "workers", 0, "force workers (0 = one per CPU)")
	pf.IntVar(&parallelThreshold, "parallel-threshold", config.DefaultParallelThreshold, "body count at which ticks go parallel (0 = never)")
	pf.StringVar(&zeroDistance, "zero-distance", "propagate", "coincident bodies: propagate or skip")
	pf.BoolVar(&validateMass, "validate-mass", false, "reject bodies without positive mass")
	pf.IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file in live mode")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with the interactive view (default)",
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "step the simulation headless and report conservation drift",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 10000, "number of ticks")
	runCmd.Flags().IntVar(&sampleEvery, "every", 10, "sample metrics every n ticks")
	runCmd.Flags().IntVar(&trackBody, "track", 1, "body whose orbit around the focus is plotted")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "also write the tracked orbit as svg")
	runCmd.Flags().StringVar(&scriptPath, "script", "", "yaml script of bodies to add while running")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure ticks per second by body and worker count",
		RunE:  runBench,
	}
	benchCmd.Flags().IntSliceVar(&benchBodies, "bodies", []int{10, 100, 1000}, "body counts")
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 100, "ticks per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tBODIES\tSCALE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.1f\n", name, len(p.Bodies), p.ScaleFactor)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "orbitsim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, benchCmd, presetsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, the preset, the config file and finally the
// flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("g") {
		cfg.GravityConstant = gravityConstant
	}
	if flags.Changed("tick") {
		cfg.TickSpeed = tickSpeed
	}
	if flags.Changed("scale") {
		cfg.ScaleFactor = scaleFactor
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("parallel-threshold") {
		cfg.ParallelThreshold = parallelThreshold
	}
	if flags.Changed("zero-distance") {
		cfg.ZeroDistance = zeroDistance
	}
	if flags.Changed("validate-mass") {
		cfg.ValidateMass = validateMass
	}
	if flags.Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "orbitsim",
		ReportTimestamp: true,
		Level:           level,
	}), nil
}

func newRegistry(cfg *config.Config) (*sim.Registry, *integrators.Gravity, error) {
	g, err := cfg.Gravity()
	if err != nil {
		return nil, nil, err
	}
	reg := sim.NewRegistry(g, cfg.ValidateMass)
	if err := reg.Reset(cfg.InitialBodies()); err != nil {
		return nil, nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return reg, g, nil
}

func newRecorder(cfg *config.Config) *metrics.Recorder {
	return metrics.NewRecorder(cfg.GravityConstant, metrics.DefaultHistory,
		metrics.NewEnergyDrift(cfg.GravityConstant),
		metrics.NewMomentumDrift(),
	)
}

func title() string {
	switch {
	case configFile != "":
		return strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	case preset != "":
		return preset
	default:
		return "orbitsim"
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the alt screen owns stdout, so logs only go to a file
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := newLogger(logOut)
	if err != nil {
		return err
	}

	reg, _, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	recorder := newRecorder(cfg)
	driver := sim.NewDriver(reg, cfg.TickSpeed, logger)
	driver.AddObserver(recorder)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	model := viz.NewModel(driver, recorder, viz.Options{
		Title:     title(),
		Scale:     cfg.ScaleFactor,
		FrameRate: cfg.FrameRate,
		Theme:     cfg.Theme,
		Scenario:  cfg.InitialBodies(),
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()

	cancel()
	if derr := <-done; derr != nil && !errors.Is(derr, context.Canceled) {
		logger.Error("driver failed", "err", derr)
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	if ticks < 1 {
		return fmt.Errorf("--ticks must be positive, got %d", ticks)
	}
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	reg, g, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	var player *automation.Player
	if scriptPath != "" {
		script, err := automation.LoadScript(scriptPath)
		if err != nil {
			return fmt.Errorf("failed to load script: %w", err)
		}
		player = automation.NewPlayer(script)
		logger.Info("loaded script", "name", script.Name, "events", len(script.Events))
	}

	recorder := newRecorder(cfg)
	track := analysis.NewTrack(trackBody, ticks/sampleEvery+1)
	observers := []sim.Observer{recorder, track}
	for _, o := range observers {
		o.OnTick(0, reg.Snapshot())
	}

	logger.Info("running", "scenario", title(), "bodies", reg.Size(), "ticks", ticks,
		"policy", g.Policy, "workers", g.Workers)

	ctx := cmd.Context()
	start := time.Now()
	diverged := false
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("interrupted", "tick", reg.Ticks())
			break
		}
		if player != nil && !player.Done() {
			added, err := player.Apply(reg)
			if err != nil {
				return err
			}
			if added > 0 {
				logger.Debug("script added bodies", "tick", reg.Ticks(), "count", added, "bodies", reg.Size())
			}
		}
		reg.Step()
		if reg.Ticks()%uint64(sampleEvery) != 0 {
			continue
		}
		bodies := reg.Snapshot()
		for _, o := range observers {
			o.OnTick(reg.Ticks(), bodies)
		}
		if !diverged && !allFinite(bodies) {
			diverged = true
			logger.Warn("state is no longer finite", "tick", reg.Ticks())
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("completed %d ticks in %v (%.0f ticks/sec)\n", reg.Ticks(), elapsed, float64(reg.Ticks())/elapsed.Seconds())
	fmt.Println("\nmetrics:")
	for _, name := range []string{"energy_drift", "momentum_drift"} {
		fmt.Printf("  %s: %.6e\n", name, recorder.Values()[name])
	}
	if s, ok := recorder.Latest(); ok {
		fmt.Printf("  energy: %.6e\n", s.Energy)
		fmt.Printf("  momentum: (%.6e, %.6e)\n", s.Momentum.X, s.Momentum.Y)
		fmt.Printf("  center of mass: (%.3f, %.3f)\n", s.Center.X, s.Center.Y)
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tMASS\tX\tY\tVX\tVY")
	for i, b := range reg.Snapshot() {
		fmt.Fprintf(w, "%d\t%.3g\t%.3f\t%.3f\t%.4f\t%.4f\n", i, b.Mass(), b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	plot("Energy", recorder.Energies())
	plot("|P|", recorder.Momenta())

	if len(track.Points) > 1 {
		fmt.Printf("\norbit of body %d around the focus body:\n\n", trackBody)
		fmt.Print(analysis.TrackToASCII(track, 60, 20))
		if period, ok := analysis.DominantPeriod(track.Xs(), sampleEvery); ok {
			fmt.Printf("\nestimated period: %.0f ticks\n", period)
		}
	}

	if svgPath != "" {
		if err := export.WriteTrackSVG(svgPath, track, 600, 600, "#00ffff"); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
		logger.Info("wrote orbit", "path", svgPath)
	}
	return nil
}

func plot(caption string, data []float64) {
	if len(data) < 2 || !finiteSeries(data) {
		return
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(data, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption(caption)))
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchTicks < 1 {
		return fmt.Errorf("--ticks must be positive, got %d", benchTicks)
	}
	workerCounts := []int{1}
	if n := compute.DefaultWorkers(); n > 1 {
		workerCounts = append(workerCounts, n)
	}

	fmt.Printf("benchmarking gravity step, %d ticks per run\n\n", benchTicks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tWORKERS\tTICKS\tTIME\tTICKS/SEC")

	for _, n := range benchBodies {
		if n < 1 {
			return fmt.Errorf("body count must be positive, got %d", n)
		}
		for _, wk := range workerCounts {
			g := integrators.NewGravity(config.DefaultGravityConstant, config.DefaultTickSpeed)
			g.Workers = wk
			g.ParallelThreshold = 1
			reg := sim.NewRegistry(g, false)
			if err := reg.Reset(benchBodiesFor(n)); err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < benchTicks; i++ {
				reg.Step()
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n", n, wk, benchTicks, elapsed.Round(time.Microsecond), float64(benchTicks)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

// benchBodiesFor lays n equal masses on a spiral so no two coincide.
func benchBodiesFor(n int) []physics.Body {
	bodies := make([]physics.Body, n)
	for i := range bodies {
		a := float64(i) * 0.5
		r := 50 + 10*float64(i)
		bodies[i] = physics.NewBody(
			physics.Vec2{X: r * math.Cos(a), Y: r * math.Sin(a)},
			physics.Vec2{X: -math.Sin(a), Y: math.Cos(a)},
			10,
		)
	}
	return bodies
}

func allFinite(bodies []physics.Body) bool {
	for _, b := range bodies {
		if !b.IsFinite() {
			return false
		}
	}
	return true
}

func finiteSeries(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
