package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/openlaunch/ascent/internal/analysis"
	"github.com/openlaunch/ascent/internal/config"
	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/report"
	"github.com/openlaunch/ascent/internal/sim"
	"github.com/openlaunch/ascent/internal/storage"
	"github.com/openlaunch/ascent/internal/viz"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	runName    string
	save       bool
	// run overrides
	integrator   string
	stopAtApogee bool
	maxTime      float64
	// batch
	numRuns int
	seed    int64
	// analysis
	channel string
	samples int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ascent",
		Short: "rocket flight trajectory simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ascent", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "fly one trajectory",
		RunE:  runFlight,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "baseline", "preset configuration")
	runCmd.Flags().StringVar(&runName, "name", "flight", "run name for storage")
	runCmd.Flags().BoolVar(&save, "save", false, "persist the run to the data directory")
	runCmd.Flags().StringVar(&integrator, "integrator", "", "override integrator")
	runCmd.Flags().BoolVar(&stopAtApogee, "stop-at-apogee", false, "terminate at apogee")
	runCmd.Flags().Float64Var(&maxTime, "max-time", 0, "override simulated-time cutoff (s)")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Monte-Carlo ensemble of perturbed flights",
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	batchCmd.Flags().StringVar(&preset, "preset", "baseline", "preset configuration")
	batchCmd.Flags().IntVar(&numRuns, "runs", 0, "override number of runs")
	batchCmd.Flags().Int64Var(&seed, "seed", 0, "override base seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run channel",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&channel, "channel", "altitude", "channel: altitude, speed, vz, mass")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral analysis of a stored run channel",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&channel, "channel", "vz", "channel: altitude, speed, vz, mass")
	analyzeCmd.Flags().IntVar(&samples, "samples", 1024, "uniform resample count")

	replayCmd := &cobra.Command{
		Use:     "replay [run_id]",
		Aliases: []string{"live"},
		Short:   "replay a stored run in the terminal",
		Args:    cobra.ExactArgs(1),
		RunE:    replayRun,
	}

	eventsCmd := &cobra.Command{
		Use:   "events [run_id]",
		Short: "print the event log of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  listEvents,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a stored run side profile as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.PresetNames() {
				fmt.Println(name)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, batchCmd, listCmd, plotCmd, analyzeCmd, replayCmd,
		eventsCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// loadConfig resolves the preset and the optional config file; the file
// overrides the preset.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Preset(preset)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	}
	if integrator != "" {
		cfg.Integrator = integrator
	}
	if stopAtApogee {
		cfg.StopOnApogee = true
	}
	if maxTime > 0 {
		cfg.MaxSimTime = maxTime
	}
	return cfg, nil
}

func runFlight(cmd *cobra.Command, args []string) error {
	log := logger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := cfg.Build(log)
	if err != nil {
		return err
	}
	res, err := s.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(report.Summary(runName, res))

	if save {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		mode, _, _ := cfg.ResolvedMode()
		id, err := store.Save(runName, mode.String(), cfg.Integrator, res)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", id)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := logger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if numRuns > 0 {
		cfg.MonteCarlo.Runs = numRuns
	}
	if seed != 0 {
		cfg.MonteCarlo.Seed = seed
	}

	ensemble := sim.NewEnsemble(cfg.EnsembleFactory(log), cfg.MonteCarlo.Runs, cfg.MonteCarlo.Seed)
	results, err := ensemble.Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(report.EnsembleSummary(sim.Aggregate(results)))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tAPOGEE\tFLIGHT TIME\tFINAL PHASE\tWHEN")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.1fm\t%.2fs\t%s\t%s\n",
			r.ID, r.Mode, r.ApogeeAltitude, r.FlightTime, r.FinalPhase,
			r.Timestamp.Format(time.DateTime))
	}
	return w.Flush()
}

// loadResult reconstructs a Result from a stored run directory.
func loadResult(runID string) (*flight.Result, *storage.RunMetadata, error) {
	store := storage.New(dataDir)
	meta, err := store.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	times, states, err := store.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	events, err := store.LoadEvents(runID)
	if err != nil {
		return nil, nil, err
	}
	res := &flight.Result{
		Times:          times,
		States:         states,
		Events:         events,
		Steps:          meta.Steps,
		Rejected:       meta.Rejected,
		FlightTime:     meta.FlightTime,
		ApogeeTime:     meta.ApogeeTime,
		ApogeeAltitude: meta.ApogeeAltitude,
		MaxVelocity:    meta.MaxVelocity,
		ImpactVelocity: meta.ImpactVelocity,
	}
	return res, meta, nil
}

func channelByName(name string) (analysis.Channel, error) {
	switch name {
	case "altitude":
		return analysis.Altitude, nil
	case "speed":
		return analysis.Speed, nil
	case "vz":
		return analysis.VerticalVelocity, nil
	case "mass":
		return analysis.Mass, nil
	}
	return nil, fmt.Errorf("unknown channel: %s", name)
}

func plotRun(cmd *cobra.Command, args []string) error {
	res, _, err := loadResult(args[0])
	if err != nil {
		return err
	}
	ch, err := channelByName(channel)
	if err != nil {
		return err
	}
	fmt.Println(viz.PlotChannel(res, ch, channel, 80, 20))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	res, _, err := loadResult(args[0])
	if err != nil {
		return err
	}
	ch, err := channelByName(channel)
	if err != nil {
		return err
	}

	dt, uniform := analysis.Resample(res.Times, analysis.Series(res, ch), samples)
	if uniform == nil {
		return fmt.Errorf("run %s: not enough samples for analysis", args[0])
	}
	sp := analysis.PowerSpectrum(uniform, dt)
	freq, power := sp.DominantFrequency()
	fmt.Printf("channel: %s\n", channel)
	fmt.Printf("dominant frequency: %.3f Hz (power %.4g)\n", freq, power)
	if len(sp.Power) > 1 {
		fmt.Println(asciigraph.Plot(sp.Power, asciigraph.Height(12), asciigraph.Width(80), asciigraph.Caption("power spectrum")))
	}
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	res, meta, err := loadResult(args[0])
	if err != nil {
		return err
	}
	if len(res.States) == 0 {
		return fmt.Errorf("run %s has no trajectory", args[0])
	}
	p := tea.NewProgram(viz.NewModel(meta.Name, res))
	_, err = p.Run()
	return err
}

func listEvents(cmd *cobra.Command, args []string) error {
	res, _, err := loadResult(args[0])
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EVENT\tTIME\tALTITUDE\tPHASE AFTER")
	for _, ev := range res.Events {
		fmt.Fprintf(w, "%s\t%.3fs\t%.1fm\t%s\n", ev.Name, ev.Time, ev.State.Altitude(), ev.Phase)
	}
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	res, meta, err := loadResult(args[0])
	if err != nil {
		return err
	}
	return storage.WriteJSON(os.Stdout, meta.Name, meta.Mode, meta.Integrator, res)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	res, _, err := loadResult(args[0])
	if err != nil {
		return err
	}
	svg := storage.TrajectorySVG(res, 800, 600)
	if svg == "" {
		return fmt.Errorf("run %s has no trajectory", args[0])
	}
	fmt.Println(svg)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	file, err := os.Open(dataDir + "/" + args[0] + "/states.csv")
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(os.Stdout, file)
	return err
}
