package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/experiment"
	"github.com/san-kum/cellsim/internal/export"
	"github.com/san-kum/cellsim/internal/optim"
	"github.com/san-kum/cellsim/internal/rules"
	"github.com/san-kum/cellsim/internal/storage"
	"github.com/san-kum/cellsim/internal/viz"
)

var (
	settings config.Settings
	logger   *slog.Logger

	dataDir   string
	storeKind string
	logLevel  string

	// experiment flags shared by run, live and ensemble
	configFile  string
	preset      string
	seed        int64
	generations int
	width       int
	height      int
	wrap        bool
	topology    string
	neighbors   int
	history     int
	params      map[string]string

	noSave    bool
	showFinal bool

	vary     []string
	metric   string
	maximize bool

	runs      int
	seedStart int64
	workers   int

	generation int
	outPath    string
	scale      float64
	snapshots  bool
	theme      string
)

// main registers the cellsim commands and executes the root command. It
// exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "cellsim",
		Short:         "cellular automaton lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			settings, err = config.LoadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data") {
				settings.DataDir = dataDir
			}
			if cmd.Flags().Changed("store") {
				settings.Store = storeKind
			}
			if cmd.Flags().Changed("log-level") {
				settings.LogLevel = logLevel
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: settings.Level()}))
			viz.SetTheme(theme)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cellsim", "data directory (overrides CELLSIM_DATA)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "file", "storage backend: file or sqlite (overrides CELLSIM_STORE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (overrides CELLSIM_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "cyberpunk", "color theme: "+strings.Join(viz.ThemeNames(), ", "))

	runCmd := &cobra.Command{
		Use:   "run [kind]",
		Short: "run an experiment and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExperiment,
	}
	experimentFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showFinal, "show", false, "print the final generation")

	liveCmd := &cobra.Command{
		Use:   "live [kind]",
		Short: "step an experiment with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	experimentFlags(liveCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [kind]",
		Short: "run one experiment under many seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	experimentFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")
	ensembleCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "seed of the first run")
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "runs in flight (0 = GOMAXPROCS)")
	ensembleCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [kind]",
		Short: "grid search rule parameters against a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	experimentFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&vary, "vary", nil, "parameter axis key=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&metric, "metric", "activity", "metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "maximize instead of minimize")
	sweepCmd.MarkFlagRequired("vary")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "draw one generation of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&generation, "gen", -1, "generation to draw (-1 = last)")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the census of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportJSONCmd.Flags().BoolVar(&snapshots, "snapshots", false, "include every generation")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the census of a run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one generation of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&generation, "gen", -1, "generation to draw (-1 = last)")
	exportSVGCmd.Flags().Float64Var(&scale, "scale", 12, "cell size in pixels")

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "list automaton kinds, their states and parameters",
		RunE:  listKinds,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets for a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for kind: %s\n", args[0])
				return nil
			}
			sort.Strings(presets)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %-12s %s\n", p, config.GetPreset(args[0], p).Title)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, ensembleCmd, sweepCmd, listCmd, showCmd, plotCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, kindsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func experimentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&generations, "generations", config.DefaultGenerations, "generations to run")
	cmd.Flags().IntVar(&width, "width", config.DefaultSize, "grid width")
	cmd.Flags().IntVar(&height, "height", config.DefaultSize, "grid height")
	cmd.Flags().BoolVar(&wrap, "wrap", true, "wrap edges (torus)")
	cmd.Flags().StringVar(&topology, "topology", "", "rectangular or hexagonal (default per kind)")
	cmd.Flags().IntVar(&neighbors, "neighbors", 0, "neighborhood size: 4 or 8 rectangular, 6 hexagonal")
	cmd.Flags().IntVar(&history, "history", 0, "generations kept per cell (0 = all)")
	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "rule parameter key=value")
}

// loadConfig builds the experiment config: a config file, else a preset,
// else the defaults for the kind. Flags that were set override it.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	kind := ""
	if len(args) > 0 {
		kind = args[0]
	}

	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		if kind == "" {
			return nil, errors.New("--preset needs a kind")
		}
		cfg = config.GetPreset(kind, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(kind))
		}
	default:
		if kind == "" {
			return nil, errors.New("a kind, --config or --preset is required")
		}
		cfg = config.DefaultConfig()
		cfg.Title = kind
	}
	if kind != "" {
		cfg.Kind = kind
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("generations") {
		cfg.Generations = generations
	}
	if flags.Changed("width") {
		cfg.Grid.Width = width
	}
	if flags.Changed("height") {
		cfg.Grid.Height = height
	}
	if flags.Changed("wrap") {
		cfg.Grid.Wrapping = wrap
	}
	if flags.Changed("topology") {
		cfg.Grid.Topology = topology
	}
	if flags.Changed("neighbors") {
		cfg.Grid.Neighbors = neighbors
	}
	if flags.Changed("history") {
		cfg.Grid.History = history
	}
	if len(params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]string, len(params))
		}
		for k, v := range params {
			cfg.Params[k] = v
		}
	}
	return cfg, nil
}

func openStore(ctx context.Context) (storage.Store, error) {
	st, err := storage.NewStore(settings.Store, settings.DataDir, settings.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	exp, err := experiment.New(experiment.NewRegistry(), cfg, experiment.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Printf("running %s for %d generations...\n", exp.Kind().Name, cfg.Generations)
	result, err := exp.Run(ctx)
	if result == nil {
		return err
	}
	if err != nil {
		logger.Warn("storing partial run", "err", err)
	}

	if showFinal {
		final := result.Snapshots[len(result.Snapshots)-1]
		fmt.Println(viz.RenderFrame(final, exp.Kind().States, exp.Grid().Topology().Name() == "hexagonal"))
	}

	if !noSave {
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		runID, err := st.Save(context.WithoutCancel(ctx), exp.Record(result))
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("generations: %d\n", result.Generations)
	printMetrics(os.Stdout, result.Metrics)
	return err
}

func printMetrics(w io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6g\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	m, err := viz.NewModel(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	reg := experiment.NewRegistry()
	ens := experiment.NewEnsemble(reg, cfg, runs, seedStart)
	ens.SetLogger(logger)
	if workers > 0 {
		ens.SetWorkers(workers)
	}

	results, err := ens.Run(ctx)
	if err != nil {
		return err
	}

	var st storage.Store
	if !noSave {
		if st, err = openStore(ctx); err != nil {
			return err
		}
		defer st.Close()
	}

	names := metricNames(results)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\t"+strings.Join(names, "\t")+"\tRUN")
	for i, res := range results {
		runSeed := seedStart + int64(i)
		runID := "-"
		if st != nil {
			c := cfg.Clone()
			c.Seed = runSeed
			exp, err := experiment.New(reg, c)
			if err != nil {
				return err
			}
			if runID, err = st.Save(ctx, exp.Record(res)); err != nil {
				return err
			}
		}
		row := []string{fmt.Sprint(runSeed)}
		for _, n := range names {
			row = append(row, fmt.Sprintf("%.4g", res.Metrics[n]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t")+"\t"+runID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	names, values, err := optim.ParseAxes(vary)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	gs := optim.NewGridSearch(names, values)
	gs.Maximize(maximize)
	logger.Info("sweep started", "kind", cfg.Kind, "axes", names, "metric", metric)
	points, best, err := gs.Search(ctx, experiment.NewRegistry(), cfg, metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PARAMS\t%s\n", strings.ToUpper(metric))
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%.6g\n", p, p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: %s (%s = %.6g)\n", best, metric, best.Value)
	return nil
}

func metricNames(results []*experiment.Result) []string {
	seen := make(map[string]bool)
	for _, r := range results {
		for n := range r.Metrics {
			seen[n] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	stored, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tGRID\tTOPOLOGY\tGENS\tSEED")
	for _, run := range stored {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%s/%d\t%d\t%d\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Topology, run.Neighbors,
			run.Generations,
			run.Seed,
		)
	}
	return w.Flush()
}

// loadRun reads everything stored for one run.
func loadRun(ctx context.Context, id string) (*storage.Run, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	meta, err := st.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	census, err := st.LoadCensus(ctx, id)
	if err != nil {
		return nil, err
	}
	frames, err := st.LoadSnapshots(ctx, id)
	if err != nil {
		return nil, err
	}
	return &storage.Run{Metadata: *meta, Census: census, Snapshots: frames}, nil
}

func pickFrame(run *storage.Run, gen int) ([][]string, int, error) {
	n := len(run.Snapshots)
	if n == 0 {
		return nil, 0, fmt.Errorf("run %s has no snapshots", run.Metadata.ID)
	}
	if gen < 0 {
		gen = n - 1
	}
	if gen >= n {
		return nil, 0, fmt.Errorf("generation %d out of range [0, %d]", gen, n-1)
	}
	return run.Snapshots[gen], gen, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	frame, gen, err := pickFrame(run, generation)
	if err != nil {
		return err
	}
	meta := run.Metadata
	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s  generation %d", meta.ID, gen)))
	fmt.Println(viz.GlassPanel.Render(viz.RenderFrame(frame, meta.States, meta.Topology == "hexagonal")))

	counts := make(map[string]float64, len(meta.States))
	for s, series := range run.Census {
		if gen < len(series) {
			counts[s] = series[gen]
		}
	}
	fmt.Println(viz.Legend(meta.States, counts))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	meta := run.Metadata
	chart := viz.CensusChart(run.Census, meta.States, 70, 15)
	if chart == "" {
		fmt.Println("not enough generations to plot")
		return nil
	}
	fmt.Printf("%s (%s, %d generations)\n\n", meta.ID, meta.Kind, meta.Generations)
	fmt.Println(chart)
	printMetrics(os.Stdout, meta.Metrics)
	return nil
}

// output returns stdout when path is empty.
func output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	w, err := output(outPath)
	if err != nil {
		return err
	}
	if err := export.WriteJSON(w, run, snapshots); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	w, err := output(outPath)
	if err != nil {
		return err
	}
	if err := storage.WriteCensusCSV(w, run.Metadata.States, run.Census); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	frame, gen, err := pickFrame(run, generation)
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = fmt.Sprintf("%s_%d.svg", run.Metadata.ID, gen)
	}
	svg := export.FrameToSVG(frame, run.Metadata.States, scale, run.Metadata.Topology == "hexagonal")
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func listKinds(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tSTATES\tNEIGHBORHOOD\tPARAMETERS")
	for _, name := range reg.ListKinds() {
		k, err := reg.Kind(name)
		if err != nil {
			return err
		}
		var ps []string
		if d, ok := k.NewRule(nil).(rules.Describer); ok {
			for _, p := range d.Describe() {
				ps = append(ps, fmt.Sprintf("%s=%s", p.Key, p.Default))
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s/%d\t%s\n",
			k.Name, strings.Join(k.States, ","), k.DefaultTopology, k.DefaultNeighbors, strings.Join(ps, " "))
	}
	return w.Flush()
}
