package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/walkersim/internal/automation"
	"github.com/san-kum/walkersim/internal/config"
	"github.com/san-kum/walkersim/internal/experiment"
	"github.com/san-kum/walkersim/internal/optim"
	"github.com/san-kum/walkersim/internal/storage"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string

	duration   int
	population int
	lights     int
	seed       int64
	workers    int
	prototype  bool
	policy     string
	exportPath string

	limit int

	batchIdx int
	runIdx   int
	showPath bool
	svgPath  string
	bins     int

	grid []string
)

var logger = log.New(os.Stderr)

func main() {
	rootCmd := &cobra.Command{
		Use:          "walkersim",
		Short:        "random walker and light-seeking vehicle experiments",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				Prefix:          "walkersim",
			})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	walkCmd := &cobra.Command{
		Use:   "walk [type]",
		Short: "run a population of random walkers (grid, random_start, mixed, all)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWalk,
	}
	addRunFlags(walkCmd)
	walkCmd.Flags().IntVar(&population, "population", config.DefaultPopulation, "runs per walker type")
	walkCmd.Flags().BoolVar(&prototype, "prototype", false, "reuse one walker across runs")

	vehicleCmd := &cobra.Command{
		Use:   "vehicle",
		Short: "run light-seeking vehicles, one light per run",
		Args:  cobra.NoArgs,
		RunE:  runVehicle,
	}
	addRunFlags(vehicleCmd)
	vehicleCmd.Flags().IntVar(&lights, "lights", config.DefaultLights, "number of light sources")
	vehicleCmd.Flags().StringVar(&policy, "policy", "bounded", "control policy (bounded, world)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search vehicle constants for the best total fitness",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&lights, "lights", config.DefaultLights, "number of light sources")
	tuneCmd.Flags().StringVar(&policy, "policy", "bounded", "control policy (bounded, world)")
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "parameter values, e.g. max_turn_gain=100,250 (repeatable)")
	_ = tuneCmd.MarkFlagRequired("grid")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to show (0 for all)")

	statsCmd := &cobra.Command{
		Use:   "stats [run_id]",
		Short: "summary statistics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  statsRun,
	}
	statsCmd.Flags().IntVar(&bins, "bins", 5, "histogram bins")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot average displacement, or one path with --path",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&showPath, "path", false, "draw a single trajectory")
	plotCmd.Flags().IntVar(&batchIdx, "batch", 0, "batch index for --path")
	plotCmd.Flags().IntVar(&runIdx, "run", 0, "run index for --path")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "with --path, also write the trajectory as SVG")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a yaml scenario and save each",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print archived results as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tAGENT\tDURATION\tPOPULATION\tLIGHTS\tPOLICY")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					name, p.Agent, humanize.Comma(int64(p.Duration)), p.Population, p.Lights, p.Policy)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(walkCmd, vehicleCmd, scenarioCmd, tuneCmd, listCmd, statsCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&duration, "duration", config.DefaultDuration, "time steps per run")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base seed (0 picks one from the clock)")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "concurrent runs")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&exportPath, "export", "", "also write the results as JSON to this path")
}

// resolveConfig layers defaults, preset, config file and finally any flag
// set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("duration") {
		cfg.Duration = duration
	}
	if flags.Changed("population") {
		cfg.Population = population
	}
	if flags.Changed("lights") {
		cfg.Lights = lights
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("prototype") {
		cfg.Prototype = prototype
	}
	if flags.Changed("policy") {
		cfg.Policy = policy
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cmd.Root().PersistentFlags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	return cfg, nil
}

func runWalk(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Agent = args[0]
	}
	if cfg.Agent == config.AgentVehicle {
		return fmt.Errorf("use the vehicle command for vehicle runs")
	}
	return execute(cfg)
}

func runVehicle(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Agent = config.AgentVehicle
	return execute(cfg)
}

func execute(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(*cfg, experiment.NewRegistry(), logger)

	logger.Info("running", "agent", cfg.Agent, "duration", cfg.Duration, "seed", cfg.Seed)
	report, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	runID, err := persist(ctx, cfg.DataDir, report)
	if err != nil {
		return err
	}

	if exportPath != "" {
		if err := storage.ExportJSON(exportPath, report); err != nil {
			return err
		}
		logger.Info("exported", "path", exportPath)
	}

	printReport(runID, report)
	return nil
}

// persist saves report to the store under dir and records it in the run
// index. An index failure is logged, not returned.
func persist(ctx context.Context, dir string, report *experiment.Report) (string, error) {
	st := storage.New(dir)
	if err := st.Init(); err != nil {
		return "", err
	}

	runID, err := st.Save(report)
	if err != nil {
		return "", err
	}

	meta, err := st.Load(runID)
	if err != nil {
		return "", err
	}
	if err := recordIndex(ctx, dir, meta); err != nil {
		logger.Warn("run index not updated", "err", err)
	}
	return runID, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Seed == 0 {
		sc.Seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = automation.RunScenario(ctx, sc, experiment.NewRegistry(), logger,
		func(step int, report *experiment.Report) error {
			runID, err := persist(ctx, dataDir, report)
			if err != nil {
				return err
			}
			printReport(runID, report)
			return nil
		})
	return err
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Agent = config.AgentVehicle

	names, ranges, err := optim.ParseGrid(grid)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gs := optim.NewGridSearch(names, ranges)
	results, best, err := gs.Search(ctx, optim.VehicleBuilder(*cfg, experiment.NewRegistry(), logger), optim.TotalFitness)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(names, "\t")+"\tFITNESS\t")
	for i, r := range results {
		mark := ""
		if i == best {
			mark = "*"
		}
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", r.Params[n])
		}
		fmt.Fprintf(w, "%.4f\t%s\n", r.Score, mark)
	}
	return w.Flush()
}

func recordIndex(ctx context.Context, dir string, meta *storage.RunMetadata) error {
	idx, err := storage.OpenIndex(filepath.Join(dir, storage.IndexFile))
	if err != nil {
		return err
	}
	defer idx.Close()
	return idx.Record(ctx, meta)
}

func listRuns(cmd *cobra.Command, args []string) error {
	path := filepath.Join(dataDir, storage.IndexFile)
	if _, err := os.Stat(path); err == nil {
		idx, err := storage.OpenIndex(path)
		if err != nil {
			return err
		}
		defer idx.Close()

		entries, err := idx.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tAGENT\tPOLICY\tCREATED\tDURATION\tRUNS\tSEED\tELAPSED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%v\n",
					e.ID, e.Agent, dash(e.Policy), humanize.Time(e.CreatedAt),
					humanize.Comma(int64(e.Duration)), e.Runs, e.Seed,
					e.Elapsed.Round(time.Millisecond))
			}
			return w.Flush()
		}
	}

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
	fmt.Fprintln(w, "ID\tAGENT\tTIME\tDURATION\tBATCHES\tSEED")
	for i, run := range runs {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Agent,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			humanize.Comma(int64(run.Duration)),
			len(run.Batches),
			run.Seed,
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if _, err := st.Load(args[0]); err != nil {
		return err
	}

	path := st.ArchivePath(args[0])
	records, err := storage.ReadArchive(path)
	if err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		logger.Debug("archive read", "records", len(records), "size", humanize.Bytes(uint64(info.Size())))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
