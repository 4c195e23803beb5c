package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/ksim/internal/analysis"
	"github.com/san-kum/ksim/internal/config"
	"github.com/san-kum/ksim/internal/experiment"
	"github.com/san-kum/ksim/internal/export"
	"github.com/san-kum/ksim/internal/kuramoto"
	"github.com/san-kum/ksim/internal/logging"
	"github.com/san-kum/ksim/internal/rng"
	"github.com/san-kum/ksim/internal/sim"
	"github.com/san-kum/ksim/internal/storage"
	"github.com/san-kum/ksim/internal/viz"
)

var (
	dataDir string

	n         int
	k         float64
	dt        float64
	loopCount int
	mu        float64
	sigma     float64
	seed      uint64
	coupling  string

	configFile string
	preset     string
	verbose    bool
	jsonOut    bool
	noSave     bool
	svgFile    string
	themeName  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ksim",
		Short:        "kuramoto oscillator simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ksim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "log every step at debug level")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON on stdout")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot R and the centroid of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the centroid path to this SVG file")
	addThemeFlag(plotCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "statistics and frequency analysis of R",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run mean-field and pairwise coupling on the same ensemble",
		Args:  cobra.NoArgs,
		RunE:  compareCouplings,
	}
	addParamFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate a simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addParamFlags(liveCmd)
	addThemeFlag(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tN\tK\tSIGMA\tSTEPS\tCOUPLING")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.4g\t%g\t%d\t%s\n", name, p.N, p.K, p.Sigma, p.LoopCount, p.Coupling)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config-init [path]",
		Short: "write the default configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, compareCmd, liveCmd, presetsCmd, configCmd)
	rootCmd.AddCommand(studyCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&n, "n", config.DefaultN, "number of oscillators")
	cmd.Flags().Float64Var(&k, "k", config.DefaultK, "coupling strength")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().IntVar(&loopCount, "loop", config.DefaultLoopCount, "number of steps")
	cmd.Flags().Float64Var(&mu, "mu", config.DefaultMu, "mean natural frequency")
	cmd.Flags().Float64Var(&sigma, "sigma", config.DefaultSigma, "natural frequency standard deviation")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 uses the current time)")
	cmd.Flags().StringVar(&coupling, "coupling", kuramoto.MeanFieldName, fmt.Sprintf("coupling strategy %v", kuramoto.CouplingNames()))
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addThemeFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		cfg.N = n
	}
	if flags.Changed("k") {
		cfg.K = k
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("loop") {
		cfg.LoopCount = loopCount
	}
	if flags.Changed("mu") {
		cfg.Mu = mu
	}
	if flags.Changed("sigma") {
		cfg.Sigma = sigma
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("coupling") {
		cfg.Coupling = coupling
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	return cfg, nil
}

func resolveParams(cmd *cobra.Command) (kuramoto.Params, *config.Config, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return kuramoto.Params{}, nil, err
	}
	params := cfg.Params(time.Now())
	if err := params.Validate(); err != nil {
		return kuramoto.Params{}, nil, err
	}
	return params, cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	params, cfg, err := resolveParams(cmd)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	log := logging.NewConsoleLogger(os.Stderr, "run", level)

	var observers []sim.Observer
	if cfg.Verbose {
		observers = append(observers, logging.NewStepLogger(log))
	}

	log.Info().
		Int("n", params.N).
		Float64("k", params.K).
		Int("loop_count", params.LoopCount).
		Uint64("seed", params.Seed).
		Str("coupling", params.Coupling).
		Msg("running simulation")
	start := time.Now()

	result, err := experiment.Simulate(params, observers...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if result.Diverged() {
		log.Warn().Int("step", result.FirstNonFinite).Msg("non-finite values in trajectory")
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(params, result)
		if err != nil {
			return err
		}
		log.Info().Str("run_id", runID).Dur("elapsed", elapsed).Msg("run stored")
	} else {
		log.Info().Dur("elapsed", elapsed).Msg("run completed")
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, params, result)
	}
	fmt.Println(viz.RenderSummary(params, result))
	return nil
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
	fmt.Fprintln(w, "ID\tCOUPLING\tTIME\tN\tK\tSTEPS\tR_MEAN")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4g\t%d\t%.4f\n",
			run.ID,
			run.Coupling,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.N,
			run.Params.K,
			run.StepsTaken,
			run.Metrics["r_mean"],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	omega, theta, err := st.LoadEnsemble(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &sim.Result{
		Omega:          omega,
		Theta:          theta,
		ComX:           traj.ComX,
		ComY:           traj.ComY,
		Metrics:        meta.Metrics,
		StepsTaken:     meta.StepsTaken,
		Coupling:       meta.Coupling,
		FirstNonFinite: meta.FirstNonFinite,
	}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	if err := viz.SetTheme(themeName); err != nil {
		return err
	}
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.ComX) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("coupling: %s  n: %d  k: %.4g\n", meta.Coupling, meta.Params.N, meta.Params.K)
	fmt.Printf("samples: %d\n\n", len(result.ComX))

	series := []struct {
		data    []float64
		caption string
	}{
		{result.RSeries(), "order parameter R"},
		{result.ComX, "centroid x"},
		{result.ComY, "centroid y"},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgFile != "" {
		svg := export.CentroidSVG(result.ComX, result.ComY, 400, string(viz.CurrentTheme.Centroid))
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("centroid path written to %s\n", svgFile)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.ComX) < 2 {
		return fmt.Errorf("no data")
	}
	p := meta.Params

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("coupling: %s\n\n", meta.Coupling)

	rs := analysis.RSeries(result.ComX, result.ComY)
	rMean, rStd := analysis.Stats(rs)
	_, speedStd := analysis.Stats(analysis.CentroidSpeed(result.ComX, result.ComY, p.Dt))
	kc := analysis.CriticalCoupling(p.Sigma)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "r mean\t%.6f\n", rMean)
	fmt.Fprintf(w, "r std\t%.6f\n", rStd)
	fmt.Fprintf(w, "centroid speed std\t%.6f\n", speedStd)
	fmt.Fprintf(w, "score\t%.6f\n", analysis.Score(result.ComX, result.ComY, p.Dt, analysis.DefaultScoreTarget()))
	if kc > 0 {
		fmt.Fprintf(w, "critical k\t%.4f (k/kc = %.3f)\n", kc, p.K/kc)
	} else {
		fmt.Fprintf(w, "critical k\t0 (identical frequencies)\n")
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	centered := make([]float64, len(rs))
	for i, r := range rs {
		centered[i] = r - rMean
	}
	ps := analysis.PowerSpectrum(centered)
	plotData := ps[:max(len(ps)/4, 1)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (R)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(rs, p.Dt)
	fmt.Printf("dominant frequency: %.4f\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.4f\n", 1.0/freq)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta.Params, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.ComX) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteTrajectoryCSV(os.Stdout, meta.Params.Dt, result)
}

func compareCouplings(cmd *cobra.Command, args []string) error {
	params, _, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	log := logging.NewDefaultLogger()

	ens, err := kuramoto.Initialize(rng.New(params.Seed), params.N, params.Mu, params.Sigma)
	if err != nil {
		return err
	}

	names := kuramoto.CouplingNames()
	results := make(map[string]*sim.Result, len(names))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COUPLING\tTIME\tFINAL R\tR_MEAN")
	for _, name := range names {
		p := params
		p.Coupling = name
		start := time.Now()
		result, err := experiment.SimulateFrom(p, ens)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		elapsed := time.Since(start)
		results[name] = result

		finalR := math.NaN()
		if len(result.ComX) > 0 {
			finalR = result.OrderParameter(len(result.ComX) - 1).R
		}
		fmt.Fprintf(w, "%s\t%v\t%.6f\t%.6f\n", name, elapsed, finalR, result.Metrics["r_mean"])
		log.Info().Str("coupling", name).Dur("elapsed", elapsed).Msg("compare run done")
	}
	if err := w.Flush(); err != nil {
		return err
	}

	a, b := results[kuramoto.MeanFieldName], results[kuramoto.PairwiseName]
	fmt.Println()
	fmt.Printf("max |Δcom_x|: %.3e\n", maxAbsDiff(a.ComX, b.ComX))
	fmt.Printf("max |Δcom_y|: %.3e\n", maxAbsDiff(a.ComY, b.ComY))
	fmt.Printf("max |Δtheta|: %.3e\n", maxAbsDiff(a.Theta, b.Theta))
	return nil
}

func maxAbsDiff(a, b []float64) float64 {
	m := 0.0
	for i := range a {
		m = math.Max(m, math.Abs(a[i]-b[i]))
	}
	return m
}

func runLive(cmd *cobra.Command, args []string) error {
	params, _, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	if err := viz.SetTheme(themeName); err != nil {
		return err
	}

	c, err := kuramoto.CouplingByName(params.Coupling)
	if err != nil {
		return err
	}
	ens, err := kuramoto.Initialize(rng.New(params.Seed), params.N, params.Mu, params.Sigma)
	if err != nil {
		return err
	}
	return viz.Run(params, ens, c)
}
