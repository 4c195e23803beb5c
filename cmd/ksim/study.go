package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/ksim/internal/analysis"
	"github.com/san-kum/ksim/internal/kuramoto"
	"github.com/san-kum/ksim/internal/logging"
	"github.com/san-kum/ksim/internal/optim"
	"github.com/san-kum/ksim/internal/storage"
)

const studyDBName = "studies.db"

var (
	sweepNs     []int
	sweepRatios []float64
	workers     int
	xlsxFile    string
	searchKMin  float64
	searchKMax  float64
	searchSteps int
	replicates  int
	gridAxes    []string
	gridMetric  string
)

func studyCommands() []*cobra.Command {
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep N and k (as multiples of the critical coupling)",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().IntSliceVar(&sweepNs, "ns", nil, "oscillator counts (default from config)")
	sweepCmd.Flags().Float64SliceVar(&sweepRatios, "k-ratios", nil, "k as multiples of the critical coupling (default from config)")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default from config)")
	sweepCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "also write the study to this workbook")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "search the k that best matches the score target",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	addParamFlags(searchCmd)
	searchCmd.Flags().Float64Var(&searchKMin, "k-min", 0, "lowest k (default from config)")
	searchCmd.Flags().Float64Var(&searchKMax, "k-max", 0, "highest k (default from config)")
	searchCmd.Flags().IntVar(&searchSteps, "steps", 0, "number of k values (default from config)")
	searchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default from config)")
	searchCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "also write the study to this workbook")

	studiesCmd := &cobra.Command{
		Use:   "studies [study_id]",
		Short: "list stored sweeps and searches, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listStudies,
	}
	studiesCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "write the selected study to this workbook")

	replicateCmd := &cobra.Command{
		Use:   "replicate",
		Short: "repeat a run over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runReplicate,
	}
	addParamFlags(replicateCmd)
	replicateCmd.Flags().IntVar(&replicates, "runs", 10, "number of seeds")
	replicateCmd.Flags().IntVar(&workers, "workers", 1, "concurrent runs")
	replicateCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "also write the study to this workbook")

	gridCmd := &cobra.Command{
		Use:   "grid",
		Short: "minimise a metric over the product of parameter axes",
		Args:  cobra.NoArgs,
		RunE:  runGrid,
	}
	addParamFlags(gridCmd)
	gridCmd.Flags().StringArrayVar(&gridAxes, "axis", nil, "axis as name=v1,v2 or name=lo:hi:steps (repeatable; n, k, mu, sigma, time_delta, loop_count)")
	gridCmd.Flags().StringVar(&gridMetric, "metric", optim.ScoreMetric, "metric to minimise (score, r_mean, r_std, r_final, dr_std)")

	return []*cobra.Command{sweepCmd, searchCmd, replicateCmd, gridCmd, studiesCmd}
}

func openStudies(ctx context.Context) (*storage.StudyStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	store := storage.NewStudyStore(filepath.Join(dataDir, studyDBName))
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func saveStudy(ctx context.Context, kind string, base kuramoto.Params, rows []optim.SweepRow) (storage.Study, error) {
	created := time.Now()
	study := storage.Study{
		ID:      storage.NewStudyID(kind, created),
		Kind:    kind,
		Created: created,
		Base:    base,
		Rows:    make([]storage.StudyRow, len(rows)),
	}
	for i, r := range rows {
		study.Rows[i] = storage.StudyRow(r)
	}

	store, err := openStudies(ctx)
	if err != nil {
		return study, err
	}
	defer store.Close()
	if err := store.SaveStudy(ctx, study); err != nil {
		return study, err
	}

	if xlsxFile != "" {
		if err := storage.ExportSweepXLSX(xlsxFile, study); err != nil {
			return study, err
		}
	}
	return study, nil
}

func printRows(rows []optim.SweepRow) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tK\tR_MEAN\tR_STD\tSCORE\tSKIP")
	for _, r := range rows {
		skip := ""
		if r.Skip {
			skip = "too simple"
		}
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t%s\n", r.N, r.K, r.RMean, r.RStd, r.Score, skip)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	params, cfg, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log := logging.NewDefaultLogger()

	ns, ratios, w := cfg.Sweep.Ns, cfg.Sweep.KRatios, cfg.Sweep.Workers
	if cmd.Flags().Changed("ns") {
		ns = sweepNs
	}
	if cmd.Flags().Changed("k-ratios") {
		ratios = sweepRatios
	}
	if cmd.Flags().Changed("workers") {
		w = workers
	}

	ks, err := optim.RatioCouplings(params.Sigma, ratios)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	kc := analysis.CriticalCoupling(params.Sigma)

	log.Info().Ints("ns", ns).Float64("kc", kc).Int("workers", w).Msg("sweep started")
	start := time.Now()
	rows, err := optim.Sweep(ctx, params, ns, ks, w)
	if err != nil {
		return err
	}
	log.Info().Int("runs", len(rows)).Dur("elapsed", time.Since(start)).Msg("sweep finished")

	if err := printRows(rows); err != nil {
		return err
	}
	study, err := saveStudy(ctx, "sweep", params, rows)
	if err != nil {
		return err
	}
	log.Info().Str("study_id", study.ID).Msg("study stored")
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	params, cfg, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log := logging.NewDefaultLogger()

	sc := cfg.Search
	if cmd.Flags().Changed("k-min") {
		sc.KMin = searchKMin
	}
	if cmd.Flags().Changed("k-max") {
		sc.KMax = searchKMax
	}
	if cmd.Flags().Changed("steps") {
		sc.Steps = searchSteps
	}
	if cmd.Flags().Changed("workers") {
		sc.Workers = workers
	}

	log.Info().Float64("k_min", sc.KMin).Float64("k_max", sc.KMax).Int("steps", sc.Steps).Msg("search started")
	res, err := optim.Search(ctx, params, sc.KMin, sc.KMax, sc.Steps, sc.Target, sc.Workers)
	if err != nil {
		return err
	}

	if err := printRows(res.Rows); err != nil {
		return err
	}
	fmt.Printf("\nbest k: %.4f (score %.6f, r_mean %.4f, r_std %.4f)\n", res.Best.K, res.Best.Score, res.Best.RMean, res.Best.RStd)

	study, err := saveStudy(ctx, "search", params, res.Rows)
	if err != nil {
		return err
	}
	log.Info().Str("study_id", study.ID).Msg("study stored")
	return nil
}

func runReplicate(cmd *cobra.Command, args []string) error {
	params, _, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log := logging.NewDefaultLogger()

	rows, err := optim.Replicate(ctx, params, replicates, workers)
	if err != nil {
		return err
	}
	if err := printRows(rows); err != nil {
		return err
	}
	s := optim.RMeanSpread(rows)
	fmt.Printf("\nr_mean across %d seeds: %.4f ± %.4f (min %.4f, max %.4f)\n", len(rows), s.Mean, s.Std, s.Min, s.Max)

	study, err := saveStudy(ctx, "replicate", params, rows)
	if err != nil {
		return err
	}
	log.Info().Str("study_id", study.ID).Msg("study stored")
	return nil
}

func runGrid(cmd *cobra.Command, args []string) error {
	params, _, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	if len(gridAxes) == 0 {
		return fmt.Errorf("grid: at least one --axis is required")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log := logging.NewDefaultLogger()

	names := make([]string, len(gridAxes))
	ranges := make([][]float64, len(gridAxes))
	for i, a := range gridAxes {
		name, values, err := optim.ParseAxis(a)
		if err != nil {
			return err
		}
		if _, err := optim.ApplyParams(params, map[string]float64{name: values[0]}); err != nil {
			return err
		}
		names[i], ranges[i] = name, values
	}

	gs := optim.NewGridSearch(names, ranges)
	log.Info().Strs("axes", names).Str("metric", gridMetric).Msg("grid search started")
	best, value, err := gs.Search(ctx, optim.ExperimentBuilder(params), gridMetric)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("grid: no point produced metric %q", gridMetric)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(gridMetric))
	for _, pt := range gs.Points() {
		for _, name := range names {
			fmt.Fprintf(w, "%.4g\t", pt.Values[name])
		}
		fmt.Fprintf(w, "%.6f\n", pt.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6f at", gridMetric, value)
	for _, name := range names {
		fmt.Printf(" %s=%.4g", name, best[name])
	}
	fmt.Println()
	return nil
}

func listStudies(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := openStudies(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		study, ok, err := store.GetStudy(ctx, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("study not found: %s", args[0])
		}
		rows := make([]optim.SweepRow, len(study.Rows))
		for i, r := range study.Rows {
			rows[i] = optim.SweepRow(r)
		}
		if err := printRows(rows); err != nil {
			return err
		}
		if xlsxFile != "" {
			return storage.ExportSweepXLSX(xlsxFile, study)
		}
		return nil
	}

	studies, err := store.ListStudies(ctx)
	if err != nil {
		return err
	}
	if len(studies) == 0 {
		fmt.Println("no studies found")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME")
	for _, s := range studies {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Kind, s.Created.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
