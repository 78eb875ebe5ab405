package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/orderlens/internal/classify"
	"github.com/roach88/orderlens/internal/config"
	"github.com/roach88/orderlens/internal/enrich"
	"github.com/roach88/orderlens/internal/kpi"
	"github.com/roach88/orderlens/internal/loader"
	"github.com/roach88/orderlens/internal/report"
	"github.com/roach88/orderlens/internal/rfm"
	"github.com/roach88/orderlens/internal/store"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Orders     string
	Items      string
	OutputDir  string
	ConfigFile string
	Database   string
	Force      bool

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs store.RunIDGenerator
}

// AnalyzeResult is the analyze command payload.
type AnalyzeResult struct {
	RunID     string       `json:"run_id,omitempty"`
	Reused    bool         `json:"reused"`
	OutputDir string       `json:"output_dir"`
	Files     []string     `json:"files,omitempty"`
	Orders    int          `json:"orders"`
	Items     int          `json:"items"`
	KPIs      []kpi.Metric `json:"kpis"`
	Segments  []rfm.Share  `json:"segments"`
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	return newAnalyzeCommand(&AnalyzeOptions{RootOptions: rootOpts})
}

func newAnalyzeCommand(opts *AnalyzeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an order export and write artifacts",
		Long: `Read the orders and line-items CSV exports, derive KPIs, rankings,
sales series, basket shape and RFM segments, and write them as CSV
tables plus analysis_summary.json.

With --db, every run is recorded. A later run over unchanged files and
settings reuses the recorded run unless --force is given.

Example:
  orderlens analyze --orders orders.csv --items items.csv --out ./artifacts
  orderlens analyze --orders orders.csv --items items.csv --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Orders, "orders", "", "orders CSV export (required)")
	cmd.Flags().StringVar(&opts.Items, "items", "", "line items CSV export (required)")
	cmd.Flags().StringVarP(&opts.OutputDir, "out", "o", "", "artifact directory (default from config)")
	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "YAML config file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite run history database")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "recompute even if the inputs are unchanged")
	_ = cmd.MarkFlagRequired("orders")
	_ = cmd.MarkFlagRequired("items")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := setupLogging(cmd.ErrOrStderr(), opts.Verbose)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return fail(formatter, ExitCommandError, "", "failed to load config", err)
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	runOpts := store.Options{
		Timezone:    cfg.Timezone,
		TopProducts: cfg.TopProducts,
		SummaryHead: cfg.SummaryHead,
	}

	classifier := classify.New(nil)
	if cfg.RulesFile != "" {
		rules, err := classify.LoadRules(cfg.RulesFile)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeRules, "failed to load rules", err)
		}
		classifier = classify.New(rules)
		logger.Info("rules loaded", "path", cfg.RulesFile, "rules", len(rules))

		sig, err := loader.Stat(cfg.RulesFile)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeRules, "failed to load rules", err)
		}
		runOpts.Rules = &sig
	}

	var st *store.Store
	if cfg.Database != "" {
		logger.Info("opening database", "path", cfg.Database)
		st, err = store.Open(cfg.Database, store.WithLogger(logger))
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeStore, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()

		if !opts.Force {
			prior, err := findPriorRun(ctx, st, opts.Orders, opts.Items, runOpts)
			if err != nil {
				return fail(formatter, ExitCommandError, "", "failed to check run history", err)
			}
			switch {
			case prior == nil:
			case !sameDir(prior.OutputDir, cfg.OutputDir):
				logger.Info("inputs unchanged, exporting to new directory", "run", prior.ID, "dir", cfg.OutputDir)
			default:
				logger.Info("inputs unchanged, reusing run", "run", prior.ID)
				return outputReusedRun(ctx, formatter, st, prior)
			}
		}
	}

	logger.Info("loading exports", "orders", opts.Orders, "items", opts.Items)
	snap, err := loader.Load(opts.Orders, opts.Items)
	if err != nil {
		return fail(formatter, ExitCommandError, "", "failed to load exports", err)
	}
	logger.Info("exports loaded", "orders", len(snap.Orders), "items", len(snap.Items))

	enricher, err := enrich.New(cfg.Timezone,
		enrich.WithClassifier(classifier),
		enrich.WithLogger(logger),
	)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeConfig, "invalid timezone", err)
	}
	tables, err := enricher.Enrich(snap.Orders, snap.Items)
	if err != nil {
		return fail(formatter, ExitCommandError, "", "failed to enrich exports", err)
	}

	analysis := report.Build(tables, report.Options{
		TopProducts: cfg.TopProducts,
		SummaryHead: cfg.SummaryHead,
	})
	logger.Info("analysis built",
		"products", len(analysis.Pareto),
		"categories", len(analysis.TopCategories),
		"customers", len(analysis.RFM),
	)

	files, err := report.Write(cfg.OutputDir, analysis)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeWriteFailed, "failed to write artifacts", err)
	}
	logger.Info("artifacts written", "dir", cfg.OutputDir, "files", len(files))

	result := AnalyzeResult{
		OutputDir: cfg.OutputDir,
		Files:     files,
		Orders:    len(tables.Orders),
		Items:     len(tables.Items),
		KPIs:      analysis.KPIs.Metrics(),
		Segments:  rfm.Distribution(analysis.RFM),
	}

	if st != nil {
		runIDs := opts.RunIDs
		if runIDs == nil {
			runIDs = store.UUIDv7Generator{}
		}
		run := store.Run{
			ID:         runIDs.Generate(),
			CreatedAt:  time.Now().UTC(),
			Orders:     snap.OrdersFile,
			Items:      snap.ItemsFile,
			OrderCount: result.Orders,
			ItemCount:  result.Items,
			Revenue:    analysis.KPIs.TotalRevenue,
			Options:    runOpts,
			OutputDir:  cfg.OutputDir,
		}
		if _, err := st.WriteRun(ctx, run, result.KPIs, analysis.RFM); err != nil {
			return fail(formatter, ExitFailure, ErrCodeStore, "failed to record run", err)
		}
		logger.Info("run recorded", "run", run.ID)
		result.RunID = run.ID
	}

	return formatter.Render(result, func(w io.Writer) error {
		if err := report.WriteOverview(w, analysis); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nWrote %d files to %s\n", len(files), cfg.OutputDir)
		if result.RunID != "" {
			fmt.Fprintf(w, "Run: %s\n", result.RunID)
		}
		return nil
	})
}

// findPriorRun returns the newest run over the same files and options, or
// nil when there is none.
func findPriorRun(ctx context.Context, st *store.Store, ordersPath, itemsPath string, opts store.Options) (*store.Run, error) {
	orders, err := loader.Stat(ordersPath)
	if err != nil {
		return nil, err
	}
	items, err := loader.Stat(itemsPath)
	if err != nil {
		return nil, err
	}

	run, err := st.FindRun(ctx, orders, items, opts)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// sameDir reports whether a and b name the same directory.
func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

func outputReusedRun(ctx context.Context, formatter *OutputFormatter, st *store.Store, run *store.Run) error {
	metrics, err := st.ReadMetrics(ctx, run.ID)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeStore, "failed to read run", err)
	}
	records, err := st.ReadRecords(ctx, run.ID)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeStore, "failed to read run", err)
	}

	result := AnalyzeResult{
		RunID:     run.ID,
		Reused:    true,
		OutputDir: run.OutputDir,
		Orders:    run.OrderCount,
		Items:     run.ItemCount,
		KPIs:      metrics,
		Segments:  rfm.Distribution(records),
	}
	return formatter.Render(result, func(w io.Writer) error {
		fmt.Fprintf(w, "Inputs unchanged since run %s (%s).\n", run.ID, run.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "Artifacts: %s\n", run.OutputDir)
		fmt.Fprintf(w, "Revenue:   %s over %d orders\n", report.COP(run.Revenue), run.OrderCount)
		fmt.Fprintln(w, "Use --force to recompute.")
		return nil
	})
}
