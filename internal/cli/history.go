package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/orderlens/internal/report"
	"github.com/roach88/orderlens/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Keep     int
}

// RunSummary is one history entry.
type RunSummary struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	OrdersFile string    `json:"orders_file"`
	ItemsFile  string    `json:"items_file"`
	Orders     int       `json:"orders"`
	Items      int       `json:"items"`
	Revenue    string    `json:"revenue"`
	Timezone   string    `json:"timezone"`
	OutputDir  string    `json:"output_dir"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analyze runs",
		Long: `List analyze runs recorded in the run history database, newest first.

Example:
  orderlens history --db runs.db --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 = all)")
	cmd.Flags().IntVar(&opts.Keep, "keep", 0, "delete all but the newest N runs before listing")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := setupLogging(cmd.ErrOrStderr(), opts.Verbose)

	st, err := store.Open(opts.Database, store.WithLogger(logger))
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	if cmd.Flags().Changed("keep") {
		pruned, err := st.PruneRuns(ctx, opts.Keep)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeStore, "failed to prune runs", err)
		}
		logger.Info("runs pruned", "deleted", pruned, "kept", opts.Keep)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeStore, "failed to list runs", err)
	}

	summaries := make([]RunSummary, len(runs))
	for i, r := range runs {
		summaries[i] = RunSummary{
			ID:         r.ID,
			CreatedAt:  r.CreatedAt,
			OrdersFile: r.Orders.Path,
			ItemsFile:  r.Items.Path,
			Orders:     r.OrderCount,
			Items:      r.ItemCount,
			Revenue:    r.Revenue.String(),
			Timezone:   r.Options.Timezone,
			OutputDir:  r.OutputDir,
		}
	}

	return formatter.Render(summaries, func(w io.Writer) error {
		if len(summaries) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return nil
		}
		for i, s := range summaries {
			fmt.Fprintf(w, "%s  %s  %d orders  %d items  %s\n",
				s.ID, s.CreatedAt.Format(time.RFC3339), s.Orders, s.Items, report.COP(runs[i].Revenue))
		}
		return nil
	})
}
