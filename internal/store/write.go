package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/orderlens/internal/kpi"
	"github.com/roach88/orderlens/internal/loader"
	"github.com/roach88/orderlens/internal/rfm"
)

// Options are the run settings that change the analysis output. A prior
// run is only reused when its options match. Rules is the signature of the
// rule file, so editing it in place invalidates earlier runs.
type Options struct {
	Timezone    string            `json:"timezone"`
	TopProducts int               `json:"top_products"`
	SummaryHead int               `json:"summary_head,omitempty"`
	Rules       *loader.Signature `json:"rules,omitempty"`
}

// Run is one recorded analyze run.
type Run struct {
	ID         string
	Seq        int64
	CreatedAt  time.Time
	Orders     loader.Signature
	Items      loader.Signature
	OrderCount int
	ItemCount  int
	Revenue    decimal.Decimal
	Options    Options
	OutputDir  string
}

// WriteRun stores a run with its KPI rows and RFM records in a single
// transaction. Returns inserted=false, and writes nothing, if a run with
// the same id already exists.
//
// Seq is assigned by the database and ignored on input.
func (s *Store) WriteRun(ctx context.Context, run Run, metrics []kpi.Metric, records []rfm.Record) (inserted bool, err error) {
	ordersSource, err := marshalSignature(run.Orders)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	itemsSource, err := marshalSignature(run.Items)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	options, err := marshalOptions(run.Options)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, orders_key, items_key, orders_source, items_source,
		 order_count, item_count, revenue, options, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		formatTime(run.CreatedAt),
		run.Orders.Key(),
		run.Items.Key(),
		ordersSource,
		itemsSource,
		run.OrderCount,
		run.ItemCount,
		run.Revenue,
		options,
		run.OutputDir,
	)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := writeMetrics(ctx, tx, run.ID, metrics); err != nil {
		return false, err
	}
	if err := writeRecords(ctx, tx, run.ID, records); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}
	return true, nil
}

func writeMetrics(ctx context.Context, tx *sql.Tx, runID string, metrics []kpi.Metric) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO kpi_metrics (run_id, position, metric, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write metrics: prepare: %w", err)
	}
	defer stmt.Close()

	for i, m := range metrics {
		if _, err := stmt.ExecContext(ctx, runID, i, m.Name, m.Value); err != nil {
			return fmt.Errorf("write metric %s: %w", m.Name, err)
		}
	}
	return nil
}

func writeRecords(ctx context.Context, tx *sql.Tx, runID string, records []rfm.Record) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rfm_records
		(run_id, customer_id, last_purchase, frequency, monetary, recency_days,
		 recency_score, frequency_score, monetary_score, rfm_score, segment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write rfm records: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			runID,
			r.CustomerID,
			formatTime(r.LastPurchase),
			r.Frequency,
			r.Monetary,
			r.RecencyDays,
			r.RecencyScore,
			r.FrequencyScore,
			r.MonetaryScore,
			r.Score,
			r.Segment,
		)
		if err != nil {
			return fmt.Errorf("write rfm record %s: %w", r.CustomerID, err)
		}
	}
	return nil
}

// PruneRuns deletes every run except the newest keep, together with their
// KPI rows and RFM records. Returns the number of runs deleted.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("prune runs: keep must be non-negative, got %d", keep)
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE seq NOT IN (
			SELECT seq FROM runs ORDER BY seq DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return n, nil
}
