package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/orderlens/internal/kpi"
	"github.com/roach88/orderlens/internal/loader"
	"github.com/roach88/orderlens/internal/rfm"
)

// ErrNotFound is returned when no run matches a lookup.
var ErrNotFound = errors.New("run not found")

const runColumns = `seq, id, created_at, orders_source, items_source,
	order_count, item_count, revenue, options, output_dir`

// ReadRun returns the run with the given id, or ErrNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// FindRun returns the most recent run over the same source signatures and
// options. Returns ErrNotFound when the inputs have not been analyzed.
func (s *Store) FindRun(ctx context.Context, orders, items loader.Signature, opts Options) (Run, error) {
	options, err := marshalOptions(opts)
	if err != nil {
		return Run{}, fmt.Errorf("find run: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE orders_key = ? AND items_key = ? AND options = ?
		ORDER BY seq DESC
		LIMIT 1
	`, orders.Key(), items.Key(), options)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("find run: %w", ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("find run: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns
// every run.
//
// Returns an empty slice (not nil) if the store has no runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadMetrics returns the KPI rows of a run in their original order.
func (s *Store) ReadMetrics(ctx context.Context, runID string) ([]kpi.Metric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT metric, value
		FROM kpi_metrics
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	metrics := []kpi.Metric{}
	for rows.Next() {
		var m kpi.Metric
		if err := rows.Scan(&m.Name, &m.Value); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics: %w", err)
	}
	return metrics, nil
}

// ReadRecords returns the RFM records of a run ordered by customer id.
func (s *Store) ReadRecords(ctx context.Context, runID string) ([]rfm.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_id, last_purchase, frequency, monetary, recency_days,
		       recency_score, frequency_score, monetary_score, rfm_score, segment
		FROM rfm_records
		WHERE run_id = ?
		ORDER BY customer_id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query rfm records: %w", err)
	}
	defer rows.Close()

	records := []rfm.Record{}
	for rows.Next() {
		var (
			r            rfm.Record
			lastPurchase string
		)
		err := rows.Scan(
			&r.CustomerID,
			&lastPurchase,
			&r.Frequency,
			&r.Monetary,
			&r.RecencyDays,
			&r.RecencyScore,
			&r.FrequencyScore,
			&r.MonetaryScore,
			&r.Score,
			&r.Segment,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rfm record: %w", err)
		}
		if r.LastPurchase, err = parseTime(lastPurchase); err != nil {
			return nil, fmt.Errorf("scan rfm record %s: %w", r.CustomerID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rfm records: %w", err)
	}
	return records, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run                       Run
		createdAt                 string
		ordersSource, itemsSource string
		options                   string
	)
	err := row.Scan(
		&run.Seq,
		&run.ID,
		&createdAt,
		&ordersSource,
		&itemsSource,
		&run.OrderCount,
		&run.ItemCount,
		&run.Revenue,
		&options,
		&run.OutputDir,
	)
	if err != nil {
		return Run{}, err
	}

	if run.CreatedAt, err = parseTime(createdAt); err != nil {
		return Run{}, err
	}
	if run.Orders, err = unmarshalSignature(ordersSource); err != nil {
		return Run{}, err
	}
	if run.Items, err = unmarshalSignature(itemsSource); err != nil {
		return Run{}, err
	}
	if run.Options, err = unmarshalOptions(options); err != nil {
		return Run{}, err
	}
	return run, nil
}
