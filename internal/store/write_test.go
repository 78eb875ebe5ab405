package store

import (
	"context"
	"testing"
)

func TestWriteRun_Basic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	inserted, err := s.WriteRun(ctx, createTestRun("run-1"), testMetrics(), testRecords())
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	if !inserted {
		t.Fatal("WriteRun() reported no insert for a new run")
	}

	var runs, metrics, records int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&runs); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM kpi_metrics WHERE run_id = 'run-1'").Scan(&metrics); err != nil {
		t.Fatalf("count metrics: %v", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM rfm_records WHERE run_id = 'run-1'").Scan(&records); err != nil {
		t.Fatalf("count records: %v", err)
	}
	if runs != 1 || metrics != 3 || records != 2 {
		t.Errorf("counts = (%d, %d, %d), want (1, 3, 2)", runs, metrics, records)
	}
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.WriteRun(ctx, createTestRun("run-1"), testMetrics(), testRecords()); err != nil {
		t.Fatalf("first WriteRun() failed: %v", err)
	}

	inserted, err := s.WriteRun(ctx, createTestRun("run-1"), testMetrics(), testRecords())
	if err != nil {
		t.Fatalf("second WriteRun() failed: %v", err)
	}
	if inserted {
		t.Error("second WriteRun() with the same id should not insert")
	}

	var metrics int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM kpi_metrics").Scan(&metrics); err != nil {
		t.Fatalf("count metrics: %v", err)
	}
	if metrics != 3 {
		t.Errorf("metrics = %d, want 3", metrics)
	}
}

func TestWriteRun_DuplicateMetricRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	metrics := append(testMetrics(), testMetrics()[0])
	if _, err := s.WriteRun(ctx, createTestRun("run-1"), metrics, nil); err == nil {
		t.Fatal("expected error for duplicate metric name")
	}

	var runs int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&runs); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if runs != 0 {
		t.Errorf("runs = %d after failed write, want 0", runs)
	}
}

func TestPruneRuns_KeepsNewest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"run-1", "run-2", "run-3"} {
		if _, err := s.WriteRun(ctx, createTestRun(id), testMetrics(), testRecords()); err != nil {
			t.Fatalf("WriteRun(%s) failed: %v", id, err)
		}
	}

	deleted, err := s.PruneRuns(ctx, 1)
	if err != nil {
		t.Fatalf("PruneRuns() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	var id string
	if err := s.db.QueryRow("SELECT id FROM runs").Scan(&id); err != nil {
		t.Fatalf("read remaining run: %v", err)
	}
	if id != "run-3" {
		t.Errorf("remaining run = %s, want run-3", id)
	}

	// Child rows cascade with their run
	var metrics, records int
	s.db.QueryRow("SELECT COUNT(*) FROM kpi_metrics").Scan(&metrics)
	s.db.QueryRow("SELECT COUNT(*) FROM rfm_records").Scan(&records)
	if metrics != 3 || records != 2 {
		t.Errorf("child rows = (%d, %d), want (3, 2)", metrics, records)
	}
}

func TestPruneRuns_Negative(t *testing.T) {
	s := createTestStore(t)
	if _, err := s.PruneRuns(context.Background(), -1); err == nil {
		t.Error("expected error for negative keep")
	}
}
