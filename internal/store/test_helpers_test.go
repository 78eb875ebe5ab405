package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/orderlens/internal/kpi"
	"github.com/roach88/orderlens/internal/loader"
	"github.com/roach88/orderlens/internal/rfm"
	"github.com/roach88/orderlens/internal/testutil"
)

// createTestStore opens a fresh store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testModTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testSignature(path string, size int64) loader.Signature {
	return loader.Signature{Path: path, Size: size, ModTime: testModTime}
}

// createTestRun builds a run over fixed source signatures.
func createTestRun(id string) Run {
	return Run{
		ID:         id,
		CreatedAt:  time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC),
		Orders:     testSignature("/data/orders.csv", 1024),
		Items:      testSignature("/data/items.csv", 2048),
		OrderCount: 3,
		ItemCount:  5,
		Revenue:    decimal.RequireFromString("250000.50"),
		Options:    Options{Timezone: "America/Bogota", TopProducts: 25},
		OutputDir:  "/out",
	}
}

func testMetrics() []kpi.Metric {
	return []kpi.Metric{
		{Name: "total_orders", Value: decimal.NewFromInt(3)},
		{Name: "total_revenue", Value: decimal.RequireFromString("250000.50")},
		{Name: "share_orders_discount", Value: decimal.RequireFromString("0.3333")},
	}
}

func testRecords() []rfm.Record {
	return []rfm.Record{
		{
			CustomerID:     "c2",
			LastPurchase:   testutil.Day(2024, 3, 2, 13),
			Frequency:      1,
			Monetary:       decimal.NewFromInt(50000),
			RecencyDays:    0,
			RecencyScore:   5,
			FrequencyScore: 5,
			MonetaryScore:  3,
			Score:          13,
			Segment:        rfm.SegmentLoyal,
		},
		{
			CustomerID:     "c1",
			LastPurchase:   testutil.Day(2024, 3, 1, 10),
			Frequency:      2,
			Monetary:       decimal.NewFromInt(200000),
			RecencyDays:    1,
			RecencyScore:   3,
			FrequencyScore: 5,
			MonetaryScore:  5,
			Score:          13,
			Segment:        rfm.SegmentLoyal,
		},
	}
}
