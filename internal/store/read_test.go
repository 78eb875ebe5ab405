package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := createTestRun("run-1")

	_, err := s.WriteRun(ctx, want, testMetrics(), testRecords())
	require.NoError(t, err)

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, int64(1), got.Seq)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, want.Orders.Key(), got.Orders.Key())
	assert.Equal(t, want.Items.Key(), got.Items.Key())
	assert.Equal(t, 3, got.OrderCount)
	assert.Equal(t, 5, got.ItemCount)
	assert.Equal(t, "250000.5", got.Revenue.String())
	assert.Equal(t, want.Options, got.Options)
	assert.Equal(t, "/out", got.OutputDir)
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFindRun_MatchesUnchangedSources(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun("run-1")

	_, err := s.WriteRun(ctx, run, testMetrics(), nil)
	require.NoError(t, err)

	found, err := s.FindRun(ctx, run.Orders, run.Items, run.Options)
	require.NoError(t, err)
	assert.Equal(t, "run-1", found.ID)
}

func TestFindRun_ChangedInputsMiss(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun("run-1")

	_, err := s.WriteRun(ctx, run, testMetrics(), nil)
	require.NoError(t, err)

	grown := testSignature("/data/orders.csv", 4096)
	_, err = s.FindRun(ctx, grown, run.Items, run.Options)
	assert.ErrorIs(t, err, ErrNotFound)

	opts := run.Options
	opts.TopProducts = 10
	_, err = s.FindRun(ctx, run.Orders, run.Items, opts)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindRun_EditedRulesMiss(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun("run-1")
	rules := testSignature("/data/rules.yaml", 512)
	run.Options.Rules = &rules

	_, err := s.WriteRun(ctx, run, nil, nil)
	require.NoError(t, err)

	found, err := s.FindRun(ctx, run.Orders, run.Items, run.Options)
	require.NoError(t, err)
	require.NotNil(t, found.Options.Rules)
	assert.Equal(t, rules.Key(), found.Options.Rules.Key())

	edited := rules
	edited.ModTime = edited.ModTime.Add(time.Second)
	opts := run.Options
	opts.Rules = &edited
	_, err = s.FindRun(ctx, run.Orders, run.Items, opts)
	assert.ErrorIs(t, err, ErrNotFound)

	opts.Rules = nil
	_, err = s.FindRun(ctx, run.Orders, run.Items, opts)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindRun_ReturnsNewest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"run-1", "run-2"} {
		_, err := s.WriteRun(ctx, createTestRun(id), nil, nil)
		require.NoError(t, err)
	}

	run := createTestRun("")
	found, err := s.FindRun(ctx, run.Orders, run.Items, run.Options)
	require.NoError(t, err)
	assert.Equal(t, "run-2", found.ID)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)

	for _, id := range []string{"run-a", "run-b", "run-c"} {
		_, err := s.WriteRun(ctx, createTestRun(id), nil, nil)
		require.NoError(t, err)
	}

	runs, err = s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-a", runs[2].ID)

	runs, err = s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[1].ID)
}

func TestReadMetrics_PreservesOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, createTestRun("run-1"), testMetrics(), nil)
	require.NoError(t, err)

	metrics, err := s.ReadMetrics(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, metrics, 3)
	assert.Equal(t, "total_orders", metrics[0].Name)
	assert.Equal(t, "total_revenue", metrics[1].Name)
	assert.Equal(t, "250000.5", metrics[1].Value.String())
	assert.Equal(t, "0.3333", metrics[2].Value.String())
}

func TestReadRecords_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := testRecords()

	_, err := s.WriteRun(ctx, createTestRun("run-1"), nil, want)
	require.NoError(t, err)

	got, err := s.ReadRecords(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by customer id
	assert.Equal(t, "c1", got[0].CustomerID)
	assert.Equal(t, "c2", got[1].CustomerID)
	assert.True(t, want[1].LastPurchase.Equal(got[0].LastPurchase))
	assert.Equal(t, "200000", got[0].Monetary.String())
	assert.Equal(t, 2, got[0].Frequency)
	assert.Equal(t, 13, got[0].Score)
	assert.Equal(t, want[1].Segment, got[0].Segment)
}
