package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdata/internal/config"
	"stockdata/internal/fetch"
	"stockdata/internal/partition"
	"stockdata/pkg/domain"
)

// fakeClient serves a canned two-row history for every symbol except the
// ones it is told to fail.
type fakeClient struct {
	fail map[string]error
}

func (f *fakeClient) History(ctx context.Context, symbol string, rng fetch.DateRange) (domain.History, error) {
	if err, ok := f.fail[symbol]; ok {
		return nil, err
	}
	open := decimal.NewFromFloat(100)
	return domain.History{
		{
			Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Open:     open,
			High:     open,
			Low:      open,
			Close:    open,
			AdjClose: open,
			Volume:   1000,
		},
		{
			Date:     time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
			Open:     open,
			High:     open,
			Low:      open,
			Close:    open,
			AdjClose: open,
			Volume:   2000,
		},
	}, nil
}

func mag7Group() domain.Group {
	return domain.Group{
		Name:        domain.GroupMag7,
		Dir:         "MAG7",
		Description: "test group",
		Tickers:     []string{"AAPL", "AMZN", "GOOGL", "META", "MSFT", "NFLX", "TSLA"},
	}
}

func testConfig() config.FetchConfig {
	cfg := config.Default().Fetch
	cfg.Workers = 2
	return cfg
}

func TestUpdateGroup_SingleFailureDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{DataDir: dir, LogsDir: dir})

	client := &fakeClient{fail: map[string]error{
		"TSLA": fmt.Errorf("%w: TSLA: boom", fetch.ErrTransient),
	}}
	u := New(client, paths, testConfig())

	result, err := u.UpdateGroup(context.Background(), mag7Group(), nil)
	require.NoError(t, err, "per-ticker failures must not escape the updater")

	assert.Len(t, result.Succeeded, 6)
	assert.NotContains(t, result.Succeeded, "TSLA")
	require.Len(t, result.Failed, 1)
	assert.ErrorIs(t, result.Failed["TSLA"], fetch.ErrTransient)

	entries, err := os.ReadDir(paths.GroupDir("MAG7"))
	require.NoError(t, err)
	var csvFiles []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".csv" && e.Name() != "_summary.csv" {
			csvFiles = append(csvFiles, e.Name())
		}
	}
	assert.Len(t, csvFiles, 6, "exactly one file per succeeded ticker")
	assert.NoFileExists(t, paths.TickerCSVPath("MAG7", "TSLA"))
}

func TestUpdateGroup_FailedTickerKeepsStaleFile(t *testing.T) {
	dir := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{DataDir: dir, LogsDir: dir})
	require.NoError(t, paths.EnsureGroupDir("MAG7"))

	stale := paths.TickerCSVPath("MAG7", "TSLA")
	require.NoError(t, os.WriteFile(stale, []byte("Date,Open\n2023-01-02,1\n"), 0o644))

	client := &fakeClient{fail: map[string]error{
		"TSLA": fmt.Errorf("%w: TSLA", fetch.ErrRateLimited),
	}}
	u := New(client, paths, testConfig())

	_, err := u.UpdateGroup(context.Background(), mag7Group(), nil)
	require.NoError(t, err)

	content, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Contains(t, string(content), "2023-01-02", "stale data preferred over missing")
}

func TestUpdateGroup_ShardProcessesOnlyItsSlice(t *testing.T) {
	dir := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{DataDir: dir, LogsDir: dir})

	u := New(&fakeClient{}, paths, testConfig())
	group := mag7Group()

	spec := &partition.Spec{ChunkIndex: 1, TotalChunks: 2}
	result, err := u.UpdateGroup(context.Background(), group, spec)
	require.NoError(t, err)

	expected, err := partition.Partition(group.Tickers, *spec)
	require.NoError(t, err)
	assert.Equal(t, expected, result.Succeeded)

	// First-shard tickers stay untouched.
	assert.NoFileExists(t, paths.TickerCSVPath("MAG7", "AAPL"))
	assert.FileExists(t, paths.TickerCSVPath("MAG7", "TSLA"))
}

func TestUpdateGroup_ShardSkipsGroupSummary(t *testing.T) {
	dir := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{DataDir: dir, LogsDir: dir})

	u := New(&fakeClient{}, paths, testConfig())

	spec := &partition.Spec{ChunkIndex: 0, TotalChunks: 2}
	_, err := u.UpdateGroup(context.Background(), mag7Group(), spec)
	require.NoError(t, err)

	assert.NoFileExists(t, paths.SummaryCSVPath("MAG7"))
	assert.NoFileExists(t, paths.SummaryWorkbookPath("MAG7"))
}

func TestUpdateGroup_FullRunWritesSummary(t *testing.T) {
	dir := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{DataDir: dir, LogsDir: dir})

	u := New(&fakeClient{}, paths, testConfig())

	_, err := u.UpdateGroup(context.Background(), mag7Group(), nil)
	require.NoError(t, err)

	assert.FileExists(t, paths.SummaryCSVPath("MAG7"))
	assert.FileExists(t, paths.SummaryWorkbookPath("MAG7"))
}

func TestUpdateGroup_InvalidShardSpecIsFatal(t *testing.T) {
	dir := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{DataDir: dir, LogsDir: dir})

	u := New(&fakeClient{}, paths, testConfig())

	spec := &partition.Spec{ChunkIndex: 5, TotalChunks: 2}
	_, err := u.UpdateGroup(context.Background(), mag7Group(), spec)
	require.Error(t, err)
	assert.ErrorIs(t, err, partition.ErrInvalidChunkSpec)
}

func TestUpdateGroup_AllTickersFail(t *testing.T) {
	dir := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{DataDir: dir, LogsDir: dir})

	group := mag7Group()
	fail := make(map[string]error, len(group.Tickers))
	for _, symbol := range group.Tickers {
		fail[symbol] = fmt.Errorf("%w: %s", fetch.ErrNotFound, symbol)
	}
	u := New(&fakeClient{fail: fail}, paths, testConfig())

	result, err := u.UpdateGroup(context.Background(), group, nil)
	require.NoError(t, err, "a fully failed batch is still not a fatal error")
	assert.Empty(t, result.Succeeded)
	assert.Len(t, result.Failed, len(group.Tickers))
	assert.NoFileExists(t, paths.SummaryCSVPath("MAG7"))
}
