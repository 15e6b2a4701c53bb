// Package updater drives one batch run: fetch every ticker in a (possibly
// sharded) group and persist each successful history. A single ticker
// failure never aborts the batch.
package updater

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"stockdata/internal/config"
	"stockdata/internal/exporter"
	"stockdata/internal/fetch"
	"stockdata/internal/infrastructure"
	"stockdata/internal/partition"
	"stockdata/pkg/domain"
)

// Result reports the outcome of one group update.
type Result struct {
	Succeeded []string
	Failed    map[string]error
}

// Updater fetches and persists price histories for ticker groups.
type Updater struct {
	client    fetch.Client
	paths     *config.Paths
	histories *exporter.HistoryExporter
	summaries *exporter.SummaryExporter
	cfg       config.FetchConfig
}

// New creates an updater writing under the given paths.
func New(client fetch.Client, paths *config.Paths, cfg config.FetchConfig) *Updater {
	return &Updater{
		client:    client,
		paths:     paths,
		histories: exporter.NewHistoryExporter(paths),
		summaries: exporter.NewSummaryExporter(paths),
		cfg:       cfg,
	}
}

// UpdateGroup fetches each ticker in the group (or just the shard's slice
// when spec is non-nil) and replaces its history file on success. Per-ticker
// failures are recorded in the result and logged; only an invalid shard spec
// or context cancellation is fatal.
func (u *Updater) UpdateGroup(ctx context.Context, group domain.Group, spec *partition.Spec) (*Result, error) {
	logger := infrastructure.LoggerFromContext(ctx).With(
		slog.String("group", string(group.Name)))

	tickers := group.Tickers
	if spec != nil {
		shard, err := partition.Partition(tickers, *spec)
		if err != nil {
			return nil, err
		}
		logger = logger.With(
			slog.Int("chunk_index", spec.ChunkIndex),
			slog.Int("total_chunks", spec.TotalChunks))
		logger.Info("processing shard",
			slog.Int("shard_size", len(shard)),
			slog.Int("group_size", len(tickers)))
		tickers = shard
	}

	if err := u.paths.EnsureGroupDir(group.Dir); err != nil {
		return nil, err
	}

	result := &Result{Failed: make(map[string]error)}
	fetched := make(map[string]domain.History, len(tickers))
	rng := fetch.MaxRange(u.cfg)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.cfg.Workers)

	for _, symbol := range tickers {
		symbol := symbol
		g.Go(func() error {
			history, err := u.client.History(gctx, symbol, rng)
			if err != nil {
				if gctx.Err() != nil {
					// The run was cancelled; don't count the ticker
					// as a data-provider failure.
					return gctx.Err()
				}
				logger.Warn("ticker fetch failed",
					slog.String("symbol", symbol),
					slog.String("error", err.Error()))
				mu.Lock()
				result.Failed[symbol] = err
				mu.Unlock()
				return nil
			}

			if err := u.histories.WriteHistory(group.Dir, symbol, history); err != nil {
				logger.Warn("ticker write failed",
					slog.String("symbol", symbol),
					slog.String("error", err.Error()))
				mu.Lock()
				result.Failed[symbol] = err
				mu.Unlock()
				return nil
			}

			logger.Info("ticker updated",
				slog.String("symbol", symbol),
				slog.Int("rows", len(history)))
			mu.Lock()
			result.Succeeded = append(result.Succeeded, symbol)
			fetched[symbol] = history
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(result.Succeeded)

	// Summary files cover the whole group, so a shard run skips them:
	// sibling shards own the tickers this worker never saw.
	if spec == nil && len(result.Succeeded) > 0 {
		summaries := exporter.Summarize(fetched)
		if err := u.summaries.WriteSummaryCSV(group.Dir, summaries); err != nil {
			logger.Warn("summary CSV write failed", slog.String("error", err.Error()))
		}
		if err := u.summaries.WriteSummaryWorkbook(group.Dir, summaries); err != nil {
			logger.Warn("summary workbook write failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("group update finished",
		slog.Int("succeeded", len(result.Succeeded)),
		slog.Int("failed", len(result.Failed)))
	return result, nil
}
