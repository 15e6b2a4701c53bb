// Package fetch wraps the Yahoo Finance chart API behind a small client
// interface with rate limiting, bounded retries, and a per-ticker error
// taxonomy.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"golang.org/x/time/rate"

	"stockdata/internal/config"
	"stockdata/internal/infrastructure"
	"stockdata/pkg/domain"
)

// DateRange bounds a history request. End is inclusive of the last trading
// day at or before it.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// MaxRange returns the widest range the configuration allows, ending now.
func MaxRange(cfg config.FetchConfig) DateRange {
	return DateRange{
		Start: cfg.HistoryStartTime(),
		End:   time.Now().UTC(),
	}
}

// Client fetches daily price history for a single ticker.
type Client interface {
	History(ctx context.Context, symbol string, rng DateRange) (domain.History, error)
}

// YahooClient is the production Client backed by the Yahoo Finance chart
// endpoint. Safe for concurrent use; the limiter throttles across goroutines.
type YahooClient struct {
	cfg     config.FetchConfig
	limiter *rate.Limiter
}

// NewYahooClient creates a client honoring the configured rate limit and
// retry policy. The per-call timeout is enforced at the HTTP layer since
// the chart API does not take a context.
func NewYahooClient(cfg config.FetchConfig) *YahooClient {
	finance.SetHTTPClient(&http.Client{Timeout: cfg.Timeout})
	return &YahooClient{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// History fetches the daily bars for symbol within rng. The returned history
// is strictly increasing by date with no duplicates. An empty provider
// result maps to ErrNotFound so callers treat it as a per-ticker failure.
func (c *YahooClient) History(ctx context.Context, symbol string, rng DateRange) (domain.History, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	var history domain.History
	attempt := 0
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		bars, err := c.fetchOnce(ctx, symbol, rng)
		if err == nil {
			history = bars
			break
		}

		err = classify(symbol, err)
		if !Retryable(err) || attempt >= c.cfg.MaxRetries {
			return nil, err
		}

		delay := backoffDelay(c.cfg, attempt)
		logger.Warn("retrying fetch",
			slog.String("symbol", symbol),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, err
		}
		attempt++
	}

	if len(history) == 0 {
		return nil, fmt.Errorf("%w: %s: provider returned no rows", ErrNotFound, symbol)
	}

	history = normalizeHistory(history)
	if err := history.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTransient, symbol, err)
	}
	return history, nil
}

// fetchOnce performs a single chart request.
func (c *YahooClient) fetchOnce(ctx context.Context, symbol string, rng DateRange) (domain.History, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := rng.Start
	end := rng.End
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	var history domain.History
	for iter.Next() {
		bar := iter.Bar()
		history = append(history, domain.PriceRecord{
			Date:     dateOf(time.Unix(int64(bar.Timestamp), 0)),
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			AdjClose: bar.AdjClose,
			Volume:   int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

// normalizeHistory sorts by date and collapses duplicate dates, keeping the
// last bar the provider reported for a day.
func normalizeHistory(history domain.History) domain.History {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})

	out := history[:0]
	for _, rec := range history {
		if n := len(out); n > 0 && out[n-1].Date.Equal(rec.Date) {
			out[n-1] = rec
			continue
		}
		out = append(out, rec)
	}
	return out
}

// dateOf strips the time component, keeping the provider's trading day.
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// backoffDelay computes the exponential backoff delay for an attempt.
func backoffDelay(cfg config.FetchConfig, attempt int) time.Duration {
	delay := cfg.RetryBaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= cfg.RetryMaxDelay {
			return cfg.RetryMaxDelay
		}
	}
	if delay > cfg.RetryMaxDelay {
		delay = cfg.RetryMaxDelay
	}
	return delay
}

// sleepCtx sleeps for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
