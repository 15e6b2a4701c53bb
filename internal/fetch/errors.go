package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Per-ticker failure taxonomy. The updater records these and moves on; none
// of them aborts a batch.
var (
	// ErrNotFound means the provider has no data for the symbol (delisted
	// or unknown), including an empty result set.
	ErrNotFound = errors.New("ticker not found")
	// ErrRateLimited means the provider rejected the call for throttling
	// reasons.
	ErrRateLimited = errors.New("rate limited by provider")
	// ErrTransient covers network failures and provider hiccups that are
	// worth retrying.
	ErrTransient = errors.New("transient provider error")
)

// Retryable reports whether a classified error may succeed on retry.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}

// classify maps a raw provider error onto the taxonomy. Context
// cancellation passes through untouched so callers can tell a killed run
// from a provider failure.
func classify(symbol string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found") ||
		strings.Contains(msg, "no data") ||
		strings.Contains(msg, "404"):
		return fmt.Errorf("%w: %s: %v", ErrNotFound, symbol, err)
	case strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429"):
		return fmt.Errorf("%w: %s: %v", ErrRateLimited, symbol, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrTransient, symbol, err)
	}
}
