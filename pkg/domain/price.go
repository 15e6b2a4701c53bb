package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord is one daily OHLCV row for a ticker. Date carries no time
// component; prices are decimals to avoid float drift in exported files.
type PriceRecord struct {
	Date     time.Time       `json:"date"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	AdjClose decimal.Decimal `json:"adj_close"`
	Volume   int64           `json:"volume"`
}

// History is a ticker's full daily price history, ordered by date ascending
// with no duplicate dates.
type History []PriceRecord

// Validate reports the first ordering violation in the history, if any.
func (h History) Validate() error {
	for i := 1; i < len(h); i++ {
		if !h[i-1].Date.Before(h[i].Date) {
			return &OrderingError{
				Index: i,
				Prev:  h[i-1].Date,
				Curr:  h[i].Date,
			}
		}
	}
	return nil
}

// OrderingError indicates a history that is not strictly increasing by date.
type OrderingError struct {
	Index int
	Prev  time.Time
	Curr  time.Time
}

func (e *OrderingError) Error() string {
	return "price history out of order at row " + e.Curr.Format("2006-01-02") +
		" (previous row " + e.Prev.Format("2006-01-02") + ")"
}
