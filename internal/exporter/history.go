// Package exporter persists fetched price data: one CSV history file per
// ticker plus per-group summary reports.
package exporter

import (
	"fmt"
	"log/slog"
	"strconv"

	"stockdata/internal/config"
	"stockdata/pkg/domain"
)

// historyHeaders is the fixed column set of a per-ticker history file.
var historyHeaders = []string{"Date", "Open", "High", "Low", "Close", "AdjClose", "Volume"}

// HistoryExporter writes per-ticker price history files.
type HistoryExporter struct {
	paths     *config.Paths
	csvWriter *CSVWriter
}

// NewHistoryExporter creates a new history exporter.
func NewHistoryExporter(paths *config.Paths) *HistoryExporter {
	return &HistoryExporter{
		paths:     paths,
		csvWriter: NewCSVWriter(),
	}
}

// WriteHistory replaces the history file for one ticker. The previous file,
// if any, survives untouched when the write fails.
func (e *HistoryExporter) WriteHistory(groupDir, symbol string, history domain.History) error {
	if err := history.Validate(); err != nil {
		return fmt.Errorf("refusing to write %s: %w", symbol, err)
	}

	records := make([][]string, 0, len(history))
	for _, rec := range history {
		records = append(records, recordToCSVRow(rec))
	}

	filePath := e.paths.TickerCSVPath(groupDir, symbol)
	if err := e.csvWriter.WriteSimpleCSV(filePath, historyHeaders, records); err != nil {
		return fmt.Errorf("failed to write history for %s: %w", symbol, err)
	}

	slog.Debug("wrote ticker history",
		slog.String("symbol", symbol),
		slog.String("file_path", filePath),
		slog.Int("rows", len(history)))
	return nil
}

// recordToCSVRow converts a price record to a history CSV row.
func recordToCSVRow(rec domain.PriceRecord) []string {
	return []string{
		rec.Date.Format("2006-01-02"),
		rec.Open.String(),
		rec.High.String(),
		rec.Low.String(),
		rec.Close.String(),
		rec.AdjClose.String(),
		strconv.FormatInt(rec.Volume, 10),
	}
}
