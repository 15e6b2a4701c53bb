package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"stockdata/internal/config"
	"stockdata/pkg/domain"
)

// TickerSummary is one row of a group's summary report.
type TickerSummary struct {
	Symbol    string
	FirstDate string
	LastDate  string
	LastClose string
	Rows      int
}

// SummaryExporter writes per-group summary reports next to the ticker files,
// as CSV and as an Excel workbook.
type SummaryExporter struct {
	paths     *config.Paths
	csvWriter *CSVWriter
}

// NewSummaryExporter creates a new summary exporter.
func NewSummaryExporter(paths *config.Paths) *SummaryExporter {
	return &SummaryExporter{
		paths:     paths,
		csvWriter: NewCSVWriter(),
	}
}

// Summarize builds one summary row per ticker from fetched histories.
func Summarize(histories map[string]domain.History) []TickerSummary {
	summaries := make([]TickerSummary, 0, len(histories))
	for symbol, history := range histories {
		if len(history) == 0 {
			continue
		}
		last := history[len(history)-1]
		summaries = append(summaries, TickerSummary{
			Symbol:    symbol,
			FirstDate: history[0].Date.Format("2006-01-02"),
			LastDate:  last.Date.Format("2006-01-02"),
			LastClose: last.Close.String(),
			Rows:      len(history),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Symbol < summaries[j].Symbol
	})
	return summaries
}

var summaryHeaders = []string{"Symbol", "FirstDate", "LastDate", "LastClose", "Rows"}

// WriteSummaryCSV writes the group summary CSV. The BOM keeps Excel happy
// when the file is opened directly.
func (e *SummaryExporter) WriteSummaryCSV(groupDir string, summaries []TickerSummary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Symbol, s.FirstDate, s.LastDate, s.LastClose, strconv.Itoa(s.Rows),
		})
	}

	filePath := e.paths.SummaryCSVPath(groupDir)
	err := e.csvWriter.WriteCSV(filePath, WriteOptions{
		Headers:   summaryHeaders,
		Records:   records,
		BOMPrefix: true,
	})
	if err != nil {
		return fmt.Errorf("failed to write summary CSV for %s: %w", groupDir, err)
	}
	return nil
}

// WriteSummaryWorkbook writes the group summary as an Excel workbook.
func (e *SummaryExporter) WriteSummaryWorkbook(groupDir string, summaries []TickerSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, header := range summaryHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %s: %w", header, err)
		}
	}

	for row, s := range summaries {
		values := []interface{}{s.Symbol, s.FirstDate, s.LastDate, s.LastClose, s.Rows}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write summary row for %s: %w", s.Symbol, err)
			}
		}
	}

	filePath := e.paths.SummaryWorkbookPath(groupDir)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", filePath, err)
	}
	return nil
}
