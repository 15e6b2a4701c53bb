package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves the filesystem layout for a run. All group output lives
// under DataDir, one directory per group, one CSV per ticker.
type Paths struct {
	DataDir string
	LogsDir string
}

// NewPaths builds a Paths from configuration.
func NewPaths(cfg PathsConfig) *Paths {
	return &Paths{
		DataDir: cfg.DataDir,
		LogsDir: cfg.LogsDir,
	}
}

// GroupDir returns the output directory for a group directory name.
func (p *Paths) GroupDir(groupDir string) string {
	return filepath.Join(p.DataDir, groupDir)
}

// TickerCSVPath returns the per-ticker history file path.
func (p *Paths) TickerCSVPath(groupDir, symbol string) string {
	return filepath.Join(p.DataDir, groupDir, symbol+".csv")
}

// SummaryCSVPath returns the per-group summary file path.
func (p *Paths) SummaryCSVPath(groupDir string) string {
	return filepath.Join(p.DataDir, groupDir, "_summary.csv")
}

// SummaryWorkbookPath returns the per-group Excel summary path.
func (p *Paths) SummaryWorkbookPath(groupDir string) string {
	return filepath.Join(p.DataDir, groupDir, "_summary.xlsx")
}

// LogPath returns a file path inside the logs directory.
func (p *Paths) LogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// EnsureGroupDir creates the output directory for a group if needed.
func (p *Paths) EnsureGroupDir(groupDir string) error {
	dir := p.GroupDir(groupDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create group directory %s: %w", dir, err)
	}
	return nil
}
