package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"stockdata/internal/registry"
	"stockdata/pkg/domain"
)

// newRefreshSP500Cmd creates the refresh-sp500 command.
func newRefreshSP500Cmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-sp500",
		Short: "Refresh the S&P 500 constituent list from Wikipedia",
		Long: `Scrape the current S&P 500 constituents table and write the result to
the groups override file, replacing the embedded sp500 snapshot on the
next run. Symbols are normalized to Yahoo symbology (BRK.B -> BRK-B).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fetcher := registry.NewConstituentFetcher()
			tickers, err := fetcher.FetchSP500(ctx)
			if err != nil {
				return fmt.Errorf("constituent refresh failed: %w", err)
			}

			groups := a.registry.Groups()
			for i := range groups {
				if groups[i].Name == domain.GroupSP500 {
					groups[i].Tickers = tickers
				}
			}

			path := a.cfg.Paths.GroupsFile
			if err := registry.WriteGroupsFile(path, groups); err != nil {
				return err
			}

			a.logger.Info("sp500 constituents refreshed",
				slog.Int("tickers", len(tickers)),
				slog.String("groups_file", path))
			fmt.Printf("Wrote %d S&P 500 tickers to %s\n", len(tickers), path)
			return nil
		},
	}
}
