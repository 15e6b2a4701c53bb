package cli

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"stockdata/internal/fetch"
	"stockdata/internal/partition"
	"stockdata/internal/readme"
	"stockdata/internal/updater"
	"stockdata/pkg/domain"
)

// newUpdateCmd creates the update command.
func newUpdateCmd(a *app) *cobra.Command {
	var (
		groupName   string
		chunkIndex  int
		totalChunks int
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch and persist price history for one ticker group",
		Long: `Fetch daily price history for every ticker in a group and replace each
ticker's CSV file. With --chunk-index and --total-chunks the invocation
only processes its shard of the group, so parallel CI jobs can split the
work. Individual ticker failures are logged and skipped; they do not
affect the exit status.`,
		Example: `  stockdata update --group mag7
  stockdata update --group sp500 --chunk-index 2 --total-chunks 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var spec *partition.Spec
			indexSet := cmd.Flags().Changed("chunk-index")
			totalSet := cmd.Flags().Changed("total-chunks")
			if indexSet != totalSet {
				return fmt.Errorf("--chunk-index and --total-chunks must be used together")
			}
			if indexSet {
				spec = &partition.Spec{ChunkIndex: chunkIndex, TotalChunks: totalChunks}
				if err := spec.Validate(); err != nil {
					return err
				}
			}

			group, err := a.registry.Group(domain.GroupName(groupName))
			if err != nil {
				return err
			}

			client := fetch.NewYahooClient(a.cfg.Fetch)
			u := updater.New(client, a.paths, a.cfg.Fetch)

			result, err := u.UpdateGroup(ctx, group, spec)
			if err != nil {
				return err
			}
			printSummary(result)

			// The original pipeline refreshed the README after every
			// batch; rendering depends only on the clock, not on fetch
			// outcomes.
			if err := readme.Write(a.cfg.Paths.ReadmePath, time.Now(), a.registry.Groups()); err != nil {
				a.logger.Warn("readme update failed", slog.String("error", err.Error()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&groupName, "group", "", "ticker group to update (sp500|hangseng|mag7|indexes)")
	cmd.Flags().IntVar(&chunkIndex, "chunk-index", 0, "index of the chunk to process (for matrix jobs)")
	cmd.Flags().IntVar(&totalChunks, "total-chunks", 0, "total number of chunks (for matrix jobs)")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}

// printSummary emits the user-facing succeeded/failed recap on stdout.
func printSummary(result *updater.Result) {
	fmt.Printf("Updated %d tickers, %d failed\n", len(result.Succeeded), len(result.Failed))
	if len(result.Failed) == 0 {
		return
	}
	failed := make([]string, 0, len(result.Failed))
	for symbol := range result.Failed {
		failed = append(failed, symbol)
	}
	sort.Strings(failed)
	for _, symbol := range failed {
		fmt.Printf("  %s: %v\n", symbol, result.Failed[symbol])
	}
}
