package cli

import (
	"time"

	"github.com/spf13/cobra"

	"stockdata/internal/readme"
)

// newReadmeCmd creates the readme command.
func newReadmeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "readme",
		Short: "Regenerate the status README without fetching any data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return readme.Write(a.cfg.Paths.ReadmePath, time.Now(), a.registry.Groups())
		},
	}
}
