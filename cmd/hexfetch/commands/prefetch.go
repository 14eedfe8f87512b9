package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newPrefetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prefetch",
		Short: "Warm the archive cache for stale packages without checking out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Prefetch(cmd.Context())
		},
	}
}
