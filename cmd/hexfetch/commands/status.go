package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how each locked package compares to its checkout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := c.app.Statuses()
			if err != nil {
				return err
			}

			for _, s := range statuses {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s %s (%s)\n", s.App, s.Name, s.Version, s.Status)
			}
			return nil
		},
	}
}
