package main

import (
	"fmt"

	"github.com/flanksource/informe/chart"
	"github.com/spf13/cobra"
)

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the chart image cache",
	}

	withCache := func(fn func(cmd *cobra.Command, c *chart.Cache) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			c, err := chart.OpenCache(a.cfg.Cache)
			if err != nil {
				return err
			}
			defer c.Close()
			return fn(cmd, c)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show the number of cached charts and hits",
		Args:  cobra.NoArgs,
		RunE: withCache(func(cmd *cobra.Command, c *chart.Cache) error {
			stats, err := c.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "entries: %d\nhits:    %d\nbytes:   %d\n", stats.Entries, stats.Hits, stats.Bytes)
			return nil
		}),
	}, &cobra.Command{
		Use:   "prune",
		Short: "Remove expired charts",
		Args:  cobra.NoArgs,
		RunE: withCache(func(cmd *cobra.Command, c *chart.Cache) error {
			n, err := c.Prune()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired charts\n", n)
			return nil
		}),
	}, &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached chart",
		Args:  cobra.NoArgs,
		RunE: withCache(func(cmd *cobra.Command, c *chart.Cache) error {
			if err := c.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "chart cache cleared")
			return nil
		}),
	})
	return cmd
}
