package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavestream/internal/state"
)

const defaultRecentLimit = 20

func (c *cli) newRecentCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently played tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := state.Open(c.cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open state: %w", err)
			}
			defer st.Close()

			recent, err := st.RecentlyPlayed(limit)
			if err != nil {
				return err
			}
			return printRecent(cmd.OutOrStdout(), recent, time.Now())
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultRecentLimit, "number of tracks to show")
	return cmd
}

func printRecent(w io.Writer, recent []state.RecentTrack, now time.Time) error {
	if len(recent) == 0 {
		_, err := fmt.Fprintln(w, "Nothing played yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYED\tTITLE\tARTIST\tALBUM\tID")
	for _, r := range recent {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			humanize.RelTime(r.PlayedAt, now, "ago", "from now"), r.Title, r.Artist, r.Album, r.TrackID)
	}
	return tw.Flush()
}
