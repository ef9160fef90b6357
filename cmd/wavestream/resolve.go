package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavestream/internal/playlist"
)

func (c *cli) newResolveCmd() *cobra.Command {
	var showLyrics bool
	cmd := &cobra.Command{
		Use:   "resolve <track-id>...",
		Short: "Print track metadata",
		Long:  `Resolve track IDs on the backend and print their metadata.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.openBackend()
			if err != nil {
				return err
			}
			tracks, err := resolveAll(cmd.Context(), c.newResolver(client, zerolog.Nop()), args)
			if err != nil {
				return err
			}
			for i, t := range tracks {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				printTrack(cmd.OutOrStdout(), t, showLyrics)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showLyrics, "lyrics", "l", false, "print lyrics when available")
	return cmd
}

func printTrack(w io.Writer, t playlist.Track, showLyrics bool) {
	fmt.Fprintf(w, "ID:       %s\n", t.ID)
	fmt.Fprintf(w, "Title:    %s\n", t.Title)
	if t.Artist != "" {
		fmt.Fprintf(w, "Artist:   %s\n", t.Artist)
	}
	if t.Album != "" {
		fmt.Fprintf(w, "Album:    %s\n", t.Album)
	}
	if t.Duration > 0 {
		fmt.Fprintf(w, "Duration: %s\n", formatDuration(t.Duration))
	}
	if t.ArtworkURL != "" {
		fmt.Fprintf(w, "Artwork:  %s\n", t.ArtworkURL)
	}
	switch {
	case t.Lyrics == "":
	case showLyrics:
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(t.Lyrics))
	default:
		fmt.Fprintln(w, "Lyrics:   available (--lyrics)")
	}
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
