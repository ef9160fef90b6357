package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavestream/internal/config"
	"github.com/llehouerou/wavestream/internal/stream"
)

func (c *cli) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  `Print the configuration after merging the config files and applying defaults. Secrets are masked.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printConfig(cmd.OutOrStdout(), c.cfg)
		},
	}
}

func printConfig(w io.Writer, cfg *config.Config) error {
	p := cfg.PlaybackSettings()
	maxBytes := cfg.Stream.MaxBytes
	if maxBytes <= 0 {
		maxBytes = stream.DefaultMaxBytes
	}

	rows := [][2]string{
		{"backend.url", orUnset(cfg.Backend.URL)},
		{"backend.token", mask(cfg.Backend.Token)},
		{"backend.timeout", cfg.BackendTimeout().String()},
		{"stream.cache_dir", orDefault(cfg.Stream.CacheDir)},
		{"stream.max_bytes", humanize.IBytes(uint64(maxBytes))},
		{"stream.s3_region", orUnset(cfg.Stream.S3Region)},
		{"stream.s3_endpoint", orUnset(cfg.Stream.S3Endpoint)},
		{"playback.history_depth", fmt.Sprint(p.HistoryDepth)},
		{"playback.restart_threshold", p.RestartThreshold().String()},
		{"playback.report_timeout", p.ReportTimeout().String()},
		{"log.level", cfg.LogLevel()},
		{"log.file", orDefault(cfg.Log.File)},
		{"database_path", orDefault(cfg.DatabasePath)},
		{"lastfm", enabled(cfg.HasLastfmConfig())},
		{"lyrics.lrclib", enabled(cfg.Lyrics.Lrclib)},
		{"mpris", enabled(cfg.MPRISEnabled())},
		{"notify", enabled(cfg.Notify.Enabled)},
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	return "********"
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
