package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/wavestream/internal/config"
)

type cli struct {
	cfgFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "wavestream",
		Short: "Stream and play tracks from a music backend",
		Long:  `wavestream resolves tracks on a music backend, streams their audio and plays them from a terminal player.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.loadConfig()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (default: ~/.config/wavestream/config.toml then ./config.toml)")

	root.AddCommand(
		c.newPlayCmd(),
		c.newResolveCmd(),
		c.newRecentCmd(),
		c.newConfigCmd(),
		c.newLastfmCmd(),
	)
	return root
}

func (c *cli) loadConfig() error {
	var err error
	if c.cfgFile != "" {
		c.cfg, err = config.LoadFrom(c.cfgFile)
	} else {
		c.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return nil
}
