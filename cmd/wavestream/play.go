package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavestream/internal/app"
	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/keymap"
	"github.com/llehouerou/wavestream/internal/stderr"
)

func (c *cli) newPlayCmd() *cobra.Command {
	var fresh bool
	cmd := &cobra.Command{
		Use:   "play [track-id...]",
		Short: "Start the player",
		Long: `Start the terminal player. The saved queue is restored and the given
track IDs are appended to it; playback starts at the first of them.

Keyboard shortcuts:
` + keymap.Help(keymap.ContextGlobal) + `
Queue panel (after tab):
` + keymap.Help(keymap.ContextQueue),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd.Context(), args, fresh)
		},
	}
	cmd.Flags().BoolVar(&fresh, "fresh", false, "start with an empty queue instead of the saved one")
	return cmd
}

func (c *cli) runPlay(ctx context.Context, ids []string, fresh bool) error {
	e, err := c.openEngine(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	capture, err := stderr.Start(e.log)
	if err != nil {
		e.log.Warn().Err(err).Msg("stderr capture unavailable")
	} else {
		defer capture.Stop()
	}

	if !fresh {
		qs, err := e.state.GetQueue()
		switch {
		case err != nil:
			e.log.Warn().Err(err).Msg(string(errmsg.OpQueueLoad))
		case qs != nil:
			e.controller.RestoreQueue(qs.PlaylistTracks(), qs.CurrentIndex)
		}
	}

	start := -1
	if len(ids) > 0 {
		tracks, err := resolveAll(ctx, e.resolver, ids)
		if err != nil {
			return err
		}
		start = len(e.controller.Queue())
		e.controller.AddToQueue(tracks...)
	}

	m := app.New(app.Options{
		Service:    e.controller,
		Saver:      e.state,
		StartIndex: start,
		Logger:     e.log.With().Str("component", "app").Logger(),
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && capture != nil {
		capture.WriteOriginal("wavestream: " + err.Error() + "\n")
	}
	return err
}
