package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/wavestream/internal/lastfm"
)

const authTimeout = 5 * time.Minute

func (c *cli) newLastfmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lastfm",
		Short: "Last.fm integration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "auth",
		Short: "Authorize wavestream and print a session key",
		Long: `Open the Last.fm authorization page and wait for the callback. The
printed session key goes under [lastfm] session_key in config.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg.Lastfm.APIKey == "" || c.cfg.Lastfm.APISecret == "" {
				return errors.New("set [lastfm] api_key and api_secret first")
			}
			client := lastfm.New(c.cfg.Lastfm.APIKey, c.cfg.Lastfm.APISecret)

			srv, err := lastfm.StartAuthServer(fmt.Sprintf("127.0.0.1:%d", lastfm.AuthCallbackPort))
			if err != nil {
				return err
			}
			defer srv.Shutdown()

			token, err := client.GetToken()
			if err != nil {
				return err
			}
			url := client.GetAuthURL(token, srv.CallbackURL())
			out := cmd.OutOrStdout()
			if err := lastfm.OpenBrowser(url); err != nil {
				fmt.Fprintf(out, "Open this URL to authorize wavestream:\n  %s\n", url)
			} else {
				fmt.Fprintln(out, "Waiting for authorization in the browser...")
			}

			authorized, err := srv.WaitForToken(cmd.Context(), authTimeout)
			if err != nil {
				return err
			}
			user, key, err := client.GetSession(authorized)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Authorized as %s.\n\n[lastfm]\nsession_key = %q\n", user, key)
			return nil
		},
	})
	return cmd
}
