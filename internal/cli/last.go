package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/mpdlive/internal/errmsg"
	"github.com/llehouerou/mpdlive/internal/statusline"
)

func newLastCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Print the last song watch saw on this player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			seen, err := store.GetLastSeen(a.cfg.PlayerName())
			if err != nil {
				return userError(errmsg.OpLastSeen, err)
			}
			if seen == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing seen yet")
				return nil
			}
			title := seen.Title
			if title == "" {
				title = seen.File
			}
			fmt.Fprintln(cmd.OutOrStdout(), statusline.LastSeen(seen.Artist, title, seen.At, a.now()))
			return nil
		},
	}
}

func newForgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Remove the stored curve and history for this player",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ForgetPlayer(a.cfg.PlayerName()); err != nil {
				return userError(errmsg.OpForget, err)
			}
			return nil
		},
	}
}
