package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/mpdlive/internal/errmsg"
	"github.com/llehouerou/mpdlive/internal/statusline"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the player status once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			s, err := a.newSession(store)
			if err != nil {
				return err
			}
			defer s.Close()

			snap, err := s.ForceRefresh(a.commandContext(cmd))
			if err != nil {
				return userErrorAt(errmsg.OpStatus, a.cfg.Endpoint().Address(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), statusline.Format(snap, a.icons()))
			return nil
		},
	}
}
