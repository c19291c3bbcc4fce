package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/llehouerou/mpdlive/internal/errmsg"
	"github.com/llehouerou/mpdlive/internal/status"
)

func newCurveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Manage the stored volume curve for this player",
		Long: `A volume curve factor between 0 and 1 makes the volume linear to the ear
for players whose mixer is not. player.volume_curve in the config file
takes precedence over the stored value.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the effective curve and where it comes from",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Close()

				curve, source, err := resolveCurve(a.cfg, store)
				if err != nil {
					return userError(errmsg.OpCurveLoad, err)
				}
				if !curve.Enabled() {
					fmt.Fprintln(cmd.OutOrStdout(), "none")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%g (%s)\n", float64(curve), source)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <factor>",
			Short: "Store a curve factor for this player",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return userError(errmsg.OpCurveSave, fmt.Errorf("factor %q is not a number", args[0]))
				}

				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Close()

				if err := store.SetCurve(a.cfg.PlayerName(), status.Curve(v)); err != nil {
					return userError(errmsg.OpCurveSave, err)
				}
				if a.cfg.HasVolumeCurve() {
					fmt.Fprintln(cmd.ErrOrStderr(), "note: player.volume_curve in the config file overrides the stored value")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget the stored curve for this player",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Close()

				removed, err := store.ClearCurve(a.cfg.PlayerName())
				if err != nil {
					return userError(errmsg.OpCurveClear, err)
				}
				if !removed {
					fmt.Fprintln(cmd.OutOrStdout(), "no stored curve")
				}
				return nil
			},
		},
	)
	return cmd
}
