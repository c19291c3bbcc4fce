package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/llehouerou/mpdlive/internal/errmsg"
	"github.com/llehouerou/mpdlive/internal/mpd"
)

func newVolumeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "volume [0-100]",
		Short: "Print or set the perceptual volume",
		Long: `Print or set the volume as heard. When a volume curve is configured the
value is converted before it is sent to the daemon.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			ctx := a.commandContext(cmd)
			addr := a.cfg.Endpoint().Address()

			if len(args) == 0 {
				snap, err := s.ForceRefresh(ctx)
				if err != nil {
					return userErrorAt(errmsg.OpStatus, addr, err)
				}
				if !snap.VolumeEnabled {
					fmt.Fprintln(cmd.OutOrStdout(), "volume unsupported")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d%%\n", percent(snap.Volume))
				return nil
			}

			pct, err := parsePercent(args[0])
			if err != nil {
				return userError(errmsg.OpSetVolume, err)
			}
			daemon := s.Curve().DaemonVolume(float64(pct) / 100)
			snap, err := s.Mutate(ctx, func(b mpd.Batch) { b.SetVolume(daemon) })
			if err != nil {
				return userErrorAt(errmsg.OpSetVolume, addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d%% (daemon %d)\n", percent(snap.Volume), daemon)
			return nil
		},
	}
}

func parsePercent(arg string) (int, error) {
	v, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("volume %q is not a number", arg)
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("volume %d out of range 0-100", v)
	}
	return v, nil
}

func percent(v float64) int {
	return int(v*100 + 0.5)
}
