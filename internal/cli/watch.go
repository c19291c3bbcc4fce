package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/llehouerou/mpdlive/internal/errmsg"
	"github.com/llehouerou/mpdlive/internal/hub"
	"github.com/llehouerou/mpdlive/internal/icons"
	"github.com/llehouerou/mpdlive/internal/mpris"
	"github.com/llehouerou/mpdlive/internal/notify"
	"github.com/llehouerou/mpdlive/internal/session"
	"github.com/llehouerou/mpdlive/internal/state"
	"github.com/llehouerou/mpdlive/internal/status"
	"github.com/llehouerou/mpdlive/internal/statusline"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		progress  bool
		withNotif bool
		withMPRIS bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a line on every status change until interrupted",
		Long: `Follow the daemon over its idle protocol and print a status line whenever
something other than the playing position changes. The connection is
re-established with backoff when it drops.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := a.commandContext(cmd)
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			addr := a.cfg.Endpoint().Address()

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

			if withMPRIS || a.cfg.Watch.MPRIS {
				adapter, err := mpris.New(s, mpris.Options{Name: a.cfg.Player.Name, MusicDir: a.cfg.Player.MusicDir})
				if err != nil {
					return userError(errmsg.OpMPRIS, err)
				}
				defer adapter.Close()
			}

			var ann *notify.Announcer
			if withNotif || a.cfg.Watch.Notify {
				n, err := a.newNotifier()
				if err != nil {
					return userError(errmsg.OpNotify, err)
				}
				ann = notify.NewAnnouncer(n, a.cfg.Player.MusicDir)
			}

			// Every return below waits for printed, so the store outlives
			// the printer's last save.
			printed := make(chan struct{})
			go func() {
				defer close(printed)
				p := &printer{w: out, icons: a.icons(), progress: progress}
				p.run(ctx, s.Subscribe(), func(snap status.Snapshot) {
					if seen, ok := state.LastSeenFrom(snap, a.now()); ok {
						store.SaveLastSeen(a.cfg.PlayerName(), seen)
					}
				})
			}()

			if ann != nil {
				announced := make(chan struct{})
				go func() {
					defer close(announced)
					ann.Run(ctx, s.Subscribe(), func(err error) {
						fmt.Fprintln(errOut, errmsg.Format(errmsg.OpNotify, err))
					})
				}()
				defer func() {
					<-announced
					_ = ann.Dismiss()
				}()
			}

			err = session.Supervise(ctx, s, session.Backoff{}, func(err error) {
				fmt.Fprintln(errOut, errmsg.FormatWith(errmsg.OpWatch, addr, err))
			})
			s.Close()
			<-printed

			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return userErrorAt(errmsg.OpWatch, addr, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "also print every elapsed-time update")
	cmd.Flags().BoolVar(&withNotif, "notify", false, "send a desktop notification on song change (overrides watch.notify)")
	cmd.Flags().BoolVar(&withMPRIS, "mpris", false, "mirror the player over MPRIS (overrides watch.mpris)")
	return cmd
}

// printer writes a status line per relevant update.
type printer struct {
	w        io.Writer
	icons    icons.Icons
	progress bool

	last    status.Snapshot
	printed bool
}

// run prints until ctx ends or the feed closes. onSong sees every
// snapshot whose song differs from the previous one.
func (p *printer) run(ctx context.Context, sub *hub.Subscription, onSong func(status.Snapshot)) {
	defer sub.Unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case snap := <-sub.C:
			p.handle(snap, onSong)
		}
	}
}

func (p *printer) handle(snap status.Snapshot, onSong func(status.Snapshot)) {
	if p.printed && !p.progress && snap.WithElapsed(0).Equal(p.last.WithElapsed(0)) {
		return
	}
	if onSong != nil && (!p.printed || !snap.SameSong(p.last)) {
		onSong(snap)
	}
	p.last = snap
	p.printed = true
	fmt.Fprintln(p.w, statusline.Format(snap, p.icons))
}
