// Package cli implements the mpdlive command line.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/mpdlive/internal/config"
	"github.com/llehouerou/mpdlive/internal/errmsg"
	"github.com/llehouerou/mpdlive/internal/icons"
	"github.com/llehouerou/mpdlive/internal/mpd"
	"github.com/llehouerou/mpdlive/internal/notify"
	"github.com/llehouerou/mpdlive/internal/pool"
	"github.com/llehouerou/mpdlive/internal/session"
	"github.com/llehouerou/mpdlive/internal/state"
	"github.com/llehouerou/mpdlive/internal/status"
)

// app carries what every command needs once flags and config are loaded.
type app struct {
	cfgFile string
	host    string
	port    int
	style   string

	cfg         *config.Config
	dialer      mpd.Dialer
	openState   func(path string) (state.Interface, error)
	newNotifier func() (notify.Notifier, error)
	now         func() time.Time
}

func openManager(path string) (state.Interface, error) {
	return state.Open(path)
}

// NewRootCmd builds the command tree talking to real daemons.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		dialer:      mpd.GompdDialer{},
		openState:   openManager,
		newNotifier: notify.New,
		now:         time.Now,
	})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mpdlive",
		Short: "Live status of a music player daemon",
		Long: `mpdlive keeps a live, de-duplicated view of a music player daemon's status
over its idle protocol, with an interpolated playing position.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return a.loadConfig() },
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/mpdlive/config.toml, then ./config.toml)")
	root.PersistentFlags().StringVar(&a.host, "host", "", "daemon host (overrides server.host)")
	root.PersistentFlags().IntVar(&a.port, "port", 0, "daemon port (overrides server.port)")
	root.PersistentFlags().StringVar(&a.style, "icons", "", `icon style: "nerd", "unicode" or "none" (overrides watch.icons)`)

	root.AddCommand(
		newStatusCmd(a),
		newWatchCmd(a),
		newVolumeCmd(a),
		newCurveCmd(a),
		newLastCmd(a),
		newForgetCmd(a),
	)
	return root
}

func (a *app) loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if a.cfgFile != "" {
		cfg, err = config.LoadFrom(a.cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return userError(errmsg.OpConfigLoad, err)
	}

	if a.host != "" {
		cfg.Server.Host = a.host
	}
	if a.port != 0 {
		cfg.Server.Port = a.port
	}
	if a.style != "" {
		cfg.Watch.Icons = a.style
	}
	if err := cfg.Validate(); err != nil {
		return userError(errmsg.OpConfigLoad, err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) icons() icons.Icons {
	return icons.ForStyle(a.cfg.Watch.Icons)
}

// resolveCurve picks the volume curve: an explicit config value wins over
// the stored one. source names where it came from.
func resolveCurve(cfg *config.Config, store state.Interface) (curve status.Curve, source string, err error) {
	if cfg.HasVolumeCurve() {
		return status.Curve(*cfg.Player.VolumeCurve), "config", nil
	}
	if store == nil {
		return 0, "none", nil
	}
	stored, ok, err := store.GetCurve(cfg.PlayerName())
	if err != nil {
		return 0, "", err
	}
	if !ok {
		return 0, "none", nil
	}
	return stored, "stored", nil
}

// openStore opens the state database.
func (a *app) openStore() (state.Interface, error) {
	path, err := a.cfg.StatePath()
	if err != nil {
		return nil, userError(errmsg.OpStateOpen, err)
	}
	store, err := a.openState(path)
	if err != nil {
		return nil, userError(errmsg.OpStateOpen, err)
	}
	return store, nil
}

// newSession builds a stopped session for the configured daemon. The
// store may be nil.
func (a *app) newSession(store state.Interface) (*session.Session, error) {
	curve, _, err := resolveCurve(a.cfg, store)
	if err != nil {
		return nil, userError(errmsg.OpCurveLoad, err)
	}
	p := pool.New(a.dialer, a.cfg.Endpoint(), a.cfg.GetPoolConfig().PoolOptions())
	return session.New(p, session.Options{Curve: curve, Tick: a.cfg.Tick()}), nil
}

func (a *app) commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
