package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/mpdlive/internal/mpd"
	"github.com/llehouerou/mpdlive/internal/pool"
	"github.com/llehouerou/mpdlive/internal/session"
)

const (
	appName            = "mpdlive"
	defaultHost        = "localhost"
	defaultDialTimeout = 5 * time.Second
	stateFileName      = "state.db"
)

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Player  PlayerConfig  `koanf:"player"`
	Pool    PoolConfig    `koanf:"pool"`
	Elapsed ElapsedConfig `koanf:"elapsed"`
	State   StateConfig   `koanf:"state"`
	Watch   WatchConfig   `koanf:"watch"`
}

// ServerConfig locates the daemon.
type ServerConfig struct {
	Host          string `koanf:"host"`            // default: "localhost"
	Port          int    `koanf:"port"`            // default: 6600
	Password      string `koanf:"password"`        // sent after connecting when set
	DialTimeoutMS int    `koanf:"dial_timeout_ms"` // default: 5000
}

// PlayerConfig describes the playback device behind the daemon.
type PlayerConfig struct {
	Name        string   `koanf:"name"`         // key for the stored volume curve (default: host)
	VolumeCurve *float64 `koanf:"volume_curve"` // 0 < c < 1, absent means linear
	MusicDir    string   `koanf:"music_dir"`    // local copy of the daemon's music directory, for album art
}

// PoolOptions converts the limits for pool.New.
func (p PoolConfig) PoolOptions() pool.Options {
	return pool.Options{MaxHigh: p.MaxHigh, MaxLow: p.MaxLow}
}

// PoolConfig bounds live connections per priority.
type PoolConfig struct {
	MaxHigh int `koanf:"max_high"` // default: 2
	MaxLow  int `koanf:"max_low"`  // default: 4
}

// ElapsedConfig tunes the elapsed-time estimator.
type ElapsedConfig struct {
	TickMS int `koanf:"tick_ms"` // default: 250
}

// StateConfig locates the local state database.
type StateConfig struct {
	Path string `koanf:"path"` // default: $XDG_DATA_HOME/mpdlive/state.db
}

// WatchConfig holds the watch command's optional outputs.
type WatchConfig struct {
	Notify bool   `koanf:"notify"` // desktop notification on song change
	MPRIS  bool   `koanf:"mpris"`  // mirror the player on the session bus
	Icons  string `koanf:"icons"`  // "nerd", "unicode", or "none"
}

// Load reads the user config, then ./config.toml on top of it.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given files in order; later files override earlier
// ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Server.Host = strings.TrimSpace(cfg.Server.Host)
	cfg.Player.MusicDir = expandPath(cfg.Player.MusicDir)
	cfg.State.Path = expandPath(cfg.State.Path)

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/mpdlive/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Validate reports values that cannot be defaulted away.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.DialTimeoutMS < 0 {
		errs = append(errs, errors.New("server.dial_timeout_ms must not be negative"))
	}
	if v := c.Player.VolumeCurve; v != nil && (*v <= 0 || *v >= 1) {
		errs = append(errs, fmt.Errorf("player.volume_curve %g must be between 0 and 1 exclusive", *v))
	}
	if c.Pool.MaxHigh < 0 || c.Pool.MaxLow < 0 {
		errs = append(errs, errors.New("pool limits must not be negative"))
	}
	if c.Elapsed.TickMS < 0 {
		errs = append(errs, errors.New("elapsed.tick_ms must not be negative"))
	}
	return errors.Join(errs...)
}

// Endpoint returns the daemon address with defaults applied.
func (c *Config) Endpoint() mpd.Endpoint {
	ep := mpd.Endpoint{
		Host:        c.Server.Host,
		Port:        c.Server.Port,
		Password:    c.Server.Password,
		DialTimeout: time.Duration(c.Server.DialTimeoutMS) * time.Millisecond,
	}
	if ep.Host == "" {
		ep.Host = defaultHost
	}
	if ep.Port <= 0 {
		ep.Port = mpd.DefaultPort
	}
	if ep.DialTimeout <= 0 {
		ep.DialTimeout = defaultDialTimeout
	}
	return ep
}

// PlayerName returns the key the volume curve is stored under.
func (c *Config) PlayerName() string {
	if c.Player.Name != "" {
		return c.Player.Name
	}
	return c.Endpoint().Address()
}

// HasVolumeCurve reports whether the config sets the curve explicitly.
func (c *Config) HasVolumeCurve() bool {
	return c.Player.VolumeCurve != nil
}

// GetPoolConfig returns the pool limits with defaults applied.
func (c *Config) GetPoolConfig() PoolConfig {
	cfg := c.Pool
	if cfg.MaxHigh <= 0 {
		cfg.MaxHigh = pool.DefaultMaxHigh
	}
	if cfg.MaxLow <= 0 {
		cfg.MaxLow = pool.DefaultMaxLow
	}
	return cfg
}

// GetElapsedConfig returns the estimator settings with defaults applied.
func (c *Config) GetElapsedConfig() ElapsedConfig {
	cfg := c.Elapsed
	if cfg.TickMS <= 0 {
		cfg.TickMS = int(session.DefaultTick / time.Millisecond)
	}
	return cfg
}

// Tick returns the estimator interval.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.GetElapsedConfig().TickMS) * time.Millisecond
}

// StatePath returns the state database location, creating its directory
// when it is the default one.
func (c *Config) StatePath() (string, error) {
	if c.State.Path != "" {
		return c.State.Path, nil
	}
	return xdg.DataFile(filepath.Join(appName, stateFileName))
}
