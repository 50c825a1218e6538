// Package config loads the settings of the gridview command from defaults,
// an optional .gridview.yaml, GRIDVIEW_* environment variables and command
// line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/xqrs/gridview"
	"github.com/xqrs/gridview/layout"
	"github.com/xqrs/gridview/visibility"
)

// Keys shared by the config file, the environment and the flags.
const (
	KeyItems            = "items"
	KeyLayout           = "layout"
	KeyStore            = "store"
	KeyLog              = "log"
	KeyLogLevel         = "log-level"
	KeyVisibility       = "visibility"
	KeyLongPress        = "long-press"
	KeyCooldown         = "cooldown"
	KeyAutoScrollMargin = "autoscroll-margin"
	KeyAutoScrollSpeed  = "autoscroll-speed"
	KeyScrollBar        = "scrollbar"
)

// Config holds the settings of a run.
type Config struct {
	Items            int           `mapstructure:"items"`
	Layout           string        `mapstructure:"layout"`
	StorePath        string        `mapstructure:"store"`
	LogPath          string        `mapstructure:"log"`
	LogLevel         string        `mapstructure:"log-level"`
	Visibility       string        `mapstructure:"visibility"`
	LongPress        time.Duration `mapstructure:"long-press"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
	AutoScrollMargin int           `mapstructure:"autoscroll-margin"`
	AutoScrollSpeed  float64       `mapstructure:"autoscroll-speed"`
	ScrollBar        bool          `mapstructure:"scrollbar"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		Items:            200,
		Layout:           "list",
		StorePath:        "~/.gridview/store",
		LogPath:          "~/.gridview/gridview.log",
		LogLevel:         "info",
		Visibility:       visibility.Incremental.String(),
		LongPress:        gridview.DefaultLongPressDuration,
		Cooldown:         gridview.DefaultReorderCooldown,
		AutoScrollMargin: gridview.DefaultAutoScrollMargin,
		AutoScrollSpeed:  gridview.DefaultAutoScrollSpeed,
		ScrollBar:        true,
	}
}

// AddFlags registers a flag for every key on flags.
func AddFlags(flags *pflag.FlagSet) {
	d := Defaults()
	flags.Int(KeyItems, d.Items, "Number of generated items.")
	flags.String(KeyLayout, d.Layout, "Item layout. One of 'list', 'grid' or 'chat'.")
	flags.String(KeyStore, d.StorePath, "Directory the item order is persisted to.")
	flags.String(KeyLog, d.LogPath, "File the log is written to.")
	flags.String(KeyLogLevel, d.LogLevel, "Log level. One of 'debug', 'info', 'warn' or 'error'.")
	flags.String(KeyVisibility, d.Visibility, "Visibility index mode. One of 'incremental' or 'full'.")
	flags.Duration(KeyLongPress, d.LongPress, "How long a press must be held to lift an item.")
	flags.Duration(KeyCooldown, d.Cooldown, "Pause between two reorders while dragging.")
	flags.Int(KeyAutoScrollMargin, d.AutoScrollMargin, "Rows at the edges that scroll while dragging.")
	flags.Float64(KeyAutoScrollSpeed, d.AutoScrollSpeed, "Auto scroll speed in cells per second per row.")
	flags.Bool(KeyScrollBar, d.ScrollBar, "Show a scroll bar.")
}

// Load reads the settings. Flags that were not set on the command line keep
// the value from the environment or the config file. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyItems, d.Items)
	v.SetDefault(KeyLayout, d.Layout)
	v.SetDefault(KeyStore, d.StorePath)
	v.SetDefault(KeyLog, d.LogPath)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyVisibility, d.Visibility)
	v.SetDefault(KeyLongPress, d.LongPress)
	v.SetDefault(KeyCooldown, d.Cooldown)
	v.SetDefault(KeyAutoScrollMargin, d.AutoScrollMargin)
	v.SetDefault(KeyAutoScrollSpeed, d.AutoScrollSpeed)
	v.SetDefault(KeyScrollBar, d.ScrollBar)

	v.SetConfigName(".gridview") // .yaml is implicit
	v.SetEnvPrefix("GRIDVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("GRIDVIEW_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.expand(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) expand() error {
	var err error
	if c.StorePath, err = homedir.Expand(c.StorePath); err != nil {
		return fmt.Errorf("config: store path: %w", err)
	}
	if c.LogPath, err = homedir.Expand(c.LogPath); err != nil {
		return fmt.Errorf("config: log path: %w", err)
	}
	return nil
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if c.Items < 0 {
		return fmt.Errorf("config: items must not be negative, got %d", c.Items)
	}
	if _, err := c.ItemLayout(); err != nil {
		return err
	}
	if _, err := c.VisibilityMode(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Layout names.
const (
	LayoutList = "list"
	LayoutGrid = "grid"
	LayoutChat = "chat"
)

// ItemLayout returns the layout named by the settings.
func (c *Config) ItemLayout() (layout.Layout, error) {
	switch strings.ToLower(c.Layout) {
	case LayoutList, "":
		return layout.Vertical{}, nil
	case LayoutGrid:
		return layout.Flow{Gap: 1}, nil
	case LayoutChat:
		return layout.Chat{Message: ChatMessage, SideGap: 1, TileGap: 1}, nil
	}
	return nil, fmt.Errorf("config: unknown layout %q", c.Layout)
}

// ChatMessage is the message placement of generated chat items. Sides
// alternate every three items and the last two of every six are tiles.
func ChatMessage(index int) layout.Message {
	side := layout.Left
	if index/3%2 == 1 {
		side = layout.Right
	}
	return layout.Message{Side: side, Tile: index%6 >= 4}
}

// VisibilityMode returns the visibility index mode named by the settings.
func (c *Config) VisibilityMode() (visibility.Mode, error) {
	switch strings.ToLower(c.Visibility) {
	case visibility.Incremental.String(), "":
		return visibility.Incremental, nil
	case visibility.FullScan.String(), "fullscan", "full-scan":
		return visibility.FullScan, nil
	}
	return visibility.Incremental, fmt.Errorf("config: unknown visibility mode %q", c.Visibility)
}

// Level returns the log level named by the settings.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log level: %w", err)
	}
	return level, nil
}

// Apply configures a collection with the interaction settings.
func (c *Config) Apply(collection *gridview.Collection) {
	mode, _ := c.VisibilityMode()
	collection.
		SetVisibilityMode(mode).
		SetLongPressDuration(c.LongPress).
		SetReorderCooldown(c.Cooldown).
		SetAutoScroll(c.AutoScrollMargin, c.AutoScrollSpeed).
		SetShowScrollBar(c.ScrollBar)
}
