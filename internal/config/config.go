package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete boatrental configuration
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Search  SearchConfig  `mapstructure:"search"`
	Map     MapConfig     `mapstructure:"map"`
	Similar SimilarConfig `mapstructure:"similar"`
	Reviews ReviewsConfig `mapstructure:"reviews"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StoreConfig controls the boat database
type StoreConfig struct {
	// Path is the SQLite database file. Empty means boatrental.db in the
	// config directory. A leading ~ expands to the home directory.
	Path string `mapstructure:"path"`
	// SeedOnFirstRun loads the bundled fleet into an empty database
	SeedOnFirstRun bool `mapstructure:"seed_on_first_run"`
	// CacheTTLSeconds is how long fetched boats and reviews are reused (0 = no cache)
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// SearchConfig controls the search screen
type SearchConfig struct {
	// DefaultType preselects a boat type by name or id. Empty means all types.
	DefaultType string `mapstructure:"default_type"`
	// PageLimit caps how many boats the CLI list prints (0 = no limit)
	PageLimit int `mapstructure:"page_limit"`
}

// MapConfig controls the map and "boats near me"
type MapConfig struct {
	// HomeLatitude and HomeLongitude are the position used as "you are here"
	HomeLatitude  float64 `mapstructure:"home_latitude"`
	HomeLongitude float64 `mapstructure:"home_longitude"`
	// NearMeLimit is how many boats "near me" lists (default: 10)
	NearMeLimit int `mapstructure:"near_me_limit"`
}

// SimilarConfig controls the similar boats panel
type SimilarConfig struct {
	// DefaultBy is the attribute similar boats are matched on
	// Options: "Type", "Price", "Length"
	DefaultBy string `mapstructure:"default_by"`
}

// ReviewsConfig controls review creation
type ReviewsConfig struct {
	// Author signs new reviews. Empty means the current OS user.
	Author string `mapstructure:"author"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Theme is the color theme for the TUI (default: "default")
	// Options: "default", "lagoon", "storm", "sunset"
	Theme string `mapstructure:"theme"`
	// TileColumns is how many result columns the grid shows (default: 4)
	TileColumns int `mapstructure:"tile_columns"`
}

// FeedConfig controls the live websocket feed served by `boatrental serve`
type FeedConfig struct {
	// Address is the host:port the feed listens on
	Address string `mapstructure:"address"`
	// AllowedOrigins are host patterns browsers may connect from.
	// Empty means same-origin only.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// WatchConfig controls reloading when another process changes the database
type WatchConfig struct {
	// Enabled turns the database watcher on (default: true)
	Enabled bool `mapstructure:"enabled"`
	// DebounceMs coalesces bursts of file events (default: 250)
	DebounceMs int `mapstructure:"debounce_ms"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is active (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level to record
	// Options: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum size of a log file before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path:            "", // Empty means use default: <config dir>/boatrental.db
			SeedOnFirstRun:  true,
			CacheTTLSeconds: 30,
		},
		Search: SearchConfig{
			DefaultType: "",
			PageLimit:   50,
		},
		Map: MapConfig{
			HomeLatitude:  37.8080,
			HomeLongitude: -122.4177,
			NearMeLimit:   10,
		},
		Similar: SimilarConfig{
			DefaultBy: "Type",
		},
		Reviews: ReviewsConfig{
			Author: "",
		},
		TUI: TUIConfig{
			Theme:       "default",
			TileColumns: 4,
		},
		Feed: FeedConfig{
			Address:        "127.0.0.1:8642",
			AllowedOrigins: []string{},
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 250,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// CacheTTL returns the cache lifetime as a time.Duration
func (c *StoreConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// ResolvePath returns the absolute database path.
// If Path is empty, returns boatrental.db inside baseDir.
// Supports ~ expansion for home directory.
func (c *StoreConfig) ResolvePath(baseDir string) string {
	if c.Path == "" {
		return filepath.Join(baseDir, "boatrental.db")
	}

	path := c.Path
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return path
}

// Debounce returns the watcher debounce as a time.Duration
func (c *WatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// ResolveAuthor returns the configured author, falling back to the OS user.
func (c *ReviewsConfig) ResolveAuthor() string {
	if c.Author != "" {
		return c.Author
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "anonymous"
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("store.path", defaults.Store.Path)
	viper.SetDefault("store.seed_on_first_run", defaults.Store.SeedOnFirstRun)
	viper.SetDefault("store.cache_ttl_seconds", defaults.Store.CacheTTLSeconds)

	viper.SetDefault("search.default_type", defaults.Search.DefaultType)
	viper.SetDefault("search.page_limit", defaults.Search.PageLimit)

	viper.SetDefault("map.home_latitude", defaults.Map.HomeLatitude)
	viper.SetDefault("map.home_longitude", defaults.Map.HomeLongitude)
	viper.SetDefault("map.near_me_limit", defaults.Map.NearMeLimit)

	viper.SetDefault("similar.default_by", defaults.Similar.DefaultBy)

	viper.SetDefault("reviews.author", defaults.Reviews.Author)

	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.tile_columns", defaults.TUI.TileColumns)

	viper.SetDefault("feed.address", defaults.Feed.Address)
	viper.SetDefault("feed.allowed_origins", defaults.Feed.AllowedOrigins)

	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it.
// Returns an error if unmarshaling fails or if validation finds invalid values.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults on error.
// For explicit error handling, use Load() instead.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the configuration directory path
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "boatrental")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".boatrental"
	}
	return filepath.Join(home, ".config", "boatrental")
}

// ConfigFile returns the default config file path
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LogDir returns the directory debug logs are written to
func LogDir() string {
	return filepath.Join(ConfigDir(), "logs")
}
