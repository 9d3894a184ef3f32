// Package config provides CLI commands for managing boatrental configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Josh-Grafman/boatrental/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify boatrental configuration",
	Long: `View or modify boatrental configuration.

Use 'config show' to display the effective configuration, 'config init' to
create a commented config file and 'config set' to change one value.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  boatrental config set tui.theme storm
  boatrental config set map.near_me_limit 5
  boatrental config set similar.default_by Price

The new configuration is validated before it is written.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/boatrental/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configResetCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// keyTypes lists the settable keys and how their values are parsed.
var keyTypes = map[string]string{
	"store.path":              "string",
	"store.seed_on_first_run": "bool",
	"store.cache_ttl_seconds": "int",
	"search.default_type":     "string",
	"search.page_limit":       "int",
	"map.home_latitude":       "float",
	"map.home_longitude":      "float",
	"map.near_me_limit":       "int",
	"similar.default_by":      "string",
	"reviews.author":          "string",
	"tui.theme":               "string",
	"tui.tile_columns":        "int",
	"feed.address":            "string",
	"feed.allowed_origins":    "list",
	"watch.enabled":           "bool",
	"watch.debounce_ms":       "int",
	"logging.enabled":         "bool",
	"logging.level":           "string",
	"logging.max_size_mb":     "int",
	"logging.max_backups":     "int",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}
	if _, err := appconfig.Load(); err != nil {
		fmt.Fprintf(out, "# Invalid: %v\n", err)
	}

	settings := make(map[string]any, len(keyTypes))
	for key := range keyTypes {
		settings[key] = viper.Get(key)
	}
	return writeYAML(out, nest(settings))
}

// nest turns dotted keys into nested maps so the YAML mirrors the file layout.
func nest(flat map[string]any) map[string]any {
	root := map[string]any{}
	for key, v := range flat {
		parts := strings.Split(key, ".")
		m := root
		for _, p := range parts[:len(parts)-1] {
			child, ok := m[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				m[p] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = v
	}
	return root
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}

func parseValue(key, value string) (any, error) {
	switch keyTypes[key] {
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return b, nil
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected number", key)
		}
		return f, nil
	case "list":
		if strings.TrimSpace(value) == "" {
			return []string{}, nil
		}
		items := strings.Split(value, ",")
		for i := range items {
			items[i] = strings.TrimSpace(items[i])
		}
		return items, nil
	default:
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if _, ok := keyTypes[key]; !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'boatrental config show' to see valid keys", key)
	}

	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}

	previous := viper.Get(key)
	viper.Set(key, typed)
	if _, err := appconfig.Load(); err != nil {
		viper.Set(key, previous)
		return err
	}

	if err := writeConfig(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typed)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", targetFile())
	return nil
}

// targetFile is the file set and reset write to.
func targetFile() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return appconfig.ConfigFile()
}

func writeConfig() error {
	file := targetFile()
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settings := make(map[string]any, len(keyTypes))
	for key := range keyTypes {
		settings[key] = viper.Get(key)
	}
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := writeYAML(f, nest(settings)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'boatrental config set' to modify values", configFile)
	}

	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to customize boatrental's behavior.")
	return nil
}

const defaultConfigFile = `# Boatrental Configuration

# Boat database
store:
  # SQLite file; empty means boatrental.db in this directory
  path: ""
  # Load the bundled fleet into an empty database
  seed_on_first_run: true
  # Seconds fetched boats and reviews are reused (0 = no cache)
  cache_ttl_seconds: 30

# Search screen
search:
  # Boat type preselected on start, by name or id (empty = all types)
  default_type: ""
  # Most boats 'boats list' prints (0 = no limit)
  page_limit: 50

# Map and "boats near me"
map:
  home_latitude: 37.8080
  home_longitude: -122.4177
  near_me_limit: 10

# Similar boats panel
similar:
  # Options: Type, Price, Length
  default_by: Type

# Reviews
reviews:
  # Name new reviews are signed with (empty = your OS user name)
  author: ""

# TUI (terminal user interface) settings
tui:
  # Options: default, lagoon, storm, sunset
  theme: default
  # Columns shown in the result grid (2-6)
  tile_columns: 4

# Live feed served by 'boatrental serve'
feed:
  address: 127.0.0.1:8642
  # Host patterns browsers may connect from (empty = same origin only)
  allowed_origins: []

# Reload when another process changes the database
watch:
  enabled: true
  debounce_ms: 250

# Debug logging
logging:
  enabled: true
  # Options: debug, info, warn, error
  level: info
  max_size_mb: 10
  max_backups: 3
`

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", appconfig.ConfigFile())
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: BOATRENTAL_* (e.g., BOATRENTAL_TUI_THEME)")
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		key := args[0]
		if _, ok := keyTypes[key]; !ok {
			return fmt.Errorf("unknown configuration key: %s", key)
		}
		viper.Set(key, defaultSettings()[key])
		if err := writeConfig(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s to default\n", key)
		return nil
	}

	for key, v := range defaultSettings() {
		viper.Set(key, v)
	}
	if err := writeConfig(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Reset all configuration to defaults")
	return nil
}

// defaultSettings returns the default value of every settable key.
func defaultSettings() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"store.path":              d.Store.Path,
		"store.seed_on_first_run": d.Store.SeedOnFirstRun,
		"store.cache_ttl_seconds": d.Store.CacheTTLSeconds,
		"search.default_type":     d.Search.DefaultType,
		"search.page_limit":       d.Search.PageLimit,
		"map.home_latitude":       d.Map.HomeLatitude,
		"map.home_longitude":      d.Map.HomeLongitude,
		"map.near_me_limit":       d.Map.NearMeLimit,
		"similar.default_by":      d.Similar.DefaultBy,
		"reviews.author":          d.Reviews.Author,
		"tui.theme":               d.TUI.Theme,
		"tui.tile_columns":        d.TUI.TileColumns,
		"feed.address":            d.Feed.Address,
		"feed.allowed_origins":    d.Feed.AllowedOrigins,
		"watch.enabled":           d.Watch.Enabled,
		"watch.debounce_ms":       d.Watch.DebounceMs,
		"logging.enabled":         d.Logging.Enabled,
		"logging.level":           d.Logging.Level,
		"logging.max_size_mb":     d.Logging.MaxSizeMB,
		"logging.max_backups":     d.Logging.MaxBackups,
	}
}
