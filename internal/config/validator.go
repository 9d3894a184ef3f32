package config

import (
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/tui/styles"
)

// Upper bounds for numeric settings.
const (
	maxCacheTTLSeconds = 86400
	maxNearMeLimit     = 100
	maxTileColumns     = 6
	maxDebounceMs      = 60000
	maxLogSizeMB       = 1000
)

// ValidationError is one rejected setting.
type ValidationError struct {
	Field   string // dotted key, e.g. "map.near_me_limit"
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is every rejected setting of a configuration.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}
	lines := make([]string, len(e))
	for i, err := range e {
		lines[i] = fmt.Sprintf("  %d. %s", i+1, err)
	}
	return fmt.Sprintf("%d validation errors:\n%s\n", len(e), strings.Join(lines, "\n"))
}

// ValidLogLevels returns the accepted logging.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidThemes returns the built-in TUI themes.
func ValidThemes() []string {
	return styles.BuiltinThemes()
}

// checker accumulates rejections so that Validate reports all of them at once.
type checker struct {
	errs []ValidationError
}

func (c *checker) fail(field string, value any, format string, args ...any) {
	c.errs = append(c.errs, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) between(field string, v, lo, hi int) {
	if v < lo || v > hi {
		c.fail(field, v, "must be between %d and %d", lo, hi)
	}
}

func (c *checker) oneOf(field, v string, allowed []string) {
	if v != "" && !slices.Contains(allowed, v) {
		c.fail(field, v, "must be one of: %s", strings.Join(allowed, ", "))
	}
}

// Validate returns every invalid setting in c, or nil.
func (c *Config) Validate() []ValidationError {
	var v checker

	switch ttl := c.Store.CacheTTLSeconds; {
	case ttl < 0:
		v.fail("store.cache_ttl_seconds", ttl, "must be non-negative")
	case ttl > maxCacheTTLSeconds:
		v.fail("store.cache_ttl_seconds", ttl, "exceeds maximum of %d seconds", maxCacheTTLSeconds)
	}
	if strings.ContainsRune(c.Store.Path, 0) {
		v.fail("store.path", c.Store.Path, "contains a NUL byte")
	}

	if c.Search.PageLimit < 0 {
		v.fail("search.page_limit", c.Search.PageLimit, "must be non-negative (0 means no limit)")
	}

	if (boat.Location{Latitude: c.Map.HomeLatitude}).Validate() != nil {
		v.fail("map.home_latitude", c.Map.HomeLatitude, "must be between -90 and 90")
	}
	if (boat.Location{Longitude: c.Map.HomeLongitude}).Validate() != nil {
		v.fail("map.home_longitude", c.Map.HomeLongitude, "must be between -180 and 180")
	}
	v.between("map.near_me_limit", c.Map.NearMeLimit, 1, maxNearMeLimit)

	if c.Similar.DefaultBy != "" {
		if _, err := boat.ParseSimilarBy(c.Similar.DefaultBy); err != nil {
			v.fail("similar.default_by", c.Similar.DefaultBy, "must be one of: Type, Price, Length")
		}
	}

	v.oneOf("tui.theme", c.TUI.Theme, ValidThemes())
	// 0 picks the column count from the terminal width.
	v.between("tui.tile_columns", c.TUI.TileColumns, 0, maxTileColumns)

	if _, _, err := net.SplitHostPort(c.Feed.Address); err != nil {
		v.fail("feed.address", c.Feed.Address, "must be host:port")
	}
	for i, origin := range c.Feed.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			v.fail(fmt.Sprintf("feed.allowed_origins[%d]", i), origin, "must not be empty")
		}
	}

	v.between("watch.debounce_ms", c.Watch.DebounceMs, 0, maxDebounceMs)

	v.oneOf("logging.level", c.Logging.Level, ValidLogLevels())
	v.between("logging.max_size_mb", c.Logging.MaxSizeMB, 1, maxLogSizeMB)
	if c.Logging.MaxBackups < 0 {
		v.fail("logging.max_backups", c.Logging.MaxBackups, "must be non-negative")
	}

	return v.errs
}
