package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNest(t *testing.T) {
	got := nest(map[string]any{
		"tui.theme":        "storm",
		"tui.tile_columns": 4,
		"store.path":       "",
	})
	assert.Equal(t, map[string]any{
		"tui":   map[string]any{"theme": "storm", "tile_columns": 4},
		"store": map[string]any{"path": ""},
	}, got)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{"watch.enabled", "false", false, false},
		{"watch.enabled", "nope", nil, true},
		{"map.near_me_limit", "5", 5, false},
		{"map.near_me_limit", "five", nil, true},
		{"map.home_latitude", "37.5", 37.5, false},
		{"feed.allowed_origins", "localhost:*, example.com", []string{"localhost:*", "example.com"}, false},
		{"feed.allowed_origins", "", []string{}, false},
		{"tui.theme", "storm", "storm", false},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := parseValue(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultSettingsCoverEveryKey(t *testing.T) {
	defaults := defaultSettings()
	assert.Len(t, defaults, len(keyTypes))
	for key := range keyTypes {
		_, ok := defaults[key]
		assert.True(t, ok, "no default for %s", key)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, nest(map[string]any{"logging.level": "info"})))
	assert.Equal(t, "logging:\n  level: info\n", buf.String())
}
