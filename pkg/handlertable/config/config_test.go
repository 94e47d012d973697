package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/randalmurphal/handlertable/pkg/handlertable/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew verifies Config creation from maps.
func TestNew(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"nil map", nil},
		{"empty map", map[string]any{}},
		{"with values", map[string]any{"key": "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.NotNil(t, cfg.Raw())
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{"key exists", map[string]any{"log_level": "debug"}, "debug"},
		{"key missing", map[string]any{}, "info"},
		{"wrong type", map[string]any{"log_level": 3}, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, config.New(tt.data).String("log_level", "info"))
		})
	}
}

func TestBool(t *testing.T) {
	cfg := config.New(map[string]any{"metrics": true, "tracing": "yes"})

	assert.True(t, cfg.Bool("metrics", false))
	assert.False(t, cfg.Bool("tracing", false), "non-bool falls back")
	assert.True(t, cfg.Bool("missing", true))
}

func TestInt(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want int
	}{
		{"int", 32, 32},
		{"int64", int64(16), 16},
		{"whole float", 8.0, 8},
		{"fractional float", 8.5, -1},
		{"string", "8", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"capacity": tt.val})
			assert.Equal(t, tt.want, cfg.Int("capacity", -1))
		})
	}
}

func TestFloat(t *testing.T) {
	cfg := config.New(map[string]any{"f": 1.5, "i": 2, "i64": int64(3), "s": "x"})

	assert.Equal(t, 1.5, cfg.Float("f", 0))
	assert.Equal(t, 2.0, cfg.Float("i", 0))
	assert.Equal(t, 3.0, cfg.Float("i64", 0))
	assert.Equal(t, 9.0, cfg.Float("s", 9))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want time.Duration
	}{
		{"string", "10ms", 10 * time.Millisecond},
		{"invalid string", "soon", time.Minute},
		{"int seconds", 2, 2 * time.Second},
		{"int64 seconds", int64(3), 3 * time.Second},
		{"float seconds", 0.5, 500 * time.Millisecond},
		{"duration", 7 * time.Millisecond, 7 * time.Millisecond},
		{"wrong type", true, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"d": tt.val})
			assert.Equal(t, tt.want, cfg.Duration("d", time.Minute))
		})
	}
}

func TestIntMap(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := config.New(map[string]any{
			"events": map[string]any{"timer": 0, "uart": 3.0},
		})
		m, ok := cfg.IntMap("events")
		require.True(t, ok)
		assert.Equal(t, map[string]int{"timer": 0, "uart": 3}, m)
	})

	t.Run("non-integer value", func(t *testing.T) {
		cfg := config.New(map[string]any{
			"events": map[string]any{"timer": "zero"},
		})
		_, ok := cfg.IntMap("events")
		assert.False(t, ok)
	})

	t.Run("not a map", func(t *testing.T) {
		cfg := config.New(map[string]any{"events": []any{1, 2}})
		_, ok := cfg.IntMap("events")
		assert.False(t, ok)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := config.New(nil).IntMap("events")
		assert.False(t, ok)
	})
}

func TestSub(t *testing.T) {
	cfg := config.New(map[string]any{
		"retry": map[string]any{"max_attempts": 3},
		"flat":  1,
	})

	assert.Equal(t, 3, cfg.Sub("retry").Int("max_attempts", 0))
	assert.False(t, cfg.Sub("flat").Has("max_attempts"))
	assert.NotNil(t, cfg.Sub("missing").Raw())
}

func TestHas(t *testing.T) {
	cfg := config.New(map[string]any{"capacity": 8})
	assert.True(t, cfg.Has("capacity"))
	assert.False(t, cfg.Has("events"))
}

func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
capacity: 8
events:
  timer: 0
retry:
  initial_backoff: 2ms
`))
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Int("capacity", 0))
	events, ok := cfg.IntMap("events")
	require.True(t, ok)
	assert.Equal(t, 0, events["timer"])
	assert.Equal(t, 2*time.Millisecond, cfg.Sub("retry").Duration("initial_backoff", 0))
}

func TestFromYAMLInvalid(t *testing.T) {
	_, err := config.FromYAML([]byte("capacity: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"capacity": 4, "events": {"timer": 1}}`))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Int("capacity", 0))
	events, ok := cfg.IntMap("events")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"timer": 1}, events)
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := config.FromJSON([]byte("{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse json")
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "table.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("capacity: 16\n"), 0o600))

	jsonPath := filepath.Join(dir, "table.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"capacity": 12}`), 0o600))

	tomlPath := filepath.Join(dir, "table.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("capacity = 1\n"), 0o600))

	cfg, err := config.FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Int("capacity", 0))

	cfg, err = config.FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Int("capacity", 0))

	_, err = config.FromFile(tomlPath)
	assert.ErrorContains(t, err, "unsupported config file extension")

	_, err = config.FromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
