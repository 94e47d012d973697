package config

import (
	"time"
)

// Config wraps a decoded configuration document (map[string]any) for
// type-safe value extraction. Accessors return the default value when the
// key is missing or holds a value of the wrong type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal.
//
// Accepts int, int64, and float64 without a fractional part (JSON numbers).
func (c Config) Int(key string, defaultVal int) int {
	if n, ok := toInt(c.data[key]); ok {
		return n
	}
	return defaultVal
}

// Float returns the float64 value for key, or defaultVal.
// Accepts float64, int and int64.
func (c Config) Float(key string, defaultVal float64) float64 {
	switch val := c.data[key].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	}
	return defaultVal
}

// Duration returns the duration value for key, or defaultVal.
//
// Accepts:
//   - string: parsed with time.ParseDuration ("10ms", "1s")
//   - int, int64, float64: interpreted as seconds
//   - time.Duration: used directly
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	switch val := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case float64:
		return time.Duration(val * float64(time.Second))
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	case time.Duration:
		return val
	}
	return defaultVal
}

// IntMap returns a map of string keys to integer values, such as an
// event-name to index table. ok is false if the key is missing, is not a
// map, or any value is not an integer.
func (c Config) IntMap(key string) (map[string]int, bool) {
	raw, ok := c.data[key].(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]int, len(raw))
	for k, v := range raw {
		n, ok := toInt(v)
		if !ok {
			return nil, false
		}
		out[k] = n
	}
	return out, true
}

// Sub returns the nested section under key as a Config.
// Missing or non-map values yield an empty Config.
func (c Config) Sub(key string) Config {
	if m, ok := c.data[key].(map[string]any); ok {
		return New(m)
	}
	return New(nil)
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}

func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		// Only whole numbers.
		if val == float64(int(val)) {
			return int(val), true
		}
	}
	return 0, false
}
