package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/randalmurphal/handlertable/pkg/handlertable/registry"
	"github.com/randalmurphal/handlertable/pkg/handlertable/retry"
)

// TableSpec describes a handler table and its service-side front end.
//
// Document layout:
//
//	capacity: 32
//	log_level: info
//	metrics: true
//	tracing: false
//	events:
//	  timer: 0
//	  uart.rx: 3
//	retry:
//	  max_attempts: 5
//	  initial_backoff: 1ms
//	  max_backoff: 100ms
//	  backoff_factor: 2
//	  jitter: 0.1
type TableSpec struct {
	// Capacity is the fixed number of slots.
	Capacity int

	// Events binds event names to indices.
	Events map[string]int

	// LogLevel is the minimum level for dispatch logging.
	LogLevel slog.Level

	// Metrics enables OpenTelemetry metrics.
	Metrics bool

	// Tracing enables OpenTelemetry spans.
	Tracing bool

	// Retry configures RegisterWithRetry.
	Retry retry.Config
}

// ValidationError reports an invalid field in a TableSpec.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

var (
	tableSpecFields = []string{"capacity", "log_level", "metrics", "tracing", "events", "retry"}
	retryFields     = []string{"max_attempts", "initial_backoff", "max_backoff", "backoff_factor", "jitter"}
)

// DecodeTableSpec extracts and validates a TableSpec.
// Unknown keys, at the top level or under retry, are rejected.
func DecodeTableSpec(cfg Config) (TableSpec, error) {
	if err := checkFields(cfg, "", tableSpecFields); err != nil {
		return TableSpec{}, err
	}
	spec := TableSpec{
		Capacity: cfg.Int("capacity", 0),
		Metrics:  cfg.Bool("metrics", false),
		Tracing:  cfg.Bool("tracing", false),
		LogLevel: slog.LevelInfo,
	}

	if level := cfg.String("log_level", ""); level != "" {
		if err := spec.LogLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
			return TableSpec{}, &ValidationError{Field: "log_level", Message: err.Error()}
		}
	}

	if cfg.Has("events") {
		events, ok := cfg.IntMap("events")
		if !ok {
			return TableSpec{}, &ValidationError{Field: "events", Message: "must map names to integer indices"}
		}
		spec.Events = events
	}

	r := cfg.Sub("retry")
	if err := checkFields(r, "retry.", retryFields); err != nil {
		return TableSpec{}, err
	}
	spec.Retry = retry.Config{
		MaxAttempts:    r.Int("max_attempts", retry.Default.MaxAttempts),
		InitialBackoff: r.Duration("initial_backoff", retry.Default.InitialBackoff),
		MaxBackoff:     r.Duration("max_backoff", retry.Default.MaxBackoff),
		BackoffFactor:  r.Float("backoff_factor", retry.Default.BackoffFactor),
		Jitter:         r.Float("jitter", retry.Default.Jitter),
	}
	// A single attempt never backs off.
	if spec.Retry.MaxAttempts == 1 {
		spec.Retry = retry.None
	}

	if err := spec.Validate(); err != nil {
		return TableSpec{}, err
	}
	return spec, nil
}

// Validate checks capacity, event bindings and retry bounds.
func (s TableSpec) Validate() error {
	if s.Capacity <= 0 {
		return &ValidationError{Field: "capacity", Message: "must be positive"}
	}
	if _, err := s.Names(); err != nil {
		return &ValidationError{Field: "events", Message: err.Error()}
	}
	if s.Retry.MaxAttempts < 1 {
		return &ValidationError{Field: "retry.max_attempts", Message: "must be at least 1"}
	}
	if s.Retry.Jitter < 0 || s.Retry.Jitter > 1 {
		return &ValidationError{Field: "retry.jitter", Message: "must be within [0, 1]"}
	}
	return nil
}

// Names builds the name bindings declared by Events.
func (s TableSpec) Names() (*registry.Names, error) {
	names := registry.NewNames(s.Capacity)
	if err := names.BindMany(s.Events); err != nil {
		return nil, err
	}
	return names, nil
}

// checkFields reports the first key of cfg, in sorted order, that is not in
// allowed.
func checkFields(cfg Config, prefix string, allowed []string) error {
	raw := cfg.Raw()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		known := false
		for _, a := range allowed {
			if k == a {
				known = true
				break
			}
		}
		if !known {
			return &ValidationError{Field: prefix + k, Message: "unknown field"}
		}
	}
	return nil
}
