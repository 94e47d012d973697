/*
Package config loads handler table settings from YAML or JSON.

# Overview

Config wraps a decoded map[string]any and provides typed accessors that
fall back to a default value when a key is missing or holds the wrong type.
DecodeTableSpec builds on those accessors to produce a validated TableSpec:
capacity, event name bindings, logging level, metrics and tracing switches,
and the retry policy used by dispatch.RegisterWithRetry.

# File Loading

	spec, err := config.LoadTableSpec("table.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	// Or step by step
	cfg, err := config.FromYAML(data)
	spec, err := config.DecodeTableSpec(cfg)

# Type Coercion

Int accepts int, int64 and whole float64 values (JSON numbers). Duration
accepts strings parsed by time.ParseDuration and numbers interpreted as
seconds.

# Thread Safety

Config is safe for concurrent reads. The underlying map is not modified
after creation.
*/
package config
