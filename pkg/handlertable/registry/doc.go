// Package registry binds human-readable event names to handler table indices.
//
// A handler table is addressed by small integers. Names gives those integers
// stable labels for configuration, logs and metrics, while keeping the table
// itself free of strings and locks.
//
// # Basic Usage
//
//	names := registry.NewNames(8)
//	if err := names.Bind("timer", 0); err != nil {
//	    return err
//	}
//	names.Bind("uart.rx", 3)
//
//	idx, ok := names.Index("uart.rx") // 3, true
//	name, ok := names.Name(0)         // "timer", true
//
// Bindings are one-to-one: a name maps to one index and an index carries one
// name. Bind rejects indices outside [0, capacity) with an error wrapping
// handlertable.ErrIndexOutOfRange.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Range iterates over a snapshot,
// in index order, so bindings may change during iteration without affecting
// it.
package registry
