/*
Package handlertable provides a fixed-capacity, lock-free table mapping small
integer event indices to handlers.

# Overview

A Table holds N slots. Each slot is either empty or bound to one handler,
and each is synchronized on its own through a single atomic state word: no
mutex, no allocation after construction, and no coordination between
different indices. That makes the table callable from paths that must not
block, such as signal handling goroutines, dispatch loops holding their own
locks, or emulated interrupt vectors.

# Basic Usage

	table := handlertable.New[handlertable.Handler](8)

	table.RegisterHandler(0, func() { fmt.Println("timer") }) // true
	table.RegisterHandler(0, other)                          // false, occupied

	table.Handle(0) // prints "timer", returns true
	table.Handle(2) // false, nothing bound

	h, ok := table.UnregisterHandler(0) // ok == true, h is the timer handler
	table.Handle(0)                     // false

Every failure (index out of range, occupied slot, empty slot, lost race) is
reported through the bool or (H, bool) result. Use TryRegister,
TryUnregister and TryHandle when the reason matters:

	if err := table.TryRegister(9, h); errors.Is(err, handlertable.ErrIndexOutOfRange) {
	    // ...
	}

# Static Storage

The zero Slot is empty, so slots can live in a package-level array and be
used before any constructor runs:

	var vectors [32]handlertable.Slot[handlertable.Handler]
	var table = handlertable.Over(vectors[:])

The zero Table is also valid; it has capacity 0 and rejects every index.

# Slot State Machine

	Empty --register--> Registering --> Occupied --unregister--> Removing --> Empty

Registering and Removing are transient and read as empty by Handle. A
register publishes the handler before the Occupied tag becomes visible, so
Handle never sees a partially written handler. An unregister claims the slot
by moving it to Removing, waits for readers that are copying the handler out,
then clears it; Handle never reads a handler that is being cleared.

Handle copies the handler while holding a reader pin and calls the copy
after releasing it. Handlers therefore run concurrently with each other and
may re-enter the table, including unregistering their own slot. A Handle
racing with an unregister either calls the handler or reports empty.

# Non-goals

Capacity never changes. The table does not recover panics raised by
handlers, bound how long they run, or prevent them from re-entering.
*/
package handlertable
