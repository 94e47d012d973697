package handlertable

import (
	"runtime"
	"sync/atomic"
)

// State is the observable state of a Slot.
type State uint8

const (
	// StateEmpty means no handler is bound. It is the zero value.
	StateEmpty State = iota

	// StateRegistering means a register call won the slot and is writing
	// the handler. Readers treat it as empty.
	StateRegistering

	// StateOccupied means a fully written handler is published.
	StateOccupied

	// StateRemoving means an unregister call won the slot and is moving the
	// handler out. Readers treat it as empty.
	StateRemoving
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateRegistering:
		return "registering"
	case StateOccupied:
		return "occupied"
	case StateRemoving:
		return "removing"
	default:
		return "unknown"
	}
}

// Layout of the slot state word: the low two bits hold the State, the rest
// count readers currently copying the handler out of an occupied slot.
const (
	stateMask uint64 = 0b11
	readerOne uint64 = 1 << 2
)

// Slot holds at most one handler and mediates concurrent
// register/unregister/invoke against it without locks.
//
// The zero value is an empty slot. A Slot must not be copied after first use.
type Slot[H ~func()] struct {
	word    atomic.Uint64
	handler H
}

// State returns the slot state at the instant of the load.
func (s *Slot[H]) State() State {
	return State(s.word.Load() & stateMask)
}

// Loaded reports whether the slot held a published handler at the instant
// of the load.
func (s *Slot[H]) Loaded() bool {
	return s.State() == StateOccupied
}

// Register binds h to the slot if it is empty.
//
// Returns false without effect if the slot is occupied, if another register
// or unregister is in flight on it, or if h is nil. Of several concurrent
// registrations at most one returns true.
func (s *Slot[H]) Register(h H) bool {
	if h == nil {
		return false
	}
	// An empty slot never has pinned readers, so the whole word is zero.
	if !s.word.CompareAndSwap(uint64(StateEmpty), uint64(StateRegistering)) {
		return false
	}
	s.handler = h
	s.word.Store(uint64(StateOccupied))
	return true
}

// Unregister removes the bound handler and hands it to the caller.
//
// Returns (zero, false) if the slot holds no published handler. Of several
// concurrent unregisters at most one receives the handler.
//
// After claiming the slot, Unregister may yield briefly (runtime.Gosched)
// while an in-flight Invoke finishes copying the handler out. It never waits
// for a handler to run.
func (s *Slot[H]) Unregister() (H, bool) {
	var zero H
	for {
		w := s.word.Load()
		if State(w&stateMask) != StateOccupied {
			return zero, false
		}
		if s.word.CompareAndSwap(w, w&^stateMask|uint64(StateRemoving)) {
			break
		}
	}

	// New readers fail to pin once the tag is Removing. The ones already
	// pinned are copying a single word and unpin right after.
	for s.word.Load() != uint64(StateRemoving) {
		runtime.Gosched()
	}

	h := s.handler
	s.handler = zero
	s.word.Store(uint64(StateEmpty))
	return h, true
}

// Invoke calls the bound handler and reports whether one was called.
//
// The handler runs after the slot is released, so it may run concurrently
// with other invocations and with an unregister of the same slot.
func (s *Slot[H]) Invoke() bool {
	h, ok := s.load()
	if !ok {
		return false
	}
	h()
	return true
}

// load pins the slot, copies the handler and unpins.
func (s *Slot[H]) load() (H, bool) {
	for {
		w := s.word.Load()
		if State(w&stateMask) != StateOccupied {
			var zero H
			return zero, false
		}
		if s.word.CompareAndSwap(w, w+readerOne) {
			break
		}
	}
	h := s.handler
	s.word.Add(^(readerOne - 1))
	return h, true
}
