package handlertable

// Handler is the default handler type: a callable with no arguments and no
// return value.
type Handler func()

// Table is a fixed-capacity array of slots indexed 0..Cap()-1.
//
// All operations are lock-free and act on one slot at a time; operations on
// different indices never contend. Out-of-range indices (including negative
// ones) are reported as failures, never as panics.
//
// The zero value is a valid table with capacity 0. A Table must not be
// copied after first use.
type Table[H ~func()] struct {
	slots []Slot[H]
}

// New creates a table with n empty slots. A negative n yields a table with
// capacity 0.
func New[H ~func()](n int) *Table[H] {
	if n < 0 {
		n = 0
	}
	return &Table[H]{slots: make([]Slot[H], n)}
}

// Over creates a table backed by caller-owned slots. Capacity is len(slots).
//
// Zero slots are empty, so a package-level array works without any
// initialization step:
//
//	var vectors [32]handlertable.Slot[handlertable.Handler]
//	var table = handlertable.Over(vectors[:])
//
// The caller must not access the slots other than through the table.
func Over[H ~func()](slots []Slot[H]) *Table[H] {
	return &Table[H]{slots: slots}
}

// Cap returns the fixed number of slots.
func (t *Table[H]) Cap() int {
	if t == nil {
		return 0
	}
	return len(t.slots)
}

// slot returns the slot at index, or nil when index is out of range.
func (t *Table[H]) slot(index int) *Slot[H] {
	if t == nil || index < 0 || index >= len(t.slots) {
		return nil
	}
	return &t.slots[index]
}

// RegisterHandler binds h to index.
//
// Returns false if index is out of range, the slot is occupied, a concurrent
// register or unregister on the same index won, or h is nil. An existing
// handler is never overwritten.
func (t *Table[H]) RegisterHandler(index int, h H) bool {
	s := t.slot(index)
	if s == nil {
		return false
	}
	return s.Register(h)
}

// UnregisterHandler removes the handler bound to index and returns it.
//
// Returns (zero, false) if index is out of range or no handler is bound.
// After a successful call the table no longer holds or invokes the handler.
func (t *Table[H]) UnregisterHandler(index int) (H, bool) {
	s := t.slot(index)
	if s == nil {
		var zero H
		return zero, false
	}
	return s.Unregister()
}

// Handle invokes the handler bound to index.
//
// Returns true if a handler was found and called, false if index is out of
// range or no handler is bound. A panic in the handler propagates to the
// caller.
func (t *Table[H]) Handle(index int) bool {
	s := t.slot(index)
	if s == nil {
		return false
	}
	return s.Invoke()
}

// Registered reports whether index holds a published handler at the instant
// of the check.
func (t *Table[H]) Registered(index int) bool {
	s := t.slot(index)
	return s != nil && s.Loaded()
}

// Len counts the slots holding a published handler.
// The count is not a snapshot: slots change while they are scanned.
func (t *Table[H]) Len() int {
	n := 0
	t.Range(func(int) bool {
		n++
		return true
	})
	return n
}

// Range calls fn for each index holding a published handler, in ascending
// order, until fn returns false. Each slot is checked at the moment it is
// visited.
func (t *Table[H]) Range(fn func(index int) bool) {
	if t == nil {
		return
	}
	for i := range t.slots {
		if !t.slots[i].Loaded() {
			continue
		}
		if !fn(i) {
			return
		}
	}
}

// TryRegister is RegisterHandler with the failure reason.
// Returns an *IndexError wrapping ErrIndexOutOfRange, ErrNilHandler or
// ErrSlotOccupied.
func (t *Table[H]) TryRegister(index int, h H) error {
	s := t.slot(index)
	switch {
	case s == nil:
		return t.indexError("register", index, ErrIndexOutOfRange)
	case h == nil:
		return t.indexError("register", index, ErrNilHandler)
	case !s.Register(h):
		return t.indexError("register", index, ErrSlotOccupied)
	}
	return nil
}

// TryUnregister is UnregisterHandler with the failure reason.
// Returns an *IndexError wrapping ErrIndexOutOfRange or ErrSlotEmpty.
func (t *Table[H]) TryUnregister(index int) (H, error) {
	var zero H
	s := t.slot(index)
	if s == nil {
		return zero, t.indexError("unregister", index, ErrIndexOutOfRange)
	}
	h, ok := s.Unregister()
	if !ok {
		return zero, t.indexError("unregister", index, ErrSlotEmpty)
	}
	return h, nil
}

// TryHandle is Handle with the failure reason.
// Returns an *IndexError wrapping ErrIndexOutOfRange or ErrSlotEmpty.
func (t *Table[H]) TryHandle(index int) error {
	s := t.slot(index)
	if s == nil {
		return t.indexError("handle", index, ErrIndexOutOfRange)
	}
	if !s.Invoke() {
		return t.indexError("handle", index, ErrSlotEmpty)
	}
	return nil
}

func (t *Table[H]) indexError(op string, index int, err error) *IndexError {
	return &IndexError{Op: op, Index: index, Cap: t.Cap(), Err: err}
}
