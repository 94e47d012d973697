package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/randalmurphal/handlertable/pkg/handlertable"
)

// Sentinel errors for Bind.
var (
	// ErrInvalidName indicates an empty event name.
	ErrInvalidName = errors.New("event name is required")

	// ErrNameTaken indicates the name is already bound to an index.
	ErrNameTaken = errors.New("event name already bound")

	// ErrIndexTaken indicates the index is already bound to another name.
	ErrIndexTaken = errors.New("index already bound")
)

// Names is a thread-safe, two-way mapping between event names and table
// indices. Capacity is fixed at creation and matches the table it labels.
//
// It uses sync.RWMutex, so it is meant for setup and service paths, not for
// code that must not block.
type Names struct {
	mu       sync.RWMutex
	capacity int
	indices  map[string]int
	names    map[int]string
}

// NewNames creates an empty set of bindings for a table with the given
// capacity.
func NewNames(capacity int) *Names {
	if capacity < 0 {
		capacity = 0
	}
	return &Names{
		capacity: capacity,
		indices:  make(map[string]int),
		names:    make(map[int]string),
	}
}

// Capacity returns the number of indices that can be bound.
func (n *Names) Capacity() int {
	return n.capacity
}

// Bind associates name with index.
//
// Fails if name is empty, index is out of range, or either side is already
// bound. Rebinding the same pair is a no-op.
func (n *Names) Bind(name string, index int) error {
	if name == "" {
		return ErrInvalidName
	}
	if index < 0 || index >= n.capacity {
		return &handlertable.IndexError{Op: "bind", Index: index, Cap: n.capacity, Err: handlertable.ErrIndexOutOfRange}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if cur, ok := n.indices[name]; ok {
		if cur == index {
			return nil
		}
		return fmt.Errorf("%w: %q -> %d", ErrNameTaken, name, cur)
	}
	if cur, ok := n.names[index]; ok {
		return fmt.Errorf("%w: %d -> %q", ErrIndexTaken, index, cur)
	}

	n.indices[name] = index
	n.names[index] = name
	return nil
}

// BindMany binds every entry, stopping at the first error.
// Entries are applied in index order so failures are deterministic.
func (n *Names) BindMany(entries map[string]int) error {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if entries[names[i]] == entries[names[j]] {
			return names[i] < names[j]
		}
		return entries[names[i]] < entries[names[j]]
	})

	for _, name := range names {
		if err := n.Bind(name, entries[name]); err != nil {
			return err
		}
	}
	return nil
}

// Unbind removes the binding for name. Returns false if name was not bound.
func (n *Names) Unbind(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	index, ok := n.indices[name]
	if !ok {
		return false
	}
	delete(n.indices, name)
	delete(n.names, index)
	return true
}

// Index returns the index bound to name.
func (n *Names) Index(name string) (int, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	index, ok := n.indices[name]
	return index, ok
}

// Name returns the name bound to index.
func (n *Names) Name(index int) (string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	name, ok := n.names[index]
	return name, ok
}

// Len returns the number of bindings.
func (n *Names) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.indices)
}

// Names returns all bound names ordered by index.
func (n *Names) Names() []string {
	var out []string
	n.Range(func(name string, _ int) bool {
		out = append(out, name)
		return true
	})
	return out
}

// Range iterates over bindings in index order until fn returns false.
//
// Range iterates over a snapshot, so fn may call Bind or Unbind.
func (n *Names) Range(fn func(name string, index int) bool) {
	n.mu.RLock()
	indices := make([]int, 0, len(n.names))
	snapshot := make(map[int]string, len(n.names))
	for i, name := range n.names {
		indices = append(indices, i)
		snapshot[i] = name
	}
	n.mu.RUnlock()

	sort.Ints(indices)
	for _, i := range indices {
		if !fn(snapshot[i], i) {
			return
		}
	}
}
