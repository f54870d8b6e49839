package resource

import (
	"sync"

	"github.com/wippyai/splink"
)

// UnifiedTable implements the Table interface using a LocalBackend for storage.
type UnifiedTable struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new unified table with a LocalBackend.
func NewTable() *UnifiedTable {
	return &UnifiedTable{
		backend: NewLocalBackend(),
	}
}

// Insert adds a value with one reference and returns its handle.
// Returns the null handle once the table is closed.
func (t *UnifiedTable) Insert(typeID uint32, value any) splink.Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(typeID, value)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
		Refs:   1,
	})

	return handle
}

// Get retrieves a value by handle.
func (t *UnifiedTable) Get(handle splink.Handle) (any, bool) {
	return t.backend.Get(handle)
}

// GetTyped retrieves a value only if it matches the expected type.
func (t *UnifiedTable) GetTyped(handle splink.Handle, typeID uint32) (any, bool) {
	actualTypeID, ok := t.backend.TypeID(handle)
	if !ok || actualTypeID != typeID {
		return nil, false
	}
	return t.backend.Get(handle)
}

// TypeID returns the type ID of a live resource.
func (t *UnifiedTable) TypeID(handle splink.Handle) (uint32, bool) {
	return t.backend.TypeID(handle)
}

// Refs returns the reference count of a live resource.
func (t *UnifiedTable) Refs(handle splink.Handle) (int, bool) {
	return t.backend.Refs(handle)
}

// Retain adds a reference to a live resource.
func (t *UnifiedTable) Retain(handle splink.Handle) bool {
	if !t.backend.Retain(handle) {
		return false
	}

	typeID, _ := t.backend.TypeID(handle)
	refs, _ := t.backend.Refs(handle)
	t.notify(Event{
		Type:   EventRetained,
		Handle: handle,
		TypeID: typeID,
		Refs:   refs,
	})
	return true
}

// Release drops one reference. When it was the last, the value is removed,
// its Dropper runs, and (value, true) is returned.
func (t *UnifiedTable) Release(handle splink.Handle) (any, bool) {
	typeID, ok := t.backend.TypeID(handle)
	if !ok {
		return nil, false
	}

	value, dropped, err := t.backend.Release(handle)
	if err != nil {
		return nil, false
	}

	if !dropped {
		refs, _ := t.backend.Refs(handle)
		t.notify(Event{
			Type:   EventReleased,
			Handle: handle,
			TypeID: typeID,
			Refs:   refs,
		})
		return nil, false
	}

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *UnifiedTable) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *UnifiedTable) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of active resources.
func (t *UnifiedTable) Len() int {
	return t.backend.Len()
}

// Each iterates over all live resources. fn must not call back into the table.
func (t *UnifiedTable) Each(fn func(splink.Handle, uint32, any) bool) {
	t.backend.Each(fn)
}

// Clear drops all resources regardless of their reference counts.
func (t *UnifiedTable) Clear() {
	// Collect handles first to avoid holding lock during Drop
	var handles []splink.Handle
	t.backend.Each(func(h splink.Handle, typeID uint32, value any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		typeID, _ := t.backend.TypeID(h)
		value, ok := t.backend.Drop(h)
		if !ok {
			continue
		}
		if d, ok := value.(Dropper); ok {
			d.Drop()
		}
		t.notify(Event{
			Type:   EventDropped,
			Handle: h,
			TypeID: typeID,
			Value:  value,
		})
	}
}

// Close releases all resources and stops accepting operations.
func (t *UnifiedTable) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

// Backend returns the underlying backend.
func (t *UnifiedTable) Backend() *LocalBackend {
	return t.backend
}

func (t *UnifiedTable) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}

var _ Table = (*UnifiedTable)(nil)
