package resource

import (
	"sync"

	"github.com/wippyai/splink"
	"github.com/wippyai/splink/errors"
)

// ErrClosed is returned by a backend after Close.
var ErrClosed = errors.New(errors.PhaseNative, errors.KindReleased).
	Detail("resource backend closed").
	Build()

// LocalBackend is an in-memory, reference-counted resource backend.
// Handles are slot indexes offset by one so the null handle is never issued.
type LocalBackend struct {
	entries  []entry
	freeList []splink.Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value  any
	typeID uint32
	refs   int32
	valid  bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]splink.Handle, 0, 16),
	}
}

// Create stores a value with a reference count of one and returns a handle.
func (b *LocalBackend) Create(typeID uint32, value any) (splink.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	e := entry{
		typeID: typeID,
		value:  value,
		refs:   1,
		valid:  true,
	}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	b.entries = append(b.entries, e)
	return splink.Handle(len(b.entries)), nil
}

// lookup returns the live entry for handle. Caller holds b.mu.
func (b *LocalBackend) lookup(handle splink.Handle) (*entry, bool) {
	if handle == 0 {
		return nil, false
	}
	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return nil, false
	}
	e := &b.entries[idx]
	if !e.valid {
		return nil, false
	}
	return e, true
}

// Get retrieves a value by handle.
func (b *LocalBackend) Get(handle splink.Handle) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.lookup(handle)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// TypeID returns the type ID for a handle.
func (b *LocalBackend) TypeID(handle splink.Handle) (uint32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.lookup(handle)
	if !ok {
		return 0, false
	}
	return e.typeID, true
}

// Refs returns the reference count for a handle.
func (b *LocalBackend) Refs(handle splink.Handle) (int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.lookup(handle)
	if !ok {
		return 0, false
	}
	return int(e.refs), true
}

// Retain increments the reference count for a handle.
func (b *LocalBackend) Retain(handle splink.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.lookup(handle)
	if !ok {
		return false
	}
	e.refs++
	return true
}

// Release decrements the reference count for a handle. When the count
// reaches zero the slot is freed and the value returned with dropped set.
func (b *LocalBackend) Release(handle splink.Handle) (any, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.lookup(handle)
	if !ok {
		return nil, false, errors.NotFound("release", handle)
	}

	e.refs--
	if e.refs > 0 {
		return nil, false, nil
	}

	value := e.value
	b.free(handle)
	return value, true, nil
}

// Drop removes a resource regardless of its reference count.
func (b *LocalBackend) Drop(handle splink.Handle) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.lookup(handle)
	if !ok {
		return nil, false
	}
	value := e.value
	b.free(handle)
	return value, true
}

// free invalidates a slot and recycles its handle. Caller holds b.mu.
func (b *LocalBackend) free(handle splink.Handle) {
	e := &b.entries[handle-1]
	e.valid = false
	e.value = nil
	e.refs = 0
	b.freeList = append(b.freeList, handle)
}

// Close releases all resources.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for i := range b.entries {
		if b.entries[i].valid {
			if d, ok := b.entries[i].value.(Dropper); ok {
				d.Drop()
			}
			b.entries[i].valid = false
			b.entries[i].value = nil
		}
	}

	b.entries = nil
	b.freeList = nil
	return nil
}

// Len returns the number of active resources.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over all active resources.
func (b *LocalBackend) Each(fn func(splink.Handle, uint32, any) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.valid {
			if !fn(splink.Handle(i+1), e.typeID, e.value) {
				break
			}
		}
	}
}
