package resource

import "github.com/wippyai/splink"

// EventType identifies a lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventRetained
	EventReleased
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventRetained:
		return "retained"
	case EventReleased:
		return "released"
	case EventDropped:
		return "dropped"
	}
	return "unknown"
}

// Event represents a resource lifecycle event.
type Event struct {
	Value  any
	Handle splink.Handle
	TypeID uint32
	Refs   int
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend provides reference-counted storage for resources.
type Backend interface {
	// Create stores a value with one reference and returns its handle.
	Create(typeID uint32, value any) (splink.Handle, error)

	// Get retrieves a value by handle.
	Get(handle splink.Handle) (any, bool)

	// Retain adds a reference. Returns false for an unknown handle.
	Retain(handle splink.Handle) bool

	// Release drops a reference. dropped is true when it was the last one
	// and the value has been removed.
	Release(handle splink.Handle) (value any, dropped bool, err error)

	// Close releases all resources held by the backend.
	Close() error
}

// Table manages resources with type information and observer support.
type Table interface {
	// Insert adds a value with one reference and returns its handle.
	Insert(typeID uint32, value any) splink.Handle

	// Get retrieves a value by handle.
	Get(handle splink.Handle) (any, bool)

	// GetTyped retrieves a value only if it matches the expected type.
	GetTyped(handle splink.Handle, typeID uint32) (any, bool)

	// Retain adds a reference to a live resource.
	Retain(handle splink.Handle) bool

	// Release drops a reference and returns the value when it was the last.
	Release(handle splink.Handle) (any, bool)

	// Refs returns the reference count of a live resource.
	Refs(handle splink.Handle) (int, bool)

	// Subscribe adds an observer for lifecycle events.
	Subscribe(Observer)

	// Unsubscribe removes an observer.
	Unsubscribe(Observer)

	// Len returns the number of live resources.
	Len() int

	// Clear drops all resources regardless of their reference counts.
	Clear()

	// Close releases all resources and stops accepting operations.
	Close() error
}

// Dropper is optionally implemented by resource values that need cleanup
// once their last reference is gone.
type Dropper interface {
	Drop()
}
