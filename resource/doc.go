// Package resource provides native handle ownership and reference-counted
// handle tables.
//
// # Ownership
//
// A Ref owns exactly one native reference. It is created in one of two ways:
//
//	ref := resource.Borrow(lib, splink.KindTrack, h) // AddRef, then wrap
//	ref := resource.Adopt(lib, splink.KindPlaylist, h) // wrap as-is
//
// Wrap chooses between them from an Ownership value, which is how typed
// entity constructors receive the (handle, owns reference) pair:
//
//	ref := resource.Wrap(lib, kind, h, resource.Owned)
//
// Release gives the reference back exactly once. A Ref that becomes
// unreachable without being released is released by a runtime cleanup and
// a warning is logged, since that usually means a missing Release call.
//
// Share is the only way to get a second owner of the same handle:
//
//	other := ref.Share() // AddRef + new Ref
//
// Wrapping the null handle panics with a precondition error before any
// native call is made.
//
// # Handle Table
//
// The UnifiedTable maps handles to Go values with a reference count, the
// bookkeeping a native library keeps on its side:
//
//	table := resource.NewTable()
//
//	h := table.Insert(typeID, value) // refs = 1
//	table.Retain(h)                  // refs = 2
//	table.Release(h)                 // refs = 1
//	value, dropped := table.Release(h) // removed, Dropper runs
//
// # Observers
//
// Register observers to track resource lifecycle events:
//
//	table.Subscribe(observer)
//
// Events are EventCreated, EventRetained, EventReleased (count still above
// zero) and EventDropped.
package resource
