// Package memnative is an in-memory implementation of splink.Native.
//
// It keeps every native object in a refcounted resource.UnifiedTable and
// follows the contract a real library would: creating calls hand out one
// reference owned by the caller, borrowing queries hand out a resource the
// link keeps alive, and a resource is freed when its last reference goes.
//
// # URI Grammar
//
//	spotify:track:<base62>[#m:ss]
//	spotify:album:<base62>
//	spotify:artist:<base62>
//	spotify:playlist:<base62>
//	spotify:user:<name>
//	spotify:user:<name>:starred
//	spotify:user:<name>:playlist:<base62>
//	spotify:search:<query>
//	spotify:local:<artist>:<album>:<title>:<seconds>
//	spotify:image:<hex>
//
// Input is NFC-normalized before parsing. LinkAsString returns the canonical
// form, which renders a zero track offset as no offset at all.
//
// # Diagnostics
//
// Calls counts native calls by operation name (the splink.Op constants),
// RefCount and Live expose the refcount state, and Close reports every
// resource still referenced from outside the library. Misuse such as
// releasing a handle of the wrong kind is logged and ignored.
//
// Observers registered with Subscribe run with the library locked and must
// not call back into it.
package memnative
