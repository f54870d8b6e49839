// Package link wraps native link handles.
//
// A Link owns one reference to a native link. It is created from a URI
// string (which needs an active session), by adopting a handle that already
// carries a reference, or from a typed entity:
//
//	l, err := link.New(lib, sess, "spotify:album:2mCuMNdJkoyiXFhsQCLLqw")
//	l := link.Adopt(lib, h)
//	l, ok := resolver.FromTrack(track, 90_000)
//
// Serialization uses a growing buffer: one native call with
// Options.BufferSize bytes, and a second one with exactly the reported length
// when the URI did not fit.
//
// # Conversions
//
// AsTrack, AsAlbum, AsArtist and AsUser borrow the handle the native library
// keeps for the link and take their own reference. AsPlaylist and AsImage
// create a new resource and adopt the reference that comes with it; they
// check the link type first because the native creation calls misbehave on
// links of another type. A conversion that does not apply reports ok=false.
//
// Links are not safe for concurrent use.
package link
