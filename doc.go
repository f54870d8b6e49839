// Package splink wraps reference-counted native link handles and the
// resources they resolve to.
//
// The native library hands out opaque handles for links, tracks, albums,
// artists, playlists, users and images, and expects every holder to add and
// release references by hand. This module binds each handle to a Go value
// that owns exactly one reference and releases it exactly once.
//
// # Architecture Overview
//
//	splink/              Native capability interfaces, Handle, Kind, LinkType
//	├── errors/          Structured error types (phase + kind)
//	├── resource/        Ownership primitive (Ref) and refcounted handle tables
//	├── entity/          Track, Album, Artist, Playlist, User, Image wrappers
//	├── link/            Link entity: parse, serialize, classify, convert
//	└── memnative/       In-memory implementation of the native interfaces
//
// # Quick Start
//
//	lib := memnative.New()
//	sess := lib.NewSession()
//
//	l, err := link.New(lib, sess, "spotify:track:6rqhFgbbKwnb9MLmUQDhG6")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Release()
//
//	if track, ok := l.AsTrack(); ok {
//	    defer track.Release()
//	    fmt.Println(track)
//	}
//
// # Ownership Regimes
//
// Handles enter a wrapper in one of two ways:
//
//	borrow - the source keeps its reference; the wrapper adds its own
//	adopt  - the wrapper takes over a reference the caller already holds
//
// Lookups such as Link.AsTrack borrow. Creating calls such as Link.AsPlaylist
// and link construction from a string adopt. Mixing the two up either leaks
// a reference or frees a resource that is still in use.
//
// # Thread Safety
//
// Wrappers do not lock around native calls. A single handle must not be used
// from several goroutines without external synchronization. Release is the
// exception: it is idempotent and safe against the garbage collector's
// cleanup goroutine.
package splink
