// Package entity wraps native track, album, artist, playlist, user and
// image handles.
//
// Every constructor takes the handle together with a resource.Ownership that
// says whether the caller hands over a reference (resource.Owned) or the
// wrapper must take its own (resource.Borrowed). Each wrapper then owns
// exactly one reference and gives it back on Release.
package entity
