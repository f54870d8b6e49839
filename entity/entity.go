package entity

import (
	"github.com/wippyai/splink"
	"github.com/wippyai/splink/resource"
)

// object is the ownership core shared by every entity.
type object struct {
	ref *resource.Ref
}

func newObject(rc splink.RefCounter, kind splink.Kind, h splink.Handle, own resource.Ownership) object {
	return object{ref: resource.Wrap(rc, kind, h, own)}
}

// Handle returns the native handle. It panics once the entity is released.
func (o object) Handle() splink.Handle {
	return o.ref.Handle()
}

// Pin returns the handle for a native call and keeps the entity's
// reference alive until unpin is called.
func (o object) Pin() (splink.Handle, func()) {
	return o.ref.Pin()
}

// Release gives the entity's reference back. Later calls do nothing.
func (o object) Release() bool {
	return o.ref.Release()
}

// Released reports whether Release has been called.
func (o object) Released() bool {
	return o.ref.Released()
}

func (o object) String() string {
	return o.ref.String()
}

// Track is a native track.
type Track struct{ object }

// NewTrack wraps a track handle.
func NewTrack(rc splink.RefCounter, h splink.Handle, own resource.Ownership) *Track {
	return &Track{newObject(rc, splink.KindTrack, h, own)}
}

// Share returns another owner of the same track.
func (t *Track) Share() *Track {
	return &Track{object{t.ref.Share()}}
}

// Album is a native album.
type Album struct{ object }

// NewAlbum wraps an album handle.
func NewAlbum(rc splink.RefCounter, h splink.Handle, own resource.Ownership) *Album {
	return &Album{newObject(rc, splink.KindAlbum, h, own)}
}

// Share returns another owner of the same album.
func (a *Album) Share() *Album {
	return &Album{object{a.ref.Share()}}
}

// Artist is a native artist.
type Artist struct{ object }

// NewArtist wraps an artist handle.
func NewArtist(rc splink.RefCounter, h splink.Handle, own resource.Ownership) *Artist {
	return &Artist{newObject(rc, splink.KindArtist, h, own)}
}

// Share returns another owner of the same artist.
func (a *Artist) Share() *Artist {
	return &Artist{object{a.ref.Share()}}
}

// Playlist is a native playlist.
type Playlist struct{ object }

// NewPlaylist wraps a playlist handle.
func NewPlaylist(rc splink.RefCounter, h splink.Handle, own resource.Ownership) *Playlist {
	return &Playlist{newObject(rc, splink.KindPlaylist, h, own)}
}

// Share returns another owner of the same playlist.
func (p *Playlist) Share() *Playlist {
	return &Playlist{object{p.ref.Share()}}
}

// User is a native user.
type User struct{ object }

// NewUser wraps a user handle.
func NewUser(rc splink.RefCounter, h splink.Handle, own resource.Ownership) *User {
	return &User{newObject(rc, splink.KindUser, h, own)}
}

// Share returns another owner of the same user.
func (u *User) Share() *User {
	return &User{object{u.ref.Share()}}
}

// Image is a native image.
type Image struct{ object }

// NewImage wraps an image handle.
func NewImage(rc splink.RefCounter, h splink.Handle, own resource.Ownership) *Image {
	return &Image{newObject(rc, splink.KindImage, h, own)}
}

// Share returns another owner of the same image.
func (i *Image) Share() *Image {
	return &Image{object{i.ref.Share()}}
}
