package link

import (
	"github.com/wippyai/splink"
	"github.com/wippyai/splink/entity"
	"github.com/wippyai/splink/errors"
	"github.com/wippyai/splink/resource"
)

// AsTrack returns the track the link points at.
func (l *Link) AsTrack() (*entity.Track, bool) {
	h, unpin := l.ref.Pin()
	defer unpin()

	track := l.lib.LinkAsTrack(h)
	if track.IsNull() {
		return nil, false
	}
	return entity.NewTrack(l.lib, track, resource.Borrowed), true
}

// AsTrackWithOffset returns the track and the offset in milliseconds
// encoded in the link. Both are absent together.
func (l *Link) AsTrackWithOffset() (*entity.Track, int, bool) {
	h, unpin := l.ref.Pin()
	defer unpin()

	var offset int
	track := l.lib.LinkAsTrackAndOffset(h, &offset)
	if track.IsNull() {
		return nil, 0, false
	}
	return entity.NewTrack(l.lib, track, resource.Borrowed), offset, true
}

// AsTrackOffset returns only the offset in milliseconds of a track link.
func (l *Link) AsTrackOffset() (int, bool) {
	h, unpin := l.ref.Pin()
	defer unpin()

	var offset int
	if l.lib.LinkAsTrackAndOffset(h, &offset).IsNull() {
		return 0, false
	}
	return offset, true
}

// AsAlbum returns the album the link points at.
func (l *Link) AsAlbum() (*entity.Album, bool) {
	h, unpin := l.ref.Pin()
	defer unpin()

	album := l.lib.LinkAsAlbum(h)
	if album.IsNull() {
		return nil, false
	}
	return entity.NewAlbum(l.lib, album, resource.Borrowed), true
}

// AsArtist returns the artist the link points at.
func (l *Link) AsArtist() (*entity.Artist, bool) {
	h, unpin := l.ref.Pin()
	defer unpin()

	artist := l.lib.LinkAsArtist(h)
	if artist.IsNull() {
		return nil, false
	}
	return entity.NewArtist(l.lib, artist, resource.Borrowed), true
}

// AsUser returns the user the link points at.
func (l *Link) AsUser() (*entity.User, bool) {
	h, unpin := l.ref.Pin()
	defer unpin()

	user := l.lib.LinkAsUser(h)
	if user.IsNull() {
		return nil, false
	}
	return entity.NewUser(l.lib, user, resource.Borrowed), true
}

// AsPlaylist creates the playlist a PLAYLIST link points at. Links of any
// other type report ok=false without a native call. An inactive session is
// an error only once the type matched.
func (l *Link) AsPlaylist(sess splink.Session) (*entity.Playlist, bool, error) {
	h, unpin := l.ref.Pin()
	defer unpin()

	if splink.LinkType(l.lib.LinkType(h)) != splink.LinkTypePlaylist {
		return nil, false, nil
	}
	sh, ok := splink.SessionHandle(sess)
	if !ok {
		return nil, false, errors.NoSession(splink.OpPlaylistCreate)
	}

	playlist := l.lib.PlaylistCreate(sh, h)
	if playlist.IsNull() {
		return nil, false, nil
	}
	// created with one reference already counted
	return entity.NewPlaylist(l.lib, playlist, resource.Owned), true, nil
}

// AsImage creates the image an IMAGE link points at, with the same rules
// as AsPlaylist.
func (l *Link) AsImage(sess splink.Session) (*entity.Image, bool, error) {
	h, unpin := l.ref.Pin()
	defer unpin()

	if splink.LinkType(l.lib.LinkType(h)) != splink.LinkTypeImage {
		return nil, false, nil
	}
	sh, ok := splink.SessionHandle(sess)
	if !ok {
		return nil, false, errors.NoSession(splink.OpImageCreateFromLink)
	}

	image := l.lib.ImageCreateFromLink(sh, h)
	if image.IsNull() {
		return nil, false, nil
	}
	return entity.NewImage(l.lib, image, resource.Owned), true, nil
}

// pinner is an entity whose handle can be held for a native call.
type pinner interface {
	Pin() (splink.Handle, func())
}

func nilEntity(what string) {
	panic(errors.Precondition(errors.PhaseConvert, what+" is nil"))
}

// from runs create on the pinned handle of src and adopts the new link.
func (r *Resolver) from(src pinner, create func(splink.Handle) splink.Handle) (*Link, bool) {
	h, unpin := src.Pin()
	defer unpin()
	return r.created(create(h))
}

// FromTrack creates a link to track, starting offsetMs milliseconds in.
func (r *Resolver) FromTrack(track *entity.Track, offsetMs int) (*Link, bool) {
	if track == nil {
		nilEntity("track")
	}
	return r.from(track, func(h splink.Handle) splink.Handle {
		return r.lib.LinkCreateFromTrack(h, offsetMs)
	})
}

// FromAlbum creates a link to album.
func (r *Resolver) FromAlbum(album *entity.Album) (*Link, bool) {
	if album == nil {
		nilEntity("album")
	}
	return r.from(album, r.lib.LinkCreateFromAlbum)
}

// FromArtist creates a link to artist.
func (r *Resolver) FromArtist(artist *entity.Artist) (*Link, bool) {
	if artist == nil {
		nilEntity("artist")
	}
	return r.from(artist, r.lib.LinkCreateFromArtist)
}

// FromPlaylist creates a link to playlist. The native library refuses
// playlists that are not loaded yet.
func (r *Resolver) FromPlaylist(playlist *entity.Playlist) (*Link, bool) {
	if playlist == nil {
		nilEntity("playlist")
	}
	return r.from(playlist, r.lib.LinkCreateFromPlaylist)
}

// FromUser creates a link to user.
func (r *Resolver) FromUser(user *entity.User) (*Link, bool) {
	if user == nil {
		nilEntity("user")
	}
	return r.from(user, r.lib.LinkCreateFromUser)
}

// FromImage creates a link to image.
func (r *Resolver) FromImage(image *entity.Image) (*Link, bool) {
	if image == nil {
		nilEntity("image")
	}
	return r.from(image, r.lib.LinkCreateFromImage)
}

func (r *Resolver) created(h splink.Handle) (*Link, bool) {
	if h.IsNull() {
		return nil, false
	}
	return r.adopt(h), true
}
