package splink

import "strconv"

// Handle is an opaque reference to a resource owned by the native library.
// The zero Handle is the null sentinel and never refers to a resource.
type Handle uintptr

// IsNull reports whether h is the null sentinel.
func (h Handle) IsNull() bool {
	return h == 0
}

// Kind identifies the resource family a handle belongs to.
type Kind uint8

const (
	KindLink Kind = iota + 1
	KindTrack
	KindAlbum
	KindArtist
	KindPlaylist
	KindUser
	KindImage
)

var kindNames = [...]string{
	KindLink:     "link",
	KindTrack:    "track",
	KindAlbum:    "album",
	KindArtist:   "artist",
	KindPlaylist: "playlist",
	KindUser:     "user",
	KindImage:    "image",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// LinkType classifies what a link points at. Values 0-9 are the native
// library's ordinals and must not be renumbered.
type LinkType int

const (
	LinkTypeInvalid LinkType = iota
	LinkTypeTrack
	LinkTypeAlbum
	LinkTypeArtist
	LinkTypeSearch
	LinkTypePlaylist
	LinkTypeProfile
	LinkTypeStarred
	LinkTypeLocalTrack
	LinkTypeImage
	LinkTypeAlbumBrowse
	LinkTypeArtistBrowse
	LinkTypeRootlist
)

var linkTypeNames = [...]string{
	LinkTypeInvalid:      "INVALID",
	LinkTypeTrack:        "TRACK",
	LinkTypeAlbum:        "ALBUM",
	LinkTypeArtist:       "ARTIST",
	LinkTypeSearch:       "SEARCH",
	LinkTypePlaylist:     "PLAYLIST",
	LinkTypeProfile:      "PROFILE",
	LinkTypeStarred:      "STARRED",
	LinkTypeLocalTrack:   "LOCALTRACK",
	LinkTypeImage:        "IMAGE",
	LinkTypeAlbumBrowse:  "ALBUM_BROWSE",
	LinkTypeArtistBrowse: "ARTIST_BROWSE",
	LinkTypeRootlist:     "ROOTLIST",
}

func (t LinkType) String() string {
	if t >= 0 && int(t) < len(linkTypeNames) {
		return linkTypeNames[t]
	}
	return "LinkType(" + strconv.Itoa(int(t)) + ")"
}

// Session is the native session context required to resolve URIs and to
// create playlists and images. A nil Session, or one whose handle is null,
// means no session is active.
type Session interface {
	Handle() Handle
}

// SessionHandle returns the handle of s and whether s is an active session.
func SessionHandle(s Session) (Handle, bool) {
	if s == nil {
		return 0, false
	}
	h := s.Handle()
	return h, !h.IsNull()
}

// RefCounter adjusts native reference counts.
type RefCounter interface {
	// AddRef takes one additional reference on h.
	AddRef(kind Kind, h Handle)

	// Release drops one reference on h. The resource is freed when the
	// last reference goes away.
	Release(kind Kind, h Handle)
}

// LinkNative is the native link surface. Every method returning a Handle
// reports failure with the null handle.
type LinkNative interface {
	// LinkCreateFromString parses uri. The returned handle carries one
	// reference owned by the caller.
	LinkCreateFromString(uri string) Handle

	// LinkCreateFromTrack and the other LinkCreateFrom* calls build a new
	// link for an existing resource. The returned handle carries one
	// reference owned by the caller.
	LinkCreateFromTrack(track Handle, offsetMs int) Handle
	LinkCreateFromAlbum(album Handle) Handle
	LinkCreateFromArtist(artist Handle) Handle
	LinkCreateFromPlaylist(playlist Handle) Handle
	LinkCreateFromUser(user Handle) Handle
	LinkCreateFromImage(image Handle) Handle

	// LinkAsString writes up to len(buf) bytes of the link's string form
	// into buf and returns the full length of that form, which may exceed
	// len(buf). No terminator is written or counted. A negative result
	// signals failure.
	LinkAsString(link Handle, buf []byte) int

	// LinkType returns the native LinkType ordinal of link.
	LinkType(link Handle) int

	// LinkAsTrack and its siblings return a handle still owned by the link.
	// Callers keeping it must take their own reference.
	LinkAsTrack(link Handle) Handle
	LinkAsTrackAndOffset(link Handle, offsetMs *int) Handle
	LinkAsAlbum(link Handle) Handle
	LinkAsArtist(link Handle) Handle
	LinkAsUser(link Handle) Handle

	// PlaylistCreate and ImageCreateFromLink manufacture a new reference
	// owned by the caller. Behaviour is undefined for links of another type.
	PlaylistCreate(session Handle, link Handle) Handle
	ImageCreateFromLink(session Handle, link Handle) Handle
}

// Native is the complete capability set consumed by the wrappers.
type Native interface {
	RefCounter
	LinkNative
}
