// Package nativetest provides a scriptable, recording stand-in for the
// native library.
package nativetest

import (
	"sync"

	"github.com/wippyai/splink"
)

// Session is a session whose handle is fixed.
type Session splink.Handle

// Handle implements splink.Session.
func (s Session) Handle() splink.Handle {
	return splink.Handle(s)
}

type refKey struct {
	kind   splink.Kind
	handle splink.Handle
}

// Fake implements splink.Native from maps filled in by the test. Lookups
// that find nothing return the null handle. Every call is counted.
type Fake struct {
	// ParseResult is returned by LinkCreateFromString.
	ParseResult splink.Handle

	Strings   map[splink.Handle]string
	Types     map[splink.Handle]int
	Tracks    map[splink.Handle]splink.Handle
	Offsets   map[splink.Handle]int
	Albums    map[splink.Handle]splink.Handle
	Artists   map[splink.Handle]splink.Handle
	Users     map[splink.Handle]splink.Handle
	Playlists map[splink.Handle]splink.Handle
	Images    map[splink.Handle]splink.Handle

	// Links maps an entity handle to the link LinkCreateFrom* returns.
	Links map[splink.Handle]splink.Handle

	mu          sync.Mutex
	calls       map[string]int
	addRefs     map[refKey]int
	releases    map[refKey]int
	parsed      []string
	buffers     []int
	sessions    []splink.Handle
	trackOffset int
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		Strings:   make(map[splink.Handle]string),
		Types:     make(map[splink.Handle]int),
		Tracks:    make(map[splink.Handle]splink.Handle),
		Offsets:   make(map[splink.Handle]int),
		Albums:    make(map[splink.Handle]splink.Handle),
		Artists:   make(map[splink.Handle]splink.Handle),
		Users:     make(map[splink.Handle]splink.Handle),
		Playlists: make(map[splink.Handle]splink.Handle),
		Images:    make(map[splink.Handle]splink.Handle),
		Links:     make(map[splink.Handle]splink.Handle),
		calls:     make(map[string]int),
		addRefs:   make(map[refKey]int),
		releases:  make(map[refKey]int),
	}
}

func (f *Fake) record(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

// Calls returns how many times op was invoked.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of native calls of any kind.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// AddRefs returns how many references were added to h.
func (f *Fake) AddRefs(kind splink.Kind, h splink.Handle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addRefs[refKey{kind, h}]
}

// Releases returns how many references to h were released.
func (f *Fake) Releases(kind splink.Kind, h splink.Handle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releases[refKey{kind, h}]
}

// Parsed returns the strings passed to LinkCreateFromString.
func (f *Fake) Parsed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.parsed...)
}

// Buffers returns the buffer lengths passed to LinkAsString.
func (f *Fake) Buffers() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.buffers...)
}

// Sessions returns the session handles passed to creating calls.
func (f *Fake) Sessions() []splink.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]splink.Handle(nil), f.sessions...)
}

// TrackOffset returns the offset last passed to LinkCreateFromTrack.
func (f *Fake) TrackOffset() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.trackOffset
}

func (f *Fake) AddRef(kind splink.Kind, h splink.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[splink.OpAddRef]++
	f.addRefs[refKey{kind, h}]++
}

func (f *Fake) Release(kind splink.Kind, h splink.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[splink.OpRelease]++
	f.releases[refKey{kind, h}]++
}

func (f *Fake) LinkCreateFromString(uri string) splink.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[splink.OpLinkCreateFromString]++
	f.parsed = append(f.parsed, uri)
	return f.ParseResult
}

func (f *Fake) LinkCreateFromTrack(track splink.Handle, offsetMs int) splink.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[splink.OpLinkCreateFromTrack]++
	f.trackOffset = offsetMs
	return f.Links[track]
}

func (f *Fake) linkFrom(op string, h splink.Handle) splink.Handle {
	f.record(op)
	return f.Links[h]
}

func (f *Fake) LinkCreateFromAlbum(album splink.Handle) splink.Handle {
	return f.linkFrom(splink.OpLinkCreateFromAlbum, album)
}

func (f *Fake) LinkCreateFromArtist(artist splink.Handle) splink.Handle {
	return f.linkFrom(splink.OpLinkCreateFromArtist, artist)
}

func (f *Fake) LinkCreateFromPlaylist(playlist splink.Handle) splink.Handle {
	return f.linkFrom(splink.OpLinkCreateFromPlaylist, playlist)
}

func (f *Fake) LinkCreateFromUser(user splink.Handle) splink.Handle {
	return f.linkFrom(splink.OpLinkCreateFromUser, user)
}

func (f *Fake) LinkCreateFromImage(image splink.Handle) splink.Handle {
	return f.linkFrom(splink.OpLinkCreateFromImage, image)
}

// LinkAsString behaves like a truncating string-format call: it copies
// what fits and returns the full length.
func (f *Fake) LinkAsString(link splink.Handle, buf []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[splink.OpLinkAsString]++
	f.buffers = append(f.buffers, len(buf))

	s, ok := f.Strings[link]
	if !ok {
		return -1
	}
	copy(buf, s)
	return len(s)
}

func (f *Fake) LinkType(link splink.Handle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[splink.OpLinkType]++
	return f.Types[link]
}

func (f *Fake) LinkAsTrack(link splink.Handle) splink.Handle {
	f.record(splink.OpLinkAsTrack)
	return f.Tracks[link]
}

func (f *Fake) LinkAsTrackAndOffset(link splink.Handle, offsetMs *int) splink.Handle {
	f.record(splink.OpLinkAsTrackAndOffset)
	h := f.Tracks[link]
	if h.IsNull() {
		return 0
	}
	*offsetMs = f.Offsets[link]
	return h
}

func (f *Fake) LinkAsAlbum(link splink.Handle) splink.Handle {
	f.record(splink.OpLinkAsAlbum)
	return f.Albums[link]
}

func (f *Fake) LinkAsArtist(link splink.Handle) splink.Handle {
	f.record(splink.OpLinkAsArtist)
	return f.Artists[link]
}

func (f *Fake) LinkAsUser(link splink.Handle) splink.Handle {
	f.record(splink.OpLinkAsUser)
	return f.Users[link]
}

func (f *Fake) PlaylistCreate(session splink.Handle, link splink.Handle) splink.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[splink.OpPlaylistCreate]++
	f.sessions = append(f.sessions, session)
	return f.Playlists[link]
}

func (f *Fake) ImageCreateFromLink(session splink.Handle, link splink.Handle) splink.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[splink.OpImageCreateFromLink]++
	f.sessions = append(f.sessions, session)
	return f.Images[link]
}

var _ splink.Native = (*Fake)(nil)
