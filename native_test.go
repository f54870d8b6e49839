package splink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkTypeOrdinals(t *testing.T) {
	tests := []struct {
		typ  LinkType
		want int
		name string
	}{
		{LinkTypeInvalid, 0, "INVALID"},
		{LinkTypeTrack, 1, "TRACK"},
		{LinkTypeAlbum, 2, "ALBUM"},
		{LinkTypeArtist, 3, "ARTIST"},
		{LinkTypeSearch, 4, "SEARCH"},
		{LinkTypePlaylist, 5, "PLAYLIST"},
		{LinkTypeProfile, 6, "PROFILE"},
		{LinkTypeStarred, 7, "STARRED"},
		{LinkTypeLocalTrack, 8, "LOCALTRACK"},
		{LinkTypeImage, 9, "IMAGE"},
		{LinkTypeAlbumBrowse, 10, "ALBUM_BROWSE"},
		{LinkTypeArtistBrowse, 11, "ARTIST_BROWSE"},
		{LinkTypeRootlist, 12, "ROOTLIST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, int(tt.typ))
			assert.Equal(t, tt.name, tt.typ.String())
		})
	}
}

func TestLinkTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "LinkType(42)", LinkType(42).String())
	assert.Equal(t, "LinkType(-1)", LinkType(-1).String())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "playlist", KindPlaylist.String())
	assert.Equal(t, "kind(0)", Kind(0).String())
}

type testSession Handle

func (s testSession) Handle() Handle { return Handle(s) }

func TestSessionHandle(t *testing.T) {
	tests := []struct {
		name   string
		sess   Session
		handle Handle
		active bool
	}{
		{"nil", nil, 0, false},
		{"logged out", testSession(0), 0, false},
		{"active", testSession(7), 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := SessionHandle(tt.sess)
			assert.Equal(t, tt.active, ok)
			assert.Equal(t, tt.handle, h)
		})
	}
}

func TestHandleIsNull(t *testing.T) {
	assert.True(t, Handle(0).IsNull())
	assert.False(t, Handle(1).IsNull())
}
