package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/splink"
	"github.com/wippyai/splink/errors"
	"github.com/wippyai/splink/internal/nativetest"
	"github.com/wippyai/splink/resource"
)

type wrapped interface {
	Handle() splink.Handle
	Release() bool
	Released() bool
	String() string
}

var constructors = []struct {
	kind splink.Kind
	make func(splink.RefCounter, splink.Handle, resource.Ownership) wrapped
}{
	{splink.KindTrack, func(rc splink.RefCounter, h splink.Handle, o resource.Ownership) wrapped { return NewTrack(rc, h, o) }},
	{splink.KindAlbum, func(rc splink.RefCounter, h splink.Handle, o resource.Ownership) wrapped { return NewAlbum(rc, h, o) }},
	{splink.KindArtist, func(rc splink.RefCounter, h splink.Handle, o resource.Ownership) wrapped { return NewArtist(rc, h, o) }},
	{splink.KindPlaylist, func(rc splink.RefCounter, h splink.Handle, o resource.Ownership) wrapped { return NewPlaylist(rc, h, o) }},
	{splink.KindUser, func(rc splink.RefCounter, h splink.Handle, o resource.Ownership) wrapped { return NewUser(rc, h, o) }},
	{splink.KindImage, func(rc splink.RefCounter, h splink.Handle, o resource.Ownership) wrapped { return NewImage(rc, h, o) }},
}

func TestConstructors_Borrowed(t *testing.T) {
	for _, c := range constructors {
		t.Run(c.kind.String(), func(t *testing.T) {
			lib := nativetest.New()

			e := c.make(lib, 42, resource.Borrowed)

			assert.Equal(t, splink.Handle(42), e.Handle())
			assert.Equal(t, 1, lib.AddRefs(c.kind, 42))

			e.Release()
			assert.Equal(t, 1, lib.Releases(c.kind, 42))
		})
	}
}

func TestConstructors_Owned(t *testing.T) {
	for _, c := range constructors {
		t.Run(c.kind.String(), func(t *testing.T) {
			lib := nativetest.New()

			e := c.make(lib, 42, resource.Owned)

			assert.Zero(t, lib.AddRefs(c.kind, 42))

			e.Release()
			e.Release()
			assert.Equal(t, 1, lib.Releases(c.kind, 42))
			assert.True(t, e.Released())
		})
	}
}

func TestConstructors_NullHandle(t *testing.T) {
	for _, c := range constructors {
		t.Run(c.kind.String(), func(t *testing.T) {
			lib := nativetest.New()

			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(*errors.Error)
				require.True(t, ok)
				assert.ErrorIs(t, err, errors.ErrPrecondition)
				assert.Zero(t, lib.TotalCalls())
			}()
			c.make(lib, 0, resource.Borrowed)
		})
	}
}

func TestString(t *testing.T) {
	lib := nativetest.New()
	track := NewTrack(lib, 0x10, resource.Owned)
	defer track.Release()

	assert.Equal(t, "track(0x10)", track.String())
}

func TestShare(t *testing.T) {
	lib := nativetest.New()
	playlist := NewPlaylist(lib, 7, resource.Owned)
	other := playlist.Share()

	assert.Equal(t, playlist.Handle(), other.Handle())
	assert.Equal(t, 1, lib.AddRefs(splink.KindPlaylist, 7))

	playlist.Release()
	assert.False(t, other.Released())
	other.Release()
	assert.Equal(t, 2, lib.Releases(splink.KindPlaylist, 7))
}
