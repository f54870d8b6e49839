package resource

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/splink"
	"github.com/wippyai/splink/errors"
	"github.com/wippyai/splink/internal/nativetest"
)

func expectPrecondition(t *testing.T, fn func()) *errors.Error {
	t.Helper()
	var got *errors.Error
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected panic")
			e, ok := r.(*errors.Error)
			require.True(t, ok, "panic value %T is not *errors.Error", r)
			got = e
		}()
		fn()
	}()
	return got
}

// collect runs the garbage collector until done reports true or the
// attempts run out.
func collect(attempts int, done func() bool) {
	for i := 0; i < attempts && !done(); i++ {
		runtime.GC()
		time.Sleep(time.Millisecond)
	}
}

func TestAdopt_NoAddRef(t *testing.T) {
	lib := nativetest.New()

	ref := Adopt(lib, splink.KindPlaylist, 5)
	defer ref.Release()

	assert.Zero(t, lib.AddRefs(splink.KindPlaylist, 5), "Adopt must not add a reference")
	assert.Equal(t, splink.Handle(5), ref.Handle())
	assert.Equal(t, splink.KindPlaylist, ref.Kind())
}

func TestBorrow_AddsOneRef(t *testing.T) {
	lib := nativetest.New()

	ref := Borrow(lib, splink.KindTrack, 3)
	defer ref.Release()

	assert.Equal(t, 1, lib.AddRefs(splink.KindTrack, 3))
}

func TestWrap_Ownership(t *testing.T) {
	tests := []struct {
		own     Ownership
		addRefs int
	}{
		{Owned, 0},
		{Borrowed, 1},
	}

	for _, tt := range tests {
		t.Run(tt.own.String(), func(t *testing.T) {
			lib := nativetest.New()
			ref := Wrap(lib, splink.KindAlbum, 11, tt.own)
			defer ref.Release()

			assert.Equal(t, tt.addRefs, lib.AddRefs(splink.KindAlbum, 11))
		})
	}
}

func TestRef_ReleaseExactlyOnce(t *testing.T) {
	lib := nativetest.New()
	ref := Adopt(lib, splink.KindLink, 1)

	assert.True(t, ref.Release())
	assert.False(t, ref.Release())
	ref.Release()

	assert.Equal(t, 1, lib.Releases(splink.KindLink, 1))
	assert.True(t, ref.Released())
}

func TestRef_ConcurrentRelease(t *testing.T) {
	lib := nativetest.New()
	ref := Adopt(lib, splink.KindLink, 1)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref.Release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, lib.Releases(splink.KindLink, 1))
}

func TestRef_HandleAfterRelease(t *testing.T) {
	lib := nativetest.New()
	ref := Adopt(lib, splink.KindLink, 1)
	ref.Release()

	err := expectPrecondition(t, func() { ref.Handle() })
	assert.ErrorIs(t, err, errors.ErrReleased)
}

func TestRef_NullHandle(t *testing.T) {
	lib := nativetest.New()

	for _, fn := range []func(){
		func() { Adopt(lib, splink.KindTrack, 0) },
		func() { Borrow(lib, splink.KindTrack, 0) },
	} {
		err := expectPrecondition(t, fn)
		assert.ErrorIs(t, err, errors.ErrPrecondition)
		assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindNullHandle})
	}

	assert.Zero(t, lib.TotalCalls(), "no native call for a null handle")
}

func TestRef_NilRefCounter(t *testing.T) {
	err := expectPrecondition(t, func() { Adopt(nil, splink.KindTrack, 1) })
	assert.Equal(t, errors.KindPrecondition, err.Kind)
}

func TestRef_Share(t *testing.T) {
	lib := nativetest.New()
	ref := Adopt(lib, splink.KindUser, 4)
	other := ref.Share()

	assert.NotSame(t, ref, other)
	assert.Equal(t, ref.Handle(), other.Handle())
	assert.Equal(t, 1, lib.AddRefs(splink.KindUser, 4))

	ref.Release()
	assert.False(t, other.Released(), "owners are independent")
	other.Release()

	assert.Equal(t, 2, lib.Releases(splink.KindUser, 4))
}

func TestRef_String(t *testing.T) {
	lib := nativetest.New()
	ref := Adopt(lib, splink.KindImage, 0x2a)
	defer ref.Release()

	assert.Equal(t, "image(0x2a)", ref.String())
}

func TestRef_PinDefersRelease(t *testing.T) {
	lib := nativetest.New()
	ref := Adopt(lib, splink.KindLink, 1)

	h, unpin := ref.Pin()
	assert.Equal(t, splink.Handle(1), h)

	assert.True(t, ref.Release())
	assert.True(t, ref.Released())
	assert.Zero(t, lib.Releases(splink.KindLink, 1), "release waits for the pinned call")

	unpin()
	assert.Equal(t, 1, lib.Releases(splink.KindLink, 1))
}

func TestRef_NestedPins(t *testing.T) {
	lib := nativetest.New()
	ref := Adopt(lib, splink.KindLink, 1)

	_, outer := ref.Pin()
	_, inner := ref.Pin()
	ref.Release()

	inner()
	assert.Zero(t, lib.Releases(splink.KindLink, 1))
	outer()
	assert.Equal(t, 1, lib.Releases(splink.KindLink, 1))
}

func TestRef_PinAfterRelease(t *testing.T) {
	lib := nativetest.New()
	ref := Adopt(lib, splink.KindLink, 1)
	ref.Release()

	err := expectPrecondition(t, func() { ref.Pin() })
	assert.ErrorIs(t, err, errors.ErrReleased)
}

func TestRef_PinKeepsUnreachableRefAlive(t *testing.T) {
	lib := nativetest.New()

	_, unpin := func() (splink.Handle, func()) {
		return Adopt(lib, splink.KindLink, 7).Pin()
	}()

	collect(5, func() bool { return false })
	assert.Zero(t, lib.Releases(splink.KindLink, 7), "pinned handle released by cleanup")

	unpin()
	unpin = nil
	collect(200, func() bool { return lib.Releases(splink.KindLink, 7) > 0 })
	assert.Equal(t, 1, lib.Releases(splink.KindLink, 7))
}

func TestRef_ReleasedWhenUnreachable(t *testing.T) {
	lib := nativetest.New()

	func() {
		Adopt(lib, splink.KindLink, 9)
	}()

	collect(200, func() bool { return lib.Releases(splink.KindLink, 9) > 0 })

	assert.Equal(t, 1, lib.Releases(splink.KindLink, 9))
}

func TestRef_ExplicitReleaseStopsCleanup(t *testing.T) {
	lib := nativetest.New()

	func() {
		Adopt(lib, splink.KindLink, 8).Release()
	}()

	collect(5, func() bool { return false })

	assert.Equal(t, 1, lib.Releases(splink.KindLink, 8))
}
