package resource

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/splink"
	"github.com/wippyai/splink/errors"
)

// Ownership says whether a wrapper receives a reference it must keep.
type Ownership uint8

const (
	// Borrowed: the source keeps its reference. The wrapper adds its own.
	Borrowed Ownership = iota
	// Owned: the caller hands over one reference it already holds.
	Owned
)

func (o Ownership) String() string {
	if o == Owned {
		return "owned"
	}
	return "borrowed"
}

// noCopy makes go vet's copylocks check flag value copies of Ref.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Ref owns exactly one native reference to a handle and releases it exactly
// once, either through Release or, for unreachable Refs, through a runtime
// cleanup. A Ref must not be copied; use Share to obtain another owner.
type Ref struct {
	_       noCopy
	state   *refState
	cleanup runtime.Cleanup
}

// refState is kept apart from Ref so the cleanup can run without keeping
// the Ref reachable. pins counts native calls in flight; the owned
// reference itself is the -1 offset, so the native release happens when
// the count drops to -1.
type refState struct {
	rc       splink.RefCounter
	handle   splink.Handle
	kind     splink.Kind
	pins     atomic.Int64
	released atomic.Bool
}

func (s *refState) pin() {
	for {
		n := s.pins.Load()
		if n < 0 || s.released.Load() {
			panic(errors.Released(s.kind, s.handle))
		}
		if s.pins.CompareAndSwap(n, n+1) {
			return
		}
	}
}

func (s *refState) unpin() {
	if s.pins.Add(-1) == -1 {
		s.rc.Release(s.kind, s.handle)
	}
}

// release gives up the owned reference. The native release runs now, or
// when the last pinned call finishes.
func (s *refState) release() bool {
	if !s.released.CompareAndSwap(false, true) {
		return false
	}
	s.unpin()
	return true
}

func releaseUnreachable(s *refState) {
	if s.release() {
		Logger().Warn("released unreachable handle",
			zap.Stringer("kind", s.kind),
			zap.Uintptr("handle", uintptr(s.handle)))
	}
}

// Adopt wraps h without touching its reference count. The caller transfers
// the one reference it holds.
func Adopt(rc splink.RefCounter, kind splink.Kind, h splink.Handle) *Ref {
	checkAcquire(rc, kind, h)
	return newRef(rc, kind, h)
}

// Borrow takes a new reference on h and wraps it. The source keeps its own.
func Borrow(rc splink.RefCounter, kind splink.Kind, h splink.Handle) *Ref {
	checkAcquire(rc, kind, h)
	rc.AddRef(kind, h)
	return newRef(rc, kind, h)
}

// Wrap dispatches to Adopt or Borrow.
func Wrap(rc splink.RefCounter, kind splink.Kind, h splink.Handle, own Ownership) *Ref {
	if own == Owned {
		return Adopt(rc, kind, h)
	}
	return Borrow(rc, kind, h)
}

func checkAcquire(rc splink.RefCounter, kind splink.Kind, h splink.Handle) {
	if rc == nil {
		panic(errors.Precondition(errors.PhaseOwnership, "reference counter is nil"))
	}
	if h.IsNull() {
		panic(errors.New(errors.PhaseOwnership, errors.KindPrecondition).
			Detail("cannot wrap null %s handle", kind).
			Cause(errors.NullHandle(errors.PhaseOwnership, kind.String())).
			Build())
	}
}

func newRef(rc splink.RefCounter, kind splink.Kind, h splink.Handle) *Ref {
	r := &Ref{
		state: &refState{rc: rc, kind: kind, handle: h},
	}
	r.cleanup = runtime.AddCleanup(r, releaseUnreachable, r.state)

	Logger().Debug("acquired handle",
		zap.Stringer("kind", kind),
		zap.Uintptr("handle", uintptr(h)))
	return r
}

// Handle returns the wrapped handle. Using a released Ref is a programmer
// error and panics. The handle stays valid only while r is reachable; native
// calls should go through Pin.
func (r *Ref) Handle() splink.Handle {
	if r.state.released.Load() {
		panic(errors.Released(r.state.kind, r.state.handle))
	}
	return r.state.handle
}

// Pin returns the handle for a native call and keeps both the Ref and the
// native reference alive until unpin is called. A Release racing with the
// call is deferred until then. Pinning a released Ref panics.
//
//	h, unpin := ref.Pin()
//	defer unpin()
func (r *Ref) Pin() (h splink.Handle, unpin func()) {
	r.state.pin()
	return r.state.handle, func() {
		r.state.unpin()
		runtime.KeepAlive(r)
	}
}

// Kind returns the resource family of the wrapped handle.
func (r *Ref) Kind() splink.Kind {
	return r.state.kind
}

// Released reports whether the reference has been given back.
func (r *Ref) Released() bool {
	return r.state.released.Load()
}

// Release gives the reference back to the native library. Only the first
// call has an effect; it reports whether this call released.
func (r *Ref) Release() bool {
	if !r.state.release() {
		return false
	}
	r.cleanup.Stop()

	Logger().Debug("released handle",
		zap.Stringer("kind", r.state.kind),
		zap.Uintptr("handle", uintptr(r.state.handle)))
	return true
}

// Share takes another reference on the same handle and returns an
// independent owner for it.
func (r *Ref) Share() *Ref {
	h, unpin := r.Pin()
	defer unpin()
	return Borrow(r.state.rc, r.state.kind, h)
}

// String formats the Ref as kind(handle).
func (r *Ref) String() string {
	return fmt.Sprintf("%s(%#x)", r.state.kind, uintptr(r.state.handle))
}
