package memnative

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/splink"
)

// Session is a logged-in session of the in-memory library. It satisfies
// splink.Session.
type Session struct {
	lib    *Library
	user   string
	handle splink.Handle
	mu     sync.Mutex
}

// NewSession opens an anonymous session.
func (l *Library) NewSession() *Session {
	return l.NewUserSession("")
}

// NewUserSession opens a session logged in as user.
func (l *Library) NewUserSession(user string) *Session {
	l.mu.Lock()
	defer l.mu.Unlock()

	var h splink.Handle
	if !l.closed {
		h = l.table.Insert(sessionTypeID, user)
	}
	Logger().Debug("session opened",
		zap.String("user", user),
		zap.Uintptr("handle", uintptr(h)))
	return &Session{lib: l, user: user, handle: h}
}

// Handle returns the session handle, or the null handle once closed.
func (s *Session) Handle() splink.Handle {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// User returns the name the session was opened with.
func (s *Session) User() string {
	return s.user
}

// Close ends the session. Creating calls made with its handle afterwards
// fail. Closing twice is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	h := s.handle
	s.handle = 0
	s.mu.Unlock()

	if h.IsNull() {
		return
	}

	s.lib.mu.Lock()
	defer s.lib.mu.Unlock()
	s.lib.table.Release(h)
	Logger().Debug("session closed", zap.Uintptr("handle", uintptr(h)))
}

var _ splink.Session = (*Session)(nil)
