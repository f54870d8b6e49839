package link

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/splink"
	"github.com/wippyai/splink/errors"
	"github.com/wippyai/splink/resource"
)

// Link is a native link with exactly one owned reference.
type Link struct {
	lib  splink.Native
	ref  *resource.Ref
	opts Options
}

// Source holds the alternative inputs of Open. Exactly one must be set.
type Source struct {
	URI    string
	Handle splink.Handle
}

// Resolver creates links against one native library.
type Resolver struct {
	lib  splink.Native
	opts Options
}

// NewResolver creates a Resolver with the given options.
func NewResolver(lib splink.Native, opts Options) *Resolver {
	if lib == nil {
		panic(errors.Precondition(errors.PhaseParse, "native library is nil"))
	}
	return &Resolver{lib: lib, opts: opts.normalize()}
}

// NewResolverWithDefaults creates a Resolver with default options.
func NewResolverWithDefaults(lib splink.Native) *Resolver {
	return NewResolver(lib, DefaultOptions())
}

// Options returns the configuration.
func (r *Resolver) Options() Options {
	return r.opts
}

// New parses uri with a default Resolver.
func New(lib splink.Native, sess splink.Session, uri string) (*Link, error) {
	return NewResolverWithDefaults(lib).Parse(sess, uri)
}

// Adopt wraps h with a default Resolver.
func Adopt(lib splink.Native, h splink.Handle) *Link {
	return NewResolverWithDefaults(lib).Adopt(h)
}

// Open builds a link from src with a default Resolver.
func Open(lib splink.Native, sess splink.Session, src Source) (*Link, error) {
	return NewResolverWithDefaults(lib).Open(sess, src)
}

// Parse resolves uri into a link. It fails with errors.ErrNoSession when sess
// is not active and with errors.ErrInvalidURI when the native parser rejects
// the string. Web URLs (open.spotify.com, play.spotify.com) and a leading @
// are accepted and rewritten to spotify: URIs first.
func (r *Resolver) Parse(sess splink.Session, uri string) (*Link, error) {
	if _, ok := splink.SessionHandle(sess); !ok {
		return nil, errors.NoSession(splink.OpLinkCreateFromString)
	}

	normalized := normalizeURI(uri)
	if !utf8.ValidString(normalized) {
		return nil, errors.InvalidURI(uri, errors.InvalidUTF8(errors.PhaseParse, []byte(normalized)))
	}
	if strings.IndexByte(normalized, 0) >= 0 {
		return nil, errors.InvalidURI(uri, errors.New(errors.PhaseParse, errors.KindInvalidURI).
			Detail("contains NUL byte").
			Build())
	}

	h := r.lib.LinkCreateFromString(normalized)
	if h.IsNull() {
		Logger().Debug("native parser rejected uri", zap.String("uri", normalized))
		return nil, errors.InvalidURI(uri, nil)
	}
	return r.adopt(h), nil
}

// Adopt wraps a link handle that already carries one reference owned by the
// caller. The reference count is not changed. Adopting the null handle
// panics.
func (r *Resolver) Adopt(h splink.Handle) *Link {
	return r.adopt(h)
}

// Open builds a link from exactly one of src.URI and src.Handle. Supplying
// neither or both is a programmer error and panics before any native call.
func (r *Resolver) Open(sess splink.Session, src Source) (*Link, error) {
	hasURI := src.URI != ""
	hasHandle := !src.Handle.IsNull()
	if hasURI == hasHandle {
		panic(errors.Precondition(errors.PhaseParse, "exactly one of uri or handle is required"))
	}
	if hasHandle {
		return r.adopt(src.Handle), nil
	}
	return r.Parse(sess, src.URI)
}

func (r *Resolver) adopt(h splink.Handle) *Link {
	return &Link{
		lib:  r.lib,
		ref:  resource.Adopt(r.lib, splink.KindLink, h),
		opts: r.opts,
	}
}

// Handle returns the native handle. It panics once the link is released.
func (l *Link) Handle() splink.Handle {
	return l.ref.Handle()
}

// URI returns the link's string form as reported by the native library.
func (l *Link) URI() string {
	h, unpin := l.ref.Pin()
	defer unpin()

	buf := make([]byte, l.opts.BufferSize)
	n := l.lib.LinkAsString(h, buf)
	if n > len(buf) {
		Logger().Debug("growing link buffer",
			zap.Int("from", len(buf)),
			zap.Int("to", n))
		buf = make([]byte, n)
		n = l.lib.LinkAsString(h, buf)
	}
	if n < 0 {
		Logger().Warn("link has no string form",
			zap.Error(errors.New(errors.PhaseSerialize, errors.KindNotFound).
				Op(splink.OpLinkAsString).
				Handle(h).
				Detail("native returned %d", n).
				Build()))
		return ""
	}
	return string(buf[:min(n, len(buf))])
}

// String returns URI.
func (l *Link) String() string {
	return l.URI()
}

// GoString formats the link as Link("uri").
func (l *Link) GoString() string {
	return fmt.Sprintf("Link(%q)", l.URI())
}

// URL returns the open.spotify.com web address of the link.
func (l *Link) URL() string {
	uri := l.URI()
	rest, ok := strings.CutPrefix(uri, uriScheme)
	if !ok {
		return ""
	}
	path, fragment, hasFragment := strings.Cut(rest, "#")
	web := webBase + strings.ReplaceAll(path, ":", "/")
	if hasFragment {
		web += "#" + fragment
	}
	return web
}

// Equal reports whether both links serialize to the same URI.
func (l *Link) Equal(other *Link) bool {
	if other == nil {
		return false
	}
	return l.URI() == other.URI()
}

// Type classifies the link. LinkTypeInvalid is a normal answer.
func (l *Link) Type() splink.LinkType {
	h, unpin := l.ref.Pin()
	defer unpin()
	return splink.LinkType(l.lib.LinkType(h))
}

// Share returns another owner of the same native link.
func (l *Link) Share() *Link {
	return &Link{lib: l.lib, ref: l.ref.Share(), opts: l.opts}
}

// Release gives the link's reference back. Only the first call has an effect.
func (l *Link) Release() bool {
	return l.ref.Release()
}

// Released reports whether Release has been called.
func (l *Link) Released() bool {
	return l.ref.Released()
}
