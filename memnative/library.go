package memnative

import (
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/splink"
	"github.com/wippyai/splink/errors"
	"github.com/wippyai/splink/resource"
)

// sessionTypeID keeps sessions apart from the splink.Kind type IDs.
const sessionTypeID = 0x100

// object is a native resource. Links own the children their borrowing
// queries hand out.
type object struct {
	parent   *object
	children map[splink.Kind]splink.Handle
	uri      string
	target   string
	kind     splink.Kind
	linkType splink.LinkType
	offsetMs int
	dropped  bool
}

// Drop implements resource.Dropper.
func (o *object) Drop() {
	o.dropped = true
}

// externalRefs is the number of references held outside the library.
func (o *object) externalRefs(refs int) int {
	if o.parent != nil && !o.parent.dropped {
		return refs - 1
	}
	return refs
}

// Library is an in-memory implementation of splink.Native. It is safe for
// concurrent use.
type Library struct {
	table  *resource.UnifiedTable
	calls  map[string]int
	mu     sync.Mutex
	closed bool
}

// New creates an empty library.
func New() *Library {
	return &Library{
		table: resource.NewTable(),
		calls: make(map[string]int),
	}
}

// Subscribe registers an observer for every reference count change.
func (l *Library) Subscribe(o resource.Observer) {
	l.table.Subscribe(o)
}

// Unsubscribe removes an observer added with Subscribe.
func (l *Library) Unsubscribe(o resource.Observer) {
	l.table.Unsubscribe(o)
}

// Calls returns how many times op has been invoked.
func (l *Library) Calls(op string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[op]
}

// RefCount returns the native reference count of h, or zero once freed.
func (l *Library) RefCount(h splink.Handle) int {
	refs, _ := l.table.Refs(h)
	return refs
}

// Live returns the number of resources that have not been freed, sessions
// excluded.
func (l *Library) Live() int {
	n := 0
	l.table.Each(func(_ splink.Handle, typeID uint32, _ any) bool {
		if typeID != sessionTypeID {
			n++
		}
		return true
	})
	return n
}

// Close frees everything. It returns one leak error per resource still
// referenced from outside the library.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	var handles []splink.Handle
	l.table.Each(func(h splink.Handle, typeID uint32, _ any) bool {
		if typeID != sessionTypeID {
			handles = append(handles, h)
		}
		return true
	})
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	var err error
	for _, h := range handles {
		v, ok := l.table.Get(h)
		if !ok {
			continue
		}
		obj := v.(*object)
		refs, _ := l.table.Refs(h)
		if ext := obj.externalRefs(refs); ext > 0 {
			err = multierr.Append(err, errors.Leaked(obj.kind, h, ext, obj.uri))
		}
	}

	if closeErr := l.table.Close(); closeErr != nil {
		err = multierr.Append(err, closeErr)
	}
	return err
}

// record counts a call. Caller holds l.mu.
func (l *Library) record(op string) {
	l.calls[op]++
}

// lookup returns the live object behind h if it is of the given kind.
// Caller holds l.mu.
func (l *Library) lookup(op string, kind splink.Kind, h splink.Handle) (*object, bool) {
	if h.IsNull() {
		Logger().Warn("null handle", zap.String("op", op),
			zap.Error(errors.NullHandle(errors.PhaseNative, kind.String())))
		return nil, false
	}
	typeID, ok := l.table.TypeID(h)
	if !ok {
		Logger().Warn("unknown handle", zap.Error(errors.NotFound(op, h)))
		return nil, false
	}
	if typeID != uint32(kind) {
		Logger().Warn("handle of wrong kind",
			zap.Error(errors.KindMismatch(op, h, kind, splink.Kind(typeID))))
		return nil, false
	}
	v, ok := l.table.GetTyped(h, uint32(kind))
	if !ok {
		return nil, false
	}
	return v.(*object), true
}

// insert stores obj with one reference. Caller holds l.mu.
func (l *Library) insert(obj *object) splink.Handle {
	if l.closed {
		return 0
	}
	h := l.table.Insert(uint32(obj.kind), obj)
	Logger().Debug("created",
		zap.Stringer("kind", obj.kind),
		zap.Uintptr("handle", uintptr(h)),
		zap.String("uri", obj.uri))
	return h
}

// release drops one reference and frees the children of a freed link.
// Caller holds l.mu.
func (l *Library) release(h splink.Handle) {
	v, dropped := l.table.Release(h)
	if !dropped {
		return
	}
	obj := v.(*object)
	Logger().Debug("freed",
		zap.Stringer("kind", obj.kind),
		zap.Uintptr("handle", uintptr(h)))

	kinds := make([]splink.Kind, 0, len(obj.children))
	for k := range obj.children {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		l.release(obj.children[k])
	}
}

func (l *Library) AddRef(kind splink.Kind, h splink.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(splink.OpAddRef)

	if _, ok := l.lookup(splink.OpAddRef, kind, h); ok {
		l.table.Retain(h)
	}
}

func (l *Library) Release(kind splink.Kind, h splink.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(splink.OpRelease)

	if _, ok := l.lookup(splink.OpRelease, kind, h); ok {
		l.release(h)
	}
}

func (l *Library) newLink(p parsed) splink.Handle {
	return l.insert(&object{
		kind:     splink.KindLink,
		uri:      p.uri,
		target:   p.target,
		linkType: p.linkType,
		offsetMs: p.offsetMs,
		children: make(map[splink.Kind]splink.Handle),
	})
}

func (l *Library) LinkCreateFromString(uri string) splink.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(splink.OpLinkCreateFromString)

	p, ok := parseURI(uri)
	if !ok {
		Logger().Debug("unparseable uri", zap.String("uri", uri))
		return 0
	}
	return l.newLink(p)
}

func (l *Library) LinkCreateFromTrack(track splink.Handle, offsetMs int) splink.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(splink.OpLinkCreateFromTrack)

	obj, ok := l.lookup(splink.OpLinkCreateFromTrack, splink.KindTrack, track)
	if !ok {
		return 0
	}
	p := parsed{uri: obj.uri, target: obj.uri, linkType: obj.linkType}
	if obj.linkType == splink.LinkTypeTrack && offsetMs >= 1000 {
		p.offsetMs = offsetMs / 1000 * 1000
		p.uri += formatOffset(offsetMs)
	}
	return l.newLink(p)
}

// linkFrom builds a link for an entity created from one.
func (l *Library) linkFrom(op string, kind splink.Kind, h splink.Handle) splink.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(op)

	obj, ok := l.lookup(op, kind, h)
	if !ok {
		return 0
	}
	return l.newLink(parsed{uri: obj.uri, target: obj.uri, linkType: obj.linkType})
}

func (l *Library) LinkCreateFromAlbum(album splink.Handle) splink.Handle {
	return l.linkFrom(splink.OpLinkCreateFromAlbum, splink.KindAlbum, album)
}

func (l *Library) LinkCreateFromArtist(artist splink.Handle) splink.Handle {
	return l.linkFrom(splink.OpLinkCreateFromArtist, splink.KindArtist, artist)
}

func (l *Library) LinkCreateFromPlaylist(playlist splink.Handle) splink.Handle {
	return l.linkFrom(splink.OpLinkCreateFromPlaylist, splink.KindPlaylist, playlist)
}

func (l *Library) LinkCreateFromUser(user splink.Handle) splink.Handle {
	return l.linkFrom(splink.OpLinkCreateFromUser, splink.KindUser, user)
}

func (l *Library) LinkCreateFromImage(image splink.Handle) splink.Handle {
	return l.linkFrom(splink.OpLinkCreateFromImage, splink.KindImage, image)
}

func (l *Library) LinkAsString(link splink.Handle, buf []byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(splink.OpLinkAsString)

	obj, ok := l.lookup(splink.OpLinkAsString, splink.KindLink, link)
	if !ok {
		return -1
	}
	copy(buf, obj.uri)
	return len(obj.uri)
}

func (l *Library) LinkType(link splink.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(splink.OpLinkType)

	obj, ok := l.lookup(splink.OpLinkType, splink.KindLink, link)
	if !ok {
		return int(splink.LinkTypeInvalid)
	}
	return int(obj.linkType)
}

// child returns the link-owned resource of the given kind, creating it on
// first use. Caller holds l.mu.
func (l *Library) child(link *object, kind splink.Kind) splink.Handle {
	if h, ok := link.children[kind]; ok {
		return h
	}
	h := l.insert(&object{
		parent:   link,
		kind:     kind,
		uri:      link.target,
		linkType: link.linkType,
	})
	if !h.IsNull() {
		link.children[kind] = h
	}
	return h
}

// borrow answers a borrowing query for links of the accepted types.
func (l *Library) borrow(op string, link splink.Handle, kind splink.Kind, accept ...splink.LinkType) (*object, splink.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(op)

	obj, ok := l.lookup(op, splink.KindLink, link)
	if !ok {
		return nil, 0
	}
	for _, t := range accept {
		if obj.linkType == t {
			return obj, l.child(obj, kind)
		}
	}
	return nil, 0
}

func (l *Library) LinkAsTrack(link splink.Handle) splink.Handle {
	_, h := l.borrow(splink.OpLinkAsTrack, link, splink.KindTrack,
		splink.LinkTypeTrack, splink.LinkTypeLocalTrack)
	return h
}

func (l *Library) LinkAsTrackAndOffset(link splink.Handle, offsetMs *int) splink.Handle {
	obj, h := l.borrow(splink.OpLinkAsTrackAndOffset, link, splink.KindTrack,
		splink.LinkTypeTrack, splink.LinkTypeLocalTrack)
	if h.IsNull() {
		return 0
	}
	*offsetMs = obj.offsetMs
	return h
}

func (l *Library) LinkAsAlbum(link splink.Handle) splink.Handle {
	_, h := l.borrow(splink.OpLinkAsAlbum, link, splink.KindAlbum, splink.LinkTypeAlbum)
	return h
}

func (l *Library) LinkAsArtist(link splink.Handle) splink.Handle {
	_, h := l.borrow(splink.OpLinkAsArtist, link, splink.KindArtist, splink.LinkTypeArtist)
	return h
}

func (l *Library) LinkAsUser(link splink.Handle) splink.Handle {
	_, h := l.borrow(splink.OpLinkAsUser, link, splink.KindUser, splink.LinkTypeProfile)
	return h
}

// create answers a creating call: a new resource with one reference owned
// by the caller.
func (l *Library) create(op string, session, link splink.Handle, kind splink.Kind, accept ...splink.LinkType) splink.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(op)

	if _, ok := l.table.GetTyped(session, sessionTypeID); !ok {
		Logger().Warn("creating call without session", zap.Error(errors.NoSession(op)))
		return 0
	}
	obj, ok := l.lookup(op, splink.KindLink, link)
	if !ok {
		return 0
	}
	for _, t := range accept {
		if obj.linkType == t {
			return l.insert(&object{kind: kind, uri: obj.uri, linkType: obj.linkType})
		}
	}
	Logger().Warn("creating call on link of wrong type",
		zap.String("op", op),
		zap.Stringer("type", obj.linkType))
	return 0
}

func (l *Library) PlaylistCreate(session splink.Handle, link splink.Handle) splink.Handle {
	return l.create(splink.OpPlaylistCreate, session, link, splink.KindPlaylist,
		splink.LinkTypePlaylist, splink.LinkTypeStarred)
}

func (l *Library) ImageCreateFromLink(session splink.Handle, link splink.Handle) splink.Handle {
	return l.create(splink.OpImageCreateFromLink, session, link, splink.KindImage, splink.LinkTypeImage)
}

var _ splink.Native = (*Library)(nil)
