package memnative

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/wippyai/splink"
)

// parsed is a link URI broken down into what the library needs.
type parsed struct {
	uri      string // canonical form, returned by LinkAsString
	target   string // URI of the resource a borrowing query yields
	linkType splink.LinkType
	offsetMs int
}

// parseURI accepts the spotify: URI grammar. Input is NFC-normalized first;
// the canonical form differs from the input only in normalization and in
// the rendering of a track offset.
func parseURI(s string) (parsed, bool) {
	s = norm.NFC.String(s)

	base, fragment, hasFragment := strings.Cut(s, "#")
	parts := strings.Split(base, ":")
	if len(parts) < 3 || parts[0] != "spotify" {
		return parsed{}, false
	}

	p := parsed{uri: base, target: base}

	switch parts[1] {
	case "track":
		if len(parts) != 3 || !isBase62(parts[2]) {
			return parsed{}, false
		}
		p.linkType = splink.LinkTypeTrack
		if hasFragment {
			offset, ok := parseOffset(fragment)
			if !ok {
				return parsed{}, false
			}
			p.offsetMs = offset
			p.uri = base + formatOffset(offset)
		}
		return p, true

	case "album", "artist", "playlist":
		if len(parts) != 3 || !isBase62(parts[2]) {
			return parsed{}, false
		}
		p.linkType = map[string]splink.LinkType{
			"album":    splink.LinkTypeAlbum,
			"artist":   splink.LinkTypeArtist,
			"playlist": splink.LinkTypePlaylist,
		}[parts[1]]

	case "image":
		if len(parts) != 3 || !isHex(parts[2]) {
			return parsed{}, false
		}
		p.linkType = splink.LinkTypeImage

	case "search":
		if strings.Join(parts[2:], ":") == "" {
			return parsed{}, false
		}
		p.linkType = splink.LinkTypeSearch

	case "user":
		if !isUsername(parts[2]) {
			return parsed{}, false
		}
		switch {
		case len(parts) == 3:
			p.linkType = splink.LinkTypeProfile
		case len(parts) == 4 && parts[3] == "starred":
			p.linkType = splink.LinkTypeStarred
		case len(parts) == 5 && parts[3] == "playlist" && isBase62(parts[4]):
			p.linkType = splink.LinkTypePlaylist
		default:
			return parsed{}, false
		}

	case "local":
		if len(parts) != 6 || parts[4] == "" {
			return parsed{}, false
		}
		if secs, err := strconv.Atoi(parts[5]); err != nil || secs < 0 {
			return parsed{}, false
		}
		p.linkType = splink.LinkTypeLocalTrack

	default:
		return parsed{}, false
	}

	if hasFragment {
		return parsed{}, false
	}
	return p, true
}

// parseOffset reads m:ss into milliseconds.
func parseOffset(s string) (int, bool) {
	mins, secs, ok := strings.Cut(s, ":")
	if !ok {
		return 0, false
	}
	m, err := strconv.Atoi(mins)
	if err != nil || m < 0 {
		return 0, false
	}
	sec, err := strconv.Atoi(secs)
	if err != nil || sec < 0 || sec > 59 || len(secs) != 2 {
		return 0, false
	}
	return (m*60 + sec) * 1000, true
}

// formatOffset renders a millisecond offset as #m:ss. Zero renders nothing.
func formatOffset(ms int) string {
	secs := ms / 1000
	if secs <= 0 {
		return ""
	}
	return fmt.Sprintf("#%d:%02d", secs/60, secs%60)
}

func isBase62(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func isUsername(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\r\n")
}
