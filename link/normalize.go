package link

import (
	"net/url"
	"strings"
)

const (
	uriScheme = "spotify"
	webBase   = "https://open.spotify.com"
)

var webHosts = []string{"open.spotify.com", "play.spotify.com"}

// normalizeURI strips a leading @ and rewrites web URLs to spotify: URIs.
// Anything else is passed through for the native parser to judge.
func normalizeURI(uri string) string {
	uri = strings.TrimPrefix(uri, "@")

	for _, host := range webHosts {
		if strings.HasPrefix(uri, host+"/") {
			uri = "https://" + uri
			break
		}
	}

	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return uri
	}
	for _, host := range webHosts {
		if u.Host != host {
			continue
		}
		out := uriScheme + strings.ReplaceAll(u.Path, "/", ":")
		if u.Fragment != "" {
			out += "#" + u.Fragment
		}
		return out
	}
	return uri
}
