package client

import (
	"strings"

	"rawhttp/application/util/uri"
	"rawhttp/transport/tcp"

	"github.com/pkg/errors"
)

const (
	DefaultHTTPPort  uint16 = 80
	DefaultOtherPort uint16 = 443
)

// Target is where a request goes and what it asks for.
type Target struct {
	Scheme string
	// Host has no brackets, even for an IPv6 address.
	Host string
	Port uint16
	// PathWithQuery is the request-target. It always starts with "/".
	PathWithQuery string
}

// ResolveTarget takes an absolute URL apart into a [Target] without touching the network.
//
// The port is the one written in the URL, or 80 for "http" and 443 for any other scheme.
// The path is "/" when the URL has none, and a non-empty query is appended after "?".
func ResolveTarget(rawURL string) (Target, error) {
	u, err := uri.Parse(rawURL)
	if err != nil {
		return Target{}, newError(KindMalformedURL, errors.Wrapf(err, "parsing %q", rawURL))
	}

	switch {
	case u.Scheme == "":
		return Target{}, newError(KindMalformedURL, errors.Errorf("scheme not found in %q", rawURL))
	case u.Authority == nil:
		return Target{}, newError(KindMalformedURL, errors.Errorf("authority not found in %q", rawURL))
	case u.Authority.Host == "":
		return Target{}, newError(KindMalformedURL, errors.Errorf("host not found in %q", rawURL))
	}

	return Target{
		Scheme:        u.Scheme,
		Host:          u.Authority.Hostname(),
		Port:          selectPort(u.Scheme, u.Authority.Port),
		PathWithQuery: selectPath(u.Path, u.Query),
	}, nil
}

// An explicit port 0 can't be dialed, so it falls back to the default.
func selectPort(scheme string, explicit *uint16) uint16 {
	if explicit != nil && *explicit != 0 {
		return *explicit
	}
	if scheme == "http" {
		return DefaultHTTPPort
	}
	return DefaultOtherPort
}

func selectPath(path string, query *string) string {
	if path == "" {
		path = "/"
	}
	if query != nil && *query != "" {
		path += "?" + *query
	}
	return path
}

func (t Target) Addr() tcp.Addr { return tcp.NewAddr(t.Host, t.Port) }

// hostField brackets an IPv6 host the way a URI authority does.
func (t Target) hostField() string {
	if strings.Contains(t.Host, ":") {
		return "[" + t.Host + "]"
	}
	return t.Host
}
