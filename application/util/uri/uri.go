package uri

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type URI struct {
	Scheme    string
	Authority *Authority
	Path      string  // Escaped.
	Query     *string // Escaped, without '?'.
	Fragment  *string // Escaped, without '#'.
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-4.2
func (u *URI) IsRelativeRef() bool {
	return u.Scheme == ""
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-4.3
func (u *URI) IsAbsoluteURI() bool {
	return u.Scheme != "" && u.Fragment == nil
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.3
func (u *URI) String() string {
	b := new(strings.Builder)
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteByte(':')
	}

	if u.Authority != nil {
		b.WriteString("//")
		b.WriteString(u.Authority.String())
	}

	b.WriteString(u.Path)

	if u.Query != nil {
		b.WriteByte('?')
		b.WriteString(*u.Query)
	}

	if u.Fragment != nil {
		b.WriteByte('#')
		b.WriteString(*u.Fragment)
	}

	return b.String()
}

type Authority struct {
	UserInfo string // Unescaped.
	Host     string // Unescaped and lower-cased. IP literals keep their brackets.

	// NOTE: The RFC allows digits of any length here, but only 0 ~ 65535 can be dialed.
	// Reference: datatracker.ietf.org/doc/html/rfc3986#section-3.2.3
	Port *uint16
}

// Hostname returns the host with the brackets of an IP literal removed.
func (a *Authority) Hostname() string {
	if strings.HasPrefix(a.Host, "[") && strings.HasSuffix(a.Host, "]") {
		return a.Host[1 : len(a.Host)-1]
	}
	return a.Host
}

func (a *Authority) String() string {
	b := new(strings.Builder)
	if a.UserInfo != "" {
		b.WriteString(escape(a.UserInfo, encodeUserInfo))
		b.WriteByte('@')
	}
	b.WriteString(escape(a.Host, encodeHost))
	if a.Port != nil {
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(*a.Port), 10))
	}
	return b.String()
}

// Parse decomposes rawURL into its components.
// The path, query and fragment are validated but not unescaped.
func Parse(rawURL string) (URI, error) {
	if containsCTL(rawURL) {
		return URI{}, errors.New("URI should not contain CTL bytes")
	}

	var uri URI

	scheme, rest, err := cutScheme(rawURL)
	if err != nil {
		return URI{}, errors.Wrap(err, "getting scheme")
	}
	// Scheme is case-insensitive, lowercase is canonical.
	uri.Scheme = strings.ToLower(scheme)

	if strings.HasPrefix(rest, "//") {
		authorityRaw := rest[2:]
		rest = ""
		if i := strings.IndexAny(authorityRaw, "/?#"); i >= 0 {
			authorityRaw, rest = authorityRaw[:i], authorityRaw[i:]
		}

		authority, err := parseAuthority(authorityRaw)
		if err != nil {
			return URI{}, errors.Wrap(err, "parsing authority")
		}

		uri.Authority = &authority
	}

	path, query, frag := splitPathQueryFrag(rest)

	hasAuthority := uri.Authority != nil
	if err := assertValidPath(path, hasAuthority, uri.IsRelativeRef()); err != nil {
		return URI{}, errors.Wrap(err, "path is not valid")
	}
	uri.Path = path

	if len(query) > 0 {
		// Strip '?' from query.
		query = query[1:]
		if !isQueryFragValid(query) {
			return URI{}, errors.New("query is not valid")
		}
		uri.Query = &query
	}

	if len(frag) > 0 {
		// Strip '#' from fragment.
		frag = frag[1:]
		if !isQueryFragValid(frag) {
			return URI{}, errors.New("fragment is not valid")
		}
		uri.Fragment = &frag
	}

	return uri, nil
}

// cutScheme cuts scheme from rawURL. If scheme is not valid, it returns an error.
func cutScheme(rawURL string) (scheme, rest string, err error) {
	// A colon after the first '/', '?' or '#' belongs to the path or later parts.
	end := len(rawURL)
	if i := strings.IndexAny(rawURL, "/?#"); i >= 0 {
		end = i
	}

	i := strings.IndexByte(rawURL[:end], ':')
	if i < 0 {
		return "", rawURL, nil
	}

	scheme, rest = rawURL[:i], rawURL[i+1:]
	if err := assertValidScheme(scheme); err != nil {
		return "", "", err
	}

	return scheme, rest, nil
}

func parseAuthority(raw string) (authority Authority, err error) {
	var userInfo, host string
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		userInfo, host = raw[:i], raw[i+1:]
	} else {
		host = raw
	}

	if userInfo != "" {
		if !isValidUserInfo(userInfo) {
			return Authority{}, errors.New("user information is not valid")
		}
		authority.UserInfo, err = unescape(userInfo)
		if err != nil {
			return Authority{}, errors.Wrap(err, "unescaping user information")
		}
	}

	host, portPart, err := getHostPort(host)
	if err != nil {
		return Authority{}, errors.Wrap(err, "parsing host")
	}

	port, hasPort, err := parsePort(portPart)
	if err != nil {
		return Authority{}, errors.Wrap(err, "parsing port")
	}

	if hasPort {
		authority.Port = &port
	}

	if authority.Host, err = unescape(host); err != nil {
		return Authority{}, errors.Wrap(err, "unescaping host")
	}
	if !strings.HasPrefix(host, "[") && !isValidDecodedRegName(authority.Host) {
		return Authority{}, errors.Errorf("host decodes to %q, which can't be a host name", authority.Host)
	}
	authority.Host = strings.ToLower(authority.Host)

	return authority, nil
}

func getHostPort(raw string) (host string, portPart string, err error) {
	if strings.HasPrefix(raw, "[") {
		// This is IP Literal.
		idx := strings.LastIndex(raw, "]")
		if idx < 0 {
			return "", "", errors.New("missing ']' in IP Literal")
		}

		host = raw[:idx+1]
		portPart = raw[idx+1:]
	} else {
		// ipv4 or reg-name.
		host = raw
		if idx := strings.LastIndex(raw, ":"); idx >= 0 {
			host = raw[:idx]
			portPart = raw[idx:]
		}
	}

	if err := assertValidHost(host); err != nil {
		return "", "", errors.Wrap(err, "host is not valid")
	}

	return host, portPart, nil
}

// parsePort accepts an empty port after the colon as no port, as the RFC does.
func parsePort(s string) (port uint16, hasPort bool, err error) {
	if s == "" {
		return 0, false, nil
	}

	if s[0] != ':' {
		return 0, false, errors.New("colon delimiter not found on port")
	}

	s = s[1:]
	if s == "" {
		return 0, false, nil
	}

	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to parse uint")
	}

	if s[0] == '0' && !(n == 0 && len(s) == 1) {
		return 0, false, errors.New("port has leading zero")
	}

	return uint16(n), true, nil
}

func splitPathQueryFrag(raw string) (path, query, frag string) {
	if idx := strings.IndexByte(raw, '#'); idx >= 0 {
		frag = raw[idx:]
		raw = raw[:idx]
	}

	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		query = raw[idx:]
		raw = raw[:idx]
	}

	path = raw
	return
}
