package locator

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// Scheme is the only URL scheme this codec accepts.
	Scheme = "sigil"
	// SchemePrefix is the scheme with its separator, ready for prepending
	// to a host.
	SchemePrefix = Scheme + "://"
)

// urlParts holds the raw components of a sigil URL after structural
// validation. Nothing is percent-decoded here; path, queryString and
// fragment keep the encoding they arrived with.
type urlParts struct {
	scheme      string
	host        string
	subLabels   []string
	topLabel    string
	path        string
	queryString string
	fragment    string
}

// parseParts splits a raw URL string into its components, performing
// structural validation only. Semantic checks (label decoding, alias
// hashing) happen in the callers.
func parseParts(raw string) (urlParts, error) {
	if !strings.Contains(raw, "://") {
		return urlParts{}, fmt.Errorf("%w: %q is not a valid URL", ErrInvalidURL, raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return urlParts{}, fmt.Errorf("%w: problem parsing %q: %v", ErrInvalidURL, raw, err)
	}

	if u.Scheme != Scheme {
		return urlParts{}, fmt.Errorf("%w: invalid scheme: %q, expected: %q", ErrInvalidURL, u.Scheme, Scheme)
	}

	host := u.Host
	if host == "" {
		return urlParts{}, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
	}

	// Double dots would create an empty sub-label.
	if strings.Contains(host, "..") {
		return urlParts{}, fmt.Errorf("%w: host %q contains an empty sub-label", ErrInvalidURL, host)
	}

	labels := strings.Split(host, ".")
	topLabel := labels[len(labels)-1]
	subLabels := labels[:len(labels)-1]

	path := u.EscapedPath()
	// Double slashes are legal in generic URLs but create empty path
	// components, which this codec rejects.
	if strings.Contains(path, "//") {
		return urlParts{}, fmt.Errorf("%w: path %q contains an empty component", ErrInvalidURL, path)
	}

	return urlParts{
		scheme:      u.Scheme,
		host:        host,
		subLabels:   subLabels,
		topLabel:    topLabel,
		path:        path,
		queryString: u.RawQuery,
		fragment:    u.EscapedFragment(),
	}, nil
}
