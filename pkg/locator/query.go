package locator

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// versionQueryKey is the reserved query key mirroring the typed content
// version field.
const versionQueryKey = "v"

// queryPairs returns the decoded key/value pairs of a percent-encoded query
// string (no leading '?') in their original order. Pairs that fail to
// unescape are skipped.
func queryPairs(query string) [][2]string {
	if query == "" {
		return nil
	}
	var pairs [][2]string
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			continue
		}
		pairs = append(pairs, [2]string{key, val})
	}
	return pairs
}

// queryKeyValues returns every decoded value for key, in order.
func queryKeyValues(query, key string) []string {
	var values []string
	for _, p := range queryPairs(query) {
		if p[0] == key {
			values = append(values, p[1])
		}
	}
	return values
}

// queryKeyLast returns the last decoded value for key.
func queryKeyLast(query, key string) (string, bool) {
	values := queryKeyValues(query, key)
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// parseVersionValue validates a candidate value for the reserved version
// key. nil means "unset".
func parseVersionValue(val *string) (*uint64, error) {
	if val == nil {
		return nil, nil
	}
	v, err := strconv.ParseUint(*val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q param could not be parsed as a version number, invalid value %q", ErrInvalidInput, versionQueryKey, *val)
	}
	return &v, nil
}

// QueryPairs returns all key/value pairs of the query string,
// percent-decoded, in their original order.
func (l *Locator) QueryPairs() [][2]string {
	return queryPairs(l.queryString)
}

// QueryKey returns every decoded value for key. A key can appear zero, one
// or many times in a query string.
func (l *Locator) QueryKey(key string) []string {
	return queryKeyValues(l.queryString, key)
}

// QueryKeyFirst returns the first decoded value for key.
//
// In sigil://name?color=red&age=5&color=blue, "red" is returned for
// key "color".
func (l *Locator) QueryKeyFirst(key string) (string, bool) {
	values := l.QueryKey(key)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// QueryKeyLast returns the last decoded value for key.
//
// In sigil://name?color=red&age=5&color=blue, "blue" is returned for
// key "color".
func (l *Locator) QueryKeyLast(key string) (string, bool) {
	return queryKeyLast(l.queryString, key)
}

// SetQueryKey sets or removes a key in the query string.
//
// With a non-nil val, all existing occurrences of key collapse into a
// single key=val pair at the position of the first occurrence; other keys
// keep their relative order. With a nil val, every occurrence of key is
// removed. val must not be percent-encoded; encoding happens here.
//
// Setting the reserved version key resynchronizes the content version. A
// value that does not parse as a version number fails and leaves the
// locator unchanged.
func (l *Locator) SetQueryKey(key string, val *string) error {
	var newVersion *uint64
	if key == versionQueryKey {
		v, err := parseVersionValue(val)
		if err != nil {
			return err
		}
		newVersion = v
	}

	var out []string
	set := false
	for _, p := range queryPairs(l.queryString) {
		if p[0] == key {
			if val != nil && !set {
				out = append(out, url.QueryEscape(key)+"="+url.QueryEscape(*val))
				set = true
			}
			continue
		}
		out = append(out, url.QueryEscape(p[0])+"="+url.QueryEscape(p[1]))
	}
	if !set && val != nil {
		out = append(out, url.QueryEscape(key)+"="+url.QueryEscape(*val))
	}

	l.queryString = strings.Join(out, "&")
	if key == versionQueryKey {
		l.contentVersion = newVersion
	}
	return nil
}

// SetQueryString replaces the whole query string. The input must already be
// percent-encoded and carry no '?' separator. If it contains the reserved
// version key, the content version is resynchronized from its last
// occurrence; a non-numeric value fails and leaves the locator unchanged.
func (l *Locator) SetQueryString(query string) error {
	var newVersion *uint64
	if last, ok := queryKeyLast(query, versionQueryKey); ok {
		v, err := parseVersionValue(&last)
		if err != nil {
			return err
		}
		newVersion = v
	}

	l.queryString = query
	l.contentVersion = newVersion
	return nil
}

// QueryString returns the percent-encoded query string without separator.
func (l *Locator) QueryString() string {
	return l.queryString
}

// QueryStringWithSeparator returns the query string prefixed with '?' when
// non-empty.
func (l *Locator) QueryStringWithSeparator() string {
	if l.queryString == "" {
		return ""
	}
	return "?" + l.queryString
}

// ContentVersion returns the typed value of the reserved version key.
func (l *Locator) ContentVersion() (uint64, bool) {
	if l.contentVersion == nil {
		return 0, false
	}
	return *l.contentVersion, true
}

// SetContentVersion sets or unsets the content version. nil removes the
// reserved version key from the query string.
func (l *Locator) SetContentVersion(version *uint64) {
	var val *string
	if version != nil {
		s := strconv.FormatUint(*version, 10)
		val = &s
	}
	// A numeric value can never fail the version resync; a failure here
	// would be a bug in SetQueryKey itself.
	if err := l.SetQueryKey(versionQueryKey, val); err != nil {
		log.Warnf("failed to sync content version with query string: %v", err)
	}
}

// SetPath sets the path. The input must not be percent-encoded; each
// segment is encoded here. The stored path is normalized to either the
// empty string or a single leading '/' followed by the segments.
func (l *Locator) SetPath(path string) {
	l.setPathInternal(path, true)
}

// SetEncodedPath is SetPath for callers that already hold a
// percent-encoded path and must not have it encoded a second time.
func (l *Locator) SetEncodedPath(path string) {
	l.setPathInternal(path, false)
}

func (l *Locator) setPathInternal(path string, percentEncode bool) {
	if path == "" {
		l.path = ""
		return
	}

	var segs []string
	for i, seg := range strings.Split(path, "/") {
		// A leading empty segment is just the leading slash; anything
		// after that is kept, empty or not.
		if seg == "" && i == 0 {
			continue
		}
		if percentEncode {
			segs = append(segs, url.PathEscape(seg))
		} else {
			segs = append(segs, seg)
		}
	}

	joined := strings.Join(segs, "/")
	if joined == "" {
		l.path = ""
		return
	}
	l.path = "/" + joined
}

// Path returns the percent-encoded path, either empty or starting with '/'.
func (l *Locator) Path() string {
	return l.path
}

// PathDecoded returns the path with each segment percent-decoded.
func (l *Locator) PathDecoded() (string, error) {
	decoded, err := url.PathUnescape(l.path)
	if err != nil {
		return "", fmt.Errorf("%w: cannot percent-decode path %q: %v", ErrInvalidInput, l.path, err)
	}
	return decoded, nil
}

// Fragment returns the fragment without its '#' separator.
func (l *Locator) Fragment() string {
	return l.fragment
}

// FragmentWithSeparator returns the fragment prefixed with '#' when
// non-empty.
func (l *Locator) FragmentWithSeparator() string {
	if l.fragment == "" {
		return ""
	}
	return "#" + l.fragment
}

// SetFragment sets the fragment, without separator.
func (l *Locator) SetFragment(fragment string) {
	l.fragment = fragment
}
