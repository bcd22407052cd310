// Package locator implements the sigil URL codec: the bidirectional,
// bit-exact transformation between a typed Locator value and its two
// textual forms, the resource form (binary label encoded into the host)
// and the alias form (human-chosen host hashing to the same identity).
package locator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sigil-net/sigil/pkg/mediatypes"
	"github.com/sigil-net/sigil/pkg/types"
)

// AliasMapTypeTag is the type tag of alias map containers, the ledgers an
// alias URL resolves through.
const AliasMapTypeTag uint64 = 1500

var log = logrus.StandardLogger()

// SetLogger replaces the package logger. The codec only logs on internal
// invariant violations that degrade to a default value.
func SetLogger(l *logrus.Logger) {
	log = l
}

// Locator is the decoded, validated representation of a sigil URL.
//
// A Locator is in alias form when its alias host is set, resource form
// otherwise. Parsing with FromURL performs full validation; New and the
// setters run cheaper checks, so callers needing a hard guarantee should
// call Validate after mutating.
type Locator struct {
	encodingVersion uint64
	hash            types.Hash
	aliasHost       string
	typeTag         uint64
	dataType        DataType
	contentType     ContentType
	path            string
	subLabels       []string
	queryString     string
	fragment        string
	contentVersion  *uint64
}

// Params collects the constructor arguments for New.
type Params struct {
	// Hash is the locator hash. For alias form it must equal the hash of
	// the alias host's top-level label.
	Hash types.Hash
	// AliasHost is the full alias hostname; empty means resource form.
	AliasHost string
	// TypeTag is the caller-defined sub-type discriminator.
	TypeTag uint64
	// DataType is the storage category of the addressed resource.
	DataType DataType
	// ContentType tells consumers how to treat the content. Media types
	// must be registered.
	ContentType ContentType
	// Path must already be percent-encoded; a leading '/' is optional.
	Path string
	// SubLabels are extra host labels, resource form only. Ignored for
	// alias form, where the alias host's own sub-labels win.
	SubLabels []string
	// QueryString must already be percent-encoded, without '?'.
	QueryString string
	// Fragment is stored verbatim, without '#'.
	Fragment string
	// ContentVersion overrides any reserved version key carried in
	// QueryString.
	ContentVersion *uint64
}

// New assembles a Locator from typed fields.
//
// It validates media-type registry membership, alias/hash consistency and
// sub-label shape, but not everything a full parse would; see Validate.
func New(p Params) (*Locator, error) {
	if p.ContentType.IsMediaType() && !mediatypes.Supported(p.ContentType.MediaTypeString()) {
		return nil, fmt.Errorf("%w: media type %q is not supported, use locator.Raw for this kind of content", ErrInvalidInput, p.ContentType.MediaTypeString())
	}

	aliasHost := ""
	subLabels := p.SubLabels
	if p.AliasHost != "" {
		parts, err := parseParts(SchemePrefix + p.AliasHost)
		if err != nil {
			return nil, err
		}
		hashed := types.HashOfName(parts.topLabel)
		if hashed != p.Hash {
			return nil, fmt.Errorf("%w: alias host %q hashes to %s, not to the supplied locator hash %s", ErrMismatch, parts.topLabel, hashed, p.Hash)
		}
		aliasHost = p.AliasHost
		// The alias host's own sub-labels win over the SubLabels
		// argument, in case the two disagree.
		subLabels = parts.subLabels
	} else {
		for _, s := range subLabels {
			if s == "" {
				return nil, fmt.Errorf("%w: empty sub-label", ErrInvalidInput)
			}
		}
	}

	l := &Locator{
		encodingVersion: CurrentEncodingVersion,
		hash:            p.Hash,
		aliasHost:       aliasHost,
		typeTag:         p.TypeTag,
		dataType:        p.DataType,
		contentType:     p.ContentType,
		subLabels:       subLabels,
		fragment:        p.Fragment,
	}

	// The path arrives already percent-encoded; only normalize it.
	l.setPathInternal(p.Path, false)

	// Query string and content version go through the setters so the two
	// stay in sync from the start.
	if err := l.SetQueryString(p.QueryString); err != nil {
		return nil, err
	}
	if p.ContentVersion != nil {
		l.SetContentVersion(p.ContentVersion)
	}

	return l, nil
}

// NewAlias builds an alias-form Locator whose hash is derived from the
// alias host's top-level label.
func NewAlias(aliasHost string, typeTag uint64, dataType DataType, contentType ContentType) (*Locator, error) {
	if aliasHost == "" {
		return nil, fmt.Errorf("%w: alias host cannot be an empty string", ErrInvalidInput)
	}
	parts, err := parseParts(SchemePrefix + aliasHost)
	if err != nil {
		return nil, err
	}
	return New(Params{
		Hash:        types.HashOfName(parts.topLabel),
		AliasHost:   aliasHost,
		TypeTag:     typeTag,
		DataType:    dataType,
		ContentType: contentType,
	})
}

// NewDataKey builds a resource-form Locator for a key entry.
func NewDataKey(hash types.Hash) (*Locator, error) {
	return New(Params{Hash: hash, DataType: DataKey, ContentType: Raw})
}

// NewPublicBlob builds a resource-form Locator for public immutable data.
func NewPublicBlob(hash types.Hash, contentType ContentType) (*Locator, error) {
	return New(Params{Hash: hash, DataType: PublicBlob, ContentType: contentType})
}

// NewMap builds a resource-form Locator for sequenced mutable data.
func NewMap(hash types.Hash, typeTag uint64, contentType ContentType) (*Locator, error) {
	return New(Params{Hash: hash, TypeTag: typeTag, DataType: SeqMap, ContentType: contentType})
}

// NewLedger builds a resource-form Locator for public sequenced
// append-only data.
func NewLedger(hash types.Hash, typeTag uint64, contentType ContentType) (*Locator, error) {
	return New(Params{Hash: hash, TypeTag: typeTag, DataType: PublicSeqLedger, ContentType: contentType})
}

// Encode assembles a Locator and serializes it to a resource-form URL in
// one step.
func Encode(p Params, base Base) (string, error) {
	l, err := New(p)
	if err != nil {
		return "", err
	}
	return l.ResourceString(base)
}

// FromURL parses either URL form. Resource-form decoding is attempted
// first; on any failure the input is retried as an alias URL and the
// alias error is what a doubly-bad input reports.
func FromURL(raw string) (*Locator, error) {
	l, err := FromResourceURL(raw)
	if err == nil {
		return l, nil
	}
	log.Debugf("resource-form decoding of %q failed (%v), falling back to alias form", raw, err)
	return FromAliasURL(raw)
}

// FromResourceURL parses a resource-form URL, decoding the binary label in
// its top-level host component.
func FromResourceURL(raw string) (*Locator, error) {
	parts, err := parseParts(raw)
	if err != nil {
		return nil, err
	}

	hash, typeTag, dataType, contentType, err := decodeLabel(parts.topLabel)
	if err != nil {
		return nil, err
	}

	return New(Params{
		Hash:        hash,
		TypeTag:     typeTag,
		DataType:    dataType,
		ContentType: contentType,
		Path:        parts.path,
		SubLabels:   parts.subLabels,
		QueryString: parts.queryString,
		Fragment:    parts.fragment,
	})
}

// FromAliasURL parses an alias-form URL. The locator hash is derived from
// the top-level label; type tag, data type and content type take the alias
// map container values.
func FromAliasURL(raw string) (*Locator, error) {
	parts, err := parseParts(raw)
	if err != nil {
		return nil, err
	}

	return New(Params{
		Hash:        types.HashOfName(parts.topLabel),
		AliasHost:   parts.host,
		TypeTag:     AliasMapTypeTag,
		DataType:    PublicSeqLedger,
		ContentType: AliasMapContainer,
		Path:        parts.path,
		SubLabels:   parts.subLabels,
		QueryString: parts.queryString,
		Fragment:    parts.fragment,
	})
}

// EncodingVersion returns the binary label version this Locator encodes
// with.
func (l *Locator) EncodingVersion() uint64 {
	return l.encodingVersion
}

// Hash returns the locator hash.
func (l *Locator) Hash() types.Hash {
	return l.hash
}

// TypeTag returns the sub-type discriminator.
func (l *Locator) TypeTag() uint64 {
	return l.typeTag
}

// DataType returns the storage category of the addressed resource.
func (l *Locator) DataType() DataType {
	return l.dataType
}

// ContentType returns the content discriminator.
func (l *Locator) ContentType() ContentType {
	return l.contentType
}

// IsAlias reports whether this is an alias-form Locator.
func (l *Locator) IsAlias() bool {
	return l.aliasHost != ""
}

// AliasHost returns the full alias hostname, empty for resource form.
func (l *Locator) AliasHost() string {
	return l.aliasHost
}

// SubLabels returns the extra host labels.
func (l *Locator) SubLabels() []string {
	return slices.Clone(l.subLabels)
}

// ResourceHost renders the host component in resource form with the given
// alphabet: sub-labels, dotted, followed by the encoded label.
func (l *Locator) ResourceHost(base Base) (string, error) {
	label, err := encodeLabel(l.hash, l.typeTag, l.dataType, l.contentType, base)
	if err != nil {
		return "", err
	}
	if len(l.subLabels) > 0 {
		return strings.Join(l.subLabels, ".") + "." + label, nil
	}
	return label, nil
}

// Host returns the canonical host: the alias host when set, otherwise the
// resource host in the default alphabet.
func (l *Locator) Host() string {
	if l.IsAlias() {
		return l.aliasHost
	}
	host, err := l.ResourceHost(DefaultBase)
	if err != nil {
		log.Warnf("failed to render resource host: %v", err)
		return ""
	}
	return host
}

// TopLabel returns the last dot-separated label of the canonical host.
func (l *Locator) TopLabel() string {
	labels := strings.Split(l.Host(), ".")
	return labels[len(labels)-1]
}

// ResourceString serializes to a resource-form URL with the given
// alphabet. Alias-form Locators serialize to their binary identity.
func (l *Locator) ResourceString(base Base) (string, error) {
	host, err := l.ResourceHost(base)
	if err != nil {
		return "", err
	}
	return SchemePrefix + host + l.path + l.QueryStringWithSeparator() + l.FragmentWithSeparator(), nil
}

// AliasString serializes to an alias-form URL. The second return value is
// false when this Locator has no alias host.
func (l *Locator) AliasString() (string, bool) {
	if !l.IsAlias() {
		return "", false
	}
	return SchemePrefix + l.aliasHost + l.path + l.QueryStringWithSeparator() + l.FragmentWithSeparator(), true
}

// String returns the canonical textual identity: the alias form when the
// alias host is set, otherwise the resource form in the default alphabet.
func (l *Locator) String() string {
	if s, ok := l.AliasString(); ok {
		return s
	}
	s, err := l.ResourceString(DefaultBase)
	if err != nil {
		log.Warnf("failed to serialize locator: %v", err)
		return ""
	}
	return s
}

// Equal reports whether two Locators carry identical field values.
func (l *Locator) Equal(other *Locator) bool {
	if l == nil || other == nil {
		return l == other
	}
	if (l.contentVersion == nil) != (other.contentVersion == nil) {
		return false
	}
	if l.contentVersion != nil && *l.contentVersion != *other.contentVersion {
		return false
	}
	return l.encodingVersion == other.encodingVersion &&
		l.hash == other.hash &&
		l.aliasHost == other.aliasHost &&
		l.typeTag == other.typeTag &&
		l.dataType == other.dataType &&
		l.contentType == other.contentType &&
		l.path == other.path &&
		slices.Equal(l.subLabels, other.subLabels) &&
		l.queryString == other.queryString &&
		l.fragment == other.fragment
}

// Validate serializes the Locator, reparses the result and compares the
// two. New and the setters only run cheap checks, so this is the operation
// that gives a hard well-formedness guarantee.
func (l *Locator) Validate() error {
	s := l.String()
	parsed, err := FromURL(s)
	if err != nil {
		return fmt.Errorf("locator does not survive a serialize/parse round trip: %w", err)
	}
	if !l.Equal(parsed) {
		return fmt.Errorf("%w: locator round trip mismatch: %q reparsed with different field values", ErrInvalidInput, s)
	}
	return nil
}
