package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-net/sigil/pkg/types"
)

const fixtureLabelBase32 = "baeaaaajrgiztinjwg44dsmbrgiztinjwg44dsmbrgiztinjwg44dsmbrgktdepcnjiza"

func TestNewRejectsUnsupportedMediaType(t *testing.T) {
	_, err := New(Params{
		Hash:        fixtureHash,
		DataType:    PublicBlob,
		ContentType: MediaType("garbage/trash"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "not supported")
}

func TestNewRejectsEmptySubLabel(t *testing.T) {
	_, err := New(Params{
		Hash:        fixtureHash,
		DataType:    PublicBlob,
		ContentType: Raw,
		SubLabels:   []string{"blog", ""},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewAliasDerivesHash(t *testing.T) {
	l, err := NewAlias("mysite", AliasMapTypeTag, PublicSeqLedger, AliasMapContainer)
	require.NoError(t, err)

	assert.True(t, l.IsAlias())
	assert.Equal(t, types.HashOfName("mysite"), l.Hash())
	assert.Equal(t, "mysite", l.TopLabel())
	assert.Equal(t, "sigil://mysite", l.String())
}

func TestNewAliasSubLabels(t *testing.T) {
	l, err := NewAlias("blog.mysite", AliasMapTypeTag, PublicSeqLedger, AliasMapContainer)
	require.NoError(t, err)

	// The hash derives from the top-level label only; the sub-label is
	// carried separately.
	assert.Equal(t, types.HashOfName("mysite"), l.Hash())
	assert.Equal(t, []string{"blog"}, l.SubLabels())
	assert.Equal(t, "sigil://blog.mysite", l.String())
}

func TestNewAliasEmptyHost(t *testing.T) {
	_, err := NewAlias("", AliasMapTypeTag, PublicSeqLedger, AliasMapContainer)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewAliasHashMismatch(t *testing.T) {
	_, err := New(Params{
		Hash:        fixtureHash, // not the hash of "mysite"
		AliasHost:   "mysite",
		DataType:    PublicSeqLedger,
		ContentType: AliasMapContainer,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMismatch)
	// Both hashes appear in the message so the caller can see what went
	// wrong.
	assert.ErrorContains(t, err, types.HashOfName("mysite").String())
	assert.ErrorContains(t, err, fixtureHash.String())
}

func TestFromResourceURLRoundTrip(t *testing.T) {
	raw := "sigil://blog." + fixtureLabelBase32 + "/posts/first.html?lang=en&v=3#intro"

	l, err := FromResourceURL(raw)
	require.NoError(t, err)

	assert.False(t, l.IsAlias())
	assert.Equal(t, fixtureHash, l.Hash())
	assert.Equal(t, uint64(0xa6323c4d4a32), l.TypeTag())
	assert.Equal(t, PublicBlob, l.DataType())
	assert.Equal(t, Raw, l.ContentType())
	assert.Equal(t, []string{"blog"}, l.SubLabels())
	assert.Equal(t, "/posts/first.html", l.Path())
	assert.Equal(t, "lang=en&v=3", l.QueryString())
	assert.Equal(t, "intro", l.Fragment())

	v, ok := l.ContentVersion()
	require.True(t, ok)
	assert.Equal(t, uint64(3), v)

	serialized, err := l.ResourceString(Base32)
	require.NoError(t, err)
	assert.Equal(t, raw, serialized)
}

func TestFromResourceURLAnyAlphabet(t *testing.T) {
	// Decoding identifies the alphabet from the multibase prefix, so the
	// same identity parses out of every serialization.
	l, err := NewPublicBlob(fixtureHash, Raw)
	require.NoError(t, err)

	for _, base := range []Base{Base32z, Base32, Base64} {
		raw, err := l.ResourceString(base)
		require.NoError(t, err)

		parsed, err := FromResourceURL(raw)
		require.NoError(t, err, "base %s", base)
		assert.True(t, l.Equal(parsed), "base %s", base)
	}
}

func TestFromAliasURL(t *testing.T) {
	l, err := FromAliasURL("sigil://mysite/path?k=1#frag")
	require.NoError(t, err)

	assert.True(t, l.IsAlias())
	assert.Equal(t, types.HashOfName("mysite"), l.Hash())
	assert.Equal(t, AliasMapTypeTag, l.TypeTag())
	assert.Equal(t, PublicSeqLedger, l.DataType())
	assert.Equal(t, AliasMapContainer, l.ContentType())
	assert.Equal(t, "/path", l.Path())
	assert.Equal(t, "k=1", l.QueryString())
	assert.Equal(t, "frag", l.Fragment())
}

func TestFromURLFallsBackToAlias(t *testing.T) {
	// A host that is not a decodable label parses as an alias.
	l, err := FromURL("sigil://mysite")
	require.NoError(t, err)
	assert.True(t, l.IsAlias())

	// A host that is a decodable label parses as a resource.
	l, err = FromURL("sigil://" + fixtureLabelBase32)
	require.NoError(t, err)
	assert.False(t, l.IsAlias())
	assert.Equal(t, fixtureHash, l.Hash())
}

func TestFromURLRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		"mysite",
		"http://mysite",
		"sigil://",
	} {
		_, err := FromURL(raw)
		require.Error(t, err, "input %q", raw)
		assert.ErrorIs(t, err, ErrInvalidURL)
	}
}

func TestStringPrefersAliasForm(t *testing.T) {
	l, err := NewAlias("mysite", AliasMapTypeTag, PublicSeqLedger, AliasMapContainer)
	require.NoError(t, err)
	l.SetPath("/index.html")

	assert.Equal(t, "sigil://mysite/index.html", l.String())

	// The binary identity is still reachable through the resource form.
	resource, err := l.ResourceString(Base32z)
	require.NoError(t, err)
	assert.NotEqual(t, l.String(), resource)

	parsed, err := FromResourceURL(resource)
	require.NoError(t, err)
	assert.Equal(t, l.Hash(), parsed.Hash())
}

func TestAliasStringOnResourceLocator(t *testing.T) {
	l, err := NewPublicBlob(fixtureHash, Raw)
	require.NoError(t, err)

	_, ok := l.AliasString()
	assert.False(t, ok)
}

func TestEncodeConvenience(t *testing.T) {
	url, err := Encode(Params{
		Hash:        fixtureHash,
		TypeTag:     0xa6323c4d4a32,
		DataType:    PublicBlob,
		ContentType: Raw,
	}, Base32)
	require.NoError(t, err)
	assert.Equal(t, "sigil://"+fixtureLabelBase32, url)
}

func TestNewConstructors(t *testing.T) {
	key, err := NewDataKey(fixtureHash)
	require.NoError(t, err)
	assert.Equal(t, DataKey, key.DataType())
	assert.Equal(t, Raw, key.ContentType())

	blob, err := NewPublicBlob(fixtureHash, MediaType("text/html"))
	require.NoError(t, err)
	assert.Equal(t, PublicBlob, blob.DataType())
	assert.Equal(t, "text/html", blob.ContentType().MediaTypeString())

	m, err := NewMap(fixtureHash, 42, Raw)
	require.NoError(t, err)
	assert.Equal(t, SeqMap, m.DataType())
	assert.Equal(t, uint64(42), m.TypeTag())

	ledger, err := NewLedger(fixtureHash, 1500, AliasMapContainer)
	require.NoError(t, err)
	assert.Equal(t, PublicSeqLedger, ledger.DataType())
}

func TestEqual(t *testing.T) {
	a, err := NewPublicBlob(fixtureHash, Raw)
	require.NoError(t, err)
	b, err := NewPublicBlob(fixtureHash, Raw)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))

	b.SetPath("/different")
	assert.False(t, a.Equal(b))

	b.SetPath("")
	version := uint64(1)
	b.SetContentVersion(&version)
	assert.False(t, a.Equal(b))

	b.SetContentVersion(nil)
	assert.True(t, a.Equal(b))
}

func TestValidate(t *testing.T) {
	l, err := FromResourceURL("sigil://blog." + fixtureLabelBase32 + "/posts/first.html?lang=en&v=3#intro")
	require.NoError(t, err)
	assert.NoError(t, l.Validate())

	alias, err := FromAliasURL("sigil://mysite/path?k=1#frag")
	require.NoError(t, err)
	assert.NoError(t, alias.Validate())
}

func TestContentTypeRoundTrip(t *testing.T) {
	for _, ct := range []ContentType{Raw, Wallet, FilesContainer, AliasMapContainer, MediaType("image/png")} {
		code, err := ct.Value()
		require.NoError(t, err)

		back, err := ContentTypeFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, ct, back)
	}
}

func TestDataTypeFromCode(t *testing.T) {
	for code := uint8(0); code <= 8; code++ {
		dt, err := DataTypeFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, DataType(code), dt)
		assert.NotEqual(t, "Unknown", dt.String())
	}

	_, err := DataTypeFromCode(9)
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestIsMediaTypeSupported(t *testing.T) {
	assert.True(t, IsMediaTypeSupported("text/html"))
	assert.False(t, IsMediaTypeSupported("garbage/trash"))
}
