package locator

import (
	"testing"

	"github.com/multiformats/go-multibase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-net/sigil/pkg/types"
)

// fixtureHash is 32 ASCII bytes, so the encoded labels stay readable in the
// expected strings below.
var fixtureHash = types.Hash([]byte("12345678901234567890123456789012"))

func TestEncodeLabelBase32(t *testing.T) {
	label, err := encodeLabel(fixtureHash, 0xa6323c4d4a32, PublicBlob, Raw, Base32)
	require.NoError(t, err)
	assert.Equal(t, "baeaaaajrgiztinjwg44dsmbrgiztinjwg44dsmbrgiztinjwg44dsmbrgktdepcnjiza", label)
}

func TestEncodeLabelBase32z(t *testing.T) {
	label, err := encodeLabel(fixtureHash, 0, PublicBlob, Raw, Base32z)
	require.NoError(t, err)
	assert.Equal(t, "hyryyyyjtge3uepjsghhd1cbtge3uepjsghhd1cbtge3uepjsghhd1cbtge", label)
}

func TestEncodeLabelBase64(t *testing.T) {
	label, err := encodeLabel(fixtureHash, 4584545, PublicSeqLedger, FilesContainer, Base64)
	require.NoError(t, err)
	assert.Equal(t, "mAQACBTEyMzQ1Njc4OTAxMjM0NTY3ODkwMTIzNDU2Nzg5MDEyRfRh", label)
}

func TestEncodeLabelUnregisteredMediaType(t *testing.T) {
	_, err := encodeLabel(fixtureHash, 0, PublicBlob, MediaType("garbage/trash"), Base32)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDecodeLabelRoundTrip(t *testing.T) {
	cases := []struct {
		name        string
		typeTag     uint64
		dataType    DataType
		contentType ContentType
		base        Base
	}{
		{"zero tag base32z", 0, PublicBlob, Raw, Base32z},
		{"one byte tag base32", 1, PublicBlob, Raw, Base32},
		{"large tag base32", 0xa6323c4d4a32, PublicBlob, Raw, Base32},
		{"max tag base64", 0xFFFFFFFFFFFFFFFF, PrivateUnseqLedger, Wallet, Base64},
		{"media type", 1100, SeqMap, MediaType("text/html"), Base32z},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			label, err := encodeLabel(fixtureHash, tc.typeTag, tc.dataType, tc.contentType, tc.base)
			require.NoError(t, err)

			hash, typeTag, dataType, contentType, err := decodeLabel(label)
			require.NoError(t, err)
			assert.Equal(t, fixtureHash, hash)
			assert.Equal(t, tc.typeTag, typeTag)
			assert.Equal(t, tc.dataType, dataType)
			assert.Equal(t, tc.contentType, contentType)
		})
	}
}

// Only the non-zero bytes of the type tag travel on the wire.
func TestEncodeLabelTagCompaction(t *testing.T) {
	cases := []struct {
		typeTag  uint64
		rawBytes int
	}{
		{0, 36},
		{1, 37},
		{0xFF, 37},
		{0x100, 38},
		{0xFFFFFFFFFFFFFFFF, 44},
	}
	for _, tc := range cases {
		label, err := encodeLabel(fixtureHash, tc.typeTag, PublicBlob, Raw, Base32)
		require.NoError(t, err)

		_, raw, err := multibase.Decode(label)
		require.NoError(t, err)
		assert.Len(t, raw, tc.rawBytes, "tag %#x", tc.typeTag)
	}
}

func TestDecodeLabelLengthBounds(t *testing.T) {
	// One byte below and above the valid 36..44 byte range.
	tooShort, err := multibase.Encode(multibase.Base32, make([]byte, 35))
	require.NoError(t, err)
	_, _, _, _, err = decodeLabel(tooShort)
	assert.ErrorIs(t, err, ErrInvalidLabel)
	assert.ErrorContains(t, err, "too short")

	tooLong, err := multibase.Encode(multibase.Base32, make([]byte, 45))
	require.NoError(t, err)
	_, _, _, _, err = decodeLabel(tooLong)
	assert.ErrorIs(t, err, ErrInvalidLabel)
	assert.ErrorContains(t, err, "too long")
}

func TestDecodeLabelBadVersion(t *testing.T) {
	// Same body as a valid label but with version byte 2.
	_, _, _, _, err := decodeLabel("baiaaaajrgiztinjwg44dsmbrgiztinjwg44dsmbrgiztinjwg44dsmbrgi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLabel)
	assert.ErrorContains(t, err, "encoding version")
}

func TestDecodeLabelUnknownContentTypeCode(t *testing.T) {
	// Content-type code 0x9999 is neither fixed nor registered.
	_, _, _, _, err := decodeLabel("bagmzsajrgiztinjwg44dsmbrgiztinjwg44dsmbrgiztinjwg44dsmbrgi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLabel)
	assert.ErrorContains(t, err, "content type code")
}

func TestDecodeLabelUnknownDataTypeCode(t *testing.T) {
	// Data-type code 9 is one past the last defined category.
	_, _, _, _, err := decodeLabel("baeaaacjrgiztinjwg44dsmbrgiztinjwg44dsmbrgiztinjwg44dsmbrgi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLabel)
	assert.ErrorContains(t, err, "data type code")
}

func TestDecodeLabelNotMultibase(t *testing.T) {
	_, _, _, _, err := decodeLabel("not-a-label")
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestParseBase(t *testing.T) {
	for name, want := range map[string]Base{
		"base32z": Base32z,
		"base32":  Base32,
		"base64":  Base64,
	} {
		got, err := ParseBase(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}

	_, err := ParseBase("base58")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBaseFromCode(t *testing.T) {
	for code, want := range map[uint8]Base{0: Base32z, 1: Base32, 2: Base64} {
		got, err := BaseFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := BaseFromCode(3)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
