package locator

import (
	"fmt"

	"github.com/sigil-net/sigil/pkg/mediatypes"
)

// DataType identifies the storage category the addressed resource lives in.
// The numeric codes are part of the wire format and must never be reordered.
type DataType uint8

const (
	DataKey DataType = iota
	PublicBlob
	PrivateBlob
	SeqMap
	UnseqMap
	PublicSeqLedger
	PublicUnseqLedger
	PrivateSeqLedger
	PrivateUnseqLedger
)

func (d DataType) String() string {
	switch d {
	case DataKey:
		return "DataKey"
	case PublicBlob:
		return "PublicBlob"
	case PrivateBlob:
		return "PrivateBlob"
	case SeqMap:
		return "SeqMap"
	case UnseqMap:
		return "UnseqMap"
	case PublicSeqLedger:
		return "PublicSeqLedger"
	case PublicUnseqLedger:
		return "PublicUnseqLedger"
	case PrivateSeqLedger:
		return "PrivateSeqLedger"
	case PrivateUnseqLedger:
		return "PrivateUnseqLedger"
	}
	return "Unknown"
}

// DataTypeFromCode maps a wire code back to a DataType.
func DataTypeFromCode(code uint8) (DataType, error) {
	if code > uint8(PrivateUnseqLedger) {
		return 0, fmt.Errorf("%w: invalid data type code: %d", ErrInvalidLabel, code)
	}
	return DataType(code), nil
}

// ContentType tells consumers how to treat the addressed content. It is
// either one of four fixed kinds or an open media-type variant carrying a
// registered media-type string. Values are comparable with ==.
type ContentType struct {
	code      uint16
	mediaType string
}

var (
	Raw               = ContentType{code: 0}
	Wallet            = ContentType{code: 1}
	FilesContainer    = ContentType{code: 2}
	AliasMapContainer = ContentType{code: 3}
)

// MediaType returns the open content-type variant for a media-type string.
// The string is only checked against the registry when the value is
// encoded or used to construct a Locator.
func MediaType(mediaType string) ContentType {
	return ContentType{mediaType: mediaType}
}

// IsMediaType reports whether this is the open media-type variant.
func (c ContentType) IsMediaType() bool {
	return c.mediaType != ""
}

// MediaTypeString returns the carried media-type string, empty for the
// fixed kinds.
func (c ContentType) MediaTypeString() string {
	return c.mediaType
}

func (c ContentType) String() string {
	if c.mediaType != "" {
		return fmt.Sprintf("MediaType(%s)", c.mediaType)
	}
	switch c.code {
	case 0:
		return "Raw"
	case 1:
		return "Wallet"
	case 2:
		return "FilesContainer"
	case 3:
		return "AliasMapContainer"
	}
	return "Unknown"
}

// Value returns the two-byte wire code for this content type. Media types
// are looked up in the registry and fail if unregistered.
func (c ContentType) Value() (uint16, error) {
	if c.mediaType == "" {
		return c.code, nil
	}
	code, ok := mediatypes.CodeOf(c.mediaType)
	if !ok {
		return 0, fmt.Errorf("%w: media type %q is not registered", ErrInvalidInput, c.mediaType)
	}
	return code, nil
}

// ContentTypeFromCode maps a wire code back to a ContentType, consulting
// the media-type registry for codes outside the fixed range.
func ContentTypeFromCode(code uint16) (ContentType, error) {
	if code <= 3 {
		return ContentType{code: code}, nil
	}
	mt, ok := mediatypes.StringOf(code)
	if !ok {
		return ContentType{}, fmt.Errorf("%w: invalid content type code: %d", ErrInvalidLabel, code)
	}
	return MediaType(mt), nil
}

// IsMediaTypeSupported reports whether a media-type string can be encoded
// into a resource label.
func IsMediaTypeSupported(mediaType string) bool {
	return mediatypes.Supported(mediaType)
}
