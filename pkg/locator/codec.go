package locator

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/multiformats/go-multibase"

	"github.com/sigil-net/sigil/pkg/types"
)

// CurrentEncodingVersion is the only binary label version produced or
// accepted today. The version byte exists so the layout can evolve.
const CurrentEncodingVersion = 1

// Binary label layout, before text encoding:
//
//	1 byte   encoding version
//	2 bytes  content-type code, big-endian
//	1 byte   data-type code
//	32 bytes locator hash
//	0-8 bytes type tag, big-endian with leading zero bytes stripped
const (
	labelMinBytes = 36
	labelMaxBytes = labelMinBytes + 8
	hashOffset    = 4
	tagOffset     = hashOffset + types.HashLen
)

// Base selects the text alphabet used for encoded resource labels. Decoding
// does not need it: the label's multibase prefix identifies the alphabet.
type Base int

const (
	Base32z Base = iota
	Base32
	Base64
)

// DefaultBase is used wherever a caller does not pick an alphabet.
const DefaultBase = Base32z

// ParseBase converts a user-supplied name into a Base.
func ParseBase(s string) (Base, error) {
	switch s {
	case "base32z":
		return Base32z, nil
	case "base32":
		return Base32, nil
	case "base64":
		return Base64, nil
	}
	return 0, fmt.Errorf("%w: invalid base encoding %q, supported values are base32z, base32 and base64", ErrInvalidInput, s)
}

// BaseFromCode converts a numeric base code into a Base.
func BaseFromCode(code uint8) (Base, error) {
	switch code {
	case 0:
		return Base32z, nil
	case 1:
		return Base32, nil
	case 2:
		return Base64, nil
	}
	return 0, fmt.Errorf("%w: invalid base encoding code %d, supported values are 0=base32z, 1=base32 and 2=base64", ErrInvalidInput, code)
}

func (b Base) String() string {
	switch b {
	case Base32z:
		return "base32z"
	case Base32:
		return "base32"
	case Base64:
		return "base64"
	}
	return "unknown"
}

func (b Base) multibase() (multibase.Encoding, error) {
	switch b {
	case Base32z:
		return multibase.Base32z, nil
	case Base32:
		return multibase.Base32, nil
	case Base64:
		return multibase.Base64, nil
	}
	return 0, fmt.Errorf("%w: unknown base encoding code: %d", ErrInvalidInput, int(b))
}

// encodeLabel packs the locator fields into the binary layout and applies
// the selected text alphabet.
func encodeLabel(hash types.Hash, typeTag uint64, dataType DataType, contentType ContentType, base Base) (string, error) {
	ctCode, err := contentType.Value()
	if err != nil {
		return "", err
	}

	buf := make([]byte, 0, labelMaxBytes)
	buf = append(buf, CurrentEncodingVersion)
	buf = binary.BigEndian.AppendUint16(buf, ctCode)
	buf = append(buf, byte(dataType))
	buf = append(buf, hash[:]...)

	// Only the non-zero-leading bytes of the tag travel on the wire; a
	// zero tag contributes nothing.
	var tag [8]byte
	binary.BigEndian.PutUint64(tag[:], typeTag)
	start := bits.LeadingZeros64(typeTag) / 8
	buf = append(buf, tag[start:]...)

	enc, err := base.multibase()
	if err != nil {
		return "", err
	}
	label, err := multibase.Encode(enc, buf)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode resource label: %v", ErrInvalidLabel, err)
	}
	return label, nil
}

// decodeLabel reverses encodeLabel for a top-level host label. The length
// check runs before any field is interpreted, so trailing bytes are always
// a well-bounded tag: zero bytes mean a zero tag, fewer than eight are
// zero-extended on the left.
func decodeLabel(label string) (types.Hash, uint64, DataType, ContentType, error) {
	var hash types.Hash

	_, raw, err := multibase.Decode(label)
	if err != nil {
		return hash, 0, 0, ContentType{}, fmt.Errorf("%w: failed to decode resource label: %v", ErrInvalidLabel, err)
	}

	if len(raw) < labelMinBytes {
		return hash, 0, 0, ContentType{}, fmt.Errorf("%w: encoded label too short: %d bytes", ErrInvalidLabel, len(raw))
	}
	if len(raw) > labelMaxBytes {
		return hash, 0, 0, ContentType{}, fmt.Errorf("%w: encoded label too long: %d bytes", ErrInvalidLabel, len(raw))
	}

	if raw[0] != CurrentEncodingVersion {
		return hash, 0, 0, ContentType{}, fmt.Errorf("%w: invalid or unsupported encoding version: %d", ErrInvalidLabel, raw[0])
	}

	contentType, err := ContentTypeFromCode(binary.BigEndian.Uint16(raw[1:3]))
	if err != nil {
		return hash, 0, 0, ContentType{}, err
	}

	dataType, err := DataTypeFromCode(raw[3])
	if err != nil {
		return hash, 0, 0, ContentType{}, err
	}

	copy(hash[:], raw[hashOffset:tagOffset])

	var tag [8]byte
	copy(tag[8-(len(raw)-tagOffset):], raw[tagOffset:])
	typeTag := binary.BigEndian.Uint64(tag[:])

	return hash, typeTag, dataType, contentType, nil
}
