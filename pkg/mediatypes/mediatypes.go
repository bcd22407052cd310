// Package mediatypes holds the static registry that maps media-type strings
// to the compact numeric codes used inside encoded resource labels. The
// registry is bidirectional and append-only: codes are assigned from
// FirstCode in the order the types appear in registered, so existing URLs
// never change meaning when new types are added at the end.
package mediatypes

// FirstCode is the lowest media-type code. Codes below it are reserved for
// the fixed content-type kinds.
const FirstCode uint16 = 0x4000

// registered lists every supported media type. Append only; never reorder.
var registered = []string{
	"text/css",
	"text/csv",
	"text/html",
	"text/javascript",
	"text/plain",
	"text/xml",
	"image/apng",
	"image/bmp",
	"image/gif",
	"image/jpeg",
	"image/png",
	"image/svg+xml",
	"image/tiff",
	"image/webp",
	"image/x-icon",
	"audio/aac",
	"audio/flac",
	"audio/mpeg",
	"audio/ogg",
	"audio/wav",
	"audio/webm",
	"video/mp4",
	"video/mpeg",
	"video/ogg",
	"video/webm",
	"font/otf",
	"font/ttf",
	"font/woff",
	"font/woff2",
	"application/json",
	"application/octet-stream",
	"application/pdf",
	"application/rtf",
	"application/wasm",
	"application/xml",
	"application/zip",
	"application/x-tar",
	"application/gzip",
}

var (
	codes = make(map[string]uint16, len(registered))
	names = make(map[uint16]string, len(registered))
)

func init() {
	for i, mt := range registered {
		code := FirstCode + uint16(i)
		codes[mt] = code
		names[code] = mt
	}
}

// Supported reports whether the media type is in the registry.
func Supported(mediaType string) bool {
	_, ok := codes[mediaType]
	return ok
}

// CodeOf returns the numeric code for a media-type string.
func CodeOf(mediaType string) (uint16, bool) {
	code, ok := codes[mediaType]
	return code, ok
}

// StringOf returns the media-type string for a numeric code.
func StringOf(code uint16) (string, bool) {
	mt, ok := names[code]
	return mt, ok
}

// ForExtension guesses a registered media type from a file extension. The
// extension may carry a leading dot. Only extensions that map onto a
// registry entry succeed; everything else should be stored as raw content.
func ForExtension(ext string) (string, bool) {
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	mt, ok := extensions[ext]
	return mt, ok
}

var extensions = map[string]string{
	"css":   "text/css",
	"csv":   "text/csv",
	"html":  "text/html",
	"htm":   "text/html",
	"js":    "text/javascript",
	"txt":   "text/plain",
	"gif":   "image/gif",
	"jpeg":  "image/jpeg",
	"jpg":   "image/jpeg",
	"png":   "image/png",
	"svg":   "image/svg+xml",
	"webp":  "image/webp",
	"ico":   "image/x-icon",
	"flac":  "audio/flac",
	"mp3":   "audio/mpeg",
	"wav":   "audio/wav",
	"mp4":   "video/mp4",
	"otf":   "font/otf",
	"ttf":   "font/ttf",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"json":  "application/json",
	"pdf":   "application/pdf",
	"rtf":   "application/rtf",
	"wasm":  "application/wasm",
	"xml":   "application/xml",
	"zip":   "application/zip",
	"tar":   "application/x-tar",
	"gz":    "application/gzip",
}
