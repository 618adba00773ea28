package analyzer

import (
	"mime"
	"path/filepath"
	"strings"
)

// The stdlib table only carries web types on hosts without /etc/mime.types,
// so register the extensions the console actually sees.
func init() {
	for ext, typ := range map[string]string{
		".mp4":  "video/mp4",
		".mov":  "video/quicktime",
		".mkv":  "video/x-matroska",
		".webm": "video/webm",
		".avi":  "video/x-msvideo",
		".txt":  "text/plain",
	} {
		mime.AddExtensionType(ext, typ)
	}
}

// Kind is the coarse media classification derived from a file's declared
// media type.
type Kind string

const (
	KindVideo   Kind = "video"
	KindText    Kind = "text"
	KindUnknown Kind = "unknown"
)

// DetectKind maps a path to its media kind via the standard extension table.
// video/* types are video; PDFs and plain text are text; everything else,
// including unresolvable extensions, is unknown.
func DetectKind(path string) Kind {
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		return KindUnknown
	}
	// Strip parameters like "; charset=utf-8".
	if base, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = base
	}
	switch {
	case strings.HasPrefix(mediaType, "video/"):
		return KindVideo
	case mediaType == "application/pdf", mediaType == "text/plain":
		return KindText
	default:
		return KindUnknown
	}
}
