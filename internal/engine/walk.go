package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/leakscout/leakscout/internal/source"
)

// isBinary reports content that should not be matched as text: a NUL byte
// in the leading window, or a sniffed media, archive or executable type whose
// leading window is not valid UTF-8. Text-like types such as PEM/PKCS7
// bundles, XPM images and playlists stay scannable.
func isBinary(b []byte) bool {
	if looksBinary(b) {
		return true
	}
	if utf8.Valid(sniffWindow(b)) {
		return false
	}
	return looksBinaryMIME(b)
}

const sniffLen = 8000

func sniffWindow(b []byte) []byte {
	if len(b) <= sniffLen {
		return b
	}
	w := b[:sniffLen]
	// back off a rune split by the cut
	for i := 0; i < utf8.UTFMax-1 && !utf8.Valid(w); i++ {
		w = w[:len(w)-1]
	}
	return w
}

func looksBinary(b []byte) bool {
	for _, c := range b[:min(len(b), sniffLen)] {
		if c == 0 {
			return true
		}
	}
	return false
}

var binaryMIMEs = map[string]bool{
	"application/zip":              true,
	"application/gzip":             true,
	"application/x-tar":            true,
	"application/x-7z-compressed":  true,
	"application/x-rar-compressed": true,
	"application/x-bzip2":          true,
	"application/x-xz":             true,
	"application/zstd":             true,
	"application/jar":              true,
	"application/pdf":              true,
	"application/wasm":             true,
	"application/x-executable":     true,
	"application/x-elf":            true,
	"application/x-sharedlib":      true,
	"application/x-object":         true,
	"application/x-mach-binary":    true,
	"application/x-java-applet":    true,
	"application/vnd.sqlite3":      true,
	"application/x-sqlite3":        true,

	"application/vnd.microsoft.portable-executable": true,
}

// text formats that happen to live under a media top-level type
var textMediaMIMEs = map[string]bool{
	"image/svg+xml":   true,
	"image/x-xpixmap": true,
	"audio/mpegurl":   true,
}

func looksBinaryMIME(b []byte) bool {
	for m := mimetype.Detect(b); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return false
		}
		mime, _, _ := strings.Cut(m.String(), ";")
		mime = strings.TrimSpace(mime)
		if textMediaMIMEs[mime] {
			return false
		}
		if binaryMIMEs[mime] {
			return true
		}
		top, _, _ := strings.Cut(mime, "/")
		switch top {
		case "image", "audio", "video", "font":
			return true
		}
	}
	return false
}

// CountTargets reports how many entries of tree would be retrieved under cfg,
// without fetching any content.
func CountTargets(tree []source.Entry, cfg Config) (int, error) {
	filter, err := NewFilter(cfg.Exclude)
	if err != nil {
		return 0, err
	}
	if cfg.ExcludeFile != "" {
		if filter, err = filter.WithIgnoreFile(cfg.ExcludeFile); err != nil {
			return 0, err
		}
	}
	files, _ := selectFiles(tree, filter, cfg.MaxBytes, cfg.withDefaults().Logger)
	return len(files), nil
}
