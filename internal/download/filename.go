package download

import (
	"crypto/md5" //nolint:gosec // name shortening, not security
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// MaxFilenameLength is the longest derived name kept as is.
const MaxFilenameLength = 64

// ErrNoFilename is returned when a URL path has no usable last segment,
// for example "http://example.com/gallery/".
var ErrNoFilename = errors.New("URL path has no file name")

// Filename derives the on-disk name for rawURL.
// The name is the unescaped last segment of the URL path. If it is longer
// than MaxFilenameLength it becomes md5hex(stem) + extension, or
// md5hex(name) alone when the extension is too long to keep.
func Filename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}

	p := u.EscapedPath()
	name, err := url.PathUnescape(p[strings.LastIndex(p, "/")+1:])
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrNoFilename, rawURL, err)
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\x00") {
		return "", fmt.Errorf("%w: %s", ErrNoFilename, rawURL)
	}

	if len(name) > MaxFilenameLength {
		stem, ext := splitExt(name)
		if len(ext) > MaxFilenameLength-hex.EncodedLen(md5.Size) {
			stem, ext = name, ""
		}
		sum := md5.Sum([]byte(stem)) //nolint:gosec // name shortening, not security
		name = hex.EncodeToString(sum[:]) + ext
	}
	return name, nil
}

// splitExt splits name into stem and extension. Leading dots belong to
// the stem, so ".profile" has no extension.
func splitExt(name string) (string, string) {
	trimmed := strings.TrimLeft(name, ".")
	i := strings.LastIndex(trimmed, ".")
	if i < 0 {
		return name, ""
	}
	i += len(name) - len(trimmed)
	return name[:i], name[i:]
}
