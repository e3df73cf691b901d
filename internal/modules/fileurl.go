package modules

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// FileURL converts an absolute filesystem path to a file:// URL. The
// ES-module import primitive only accepts URLs; native Windows paths
// ("C:\tests\a.mjs") are not valid URL paths, so the drive prefix gets
// a leading slash and separators are normalized.
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// FilePath converts a file:// URL back to a filesystem path.
func FilePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse module URL %q: %w", rawURL, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported module URL scheme %q", u.Scheme)
	}
	p := u.Path
	// Windows drive paths round-trip as "/C:/...".
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}

// IsFileURL reports whether a module specifier is a file:// URL rather
// than a bare module name.
func IsFileURL(specifier string) bool {
	return strings.HasPrefix(specifier, "file://")
}
