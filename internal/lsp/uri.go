package lsp

import (
	"net/url"
	"path/filepath"
)

// uriToPath returns the absolute file path of a file URI. Bare paths are
// accepted; other schemes yield "".
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	var path string
	switch parsed.Scheme {
	case "file":
		path = parsed.Path
	case "":
		path = uri
		if unescaped, err := url.PathUnescape(path); err == nil {
			path = unescaped
		}
	default:
		return ""
	}
	abs, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return filepath.Clean(filepath.FromSlash(path))
	}
	return abs
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// canonicalURI normalizes a file URI so that the same document always maps
// to the same key. Non-file URIs yield "".
func canonicalURI(uri string) string {
	return pathToURI(uriToPath(uri))
}
