package source

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultPath is the relative resource path of the leaderboard document.
const DefaultPath = "leaderboard.json"

// Source identifies where a leaderboard document originated so loaders can
// operate on files, fs.FS entries, or URLs without leaking implementation
// details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early. Use Resolve
// when the input comes from users.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("source: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("source: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// Resolve joins base with the relative resource path and returns the matching
// Source. An empty rel falls back to DefaultPath. Bases starting with http://
// or https:// produce URL sources; everything else is treated as a directory
// on disk. URL bases follow RFC 3986 reference resolution, so a base of
// "https://host/board/" or "https://host/board/index.html" both resolve
// DefaultPath to "https://host/board/leaderboard.json". When rel is itself an
// absolute URL it wins over base.
func Resolve(base, rel string) (Source, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		rel = DefaultPath
	}
	base = strings.TrimSpace(base)

	if IsURL(rel) {
		return parseURL(rel)
	}

	if IsURL(base) {
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("source: invalid base URL %q: %w", base, err)
		}
		ref, err := url.Parse(rel)
		if err != nil {
			return nil, fmt.Errorf("source: invalid path %q: %w", rel, err)
		}
		return parseURL(parsed.ResolveReference(ref).String())
	}

	if base == "" || filepath.IsAbs(rel) {
		return SourceFromFile(rel), nil
	}
	return SourceFromFile(filepath.Join(base, rel)), nil
}

// IsURL reports whether value looks like an HTTP(S) URL.
func IsURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

func parseURL(raw string) (Source, error) {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("source: invalid URL %q", raw)
	}
	return urlSource{raw: parsed.String()}, nil
}
