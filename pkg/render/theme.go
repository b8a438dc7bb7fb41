package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// StylesheetAsset is the theme asset key renderers use for the page
// stylesheet.
const StylesheetAsset = "leaderboard.stylesheet"

// ThemeConfig is the renderer-facing view of a go-theme selection: tokens
// merged with variant overrides, derived CSS variables, and an asset URL
// resolver.
type ThemeConfig struct {
	Theme    string
	Variant  string
	Tokens   map[string]string
	CSSVars  map[string]string
	AssetURL func(key string) string
}

// Stylesheet returns the themed stylesheet URL, or "" when the theme does not
// provide one.
func (c *ThemeConfig) Stylesheet() string {
	if c == nil || c.AssetURL == nil {
		return ""
	}
	return c.AssetURL(StylesheetAsset)
}

// CSSVarList returns the CSS variables sorted by name so output is stable.
func (c *ThemeConfig) CSSVarList() []CSSVar {
	if c == nil || len(c.CSSVars) == 0 {
		return nil
	}
	names := make([]string, 0, len(c.CSSVars))
	for name := range c.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]CSSVar, 0, len(names))
	for _, name := range names {
		out = append(out, CSSVar{Name: name, Value: c.CSSVars[name]})
	}
	return out
}

// CSSVar is a single custom property declaration.
type CSSVar struct {
	Name  string
	Value string
}

// ResolveTheme asks selector for the named theme/variant and flattens the
// selection into a ThemeConfig. A nil selector yields a nil config.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*ThemeConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	return ThemeFromSelection(selection), nil
}

// ThemeFromSelection flattens a go-theme selection.
func ThemeFromSelection(selection *theme.Selection) *ThemeConfig {
	if selection == nil {
		return nil
	}

	cfg := &ThemeConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  make(map[string]string),
		CSSVars: make(map[string]string),
	}

	prefix := ""
	files := make(map[string]string)

	if manifest := selection.Manifest; manifest != nil {
		for key, value := range manifest.Tokens {
			cfg.Tokens[key] = value
		}
		prefix = manifest.Assets.Prefix
		for key, value := range manifest.Assets.Files {
			files[key] = value
		}

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			for key, value := range variant.Tokens {
				cfg.Tokens[key] = value
			}
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
			for key, value := range variant.Assets.Files {
				files[key] = value
			}
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") || prefix == "" {
			return file
		}
		return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(file, "/")
	}
	return cfg
}

// ManifestSelector serves selections from an in-memory set of manifests. The
// first registered manifest is the default when no name is requested.
type ManifestSelector struct {
	manifests map[string]*theme.Manifest
	order     []string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector builds a selector over manifests. Manifests without a
// name or with duplicate names are rejected.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		name := strings.TrimSpace(manifest.Name)
		if name == "" {
			return nil, errors.New("render: theme manifest name is required")
		}
		if _, exists := s.manifests[name]; exists {
			return nil, fmt.Errorf("render: theme %q already registered", name)
		}
		s.manifests[name] = manifest
		s.order = append(s.order, name)
	}
	return s, nil
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s == nil || len(s.order) == 0 {
		return nil, errors.New("render: no themes registered")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.order[0]
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{
		Theme:    manifest.Name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

type manifestFile struct {
	Name     string                 `yaml:"name"`
	Version  string                 `yaml:"version"`
	Tokens   map[string]string      `yaml:"tokens"`
	Assets   assetsFile             `yaml:"assets"`
	Variants map[string]variantFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantFile struct {
	Tokens map[string]string `yaml:"tokens"`
	Assets assetsFile        `yaml:"assets"`
}

// ParseThemeManifest decodes a YAML (or JSON) theme manifest:
//
//	name: acme
//	tokens: {brand: "#123456"}
//	assets: {prefix: /assets/acme, files: {leaderboard.stylesheet: theme.css}}
//	variants:
//	  dark: {tokens: {brand: "#000"}}
func ParseThemeManifest(data []byte) (*theme.Manifest, error) {
	var raw manifestFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("render: parse theme manifest: %w", err)
	}
	if strings.TrimSpace(raw.Name) == "" {
		return nil, errors.New("render: theme manifest name is required")
	}

	manifest := &theme.Manifest{
		Name:    raw.Name,
		Version: raw.Version,
		Tokens:  raw.Tokens,
		Assets: theme.Assets{
			Prefix: raw.Assets.Prefix,
			Files:  raw.Assets.Files,
		},
	}
	if len(raw.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(raw.Variants))
		for name, v := range raw.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens: v.Tokens,
				Assets: theme.Assets{
					Prefix: v.Assets.Prefix,
					Files:  v.Assets.Files,
				},
			}
		}
	}
	return manifest, nil
}
