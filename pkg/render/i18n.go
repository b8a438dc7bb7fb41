package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when a
// translation key is configured but no Translator was supplied.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the text used when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// HeaderKeyPrefix prefixes column names to build translation keys, e.g.
// "leaderboard.columns.rank".
const HeaderKeyPrefix = "leaderboard.columns."

var defaultHeaders = map[string]string{
	"rank":  "Rank",
	"score": "Score",
}

// Headers returns the display label for each column, translated through
// opts.Translator when present. Untranslated columns fall back to a built-in
// label, then to the column name.
func Headers(columns []string, opts RenderOptions) []string {
	return HeadersWithLabels(columns, opts, nil)
}

// HeadersWithLabels is Headers with renderer-specific fallback labels that
// take precedence over the built-in ones. Translations still win.
func HeadersWithLabels(columns []string, opts RenderOptions, labels map[string]string) []string {
	out := make([]string, 0, len(columns))
	for _, column := range columns {
		fallback := labels[column]
		if fallback == "" {
			fallback = defaultHeaders[column]
		}
		if fallback == "" {
			fallback = column
		}
		out = append(out, translate(opts.Locale, HeaderKeyPrefix+column, fallback, opts.Translator, opts.OnMissing))
	}
	return out
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		return fallback
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
