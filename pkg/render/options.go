package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the table.
type RenderOptions struct {
	// Title is the page or section heading. Renderers fall back to
	// DefaultTitle when empty.
	Title string
	// Caption is optional HTML shown under the title. Renderers emitting HTML
	// must pass it through SanitizeCaption; text renderers use CaptionText.
	Caption string
	// Locale and Translator localise column headers. See Headers.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Theme carries the resolved go-theme selection, if any.
	Theme *ThemeConfig
	// Stale marks a table that reflects the last successful load because the
	// latest one failed.
	Stale bool
}

// DefaultTitle is used when RenderOptions.Title is empty.
const DefaultTitle = "Leaderboard"

// TitleOrDefault returns the configured title or DefaultTitle.
func (o RenderOptions) TitleOrDefault() string {
	if o.Title == "" {
		return DefaultTitle
	}
	return o.Title
}
