package render

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	captionPolicyOnce sync.Once
	captionPolicy     *bluemonday.Policy

	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeCaption strips everything but inline formatting and links from
// caption markup.
func SanitizeCaption(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(captionSanitizer().Sanitize(trimmed))
}

// CaptionText reduces caption markup to plain text for non-HTML renderers.
func CaptionText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}

func captionSanitizer() *bluemonday.Policy {
	captionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("a", "b", "strong", "em", "i", "code", "span", "br", "small")
		policy.AllowAttrs("href", "title").OnElements("a")
		policy.AllowAttrs("class").OnElements("span")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		captionPolicy = policy
	})
	return captionPolicy
}
