package vanilla

import (
	"strings"

	"github.com/goliatone/go-leaderboard/pkg/render"
)

// sanitizeClassList drops empty tokens and anything that is not a plain CSS
// class name.
func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !isClassToken(token) {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

func isClassToken(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// cssVarsStyle builds the :root declaration block for theme variables. The
// result is emitted unescaped inside <style>, so names must be custom
// properties and values must not be able to close the declaration, the rule
// or the element.
func cssVarsStyle(vars []render.CSSVar) string {
	var b strings.Builder
	for _, v := range vars {
		name := strings.TrimSpace(v.Name)
		value := strings.TrimSpace(v.Value)
		if !isCustomProperty(name) || !isSafeCSSValue(value) {
			continue
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("; ")
	}
	if b.Len() == 0 {
		return ""
	}
	return ":root { " + b.String() + "}"
}

func isCustomProperty(name string) bool {
	return strings.HasPrefix(name, "--") && len(name) > 2 && isClassToken(name[2:])
}

func isSafeCSSValue(value string) bool {
	return value != "" && !strings.ContainsAny(value, "<>{};\\\n\r")
}
