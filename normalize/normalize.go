// Package normalize canonicalizes free-text person names. The same person's
// name is entered inconsistently across sheets maintained by different
// people, so every cross-sheet join goes through Key.
package normalize

import "strings"

// Key reduces a name to a lowercase alphanumeric join key: trimmed,
// lowercased, double quotes removed, every other non-alphanumeric dropped.
func Key(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, `"`, "")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slug turns a name into a URL-safe identifier fragment: lowercase, runs of
// non-alphanumerics collapsed to a single dash, no leading/trailing dashes.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		} else {
			pendingDash = true
		}
	}
	return b.String()
}
