package service

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const maxSlugLen = 48

// Slugify derives a URL-safe slug from an organization name: lowercase
// alphanumerics with single dashes between words.
func Slugify(name string) string {
	slug := make([]rune, 0, len(name))
	lastDash := true // suppress a leading dash
	for _, ch := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(ch) || unicode.IsDigit(ch):
			slug = append(slug, ch)
			lastDash = false
		case !lastDash:
			slug = append(slug, '-')
			lastDash = true
		}
	}

	text := strings.Trim(string(slug), "-")
	if len(text) > maxSlugLen {
		text = strings.TrimRight(text[:maxSlugLen], "-")
	}
	if text == "" {
		text = "org"
	}
	return text
}

// DedupeSlug suffixes a slug with a short random token, used when the plain
// slug collides with an existing organization.
func DedupeSlug(slug string) string {
	return slug + "-" + uuid.NewString()[:8]
}
