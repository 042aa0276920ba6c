package banner

import (
	"strings"
)

var (
	bracketStripper = strings.NewReplacer("<", "", ">", "")
	quoteEscaper    = strings.NewReplacer(`"`, "&quot;", "'", "&#39;")
)

// SanitizeTitle prepares a validated title for storage.
func SanitizeTitle(title string) string {
	return sanitize(title, MaxTitleLength)
}

// SanitizeSubtitle prepares a validated subtitle for storage. Line breaks
// are kept.
func SanitizeSubtitle(subtitle string) string {
	return sanitize(subtitle, MaxSubtitleLength)
}

// sanitize trims, drops every angle bracket, escapes quotes and truncates.
// Entities already in the text are left as they are.
func sanitize(s string, limit int) string {
	s = strings.TrimSpace(s)
	s = bracketStripper.Replace(s)
	s = quoteEscaper.Replace(s)
	return truncate(s, limit)
}

func truncate(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
