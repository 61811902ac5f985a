package tenant

import (
	"strings"
)

// Slugify derives the URL slug for an establishment name: lowercase,
// non-alphanumeric runs collapsed to a single hyphen, leading and trailing
// hyphens trimmed.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := false

	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen && b.Len() > 0 {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}
