package rest

import (
	"strings"
)

// markdownDecoration lists the characters dropped before comparing bodies.
const markdownDecoration = "*_`~#>|"

// normalizeContent reduces a markdown body to its bare text: decoration
// characters removed, whitespace runs collapsed to single spaces, case
// folded.
func normalizeContent(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	for _, r := range content {
		if strings.ContainsRune(markdownDecoration, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
}
