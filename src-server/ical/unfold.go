package ical

import (
	"regexp"
	"strings"
)

// A physical line starts a new logical line only when it begins with an
// uppercase property token followed by ':' or ';'. Anything else is a
// continuation of its predecessor.
var propertyTokenRegex = regexp.MustCompile(`^[A-Z]+[:;]`)

// unfoldLines normalizes raw iCalendar text into ordered logical lines:
// fold artifacts behind the `\n` escape are canonicalized, stray quotes
// are stripped, blank lines are dropped and continuation lines are merged
// onto their predecessor with no separator.
func unfoldLines(text string) []string {
	text = strings.ReplaceAll(text, "\\n\t", "\\n")
	text = strings.ReplaceAll(text, "\\n ", "\\n")
	text = strings.ReplaceAll(text, `"`, "")

	lines := make([]string, 0)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if len(lines) > 0 && !propertyTokenRegex.MatchString(line) {
			lines[len(lines)-1] += line
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
