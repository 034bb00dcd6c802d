package app

import (
	"regexp"
	"strings"
)

// Traced statements are collapsed to one line and capped, so a chunked
// delivery insert with hundreds of placeholders stays readable in a span.
const tracedQueryLimit = 512

var whitespaceRun = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	compact := whitespaceRun.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(compact) > tracedQueryLimit {
		return compact[:tracedQueryLimit] + "..."
	}

	return compact
}
