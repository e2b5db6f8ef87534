package sig

import (
	"regexp"
	"strings"
)

var (
	// sigDelimiter is the conventional signature delimiter line. A sender
	// who writes one is naming the insertion point, so it wins over every
	// other placement rule.
	sigDelimiter = regexp.MustCompile(`(?m)^--[ \t]*\r?$`)

	// replyHeader matches the attribution lines mail clients lead quoted
	// reply content with. The patterns are English-biased, which is a known
	// limitation shared with most signature tooling.
	replyHeader = regexp.MustCompile(`(?mi)^(?:from:[ \t]+.*|on[ \t]+.+[ \t]wrote:.*)$`)
)

// breakOf sniffs the line break convention of a body so inserted text can
// match it.
func breakOf(body string) string {
	if strings.Contains(body, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// insertPlainFooter splices footer into a plain text body. Three tiers are
// tried in order and the first match decides the placement:
//
// 1. A signature delimiter line is replaced by the footer and a blank line.
//
// 2. The footer goes just above the first reply attribution line, unless the
// body opens with one, in which case the quote is on top on purpose and the
// footer must not break it apart.
//
// 3. The footer is appended to the end of the body.
//
// The second return value reports whether an insertion took place, which
// with a total fallback tier is always true. It is kept so the plain and
// HTML inserters share a shape.
func insertPlainFooter(body, footer string) (string, bool) {
	br := breakOf(body)

	if loc := sigDelimiter.FindStringIndex(body); loc != nil {
		rest := body[loc[1]:]
		rest = strings.TrimPrefix(rest, "\n")
		return body[:loc[0]] + footer + br + br + rest, true
	}

	if loc := replyHeader.FindStringIndex(body); loc != nil && loc[0] > 0 {
		return body[:loc[0]] + footer + br + br + body[loc[0]:], true
	}

	if body != "" && !strings.HasSuffix(body, "\n") {
		body += br
	}
	return body + footer + br + br, true
}
