package sig

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	// htmlSigDelimiter is the signature delimiter line as it tends to
	// survive conversion to markup, with a line break tag on either side of
	// the dashes or both.
	htmlSigDelimiter = regexp.MustCompile(`(?mi)^[ \t]*(?:<br[^>]*>[ \t]*)?--[ \t]*(?:<br[^>]*>[ \t]*)?\r?$`)

	// htmlReplyHeader is the markup cousin of replyHeader. Markup rarely
	// breaks lines where the visible text does, so this one is not anchored
	// to line boundaries.
	htmlReplyHeader = regexp.MustCompile(`(?i)(?:from:[ \t]+\S|\bon[ \t].*[ \t]wrote:)`)

	// voidElements never take end tags, so they must not open a nesting
	// level during the markup scan.
	voidElements = map[string]struct{}{
		"area": {}, "base": {}, "br": {}, "col": {}, "embed": {},
		"hr": {}, "img": {}, "input": {}, "link": {}, "meta": {},
		"param": {}, "source": {}, "track": {}, "wbr": {},
	}
)

// markupElem records one completed element and the offset just past its
// start tag.
type markupElem struct {
	name    string
	openEnd int
}

// markupInfo holds the byte offsets of the splice anchors found in a chunk
// of markup. Offsets are -1 when the anchor was not found.
type markupInfo struct {
	// bqStart is the offset of the first blockquote start tag.
	bqStart int

	// bqParentOpenEnd is the offset just past the start tag of the first
	// blockquote's parent element, zero when the blockquote sits at the top
	// level of the markup.
	bqParentOpenEnd int

	// bqSiblings lists the completed elements preceding the first
	// blockquote under the same parent, in document order.
	bqSiblings []markupElem

	// bodyEnd and htmlEnd are the offsets of the last body and html end
	// tags.
	bodyEnd int
	htmlEnd int
}

// scanMarkup makes a single tokenizer pass over the markup, tracking element
// nesting by byte offset. The markup itself is never reparsed or reprinted,
// so everything the splice does not touch round-trips byte for byte.
func scanMarkup(markup string) *markupInfo {
	info := &markupInfo{bqStart: -1, bodyEnd: -1, htmlEnd: -1}

	type openElem struct {
		name     string
		openEnd  int
		children []markupElem
	}

	// the sentinel bottom element stands in for the top level of the markup
	stack := []*openElem{{}}

	z := html.NewTokenizer(strings.NewReader(markup))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		rawLen := len(z.Raw())
		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			n := string(name)

			if info.bqStart < 0 && n == "blockquote" {
				parent := stack[len(stack)-1]
				info.bqStart = offset
				info.bqParentOpenEnd = parent.openEnd
				info.bqSiblings = parent.children
			}

			if _, void := voidElements[n]; void {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, markupElem{n, offset + rawLen})
			} else {
				stack = append(stack, &openElem{name: n, openEnd: offset + rawLen})
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, markupElem{string(name), offset + rawLen})
		case html.EndTagToken:
			name, _ := z.TagName()
			n := string(name)

			switch n {
			case "body":
				info.bodyEnd = offset
			case "html":
				info.htmlEnd = offset
			}

			// pop to the matching start tag, tolerating markup that closes
			// elements it never opened
			for i := len(stack) - 1; i >= 1; i-- {
				if stack[i].name == n {
					closed := stack[i]
					stack = stack[:i]
					parent := stack[len(stack)-1]
					parent.children = append(parent.children, markupElem{closed.name, closed.openEnd})
					break
				}
			}
		}
		offset += rawLen
	}

	return info
}

// insertHTMLFooter splices footer markup into an HTML body. The tiers mirror
// insertPlainFooter:
//
// 1. A signature delimiter line, possibly dressed in line break tags, is
// replaced by the footer.
//
// 2. Quoted reply content usually arrives wrapped in a blockquote. The
// footer becomes the leading content of the nearest div or p sibling
// preceding the first blockquote, or failing that goes just above the
// attribution text leading into the quote.
//
// 3. The footer goes just before the closing body tag, or the closing html
// tag, or at the very end when the markup has neither.
func insertHTMLFooter(markup, footer string) (string, bool) {
	if loc := htmlSigDelimiter.FindStringIndex(markup); loc != nil {
		return markup[:loc[0]] + footer + markup[loc[1]:], true
	}

	info := scanMarkup(markup)

	if info.bqStart >= 0 {
		for i := len(info.bqSiblings) - 1; i >= 0; i-- {
			sib := info.bqSiblings[i]
			if sib.name == "div" || sib.name == "p" {
				return markup[:sib.openEnd] + footer + markup[sib.openEnd:], true
			}
		}

		content := markup[info.bqParentOpenEnd:info.bqStart]
		if loc := htmlReplyHeader.FindStringIndex(content); loc != nil && loc[0] > 0 {
			at := info.bqParentOpenEnd + loc[0]
			return markup[:at] + footer + markup[at:], true
		}
	}

	if info.bodyEnd >= 0 {
		return markup[:info.bodyEnd] + footer + markup[info.bodyEnd:], true
	}
	if info.htmlEnd >= 0 {
		return markup[:info.htmlEnd] + footer + markup[info.htmlEnd:], true
	}
	return markup + footer, true
}

// plainToHTML renders a plain text body as minimal HTML, which is how a
// message with no HTML part grows one when WithForcedHTML is on.
func plainToHTML(body string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>\n")
	for _, line := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
		sb.WriteString(html.EscapeString(strings.TrimSuffix(line, "\r")))
		sb.WriteString("<br>\n")
	}
	sb.WriteString("</body></html>\n")
	return sb.String()
}
