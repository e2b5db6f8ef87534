package sig

import (
	"github.com/zostay/go-mailsig/message"
	"github.com/zostay/go-mailsig/message/walk"
)

const (
	// MarkerField names the header field the engine adds to any part it has
	// modified. It is the only wire-visible artifact of signing beyond the
	// footer and attachment content itself.
	MarkerField = "X-Signature-Modified"

	// MarkerFooterPlain is the MarkerField body recording that the plain
	// text footer has been spliced into the part.
	MarkerFooterPlain = "footer_added_plain"

	// MarkerFooterHTML is the MarkerField body recording that the HTML
	// footer has been spliced into the part.
	MarkerFooterHTML = "footer_added_html"
)

// HasMarker reports whether the part carries a MarkerField header with the
// given body.
func HasMarker(part message.Part, token string) bool {
	bodies, err := part.GetHeader().GetAll(MarkerField)
	if err != nil {
		return false
	}
	for _, body := range bodies {
		if body == token {
			return true
		}
	}
	return false
}

// StripMarkers returns a copy of the message tree with every MarkerField
// header removed. Part content is carried through without re-encoding.
func StripMarkers(msg message.Generic) (message.Generic, error) {
	v, err := walk.AndTransform(
		func(part message.Part, parents []message.Part, state []any) (any, error) {
			var (
				buf *message.Buffer
				err error
			)
			if part.IsMultipart() {
				buf = message.NewBlankBuffer(part)
			} else {
				buf, err = message.NewBuffer(part)
				if err != nil {
					return nil, err
				}
			}

			buf.Delete(MarkerField)

			if len(state) > 0 {
				if parent, isBuffer := state[len(state)-1].(*message.Buffer); isBuffer {
					parent.Add(buf)
				}
			}

			return buf, nil
		}, msg)
	if err != nil {
		return nil, err
	}

	return v.(message.Generic), nil
}
