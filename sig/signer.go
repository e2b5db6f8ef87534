package sig

import (
	"fmt"

	"github.com/zostay/go-mailsig/message"
	"github.com/zostay/go-mailsig/message/walk"
)

// Signer rewrites messages to carry a footer and a set of attachments. The
// zero value is usable and does nothing. Configure it with SetFooter and
// AddAttachment, or construct it with New and Options.
//
// A configured Signer is safe to reuse and to share between goroutines. All
// of the bookkeeping for one rewrite lives in call-scoped state.
type Signer struct {
	footerPlain string
	footerHTML  string

	attachments []*Attachment

	forceHTML   bool
	stripMarker bool
	templates   bool

	dkim *dkimOptions
}

// New builds a Signer with the given options applied.
func New(opts ...Option) *Signer {
	s := &Signer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetFooter replaces the configured footer content. Either the plain text
// footer or the HTML footer may be empty, in which case parts of that kind
// are left alone, but configuring no footer at all is an error. A Signer
// that never had SetFooter called on it simply places attachments.
func (s *Signer) SetFooter(plain, html string) error {
	if plain == "" && html == "" {
		return fmt.Errorf("%w: a footer needs plain or HTML content", ErrInvalidArgument)
	}

	s.footerPlain = plain
	s.footerHTML = html
	return nil
}

// AddAttachment appends one attachment to place during signing. The
// attachment must have source bytes and a media type.
func (s *Signer) AddAttachment(att Attachment) error {
	if len(att.Source) == 0 {
		return fmt.Errorf("%w: attachment has no source bytes", ErrInvalidArgument)
	}
	if att.MediaType == "" {
		return fmt.Errorf("%w: attachment has no media type", ErrInvalidArgument)
	}

	s.attachments = append(s.attachments, &att)
	return nil
}

// Sign rewrites the message to carry the configured footers and attachments
// and returns the rebuilt message. The input tree is never mutated. Changed
// nodes are replaced on the way out while untouched subtrees are carried
// through as-is, so a Sign that finds nothing to do returns the message it
// was given.
func (s *Signer) Sign(msg message.Generic) (message.Generic, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: cannot sign a nil message", ErrInvalidArgument)
	}

	st, err := s.newRewriteState(msg)
	if err != nil {
		return nil, err
	}

	out, _, err := s.signPart(st, msg, nil)
	if err != nil {
		return nil, err
	}

	if s.stripMarker {
		return StripMarkers(out)
	}

	return out, nil
}

// rewriteState is the call-scoped bookkeeping shared by every visitor of one
// Sign traversal.
type rewriteState struct {
	footerPlain string
	footerHTML  string

	// needPlain and needHTML flip to false permanently the first time the
	// footer of that kind lands in a part, which is what holds the footer to
	// one insertion per kind for the whole tree
	needPlain bool
	needHTML  bool

	// forceHTML is armed only when the message has no HTML part to begin
	// with and disarms once the alternative has been built
	forceHTML bool

	atts []*attachState
}

func (s *Signer) newRewriteState(msg message.Generic) (*rewriteState, error) {
	plain, html := s.footerPlain, s.footerHTML
	if s.templates {
		var err error
		plain, html, err = expandFooters(msg.GetHeader(), plain, html)
		if err != nil {
			return nil, err
		}
	}

	st := &rewriteState{
		footerPlain: plain,
		footerHTML:  html,
		needPlain:   plain != "",
		needHTML:    html != "",
	}

	st.atts = make([]*attachState, len(s.attachments))
	for i, att := range s.attachments {
		cid := att.ContentID
		if att.Inline && cid == "" {
			cid = generateContentID()
		}
		st.atts[i] = &attachState{att: att, contentID: cid}
	}

	st.forceHTML = s.forceHTML && st.needHTML && !hasHTMLPart(msg)

	return st, nil
}

func (st *rewriteState) undoneRegular() []*attachState {
	var sel []*attachState
	for _, as := range st.atts {
		if !as.att.Inline && !as.done {
			sel = append(sel, as)
		}
	}
	return sel
}

func (st *rewriteState) undoneInline() []*attachState {
	var sel []*attachState
	for _, as := range st.atts {
		if as.att.Inline && !as.done {
			sel = append(sel, as)
		}
	}
	return sel
}

func (st *rewriteState) undonePendingRelated() []*attachState {
	var sel []*attachState
	for _, as := range st.atts {
		if as.pendingRelated && !as.done {
			sel = append(sel, as)
		}
	}
	return sel
}

func (st *rewriteState) markInlinePending() {
	for _, as := range st.atts {
		if as.att.Inline && !as.done {
			as.pendingRelated = true
		}
	}
}

// generateContentID makes a Content-ID for an inline attachment that was
// configured without one.
func generateContentID() string {
	return message.GenerateBoundary() + "@mailsig"
}

// hasHTMLPart reports whether any leaf of the message is eligible to receive
// the HTML footer.
func hasHTMLPart(msg message.Generic) bool {
	found := false
	_ = walk.AndProcessOpaque(
		func(part message.Part, parents []message.Part) error {
			if kind, err := footerTarget(part); err == nil && kind == mtHTML {
				found = true
			}
			return nil
		}, msg)
	return found
}
