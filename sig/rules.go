package sig

import (
	"errors"
	"io"

	"github.com/zostay/go-mailsig/message"
)

// signPart rewrites one node of the message tree and recurses into its
// children. It returns the node that should stand in the original's place
// and whether anything beneath that point actually changed. Untouched nodes
// are returned as-is so their bytes survive the trip exactly.
func (s *Signer) signPart(
	st *rewriteState,
	part message.Part,
	parents []message.Part,
) (message.Part, bool, error) {
	cur, changed := part, false

	if len(parents) == 0 {
		root, ch, err := s.placeRootAttachments(st, cur)
		if err != nil {
			return nil, false, err
		}
		cur, changed = root, changed || ch
	}

	ext, ch, err := s.extendRelated(st, cur)
	if err != nil {
		return nil, false, err
	}
	cur, changed = ext, changed || ch

	ins, ch, err := s.insertFooter(st, cur, parents)
	if err != nil {
		return nil, false, err
	}
	cur, changed = ins, changed || ch

	if !cur.IsMultipart() {
		return cur, changed, nil
	}

	parents = append(parents, cur)
	subParts := cur.GetParts()
	newParts := make([]message.Part, len(subParts))
	subChanged := false
	for i, subPart := range subParts {
		newPart, ch, err := s.signPart(st, subPart, parents)
		if err != nil {
			return nil, false, err
		}
		newParts[i] = newPart
		subChanged = subChanged || ch
	}

	if subChanged {
		buf := message.NewBlankBuffer(cur)
		buf.Add(newParts...)
		cur, changed = buf, true
	}

	// a related container only learns that it received the HTML footer, and
	// which inline attachments are waiting on it, while its children are
	// being visited, so it gets a second placement look afterwards
	ext, ch, err = s.extendRelated(st, cur)
	if err != nil {
		return nil, false, err
	}
	cur, changed = ext, changed || ch

	return cur, changed, nil
}

// placeRootAttachments puts every ordinary attachment at the top of the
// message. A root that is already multipart/mixed grows new children. Any
// other root is nested under a brand-new multipart/mixed alongside the
// encoded attachments.
func (s *Signer) placeRootAttachments(st *rewriteState, root message.Part) (message.Part, bool, error) {
	pending := st.undoneRegular()
	if len(pending) == 0 {
		return root, false, nil
	}

	encoded, err := encodeAll(pending)
	if err != nil {
		return nil, false, err
	}

	if root.IsMultipart() && mediaTypeOf(root) == mtMixed {
		buf := message.NewBlankBuffer(root)
		buf.Add(root.GetParts()...)
		buf.Add(encoded...)
		return buf, true, nil
	}

	wrapped, err := wrapParts(mtMixed, true, root, encoded...)
	if err != nil {
		return nil, false, err
	}
	return wrapped, true, nil
}

// extendRelated appends the inline attachments that were left waiting for a
// multipart/related container by an earlier HTML footer insertion. Only the
// container that actually received the footer is extended. Any other related
// group is somebody else's and is left alone.
func (s *Signer) extendRelated(st *rewriteState, part message.Part) (message.Part, bool, error) {
	if !part.IsMultipart() || mediaTypeOf(part) != mtRelated {
		return part, false, nil
	}

	pending := st.undonePendingRelated()
	if len(pending) == 0 {
		return part, false, nil
	}

	received := false
	for _, subPart := range part.GetParts() {
		if HasMarker(subPart, MarkerFooterHTML) {
			received = true
			break
		}
	}
	if !received {
		return part, false, nil
	}

	encoded, err := encodeAll(pending)
	if err != nil {
		return nil, false, err
	}

	buf := message.NewBlankBuffer(part)
	buf.Add(part.GetParts()...)
	buf.Add(encoded...)
	return buf, true, nil
}

// insertFooter applies the footer of the part's kind, if that footer is
// still owed and this part has not already been through a signing pass.
// Parts of unrecognized kinds pass through untouched.
func (s *Signer) insertFooter(
	st *rewriteState,
	part message.Part,
	parents []message.Part,
) (message.Part, bool, error) {
	if part.IsMultipart() {
		return part, false, nil
	}

	kind, err := footerTarget(part)
	var use *UnsupportedStructureError
	if errors.As(err, &use) {
		return part, false, nil
	}

	switch kind {
	case mtPlain:
		wantPlain := st.needPlain && !HasMarker(part, MarkerFooterPlain)
		if !wantPlain && !st.forceHTML {
			return part, false, nil
		}
		return s.signPlainPart(st, part, parents, wantPlain)
	case mtHTML:
		if !st.needHTML || HasMarker(part, MarkerFooterHTML) {
			return part, false, nil
		}
		return s.signHTMLPart(st, part, parents)
	}
	return part, false, nil
}

// signPlainPart splices the plain footer into a text/plain part. When the
// Signer is growing a forced HTML alternative, this is also the moment the
// message's first plain part becomes a multipart/alternative of itself and a
// generated HTML rendering.
func (s *Signer) signPlainPart(
	st *rewriteState,
	part message.Part,
	parents []message.Part,
	wantPlain bool,
) (message.Part, bool, error) {
	body, err := partBody(part)
	if err != nil {
		return nil, false, err
	}

	plainSide := part
	changed := false
	if wantPlain {
		newBody, inserted := insertPlainFooter(body, st.footerPlain)
		if inserted {
			repl := rebuildLeaf(part, newBody)
			repl.Set(MarkerField, MarkerFooterPlain)
			st.needPlain = false
			plainSide, changed = repl, true
		}
	}

	if !st.forceHTML {
		return plainSide, changed, nil
	}

	if !changed {
		// reading the body consumed the original part
		plainSide = rebuildLeaf(part, body)
	}

	htmlSide, err := s.forcedHTMLSide(st, part, body)
	if err != nil {
		return nil, false, err
	}
	st.forceHTML = false

	alt, err := wrapParts(mtAlternative, len(parents) == 0, plainSide, htmlSide)
	if err != nil {
		return nil, false, err
	}
	return alt, true, nil
}

// forcedHTMLSide builds the HTML alternative of a plain body with the HTML
// footer already spliced in, grouped with any inline attachments waiting to
// be placed.
func (s *Signer) forcedHTMLSide(st *rewriteState, part message.Part, plainBody string) (message.Part, error) {
	markup, _ := insertHTMLFooter(plainToHTML(plainBody), st.footerHTML)

	buf := &message.Buffer{}
	buf.SetMediaType(mtHTML)
	if cs, err := part.GetHeader().GetCharset(); err == nil && cs != "" {
		_ = buf.SetCharset(cs)
	}
	buf.Set(MarkerField, MarkerFooterHTML)
	if _, err := io.WriteString(buf, markup); err != nil {
		return nil, err
	}
	st.needHTML = false

	inline := st.undoneInline()
	if len(inline) == 0 {
		return buf, nil
	}

	encoded, err := encodeAll(inline)
	if err != nil {
		return nil, err
	}

	return wrapParts(mtRelated, false, buf, encoded...)
}

// signHTMLPart splices the HTML footer into a text/html part and settles the
// inline attachments. Under a multipart/related parent the attachments are
// flagged for the parent to pick up. Anywhere else the part and the
// attachments are wrapped together in a new multipart/related.
func (s *Signer) signHTMLPart(
	st *rewriteState,
	part message.Part,
	parents []message.Part,
) (message.Part, bool, error) {
	body, err := partBody(part)
	if err != nil {
		return nil, false, err
	}

	newBody, _ := insertHTMLFooter(body, st.footerHTML)
	repl := rebuildLeaf(part, newBody)
	repl.Set(MarkerField, MarkerFooterHTML)
	st.needHTML = false

	if parentRelated(parents) {
		st.markInlinePending()
		return repl, true, nil
	}

	inline := st.undoneInline()
	if len(inline) == 0 {
		return repl, true, nil
	}

	encoded, err := encodeAll(inline)
	if err != nil {
		return nil, false, err
	}

	wrapped, err := wrapParts(mtRelated, len(parents) == 0, repl, encoded...)
	if err != nil {
		return nil, false, err
	}
	return wrapped, true, nil
}
