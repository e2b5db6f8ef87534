package sig

import (
	"errors"
	"io"

	"github.com/zostay/go-mailsig/message"
	"github.com/zostay/go-mailsig/message/header"
	"github.com/zostay/go-mailsig/message/transfer"
)

// media types the rewrite rules dispatch on
const (
	mtPlain       = "text/plain"
	mtHTML        = "text/html"
	mtMixed       = "multipart/mixed"
	mtRelated     = "multipart/related"
	mtAlternative = "multipart/alternative"
)

// contentFields are the header fields that describe a part's content rather
// than the message around it. When a new container is pushed in above a
// part, these travel down with the content.
var contentFields = []string{
	header.ContentType,
	header.ContentTransferEncoding,
	header.ContentDisposition,
	header.ContentID,
	MarkerField,
}

// mediaTypeOf returns the part's media type, falling back to text/plain when
// no Content-type field is present and to an empty string when the field
// cannot be understood.
func mediaTypeOf(part message.Part) string {
	mt, err := part.GetHeader().GetMediaType()
	switch {
	case err == nil:
		return mt
	case errors.Is(err, header.ErrNoSuchField):
		return mtPlain
	default:
		return ""
	}
}

// footerTarget decides which footer, if any, a leaf part is eligible to
// receive. Ineligible kinds come back as *UnsupportedStructureError, which
// callers treat as pass-through rather than failure.
func footerTarget(part message.Part) (string, error) {
	mt := mediaTypeOf(part)
	switch mt {
	case mtPlain, mtHTML:
		pres, err := part.GetHeader().GetPresentation()
		if err == nil && pres == "attachment" {
			// an attached text file is not message content
			return "", &UnsupportedStructureError{MediaType: mt}
		}
		return mt, nil
	}
	return "", &UnsupportedStructureError{MediaType: mt}
}

// partBody reads out a leaf part's complete body in decoded form. The part's
// reader is consumed.
func partBody(part message.Part) (string, error) {
	r := part.GetReader()
	if r == nil {
		return "", nil
	}
	if part.IsEncoded() {
		r = transfer.ApplyTransferDecoding(part.GetHeader(), r)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// rebuildLeaf makes a leaf part just like the original but holding the given
// body in decoded form. The original Content-transfer-encoding and charset
// survive on the cloned header, so the new body is re-encoded the same way
// when the part is written out.
func rebuildLeaf(part message.Part, body string) *message.Buffer {
	buf := message.NewBlankBuffer(part)
	_, _ = io.WriteString(buf, body)
	buf.SetEncoded(false)
	return buf
}

// contentChild clones a part into a node fit to nest under a brand-new
// container: only the content describing headers come along, the rest stay
// with whatever the caller is building above it.
func contentChild(part message.Part) (*message.Buffer, error) {
	src := part.GetHeader()

	buf := &message.Buffer{}
	for _, name := range contentFields {
		if bodies, err := src.GetAll(name); err == nil {
			buf.SetAll(name, bodies...)
		}
	}

	if part.IsMultipart() {
		buf.Add(part.GetParts()...)
		return buf, nil
	}

	buf.SetSingle()
	if r := part.GetReader(); r != nil {
		if _, err := io.Copy(buf, r); err != nil {
			return nil, err
		}
	}
	buf.SetEncoded(part.IsEncoded())

	return buf, nil
}

// newContainer starts a multipart node that takes over a part's place in the
// tree. It inherits every header except the content describing ones, which
// belong to the part itself, wherever the caller nests it.
func newContainer(part message.Part, mediaType string, capacity int) *message.Buffer {
	buf := &message.Buffer{Header: *part.GetHeader().Clone()}
	buf.SetMultipart(capacity)
	for _, name := range contentFields {
		buf.Delete(name)
	}
	buf.SetMediaType(mediaType)
	_ = buf.SetBoundary(message.GenerateBoundary())
	return buf
}

// wrapParts nests first, and then rest, under a new container with the given
// multipart type. When the part being replaced is the message root, the
// container takes over the root's non-content headers so message identity
// stays on the outermost node, and the content headers move down with the
// content.
func wrapParts(mediaType string, isRoot bool, first message.Part, rest ...message.Part) (message.Part, error) {
	if !isRoot {
		parts := make([]message.Part, 0, len(rest)+1)
		parts = append(parts, first)
		parts = append(parts, rest...)

		switch mediaType {
		case mtAlternative:
			return message.MultipartAlternative(parts...), nil
		case mtMixed:
			return message.MultipartMixed(parts...), nil
		case mtRelated:
			return message.MultipartRelated(parts...), nil
		}
		return nil, &UnsupportedStructureError{MediaType: mediaType}
	}

	child, err := contentChild(first)
	if err != nil {
		return nil, err
	}

	container := newContainer(first, mediaType, len(rest)+1)
	container.Add(child)
	container.Add(rest...)
	return container, nil
}

// parentRelated reports whether the innermost parent is a multipart/related
// container.
func parentRelated(parents []message.Part) bool {
	if len(parents) == 0 {
		return false
	}
	return mediaTypeOf(parents[len(parents)-1]) == mtRelated
}
