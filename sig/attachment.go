package sig

import (
	"github.com/zostay/go-mailsig/message"
	"github.com/zostay/go-mailsig/message/transfer"
)

// Attachment describes one file to add to every message a Signer signs.
type Attachment struct {
	// Source holds the raw, unencoded bytes of the attachment.
	Source []byte

	// MediaType is the MIME type to record on the attached part.
	MediaType string

	// Filename, when set, is recorded on the attached part's
	// Content-disposition field.
	Filename string

	// ContentID, when set, becomes the attached part's Content-ID. Footer
	// markup that references the attachment, say through an img tag, should
	// use the cid: URL scheme with this value. An inline attachment without
	// a ContentID is assigned a generated one at signing time.
	ContentID string

	// Inline marks the attachment as referenced from the footer content
	// itself. Inline attachments are grouped with the HTML part that
	// references them in a multipart/related container rather than appended
	// to the top of the message.
	Inline bool
}

// attachState carries the placement flags for one attachment during a single
// Sign call. A fresh set is built for every call so one Signer can sign
// different messages concurrently.
type attachState struct {
	att            *Attachment
	contentID      string
	done           bool
	pendingRelated bool
}

// encodeAttachment renders an attachment as a leaf part. The source bytes
// are written out base64 encoded no matter what the original encoding of the
// message is, which keeps binary attachments safe in 7bit transport.
func encodeAttachment(as *attachState) (*message.Opaque, error) {
	att := as.att

	buf := &message.Buffer{}
	buf.SetMediaType(att.MediaType)
	if att.Inline {
		buf.SetPresentation("inline")
	} else {
		buf.SetPresentation("attachment")
	}
	if att.Filename != "" {
		if err := buf.SetFilename(att.Filename); err != nil {
			return nil, err
		}
	}
	if as.contentID != "" {
		buf.SetContentID(as.contentID)
	}
	buf.SetTransferEncoding(transfer.Base64)

	if _, err := buf.Write(att.Source); err != nil {
		return nil, err
	}
	buf.SetEncoded(false)

	return buf.Opaque()
}

// encodeAll renders the given attachments and flips their done flags.
func encodeAll(atts []*attachState) ([]message.Part, error) {
	parts := make([]message.Part, len(atts))
	for i, as := range atts {
		op, err := encodeAttachment(as)
		if err != nil {
			return nil, err
		}
		as.done = true
		parts[i] = op
	}
	return parts, nil
}
