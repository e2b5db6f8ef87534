// Package mailsig inserts signatures into email messages. Given a parsed MIME
// message and a footer in plain text, HTML, or both, it rewrites the message
// so that every text part a recipient is likely to read carries the footer,
// and it can attach extra files along the way, either as ordinary attachments
// or as inline images referenced from the HTML footer.
//
// The work happens in three layers. The message package and its subpackages
// provide the MIME plumbing: parsing a message into message.Opaque and
// message.Multipart values, reading and manipulating headers via
// header.Header, encoding and decoding transfer encodings, and walking or
// transforming part trees. The sig package sits on top and implements the
// actual rewrite. It decides where in a text/plain body a footer belongs
// (above a signature delimiter, above quoted reply text, or at the end),
// splices HTML footers into HTML bodies the same way, and restructures the
// message when attachments require a multipart/mixed or multipart/related
// container that isn't already there.
//
// Messages that have already been signed are left alone. The engine marks
// every part it modifies with an X-Signature-Modified header and treats the
// presence of that marker as proof the work is done, so running a message
// through the engine twice is safe.
//
// As much as possible, parts the engine does not touch are preserved
// byte-for-byte on output. The parser records the original bytes of each
// header field and the writer reuses them whenever the field hasn't been
// modified, so a message that passes through untouched comes out the same as
// it went in. I use this as the basis for mail filtering software, so that
// property matters to me more than most.
package mailsig
