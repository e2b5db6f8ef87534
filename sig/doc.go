// Package sig rewrites MIME email messages to carry a signature block.
//
// A Signer holds a plain text footer, an HTML footer, or both, plus any
// number of attachments. Sign walks a message tree once and splices each
// footer into the first eligible part of its kind, honoring the quoting
// conventions of common mail clients: an explicit "--" signature delimiter
// always wins, then the footer goes above quoted reply content, and failing
// everything else it lands at the end of the part. Attachments are placed in
// the MIME container they belong in. Ordinary attachments are appended to a
// top-level multipart/mixed, which is created when the message does not
// already have one. Inline attachments travel in a multipart/related group
// alongside the HTML part that references them by Content-ID.
//
// Parts the engine modifies are tagged with the X-Signature-Modified header
// field, which is also what stops a footer from being inserted twice when a
// message passes through signing more than once. Everything the engine does
// not touch is carried through byte for byte.
package sig
