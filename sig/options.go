package sig

// Option tweaks the behavior of a Signer under construction.
type Option func(*Signer)

// WithForcedHTML tells the Signer to grow an HTML alternative on messages
// that have no HTML part, so a configured HTML footer always lands
// somewhere. The first text/plain part is replaced by a two part
// multipart/alternative holding the original plain text and a generated HTML
// rendering of it with the HTML footer spliced in.
func WithForcedHTML() Option {
	return func(s *Signer) {
		s.forceHTML = true
	}
}

// WithMarkerKept keeps the MarkerField headers on the output message. This
// is the default. The marker is what stops a footer from being added twice
// when a message passes through the Signer more than once, so strip it only
// when the output is leaving your control.
func WithMarkerKept() Option {
	return func(s *Signer) {
		s.stripMarker = false
	}
}

// WithMarkerStripped removes every MarkerField header from the output
// message after the rewrite is complete.
func WithMarkerStripped() Option {
	return func(s *Signer) {
		s.stripMarker = true
	}
}

// WithFooterTemplates treats the configured footers as text/template input,
// evaluated against a FooterData built from each message being signed.
func WithFooterTemplates() Option {
	return func(s *Signer) {
		s.templates = true
	}
}

// WithDKIM re-signs each rewritten message with a DKIM signature for the
// given domain and selector using the given PEM encoded RSA private key.
// When no header names are given, defaultDKIMHeaders are signed. The
// signature covers the serialized message, so it is only produced by
// SignedBytes, never by Sign.
func WithDKIM(domain, selector string, privateKeyPEM []byte, headers ...string) Option {
	return func(s *Signer) {
		if len(headers) == 0 {
			headers = defaultDKIMHeaders
		}
		s.dkim = &dkimOptions{
			domain:   domain,
			selector: selector,
			key:      privateKeyPEM,
			headers:  headers,
		}
	}
}
