package sig

import (
	"bytes"
	"fmt"

	"github.com/toorop/go-dkim"

	"github.com/zostay/go-mailsig/message"
)

// defaultDKIMHeaders are the header fields signed when WithDKIM is given no
// explicit list.
var defaultDKIMHeaders = []string{"from", "to", "subject", "date"}

// dkimOptions carries the DKIM re-signing configuration of a Signer.
type dkimOptions struct {
	domain   string
	selector string
	key      []byte
	headers  []string
}

// SignedBytes rewrites the message like Sign and returns the message in
// serialized form. When the Signer carries a DKIM configuration, the
// serialized message is re-signed and the new DKIM-Signature field leads the
// output. Adding a footer invalidates any signature computed before the
// rewrite, which is why the signature is taken over the final wire form
// rather than the tree.
func (s *Signer) SignedBytes(msg message.Generic) ([]byte, error) {
	out, err := s.Sign(msg)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if _, err := out.WriteTo(buf); err != nil {
		return nil, err
	}

	if s.dkim == nil {
		return buf.Bytes(), nil
	}

	return s.dkim.sign(buf.Bytes())
}

func (d *dkimOptions) sign(email []byte) ([]byte, error) {
	if d.domain == "" || d.selector == "" || len(d.key) == 0 {
		return nil, fmt.Errorf("%w: DKIM needs a domain, a selector, and a private key", ErrInvalidArgument)
	}

	opts := dkim.NewSigOptions()
	opts.PrivateKey = d.key
	opts.Domain = d.domain
	opts.Selector = d.selector
	opts.Headers = d.headers
	opts.Canonicalization = "relaxed/relaxed"
	opts.AddSignatureTimestamp = true

	signed := email
	if err := dkim.Sign(&signed, opts); err != nil {
		return nil, err
	}
	return signed, nil
}
