// Package encoding provides charset support for all the charsets supported by
// golang.org/x/text/encoding. Without this package, header fields will only be
// decoded and encoded when the charset of the MIME words is us-ascii,
// iso-8859-1, or utf-8. If you import this package, the
// field.CharsetEncoder and field.CharsetDecoder will be replaced with
// implementations that lookup the named encoding in the IANA index.
//
//	import _ "github.com/zostay/go-mailsig/message/header/encoding"
package encoding

import (
	"fmt"

	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/zostay/go-mailsig/message/header/field"
)

func init() {
	field.CharsetEncoder = func(charset, s string) ([]byte, error) {
		e, err := ianaindex.MIME.Encoding(charset)
		if err != nil {
			return nil, err
		}

		es, err := e.NewEncoder().String(s)
		if err != nil {
			return nil, err
		}

		return []byte(es), nil
	}

	field.CharsetDecoder = func(charset string, m []byte) (string, error) {
		e, err := ianaindex.MIME.Encoding(charset)
		if err != nil {
			return "", err
		}

		if e == nil {
			return "", fmt.Errorf("unsupported byte encoding %q", charset)
		}

		db, err := e.NewDecoder().Bytes(m)
		if err != nil {
			return "", err
		}

		return string(db), nil
	}
}
