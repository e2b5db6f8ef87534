package field

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Encoder is the type of function used to encode a unicode string into a
// sequence of bytes in the named character set encoding.
type Encoder func(charset, s string) ([]byte, error)

// Decoder is the type of function used to decode a sequence of bytes in the
// named character set encoding into a unicode string.
type Decoder func(charset string, m []byte) (string, error)

var (
	// CharsetEncoder is used to encode strings into the character set
	// encodings named in message headers. The default implementation only
	// handles us-ascii, iso-8859-1, and utf-8. Import the encoding package
	// nearby to get support for all the encodings golang.org/x/text/encoding
	// knows about.
	CharsetEncoder Encoder = DefaultCharsetEncoder

	// CharsetDecoder is used to decode bytes from the character set encodings
	// named in message headers. The default implementation only handles
	// us-ascii, iso-8859-1, and utf-8. Import the encoding package nearby to
	// get support for all the encodings golang.org/x/text/encoding knows
	// about.
	CharsetDecoder Decoder = DefaultCharsetDecoder
)

// DefaultCharsetEncoder handles us-ascii, iso-8859-1, and utf-8 encoding.
// Anything else results in an error. When encoding us-ascii, any character
// outside the ASCII range is replaced with '\x1a', the ASCII SUB character.
func DefaultCharsetEncoder(charset, s string) ([]byte, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "":
		var buf bytes.Buffer
		for _, c := range s {
			if c > unicode.MaxASCII {
				buf.WriteRune('\x1a')
			} else {
				buf.WriteRune(c)
			}
		}
		return buf.Bytes(), nil
	case "iso-8859-1", "latin1", "utf-8":
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("unsupported byte encoding %q", charset)
	}
}

// DefaultCharsetDecoder handles us-ascii, iso-8859-1, and utf-8 decoding.
// Anything else results in an error. Bytes that are not valid for the named
// encoding are replaced with the unicode replacement character.
func DefaultCharsetDecoder(charset string, m []byte) (string, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "":
		var out strings.Builder
		for _, c := range m {
			if c > 0x7f {
				out.WriteRune(unicode.ReplacementChar)
			} else {
				out.WriteByte(c)
			}
		}
		return out.String(), nil
	case "iso-8859-1", "latin1":
		return string(m), nil
	case "utf-8":
		var out strings.Builder
		for len(m) > 0 {
			r, size := utf8.DecodeRune(m)
			out.WriteRune(r)
			m = m[size:]
		}
		return out.String(), nil
	default:
		return "", fmt.Errorf("unsupported byte encoding %q", charset)
	}
}

// CharsetDecoderToCharsetReader adapts a Decoder for use as the CharsetReader
// of a mime.WordDecoder.
func CharsetDecoderToCharsetReader(decode Decoder) func(charset string, input io.Reader) (io.Reader, error) {
	return func(charset string, input io.Reader) (io.Reader, error) {
		m, err := io.ReadAll(input)
		if err != nil {
			return nil, err
		}

		s, err := decode(charset, m)
		if err != nil {
			return nil, err
		}

		return strings.NewReader(s), nil
	}
}
