package field

import (
	"mime"
	"strings"
)

// Encode performs MIME word encoding on the given body, but only if the body
// contains characters that require the treatment. Otherwise, the body is
// returned unchanged.
func Encode(body string) string {
	return mime.BEncoding.Encode("utf-8", body)
}

// Decode performs MIME word decoding on the given body, but only if the body
// contains MIME encoded words. If there's a problem decoding the words, the
// body is returned unchanged with an error.
func Decode(body string) (string, error) {
	if !strings.Contains(body, "=?") {
		return body, nil
	}

	dec := &mime.WordDecoder{
		CharsetReader: CharsetDecoderToCharsetReader(CharsetDecoder),
	}

	db, err := dec.DecodeHeader(body)
	if err != nil {
		return body, err
	}

	return db, nil
}
