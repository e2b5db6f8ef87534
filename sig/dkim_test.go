package sig_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailsig/message"
	"github.com/zostay/go-mailsig/sig"
)

func testKeyPEM(t *testing.T) []byte {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func TestSigner_SignedBytes_DKIM(t *testing.T) {
	t.Parallel()

	const msgSrc = "From: sender@example.com\r\n" +
		"To: recipient@example.com\r\n" +
		"Subject: signed delivery\r\n" +
		"Date: Mon, 02 Jan 2023 15:04:05 -0700\r\n" +
		"Content-type: text/plain\r\n" +
		"\r\n" +
		"Body line\r\n"

	msg, err := message.Parse(strings.NewReader(msgSrc))
	require.NoError(t, err)

	s := sig.New(sig.WithDKIM("example.com", "mail", testKeyPEM(t)))
	require.NoError(t, s.SetFooter("Footer", ""))

	out, err := s.SignedBytes(msg)
	assert.NoError(t, err)

	outStr := string(out)
	assert.True(t, strings.HasPrefix(outStr, "DKIM-Signature:"))
	assert.Contains(t, outStr, "d=example.com;")
	assert.Contains(t, outStr, "s=mail;")
	assert.Contains(t, outStr, "Footer")
}

func TestSigner_SignedBytes_NoDKIM(t *testing.T) {
	t.Parallel()

	const msgSrc = `Subject: plain delivery
Content-type: text/plain

Body line
`

	msg, err := message.Parse(strings.NewReader(msgSrc))
	require.NoError(t, err)

	s := sig.New()
	require.NoError(t, s.SetFooter("Footer", ""))

	out, err := s.SignedBytes(msg)
	assert.NoError(t, err)

	outStr := string(out)
	assert.NotContains(t, outStr, "DKIM-Signature:")
	assert.Contains(t, outStr, "Body line\nFooter\n")
}

func TestSigner_SignedBytes_MissingKey(t *testing.T) {
	t.Parallel()

	const msgSrc = `Subject: no key
Content-type: text/plain

Body line
`

	msg, err := message.Parse(strings.NewReader(msgSrc))
	require.NoError(t, err)

	s := sig.New(sig.WithDKIM("example.com", "mail", nil))
	require.NoError(t, s.SetFooter("Footer", ""))

	_, err = s.SignedBytes(msg)
	assert.ErrorIs(t, err, sig.ErrInvalidArgument)
}
