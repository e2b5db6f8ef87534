package cmd

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailsig/message"
	"github.com/zostay/go-mailsig/sig"
)

const fullConfig = `footer:
  plain: "Sent from mailsig"
  html: "<p>Sent from <b>mailsig</b></p>"
templates: true
force_html: true
strip_marker: true
attachments:
  - path: logo.png
    media_type: image/png
    content_id: logo
    inline: true
dkim:
  domain: example.com
  selector: mail
  key_file: dkim.pem
  headers: [from, to, subject]
`

func TestParseConfig(t *testing.T) {
	t.Parallel()

	cfg, err := parseConfig([]byte(fullConfig), "mailsig.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Sent from mailsig", cfg.Footer.Plain)
	assert.Equal(t, "<p>Sent from <b>mailsig</b></p>", cfg.Footer.HTML)
	assert.True(t, cfg.Templates)
	assert.True(t, cfg.ForceHTML)
	assert.True(t, cfg.StripMarker)

	require.Len(t, cfg.Attachments, 1)
	assert.Equal(t, "logo.png", cfg.Attachments[0].Path)
	assert.Equal(t, "image/png", cfg.Attachments[0].MediaType)
	assert.Equal(t, "logo", cfg.Attachments[0].ContentID)
	assert.True(t, cfg.Attachments[0].Inline)

	require.NotNil(t, cfg.DKIM)
	assert.Equal(t, "example.com", cfg.DKIM.Domain)
	assert.Equal(t, "mail", cfg.DKIM.Selector)
	assert.Equal(t, "dkim.pem", cfg.DKIM.KeyFile)
	assert.Equal(t, []string{"from", "to", "subject"}, cfg.DKIM.Headers)
}

func TestParseConfig_UnknownKey(t *testing.T) {
	t.Parallel()

	_, err := parseConfig([]byte("footer:\n  plain: x\nfooter_html: y\n"), "mailsig.yaml")
	assert.ErrorIs(t, err, sig.ErrInvalidArgument)
}

func TestParseConfig_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := parseConfig([]byte(""), "mailsig.yaml")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Footer.Plain)
	assert.Empty(t, cfg.Attachments)
	assert.Nil(t, cfg.DKIM)
}

func TestBuildSigner(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("PNG bytes"), 0o644))

	cfg := &Config{
		Footer: FooterConfig{Plain: "Sent from mailsig"},
		Attachments: []AttachmentConfig{
			{Path: logo, MediaType: "image/png"},
		},
	}

	s, err := buildSigner(cfg)
	require.NoError(t, err)

	const original = "To: sterling@example.com\n" +
		"Subject: Greetings\n" +
		"Content-type: text/plain\n" +
		"\n" +
		"Hello\n"

	msg, err := message.Parse(strings.NewReader(original))
	require.NoError(t, err)

	signed, err := s.Sign(msg)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	_, err = signed.WriteTo(buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Hello\nSent from mailsig\n")
	assert.Contains(t, out, "Content-type: multipart/mixed; boundary=")
	assert.Contains(t, out, base64.StdEncoding.EncodeToString([]byte("PNG bytes")))
	assert.Contains(t, out, `filename=logo.png`)
}

func TestBuildSigner_MissingAttachment(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Footer: FooterConfig{Plain: "Sent from mailsig"},
		Attachments: []AttachmentConfig{
			{Path: filepath.Join(t.TempDir(), "nope.png"), MediaType: "image/png"},
		},
	}

	_, err := buildSigner(cfg)
	assert.Error(t, err)
}
