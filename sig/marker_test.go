package sig_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailsig/message"
	"github.com/zostay/go-mailsig/message/walk"
	"github.com/zostay/go-mailsig/sig"
)

func TestHasMarker(t *testing.T) {
	t.Parallel()

	const marked = `Subject: test marker
X-Signature-Modified: footer_added_plain
Content-type: text/plain

Hello
`

	msg, err := message.Parse(strings.NewReader(marked))
	require.NoError(t, err)

	assert.True(t, sig.HasMarker(msg, sig.MarkerFooterPlain))
	assert.False(t, sig.HasMarker(msg, sig.MarkerFooterHTML))
}

func TestStripMarkers(t *testing.T) {
	t.Parallel()

	const marked = `Subject: test marker strip
Content-type: multipart/alternative; boundary=altbound

--altbound
X-Signature-Modified: footer_added_plain
Content-type: text/plain

Hello with footer
--altbound
X-Signature-Modified: footer_added_html
Content-type: text/html

<p>Hello with footer</p>
--altbound--`

	msg, err := message.Parse(strings.NewReader(marked))
	require.NoError(t, err)

	out, err := sig.StripMarkers(msg)
	assert.NoError(t, err)

	err = walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			assert.False(t, sig.HasMarker(part, sig.MarkerFooterPlain))
			assert.False(t, sig.HasMarker(part, sig.MarkerFooterHTML))
			return nil
		}, out)
	assert.NoError(t, err)

	// content survives the strip
	parts := out.GetParts()
	require.Len(t, parts, 2)
	assert.Equal(t, "Hello with footer", partContent(t, parts[0]))
	assert.Equal(t, "<p>Hello with footer</p>", partContent(t, parts[1]))
}
