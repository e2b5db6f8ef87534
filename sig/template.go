package sig

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/zostay/go-mailsig/message/header"
)

// FooterData is the value footer templates are evaluated against when the
// WithFooterTemplates option is on. Fields for headers the message does not
// have are left empty.
type FooterData struct {
	// From is the From header of the message being signed.
	From string

	// Date is the Date header of the message being signed, reformatted in
	// RFC 1123 form.
	Date string

	// Subject is the Subject header of the message being signed.
	Subject string
}

func footerData(h *header.Header) FooterData {
	var data FooterData
	if from, err := h.GetFrom(); err == nil {
		data.From = from.String()
	}
	if date, err := h.GetDate(); err == nil {
		data.Date = date.Format(time.RFC1123Z)
	}
	if subject, err := h.GetSubject(); err == nil {
		data.Subject = subject
	}
	return data
}

// expandFooters renders the configured footers as text/template input
// against the headers of the message being signed.
func expandFooters(h *header.Header, plain, html string) (string, string, error) {
	data := footerData(h)

	plain, err := expandFooter("plain", plain, data)
	if err != nil {
		return "", "", err
	}

	html, err = expandFooter("html", html, data)
	if err != nil {
		return "", "", err
	}

	return plain, html, nil
}

func expandFooter(name, text string, data FooterData) (string, error) {
	if text == "" {
		return "", nil
	}

	t, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: bad %s footer template: %v", ErrInvalidArgument, name, err)
	}

	var out strings.Builder
	if err := t.Execute(&out, data); err != nil {
		return "", fmt.Errorf("%w: bad %s footer template: %v", ErrInvalidArgument, name, err)
	}

	return out.String(), nil
}
