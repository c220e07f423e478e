// Package mailer sends the daily timesheet email through SES.
package mailer

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"timeclock.service/internal/core/model"
)

// Message is one outgoing email with a single attachment.
type Message struct {
	From       string
	To         []string
	Subject    string
	HTMLBody   string
	Attachment model.Document
}

// BuildMessage renders msg as raw RFC 5322 bytes for SendRawEmail.
func BuildMessage(msg Message) ([]byte, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if doc := msg.Attachment; len(doc.Data) > 0 {
		m.Attach(doc.FileName,
			gomail.SetHeader(map[string][]string{
				"Content-Type": {fmt.Sprintf("%s; name=%q", doc.ContentType, doc.FileName)},
			}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(doc.Data)
				return err
			}),
		)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
