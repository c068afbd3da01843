package mailers

import (
	"encoding/base64"
	"fmt"
	"log"
	"mime"
	"net/smtp"
	"strings"
)

// Message is one outbound mail, composed before delivery. Attachment is
// optional (invoice PDF).
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Sender delivers composed messages. No mail library is wired; SMTP via
// the standard library behind this interface, with a log-only sender
// for development and tests.
type Sender interface {
	Send(msg Message) error
}

// LogSender prints outbound mail instead of delivering it.
type LogSender struct{}

func (LogSender) Send(msg Message) error {
	log.Printf("mail (not delivered): to=%s subject=%q attachment=%s body:\n%s",
		msg.To, msg.Subject, msg.AttachmentName, msg.Body)
	return nil
}

// SMTPSender delivers via a plain SMTP relay.
type SMTPSender struct {
	Addr string // host:port
	From string
	Auth smtp.Auth
}

func (s SMTPSender) Send(msg Message) error {
	if err := smtp.SendMail(s.Addr, s.Auth, s.From, []string{msg.To}, buildMIME(s.From, msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

const mimeBoundary = "invoiceforge-mime-boundary"

// buildMIME assembles a multipart/mixed payload: text body plus an
// optional base64 PDF attachment.
func buildMIME(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachment) == 0 {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(msg.Body)
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mimeBoundary)

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: application/pdf\r\n")
	fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n", msg.AttachmentName)
	b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")

	enc := base64.StdEncoding.EncodeToString(msg.Attachment)
	for len(enc) > 76 {
		b.WriteString(enc[:76])
		b.WriteString("\r\n")
		enc = enc[76:]
	}
	b.WriteString(enc)
	fmt.Fprintf(&b, "\r\n--%s--\r\n", mimeBoundary)

	return []byte(b.String())
}
