package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"mime"
	"net/smtp"

	"github.com/arxeon/arxeon-api/internal/pkg/config"
)

// Attachment is a file carried with an email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SMTPMailer sends transactional emails via SMTP.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	sender   string
}

// NewSMTPMailer builds a mailer from startup configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	sender := cfg.SMTPSender
	if sender == "" {
		sender = "no-reply@localhost"
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		sender:   sender,
	}
}

// Send sends an HTML email.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := buildMessage(m.sender, to, subject, htmlBody, nil)
	return m.deliver(to, msg)
}

// SendWithAttachment sends an HTML email with one attachment.
func (m *SMTPMailer) SendWithAttachment(to, subject, htmlBody string, attachment Attachment) error {
	msg := buildMessage(m.sender, to, subject, htmlBody, &attachment)
	return m.deliver(to, msg)
}

func (m *SMTPMailer) deliver(to string, msg []byte) error {
	var auth smtp.Auth
	if m.username != "" && m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	err := smtp.SendMail(addr, auth, m.sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

const mixedBoundary = "arxeon-mail-boundary"

// buildMessage assembles the raw RFC 5322 message. With an attachment the
// body becomes multipart/mixed with the HTML part first.
func buildMessage(from, to, subject, htmlBody string, attachment *Attachment) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if attachment == nil {
		buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		buf.WriteString(htmlBody)
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixedBoundary)

	fmt.Fprintf(&buf, "--%s\r\n", mixedBoundary)
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	buf.WriteString(htmlBody)
	buf.WriteString("\r\n")

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fmt.Fprintf(&buf, "--%s\r\n", mixedBoundary)
	fmt.Fprintf(&buf, "Content-Type: %s\r\n", contentType)
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", attachment.Filename)

	encoded := base64.StdEncoding.EncodeToString(attachment.Data)
	// Wrap base64 lines at 76 chars per RFC 2045.
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76])
		buf.WriteString("\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", mixedBoundary)
	return buf.Bytes()
}
