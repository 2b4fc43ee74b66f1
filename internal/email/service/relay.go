package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/quotedprintable"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cybaemtech/licensedesk/internal/config"
	edomain "github.com/cybaemtech/licensedesk/internal/email/domain"
)

// Ensure Relay implements domain.Sender
var _ edomain.Sender = (*Relay)(nil)

// Relay hands messages to the configured SMTP relay with a full header set
// (Message-ID, Date, Reply-To, Return-Path, MIME) so receiving servers treat
// them as first-class mail rather than script output.
type Relay struct {
	cfg config.Config
	now func() time.Time
}

func NewRelay(cfg config.Config) *Relay {
	return &Relay{cfg: cfg, now: time.Now}
}

func (r *Relay) Mode() string { return config.MailModeRelay }

func (r *Relay) Send(ctx context.Context, m edomain.Message) error {
	if m.To == "" {
		return fmt.Errorf("empty recipient")
	}
	msg, err := BuildMIME(r.cfg, m, r.now())
	if err != nil {
		return err
	}
	rcpts := []string{m.To}
	if m.Cc != "" {
		rcpts = append(rcpts, m.Cc)
	}
	addr := fmt.Sprintf("%s:%d", r.cfg.SMTPHost, r.cfg.SMTPPort)
	var auth smtp.Auth
	if r.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", r.cfg.SMTPUsername, r.cfg.SMTPPassword, r.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, r.cfg.MailFrom, rcpts, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	return nil
}

// BuildMIME renders the full wire message: deliverability headers plus a
// quoted-printable encoded HTML body.
func BuildMIME(cfg config.Config, m edomain.Message, now time.Time) ([]byte, error) {
	var buf bytes.Buffer

	from := cfg.MailFrom
	if cfg.MailFromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.MailFromName, cfg.MailFrom)
	}
	host := cfg.SMTPHost
	if i := strings.Index(cfg.MailFrom, "@"); i >= 0 {
		host = cfg.MailFrom[i+1:]
	}

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", m.To)
	if m.Cc != "" {
		fmt.Fprintf(&buf, "Cc: %s\r\n", m.Cc)
	}
	fmt.Fprintf(&buf, "Reply-To: %s\r\n", cfg.MailReplyTo)
	fmt.Fprintf(&buf, "Return-Path: %s\r\n", cfg.MailFrom)
	fmt.Fprintf(&buf, "Message-ID: <%s@%s>\r\n", uuid.New().String(), host)
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Subject: %s\r\n", m.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(m.HTMLBody)); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	buf.WriteString("\r\n")
	return buf.Bytes(), nil
}
