package service

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/cybaemtech/licensedesk/internal/config"
	edomain "github.com/cybaemtech/licensedesk/internal/email/domain"
)

func relayCfg() config.Config {
	return config.Config{
		SMTPHost:     "smtp.corp.test",
		SMTPPort:     587,
		MailFrom:     "alerts@licensedesk.test",
		MailFromName: "License Desk",
		MailReplyTo:  "support@licensedesk.test",
	}
}

func TestBuildMIME_Headers(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	raw, err := BuildMIME(relayCfg(), edomain.Message{
		To:       "it@client.test",
		Cc:       "manager@client.test",
		Subject:  "License expiring in 7 days",
		HTMLBody: "<p>hello</p>",
	}, now)
	if err != nil {
		t.Fatalf("BuildMIME: %v", err)
	}
	msg := string(raw)

	headers, _, found := strings.Cut(msg, "\r\n\r\n")
	if !found {
		t.Fatal("no header/body separator")
	}
	for _, want := range []string{
		"From: License Desk <alerts@licensedesk.test>",
		"To: it@client.test",
		"Cc: manager@client.test",
		"Reply-To: support@licensedesk.test",
		"Return-Path: alerts@licensedesk.test",
		"Date: Tue, 10 Jun 2025 09:00:00 +0000",
		"Subject: License expiring in 7 days",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=utf-8",
		"Content-Transfer-Encoding: quoted-printable",
	} {
		if !strings.Contains(headers, want) {
			t.Errorf("headers missing %q\n%s", want, headers)
		}
	}
}

func TestBuildMIME_MessageIDUsesFromDomain(t *testing.T) {
	raw, err := BuildMIME(relayCfg(), edomain.Message{To: "a@x.test", Subject: "s", HTMLBody: "b"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	re := regexp.MustCompile(`Message-ID: <[0-9a-f-]{36}@licensedesk\.test>`)
	if !re.MatchString(string(raw)) {
		t.Errorf("Message-ID not derived from sender domain:\n%s", raw)
	}
}

func TestBuildMIME_OmitsEmptyCc(t *testing.T) {
	raw, err := BuildMIME(relayCfg(), edomain.Message{To: "a@x.test", Subject: "s", HTMLBody: "b"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "Cc:") {
		t.Error("Cc header present for message without cc")
	}
}

func TestBuildMIME_QuotedPrintableBody(t *testing.T) {
	body := "<p>Renew before it lapses — contact sales</p>"
	raw, err := BuildMIME(relayCfg(), edomain.Message{To: "a@x.test", Subject: "s", HTMLBody: body}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	_, encoded, _ := strings.Cut(string(raw), "\r\n\r\n")
	// the em dash is multi-byte and must be escaped by the qp encoder
	if strings.Contains(encoded, "—") {
		t.Error("body not quoted-printable encoded")
	}
	if !strings.Contains(encoded, "=E2=80=94") {
		t.Errorf("expected qp escape for em dash, got:\n%s", encoded)
	}
}
