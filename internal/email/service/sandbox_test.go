package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cybaemtech/licensedesk/internal/config"
	edomain "github.com/cybaemtech/licensedesk/internal/email/domain"
	"github.com/cybaemtech/licensedesk/internal/logger"
)

func TestSandbox_WritesMessageToDisk(t *testing.T) {
	dir := t.TempDir()
	sb := NewSandbox(dir, logger.Nop())
	sb.now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }

	msg := edomain.Message{
		To:       "it@client.test",
		Subject:  "License expiring in 7 days",
		HTMLBody: "<html><body>Visual Studio expires soon</body></html>",
	}
	if err := sb.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}

	path := filepath.Join(dir, "mail_20250610_090000_0001.eml")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sandbox file: %v", err)
	}
	content := string(raw)
	for _, want := range []string{
		"SANDBOX MODE",
		"To: it@client.test",
		"Subject: License expiring in 7 days",
		"Visual Studio expires soon",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("sandbox file missing %q\n%s", want, content)
		}
	}
}

func TestSandbox_AppendsSummaryLog(t *testing.T) {
	dir := t.TempDir()
	sb := NewSandbox(dir, logger.Nop())

	for _, to := range []string{"a@x.test", "b@x.test"} {
		if err := sb.Send(context.Background(), edomain.Message{To: to, Subject: "s", HTMLBody: "<p>b</p>"}); err != nil {
			t.Fatalf("Send(%s): %v", to, err)
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, SummaryLogName))
	if err != nil {
		t.Fatalf("read summary log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("summary lines = %d, want 2\n%s", len(lines), raw)
	}
	if !strings.Contains(lines[0], "to=a@x.test") || !strings.Contains(lines[1], "to=b@x.test") {
		t.Errorf("summary log lines wrong:\n%s", raw)
	}
}

func TestSandbox_SequenceDistinguishesSameSecond(t *testing.T) {
	dir := t.TempDir()
	sb := NewSandbox(dir, logger.Nop())
	fixed := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	sb.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		if err := sb.Send(context.Background(), edomain.Message{To: "a@x.test", Subject: "s", HTMLBody: "b"}); err != nil {
			t.Fatalf("Send #%d: %v", i+1, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var eml int
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".eml") {
			eml++
		}
	}
	if eml != 3 {
		t.Errorf("eml files = %d, want 3", eml)
	}
}

func TestNewSender_ExplicitSandboxMode(t *testing.T) {
	cfg := config.Config{MailMode: config.MailModeSandbox, SandboxDir: t.TempDir()}
	s := NewSender(cfg, logger.Nop())
	if s.Mode() != config.MailModeSandbox {
		t.Errorf("Mode() = %q, want sandbox", s.Mode())
	}
}

func TestNewSender_ExplicitRelayMode(t *testing.T) {
	cfg := config.Config{MailMode: config.MailModeRelay, SMTPHost: "localhost", SMTPPort: 25}
	s := NewSender(cfg, logger.Nop())
	if s.Mode() != config.MailModeRelay {
		t.Errorf("Mode() = %q, want relay", s.Mode())
	}
}
