package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cybaemtech/licensedesk/internal/config"
	edomain "github.com/cybaemtech/licensedesk/internal/email/domain"
)

// Ensure Sandbox implements domain.Sender
var _ edomain.Sender = (*Sandbox)(nil)

const sandboxBanner = `==========================================================
  SANDBOX MODE - THIS MESSAGE WAS NOT REALLY SENT
  It was written to disk for local inspection only.
==========================================================`

// SummaryLogName is the rolling one-line-per-message log inside the
// sandbox directory.
const SummaryLogName = "sandbox_mail.log"

// Sandbox writes fully rendered messages to a local directory instead of
// delivering them. Used when no mail relay is available, e.g. local
// development. Send fails only on a filesystem write failure.
type Sandbox struct {
	dir string
	log zerolog.Logger
	now func() time.Time

	mu  sync.Mutex
	seq int
}

func NewSandbox(dir string, log zerolog.Logger) *Sandbox {
	return &Sandbox{dir: dir, log: log, now: time.Now}
}

func (s *Sandbox) Mode() string { return config.MailModeSandbox }

func (s *Sandbox) Send(ctx context.Context, m edomain.Message) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create sandbox dir %s: %w", s.dir, err)
	}

	now := s.now()
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	name := fmt.Sprintf("mail_%s_%04d.eml", now.Format("20060102_150405"), seq)
	path := filepath.Join(s.dir, name)

	content := fmt.Sprintf("%s\nDate: %s\nTo: %s\nCc: %s\nSubject: %s\n\n%s\n",
		sandboxBanner, now.Format(time.RFC1123Z), m.To, m.Cc, m.Subject, m.HTMLBody)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write sandbox message: %w", err)
	}

	line := fmt.Sprintf("%s\tto=%s\tsubject=%q\tfile=%s\n", now.Format(time.RFC3339), m.To, m.Subject, name)
	if err := s.appendSummary(line); err != nil {
		return err
	}

	s.log.Debug().Str("file", path).Str("to", m.To).Msg("sandbox mail written")
	return nil
}

func (s *Sandbox) appendSummary(line string) error {
	f, err := os.OpenFile(filepath.Join(s.dir, SummaryLogName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open sandbox summary log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append sandbox summary log: %w", err)
	}
	return nil
}
