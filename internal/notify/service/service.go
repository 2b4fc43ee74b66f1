package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	edomain "github.com/cybaemtech/licensedesk/internal/email/domain"
	evdomain "github.com/cybaemtech/licensedesk/internal/events/domain"
	"github.com/cybaemtech/licensedesk/internal/metrics"
	"github.com/cybaemtech/licensedesk/internal/notify/domain"
	sdomain "github.com/cybaemtech/licensedesk/internal/settings/domain"
)

// SettingsSource exposes the active threshold configuration.
type SettingsSource interface {
	ActiveConfig(ctx context.Context) (sdomain.Config, error)
}

// Service is the notification orchestrator. One call to RunDaily is one
// run: match, dedup, send, record, summarize. It holds no background
// state and is safe to invoke repeatedly; the ledger makes same-day
// re-runs no-ops.
type Service struct {
	settings SettingsSource
	source   domain.LicenseSource
	ledger   domain.Ledger
	sender   edomain.Sender
	pub      evdomain.Publisher
	log      zerolog.Logger
	now      func() time.Time
}

func New(settings SettingsSource, source domain.LicenseSource, ledger domain.Ledger, sender edomain.Sender) *Service {
	return &Service{
		settings: settings,
		source:   source,
		ledger:   ledger,
		sender:   sender,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
}

func (s *Service) SetLogger(l zerolog.Logger)        { s.log = l }
func (s *Service) SetPublisher(p evdomain.Publisher) { s.pub = p }
func (s *Service) SetClock(now func() time.Time)     { s.now = now }

// ActiveConfig is exposed for the time-gated cron entry point.
func (s *Service) ActiveConfig(ctx context.Context) (sdomain.Config, error) {
	return s.settings.ActiveConfig(ctx)
}

// RunDaily performs one full notification run. Per-license failures are
// folded into the summary; only structural failures (settings, license
// listing, ledger reads) return an error.
func (s *Service) RunDaily(ctx context.Context, trigger string) (domain.RunSummary, error) {
	start := s.now()

	cfg, err := s.settings.ActiveConfig(ctx)
	if err != nil {
		metrics.IncNotifyRun(trigger, "error")
		return domain.RunSummary{}, err
	}

	summary := domain.RunSummary{Offsets: cfg.Offsets}
	if !cfg.Enabled {
		summary.Details = append(summary.Details, "notifications are disabled in settings")
		metrics.IncNotifyRun(trigger, "disabled")
		return summary, nil
	}

	rows, err := s.source.ListActive(ctx)
	if err != nil {
		metrics.IncNotifyRun(trigger, "error")
		return domain.RunSummary{}, fmt.Errorf("list active licenses: %w", err)
	}

	loc, locErr := time.LoadLocation(cfg.Timezone)
	if locErr != nil {
		loc = time.Local
	}
	today := s.now().In(loc)

	for _, cand := range FindDue(cfg, today, rows) {
		if cand.ClientEmail == "" {
			summary.Details = append(summary.Details,
				fmt.Sprintf("skipped %s for %s: client has no email address", cand.ToolName, cand.ClientName))
			metrics.IncNotifyEmail("skipped_no_email")
			continue
		}
		summary.Total++

		dup, err := s.ledger.AlreadyNotified(ctx, cand.LicenseID, cand.DaysUntilExpiry)
		if err != nil {
			metrics.IncNotifyRun(trigger, "error")
			return domain.RunSummary{}, fmt.Errorf("check send ledger: %w", err)
		}
		if dup {
			summary.Details = append(summary.Details,
				fmt.Sprintf("skipped %s for %s: already notified at %d days", cand.ToolName, cand.ClientName, cand.DaysUntilExpiry))
			metrics.IncNotifyEmail("skipped_dedup")
			continue
		}

		subject, body, err := RenderExpiryEmail(cand)
		if err != nil {
			summary.Failed++
			summary.Details = append(summary.Details,
				fmt.Sprintf("failed %s for %s: %v", cand.ToolName, cand.ClientName, err))
			metrics.IncNotifyEmail("failed")
			continue
		}

		err = s.sender.Send(ctx, edomain.Message{To: cand.ClientEmail, Subject: subject, HTMLBody: body})
		if err != nil {
			summary.Failed++
			summary.Details = append(summary.Details,
				fmt.Sprintf("failed %s for %s: %v", cand.ToolName, cand.ClientName, err))
			metrics.IncNotifyEmail("failed")
			s.log.Error().Err(err).
				Str("license_id", cand.LicenseID.String()).
				Str("to", cand.ClientEmail).
				Msg("notification send failed")
			continue
		}

		rec := domain.SendRecord{
			ID:              uuid.New(),
			LicenseID:       cand.LicenseID,
			Recipient:       cand.ClientEmail,
			DaysUntilExpiry: cand.DaysUntilExpiry,
			SentAt:          s.now(),
		}
		if err := s.ledger.Record(ctx, rec); err != nil {
			// The mail is already out; losing the ledger row risks a
			// duplicate on the next run, which is preferable to aborting.
			summary.Details = append(summary.Details,
				fmt.Sprintf("warning: sent %s for %s but ledger write failed: %v", cand.ToolName, cand.ClientName, err))
			s.log.Error().Err(err).Str("license_id", cand.LicenseID.String()).Msg("ledger write failed")
		}
		summary.Sent++
		summary.Details = append(summary.Details,
			fmt.Sprintf("sent %s notification to %s for %s (%d days remaining)", cand.ToolName, cand.ClientEmail, cand.ClientName, cand.DaysUntilExpiry))
		metrics.IncNotifyEmail("sent")
	}

	metrics.IncNotifyRun(trigger, "ok")
	metrics.ObserveRunDuration(s.now().Sub(start))
	s.publish(ctx, "notify.run.completed", map[string]string{
		"trigger": trigger,
		"sent":    strconv.Itoa(summary.Sent),
		"failed":  strconv.Itoa(summary.Failed),
		"total":   strconv.Itoa(summary.Total),
	})
	s.log.Info().
		Str("trigger", trigger).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Int("total", summary.Total).
		Msg("notification run completed")
	return summary, nil
}

// SendTest exercises only the mail transport, bypassing matching and
// dedup. For operational diagnostics.
func (s *Service) SendTest(ctx context.Context, to, subject, body string) error {
	if subject == "" {
		subject = "License desk test email"
	}
	if body == "" {
		body = "<p>This is a test email from the license desk notification system.</p>"
	}
	err := s.sender.Send(ctx, edomain.Message{To: to, Subject: subject, HTMLBody: body})
	if err != nil {
		metrics.IncNotifyRun("test", "error")
		return err
	}
	metrics.IncNotifyRun("test", "ok")
	s.publish(ctx, "notify.test.sent", map[string]string{"to": to, "mode": s.sender.Mode()})
	return nil
}

func (s *Service) publish(ctx context.Context, typ string, meta map[string]string) {
	if s.pub == nil {
		return
	}
	_ = s.pub.Publish(ctx, evdomain.Event{Type: typ, Meta: meta, Time: s.now()})
}
