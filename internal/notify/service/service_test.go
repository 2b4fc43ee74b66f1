package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	edomain "github.com/cybaemtech/licensedesk/internal/email/domain"
	"github.com/cybaemtech/licensedesk/internal/notify/domain"
	sdomain "github.com/cybaemtech/licensedesk/internal/settings/domain"
)

type stubSettings struct {
	cfg sdomain.Config
	err error
}

func (s stubSettings) ActiveConfig(ctx context.Context) (sdomain.Config, error) {
	return s.cfg, s.err
}

type stubSource struct {
	rows []domain.ExpiringLicense
	err  error
}

func (s stubSource) ListActive(ctx context.Context) ([]domain.ExpiringLicense, error) {
	return s.rows, s.err
}

// memLedger is an in-memory send ledger keyed the same way as the real
// table: (license id, days until expiry).
type memLedger struct {
	rows map[string]domain.SendRecord
	err  error
}

func newMemLedger() *memLedger { return &memLedger{rows: map[string]domain.SendRecord{}} }

func ledgerKey(id uuid.UUID, days int) string { return fmt.Sprintf("%s/%d", id, days) }

func (l *memLedger) AlreadyNotified(ctx context.Context, licenseID uuid.UUID, days int) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	_, ok := l.rows[ledgerKey(licenseID, days)]
	return ok, nil
}

func (l *memLedger) Record(ctx context.Context, rec domain.SendRecord) error {
	if l.err != nil {
		return l.err
	}
	l.rows[ledgerKey(rec.LicenseID, rec.DaysUntilExpiry)] = rec
	return nil
}

type captureSender struct {
	sent    []edomain.Message
	failFor string // recipient that should fail
}

func (c *captureSender) Send(ctx context.Context, m edomain.Message) error {
	if c.failFor != "" && m.To == c.failFor {
		return errors.New("relay rejected message")
	}
	c.sent = append(c.sent, m)
	return nil
}

func (c *captureSender) Mode() string { return "sandbox" }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

var runDay = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func newTestService(cfg sdomain.Config, rows []domain.ExpiringLicense) (*Service, *memLedger, *captureSender) {
	ledger := newMemLedger()
	sender := &captureSender{}
	s := New(stubSettings{cfg: cfg}, stubSource{rows: rows}, ledger, sender)
	s.SetClock(fixedClock(runDay))
	return s, ledger, sender
}

func TestRunDaily_SendsAndRecords(t *testing.T) {
	// One license expiring in exactly 30 days with a valid client email.
	cfg := sdomain.Config{Offsets: []int{30}, Enabled: true, NotifyAt: "09:00", Timezone: "UTC"}
	row := mkRow("CAD Suite", date(2025, 7, 10))
	s, ledger, sender := newTestService(cfg, []domain.ExpiringLicense{row})

	sum, err := s.RunDaily(context.Background(), "manual")
	if err != nil {
		t.Fatalf("RunDaily failed: %v", err)
	}
	if sum.Sent != 1 || sum.Failed != 0 || sum.Total != 1 {
		t.Fatalf("expected sent=1 failed=0 total=1, got %+v", sum)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	if sender.sent[0].To != row.ClientEmail {
		t.Errorf("message sent to %s, want %s", sender.sent[0].To, row.ClientEmail)
	}
	if ok, _ := ledger.AlreadyNotified(context.Background(), row.LicenseID, 30); !ok {
		t.Errorf("expected ledger record at (license, 30) after send")
	}
	if ok, _ := ledger.AlreadyNotified(context.Background(), row.LicenseID, 15); ok {
		t.Errorf("ledger must not match a different offset")
	}
}

func TestRunDaily_SecondRunIsNoOp(t *testing.T) {
	cfg := sdomain.Config{Offsets: []int{30}, Enabled: true, NotifyAt: "09:00", Timezone: "UTC"}
	row := mkRow("CAD Suite", date(2025, 7, 10))
	s, _, sender := newTestService(cfg, []domain.ExpiringLicense{row})

	if _, err := s.RunDaily(context.Background(), "manual"); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	sum, err := s.RunDaily(context.Background(), "manual")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if sum.Sent != 0 || sum.Failed != 0 {
		t.Errorf("second run must not send, got sent=%d failed=%d", sum.Sent, sum.Failed)
	}
	if sum.Total != 1 {
		t.Errorf("total must still count the dedup-skipped license, got %d", sum.Total)
	}
	if len(sender.sent) != 1 {
		t.Errorf("expected exactly one message across both runs, got %d", len(sender.sent))
	}
	found := false
	for _, d := range sum.Details {
		if strings.Contains(d, "already notified") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an already-notified detail line, got %v", sum.Details)
	}
}

func TestRunDaily_DisabledConfig(t *testing.T) {
	cfg := sdomain.Config{Offsets: []int{30}, Enabled: false, NotifyAt: "09:00", Timezone: "UTC"}
	row := mkRow("CAD Suite", date(2025, 7, 10))
	s, _, sender := newTestService(cfg, []domain.ExpiringLicense{row})

	sum, err := s.RunDaily(context.Background(), "manual")
	if err != nil {
		t.Fatalf("RunDaily failed: %v", err)
	}
	if sum.Sent != 0 || sum.Failed != 0 || sum.Total != 0 {
		t.Errorf("disabled run must be empty-effect, got %+v", sum)
	}
	if len(sender.sent) != 0 {
		t.Errorf("disabled run must not send, got %d messages", len(sender.sent))
	}
	if len(sum.Details) == 0 || !strings.Contains(sum.Details[0], "disabled") {
		t.Errorf("expected a disabled detail line, got %v", sum.Details)
	}
}

func TestRunDaily_MissingEmailIsSkipDetail(t *testing.T) {
	cfg := sdomain.Config{Offsets: []int{30}, Enabled: true, NotifyAt: "09:00", Timezone: "UTC"}
	row := mkRow("CAD Suite", date(2025, 7, 10))
	row.ClientEmail = ""
	s, _, sender := newTestService(cfg, []domain.ExpiringLicense{row})

	sum, err := s.RunDaily(context.Background(), "manual")
	if err != nil {
		t.Fatalf("RunDaily failed: %v", err)
	}
	if sum.Sent != 0 || sum.Failed != 0 {
		t.Errorf("missing email must be neither sent nor failed, got %+v", sum)
	}
	if len(sender.sent) != 0 {
		t.Errorf("no message should be sent without an address")
	}
	found := false
	for _, d := range sum.Details {
		if strings.Contains(d, "no email") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a no-email skip detail, got %v", sum.Details)
	}
}

func TestRunDaily_TransportFailureCounted(t *testing.T) {
	cfg := sdomain.Config{Offsets: []int{7}, Enabled: true, NotifyAt: "09:00", Timezone: "UTC"}
	good := mkRow("Good Tool", date(2025, 6, 17))
	bad := mkRow("Bad Tool", date(2025, 6, 17))
	bad.ClientEmail = "reject@acme.test"

	ledger := newMemLedger()
	sender := &captureSender{failFor: "reject@acme.test"}
	s := New(stubSettings{cfg: cfg}, stubSource{rows: []domain.ExpiringLicense{good, bad}}, ledger, sender)
	s.SetClock(fixedClock(runDay))

	sum, err := s.RunDaily(context.Background(), "manual")
	if err != nil {
		t.Fatalf("RunDaily failed: %v", err)
	}
	if sum.Sent != 1 || sum.Failed != 1 || sum.Total != 2 {
		t.Fatalf("expected sent=1 failed=1 total=2, got %+v", sum)
	}
	// The failed license must not get a ledger row; a later run may retry it.
	if ok, _ := ledger.AlreadyNotified(context.Background(), bad.LicenseID, 7); ok {
		t.Errorf("failed send must not be recorded in the ledger")
	}
}

func TestRunDaily_LedgerReadErrorAbortsRun(t *testing.T) {
	cfg := sdomain.Config{Offsets: []int{30}, Enabled: true, NotifyAt: "09:00", Timezone: "UTC"}
	row := mkRow("CAD Suite", date(2025, 7, 10))

	ledger := newMemLedger()
	ledger.err = errors.New("connection refused")
	sender := &captureSender{}
	s := New(stubSettings{cfg: cfg}, stubSource{rows: []domain.ExpiringLicense{row}}, ledger, sender)
	s.SetClock(fixedClock(runDay))

	if _, err := s.RunDaily(context.Background(), "manual"); err == nil {
		t.Fatalf("expected run to abort on ledger read failure")
	}
	if len(sender.sent) != 0 {
		t.Errorf("no message may be sent when the ledger is unreachable")
	}
}

func TestRunDaily_SourceErrorAbortsRun(t *testing.T) {
	cfg := sdomain.Config{Offsets: []int{30}, Enabled: true, NotifyAt: "09:00", Timezone: "UTC"}
	s := New(stubSettings{cfg: cfg}, stubSource{err: errors.New("db down")}, newMemLedger(), &captureSender{})
	s.SetClock(fixedClock(runDay))

	if _, err := s.RunDaily(context.Background(), "manual"); err == nil {
		t.Fatalf("expected run to abort when licenses cannot be loaded")
	}
}

func TestSendTest_BypassesMatching(t *testing.T) {
	cfg := sdomain.Config{Offsets: []int{30}, Enabled: false, NotifyAt: "09:00", Timezone: "UTC"}
	s, _, sender := newTestService(cfg, nil)

	if err := s.SendTest(context.Background(), "op@corp.test", "", ""); err != nil {
		t.Fatalf("SendTest failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one test message, got %d", len(sender.sent))
	}
	m := sender.sent[0]
	if m.To != "op@corp.test" || m.Subject == "" || m.HTMLBody == "" {
		t.Errorf("test message incomplete: %+v", m)
	}
}

func TestRenderExpiryEmail_UrgencyTiers(t *testing.T) {
	cases := []struct {
		days  int
		label string
	}{
		{0, "EXPIRES TODAY"},
		{1, "CRITICAL"},
		{5, "CRITICAL"},
		{6, "WARNING"},
		{15, "WARNING"},
		{16, "NOTICE"},
		{30, "NOTICE"},
		{45, "REMINDER"},
	}
	for _, tc := range cases {
		cand := domain.Candidate{
			ExpiringLicense: mkRow("Tool", date(2025, 7, 10)),
			DaysUntilExpiry: tc.days,
		}
		subject, body, err := RenderExpiryEmail(cand)
		if err != nil {
			t.Fatalf("render failed at %d days: %v", tc.days, err)
		}
		if !strings.Contains(subject, tc.label) {
			t.Errorf("days=%d: subject %q missing label %q", tc.days, subject, tc.label)
		}
		if !strings.Contains(body, tc.label) {
			t.Errorf("days=%d: body missing banner label %q", tc.days, tc.label)
		}
	}
}
