package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ExpiringLicense is the read model the matcher scans: an active license
// joined to its owning client. Vendor and ClientEmail may be empty.
type ExpiringLicense struct {
	LicenseID   uuid.UUID
	ToolName    string
	Vendor      string
	ExpiresAt   time.Time
	ClientID    uuid.UUID
	ClientName  string
	ClientEmail string
}

// Candidate is a license due for notification at a matched offset.
type Candidate struct {
	ExpiringLicense
	DaysUntilExpiry int
}

// SendRecord is one row of the append-only send ledger. Rows are never
// updated or deleted; the ledger doubles as the audit trail.
type SendRecord struct {
	ID              uuid.UUID
	LicenseID       uuid.UUID
	Recipient       string
	DaysUntilExpiry int
	SentAt          time.Time
}

// RunSummary is the per-invocation result. Total counts every license
// considered due before dedup filtering (sent + failed + dedup-skipped).
type RunSummary struct {
	Sent    int
	Failed  int
	Total   int
	Offsets []int
	Details []string
}

// LicenseSource lists active licenses with a non-null expiration date,
// joined to their clients.
type LicenseSource interface {
	ListActive(ctx context.Context) ([]ExpiringLicense, error)
}

// Ledger is the send-history store backing the dedup guard.
// The check and the record are separate calls with no transaction
// spanning them; two truly concurrent runs can double-send. Accepted
// for the single-operator invocation pattern.
type Ledger interface {
	AlreadyNotified(ctx context.Context, licenseID uuid.UUID, daysUntilExpiry int) (bool, error)
	Record(ctx context.Context, rec SendRecord) error
}
