package service

import (
	"time"

	"github.com/cybaemtech/licensedesk/internal/notify/domain"
	sdomain "github.com/cybaemtech/licensedesk/internal/settings/domain"
)

// DaysUntil returns the number of whole calendar days from today until
// expiry, with time-of-day discarded on both sides. Negative once the
// date has passed.
func DaysUntil(expiry, today time.Time) int {
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(t).Hours() / 24)
}

// FindDue selects the licenses whose remaining days match an enabled
// offset. Offsets are defined only for the non-negative remaining-days
// domain, so already-expired licenses never match. Result order is not
// significant.
func FindDue(cfg sdomain.Config, today time.Time, rows []domain.ExpiringLicense) []domain.Candidate {
	var due []domain.Candidate
	for _, row := range rows {
		days := DaysUntil(row.ExpiresAt, today)
		if days < 0 || !cfg.OffsetEnabled(days) {
			continue
		}
		due = append(due, domain.Candidate{ExpiringLicense: row, DaysUntilExpiry: days})
	}
	return due
}
