package service

import (
	"fmt"
	"time"

	sdomain "github.com/cybaemtech/licensedesk/internal/settings/domain"
)

// CronTolerance is how far from the configured time a cron invocation
// may land and still trigger a run. Wide enough for a */5 cron, narrow
// enough that the cycle cannot fire twice outside ledger protection.
const CronTolerance = 300 * time.Second

// InWindow reports whether now falls within the tolerance window around
// the configured daily time, evaluated in the configured timezone at
// minute granularity. The returned diff is the absolute distance in
// seconds either side of the configured time.
func InWindow(cfg sdomain.Config, now time.Time, tolerance time.Duration) (ok bool, diffSeconds int, err error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return false, 0, fmt.Errorf("invalid configured timezone %q: %w", cfg.Timezone, err)
	}
	at, err := time.Parse("15:04", cfg.NotifyAt)
	if err != nil {
		return false, 0, fmt.Errorf("invalid configured time %q: %w", cfg.NotifyAt, err)
	}

	local := now.In(loc)
	local = time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), 0, 0, loc)
	target := time.Date(local.Year(), local.Month(), local.Day(), at.Hour(), at.Minute(), 0, 0, loc)

	diff := local.Sub(target)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance, int(diff / time.Second), nil
}
