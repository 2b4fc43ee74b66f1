package domain

import (
	"context"
	"time"
)

// KnownOffsets are the day offsets the settings store can represent,
// most distant first. An offset is the number of whole days before
// expiration at which a notification fires.
var KnownOffsets = []int{45, 30, 15, 7, 5, 1, 0}

// Config is the active notification configuration. Exactly one
// configuration is active per deployment; the most recently created
// row wins if several exist.
type Config struct {
	Offsets   []int  // enabled day offsets, descending
	Enabled   bool   // global kill switch
	NotifyAt  string // daily trigger time, "HH:MM" 24h
	Timezone  string // IANA zone for NotifyAt
	UpdatedAt time.Time
}

// Default returns the configuration used when no row has been saved yet.
// Absence of configuration is a valid, defaulted state, not a failure.
func Default(tz string) Config {
	offsets := make([]int, len(KnownOffsets))
	copy(offsets, KnownOffsets)
	return Config{
		Offsets:  offsets,
		Enabled:  true,
		NotifyAt: "09:00",
		Timezone: tz,
	}
}

// OffsetEnabled reports whether day offset d triggers a notification.
func (c Config) OffsetEnabled(d int) bool {
	for _, o := range c.Offsets {
		if o == d {
			return true
		}
	}
	return false
}

// Service provides access to the active notification configuration.
type Service interface {
	// ActiveConfig never fails on absence; it returns the default then.
	ActiveConfig(ctx context.Context) (Config, error)
	Update(ctx context.Context, c Config) (Config, error)
}

// Repository abstracts storage of the configuration row.
type Repository interface {
	// Latest returns (config, found, err) for the most recent row.
	Latest(ctx context.Context) (Config, bool, error)
	// Upsert creates the row on first write and updates it in place after.
	Upsert(ctx context.Context, c Config) error
}
