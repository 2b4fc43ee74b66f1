package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	domain "github.com/cybaemtech/licensedesk/internal/settings/domain"
)

type memRepo struct {
	cfg       domain.Config
	found     bool
	latestErr error
	upsertErr error
}

func (m *memRepo) Latest(ctx context.Context) (domain.Config, bool, error) {
	return m.cfg, m.found, m.latestErr
}

func (m *memRepo) Upsert(ctx context.Context, c domain.Config) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.cfg, m.found = c, true
	return nil
}

func TestActiveConfig_DefaultsWhenAbsent(t *testing.T) {
	svc := New(&memRepo{}, "Asia/Kolkata")
	got, err := svc.ActiveConfig(context.Background())
	if err != nil {
		t.Fatalf("ActiveConfig: %v", err)
	}
	if !got.Enabled {
		t.Error("default config should be enabled")
	}
	if got.NotifyAt != "09:00" {
		t.Errorf("NotifyAt = %q, want 09:00", got.NotifyAt)
	}
	if got.Timezone != "Asia/Kolkata" {
		t.Errorf("Timezone = %q", got.Timezone)
	}
	if !reflect.DeepEqual(got.Offsets, []int{45, 30, 15, 7, 5, 1, 0}) {
		t.Errorf("Offsets = %v", got.Offsets)
	}
}

func TestActiveConfig_StoreErrorPropagates(t *testing.T) {
	svc := New(&memRepo{latestErr: errors.New("pool closed")}, "UTC")
	if _, err := svc.ActiveConfig(context.Background()); err == nil {
		t.Fatal("store failure should not be masked by the default")
	}
}

func TestActiveConfig_FillsEmptyTimezone(t *testing.T) {
	repo := &memRepo{cfg: domain.Config{Offsets: []int{7}, NotifyAt: "10:30"}, found: true}
	svc := New(repo, "Asia/Kolkata")
	got, err := svc.ActiveConfig(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Timezone != "Asia/Kolkata" {
		t.Errorf("Timezone = %q, want deployment default", got.Timezone)
	}
}

func TestUpdate_RoundTrips(t *testing.T) {
	repo := &memRepo{}
	svc := New(repo, "UTC")
	got, err := svc.Update(context.Background(), domain.Config{
		Offsets:  []int{30, 7, 1},
		Enabled:  true,
		NotifyAt: "08:15",
		Timezone: "Europe/Berlin",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !reflect.DeepEqual(got.Offsets, []int{30, 7, 1}) || got.NotifyAt != "08:15" || got.Timezone != "Europe/Berlin" {
		t.Errorf("round trip returned %+v", got)
	}
}

func TestUpdate_RejectsUnknownOffset(t *testing.T) {
	svc := New(&memRepo{}, "UTC")
	_, err := svc.Update(context.Background(), domain.Config{Offsets: []int{30, 10}, NotifyAt: "09:00"})
	if err == nil || !strings.Contains(err.Error(), "unsupported offset 10") {
		t.Fatalf("err = %v, want unsupported-offset rejection", err)
	}
}

func TestUpdate_RejectsBadTime(t *testing.T) {
	svc := New(&memRepo{}, "UTC")
	for _, bad := range []string{"9:00", "24:00", "09:60", "0900", "morning", ""} {
		if _, err := svc.Update(context.Background(), domain.Config{Offsets: []int{7}, NotifyAt: bad}); err == nil {
			t.Errorf("NotifyAt %q accepted, want rejection", bad)
		}
	}
}

func TestUpdate_RejectsBadTimezone(t *testing.T) {
	svc := New(&memRepo{}, "UTC")
	_, err := svc.Update(context.Background(), domain.Config{Offsets: []int{7}, NotifyAt: "09:00", Timezone: "Mars/Olympus"})
	if err == nil {
		t.Fatal("unknown timezone accepted")
	}
}

func TestUpdate_EmptyOffsetsAllowed(t *testing.T) {
	// An empty offset list with Enabled=true means no notifications fire;
	// that is a legal way to quiesce specific alerts without the kill switch.
	repo := &memRepo{}
	svc := New(repo, "UTC")
	got, err := svc.Update(context.Background(), domain.Config{Offsets: nil, Enabled: true, NotifyAt: "09:00"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(got.Offsets) != 0 {
		t.Errorf("Offsets = %v, want empty", got.Offsets)
	}
}
