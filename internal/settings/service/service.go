package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	domain "github.com/cybaemtech/licensedesk/internal/settings/domain"
)

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type Service struct {
	repo      domain.Repository
	defaultTZ string
}

func New(repo domain.Repository, defaultTZ string) *Service {
	return &Service{repo: repo, defaultTZ: defaultTZ}
}

func (s *Service) ActiveConfig(ctx context.Context) (domain.Config, error) {
	c, found, err := s.repo.Latest(ctx)
	if err != nil {
		return domain.Config{}, fmt.Errorf("load notification settings: %w", err)
	}
	if !found {
		return domain.Default(s.defaultTZ), nil
	}
	if c.Timezone == "" {
		c.Timezone = s.defaultTZ
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, c domain.Config) (domain.Config, error) {
	for _, o := range c.Offsets {
		if !inKnown(o) {
			return domain.Config{}, fmt.Errorf("unsupported offset %d (supported: %v)", o, domain.KnownOffsets)
		}
	}
	if !timeOfDayRe.MatchString(c.NotifyAt) {
		return domain.Config{}, fmt.Errorf("invalid notification time %q, want HH:MM", c.NotifyAt)
	}
	if c.Timezone == "" {
		c.Timezone = s.defaultTZ
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return domain.Config{}, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if err := s.repo.Upsert(ctx, c); err != nil {
		return domain.Config{}, fmt.Errorf("save notification settings: %w", err)
	}
	return s.ActiveConfig(ctx)
}

func inKnown(o int) bool {
	for _, k := range domain.KnownOffsets {
		if k == o {
			return true
		}
	}
	return false
}
